package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/foodlink/foodlink-backend/internal/model"
	"github.com/foodlink/foodlink-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type NotificationHandler struct {
	svc   service.NotificationService
	users service.UserService
}

func NewNotificationHandler(svc service.NotificationService, users service.UserService) *NotificationHandler {
	return &NotificationHandler{svc: svc, users: users}
}

type NotificationResponse struct {
	ID             uint64  `json:"id"`
	Type           string  `json:"type"`
	Title          string  `json:"title"`
	Body           string  `json:"body"`
	FoodItemID     *uint64 `json:"foodItemId,omitempty"`
	DeliveryNumber *string `json:"deliveryNumber,omitempty"`
	Read           bool    `json:"read"`
	CreatedAt      string  `json:"createdAt"`
}

func toNotificationResponse(n model.Notification) NotificationResponse {
	return NotificationResponse{
		ID:             n.ID,
		Type:           n.Type,
		Title:          n.Title,
		Body:           n.Body,
		FoodItemID:     n.FoodItemID,
		DeliveryNumber: n.DeliveryNumber,
		Read:           n.ReadAt != nil,
		CreatedAt:      n.CreatedAt.Format(time.RFC3339),
	}
}

func (h *NotificationHandler) List(c echo.Context) error {
	u, err := requireUser(c, h.users)
	if err != nil {
		return err
	}
	unreadOnly := c.QueryParam("unread") == "true"
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	list, unread, err := h.svc.List(c.Request().Context(), u.ID, unreadOnly, limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	resp := make([]NotificationResponse, 0, len(list))
	for _, n := range list {
		resp = append(resp, toNotificationResponse(n))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"notifications": resp,
		"unreadCount":   unread,
	})
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	u, err := requireUser(c, h.users)
	if err != nil {
		return err
	}
	if err := h.svc.MarkAllRead(c.Request().Context(), u.ID); err != nil {
		return respondServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
