package handler

import (
	"net/http"
	"time"

	"github.com/foodlink/foodlink-backend/internal/model"
	"github.com/foodlink/foodlink-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type PickupHandler struct {
	svc   service.PickupService
	users service.UserService
}

func NewPickupHandler(svc service.PickupService, users service.UserService) *PickupHandler {
	return &PickupHandler{svc: svc, users: users}
}

// PendingDeliveries renders the caller's dashboard list: deliveries still
// PENDING or CONFIRMED, grouped by delivery number. Donors see incoming
// requests, receivers their outgoing ones.
func (h *PickupHandler) PendingDeliveries(c echo.Context) error {
	u, err := requireUser(c, h.users)
	if err != nil {
		return err
	}
	var groups []service.DeliveryGroup
	if u.Role == model.RoleDonor {
		groups, err = h.svc.PendingForDonor(c.Request().Context(), u.ID)
	} else {
		groups, err = h.svc.PendingForReceiver(c.Request().Context(), u.ID)
	}
	if err != nil {
		return respondServiceError(c, err)
	}
	resp := make([]DeliveryGroupResponse, 0, len(groups))
	for i := range groups {
		resp = append(resp, toDeliveryGroupResponse(&groups[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// DeliveryHistory returns every delivery the caller was ever part of,
// terminal ones included.
func (h *PickupHandler) DeliveryHistory(c echo.Context) error {
	u, err := requireUser(c, h.users)
	if err != nil {
		return err
	}
	groups, err := h.svc.HistoryForUser(c.Request().Context(), u)
	if err != nil {
		return respondServiceError(c, err)
	}
	resp := make([]DeliveryGroupResponse, 0, len(groups))
	for i := range groups {
		resp = append(resp, toDeliveryGroupResponse(&groups[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *PickupHandler) UpdateStatus(c echo.Context) error {
	u, err := requireUser(c, h.users)
	if err != nil {
		return err
	}
	deliveryNumber := c.Param("deliveryNumber")
	if deliveryNumber == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "missing delivery number"))
	}
	var req StatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	target, err := model.ParsePickupStatus(req.Status)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	members, err := h.svc.Transition(c.Request().Context(), deliveryNumber, target, u)
	if err != nil {
		return respondServiceError(c, err)
	}
	reqs := make([]PickupRequestPayload, 0, len(members))
	for _, m := range members {
		reqs = append(reqs, PickupRequestPayload{
			ID:         m.ID,
			FoodItemID: m.FoodItemID,
			Quantity:   m.Quantity,
			Status:     string(m.Status),
			CreatedAt:  m.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"deliveryNumber": deliveryNumber,
		"status":         string(target),
		"requests":       reqs,
	})
}
