package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/foodlink/foodlink-backend/internal/cart"
	"github.com/foodlink/foodlink-backend/internal/model"
	"github.com/foodlink/foodlink-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	carts   *cart.Store
	items   service.FoodItemService
	users   service.UserService
	pickups service.PickupService
}

func NewCartHandler(carts *cart.Store, items service.FoodItemService, users service.UserService, pickups service.PickupService) *CartHandler {
	return &CartHandler{carts: carts, items: items, users: users, pickups: pickups}
}

type CartResponse struct {
	DonorID    uint64      `json:"donorId,omitempty"`
	DonorName  string      `json:"donorName,omitempty"`
	Lines      []cart.Line `json:"lines"`
	TotalUnits uint        `json:"totalUnits"`
}

func toCartResponse(s cart.Snapshot) CartResponse {
	lines := s.Lines
	if lines == nil {
		lines = []cart.Line{}
	}
	return CartResponse{
		DonorID:    s.DonorID,
		DonorName:  s.DonorName,
		Lines:      lines,
		TotalUnits: s.TotalRequestedUnits(),
	}
}

func (h *CartHandler) Get(c echo.Context) error {
	u, err := requireUser(c, h.users)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(h.carts.Get(u.ID).Snapshot()))
}

type AddCartItemRequest struct {
	ItemID            uint64 `json:"itemId"`
	RequestedQuantity uint   `json:"requestedQuantity"`
}

func (h *CartHandler) AddItem(c echo.Context) error {
	u, err := requireUser(c, h.users)
	if err != nil {
		return err
	}
	if u.Role != model.RoleReceiver {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "only receivers build carts"))
	}
	var req AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	item, err := h.items.Get(c.Request().Context(), req.ItemID)
	if err != nil {
		return respondServiceError(c, err)
	}
	donor, err := h.users.GetPublic(c.Request().Context(), item.DonorID)
	if err != nil {
		return respondServiceError(c, err)
	}
	cc := h.carts.Get(u.ID)
	if err := cc.AddOrUpdate(item, donor.Username, req.RequestedQuantity); err != nil {
		switch {
		case errors.Is(err, cart.ErrInvalidQuantity):
			return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_quantity", "requested quantity must be between 1 and the available stock"))
		case errors.Is(err, cart.ErrDonorMismatch):
			// The client narrows its catalog to the cart's donor on this code.
			return c.JSON(http.StatusConflict, NewErrorResponse("donor_mismatch", "cart already holds items from another donor"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusOK, toCartResponse(cc.Snapshot()))
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	u, err := requireUser(c, h.users)
	if err != nil {
		return err
	}
	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid item id"))
	}
	cc := h.carts.Get(u.ID)
	cc.Remove(itemID)
	return c.JSON(http.StatusOK, toCartResponse(cc.Snapshot()))
}

func (h *CartHandler) Clear(c echo.Context) error {
	u, err := requireUser(c, h.users)
	if err != nil {
		return err
	}
	h.carts.Drop(u.ID)
	return c.NoContent(http.StatusNoContent)
}

type CheckoutRequest struct {
	PickupDate string `json:"pickupDate"` // YYYY-MM-DD
	PickupTime string `json:"pickupTime"` // HH:MM
}

type DeliveryGroupResponse struct {
	DeliveryNumber  string                 `json:"deliveryNumber"`
	Status          string                 `json:"status"`
	PickupDate      string                 `json:"pickupDate"`
	PickupDateLabel string                 `json:"pickupDateLabel"`
	PickupTime      string                 `json:"pickupTime"`
	CounterpartName string                 `json:"counterpartName"`
	Requests        []PickupRequestPayload `json:"requests"`
}

type PickupRequestPayload struct {
	ID         uint64 `json:"id"`
	FoodItemID uint64 `json:"foodItemId"`
	Quantity   uint   `json:"quantity"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
}

func toDeliveryGroupResponse(g *service.DeliveryGroup) DeliveryGroupResponse {
	reqs := make([]PickupRequestPayload, 0, len(g.Requests))
	for _, r := range g.Requests {
		reqs = append(reqs, PickupRequestPayload{
			ID:         r.ID,
			FoodItemID: r.FoodItemID,
			Quantity:   r.Quantity,
			Status:     string(r.Status),
			CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		})
	}
	return DeliveryGroupResponse{
		DeliveryNumber:  g.DeliveryNumber,
		Status:          string(g.Status),
		PickupDate:      g.PickupDate,
		PickupDateLabel: formatPickupDate(g.PickupDate),
		PickupTime:      g.PickupTime,
		CounterpartName: g.CounterpartName,
		Requests:        reqs,
	}
}

// Checkout submits the cart as one delivery. The cart is consumed only on
// success; on any failure it stays intact for the receiver to fix and retry.
func (h *CartHandler) Checkout(c echo.Context) error {
	u, err := requireUser(c, h.users)
	if err != nil {
		return err
	}
	if u.Role != model.RoleReceiver {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "only receivers check out"))
	}
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	cc := h.carts.Get(u.ID)
	group, err := h.pickups.Submit(c.Request().Context(), u.ID, cc, req.PickupDate, req.PickupTime)
	if err != nil {
		return respondServiceError(c, err)
	}
	h.carts.Drop(u.ID)
	return c.JSON(http.StatusCreated, toDeliveryGroupResponse(group))
}
