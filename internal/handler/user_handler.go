package handler

import (
	"net/http"
	"strconv"

	"github.com/foodlink/foodlink-backend/internal/model"
	"github.com/foodlink/foodlink-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// requireUser resolves the authenticated uid to its profile. Handlers that
// need a role or an owner check go through here.
func requireUser(c echo.Context, svc service.UserService) (*model.User, error) {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing uid")
	}
	u, err := svc.GetByUID(c.Request().Context(), uid)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "profile not registered")
	}
	return u, nil
}

type ProfileRequest struct {
	Username             string   `json:"username"`
	Email                string   `json:"email"`
	Role                 string   `json:"role"`
	Address              *string  `json:"address"`
	Latitude             *float64 `json:"latitude"`
	Longitude            *float64 `json:"longitude"`
	AvailabilityTimeFrom string   `json:"availabilityTimeFrom"`
	AvailabilityTimeTo   string   `json:"availabilityTimeTo"`
}

type UserResponse struct {
	ID                   uint64   `json:"id"`
	Username             string   `json:"username"`
	Email                string   `json:"email,omitempty"`
	Role                 string   `json:"role"`
	Address              *string  `json:"address,omitempty"`
	Latitude             *float64 `json:"latitude,omitempty"`
	Longitude            *float64 `json:"longitude,omitempty"`
	AvailabilityTimeFrom string   `json:"availabilityTimeFrom,omitempty"`
	AvailabilityTimeTo   string   `json:"availabilityTimeTo,omitempty"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:                   u.ID,
		Username:             u.Username,
		Email:                u.Email,
		Role:                 string(u.Role),
		Address:              u.Address,
		Latitude:             u.Latitude,
		Longitude:            u.Longitude,
		AvailabilityTimeFrom: u.AvailabilityTimeFrom,
		AvailabilityTimeTo:   u.AvailabilityTimeTo,
	}
}

func (h *UserHandler) UpsertProfile(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	u := &model.User{
		UID:                  uid,
		Username:             req.Username,
		Email:                req.Email,
		Role:                 model.UserRole(req.Role),
		Address:              req.Address,
		Latitude:             req.Latitude,
		Longitude:            req.Longitude,
		AvailabilityTimeFrom: req.AvailabilityTimeFrom,
		AvailabilityTimeTo:   req.AvailabilityTimeTo,
	}
	u, err := h.svc.UpsertProfile(c.Request().Context(), u)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

func (h *UserHandler) Me(c echo.Context) error {
	u, err := requireUser(c, h.svc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

type AvailabilityRequest struct {
	AvailabilityTimeFrom string `json:"availabilityTimeFrom"`
	AvailabilityTimeTo   string `json:"availabilityTimeTo"`
}

func (h *UserHandler) UpdateAvailability(c echo.Context) error {
	u, err := requireUser(c, h.svc)
	if err != nil {
		return err
	}
	var req AvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if err := h.svc.UpdateAvailability(c.Request().Context(), u.ID, req.AvailabilityTimeFrom, req.AvailabilityTimeTo); err != nil {
		return respondServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetPublic exposes the counterpart-facing subset of a profile: name,
// role, and for donors the availability window the checkout page needs.
func (h *UserHandler) GetPublic(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	u, err := h.svc.GetPublic(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	resp := UserResponse{
		ID:                   u.ID,
		Username:             u.Username,
		Role:                 string(u.Role),
		AvailabilityTimeFrom: u.AvailabilityTimeFrom,
		AvailabilityTimeTo:   u.AvailabilityTimeTo,
	}
	return c.JSON(http.StatusOK, resp)
}

type SlotsResponse struct {
	DonorID uint64   `json:"donorId"`
	Slots   []string `json:"slots"`
}

func (h *UserHandler) GetSlots(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	slots, err := h.svc.Slots(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, SlotsResponse{DonorID: id, Slots: slots})
}
