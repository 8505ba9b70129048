package handler

import (
	"errors"
	"net/http"

	"github.com/foodlink/foodlink-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// respondServiceError maps the service error taxonomy onto HTTP statuses
// with stable error codes, so the client can render a specific message for
// each failure mode.
func respondServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "no longer available"))
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
	case errors.Is(err, service.ErrEmptyCart):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("empty_cart", "cart is empty"))
	case errors.Is(err, service.ErrMixedDonorCart):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("mixed_donor_cart", "all items in one delivery must come from the same donor"))
	case errors.Is(err, service.ErrInvalidPickupWindow):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_pickup_window", "pickup date or time is outside the donor's window"))
	case errors.Is(err, service.ErrInsufficientQuantity):
		return c.JSON(http.StatusConflict, NewErrorResponse("insufficient_quantity", "requested quantity is no longer available"))
	case errors.Is(err, service.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, NewErrorResponse("invalid_transition", "delivery status does not allow this change"))
	case errors.Is(err, service.ErrUpstreamUnavailable):
		return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("upstream_unavailable", "storage is unreachable, please retry"))
	default:
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
}
