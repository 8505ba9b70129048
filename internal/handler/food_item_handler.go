package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/foodlink/foodlink-backend/internal/model"
	"github.com/foodlink/foodlink-backend/internal/repository"
	"github.com/foodlink/foodlink-backend/internal/service"
	"github.com/foodlink/foodlink-backend/internal/storage"
	"github.com/labstack/echo/v4"
)

type FoodItemHandler struct {
	svc        service.FoodItemService
	users      service.UserService
	uploader   storage.Uploader
	adminToken string
}

func NewFoodItemHandler(svc service.FoodItemService, users service.UserService, uploader storage.Uploader, adminToken string) *FoodItemHandler {
	return &FoodItemHandler{svc: svc, users: users, uploader: uploader, adminToken: adminToken}
}

type FoodItemResponse struct {
	ID              uint64   `json:"id"`
	DonorID         uint64   `json:"donorId"`
	Name            string   `json:"name"`
	Quantity        uint     `json:"quantity"`
	ExpiryDate      string   `json:"expiryDate"`
	PickupLocation  string   `json:"pickupLocation"`
	PickupLatitude  *float64 `json:"pickupLatitude,omitempty"`
	PickupLongitude *float64 `json:"pickupLongitude,omitempty"`
	PhotoURLs       []string `json:"photoUrls"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

type FoodItemListResponse struct {
	Items []FoodItemResponse `json:"items"`
	Total int64              `json:"total"`
}

type CreateFoodItemRequest struct {
	Name            string   `json:"name"`
	Quantity        uint     `json:"quantity"`
	ExpiryDate      string   `json:"expiryDate"`
	PickupLocation  string   `json:"pickupLocation"`
	PickupLatitude  *float64 `json:"pickupLatitude"`
	PickupLongitude *float64 `json:"pickupLongitude"`
}

func toFoodItemResponse(item *model.FoodItem) FoodItemResponse {
	urls := make([]string, 0, len(item.Photos))
	for _, p := range item.Photos {
		urls = append(urls, p.URL)
	}
	return FoodItemResponse{
		ID:              item.ID,
		DonorID:         item.DonorID,
		Name:            item.Name,
		Quantity:        item.Quantity,
		ExpiryDate:      item.ExpiryDate,
		PickupLocation:  item.PickupLocation,
		PickupLatitude:  item.PickupLatitude,
		PickupLongitude: item.PickupLongitude,
		PhotoURLs:       urls,
		CreatedAt:       item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       item.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *FoodItemHandler) Create(c echo.Context) error {
	u, err := requireUser(c, h.users)
	if err != nil {
		return err
	}
	var req CreateFoodItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	item, err := h.svc.Create(c.Request().Context(), u, req.Name, req.Quantity, req.ExpiryDate, req.PickupLocation, req.PickupLatitude, req.PickupLongitude)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toFoodItemResponse(item))
}

func (h *FoodItemHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	item, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toFoodItemResponse(item))
}

func (h *FoodItemHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	donorID, _ := strconv.ParseUint(c.QueryParam("donorId"), 10, 64)
	f := repository.FoodItemFilter{
		DonorID: donorID,
		Query:   c.QueryParam("q"),
		Limit:   limit,
		Offset:  offset,
	}
	if latS, lngS := c.QueryParam("lat"), c.QueryParam("lng"); latS != "" && lngS != "" {
		lat, latErr := strconv.ParseFloat(latS, 64)
		lng, lngErr := strconv.ParseFloat(lngS, 64)
		radius, _ := strconv.ParseFloat(c.QueryParam("radiusKm"), 64)
		if latErr == nil && lngErr == nil {
			if radius <= 0 {
				radius = 10
			}
			f.Lat, f.Lng, f.RadiusKm = &lat, &lng, radius
		}
	}
	items, total, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return respondServiceError(c, err)
	}
	resp := FoodItemListResponse{
		Items: make([]FoodItemResponse, 0, len(items)),
		Total: total,
	}
	for i := range items {
		resp.Items = append(resp.Items, toFoodItemResponse(&items[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *FoodItemHandler) Update(c echo.Context) error {
	u, err := requireUser(c, h.users)
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req CreateFoodItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	item := &model.FoodItem{
		ID:              id,
		Name:            req.Name,
		Quantity:        req.Quantity,
		ExpiryDate:      req.ExpiryDate,
		PickupLocation:  req.PickupLocation,
		PickupLatitude:  req.PickupLatitude,
		PickupLongitude: req.PickupLongitude,
	}
	item, err = h.svc.Update(c.Request().Context(), u, item)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toFoodItemResponse(item))
}

func (h *FoodItemHandler) Delete(c echo.Context) error {
	u, err := requireUser(c, h.users)
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	if err := h.svc.Delete(c.Request().Context(), u, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FoodItemHandler) UploadPhoto(c echo.Context) error {
	u, err := requireUser(c, h.users)
	if err != nil {
		return err
	}
	if h.uploader == nil {
		return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("upstream_unavailable", "photo storage not configured"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	fh, err := c.FormFile("photo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "photo file is required"))
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "cannot read photo"))
	}
	defer src.Close()
	url, err := h.uploader.Upload(c.Request().Context(), src, fh.Header.Get("Content-Type"))
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("upstream_unavailable", "photo upload failed"))
	}
	photo, err := h.svc.AttachPhoto(c.Request().Context(), u, id, url)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"id": photo.ID, "url": photo.URL})
}

// CleanupExpired removes expired items that no open delivery references.
// Exposed as an admin call instead of a background job so every mutation
// stays request-scoped. Gated on the operator token, not the caller's
// role; without a configured token the endpoint stays closed.
func (h *FoodItemHandler) CleanupExpired(c echo.Context) error {
	if h.adminToken == "" || c.Request().Header.Get("X-Admin-Token") != h.adminToken {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "operator token required"))
	}
	n, err := h.svc.CleanupExpired(c.Request().Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"removed": n})
}
