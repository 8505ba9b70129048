package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foodlink/foodlink-backend/internal/model"
	"github.com/foodlink/foodlink-backend/internal/repository"
	"github.com/labstack/echo/v4"
)

type stubItemService struct {
	removed      int64
	cleanupCalls int
}

func (s *stubItemService) Create(context.Context, *model.User, string, uint, string, string, *float64, *float64) (*model.FoodItem, error) {
	return nil, nil
}

func (s *stubItemService) Get(context.Context, uint64) (*model.FoodItem, error) { return nil, nil }

func (s *stubItemService) Update(context.Context, *model.User, *model.FoodItem) (*model.FoodItem, error) {
	return nil, nil
}

func (s *stubItemService) Delete(context.Context, *model.User, uint64) error { return nil }

func (s *stubItemService) List(context.Context, repository.FoodItemFilter) ([]model.FoodItem, int64, error) {
	return nil, 0, nil
}

func (s *stubItemService) AttachPhoto(context.Context, *model.User, uint64, string) (*model.FoodItemPhoto, error) {
	return nil, nil
}

func (s *stubItemService) CleanupExpired(context.Context) (int64, error) {
	s.cleanupCalls++
	return s.removed, nil
}

func cleanupContext(token string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/admin/items/expired", nil)
	if token != "" {
		req.Header.Set("X-Admin-Token", token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCleanupExpiredRequiresOperatorToken(t *testing.T) {
	tests := []struct {
		name        string
		configured  string
		sent        string
		wantStatus  int
		wantCleanup int
	}{
		{"matching token", "s3cret", "s3cret", http.StatusOK, 1},
		{"wrong token", "s3cret", "nope", http.StatusForbidden, 0},
		{"missing token", "s3cret", "", http.StatusForbidden, 0},
		{"endpoint closed when unconfigured", "", "", http.StatusForbidden, 0},
		{"empty config rejects empty header", "", "s3cret", http.StatusForbidden, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubItemService{removed: 3}
			h := NewFoodItemHandler(svc, nil, nil, tt.configured)
			c, rec := cleanupContext(tt.sent)
			if err := h.CleanupExpired(c); err != nil {
				t.Fatalf("CleanupExpired: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("status=%d want %d", rec.Code, tt.wantStatus)
			}
			if svc.cleanupCalls != tt.wantCleanup {
				t.Fatalf("cleanup ran %d times, want %d", svc.cleanupCalls, tt.wantCleanup)
			}
		})
	}
}
