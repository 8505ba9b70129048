package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/foodlink/foodlink-backend/internal/model"
	"github.com/foodlink/foodlink-backend/internal/repository"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")
var ErrForbidden = errors.New("forbidden")

const dateLayout = "2006-01-02"

type FoodItemService interface {
	Create(ctx context.Context, donor *model.User, name string, quantity uint, expiryDate, pickupLocation string, lat, lng *float64) (*model.FoodItem, error)
	Get(ctx context.Context, id uint64) (*model.FoodItem, error)
	Update(ctx context.Context, donor *model.User, item *model.FoodItem) (*model.FoodItem, error)
	Delete(ctx context.Context, donor *model.User, id uint64) error
	List(ctx context.Context, f repository.FoodItemFilter) ([]model.FoodItem, int64, error)
	AttachPhoto(ctx context.Context, donor *model.User, itemID uint64, url string) (*model.FoodItemPhoto, error)
	CleanupExpired(ctx context.Context) (int64, error)
}

type foodItemService struct {
	repo repository.FoodItemRepository
}

func NewFoodItemService(repo repository.FoodItemRepository) FoodItemService {
	return &foodItemService{repo: repo}
}

func (s *foodItemService) Create(ctx context.Context, donor *model.User, name string, quantity uint, expiryDate, pickupLocation string, lat, lng *float64) (*model.FoodItem, error) {
	if donor.Role != model.RoleDonor {
		return nil, ErrForbidden
	}
	name = strings.TrimSpace(name)
	pickupLocation = strings.TrimSpace(pickupLocation)
	if name == "" || len(name) > 255 {
		return nil, errors.New("invalid name")
	}
	if quantity < 1 {
		return nil, errors.New("quantity must be at least 1")
	}
	if pickupLocation == "" {
		return nil, errors.New("pickup location is required")
	}
	expiry, err := time.Parse(dateLayout, expiryDate)
	if err != nil {
		return nil, errors.New("expiry date must be YYYY-MM-DD")
	}
	if expiry.Before(time.Now().Truncate(24 * time.Hour)) {
		return nil, errors.New("expiry date is in the past")
	}

	item := &model.FoodItem{
		DonorID:         donor.ID,
		Name:            name,
		Quantity:        quantity,
		ExpiryDate:      expiry.Format(dateLayout),
		PickupLocation:  pickupLocation,
		PickupLatitude:  lat,
		PickupLongitude: lng,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, mapRepoErr(err)
	}
	return item, nil
}

func (s *foodItemService) Get(ctx context.Context, id uint64) (*model.FoodItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return item, nil
}

func (s *foodItemService) Update(ctx context.Context, donor *model.User, item *model.FoodItem) (*model.FoodItem, error) {
	existing, err := s.repo.FindByID(ctx, item.ID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if existing.DonorID != donor.ID {
		return nil, ErrForbidden
	}
	item.DonorID = existing.DonorID
	item.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, mapRepoErr(err)
	}
	return item, nil
}

func (s *foodItemService) Delete(ctx context.Context, donor *model.User, id uint64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepoErr(err)
	}
	if existing.DonorID != donor.ID {
		return ErrForbidden
	}
	return mapRepoErr(s.repo.Delete(ctx, id))
}

func (s *foodItemService) List(ctx context.Context, f repository.FoodItemFilter) ([]model.FoodItem, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, mapRepoErr(err)
	}
	return items, total, nil
}

func (s *foodItemService) AttachPhoto(ctx context.Context, donor *model.User, itemID uint64, url string) (*model.FoodItemPhoto, error) {
	existing, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if existing.DonorID != donor.ID {
		return nil, ErrForbidden
	}
	photo := &model.FoodItemPhoto{FoodItemID: itemID, URL: url}
	if err := s.repo.AddPhoto(ctx, photo); err != nil {
		return nil, mapRepoErr(err)
	}
	return photo, nil
}

func (s *foodItemService) CleanupExpired(ctx context.Context) (int64, error) {
	today := time.Now().Format(dateLayout)
	n, err := s.repo.DeleteExpired(ctx, today)
	if err != nil {
		return 0, mapRepoErr(err)
	}
	return n, nil
}

// mapRepoErr translates persistence failures into the service taxonomy.
func mapRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDBNotReady):
		return ErrUpstreamUnavailable
	default:
		return err
	}
}
