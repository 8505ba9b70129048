package repository

import (
	"context"
	"fmt"

	"github.com/foodlink/foodlink-backend/internal/model"
	"gorm.io/gorm"
)

// FoodItemFilter narrows a catalog listing. Proximity filtering uses a flat
// bounding box around the given point; exact geodesic distance is out of
// scope for the catalog.
type FoodItemFilter struct {
	DonorID  uint64
	Query    string
	Lat      *float64
	Lng      *float64
	RadiusKm float64
	Limit    int
	Offset   int
}

type FoodItemRepository interface {
	Create(ctx context.Context, item *model.FoodItem) error
	FindByID(ctx context.Context, id uint64) (*model.FoodItem, error)
	Update(ctx context.Context, item *model.FoodItem) error
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context, f FoodItemFilter) ([]model.FoodItem, int64, error)
	AddPhoto(ctx context.Context, photo *model.FoodItemPhoto) error
	DeleteExpired(ctx context.Context, before string) (int64, error)
	SetDB(db *gorm.DB)
}

type foodItemRepository struct {
	db *gorm.DB
}

func NewFoodItemRepository(db *gorm.DB) FoodItemRepository {
	return &foodItemRepository{db: db}
}

func (r *foodItemRepository) Create(ctx context.Context, item *model.FoodItem) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *foodItemRepository) FindByID(ctx context.Context, id uint64) (*model.FoodItem, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var item model.FoodItem
	if err := r.db.WithContext(ctx).Preload("Photos").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *foodItemRepository) Update(ctx context.Context, item *model.FoodItem) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *foodItemRepository) Delete(ctx context.Context, id uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Delete(&model.FoodItem{}, id).Error
}

func (r *foodItemRepository) List(ctx context.Context, f FoodItemFilter) ([]model.FoodItem, int64, error) {
	if r.db == nil {
		return nil, 0, ErrDBNotReady
	}
	q := r.db.WithContext(ctx).Model(&model.FoodItem{}).Where("quantity > 0")
	if f.DonorID != 0 {
		q = q.Where("donor_id = ?", f.DonorID)
	}
	if f.Query != "" {
		q = q.Where("name LIKE ?", "%"+f.Query+"%")
	}
	orderExpr := "created_at desc"
	if f.Lat != nil && f.Lng != nil && f.RadiusKm > 0 {
		// One degree of latitude is ~111 km; close enough for a catalog box.
		delta := f.RadiusKm / 111.0
		q = q.Where("pickup_latitude BETWEEN ? AND ?", *f.Lat-delta, *f.Lat+delta).
			Where("pickup_longitude BETWEEN ? AND ?", *f.Lng-delta, *f.Lng+delta)
		orderExpr = fmt.Sprintf(
			"(pickup_latitude - %[1]f) * (pickup_latitude - %[1]f) + (pickup_longitude - %[2]f) * (pickup_longitude - %[2]f) asc",
			*f.Lat, *f.Lng)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []model.FoodItem
	if err := q.Preload("Photos").
		Order(orderExpr).
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *foodItemRepository) AddPhoto(ctx context.Context, photo *model.FoodItemPhoto) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(photo).Error
}

// DeleteExpired removes items whose expiry date has passed and that no
// open delivery still references. Returns the number of removed items.
func (r *foodItemRepository) DeleteExpired(ctx context.Context, before string) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Where("expiry_date < ?", before).
		Where("id NOT IN (?)", r.db.
			Model(&model.PickupRequest{}).
			Select("food_item_id").
			Where("status IN ?", []model.PickupStatus{model.StatusPending, model.StatusConfirmed})).
		Delete(&model.FoodItem{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *foodItemRepository) SetDB(db *gorm.DB) {
	r.db = db
}
