package repository

import (
	"context"
	"errors"

	"github.com/foodlink/foodlink-backend/internal/model"
	"gorm.io/gorm"
)

// ErrInsufficientQuantity means an item's live stock dropped below the
// requested quantity between cart-add and submission.
var ErrInsufficientQuantity = errors.New("requested quantity exceeds available stock")

type PickupRequestRepository interface {
	// CreateGroup inserts every request of one delivery in a single
	// transaction, reserving the requested quantity on each food item. No
	// request becomes visible unless all of them do.
	CreateGroup(ctx context.Context, reqs []model.PickupRequest) error
	FindByDeliveryNumber(ctx context.Context, deliveryNumber string) ([]model.PickupRequest, error)
	ListByDonor(ctx context.Context, donorID uint64, openOnly bool) ([]model.PickupRequest, error)
	ListByReceiver(ctx context.Context, receiverID uint64, openOnly bool) ([]model.PickupRequest, error)
	// UpdateStatusByDeliveryNumber moves every member of the group from
	// the expected current status to the target in one statement. When the
	// target is CANCELLED the reserved quantities are handed back to the
	// items in the same transaction. Returns the number of updated rows;
	// zero means the group changed underneath the caller.
	UpdateStatusByDeliveryNumber(ctx context.Context, deliveryNumber string, from, to model.PickupStatus) (int64, error)
	SetDB(db *gorm.DB)
}

type pickupRequestRepository struct {
	db *gorm.DB
}

func NewPickupRequestRepository(db *gorm.DB) PickupRequestRepository {
	return &pickupRequestRepository{db: db}
}

func (r *pickupRequestRepository) CreateGroup(ctx context.Context, reqs []model.PickupRequest) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range reqs {
			res := tx.Model(&model.FoodItem{}).
				Where("id = ? AND quantity >= ?", reqs[i].FoodItemID, reqs[i].Quantity).
				Update("quantity", gorm.Expr("quantity - ?", reqs[i].Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientQuantity
			}
		}
		return tx.Create(&reqs).Error
	})
}

func (r *pickupRequestRepository) FindByDeliveryNumber(ctx context.Context, deliveryNumber string) ([]model.PickupRequest, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.PickupRequest
	if err := r.db.WithContext(ctx).
		Where("delivery_number = ?", deliveryNumber).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *pickupRequestRepository) ListByDonor(ctx context.Context, donorID uint64, openOnly bool) ([]model.PickupRequest, error) {
	return r.list(ctx, "donor_id = ?", donorID, openOnly)
}

func (r *pickupRequestRepository) ListByReceiver(ctx context.Context, receiverID uint64, openOnly bool) ([]model.PickupRequest, error) {
	return r.list(ctx, "receiver_id = ?", receiverID, openOnly)
}

func (r *pickupRequestRepository) list(ctx context.Context, cond string, id uint64, openOnly bool) ([]model.PickupRequest, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	q := r.db.WithContext(ctx).Where(cond, id)
	if openOnly {
		q = q.Where("status IN ?", []model.PickupStatus{model.StatusPending, model.StatusConfirmed})
	}
	var list []model.PickupRequest
	if err := q.Order("delivery_number ASC, id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *pickupRequestRepository) UpdateStatusByDeliveryNumber(ctx context.Context, deliveryNumber string, from, to model.PickupStatus) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	var updated int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var members []model.PickupRequest
		if to == model.StatusCancelled {
			if err := tx.Where("delivery_number = ? AND status = ?", deliveryNumber, from).
				Find(&members).Error; err != nil {
				return err
			}
		}
		res := tx.Model(&model.PickupRequest{}).
			Where("delivery_number = ? AND status = ?", deliveryNumber, from).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		updated = res.RowsAffected
		if updated == 0 {
			return nil
		}
		for _, m := range members {
			if err := tx.Model(&model.FoodItem{}).
				Where("id = ?", m.FoodItemID).
				Update("quantity", gorm.Expr("quantity + ?", m.Quantity)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return updated, err
}

func (r *pickupRequestRepository) SetDB(db *gorm.DB) {
	r.db = db
}
