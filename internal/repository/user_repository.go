package repository

import (
	"context"
	"errors"

	"github.com/foodlink/foodlink-backend/internal/model"
	"gorm.io/gorm"
)

var ErrDBNotReady = errors.New("database not initialized")

type UserRepository interface {
	Upsert(ctx context.Context, u *model.User) error
	FindByUID(ctx context.Context, uid string) (*model.User, error)
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	FindByIDs(ctx context.Context, ids []uint64) (map[uint64]model.User, error)
	UpdateAvailability(ctx context.Context, id uint64, from, to string) error
	SetDB(db *gorm.DB)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Upsert(ctx context.Context, u *model.User) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	var existing model.User
	err := r.db.WithContext(ctx).Where("uid = ?", u.UID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(u).Error
	}
	if err != nil {
		return err
	}
	u.ID = existing.ID
	u.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *userRepository) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var u model.User
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]model.User, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	byID := make(map[uint64]model.User, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	var list []model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	for _, u := range list {
		byID[u.ID] = u
	}
	return byID, nil
}

func (r *userRepository) UpdateAvailability(ctx context.Context, id uint64, from, to string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"availability_time_from": from,
			"availability_time_to":   to,
		}).Error
}

func (r *userRepository) SetDB(db *gorm.DB) {
	r.db = db
}
