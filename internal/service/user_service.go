package service

import (
	"context"
	"errors"
	"strings"

	"github.com/foodlink/foodlink-backend/internal/model"
	"github.com/foodlink/foodlink-backend/internal/repository"
	"github.com/foodlink/foodlink-backend/internal/schedule"
)

type UserService interface {
	// UpsertProfile creates or refreshes the profile bound to a verified
	// identity uid.
	UpsertProfile(ctx context.Context, u *model.User) (*model.User, error)
	GetByUID(ctx context.Context, uid string) (*model.User, error)
	GetPublic(ctx context.Context, id uint64) (*model.User, error)
	UpdateAvailability(ctx context.Context, userID uint64, from, to string) error
	// Slots returns the donor's offerable pickup times, recomputed from the
	// current availability window on every call.
	Slots(ctx context.Context, donorID uint64) ([]string, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) UpsertProfile(ctx context.Context, u *model.User) (*model.User, error) {
	u.Username = strings.TrimSpace(u.Username)
	if u.UID == "" {
		return nil, errors.New("uid is required")
	}
	if u.Username == "" || len(u.Username) > 120 {
		return nil, errors.New("invalid username")
	}
	if u.Role != model.RoleDonor && u.Role != model.RoleReceiver {
		return nil, errors.New("role must be donor or receiver")
	}
	if u.AvailabilityTimeFrom != "" || u.AvailabilityTimeTo != "" {
		if err := schedule.ValidateWindow(u.AvailabilityTimeFrom, u.AvailabilityTimeTo); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Upsert(ctx, u); err != nil {
		return nil, mapRepoErr(err)
	}
	return u, nil
}

func (s *userService) GetByUID(ctx context.Context, uid string) (*model.User, error) {
	u, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return u, nil
}

func (s *userService) GetPublic(ctx context.Context, id uint64) (*model.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return u, nil
}

func (s *userService) UpdateAvailability(ctx context.Context, userID uint64, from, to string) error {
	if err := schedule.ValidateWindow(from, to); err != nil {
		return err
	}
	return mapRepoErr(s.repo.UpdateAvailability(ctx, userID, from, to))
}

func (s *userService) Slots(ctx context.Context, donorID uint64) ([]string, error) {
	donor, err := s.repo.FindByID(ctx, donorID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if donor.AvailabilityTimeFrom == "" || donor.AvailabilityTimeTo == "" {
		return []string{}, nil
	}
	return schedule.GenerateSlots(donor.AvailabilityTimeFrom, donor.AvailabilityTimeTo)
}
