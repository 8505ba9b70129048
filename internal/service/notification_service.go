package service

import (
	"context"

	"github.com/foodlink/foodlink-backend/internal/model"
	"github.com/foodlink/foodlink-backend/internal/repository"
)

type NotificationService interface {
	Notify(ctx context.Context, userID uint64, typ, title, body string, itemID *uint64, deliveryNumber *string)
	List(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]model.Notification, int64, error)
	MarkAllRead(ctx context.Context, userID uint64) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

// Notify is best-effort; failures are dropped so they never break the
// submission or transition that triggered them.
func (s *notificationService) Notify(ctx context.Context, userID uint64, typ, title, body string, itemID *uint64, deliveryNumber *string) {
	if userID == 0 || typ == "" {
		return
	}
	n := &model.Notification{
		UserID:         userID,
		Type:           typ,
		Title:          title,
		Body:           body,
		FoodItemID:     itemID,
		DeliveryNumber: deliveryNumber,
	}
	_ = s.repo.Create(ctx, n)
}

func (s *notificationService) List(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]model.Notification, int64, error) {
	if userID == 0 {
		return nil, 0, nil
	}
	list, err := s.repo.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, 0, mapRepoErr(err)
	}
	cnt, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return list, 0, mapRepoErr(err)
	}
	return list, cnt, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uint64) error {
	if userID == 0 {
		return nil
	}
	return mapRepoErr(s.repo.MarkAllRead(ctx, userID))
}
