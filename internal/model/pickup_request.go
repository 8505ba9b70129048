package model

import (
	"fmt"
	"time"
)

type PickupStatus string

const (
	StatusPending   PickupStatus = "PENDING"
	StatusConfirmed PickupStatus = "CONFIRMED"
	StatusDelivered PickupStatus = "DELIVERED"
	StatusCancelled PickupStatus = "CANCELLED"
)

// transitions is the single source of truth for the delivery lifecycle.
// Both the transition check and the pending-view filter derive from it.
var transitions = map[PickupStatus][]PickupStatus{
	StatusPending:   {StatusConfirmed, StatusDelivered, StatusCancelled},
	StatusConfirmed: {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

func ParsePickupStatus(s string) (PickupStatus, error) {
	switch PickupStatus(s) {
	case StatusPending, StatusConfirmed, StatusDelivered, StatusCancelled:
		return PickupStatus(s), nil
	}
	return "", fmt.Errorf("unknown pickup status %q", s)
}

func (s PickupStatus) CanTransitionTo(target PickupStatus) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s PickupStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// Open reports whether the status keeps a delivery in the pending views.
func (s PickupStatus) Open() bool {
	return s == StatusPending || s == StatusConfirmed
}

type PickupRequest struct {
	ID             uint64       `gorm:"primaryKey;autoIncrement"`
	DeliveryNumber string       `gorm:"column:delivery_number;size:32;index;not null"`
	ReceiverID     uint64       `gorm:"column:receiver_id;index;not null"`
	DonorID        uint64       `gorm:"column:donor_id;index;not null"`
	FoodItemID     uint64       `gorm:"column:food_item_id;index;not null"`
	Quantity       uint         `gorm:"not null"`
	PickupDate     string       `gorm:"column:pickup_date;size:10;not null"` // YYYY-MM-DD
	PickupTime     string       `gorm:"column:pickup_time;size:5;not null"`  // HH:MM
	Status         PickupStatus `gorm:"size:20;not null"`
	CreatedAt      time.Time    `gorm:"autoCreateTime"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime"`
}

func (PickupRequest) TableName() string {
	return "pickup_requests"
}
