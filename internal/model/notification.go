package model

import "time"

type Notification struct {
	ID             uint64     `gorm:"primaryKey;autoIncrement"`
	UserID         uint64     `gorm:"column:user_id;index;not null"`
	Type           string     `gorm:"column:type;size:64;not null"`
	Title          string     `gorm:"column:title;size:255"`
	Body           string     `gorm:"column:body;type:text"`
	FoodItemID     *uint64    `gorm:"column:food_item_id;index"`
	DeliveryNumber *string    `gorm:"column:delivery_number;size:32;index"`
	ReadAt         *time.Time `gorm:"column:read_at"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
