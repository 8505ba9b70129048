package model

import "time"

type FoodItem struct {
	ID              uint64 `gorm:"primaryKey;autoIncrement"`
	DonorID         uint64 `gorm:"column:donor_id;index;not null"`
	Name            string `gorm:"size:255;not null"`
	Quantity        uint   `gorm:"not null"`
	ExpiryDate      string `gorm:"column:expiry_date;size:10;not null"` // YYYY-MM-DD
	PickupLocation  string `gorm:"column:pickup_location;size:255;not null"`
	PickupLatitude  *float64
	PickupLongitude *float64
	Photos          []FoodItemPhoto `gorm:"foreignKey:FoodItemID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`
}

func (FoodItem) TableName() string {
	return "food_items"
}

type FoodItemPhoto struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	FoodItemID uint64    `gorm:"column:food_item_id;index;not null"`
	URL        string    `gorm:"size:512;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (FoodItemPhoto) TableName() string {
	return "food_item_photos"
}
