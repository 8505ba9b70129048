package model

import "time"

type UserRole string

const (
	RoleDonor    UserRole = "donor"
	RoleReceiver UserRole = "receiver"
)

type User struct {
	ID                   uint64   `gorm:"primaryKey;autoIncrement"`
	UID                  string   `gorm:"column:uid;size:128;uniqueIndex;not null"`
	Username             string   `gorm:"size:120;not null"`
	Email                string   `gorm:"size:255;not null"`
	Role                 UserRole `gorm:"size:32;not null"`
	Address              *string  `gorm:"size:255"`
	Latitude             *float64
	Longitude            *float64
	AvailabilityTimeFrom string    `gorm:"column:availability_time_from;size:5"`
	AvailabilityTimeTo   string    `gorm:"column:availability_time_to;size:5"`
	CreatedAt            time.Time `gorm:"autoCreateTime"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
