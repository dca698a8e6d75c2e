package models

import (
	"mepass/src/types"
	"time"
)

type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Name         string     `json:"name,omitempty"`
	Email        string     `gorm:"uniqueIndex;size:255" json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	Phone        string     `json:"phone,omitempty"`
	Role         string     `gorm:"default:'user'" json:"role,omitempty"`
	UID          string     `json:"uid,omitempty"`
	LastActive   *time.Time `json:"last_active,omitempty"`

	Bookings []Booking `gorm:"foreignKey:UserID" json:"bookings,omitempty"`
	Events   []Event   `gorm:"foreignKey:OrganizerID" json:"events,omitempty"`

	types.Timestamps
}
