package models

import (
	"mepass/src/types"
	"time"
)

type Booking struct {
	ID            uint                `gorm:"primarykey" json:"id"`
	Code          string              `gorm:"uniqueIndex;size:40" json:"code,omitempty"`
	UserID        uint                `json:"user_id,omitempty"`
	EventID       uint                `json:"event_id,omitempty"`
	Tickets       uint                `json:"tickets,omitempty"`
	TotalPrice    float64             `json:"total_price"`
	Status        types.BookingStatus `gorm:"default:'confirmed'" json:"status,omitempty"`
	PaymentStatus types.PaymentStatus `gorm:"default:'completed'" json:"payment_status,omitempty"`
	BookingDate   time.Time           `gorm:"autoCreateTime" json:"booking_date,omitempty"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	types.Timestamps
}
