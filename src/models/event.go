package models

import (
	"mepass/src/types"
	"time"

	"gorm.io/gorm"
)

type Event struct {
	ID            uint                `gorm:"primarykey" json:"id"`
	Title         string              `gorm:"size:200" json:"title,omitempty"`
	Slug          string              `gorm:"index;size:220" json:"slug,omitempty"`
	Description   string              `gorm:"size:2000" json:"description,omitempty"`
	Category      types.EventCategory `gorm:"default:'other'" json:"category,omitempty"`
	Date          time.Time           `json:"date,omitempty"`
	EndDate       *time.Time          `json:"end_date,omitempty"`
	Time          string              `json:"time,omitempty"`
	Venue         string              `json:"venue,omitempty"`
	Address       string              `json:"address,omitempty"`
	CityID        uint                `json:"city_id,omitempty"`
	CityName      string              `json:"city_name,omitempty"`
	Image         string              `json:"image,omitempty"`
	Price         float64             `json:"price"`
	Capacity      uint                `json:"capacity,omitempty"`
	BookedCount   uint                `gorm:"default:0" json:"booked_count"`
	OrganizerID   uint                `json:"organizer,omitempty"`
	OrganizerName string              `json:"organizer_name,omitempty"`
	IsFeatured    bool                `gorm:"default:false" json:"is_featured"`
	IsActive      bool                `gorm:"default:true" json:"is_active"`

	// Derived, never stored. Filled after every load.
	Available uint `gorm:"-" json:"available_tickets"`

	City      *City `gorm:"foreignKey:CityID" json:"city,omitempty"`
	Organizer *User `gorm:"foreignKey:OrganizerID" json:"-"`

	types.Timestamps
}

func (e *Event) AvailableTickets() uint {
	if e.BookedCount > e.Capacity {
		return 0
	}
	return e.Capacity - e.BookedCount
}

func (e *Event) AfterFind(tx *gorm.DB) error {
	e.Available = e.AvailableTickets()
	return nil
}
