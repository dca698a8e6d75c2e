package types

import (
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type Role string

const (
	ROLE_USER      Role = "user"
	ROLE_ORGANIZER Role = "organizer"
	ROLE_ADMIN     Role = "admin"
)

// ParseRole maps a stored role string to the typed role checked at the
// boundary. Unknown values are not granted any role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case ROLE_USER, ROLE_ORGANIZER, ROLE_ADMIN:
		return Role(s), true
	}
	return "", false
}

type EventCategory string

const (
	CATEGORY_CONCERT    EventCategory = "concert"
	CATEGORY_FESTIVAL   EventCategory = "festival"
	CATEGORY_SPORTS     EventCategory = "sports"
	CATEGORY_COMEDY     EventCategory = "comedy"
	CATEGORY_THEATRE    EventCategory = "theatre"
	CATEGORY_WORKSHOP   EventCategory = "workshop"
	CATEGORY_EXHIBITION EventCategory = "exhibition"
	CATEGORY_TREK       EventCategory = "trek"
	CATEGORY_OTHER      EventCategory = "other"
)

func ValidEventCategory(c EventCategory) bool {
	switch c {
	case CATEGORY_CONCERT, CATEGORY_FESTIVAL, CATEGORY_SPORTS, CATEGORY_COMEDY,
		CATEGORY_THEATRE, CATEGORY_WORKSHOP, CATEGORY_EXHIBITION, CATEGORY_TREK,
		CATEGORY_OTHER:
		return true
	}
	return false
}

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_CANCELLED BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PAYMENT_PENDING   PaymentStatus = "pending"
	PAYMENT_COMPLETED PaymentStatus = "completed"
	PAYMENT_FAILED    PaymentStatus = "failed"
	PAYMENT_REFUNDED  PaymentStatus = "refunded"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type RegisterUserRequestBody struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone,omitempty"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateCityRequestBody struct {
	Name  string `json:"name" binding:"required"`
	State string `json:"state" binding:"required"`
	Image string `json:"image,omitempty"`
}

type UpdateCityRequestBody struct {
	Name     *string `json:"name,omitempty"`
	State    *string `json:"state,omitempty"`
	Image    *string `json:"image,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type CreateEventRequestBody struct {
	Title       string        `json:"title" binding:"required,max=200"`
	Description string        `json:"description" binding:"required,max=2000"`
	Category    EventCategory `json:"category,omitempty"`
	Date        string        `json:"date" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	EndDate     *string       `json:"end_date,omitempty" binding:"omitempty,bookabledate"`
	Time        string        `json:"time" binding:"required"`
	Venue       string        `json:"venue" binding:"required"`
	Address     string        `json:"address,omitempty"`
	CityID      uint          `json:"city_id" binding:"required"`
	Image       string        `json:"image,omitempty"`
	Price       float64       `json:"price" binding:"min=0"`
	Capacity    uint          `json:"capacity" binding:"required,min=1"`
	IsFeatured  bool          `json:"is_featured,omitempty"`
}

type UpdateEventRequestBody struct {
	Title       *string        `json:"title,omitempty" binding:"omitempty,max=200"`
	Description *string        `json:"description,omitempty" binding:"omitempty,max=2000"`
	Category    *EventCategory `json:"category,omitempty"`
	Date        *string        `json:"date,omitempty" binding:"omitempty,bookabledate"`
	Time        *string        `json:"time,omitempty"`
	Venue       *string        `json:"venue,omitempty"`
	Address     *string        `json:"address,omitempty"`
	Image       *string        `json:"image,omitempty"`
	Price       *float64       `json:"price,omitempty" binding:"omitempty,min=0"`
	IsFeatured  *bool          `json:"is_featured,omitempty"`
	IsActive    *bool          `json:"is_active,omitempty"`
}

type CreateBookingRequestBody struct {
	EventID uint `json:"event_id" binding:"required"`
	Tickets uint `json:"tickets"`
}

type EventQueryFilters struct {
	City     string `form:"city"`
	Category string `form:"category"`
}

type AvailabilityResponse struct {
	EventID     uint `json:"event_id"`
	Capacity    uint `json:"capacity"`
	BookedCount uint `json:"booked_count"`
	Available   uint `json:"available"`
}
