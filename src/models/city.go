package models

import "mepass/src/types"

type City struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	Name       string `gorm:"uniqueIndex;size:120" json:"name,omitempty"`
	State      string `json:"state,omitempty"`
	Image      string `json:"image,omitempty"`
	IsActive   bool   `gorm:"default:true" json:"is_active"`
	EventCount uint   `gorm:"default:0" json:"event_count"`

	Events []Event `gorm:"foreignKey:CityID" json:"events,omitempty"`

	types.Timestamps
}
