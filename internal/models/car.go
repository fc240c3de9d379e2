package models

import (
	"time"

	"gorm.io/gorm"
)

type BodyType string

const (
	BodyTypeSedan BodyType = "Sedan"
	BodyTypeSUV   BodyType = "SUV"
	BodyTypeVan   BodyType = "Van"
)

// DefaultLocation is applied whenever a car is created or edited
// with a blank location.
const DefaultLocation = "Lucena City, Quezon"

type Car struct {
	gorm.Model
	OwnerID         uint       `json:"ownerId" gorm:"not null;index"`
	Owner           User       `json:"-"`
	Brand           string     `json:"brand" gorm:"not null"`
	CarModel        string     `json:"model" gorm:"column:model;not null"`
	Year            int        `json:"year" gorm:"not null"`
	Price           float64    `json:"price" gorm:"type:numeric(12,2);not null"`
	Mileage         int        `json:"mileage" gorm:"default:0"`
	Transmission    string     `json:"transmission" gorm:"default:'Automatic'"`
	Fuel            string     `json:"fuel" gorm:"default:'Gasoline'"`
	BodyType        BodyType   `json:"bodyType" gorm:"default:'Sedan'"`
	SeatingCapacity int        `json:"seatingCapacity" gorm:"default:5"`
	Location        string     `json:"location"`
	Description     string     `json:"description"`
	IsAvailable     bool       `json:"isAvailable" gorm:"not null"`
	SoldAt          *time.Time `json:"soldAt"`
	MainImageID     *uint      `json:"mainImageId"`
	Images          []CarImage `json:"images" gorm:"constraint:OnDelete:CASCADE"`
	Bookings        []Booking  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// SetAvailability keeps is_available and sold_at consistent: sold_at is
// non-nil exactly when the car is unavailable. Every code path that touches
// either field goes through here.
func (c *Car) SetAvailability(available bool, now time.Time) {
	c.IsAvailable = available
	if available {
		c.SoldAt = nil
	} else if c.SoldAt == nil {
		t := now
		c.SoldAt = &t
	}
}

// AvailabilityUpdates returns the column set for persisting an availability
// change, so both fields land in a single UPDATE.
func (c *Car) AvailabilityUpdates() map[string]interface{} {
	return map[string]interface{}{
		"is_available": c.IsAvailable,
		"sold_at":      c.SoldAt,
	}
}
