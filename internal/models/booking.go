package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "Pending"
	BookingStatusApproved BookingStatus = "Approved"
	BookingStatusRejected BookingStatus = "Rejected"
	BookingStatusDone     BookingStatus = "Done"
)

// IsValid reports whether s is one of the four booking statuses. Owner
// transitions between valid statuses are unrestricted; invalid values are
// ignored by the workflow rather than rejected with an error.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusApproved, BookingStatusRejected, BookingStatusDone:
		return true
	}
	return false
}

type Booking struct {
	gorm.Model
	CarID         uint          `json:"carId" gorm:"not null;index"`
	Car           Car           `json:"car"`
	FullName      string        `json:"fullName" gorm:"not null"`
	Phone         string        `json:"phone" gorm:"not null"`
	Email         string        `json:"email"`
	PreferredDate time.Time     `json:"preferredDate" gorm:"type:date;not null"`
	PreferredTime string        `json:"preferredTime" gorm:"not null"`
	Note          string        `json:"note"`
	Status        BookingStatus `json:"status" gorm:"not null;default:'Pending'"`
}
