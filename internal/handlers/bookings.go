package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/automac/dealership-backend/internal/models"
	"github.com/automac/dealership-backend/internal/services"
)

type BookingInput struct {
	FullName      string `json:"fullName" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Email         string `json:"email" binding:"omitempty,email"`
	PreferredDate string `json:"preferredDate" binding:"required"`
	PreferredTime string `json:"preferredTime" binding:"required"`
	Note          string `json:"note"`
}

// CreateBooking handles a customer's test drive request for an available
// car. Notifications go out after the booking is persisted and never affect
// the response.
func CreateBooking(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		carID, ok := parseID(c.Param("id"))
		if !ok {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		var car models.Car
		if err := db.Where("is_available = ?", true).First(&car, carID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		var input BookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		preferredDate, err := time.Parse("2006-01-02", input.PreferredDate)
		if err != nil {
			c.JSON(400, gin.H{"error": "preferredDate must be YYYY-MM-DD"})
			return
		}
		if _, err := time.Parse("15:04", input.PreferredTime); err != nil {
			c.JSON(400, gin.H{"error": "preferredTime must be HH:MM"})
			return
		}

		booking := models.Booking{
			CarID:         car.ID,
			FullName:      input.FullName,
			Phone:         input.Phone,
			Email:         input.Email,
			PreferredDate: preferredDate,
			PreferredTime: input.PreferredTime,
			Note:          input.Note,
			Status:        models.BookingStatusPending,
		}

		if err := db.Create(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create booking"})
			return
		}

		var owner models.User
		if err := db.First(&owner, car.OwnerID).Error; err == nil {
			notifier.BookingCreated(&booking, &car, &owner)
		}

		c.JSON(201, booking)
	}
}

// GetOwnerBookings retrieves all bookings for the caller's cars.
func GetOwnerBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var bookings []models.Booking
		if err := db.Joins("JOIN cars ON cars.id = bookings.car_id").
			Where("cars.owner_id = ?", userId).
			Preload("Car").
			Order("bookings.created_at DESC").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, gin.H{"bookings": bookings})
	}
}

// ownedBooking loads a booking only when the caller owns its car; absent
// and not-owned are the same outcome.
func ownedBooking(db *gorm.DB, ownerID uint, rawID string) (*models.Booking, error) {
	id, ok := parseID(rawID)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	var booking models.Booking
	if err := db.Preload("Car").First(&booking, id).Error; err != nil {
		return nil, err
	}
	if booking.Car.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	return &booking, nil
}

// UpdateBookingStatus moves a booking between the four statuses. Invalid
// status values are silently ignored and leave the booking untouched.
func UpdateBookingStatus(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		booking, err := ownedBooking(db, userId, c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		newStatus := models.BookingStatus(input.Status)
		if !newStatus.IsValid() {
			c.JSON(200, booking)
			return
		}

		if err := db.Model(booking).Update("status", newStatus).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update booking status"})
			return
		}
		booking.Status = newStatus

		notifier.BookingStatusChanged(booking, &booking.Car)

		c.JSON(200, booking)
	}
}

// DeleteBooking removes a booking for one of the caller's cars.
func DeleteBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		booking, err := ownedBooking(db, userId, c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if err := db.Delete(booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete booking"})
			return
		}

		c.JSON(200, gin.H{"message": "Booking deleted"})
	}
}
