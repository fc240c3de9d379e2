package database

import (
	"gorm.io/gorm"

	"github.com/automac/dealership-backend/internal/models"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Car{},
		&models.CarImage{},
		&models.Booking{},
	)
	if err != nil {
		return err
	}

	// Columns added after the initial schema shipped
	if db.Migrator().HasTable(&models.Car{}) {
		columns := []string{
			"ADD COLUMN IF NOT EXISTS body_type text DEFAULT 'Sedan'",
			"ADD COLUMN IF NOT EXISTS seating_capacity integer DEFAULT 5",
			"ADD COLUMN IF NOT EXISTS sold_at timestamptz",
		}

		for _, column := range columns {
			if err := db.Exec("ALTER TABLE cars " + column).Error; err != nil {
				return err
			}
		}
	}

	// Update constraint
	db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_status_check`)
	db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_status_check CHECK (status IN ('Pending', 'Approved', 'Rejected', 'Done'))`)

	return nil
}
