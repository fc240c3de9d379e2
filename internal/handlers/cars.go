package handlers

import (
	"fmt"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/automac/dealership-backend/internal/catalog"
	"github.com/automac/dealership-backend/internal/models"
	"github.com/automac/dealership-backend/internal/services"
)

// CarInput is the multipart form for creating or editing a car. Images ride
// alongside under the "images" field.
type CarInput struct {
	Brand           string  `form:"brand" binding:"required"`
	Model           string  `form:"model" binding:"required"`
	Year            int     `form:"year" binding:"required"`
	Price           float64 `form:"price"`
	Mileage         int     `form:"mileage"`
	Transmission    string  `form:"transmission"`
	Fuel            string  `form:"fuel"`
	BodyType        string  `form:"body_type"`
	SeatingCapacity int     `form:"seating_capacity"`
	Location        string  `form:"location"`
	Description     string  `form:"description"`
	IsAvailable     bool    `form:"is_available"`
}

func (in *CarInput) applyDefaults() {
	if in.Transmission == "" {
		in.Transmission = "Automatic"
	}
	if in.Fuel == "" {
		in.Fuel = "Gasoline"
	}
	if in.BodyType == "" {
		in.BodyType = string(models.BodyTypeSedan)
	}
	if in.SeatingCapacity == 0 {
		in.SeatingCapacity = 5
	}
	if in.Location == "" {
		in.Location = models.DefaultLocation
	}
}

// validate checks the car attributes. currentModel is the model already
// stored on the car being edited; it stays acceptable even when the lookup
// table no longer lists it.
func (in *CarInput) validate(currentModel string) error {
	if in.Year < catalog.MinYear || in.Year > catalog.CurrentYear() {
		return fmt.Errorf("year must be between %d and %d", catalog.MinYear, catalog.CurrentYear())
	}
	if in.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if in.Mileage < 0 {
		return fmt.Errorf("mileage must not be negative")
	}
	if in.SeatingCapacity < 1 {
		return fmt.Errorf("seating capacity must be positive")
	}
	validBody := false
	for _, b := range catalog.BodyTypes {
		if b == in.BodyType {
			validBody = true
			break
		}
	}
	if !validBody {
		return fmt.Errorf("body type must be one of Sedan, SUV, Van")
	}
	if in.Model != currentModel && !catalog.ValidBrandModel(in.Brand, in.Model) {
		return fmt.Errorf("model %q is not a known %s model", in.Model, in.Brand)
	}
	return nil
}

// parseID interprets a numeric path parameter. Ids must be plain decimal
// integers; anything else behaves exactly like an id that does not exist.
// Raw path segments never reach the ORM as a condition.
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// ownedCar loads a car only if it belongs to the caller. An existing car
// owned by someone else looks identical to a missing one.
func ownedCar(db *gorm.DB, ownerID uint, rawID string) (*models.Car, error) {
	id, ok := parseID(rawID)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	var car models.Car
	if err := db.Where("owner_id = ?", ownerID).First(&car, id).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

// attachImages stores uploaded files as images of the car and promotes the
// first one to main image when the car has none yet.
func attachImages(db *gorm.DB, car *models.Car, files []*multipart.FileHeader) error {
	for _, file := range files {
		key, url, err := services.UploadImage(file, "cars")
		if err != nil {
			return err
		}

		img := models.CarImage{CarID: car.ID, ObjectKey: key, URL: url}
		if err := db.Create(&img).Error; err != nil {
			return err
		}

		if car.MainImageID == nil {
			if err := db.Model(car).Update("main_image_id", img.ID).Error; err != nil {
				return err
			}
			car.MainImageID = &img.ID
		}
	}
	return nil
}

func imageFiles(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["images"]
}

// CreateCar adds a car to the owner's inventory together with its initial
// images.
func CreateCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input CarInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		input.applyDefaults()
		if err := input.validate(""); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		car := models.Car{
			OwnerID:         userId,
			Brand:           input.Brand,
			CarModel:        input.Model,
			Year:            input.Year,
			Price:           input.Price,
			Mileage:         input.Mileage,
			Transmission:    input.Transmission,
			Fuel:            input.Fuel,
			BodyType:        models.BodyType(input.BodyType),
			SeatingCapacity: input.SeatingCapacity,
			Location:        input.Location,
			Description:     input.Description,
		}
		car.SetAvailability(input.IsAvailable, time.Now())

		if err := db.Create(&car).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create car"})
			return
		}

		if err := attachImages(db, &car, imageFiles(c)); err != nil {
			c.JSON(500, gin.H{"error": "Failed to store image"})
			return
		}

		services.InvalidateFacets(c.Request.Context())
		c.JSON(201, car)
	}
}

// UpdateCar edits an owned car and appends any newly uploaded images. An
// edit that flips the car back to available also clears sold_at.
func UpdateCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		car, err := ownedCar(db, userId, c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		var input CarInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		input.applyDefaults()
		if err := input.validate(car.CarModel); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		car.Brand = input.Brand
		car.CarModel = input.Model
		car.Year = input.Year
		car.Price = input.Price
		car.Mileage = input.Mileage
		car.Transmission = input.Transmission
		car.Fuel = input.Fuel
		car.BodyType = models.BodyType(input.BodyType)
		car.SeatingCapacity = input.SeatingCapacity
		car.Location = input.Location
		car.Description = input.Description
		car.SetAvailability(input.IsAvailable, time.Now())

		if err := db.Save(car).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update car"})
			return
		}

		if err := attachImages(db, car, imageFiles(c)); err != nil {
			c.JSON(500, gin.H{"error": "Failed to store image"})
			return
		}

		services.InvalidateFacets(c.Request.Context())
		c.JSON(200, car)
	}
}

// MarkCarSold takes a car off the listing. Already-sold cars are a no-op.
func MarkCarSold(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		car, err := ownedCar(db, userId, c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		if car.IsAvailable {
			car.SetAvailability(false, time.Now())
			// Both columns in one UPDATE so readers never see them disagree
			if err := db.Model(car).Updates(car.AvailabilityUpdates()).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to update car"})
				return
			}
			services.InvalidateFacets(c.Request.Context())
		}

		c.JSON(200, car)
	}
}

// MarkCarAvailable puts a sold car back on the listing. Already-available
// cars are a no-op.
func MarkCarAvailable(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		car, err := ownedCar(db, userId, c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		if !car.IsAvailable {
			car.SetAvailability(true, time.Now())
			if err := db.Model(car).Updates(car.AvailabilityUpdates()).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to update car"})
				return
			}
			services.InvalidateFacets(c.Request.Context())
		}

		c.JSON(200, car)
	}
}

// GetOwnerCars lists the caller's whole inventory, sold cars included.
func GetOwnerCars(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var cars []models.Car
		if err := db.Where("owner_id = ?", userId).
			Preload("Images").
			Order("created_at DESC").
			Find(&cars).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch cars"})
			return
		}

		c.JSON(200, gin.H{"cars": cars})
	}
}

// OwnerDashboard returns the owner's cars, recent bookings and inventory
// analytics.
func OwnerDashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var cars []models.Car
		if err := db.Where("owner_id = ?", userId).
			Preload("Images").
			Order("created_at DESC").
			Find(&cars).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch cars"})
			return
		}

		var bookings []models.Booking
		if err := db.Joins("JOIN cars ON cars.id = bookings.car_id").
			Where("cars.owner_id = ?", userId).
			Preload("Car").
			Order("bookings.created_at DESC").
			Limit(10).
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		owned := db.Model(&models.Car{}).Where("owner_id = ?", userId).Session(&gorm.Session{})

		var analytics struct {
			TotalCars      int64   `json:"totalCars"`
			AvailableCount int64   `json:"availableCount"`
			SoldCount      int64   `json:"soldCount"`
			SoldRevenue    float64 `json:"soldRevenue"`
			AvailableValue float64 `json:"availableValue"`
			SoldThisMonth  int64   `json:"soldThisMonth"`
		}

		owned.Count(&analytics.TotalCars)
		owned.Where("is_available = ?", true).Count(&analytics.AvailableCount)
		owned.Where("sold_at IS NOT NULL").Count(&analytics.SoldCount)
		owned.Where("sold_at IS NOT NULL").
			Select("COALESCE(SUM(price), 0)").Scan(&analytics.SoldRevenue)
		owned.Where("is_available = ?", true).
			Select("COALESCE(SUM(price), 0)").Scan(&analytics.AvailableValue)

		now := time.Now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		owned.Where("sold_at >= ? AND sold_at < ?", monthStart, monthStart.AddDate(0, 1, 0)).
			Count(&analytics.SoldThisMonth)

		c.JSON(200, gin.H{
			"cars":      cars,
			"bookings":  bookings,
			"analytics": analytics,
		})
	}
}
