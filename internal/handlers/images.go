package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/automac/dealership-backend/internal/models"
	"github.com/automac/dealership-backend/internal/services"
)

// ListCarImages returns all images of an owned car plus the current main
// image designation.
func ListCarImages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		car, err := ownedCar(db, userId, c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		var images []models.CarImage
		if err := db.Where("car_id = ?", car.ID).Order("id").Find(&images).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch images"})
			return
		}

		c.JSON(200, gin.H{
			"images":      images,
			"mainImageId": car.MainImageID,
		})
	}
}

// SetMainImage designates one of the car's own images as its main image.
// The overwrite is unconditional.
func SetMainImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		car, err := ownedCar(db, userId, c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		imageID, ok := parseID(c.Param("imageId"))
		if !ok {
			c.JSON(404, gin.H{"error": "Image not found"})
			return
		}

		var img models.CarImage
		if err := db.Where("car_id = ?", car.ID).First(&img, imageID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Image not found"})
			return
		}

		if err := db.Model(car).Update("main_image_id", img.ID).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update main image"})
			return
		}

		car.MainImageID = &img.ID
		c.JSON(200, car)
	}
}

// DeleteCarImage removes an image. Deleting the current main image promotes
// the first remaining image of the car, or clears the designation when none
// remain.
func DeleteCarImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		car, err := ownedCar(db, userId, c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		imageID, ok := parseID(c.Param("imageId"))
		if !ok {
			c.JSON(404, gin.H{"error": "Image not found"})
			return
		}

		var img models.CarImage
		if err := db.Where("car_id = ?", car.ID).First(&img, imageID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Image not found"})
			return
		}

		wasMain := car.MainImageID != nil && *car.MainImageID == img.ID

		if err := db.Delete(&img).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete image"})
			return
		}

		// Stored payload goes best-effort; the row is already gone
		_ = services.DeleteImage(img.ObjectKey)

		if wasMain {
			var next models.CarImage
			var mainImageID interface{}
			if err := db.Where("car_id = ?", car.ID).Order("id").First(&next).Error; err == nil {
				mainImageID = next.ID
				car.MainImageID = &next.ID
			} else {
				mainImageID = nil
				car.MainImageID = nil
			}

			if err := db.Model(car).Update("main_image_id", mainImageID).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to update main image"})
				return
			}
		}

		c.JSON(200, gin.H{
			"message":     "Image deleted",
			"mainImageId": car.MainImageID,
		})
	}
}
