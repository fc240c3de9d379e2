package handlers

import (
	"sort"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/automac/dealership-backend/internal/catalog"
	"github.com/automac/dealership-backend/internal/inventory"
	"github.com/automac/dealership-backend/internal/models"
	"github.com/automac/dealership-backend/internal/services"
)

// ListCars is the customer-facing inventory listing: filtered, sorted,
// paginated available cars plus the facet metadata for the search sidebar.
func ListCars(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := inventory.ParseFilters(c.Request.URL.Query())

		result, err := inventory.Search(db, filters)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch cars"})
			return
		}

		facets, err := services.GetCachedFacets(c.Request.Context())
		if err != nil {
			facets, err = inventory.ComputeFacets(db)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch cars"})
				return
			}
			// Cache refresh failures don't matter to this request
			_ = services.SetCachedFacets(c.Request.Context(), facets)
		}

		c.JSON(200, gin.H{
			"cars":            result.Cars,
			"page":            result.Page,
			"totalPages":      result.TotalPages,
			"totalCount":      result.TotalCount,
			"facets":          facets,
			"sort":            filters.Sort,
			"displayMinPrice": filters.DisplayMinPrice(),
			"displayMaxPrice": filters.DisplayMaxPrice(),
		})
	}
}

// LatestCars returns the six newest available cars for the landing page.
func LatestCars(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cars []models.Car
		if err := db.Where("is_available = ?", true).
			Preload("Images").
			Order("created_at DESC").
			Limit(6).
			Find(&cars).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch cars"})
			return
		}

		c.JSON(200, gin.H{"cars": cars})
	}
}

// GetCar returns one available car with its images; sold or unknown cars are
// both a 404.
func GetCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		carID, ok := parseID(c.Param("id"))
		if !ok {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		var car models.Car
		if err := db.Where("is_available = ?", true).
			Preload("Images").
			First(&car, carID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		c.JSON(200, car)
	}
}

// CatalogOptions publishes the form metadata the car forms are built from.
// Passing current field values (e.g. ?transmission=Tiptronic) injects legacy
// out-of-list values into the returned choice lists.
func CatalogOptions() gin.HandlerFunc {
	return func(c *gin.Context) {
		brands := make([]string, 0, len(catalog.BrandModelMap))
		for brand := range catalog.BrandModelMap {
			brands = append(brands, brand)
		}
		sort.Strings(brands)

		c.JSON(200, gin.H{
			"brandModelMap": catalog.BrandModelMap,
			"brands":        catalog.BuildFieldOptions(brands, c.Query("brand")),
			"transmissions": catalog.BuildFieldOptions(catalog.Transmissions, c.Query("transmission")),
			"fuels":         catalog.BuildFieldOptions(catalog.Fuels, c.Query("fuel")),
			"bodyTypes":     catalog.BuildFieldOptions(catalog.BodyTypes, c.Query("body_type")),
			"years":         catalog.YearOptions(),
		})
	}
}
