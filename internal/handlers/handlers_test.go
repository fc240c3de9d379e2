package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/automac/dealership-backend/internal/config"
	"github.com/automac/dealership-backend/internal/middleware"
	"github.com/automac/dealership-backend/internal/models"
	"github.com/automac/dealership-backend/internal/services"
	"github.com/automac/dealership-backend/pkg/utils"
)

const testJWTSecret = "test-secret"

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Car{},
		&models.CarImage{},
		&models.Booking{},
	))

	return db
}

func setupRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := services.NewHub(zerolog.Nop())
	notifier := services.NewNotifier(config.NotifyConfig{}, hub, zerolog.Nop())

	r := gin.New()
	api := r.Group("/api")

	api.POST("/auth/register", Register(db))
	api.POST("/auth/login", Login(db, testJWTSecret))

	api.GET("/cars", ListCars(db))
	api.GET("/cars/latest", LatestCars(db))
	api.GET("/cars/:id", GetCar(db))
	api.POST("/cars/:id/bookings", CreateBooking(db, notifier))
	api.GET("/catalog/options", CatalogOptions())

	owner := api.Group("/owner")
	owner.Use(middleware.AuthMiddleware(testJWTSecret))
	owner.GET("/dashboard", OwnerDashboard(db))
	owner.GET("/cars", GetOwnerCars(db))
	owner.POST("/cars", CreateCar(db))
	owner.PUT("/cars/:id", UpdateCar(db))
	owner.POST("/cars/:id/sold", MarkCarSold(db))
	owner.POST("/cars/:id/available", MarkCarAvailable(db))
	owner.GET("/cars/:id/images", ListCarImages(db))
	owner.PUT("/cars/:id/images/:imageId/main", SetMainImage(db))
	owner.DELETE("/cars/:id/images/:imageId", DeleteCarImage(db))
	owner.GET("/bookings", GetOwnerBookings(db))
	owner.PATCH("/bookings/:id/status", UpdateBookingStatus(db, notifier))
	owner.DELETE("/bookings/:id", DeleteBooking(db))

	return r
}

func createOwner(t *testing.T, db *gorm.DB, username string) (*models.User, string) {
	t.Helper()

	user := models.User{
		Username:    username,
		Email:       username + "@example.com",
		PhoneNumber: "09170000000",
	}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateToken(&user, testJWTSecret)
	require.NoError(t, err)

	return &user, token
}

func createCar(t *testing.T, db *gorm.DB, ownerID uint, mutate func(*models.Car)) *models.Car {
	t.Helper()

	car := models.Car{
		OwnerID:         ownerID,
		Brand:           "Toyota",
		CarModel:        "Vios",
		Year:            2020,
		Price:           650000,
		Mileage:         42000,
		Transmission:    "Automatic",
		Fuel:            "Gasoline",
		BodyType:        models.BodyTypeSedan,
		SeatingCapacity: 5,
		Location:        models.DefaultLocation,
		IsAvailable:     true,
	}
	if mutate != nil {
		mutate(&car)
	}
	require.NoError(t, db.Create(&car).Error)
	return &car
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(data))
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doForm(t *testing.T, r *gin.Engine, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func reloadCar(t *testing.T, db *gorm.DB, id uint) *models.Car {
	t.Helper()

	var car models.Car
	require.NoError(t, db.First(&car, id).Error)
	return &car
}
