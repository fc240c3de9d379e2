package handlers

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/automac/dealership-backend/internal/models"
)

func carForm() url.Values {
	return url.Values{
		"brand":        {"Toyota"},
		"model":        {"Vios"},
		"year":         {"2020"},
		"price":        {"650000"},
		"is_available": {"true"},
	}
}

func TestCreateCarDefaultsLocation(t *testing.T) {
	db := setupDB(t)
	r := setupRouter(t, db)
	_, token := createOwner(t, db, "owner")

	form := carForm()
	form.Set("location", "")

	w := doForm(t, r, "POST", "/api/owner/cars", token, form)
	require.Equal(t, 201, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Lucena City, Quezon", body["location"])
	assert.Equal(t, "Toyota", body["brand"])
	assert.Equal(t, "Vios", body["model"])
}

func TestCreateCarAppliesDefaults(t *testing.T) {
	db := setupDB(t)
	r := setupRouter(t, db)
	_, token := createOwner(t, db, "owner")

	w := doForm(t, r, "POST", "/api/owner/cars", token, carForm())
	require.Equal(t, 201, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Automatic", body["transmission"])
	assert.Equal(t, "Gasoline", body["fuel"])
	assert.Equal(t, "Sedan", body["bodyType"])
	assert.Equal(t, float64(5), body["seatingCapacity"])
	assert.Equal(t, true, body["isAvailable"])
	assert.Nil(t, body["soldAt"])
}

func TestCreateCarValidation(t *testing.T) {
	db := setupDB(t)
	r := setupRouter(t, db)
	_, token := createOwner(t, db, "owner")

	cases := []struct {
		name   string
		mutate func(url.Values)
	}{
		{"year too old", func(f url.Values) { f.Set("year", "1985") }},
		{"year in future", func(f url.Values) { f.Set("year", "2999") }},
		{"negative price", func(f url.Values) { f.Set("price", "-1") }},
		{"negative mileage", func(f url.Values) { f.Set("mileage", "-5") }},
		{"bad body type", func(f url.Values) { f.Set("body_type", "Truck") }},
		{"model brand mismatch", func(f url.Values) { f.Set("model", "Civic") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := carForm()
			tc.mutate(form)
			w := doForm(t, r, "POST", "/api/owner/cars", token, form)
			assert.Equal(t, 400, w.Code)
		})
	}
}

func TestMarkSoldAndAvailable(t *testing.T) {
	db := setupDB(t)
	r := setupRouter(t, db)
	owner, token := createOwner(t, db, "owner")
	car := createCar(t, db, owner.ID, nil)

	w := doForm(t, r, "POST", fmt.Sprintf("/api/owner/cars/%d/sold", car.ID), token, nil)
	require.Equal(t, 200, w.Code)

	got := reloadCar(t, db, car.ID)
	assert.False(t, got.IsAvailable)
	require.NotNil(t, got.SoldAt)
	soldAt := *got.SoldAt

	// Marking sold again is a no-op and keeps the original timestamp
	w = doForm(t, r, "POST", fmt.Sprintf("/api/owner/cars/%d/sold", car.ID), token, nil)
	require.Equal(t, 200, w.Code)
	got = reloadCar(t, db, car.ID)
	require.NotNil(t, got.SoldAt)
	assert.Equal(t, soldAt.Unix(), got.SoldAt.Unix())

	w = doForm(t, r, "POST", fmt.Sprintf("/api/owner/cars/%d/available", car.ID), token, nil)
	require.Equal(t, 200, w.Code)

	got = reloadCar(t, db, car.ID)
	assert.True(t, got.IsAvailable)
	assert.Nil(t, got.SoldAt)
}

func TestEditClearsSoldAtWhenAvailable(t *testing.T) {
	db := setupDB(t)
	r := setupRouter(t, db)
	owner, token := createOwner(t, db, "owner")
	car := createCar(t, db, owner.ID, nil)

	w := doForm(t, r, "POST", fmt.Sprintf("/api/owner/cars/%d/sold", car.ID), token, nil)
	require.Equal(t, 200, w.Code)
	require.NotNil(t, reloadCar(t, db, car.ID).SoldAt)

	form := carForm()
	form.Set("is_available", "true")
	w = doForm(t, r, "PUT", fmt.Sprintf("/api/owner/cars/%d", car.ID), token, form)
	require.Equal(t, 200, w.Code)

	got := reloadCar(t, db, car.ID)
	assert.True(t, got.IsAvailable)
	assert.Nil(t, got.SoldAt)
}

func TestCarOwnershipCollapsedToNotFound(t *testing.T) {
	db := setupDB(t)
	r := setupRouter(t, db)
	owner, _ := createOwner(t, db, "owner")
	_, intruderToken := createOwner(t, db, "intruder")
	car := createCar(t, db, owner.ID, nil)

	// Someone else's car and a nonexistent car look identical
	w := doForm(t, r, "POST", fmt.Sprintf("/api/owner/cars/%d/sold", car.ID), intruderToken, nil)
	assert.Equal(t, 404, w.Code)

	w = doForm(t, r, "POST", "/api/owner/cars/99999/sold", intruderToken, nil)
	assert.Equal(t, 404, w.Code)

	got := reloadCar(t, db, car.ID)
	assert.True(t, got.IsAvailable)
}

func TestNonNumericCarIDTreatedAsMissing(t *testing.T) {
	db := setupDB(t)
	r := setupRouter(t, db)
	owner, token := createOwner(t, db, "owner")
	car := createCar(t, db, owner.ID, nil)
	img := addImage(t, db, car.ID)
	require.NoError(t, db.Model(car).Update("main_image_id", img.ID).Error)

	// A path id with a SQL tail must never match an existing row
	crafted := fmt.Sprintf("%d%%20OR%%201=1", car.ID)

	w := doJSON(t, r, "GET", "/api/cars/"+crafted, "", nil)
	assert.Equal(t, 404, w.Code)

	w = doJSON(t, r, "POST", "/api/cars/"+crafted+"/bookings", "", bookingInput())
	assert.Equal(t, 404, w.Code)

	w = doForm(t, r, "POST", "/api/owner/cars/"+crafted+"/sold", token, nil)
	assert.Equal(t, 404, w.Code)

	w = doForm(t, r, "DELETE",
		fmt.Sprintf("/api/owner/cars/%d/images/%d%%20OR%%201=1", car.ID, img.ID), token, nil)
	assert.Equal(t, 404, w.Code)

	got := reloadCar(t, db, car.ID)
	assert.True(t, got.IsAvailable)
	require.NotNil(t, got.MainImageID)
	assert.Equal(t, img.ID, *got.MainImageID)
}

func addImage(t *testing.T, db *gorm.DB, carID uint) *models.CarImage {
	t.Helper()
	img := models.CarImage{CarID: carID, ObjectKey: fmt.Sprintf("cars/%d.jpg", carID), URL: "http://localhost/x.jpg"}
	require.NoError(t, db.Create(&img).Error)
	return &img
}

func TestMainImagePromotionOnDelete(t *testing.T) {
	db := setupDB(t)
	r := setupRouter(t, db)
	owner, token := createOwner(t, db, "owner")
	car := createCar(t, db, owner.ID, nil)

	imgA := addImage(t, db, car.ID)
	imgB := addImage(t, db, car.ID)
	require.NoError(t, db.Model(car).Update("main_image_id", imgA.ID).Error)

	// Deleting the main image promotes the next remaining one
	w := doForm(t, r, "DELETE", fmt.Sprintf("/api/owner/cars/%d/images/%d", car.ID, imgA.ID), token, nil)
	require.Equal(t, 200, w.Code)

	got := reloadCar(t, db, car.ID)
	require.NotNil(t, got.MainImageID)
	assert.Equal(t, imgB.ID, *got.MainImageID)

	// Deleting the last image clears the designation
	w = doForm(t, r, "DELETE", fmt.Sprintf("/api/owner/cars/%d/images/%d", car.ID, imgB.ID), token, nil)
	require.Equal(t, 200, w.Code)

	got = reloadCar(t, db, car.ID)
	assert.Nil(t, got.MainImageID)
}

func TestDeleteNonMainImageKeepsMain(t *testing.T) {
	db := setupDB(t)
	r := setupRouter(t, db)
	owner, token := createOwner(t, db, "owner")
	car := createCar(t, db, owner.ID, nil)

	imgA := addImage(t, db, car.ID)
	imgB := addImage(t, db, car.ID)
	require.NoError(t, db.Model(car).Update("main_image_id", imgA.ID).Error)

	w := doForm(t, r, "DELETE", fmt.Sprintf("/api/owner/cars/%d/images/%d", car.ID, imgB.ID), token, nil)
	require.Equal(t, 200, w.Code)

	got := reloadCar(t, db, car.ID)
	require.NotNil(t, got.MainImageID)
	assert.Equal(t, imgA.ID, *got.MainImageID)
}

func TestSetMainImageRejectsForeignImage(t *testing.T) {
	db := setupDB(t)
	r := setupRouter(t, db)
	owner, token := createOwner(t, db, "owner")
	car := createCar(t, db, owner.ID, nil)
	other := createCar(t, db, owner.ID, nil)
	foreign := addImage(t, db, other.ID)

	w := doForm(t, r, "PUT", fmt.Sprintf("/api/owner/cars/%d/images/%d/main", car.ID, foreign.ID), token, nil)
	assert.Equal(t, 404, w.Code)
	assert.Nil(t, reloadCar(t, db, car.ID).MainImageID)
}

func TestSetMainImageOverwrites(t *testing.T) {
	db := setupDB(t)
	r := setupRouter(t, db)
	owner, token := createOwner(t, db, "owner")
	car := createCar(t, db, owner.ID, nil)

	imgA := addImage(t, db, car.ID)
	imgB := addImage(t, db, car.ID)
	require.NoError(t, db.Model(car).Update("main_image_id", imgA.ID).Error)

	w := doForm(t, r, "PUT", fmt.Sprintf("/api/owner/cars/%d/images/%d/main", car.ID, imgB.ID), token, nil)
	require.Equal(t, 200, w.Code)

	got := reloadCar(t, db, car.ID)
	require.NotNil(t, got.MainImageID)
	assert.Equal(t, imgB.ID, *got.MainImageID)
}

func TestOwnerDashboardAnalytics(t *testing.T) {
	db := setupDB(t)
	r := setupRouter(t, db)
	owner, token := createOwner(t, db, "owner")

	createCar(t, db, owner.ID, nil)
	sold := createCar(t, db, owner.ID, func(c *models.Car) { c.Price = 300000 })

	w := doForm(t, r, "POST", fmt.Sprintf("/api/owner/cars/%d/sold", sold.ID), token, nil)
	require.Equal(t, 200, w.Code)

	w = doForm(t, r, "GET", "/api/owner/dashboard", token, nil)
	require.Equal(t, 200, w.Code)

	body := decodeBody(t, w)
	analytics := body["analytics"].(map[string]interface{})
	assert.Equal(t, float64(2), analytics["totalCars"])
	assert.Equal(t, float64(1), analytics["availableCount"])
	assert.Equal(t, float64(1), analytics["soldCount"])
	assert.Equal(t, float64(300000), analytics["soldRevenue"])
	assert.Equal(t, float64(650000), analytics["availableValue"])
	assert.Equal(t, float64(1), analytics["soldThisMonth"])
}
