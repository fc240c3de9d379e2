// Package inventory builds the customer-facing listing of available cars:
// filtering, sorting, pagination and the facet metadata the search UI needs.
package inventory

import (
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/automac/dealership-backend/internal/models"
	"github.com/automac/dealership-backend/pkg/utils"
)

const PageSize = 12

var sortOrders = map[string]string{
	"newest":     "created_at DESC",
	"price_asc":  "price ASC",
	"price_desc": "price DESC",
	"year_desc":  "year DESC",
}

// Filters is the parsed form of the listing query parameters. Numeric
// filters that failed to parse are carried as nil, identical to being
// absent; the raw strings are kept for echo-back.
type Filters struct {
	Query        string
	Brand        string
	Transmission string
	Fuel         string
	MinPrice     *int
	MaxPrice     *int
	MinYear      *int
	MaxYear      *int
	Sort         string
	Page         int

	MinPriceRaw string
	MaxPriceRaw string
}

// ParseFilters reads the listing parameters from a query string.
// Unrecognized sort values fall back to newest; non-numeric price/year
// bounds are ignored.
func ParseFilters(values url.Values) Filters {
	f := Filters{
		Query:        strings.TrimSpace(values.Get("q")),
		Brand:        strings.TrimSpace(values.Get("brand")),
		Transmission: strings.TrimSpace(values.Get("trans")),
		Fuel:         strings.TrimSpace(values.Get("fuel")),
		Sort:         strings.TrimSpace(values.Get("sort")),
		MinPriceRaw:  strings.TrimSpace(values.Get("min_price")),
		MaxPriceRaw:  strings.TrimSpace(values.Get("max_price")),
	}

	if n, ok := utils.ParseFilterInt(f.MinPriceRaw); ok {
		f.MinPrice = &n
	}
	if n, ok := utils.ParseFilterInt(f.MaxPriceRaw); ok {
		f.MaxPrice = &n
	}
	if n, ok := utils.ParseFilterInt(strings.TrimSpace(values.Get("min_year"))); ok {
		f.MinYear = &n
	}
	if n, ok := utils.ParseFilterInt(strings.TrimSpace(values.Get("max_year"))); ok {
		f.MaxYear = &n
	}

	if _, ok := sortOrders[f.Sort]; !ok {
		f.Sort = "newest"
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		f.Page = page
	} else {
		f.Page = 1
	}

	return f
}

// DisplayMinPrice echoes the min price filter back for the UI: parsed values
// get thousands separators, malformed input comes back verbatim.
func (f Filters) DisplayMinPrice() string {
	if f.MinPrice != nil {
		return utils.FormatThousands(*f.MinPrice)
	}
	return f.MinPriceRaw
}

func (f Filters) DisplayMaxPrice() string {
	if f.MaxPrice != nil {
		return utils.FormatThousands(*f.MaxPrice)
	}
	return f.MaxPriceRaw
}

// Apply narrows an available-cars query to the filters. Text search is an
// OR across brand, model, location and description; brand/trans/fuel match
// exactly, case-insensitively.
func (f Filters) Apply(query *gorm.DB) *gorm.DB {
	if f.Query != "" {
		pattern := "%" + strings.ToLower(f.Query) + "%"
		query = query.Where(
			"LOWER(brand) LIKE ? OR LOWER(model) LIKE ? OR LOWER(location) LIKE ? OR LOWER(description) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if f.Brand != "" {
		query = query.Where("LOWER(brand) = LOWER(?)", f.Brand)
	}
	if f.Transmission != "" {
		query = query.Where("LOWER(transmission) = LOWER(?)", f.Transmission)
	}
	if f.Fuel != "" {
		query = query.Where("LOWER(fuel) = LOWER(?)", f.Fuel)
	}
	if f.MinPrice != nil {
		query = query.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinYear != nil {
		query = query.Where("year >= ?", *f.MinYear)
	}
	if f.MaxYear != nil {
		query = query.Where("year <= ?", *f.MaxYear)
	}
	return query
}

// Result is one page of the filtered listing.
type Result struct {
	Cars       []models.Car `json:"cars"`
	Page       int          `json:"page"`
	TotalPages int          `json:"totalPages"`
	TotalCount int64        `json:"totalCount"`
}

// Search runs the filtered, sorted, paginated query over available cars.
// Page numbers beyond the last page clamp to the last page; an empty result
// set is a valid empty page.
func Search(db *gorm.DB, f Filters) (*Result, error) {
	base := f.Apply(available(db.Model(&models.Car{}))).Session(&gorm.Session{})

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return nil, err
	}

	totalPages := int((count + PageSize - 1) / PageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	page := f.Page
	if page > totalPages {
		page = totalPages
	}

	var cars []models.Car
	err := base.
		Preload("Images").
		Order(sortOrders[f.Sort]).
		Limit(PageSize).
		Offset((page - 1) * PageSize).
		Find(&cars).Error
	if err != nil {
		return nil, err
	}

	return &Result{
		Cars:       cars,
		Page:       page,
		TotalPages: totalPages,
		TotalCount: count,
	}, nil
}

// BrandCount is one facet row: a distinct brand and how many available cars
// carry it.
type BrandCount struct {
	Brand string `json:"brand"`
	Count int64  `json:"count"`
}

// Facets is the UI metadata for the search sidebar. It is always computed
// over the whole available set, not the filtered subset, so the UI can
// offer the full range.
type Facets struct {
	Brands   []BrandCount `json:"brands"`
	MinPrice float64      `json:"minPrice"`
	MaxPrice float64      `json:"maxPrice"`
	MinYear  int          `json:"minYear"`
	MaxYear  int          `json:"maxYear"`
}

// ComputeFacets aggregates brand counts and price/year bounds over all
// available cars.
func ComputeFacets(db *gorm.DB) (*Facets, error) {
	var facets Facets

	err := available(db).Model(&models.Car{}).
		Select("brand, COUNT(*) as count").
		Group("brand").
		Order("brand").
		Scan(&facets.Brands).Error
	if err != nil {
		return nil, err
	}

	var stats struct {
		MinPrice float64
		MaxPrice float64
		MinYear  int
		MaxYear  int
	}
	err = available(db).Model(&models.Car{}).
		Select("COALESCE(MIN(price), 0) as min_price, COALESCE(MAX(price), 0) as max_price, COALESCE(MIN(year), 0) as min_year, COALESCE(MAX(year), 0) as max_year").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	facets.MinPrice = stats.MinPrice
	facets.MaxPrice = stats.MaxPrice
	facets.MinYear = stats.MinYear
	facets.MaxYear = stats.MaxYear
	return &facets, nil
}

func available(db *gorm.DB) *gorm.DB {
	return db.Where("is_available = ?", true)
}
