package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryBooks       Category = "books"
	CategoryHome        Category = "home"
	CategorySports      Category = "sports"
	CategoryOther       Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryClothing, CategoryBooks, CategoryHome, CategorySports, CategoryOther:
		return true
	}

	return false
}

type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	Stock       int             `json:"stock"`
	Brand       string          `json:"brand"`
	Images      []string        `json:"images"`
	Features    []string        `json:"features"`
	Rating      Rating          `json:"rating"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// PlaceholderImage stands in for products without any image.
const PlaceholderImage = "/images/placeholder.jpg"

func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 || p.Images[0] == "" {
		return PlaceholderImage
	}

	return p.Images[0]
}

const (
	DefaultPage     = 1
	DefaultPageSize = 12
	MaxPageSize     = 100
	MaxPage         = 10000
)

// Query-string filters for the catalog listing.
type ProductFilter struct {
	Category Category
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Page     int
	Limit    int
}

// Normalize clamps paging to the supported window.
func (f *ProductFilter) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}

	if f.Page > MaxPage {
		f.Page = MaxPage
	}

	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}

	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
}

func (f *ProductFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
