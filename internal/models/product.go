package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Price is authoritative for carts and checkout. DiscountedPrice is display only.
type Product struct {
	ID              int64               `json:"id"`
	CategoryID      int64               `json:"category_id"`
	Name            string              `json:"name"`
	Slug            string              `json:"slug"`
	Description     string              `json:"description"`
	Weight          string              `json:"weight"`
	Price           decimal.Decimal     `json:"price"`
	DiscountedPrice decimal.NullDecimal `json:"discounted_price"`
	Stock           int                 `json:"stock"`
	IsActive        bool                `json:"is_active"`
	ImageURL        string              `json:"image_url"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type ProductFilter struct {
	CategoryID *int64
	Page       int
	PageSize   int
}
