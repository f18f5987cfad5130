package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockPolicy controls whether adding to a cart checks product stock.
type StockPolicy string

const (
	StockPolicyBestEffort StockPolicy = "best-effort"
	StockPolicyStrict     StockPolicy = "strict"
)

// MaxLineQuantity caps a single cart line, merged adds included.
const MaxLineQuantity = 10000

func (p StockPolicy) IsValid() bool {
	return p == StockPolicyBestEffort || p == StockPolicyStrict
}

type CartItem struct {
	ID        int64           `json:"id"`
	CartID    uuid.UUID       `json:"cart_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   *Product        `json:"product,omitempty"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Total is computed from current product prices on every read and never stored.
type Cart struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity"   validate:"required,gt=0,lte=10000"`
}

type UpdateQuantityRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity"   validate:"gte=0,lte=10000"`
}

type RemoveItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
