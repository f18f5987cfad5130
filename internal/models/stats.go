package models

import "github.com/shopspring/decimal"

type AdminStats struct {
	TotalUsers    int64           `json:"total_users"`
	TotalProducts int64           `json:"total_products"`
	TotalOrders   int64           `json:"total_orders"`
	Revenue       decimal.Decimal `json:"revenue"`
}
