package inventory

import (
	"context"
	"errors"
)

// Item is the stock level of one product at one warehouse.
type Item struct {
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	WarehouseID   string `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
	Quantity      int    `json:"quantity"`
	MinStockLevel int    `json:"min_stock_level"`
}

// Source returns the items at or below their reorder threshold.
type Source interface {
	LowStockItems(ctx context.Context) ([]Item, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]Item, error)

// LowStockItems calls f.
func (f SourceFunc) LowStockItems(ctx context.Context) ([]Item, error) {
	return f(ctx)
}

var (
	ErrUnexpectedStatus = errors.New("unexpected inventory response status")
	ErrDecodeResponse   = errors.New("failed to decode inventory response")
	ErrQueryFailed      = errors.New("inventory query failed")
)
