package notifications

import (
	"net/url"
	"time"
)

// Type identifies what happened to an item.
type Type string

const (
	TypeLowStock          Type = "low_stock"
	TypeOutOfStock        Type = "out_of_stock"
	TypeBackInStock       Type = "back_in_stock"
	TypeTransferCompleted Type = "transfer_completed"
	TypePurchaseOrder     Type = "purchase_order"
	TypeStockAdjustment   Type = "stock_adjustment"
)

// Types lists every known notification type.
var Types = []Type{
	TypeLowStock,
	TypeOutOfStock,
	TypeBackInStock,
	TypeTransferCompleted,
	TypePurchaseOrder,
	TypeStockAdjustment,
}

// Category groups notifications for filtering.
type Category string

const (
	CategoryWarehouse Category = "warehouse"
	CategoryInventory Category = "inventory"
	CategorySystem    Category = "system"
	CategoryOrder     Category = "order"
	CategoryGeneral   Category = "general"
)

// Priority is the severity tier used for delivery styling and backend importance.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Rank orders priorities from 0 (low) to 3 (critical). Unknown values rank as low.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 3
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether p is as severe as other or more.
func (p Priority) AtLeast(other Priority) bool {
	return p.Rank() >= other.Rank()
}

// Metadata carries the stock context an alert was raised for.
type Metadata struct {
	ItemID        string  `json:"item_id,omitempty"`
	ItemName      string  `json:"item_name,omitempty"`
	LocationID    string  `json:"location_id,omitempty"`
	LocationName  string  `json:"location_name,omitempty"`
	CurrentStock  int     `json:"current_stock"`
	MinStockLevel int     `json:"min_stock_level"`
	StockRatio    float64 `json:"stock_ratio"`
}

// Notification is a single ledger entry.
type Notification struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Category  Category  `json:"category"`
	Priority  Priority  `json:"priority"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
	Metadata  *Metadata `json:"metadata,omitempty"`
}

// Input is the caller-supplied part of a new notification. The store assigns
// the id and timestamp; priority is always derived from the type.
type Input struct {
	Type     Type
	Category Category
	Title    string
	Message  string
	Metadata *Metadata
	Read     bool
}

// Patch holds optional field updates. Read can only move an entry to read.
type Patch struct {
	Title    *string
	Message  *string
	Metadata *Metadata
	Read     *bool
}

// CategoryFor derives the category for a type.
func CategoryFor(t Type) Category {
	switch t {
	case TypeLowStock, TypeOutOfStock, TypeBackInStock, TypeStockAdjustment:
		return CategoryInventory
	case TypeTransferCompleted:
		return CategoryWarehouse
	case TypePurchaseOrder:
		return CategoryOrder
	default:
		return CategoryGeneral
	}
}

// AlertKey builds the dedup key for an alert on one item at one location.
// Ids are query-escaped so a ":" inside an id cannot collide with the separator.
func AlertKey(t Type, itemID, locationID string) string {
	return string(t) + ":" + url.QueryEscape(itemID) + ":" + url.QueryEscape(locationID)
}

func cloneMetadata(m *Metadata) *Metadata {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}
