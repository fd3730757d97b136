package notifications

import "fmt"

// Delivery channel identifiers.
const (
	ChannelDefault          = "default"
	ChannelStockAlerts      = "stock_alerts"
	ChannelInventoryUpdates = "inventory_updates"
)

// Styling is the delivery presentation for a notification type.
type Styling struct {
	Priority  Priority
	ChannelID string
	Icon      string
	Color     string
	Sound     bool
	Vibration bool
	SubText   string
	Actions   []string
}

// Action button labels.
const (
	ActionViewItem     = "View Item"
	ActionCreateOrder  = "Create Order"
	ActionReorder      = "Reorder"
	ActionViewTransfer = "View Transfer"
	ActionViewOrder    = "View Order"
)

var stylingTable = map[Type]Styling{
	TypeOutOfStock: {
		Priority:  PriorityCritical,
		ChannelID: ChannelStockAlerts,
		Icon:      "ic_error",
		Color:     "#F44336",
		Sound:     true,
		Vibration: true,
		SubText:   "Out of Stock",
		Actions:   []string{ActionViewItem, ActionCreateOrder},
	},
	TypeLowStock: {
		Priority:  PriorityHigh,
		ChannelID: ChannelStockAlerts,
		Icon:      "ic_warning",
		Color:     "#FF9800",
		Sound:     true,
		Vibration: true,
		SubText:   "Low Stock",
		Actions:   []string{ActionViewItem, ActionReorder},
	},
	TypeBackInStock: {
		Priority:  PriorityMedium,
		ChannelID: ChannelInventoryUpdates,
		Icon:      "ic_check_circle",
		Color:     "#4CAF50",
		Sound:     true,
		Actions:   []string{ActionViewItem},
	},
	TypeTransferCompleted: {
		Priority:  PriorityMedium,
		ChannelID: ChannelInventoryUpdates,
		Icon:      "ic_swap_horiz",
		Color:     "#4CAF50",
		Sound:     true,
		Actions:   []string{ActionViewTransfer},
	},
	TypePurchaseOrder: {
		Priority:  PriorityMedium,
		ChannelID: ChannelDefault,
		Icon:      "ic_shopping_cart",
		Color:     "#2196F3",
		Sound:     true,
		Actions:   []string{ActionViewOrder},
	},
	TypeStockAdjustment: {
		Priority:  PriorityLow,
		ChannelID: ChannelInventoryUpdates,
		Icon:      "ic_tune",
		Color:     "#9E9E9E",
	},
}

// Classify returns the styling for t. Unknown types get low priority on the
// default channel.
func Classify(t Type) Styling {
	s, ok := stylingTable[t]
	if !ok {
		return Styling{Priority: PriorityLow, ChannelID: ChannelDefault}
	}
	s.Actions = append([]string(nil), s.Actions...)
	return s
}

// StockRatio returns current/min, or 0 when min is not positive.
func StockRatio(current, minLevel int) float64 {
	if minLevel <= 0 {
		return 0
	}
	return float64(current) / float64(minLevel)
}

// PriorityFor maps (type, stock ratio) to a priority. An empty low-stock
// item escalates to critical.
func PriorityFor(t Type, ratio float64) Priority {
	if t == TypeLowStock && ratio <= 0 {
		return PriorityCritical
	}
	return Classify(t).Priority
}

// Alert is a threshold breach detected for a single item.
type Alert struct {
	Type     Type
	Priority Priority
	Ratio    float64
}

// EvaluateStock classifies a stock level. It reports false when the level is
// above the minimum and no alert is due.
func EvaluateStock(current, minLevel int) (Alert, bool) {
	ratio := StockRatio(current, minLevel)
	switch {
	case current <= 0:
		return Alert{Type: TypeOutOfStock, Priority: PriorityFor(TypeOutOfStock, ratio), Ratio: 0}, true
	case current <= minLevel:
		return Alert{Type: TypeLowStock, Priority: PriorityFor(TypeLowStock, ratio), Ratio: ratio}, true
	default:
		return Alert{}, false
	}
}

// AlertText renders the title and message for a stock alert.
func AlertText(t Type, itemName, locationName string, current, minLevel int) (title, message string) {
	switch t {
	case TypeOutOfStock:
		return "Out of Stock", fmt.Sprintf("%s is out of stock at %s", itemName, locationName)
	case TypeLowStock:
		return "Low Stock Alert", fmt.Sprintf("%s is running low at %s (%d left, minimum %d)", itemName, locationName, current, minLevel)
	default:
		return string(t), itemName
	}
}
