package backend

import (
	"time"

	"github.com/dmitrymomot/stockalert/pkg/notifications"
)

// Record is the wire shape of a notification.
type Record struct {
	ID        string                  `json:"id"`
	Type      string                  `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Category  string                  `json:"category"`
	Priority  string                  `json:"priority"`
	CreatedAt time.Time               `json:"created_at"`
	IsRead    bool                    `json:"is_read"`
	Metadata  *notifications.Metadata `json:"metadata,omitempty"`
}

// FromNotification converts a ledger entry to its wire record.
func FromNotification(n notifications.Notification) Record {
	return Record{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Category:  string(n.Category),
		Priority:  string(n.Priority),
		CreatedAt: n.Timestamp.UTC(),
		IsRead:    n.Read,
		Metadata:  n.Metadata,
	}
}

// Notification converts the record back. A missing category is derived from
// the type and a missing priority from the classifier.
func (r Record) Notification() notifications.Notification {
	t := notifications.Type(r.Type)

	category := notifications.Category(r.Category)
	if category == "" {
		category = notifications.CategoryFor(t)
	}

	priority := notifications.Priority(r.Priority)
	if priority == "" {
		ratio := 1.0
		if r.Metadata != nil {
			ratio = notifications.StockRatio(r.Metadata.CurrentStock, r.Metadata.MinStockLevel)
		}
		priority = notifications.PriorityFor(t, ratio)
	}

	return notifications.Notification{
		ID:        r.ID,
		Type:      t,
		Category:  category,
		Priority:  priority,
		Title:     r.Title,
		Message:   r.Message,
		Timestamp: r.CreatedAt,
		Read:      r.IsRead,
		Metadata:  r.Metadata,
	}
}
