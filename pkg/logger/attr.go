package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// NotificationID records a ledger entry id under the key "notification_id".
func NotificationID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("notification_id", id)
}

// NotificationType records the alert type under the key "notification_type".
func NotificationType(t string) slog.Attr {
	return slog.String("notification_type", t)
}

// AlertKey records the dedup key under the key "alert_key".
func AlertKey(key string) slog.Attr {
	return slog.String("alert_key", key)
}

// ItemID records the inventory item under the key "item_id".
func ItemID(id string) slog.Attr {
	return slog.String("item_id", id)
}

// LocationID records the warehouse or location under the key "location_id".
func LocationID(id string) slog.Attr {
	return slog.String("location_id", id)
}

// Channel records a delivery channel identifier under the key "channel".
func Channel(id string) slog.Attr {
	return slog.String("channel", id)
}

// Count records a counter under the given key.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}
