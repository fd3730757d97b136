package notifications

import "context"

// Keys used in the persistent key-value store.
const (
	NotificationsKey     = "stockalert:notifications"
	PreferencesKey       = "stockalert:preferences"
	PushSubscriptionsKey = "stockalert:push_subscriptions"
)

// KeyValueStore is the local persistence the ledger and preferences are cached in.
// Get returns (nil, nil) when the key does not exist.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Backend is the remote notification service.
type Backend interface {
	List(ctx context.Context, includeRead bool) ([]Notification, error)
	MarkRead(ctx context.Context, id string, value bool) error
	Create(ctx context.Context, n Notification) error
}
