package notifications

import "errors"

var (
	// ErrSourceUnavailable is returned when the inventory source cannot be queried.
	ErrSourceUnavailable = errors.New("inventory source unavailable")

	// ErrDeliveryFailure is returned when a push package could not be delivered.
	ErrDeliveryFailure = errors.New("notification delivery failed")

	// ErrSyncFailure is returned when the backend list cannot be fetched.
	ErrSyncFailure = errors.New("notification sync failed")

	// ErrNoBackend is returned by Sync when no backend is configured.
	ErrNoBackend = errors.New("no notification backend configured")

	// ErrPersistenceFailure is reported when the local ledger cannot be saved or loaded.
	ErrPersistenceFailure = errors.New("notification persistence failed")

	// ErrNotificationNotFound is returned for mutations on an unknown id.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrInvalidPreferences is returned when preferences fail validation.
	ErrInvalidPreferences = errors.New("invalid notification preferences")
)
