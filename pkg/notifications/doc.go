// Package notifications implements the stock-alert notification ledger and
// its delivery pipeline.
//
// # Architecture
//
//   - Classify: static styling table keyed by notification type
//   - EvaluateStock: threshold rule turning a stock level into an Alert
//   - Store: ledger of notifications; all mutations funnel through Reduce
//   - Router: stores an alert, delivers it through a Channel and creates it
//     in the Backend in the background
//   - PreferencesStore: per-installation settings kept in the key-value store
//
// # Basic Usage
//
//	store := notifications.NewStore(kv, notifications.WithBackend(client))
//	if err := store.Load(ctx); err != nil {
//		return err
//	}
//
//	router := notifications.NewRouter(store, pushChannel,
//		notifications.WithRouterBackend(client),
//		notifications.WithRouterPreferences(notifications.NewPreferencesStore(kv)),
//	)
//
//	n, err := router.Dispatch(ctx, notifications.Input{
//		Type:    notifications.TypeLowStock,
//		Title:   "Low Stock Alert",
//		Message: "Widget is running low at Main (2 left, minimum 10)",
//	})
//
// # Persistence
//
// The ledger is saved as a JSON array under NotificationsKey after each
// mutation. A failed save is logged and in-memory state stays authoritative.
//
// # Sync
//
// Store.Sync replaces the ledger with the backend list. A read flag set
// locally between the backend read and the replace may be reverted; the next
// sync settles it.
package notifications
