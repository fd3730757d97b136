// Package monitor periodically samples inventory levels and raises stock
// alerts.
//
// Each pass fetches the at-risk items from an inventory.Source, classifies
// them with notifications.EvaluateStock, drops types disabled in the
// preferences, suppresses keys that already fired within the dedup window and
// hands the rest to a Dispatcher. Passes never overlap: a tick or CheckNow
// that arrives while a pass runs is skipped.
//
//	m := monitor.New(source, router, dedup.NewMemory(), prefs)
//	m.Start(ctx, 15*time.Minute)
//	defer m.Stop()
//
// A failed inventory query aborts only that pass; the loop keeps running and
// LastCheck keeps the time of the last successful pass.
package monitor
