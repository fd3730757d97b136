// Package cache provides an in-memory LRU cache with per-entry expiry.
//
// TTLCache bounds memory by capacity and evicts the least recently used entry
// when full. Each entry carries its own deadline; expired entries are removed
// the next time they are read, or in bulk with Purge.
//
//	c := cache.NewTTLCache[string, struct{}](10_000)
//	c.Put("low_stock:item-1:wh-1", struct{}{}, 24*time.Hour)
//
//	if _, ok := c.Get("low_stock:item-1:wh-1"); ok {
//		// still live
//	}
//
// A custom clock can be injected for tests with WithClock.
package cache
