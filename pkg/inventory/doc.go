// Package inventory provides the stock-level sources the monitor samples.
//
// HTTPSource calls an inventory API; PostgresSource queries the
// inventory_levels, products and warehouses tables directly. Both return only
// items whose quantity is at or below the reorder threshold.
package inventory
