package inventory

import (
	"context"
	"embed"
	"errors"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations returns the goose migrations for the inventory schema.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

const lowStockQuery = `
SELECT p.id::text, p.name, w.id::text, w.name, l.quantity, l.min_stock_level
FROM inventory_levels l
JOIN products p ON p.id = l.product_id
JOIN warehouses w ON w.id = l.warehouse_id
WHERE l.quantity <= l.min_stock_level
ORDER BY l.quantity ASC, p.name ASC`

// Querier is the subset of pgxpool.Pool the source needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ Querier = (*pgxpool.Pool)(nil)

// PostgresSource reads low-stock items straight from the inventory tables.
type PostgresSource struct {
	db Querier
}

// NewPostgresSource creates a source over db.
func NewPostgresSource(db Querier) *PostgresSource {
	return &PostgresSource{db: db}
}

// LowStockItems implements Source.
func (s *PostgresSource) LowStockItems(ctx context.Context) ([]Item, error) {
	rows, err := s.db.Query(ctx, lowStockQuery)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Item, error) {
		var it Item
		err := row.Scan(&it.ProductID, &it.ProductName, &it.WarehouseID, &it.WarehouseName, &it.Quantity, &it.MinStockLevel)
		return it, err
	})
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	return items, nil
}
