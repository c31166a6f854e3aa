package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// LoadPostgres reads the full item list from the catalog_items table. The
// catalog is immutable for the process lifetime, so it is read once at
// startup and the connection is closed afterwards.
func LoadPostgres(ctx context.Context, databaseURL string) (*Index, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to catalog database: %w", err)
	}
	defer db.Close()

	db.SetConnMaxLifetime(time.Minute)

	var items []Item
	err = db.SelectContext(ctx, &items, `
		SELECT id, name, name_th, level, category, in_stock, price_per_5, img
		FROM catalog_items
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog items: %w", err)
	}

	return NewIndex(items), nil
}
