package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/artpar/showroom/domain/tracking"
	"github.com/artpar/showroom/ports"
)

// ProductViewStore implements ports.ProductViewStore using SQLite.
type ProductViewStore struct {
	db *DB
}

// NewProductViewStore creates a new SQLite product view store.
func NewProductViewStore(db *DB) *ProductViewStore {
	return &ProductViewStore{db: db}
}

// RecordWithCount inserts the product view and increments the product's
// view_count in one transaction. The relative UPDATE serializes concurrent
// increments inside SQLite, so no update is ever lost.
func (s *ProductViewStore) RecordWithCount(ctx context.Context, pv tracking.ProductView) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	// Counter first: a zero-row UPDATE means the product does not exist.
	res, err := tx.ExecContext(ctx, `
		UPDATE products SET view_count = view_count + 1 WHERE id = ?
	`, pv.ProductID)
	if err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("product %d: %w", pv.ProductID, ErrNotFound)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO product_views (product_id, ip_address, user_agent,
			page_number, view_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, pv.ProductID, pv.IPAddress, pv.UserAgent,
		pv.PageNumber, string(pv.ViewType), pv.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert product view: %w", err)
	}

	return tx.Commit()
}

// CountSince counts views of the product at or after since.
func (s *ProductViewStore) CountSince(ctx context.Context, productID int64, since time.Time) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM product_views
		WHERE product_id = ? AND created_at >= ?
	`, productID, since).Scan(&n)
	return n, err
}

// CountUniqueIPsSince counts distinct IPs that viewed the product.
func (s *ProductViewStore) CountUniqueIPsSince(ctx context.Context, productID int64, since time.Time) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT ip_address) FROM product_views
		WHERE product_id = ? AND created_at >= ?
	`, productID, since).Scan(&n)
	return n, err
}

// PageBreakdown returns pdf_page view counts per page number, ascending.
func (s *ProductViewStore) PageBreakdown(ctx context.Context, productID int64, since time.Time) ([]tracking.PageNumberCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT page_number, COUNT(*) AS views
		FROM product_views
		WHERE product_id = ? AND created_at >= ? AND view_type = ?
		GROUP BY page_number
		ORDER BY page_number ASC
	`, productID, since, string(tracking.ViewPDFPage))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tracking.PageNumberCount
	for rows.Next() {
		var pc tracking.PageNumberCount
		if err := rows.Scan(&pc.PageNumber, &pc.Views); err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}

// Ensure interface compliance.
var _ ports.ProductViewStore = (*ProductViewStore)(nil)
