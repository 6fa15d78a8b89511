package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/artpar/showroom/domain/catalog"
	"github.com/artpar/showroom/ports"
)

// CategoryStore implements ports.CategoryStore using SQLite.
type CategoryStore struct {
	db *DB
}

// NewCategoryStore creates a new SQLite category store.
func NewCategoryStore(db *DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, COALESCE(description, ''), COALESCE(image, ''), COALESCE(qr_code, ''), created_at`

// List returns all categories in insertion order.
func (s *CategoryStore) List(ctx context.Context) ([]catalog.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+` FROM categories ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Category
	for rows.Next() {
		var c catalog.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Image, &c.QRCode, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Get retrieves a category by ID.
func (s *CategoryStore) Get(ctx context.Context, id int64) (catalog.Category, error) {
	var c catalog.Category
	err := s.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+` FROM categories WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Description, &c.Image, &c.QRCode, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Category{}, ErrNotFound
	}
	return c, err
}

// Create stores a new category and returns its ID.
func (s *CategoryStore) Create(ctx context.Context, c catalog.Category) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (name, description, image, qr_code, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.Name, c.Description, c.Image, c.QRCode, c.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update replaces the mutable fields of a category.
func (s *CategoryStore) Update(ctx context.Context, c catalog.Category) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, description = ?, image = ?, qr_code = ?
		WHERE id = ?
	`, c.Name, c.Description, c.Image, c.QRCode, c.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes a category. Products under it cascade away.
func (s *CategoryStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// requireRow maps a zero-row result to ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Ensure interface compliance.
var _ ports.CategoryStore = (*CategoryStore)(nil)
