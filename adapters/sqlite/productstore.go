package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/artpar/showroom/domain/catalog"
	"github.com/artpar/showroom/ports"
)

// ProductStore implements ports.ProductStore using SQLite.
type ProductStore struct {
	db *DB
}

// NewProductStore creates a new SQLite product store.
func NewProductStore(db *DB) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `id, name, COALESCE(description, ''), price, availability,
	COALESCE(image, ''), COALESCE(pdf_catalog, ''), pdf_pages,
	COALESCE(qr_code, ''), view_count, category_id, created_at`

func scanProduct(row interface{ Scan(...any) error }) (catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Availability,
		&p.Image, &p.PDFCatalog, &p.PDFPages,
		&p.QRCode, &p.ViewCount, &p.CategoryID, &p.CreatedAt)
	return p, err
}

// List returns all products in insertion order.
func (s *ProductStore) List(ctx context.Context) ([]catalog.Product, error) {
	return s.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
}

// ListByCategory returns the products of one category.
func (s *ProductStore) ListByCategory(ctx context.Context, categoryID int64) ([]catalog.Product, error) {
	return s.list(ctx, `SELECT `+productColumns+` FROM products WHERE category_id = ? ORDER BY id`, categoryID)
}

func (s *ProductStore) list(ctx context.Context, query string, args ...any) ([]catalog.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get retrieves a product by ID.
func (s *ProductStore) Get(ctx context.Context, id int64) (catalog.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Product{}, ErrNotFound
	}
	return p, err
}

// Create stores a new product and returns its ID. view_count starts at zero;
// only the tracking write path mutates it afterwards.
func (s *ProductStore) Create(ctx context.Context, p catalog.Product) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO products (name, description, price, availability, image,
			pdf_catalog, pdf_pages, qr_code, category_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.Name, p.Description, p.Price, p.Availability, p.Image,
		p.PDFCatalog, p.PDFPages, p.QRCode, p.CategoryID, p.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update replaces the mutable fields of a product, leaving view_count alone.
func (s *ProductStore) Update(ctx context.Context, p catalog.Product) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET name = ?, description = ?, price = ?, availability = ?,
			image = ?, pdf_catalog = ?, pdf_pages = ?, qr_code = ?, category_id = ?
		WHERE id = ?
	`, p.Name, p.Description, p.Price, p.Availability,
		p.Image, p.PDFCatalog, p.PDFPages, p.QRCode, p.CategoryID, p.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes a product and its recorded views.
func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Ensure interface compliance.
var _ ports.ProductStore = (*ProductStore)(nil)
