package app

import (
	"context"
	"fmt"

	"github.com/artpar/showroom/domain/catalog"
	"github.com/artpar/showroom/ports"
	"github.com/rs/zerolog"
)

// CatalogService manages categories and products. Writes generate a QR
// code pointing at the public page so the data URI is stored alongside the
// record and never rendered on demand.
type CatalogService struct {
	categories ports.CategoryStore
	products   ports.ProductStore
	qr         ports.QREncoder
	clock      ports.Clock
	baseURL    string
	logger     zerolog.Logger
}

// NewCatalogService creates the catalog service. baseURL is the public
// origin used inside generated QR codes, without a trailing slash.
func NewCatalogService(
	categories ports.CategoryStore,
	products ports.ProductStore,
	qr ports.QREncoder,
	clock ports.Clock,
	baseURL string,
	logger zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		categories: categories,
		products:   products,
		qr:         qr,
		clock:      clock,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// SiteQR returns a QR code data URI for the site's public root URL.
func (s *CatalogService) SiteQR() (string, error) {
	return s.qr.DataURI(s.baseURL + "/")
}

// ListCategories returns all categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return s.categories.List(ctx)
}

// GetCategory returns one category by ID.
func (s *CatalogService) GetCategory(ctx context.Context, id int64) (catalog.Category, error) {
	return s.categories.Get(ctx, id)
}

// CreateCategory validates, stores and QR-stamps a new category.
func (s *CatalogService) CreateCategory(ctx context.Context, c catalog.Category) (catalog.Category, error) {
	if err := c.Validate(); err != nil {
		return catalog.Category{}, err
	}
	c.CreatedAt = s.clock.Now()

	id, err := s.categories.Create(ctx, c)
	if err != nil {
		return catalog.Category{}, fmt.Errorf("create category: %w", err)
	}
	c.ID = id

	// The QR target needs the assigned ID, so the code is generated after
	// the insert and written back. A QR failure leaves the category usable.
	uri, err := s.qr.DataURI(fmt.Sprintf("%s/category/%d", s.baseURL, id))
	if err != nil {
		s.logger.Error().Err(err).Int64("category_id", id).Msg("category qr generation failed")
		return c, nil
	}
	c.QRCode = uri
	if err := s.categories.Update(ctx, c); err != nil {
		s.logger.Error().Err(err).Int64("category_id", id).Msg("category qr save failed")
	}
	return c, nil
}

// UpdateCategory validates and stores changed category fields.
func (s *CatalogService) UpdateCategory(ctx context.Context, c catalog.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.categories.Update(ctx, c)
}

// DeleteCategory removes a category. Products referencing it are removed by
// the store's foreign key cascade.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.categories.Delete(ctx, id)
}

// ListProducts returns all products, optionally filtered by category.
// categoryID zero means no filter.
func (s *CatalogService) ListProducts(ctx context.Context, categoryID int64) ([]catalog.Product, error) {
	if categoryID > 0 {
		return s.products.ListByCategory(ctx, categoryID)
	}
	return s.products.List(ctx)
}

// GetProduct returns one product by ID.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (catalog.Product, error) {
	return s.products.Get(ctx, id)
}

// CreateProduct validates, stores and QR-stamps a new product.
func (s *CatalogService) CreateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	if err := p.Validate(); err != nil {
		return catalog.Product{}, err
	}
	if p.Availability == "" {
		p.Availability = catalog.InStock
	}
	p.CreatedAt = s.clock.Now()

	id, err := s.products.Create(ctx, p)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("create product: %w", err)
	}
	p.ID = id

	uri, err := s.qr.DataURI(fmt.Sprintf("%s/product/%d", s.baseURL, id))
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("product qr generation failed")
		return p, nil
	}
	p.QRCode = uri
	if err := s.products.Update(ctx, p); err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("product qr save failed")
	}
	return p, nil
}

// UpdateProduct validates and stores changed product fields. The stored
// view count is not touched by updates.
func (s *CatalogService) UpdateProduct(ctx context.Context, p catalog.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.products.Update(ctx, p)
}

// DeleteProduct removes a product and, via the store's cascade, its
// recorded views.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.products.Delete(ctx, id)
}
