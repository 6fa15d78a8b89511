// Package catalog provides the product catalog value types.
package catalog

import (
	"errors"
	"time"
)

// Availability values shown on product pages.
const (
	InStock    = "In Stock"
	OutOfStock = "Out of Stock"
	OnOrder    = "On Order"
)

// Category groups products and carries its own QR code.
type Category struct {
	ID          int64
	Name        string
	Description string
	Image       string // stored file name, empty when none
	QRCode      string // base64 PNG data URI
	CreatedAt   time.Time
}

// Product is a catalog entry. ViewCount is a denormalized counter owned by
// the tracking write path; catalog code only reads it.
type Product struct {
	ID           int64
	Name         string
	Description  string
	Price        float64
	Availability string
	Image        string
	PDFCatalog   string // stored file name of the catalog document
	PDFPages     int    // page count of the catalog document
	QRCode       string
	ViewCount    int64
	CategoryID   int64
	CreatedAt    time.Time
}

// Validate checks the fields a create/update must supply.
func (p Product) Validate() error {
	if p.Name == "" {
		return errors.New("product name is required")
	}
	if p.Price < 0 {
		return errors.New("product price must not be negative")
	}
	if p.CategoryID == 0 {
		return errors.New("product category is required")
	}
	return nil
}

// Validate checks the fields a create/update must supply.
func (c Category) Validate() error {
	if c.Name == "" {
		return errors.New("category name is required")
	}
	return nil
}
