package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/artpar/showroom/adapters/clock"
	"github.com/artpar/showroom/adapters/qr"
	"github.com/artpar/showroom/adapters/sqlite"
	"github.com/artpar/showroom/domain/catalog"
	"github.com/artpar/showroom/domain/tracking"
)

func newTestCatalog(t *testing.T, db *sqlite.DB) *CatalogService {
	t.Helper()
	fc := clock.NewFake(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	return NewCatalogService(
		sqlite.NewCategoryStore(db),
		sqlite.NewProductStore(db),
		qr.Fake{},
		fc,
		"https://shop.example",
		zerolog.Nop(),
	)
}

func TestCatalog_CreateCategoryStampsQR(t *testing.T) {
	db := openTestDB(t)
	svc := newTestCatalog(t, db)
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, catalog.Category{Name: "Plywood"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if c.ID == 0 {
		t.Fatal("category ID not assigned")
	}
	want := "qr:https://shop.example/category/"
	if !strings.HasPrefix(c.QRCode, want) {
		t.Errorf("QRCode = %q, want prefix %q", c.QRCode, want)
	}

	// The stamped code is persisted, not only returned.
	stored, err := svc.GetCategory(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCategory() error = %v", err)
	}
	if stored.QRCode != c.QRCode {
		t.Errorf("stored QRCode = %q, want %q", stored.QRCode, c.QRCode)
	}
}

func TestCatalog_CreateProduct(t *testing.T) {
	db := openTestDB(t)
	svc := newTestCatalog(t, db)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, catalog.Category{Name: "Plywood"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}

	p, err := svc.CreateProduct(ctx, catalog.Product{
		Name:       "Marine Plywood 18mm",
		Price:      1450,
		CategoryID: cat.ID,
	})
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	if p.Availability != catalog.InStock {
		t.Errorf("Availability = %q, want default %q", p.Availability, catalog.InStock)
	}
	if !strings.HasPrefix(p.QRCode, "qr:https://shop.example/product/") {
		t.Errorf("QRCode = %q, want product URL QR", p.QRCode)
	}

	// Validation failures surface before any write.
	if _, err := svc.CreateProduct(ctx, catalog.Product{Price: 10, CategoryID: cat.ID}); err == nil {
		t.Error("nameless product accepted")
	}
	if _, err := svc.CreateProduct(ctx, catalog.Product{Name: "x", Price: -1, CategoryID: cat.ID}); err == nil {
		t.Error("negative price accepted")
	}
}

func TestCatalog_ListProductsByCategory(t *testing.T) {
	db := openTestDB(t)
	svc := newTestCatalog(t, db)
	ctx := context.Background()

	a, err := svc.CreateCategory(ctx, catalog.Category{Name: "Plywood"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	b, err := svc.CreateCategory(ctx, catalog.Category{Name: "Laminates"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	for _, spec := range []struct {
		name string
		cat  int64
	}{
		{"Marine Plywood 18mm", a.ID},
		{"Commercial Plywood 12mm", a.ID},
		{"Teak Laminate Sheet", b.ID},
	} {
		if _, err := svc.CreateProduct(ctx, catalog.Product{Name: spec.name, Price: 100, CategoryID: spec.cat}); err != nil {
			t.Fatalf("CreateProduct(%s) error = %v", spec.name, err)
		}
	}

	all, err := svc.ListProducts(ctx, 0)
	if err != nil {
		t.Fatalf("ListProducts(0) error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("all products = %d, want 3", len(all))
	}
	ply, err := svc.ListProducts(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListProducts(%d) error = %v", a.ID, err)
	}
	if len(ply) != 2 {
		t.Errorf("plywood products = %d, want 2", len(ply))
	}
}

func TestCatalog_UpdatePreservesViewCount(t *testing.T) {
	db := openTestDB(t)
	svc := newTestCatalog(t, db)
	tracker, _ := newTestTracker(t, db)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, catalog.Category{Name: "Plywood"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	p, err := svc.CreateProduct(ctx, catalog.Product{Name: "Marine Plywood 18mm", Price: 1450, CategoryID: cat.ID})
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	tracker.RecordProductView(ctx, p.ID, 0, tracking.ViewProduct, tracking.RequestMeta{
		IPAddress: "203.0.113.9",
		UserAgent: browserUA,
	})

	p.Price = 1500
	p.ViewCount = 0 // stale caller value must not clobber the counter
	if err := svc.UpdateProduct(ctx, p); err != nil {
		t.Fatalf("UpdateProduct() error = %v", err)
	}

	got, err := svc.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if got.Price != 1500 {
		t.Errorf("Price = %v, want 1500", got.Price)
	}
	if got.ViewCount != 1 {
		t.Errorf("ViewCount = %d, want 1 after update", got.ViewCount)
	}
}
