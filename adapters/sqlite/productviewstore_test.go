package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/artpar/showroom/domain/tracking"
)

func productViewAt(productID int64, page int, vt tracking.ViewType, at time.Time) tracking.ProductView {
	return tracking.ProductView{
		ProductID:  productID,
		IPAddress:  "10.0.0.1",
		UserAgent:  "Mozilla/5.0",
		PageNumber: page,
		ViewType:   vt,
		CreatedAt:  at,
	}
}

func TestProductViewStore_RecordWithCount(t *testing.T) {
	db := openTestDB(t)
	prodID := seedProduct(t, db)
	s := NewProductViewStore(db)
	ctx := context.Background()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := s.RecordWithCount(ctx, productViewAt(prodID, 1, tracking.ViewProduct, at)); err != nil {
		t.Fatalf("RecordWithCount() error = %v", err)
	}

	p, err := NewProductStore(db).Get(ctx, prodID)
	if err != nil {
		t.Fatalf("Get product: %v", err)
	}
	if p.ViewCount != 1 {
		t.Errorf("ViewCount = %d, want 1", p.ViewCount)
	}

	n, err := s.CountSince(ctx, prodID, at.AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("CountSince() error = %v", err)
	}
	if n != 1 {
		t.Errorf("CountSince = %d, want 1", n)
	}
}

func TestProductViewStore_RecordWithCount_MissingProduct(t *testing.T) {
	db := openTestDB(t)
	s := NewProductViewStore(db)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	err := s.RecordWithCount(context.Background(), productViewAt(999, 1, tracking.ViewProduct, at))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}

	// The insert must have rolled back with the failed counter update.
	var rows int
	if err := db.QueryRow("SELECT COUNT(*) FROM product_views").Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 0 {
		t.Errorf("product_views rows = %d, want 0 after rollback", rows)
	}
}

func TestProductViewStore_ConcurrentIncrements(t *testing.T) {
	db := openTestDB(t)
	prodID := seedProduct(t, db)
	s := NewProductViewStore(db)

	const callers = 16
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.RecordWithCount(context.Background(), productViewAt(prodID, 1, tracking.ViewProduct, at))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent RecordWithCount() error = %v", err)
		}
	}

	p, err := NewProductStore(db).Get(context.Background(), prodID)
	if err != nil {
		t.Fatalf("Get product: %v", err)
	}
	if p.ViewCount != callers {
		t.Errorf("ViewCount = %d, want %d (no lost updates)", p.ViewCount, callers)
	}
}

func TestProductViewStore_PageBreakdown(t *testing.T) {
	db := openTestDB(t)
	prodID := seedProduct(t, db)
	s := NewProductViewStore(db)
	ctx := context.Background()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := s.RecordWithCount(ctx, productViewAt(prodID, 2, tracking.ViewPDFPage, at)); err != nil {
			t.Fatalf("record pdf_page: %v", err)
		}
	}
	if err := s.RecordWithCount(ctx, productViewAt(prodID, 1, tracking.ViewProduct, at)); err != nil {
		t.Fatalf("record product: %v", err)
	}
	if err := s.RecordWithCount(ctx, productViewAt(prodID, 5, tracking.ViewPDFPage, at)); err != nil {
		t.Fatalf("record pdf_page 5: %v", err)
	}

	since := at.AddDate(0, 0, -30)

	total, err := s.CountSince(ctx, prodID, since)
	if err != nil {
		t.Fatalf("CountSince() error = %v", err)
	}
	if total != 5 {
		t.Errorf("total views = %d, want 5", total)
	}

	pages, err := s.PageBreakdown(ctx, prodID, since)
	if err != nil {
		t.Fatalf("PageBreakdown() error = %v", err)
	}
	// Only pdf_page rows count, ordered by page number.
	if len(pages) != 2 {
		t.Fatalf("len(pages) = %d, want 2: %+v", len(pages), pages)
	}
	if pages[0].PageNumber != 2 || pages[0].Views != 3 {
		t.Errorf("pages[0] = %+v, want {page:2 views:3}", pages[0])
	}
	if pages[1].PageNumber != 5 || pages[1].Views != 1 {
		t.Errorf("pages[1] = %+v, want {page:5 views:1}", pages[1])
	}
}

func TestProductViewStore_CountUniqueIPs(t *testing.T) {
	db := openTestDB(t)
	prodID := seedProduct(t, db)
	s := NewProductViewStore(db)
	ctx := context.Background()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, ip := range []string{"10.0.0.1", "10.0.0.1", "10.0.0.2"} {
		pv := productViewAt(prodID, 1, tracking.ViewProduct, at)
		pv.IPAddress = ip
		if err := s.RecordWithCount(ctx, pv); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	n, err := s.CountUniqueIPsSince(ctx, prodID, at.AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("CountUniqueIPsSince() error = %v", err)
	}
	if n != 2 {
		t.Errorf("unique IPs = %d, want 2", n)
	}
}
