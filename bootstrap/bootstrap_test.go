package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/artpar/showroom/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv error: %v", err)
	}
	cfg.Database.DSN = filepath.Join(t.TempDir(), "test.db")
	cfg.Metrics.Enabled = false

	a, err := NewWithHolder(config.NewStaticHolder(cfg, zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewWithHolder error: %v", err)
	}
	t.Cleanup(func() { a.DB.Close() })
	return a
}

func TestNewWithHolder_WiresEverything(t *testing.T) {
	a := newTestApp(t)

	if a.Tracker == nil || a.Analytics == nil || a.Catalog == nil || a.Contact == nil || a.Auth == nil {
		t.Fatal("not all services wired")
	}
	if a.HTTPServer == nil || a.HTTPServer.Handler == nil {
		t.Fatal("http server not configured")
	}
	if a.HTTPServer.Addr != "0.0.0.0:8080" {
		t.Errorf("Addr = %s, want 0.0.0.0:8080", a.HTTPServer.Addr)
	}
}

func TestSeedDefaults(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	if err := a.SeedDefaults(ctx, "admin", "admin@example.com", "secret"); err != nil {
		t.Fatalf("SeedDefaults error: %v", err)
	}

	users, err := a.Auth.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers error: %v", err)
	}
	if len(users) != 1 || users[0].Username != "admin" {
		t.Errorf("users = %+v, want one admin", users)
	}

	categories, err := a.Catalog.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories error: %v", err)
	}
	if len(categories) == 0 {
		t.Error("no starter categories seeded")
	}

	info, err := a.Contact.Info(ctx)
	if err != nil {
		t.Fatalf("Info error: %v", err)
	}
	if info.CompanyName == "" {
		t.Error("contact info not seeded")
	}

	// Seeding again is a no-op, not a duplicate.
	if err := a.SeedDefaults(ctx, "admin", "admin@example.com", "secret"); err != nil {
		t.Fatalf("second SeedDefaults error: %v", err)
	}
	users, err = a.Auth.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers error: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("users after reseed = %d, want 1", len(users))
	}
	after, err := a.Catalog.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories error: %v", err)
	}
	if len(after) != len(categories) {
		t.Errorf("categories after reseed = %d, want %d", len(after), len(categories))
	}
}

func TestSeedDefaults_RequiresPasswordOnFirstRun(t *testing.T) {
	a := newTestApp(t)

	if err := a.SeedDefaults(context.Background(), "admin", "admin@example.com", ""); err == nil {
		t.Error("empty admin password accepted on first run")
	}
}
