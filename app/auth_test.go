package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/artpar/showroom/adapters/clock"
	"github.com/artpar/showroom/adapters/hasher"
	"github.com/artpar/showroom/adapters/idgen"
	"github.com/artpar/showroom/adapters/sqlite"
	"github.com/artpar/showroom/domain/auth"
	"github.com/artpar/showroom/ports"
)

func newTestAuth(t *testing.T, db *sqlite.DB) (*AuthService, *clock.Fake) {
	t.Helper()
	fc := clock.NewFake(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	svc := NewAuthService(
		sqlite.NewUserStore(db),
		sqlite.NewSessionStore(db),
		hasher.Plain{},
		idgen.NewSequential("sess-"),
		fc,
		zerolog.Nop(),
	)
	return svc, fc
}

func TestAuth_LoginLogout(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestAuth(t, db)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "admin", "admin@example.com", "secret", auth.RoleAdmin); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	sess, err := svc.Login(ctx, "admin", "secret", "203.0.113.9", browserUA)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if sess.ID == "" {
		t.Fatal("session ID is empty")
	}

	user, err := svc.Authenticate(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if user.Username != "admin" {
		t.Errorf("Username = %q, want admin", user.Username)
	}

	if err := svc.Logout(ctx, sess.ID); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := svc.Authenticate(ctx, sess.ID); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("Authenticate after logout: error = %v, want ErrNotFound", err)
	}

	// Logging out twice does not fail.
	if err := svc.Logout(ctx, sess.ID); err != nil {
		t.Errorf("second Logout() error = %v", err)
	}
}

func TestAuth_BadCredentials(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestAuth(t, db)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "admin", "admin@example.com", "secret", auth.RoleAdmin); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if _, err := svc.Login(ctx, "admin", "wrong", "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "nobody", "secret", "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: error = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuth_SessionExpiry(t *testing.T) {
	db := openTestDB(t)
	svc, fc := newTestAuth(t, db)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "admin", "admin@example.com", "secret", auth.RoleAdmin); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	sess, err := svc.Login(ctx, "admin", "secret", "", browserUA)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	fc.Advance(SessionTTL + time.Minute)
	if _, err := svc.Authenticate(ctx, sess.ID); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expired session: error = %v, want ErrNotFound", err)
	}
	// The expired session row is gone afterwards.
	if _, err := sqlite.NewSessionStore(db).Get(ctx, sess.ID); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expired session still stored: error = %v", err)
	}
}

func TestAuth_CreateUserValidation(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestAuth(t, db)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "admin", "admin@example.com", "secret", auth.RoleAdmin); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	cases := []struct {
		name     string
		username string
		email    string
		password string
		role     string
		wantErr  error
	}{
		{"duplicate username", "admin", "other@example.com", "x", auth.RoleOwner, ErrDuplicateUser},
		{"duplicate email", "other", "admin@example.com", "x", auth.RoleOwner, ErrDuplicateUser},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateUser(ctx, tc.username, tc.email, tc.password, tc.role)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}

	if _, err := svc.CreateUser(ctx, "x", "x@example.com", "pw", "superuser"); err == nil {
		t.Error("unknown role accepted")
	}
	if _, err := svc.CreateUser(ctx, "", "y@example.com", "pw", auth.RoleOwner); err == nil {
		t.Error("empty username accepted")
	}
}

func TestAuth_DeleteUser(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestAuth(t, db)
	ctx := context.Background()

	admin, err := svc.CreateUser(ctx, "admin", "admin@example.com", "secret", auth.RoleAdmin)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	owner, err := svc.CreateUser(ctx, "owner", "owner@example.com", "secret", auth.RoleOwner)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if err := svc.DeleteUser(ctx, admin.ID, admin.ID); !errors.Is(err, ErrSelfDelete) {
		t.Errorf("self delete: error = %v, want ErrSelfDelete", err)
	}
	if err := svc.DeleteUser(ctx, admin.ID, owner.ID); err != nil {
		t.Errorf("DeleteUser() error = %v", err)
	}
	users, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 1 {
		t.Errorf("users remaining = %d, want 1", len(users))
	}
}

func TestAuth_PurgeExpiredSessions(t *testing.T) {
	db := openTestDB(t)
	svc, fc := newTestAuth(t, db)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "admin", "admin@example.com", "secret", auth.RoleAdmin); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if _, err := svc.Login(ctx, "admin", "secret", "", browserUA); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	fc.Advance(time.Hour)
	fresh, err := svc.Login(ctx, "admin", "secret", "", browserUA)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	fc.Advance(SessionTTL - 30*time.Minute)
	n, err := svc.PurgeExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("PurgeExpiredSessions() error = %v", err)
	}
	if n != 1 {
		t.Errorf("purged = %d, want 1", n)
	}
	if _, err := svc.Authenticate(ctx, fresh.ID); err != nil {
		t.Errorf("fresh session rejected: %v", err)
	}
}
