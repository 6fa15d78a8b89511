// Package auth provides back-office user and login session types.
package auth

import "time"

// Roles for back-office users. Owners manage the catalog; admins also
// manage users and can delete records.
const (
	RoleAdmin = "admin"
	RoleOwner = "owner"
)

// User is a back-office account. The public site has no user accounts.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash []byte
	Role         string
	CreatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether r is a known role.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleOwner
}

// Session is a server-side login session referenced by a cookie token.
type Session struct {
	ID        string
	UserID    int64
	IPAddress string
	UserAgent string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session has passed its deadline.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
