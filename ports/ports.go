// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"

	"github.com/artpar/showroom/domain/auth"
	"github.com/artpar/showroom/domain/catalog"
	"github.com/artpar/showroom/domain/contact"
	"github.com/artpar/showroom/domain/tracking"
	"github.com/artpar/showroom/domain/visitor"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// Random abstracts randomness for testability.
type Random interface {
	// Bytes generates n random bytes.
	Bytes(n int) ([]byte, error)
	// Token generates a hex token from n random bytes.
	Token(n int) (string, error)
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(plaintext string) ([]byte, error)
	Compare(hash []byte, plaintext string) bool
}

// QREncoder renders a URL as a PNG data URI.
type QREncoder interface {
	DataURI(data string) (string, error)
}

// -----------------------------------------------------------------------------
// Tracking Store Ports
// -----------------------------------------------------------------------------

// VisitorStore persists anonymous visitor sessions.
type VisitorStore interface {
	// Get retrieves a session by its key.
	Get(ctx context.Context, key string) (visitor.Session, error)

	// CountUniqueSince counts non-bot sessions first seen at or after the
	// given instant.
	CountUniqueSince(ctx context.Context, since time.Time) (int64, error)
}

// PageViewStore persists page-view events and serves windowed aggregates.
type PageViewStore interface {
	// RecordWithSession inserts the page view and upserts the visitor
	// session as one transaction: a new session row when the key is
	// unseen, otherwise last_visit bump + page_views increment.
	RecordWithSession(ctx context.Context, pv tracking.PageView, sess visitor.Session) error

	// CountSince counts page views at or after the given instant.
	CountSince(ctx context.Context, since time.Time) (int64, error)

	// TopPages returns the most viewed (url, title) pairs in the window,
	// ties broken by URL lexical order.
	TopPages(ctx context.Context, since time.Time, limit int) ([]tracking.PageCount, error)

	// DailyCounts returns per-day view counts in the window; days with no
	// views are absent.
	DailyCounts(ctx context.Context, since time.Time) ([]tracking.DailyCount, error)

	// TopReferrers returns the most frequent non-empty referrers in the
	// window, ties broken by referrer lexical order.
	TopReferrers(ctx context.Context, since time.Time, limit int) ([]tracking.ReferrerCount, error)
}

// ProductViewStore persists product-view events and serves per-product
// aggregates.
type ProductViewStore interface {
	// RecordWithCount inserts the product view and increments the
	// product's view_count by one as a single transaction.
	RecordWithCount(ctx context.Context, pv tracking.ProductView) error

	// CountSince counts views of the product at or after the instant.
	CountSince(ctx context.Context, productID int64, since time.Time) (int64, error)

	// CountUniqueIPsSince counts distinct IPs that viewed the product.
	CountUniqueIPsSince(ctx context.Context, productID int64, since time.Time) (int64, error)

	// PageBreakdown returns pdf_page view counts per page number,
	// ascending by page number.
	PageBreakdown(ctx context.Context, productID int64, since time.Time) ([]tracking.PageNumberCount, error)
}

// -----------------------------------------------------------------------------
// Catalog Store Ports
// -----------------------------------------------------------------------------

// CategoryStore persists catalog categories.
type CategoryStore interface {
	List(ctx context.Context) ([]catalog.Category, error)
	Get(ctx context.Context, id int64) (catalog.Category, error)
	Create(ctx context.Context, c catalog.Category) (int64, error)
	Update(ctx context.Context, c catalog.Category) error
	Delete(ctx context.Context, id int64) error
}

// ProductStore persists catalog products.
type ProductStore interface {
	List(ctx context.Context) ([]catalog.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]catalog.Product, error)
	Get(ctx context.Context, id int64) (catalog.Product, error)
	Create(ctx context.Context, p catalog.Product) (int64, error)
	Update(ctx context.Context, p catalog.Product) error
	Delete(ctx context.Context, id int64) error
}

// ContactStore persists the contact info singleton and inbound messages.
type ContactStore interface {
	GetInfo(ctx context.Context) (contact.Info, error)
	UpsertInfo(ctx context.Context, info contact.Info) error
	CreateMessage(ctx context.Context, m contact.Message) (int64, error)
	ListMessages(ctx context.Context, limit int) ([]contact.Message, error)
	CountMessages(ctx context.Context) (int64, error)
}

// -----------------------------------------------------------------------------
// Auth Store Ports
// -----------------------------------------------------------------------------

// UserStore persists back-office users.
type UserStore interface {
	Get(ctx context.Context, id int64) (auth.User, error)
	GetByUsername(ctx context.Context, username string) (auth.User, error)
	GetByEmail(ctx context.Context, email string) (auth.User, error)
	List(ctx context.Context) ([]auth.User, error)
	Create(ctx context.Context, u auth.User) (int64, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// SessionStore persists back-office login sessions.
type SessionStore interface {
	Create(ctx context.Context, s auth.Session) error
	Get(ctx context.Context, id string) (auth.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
