// Package tracking provides page-view and product-view event types and the
// path-exclusion policy. Types here are immutable values; persistence lives
// in adapters/sqlite.
package tracking

import (
	"strings"
	"time"
)

// ViewType distinguishes how a product was looked at.
type ViewType string

const (
	ViewProduct   ViewType = "product"    // product detail page
	ViewPDFViewer ViewType = "pdf_viewer" // catalog document opened
	ViewPDFPage   ViewType = "pdf_page"   // individual document page
)

// IsValidViewType reports whether v is one of the known view types.
func IsValidViewType(v ViewType) bool {
	switch v {
	case ViewProduct, ViewPDFViewer, ViewPDFPage:
		return true
	}
	return false
}

// RequestMeta carries the request attributes the recorder captures.
// The web layer fills it once per request.
type RequestMeta struct {
	IPAddress  string
	UserAgent  string
	Referrer   string
	SessionKey string // token from the visitor cookie, empty on first visit
}

// PageView is one immutable row per tracked page render.
type PageView struct {
	ID         int64
	PageURL    string
	PageTitle  string
	UserAgent  string
	IPAddress  string
	Referrer   string
	SessionKey string
	CreatedAt  time.Time
}

// ProductView is one immutable row per tracked product interaction.
// PageNumber is meaningful only for pdf_page views and defaults to 1.
type ProductView struct {
	ID         int64
	ProductID  int64
	IPAddress  string
	UserAgent  string
	PageNumber int
	ViewType   ViewType
	CreatedAt  time.Time
}

// DefaultExcludedPrefixes are the URL path prefixes never tracked:
// administrative and internal surfaces must not appear in analytics.
var DefaultExcludedPrefixes = []string{
	"/admin", "/dashboard", "/login", "/logout",
	"/api", "/static", "/metrics", "/healthz",
}

// ExclusionPolicy decides which URL paths are skipped entirely - no row,
// no session mutation.
type ExclusionPolicy struct {
	prefixes []string
}

// NewExclusionPolicy builds a policy from the given prefixes. An empty list
// falls back to DefaultExcludedPrefixes.
func NewExclusionPolicy(prefixes []string) *ExclusionPolicy {
	if len(prefixes) == 0 {
		prefixes = DefaultExcludedPrefixes
	}
	return &ExclusionPolicy{prefixes: prefixes}
}

// Excluded reports whether the URL path matches an excluded prefix.
func (p *ExclusionPolicy) Excluded(path string) bool {
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
