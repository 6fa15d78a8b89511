package visitor

import "time"

// SessionKeyBytes is the entropy of a minted session key. Keys are stored
// as hex, so a key string is twice this length.
const SessionKeyBytes = 16

// Session is one row per distinct anonymous browser, identified by an
// opaque random key carried in a cookie.
type Session struct {
	ID         int64
	SessionKey string
	IPAddress  string
	UserAgent  string
	FirstVisit time.Time
	LastVisit  time.Time
	PageViews  int64
	IsBot      bool

	// Geo fields are populated by an external enrichment step, never
	// computed here.
	Country string
	City    string
}

// NewSession builds the first-visit row for a freshly minted key.
// Invariants: first_visit == last_visit, page_views == 1.
func NewSession(key, ip, userAgent string, isBot bool, now time.Time) Session {
	return Session{
		SessionKey: key,
		IPAddress:  ip,
		UserAgent:  userAgent,
		FirstVisit: now,
		LastVisit:  now,
		PageViews:  1,
		IsBot:      isBot,
	}
}
