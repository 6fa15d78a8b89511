package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/artpar/showroom/domain/visitor"
	"github.com/artpar/showroom/ports"
)

// VisitorStore implements ports.VisitorStore using SQLite.
type VisitorStore struct {
	db *DB
}

// NewVisitorStore creates a new SQLite visitor store.
func NewVisitorStore(db *DB) *VisitorStore {
	return &VisitorStore{db: db}
}

// Get retrieves a visitor session by its key.
func (s *VisitorStore) Get(ctx context.Context, key string) (visitor.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, session_key, ip_address, user_agent, first_visit, last_visit,
			page_views, is_bot, country, city
		FROM visitor_sessions
		WHERE session_key = ?
	`, key)

	var sess visitor.Session
	var ip, ua, country, city sql.NullString
	var isBot int

	err := row.Scan(
		&sess.ID, &sess.SessionKey, &ip, &ua, &sess.FirstVisit, &sess.LastVisit,
		&sess.PageViews, &isBot, &country, &city,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return visitor.Session{}, ErrNotFound
	}
	if err != nil {
		return visitor.Session{}, err
	}

	sess.IPAddress = ip.String
	sess.UserAgent = ua.String
	sess.IsBot = isBot == 1
	sess.Country = country.String
	sess.City = city.String

	return sess, nil
}

// CountUniqueSince counts non-bot sessions first seen at or after since.
func (s *VisitorStore) CountUniqueSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM visitor_sessions
		WHERE first_visit >= ? AND is_bot = 0
	`, since).Scan(&n)
	return n, err
}

// Ensure interface compliance.
var _ ports.VisitorStore = (*VisitorStore)(nil)
