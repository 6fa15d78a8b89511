package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/artpar/showroom/domain/tracking"
	"github.com/artpar/showroom/domain/visitor"
	"github.com/artpar/showroom/ports"
)

// PageViewStore implements ports.PageViewStore using SQLite.
type PageViewStore struct {
	db *DB
}

// NewPageViewStore creates a new SQLite page view store.
func NewPageViewStore(db *DB) *PageViewStore {
	return &PageViewStore{db: db}
}

// RecordWithSession inserts the page view and upserts the visitor session
// as one transaction. The upsert makes concurrent first-views for the same
// key land on the increment path instead of failing on the unique index.
func (s *PageViewStore) RecordWithSession(ctx context.Context, pv tracking.PageView, sess visitor.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	isBot := 0
	if sess.IsBot {
		isBot = 1
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO visitor_sessions (session_key, ip_address, user_agent,
			first_visit, last_visit, page_views, is_bot)
		VALUES (?, ?, ?, ?, ?, 1, ?)
		ON CONFLICT(session_key) DO UPDATE SET
			last_visit = excluded.last_visit,
			page_views = page_views + 1
	`, sess.SessionKey, sess.IPAddress, sess.UserAgent,
		sess.FirstVisit, sess.LastVisit, isBot)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO page_views (page_url, page_title, user_agent, ip_address,
			referrer, session_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, pv.PageURL, pv.PageTitle, pv.UserAgent, pv.IPAddress,
		pv.Referrer, pv.SessionKey, pv.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert page view: %w", err)
	}

	return tx.Commit()
}

// CountSince counts page views at or after since.
func (s *PageViewStore) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM page_views WHERE created_at >= ?
	`, since).Scan(&n)
	return n, err
}

// TopPages returns the most viewed (url, title) pairs in the window.
// Ties break by URL lexical order so rankings are deterministic.
func (s *PageViewStore) TopPages(ctx context.Context, since time.Time, limit int) ([]tracking.PageCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT page_url, COALESCE(page_title, ''), COUNT(*) AS views
		FROM page_views
		WHERE created_at >= ?
		GROUP BY page_url, page_title
		ORDER BY views DESC, page_url ASC
		LIMIT ?
	`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tracking.PageCount
	for rows.Next() {
		var pc tracking.PageCount
		if err := rows.Scan(&pc.PageURL, &pc.PageTitle, &pc.Views); err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}

// DailyCounts returns per-day view counts in the window, ascending by day.
// Days without views are absent; consumers treat absence as zero.
func (s *PageViewStore) DailyCounts(ctx context.Context, since time.Time) ([]tracking.DailyCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m-%d', created_at) AS day, COUNT(*) AS views
		FROM page_views
		WHERE created_at >= ?
		GROUP BY day
		ORDER BY day ASC
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tracking.DailyCount
	for rows.Next() {
		var dc tracking.DailyCount
		if err := rows.Scan(&dc.Day, &dc.Views); err != nil {
			return nil, err
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}

// TopReferrers returns the most frequent non-empty referrers in the window.
func (s *PageViewStore) TopReferrers(ctx context.Context, since time.Time, limit int) ([]tracking.ReferrerCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT referrer, COUNT(*) AS views
		FROM page_views
		WHERE created_at >= ? AND referrer IS NOT NULL AND referrer != ''
		GROUP BY referrer
		ORDER BY views DESC, referrer ASC
		LIMIT ?
	`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tracking.ReferrerCount
	for rows.Next() {
		var rc tracking.ReferrerCount
		if err := rows.Scan(&rc.Referrer, &rc.Views); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

// Ensure interface compliance.
var _ ports.PageViewStore = (*PageViewStore)(nil)
