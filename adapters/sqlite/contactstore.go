package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/artpar/showroom/domain/contact"
	"github.com/artpar/showroom/ports"
)

// ContactStore implements ports.ContactStore using SQLite.
type ContactStore struct {
	db *DB
}

// NewContactStore creates a new SQLite contact store.
func NewContactStore(db *DB) *ContactStore {
	return &ContactStore{db: db}
}

// GetInfo retrieves the contact info singleton.
func (s *ContactStore) GetInfo(ctx context.Context) (contact.Info, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(company_name, ''), COALESCE(phone, ''),
			COALESCE(email, ''), COALESCE(address, ''),
			latitude, longitude, updated_at
		FROM contact_info WHERE id = 1
	`)

	var info contact.Info
	var lat, lng sql.NullFloat64
	err := row.Scan(&info.ID, &info.CompanyName, &info.Phone,
		&info.Email, &info.Address, &lat, &lng, &info.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return contact.Info{}, ErrNotFound
	}
	if err != nil {
		return contact.Info{}, err
	}

	if lat.Valid {
		info.Latitude = &lat.Float64
	}
	if lng.Valid {
		info.Longitude = &lng.Float64
	}
	return info, nil
}

// UpsertInfo writes the contact info singleton (row id fixed at 1).
func (s *ContactStore) UpsertInfo(ctx context.Context, info contact.Info) error {
	var lat, lng any
	if info.Latitude != nil {
		lat = *info.Latitude
	}
	if info.Longitude != nil {
		lng = *info.Longitude
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contact_info (id, company_name, phone, email, address,
			latitude, longitude, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			company_name = excluded.company_name,
			phone = excluded.phone,
			email = excluded.email,
			address = excluded.address,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			updated_at = excluded.updated_at
	`, info.CompanyName, info.Phone, info.Email, info.Address, lat, lng, info.UpdatedAt)
	return err
}

// CreateMessage stores a contact form submission.
func (s *ContactStore) CreateMessage(ctx context.Context, m contact.Message) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO contact_messages (name, email, phone, message, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, m.Name, m.Email, m.Phone, m.Message, m.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListMessages returns the newest messages first, at most limit rows.
func (s *ContactStore) ListMessages(ctx context.Context, limit int) ([]contact.Message, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, COALESCE(phone, ''), message, created_at
		FROM contact_messages
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []contact.Message
	for rows.Next() {
		var m contact.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CountMessages returns the total number of stored messages.
func (s *ContactStore) CountMessages(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_messages`).Scan(&n)
	return n, err
}

// Ensure interface compliance.
var _ ports.ContactStore = (*ContactStore)(nil)
