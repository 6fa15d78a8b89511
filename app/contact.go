package app

import (
	"context"
	"fmt"

	"github.com/artpar/showroom/domain/contact"
	"github.com/artpar/showroom/ports"
)

// ContactService serves the company contact record and inbound messages.
type ContactService struct {
	store ports.ContactStore
	clock ports.Clock
}

// NewContactService creates the contact service.
func NewContactService(store ports.ContactStore, clock ports.Clock) *ContactService {
	return &ContactService{store: store, clock: clock}
}

// Info returns the singleton company contact record.
func (s *ContactService) Info(ctx context.Context) (contact.Info, error) {
	return s.store.GetInfo(ctx)
}

// UpdateInfo replaces the singleton company contact record.
func (s *ContactService) UpdateInfo(ctx context.Context, info contact.Info) error {
	if info.CompanyName == "" {
		return fmt.Errorf("company name is required")
	}
	info.UpdatedAt = s.clock.Now()
	return s.store.UpsertInfo(ctx, info)
}

// SubmitMessage validates and stores one contact form submission.
func (s *ContactService) SubmitMessage(ctx context.Context, m contact.Message) (int64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	m.CreatedAt = s.clock.Now()
	return s.store.CreateMessage(ctx, m)
}

// Messages returns the most recent submissions, newest first.
func (s *ContactService) Messages(ctx context.Context, limit int) ([]contact.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.ListMessages(ctx, limit)
}

// MessageCount returns the total number of stored submissions.
func (s *ContactService) MessageCount(ctx context.Context) (int64, error) {
	return s.store.CountMessages(ctx)
}
