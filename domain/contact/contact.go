// Package contact provides the company contact info and inbound message types.
package contact

import (
	"errors"
	"time"
)

// Info is the singleton company contact record shown on the public site.
type Info struct {
	ID          int64
	CompanyName string
	Phone       string
	Email       string
	Address     string
	Latitude    *float64
	Longitude   *float64
	UpdatedAt   time.Time
}

// Message is one submission of the public contact form.
type Message struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Message   string
	CreatedAt time.Time
}

// Validate checks the required contact form fields.
func (m Message) Validate() error {
	if m.Name == "" {
		return errors.New("name is required")
	}
	if m.Email == "" {
		return errors.New("email is required")
	}
	if m.Message == "" {
		return errors.New("message is required")
	}
	return nil
}
