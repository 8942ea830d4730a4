// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

// Package customer manages the recipient address book.
//
// Customers are the audience campaigns are sent to. A customer can opt out
// at any time; unsubscribed customers are kept for history but excluded
// from sending.
package customer

import "time"

// Customer represents a mailing recipient.
type Customer struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Company    string    `json:"company,omitempty"`
	Subscribed bool      `json:"subscribed"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Filter narrows customer listings.
type Filter struct {
	// Query matches name, email, and company, case-insensitively.
	Query string

	// Subscribed filters by opt-in status when non-nil.
	Subscribed *bool
}

// # Field Identifiers

const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldCompany = "company"
)
