// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

/*
Package campaign manages email campaign definitions.

A campaign bundles a subject and body under an owner, addressable by UUID or
by a URL-friendly slug derived from its name. Status moves draft -> active ->
archived; only active campaigns can send mail.
*/
package campaign

import "time"

// # Status Taxonomy

const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Statuses enumerates every valid campaign status for validation and filters.
var Statuses = []string{StatusDraft, StatusActive, StatusArchived}

// # Domain Entities

// Campaign represents a reusable email campaign definition.
type Campaign struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter narrows campaign listings.
type Filter struct {
	// Query matches against name and subject, case-insensitively.
	Query string

	// Statuses keeps only campaigns in any of the given statuses.
	Statuses []string

	// OwnerID keeps only campaigns created by the given user.
	OwnerID string
}

// # Field Identifiers

const (
	FieldName    = "name"
	FieldSubject = "subject"
	FieldBody    = "body"
	FieldStatus  = "status"
)
