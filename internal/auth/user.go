// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

/*
Package auth implements user identity and the credential lifecycle.

It owns the User entity, registration and login, and the issuance and
revocation of the per-user session state that every authenticated request is
checked against.

# Architecture

  - Service: Orchestrates business logic (Register, Login, Logout).
  - Repository: Abstracted interface for Postgres user storage.
  - Sessions: Per-user state in Redis, revoked lazily on idle detection.

A successful login produces exactly one bearer credential plus one session
record; logout revokes the record and the credential dies with it, even
though the JWT itself remains cryptographically valid until its exp.
*/
package auth

import (
	"time"
)

// # Domain Entities

// User represents a registered member of the Mailcamp platform.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the auth domain.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldUser            = "user"
	FieldMessage         = "message"
)
