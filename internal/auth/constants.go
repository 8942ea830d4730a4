// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package auth

// # Policy Constants

const (
	// PasswordMinLength is the minimum accepted password length at
	// registration and password change.
	PasswordMinLength = 8

	// NameMaxLength bounds the display name column.
	NameMaxLength = 120
)
