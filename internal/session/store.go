// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package session

import (
	"context"
)

// # Session Data Access

// Store defines the persistence contract for per-user session state.
//
// Both operations are synchronous, single-attempt calls keyed by user ID.
// The storage backend provides atomicity for the single-key read-modify-write;
// this package only specifies the values written.
type Store interface {

	/*
		Load returns the session state for the given user.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - State: The stored session state
		  - error: apperr.NotFound if no state exists, or retrieval failures
	*/
	Load(context context.Context, userID string) (State, error)

	/*
		Save replaces the session state for the given user.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - state: State

		Returns:
		  - error: Persistence failures
	*/
	Save(context context.Context, userID string, state State) error
}
