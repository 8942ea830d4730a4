// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dangtruong/mailcamp/internal/platform/apperr"
	"github.com/dangtruong/mailcamp/internal/platform/sec"
	"github.com/dangtruong/mailcamp/internal/session"
	"github.com/dangtruong/mailcamp/pkg/pagination"
	"github.com/dangtruong/mailcamp/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing bearer credentials.
// Satisfied by [*sec.TokenService].
type TokenProvider interface {
	// Generate creates a signed JWT string for the given identity.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - email: The email of the account.
	//   - roles: The granted role set.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	Generate(userID, email string, roles []string) (string, error)

	// TTL returns the configured credential lifetime.
	TTL() time.Duration
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed carefully.
type Service struct {
	userRepository UserRepository
	sessionStore   session.Store
	sessionPolicy  *session.Policy
	tokenProvider  TokenProvider
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	sessionStore session.Store,
	sessionPolicy *session.Policy,
	tokenProv TokenProvider,
) *Service {
	return &Service{
		userRepository: userRepo,
		sessionStore:   sessionStore,
		sessionPolicy:  sessionPolicy,
		tokenProvider:  tokenProv,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrolls a new member with a hashed password and the default
member role. New accounts never start with elevated roles.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if email exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Roles:        []string{string(sec.RoleMember)},
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult represents a successfully established authenticated session.
type LoginResult struct {
	AccessToken string
	ExpiresIn   time.Duration
	User        *User
}

/*
Login validates user credentials and establishes the server-side session.

Description: Verifies identity with constant-time password comparison, issues
a signed bearer credential, and writes a fresh session record keyed by the
user ID. The session, not the token, is the revocable half of the pair.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: Transport-ready credential and profile
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	user, err := service.userRepository.FindByEmail(context, input.Email)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Issue the signed access token
	accessToken, err := service.tokenProvider.Generate(user.ID, user.Email, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Establish the server-side session with a fresh activity window.
	// A re-login after soft logout overwrites the revoked record.
	state := service.sessionPolicy.Touch(session.State{})
	if err := service.sessionStore.Save(context, user.ID, state); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginResult{
		AccessToken: accessToken,
		ExpiresIn:   service.tokenProvider.TTL(),
		User:        user,
	}, nil
}

/*
Logout revokes the user's active session.

Description: Marks the session record revoked so the still-valid JWT can
never authenticate again. Logging out without a live session is a no-op
success (idempotent operation).

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - err: Revocation persistence failures
*/
func (service *Service) Logout(context context.Context, userID string) error {

	// If the record is already gone, the session is as logged-out as it gets.
	state, err := service.sessionStore.Load(context, userID)
	if err != nil {
		return nil
	}

	if err := service.sessionStore.Save(context, userID, service.sessionPolicy.Revoke(state)); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Profile Management

/*
Me returns the full profile of the authenticated user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: Hydrated entity
  - err: NotFound or retrieval failures
*/
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(context, userID)
}

// UpdateProfileInput holds the mutable profile fields.
type UpdateProfileInput struct {
	Name string
}

/*
UpdateProfile changes the authenticated user's display name.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *User: Updated entity
  - err: NotFound or persistence failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	user.Name = input.Name
	if err := service.userRepository.Update(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password before applying the new hash.
The active session survives; the user is not forced to log in again.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string

Returns:
  - err: Unauthorized or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) error {

	// Fetch user by ID
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change
	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	// Hash the brand new password
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	// Update the database with the new hash
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}

// # Administration

/*
ListUsers returns a page of registered accounts.

Description: Admin-only directory listing, newest accounts first.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []User: Page of entities
  - int: Total account count
  - err: Retrieval failures
*/
func (service *Service) ListUsers(context context.Context, params pagination.Params) ([]User, int, error) {
	return service.userRepository.List(context, params)
}

/*
DeleteUser soft-deletes an account and revokes its active session.

Description: Admin-only removal. The session revocation guarantees the
deleted account's outstanding token stops working immediately.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - err: NotFound or persistence failures
*/
func (service *Service) DeleteUser(context context.Context, userID string) error {
	if _, err := service.userRepository.FindByID(context, userID); err != nil {
		return err
	}

	if err := service.userRepository.SoftDelete(context, userID); err != nil {
		return err
	}

	// Best effort: a missing session record already means logged out.
	_ = service.Logout(context, userID)

	return nil
}
