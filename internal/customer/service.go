// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package customer

import (
	"context"
	"log/slog"

	"github.com/dangtruong/mailcamp/internal/platform/apperr"
	"github.com/dangtruong/mailcamp/pkg/pagination"
	"github.com/dangtruong/mailcamp/pkg/pointer"
	"github.com/dangtruong/mailcamp/pkg/uuid"
)

// Service implements address-book use cases.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new customer [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// CreateInput holds the data for enrolling a new recipient.
type CreateInput struct {
	Name    string
	Email   string
	Company string
}

// Create persists a new subscribed customer.
func (service *Service) Create(context context.Context, input CreateInput) (*Customer, error) {

	// Duplicate emails are rejected before hitting the unique index so the
	// caller gets a precise message rather than a generic constraint error.
	_, err := service.repo.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("A customer with this email already exists")
	}

	customer := &Customer{
		ID:         uuid.New(),
		Name:       input.Name,
		Email:      input.Email,
		Company:    input.Company,
		Subscribed: true,
	}

	if err := service.repo.Create(context, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// Get retrieves a customer by ID.
func (service *Service) Get(context context.Context, id string) (*Customer, error) {
	return service.repo.FindByID(context, id)
}

// List returns a filtered page of customers.
func (service *Service) List(context context.Context, filter Filter, params pagination.Params) ([]Customer, int, error) {
	return service.repo.List(context, filter, params)
}

// UpdateInput holds optional replacement values; nil fields are left as-is.
type UpdateInput struct {
	Name       *string
	Email      *string
	Company    *string
	Subscribed *bool
}

// Update applies a partial update to a customer record.
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Customer, error) {
	customer, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	customer.Name = pointer.Fallback(input.Name, customer.Name)
	customer.Company = pointer.Fallback(input.Company, customer.Company)

	if input.Email != nil && *input.Email != customer.Email {
		if _, err := service.repo.FindByEmail(context, *input.Email); err == nil {
			return nil, apperr.Conflict("A customer with this email already exists")
		}
		customer.Email = *input.Email
	}

	if input.Subscribed != nil {
		customer.Subscribed = *input.Subscribed
	}

	if err := service.repo.Update(context, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// Unsubscribe opts a customer out of future sends. Idempotent.
func (service *Service) Unsubscribe(context context.Context, id string) (*Customer, error) {
	customer, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if customer.Subscribed {
		customer.Subscribed = false
		if err := service.repo.Update(context, customer); err != nil {
			return nil, err
		}

		service.logger.InfoContext(context, "customer_unsubscribed",
			slog.String("customer_id", id),
		)
	}

	return customer, nil
}

// Delete removes a customer and their send history.
func (service *Service) Delete(context context.Context, id string) error {
	if _, err := service.repo.FindByID(context, id); err != nil {
		return err
	}
	return service.repo.Delete(context, id)
}
