// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package campaign

import (
	"context"
	"log/slog"

	"github.com/dangtruong/mailcamp/internal/platform/apperr"
	"github.com/dangtruong/mailcamp/internal/platform/sec"
	"github.com/dangtruong/mailcamp/pkg/pagination"
	"github.com/dangtruong/mailcamp/pkg/pointer"
	"github.com/dangtruong/mailcamp/pkg/slug"
	"github.com/dangtruong/mailcamp/pkg/uuid"
)

// Service implements campaign management use cases.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new campaign [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// CreateInput holds the data required to define a new campaign.
type CreateInput struct {
	OwnerID string
	Name    string
	Subject string
	Body    string
}

// Create persists a new draft campaign with a slug derived from its name.
func (service *Service) Create(context context.Context, input CreateInput) (*Campaign, error) {
	campaign := &Campaign{
		ID:      uuid.New(),
		OwnerID: input.OwnerID,
		Name:    input.Name,
		Slug:    slug.From(input.Name),
		Subject: input.Subject,
		Body:    input.Body,
		Status:  StatusDraft,
	}

	if err := service.repo.Create(context, campaign); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "campaign_created",
		slog.String("campaign_id", campaign.ID),
		slog.String("owner_id", campaign.OwnerID),
	)

	return campaign, nil
}

// Get resolves a campaign by UUID or unique slug.
func (service *Service) Get(context context.Context, identifier string) (*Campaign, error) {
	if uuid.IsValid(identifier) {
		return service.repo.FindByID(context, identifier)
	}
	return service.repo.FindBySlug(context, identifier)
}

// List returns a filtered page of campaigns.
func (service *Service) List(context context.Context, filter Filter, params pagination.Params) ([]Campaign, int, error) {
	return service.repo.List(context, filter, params)
}

// UpdateInput holds optional replacement values; nil fields are left as-is.
type UpdateInput struct {
	Name    *string
	Subject *string
	Body    *string
	Status  *string
}

/*
Update applies a partial update to a campaign.

Description: Only the campaign owner or an admin may modify it. Renaming
regenerates the slug. Archived campaigns are frozen except for status.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims (the caller's verified identity)
  - id: string
  - input: UpdateInput

Returns:
  - *Campaign: Updated entity
  - error: Forbidden, NotFound, or persistence failures
*/
func (service *Service) Update(context context.Context, actor *sec.AuthClaims, id string, input UpdateInput) (*Campaign, error) {
	campaign, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.authorizeMutation(actor, campaign); err != nil {
		return nil, err
	}

	if campaign.Status == StatusArchived && (input.Name != nil || input.Subject != nil || input.Body != nil) {
		return nil, apperr.Unprocessable("Archived campaigns cannot be edited")
	}

	if input.Name != nil {
		campaign.Name = pointer.Val(input.Name)
		campaign.Slug = slug.From(campaign.Name)
	}
	campaign.Subject = pointer.Fallback(input.Subject, campaign.Subject)
	campaign.Body = pointer.Fallback(input.Body, campaign.Body)

	if input.Status != nil {
		if err := service.validateTransition(campaign.Status, *input.Status); err != nil {
			return nil, err
		}
		campaign.Status = *input.Status
	}

	if err := service.repo.Update(context, campaign); err != nil {
		return nil, err
	}

	return campaign, nil
}

// Delete removes a campaign and its cascading send history.
func (service *Service) Delete(context context.Context, actor *sec.AuthClaims, id string) error {
	campaign, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}

	if err := service.authorizeMutation(actor, campaign); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.InfoContext(context, "campaign_deleted",
		slog.String("campaign_id", id),
		slog.String("actor_id", actor.UserID),
	)

	return nil
}

// authorizeMutation allows the owner or any admin; everyone else gets 403.
func (service *Service) authorizeMutation(actor *sec.AuthClaims, campaign *Campaign) error {
	if actor.UserID == campaign.OwnerID || actor.HasRole(sec.RoleAdmin) {
		return nil
	}
	return apperr.Forbidden("Only the campaign owner or an admin can modify it")
}

// validateTransition enforces the draft -> active -> archived lifecycle.
// Reactivating an archived campaign is allowed; skipping draft on the way
// back is not meaningful, so any backward move returns to active only.
func (service *Service) validateTransition(from, to string) error {
	if from == to {
		return nil
	}

	allowed := map[string][]string{
		StatusDraft:    {StatusActive},
		StatusActive:   {StatusArchived},
		StatusArchived: {StatusActive},
	}

	for _, next := range allowed[from] {
		if next == to {
			return nil
		}
	}

	return apperr.Unprocessable("Invalid status transition from " + from + " to " + to)
}
