// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package sentmail

import (
	"context"
	"log/slog"
	"time"

	"github.com/dangtruong/mailcamp/internal/campaign"
	"github.com/dangtruong/mailcamp/internal/customer"
	"github.com/dangtruong/mailcamp/internal/platform/apperr"
	"github.com/dangtruong/mailcamp/pkg/pagination"
	"github.com/dangtruong/mailcamp/pkg/uuid"
)

// CampaignReader resolves campaigns for delivery validation.
type CampaignReader interface {
	FindByID(context context.Context, id string) (*campaign.Campaign, error)
}

// CustomerReader resolves customers for delivery validation.
type CustomerReader interface {
	FindByID(context context.Context, id string) (*customer.Customer, error)
}

// Service implements delivery tracking use cases.
type Service struct {
	repo      Repository
	campaigns CampaignReader
	customers CustomerReader
	logger    *slog.Logger
}

// NewService constructs a new sentmail [Service].
func NewService(repo Repository, campaigns CampaignReader, customers CustomerReader, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		campaigns: campaigns,
		customers: customers,
		logger:    logger,
	}
}

// RecordInput identifies one delivery to log.
type RecordInput struct {
	CampaignID string
	CustomerID string
}

/*
Record logs a delivery of a campaign email to a customer.

Description: Validates that the campaign is active and the customer is
subscribed, then writes an immutable record snapshotting the subject at
send time.

Parameters:
  - context: context.Context
  - input: RecordInput

Returns:
  - *SentEmail: Created record
  - error: NotFound, Unprocessable, or persistence failures
*/
func (service *Service) Record(context context.Context, input RecordInput) (*SentEmail, error) {
	target, err := service.campaigns.FindByID(context, input.CampaignID)
	if err != nil {
		return nil, err
	}

	if target.Status != campaign.StatusActive {
		return nil, apperr.Unprocessable("Only active campaigns can send mail")
	}

	recipient, err := service.customers.FindByID(context, input.CustomerID)
	if err != nil {
		return nil, err
	}

	if !recipient.Subscribed {
		return nil, apperr.Unprocessable("Customer has unsubscribed")
	}

	record := &SentEmail{
		ID:         uuid.New(),
		CampaignID: target.ID,
		CustomerID: recipient.ID,
		Subject:    target.Subject,
		Status:     StatusSent,
		SentAt:     time.Now(),
	}

	if err := service.repo.Create(context, record); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "email_delivery_recorded",
		slog.String("campaign_id", target.ID),
		slog.String("customer_id", recipient.ID),
	)

	return record, nil
}

// Get retrieves one delivery record.
func (service *Service) Get(context context.Context, id string) (*SentEmail, error) {
	return service.repo.FindByID(context, id)
}

// ListByCampaign returns the send history of a campaign.
func (service *Service) ListByCampaign(context context.Context, campaignID string, params pagination.Params) ([]SentEmail, int, error) {
	if _, err := service.campaigns.FindByID(context, campaignID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListByCampaign(context, campaignID, params)
}

// ListByCustomer returns everything ever sent to one customer.
func (service *Service) ListByCustomer(context context.Context, customerID string, params pagination.Params) ([]SentEmail, int, error) {
	if _, err := service.customers.FindByID(context, customerID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListByCustomer(context, customerID, params)
}

// MarkBounced flags a delivery as bounced. Idempotent.
func (service *Service) MarkBounced(context context.Context, id string) (*SentEmail, error) {
	record, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if record.Status != StatusBounced {
		if err := service.repo.UpdateStatus(context, id, StatusBounced); err != nil {
			return nil, err
		}
		record.Status = StatusBounced
	}

	return record, nil
}
