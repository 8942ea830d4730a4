// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package sentmail

import (
	"context"

	"github.com/dangtruong/mailcamp/pkg/pagination"
)

// Repository defines the data access contract for delivery records.
type Repository interface {
	Create(context context.Context, record *SentEmail) error
	FindByID(context context.Context, id string) (*SentEmail, error)
	ListByCampaign(context context.Context, campaignID string, params pagination.Params) ([]SentEmail, int, error)
	ListByCustomer(context context.Context, customerID string, params pagination.Params) ([]SentEmail, int, error)
	UpdateStatus(context context.Context, id, status string) error
}
