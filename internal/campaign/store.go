// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package campaign

import (
	"context"

	"github.com/dangtruong/mailcamp/pkg/pagination"
)

// Repository defines the data access contract for campaigns.
type Repository interface {
	Create(context context.Context, campaign *Campaign) error
	FindByID(context context.Context, id string) (*Campaign, error)
	FindBySlug(context context.Context, slug string) (*Campaign, error)
	List(context context.Context, filter Filter, params pagination.Params) ([]Campaign, int, error)
	Update(context context.Context, campaign *Campaign) error
	Delete(context context.Context, id string) error
}
