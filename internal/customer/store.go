// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package customer

import (
	"context"

	"github.com/dangtruong/mailcamp/pkg/pagination"
)

// Repository defines the data access contract for customers.
type Repository interface {
	Create(context context.Context, customer *Customer) error
	FindByID(context context.Context, id string) (*Customer, error)
	FindByEmail(context context.Context, email string) (*Customer, error)
	List(context context.Context, filter Filter, params pagination.Params) ([]Customer, int, error)
	Update(context context.Context, customer *Customer) error
	Delete(context context.Context, id string) error
}
