// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package customer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dangtruong/mailcamp/internal/platform/dberr"
	"github.com/dangtruong/mailcamp/pkg/pagination"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const customerColumns = "id, name, email, company, subscribed, createdat, updatedat"

func scanCustomer(row interface{ Scan(...any) error }) (*Customer, error) {
	customer := &Customer{}
	err := row.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.Company,
		&customer.Subscribed,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// Create persists a new customer. Duplicate emails surface as Conflict.
func (repository *PostgresRepository) Create(context context.Context, customer *Customer) error {
	const query = `
		INSERT INTO customers (
			id, name, email, company, subscribed, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = now
	}
	customer.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.Company,
		customer.Subscribed,
		customer.CreatedAt,
		customer.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Customer")
	}

	return nil
}

// FindByID retrieves a customer by primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Customer, error) {
	query := fmt.Sprintf("SELECT %s FROM customers WHERE id = $1", customerColumns)

	customer, err := scanCustomer(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Customer")
	}
	return customer, nil
}

// FindByEmail retrieves a customer by their unique email.
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*Customer, error) {
	query := fmt.Sprintf("SELECT %s FROM customers WHERE email = $1", customerColumns)

	customer, err := scanCustomer(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "Customer")
	}
	return customer, nil
}

// List returns a filtered page of customers, newest first.
func (repository *PostgresRepository) List(context context.Context, filter Filter, params pagination.Params) ([]Customer, int, error) {
	conditions := []string{"1=1"}
	args := []any{}
	argIndex := 1

	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR company ILIKE $%d)", argIndex, argIndex, argIndex))
		args = append(args, "%"+filter.Query+"%")
		argIndex++
	}

	if filter.Subscribed != nil {
		conditions = append(conditions, fmt.Sprintf("subscribed = $%d", argIndex))
		args = append(args, *filter.Subscribed)
		argIndex++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM customers WHERE %s", where)
	var total int
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Customer")
	}

	listQuery := fmt.Sprintf(
		"SELECT %s FROM customers WHERE %s ORDER BY createdat DESC LIMIT $%d OFFSET $%d",
		customerColumns, where, argIndex, argIndex+1,
	)
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.pool.Query(context, listQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Customer")
	}
	defer rows.Close()

	customers := make([]Customer, 0, params.Limit)
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Customer")
		}
		customers = append(customers, *customer)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Customer")
	}

	return customers, total, nil
}

// Update persists changes to a customer's mutable fields.
func (repository *PostgresRepository) Update(context context.Context, customer *Customer) error {
	const query = `
		UPDATE customers
		SET name = $2, email = $3, company = $4, subscribed = $5, updatedat = $6
		WHERE id = $1`

	customer.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.Company,
		customer.Subscribed,
		customer.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Customer")
	}

	return nil
}

// Delete removes a customer row. Sent-email records cascade with it.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM customers WHERE id = $1"
	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "Customer")
	}
	return nil
}
