// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package sentmail

import (
	"context"
	"fmt"

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

const sentEmailColumns = "id, campaignid, customerid, subject, status, sentat"

func scanSentEmail(row interface{ Scan(...any) error }) (*SentEmail, error) {
	record := &SentEmail{}
	err := row.Scan(
		&record.ID,
		&record.CampaignID,
		&record.CustomerID,
		&record.Subject,
		&record.Status,
		&record.SentAt,
	)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Create persists a new delivery record.
// Unknown campaign or customer IDs surface as Unprocessable via the FK.
func (repository *PostgresRepository) Create(context context.Context, record *SentEmail) error {
	const query = `
		INSERT INTO sent_emails (
			id, campaignid, customerid, subject, status, sentat
		) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := repository.pool.Exec(context, query,
		record.ID,
		record.CampaignID,
		record.CustomerID,
		record.Subject,
		record.Status,
		record.SentAt,
	)

	if err != nil {
		return dberr.Wrap(err, "SentEmail")
	}

	return nil
}

// FindByID retrieves a delivery record by primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*SentEmail, error) {
	query := fmt.Sprintf("SELECT %s FROM sent_emails WHERE id = $1", sentEmailColumns)

	record, err := scanSentEmail(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "SentEmail")
	}
	return record, nil
}

// ListByCampaign returns a page of deliveries for one campaign, newest first.
func (repository *PostgresRepository) ListByCampaign(context context.Context, campaignID string, params pagination.Params) ([]SentEmail, int, error) {
	return repository.listBy(context, "campaignid", campaignID, params)
}

// ListByCustomer returns a page of deliveries to one customer, newest first.
func (repository *PostgresRepository) ListByCustomer(context context.Context, customerID string, params pagination.Params) ([]SentEmail, int, error) {
	return repository.listBy(context, "customerid", customerID, params)
}

func (repository *PostgresRepository) listBy(context context.Context, column, value string, params pagination.Params) ([]SentEmail, int, error) {
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM sent_emails WHERE %s = $1", column)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, value).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "SentEmail")
	}

	listQuery := fmt.Sprintf(
		"SELECT %s FROM sent_emails WHERE %s = $1 ORDER BY sentat DESC LIMIT $2 OFFSET $3",
		sentEmailColumns, column,
	)

	rows, err := repository.pool.Query(context, listQuery, value, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "SentEmail")
	}
	defer rows.Close()

	records := make([]SentEmail, 0, params.Limit)
	for rows.Next() {
		record, err := scanSentEmail(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "SentEmail")
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "SentEmail")
	}

	return records, total, nil
}

// UpdateStatus rewrites the delivery status of one record.
func (repository *PostgresRepository) UpdateStatus(context context.Context, id, status string) error {
	const query = "UPDATE sent_emails SET status = $2 WHERE id = $1"
	_, err := repository.pool.Exec(context, query, id, status)
	if err != nil {
		return dberr.Wrap(err, "SentEmail")
	}
	return nil
}
