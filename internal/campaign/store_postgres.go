// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package campaign

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

const campaignColumns = "id, ownerid, name, slug, subject, body, status, createdat, updatedat"

func scanCampaign(row interface{ Scan(...any) error }) (*Campaign, error) {
	campaign := &Campaign{}
	err := row.Scan(
		&campaign.ID,
		&campaign.OwnerID,
		&campaign.Name,
		&campaign.Slug,
		&campaign.Subject,
		&campaign.Body,
		&campaign.Status,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return campaign, nil
}

// Create persists a new campaign row. Slug collisions surface as Conflict.
func (repository *PostgresRepository) Create(context context.Context, campaign *Campaign) error {
	const query = `
		INSERT INTO campaigns (
			id, ownerid, name, slug, subject, body, status, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if campaign.CreatedAt.IsZero() {
		campaign.CreatedAt = now
	}
	campaign.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		campaign.ID,
		campaign.OwnerID,
		campaign.Name,
		campaign.Slug,
		campaign.Subject,
		campaign.Body,
		campaign.Status,
		campaign.CreatedAt,
		campaign.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Campaign")
	}

	return nil
}

// FindByID retrieves a campaign by primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Campaign, error) {
	query := fmt.Sprintf("SELECT %s FROM campaigns WHERE id = $1", campaignColumns)

	campaign, err := scanCampaign(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Campaign")
	}
	return campaign, nil
}

// FindBySlug retrieves a campaign by its unique slug.
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Campaign, error) {
	query := fmt.Sprintf("SELECT %s FROM campaigns WHERE slug = $1", campaignColumns)

	campaign, err := scanCampaign(repository.pool.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "Campaign")
	}
	return campaign, nil
}

/*
List returns a filtered page of campaigns, newest first.

Parameters:
  - context: context.Context
  - filter: Filter (query text, status set, owner)
  - params: pagination.Params

Returns:
  - []Campaign: Page of entities
  - int: Total matching count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, params pagination.Params) ([]Campaign, int, error) {
	conditions := []string{"1=1"}
	args := []any{}
	argIndex := 1

	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR subject ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Query+"%")
		argIndex++
	}

	if len(filter.Statuses) > 0 {
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", argIndex))
		args = append(args, filter.Statuses)
		argIndex++
	}

	if filter.OwnerID != "" {
		conditions = append(conditions, fmt.Sprintf("ownerid = $%d", argIndex))
		args = append(args, filter.OwnerID)
		argIndex++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM campaigns WHERE %s", where)
	var total int
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Campaign")
	}

	listQuery := fmt.Sprintf(
		"SELECT %s FROM campaigns WHERE %s ORDER BY createdat DESC LIMIT $%d OFFSET $%d",
		campaignColumns, where, argIndex, argIndex+1,
	)
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.pool.Query(context, listQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Campaign")
	}
	defer rows.Close()

	campaigns := make([]Campaign, 0, params.Limit)
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Campaign")
		}
		campaigns = append(campaigns, *campaign)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Campaign")
	}

	return campaigns, total, nil
}

// Update persists changes to a campaign's mutable fields.
func (repository *PostgresRepository) Update(context context.Context, campaign *Campaign) error {
	const query = `
		UPDATE campaigns
		SET name = $2, slug = $3, subject = $4, body = $5, status = $6, updatedat = $7
		WHERE id = $1`

	campaign.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		campaign.ID,
		campaign.Name,
		campaign.Slug,
		campaign.Subject,
		campaign.Body,
		campaign.Status,
		campaign.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Campaign")
	}

	return nil
}

// Delete removes a campaign row. Sent-email records cascade with it.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM campaigns WHERE id = $1"
	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "Campaign")
	}
	return nil
}
