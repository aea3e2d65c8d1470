// Package repository persists sells and the client-vendor links they create.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"comercial_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sellNotFoundMessage = "sell not found"

const upsertSellQuery = `
	INSERT INTO sells (id, tenant_id, external_id, quantity, currency, com_client_id, product_id, vendor_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (com_client_id, currency, product_id, vendor_id) DO UPDATE SET
		quantity = EXCLUDED.quantity,
		updated_at = now()
	RETURNING id, tenant_id, external_id, quantity, currency, com_client_id, product_id, vendor_id, created_at, updated_at`

const linkVendorQuery = `
	INSERT INTO com_client_vendors (com_client_id, vendor_id)
	VALUES ($1, $2)
	ON CONFLICT DO NOTHING`

const sellDetailsQuery = `
	SELECT s.id, s.tenant_id, s.external_id, s.quantity, s.currency,
		s.com_client_id, s.product_id, s.vendor_id, s.created_at, s.updated_at,
		c.code, c.name, p.name, cat.name, v.name
	FROM sells s
	JOIN com_clients c ON c.id = s.com_client_id
	JOIN products p ON p.id = s.product_id
	JOIN categories cat ON cat.id = p.category_id
	JOIN vendors v ON v.id = s.vendor_id
	WHERE s.tenant_id = $1`

// Sell is one (client, currency, product, vendor) quantity.
type Sell struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	ExternalID  string
	Quantity    int
	Currency    string
	ComClientID uuid.UUID
	ProductID   uuid.UUID
	VendorID    uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SellDetails is a sell joined to the names of what it references.
type SellDetails struct {
	Sell
	ComClientCode string
	ComClientName string
	ProductName   string
	CategoryName  string
	VendorName    string
}

// UpsertParams identifies a sell by its natural key and carries its quantity.
type UpsertParams struct {
	TenantID    uuid.UUID
	ExternalID  string
	Quantity    int
	Currency    string
	ComClientID uuid.UUID
	ProductID   uuid.UUID
	VendorID    uuid.UUID
}

// Repository defines sell persistence operations.
type Repository interface {
	// Upsert writes the sell and links its vendor to its client atomically.
	Upsert(ctx context.Context, params UpsertParams) (Sell, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (SellDetails, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]SellDetails, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// Repo implements Repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new sells repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) Upsert(ctx context.Context, params UpsertParams) (Sell, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Sell{}, fmt.Errorf("upsert sell: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var s Sell
	if err := tx.QueryRow(ctx, upsertSellQuery,
		uuid.New(), params.TenantID, params.ExternalID, params.Quantity, params.Currency,
		params.ComClientID, params.ProductID, params.VendorID,
	).Scan(
		&s.ID, &s.TenantID, &s.ExternalID, &s.Quantity, &s.Currency,
		&s.ComClientID, &s.ProductID, &s.VendorID, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return Sell{}, fmt.Errorf("upsert sell: %w", err)
	}

	if _, err := tx.Exec(ctx, linkVendorQuery, params.ComClientID, params.VendorID); err != nil {
		return Sell{}, fmt.Errorf("upsert sell: link vendor: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Sell{}, fmt.Errorf("upsert sell: commit: %w", err)
	}
	return s, nil
}

func (r *Repo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (SellDetails, error) {
	row := r.pool.QueryRow(ctx, sellDetailsQuery+` AND s.id = $2`, tenantID, id)
	details, err := scanSellDetails(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SellDetails{}, apperr.NotFound(sellNotFoundMessage)
		}
		return SellDetails{}, fmt.Errorf("get sell: %w", err)
	}
	return details, nil
}

func (r *Repo) List(ctx context.Context, tenantID uuid.UUID) ([]SellDetails, error) {
	rows, err := r.pool.Query(ctx, sellDetailsQuery+` ORDER BY s.created_at, s.id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list sells: %w", err)
	}
	defer rows.Close()

	out := make([]SellDetails, 0)
	for rows.Next() {
		d, err := scanSellDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("list sells: scan: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM sells WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete sell: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(sellNotFoundMessage)
	}
	return nil
}

func scanSellDetails(row pgx.Row) (SellDetails, error) {
	var d SellDetails
	err := row.Scan(
		&d.ID, &d.TenantID, &d.ExternalID, &d.Quantity, &d.Currency,
		&d.ComClientID, &d.ProductID, &d.VendorID, &d.CreatedAt, &d.UpdatedAt,
		&d.ComClientCode, &d.ComClientName, &d.ProductName, &d.CategoryName, &d.VendorName,
	)
	return d, err
}
