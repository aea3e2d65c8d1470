// Package repository persists vendors (sales representatives) per tenant.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"comercial_backend/internal/similarity"
	"comercial_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

const vendorNotFoundMessage = "vendor not found"

const nearestVendorsQuery = `
	SELECT id, distance FROM (
		SELECT v.id, v.embedding <-> $2::vector AS distance
		FROM vendors v
		WHERE v.tenant_id = $1 AND v.embedding IS NOT NULL
	) ranked
	WHERE distance < $3
	ORDER BY distance
	LIMIT $4`

// Vendor is a sales representative.
type Vendor struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RenameResult carries the renamed vendor and its previous name.
type RenameResult struct {
	Vendor       Vendor
	PreviousName string
}

// Repository defines vendor persistence operations.
type Repository interface {
	// Upsert returns the vendor named name, inserting it on first sight.
	Upsert(ctx context.Context, tenantID uuid.UUID, name string) (Vendor, bool, error)
	Rename(ctx context.Context, tenantID, id uuid.UUID, name string) (RenameResult, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (Vendor, error)
	GetByName(ctx context.Context, tenantID uuid.UUID, name string) (Vendor, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]Vendor, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Nearest(ctx context.Context, tenantID uuid.UUID, vector []float32, maxDistance float64, limit int) ([]similarity.Neighbor, error)
}

// Repo implements Repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new vendors repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) Upsert(ctx context.Context, tenantID uuid.UUID, name string) (Vendor, bool, error) {
	query := `
		INSERT INTO vendors (id, tenant_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (tenant_id, name) DO NOTHING
		RETURNING id, tenant_id, name, created_at, updated_at`

	vendor, err := scanVendor(r.pool.QueryRow(ctx, query, uuid.New(), tenantID, name))
	if err == nil {
		return vendor, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Vendor{}, false, fmt.Errorf("upsert vendor: %w", err)
	}

	vendor, err = r.GetByName(ctx, tenantID, name)
	return vendor, false, err
}

func (r *Repo) Rename(ctx context.Context, tenantID, id uuid.UUID, name string) (RenameResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return RenameResult{}, fmt.Errorf("rename vendor: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var previous string
	err = tx.QueryRow(ctx, `SELECT name FROM vendors WHERE id = $1 AND tenant_id = $2 FOR UPDATE`, id, tenantID).Scan(&previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RenameResult{}, apperr.NotFound(vendorNotFoundMessage)
		}
		return RenameResult{}, fmt.Errorf("rename vendor: lookup: %w", err)
	}

	vendor, err := scanVendor(tx.QueryRow(ctx, `
		UPDATE vendors SET name = $3, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
		RETURNING id, tenant_id, name, created_at, updated_at`, id, tenantID, name))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return RenameResult{}, apperr.Conflict("vendor name already exists")
		}
		return RenameResult{}, fmt.Errorf("rename vendor: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return RenameResult{}, fmt.Errorf("rename vendor: commit: %w", err)
	}
	return RenameResult{Vendor: vendor, PreviousName: previous}, nil
}

func (r *Repo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (Vendor, error) {
	return r.getOne(ctx, `id = $2`, tenantID, id)
}

func (r *Repo) GetByName(ctx context.Context, tenantID uuid.UUID, name string) (Vendor, error) {
	return r.getOne(ctx, `name = $2`, tenantID, name)
}

func (r *Repo) List(ctx context.Context, tenantID uuid.UUID) ([]Vendor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, name, created_at, updated_at
		FROM vendors WHERE tenant_id = $1
		ORDER BY name`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	vendors := make([]Vendor, 0)
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("list vendors: scan: %w", err)
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

// Delete unlinks the vendor from its clients and removes it. A vendor still
// referenced by sells is a conflict.
func (r *Repo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("delete vendor: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		DELETE FROM com_client_vendors cv
		USING vendors v
		WHERE cv.vendor_id = v.id AND v.id = $1 AND v.tenant_id = $2`, id, tenantID); err != nil {
		return fmt.Errorf("delete vendor: unlink clients: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM vendors WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperr.Conflict("vendor has sells")
		}
		return fmt.Errorf("delete vendor: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(vendorNotFoundMessage)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("delete vendor: commit: %w", err)
	}
	return nil
}

func (r *Repo) Nearest(ctx context.Context, tenantID uuid.UUID, vector []float32, maxDistance float64, limit int) ([]similarity.Neighbor, error) {
	rows, err := r.pool.Query(ctx, nearestVendorsQuery, tenantID, pgvector.NewVector(vector), maxDistance, limit)
	if err != nil {
		return nil, fmt.Errorf("nearest vendors: %w", err)
	}
	defer rows.Close()

	neighbors := make([]similarity.Neighbor, 0)
	for rows.Next() {
		var n similarity.Neighbor
		if err := rows.Scan(&n.ID, &n.Distance); err != nil {
			return nil, fmt.Errorf("nearest vendors: scan: %w", err)
		}
		neighbors = append(neighbors, n)
	}
	return neighbors, rows.Err()
}

func (r *Repo) getOne(ctx context.Context, predicate string, tenantID uuid.UUID, value any) (Vendor, error) {
	query := `
		SELECT id, tenant_id, name, created_at, updated_at
		FROM vendors
		WHERE tenant_id = $1 AND ` + predicate

	vendor, err := scanVendor(r.pool.QueryRow(ctx, query, tenantID, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vendor{}, apperr.NotFound(vendorNotFoundMessage)
		}
		return Vendor{}, fmt.Errorf("get vendor: %w", err)
	}
	return vendor, nil
}

func scanVendor(row pgx.Row) (Vendor, error) {
	var v Vendor
	err := row.Scan(&v.ID, &v.TenantID, &v.Name, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}
