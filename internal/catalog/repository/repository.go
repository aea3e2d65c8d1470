package repository

import (
	"context"
	"errors"
	"fmt"

	"comercial_backend/internal/similarity"
	"comercial_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

const productNotFoundMessage = "product not found"

const productColumns = `
	p.id, p.tenant_id, p.external_id, p.code, p.name, p.stock, p.pedido_en_origen,
	p.precio_usd, p.category_id, c.name, p.created_at, p.updated_at`

const productFrom = `
	FROM products p
	JOIN categories c ON c.id = p.category_id AND c.tenant_id = p.tenant_id`

// Repo implements the catalog repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetOrCreateCategory returns the tenant's category named name, creating it on first use.
func (r *Repo) GetOrCreateCategory(ctx context.Context, tenantID uuid.UUID, name string) (Category, error) {
	query := `
		INSERT INTO categories (id, tenant_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (tenant_id, name) DO UPDATE SET updated_at = categories.updated_at
		RETURNING id, tenant_id, name, created_at, updated_at`

	var cat Category
	if err := r.pool.QueryRow(ctx, query, uuid.New(), tenantID, name).Scan(
		&cat.ID, &cat.TenantID, &cat.Name, &cat.CreatedAt, &cat.UpdatedAt,
	); err != nil {
		return Category{}, fmt.Errorf("get or create category: %w", err)
	}
	return cat, nil
}

// ListCategories returns the tenant's categories ordered by name.
func (r *Repo) ListCategories(ctx context.Context, tenantID uuid.UUID) ([]Category, error) {
	query := `
		SELECT id, tenant_id, name, created_at, updated_at
		FROM categories
		WHERE tenant_id = $1
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	return scanCategories(rows)
}

// UpsertProduct inserts or updates by (tenant, external id) and returns the
// previous name so callers can detect renames.
func (r *Repo) UpsertProduct(ctx context.Context, params UpsertProductParams) (UpsertProductResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return UpsertProductResult{}, fmt.Errorf("upsert product: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var previousName string
	err = tx.QueryRow(ctx,
		`SELECT name FROM products WHERE tenant_id = $1 AND external_id = $2 FOR UPDATE`,
		params.TenantID, params.ExternalID,
	).Scan(&previousName)
	created := errors.Is(err, pgx.ErrNoRows)
	if err != nil && !created {
		return UpsertProductResult{}, fmt.Errorf("upsert product: lookup: %w", err)
	}

	query := `
		INSERT INTO products (id, tenant_id, external_id, code, name, stock, pedido_en_origen, precio_usd, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (tenant_id, external_id) DO UPDATE SET
			code = EXCLUDED.code,
			name = EXCLUDED.name,
			stock = EXCLUDED.stock,
			pedido_en_origen = EXCLUDED.pedido_en_origen,
			precio_usd = EXCLUDED.precio_usd,
			category_id = EXCLUDED.category_id,
			updated_at = now()
		RETURNING id`

	var id uuid.UUID
	if err := tx.QueryRow(ctx, query,
		uuid.New(), params.TenantID, params.ExternalID, params.Code, params.Name,
		params.Stock, params.PedidoEnOrigen, params.PrecioUSD, params.CategoryID,
	).Scan(&id); err != nil {
		return UpsertProductResult{}, fmt.Errorf("upsert product: %w", err)
	}

	product, err := getProduct(ctx, tx, `p.id = $2`, params.TenantID, id)
	if err != nil {
		return UpsertProductResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return UpsertProductResult{}, fmt.Errorf("upsert product: commit: %w", err)
	}

	return UpsertProductResult{Product: product, Created: created, PreviousName: previousName}, nil
}

// GetByID retrieves a product by internal id.
func (r *Repo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (Product, error) {
	return getProduct(ctx, r.pool, `p.id = $2`, tenantID, id)
}

// GetByCode retrieves the first product with code.
func (r *Repo) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (Product, error) {
	return getProduct(ctx, r.pool, `p.code = $2`, tenantID, code)
}

// rankingOrder sorts ranking numbers numerically; external_id is TEXT.
const rankingOrder = `
		ORDER BY length(p.external_id), p.external_id`

const listByCategoryQuery = `SELECT` + productColumns + productFrom + `
		WHERE p.tenant_id = $1 AND lower(c.name) = lower($2)` + rankingOrder + `
		LIMIT $3`

const listComplementaryQuery = `SELECT` + productColumns + productFrom + `
		WHERE p.tenant_id = $1
		  AND p.category_id = ANY($2::uuid[])
		  AND NOT (p.id = ANY($3::uuid[]))` + rankingOrder + `
		LIMIT $4`

// GetByExternalID retrieves a product by its ranking number.
func (r *Repo) GetByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (Product, error) {
	return getProduct(ctx, r.pool, `p.external_id = $2`, tenantID, externalID)
}

// ListByCategoryName returns up to limit products whose category matches case-insensitively.
func (r *Repo) ListByCategoryName(ctx context.Context, tenantID uuid.UUID, categoryName string, limit int) ([]Product, error) {
	return r.queryProducts(ctx, "list products by category", listByCategoryQuery, tenantID, categoryName, limit)
}

// List returns every product of the tenant ordered by name.
func (r *Repo) List(ctx context.Context, tenantID uuid.UUID) ([]Product, error) {
	query := `SELECT` + productColumns + productFrom + `
		WHERE p.tenant_id = $1
		ORDER BY p.name`

	return r.queryProducts(ctx, "list products", query, tenantID)
}

// Delete removes a product.
func (r *Repo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(productNotFoundMessage)
	}
	return nil
}

// DeleteAll removes every product of the tenant.
func (r *Repo) DeleteAll(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM products WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return 0, fmt.Errorf("delete all products: %w", err)
	}
	return result.RowsAffected(), nil
}

// ListPurchasedBy returns the distinct products a client has bought.
func (r *Repo) ListPurchasedBy(ctx context.Context, tenantID, comClientID uuid.UUID) ([]Product, error) {
	query := `SELECT` + productColumns + productFrom + `
		WHERE p.tenant_id = $1
		  AND EXISTS (
			SELECT 1 FROM sells s
			WHERE s.product_id = p.id AND s.com_client_id = $2 AND s.tenant_id = $1
		  )
		ORDER BY p.id`

	return r.queryProducts(ctx, "list purchased products", query, tenantID, comClientID)
}

// ListCategoriesPurchasedBy returns the distinct categories of a client's purchases.
func (r *Repo) ListCategoriesPurchasedBy(ctx context.Context, tenantID, comClientID uuid.UUID) ([]Category, error) {
	query := `
		SELECT DISTINCT c.id, c.tenant_id, c.name, c.created_at, c.updated_at
		FROM categories c
		JOIN products p ON p.category_id = c.id AND p.tenant_id = c.tenant_id
		JOIN sells s ON s.product_id = p.id AND s.tenant_id = c.tenant_id
		WHERE c.tenant_id = $1 AND s.com_client_id = $2
		ORDER BY c.name`

	rows, err := r.pool.Query(ctx, query, tenantID, comClientID)
	if err != nil {
		return nil, fmt.Errorf("list purchased categories: %w", err)
	}
	defer rows.Close()

	return scanCategories(rows)
}

// ListComplementary returns products in categoryIDs that are not in excludeProductIDs.
func (r *Repo) ListComplementary(ctx context.Context, tenantID uuid.UUID, categoryIDs, excludeProductIDs []uuid.UUID, limit int) ([]Product, error) {
	if len(categoryIDs) == 0 {
		return []Product{}, nil
	}
	if excludeProductIDs == nil {
		excludeProductIDs = []uuid.UUID{}
	}

	return r.queryProducts(ctx, "list complementary products", listComplementaryQuery, tenantID, categoryIDs, excludeProductIDs, limit)
}

// Nearest runs the tenant-scoped nearest-neighbour query over product embeddings.
func (r *Repo) Nearest(ctx context.Context, tenantID uuid.UUID, vector []float32, maxDistance float64, limit int) ([]similarity.Neighbor, error) {
	query := `
		SELECT id, distance FROM (
			SELECT p.id, p.embedding <-> $2::vector AS distance
			FROM products p
			WHERE p.tenant_id = $1 AND p.embedding IS NOT NULL
		) ranked
		WHERE distance < $3
		ORDER BY distance
		LIMIT $4`

	return queryNeighbors(ctx, r.pool, query, tenantID, pgvector.NewVector(vector), maxDistance, limit)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getProduct(ctx context.Context, q querier, predicate string, tenantID uuid.UUID, value any) (Product, error) {
	query := `SELECT` + productColumns + productFrom + `
		WHERE p.tenant_id = $1 AND ` + predicate + `
		ORDER BY p.id
		LIMIT 1`

	product, err := scanProduct(q.QueryRow(ctx, query, tenantID, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound(productNotFoundMessage)
		}
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func (r *Repo) queryProducts(ctx context.Context, op, query string, args ...any) ([]Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.TenantID, &p.ExternalID, &p.Code, &p.Name, &p.Stock, &p.PedidoEnOrigen,
		&p.PrecioUSD, &p.CategoryID, &p.CategoryName, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func scanCategories(rows pgx.Rows) ([]Category, error) {
	categories := make([]Category, 0)
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.TenantID, &cat.Name, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func queryNeighbors(ctx context.Context, q querier, query string, args ...any) ([]similarity.Neighbor, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("nearest products: %w", err)
	}
	defer rows.Close()

	neighbors := make([]similarity.Neighbor, 0)
	for rows.Next() {
		var n similarity.Neighbor
		if err := rows.Scan(&n.ID, &n.Distance); err != nil {
			return nil, fmt.Errorf("nearest products: scan: %w", err)
		}
		neighbors = append(neighbors, n)
	}
	return neighbors, rows.Err()
}
