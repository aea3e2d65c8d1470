package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"comercial_backend/internal/ranking"
	"comercial_backend/internal/resolution"
	"comercial_backend/internal/similarity"
	"comercial_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

const comClientNotFoundMessage = "comclient not found"

const comClientColumns = `
	id, tenant_id, code, name, departamento, localidad, direccion, telefono, created_at, updated_at`

const getByCodeContainedInQuery = `
	SELECT` + comClientColumns + `
	FROM com_clients
	WHERE tenant_id = $1 AND strpos($2, code) > 0
	ORDER BY created_at, id
	LIMIT 1`

const buyerCandidatesBaseQuery = `
	SELECT c.id, c.code, c.name, c.departamento, c.localidad, c.direccion, c.telefono,
		p.code, p.external_id, cat.name, s.quantity
	FROM com_clients c
	LEFT JOIN sells s ON s.com_client_id = c.id AND s.tenant_id = c.tenant_id
	LEFT JOIN products p ON p.id = s.product_id
	LEFT JOIN categories cat ON cat.id = p.category_id
	WHERE c.tenant_id = $1`

const buyerCandidatesOrder = `
	ORDER BY c.created_at, c.id, s.created_at, s.id`

const nearestComClientsQuery = `
	SELECT id, distance FROM (
		SELECT c.id, c.embedding <-> $2::vector AS distance
		FROM com_clients c
		WHERE c.tenant_id = $1 AND c.embedding IS NOT NULL
	) ranked
	WHERE distance < $3
	ORDER BY distance
	LIMIT $4`

// Repo implements the ComClient repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new customers repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create inserts a ComClient. A duplicate (tenant, code) is a conflict.
func (r *Repo) Create(ctx context.Context, params CreateParams) (ComClient, error) {
	query := `
		INSERT INTO com_clients (id, tenant_id, code, name, departamento, localidad, direccion, telefono)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (tenant_id, code) DO NOTHING
		RETURNING` + comClientColumns

	client, err := scanComClient(r.pool.QueryRow(ctx, query,
		uuid.New(), params.TenantID, params.Code, params.Name,
		params.Departamento, params.Localidad, params.Direccion, params.Telefono,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ComClient{}, apperr.Conflict("comclient code already exists")
		}
		return ComClient{}, fmt.Errorf("create comclient: %w", err)
	}
	return client, nil
}

// GetOrCreate returns the client with params.Code and whether it was inserted.
func (r *Repo) GetOrCreate(ctx context.Context, params CreateParams) (ComClient, bool, error) {
	existing, err := r.GetByCode(ctx, params.TenantID, params.Code)
	if err == nil {
		return existing, false, nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return ComClient{}, false, err
	}

	created, err := r.Create(ctx, params)
	if err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			// Lost a concurrent insert race.
			existing, getErr := r.GetByCode(ctx, params.TenantID, params.Code)
			return existing, false, getErr
		}
		return ComClient{}, false, err
	}
	return created, true, nil
}

// Update replaces a ComClient's fields and reports its previous name.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (UpdateResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("update comclient: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var previousName string
	err = tx.QueryRow(ctx,
		`SELECT name FROM com_clients WHERE id = $1 AND tenant_id = $2 FOR UPDATE`,
		params.ID, params.TenantID,
	).Scan(&previousName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UpdateResult{}, apperr.NotFound(comClientNotFoundMessage)
		}
		return UpdateResult{}, fmt.Errorf("update comclient: lookup: %w", err)
	}

	query := `
		UPDATE com_clients SET
			code = $3, name = $4, departamento = $5, localidad = $6,
			direccion = $7, telefono = $8, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
		RETURNING` + comClientColumns

	client, err := scanComClient(tx.QueryRow(ctx, query,
		params.ID, params.TenantID, params.Code, params.Name,
		params.Departamento, params.Localidad, params.Direccion, params.Telefono,
	))
	if err != nil {
		return UpdateResult{}, fmt.Errorf("update comclient: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return UpdateResult{}, fmt.Errorf("update comclient: commit: %w", err)
	}
	return UpdateResult{ComClient: client, PreviousName: previousName}, nil
}

// GetByID retrieves a ComClient.
func (r *Repo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (ComClient, error) {
	query := `SELECT` + comClientColumns + ` FROM com_clients WHERE tenant_id = $1 AND id = $2`
	return r.getOne(ctx, "get comclient", query, tenantID, id)
}

// GetByCode retrieves a ComClient by exact code.
func (r *Repo) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (ComClient, error) {
	query := `SELECT` + comClientColumns + ` FROM com_clients WHERE tenant_id = $1 AND code = $2`
	return r.getOne(ctx, "get comclient by code", query, tenantID, code)
}

// GetByCodeContainedIn retrieves the oldest client whose code occurs in text.
func (r *Repo) GetByCodeContainedIn(ctx context.Context, tenantID uuid.UUID, text string) (ComClient, error) {
	return r.getOne(ctx, "get comclient by code fragment", getByCodeContainedInQuery, tenantID, text)
}

// List returns every ComClient of the tenant.
func (r *Repo) List(ctx context.Context, tenantID uuid.UUID) ([]ComClient, error) {
	query := `SELECT` + comClientColumns + ` FROM com_clients WHERE tenant_id = $1 ORDER BY created_at, id`
	return r.queryComClients(ctx, "list comclients", query, tenantID)
}

// ListByDepartamento returns up to limit clients of a departamento.
func (r *Repo) ListByDepartamento(ctx context.Context, tenantID uuid.UUID, departamento string, fold bool, limit int) ([]ComClient, error) {
	query := `SELECT` + comClientColumns + ` FROM com_clients
		WHERE tenant_id = $1 AND ` + locationPredicate("departamento", 2, fold) + `
		ORDER BY created_at, id
		LIMIT $3`
	return r.queryComClients(ctx, "list comclients by departamento", query, tenantID, resolution.LocationKey(departamento, fold), limit)
}

// ListByLocalidad returns up to limit clients of a localidad.
func (r *Repo) ListByLocalidad(ctx context.Context, tenantID uuid.UUID, localidad string, fold bool, limit int) ([]ComClient, error) {
	query := `SELECT` + comClientColumns + ` FROM com_clients
		WHERE tenant_id = $1 AND ` + locationPredicate("localidad", 2, fold) + `
		ORDER BY created_at, id
		LIMIT $3`
	return r.queryComClients(ctx, "list comclients by localidad", query, tenantID, resolution.LocationKey(localidad, fold), limit)
}

// ListBuyerCandidates loads the filtered clients joined to every sell they have.
func (r *Repo) ListBuyerCandidates(ctx context.Context, tenantID uuid.UUID, filter BuyerFilter) ([]ranking.Candidate, error) {
	query, args := buyerCandidatesQuery(tenantID, filter)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list buyer candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]ranking.Candidate, 0)
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			client       ranking.Client
			productCode  *string
			externalID   *string
			categoryName *string
			quantity     *int
		)
		if err := rows.Scan(
			&client.ID, &client.Code, &client.Name, &client.Departamento, &client.Localidad,
			&client.Direccion, &client.Telefono, &productCode, &externalID, &categoryName, &quantity,
		); err != nil {
			return nil, fmt.Errorf("list buyer candidates: scan: %w", err)
		}

		i, seen := index[client.ID]
		if !seen {
			i = len(candidates)
			index[client.ID] = i
			candidates = append(candidates, ranking.Candidate{Client: client, Sells: []ranking.Sell{}})
		}
		if quantity == nil {
			continue
		}
		candidates[i].Sells = append(candidates[i].Sells, ranking.Sell{
			ProductCode:       deref(productCode),
			ProductExternalID: deref(externalID),
			CategoryName:      deref(categoryName),
			Quantity:          *quantity,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list buyer candidates: %w", err)
	}
	return candidates, nil
}

// Delete unlinks the client's vendors and removes it; its sells cascade.
func (r *Repo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("delete comclient: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		DELETE FROM com_client_vendors v
		USING com_clients c
		WHERE v.com_client_id = c.id AND c.id = $1 AND c.tenant_id = $2`, id, tenantID); err != nil {
		return fmt.Errorf("delete comclient: unlink vendors: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM com_clients WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete comclient: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(comClientNotFoundMessage)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("delete comclient: commit: %w", err)
	}
	return nil
}

// DeleteAll unlinks every vendor of the tenant's clients, then deletes the clients.
func (r *Repo) DeleteAll(ctx context.Context, tenantID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("delete all comclients: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		DELETE FROM com_client_vendors v
		USING com_clients c
		WHERE v.com_client_id = c.id AND c.tenant_id = $1`, tenantID); err != nil {
		return fmt.Errorf("delete all comclients: unlink vendors: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM com_clients WHERE tenant_id = $1`, tenantID); err != nil {
		return fmt.Errorf("delete all comclients: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("delete all comclients: commit: %w", err)
	}
	return nil
}

// Nearest runs the tenant-scoped nearest-neighbour query over client embeddings.
func (r *Repo) Nearest(ctx context.Context, tenantID uuid.UUID, vector []float32, maxDistance float64, limit int) ([]similarity.Neighbor, error) {
	rows, err := r.pool.Query(ctx, nearestComClientsQuery, tenantID, pgvector.NewVector(vector), maxDistance, limit)
	if err != nil {
		return nil, fmt.Errorf("nearest comclients: %w", err)
	}
	defer rows.Close()

	neighbors := make([]similarity.Neighbor, 0)
	for rows.Next() {
		var n similarity.Neighbor
		if err := rows.Scan(&n.ID, &n.Distance); err != nil {
			return nil, fmt.Errorf("nearest comclients: scan: %w", err)
		}
		neighbors = append(neighbors, n)
	}
	return neighbors, rows.Err()
}

// buyerCandidatesQuery appends the filter predicates to the base candidate query.
func buyerCandidatesQuery(tenantID uuid.UUID, filter BuyerFilter) (string, []any) {
	query := buyerCandidatesBaseQuery
	args := []any{tenantID}

	if filter.Departamento != nil {
		args = append(args, resolution.LocationKey(*filter.Departamento, filter.FoldAccents))
		query += ` AND ` + locationPredicate("c.departamento", len(args), filter.FoldAccents)
	}
	if filter.VendorID != nil {
		args = append(args, *filter.VendorID)
		query += ` AND EXISTS (
		SELECT 1 FROM com_client_vendors cv
		WHERE cv.com_client_id = c.id AND cv.vendor_id = $` + strconv.Itoa(len(args)) + `
	)`
	}

	return query + buyerCandidatesOrder, args
}

// locationPredicate compares column against the placeholder $arg, case-insensitively
// and, with fold, ignoring accents.
func locationPredicate(column string, arg int, fold bool) string {
	placeholder := "$" + strconv.Itoa(arg)
	if fold {
		return fmt.Sprintf("translate(lower(%s), '%s', '%s') = %s",
			column, resolution.AccentedLetters, resolution.PlainLetters, placeholder)
	}
	return fmt.Sprintf("lower(%s) = %s", column, placeholder)
}

func (r *Repo) getOne(ctx context.Context, op, query string, args ...any) (ComClient, error) {
	client, err := scanComClient(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ComClient{}, apperr.NotFound(comClientNotFoundMessage)
		}
		return ComClient{}, fmt.Errorf("%s: %w", op, err)
	}
	return client, nil
}

func (r *Repo) queryComClients(ctx context.Context, op, query string, args ...any) ([]ComClient, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	clients := make([]ComClient, 0)
	for rows.Next() {
		c, err := scanComClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return clients, nil
}

func scanComClient(row pgx.Row) (ComClient, error) {
	var c ComClient
	err := row.Scan(
		&c.ID, &c.TenantID, &c.Code, &c.Name, &c.Departamento, &c.Localidad,
		&c.Direccion, &c.Telefono, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
