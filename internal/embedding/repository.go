// Package embedding keeps the embedding columns of products, clients and
// vendors in step with the rows they describe.
package embedding

import (
	"context"
	"fmt"

	"comercial_backend/internal/events"
	"comercial_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// Pending is a row whose embedding has never been computed.
type Pending struct {
	Kind     events.EntityKind
	TenantID uuid.UUID
	ID       uuid.UUID
	Text     string
}

// Store reads and writes embedding columns.
type Store interface {
	UpdateEmbedding(ctx context.Context, kind events.EntityKind, tenantID, id uuid.UUID, vector []float32) error
	// ListMissing pages through rows with a NULL embedding in id order, after afterID.
	ListMissing(ctx context.Context, kind events.EntityKind, afterID uuid.UUID, limit int) ([]Pending, error)
}

// Kinds lists every entity kind that carries an embedding.
var Kinds = []events.EntityKind{events.EntityProduct, events.EntityComClient, events.EntityVendor}

var updateQueries = map[events.EntityKind]string{
	events.EntityProduct:   `UPDATE products SET embedding = $1 WHERE id = $2 AND tenant_id = $3`,
	events.EntityComClient: `UPDATE com_clients SET embedding = $1 WHERE id = $2 AND tenant_id = $3`,
	events.EntityVendor:    `UPDATE vendors SET embedding = $1 WHERE id = $2 AND tenant_id = $3`,
}

// Missing-row queries return tenant_id, id and the two fields the text is built from.
var missingQueries = map[events.EntityKind]string{
	events.EntityProduct: `
		SELECT p.tenant_id, p.id, p.name, c.name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.embedding IS NULL AND p.id > $1
		ORDER BY p.id
		LIMIT $2`,
	events.EntityComClient: `
		SELECT tenant_id, id, name, code
		FROM com_clients
		WHERE embedding IS NULL AND id > $1
		ORDER BY id
		LIMIT $2`,
	events.EntityVendor: `
		SELECT tenant_id, id, name, ''
		FROM vendors
		WHERE embedding IS NULL AND id > $1
		ORDER BY id
		LIMIT $2`,
}

// Repo implements Store on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

var _ Store = (*Repo)(nil)

// NewRepo creates a new embedding repository.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// UpdateEmbedding stores vector on the row. A row deleted in the meantime is
// not an error.
func (r *Repo) UpdateEmbedding(ctx context.Context, kind events.EntityKind, tenantID, id uuid.UUID, vector []float32) error {
	query, ok := updateQueries[kind]
	if !ok {
		return unknownKind(kind)
	}
	if _, err := r.pool.Exec(ctx, query, pgvector.NewVector(vector), id, tenantID); err != nil {
		return fmt.Errorf("update %s embedding: %w", kind, err)
	}
	return nil
}

// ListMissing returns up to limit rows of kind without an embedding.
func (r *Repo) ListMissing(ctx context.Context, kind events.EntityKind, afterID uuid.UUID, limit int) ([]Pending, error) {
	query, ok := missingQueries[kind]
	if !ok {
		return nil, unknownKind(kind)
	}

	rows, err := r.pool.Query(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list missing %s embeddings: %w", kind, err)
	}
	defer rows.Close()

	var out []Pending
	for rows.Next() {
		var (
			p      = Pending{Kind: kind}
			name   string
			second string
		)
		if err := rows.Scan(&p.TenantID, &p.ID, &name, &second); err != nil {
			return nil, fmt.Errorf("scan missing %s embedding: %w", kind, err)
		}
		p.Text = Text(kind, name, second)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate missing %s embeddings: %w", kind, err)
	}
	return out, nil
}

// Text builds the embedded document for a row: products use name and
// category, clients name and code, vendors the bare name.
func Text(kind events.EntityKind, name, second string) string {
	switch kind {
	case events.EntityProduct:
		return events.EmbeddingText(events.ProductEmbedding{Nombre: name, Familia: second})
	case events.EntityComClient:
		return events.EmbeddingText(events.ComClientEmbedding{Nombre: name, Codigo: second})
	default:
		return name
	}
}

func unknownKind(kind events.EntityKind) error {
	return apperr.BadRequest(fmt.Sprintf("unknown embedding kind %q", kind))
}
