// Package repository reads knowledge documents and stores conversation summaries.
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

const getSectionQuery = `
	SELECT s.document_id, d.name, s.sequence, s.text
	FROM document_sections s
	JOIN documents d ON d.id = s.document_id
	WHERE d.tenant_id = $1 AND s.document_id = $2 AND s.sequence = $3`

// Document is a reference document the agent can read.
type Document struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Name        string
	URL         *string
	Description *string
	TextContent *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Section is one numbered part of a document.
type Section struct {
	DocumentID   uuid.UUID
	DocumentName string
	Sequence     int
	Text         *string
}

// Summary is a text registered against a conversation.
type Summary struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	ConversationID string
	Summary        string
	CreatedAt      time.Time
}

// Repository defines knowledge persistence operations.
type Repository interface {
	GetDocument(ctx context.Context, tenantID, id uuid.UUID) (Document, error)
	GetSection(ctx context.Context, tenantID, documentID uuid.UUID, sequence int) (Section, error)
	CreateSummary(ctx context.Context, tenantID uuid.UUID, conversationID, text string) (Summary, error)
}

// Repo implements Repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new knowledge repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) GetDocument(ctx context.Context, tenantID, id uuid.UUID) (Document, error) {
	var d Document
	err := r.pool.QueryRow(ctx, `
		SELECT id, tenant_id, name, url, description, text_content, created_at, updated_at
		FROM documents
		WHERE tenant_id = $1 AND id = $2`, tenantID, id,
	).Scan(&d.ID, &d.TenantID, &d.Name, &d.URL, &d.Description, &d.TextContent, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, apperr.NotFound("document not found")
		}
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

func (r *Repo) GetSection(ctx context.Context, tenantID, documentID uuid.UUID, sequence int) (Section, error) {
	var s Section
	err := r.pool.QueryRow(ctx, getSectionQuery, tenantID, documentID, sequence).
		Scan(&s.DocumentID, &s.DocumentName, &s.Sequence, &s.Text)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Section{}, apperr.NotFound("section not found")
		}
		return Section{}, fmt.Errorf("get section: %w", err)
	}
	return s, nil
}

func (r *Repo) CreateSummary(ctx context.Context, tenantID uuid.UUID, conversationID, text string) (Summary, error) {
	var s Summary
	err := r.pool.QueryRow(ctx, `
		INSERT INTO conversation_summaries (id, tenant_id, conversation_id, summary)
		VALUES ($1, $2, $3, $4)
		RETURNING id, tenant_id, conversation_id, summary, created_at`,
		uuid.New(), tenantID, conversationID, text,
	).Scan(&s.ID, &s.TenantID, &s.ConversationID, &s.Summary, &s.CreatedAt)
	if err != nil {
		return Summary{}, fmt.Errorf("create summary: %w", err)
	}
	return s, nil
}
