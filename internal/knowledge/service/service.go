// Package service exposes documents, sections and conversation summaries to
// the agent functions.
package service

import (
	"context"
	"net/url"
	"strings"

	"comercial_backend/internal/knowledge/repository"
	"comercial_backend/platform/apperr"
	"comercial_backend/platform/logger"
	"comercial_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Service provides knowledge operations.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new knowledge service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetDocument returns a document. An id that is not a uuid is not found.
func (s *Service) GetDocument(ctx context.Context, tenantID uuid.UUID, docID string) (repository.Document, error) {
	id, err := uuid.Parse(strings.TrimSpace(docID))
	if err != nil {
		return repository.Document{}, apperr.NotFound("document not found")
	}
	return s.repo.GetDocument(ctx, tenantID, id)
}

// GetSection returns one section of a document.
func (s *Service) GetSection(ctx context.Context, tenantID uuid.UUID, docID string, sequence int) (repository.Section, error) {
	id, err := uuid.Parse(strings.TrimSpace(docID))
	if err != nil {
		return repository.Section{}, apperr.NotFound("section not found")
	}
	return s.repo.GetSection(ctx, tenantID, id, sequence)
}

// RegisterSummary stores text against a conversation with markup removed.
// Blank text is rejected.
func (s *Service) RegisterSummary(ctx context.Context, tenantID uuid.UUID, conversationID, text string) (repository.Summary, error) {
	text = sanitize.Text(DecodeText(text))
	if text == "" {
		return repository.Summary{}, apperr.Validation("summary text is required")
	}

	summary, err := s.repo.CreateSummary(ctx, tenantID, strings.TrimSpace(conversationID), text)
	if err != nil {
		return repository.Summary{}, err
	}
	s.log.Info("conversation summary registered", "conversationId", summary.ConversationID, "summaryId", summary.ID)
	return summary, nil
}

// DecodeText trims text and undoes percent-encoding left by the model.
// Text that is not valid percent-encoding is kept as is.
func DecodeText(text string) string {
	text = strings.TrimSpace(text)
	if strings.Contains(text, "%") {
		if decoded, err := url.PathUnescape(text); err == nil {
			text = strings.TrimSpace(decoded)
		}
	}
	return text
}
