package service

import (
	"context"
	"strings"
	"time"

	"comercial_backend/internal/customers/repository"
	"comercial_backend/internal/customers/transport"
	"comercial_backend/internal/events"
	"comercial_backend/internal/ranking"
	"comercial_backend/platform/apperr"
	"comercial_backend/platform/logger"
	"comercial_backend/platform/phone"

	"github.com/google/uuid"
)

// DefaultLocationListLimit caps departamento and localidad listings.
const DefaultLocationListLimit = 10

// Options holds the locale settings the service applies.
type Options struct {
	PhoneRegion string
	FoldAccents bool
}

// Service provides business logic for ComClients.
type Service struct {
	repo  repository.Repository
	bus   events.Bus
	phone phone.Normalizer
	fold  bool
	log   *logger.Logger
}

// New creates a new customers service.
func New(repo repository.Repository, bus events.Bus, opts Options, log *logger.Logger) *Service {
	return &Service{
		repo:  repo,
		bus:   bus,
		phone: phone.NewNormalizer(opts.PhoneRegion),
		fold:  opts.FoldAccents,
		log:   log,
	}
}

// Create inserts a ComClient and requests its embedding.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req transport.ComClientRequest) (transport.ComClientResponse, error) {
	client, err := s.repo.Create(ctx, s.createParams(tenantID, req))
	if err != nil {
		return transport.ComClientResponse{}, err
	}

	s.requestEmbedding(ctx, client)
	s.log.Info("comclient created", "comClientId", client.ID, "code", client.Code)
	return ToComClientResponse(client), nil
}

// GetOrCreate returns the client with req.Code, creating and embedding it on first sight.
func (s *Service) GetOrCreate(ctx context.Context, tenantID uuid.UUID, req transport.ComClientRequest) (repository.ComClient, error) {
	client, created, err := s.repo.GetOrCreate(ctx, s.createParams(tenantID, req))
	if err != nil {
		return repository.ComClient{}, err
	}
	if created {
		s.requestEmbedding(ctx, client)
		s.log.Info("comclient created", "comClientId", client.ID, "code", client.Code)
	}
	return client, nil
}

// Update replaces a ComClient and re-embeds it only when the name changed.
func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req transport.ComClientRequest) (transport.ComClientResponse, error) {
	params := s.createParams(tenantID, req)
	result, err := s.repo.Update(ctx, repository.UpdateParams{
		ID:           id,
		TenantID:     tenantID,
		Code:         params.Code,
		Name:         params.Name,
		Departamento: params.Departamento,
		Localidad:    params.Localidad,
		Direccion:    params.Direccion,
		Telefono:     params.Telefono,
	})
	if err != nil {
		return transport.ComClientResponse{}, err
	}

	if result.PreviousName != result.ComClient.Name {
		s.requestEmbedding(ctx, result.ComClient)
	}
	s.log.Info("comclient updated", "comClientId", id)
	return ToComClientResponse(result.ComClient), nil
}

// GetByID returns a ComClient.
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (repository.ComClient, error) {
	return s.repo.GetByID(ctx, tenantID, id)
}

// GetByCode returns the client with exactly code or, failing that, the first
// client whose code appears inside the supplied text.
func (s *Service) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (repository.ComClient, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return repository.ComClient{}, apperr.NotFound("comclient not found")
	}

	client, err := s.repo.GetByCode(ctx, tenantID, code)
	if err == nil || !apperr.Is(err, apperr.KindNotFound) {
		return client, err
	}
	return s.repo.GetByCodeContainedIn(ctx, tenantID, code)
}

// List returns every ComClient of the tenant.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID) ([]transport.ComClientResponse, error) {
	clients, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.ComClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, ToComClientResponse(c))
	}
	return out, nil
}

// ListByDepartamento returns up to ten clients of a departamento.
func (s *Service) ListByDepartamento(ctx context.Context, tenantID uuid.UUID, departamento string) ([]repository.ComClient, error) {
	return s.repo.ListByDepartamento(ctx, tenantID, departamento, s.fold, DefaultLocationListLimit)
}

// ListByLocalidad returns up to ten clients of a localidad.
func (s *Service) ListByLocalidad(ctx context.Context, tenantID uuid.UUID, localidad string) ([]repository.ComClient, error) {
	return s.repo.ListByLocalidad(ctx, tenantID, localidad, s.fold, DefaultLocationListLimit)
}

// RankBuyers loads the candidates selected by filter and ranks them.
func (s *Service) RankBuyers(ctx context.Context, tenantID uuid.UUID, filter repository.BuyerFilter, criteria ranking.Criteria) ([]ranking.Ranked, error) {
	filter.FoldAccents = s.fold
	candidates, err := s.repo.ListBuyerCandidates(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return ranking.Rank(candidates, criteria), nil
}

// Delete removes a ComClient and its vendor links.
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.log.Info("comclient deleted", "comClientId", id)
	return nil
}

// DeleteAll removes every ComClient of the tenant. It reports false instead
// of an error when the purge failed.
func (s *Service) DeleteAll(ctx context.Context, tenantID uuid.UUID) bool {
	if err := s.repo.DeleteAll(ctx, tenantID); err != nil {
		s.log.Error("comclient purge failed", "tenantId", tenantID, "error", err)
		return false
	}
	s.log.Info("comclients purged", "tenantId", tenantID)
	return true
}

func (s *Service) createParams(tenantID uuid.UUID, req transport.ComClientRequest) repository.CreateParams {
	return repository.CreateParams{
		TenantID:     tenantID,
		Code:         strings.TrimSpace(req.Code),
		Name:         strings.TrimSpace(req.Name),
		Departamento: trimOptional(req.Departamento),
		Localidad:    trimOptional(req.Localidad),
		Direccion:    trimOptional(req.Direccion),
		Telefono:     s.normalizePhone(req.Telefono),
	}
}

func (s *Service) normalizePhone(telefono *string) *string {
	value := trimOptional(telefono)
	if value == nil {
		return nil
	}
	normalized := s.phone.NormalizeE164(*value)
	return &normalized
}

func (s *Service) requestEmbedding(ctx context.Context, client repository.ComClient) {
	s.bus.Publish(ctx, events.NewEmbeddingRequested(client.TenantID, events.EntityComClient, client.ID,
		events.ComClientEmbedding{Nombre: client.Name, Codigo: client.Code}))
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ToComClientResponse maps a ComClient row to its HTTP shape.
func ToComClientResponse(c repository.ComClient) transport.ComClientResponse {
	return transport.ComClientResponse{
		ID:           c.ID,
		Code:         c.Code,
		Name:         c.Name,
		Departamento: c.Departamento,
		Localidad:    c.Localidad,
		Direccion:    c.Direccion,
		Telefono:     c.Telefono,
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    c.UpdatedAt.Format(time.RFC3339),
	}
}
