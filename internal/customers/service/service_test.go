package service

import (
	"context"
	"strings"
	"testing"

	"comercial_backend/internal/customers/repository"
	"comercial_backend/internal/customers/transport"
	"comercial_backend/internal/events"
	"comercial_backend/internal/ranking"
	"comercial_backend/internal/similarity"
	"comercial_backend/platform/apperr"
	"comercial_backend/platform/logger"

	"github.com/google/uuid"
)

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

type fakeRepo struct {
	clients    []repository.ComClient
	candidates []ranking.Candidate
	lastFilter repository.BuyerFilter
	deleteErr  error
}

func (r *fakeRepo) Create(_ context.Context, p repository.CreateParams) (repository.ComClient, error) {
	c := repository.ComClient{
		ID: uuid.New(), TenantID: p.TenantID, Code: p.Code, Name: p.Name,
		Departamento: p.Departamento, Localidad: p.Localidad, Direccion: p.Direccion, Telefono: p.Telefono,
	}
	r.clients = append(r.clients, c)
	return c, nil
}

func (r *fakeRepo) GetOrCreate(ctx context.Context, p repository.CreateParams) (repository.ComClient, bool, error) {
	if c, err := r.GetByCode(ctx, p.TenantID, p.Code); err == nil {
		return c, false, nil
	}
	c, err := r.Create(ctx, p)
	return c, err == nil, err
}

func (r *fakeRepo) Update(_ context.Context, p repository.UpdateParams) (repository.UpdateResult, error) {
	for i, c := range r.clients {
		if c.ID == p.ID {
			previous := c.Name
			r.clients[i].Code = p.Code
			r.clients[i].Name = p.Name
			return repository.UpdateResult{ComClient: r.clients[i], PreviousName: previous}, nil
		}
	}
	return repository.UpdateResult{}, apperr.NotFound("comclient not found")
}

func (r *fakeRepo) GetByID(_ context.Context, _, id uuid.UUID) (repository.ComClient, error) {
	for _, c := range r.clients {
		if c.ID == id {
			return c, nil
		}
	}
	return repository.ComClient{}, apperr.NotFound("comclient not found")
}

func (r *fakeRepo) GetByCode(_ context.Context, _ uuid.UUID, code string) (repository.ComClient, error) {
	for _, c := range r.clients {
		if c.Code == code {
			return c, nil
		}
	}
	return repository.ComClient{}, apperr.NotFound("comclient not found")
}

func (r *fakeRepo) GetByCodeContainedIn(_ context.Context, _ uuid.UUID, text string) (repository.ComClient, error) {
	for _, c := range r.clients {
		if strings.Contains(text, c.Code) {
			return c, nil
		}
	}
	return repository.ComClient{}, apperr.NotFound("comclient not found")
}

func (r *fakeRepo) List(context.Context, uuid.UUID) ([]repository.ComClient, error) {
	return r.clients, nil
}

func (r *fakeRepo) ListByDepartamento(context.Context, uuid.UUID, string, bool, int) ([]repository.ComClient, error) {
	return r.clients, nil
}

func (r *fakeRepo) ListByLocalidad(context.Context, uuid.UUID, string, bool, int) ([]repository.ComClient, error) {
	return r.clients, nil
}

func (r *fakeRepo) ListBuyerCandidates(_ context.Context, _ uuid.UUID, f repository.BuyerFilter) ([]ranking.Candidate, error) {
	r.lastFilter = f
	return r.candidates, nil
}

func (r *fakeRepo) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (r *fakeRepo) DeleteAll(context.Context, uuid.UUID) error { return r.deleteErr }

func (r *fakeRepo) Nearest(context.Context, uuid.UUID, []float32, float64, int) ([]similarity.Neighbor, error) {
	return nil, nil
}

func newTestService(repo *fakeRepo, bus *recordingBus) *Service {
	return New(repo, bus, Options{PhoneRegion: "UY", FoldAccents: true}, logger.New("test"))
}

func strPtr(s string) *string { return &s }

func TestCreatePublishesEmbeddingTextAndNormalizesPhone(t *testing.T) {
	repo := &fakeRepo{}
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	resp, err := svc.Create(context.Background(), uuid.New(), transport.ComClientRequest{
		Code:     " C-1 ",
		Name:     "Ferretería Sur",
		Telefono: strPtr("099 123 456"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Code != "C-1" {
		t.Fatalf("expected trimmed code, got %q", resp.Code)
	}
	if resp.Telefono == nil || *resp.Telefono != "+59899123456" {
		t.Fatalf("expected E.164 phone, got %v", resp.Telefono)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	evt := bus.published[0].(events.EmbeddingRequested)
	if evt.Kind != events.EntityComClient {
		t.Fatalf("expected comclient kind, got %s", evt.Kind)
	}
	if evt.Text != `{"nombre":"Ferretería Sur","codigo":"C-1"}` {
		t.Fatalf("unexpected embedding text %s", evt.Text)
	}
}

func TestUpdateReembedsOnlyOnRename(t *testing.T) {
	repo := &fakeRepo{}
	bus := &recordingBus{}
	svc := newTestService(repo, bus)
	tenantID := uuid.New()

	created, _ := svc.Create(context.Background(), tenantID, transport.ComClientRequest{Code: "C1", Name: "Uno"})
	bus.published = nil

	if _, err := svc.Update(context.Background(), tenantID, created.ID, transport.ComClientRequest{Code: "C1", Name: "Uno"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bus.published) != 0 {
		t.Fatalf("expected no re-embed without rename, got %d events", len(bus.published))
	}

	if _, err := svc.Update(context.Background(), tenantID, created.ID, transport.ComClientRequest{Code: "C1", Name: "Dos"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected re-embed after rename, got %d events", len(bus.published))
	}
}

func TestGetByCodeFallsBackToContainedCode(t *testing.T) {
	repo := &fakeRepo{clients: []repository.ComClient{
		{ID: uuid.New(), Code: "123", Name: "first"},
		{ID: uuid.New(), Code: "12", Name: "second"},
	}}
	svc := newTestService(repo, &recordingBus{})

	exact, err := svc.GetByCode(context.Background(), uuid.New(), "12")
	if err != nil || exact.Name != "second" {
		t.Fatalf("expected exact match, got %+v, %v", exact, err)
	}

	fallback, err := svc.GetByCode(context.Background(), uuid.New(), "cliente 1234")
	if err != nil || fallback.Name != "first" {
		t.Fatalf("expected first containing client, got %+v, %v", fallback, err)
	}

	_, err = svc.GetByCode(context.Background(), uuid.New(), "999")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRankBuyersAppliesFoldSetting(t *testing.T) {
	repo := &fakeRepo{candidates: []ranking.Candidate{
		{Client: ranking.Client{Code: "a"}, Sells: []ranking.Sell{{ProductCode: "P", Quantity: 1}}},
		{Client: ranking.Client{Code: "b"}, Sells: []ranking.Sell{{ProductCode: "P", Quantity: 5}}},
	}}
	svc := newTestService(repo, &recordingBus{})

	ranked, err := svc.RankBuyers(context.Background(), uuid.New(), repository.BuyerFilter{}, ranking.ByProductCode("P"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.lastFilter.FoldAccents {
		t.Fatal("expected fold setting to reach the repository filter")
	}
	if len(ranked) != 2 || ranked[0].Client.Code != "b" {
		t.Fatalf("expected b ranked first, got %+v", ranked)
	}
}

func TestDeleteAllReportsFailureAsFalse(t *testing.T) {
	repo := &fakeRepo{deleteErr: apperr.Internal("boom")}
	svc := newTestService(repo, &recordingBus{})

	if svc.DeleteAll(context.Background(), uuid.New()) {
		t.Fatal("expected false on purge failure")
	}
	repo.deleteErr = nil
	if !svc.DeleteAll(context.Background(), uuid.New()) {
		t.Fatal("expected true on success")
	}
}
