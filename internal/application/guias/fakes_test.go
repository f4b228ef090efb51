package guias

// Fakes en memoria de los puertos de salida, para ejercitar los casos de uso
// sin DB ni red. Siguen el contrato de error de las implementaciones reales
// (domain.ErrDuplicate, domain.ErrNotFound).

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/remisiones-api/internal/domain"
	"github.com/jhoicas/remisiones-api/internal/domain/entity"
	"github.com/jhoicas/remisiones-api/internal/domain/identity"
	"github.com/jhoicas/remisiones-api/internal/domain/remision"
	"github.com/jhoicas/remisiones-api/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

type fakePartyRepo struct {
	mu      sync.Mutex
	byKey   map[string]*entity.Party // "companyID|kind|tipo:número"
	creates int
	fail    error // si no es nil, Create y ListByCompany devuelven este error
}

func newFakePartyRepo() *fakePartyRepo {
	return &fakePartyRepo{byKey: make(map[string]*entity.Party)}
}

func partyRepoKey(companyID string, kind entity.PartyKind, doc identity.Document) string {
	return fmt.Sprintf("%s|%s|%s", companyID, kind, doc.Key())
}

func (r *fakePartyRepo) Create(p *entity.Party, kind entity.PartyKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	key := partyRepoKey(p.CompanyID, kind, p.Document)
	if _, ok := r.byKey[key]; ok {
		return domain.ErrDuplicate
	}
	r.byKey[key] = p
	r.creates++
	return nil
}

func (r *fakePartyRepo) GetByCompanyAndDocument(companyID string, kind entity.PartyKind, doc identity.Document) (*entity.Party, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byKey[partyRepoKey(companyID, kind, doc)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *fakePartyRepo) ListByCompany(companyID string, kind entity.PartyKind, limit, offset int) ([]*entity.Party, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	var out []*entity.Party
	prefix := fmt.Sprintf("%s|%s|", companyID, kind)
	for key, p := range r.byKey {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeVehicleRepo struct {
	mu    sync.Mutex
	byKey map[string]*entity.Vehicle // "companyID|placa"
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{byKey: make(map[string]*entity.Vehicle)}
}

func (r *fakeVehicleRepo) Create(v *entity.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := v.CompanyID + "|" + v.Plate
	if _, ok := r.byKey[key]; ok {
		return domain.ErrDuplicate
	}
	r.byKey[key] = v
	return nil
}

func (r *fakeVehicleRepo) GetByCompanyAndPlate(companyID, plate string) (*entity.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.byKey[companyID+"|"+plate]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (r *fakeVehicleRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Vehicle
	prefix := companyID + "|"
	for key, v := range r.byKey {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeGuiaRepo struct {
	mu      sync.Mutex
	created []*entity.Guia
	fail    error
}

func (r *fakeGuiaRepo) Create(g *entity.Guia) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.created = append(r.created, g)
	return nil
}

func (r *fakeGuiaRepo) GetByID(id string) (*entity.Guia, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.created {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeGuiaRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Guia, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Guia
	for _, g := range r.created {
		if g.CompanyID == companyID {
			out = append(out, g)
		}
	}
	return out, nil
}

// fakeRegistry padrón falso. Si gate no es nil, Lookup bloquea hasta que el
// test cierre el canal — sirve para simular una respuesta que llega tarde.
type fakeRegistry struct {
	mu      sync.Mutex
	fields  map[string]*entity.RegistryFields // clave "tipo:número"
	err     error
	gate    chan struct{}
	entered chan struct{} // se cierra al entrar la primera llamada (si no es nil)
	calls   int
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{fields: make(map[string]*entity.RegistryFields)}
}

func (r *fakeRegistry) Lookup(ctx context.Context, kind identity.Kind, number string) (*entity.RegistryFields, error) {
	r.mu.Lock()
	r.calls++
	entered := r.entered
	r.entered = nil
	gate := r.gate
	r.mu.Unlock()

	if entered != nil {
		close(entered)
	}
	if gate != nil {
		<-gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	f, ok := r.fields[string(kind)+":"+number]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

// fakeSubmitter captura el payload presentado y devuelve lo programado.
type fakeSubmitter struct {
	mu       sync.Mutex
	payloads []*remision.Payload
	result   *SubmitResult
	err      error
	gate     chan struct{}
	entered  chan struct{}
}

func (s *fakeSubmitter) Submit(ctx context.Context, p *remision.Payload) (*SubmitResult, error) {
	s.mu.Lock()
	s.payloads = append(s.payloads, p)
	entered := s.entered
	s.entered = nil
	gate := s.gate
	s.mu.Unlock()

	if entered != nil {
		close(entered)
	}
	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.err
}

func (s *fakeSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}

func strptr(s string) *string { return &s }
