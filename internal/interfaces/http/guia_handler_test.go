package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/remisiones-api/internal/application/dto"
	"github.com/jhoicas/remisiones-api/internal/application/guias"
	"github.com/jhoicas/remisiones-api/internal/domain"
	"github.com/jhoicas/remisiones-api/internal/domain/entity"
	"github.com/jhoicas/remisiones-api/internal/domain/identity"
	"github.com/jhoicas/remisiones-api/internal/domain/remision"
	"github.com/jhoicas/remisiones-api/pkg/logger"
)

// Fakes mínimos de los puertos de salida para levantar la API completa en tests.

type memPartyRepo struct{ parties []*entity.Party }

func (r *memPartyRepo) Create(p *entity.Party, kind entity.PartyKind) error {
	r.parties = append(r.parties, p)
	return nil
}

func (r *memPartyRepo) GetByCompanyAndDocument(companyID string, kind entity.PartyKind, doc identity.Document) (*entity.Party, error) {
	return nil, domain.ErrNotFound
}

func (r *memPartyRepo) ListByCompany(companyID string, kind entity.PartyKind, limit, offset int) ([]*entity.Party, error) {
	return nil, nil
}

type memVehicleRepo struct{ vehicles []*entity.Vehicle }

func (r *memVehicleRepo) Create(v *entity.Vehicle) error {
	r.vehicles = append(r.vehicles, v)
	return nil
}

func (r *memVehicleRepo) GetByCompanyAndPlate(companyID, plate string) (*entity.Vehicle, error) {
	return nil, domain.ErrNotFound
}

func (r *memVehicleRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Vehicle, error) {
	return nil, nil
}

type memGuiaRepo struct{ guias []*entity.Guia }

func (r *memGuiaRepo) Create(g *entity.Guia) error {
	r.guias = append(r.guias, g)
	return nil
}

func (r *memGuiaRepo) GetByID(id string) (*entity.Guia, error) {
	for _, g := range r.guias {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memGuiaRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Guia, error) {
	return r.guias, nil
}

type stubRegistry struct {
	fields *entity.RegistryFields
	err    error
}

func (s *stubRegistry) Lookup(ctx context.Context, kind identity.Kind, number string) (*entity.RegistryFields, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.fields, nil
}

type stubSubmitter struct {
	result *guias.SubmitResult
	err    error
}

func (s *stubSubmitter) Submit(ctx context.Context, p *remision.Payload) (*guias.SubmitResult, error) {
	return s.result, s.err
}

type apiFixture struct {
	app       *fiber.App
	registry  *stubRegistry
	submitter *stubSubmitter
	guias     *memGuiaRepo
}

func newAPIFixture() *apiFixture {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	store := guias.NewSessionStore()
	parties := &memPartyRepo{}
	vehicles := &memVehicleRepo{}
	guiaRepo := &memGuiaRepo{}
	registry := &stubRegistry{}
	submitter := &stubSubmitter{result: &guias.SubmitResult{SUNATID: "sunat-001", Serie: "T001", Numero: "00000123"}}
	emitter := remision.Emitter{RUC: "20555555551", Serie: "T001"}

	app := fiber.New()
	Router(app, RouterDeps{
		DraftUC:   guias.NewDraftUseCase(store, parties, vehicles, log),
		LookupUC:  guias.NewLookupUseCase(store, registry, log),
		SubmitUC:  guias.NewSubmitUseCase(store, submitter, guiaRepo, emitter, log),
		PartnerUC: guias.NewPartnerUseCase(parties, vehicles),
		JWTSecret: testSecret,
	})
	return &apiFixture{app: app, registry: registry, submitter: submitter, guias: guiaRepo}
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}, role string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, role))
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeDraft(t *testing.T, resp *http.Response) dto.DraftResponse {
	t.Helper()
	var draft dto.DraftResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&draft))
	return draft
}

func TestAPI_RutasProtegidas(t *testing.T) {
	f := newAPIFixture()

	req := httptest.NewRequest(fiber.MethodPost, "/api/guias/sessions", nil)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_FlujoCompletoDeEmision(t *testing.T) {
	f := newAPIFixture()
	f.registry.fields = &entity.RegistryFields{
		DisplayName: "COMERCIAL ANDINA S.A.C.",
		Address:     "Av. Argentina 2350, Callao",
	}

	// 1. Iniciar sesión de edición.
	resp := f.do(t, fiber.MethodPost, "/api/guias/sessions", nil, "emisor")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	draft := decodeDraft(t, resp)
	sessionID := draft.SessionID
	require.NotEmpty(t, sessionID)
	assert.False(t, draft.ReadyToSubmit)

	base := "/api/guias/sessions/" + sessionID

	// 2. Datos del traslado: privado con vehículo M1/L exonerado.
	exempt := true
	resp = f.do(t, fiber.MethodPatch, base, dto.UpdateDraftRequest{
		CategoryExempt: &exempt,
		OriginAddress:  strPtr("Av. Argentina 2350, Callao"),
		DestAddress:    strPtr("Jr. Puno 810, Lima"),
	}, "emisor")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// 3. Digitar el RUC del destinatario: la autodetección clasifica por longitud.
	resp = f.do(t, fiber.MethodPut, base+"/parties/client", dto.PartyInput{Number: "20123456789"}, "emisor")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	draft = decodeDraft(t, resp)
	assert.Equal(t, string(identity.KindRUC), draft.Client.DocKind)

	// 4. Consultar el padrón: la razón social llena el hueco.
	resp = f.do(t, fiber.MethodPost, base+"/parties/client/lookup", nil, "emisor")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var lookup dto.LookupResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&lookup))
	assert.True(t, lookup.Applied)
	assert.Equal(t, "COMERCIAL ANDINA S.A.C.", lookup.Party.DisplayName)

	// 5. Resolver contra el padrón de la sesión (crea y persiste la entrada).
	resp = f.do(t, fiber.MethodPost, base+"/parties/client/resolve", nil, "emisor")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// 6. Agregar carga.
	resp = f.do(t, fiber.MethodPost, base+"/cargo", map[string]interface{}{
		"description": "Cajas de repuestos",
		"quantity":    "10",
		"weight_kg":   "120",
	}, "emisor")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	draft = decodeDraft(t, resp)
	assert.True(t, draft.ReadyToSubmit)
	assert.Empty(t, draft.Violations)

	// 7. Presentar a SUNAT.
	resp = f.do(t, fiber.MethodPost, base+"/submit", nil, "emisor")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var submitted dto.SubmitResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&submitted))
	assert.Equal(t, "sunat-001", submitted.SUNATID)
	assert.Equal(t, entity.GuiaStatusAceptada, submitted.Status)
	require.Len(t, f.guias.guias, 1)

	// 8. La guía emitida se puede consultar.
	resp = f.do(t, fiber.MethodGet, "/api/guias/"+submitted.GuiaID, nil, "consulta")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAPI_SubmitConViolacionesResponde422(t *testing.T) {
	f := newAPIFixture()

	resp := f.do(t, fiber.MethodPost, "/api/guias/sessions", nil, "emisor")
	draft := decodeDraft(t, resp)

	resp = f.do(t, fiber.MethodPost, "/api/guias/sessions/"+draft.SessionID+"/submit", nil, "emisor")
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	var rejected dto.RejectedResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rejected))
	assert.Equal(t, "VALIDATION", rejected.Code)
	assert.NotEmpty(t, rejected.Violations)
}

func TestAPI_SubmitConRolConsultaProhibido(t *testing.T) {
	f := newAPIFixture()

	resp := f.do(t, fiber.MethodPost, "/api/guias/sessions", nil, "consulta")
	draft := decodeDraft(t, resp)

	resp = f.do(t, fiber.MethodPost, "/api/guias/sessions/"+draft.SessionID+"/submit", nil, "consulta")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAPI_RechazoSUNATResponde422Verbatim(t *testing.T) {
	f := newAPIFixture()
	f.submitter.err = &guias.Rejection{Code: "2089", Message: "El punto de llegada no corresponde al ubigeo declarado"}

	resp := f.do(t, fiber.MethodPost, "/api/guias/sessions", nil, "emisor")
	draft := decodeDraft(t, resp)
	base := "/api/guias/sessions/" + draft.SessionID

	exempt := true
	f.do(t, fiber.MethodPatch, base, dto.UpdateDraftRequest{
		CategoryExempt: &exempt,
		OriginAddress:  strPtr("Origen"),
		DestAddress:    strPtr("Destino"),
	}, "emisor")
	f.do(t, fiber.MethodPut, base+"/parties/client", dto.PartyInput{Number: "20123456789"}, "emisor")
	f.do(t, fiber.MethodPost, base+"/cargo", map[string]interface{}{
		"description": "Cajas",
		"quantity":    "1",
	}, "emisor")

	resp = f.do(t, fiber.MethodPost, base+"/submit", nil, "emisor")
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	var rejected dto.RejectedResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rejected))
	assert.Equal(t, "2089", rejected.Code)
	assert.Equal(t, "El punto de llegada no corresponde al ubigeo declarado", rejected.Message)
}

func TestAPI_LookupFallidoResponde502(t *testing.T) {
	f := newAPIFixture()
	f.registry.err = errors.New("proveedor caído")

	resp := f.do(t, fiber.MethodPost, "/api/guias/sessions", nil, "emisor")
	draft := decodeDraft(t, resp)
	base := "/api/guias/sessions/" + draft.SessionID

	f.do(t, fiber.MethodPut, base+"/parties/client", dto.PartyInput{Number: "45678912"}, "emisor")
	resp = f.do(t, fiber.MethodPost, base+"/parties/client/lookup", nil, "emisor")
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	var errBody dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
	assert.Equal(t, "LOOKUP_FAILED", errBody.Code)
}

func TestAPI_PaginacionEnListados(t *testing.T) {
	f := newAPIFixture()

	// limit/offset válidos y por defecto.
	resp := f.do(t, fiber.MethodGet, "/api/guias?limit=5&offset=10", nil, "consulta")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = f.do(t, fiber.MethodGet, "/api/partners", nil, "consulta")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = f.do(t, fiber.MethodGet, "/api/vehicles", nil, "consulta")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// limit no numérico: 400, no un 500 ni un default silencioso.
	for _, path := range []string{"/api/guias?limit=abc", "/api/partners?limit=abc", "/api/vehicles?offset=abc"} {
		resp = f.do(t, fiber.MethodGet, path, nil, "consulta")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, path)
		var errBody dto.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
		assert.Equal(t, "INVALID_QUERY", errBody.Code, path)
	}
}

func TestAPI_SesionInexistenteResponde404(t *testing.T) {
	f := newAPIFixture()

	resp := f.do(t, fiber.MethodGet, "/api/guias/sessions/no-existe", nil, "emisor")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAPI_RolDeParteInvalidoResponde400(t *testing.T) {
	f := newAPIFixture()

	resp := f.do(t, fiber.MethodPost, "/api/guias/sessions", nil, "emisor")
	draft := decodeDraft(t, resp)

	resp = f.do(t, fiber.MethodPut, "/api/guias/sessions/"+draft.SessionID+"/parties/otro",
		dto.PartyInput{Number: "123"}, "emisor")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func strPtr(s string) *string { return &s }
