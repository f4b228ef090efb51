package guias

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/remisiones-api/internal/application/dto"
	"github.com/jhoicas/remisiones-api/internal/domain"
	"github.com/jhoicas/remisiones-api/internal/domain/entity"
	"github.com/jhoicas/remisiones-api/pkg/logger"
)

// ErrLookup: el padrón no respondió o respondió mal. Siempre recuperable en el
// flujo — nunca bloquea el completado manual del formulario y nunca toca el borrador.
var ErrLookup = errors.New("consulta a padrón fallida")

// LookupUseCase orquesta la consulta de un slot del borrador contra el padrón
// que corresponde a su tipo de documento, con tres garantías:
//
//   - una consulta por número completado: si el slot ya consultó esa clave
//     (tipo, número) no se vuelve a disparar;
//   - deduplicación en vuelo: dos slots consultando la misma clave comparten
//     una única llamada de red (singleflight);
//   - guarda de obsolescencia: si el número del slot cambió mientras la
//     respuesta viajaba, la respuesta se descarta sin mutar la parte.
type LookupUseCase struct {
	store    *SessionStore
	registry RegistryLookup
	log      *logger.Logger
	sf       singleflight.Group
}

// NewLookupUseCase construye el caso de uso.
func NewLookupUseCase(store *SessionStore, registry RegistryLookup, log *logger.Logger) *LookupUseCase {
	return &LookupUseCase{store: store, registry: registry, log: log}
}

// LookupParty consulta el padrón para el slot indicado y mezcla la respuesta
// sobre la parte con la política de solo llenar huecos.
func (uc *LookupUseCase) LookupParty(ctx context.Context, companyID, sessionID string, kind entity.PartyKind) (*dto.LookupResponse, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: rol de parte %q", domain.ErrInvalidInput, kind)
	}
	s, err := uc.store.Get(sessionID, companyID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	p := s.Draft.PartySlot(kind)
	if p == nil || p.Document.IsZero() {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: la parte no tiene documento", domain.ErrInvalidInput)
	}
	doc := p.Document

	if !doc.Kind.Resolvable() {
		// Documento extranjero: sin padrón. Estado normal, se completa a mano.
		resp := &dto.LookupResponse{
			Supported: false,
			Notice:    fmt.Sprintf("%s no tiene padrón consultable; completar manualmente", doc.Kind.Description()),
			Party:     partyResponse(p),
		}
		s.mu.Unlock()
		return resp, nil
	}
	if err := doc.Validate(); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	key := doc.Key()
	st := s.slot(kind)
	if st.lastLookup == key {
		// Ya se consultó este número completado: no repetir por cada tecla.
		resp := &dto.LookupResponse{Supported: true, Applied: false, Notice: "ya consultado", Party: partyResponse(p)}
		s.mu.Unlock()
		return resp, nil
	}
	// Marcar antes de soltar el lock: un segundo disparo para la misma clave
	// cae en la rama "ya consultado" mientras esta llamada sigue en vuelo.
	st.lastLookup = key
	s.mu.Unlock()

	v, err, _ := uc.sf.Do(key, func() (interface{}, error) {
		return uc.registry.Lookup(ctx, doc.Kind, doc.Number)
	})
	if err != nil {
		// Liberar la marca solo si el slot sigue en esta clave, para permitir reintento.
		s.mu.Lock()
		if st.lastLookup == key {
			st.lastLookup = ""
		}
		s.mu.Unlock()
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s %s no encontrado en el padrón", ErrLookup, doc.Kind.Description(), doc.Number)
		}
		uc.log.Warn().Err(err).Str("kind", string(doc.Kind)).Msg("consulta a padrón fallida")
		return nil, fmt.Errorf("%w: %v", ErrLookup, err)
	}
	fields := v.(*entity.RegistryFields)

	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.Draft.PartySlot(kind)
	if current == nil || current.Document.Key() != key {
		// El usuario cambió el número mientras la respuesta viajaba: descartar.
		uc.log.Debug().Str("requested", key).Msg("respuesta de padrón obsoleta descartada")
		return &dto.LookupResponse{Supported: true, Applied: false, Stale: true, Party: partyResponse(current)}, nil
	}
	current.ApplyFetched(*fields)
	return &dto.LookupResponse{Supported: true, Applied: true, Party: partyResponse(current)}, nil
}
