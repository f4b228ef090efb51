package guias

import (
	"sync"

	"github.com/jhoicas/remisiones-api/internal/domain"
	"github.com/jhoicas/remisiones-api/internal/domain/entity"
)

// slotState es el estado de edición de un slot de parte dentro de la sesión:
// si el usuario fijó el tipo manualmente (la autodetección deja de actuar) y
// la clave de la última consulta a padrón disparada para ese slot.
type slotState struct {
	manualKind bool
	lastLookup string // clave "tipo:número" de la consulta disparada; "" = ninguna
}

// Session es una sesión de edición de una guía: el borrador, los padrones y el
// estado de edición por slot. Vive solo en memoria y se descarta al terminar;
// la persistencia de la guía aceptada es responsabilidad del repositorio.
type Session struct {
	ID        string
	CompanyID string
	Draft     *entity.GuiaDraft
	Rosters   *Rosters

	mu         sync.Mutex
	slots      map[entity.PartyKind]*slotState
	submitting bool // envío en curso: bloquea un segundo click de presentar
}

// slot devuelve (creando si hace falta) el estado de edición del rol.
// Llamar con s.mu tomado.
func (s *Session) slot(kind entity.PartyKind) *slotState {
	if s.slots == nil {
		s.slots = make(map[entity.PartyKind]*slotState)
	}
	st, ok := s.slots[kind]
	if !ok {
		st = &slotState{}
		s.slots[kind] = st
	}
	return st
}

// SessionStore guarda las sesiones de edición activas, por ID.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore construye el store vacío.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Put registra la sesión.
func (st *SessionStore) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
}

// Get devuelve la sesión de la empresa o domain.ErrSessionNotFound.
// El companyID del token debe coincidir: una sesión no se comparte entre empresas.
func (st *SessionStore) Get(id, companyID string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok || s.CompanyID != companyID {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

// Delete descarta la sesión (fin de la edición).
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}
