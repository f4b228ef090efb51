package guias

import (
	"sync"

	"github.com/jhoicas/remisiones-api/internal/domain/entity"
)

// PartyRoster es el padrón en memoria de partes de un rol durante una sesión
// de edición: colección ordenada, append-only, deduplicada por documento.
// El mutex serializa los appends del rol (dos modales creando casi a la vez la
// misma parte no deben producir dos entradas); cada rol tiene su propio roster,
// así que no hay lock cruzado entre roles.
type PartyRoster struct {
	mu    sync.Mutex
	order []*entity.Party
	byKey map[string]*entity.Party
}

// NewPartyRoster construye un padrón vacío.
func NewPartyRoster() *PartyRoster {
	return &PartyRoster{byKey: make(map[string]*entity.Party)}
}

// Seed carga el contenido inicial (listado del backend antes de la sesión).
// No es una suscripción viva: escrituras posteriores de otras sesiones no se observan.
func (r *PartyRoster) Seed(list []*entity.Party) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range list {
		key := p.Document.Key()
		if _, ok := r.byKey[key]; ok {
			continue
		}
		r.byKey[key] = p
		r.order = append(r.order, p)
	}
}

// ResolveOrCreate resuelve el candidato contra el padrón: si ya existe una
// parte con el mismo documento devuelve esa instancia (el padrón es la fuente
// de verdad de identidad en la sesión); si no, agrega el candidato. El booleano
// indica si se creó una entrada nueva. Idempotente por clave.
func (r *PartyRoster) ResolveOrCreate(candidate *entity.Party) (*entity.Party, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := candidate.Document.Key()
	if existing, ok := r.byKey[key]; ok {
		return existing, false
	}
	r.byKey[key] = candidate
	r.order = append(r.order, candidate)
	return candidate, true
}

// Select busca una entrada existente por clave "tipo:número". Solo lectura.
func (r *PartyRoster) Select(key string) (*entity.Party, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byKey[key]
	return p, ok
}

// List devuelve las entradas en orden de inserción (copia del slice).
func (r *PartyRoster) List() []*entity.Party {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Party, len(r.order))
	copy(out, r.order)
	return out
}

// VehicleRoster es el padrón de vehículos de la sesión, deduplicado por placa.
type VehicleRoster struct {
	mu    sync.Mutex
	order []*entity.Vehicle
	byKey map[string]*entity.Vehicle
}

// NewVehicleRoster construye un padrón vacío.
func NewVehicleRoster() *VehicleRoster {
	return &VehicleRoster{byKey: make(map[string]*entity.Vehicle)}
}

// Seed carga el contenido inicial.
func (r *VehicleRoster) Seed(list []*entity.Vehicle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range list {
		if _, ok := r.byKey[v.Plate]; ok {
			continue
		}
		r.byKey[v.Plate] = v
		r.order = append(r.order, v)
	}
}

// ResolveOrCreate resuelve por placa; mismo contrato que el de partes.
func (r *VehicleRoster) ResolveOrCreate(candidate *entity.Vehicle) (*entity.Vehicle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byKey[candidate.Plate]; ok {
		return existing, false
	}
	r.byKey[candidate.Plate] = candidate
	r.order = append(r.order, candidate)
	return candidate, true
}

// Select busca un vehículo por placa. Solo lectura.
func (r *VehicleRoster) Select(plate string) (*entity.Vehicle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.byKey[plate]
	return v, ok
}

// List devuelve los vehículos en orden de inserción (copia del slice).
func (r *VehicleRoster) List() []*entity.Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Vehicle, len(r.order))
	copy(out, r.order)
	return out
}

// Rosters agrupa los cuatro padrones de la sesión: destinatarios, conductores,
// transportistas y vehículos. Único estado mutable compartido de la sesión.
type Rosters struct {
	Clients  *PartyRoster
	Drivers  *PartyRoster
	Carriers *PartyRoster
	Vehicles *VehicleRoster
}

// NewRosters construye los cuatro padrones vacíos.
func NewRosters() *Rosters {
	return &Rosters{
		Clients:  NewPartyRoster(),
		Drivers:  NewPartyRoster(),
		Carriers: NewPartyRoster(),
		Vehicles: NewVehicleRoster(),
	}
}

// ForKind devuelve el padrón de partes del rol indicado (nil si el rol no existe).
func (r *Rosters) ForKind(kind entity.PartyKind) *PartyRoster {
	switch kind {
	case entity.PartyClient:
		return r.Clients
	case entity.PartyDriver:
		return r.Drivers
	case entity.PartyCarrier:
		return r.Carriers
	}
	return nil
}
