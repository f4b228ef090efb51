package guias

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/remisiones-api/internal/application/dto"
	"github.com/jhoicas/remisiones-api/internal/domain"
	"github.com/jhoicas/remisiones-api/internal/domain/entity"
	"github.com/jhoicas/remisiones-api/internal/domain/identity"
	"github.com/jhoicas/remisiones-api/internal/domain/remision"
	"github.com/jhoicas/remisiones-api/internal/domain/repository"
	"github.com/jhoicas/remisiones-api/pkg/logger"
)

// seedLimit tope de entradas por padrón al sembrar una sesión desde la DB.
const seedLimit = 500

// DraftUseCase casos de uso del borrador de guía: ciclo de vida de la sesión,
// mutaciones del borrador y resolución de partes/vehículos contra los padrones.
// Toda mutación devuelve el borrador con su lista de violaciones recalculada.
type DraftUseCase struct {
	store    *SessionStore
	parties  repository.PartyRepository
	vehicles repository.VehicleRepository
	log      *logger.Logger
}

// NewDraftUseCase construye el caso de uso.
func NewDraftUseCase(store *SessionStore, parties repository.PartyRepository, vehicles repository.VehicleRepository, log *logger.Logger) *DraftUseCase {
	return &DraftUseCase{store: store, parties: parties, vehicles: vehicles, log: log}
}

// StartSession crea una sesión de edición: borrador vacío (modalidad privada
// por defecto) y padrones sembrados desde los listados persistidos de la empresa.
func (uc *DraftUseCase) StartSession(companyID string) (*dto.DraftResponse, error) {
	now := time.Now()
	s := &Session{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Draft: &entity.GuiaDraft{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			Mode:      entity.ModePrivado,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Rosters: NewRosters(),
	}

	for _, kind := range []entity.PartyKind{entity.PartyClient, entity.PartyDriver, entity.PartyCarrier} {
		list, err := uc.parties.ListByCompany(companyID, kind, seedLimit, 0)
		if err != nil {
			return nil, fmt.Errorf("sembrar padrón %s: %w", kind, err)
		}
		s.Rosters.ForKind(kind).Seed(list)
	}
	vehicles, err := uc.vehicles.ListByCompany(companyID, seedLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("sembrar padrón de vehículos: %w", err)
	}
	s.Rosters.Vehicles.Seed(vehicles)

	uc.store.Put(s)
	uc.log.Info().Str("session_id", s.ID).Str("company_id", companyID).Msg("sesión de guía iniciada")

	s.mu.Lock()
	defer s.mu.Unlock()
	return draftResponse(s), nil
}

// EndSession descarta la sesión y su estado en memoria.
func (uc *DraftUseCase) EndSession(companyID, sessionID string) error {
	if _, err := uc.store.Get(sessionID, companyID); err != nil {
		return err
	}
	uc.store.Delete(sessionID)
	return nil
}

// GetDraft devuelve el borrador con su veredicto actual.
func (uc *DraftUseCase) GetDraft(companyID, sessionID string) (*dto.DraftResponse, error) {
	s, err := uc.store.Get(sessionID, companyID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return draftResponse(s), nil
}

// UpdateShipment actualiza modalidad, exención M1/L y direcciones.
// Cambiar modalidad o exención no borra datos ya digitados de conductor o
// vehículo: solo cambia qué exige la tabla de reglas.
func (uc *DraftUseCase) UpdateShipment(companyID, sessionID string, in dto.UpdateDraftRequest) (*dto.DraftResponse, error) {
	s, err := uc.store.Get(sessionID, companyID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.Mode != nil {
		if *in.Mode != entity.ModePrivado && *in.Mode != entity.ModePublico {
			return nil, fmt.Errorf("%w: modalidad %q", domain.ErrInvalidInput, *in.Mode)
		}
		s.Draft.Mode = *in.Mode
	}
	if in.CategoryExempt != nil {
		s.Draft.CategoryExempt = *in.CategoryExempt
	}
	if in.OriginAddress != nil {
		s.Draft.OriginAddress = strings.TrimSpace(*in.OriginAddress)
	}
	if in.DestAddress != nil {
		s.Draft.DestAddress = strings.TrimSpace(*in.DestAddress)
	}
	s.Draft.UpdatedAt = time.Now()
	return draftResponse(s), nil
}

// UpdateParty edita el slot de una parte del borrador.
//
// El número digitado pasa por la autodetección de tipo (8 dígitos DNI, 11 RUC);
// si el request trae Kind explícito se respeta y la autodetección queda
// desactivada para el resto de la edición de ese campo. Cambiar el número
// invalida cualquier consulta a padrón en vuelo para el valor anterior.
func (uc *DraftUseCase) UpdateParty(companyID, sessionID string, kind entity.PartyKind, in dto.PartyInput) (*dto.DraftResponse, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: rol de parte %q", domain.ErrInvalidInput, kind)
	}
	s, err := uc.store.Get(sessionID, companyID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.Draft.PartySlot(kind)
	if p == nil {
		p = &entity.Party{CompanyID: companyID}
		s.Draft.SetPartySlot(kind, p)
	}
	st := s.slot(kind)

	if in.Kind != "" {
		k := identity.Kind(in.Kind)
		if !k.Known() {
			return nil, fmt.Errorf("%w: tipo de documento %q", domain.ErrInvalidInput, in.Kind)
		}
		p.Document.Kind = k
		st.manualKind = true
	}

	detected := identity.Detect(in.Number, p.Document.Kind, st.manualKind)
	number := identity.Canonical(in.Number, detected)
	if number != p.Document.Number || detected != p.Document.Kind {
		// Nuevo valor de campo: lo consultado para el valor anterior ya no aplica.
		st.lastLookup = ""
	}
	p.Document.Kind = detected
	p.Document.Number = number

	if in.DisplayName != nil {
		p.SetManual(entity.FieldDisplayName, strings.TrimSpace(*in.DisplayName))
	}
	if in.Phone != nil {
		p.SetManual(entity.FieldPhone, strings.TrimSpace(*in.Phone))
	}
	if in.Email != nil {
		p.SetManual(entity.FieldEmail, strings.TrimSpace(*in.Email))
	}
	if in.Address != nil {
		p.SetManual(entity.FieldAddress, strings.TrimSpace(*in.Address))
	}
	if in.License != nil {
		p.License = strings.TrimSpace(*in.License)
	}
	s.Draft.UpdatedAt = time.Now()
	return draftResponse(s), nil
}

// UpdateVehicle edita el vehículo del borrador. La placa se normaliza a mayúsculas.
func (uc *DraftUseCase) UpdateVehicle(companyID, sessionID string, in dto.VehicleInput) (*dto.DraftResponse, error) {
	s, err := uc.store.Get(sessionID, companyID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.Draft.Vehicle
	if v == nil {
		v = &entity.Vehicle{CompanyID: companyID}
		s.Draft.Vehicle = v
	}
	v.Plate = strings.ToUpper(strings.TrimSpace(in.Plate))
	v.Make = strings.TrimSpace(in.Make)
	v.Model = strings.TrimSpace(in.Model)
	s.Draft.UpdatedAt = time.Now()
	return draftResponse(s), nil
}

// AddCargoLine agrega un ítem de carga al borrador.
func (uc *DraftUseCase) AddCargoLine(companyID, sessionID string, in dto.CargoLineRequest) (*dto.DraftResponse, error) {
	if strings.TrimSpace(in.Description) == "" || !in.Quantity.IsPositive() || in.Weight.IsNegative() {
		return nil, fmt.Errorf("%w: ítem de carga requiere descripción, cantidad positiva y peso no negativo", domain.ErrInvalidInput)
	}
	s, err := uc.store.Get(sessionID, companyID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = "NIU"
	}
	s.Draft.CargoLines = append(s.Draft.CargoLines, entity.CargoLine{
		Description: strings.TrimSpace(in.Description),
		Quantity:    in.Quantity,
		Unit:        unit,
		Weight:      in.Weight,
	})
	s.Draft.UpdatedAt = time.Now()
	return draftResponse(s), nil
}

// RemoveCargoLine elimina el ítem en la posición indicada (base cero).
func (uc *DraftUseCase) RemoveCargoLine(companyID, sessionID string, index int) (*dto.DraftResponse, error) {
	s, err := uc.store.Get(sessionID, companyID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.Draft.CargoLines) {
		return nil, fmt.Errorf("%w: ítem %d no existe", domain.ErrInvalidInput, index)
	}
	s.Draft.CargoLines = append(s.Draft.CargoLines[:index], s.Draft.CargoLines[index+1:]...)
	s.Draft.UpdatedAt = time.Now()
	return draftResponse(s), nil
}

// ResolveParty resuelve el slot digitado contra el padrón del rol: si ya hay
// una parte con ese documento la sesión reutiliza esa instancia; si no, la
// entrada nueva se agrega al padrón y se persiste para sembrar sesiones futuras.
func (uc *DraftUseCase) ResolveParty(companyID, sessionID string, kind entity.PartyKind) (*dto.DraftResponse, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: rol de parte %q", domain.ErrInvalidInput, kind)
	}
	s, err := uc.store.Get(sessionID, companyID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.Draft.PartySlot(kind)
	if p == nil || p.Document.IsZero() {
		return nil, fmt.Errorf("%w: la parte no tiene documento", domain.ErrInvalidInput)
	}
	if err := p.Document.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	candidate := p.Clone()
	if candidate.ID == "" {
		now := time.Now()
		candidate.ID = uuid.New().String()
		candidate.CreatedAt = now
		candidate.UpdatedAt = now
	}
	resolved, created := s.Rosters.ForKind(kind).ResolveOrCreate(candidate)
	// El slot queda con una copia: ediciones posteriores del borrador no deben
	// mutar la entrada canónica del padrón bajo su clave.
	s.Draft.SetPartySlot(kind, resolved.Clone())
	s.slot(kind).lastLookup = resolved.Document.Key()

	if created {
		if err := uc.parties.Create(resolved, kind); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				// Otra sesión la persistió primero; el padrón de esta sesión ya es coherente.
				uc.log.Debug().Str("kind", string(kind)).Str("doc", resolved.Document.Key()).Msg("parte ya persistida")
			} else {
				return nil, fmt.Errorf("persistir parte: %w", err)
			}
		}
	}
	return draftResponse(s), nil
}

// SelectParty asigna al slot una entrada existente del padrón (variante de solo
// lectura de la resolución). domain.ErrNotFound si la clave no está en el padrón.
func (uc *DraftUseCase) SelectParty(companyID, sessionID string, kind entity.PartyKind, key string) (*dto.DraftResponse, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: rol de parte %q", domain.ErrInvalidInput, kind)
	}
	s, err := uc.store.Get(sessionID, companyID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.Rosters.ForKind(kind).Select(key)
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.Draft.SetPartySlot(kind, p.Clone())
	st := s.slot(kind)
	st.manualKind = false
	st.lastLookup = p.Document.Key() // entrada ya completa: no re-consultar
	s.Draft.UpdatedAt = time.Now()
	return draftResponse(s), nil
}

// ResolveVehicle resuelve el vehículo digitado contra el padrón por placa.
func (uc *DraftUseCase) ResolveVehicle(companyID, sessionID string) (*dto.DraftResponse, error) {
	s, err := uc.store.Get(sessionID, companyID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.Draft.Vehicle
	if v == nil || v.Plate == "" {
		return nil, fmt.Errorf("%w: el vehículo no tiene placa", domain.ErrInvalidInput)
	}
	candidate := *v
	if candidate.ID == "" {
		now := time.Now()
		candidate.ID = uuid.New().String()
		candidate.CreatedAt = now
		candidate.UpdatedAt = now
	}
	resolved, created := s.Rosters.Vehicles.ResolveOrCreate(&candidate)
	slotCopy := *resolved
	s.Draft.Vehicle = &slotCopy

	if created {
		if err := uc.vehicles.Create(resolved); err != nil && !errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("persistir vehículo: %w", err)
		}
	}
	return draftResponse(s), nil
}

// SelectVehicle asigna al borrador un vehículo existente del padrón por placa.
func (uc *DraftUseCase) SelectVehicle(companyID, sessionID, plate string) (*dto.DraftResponse, error) {
	s, err := uc.store.Get(sessionID, companyID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.Rosters.Vehicles.Select(strings.ToUpper(strings.TrimSpace(plate)))
	if !ok {
		return nil, domain.ErrNotFound
	}
	slotCopy := *v
	s.Draft.Vehicle = &slotCopy
	s.Draft.UpdatedAt = time.Now()
	return draftResponse(s), nil
}

// ── Mapeo a DTO ───────────────────────────────────────────────────────────────

// draftResponse arma el DTO del borrador con el veredicto recalculado.
// Llamar con s.mu tomado.
func draftResponse(s *Session) *dto.DraftResponse {
	d := s.Draft
	violations := remision.Validate(d)
	resp := &dto.DraftResponse{
		SessionID:      s.ID,
		Mode:           d.Mode,
		CategoryExempt: d.CategoryExempt,
		Client:         partyResponse(d.Client),
		Driver:         partyResponse(d.Driver),
		Carrier:        partyResponse(d.Carrier),
		Vehicle:        vehicleResponse(d.Vehicle),
		OriginAddress:  d.OriginAddress,
		DestAddress:    d.DestAddress,
		CargoLines:     make([]dto.CargoLineResponse, 0, len(d.CargoLines)),
		Violations:     violations,
		ReadyToSubmit:  len(violations) == 0,
	}
	for _, line := range d.CargoLines {
		resp.CargoLines = append(resp.CargoLines, dto.CargoLineResponse{
			Description: line.Description,
			Quantity:    line.Quantity,
			Unit:        line.Unit,
			Weight:      line.Weight,
		})
	}
	return resp
}

func partyResponse(p *entity.Party) *dto.PartyResponse {
	if p == nil {
		return nil
	}
	resp := &dto.PartyResponse{
		ID:          p.ID,
		DocKind:     string(p.Document.Kind),
		DocKindName: p.Document.Kind.Description(),
		DocNumber:   p.Document.Number,
		DisplayName: p.DisplayName,
		Phone:       p.Phone,
		Email:       p.Email,
		Address:     p.Address,
		License:     p.License,
	}
	if len(p.Provenance) > 0 {
		resp.Provenance = make(map[string]string, len(p.Provenance))
		for field, origin := range p.Provenance {
			resp.Provenance[field] = string(origin)
		}
	}
	return resp
}

func vehicleResponse(v *entity.Vehicle) *dto.VehicleResponse {
	if v == nil {
		return nil
	}
	return &dto.VehicleResponse{ID: v.ID, Plate: v.Plate, Make: v.Make, Model: v.Model}
}
