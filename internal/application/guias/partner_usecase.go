package guias

import (
	"fmt"

	"github.com/jhoicas/remisiones-api/internal/application/dto"
	"github.com/jhoicas/remisiones-api/internal/domain"
	"github.com/jhoicas/remisiones-api/internal/domain/entity"
	"github.com/jhoicas/remisiones-api/internal/domain/repository"
)

// PartnerUseCase listados de partes y vehículos persistidos de la empresa.
// Es la misma fuente con la que se siembran los padrones de cada sesión.
type PartnerUseCase struct {
	parties  repository.PartyRepository
	vehicles repository.VehicleRepository
}

// NewPartnerUseCase construye el caso de uso.
func NewPartnerUseCase(parties repository.PartyRepository, vehicles repository.VehicleRepository) *PartnerUseCase {
	return &PartnerUseCase{parties: parties, vehicles: vehicles}
}

// ListParties lista las partes del rol indicado.
func (uc *PartnerUseCase) ListParties(companyID string, kind entity.PartyKind, limit, offset int) ([]*dto.PartyResponse, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: rol de parte %q", domain.ErrInvalidInput, kind)
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.parties.ListByCompany(companyID, kind, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PartyResponse, 0, len(list))
	for _, p := range list {
		out = append(out, partyResponse(p))
	}
	return out, nil
}

// ListVehicles lista los vehículos de la empresa.
func (uc *PartnerUseCase) ListVehicles(companyID string, limit, offset int) ([]*dto.VehicleResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.vehicles.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.VehicleResponse, 0, len(list))
	for _, v := range list {
		out = append(out, vehicleResponse(v))
	}
	return out, nil
}
