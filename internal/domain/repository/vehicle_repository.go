package repository

import "github.com/jhoicas/remisiones-api/internal/domain/entity"

// VehicleRepository define el puerto de persistencia para vehículos (clave natural: placa).
type VehicleRepository interface {
	Create(v *entity.Vehicle) error
	GetByCompanyAndPlate(companyID, plate string) (*entity.Vehicle, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Vehicle, error)
}
