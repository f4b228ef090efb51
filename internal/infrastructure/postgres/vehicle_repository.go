package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/remisiones-api/internal/domain"
	"github.com/jhoicas/remisiones-api/internal/domain/entity"
	"github.com/jhoicas/remisiones-api/internal/domain/repository"
)

var _ repository.VehicleRepository = (*VehicleRepo)(nil)

// VehicleRepo implementación de VehicleRepository sobre la tabla vehicles.
type VehicleRepo struct {
	q Querier
}

// NewVehicleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVehicleRepository(q Querier) *VehicleRepo {
	return &VehicleRepo{q: q}
}

// Create persiste un vehículo nuevo.
func (r *VehicleRepo) Create(v *entity.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, company_id, plate, make, model, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		v.ID, v.CompanyID, v.Plate, v.Make, v.Model, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

// GetByCompanyAndPlate obtiene un vehículo por placa. Devuelve nil sin error si no existe.
func (r *VehicleRepo) GetByCompanyAndPlate(companyID, plate string) (*entity.Vehicle, error) {
	query := `
		SELECT id, company_id, plate, make, model, created_at, updated_at
		FROM vehicles WHERE company_id = $1 AND plate = $2`
	var v entity.Vehicle
	err := r.q.QueryRow(context.Background(), query, companyID, plate).Scan(
		&v.ID, &v.CompanyID, &v.Plate, &v.Make, &v.Model, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return &v, nil
}

// ListByCompany lista los vehículos de la empresa en orden de creación.
func (r *VehicleRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Vehicle, error) {
	query := `
		SELECT id, company_id, plate, make, model, created_at, updated_at
		FROM vehicles WHERE company_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var out []*entity.Vehicle
	for rows.Next() {
		var v entity.Vehicle
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.Plate, &v.Make, &v.Model, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}
