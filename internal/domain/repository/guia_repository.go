package repository

import "github.com/jhoicas/remisiones-api/internal/domain/entity"

// GuiaRepository define el puerto de persistencia para guías ya aceptadas por SUNAT.
// Los borradores no se persisten: viven en la sesión de edición en memoria.
type GuiaRepository interface {
	Create(g *entity.Guia) error
	GetByID(id string) (*entity.Guia, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Guia, error)
}
