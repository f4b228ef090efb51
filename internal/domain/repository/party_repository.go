package repository

import (
	"github.com/jhoicas/remisiones-api/internal/domain/entity"
	"github.com/jhoicas/remisiones-api/internal/domain/identity"
)

// PartyRepository define el puerto de persistencia para las partes
// (destinatarios, conductores, transportistas). Alimenta el padrón inicial de
// cada sesión de edición y persiste las partes creadas vía resolve-or-create.
type PartyRepository interface {
	Create(p *entity.Party, kind entity.PartyKind) error
	GetByCompanyAndDocument(companyID string, kind entity.PartyKind, doc identity.Document) (*entity.Party, error)
	ListByCompany(companyID string, kind entity.PartyKind, limit, offset int) ([]*entity.Party, error)
}
