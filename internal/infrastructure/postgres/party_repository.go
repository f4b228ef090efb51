package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/remisiones-api/internal/domain"
	"github.com/jhoicas/remisiones-api/internal/domain/entity"
	"github.com/jhoicas/remisiones-api/internal/domain/identity"
	"github.com/jhoicas/remisiones-api/internal/domain/repository"
)

var _ repository.PartyRepository = (*PartyRepo)(nil)

// PartyRepo implementación de PartyRepository sobre la tabla parties.
// La procedencia por campo no se persiste: es estado de la edición en curso;
// una parte ya persistida se siembra como dato completo.
type PartyRepo struct {
	q Querier
}

// NewPartyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartyRepository(q Querier) *PartyRepo {
	return &PartyRepo{q: q}
}

// Create persiste una parte nueva del rol indicado.
func (r *PartyRepo) Create(p *entity.Party, kind entity.PartyKind) error {
	query := `
		INSERT INTO parties (id, company_id, kind, doc_kind, doc_number, display_name, phone, email, address, license, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.CompanyID, string(kind), string(p.Document.Kind), p.Document.Number,
		p.DisplayName, p.Phone, p.Email, p.Address, p.License,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert party: %w", err)
	}
	return nil
}

// GetByCompanyAndDocument obtiene una parte por empresa, rol y documento.
// Devuelve nil sin error si no existe.
func (r *PartyRepo) GetByCompanyAndDocument(companyID string, kind entity.PartyKind, doc identity.Document) (*entity.Party, error) {
	query := `
		SELECT id, company_id, doc_kind, doc_number, display_name, phone, email, address, license, created_at, updated_at
		FROM parties WHERE company_id = $1 AND kind = $2 AND doc_kind = $3 AND doc_number = $4`
	p, err := scanParty(r.q.QueryRow(context.Background(), query, companyID, string(kind), string(doc.Kind), doc.Number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get party: %w", err)
	}
	return p, nil
}

// ListByCompany lista las partes del rol, en orden de creación.
func (r *PartyRepo) ListByCompany(companyID string, kind entity.PartyKind, limit, offset int) ([]*entity.Party, error) {
	query := `
		SELECT id, company_id, doc_kind, doc_number, display_name, phone, email, address, license, created_at, updated_at
		FROM parties WHERE company_id = $1 AND kind = $2
		ORDER BY created_at ASC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, string(kind), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	defer rows.Close()

	var out []*entity.Party
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan party: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanParty(row pgx.Row) (*entity.Party, error) {
	var p entity.Party
	var docKind string
	err := row.Scan(
		&p.ID, &p.CompanyID, &docKind, &p.Document.Number,
		&p.DisplayName, &p.Phone, &p.Email, &p.Address, &p.License,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Document.Kind = identity.Kind(docKind)
	return &p, nil
}
