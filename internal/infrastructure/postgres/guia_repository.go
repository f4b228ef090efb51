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

var _ repository.GuiaRepository = (*GuiaRepo)(nil)

// GuiaRepo implementación de GuiaRepository sobre la tabla guias.
// Solo guías aceptadas por SUNAT; los borradores no llegan aquí.
type GuiaRepo struct {
	q Querier
}

// NewGuiaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewGuiaRepository(q Querier) *GuiaRepo {
	return &GuiaRepo{q: q}
}

// Create registra una guía aceptada.
func (r *GuiaRepo) Create(g *entity.Guia) error {
	query := `
		INSERT INTO guias (id, company_id, serie, numero, sunat_id, mode, client_name, client_doc,
			origin, destination, total_lines, total_weight, status, submitted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		g.ID, g.CompanyID, g.Serie, g.Numero, g.SUNATID, g.Mode, g.ClientName, g.ClientDoc,
		g.Origin, g.Destination, g.TotalLines, g.TotalWeight, g.Status, g.SubmittedAt, g.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert guia: %w", err)
	}
	return nil
}

// GetByID obtiene una guía por ID. Devuelve nil sin error si no existe.
func (r *GuiaRepo) GetByID(id string) (*entity.Guia, error) {
	query := `
		SELECT id, company_id, serie, numero, sunat_id, mode, client_name, client_doc,
			origin, destination, total_lines, total_weight, status, submitted_at, created_at
		FROM guias WHERE id = $1`
	g, err := scanGuia(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get guia: %w", err)
	}
	return g, nil
}

// ListByCompany lista las guías de la empresa, más recientes primero.
func (r *GuiaRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Guia, error) {
	query := `
		SELECT id, company_id, serie, numero, sunat_id, mode, client_name, client_doc,
			origin, destination, total_lines, total_weight, status, submitted_at, created_at
		FROM guias WHERE company_id = $1
		ORDER BY submitted_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list guias: %w", err)
	}
	defer rows.Close()

	var out []*entity.Guia
	for rows.Next() {
		g, err := scanGuia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan guia: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func scanGuia(row pgx.Row) (*entity.Guia, error) {
	var g entity.Guia
	err := row.Scan(
		&g.ID, &g.CompanyID, &g.Serie, &g.Numero, &g.SUNATID, &g.Mode, &g.ClientName, &g.ClientDoc,
		&g.Origin, &g.Destination, &g.TotalLines, &g.TotalWeight, &g.Status, &g.SubmittedAt, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
