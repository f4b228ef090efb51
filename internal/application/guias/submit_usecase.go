package guias

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/remisiones-api/internal/application/dto"
	"github.com/jhoicas/remisiones-api/internal/domain"
	"github.com/jhoicas/remisiones-api/internal/domain/entity"
	"github.com/jhoicas/remisiones-api/internal/domain/remision"
	"github.com/jhoicas/remisiones-api/internal/domain/repository"
	"github.com/jhoicas/remisiones-api/pkg/logger"
)

// SubmitUseCase arma la guía desde el borrador y la presenta a SUNAT.
// Un intento por click: mientras un envío está en vuelo la sesión rechaza un
// segundo envío con ErrConflict (equivalente a deshabilitar el botón).
type SubmitUseCase struct {
	store     *SessionStore
	submitter GuiaSubmitter
	guias     repository.GuiaRepository
	emitter   remision.Emitter
	log       *logger.Logger
}

// NewSubmitUseCase construye el caso de uso.
func NewSubmitUseCase(store *SessionStore, submitter GuiaSubmitter, guias repository.GuiaRepository, emitter remision.Emitter, log *logger.Logger) *SubmitUseCase {
	return &SubmitUseCase{store: store, submitter: submitter, guias: guias, emitter: emitter, log: log}
}

// Submit valida, arma y presenta la guía.
//
// Con violaciones pendientes devuelve la lista completa y no envía nada (nunca
// un payload parcial). El rechazo de SUNAT se propaga verbatim como *Rejection;
// los errores de red se devuelven tal cual. En aceptación la guía se registra
// y se devuelve el identificador asignado.
func (uc *SubmitUseCase) Submit(ctx context.Context, companyID, sessionID string) (*dto.SubmitResponse, []remision.Violation, error) {
	s, err := uc.store.Get(sessionID, companyID)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, nil, fmt.Errorf("%w: envío en curso", domain.ErrConflict)
	}
	payload, violations := remision.Assemble(s.Draft, uc.emitter)
	if len(violations) > 0 {
		s.mu.Unlock()
		return nil, violations, nil
	}
	s.submitting = true
	s.mu.Unlock()

	// Llamada de red fuera del lock: la UI puede seguir leyendo el borrador.
	result, err := uc.submitter.Submit(ctx, payload)

	s.mu.Lock()
	s.submitting = false
	s.mu.Unlock()

	if err != nil {
		uc.log.Warn().Err(err).Str("session_id", sessionID).Msg("presentación de guía fallida")
		return nil, nil, err
	}

	// El registro se arma desde el payload, no desde el borrador vivo: el
	// borrador puede seguir editándose mientras la respuesta viaja y lo
	// registrado debe ser exactamente lo que SUNAT aceptó.
	g := &entity.Guia{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Serie:       result.Serie,
		Numero:      result.Numero,
		SUNATID:     result.SUNATID,
		Mode:        payload.Mode,
		ClientName:  payload.Client.Name,
		ClientDoc:   payload.Client.DocKind + ":" + payload.Client.DocNumber,
		Origin:      payload.Origin,
		Destination: payload.Destination,
		TotalLines:  payload.TotalLines,
		TotalWeight: payload.TotalWeight,
		Status:      entity.GuiaStatusAceptada,
		SubmittedAt: time.Now(),
		CreatedAt:   time.Now(),
	}
	if err := uc.guias.Create(g); err != nil {
		// SUNAT ya aceptó el documento: no se puede "desaceptar". Se reporta la
		// emisión al caller y el fallo de registro queda en el log para conciliar.
		uc.log.Error().Err(err).Str("sunat_id", result.SUNATID).Msg("guía aceptada pero no registrada en DB")
	}

	uc.log.Info().
		Str("session_id", sessionID).
		Str("sunat_id", result.SUNATID).
		Str("serie", result.Serie).
		Str("numero", result.Numero).
		Msg("guía de remisión aceptada")

	return &dto.SubmitResponse{
		GuiaID:  g.ID,
		SUNATID: result.SUNATID,
		Serie:   result.Serie,
		Numero:  result.Numero,
		Status:  entity.GuiaStatusAceptada,
	}, nil, nil
}

// GetGuia devuelve una guía emitida de la empresa.
func (uc *SubmitUseCase) GetGuia(companyID, id string) (*dto.GuiaResponse, error) {
	g, err := uc.guias.GetByID(id)
	if err != nil {
		return nil, err
	}
	if g == nil || g.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return guiaResponse(g), nil
}

// ListGuias lista las guías emitidas de la empresa.
func (uc *SubmitUseCase) ListGuias(companyID string, limit, offset int) ([]*dto.GuiaResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.guias.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.GuiaResponse, 0, len(list))
	for _, g := range list {
		out = append(out, guiaResponse(g))
	}
	return out, nil
}

func guiaResponse(g *entity.Guia) *dto.GuiaResponse {
	return &dto.GuiaResponse{
		ID:          g.ID,
		Serie:       g.Serie,
		Numero:      g.Numero,
		SUNATID:     g.SUNATID,
		Mode:        g.Mode,
		ClientName:  g.ClientName,
		ClientDoc:   g.ClientDoc,
		Origin:      g.Origin,
		Destination: g.Destination,
		TotalLines:  g.TotalLines,
		TotalWeight: g.TotalWeight,
		Status:      g.Status,
		SubmittedAt: g.SubmittedAt.Format(time.RFC3339),
	}
}
