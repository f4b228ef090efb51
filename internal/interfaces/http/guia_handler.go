package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/remisiones-api/internal/application/dto"
	"github.com/jhoicas/remisiones-api/internal/application/guias"
	"github.com/jhoicas/remisiones-api/internal/domain"
	"github.com/jhoicas/remisiones-api/internal/domain/entity"
)

// GuiaHandler maneja el flujo de emisión de guías: sesiones de edición,
// mutaciones del borrador, consultas a padrón, resolución de partes y envío.
type GuiaHandler struct {
	draftUC  *guias.DraftUseCase
	lookupUC *guias.LookupUseCase
	submitUC *guias.SubmitUseCase
}

// NewGuiaHandler construye el handler.
func NewGuiaHandler(draftUC *guias.DraftUseCase, lookupUC *guias.LookupUseCase, submitUC *guias.SubmitUseCase) *GuiaHandler {
	return &GuiaHandler{draftUC: draftUC, lookupUC: lookupUC, submitUC: submitUC}
}

// StartSession POST /api/guias/sessions
func (h *GuiaHandler) StartSession(c *fiber.Ctx) error {
	draft, err := h.draftUC.StartSession(GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(draft)
}

// EndSession DELETE /api/guias/sessions/:id
func (h *GuiaHandler) EndSession(c *fiber.Ctx) error {
	if err := h.draftUC.EndSession(GetCompanyID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetDraft GET /api/guias/sessions/:id
func (h *GuiaHandler) GetDraft(c *fiber.Ctx) error {
	draft, err := h.draftUC.GetDraft(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draft)
}

// UpdateShipment PATCH /api/guias/sessions/:id
func (h *GuiaHandler) UpdateShipment(c *fiber.Ctx) error {
	var in dto.UpdateDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	draft, err := h.draftUC.UpdateShipment(GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draft)
}

// UpdateParty PUT /api/guias/sessions/:id/parties/:role
func (h *GuiaHandler) UpdateParty(c *fiber.Ctx) error {
	var in dto.PartyInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	draft, err := h.draftUC.UpdateParty(GetCompanyID(c), c.Params("id"), partyKind(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draft)
}

// LookupParty POST /api/guias/sessions/:id/parties/:role/lookup
func (h *GuiaHandler) LookupParty(c *fiber.Ctx) error {
	result, err := h.lookupUC.LookupParty(c.Context(), GetCompanyID(c), c.Params("id"), partyKind(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// ResolveParty POST /api/guias/sessions/:id/parties/:role/resolve
func (h *GuiaHandler) ResolveParty(c *fiber.Ctx) error {
	draft, err := h.draftUC.ResolveParty(GetCompanyID(c), c.Params("id"), partyKind(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draft)
}

// SelectParty POST /api/guias/sessions/:id/parties/:role/select
func (h *GuiaHandler) SelectParty(c *fiber.Ctx) error {
	var in dto.SelectRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	draft, err := h.draftUC.SelectParty(GetCompanyID(c), c.Params("id"), partyKind(c), in.Key)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draft)
}

// UpdateVehicle PUT /api/guias/sessions/:id/vehicle
func (h *GuiaHandler) UpdateVehicle(c *fiber.Ctx) error {
	var in dto.VehicleInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	draft, err := h.draftUC.UpdateVehicle(GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draft)
}

// ResolveVehicle POST /api/guias/sessions/:id/vehicle/resolve
func (h *GuiaHandler) ResolveVehicle(c *fiber.Ctx) error {
	draft, err := h.draftUC.ResolveVehicle(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draft)
}

// SelectVehicle POST /api/guias/sessions/:id/vehicle/select
func (h *GuiaHandler) SelectVehicle(c *fiber.Ctx) error {
	var in dto.SelectRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	draft, err := h.draftUC.SelectVehicle(GetCompanyID(c), c.Params("id"), in.Key)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draft)
}

// AddCargoLine POST /api/guias/sessions/:id/cargo
func (h *GuiaHandler) AddCargoLine(c *fiber.Ctx) error {
	var in dto.CargoLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	draft, err := h.draftUC.AddCargoLine(GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draft)
}

// RemoveCargoLine DELETE /api/guias/sessions/:id/cargo/:index
func (h *GuiaHandler) RemoveCargoLine(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INDEX", Message: "índice inválido"})
	}
	draft, err := h.draftUC.RemoveCargoLine(GetCompanyID(c), c.Params("id"), index)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draft)
}

// Submit POST /api/guias/sessions/:id/submit
// Con violaciones pendientes responde 422 con la lista completa; un rechazo de
// SUNAT responde 422 con el mensaje verbatim. No reintenta.
func (h *GuiaHandler) Submit(c *fiber.Ctx) error {
	result, violations, err := h.submitUC.Submit(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if len(violations) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.RejectedResponse{
			Code:       "VALIDATION",
			Message:    "la guía tiene campos pendientes",
			Violations: violations,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetGuia GET /api/guias/:id
func (h *GuiaHandler) GetGuia(c *fiber.Ctx) error {
	g, err := h.submitUC.GetGuia(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(g)
}

// ListGuias GET /api/guias?limit=20&offset=0
func (h *GuiaHandler) ListGuias(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	list, err := h.submitUC.ListGuias(GetCompanyID(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// parsePage extrae limit/offset del query string y aplica los defaults de paginación.
func parsePage(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, err
	}
	page.DefaultPage()
	return page, nil
}

// partyKind traduce el parámetro :role de la ruta al rol de dominio.
func partyKind(c *fiber.Ctx) entity.PartyKind {
	return entity.PartyKind(c.Params("role"))
}

// respondError mapea errores de aplicación/dominio a respuestas HTTP.
func respondError(c *fiber.Ctx, err error) error {
	var rejection *guias.Rejection
	switch {
	case errors.As(err, &rejection):
		// Rechazo SUNAT: verbatim, sin interpretación.
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.RejectedResponse{
			Code:    rejection.Code,
			Message: rejection.Message,
		})
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, guias.ErrLookup):
		// Aviso transitorio: la consulta falló pero el formulario sigue editable a mano.
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "LOOKUP_FAILED", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
