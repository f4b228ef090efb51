package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/remisiones-api/internal/application/dto"
	"github.com/jhoicas/remisiones-api/internal/application/guias"
	"github.com/jhoicas/remisiones-api/internal/domain/entity"
)

// PartnerHandler listados de partes y vehículos persistidos (protegido).
type PartnerHandler struct {
	uc *guias.PartnerUseCase
}

// NewPartnerHandler construye el handler.
func NewPartnerHandler(uc *guias.PartnerUseCase) *PartnerHandler {
	return &PartnerHandler{uc: uc}
}

// ListParties GET /api/partners?kind=client&limit=20&offset=0
func (h *PartnerHandler) ListParties(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	kind := entity.PartyKind(c.Query("kind", string(entity.PartyClient)))
	list, err := h.uc.ListParties(GetCompanyID(c), kind, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// ListVehicles GET /api/vehicles?limit=20&offset=0
func (h *PartnerHandler) ListVehicles(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	list, err := h.uc.ListVehicles(GetCompanyID(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
