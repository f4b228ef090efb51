package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/remisiones-api/internal/application/guias"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	DraftUC   *guias.DraftUseCase
	LookupUC  *guias.LookupUseCase
	SubmitUC  *guias.SubmitUseCase
	PartnerUC *guias.PartnerUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token del servicio de auth)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Padrones persistidos (protegido)
	partnerHandler := NewPartnerHandler(deps.PartnerUC)
	protected.Get("/partners", partnerHandler.ListParties)
	protected.Get("/vehicles", partnerHandler.ListVehicles)

	// Guías de remisión (protegido)
	guiasGroup := protected.Group("/guias")
	guiaHandler := NewGuiaHandler(deps.DraftUC, deps.LookupUC, deps.SubmitUC)

	guiasGroup.Get("/", guiaHandler.ListGuias)

	// Sesiones de edición del borrador
	sessions := guiasGroup.Group("/sessions")
	sessions.Post("/", guiaHandler.StartSession)
	sessions.Get("/:id", guiaHandler.GetDraft)
	sessions.Patch("/:id", guiaHandler.UpdateShipment)
	sessions.Delete("/:id", guiaHandler.EndSession)

	sessions.Put("/:id/parties/:role", guiaHandler.UpdateParty)
	sessions.Post("/:id/parties/:role/lookup", guiaHandler.LookupParty)
	sessions.Post("/:id/parties/:role/resolve", guiaHandler.ResolveParty)
	sessions.Post("/:id/parties/:role/select", guiaHandler.SelectParty)

	sessions.Put("/:id/vehicle", guiaHandler.UpdateVehicle)
	sessions.Post("/:id/vehicle/resolve", guiaHandler.ResolveVehicle)
	sessions.Post("/:id/vehicle/select", guiaHandler.SelectVehicle)

	sessions.Post("/:id/cargo", guiaHandler.AddCargoLine)
	sessions.Delete("/:id/cargo/:index", guiaHandler.RemoveCargoLine)

	// Presentar a SUNAT: solo roles emisores
	sessions.Post("/:id/submit", RequireRole("admin", "emisor"), guiaHandler.Submit)

	// Guías emitidas: al final para no capturar /sessions
	guiasGroup.Get("/:id", guiaHandler.GetGuia)
}
