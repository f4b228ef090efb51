package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/remisiones-api/internal/domain/remision"
)

// UpdateDraftRequest body para PATCH del borrador. Campos nil no se tocan.
type UpdateDraftRequest struct {
	Mode           *string `json:"mode,omitempty"`            // "01" público | "02" privado
	CategoryExempt *bool   `json:"category_exempt,omitempty"` // vehículo categoría M1/L
	OriginAddress  *string `json:"origin_address,omitempty"`
	DestAddress    *string `json:"dest_address,omitempty"`
}

// PartyInput body para editar el slot de una parte del borrador.
// Kind no vacío = el usuario eligió el tipo en el selector (override manual:
// la autodetección deja de actuar sobre ese campo). Campos *string nil no se tocan.
type PartyInput struct {
	Number      string  `json:"number"`
	Kind        string  `json:"kind,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
	Address     *string `json:"address,omitempty"`
	License     *string `json:"license,omitempty"`
}

// VehicleInput body para editar el vehículo del borrador.
type VehicleInput struct {
	Plate string `json:"plate"`
	Make  string `json:"make,omitempty"`
	Model string `json:"model,omitempty"`
}

// CargoLineRequest línea de carga a agregar al borrador.
type CargoLineRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Weight      decimal.Decimal `json:"weight_kg"`
}

// SelectRequest selección de una entrada existente del padrón de la sesión.
// Para partes la clave es "tipo:número"; para vehículos, la placa.
type SelectRequest struct {
	Key string `json:"key"`
}

// PartyResponse una parte en respuestas.
type PartyResponse struct {
	ID          string            `json:"id,omitempty"`
	DocKind     string            `json:"doc_kind"`
	DocKindName string            `json:"doc_kind_name,omitempty"`
	DocNumber   string            `json:"doc_number"`
	DisplayName string            `json:"display_name,omitempty"`
	Phone       string            `json:"phone,omitempty"`
	Email       string            `json:"email,omitempty"`
	Address     string            `json:"address,omitempty"`
	License     string            `json:"license,omitempty"`
	Provenance  map[string]string `json:"provenance,omitempty"` // campo -> FETCHED | MANUAL
}

// VehicleResponse un vehículo en respuestas.
type VehicleResponse struct {
	ID    string `json:"id,omitempty"`
	Plate string `json:"plate"`
	Make  string `json:"make,omitempty"`
	Model string `json:"model,omitempty"`
}

// CargoLineResponse línea de carga en respuestas.
type CargoLineResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Weight      decimal.Decimal `json:"weight_kg"`
}

// DraftResponse el borrador completo con su veredicto de validación,
// recalculado en cada mutación.
type DraftResponse struct {
	SessionID      string               `json:"session_id"`
	Mode           string               `json:"mode"`
	CategoryExempt bool                 `json:"category_exempt"`
	Client         *PartyResponse       `json:"client,omitempty"`
	Driver         *PartyResponse       `json:"driver,omitempty"`
	Carrier        *PartyResponse       `json:"carrier,omitempty"`
	Vehicle        *VehicleResponse     `json:"vehicle,omitempty"`
	OriginAddress  string               `json:"origin_address,omitempty"`
	DestAddress    string               `json:"dest_address,omitempty"`
	CargoLines     []CargoLineResponse  `json:"cargo_lines"`
	Violations     []remision.Violation `json:"violations"`
	ReadyToSubmit  bool                 `json:"ready_to_submit"`
}

// LookupResponse resultado de una consulta a padrón sobre un slot del borrador.
// Applied=false con Stale=true significa respuesta descartada por obsoleta;
// con Supported=false el tipo no tiene padrón y se completa manualmente.
type LookupResponse struct {
	Supported bool           `json:"supported"`
	Applied   bool           `json:"applied"`
	Stale     bool           `json:"stale,omitempty"`
	Notice    string         `json:"notice,omitempty"`
	Party     *PartyResponse `json:"party,omitempty"`
}

// SubmitResponse guía aceptada por SUNAT.
type SubmitResponse struct {
	GuiaID  string `json:"guia_id"`
	SUNATID string `json:"sunat_id"`
	Serie   string `json:"serie"`
	Numero  string `json:"numero"`
	Status  string `json:"status"`
}

// RejectedResponse presentación rechazada: violaciones locales o rechazo SUNAT verbatim.
type RejectedResponse struct {
	Code       string               `json:"code"`
	Message    string               `json:"message"`
	Violations []remision.Violation `json:"violations,omitempty"`
}

// GuiaResponse guía emitida para GET /api/guias/:id.
type GuiaResponse struct {
	ID          string          `json:"id"`
	Serie       string          `json:"serie"`
	Numero      string          `json:"numero"`
	SUNATID     string          `json:"sunat_id"`
	Mode        string          `json:"mode"`
	ClientName  string          `json:"client_name"`
	ClientDoc   string          `json:"client_doc"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	TotalLines  int             `json:"total_lines"`
	TotalWeight decimal.Decimal `json:"total_weight_kg"`
	Status      string          `json:"status"`
	SubmittedAt string          `json:"submitted_at"`
}
