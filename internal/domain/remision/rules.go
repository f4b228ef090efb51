// Package remision contiene las reglas de dominio de la guía de remisión:
// la tabla de campos obligatorios según modalidad de traslado y la proyección
// del borrador al payload de presentación. Todo es puro — sin I/O, sin reloj —
// para poder recalcular en cada mutación del borrador sin costo apreciable.
package remision

import (
	"fmt"

	"github.com/jhoicas/remisiones-api/internal/domain/entity"
	"github.com/jhoicas/remisiones-api/internal/domain/identity"
)

// Violation es una falta de validación: campo afectado y motivo legible.
// La lista completa (no solo la primera) es el veredicto del motor de reglas.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Motivos de violación. Textos estables: la UI los muestra tal cual.
const (
	ReasonClientRequired     = "destinatario requerido"
	ReasonOriginRequired     = "punto de partida requerido"
	ReasonDestRequired       = "punto de llegada requerido"
	ReasonCargoRequired      = "la guía debe tener al menos un ítem de carga"
	ReasonDriverRequired     = "conductor requerido"
	ReasonPlateRequired      = "placa del vehículo requerida"
	ReasonCarrierRUCRequired = "RUC del transportista requerido"
	ReasonModeUnknown        = "modalidad de traslado desconocida"
)

// Validate evalúa la tabla de reglas sobre el borrador y devuelve todas las
// violaciones aplicables, en orden estable:
//
//  1. siempre: destinatario, punto de partida, punto de llegada, ≥1 ítem;
//  2. privado sin exención M1/L: conductor con documento y placa del vehículo;
//  3. privado con exención M1/L: nada adicional;
//  4. público: transportista con RUC (conductor y vehículo opcionales).
//
// Los documentos presentes cuya longitud no corresponde al tipo (tabla del
// catálogo 06) también se reportan como violaciones, nunca como panic.
func Validate(d *entity.GuiaDraft) []Violation {
	var out []Violation

	// Reglas incondicionales.
	if d.Client == nil || d.Client.Document.IsZero() {
		out = append(out, Violation{Field: "destinatario", Reason: ReasonClientRequired})
	} else if err := d.Client.Document.Validate(); err != nil {
		out = append(out, docViolation("destinatario", err))
	}
	if d.OriginAddress == "" {
		out = append(out, Violation{Field: "punto_partida", Reason: ReasonOriginRequired})
	}
	if d.DestAddress == "" {
		out = append(out, Violation{Field: "punto_llegada", Reason: ReasonDestRequired})
	}
	if len(d.CargoLines) == 0 {
		out = append(out, Violation{Field: "items", Reason: ReasonCargoRequired})
	}

	// Reglas por modalidad.
	switch d.Mode {
	case entity.ModePrivado:
		if !d.CategoryExempt {
			if d.Driver == nil || d.Driver.Document.IsZero() {
				out = append(out, Violation{Field: "conductor", Reason: ReasonDriverRequired})
			} else if err := d.Driver.Document.Validate(); err != nil {
				out = append(out, docViolation("conductor", err))
			}
			if d.Vehicle == nil || d.Vehicle.Plate == "" {
				out = append(out, Violation{Field: "vehiculo", Reason: ReasonPlateRequired})
			}
		}
	case entity.ModePublico:
		if d.Carrier == nil || d.Carrier.Document.Kind != identity.KindRUC || d.Carrier.Document.Number == "" {
			out = append(out, Violation{Field: "transportista", Reason: ReasonCarrierRUCRequired})
		} else if err := d.Carrier.Document.Validate(); err != nil {
			out = append(out, docViolation("transportista", err))
		}
		// Conductor y vehículo son opcionales en transporte público: si el
		// usuario los dejó registrados no generan violación.
	default:
		out = append(out, Violation{Field: "modalidad", Reason: ReasonModeUnknown})
	}

	return out
}

// ReadyToSubmit indica si el borrador puede presentarse (cero violaciones).
func ReadyToSubmit(d *entity.GuiaDraft) bool {
	return len(Validate(d)) == 0
}

func docViolation(field string, err error) Violation {
	return Violation{Field: field, Reason: fmt.Sprintf("documento inválido: %v", err)}
}
