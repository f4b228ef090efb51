package guias

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/remisiones-api/internal/domain/entity"
	"github.com/jhoicas/remisiones-api/internal/domain/identity"
	"github.com/jhoicas/remisiones-api/internal/domain/remision"
)

// ErrKindNotSupported: el tipo de documento no tiene padrón consultable
// (documentos extranjeros). No es una condición de error para el flujo — es el
// estado normal de esos tipos y el caller cae a completado manual.
var ErrKindNotSupported = errors.New("tipo de documento sin padrón consultable")

// RegistryLookup define el puerto de salida hacia los padrones de identidad:
// RENIEC para DNI (persona natural) y el padrón RUC de SUNAT (persona jurídica).
// La implementación concreta vive en infraestructura; para tests se inyecta un fake.
type RegistryLookup interface {
	// Lookup consulta el padrón del tipo indicado y devuelve los campos
	// canónicos normalizados. domain.ErrNotFound si el número no existe en el
	// padrón; ErrKindNotSupported si el tipo no es consultable.
	Lookup(ctx context.Context, kind identity.Kind, number string) (*entity.RegistryFields, error)
}

// SubmitResult respuesta de SUNAT al aceptar la guía.
type SubmitResult struct {
	SUNATID string // identificador del documento creado
	Serie   string // eco normalizado de serie
	Numero  string // correlativo asignado
}

// Rejection rechazo estructurado reportado por SUNAT. Se muestra verbatim al
// usuario: este servicio no interpreta ni reintenta.
type Rejection struct {
	Code    string
	Message string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("rechazo SUNAT %s: %s", r.Code, r.Message)
}

// GuiaSubmitter define el puerto de salida para presentar la guía armada.
// Un intento por click de envío; sin retry.
type GuiaSubmitter interface {
	Submit(ctx context.Context, p *remision.Payload) (*SubmitResult, error)
}
