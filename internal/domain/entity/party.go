package entity

import (
	"time"

	"github.com/jhoicas/remisiones-api/internal/domain/identity"
)

// PartyKind distingue los roles de una parte dentro de la guía de remisión.
type PartyKind string

const (
	PartyClient  PartyKind = "client"  // destinatario de la mercadería
	PartyDriver  PartyKind = "driver"  // conductor (transporte privado)
	PartyCarrier PartyKind = "carrier" // transportista (transporte público)
)

// Valid indica si el rol es uno de los soportados.
func (k PartyKind) Valid() bool {
	return k == PartyClient || k == PartyDriver || k == PartyCarrier
}

// FieldOrigin es la procedencia de un campo: consultado a un padrón o digitado.
// Permite a la UI distinguir datos oficiales de datos manuales y decide la
// precedencia al mezclar una respuesta de RENIEC/SUNAT sobre el borrador.
type FieldOrigin string

const (
	OriginFetched FieldOrigin = "FETCHED" // traído de RENIEC o del padrón RUC
	OriginManual  FieldOrigin = "MANUAL"  // digitado por el usuario
)

// Nombres de campo con procedencia rastreada.
const (
	FieldDisplayName = "display_name"
	FieldAddress     = "address"
	FieldPhone       = "phone"
	FieldEmail       = "email"
)

// RegistryFields son los campos parciales que devuelve una consulta a un padrón,
// ya normalizados a la forma canónica (nombre completo concatenado, dirección fiscal).
type RegistryFields struct {
	DisplayName string
	Address     string
}

// Party representa una parte de la guía: destinatario, conductor o transportista.
// DisplayName es la razón social (persona jurídica) o nombres y apellidos
// concatenados (persona natural).
type Party struct {
	ID          string
	CompanyID   string
	Document    identity.Document
	DisplayName string
	Phone       string
	Email       string
	Address     string
	License     string // licencia de conducir (solo relevante para conductores)
	Provenance  map[string]FieldOrigin
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// origin devuelve la procedencia registrada de un campo ("" si nunca se asignó).
func (p *Party) origin(field string) FieldOrigin {
	if p.Provenance == nil {
		return ""
	}
	return p.Provenance[field]
}

func (p *Party) mark(field string, o FieldOrigin) {
	if p.Provenance == nil {
		p.Provenance = make(map[string]FieldOrigin)
	}
	p.Provenance[field] = o
}

// SetManual asigna un campo digitado por el usuario y registra su procedencia.
// Asignar un valor vacío borra el campo y lo vuelve a dejar como hueco: una
// consulta posterior puede rellenarlo.
func (p *Party) SetManual(field, value string) {
	switch field {
	case FieldDisplayName:
		p.DisplayName = value
	case FieldAddress:
		p.Address = value
	case FieldPhone:
		p.Phone = value
	case FieldEmail:
		p.Email = value
	default:
		return
	}
	p.mark(field, OriginManual)
}

// ApplyFetched mezcla la respuesta de un padrón sobre la parte.
//
// Política de mezcla: los datos consultados solo llenan huecos — un campo con
// procedencia MANUAL y valor no vacío nunca se sobrescribe. Así una respuesta
// que llega tarde no pisa lo que el usuario digitó después de disparar la consulta.
func (p *Party) ApplyFetched(f RegistryFields) {
	if f.DisplayName != "" && p.fillable(FieldDisplayName, p.DisplayName) {
		p.DisplayName = f.DisplayName
		p.mark(FieldDisplayName, OriginFetched)
	}
	if f.Address != "" && p.fillable(FieldAddress, p.Address) {
		p.Address = f.Address
		p.mark(FieldAddress, OriginFetched)
	}
}

// fillable: se puede escribir si el campo está vacío o si su valor actual
// también provino de un padrón (refrescar dato oficial con dato oficial).
func (p *Party) fillable(field, current string) bool {
	if current == "" {
		return true
	}
	return p.origin(field) == OriginFetched
}

// Clone devuelve una copia profunda (mapa de procedencia incluido) para que el
// borrador de una sesión no comparta estado mutable con el padrón de la sesión.
func (p *Party) Clone() *Party {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Provenance != nil {
		cp.Provenance = make(map[string]FieldOrigin, len(p.Provenance))
		for k, v := range p.Provenance {
			cp.Provenance[k] = v
		}
	}
	return &cp
}
