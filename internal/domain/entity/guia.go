package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modalidades de traslado (catálogo 18 de SUNAT).
const (
	ModePublico = "01" // transporte público: un transportista (RUC) asume el traslado
	ModePrivado = "02" // transporte privado: el emisor traslada con vehículo y conductor propios
)

// Estados de la guía emitida.
const (
	GuiaStatusAceptada  = "ACEPTADA"  // aceptada por SUNAT
	GuiaStatusRechazada = "RECHAZADA" // rechazada por SUNAT con observaciones
)

// CargoLine es un ítem de la carga trasladada.
// Weight es el peso bruto total de la línea en kilogramos.
type CargoLine struct {
	Description string
	Quantity    decimal.Decimal
	Unit        string // unidad de medida (NIU, KGM, ...)
	Weight      decimal.Decimal
}

// GuiaDraft es la guía de remisión en construcción durante una sesión de edición.
//
// CategoryExempt marca que el vehículo es de categoría M1 o L (automóvil ligero
// o motocicleta): por norma SUNAT esos traslados no consignan datos de vehículo
// ni conductor. El borrador conserva los datos ya digitados aunque el flag los
// vuelva opcionales; recién al armar el payload se omiten.
type GuiaDraft struct {
	ID             string
	CompanyID      string
	Mode           string // ModePublico | ModePrivado
	CategoryExempt bool
	Client         *Party
	Driver         *Party
	Carrier        *Party
	Vehicle        *Vehicle
	OriginAddress  string
	DestAddress    string
	CargoLines     []CargoLine
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PartySlot devuelve el puntero al slot de la parte indicada (nil si no existe el rol).
func (d *GuiaDraft) PartySlot(kind PartyKind) *Party {
	switch kind {
	case PartyClient:
		return d.Client
	case PartyDriver:
		return d.Driver
	case PartyCarrier:
		return d.Carrier
	}
	return nil
}

// SetPartySlot asigna la parte al slot del rol indicado.
func (d *GuiaDraft) SetPartySlot(kind PartyKind, p *Party) {
	switch kind {
	case PartyClient:
		d.Client = p
	case PartyDriver:
		d.Driver = p
	case PartyCarrier:
		d.Carrier = p
	}
}

// Guia es la guía de remisión ya presentada y aceptada por SUNAT.
type Guia struct {
	ID          string
	CompanyID   string
	Serie       string
	Numero      string
	SUNATID     string // identificador devuelto por SUNAT al aceptar
	Mode        string
	ClientName  string
	ClientDoc   string // "tipo:número"
	Origin      string
	Destination string
	TotalLines  int
	TotalWeight decimal.Decimal
	Status      string
	SubmittedAt time.Time
	CreatedAt   time.Time
}
