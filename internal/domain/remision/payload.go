package remision

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/remisiones-api/internal/domain/entity"
)

// Emitter identifica a la empresa emisora en el payload de presentación.
type Emitter struct {
	RUC   string `json:"ruc"`
	Serie string `json:"serie"`
}

// PartyPayload es la proyección de una parte para SUNAT.
type PartyPayload struct {
	DocKind   string `json:"tipo_documento"`
	DocNumber string `json:"numero_documento"`
	Name      string `json:"nombre"`
	Address   string `json:"direccion,omitempty"`
	License   string `json:"licencia,omitempty"`
}

// VehiclePayload es la proyección del vehículo para SUNAT.
type VehiclePayload struct {
	Plate string `json:"placa"`
	Make  string `json:"marca,omitempty"`
	Model string `json:"modelo,omitempty"`
}

// ItemPayload es una línea de carga proyectada.
type ItemPayload struct {
	Description string          `json:"descripcion"`
	Quantity    decimal.Decimal `json:"cantidad"`
	Unit        string          `json:"unidad"`
	Weight      decimal.Decimal `json:"peso_kg"`
}

// Payload es la guía completa lista para presentar al endpoint de SUNAT.
type Payload struct {
	Emitter        Emitter         `json:"emisor"`
	Mode           string          `json:"modalidad"`
	CategoryExempt bool            `json:"vehiculo_categoria_m1l"`
	Client         *PartyPayload   `json:"destinatario"`
	Driver         *PartyPayload   `json:"conductor,omitempty"`
	Carrier        *PartyPayload   `json:"transportista,omitempty"`
	Vehicle        *VehiclePayload `json:"vehiculo,omitempty"`
	Origin         string          `json:"punto_partida"`
	Destination    string          `json:"punto_llegada"`
	Items          []ItemPayload   `json:"items"`
	TotalLines     int             `json:"total_items"`
	TotalWeight    decimal.Decimal `json:"peso_bruto_total_kg"`
}

// Assemble proyecta el borrador al payload de presentación.
//
// Si el borrador tiene violaciones devuelve la lista completa y ningún payload
// (nunca un payload parcial). En éxito aplica la semántica regulatoria de cada
// modalidad: con exención M1/L el conductor y el vehículo van omitidos aunque
// el borrador los conserve; en transporte privado el transportista no aplica;
// en transporte público conductor y vehículo viajan solo si fueron registrados.
func Assemble(d *entity.GuiaDraft, emitter Emitter) (*Payload, []Violation) {
	if violations := Validate(d); len(violations) > 0 {
		return nil, violations
	}

	p := &Payload{
		Emitter:        emitter,
		Mode:           d.Mode,
		CategoryExempt: d.CategoryExempt,
		Client:         partyPayload(d.Client),
		Origin:         d.OriginAddress,
		Destination:    d.DestAddress,
	}

	switch {
	case d.Mode == entity.ModePrivado && d.CategoryExempt:
		// Traslado en vehículo M1/L: sin identificación de vehículo ni conductor.
	case d.Mode == entity.ModePrivado:
		p.Driver = partyPayload(d.Driver)
		p.Vehicle = vehiclePayload(d.Vehicle)
	case d.Mode == entity.ModePublico:
		p.Carrier = partyPayload(d.Carrier)
		if d.Driver != nil && !d.Driver.Document.IsZero() {
			p.Driver = partyPayload(d.Driver)
		}
		if d.Vehicle != nil && d.Vehicle.Plate != "" {
			p.Vehicle = vehiclePayload(d.Vehicle)
		}
	}

	total := decimal.Zero
	for _, line := range d.CargoLines {
		p.Items = append(p.Items, ItemPayload{
			Description: line.Description,
			Quantity:    line.Quantity,
			Unit:        line.Unit,
			Weight:      line.Weight,
		})
		total = total.Add(line.Weight)
	}
	p.TotalLines = len(p.Items)
	p.TotalWeight = total

	return p, nil
}

func partyPayload(p *entity.Party) *PartyPayload {
	if p == nil {
		return nil
	}
	return &PartyPayload{
		DocKind:   string(p.Document.Kind),
		DocNumber: p.Document.Number,
		Name:      p.DisplayName,
		Address:   p.Address,
		License:   p.License,
	}
}

func vehiclePayload(v *entity.Vehicle) *VehiclePayload {
	if v == nil {
		return nil
	}
	return &VehiclePayload{Plate: v.Plate, Make: v.Make, Model: v.Model}
}
