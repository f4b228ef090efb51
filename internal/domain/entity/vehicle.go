package entity

import "time"

// Vehicle representa un vehículo de transporte. La placa es la clave natural.
type Vehicle struct {
	ID        string
	CompanyID string
	Plate     string
	Make      string
	Model     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
