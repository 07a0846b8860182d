package entity

import "time"

// Vehicle representa un vehículo de reparto; las solicitudes de traslado
// pueden referenciarlo como destino de la parada.
type Vehicle struct {
	ID         string
	CompanyID  string
	Plate      string // placa, única por empresa
	Model      string
	DriverName string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
