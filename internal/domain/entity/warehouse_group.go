package entity

import (
	"time"

	"github.com/jhoicas/Bodegas-api/internal/domain/access"
)

// WarehouseGroup agrupa bodegas bajo una única política de acceso.
// Un usuario administra las bodegas de un grupo con la capacidad que la
// política del grupo otorga; ver access.EffectiveMask para la reducción.
type WarehouseGroup struct {
	ID           string
	CompanyID    string
	Name         string
	AccessPolicy access.Policy
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WarehouseGroupMembership es la arista muchos-a-muchos Bodega ↔ Grupo.
type WarehouseGroupMembership struct {
	GroupID     string
	WarehouseID string
	CreatedAt   time.Time
}

// StoreAdminAssignment es la arista muchos-a-muchos Usuario ↔ Grupo
// (quién administra qué grupos).
type StoreAdminAssignment struct {
	GroupID   string
	UserID    string
	CreatedAt time.Time
}
