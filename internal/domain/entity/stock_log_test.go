package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
)

// La tabla solicitud → (movimiento, signo) es fija: salidas y traslados
// descuentan, devoluciones suman. Cualquier cambio aquí es un cambio de
// contrato con el kardex.
func TestTablaDeDirecciones(t *testing.T) {
	cases := []struct {
		kind      string
		movement  string
		direction int64
	}{
		{entity.RequestStockOut, entity.MovementStockOut, -1},
		{entity.RequestTransfer, entity.MovementTransfer, -1},
		{entity.RequestReturnDefect, entity.MovementReturnDefect, +1},
		{entity.RequestReturnNormal, entity.MovementReturnNormal, +1},
	}
	for _, tc := range cases {
		movement, ok := entity.MovementForRequest(tc.kind)
		assert.True(t, ok, "tipo %q debe tener movimiento", tc.kind)
		assert.Equal(t, tc.movement, movement)

		direction, ok := entity.DirectionForRequest(tc.kind)
		assert.True(t, ok, "tipo %q debe tener dirección", tc.kind)
		assert.Equal(t, tc.direction, direction)
	}
}

func TestTipoDesconocidoNoTieneDireccion(t *testing.T) {
	_, ok := entity.DirectionForRequest("stock-in")
	assert.False(t, ok, "stock-in es un movimiento, no un tipo de solicitud")

	_, ok = entity.MovementForRequest("loan")
	assert.False(t, ok)

	assert.False(t, entity.ValidRequestKind(""))
	assert.True(t, entity.ValidRequestKind(entity.RequestTransfer))
}

func TestValidStockKind(t *testing.T) {
	assert.True(t, entity.ValidStockKind(entity.StockKindRegular))
	assert.True(t, entity.ValidStockKind(entity.StockKindPromotional))
	assert.False(t, entity.ValidStockKind("seasonal"))
	assert.False(t, entity.ValidStockKind(""))
}
