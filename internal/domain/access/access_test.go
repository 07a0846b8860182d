package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Bodegas-api/internal/domain/access"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de la tabla política → máscara
// ──────────────────────────────────────────────────────────────────────────────

func TestPolicyMask_TablaCompleta(t *testing.T) {
	cases := []struct {
		policy access.Policy
		mask   access.Capability
	}{
		{access.PolicyDeny, 0},
		{access.PolicyView, 2},
		{access.PolicyEdit, 6},
		{access.PolicyContribute, 7},
		{access.PolicyManage, 15},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.mask, tc.policy.Mask(),
			"la política %q debe mapear a la máscara %d", tc.policy, tc.mask)
	}
}

func TestPolicyMask_PoliticaDesconocidaEsDeny(t *testing.T) {
	// Una política corrupta o futura nunca debe conceder acceso.
	assert.Equal(t, access.CapNone, access.Policy("superuser").Mask())
	assert.Equal(t, access.CapNone, access.Policy("").Mask())
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de bits de capacidad
// ──────────────────────────────────────────────────────────────────────────────

func TestCapability_BitsIndividuales(t *testing.T) {
	assert.True(t, access.CapCreate.Allows(access.OpCreate))
	assert.True(t, access.CapRead.Allows(access.OpRead))
	assert.True(t, access.CapUpdate.Allows(access.OpUpdate))
	assert.True(t, access.CapDelete.Allows(access.OpDelete))

	assert.False(t, access.CapRead.Allows(access.OpCreate))
	assert.False(t, access.CapRead.Allows(access.OpUpdate))
	assert.False(t, access.CapRead.Allows(access.OpDelete))
}

func TestCapability_ManagePermiteTodo(t *testing.T) {
	for _, op := range []access.Operation{access.OpCreate, access.OpRead, access.OpUpdate, access.OpDelete} {
		assert.True(t, access.PolicyManage.Mask().Allows(op))
	}
}

func TestCapability_EditEsLecturaYActualizacion(t *testing.T) {
	mask := access.PolicyEdit.Mask()
	assert.True(t, mask.Allows(access.OpRead))
	assert.True(t, mask.Allows(access.OpUpdate))
	assert.False(t, mask.Allows(access.OpCreate), "edit no concede Create")
	assert.False(t, mask.Allows(access.OpDelete), "edit no concede Delete")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de la reducción por mínimo (la política más restrictiva gana)
// ──────────────────────────────────────────────────────────────────────────────

func TestEffectiveMask_SinPoliticasEsCero(t *testing.T) {
	// Usuario sin grupos que lo conecten con la bodega: todo denegado.
	assert.Equal(t, access.CapNone, access.EffectiveMask(nil))
	assert.Equal(t, access.CapNone, access.EffectiveMask([]access.Policy{}))
}

func TestEffectiveMask_UnaSolaPolitica(t *testing.T) {
	mask := access.EffectiveMask([]access.Policy{access.PolicyContribute})
	assert.Equal(t, access.Capability(7), mask)
}

func TestEffectiveMask_GanaLaMasRestrictiva(t *testing.T) {
	// manage (15) + view (2) → view gana por mínimo numérico.
	mask := access.EffectiveMask([]access.Policy{access.PolicyManage, access.PolicyView})
	assert.Equal(t, access.Capability(2), mask)

	// contribute (7) + edit (6) → edit.
	mask = access.EffectiveMask([]access.Policy{access.PolicyContribute, access.PolicyEdit})
	assert.Equal(t, access.Capability(6), mask)
}

func TestEffectiveMask_DenyAnulaTodo(t *testing.T) {
	// Un solo grupo con deny apaga el acceso aunque otro conceda manage.
	mask := access.EffectiveMask([]access.Policy{
		access.PolicyManage, access.PolicyDeny, access.PolicyContribute,
	})
	assert.Equal(t, access.CapNone, mask)
	for _, op := range []access.Operation{access.OpCreate, access.OpRead, access.OpUpdate, access.OpDelete} {
		assert.False(t, mask.Allows(op))
	}
}

func TestEffectiveMask_OrdenIrrelevante(t *testing.T) {
	a := access.EffectiveMask([]access.Policy{access.PolicyView, access.PolicyManage, access.PolicyEdit})
	b := access.EffectiveMask([]access.Policy{access.PolicyManage, access.PolicyEdit, access.PolicyView})
	assert.Equal(t, a, b, "la reducción por mínimo es conmutativa")
	assert.Equal(t, access.Capability(2), a)
}

func TestEffectiveMask_EsMonotona(t *testing.T) {
	// Agregar una política nunca puede aumentar la máscara efectiva.
	base := []access.Policy{access.PolicyContribute}
	for _, extra := range []access.Policy{
		access.PolicyDeny, access.PolicyView, access.PolicyEdit,
		access.PolicyContribute, access.PolicyManage,
	} {
		widened := access.EffectiveMask(append(base, extra))
		assert.LessOrEqual(t, uint8(widened), uint8(access.EffectiveMask(base)),
			"agregar %q no debe ampliar la máscara", extra)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de validación de políticas
// ──────────────────────────────────────────────────────────────────────────────

func TestPolicyValid(t *testing.T) {
	for _, p := range []access.Policy{
		access.PolicyDeny, access.PolicyView, access.PolicyEdit,
		access.PolicyContribute, access.PolicyManage,
	} {
		assert.True(t, p.Valid(), "%q es una política conocida", p)
	}
	assert.False(t, access.Policy("owner").Valid())
	assert.False(t, access.Policy("").Valid())
}
