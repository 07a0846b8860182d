// Package access implementa la resolución de permisos por bodega basada en
// grupos. Cada grupo de bodegas tiene una política de acceso fija que se
// traduce a una máscara de capacidades CRUD; el permiso efectivo de un
// usuario sobre una bodega es el MÍNIMO numérico de las máscaras de sus
// grupos coincidentes (la membresía más restrictiva gobierna).
package access

// Operation es una operación CRUD sobre una bodega.
type Operation uint8

// Operaciones CRUD en orden de bit (Create=bit0, Read=bit1, Update=bit2, Delete=bit3).
const (
	OpCreate Operation = iota
	OpRead
	OpUpdate
	OpDelete
)

// Bit devuelve la máscara de un solo bit de la operación.
func (o Operation) Bit() Capability {
	return Capability(1) << o
}

func (o Operation) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpRead:
		return "read"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// Capability es una máscara de 4 bits de capacidades CRUD.
type Capability uint8

// Máscaras por bit individual.
const (
	CapNone   Capability = 0
	CapCreate Capability = 1
	CapRead   Capability = 2
	CapUpdate Capability = 4
	CapDelete Capability = 8
	CapAll    Capability = 15
)

// Allows informa si la máscara incluye el bit de la operación.
func (c Capability) Allows(op Operation) bool {
	return c&op.Bit() != 0
}

// Policy es la política de acceso de un grupo de bodegas.
type Policy string

// Políticas válidas, de menor a mayor permiso.
const (
	PolicyDeny       Policy = "deny"
	PolicyView       Policy = "view"
	PolicyEdit       Policy = "edit"
	PolicyContribute Policy = "contribute"
	PolicyManage     Policy = "manage"
)

// policyMasks es la tabla ordenada fija política → máscara acumulativa.
// deny=0 < view=2 (R) < edit=6 (RU) < contribute=7 (CRU) < manage=15 (CRUD).
// Cada máscara es superconjunto de las inferiores salvo deny, que no otorga nada.
// La tabla no es configurable: mantenerla explícita hace evidente que una sola
// membresía deny fuerza la máscara efectiva a 0.
var policyMasks = map[Policy]Capability{
	PolicyDeny:       CapNone,
	PolicyView:       CapRead,
	PolicyEdit:       CapRead | CapUpdate,
	PolicyContribute: CapCreate | CapRead | CapUpdate,
	PolicyManage:     CapAll,
}

// Mask devuelve la máscara de la política. Una política desconocida se trata
// como deny: ante datos corruptos se niega, nunca se amplía.
func (p Policy) Mask() Capability {
	m, ok := policyMasks[p]
	if !ok {
		return CapNone
	}
	return m
}

// Valid informa si la política es una de las cinco conocidas.
func (p Policy) Valid() bool {
	_, ok := policyMasks[p]
	return ok
}

// EffectiveMask reduce las políticas de todos los grupos que relacionan a un
// usuario con una bodega a una sola máscara efectiva: el mínimo numérico.
// Sin membresías no hay relación con la bodega y todo queda denegado (0).
// Nótese que es un mínimo numérico, no un AND bit a bit entre grupos: la
// máscara de un grupo ya es un conjunto de capacidades completo.
func EffectiveMask(policies []Policy) Capability {
	if len(policies) == 0 {
		return CapNone
	}
	effective := policies[0].Mask()
	for _, p := range policies[1:] {
		if m := p.Mask(); m < effective {
			effective = m
		}
	}
	return effective
}
