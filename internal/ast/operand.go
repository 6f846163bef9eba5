// Package ast defines the tagged operand encoding, the node arena, the
// program representation, and the range-table structure shared by the
// interpreter and the JIT back-end.
package ast

// Kind differentiates the three flavours of Operand.
type Kind int

const (
	// KindNode marks an Operand that refers to a Node in the Arena.
	KindNode Kind = iota
	// KindLiteral marks an Operand holding a signed 16-bit constant.
	KindLiteral
	// KindRegister marks an Operand referring to a register slot.
	KindRegister
)

// Register slot indices. 0..9 are local (per-cell, reset to zero on cell
// entry), 10..19 are global (per-step, reset to zero on step entry, carried
// across cells), 21 is the current cell value v. 20 and indices above 21 are
// undefined: reads yield -1, writes are no-ops.
const (
	RegA0 = 0
	RegG0 = 10
	RegV  = 21

	// undefinedLo and undefinedHi bound the gap and overflow of the
	// register space that carries no storage.
	undefinedLo = 20
	undefinedHi = 21
)

// Operand is a small tagged handle: either a reference to a Node in an
// Arena, a signed 16-bit literal, or a register index. This is an explicit
// tagged sum in place of the original's pointer-tagged word, which let a
// native pointer and a small integer share one field and rely on alignment
// to tell them apart.
type Operand struct {
	Kind Kind
	Node NodeID // valid when Kind == KindNode
	Lit  int16  // valid when Kind == KindLiteral
	Reg  uint8  // valid when Kind == KindRegister
}

// NodeOperand wraps a NodeID as an Operand.
func NodeOperand(id NodeID) Operand {
	return Operand{Kind: KindNode, Node: id}
}

// Literal builds a literal Operand.
func Literal(v int16) Operand {
	return Operand{Kind: KindLiteral, Lit: v}
}

// Register builds a register Operand from a local index 0..9.
func Register(idx int) Operand {
	return Operand{Kind: KindRegister, Reg: uint8(RegA0 + idx)}
}

// Global builds a register Operand from a global index 0..9.
func Global(idx int) Operand {
	return Operand{Kind: KindRegister, Reg: uint8(RegG0 + idx)}
}

// V is the Operand referring to the current cell value.
var V = Operand{Kind: KindRegister, Reg: uint8(RegV)}

// IsRegister reports whether op decodes as a register reference, as
// required of slot 0 of every binary op.
func (op Operand) IsRegister() bool {
	return op.Kind == KindRegister
}

// RegisterClass describes which register bank a register Operand refers to.
type RegisterClass int

const (
	// RegLocal is a0..a9.
	RegLocal RegisterClass = iota
	// RegGlobal is g0..g9.
	RegGlobal
	// RegCurrent is v.
	RegCurrent
	// RegUndefined is index 20 or any index above 21.
	RegUndefined
)

// Classify decodes a register Operand's index into its bank and, for
// RegLocal/RegGlobal, the 0-based slot within that bank.
func (op Operand) Classify() (class RegisterClass, slot int) {
	r := int(op.Reg)
	switch {
	case r < RegG0:
		return RegLocal, r
	case r < undefinedLo:
		return RegGlobal, r - RegG0
	case r == RegV:
		return RegCurrent, 0
	default:
		return RegUndefined, 0
	}
}
