// operand.go defines Operand, the tagged three-variant value every
// Intercode instruction operates on. Grounded on the teacher's handling of
// leaf node data in ir/nodetype.go (a single struct carrying only the
// fields relevant to its tag), generalised here from node payload data to
// the translator's Var/Addr/Const operand lattice (spec §3).
package ir

import "fmt"

// Kind discriminates the Operand union.
type Kind int

const (
	KindVar Kind = iota
	KindAddr
	KindConst
)

// Operand is a three-address-code value: a named variable, the address of
// one, or an integer constant.
type Operand struct {
	Kind   Kind
	ID     int  // KindVar, KindAddr: the variable id.
	IsTemp bool // KindVar, KindAddr: true for translator-introduced temporaries.
	Val    int  // KindConst.
}

// NewVar returns a Var operand for symbol/variable id.
func NewVar(id int, isTemp bool) Operand {
	return Operand{Kind: KindVar, ID: id, IsTemp: isTemp}
}

// NewAddr returns an Addr operand for symbol/variable id.
func NewAddr(id int, isTemp bool) Operand {
	return Operand{Kind: KindAddr, ID: id, IsTemp: isTemp}
}

// NewConst returns a Const operand holding val.
func NewConst(val int) Operand {
	return Operand{Kind: KindConst, Val: val}
}

// IsConst reports whether op is a Const operand.
func (op Operand) IsConst() bool {
	return op.Kind == KindConst
}

// Equal implements the operand equality spec (§3): Var/Addr operands are
// equal iff their ids match, Var and Addr compare equal to each other on id
// match (the register allocator relies on this to identify a physical
// location regardless of whether it was reached via a Var or Addr operand),
// and Const operands are equal iff their values match. Any other
// cross-kind pairing is unequal.
func (op Operand) Equal(other Operand) bool {
	switch op.Kind {
	case KindVar, KindAddr:
		return (other.Kind == KindVar || other.Kind == KindAddr) && op.ID == other.ID
	case KindConst:
		return other.Kind == KindConst && op.Val == other.Val
	}
	return false
}

// String renders op in the external IR text spelling: v{id} for named
// variables, t{id} for temporaries, #k for constants. Address operands
// print identically to variable operands; the opcode carries the
// distinction (spec §6).
func (op Operand) String() string {
	switch op.Kind {
	case KindVar, KindAddr:
		if op.IsTemp {
			return fmt.Sprintf("t%d", op.ID)
		}
		return fmt.Sprintf("v%d", op.ID)
	case KindConst:
		return fmt.Sprintf("#%d", op.Val)
	default:
		return "?"
	}
}
