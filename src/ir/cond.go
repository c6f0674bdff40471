// cond.go implements short-circuit Boolean lowering with the fall-through
// label convention. Grounded on the classic structure of the teacher's
// optimise.go recursive per-node dispatch, generalised to a dedicated
// translate_cond mode (spec §4.5, §9): the sentinel "fall" label is its own
// Label variant rather than a magic integer, per the design note that the
// fall-through label must be encoded as a dedicated variant.
package ir

import "cmmc/src/ast"

// Label is the destination of a conditional branch: either a real IR label
// id, or the Fall sentinel meaning "no branch needed, execution falls
// through to the successor instruction".
type Label struct {
	Fall bool
	ID   int
}

// FallLabel is the fall-through sentinel.
var FallLabel = Label{Fall: true}

// Real returns a non-fall label for id.
func Real(id int) Label {
	return Label{ID: id}
}

func invertRelop(op string) string {
	switch op {
	case "==":
		return "!="
	case "!=":
		return "=="
	case "<":
		return ">="
	case "<=":
		return ">"
	case ">":
		return "<="
	case ">=":
		return "<"
	default:
		return op
	}
}

func foldRelop(op string, a, b int) bool {
	switch op {
	case "==":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	default:
		return false
	}
}

// gotoLabel emits an unconditional jump to l unless l is the fall sentinel.
func (t *Translator) gotoLabel(l Label) {
	if l.Fall {
		return
	}
	t.emit(&Instr{Op: OpGoto, Label: l.ID})
}

// emitCondGoto emits "IF lhs relop rhs GOTO l" unless l is the fall sentinel.
func (t *Translator) emitCondGoto(relop string, lhs, rhs Operand, l Label) {
	if l.Fall {
		return
	}
	t.emit(&Instr{Op: OpCondGoto, Relop: relop, Lhs: lhs, Rhs: rhs, Label: l.ID})
}

// translateCond lowers a Boolean expression using the classic fall-through
// convention (spec §4.5): either label may be FallLabel, meaning "the
// successor is the next instruction — emit no branch to reach it".
func (t *Translator) translateCond(n *ast.Node, labelTrue, labelFalse Label) {
	switch n.Prod {
	case ast.ProdExpNot:
		t.translateCond(n.Children[0], labelFalse, labelTrue)
		return

	case ast.ProdExpAnd:
		a, b := n.Children[0], n.Children[1]
		if labelFalse.Fall {
			mid := t.labels.New()
			t.translateCond(a, FallLabel, Real(mid))
			t.translateCond(b, labelTrue, labelFalse)
			t.emit(&Instr{Op: OpLabel, Label: mid})
		} else {
			t.translateCond(a, FallLabel, labelFalse)
			t.translateCond(b, labelTrue, labelFalse)
		}
		return

	case ast.ProdExpOr:
		a, b := n.Children[0], n.Children[1]
		if labelTrue.Fall {
			mid := t.labels.New()
			t.translateCond(a, Real(mid), FallLabel)
			t.translateCond(b, labelTrue, labelFalse)
			t.emit(&Instr{Op: OpLabel, Label: mid})
		} else {
			t.translateCond(a, labelTrue, FallLabel)
			t.translateCond(b, labelTrue, labelFalse)
		}
		return

	case ast.ProdExpRelop:
		lhsNode, rhsNode := n.Children[0], n.Children[1]
		lhs := t.value(lhsNode)
		rhs := t.value(rhsNode)
		if lhs.IsConst() && rhs.IsConst() {
			if foldRelop(n.Relop, lhs.Val, rhs.Val) {
				t.gotoLabel(labelTrue)
			} else {
				t.gotoLabel(labelFalse)
			}
			return
		}
		switch {
		case !labelTrue.Fall && !labelFalse.Fall:
			t.emitCondGoto(n.Relop, lhs, rhs, labelTrue)
			t.gotoLabel(labelFalse)
		case !labelTrue.Fall:
			t.emitCondGoto(n.Relop, lhs, rhs, labelTrue)
		case !labelFalse.Fall:
			t.emitCondGoto(invertRelop(n.Relop), lhs, rhs, labelFalse)
		}
		return
	}

	// Any other shape: evaluate to an Operand and branch on non-zero-ness.
	op := t.value(n)
	if op.IsConst() {
		if op.Val != 0 {
			t.gotoLabel(labelTrue)
		} else {
			t.gotoLabel(labelFalse)
		}
		return
	}
	switch {
	case !labelTrue.Fall && !labelFalse.Fall:
		t.emitCondGoto("!=", op, NewConst(0), labelTrue)
		t.gotoLabel(labelFalse)
	case !labelTrue.Fall:
		t.emitCondGoto("!=", op, NewConst(0), labelTrue)
	case !labelFalse.Fall:
		t.emitCondGoto("==", op, NewConst(0), labelFalse)
	}
}
