// translate.go is the IR translator: it walks an already-typed syntax tree
// (decorated by ast.Analyser) and lowers it to the Instr/Stream model in
// this package. Grounded on the teacher's optimise.go (a recursive,
// per-node-kind dispatch function with a constantFolding helper) and on
// nodetype.go's exhaustive switch-over-kind style, generalised from the
// teacher's constant-folding-only pass to a full tree-to-IR lowering:
// address synthesis for arrays/structs, short-circuit condition lowering
// (cond.go), the assignment-into-target optimisation, and built-in read/
// write call lowering (spec §4.5).
package ir

import (
	"cmmc/src/ast"
	"cmmc/src/util"
)

// Translator lowers a checked syntax tree into an IR Stream.
type Translator struct {
	Stream Stream

	ids    *util.IDAllocator
	labels *util.Labeler
	errs   util.ErrorList // sticky Assumption-1 (float literal) violations.
}

// NewTranslator returns a Translator drawing variable ids from ids (shared
// with the symbol table, per spec §3) and label ids from labels.
func NewTranslator(ids *util.IDAllocator, labels *util.Labeler) *Translator {
	return &Translator{ids: ids, labels: labels}
}

// fatalError panics with a translation-terminating error (divide by a
// constant zero is the only one, per spec §5/§7); Translate recovers it.
type fatalError struct{ err error }

func (t *Translator) die(line int, format string, args ...interface{}) {
	panic(fatalError{ast.NewTranslationError(line, format, args...)})
}

func (t *Translator) emit(i *Instr) {
	t.Stream.Append(i)
}

func (t *Translator) freshVar() Operand {
	return NewVar(t.ids.Alloc(), true)
}

func (t *Translator) freshAddr() Operand {
	return NewAddr(t.ids.Alloc(), true)
}

// Errors returns every sticky Assumption-1 diagnostic recorded during
// translation.
func (t *Translator) Errors() []error {
	return t.errs.Errors()
}

// Translate lowers root (an ExtDefList) into t.Stream. It returns the
// fatal translation error (divide by constant zero), if one was hit; sticky
// diagnostics are available afterwards via Errors.
func (t *Translator) Translate(root *ast.Node) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if fe, ok := r.(fatalError); ok {
				err = fe.err
				return
			}
			panic(r)
		}
	}()
	for _, extDef := range root.Children {
		if extDef.Prod == ast.ProdExtDefFunc {
			t.translateFunDef(extDef)
		}
	}
	return nil
}

func (t *Translator) translateFunDef(n *ast.Node) {
	funDec := n.Children[1]
	compSt := n.Children[2]
	name := funDec.Children[0].ID

	t.emit(&Instr{Op: OpFuncDef, Func: name})

	if len(funDec.Children) > 1 {
		for _, paramDec := range funDec.Children[1].Children {
			sym := paramDec.Entry
			if sym == nil {
				continue
			}
			t.emit(&Instr{Op: OpParam, Target: NewVar(sym.ID, false)})
		}
	}

	t.translateCompSt(compSt)
}

func (t *Translator) translateCompSt(n *ast.Node) {
	defList := n.Children[0]
	stmtList := n.Children[1]

	for _, def := range defList.Children {
		decList := def.Children[1]
		for _, dec := range decList.Children {
			sym := dec.Entry
			if sym == nil {
				continue
			}
			t.emit(&Instr{Op: OpDec, Target: NewVar(sym.ID, false), Size: sym.Typ.Width()})
			if len(dec.Children) > 1 && sym.Typ.IsBasic() {
				target := NewVar(sym.ID, false)
				t.translateInto(dec.Children[1], &target)
			}
		}
	}

	for _, stmt := range stmtList.Children {
		t.translateStmt(stmt)
	}
}

func (t *Translator) translateStmt(n *ast.Node) {
	switch n.Prod {
	case ast.ProdStmtExp:
		t.translateExpr(n.Children[0])

	case ast.ProdStmtComp:
		t.translateCompSt(n.Children[0])

	case ast.ProdStmtReturn:
		op := t.value(n.Children[0])
		t.emit(&Instr{Op: OpReturn, Target: op})

	case ast.ProdStmtIf:
		lfalse := t.labels.New()
		t.translateCond(n.Children[0], FallLabel, Real(lfalse))
		t.translateStmt(n.Children[1])
		t.emit(&Instr{Op: OpLabel, Label: lfalse})

	case ast.ProdStmtIfElse:
		lfalse := t.labels.New()
		lexit := t.labels.New()
		t.translateCond(n.Children[0], FallLabel, Real(lfalse))
		t.translateStmt(n.Children[1])
		t.emit(&Instr{Op: OpGoto, Label: lexit})
		t.emit(&Instr{Op: OpLabel, Label: lfalse})
		t.translateStmt(n.Children[2])
		t.emit(&Instr{Op: OpLabel, Label: lexit})

	case ast.ProdStmtWhile:
		lbegin := t.labels.New()
		lexit := t.labels.New()
		t.emit(&Instr{Op: OpLabel, Label: lbegin})
		t.translateCond(n.Children[0], FallLabel, Real(lexit))
		t.translateStmt(n.Children[1])
		t.emit(&Instr{Op: OpGoto, Label: lbegin})
		t.emit(&Instr{Op: OpLabel, Label: lexit})
	}
}

// value evaluates n and returns its Operand as a usable value: a complex
// l-value (array element or struct field) with Basic static type has an
// implicit Deref inserted, per the try_deref helper of spec §4.5.
func (t *Translator) value(n *ast.Node) Operand {
	op := t.translateExpr(n)
	if n.Typ != nil && n.Typ.IsBasic() && op.Kind == KindAddr {
		target := t.freshVar()
		t.emit(&Instr{Op: OpDeref, Target: target, Rhs: op})
		return target
	}
	return op
}

// translateExpr evaluates n with no assignment-target optimisation.
func (t *Translator) translateExpr(n *ast.Node) Operand {
	return t.translateInto(n, nil)
}

// translateInto evaluates n, writing arithmetic/Boolean/call/negation
// results directly into *target when target is non-nil (the
// assignment-into-target optimisation, spec §4.5, attempted only for a
// plain Var left-hand side per Open Question (c)).
func (t *Translator) translateInto(n *ast.Node, target *Operand) Operand {
	switch n.Prod {
	case ast.ProdExpInt:
		return t.finish(NewConst(n.IVal), target)

	case ast.ProdExpFloat:
		t.errs.Append(ast.NewTranslationError(n.Line, "Assumption 1 violated - Floats are not allowed"))
		return t.finish(NewConst(0), target)

	case ast.ProdExpIdent:
		return t.finish(t.translateIdent(n), target)

	case ast.ProdExpAssign:
		return t.translateAssign(n)

	case ast.ProdExpAdd, ast.ProdExpSub, ast.ProdExpMul, ast.ProdExpDiv:
		return t.translateArith(n, target)

	case ast.ProdExpNeg:
		return t.translateNeg(n, target)

	case ast.ProdExpNot, ast.ProdExpAnd, ast.ProdExpOr, ast.ProdExpRelop:
		return t.translateBoolValue(n, target)

	case ast.ProdExpCall:
		return t.translateCall(n, target)

	case ast.ProdExpIndex, ast.ProdExpDot:
		return t.translateAddress(n)
	}
	return NewConst(0)
}

// finish applies the target optimisation to an already-computed simple
// operand (constants and plain variable reads): if a target was requested,
// the value is copied in with one Assign and the target is returned.
func (t *Translator) finish(op Operand, target *Operand) Operand {
	if target == nil {
		return op
	}
	t.emit(&Instr{Op: OpAssign, Target: *target, Rhs: op})
	return *target
}

// translateIdent returns the Operand a bare identifier use evaluates to,
// per spec §4.5: a Basic-typed variable is its Var directly; an
// Array/Struct-typed parameter is its Addr directly (arrays/structs are
// passed by address); a local of Array/Struct type needs its address taken
// explicitly via Ref.
func (t *Translator) translateIdent(n *ast.Node) Operand {
	sym := n.Entry
	if sym.Typ.IsBasic() {
		return NewVar(sym.ID, false)
	}
	if sym.IsParam {
		return NewAddr(sym.ID, false)
	}
	addr := t.freshAddr()
	t.emit(&Instr{Op: OpRef, Target: addr, Rhs: NewVar(sym.ID, false)})
	return addr
}

func (t *Translator) translateAssign(n *ast.Node) Operand {
	lhs, rhs := n.Children[0], n.Children[1]

	if lhs.Prod == ast.ProdExpIdent && lhs.Typ.IsBasic() {
		target := NewVar(lhs.Entry.ID, false)
		return t.translateInto(rhs, &target)
	}

	addr := t.translateAddress(lhs)
	rhsOp := t.value(rhs)
	t.emit(&Instr{Op: OpDerefAssign, Target: addr, Rhs: rhsOp})
	return rhsOp
}

// translateArith lowers +, -, *, / with constant folding; division by a
// constant zero is the sole fatal translation error (spec §4.5/§5).
func (t *Translator) translateArith(n *ast.Node, target *Operand) Operand {
	op := arithOpString(n.Prod)
	lhs := t.value(n.Children[0])
	rhs := t.value(n.Children[1])

	if lhs.IsConst() && rhs.IsConst() {
		if op == "/" && rhs.Val == 0 {
			t.die(n.Line, "Division by zero")
		}
		return t.finish(NewConst(foldArith(op, lhs.Val, rhs.Val)), target)
	}
	if op == "/" && rhs.IsConst() && rhs.Val == 0 {
		t.die(n.Line, "Division by zero")
	}

	dst := t.destFor(target)
	t.emit(&Instr{Op: OpArithBop, Target: dst, Lhs: lhs, ArithOp: op, Rhs: rhs})
	return dst
}

// translateNeg lowers unary minus as "0 - e": the IR opcode set has no
// dedicated unary-negate instruction (spec §3's ArithBop is always binary).
func (t *Translator) translateNeg(n *ast.Node, target *Operand) Operand {
	operand := t.value(n.Children[0])
	if operand.IsConst() {
		return t.finish(NewConst(-operand.Val), target)
	}
	dst := t.destFor(target)
	t.emit(&Instr{Op: OpArithBop, Target: dst, Lhs: NewConst(0), ArithOp: "-", Rhs: operand})
	return dst
}

func (t *Translator) destFor(target *Operand) Operand {
	if target != nil {
		return *target
	}
	return t.freshVar()
}

func arithOpString(prod ast.Prod) string {
	switch prod {
	case ast.ProdExpAdd:
		return "+"
	case ast.ProdExpSub:
		return "-"
	case ast.ProdExpMul:
		return "*"
	case ast.ProdExpDiv:
		return "/"
	}
	return "?"
}

func foldArith(op string, a, b int) int {
	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	case "/":
		return a / b
	}
	return 0
}

// translateBoolValue materialises a Boolean expression used in a value
// context (assigned to an int, passed as an argument, etc.) by lowering it
// through translateCond and writing 1 or 0 into the destination.
func (t *Translator) translateBoolValue(n *ast.Node, target *Operand) Operand {
	dst := t.destFor(target)
	ltrue := t.labels.New()
	lfalse := t.labels.New()
	lend := t.labels.New()
	t.translateCond(n, Real(ltrue), Real(lfalse))
	t.emit(&Instr{Op: OpLabel, Label: ltrue})
	t.emit(&Instr{Op: OpAssign, Target: dst, Rhs: NewConst(1)})
	t.emit(&Instr{Op: OpGoto, Label: lend})
	t.emit(&Instr{Op: OpLabel, Label: lfalse})
	t.emit(&Instr{Op: OpAssign, Target: dst, Rhs: NewConst(0)})
	t.emit(&Instr{Op: OpLabel, Label: lend})
	return dst
}

// translateCall lowers a call. read/write are the two built-ins injected
// into the symbol table at analysis init and lower to their dedicated
// instructions instead of a generic Call (spec §4.5).
func (t *Translator) translateCall(n *ast.Node, target *Operand) Operand {
	name := n.Children[0].ID

	var argNodes []*ast.Node
	if len(n.Children) > 1 {
		argNodes = n.Children[1].Children
	}

	switch name {
	case "read":
		dst := t.destFor(target)
		t.emit(&Instr{Op: OpRead, Target: dst})
		return dst
	case "write":
		argOp := t.value(argNodes[0])
		t.emit(&Instr{Op: OpWrite, Target: argOp})
		return t.finish(NewConst(0), target)
	}

	for _, a := range argNodes {
		t.emit(&Instr{Op: OpArg, Target: t.value(a)})
	}
	dst := t.destFor(target)
	t.emit(&Instr{Op: OpCall, Target: dst, Func: name})
	return dst
}

// translateAddress computes the address Operand denoted by a complex
// l-value (array index or struct field access), applying the constant-
// offset fast paths of spec §4.5: index 0 and field offset 0 both return
// the base address unchanged.
func (t *Translator) translateAddress(n *ast.Node) Operand {
	switch n.Prod {
	case ast.ProdExpIndex:
		base := n.Children[0]
		idx := n.Children[1]
		baseAddr := t.addressOf(base)
		elemWidth := n.Typ.Width()

		if k, ok := constIndex(idx); ok {
			if k == 0 {
				return baseAddr
			}
			dst := t.freshAddr()
			t.emit(&Instr{Op: OpArithBop, Target: dst, Lhs: baseAddr, ArithOp: "+", Rhs: NewConst(k * elemWidth)})
			return dst
		}

		idxOp := t.value(idx)
		mul := t.freshVar()
		t.emit(&Instr{Op: OpArithBop, Target: mul, Lhs: idxOp, ArithOp: "*", Rhs: NewConst(elemWidth)})
		dst := t.freshAddr()
		t.emit(&Instr{Op: OpArithBop, Target: dst, Lhs: baseAddr, ArithOp: "+", Rhs: mul})
		return dst

	case ast.ProdExpDot:
		base := n.Children[0]
		fieldName := n.Children[1].ID
		baseAddr := t.addressOf(base)
		offset, _ := base.Typ.Offset(fieldName)
		if offset == 0 {
			return baseAddr
		}
		dst := t.freshAddr()
		t.emit(&Instr{Op: OpArithBop, Target: dst, Lhs: baseAddr, ArithOp: "+", Rhs: NewConst(offset)})
		return dst
	}

	// A plain identifier used as a base: its Array/Struct address.
	return t.translateIdent(n)
}

// addressOf returns the address of a sub-expression used as the base of an
// index or field access: either the identifier's own address operand, or a
// recursive address computation for a chained a[i].f or s.f[i] base.
func (t *Translator) addressOf(n *ast.Node) Operand {
	switch n.Prod {
	case ast.ProdExpIndex, ast.ProdExpDot:
		return t.translateAddress(n)
	default:
		return t.translateIdent(n)
	}
}

// constIndex reports whether idx is a literal integer, returning its value.
// Only the literal case gets the spec's constant-offset fast path; a
// constant-foldable but non-literal expression (e.g. "1+1") still goes
// through the general multiply-and-add path.
func constIndex(idx *ast.Node) (int, bool) {
	if idx.Prod == ast.ProdExpInt {
		return idx.IVal, true
	}
	return 0, false
}
