// analyse.go is the semantic analyser: a recursive tree walk that populates
// the structure registry and symbol table and decorates every Exp node with
// a Type and l-value flag. Grounded on the teacher's validate.go dispatch
// shape (lutExp/lutAssign lookup tables keyed by node kind, a top-level
// validate function recursing into validateExpr/validateRel/validateAssign),
// but made single-threaded (no sync.WaitGroup fan-out: spec §5 requires the
// three stages to run synchronously) and generalised from the teacher's
// two-type VSL checker to cmmc's full basic/array/struct/func lattice and its
// 19-kind error catalogue.
package ast

import "cmmc/src/util"

// defContext selects how analyseDefList treats a T x = e; initialiser,
// matching spec §4.4's STRUCT_DEF vs. VAR_DEF split.
type defContext int

const (
	ctxVarDef defContext = iota
	ctxStructDef
)

// Analyser walks a syntax tree, producing a SymTab, a StructRegistry and a
// sticky list of SemanticErrors. One Analyser serves one translation unit.
type Analyser struct {
	Structs *StructRegistry
	Syms    *SymTab
	Errs    util.ErrorList

	curFunc *Type // Func type of the function currently being analysed, nil at global scope.
}

// NewAnalyser returns an Analyser ready to walk a fresh program, drawing
// symbol ids from ids (shared with the IR translator's variable numbering).
// The read/write built-ins are registered as already-defined functions up
// front so calls to them type-check during analysis, not just during IR
// translation (spec §4.5 calls this "translator init", but the built-ins
// must already be visible to the name resolver that runs before the
// translator does).
func NewAnalyser(ids *util.IDAllocator) *Analyser {
	a := &Analyser{
		Structs: NewStructRegistry(),
		Syms:    NewSymTab(ids),
	}
	a.registerBuiltins()
	return a
}

func (a *Analyser) registerBuiltins() {
	read := a.Syms.Add("read", NewFunc(TypeInt, nil), 0)
	read.IsFunc, read.Defined = true, true
	write := a.Syms.Add("write", NewFunc(TypeInt, []*Type{TypeInt}), 0)
	write.IsFunc, write.Defined = true, true
}

func (a *Analyser) errorf(kind Kind, line int, format string, args ...interface{}) {
	a.Errs.Append(Newf(kind, line, format, args...))
}

// Analyse walks the whole program (an ExtDefList rooted at root) and, after
// the walk, reports every function symbol that was declared but never
// defined (error 18).
func (a *Analyser) Analyse(root *Node) {
	a.analyseExtDefList(root)
	for _, sym := range a.Syms.Global() {
		if sym.IsFunc && !sym.Defined {
			a.errorf(ErrFunctionNeverDefined, sym.Line, "Undefined function %q", sym.Name)
		}
	}
	// The error-18 pass above appends diagnostics by declaration line after
	// the main walk has already finished, which can run behind errors the
	// walk raised later in the file; re-sort so output stays line-ordered
	// (spec §7) regardless of which pass raised which diagnostic.
	a.Errs.SortByKey(func(x, y error) bool {
		return x.(*SemanticError).Line < y.(*SemanticError).Line
	})
}

func (a *Analyser) analyseExtDefList(n *Node) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		a.analyseExtDef(c)
	}
}

func (a *Analyser) analyseExtDef(n *Node) {
	specType := a.analyseSpecifier(n.Children[0])
	switch n.Prod {
	case ProdExtDefType:
		// Specifier SEMI: a bare struct definition at file scope. Nothing
		// further to check; the Specifier walk above already registered it.

	case ProdExtDefVars:
		// Specifier ExtDecList SEMI: global variable declarations, forbidden
		// outright (Assumption 4).
		a.errorf(ErrAssumption, n.Line, "Assumption 4 violated - Global variables are not allowed")

	case ProdExtDefFunc:
		a.analyseFunDef(specType, n.Children[1], n.Children[2])

	case ProdExtDefDecl:
		a.analyseFunDecl(specType, n.Children[1])
	}
}

// analyseSpecifier returns the Type named by a Specifier node: either a
// TYPE terminal (int/float) or a nested StructSpecifier.
func (a *Analyser) analyseSpecifier(n *Node) *Type {
	if n.Kind == KindType {
		switch n.TypeID {
		case "int":
			return TypeInt
		case "float":
			return TypeFloat
		default:
			return TypeError
		}
	}
	return a.analyseStructSpecifier(n.Children[0])
}

// analyseStructSpecifier implements the three shapes of spec §4.4: named
// with body, tag only, and anonymous with body.
func (a *Analyser) analyseStructSpecifier(n *Node) *Type {
	switch n.Prod {
	case ProdStructRef:
		tag := n.Children[0]
		t, ok := a.Structs.Find(tag.ID)
		if !ok {
			a.errorf(ErrUndefinedStruct, tag.Line, "Undefined structure %q", tag.ID)
			return TypeError
		}
		return t

	case ProdStructNamed:
		tag := n.Children[0]
		fields := a.analyseDefList(n.Children[1], ctxStructDef)
		t := NewStruct(tag.ID, fields)
		if !a.Structs.Add(tag.ID, t) {
			a.errorf(ErrDuplicateStructName, tag.Line, "Duplicated name %q", tag.ID)
		}
		return t

	case ProdStructAnonymous:
		fields := a.analyseDefList(n.Children[0], ctxStructDef)
		return NewStruct("", fields)
	}
	return TypeError
}

// analyseDefList walks a DefList. In ctxStructDef it returns the accumulated
// field list (and never touches the symbol table); in ctxVarDef it declares
// each Dec into the current innermost scope and returns nil.
func (a *Analyser) analyseDefList(n *Node, ctx defContext) []*Field {
	var fields []*Field
	if n == nil {
		return fields
	}
	for _, def := range n.Children {
		specType := a.analyseSpecifier(def.Children[0])
		decList := def.Children[1]
		for _, dec := range decList.Children {
			if f := a.analyseDec(dec, specType, ctx, fields); f != nil {
				fields = append(fields, f)
			}
		}
	}
	return fields
}

// analyseDec handles one VarDec or "VarDec ASSIGNOP Exp" Dec node. In
// ctxStructDef, seen holds every field accumulated by the enclosing DefList
// so far, for the same-group duplicate check (error 15); it returns the new
// field to append, or nil if none (ctxVarDef, or a rejected duplicate).
func (a *Analyser) analyseDec(n *Node, specType *Type, ctx defContext, seen []*Field) *Field {
	varDec := n.Children[0]
	name, typ, line := a.analyseVarDec(varDec, specType)

	hasInit := len(n.Children) > 1

	switch ctx {
	case ctxStructDef:
		if hasInit {
			a.errorf(ErrRedefinedField, line, "Field %q assigned during definition", name)
		}
		for _, f := range seen {
			if f.Name == name {
				a.errorf(ErrRedefinedField, line, "Redefined field %q", name)
				return nil
			}
		}
		return &Field{Name: name, Typ: typ}

	case ctxVarDef:
		if _, ok := a.Structs.Find(name); ok {
			a.errorf(ErrRedefinedVar, line, "Redefined name %q", name)
		} else if _, ok := a.Syms.FindInTop(name); ok {
			a.errorf(ErrRedefinedVar, line, "Redefined variable %q", name)
		} else {
			n.Entry = a.Syms.Add(name, typ, line)
		}
		if hasInit {
			rhsType, _ := a.analyseExp(n.Children[1])
			if !typ.Equal(rhsType) {
				a.errorf(ErrAssignTypeMismatch, line, "Type mismatched for assignment")
			}
		}
		return nil
	}
	return nil
}

// analyseVarDec unwraps array dimensions right to left: T id[n1][n2] yields
// Array{length=n1, element=Array{length=n2, element=T}} (spec §4.4).
func (a *Analyser) analyseVarDec(n *Node, base *Type) (name string, typ *Type, line int) {
	if n.Kind == KindIdent {
		return n.ID, base, n.Line
	}
	// ProdNone VarDec node: VarDec LB INT RB, nested. The outermost node
	// carries the last dimension, so it wraps base first.
	inner := n.Children[0]
	idx := n.Children[1]
	return a.analyseVarDec(inner, NewArray(base, idx.IVal))
}

// analyseFunDec builds the Func type and returns the parameter list (name,
// type, line and ParamDec node of each) that analyseFunDef declares into the
// function's new scope, per spec §4.4.
func (a *Analyser) analyseFunDec(n *Node, ret *Type) (name string, line int, fn *Type, params []*paramInfo) {
	id := n.Children[0]
	name, line = id.ID, id.Line
	if len(n.Children) > 1 {
		params = a.analyseVarList(n.Children[1])
	}
	ptypes := make([]*Type, len(params))
	for i, p := range params {
		ptypes[i] = p.typ
	}
	fn = NewFunc(ret, ptypes)
	return
}

type paramInfo struct {
	name string
	typ  *Type
	line int
	node *Node // the ParamDec node, decorated with Entry once declared (translator reads this for PARAM emission order).
}

func (a *Analyser) analyseVarList(n *Node) []*paramInfo {
	var out []*paramInfo
	for _, pd := range n.Children {
		specType := a.analyseSpecifier(pd.Children[0])
		name, typ, line := a.analyseVarDec(pd.Children[1], specType)
		out = append(out, &paramInfo{name: name, typ: typ, line: line, node: pd})
	}
	return out
}

// analyseFunDef handles "Specifier FunDec CompSt": the combined declare+
// define path, implementing the name-collision precedence table (spec
// §4.4): redefinition (4) and inconsistent-signature (19) both key off a
// prior declaration of the same name.
func (a *Analyser) analyseFunDef(ret *Type, funDec, compSt *Node) {
	name, line, fnType, params := a.analyseFunDec(funDec, ret)

	sym, exists := a.Syms.FindInTop(name)
	switch {
	case !exists:
		sym = a.Syms.Add(name, fnType, line)
		sym.IsFunc = true
	case !sym.IsFunc:
		a.errorf(ErrRedefinedVar, line, "Redefined name %q", name)
	case sym.Defined:
		a.errorf(ErrRedefinedFunc, line, "Redefined function %q", name)
	case !sym.Typ.Equal(fnType):
		a.errorf(ErrInconsistentSig, line, "Inconsistent declaration of function %q", name)
	}
	if sym != nil && sym.IsFunc {
		sym.Defined = true
	}

	prevFunc := a.curFunc
	a.curFunc = fnType
	a.Syms.PushEnv()
	seen := make(map[string]bool)
	for _, p := range params {
		if seen[p.name] {
			a.errorf(ErrRedefinedField, p.line, "Redefined parameter %q", p.name)
			continue
		}
		seen[p.name] = true
		sym := a.Syms.Add(p.name, p.typ, p.line)
		sym.IsParam = true
		p.node.Entry = sym
	}
	a.analyseCompSt(compSt)
	a.Syms.PopEnv()
	a.curFunc = prevFunc
}

// analyseFunDecl handles a bare function declaration "Specifier FunDec SEMI".
// The parser builds a prototype as a ProdExtDefDecl ExtDef node (Specifier
// and FunDec, no CompSt), and analyseExtDef dispatches that production here.
func (a *Analyser) analyseFunDecl(ret *Type, funDec *Node) {
	name, line, fnType, _ := a.analyseFunDec(funDec, ret)
	sym, exists := a.Syms.FindInTop(name)
	if !exists {
		sym = a.Syms.Add(name, fnType, line)
		sym.IsFunc = true
		return
	}
	if !sym.IsFunc {
		a.errorf(ErrRedefinedVar, line, "Redefined name %q", name)
		return
	}
	if !sym.Typ.Equal(fnType) {
		a.errorf(ErrInconsistentSig, line, "Inconsistent declaration of function %q", name)
	}
}

func (a *Analyser) analyseCompSt(n *Node) {
	a.Syms.PushEnv()
	a.analyseDefList(n.Children[0], ctxVarDef)
	a.analyseStmtList(n.Children[1])
	a.Syms.PopEnv()
}

func (a *Analyser) analyseStmtList(n *Node) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		a.analyseStmt(c)
	}
}

func (a *Analyser) analyseStmt(n *Node) {
	switch n.Prod {
	case ProdStmtExp:
		a.analyseExp(n.Children[0])

	case ProdStmtComp:
		a.analyseCompSt(n.Children[0])

	case ProdStmtReturn:
		t, _ := a.analyseExp(n.Children[0])
		if a.curFunc != nil && !t.IsError() && !t.Equal(a.curFunc.Ret) {
			a.errorf(ErrReturnTypeMismatch, n.Line, "Type mismatched for return")
		}

	case ProdStmtIf:
		a.analyseCond(n.Children[0])
		a.analyseStmt(n.Children[1])

	case ProdStmtIfElse:
		a.analyseCond(n.Children[0])
		a.analyseStmt(n.Children[1])
		a.analyseStmt(n.Children[2])

	case ProdStmtWhile:
		a.analyseCond(n.Children[0])
		a.analyseStmt(n.Children[1])
	}
}

// analyseCond checks an if/while condition is integer typed (Assumption 2).
func (a *Analyser) analyseCond(n *Node) {
	t, _ := a.analyseExp(n)
	if !t.IsError() && !(t.Kind == KindTypeInt) {
		a.errorf(ErrAssumption, n.Line, "Assumption 2 violated - condition must be an integer")
	}
}

// analyseExp type-checks n, decorating it with its Type and l-value flag and
// returning both.
func (a *Analyser) analyseExp(n *Node) (*Type, bool) {
	t, lval := a.analyseExpInner(n)
	n.Typ, n.LVal = t, lval
	return t, lval
}

func (a *Analyser) analyseExpInner(n *Node) (*Type, bool) {
	switch n.Prod {
	case ProdExpInt:
		return TypeInt, false
	case ProdExpFloat:
		return TypeFloat, false

	case ProdExpIdent:
		sym, ok := a.Syms.FindInnermost(n.ID)
		if !ok {
			a.errorf(ErrUndefinedVar, n.Line, "Undefined variable %q", n.ID)
			return TypeError, true
		}
		n.Entry = sym
		return sym.Typ, true

	case ProdExpAssign:
		lt, llv := a.analyseExp(n.Children[0])
		rt, _ := a.analyseExp(n.Children[1])
		if !llv {
			a.errorf(ErrNotLValue, n.Line, "The left-hand side of an assignment must be a variable")
		}
		if !lt.IsError() && !rt.IsError() && !lt.Equal(rt) {
			a.errorf(ErrAssignTypeMismatch, n.Line, "Type mismatched for assignment")
		} else if !lt.IsError() && lt.Kind == KindTypeFunc {
			a.errorf(ErrOperandTypeMismatch, n.Line, "Functions should not exist at any side of an assignment")
		}
		return lt, true

	case ProdExpOr, ProdExpAnd:
		lt, _ := a.analyseExp(n.Children[0])
		rt, _ := a.analyseExp(n.Children[1])
		if (!lt.IsError() && lt.Kind != KindTypeInt) || (!rt.IsError() && rt.Kind != KindTypeInt) {
			a.errorf(ErrOperandTypeMismatch, n.Line, "Type mismatched for operands")
			return TypeError, false
		}
		return TypeInt, false

	case ProdExpRelop:
		lt, _ := a.analyseExp(n.Children[0])
		rt, _ := a.analyseExp(n.Children[1])
		if (!lt.IsError() && !lt.IsBasic()) || (!rt.IsError() && !rt.IsBasic()) || (!lt.IsError() && !rt.IsError() && !lt.Equal(rt)) {
			a.errorf(ErrOperandTypeMismatch, n.Line, "Type mismatched for operands")
			return TypeError, false
		}
		return TypeInt, false

	case ProdExpAdd, ProdExpSub, ProdExpMul, ProdExpDiv:
		lt, _ := a.analyseExp(n.Children[0])
		rt, _ := a.analyseExp(n.Children[1])
		if (!lt.IsError() && !lt.IsBasic()) || (!rt.IsError() && !rt.IsBasic()) || (!lt.IsError() && !rt.IsError() && !lt.Equal(rt)) {
			a.errorf(ErrOperandTypeMismatch, n.Line, "Type mismatched for operands")
			return TypeError, false
		}
		if lt.IsError() {
			return rt, false
		}
		return lt, false

	case ProdExpNeg:
		t, _ := a.analyseExp(n.Children[0])
		if !t.IsError() && !t.IsBasic() {
			a.errorf(ErrOperandTypeMismatch, n.Line, "Type mismatched for operands")
			return TypeError, false
		}
		return t, false

	case ProdExpNot:
		t, _ := a.analyseExp(n.Children[0])
		if !t.IsError() && t.Kind != KindTypeInt {
			a.errorf(ErrOperandTypeMismatch, n.Line, "Type mismatched for operands")
			return TypeError, false
		}
		return TypeInt, false

	case ProdExpCall:
		return a.analyseCall(n)

	case ProdExpIndex:
		return a.analyseIndex(n)

	case ProdExpDot:
		return a.analyseDot(n)
	}
	return TypeError, false
}

func (a *Analyser) analyseCall(n *Node) (*Type, bool) {
	nameNode := n.Children[0]
	sym, ok := a.Syms.FindInnermost(nameNode.ID)
	if !ok {
		a.errorf(ErrUndefinedFunc, n.Line, "Undefined function %q", nameNode.ID)
		a.analyseArgsIgnoringErrors(n)
		return TypeError, false
	}
	if !sym.IsFunc {
		a.errorf(ErrNotFunction, n.Line, "%q is not a function", nameNode.ID)
		a.analyseArgsIgnoringErrors(n)
		return TypeError, false
	}
	n.Entry = sym

	var argTypes []*Type
	var argStrs []string
	if len(n.Children) > 1 {
		for _, argExp := range n.Children[1].Children {
			t, _ := a.analyseExp(argExp)
			argTypes = append(argTypes, t)
			argStrs = append(argStrs, t.String())
		}
	}

	fnType := sym.Typ
	mismatch := len(argTypes) != len(fnType.Params)
	if !mismatch {
		for i, at := range argTypes {
			if !at.IsError() && !at.Equal(fnType.Params[i]) {
				mismatch = true
				break
			}
		}
	}
	if mismatch {
		a.errorf(ErrArgListMismatch, n.Line, "Function %q is not applicable for arguments %q",
			signatureString(nameNode.ID, fnType.Params), argListString(argStrs))
		return fnType.Ret, false
	}
	return fnType.Ret, false
}

func (a *Analyser) analyseArgsIgnoringErrors(n *Node) {
	if len(n.Children) > 1 {
		for _, argExp := range n.Children[1].Children {
			a.analyseExp(argExp)
		}
	}
}

func (a *Analyser) analyseIndex(n *Node) (*Type, bool) {
	base, _ := a.analyseExp(n.Children[0])
	idx, _ := a.analyseExp(n.Children[1])

	ok := true
	if !base.IsError() && base.Kind != KindTypeArray {
		a.errorf(ErrNotArray, n.Line, "%q is not an array", n.Children[0].String())
		ok = false
	}
	if !idx.IsError() && idx.Kind != KindTypeInt {
		a.errorf(ErrNonIntegerIndex, n.Line, "%q is not an integer", n.Children[1].String())
		ok = false
	}
	if !ok {
		if base.Kind == KindTypeArray {
			return base.Elem, true
		}
		return TypeError, true
	}
	return base.Elem, true
}

// signatureString renders "name(T1, T2, ...)" for the Function "..." is not
// applicable for arguments "..." diagnostic (spec §4.4).
func signatureString(name string, params []*Type) string {
	s := name + "("
	for i, p := range params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ")"
}

func argListString(args []string) string {
	s := ""
	for i, a := range args {
		if i > 0 {
			s += ", "
		}
		s += a
	}
	return s
}

func (a *Analyser) analyseDot(n *Node) (*Type, bool) {
	base, _ := a.analyseExp(n.Children[0])
	fieldName := n.Children[1].ID
	if base.IsError() {
		return TypeError, true
	}
	if base.Kind != KindTypeStruct {
		a.errorf(ErrDotOnNonStruct, n.Line, "Illegal use of %q", fieldName)
		return TypeError, true
	}
	f := base.Field(fieldName)
	if f == nil {
		a.errorf(ErrNoSuchField, n.Line, "Non-existent field %q", fieldName)
		return TypeError, true
	}
	return f.Typ, true
}
