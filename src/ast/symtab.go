// symtab.go is the symbol table: a stack of lexical scopes, each with its own
// name-keyed map; innermost lookup walks the scopes from the top. Grounded on the
// teacher's util.Stack (env stack of scopes) composed with a map the way
// ir/validate.go's GetEntry walks outward through nested scopes, generalised
// from the teacher's single flat symbol table to cmmc's nested-scope model
// (spec §3: function params and compound-statement bodies each open a new
// scope; inner declarations shadow outer ones). The scope stack itself is a
// util.Stack of *scope; depth in cmmc programs is always small (one level
// per nested compound statement), so walking it by pop/push round-trips in
// FindInnermost/Global costs nothing in practice.
package ast

import "cmmc/src/util"

// Symbol is one declared name: a variable, a parameter or a function. Struct
// fields are not symbols; they live in their struct Type's Fields.
type Symbol struct {
	ID      int // unique id, shared with IR variable numbering (spec §3).
	Name    string
	Typ     *Type
	Line    int  // line of declaration, for diagnostics.
	IsFunc  bool // true for function symbols (Typ.Kind == KindTypeFunc).
	Defined bool // for functions: true once a body has been seen (not just declared).
	IsParam bool // true for function parameters: arrays/structs are passed by address (spec §4.5).
}

// scope is one lexical level: an ordered slice (for shadowing-aware lookup
// and deterministic iteration) plus a name index for O(1) hits.
type scope struct {
	byName map[string]*Symbol
	order  []*Symbol
}

func newScope() *scope {
	return &scope{byName: make(map[string]*Symbol)}
}

// SymTab is the nested-scope symbol table used during semantic analysis.
type SymTab struct {
	stack *util.Stack // of *scope; bottom is global, top is innermost.
	ids   *util.IDAllocator
}

// NewSymTab returns a SymTab with only the global scope open, drawing symbol
// ids from ids (shared with the IR translator's variable numbering).
func NewSymTab(ids *util.IDAllocator) *SymTab {
	s := &SymTab{stack: &util.Stack{}, ids: ids}
	s.stack.Push(newScope())
	return s
}

// PushEnv opens a new, innermost lexical scope.
func (s *SymTab) PushEnv() {
	s.stack.Push(newScope())
}

// PopEnv closes the innermost lexical scope, discarding its declarations.
func (s *SymTab) PopEnv() {
	s.stack.Pop()
}

// Depth returns the number of currently open scopes (1 means global only).
func (s *SymTab) Depth() int {
	return s.stack.Size()
}

func (s *SymTab) top() *scope {
	return s.stack.Peek().(*scope)
}

// Add declares name with type typ in the innermost scope, returning the new
// Symbol. It does not check for a collision; callers must use FindInTop
// first so the specific error kind (variable redefinition vs. conflicting
// with a struct field name, etc.) can be chosen at the call site.
func (s *SymTab) Add(name string, typ *Type, line int) *Symbol {
	sym := &Symbol{ID: s.ids.Alloc(), Name: name, Typ: typ, Line: line}
	top := s.top()
	top.byName[name] = sym
	top.order = append(top.order, sym)
	return sym
}

// FindInTop looks up name in the innermost scope only (used to detect
// redeclaration within the same block, spec error kinds 3/4/19).
func (s *SymTab) FindInTop(name string) (*Symbol, bool) {
	sym, ok := s.top().byName[name]
	return sym, ok
}

// walkDown pops every scope off the stack from innermost to outermost,
// calling visit on each in that order, then restores the stack to its
// original state before returning. visit returning true stops the walk
// early once its caller has what it needs.
func (s *SymTab) walkDown(visit func(sc *scope) bool) {
	var popped []*scope
	for s.stack.Size() > 0 {
		sc := s.stack.Pop().(*scope)
		popped = append(popped, sc)
		if visit(sc) {
			break
		}
	}
	for i := len(popped) - 1; i >= 0; i-- {
		s.stack.Push(popped[i])
	}
}

// FindInnermost looks up name starting at the innermost scope and working
// outward to global, returning the first (innermost) match. This is the
// lookup rule for every Exp use of an identifier (spec §3: inner
// declarations shadow outer ones).
func (s *SymTab) FindInnermost(name string) (*Symbol, bool) {
	var found *Symbol
	ok := false
	s.walkDown(func(sc *scope) bool {
		if sym, hit := sc.byName[name]; hit {
			found, ok = sym, true
			return true
		}
		return false
	})
	return found, ok
}

// Global returns the outermost (file) scope's symbols in declaration order.
func (s *SymTab) Global() []*Symbol {
	var global []*Symbol
	s.walkDown(func(sc *scope) bool {
		global = sc.order
		return false
	})
	return global
}
