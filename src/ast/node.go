// node.go defines the syntax tree produced by package frontend and consumed
// by the semantic analyser and IR translator. Grounded on the teacher's
// ir.Node (hhramberg-go-vslc/src/ir/nodetype.go): a single tagged Node type
// carrying a Kind, source position, raw terminal data and child pointers,
// decorated in place with a *Symbol once the analyser has run. Kept in the
// same package as Symbol/SymTab/Type because the teacher does the same
// (ir.Node.Entry points straight at ir.Symbol) rather than introducing a
// separate "ast" vs. "sema" package boundary the teacher never draws.
package ast

import "fmt"

// NodeKind identifies which grammar production (or terminal) a Node
// represents. The names match spec.md §6's non-terminal/terminal catalogue
// (ExtDef, Specifier, StructSpecifier, OptTag, Tag, VarDec, FunDec, VarList,
// ParamDec, CompSt, DefList, Def, DecList, Dec, StmtList, Stmt, Exp, Args,
// plus the ID/INT/FLOAT/TYPE/RELOP terminals).
type NodeKind int

const (
	KindProgram NodeKind = iota
	KindExtDefList
	KindExtDef
	KindExtDecList
	KindSpecifier
	KindStructSpecifier
	KindOptTag
	KindTag
	KindVarDec
	KindFunDec
	KindVarList
	KindParamDec
	KindCompSt
	KindStmtList
	KindStmt
	KindDefList
	KindDef
	KindDecList
	KindDec
	KindExp
	KindArgs
	// Terminals.
	KindIdent
	KindInt
	KindFloat
	KindType
	KindRelop
)

var kindNames = [...]string{
	"Program", "ExtDefList", "ExtDef", "ExtDecList", "Specifier",
	"StructSpecifier", "OptTag", "Tag", "VarDec", "FunDec", "VarList",
	"ParamDec", "CompSt", "StmtList", "Stmt", "DefList", "Def", "DecList",
	"Dec", "Exp", "Args", "ID", "INT", "FLOAT", "TYPE", "RELOP",
}

func (k NodeKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// Prod distinguishes the sub-production of a Stmt or Exp node (the concrete
// grammar alternative chosen at parse time), since spec.md's node-name
// catalogue collapses e.g. "if", "if/else" and "while" all under Stmt, and
// every binary/unary/postfix expression form under Exp. The analyser and IR
// translator dispatch on (Kind, Prod) instead of needing one NodeKind per
// grammar alternative.
type Prod int

const (
	ProdNone Prod = iota

	// Stmt productions.
	ProdStmtExp    // Exp SEMI
	ProdStmtComp   // CompSt
	ProdStmtReturn // RETURN Exp SEMI
	ProdStmtIf     // IF LP Exp RP Stmt
	ProdStmtIfElse // IF LP Exp RP Stmt ELSE Stmt
	ProdStmtWhile  // WHILE LP Exp RP Stmt

	// Exp productions.
	ProdExpAssign // Exp ASSIGNOP Exp
	ProdExpOr     // Exp OR Exp
	ProdExpAnd    // Exp AND Exp
	ProdExpRelop  // Exp RELOP Exp
	ProdExpAdd    // Exp PLUS Exp
	ProdExpSub    // Exp MINUS Exp
	ProdExpMul    // Exp STAR Exp
	ProdExpDiv    // Exp DIV Exp
	ProdExpNeg    // MINUS Exp (unary)
	ProdExpNot    // NOT Exp
	ProdExpCall   // ID LP Args? RP
	ProdExpIndex  // Exp LB Exp RB
	ProdExpDot    // Exp DOT ID
	ProdExpIdent  // ID
	ProdExpInt    // INT
	ProdExpFloat  // FLOAT

	// ExtDef productions.
	ProdExtDefVars  // Specifier ExtDecList SEMI
	ProdExtDefType  // Specifier SEMI
	ProdExtDefFunc  // Specifier FunDec CompSt
	ProdExtDefDecl  // Specifier FunDec SEMI (function prototype, no body)

	// StructSpecifier productions.
	ProdStructNamed     // STRUCT OptTag(id) LC DefList RC
	ProdStructAnonymous // STRUCT LC DefList RC (OptTag empty)
	ProdStructRef       // STRUCT Tag
)

// Node is a single node in the syntax tree.
type Node struct {
	Kind     NodeKind
	Prod     Prod
	Line     int
	Children []*Node

	// Terminal payload. Only the field matching Kind is meaningful.
	ID     string  // KindIdent and ProdExpIdent: the identifier (a call's callee and a field access's field name are KindIdent children).
	IVal   int     // KindInt.
	FVal   float32 // KindFloat.
	TypeID string  // KindType: the raw type keyword ("int"/"float").
	Relop  string  // KindRelop / ProdExpRelop operator spelling.
	Token  string  // Not filled in by the parser; arithmetic/logic Exp productions are told apart by Prod.

	// Filled in by the semantic analyser.
	Entry *Symbol // Symbol table entry this node resolves to, if any.
	Typ   *Type   // Static type of this node (Exp nodes), once checked.
	LVal  bool    // Whether this Exp node denotes an l-value.
}

// NewNode returns a Node of the given kind/production at source line line.
func NewNode(kind NodeKind, prod Prod, line int, children ...*Node) *Node {
	return &Node{Kind: kind, Prod: prod, Line: line, Children: children}
}

// String returns a print-friendly one-line description of n.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case KindIdent:
		return fmt.Sprintf("ID(%s)", n.ID)
	case KindInt:
		return fmt.Sprintf("INT(%d)", n.IVal)
	case KindFloat:
		return fmt.Sprintf("FLOAT(%g)", n.FVal)
	case KindType:
		return fmt.Sprintf("TYPE(%s)", n.TypeID)
	case KindRelop:
		return fmt.Sprintf("RELOP(%s)", n.Relop)
	default:
		return n.Kind.String()
	}
}

// Print recursively prints n and its children, indenting by depth.
func (n *Node) Print(depth int) {
	if n == nil {
		fmt.Printf("%*c---> NIL\n", depth<<1, ' ')
		return
	}
	fmt.Printf("%*c%s (line %d)\n", depth<<1, ' ', n.String(), n.Line)
	for _, c := range n.Children {
		c.Print(depth + 1)
	}
}
