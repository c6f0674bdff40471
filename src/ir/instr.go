// instr.go defines Intercode, the sixteen-variant three-address instruction
// set, and Stream, the doubly-linked sequence the backend scans. Grounded
// on the teacher's ir/nodetype.go NodeType catalogue (a single tagged
// struct with a print method matching each variant) and on its doubly-
// linked util.Stack for sequencing, generalised from a syntax-tree node set
// to an instruction set with backend-facing Prev/Next links (spec §3, §5).
package ir

import (
	"fmt"
	"strings"
)

// Op identifies which of the sixteen Intercode shapes an Instr holds.
type Op int

const (
	OpLabel Op = iota
	OpFuncDef
	OpAssign     // target := Rhs
	OpArithBop   // Target := Lhs ArithOp Rhs
	OpRef        // Target := &Rhs      (address-of)
	OpDeref      // Target := *Rhs      (load through pointer)
	OpDerefAssign // *Target := Rhs     (store through pointer)
	OpGoto
	OpCondGoto // IF Lhs Relop Rhs GOTO Label
	OpReturn
	OpDec  // DEC Target, Size
	OpArg
	OpCall // Target := CALL Func
	OpParam
	OpRead
	OpWrite
)

// Instr is one three-address instruction, doubly linked into a Stream.
type Instr struct {
	Op Op

	Label  int    // OpLabel, OpGoto, OpCondGoto: target label id.
	Func   string // OpFuncDef, OpCall: function name.
	Target Operand
	Lhs    Operand
	Rhs    Operand
	ArithOp string // OpArithBop: one of "+","-","*","/".
	Relop  string // OpCondGoto: one of "==","!=","<","<=",">",">=".
	Size   int    // OpDec: byte size of the declared variable.

	Prev, Next *Instr
}

// String renders instr in the external IR text format (spec §6), one
// instruction per line with no trailing newline.
func (i *Instr) String() string {
	switch i.Op {
	case OpLabel:
		return fmt.Sprintf("LABEL L%d :", i.Label)
	case OpFuncDef:
		return fmt.Sprintf("FUNCTION %s :", i.Func)
	case OpAssign:
		return fmt.Sprintf("%s := %s", i.Target, i.Rhs)
	case OpArithBop:
		return fmt.Sprintf("%s := %s %s %s", i.Target, i.Lhs, i.ArithOp, i.Rhs)
	case OpRef:
		return fmt.Sprintf("%s := &%s", i.Target, i.Rhs)
	case OpDeref:
		return fmt.Sprintf("%s := *%s", i.Target, i.Rhs)
	case OpDerefAssign:
		return fmt.Sprintf("*%s := %s", i.Target, i.Rhs)
	case OpGoto:
		return fmt.Sprintf("GOTO L%d", i.Label)
	case OpCondGoto:
		return fmt.Sprintf("IF %s %s %s GOTO L%d", i.Lhs, i.Relop, i.Rhs, i.Label)
	case OpReturn:
		return fmt.Sprintf("RETURN %s", i.Target)
	case OpDec:
		return fmt.Sprintf("DEC %s %d", i.Target, i.Size)
	case OpArg:
		return fmt.Sprintf("ARG %s", i.Target)
	case OpCall:
		return fmt.Sprintf("%s := CALL %s", i.Target, i.Func)
	case OpParam:
		return fmt.Sprintf("PARAM %s", i.Target)
	case OpRead:
		return fmt.Sprintf("READ %s", i.Target)
	case OpWrite:
		return fmt.Sprintf("WRITE %s", i.Target)
	default:
		return "?"
	}
}

// Operands returns the Var/Addr operands this instruction reads or writes,
// skipping Const operands (they never need a stack home) and skipping
// Target for instructions where it is not an operand slot (Label/Goto).
// The backend's frame builder uses this to discover every distinct operand
// used by a function.
func (i *Instr) Operands() []Operand {
	var out []Operand
	add := func(op Operand) {
		if op.Kind != KindConst {
			out = append(out, op)
		}
	}
	switch i.Op {
	case OpAssign, OpRef, OpDeref, OpDerefAssign:
		add(i.Target)
		add(i.Rhs)
	case OpArithBop:
		add(i.Target)
		add(i.Lhs)
		add(i.Rhs)
	case OpCondGoto:
		add(i.Lhs)
		add(i.Rhs)
	case OpReturn, OpDec, OpArg, OpParam, OpRead, OpWrite:
		add(i.Target)
	case OpCall:
		add(i.Target)
	}
	return out
}

// Stream is the doubly-linked IR instruction sequence for a whole
// translation unit. Instructions are appended in the exact order a
// depth-first walk of the syntax tree generates them (spec §5); the backend
// relies on that order for basic-block boundaries.
type Stream struct {
	Head, Tail *Instr
}

// Append adds instr to the end of the stream.
func (s *Stream) Append(instr *Instr) {
	if s.Tail == nil {
		s.Head = instr
		s.Tail = instr
		return
	}
	instr.Prev = s.Tail
	s.Tail.Next = instr
	s.Tail = instr
}

// FunctionBlocks scans the stream and returns, for each FuncDef, the first
// instruction of its body (the FuncDef itself) and the last instruction
// before the next FuncDef (or the stream's Tail for the final function).
// The backend uses this to scan one function at a time (spec §4.6).
func (s *Stream) FunctionBlocks() []*FuncBlock {
	var blocks []*FuncBlock
	var cur *FuncBlock
	for i := s.Head; i != nil; i = i.Next {
		if i.Op == OpFuncDef {
			if cur != nil {
				cur.End = i.Prev
			}
			cur = &FuncBlock{Name: i.Func, Start: i}
			blocks = append(blocks, cur)
			continue
		}
		if cur != nil {
			cur.End = i
		}
	}
	return blocks
}

// FuncBlock is one function's [Start, End] span within a Stream, inclusive.
type FuncBlock struct {
	Name       string
	Start, End *Instr
}

// String renders the whole stream in external IR text format, one
// instruction per line.
func (s *Stream) String() string {
	var b strings.Builder
	for i := s.Head; i != nil; i = i.Next {
		b.WriteString(i.String())
		b.WriteByte('\n')
	}
	return b.String()
}
