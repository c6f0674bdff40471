package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstrStringFormats(t *testing.T) {
	cases := []struct {
		instr *Instr
		want  string
	}{
		{&Instr{Op: OpLabel, Label: 2}, "LABEL L2 :"},
		{&Instr{Op: OpFuncDef, Func: "main"}, "FUNCTION main :"},
		{&Instr{Op: OpAssign, Target: NewVar(1, false), Rhs: NewConst(7)}, "v1 := #7"},
		{&Instr{Op: OpArithBop, Target: NewVar(1, true), Lhs: NewVar(2, false), Rhs: NewVar(3, false), ArithOp: "+"}, "t1 := v2 + v3"},
		{&Instr{Op: OpGoto, Label: 4}, "GOTO L4"},
		{&Instr{Op: OpCondGoto, Lhs: NewVar(1, false), Relop: "<", Rhs: NewConst(0), Label: 5}, "IF v1 < #0 GOTO L5"},
		{&Instr{Op: OpReturn, Target: NewVar(1, false)}, "RETURN v1"},
		{&Instr{Op: OpDec, Target: NewVar(1, false), Size: 4}, "DEC v1 4"},
		{&Instr{Op: OpArg, Target: NewConst(3)}, "ARG #3"},
		{&Instr{Op: OpCall, Target: NewVar(1, true), Func: "f"}, "t1 := CALL f"},
		{&Instr{Op: OpParam, Target: NewVar(1, false)}, "PARAM v1"},
		{&Instr{Op: OpRead, Target: NewVar(1, false)}, "READ v1"},
		{&Instr{Op: OpWrite, Target: NewVar(1, false)}, "WRITE v1"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.instr.String())
	}
}

func TestStreamAppendAndFunctionBlocks(t *testing.T) {
	s := &Stream{}
	f1 := &Instr{Op: OpFuncDef, Func: "f"}
	f1body := &Instr{Op: OpReturn, Target: NewConst(0)}
	f2 := &Instr{Op: OpFuncDef, Func: "g"}
	f2body := &Instr{Op: OpReturn, Target: NewConst(1)}
	for _, i := range []*Instr{f1, f1body, f2, f2body} {
		s.Append(i)
	}

	blocks := s.FunctionBlocks()
	if assert.Len(t, blocks, 2) {
		assert.Equal(t, "f", blocks[0].Name)
		assert.Same(t, f1, blocks[0].Start)
		assert.Same(t, f1body, blocks[0].End)
		assert.Equal(t, "g", blocks[1].Name)
		assert.Same(t, f2, blocks[1].Start)
		assert.Same(t, f2body, blocks[1].End)
	}
}

func TestInstrOperandsSkipsConst(t *testing.T) {
	i := &Instr{Op: OpArithBop, Target: NewVar(1, true), Lhs: NewVar(2, false), Rhs: NewConst(5), ArithOp: "+"}
	ops := i.Operands()
	assert.Len(t, ops, 2)
	assert.Equal(t, NewVar(1, true), ops[0])
	assert.Equal(t, NewVar(2, false), ops[1])
}
