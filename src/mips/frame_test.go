package mips

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cmmc/src/ir"
)

// chain links a slice of instructions into a singly-linked Next list and
// returns the FuncBlock spanning all of them, mirroring how Stream.Append
// builds a function's instruction list.
func chain(name string, instrs ...*ir.Instr) *ir.FuncBlock {
	for i := 0; i < len(instrs)-1; i++ {
		instrs[i].Next = instrs[i+1]
	}
	return &ir.FuncBlock{Name: name, Start: instrs[0], End: instrs[len(instrs)-1]}
}

func TestBuildFrameFirstFourParamsGetRegisterHomes(t *testing.T) {
	def := &ir.Instr{Op: ir.OpFuncDef, Func: "f"}
	p1 := &ir.Instr{Op: ir.OpParam, Target: ir.NewVar(1, false)}
	p2 := &ir.Instr{Op: ir.OpParam, Target: ir.NewVar(2, false)}
	ret := &ir.Instr{Op: ir.OpReturn, Target: ir.NewConst(0)}
	fb := chain("f", def, p1, p2, ret)

	fr := BuildFrame(fb)

	v1 := fr.Lookup(ir.NewVar(1, false))
	if assert.NotNil(t, v1) {
		assert.Equal(t, "$a0", v1.Reg)
		assert.Equal(t, -4, v1.Offset)
	}
	v2 := fr.Lookup(ir.NewVar(2, false))
	if assert.NotNil(t, v2) {
		assert.Equal(t, "$a1", v2.Reg)
		assert.Equal(t, -8, v2.Offset)
	}
}

func TestBuildFrameFifthParamGetsPositiveCallerOffset(t *testing.T) {
	def := &ir.Instr{Op: ir.OpFuncDef, Func: "f"}
	var params []*ir.Instr
	for i := 1; i <= 5; i++ {
		params = append(params, &ir.Instr{Op: ir.OpParam, Target: ir.NewVar(i, false)})
	}
	ret := &ir.Instr{Op: ir.OpReturn, Target: ir.NewConst(0)}
	instrs := append([]*ir.Instr{def}, params...)
	instrs = append(instrs, ret)
	fb := chain("f", instrs...)

	fr := BuildFrame(fb)

	v5 := fr.Lookup(ir.NewVar(5, false))
	if assert.NotNil(t, v5) {
		assert.Empty(t, v5.Reg, "a fifth parameter has no register home")
		assert.Equal(t, 8, v5.Offset)
	}
}

func TestBuildFrameDecReservesFullSize(t *testing.T) {
	def := &ir.Instr{Op: ir.OpFuncDef, Func: "f"}
	dec := &ir.Instr{Op: ir.OpDec, Target: ir.NewVar(1, false), Size: 12}
	ret := &ir.Instr{Op: ir.OpReturn, Target: ir.NewVar(1, false)}
	fb := chain("f", def, dec, ret)

	fr := BuildFrame(fb)

	v1 := fr.Lookup(ir.NewVar(1, false))
	if assert.NotNil(t, v1) {
		assert.Equal(t, -4, v1.Offset)
	}
	assert.Equal(t, 12, fr.Size, "a 3-word array must reserve its full size, not one word")
}

func TestBuildFrameLocalsGetSuccessiveOffsets(t *testing.T) {
	def := &ir.Instr{Op: ir.OpFuncDef, Func: "f"}
	assign1 := &ir.Instr{Op: ir.OpAssign, Target: ir.NewVar(1, false), Rhs: ir.NewConst(1)}
	assign2 := &ir.Instr{Op: ir.OpAssign, Target: ir.NewVar(2, false), Rhs: ir.NewConst(2)}
	ret := &ir.Instr{Op: ir.OpReturn, Target: ir.NewVar(1, false)}
	fb := chain("f", def, assign1, assign2, ret)

	fr := BuildFrame(fb)

	v1 := fr.Lookup(ir.NewVar(1, false))
	v2 := fr.Lookup(ir.NewVar(2, false))
	if assert.NotNil(t, v1) && assert.NotNil(t, v2) {
		assert.Equal(t, -4, v1.Offset)
		assert.Equal(t, -8, v2.Offset)
	}
	assert.Equal(t, 8, fr.Size)
}

func TestBuildFrameVarAndAddrShareASlot(t *testing.T) {
	def := &ir.Instr{Op: ir.OpFuncDef, Func: "f"}
	dec := &ir.Instr{Op: ir.OpDec, Target: ir.NewVar(1, false), Size: 4}
	ret := &ir.Instr{Op: ir.OpReturn, Target: ir.NewVar(1, false)}
	fb := chain("f", def, dec, ret)

	fr := BuildFrame(fb)

	byVar := fr.Lookup(ir.NewVar(1, false))
	byAddr := fr.Lookup(ir.NewAddr(1, false))
	if assert.NotNil(t, byVar) && assert.NotNil(t, byAddr) {
		assert.Same(t, byVar, byAddr, "a Var and an Addr of the same id must resolve to the same slot")
	}
}

func TestFrameLookupMissingReturnsNil(t *testing.T) {
	fr := &Frame{vars: map[int]*VarInfo{}}
	assert.Nil(t, fr.Lookup(ir.NewVar(99, false)))
}
