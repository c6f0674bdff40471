// frame.go builds one function's stack-frame layout by scanning its IR
// instructions for every distinct Var/Addr operand and assigning each a
// frame-pointer-relative stack slot, mirroring the teacher's codegen/var.go
// per-function variable table (built by a single pass over a function's
// statements before any instruction is emitted). Generalised to the IR's
// three-address operand model and to cmmc's calling convention: the first
// four parameters additionally reserve register homes at A0..A3, and
// parameters beyond the fourth live at positive offsets inherited from the
// caller's stack rather than being copied into the callee's frame (spec §3,
// §4.6).
package mips

import "cmmc/src/ir"

const wordSize = 4

// VarInfo is one operand's home: a frame-pointer-relative stack slot, and,
// for the first four parameters only, a fixed register home.
type VarInfo struct {
	Operand ir.Operand
	Offset  int    // FP-relative byte offset.
	Reg     string // non-empty only for the first four parameters.
}

// Frame is the complete layout for one function: every operand's home plus
// the total size of the locals region that must be reserved below FP.
type Frame struct {
	vars map[int]*VarInfo // keyed by Operand.ID; Var and Addr of the same id share a slot.
	Size int              // bytes to subtract from SP in the prologue.
}

// Lookup returns the VarInfo for op, or nil if op was never assigned one
// (true for Const operands, which never reach the frame builder).
func (f *Frame) Lookup(op ir.Operand) *VarInfo {
	return f.vars[op.ID]
}

// BuildFrame scans fb's instructions and assigns every distinct operand a
// stack slot. Parameters are discovered from the PARAM instructions that
// the translator always emits immediately after FuncDef, in declaration
// order (spec §4.5); the first four additionally get a register home.
func BuildFrame(fb *ir.FuncBlock) *Frame {
	fr := &Frame{vars: make(map[int]*VarInfo)}
	next := -wordSize

	assign := func(op ir.Operand) *VarInfo {
		if v, ok := fr.vars[op.ID]; ok {
			return v
		}
		v := &VarInfo{Operand: op, Offset: next}
		next -= wordSize
		fr.vars[op.ID] = v
		return v
	}

	paramIdx := 0
	i := fb.Start.Next
	for ; i != nil && i.Op == ir.OpParam; i = i.Next {
		paramIdx++
		op := i.Target
		if paramIdx <= 4 {
			v := assign(op)
			v.Reg = paramRegs[paramIdx-1]
		} else {
			fr.vars[op.ID] = &VarInfo{Operand: op, Offset: 8 + wordSize*(paramIdx-5)}
		}
	}

	for instr := i; instr != nil; instr = instr.Next {
		if instr.Op == ir.OpDec {
			if _, ok := fr.vars[instr.Target.ID]; !ok {
				size := instr.Size
				if size < wordSize {
					size = wordSize
				}
				size = ((size + wordSize - 1) / wordSize) * wordSize
				fr.vars[instr.Target.ID] = &VarInfo{Operand: instr.Target, Offset: next}
				next -= size
			}
		} else {
			for _, op := range instr.Operands() {
				if _, ok := fr.vars[op.ID]; !ok {
					assign(op)
				}
			}
		}
		if instr == fb.End {
			break
		}
	}

	fr.Size = -next - wordSize
	if fr.Size < 0 {
		fr.Size = 0
	}
	return fr
}

// paramRegs names the four argument registers, in order, per the calling
// convention (spec §4.6).
var paramRegs = []string{"$a0", "$a1", "$a2", "$a3"}
