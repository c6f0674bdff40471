// emit.go walks a translated ir.Stream function by function and emits MIPS-32
// assembly, in SPIM's assembler dialect. Grounded on the teacher's
// codegen/codegen.go instruction-by-instruction walk over its own IR
// (dispatching on node type, writing through a shared util.Writer),
// generalised to cmmc's sixteen-opcode Intercode and its A0-A3/T0-T9
// allocatable register set, and to the calling convention described in
// spec §4.6: arguments are placed in reverse, $ra is saved only around the
// jal itself, and every allocatable register is flushed at every basic
// block boundary and before every call.
package mips

import (
	"strconv"

	"cmmc/src/ir"
	"cmmc/src/util"
)

// Generator produces MIPS-32 assembly text for a whole translation unit.
type Generator struct {
	out *util.Writer
}

// NewGenerator returns a Generator with an empty output buffer.
func NewGenerator() *Generator {
	return &Generator{out: util.NewWriter()}
}

// Generate emits the SPIM preamble followed by every function in stream, and
// returns the complete assembly text.
func (g *Generator) Generate(stream *ir.Stream) string {
	g.out.WriteString(Preamble)
	g.out.WriteString("\n.text\n")
	for _, fb := range stream.FunctionBlocks() {
		g.genFunc(fb)
	}
	return g.out.String()
}

func labelName(id int) string {
	return util.LabelString(id)
}

// loadFromHome emits a load of v's stack (or register) home into reg.
func (g *Generator) loadFromHome(reg string, v *VarInfo) {
	if v.Reg != "" {
		if v.Reg != reg {
			g.out.Ins2("move", reg, v.Reg)
		}
		return
	}
	g.out.LoadStore("lw", reg, v.Offset, "$fp")
}

// storeToHome emits a store of reg back to v's stack (or register) home.
func (g *Generator) storeToHome(reg string, v *VarInfo) {
	if v.Reg != "" {
		if v.Reg != reg {
			g.out.Ins2("move", v.Reg, reg)
		}
		return
	}
	g.out.LoadStore("sw", reg, v.Offset, "$fp")
}

func (g *Generator) push(reg string) {
	g.out.Ins3("addi", "$sp", "$sp", "-4")
	g.out.LoadStore("sw", reg, 0, "$sp")
}

func (g *Generator) pop(reg string) {
	g.out.LoadStore("lw", reg, 0, "$sp")
	g.out.Ins3("addi", "$sp", "$sp", "4")
}

// operandReg resolves op to a register, loading an immediate via li when op
// is a constant.
func (g *Generator) operandReg(alloc *Allocator, op ir.Operand) *regInfo {
	if op.Kind == ir.KindConst {
		r := alloc.GetConstReg()
		g.out.Ins2("li", r.name, strconv.Itoa(op.Val))
		return r
	}
	return alloc.GetReg(op, false)
}

func (g *Generator) genFunc(fb *ir.FuncBlock) {
	fr := BuildFrame(fb)
	alloc := NewAllocator(fr, g)

	g.out.Label(fb.Name)
	g.push("$fp")
	g.out.Ins2("move", "$fp", "$sp")
	if fr.Size > 0 {
		g.out.Ins3("addi", "$sp", "$sp", strconv.Itoa(-fr.Size))
	}

	i := fb.Start.Next
	idx := 0
	for ; i != nil && i.Op == ir.OpParam; i = i.Next {
		idx++
		if idx <= 4 {
			alloc.Seed(paramRegs[idx-1], i.Target)
		}
	}

	var pendingArgs []ir.Operand
	for instr := i; instr != nil; instr = instr.Next {
		g.genInstr(instr, alloc, fr, &pendingArgs)
		if instr == fb.End {
			break
		}
	}
}

func (g *Generator) genInstr(instr *ir.Instr, alloc *Allocator, fr *Frame, pendingArgs *[]ir.Operand) {
	switch instr.Op {
	case ir.OpLabel:
		alloc.FlushAll()
		g.out.Label(labelName(instr.Label))

	case ir.OpGoto:
		alloc.FlushAll()
		g.out.Ins1("j", labelName(instr.Label))

	case ir.OpCondGoto:
		lr := g.operandReg(alloc, instr.Lhs)
		alloc.Lock(lr)
		rr := g.operandReg(alloc, instr.Rhs)
		alloc.Lock(rr)
		alloc.FlushAll()
		// The two operand registers are locked, so FlushAll skipped them;
		// write them back too before control can leave the block.
		alloc.flush(lr)
		alloc.flush(rr)
		g.out.Ins3(branchOp(instr.Relop), lr.name, rr.name, labelName(instr.Label))
		alloc.Unlock(lr)
		alloc.Unlock(rr)

	case ir.OpAssign:
		dst := alloc.GetReg(instr.Target, true)
		if instr.Rhs.Kind == ir.KindConst {
			g.out.Ins2("li", dst.name, strconv.Itoa(instr.Rhs.Val))
		} else {
			src := alloc.GetReg(instr.Rhs, false)
			g.out.Ins2("move", dst.name, src.name)
		}
		alloc.MarkDirty(dst)

	case ir.OpArithBop:
		g.genArith(instr, alloc)

	case ir.OpRef:
		v := fr.Lookup(instr.Rhs)
		if v != nil {
			alloc.FlushOperand(instr.Rhs)
		}
		dst := alloc.GetReg(instr.Target, true)
		if v != nil {
			g.out.Ins3("addi", dst.name, "$fp", strconv.Itoa(v.Offset))
		}
		alloc.MarkDirty(dst)

	case ir.OpDeref:
		addr := alloc.GetReg(instr.Rhs, false)
		alloc.Lock(addr)
		dst := alloc.GetReg(instr.Target, true)
		g.out.LoadStore("lw", dst.name, 0, addr.name)
		alloc.Unlock(addr)
		alloc.MarkDirty(dst)

	case ir.OpDerefAssign:
		addr := g.operandReg(alloc, instr.Target)
		alloc.Lock(addr)
		src := g.operandReg(alloc, instr.Rhs)
		g.out.LoadStore("sw", src.name, 0, addr.name)
		alloc.Unlock(addr)

	case ir.OpReturn:
		r := g.operandReg(alloc, instr.Target)
		g.out.Ins2("move", "$v0", r.name)
		g.out.Ins2("move", "$sp", "$fp")
		g.pop("$fp")
		g.out.Ins1("jr", "$ra")

	case ir.OpDec:
		// Space already reserved by BuildFrame; nothing to emit.

	case ir.OpArg:
		*pendingArgs = append(*pendingArgs, instr.Target)

	case ir.OpCall:
		g.genCall(instr, alloc, pendingArgs)

	case ir.OpParam:
		// Consumed during prologue seeding.

	case ir.OpRead:
		alloc.FlushAll()
		g.push("$ra")
		g.out.Ins1("jal", "read")
		g.pop("$ra")
		dst := alloc.GetReg(instr.Target, true)
		g.out.Ins2("move", dst.name, "$v0")
		alloc.MarkDirty(dst)

	case ir.OpWrite:
		r := g.operandReg(alloc, instr.Target)
		alloc.Lock(r)
		alloc.FlushAll()
		g.out.Ins2("move", "$a0", r.name)
		alloc.Unlock(r)
		g.push("$ra")
		g.out.Ins1("jal", "write")
		g.pop("$ra")
	}
}

func branchOp(relop string) string {
	switch relop {
	case "==":
		return "beq"
	case "!=":
		return "bne"
	case "<":
		return "blt"
	case "<=":
		return "ble"
	case ">":
		return "bgt"
	case ">=":
		return "bge"
	default:
		return "beq"
	}
}

// genArith lowers one ArithBop, following the emission shortcuts spec §4.6
// calls out: commutative addition moves a constant operand to the right
// (addi), and subtraction of a constant right operand likewise becomes addi
// with a negated immediate. Multiplication and division always go through
// registers, since MIPS has no immediate mul/div.
func (g *Generator) genArith(instr *ir.Instr, alloc *Allocator) {
	lhs, rhs := instr.Lhs, instr.Rhs
	if instr.ArithOp == "+" && lhs.Kind == ir.KindConst && rhs.Kind != ir.KindConst {
		lhs, rhs = rhs, lhs
	}
	if (instr.ArithOp == "+" || instr.ArithOp == "-") && rhs.Kind == ir.KindConst && lhs.Kind != ir.KindConst {
		src := alloc.GetReg(lhs, false)
		alloc.Lock(src)
		dst := alloc.GetReg(instr.Target, true)
		imm := rhs.Val
		if instr.ArithOp == "-" {
			imm = -imm
		}
		g.out.Ins3("addi", dst.name, src.name, strconv.Itoa(imm))
		alloc.Unlock(src)
		alloc.MarkDirty(dst)
		return
	}

	lr := g.operandReg(alloc, lhs)
	alloc.Lock(lr)
	rr := g.operandReg(alloc, rhs)
	alloc.Lock(rr)
	dst := alloc.GetReg(instr.Target, true)
	g.out.Ins3(arithOp(instr.ArithOp), dst.name, lr.name, rr.name)
	alloc.Unlock(lr)
	alloc.Unlock(rr)
	alloc.MarkDirty(dst)
}

func arithOp(op string) string {
	switch op {
	case "+":
		return "add"
	case "-":
		return "sub"
	case "*":
		return "mul"
	case "/":
		return "div"
	default:
		return "add"
	}
}

// genCall lowers a Call, consuming and clearing pendingArgs: arguments are
// placed in reverse order (spec §4.6), the first four into A0..A3 and the
// rest pushed to the stack, $ra is saved only around the jal, and the
// result is moved out of V0 into the call's target register.
func (g *Generator) genCall(instr *ir.Instr, alloc *Allocator, pendingArgs *[]ir.Operand) {
	args := *pendingArgs
	*pendingArgs = nil
	alloc.FlushAll()

	extra := 0
	for k := len(args) - 1; k >= 0; k-- {
		argIdx := k + 1
		r := g.operandReg(alloc, args[k])
		if argIdx <= 4 {
			g.out.Ins2("move", paramRegs[argIdx-1], r.name)
		} else {
			g.push(r.name)
			extra++
		}
	}

	g.push("$ra")
	g.out.Ins1("jal", instr.Func)
	g.pop("$ra")
	if extra > 0 {
		g.out.Ins3("addi", "$sp", "$sp", strconv.Itoa(extra*wordSize))
	}

	dst := alloc.GetReg(instr.Target, true)
	g.out.Ins2("move", dst.name, "$v0")
	alloc.MarkDirty(dst)
}
