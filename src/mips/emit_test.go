package mips

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"cmmc/src/ir"
)

func buildStream(fb *ir.FuncBlock) *ir.Stream {
	s := &ir.Stream{}
	for i := fb.Start; i != nil; i = i.Next {
		s.Append(i)
		if i == fb.End {
			break
		}
	}
	return s
}

func TestGeneratePreambleAndTextSection(t *testing.T) {
	def := &ir.Instr{Op: ir.OpFuncDef, Func: "main"}
	ret := &ir.Instr{Op: ir.OpReturn, Target: ir.NewConst(0)}
	def.Next = ret
	stream := buildStream(&ir.FuncBlock{Name: "main", Start: def, End: ret})

	out := NewGenerator().Generate(stream)

	assert.True(t, strings.HasPrefix(out, Preamble), "the assembly must start with the fixed SPIM preamble")
	assert.Contains(t, out, ".text")
	assert.Contains(t, out, "main:")
}

func TestGenFuncEmitsPrologueAndEpilogue(t *testing.T) {
	def := &ir.Instr{Op: ir.OpFuncDef, Func: "f"}
	ret := &ir.Instr{Op: ir.OpReturn, Target: ir.NewConst(7)}
	def.Next = ret
	fb := &ir.FuncBlock{Name: "f", Start: def, End: ret}

	g := NewGenerator()
	g.genFunc(fb)
	out := g.out.String()

	assert.Contains(t, out, "f:")
	assert.Contains(t, out, "sw\t$fp, 0($sp)", "the prologue must push the caller's frame pointer")
	assert.Contains(t, out, "move\t$fp, $sp")
	assert.Contains(t, out, "li\t")
	assert.Contains(t, out, "move\t$v0,")
	assert.Contains(t, out, "move\t$sp, $fp")
	assert.Contains(t, out, "jr\t$ra")
}

func TestGenFuncReservesLocalsSpace(t *testing.T) {
	def := &ir.Instr{Op: ir.OpFuncDef, Func: "f"}
	dec := &ir.Instr{Op: ir.OpDec, Target: ir.NewVar(1, false), Size: 4}
	ret := &ir.Instr{Op: ir.OpReturn, Target: ir.NewVar(1, false)}
	def.Next = dec
	dec.Next = ret
	fb := &ir.FuncBlock{Name: "f", Start: def, End: ret}

	g := NewGenerator()
	g.genFunc(fb)
	out := g.out.String()

	assert.Contains(t, out, "addi\t$sp, $sp, -4", "a single word of locals must shrink the stack by one word")
}

func TestGenInstrArithWithConstantUsesAddImmediate(t *testing.T) {
	def := &ir.Instr{Op: ir.OpFuncDef, Func: "f"}
	add := &ir.Instr{Op: ir.OpArithBop, Target: ir.NewVar(2, true), Lhs: ir.NewVar(1, false), Rhs: ir.NewConst(5), ArithOp: "+"}
	ret := &ir.Instr{Op: ir.OpReturn, Target: ir.NewVar(2, true)}
	def.Next = add
	add.Next = ret
	fb := &ir.FuncBlock{Name: "f", Start: def, End: ret}

	g := NewGenerator()
	g.genFunc(fb)
	out := g.out.String()

	assert.Contains(t, out, "addi\t", "addition of a constant right operand should lower to addi, not add")
	assert.NotContains(t, out, "\tadd\t", "no register-register add should be emitted for a constant operand")
}

func TestGenInstrArithWithTwoVarsUsesRegisterOp(t *testing.T) {
	def := &ir.Instr{Op: ir.OpFuncDef, Func: "f"}
	mul := &ir.Instr{Op: ir.OpArithBop, Target: ir.NewVar(3, true), Lhs: ir.NewVar(1, false), Rhs: ir.NewVar(2, false), ArithOp: "*"}
	ret := &ir.Instr{Op: ir.OpReturn, Target: ir.NewVar(3, true)}
	def.Next = mul
	mul.Next = ret
	fb := &ir.FuncBlock{Name: "f", Start: def, End: ret}

	g := NewGenerator()
	g.genFunc(fb)
	out := g.out.String()

	assert.Contains(t, out, "mul\t")
}

func TestGenInstrCondGotoEmitsBranch(t *testing.T) {
	def := &ir.Instr{Op: ir.OpFuncDef, Func: "f"}
	cg := &ir.Instr{Op: ir.OpCondGoto, Lhs: ir.NewVar(1, false), Relop: "<", Rhs: ir.NewConst(0), Label: 1}
	lbl := &ir.Instr{Op: ir.OpLabel, Label: 1}
	ret := &ir.Instr{Op: ir.OpReturn, Target: ir.NewConst(0)}
	def.Next = cg
	cg.Next = lbl
	lbl.Next = ret
	fb := &ir.FuncBlock{Name: "f", Start: def, End: ret}

	g := NewGenerator()
	g.genFunc(fb)
	out := g.out.String()

	assert.Contains(t, out, "blt\t")
	assert.Contains(t, out, "L1:")
}

func TestGenCallPlacesFirstFourArgsInRegistersAndSavesRA(t *testing.T) {
	def := &ir.Instr{Op: ir.OpFuncDef, Func: "f"}
	arg := &ir.Instr{Op: ir.OpArg, Target: ir.NewConst(9)}
	call := &ir.Instr{Op: ir.OpCall, Target: ir.NewVar(1, true), Func: "g"}
	ret := &ir.Instr{Op: ir.OpReturn, Target: ir.NewVar(1, true)}
	def.Next = arg
	arg.Next = call
	call.Next = ret
	fb := &ir.FuncBlock{Name: "f", Start: def, End: ret}

	g := NewGenerator()
	g.genFunc(fb)
	out := g.out.String()

	assert.Contains(t, out, "move\t$a0,")
	assert.Contains(t, out, "jal\tg")
	assert.Contains(t, out, ", $v0", "the call result must be moved out of $v0 into the target register")
	assert.Contains(t, out, "$ra")
}

func TestGenInstrReadAndWriteEmitJalToRuntimeHelpers(t *testing.T) {
	def := &ir.Instr{Op: ir.OpFuncDef, Func: "f"}
	read := &ir.Instr{Op: ir.OpRead, Target: ir.NewVar(1, false)}
	write := &ir.Instr{Op: ir.OpWrite, Target: ir.NewVar(1, false)}
	ret := &ir.Instr{Op: ir.OpReturn, Target: ir.NewVar(1, false)}
	def.Next = read
	read.Next = write
	write.Next = ret
	fb := &ir.FuncBlock{Name: "f", Start: def, End: ret}

	g := NewGenerator()
	g.genFunc(fb)
	out := g.out.String()

	assert.Contains(t, out, "jal\tread")
	assert.Contains(t, out, "jal\twrite")
	assert.Contains(t, out, "sw\t$ra, 0($sp)\n\tjal\tread", "$ra must be saved immediately before the read helper call")
	assert.Contains(t, out, "jal\tread\n\tlw\t$ra, 0($sp)", "$ra must be restored immediately after the read helper call")
	assert.Contains(t, out, "sw\t$ra, 0($sp)\n\tjal\twrite", "$ra must be saved immediately before the write helper call")
	assert.Contains(t, out, "jal\twrite\n\tlw\t$ra, 0($sp)", "$ra must be restored immediately after the write helper call")
}

func TestBranchOpMapsRelops(t *testing.T) {
	assert.Equal(t, "beq", branchOp("=="))
	assert.Equal(t, "bne", branchOp("!="))
	assert.Equal(t, "blt", branchOp("<"))
	assert.Equal(t, "ble", branchOp("<="))
	assert.Equal(t, "bgt", branchOp(">"))
	assert.Equal(t, "bge", branchOp(">="))
}
