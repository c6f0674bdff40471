// compiler.go wires the three compiler stages into a single driver type.
// Grounded on the teacher's package-level pipeline in its own main.go (parse,
// then ir.Optimise, then ir.GenerateSymTab/ir.ValidateTree, then
// backend.GenerateAssembler, each short-circuiting the next on error),
// generalised into a Compiler value that owns every piece of shared state
// explicitly instead of through package globals: the structure registry, the
// symbol table, the two id allocators (variables and labels), and the IR
// stream (spec §9's Compiler design note).
package main

import (
	"fmt"

	"cmmc/src/ast"
	"cmmc/src/frontend"
	"cmmc/src/ir"
	"cmmc/src/mips"
	"cmmc/src/util"
)

// Compiler holds every piece of state threaded through the three stages.
type Compiler struct {
	VarIDs   *util.IDAllocator
	LabelIDs *util.Labeler

	Analyser   *ast.Analyser
	Translator *ir.Translator
	Stream     *ir.Stream
	Tree       *ast.Node
}

// NewCompiler returns a Compiler with fresh, zeroed state.
func NewCompiler() *Compiler {
	varIDs := util.NewIDAllocator()
	labelIDs := util.NewLabeler()
	return &Compiler{
		VarIDs:     varIDs,
		LabelIDs:   labelIDs,
		Analyser:   ast.NewAnalyser(varIDs),
		Translator: ir.NewTranslator(varIDs, labelIDs),
	}
}

// Result bundles everything a caller might want out of a successful compile.
type Result struct {
	Tree   *ast.Node
	Stream *ir.Stream
	Asm    string
}

// CompileSource runs all three stages over src in sequence, stopping at the
// first stage that reports any error (spec §2: "if no semantic error,
// invoke IR translation; if no translation error, invoke MIPS generation").
// genAsm controls whether the MIPS backend runs at all; callers that only
// want the syntax tree or the IR text can skip it.
func (c *Compiler) CompileSource(src string, genAsm bool) (*Result, error) {
	tree, err := frontend.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("syntax error: %w", err)
	}
	c.Tree = tree

	c.Analyser.Analyse(tree)
	if c.Analyser.Errs.HasErrors() {
		return nil, joinErrors("semantic error", c.Analyser.Errs.Errors())
	}

	if err := c.Translator.Translate(tree); err != nil {
		return nil, fmt.Errorf("translation error: %w", err)
	}
	if errs := c.Translator.Errors(); len(errs) > 0 {
		return nil, joinErrors("translation error", errs)
	}
	c.Stream = &c.Translator.Stream

	res := &Result{Tree: tree, Stream: c.Stream}
	if !genAsm {
		return res, nil
	}

	gen := mips.NewGenerator()
	res.Asm = gen.Generate(c.Stream)
	return res, nil
}

func joinErrors(label string, errs []error) error {
	msg := label + ":"
	for _, e := range errs {
		msg += "\n" + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
