// main.go is cmmc's command-line entry point. Grounded on
// raymyers-ralph-cc-go's cobra-based root command (a single RunE command
// with debug dump flags and SilenceUsage/SilenceErrors so cobra's own usage
// banner never masks a compiler diagnostic), adopted wholesale for cmmc's
// CLI in place of the teacher's hand-rolled util.ParseArgs/flag.FlagSet.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagOut string
	flagAsm bool
	flagIR  bool
	flagAST bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cmmc <source file>",
		Short: "cmmc compiles a small C-like language to MIPS-32 assembly",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompile,
	}
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cmd.Flags().StringVarP(&flagOut, "output", "o", "", "output file path (default: stdout)")
	cmd.Flags().BoolVarP(&flagAsm, "assembly", "S", true, "emit MIPS-32 assembly (default)")
	cmd.Flags().BoolVar(&flagIR, "ir", false, "dump the translated IR text instead of assembly")
	cmd.Flags().BoolVar(&flagAST, "ast", false, "dump the syntax tree instead of assembly")
	return cmd
}

func runCompile(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("could not read source file: %w", err)
	}

	c := NewCompiler()
	genAsm := !flagIR && !flagAST
	res, err := c.CompileSource(string(src), genAsm)
	if err != nil {
		return err
	}

	var out string
	switch {
	case flagAST:
		res.Tree.Print(0)
		return nil
	case flagIR:
		out = res.Stream.String()
	default:
		out = res.Asm
	}

	if flagOut == "" {
		fmt.Print(out)
		return nil
	}
	return os.WriteFile(flagOut, []byte(out), 0644)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cmmc: %s\n", err)
		os.Exit(1)
	}
}
