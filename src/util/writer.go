// writer.go provides a small buffered text-emission helper used by the MIPS
// backend. Adapted from the teacher's util.Writer: a similar method shape
// (Write/WriteString/Label/Ins1/Ins2/Ins3/LoadStore/String), but without the
// channel/goroutine fan-in the teacher uses to merge output from parallel
// worker threads — cmmc compiles single-threaded, so a Writer's buffer is
// simply handed back to its caller.

package util

import (
	"fmt"
	"strings"
)

// Writer buffers formatted text output in a strings.Builder.
type Writer struct {
	sb strings.Builder
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write writes a format string to the Writer's buffer.
func (w *Writer) Write(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(&w.sb, format, args...)
}

// WriteString writes a plain string to the Writer's buffer.
func (w *Writer) WriteString(s string) {
	w.sb.WriteString(s)
}

// Ins1 writes a one-line instruction using the operator and single operand.
func (w *Writer) Ins1(op, rs1 string) {
	_, _ = fmt.Fprintf(&w.sb, "\t%s\t%s\n", op, rs1)
}

// Ins2 writes a one-line instruction using the operator, destination and a
// single source operand.
func (w *Writer) Ins2(op, rd, rs1 string) {
	_, _ = fmt.Fprintf(&w.sb, "\t%s\t%s, %s\n", op, rd, rs1)
}

// Ins3 writes a one-line instruction using the operator, destination and two
// source operands.
func (w *Writer) Ins3(op, rd, rs1, rs2 string) {
	_, _ = fmt.Fprintf(&w.sb, "\t%s\t%s, %s, %s\n", op, rd, rs1, rs2)
}

// LoadStore writes a load or store instruction of register reg with offset
// to the register pointer (usually $sp or $fp).
func (w *Writer) LoadStore(op, reg string, offset int, pointer string) {
	_, _ = fmt.Fprintf(&w.sb, "\t%s\t%s, %d(%s)\n", op, reg, offset, pointer)
}

// Label writes a one-line label with the given name.
func (w *Writer) Label(name string) {
	_, _ = fmt.Fprintf(&w.sb, "%s:\n", name)
}

// Comment writes a one-line assembler comment.
func (w *Writer) Comment(format string, args ...interface{}) {
	w.sb.WriteString("\t# ")
	_, _ = fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteString("\n")
}

// String returns the buffered text accumulated so far.
func (w *Writer) String() string {
	return w.sb.String()
}

// Reset empties the Writer's buffer.
func (w *Writer) Reset() {
	w.sb.Reset()
}
