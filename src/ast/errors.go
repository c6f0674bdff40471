// errors.go is the closed catalogue of semantic error kinds. Grounded on the
// teacher's validate.go error formatting (fmt.Errorf("...at line %d:%d...")),
// generalised from the teacher's free-text errors to a numbered, closed
// catalogue: each Kind below corresponds 1:1 to one table row of error kinds
// 0-19.
package ast

import "fmt"

// Kind numbers a semantic error. The numbering matches the external error
// taxonomy exactly; there are no gaps, and the constants below are listed in
// numeric order.
type Kind int

const (
	ErrAssumption           Kind = 0  // e.g. non-integer if/while condition, global variable.
	ErrUndefinedVar         Kind = 1
	ErrUndefinedFunc        Kind = 2
	ErrRedefinedVar         Kind = 3
	ErrRedefinedFunc        Kind = 4
	ErrAssignTypeMismatch   Kind = 5
	ErrNotLValue            Kind = 6
	ErrOperandTypeMismatch  Kind = 7
	ErrReturnTypeMismatch   Kind = 8
	ErrArgListMismatch      Kind = 9
	ErrNotArray             Kind = 10
	ErrNotFunction          Kind = 11
	ErrNonIntegerIndex      Kind = 12
	ErrDotOnNonStruct       Kind = 13
	ErrNoSuchField          Kind = 14
	ErrRedefinedField       Kind = 15
	ErrDuplicateStructName  Kind = 16
	ErrUndefinedStruct      Kind = 17
	ErrFunctionNeverDefined Kind = 18
	ErrInconsistentSig      Kind = 19
)

// SemanticError is one diagnostic produced by the analyser. It implements
// error so it can be collected by util.ErrorList.
type SemanticError struct {
	Kind Kind
	Line int
	Msg  string
}

// Error renders the diagnostic in the external wire format: "Error type E at
// Line L: message."
func (e *SemanticError) Error() string {
	return fmt.Sprintf("Error type %d at Line %d: %s.", e.Kind, e.Line, e.Msg)
}

// Newf constructs a SemanticError of kind at line with a formatted message.
func Newf(kind Kind, line int, format string, args ...interface{}) *SemanticError {
	return &SemanticError{Kind: kind, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// TranslationError is a diagnostic raised by the IR translator. Division by
// a constant zero is returned as a TranslationError and terminates
// translation immediately; float literals (Assumption 1) are recorded as
// sticky TranslationErrors and translation continues.
type TranslationError struct {
	Line int
	Msg  string
}

// Error renders the diagnostic in the external translation-error format:
// "Line L: message" (no "Error type" prefix — this is not one of the 19
// numbered semantic kinds).
func (e *TranslationError) Error() string {
	return fmt.Sprintf("Line %d: %s", e.Line, e.Msg)
}

// NewTranslationError constructs a TranslationError at line with a formatted
// message.
func NewTranslationError(line int, format string, args ...interface{}) *TranslationError {
	return &TranslationError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
