package ir_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmmc/src/ast"
	"cmmc/src/frontend"
	"cmmc/src/ir"
	"cmmc/src/util"
)

func translate(t *testing.T, src string) (*ir.Translator, error) {
	t.Helper()
	tree, err := frontend.Parse(src)
	require.NoError(t, err)

	ids := util.NewIDAllocator()
	a := ast.NewAnalyser(ids)
	a.Analyse(tree)
	require.False(t, a.Errs.HasErrors(), "unexpected semantic errors: %v", a.Errs.Errors())

	tr := ir.NewTranslator(ids, util.NewLabeler())
	err = tr.Translate(tree)
	return tr, err
}

func TestTranslateConstantFoldedReturn(t *testing.T) {
	tr, err := translate(t, `int main() { return 1+2*3; }`)
	require.NoError(t, err)
	text := tr.Stream.String()
	assert.Contains(t, text, "RETURN #7")
}

func TestTranslateIfReturnsLabelSequencing(t *testing.T) {
	tr, err := translate(t, `int f(int x) { if (x < 0) return 0; return x; }`)
	require.NoError(t, err)
	text := tr.Stream.String()
	assert.Contains(t, text, "GOTO L")
	assert.Contains(t, text, "RETURN #0")
	assert.Contains(t, text, "RETURN v")
}

func TestTranslateArrayElementAssignment(t *testing.T) {
	tr, err := translate(t, `int f() { int a[3]; a[2] = a[0] + 1; return 0; }`)
	require.NoError(t, err)
	text := tr.Stream.String()
	assert.True(t, strings.Contains(text, ":= &"), "expected a Ref instruction synthesising an element address, got:\n%s", text)
	assert.True(t, strings.Contains(text, "+"), "expected an ArithBop instruction, got:\n%s", text)
	assert.True(t, strings.Contains(text, "*"), "expected a DerefAssign instruction, got:\n%s", text)
}

func TestTranslateDivideByConstantZeroIsFatal(t *testing.T) {
	_, err := translate(t, `int f() { return 1/0; }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Division by zero")
}

func TestTranslateWhileLoopBackEdge(t *testing.T) {
	tr, err := translate(t, `int f() { int i; i = 0; while (i < 10) { i = i + 1; } return i; }`)
	require.NoError(t, err)
	text := tr.Stream.String()
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var gotos, labels int
	for _, l := range lines {
		if strings.HasPrefix(l, "GOTO") {
			gotos++
		}
		if strings.HasPrefix(l, "LABEL") {
			labels++
		}
	}
	assert.GreaterOrEqual(t, gotos, 1)
	assert.GreaterOrEqual(t, labels, 1)
}
