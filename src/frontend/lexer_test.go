package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestLexerTokens verifies the lexer emits the expected token stream for a
// small source snippet exercising keywords, identifiers, integer literals,
// arithmetic and relational operators, && and the brace/paren/semicolon
// punctuation.
func TestLexerTokens(t *testing.T) {
	src := `struct P { int a; float b; }
int f(int x) {
	int y;
	y = x + 1 * 2 - 3 / 4;
	if (x <= 10 && y != 0) {
		return y;
	} else {
		return 0;
	}
	while (x >= 0) { x = x - 1; }
}
`
	exp := []itemType{
		STRUCT, ID, LC, TYPE, ID, SEMI, TYPE, ID, SEMI, RC,
		TYPE, ID, LP, TYPE, ID, RP, LC,
		TYPE, ID, SEMI,
		ID, ASSIGNOP, ID, PLUS, INT, STAR, INT, MINUS, INT, DIV, INT, SEMI,
		IF, LP, ID, RELOP, INT, AND, ID, RELOP, INT, RP, LC,
		RETURN, ID, SEMI,
		RC, ELSE, LC,
		RETURN, INT, SEMI,
		RC,
		WHILE, LP, ID, RELOP, INT, RP, LC, ID, ASSIGNOP, ID, MINUS, INT, SEMI, RC,
		RC,
		itemEOF,
	}

	l := newLexer(src)
	for i, want := range exp {
		tok := l.nextItem()
		assert.Equalf(t, want, tok.typ, "token %d: %s", i, tok.String())
	}
}

func TestLexerBlockComment(t *testing.T) {
	l := newLexer("int /* skip\nthis */ x;")
	assert.Equal(t, TYPE, l.nextItem().typ)
	tok := l.nextItem()
	assert.Equal(t, ID, tok.typ)
	assert.Equal(t, 2, tok.line)
	assert.Equal(t, SEMI, l.nextItem().typ)
	assert.Equal(t, itemEOF, l.nextItem().typ)
}

func TestLexerLineComment(t *testing.T) {
	l := newLexer("int x; // trailing comment\nfloat y;")
	assert.Equal(t, TYPE, l.nextItem().typ)
	assert.Equal(t, ID, l.nextItem().typ)
	assert.Equal(t, SEMI, l.nextItem().typ)
	tok := l.nextItem()
	assert.Equal(t, TYPE, tok.typ)
	assert.Equal(t, 2, tok.line)
}
