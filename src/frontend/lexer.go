// This lexer is based on, and copied from, Rob Pike's talk on Go scanners.
// Link to the talk on YouTube: https://www.youtube.com/watch?v=HxaD_trXwRE
// Link to presentation slides: https://talks.golang.org/2011/lex.slide#1
//
// The lexer uses state functions stateFunc to define the lexer state. States
// allow the lexer to treat same runes differently depending on context.
// State transitions happen in the current state on appearance of key runes.
// The lexer uses the Go 'character' type 'rune' which enables native UTF-8
// support for the source being scanned. It runs as the sole producer on a
// background goroutine, feeding the single-consumer recursive-descent parser
// over a channel; this is the one place cmmc keeps concurrency, since a
// single producer/single consumer pipeline carries none of the ordering
// hazards the rest of the compiler's single-threaded design rules out.
package frontend

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// stateFunc defines the state of the lexer.
type stateFunc func(*lexer) stateFunc

// item contains a lexeme scanned by the lexer and its position in the source stream.
type item struct {
	typ  itemType // Token type to emit.
	val  string   // Value of token.
	line int      // Line of token in source stream.
	pos  int      // Start position on current line of token in source stream.
}

// lexer is a lexical type that traverses a source stream character by character and emits lexemes.
type lexer struct {
	input       string     // The source stream of characters to scan for lexemes.
	start       int        // The starting position of the current token.
	pos         int        // The current position of the scanner in the source stream.
	width       int        // The width of the currently scanned rune/character in bytes.
	line        int        // The current line in the source stream. Not zero-indexed.
	startOnLine int        // The start position of the current token on the current line. Not zero-indexed.
	state       stateFunc  // The start state of the lexer.
	items       chan item  // A channel for emitting item tokens.
}

const eof = 0 // Same as '\0' for null-terminated C strings.

// String returns a print friendly string representation of the item.
func (i item) String() string {
	switch i.typ {
	case itemEOF:
		return "EOF"
	case itemError:
		return fmt.Sprintf("%s [ERROR]", i.val)
	}
	if len(i.val) > 10 {
		return fmt.Sprintf("%.10q... (line %d:%d)", i.val, i.line, i.pos)
	}
	return fmt.Sprintf("%q (line %d:%d)", i.val, i.line, i.pos)
}

// newLexer creates and returns a pointer to a new lexer and starts its
// producer goroutine.
func newLexer(src string) *lexer {
	l := &lexer{
		input:       src,
		line:        1,
		startOnLine: 1,
		state:       lexGlobal,
		items:       make(chan item, 2),
	}
	go l.run()
	return l
}

// run drives the state machine to completion, emitting items on l.items
// until the source is exhausted or a lexical error is hit.
func (l *lexer) run() {
	defer close(l.items)
	for state := l.state; state != nil; {
		state = state(l)
	}
}

// emit sends an item of type typ back to the caller.
func (l *lexer) emit(typ itemType) {
	l.items <- item{
		typ:  typ,
		val:  l.input[l.start:l.pos],
		line: l.line,
		pos:  l.startOnLine,
	}
	l.startOnLine += len(l.input[l.start:l.pos])
	l.start = l.pos
}

// next returns the next rune in the input. The use of runes makes the lexer UTF-8 compatible.
func (l *lexer) next() (r rune) {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, l.width = utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += l.width
	return r
}

// ignore skips over the pending input before this point.
func (l *lexer) ignore() {
	l.startOnLine += len(l.input[l.start:l.pos])
	l.start = l.pos
}

// backup steps back one rune. Should only be called once per call of next.
func (l *lexer) backup() {
	if l.pos > l.start {
		l.pos -= l.width
	}
}

// peek returns, but does not consume, the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// nextItem returns the next item from the input.
func (l *lexer) nextItem() item {
	i, ok := <-l.items
	if !ok {
		return item{typ: itemEOF}
	}
	return i
}

// errorf returns an error token and terminates the scan by returning a nil
// state, ending l.run.
func (l *lexer) errorf(format string, args ...interface{}) stateFunc {
	l.items <- item{
		typ: itemError,
		val: fmt.Sprintf(format, args...),
	}
	return nil
}

// Error is kept for parity with the teacher's lexer/parser boundary. The
// hand-written parser does not call it; it reports syntax errors through its
// own fail method.
func (l *lexer) Error(e string) error {
	return errors.New(e)
}
