// tree.go is frontend's external entry point, kept as a thin wrapper over
// Parser the way the teacher's tree.go wraps its goyacc-generated parser
// behind a single Parse function so callers never construct a lexer or
// parser by hand.
package frontend

import "cmmc/src/ast"

// Parse lexes and parses src, returning the program's syntax tree rooted at
// an ExtDefList node.
func Parse(src string) (*ast.Node, error) {
	return NewParser(src).Parse()
}
