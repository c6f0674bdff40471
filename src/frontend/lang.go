package frontend

type reservedItem struct {
	val string
	typ itemType
}

// rw contains the set of all reserved keywords. The first dimension equals
// the length of the word; the second dimension is the slice of all words of
// that length. Indexing by length and searching should be faster than using
// a hash table, the same trade-off the teacher's VSL lexer made.
var rw = [...][]reservedItem{
	// One-grams
	{},
	// Two-grams
	{
		{val: "if", typ: IF},
	},
	// Three-grams
	{
		{val: "int", typ: TYPE},
	},
	// Four-grams
	{
		{val: "else", typ: ELSE},
	},
	// Five-grams
	{
		{val: "float", typ: TYPE},
		{val: "while", typ: WHILE},
	},
	// Six-grams
	{
		{val: "return", typ: RETURN},
		{val: "struct", typ: STRUCT},
	},
}

// isKeyword returns true if the string s is a reserved keyword.
// On the return of true the itemType of the keyword is returned.
// On the return of false the itemType is either ID or itemError.
func isKeyword(s string) (bool, itemType) {
	if len(s) == 0 {
		return false, itemError
	}
	if len(s) > len(rw) {
		return false, ID
	}

	// Check if string s is a reserved word by iterating over all words in rw of length len(s).
	for _, e1 := range rw[len(s)-1] {
		if e1.val == s {
			return true, e1.typ
		}
	}
	return false, ID
}
