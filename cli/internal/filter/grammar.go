package filter

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// filterLexer tokenizes where expressions such as
// `age >= 18 and not name like 'a%' or id in (1, 2)`.
var filterLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Keywords (before identifiers)
	{Name: "Keyword", Pattern: `(?i)\b(and|or|not|like|ilike|in|is|between|null|true|false)\b`},

	// Literals
	{Name: "String", Pattern: `'(?:''|[^'])*'`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?`},

	{Name: "Op", Pattern: `<>|!=|<=|>=|=|<|>`},
	{Name: "Punct", Pattern: `[(),]`},

	// Column names
	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_]*`},

	{Name: "Whitespace", Pattern: `\s+`},
})

// expression is the raw parse tree of a where expression.
type expression struct {
	Head *condition `parser:"@@"`
	Tail []*clause  `parser:"@@*"`
}

type clause struct {
	Conjunction string     `parser:"@(\"and\" | \"or\")"`
	Condition   *condition `parser:"@@"`
}

type condition struct {
	Not     bool     `parser:"@\"not\"?"`
	Column  string   `parser:"@Ident"`
	Between *between `parser:"( @@"`
	Compare *compare `parser:"| @@ )"`

	Pos lexer.Position
}

type between struct {
	Low  *value `parser:"\"between\" @@"`
	High *value `parser:"\"and\" @@"`
}

type compare struct {
	Operator []string `parser:"( @Op | @\"is\" @\"not\"? | @\"not\"? @(\"like\" | \"ilike\" | \"in\") )"`
	Value    *value   `parser:"@@"`
}

type value struct {
	Null   bool     `parser:"  @\"null\""`
	Bool   *string  `parser:"| @(\"true\" | \"false\")"`
	Number *string  `parser:"| @Number"`
	String *string  `parser:"| @String"`
	List   []*value `parser:"| \"(\" @@ ( \",\" @@ )* \")\""`

	Pos lexer.Position
}

var parser = participle.MustBuild[expression](
	participle.Lexer(filterLexer),
	participle.CaseInsensitive("Keyword"),
	participle.Elide("Whitespace"),
	participle.UseLookahead(4),
)
