// Package token defines the lexical token kinds of the ferro language.
package token

// Kind identifies a lexical token class.
type Kind int

const (
	EOF Kind = iota
	ILLEGAL

	// Literals and names
	IDENT   // fib, x
	INT     // 42
	FLOAT   // 3.14
	STRING  // "hello"
	FSTRING // f"x is {x}"

	// Operators
	ASSIGN   // =
	PLUS     // +
	MINUS    // -
	STAR     // *
	SLASH    // /
	PERCENT  // %
	BANG     // !
	AMP      // &
	PIPE     // |
	EQ       // ==
	NEQ      // !=
	LT       // <
	GT       // >
	LE       // <=
	GE       // >=
	AND      // &&
	OR       // ||
	PLUSEQ   // +=
	MINUSEQ  // -=
	STAREQ   // *=
	SLASHEQ  // /=
	PCTEQ    // %=
	ARROW    // ->
	FATARROW // =>
	DOTDOT   // ..

	// Delimiters
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	PATHSEP   // ::
	DOT       // .
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	UNDER     // _

	// Keywords
	FUN
	LET
	MUT
	IF
	ELSE
	WHILE
	FOR
	IN
	RETURN
	MATCH
	STRUCT
	USE
	MOVE
	TRUE
	FALSE
	NIL
)

// Token is a lexed token with its source text and position.
type Token struct {
	Kind    Kind
	Literal string
	Line    int // 1-based line the token starts on
}

var keywords = map[string]Kind{
	"fun":    FUN,
	"fn":     FUN, // accepted alias
	"let":    LET,
	"mut":    MUT,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"for":    FOR,
	"in":     IN,
	"return": RETURN,
	"match":  MATCH,
	"struct": STRUCT,
	"use":    USE,
	"move":   MOVE,
	"true":   TRUE,
	"false":  FALSE,
	"nil":    NIL,
}

// LookupIdent returns the keyword kind for an identifier, or IDENT.
func LookupIdent(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return IDENT
}

// String returns a debug name for the token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

var kindNames = map[Kind]string{
	EOF:       "EOF",
	ILLEGAL:   "ILLEGAL",
	IDENT:     "IDENT",
	INT:       "INT",
	FLOAT:     "FLOAT",
	STRING:    "STRING",
	FSTRING:   "FSTRING",
	ASSIGN:    "=",
	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	PERCENT:   "%",
	BANG:      "!",
	AMP:       "&",
	PIPE:      "|",
	EQ:        "==",
	NEQ:       "!=",
	LT:        "<",
	GT:        ">",
	LE:        "<=",
	GE:        ">=",
	AND:       "&&",
	OR:        "||",
	PLUSEQ:    "+=",
	MINUSEQ:   "-=",
	STAREQ:    "*=",
	SLASHEQ:   "/=",
	PCTEQ:     "%=",
	ARROW:     "->",
	FATARROW:  "=>",
	DOTDOT:    "..",
	COMMA:     ",",
	SEMICOLON: ";",
	COLON:     ":",
	PATHSEP:   "::",
	DOT:       ".",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
	UNDER:     "_",
	FUN:       "fun",
	LET:       "let",
	MUT:       "mut",
	IF:        "if",
	ELSE:      "else",
	WHILE:     "while",
	FOR:       "for",
	IN:        "in",
	RETURN:    "return",
	MATCH:     "match",
	STRUCT:    "struct",
	USE:       "use",
	MOVE:      "move",
	TRUE:      "true",
	FALSE:     "false",
	NIL:       "nil",
}
