package lexer

import (
	"testing"

	"github.com/ferrolang/ferro/internal/token"
)

func collect(t *testing.T, src string) []token.Token {
	t.Helper()
	l := NewFromString(src)
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks := collect(t, "fun let mut while foo _bar")
	want := []token.Kind{token.FUN, token.LET, token.MUT, token.WHILE, token.IDENT, token.IDENT, token.EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
	if toks[4].Literal != "foo" || toks[5].Literal != "_bar" {
		t.Errorf("identifier literals: got %q, %q", toks[4].Literal, toks[5].Literal)
	}
}

func TestTwoCharOperators(t *testing.T) {
	tests := []struct {
		src  string
		kind token.Kind
	}{
		{"==", token.EQ},
		{"!=", token.NEQ},
		{"<=", token.LE},
		{">=", token.GE},
		{"&&", token.AND},
		{"||", token.OR},
		{"+=", token.PLUSEQ},
		{"-=", token.MINUSEQ},
		{"*=", token.STAREQ},
		{"/=", token.SLASHEQ},
		{"%=", token.PCTEQ},
		{"::", token.PATHSEP},
		{"..", token.DOTDOT},
		{"=>", token.FATARROW},
	}
	for _, tt := range tests {
		toks := collect(t, tt.src)
		if toks[0].Kind != tt.kind {
			t.Errorf("%s: got %s, want %s", tt.src, toks[0].Kind, tt.kind)
		}
	}
}

func TestNumbers(t *testing.T) {
	toks := collect(t, "42 3.25")
	if toks[0].Kind != token.INT || toks[0].Literal != "42" {
		t.Errorf("int: got %s %q", toks[0].Kind, toks[0].Literal)
	}
	if toks[1].Kind != token.FLOAT || toks[1].Literal != "3.25" {
		t.Errorf("float: got %s %q", toks[1].Kind, toks[1].Literal)
	}
}

func TestRangeIsNotAFloat(t *testing.T) {
	toks := collect(t, "0..10")
	want := []token.Kind{token.INT, token.DOTDOT, token.INT, token.EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
	if toks[0].Literal != "0" || toks[2].Literal != "10" {
		t.Errorf("range bounds: got %q, %q", toks[0].Literal, toks[2].Literal)
	}
}

func TestStringsAndEscapes(t *testing.T) {
	toks := collect(t, `"a\nb\"c"`)
	if toks[0].Kind != token.STRING {
		t.Fatalf("got %s", toks[0].Kind)
	}
	if toks[0].Literal != "a\nb\"c" {
		t.Errorf("got %q", toks[0].Literal)
	}
}

func TestFString(t *testing.T) {
	toks := collect(t, `f"x is {x}"`)
	if toks[0].Kind != token.FSTRING {
		t.Fatalf("got %s", toks[0].Kind)
	}
	if toks[0].Literal != "x is {x}" {
		t.Errorf("got %q", toks[0].Literal)
	}
}

func TestFStringKeepsBraceEscapes(t *testing.T) {
	toks := collect(t, `f"\{x} is {x}"`)
	if toks[0].Kind != token.FSTRING {
		t.Fatalf("got %s", toks[0].Kind)
	}
	if toks[0].Literal != `\{x} is {x}` {
		t.Errorf("got %q", toks[0].Literal)
	}
}

func TestPlainStringUnescapesBraces(t *testing.T) {
	toks := collect(t, `"\{a\}"`)
	if toks[0].Literal != "{a}" {
		t.Errorf("got %q", toks[0].Literal)
	}
}

func TestFPrefixedIdentifier(t *testing.T) {
	toks := collect(t, "fib(n)")
	if toks[0].Kind != token.IDENT || toks[0].Literal != "fib" {
		t.Errorf("got %s %q", toks[0].Kind, toks[0].Literal)
	}
}

func TestLineComments(t *testing.T) {
	toks := collect(t, "1 // comment\n2")
	want := []token.Kind{token.INT, token.INT, token.EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
	if toks[1].Line != 2 {
		t.Errorf("second token line: got %d", toks[1].Line)
	}
}

func TestUnderscoreToken(t *testing.T) {
	toks := collect(t, "_ =>")
	if toks[0].Kind != token.UNDER {
		t.Errorf("got %s", toks[0].Kind)
	}
	if toks[1].Kind != token.FATARROW {
		t.Errorf("got %s", toks[1].Kind)
	}
}

func TestLineTracking(t *testing.T) {
	toks := collect(t, "a\nb\n\nc")
	lines := []int{1, 2, 4}
	for i, want := range lines {
		if toks[i].Line != want {
			t.Errorf("token %d: line %d, want %d", i, toks[i].Line, want)
		}
	}
}
