// Package lexer provides a streaming Unicode-aware lexer for ferro source.
package lexer

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/ferrolang/ferro/internal/token"
)

// Lexer tokenizes ferro input rune-by-rune.
type Lexer struct {
	reader  *bufio.Reader
	pending []rune // pushback stack, innermost last
	line    int    // current line number (1-based)
}

// New creates a new Lexer from an io.Reader.
func New(r io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(r),
		line:   1,
	}
}

// NewFromString creates a new Lexer from a string.
func NewFromString(s string) *Lexer {
	return New(strings.NewReader(s))
}

// Line returns the current line number (1-based).
func (l *Lexer) Line() int {
	return l.line
}

func (l *Lexer) read() (rune, bool) {
	var r rune
	if n := len(l.pending); n > 0 {
		r = l.pending[n-1]
		l.pending = l.pending[:n-1]
	} else {
		var err error
		r, _, err = l.reader.ReadRune()
		if err != nil {
			return 0, false
		}
	}
	if r == '\n' {
		l.line++
	}
	return r, true
}

func (l *Lexer) unread(r rune) {
	if r == '\n' {
		l.line--
	}
	l.pending = append(l.pending, r)
}

func (l *Lexer) peek() rune {
	r, ok := l.read()
	if !ok {
		return 0
	}
	l.unread(r)
	return r
}

// Next returns the next token in the stream.
func (l *Lexer) Next() token.Token {
	l.skipWhitespaceAndComments()

	line := l.line
	r, ok := l.read()
	if !ok {
		return token.Token{Kind: token.EOF, Line: line}
	}

	switch r {
	case '=':
		if l.peek() == '=' {
			l.read()
			return token.Token{Kind: token.EQ, Literal: "==", Line: line}
		}
		if l.peek() == '>' {
			l.read()
			return token.Token{Kind: token.FATARROW, Literal: "=>", Line: line}
		}
		return token.Token{Kind: token.ASSIGN, Literal: "=", Line: line}
	case '+':
		if l.peek() == '=' {
			l.read()
			return token.Token{Kind: token.PLUSEQ, Literal: "+=", Line: line}
		}
		return token.Token{Kind: token.PLUS, Literal: "+", Line: line}
	case '-':
		if l.peek() == '=' {
			l.read()
			return token.Token{Kind: token.MINUSEQ, Literal: "-=", Line: line}
		}
		if l.peek() == '>' {
			l.read()
			return token.Token{Kind: token.ARROW, Literal: "->", Line: line}
		}
		return token.Token{Kind: token.MINUS, Literal: "-", Line: line}
	case '*':
		if l.peek() == '=' {
			l.read()
			return token.Token{Kind: token.STAREQ, Literal: "*=", Line: line}
		}
		return token.Token{Kind: token.STAR, Literal: "*", Line: line}
	case '/':
		if l.peek() == '=' {
			l.read()
			return token.Token{Kind: token.SLASHEQ, Literal: "/=", Line: line}
		}
		return token.Token{Kind: token.SLASH, Literal: "/", Line: line}
	case '%':
		if l.peek() == '=' {
			l.read()
			return token.Token{Kind: token.PCTEQ, Literal: "%=", Line: line}
		}
		return token.Token{Kind: token.PERCENT, Literal: "%", Line: line}
	case '!':
		if l.peek() == '=' {
			l.read()
			return token.Token{Kind: token.NEQ, Literal: "!=", Line: line}
		}
		return token.Token{Kind: token.BANG, Literal: "!", Line: line}
	case '<':
		if l.peek() == '=' {
			l.read()
			return token.Token{Kind: token.LE, Literal: "<=", Line: line}
		}
		return token.Token{Kind: token.LT, Literal: "<", Line: line}
	case '>':
		if l.peek() == '=' {
			l.read()
			return token.Token{Kind: token.GE, Literal: ">=", Line: line}
		}
		return token.Token{Kind: token.GT, Literal: ">", Line: line}
	case '&':
		if l.peek() == '&' {
			l.read()
			return token.Token{Kind: token.AND, Literal: "&&", Line: line}
		}
		return token.Token{Kind: token.AMP, Literal: "&", Line: line}
	case '|':
		if l.peek() == '|' {
			l.read()
			return token.Token{Kind: token.OR, Literal: "||", Line: line}
		}
		return token.Token{Kind: token.PIPE, Literal: "|", Line: line}
	case ':':
		if l.peek() == ':' {
			l.read()
			return token.Token{Kind: token.PATHSEP, Literal: "::", Line: line}
		}
		return token.Token{Kind: token.COLON, Literal: ":", Line: line}
	case '.':
		if l.peek() == '.' {
			l.read()
			return token.Token{Kind: token.DOTDOT, Literal: "..", Line: line}
		}
		return token.Token{Kind: token.DOT, Literal: ".", Line: line}
	case ',':
		return token.Token{Kind: token.COMMA, Literal: ",", Line: line}
	case ';':
		return token.Token{Kind: token.SEMICOLON, Literal: ";", Line: line}
	case '(':
		return token.Token{Kind: token.LPAREN, Literal: "(", Line: line}
	case ')':
		return token.Token{Kind: token.RPAREN, Literal: ")", Line: line}
	case '{':
		return token.Token{Kind: token.LBRACE, Literal: "{", Line: line}
	case '}':
		return token.Token{Kind: token.RBRACE, Literal: "}", Line: line}
	case '[':
		return token.Token{Kind: token.LBRACKET, Literal: "[", Line: line}
	case ']':
		return token.Token{Kind: token.RBRACKET, Literal: "]", Line: line}
	case '"':
		return l.lexString(line, false)
	}

	if r == 'f' && l.peek() == '"' {
		l.read() // opening quote
		t := l.lexString(line, true)
		t.Kind = token.FSTRING
		return t
	}

	if unicode.IsDigit(r) {
		return l.lexNumber(r, line)
	}

	if isIdentStart(r) {
		return l.lexIdent(r, line)
	}

	return token.Token{Kind: token.ILLEGAL, Literal: string(r), Line: line}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		r, ok := l.read()
		if !ok {
			return
		}
		if unicode.IsSpace(r) {
			continue
		}
		// Line comments: // to end of line
		if r == '/' && l.peek() == '/' {
			for {
				c, ok := l.read()
				if !ok || c == '\n' {
					break
				}
			}
			continue
		}
		l.unread(r)
		return
	}
}

// lexString consumes a string body after the opening quote, handling
// backslash escapes. The opening quote is already consumed. In fstring
// mode brace and backslash escapes are kept intact so the interpolator
// can tell an escaped brace from an interpolation opener.
func (l *Lexer) lexString(line int, fstring bool) token.Token {
	var sb strings.Builder
	for {
		r, ok := l.read()
		if !ok {
			return token.Token{Kind: token.ILLEGAL, Literal: sb.String(), Line: line}
		}
		if r == '"' {
			return token.Token{Kind: token.STRING, Literal: sb.String(), Line: line}
		}
		if r == '\\' {
			esc, ok := l.read()
			if !ok {
				return token.Token{Kind: token.ILLEGAL, Literal: sb.String(), Line: line}
			}
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '"':
				sb.WriteRune('"')
			case '\\':
				if fstring {
					sb.WriteString(`\\`)
				} else {
					sb.WriteRune('\\')
				}
			case '{', '}':
				if fstring {
					sb.WriteRune('\\')
				}
				sb.WriteRune(esc)
			default:
				sb.WriteRune(esc)
			}
			continue
		}
		sb.WriteRune(r)
	}
}

func (l *Lexer) lexNumber(first rune, line int) token.Token {
	var sb strings.Builder
	sb.WriteRune(first)
	isFloat := false
	for {
		r, ok := l.read()
		if !ok {
			break
		}
		if unicode.IsDigit(r) {
			sb.WriteRune(r)
			continue
		}
		// A single dot followed by a digit makes a float; ".." is a range.
		if r == '.' && !isFloat {
			next := l.peek()
			if unicode.IsDigit(next) {
				isFloat = true
				sb.WriteRune(r)
				continue
			}
			l.unread(r)
			break
		}
		l.unread(r)
		break
	}
	kind := token.INT
	if isFloat {
		kind = token.FLOAT
	}
	return token.Token{Kind: kind, Literal: sb.String(), Line: line}
}

func (l *Lexer) lexIdent(first rune, line int) token.Token {
	var sb strings.Builder
	sb.WriteRune(first)
	for {
		r, ok := l.read()
		if !ok {
			break
		}
		if isIdentPart(r) {
			sb.WriteRune(r)
			continue
		}
		l.unread(r)
		break
	}
	lit := sb.String()
	if lit == "_" {
		return token.Token{Kind: token.UNDER, Literal: lit, Line: line}
	}
	return token.Token{Kind: token.LookupIdent(lit), Literal: lit, Line: line}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
