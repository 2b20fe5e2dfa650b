// Package parser implements the recursive-descent parser for ferro.
// It consumes tokens from the lexer and produces the AST the evaluator
// (and any other backend) walks.
package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ferrolang/ferro/internal/ast"
	"github.com/ferrolang/ferro/internal/lexer"
	"github.com/ferrolang/ferro/internal/token"
)

// Operator precedence levels, lowest first.
const (
	precLowest = iota
	precOr
	precAnd
	precEquals
	precCompare
	precRange
	precSum
	precProduct
	precPrefix
	precPostfix
)

var precedences = map[token.Kind]int{
	token.OR:       precOr,
	token.AND:      precAnd,
	token.EQ:       precEquals,
	token.NEQ:      precEquals,
	token.LT:       precCompare,
	token.GT:       precCompare,
	token.LE:       precCompare,
	token.GE:       precCompare,
	token.DOTDOT:   precRange,
	token.PLUS:     precSum,
	token.MINUS:    precSum,
	token.STAR:     precProduct,
	token.SLASH:    precProduct,
	token.PERCENT:  precProduct,
	token.LPAREN:   precPostfix,
	token.LBRACKET: precPostfix,
	token.DOT:      precPostfix,
	token.PATHSEP:  precPostfix,
}

// Parser builds an AST from a token stream.
type Parser struct {
	lex  *lexer.Lexer
	cur  token.Token
	peek token.Token
	errs []string
}

// New creates a Parser reading from r.
func New(r io.Reader) *Parser {
	p := &Parser{lex: lexer.New(r)}
	p.advance()
	p.advance()
	return p
}

// NewFromString creates a Parser over a source string.
func NewFromString(src string) *Parser {
	return New(strings.NewReader(src))
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *Parser) errorf(format string, args ...any) {
	p.errs = append(p.errs, fmt.Sprintf("line %d: %s", p.cur.Line, fmt.Sprintf(format, args...)))
}

func (p *Parser) expect(k token.Kind) bool {
	if p.peek.Kind == k {
		p.advance()
		return true
	}
	p.errorf("expected %s, got %s", k, p.peek.Kind)
	return false
}

// Parse consumes the whole input and returns the program.
func (p *Parser) Parse() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.cur.Kind != token.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.advance()
	}
	if len(p.errs) > 0 {
		return nil, fmt.Errorf("parse error: %s", strings.Join(p.errs, "; "))
	}
	return prog, nil
}

// ParseExpression parses a single expression from src. Used for f-string
// interpolation segments.
func ParseExpression(src string) (ast.Node, error) {
	p := NewFromString(src)
	expr := p.parseExpression(precLowest)
	if len(p.errs) > 0 {
		return nil, fmt.Errorf("parse error: %s", strings.Join(p.errs, "; "))
	}
	if expr == nil {
		return nil, fmt.Errorf("parse error: empty expression")
	}
	return expr, nil
}

func (p *Parser) parseStatement() ast.Node {
	switch p.cur.Kind {
	case token.FUN:
		return p.parseFunctionDef()
	case token.LET:
		return p.parseLet()
	case token.RETURN:
		return p.parseReturn()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.USE:
		return p.parseUse()
	case token.STRUCT:
		return p.parseStructDef()
	case token.SEMICOLON:
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

// parseExpressionStatement parses an expression and promotes it to an
// assignment or compound assignment when an assignment operator follows.
func (p *Parser) parseExpressionStatement() ast.Node {
	expr := p.parseExpression(precLowest)
	if expr == nil {
		return nil
	}

	switch p.peek.Kind {
	case token.ASSIGN:
		p.advance()
		p.advance()
		val := p.parseExpression(precLowest)
		p.skipTerminator()
		return ast.Assignment{Target: expr, Value: val}
	case token.PLUSEQ, token.MINUSEQ, token.STAREQ, token.SLASHEQ, token.PCTEQ:
		op := compoundOp(p.peek.Kind)
		p.advance()
		p.advance()
		val := p.parseExpression(precLowest)
		p.skipTerminator()
		return ast.CompoundAssignment{Target: expr, Op: op, Value: val}
	}
	p.skipTerminator()
	return expr
}

func compoundOp(k token.Kind) string {
	switch k {
	case token.PLUSEQ:
		return ast.OpAdd
	case token.MINUSEQ:
		return ast.OpSub
	case token.STAREQ:
		return ast.OpMul
	case token.SLASHEQ:
		return ast.OpDiv
	case token.PCTEQ:
		return ast.OpMod
	}
	return ""
}

func (p *Parser) skipTerminator() {
	if p.peek.Kind == token.SEMICOLON {
		p.advance()
	}
}

func (p *Parser) parseFunctionDef() ast.Node {
	if !p.expect(token.IDENT) {
		return nil
	}
	name := p.cur.Literal
	if !p.expect(token.LPAREN) {
		return nil
	}
	params := p.parseParamList()
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatements()
	return ast.FunctionDef{Name: name, Params: params, Body: body}
}

// parseParamList parses comma-separated parameter names up to the closing
// paren. Type annotations (name: type) are accepted and discarded.
func (p *Parser) parseParamList() []string {
	var params []string
	for p.peek.Kind != token.RPAREN && p.peek.Kind != token.EOF {
		if !p.expect(token.IDENT) {
			return params
		}
		params = append(params, p.cur.Literal)
		if p.peek.Kind == token.COLON {
			p.advance()
			p.skipType()
		}
		if p.peek.Kind == token.COMMA {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	return params
}

// skipType discards a type annotation. Only simple names and paths appear
// in ferro sources; generics are not part of the language.
func (p *Parser) skipType() {
	if p.peek.Kind == token.AMP {
		p.advance()
	}
	if p.peek.Kind == token.IDENT {
		p.advance()
	}
	for p.peek.Kind == token.PATHSEP {
		p.advance()
		if p.peek.Kind == token.IDENT {
			p.advance()
		}
	}
}

// parseBlockStatements parses statements until the matching closing brace.
// The opening brace is the current token.
func (p *Parser) parseBlockStatements() []ast.Node {
	var stmts []ast.Node
	p.advance()
	for p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.advance()
	}
	if p.cur.Kind != token.RBRACE {
		p.errorf("expected }, got %s", p.cur.Kind)
	}
	return stmts
}

func (p *Parser) parseLet() ast.Node {
	mutable := false
	if p.peek.Kind == token.MUT {
		p.advance()
		mutable = true
	}

	// let (a, b) = expr  — tuple destructuring
	if p.peek.Kind == token.LPAREN {
		p.advance()
		var names []string
		for p.peek.Kind != token.RPAREN && p.peek.Kind != token.EOF {
			if !p.expect(token.IDENT) {
				return nil
			}
			names = append(names, p.cur.Literal)
			if p.peek.Kind == token.COMMA {
				p.advance()
			}
		}
		if !p.expect(token.RPAREN) {
			return nil
		}
		if !p.expect(token.ASSIGN) {
			return nil
		}
		p.advance()
		val := p.parseExpression(precLowest)
		p.skipTerminator()
		return ast.TupleDestruct{Names: names, Mutable: mutable, Value: val}
	}

	if !p.expect(token.IDENT) {
		return nil
	}
	name := p.cur.Literal
	if p.peek.Kind == token.COLON {
		p.advance()
		p.skipType()
	}
	if !p.expect(token.ASSIGN) {
		return nil
	}
	p.advance()
	val := p.parseExpression(precLowest)
	p.skipTerminator()
	return ast.LetDecl{Name: name, Mutable: mutable, Value: val}
}

func (p *Parser) parseReturn() ast.Node {
	if p.peek.Kind == token.SEMICOLON || p.peek.Kind == token.RBRACE {
		p.skipTerminator()
		return ast.Return{}
	}
	p.advance()
	val := p.parseExpression(precLowest)
	p.skipTerminator()
	return ast.Return{Value: val}
}

func (p *Parser) parseWhile() ast.Node {
	p.advance()
	cond := p.parseExpression(precLowest)
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatements()
	return ast.WhileLoop{Condition: cond, Body: body}
}

func (p *Parser) parseFor() ast.Node {
	if !p.expect(token.IDENT) {
		return nil
	}
	binding := p.cur.Literal
	if !p.expect(token.IN) {
		return nil
	}
	p.advance()
	iterable := p.parseExpression(precLowest)
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatements()
	return ast.ForLoop{Binding: binding, Iterable: iterable, Body: body}
}

func (p *Parser) parseUse() ast.Node {
	var segs []string
	for {
		if !p.expect(token.IDENT) {
			return nil
		}
		segs = append(segs, p.cur.Literal)
		if p.peek.Kind != token.PATHSEP {
			break
		}
		p.advance()
		// use prefix::{a, b}
		if p.peek.Kind == token.LBRACE {
			p.advance()
			var items []string
			for p.peek.Kind != token.RBRACE && p.peek.Kind != token.EOF {
				if !p.expect(token.IDENT) {
					return nil
				}
				items = append(items, p.cur.Literal)
				if p.peek.Kind == token.COMMA {
					p.advance()
				}
			}
			p.expect(token.RBRACE)
			p.skipTerminator()
			return ast.GroupedUseDecl{Prefix: strings.Join(segs, "::"), Items: items}
		}
	}
	p.skipTerminator()
	return ast.UseDecl{Path: strings.Join(segs, "::")}
}

func (p *Parser) parseStructDef() ast.Node {
	if !p.expect(token.IDENT) {
		return nil
	}
	name := p.cur.Literal
	if !p.expect(token.LBRACE) {
		return nil
	}
	var fields []string
	for p.peek.Kind != token.RBRACE && p.peek.Kind != token.EOF {
		if !p.expect(token.IDENT) {
			return nil
		}
		fields = append(fields, p.cur.Literal)
		if p.peek.Kind == token.COLON {
			p.advance()
			p.skipType()
		}
		if p.peek.Kind == token.COMMA {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return ast.StructDef{Name: name, Fields: fields}
}

func (p *Parser) parseExpression(prec int) ast.Node {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}
	for prec < p.peekPrecedence() {
		switch p.peek.Kind {
		case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
			token.EQ, token.NEQ, token.LT, token.GT, token.LE, token.GE,
			token.AND, token.OR:
			op := p.peek.Literal
			opPrec := precedences[p.peek.Kind]
			p.advance()
			p.advance()
			right := p.parseExpression(opPrec)
			left = ast.BinaryOp{Op: op, Left: left, Right: right}
		case token.DOTDOT:
			p.advance()
			p.advance()
			end := p.parseExpression(precRange)
			left = ast.RangeExpr{Start: left, End: end}
		case token.LPAREN:
			left = p.parseCall(left)
		case token.LBRACKET:
			p.advance()
			p.advance()
			idx := p.parseExpression(precLowest)
			p.expect(token.RBRACKET)
			left = ast.IndexAccess{Container: left, Index: idx}
		case token.DOT:
			left = p.parseDot(left)
		case token.PATHSEP:
			left = p.parsePath(left)
		default:
			return left
		}
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peek.Kind]; ok {
		return prec
	}
	return precLowest
}

func (p *Parser) parsePrefix() ast.Node {
	switch p.cur.Kind {
	case token.INT:
		n, err := strconv.ParseInt(p.cur.Literal, 10, 64)
		if err != nil {
			p.errorf("invalid integer %q", p.cur.Literal)
			return nil
		}
		return ast.IntegerLiteral{Value: n}
	case token.FLOAT:
		f, err := strconv.ParseFloat(p.cur.Literal, 64)
		if err != nil {
			p.errorf("invalid float %q", p.cur.Literal)
			return nil
		}
		return ast.FloatLiteral{Value: f}
	case token.STRING:
		return ast.StringLiteral{Value: p.cur.Literal}
	case token.FSTRING:
		return ast.FString{Raw: p.cur.Literal}
	case token.TRUE:
		return ast.BooleanLiteral{Value: true}
	case token.FALSE:
		return ast.BooleanLiteral{Value: false}
	case token.NIL:
		return ast.NilLiteral{}
	case token.IDENT:
		return p.parseIdentExpr()
	case token.MINUS:
		p.advance()
		operand := p.parseExpression(precPrefix)
		return ast.UnaryOp{Op: ast.OpNeg, Operand: operand}
	case token.BANG:
		p.advance()
		operand := p.parseExpression(precPrefix)
		return ast.UnaryOp{Op: ast.OpNot, Operand: operand}
	case token.STAR:
		p.advance()
		operand := p.parseExpression(precPrefix)
		return ast.UnaryOp{Op: ast.OpDeref, Operand: operand}
	case token.AMP:
		// References are a no-op in the mock ownership model.
		p.advance()
		return p.parsePrefix()
	case token.LPAREN:
		return p.parseParenOrTuple()
	case token.LBRACKET:
		return p.parseVectorLiteral()
	case token.LBRACE:
		return p.parseBraceExpr()
	case token.IF:
		return p.parseIf()
	case token.MATCH:
		return p.parseMatch()
	case token.PIPE, token.OR:
		return p.parseClosure()
	case token.MOVE:
		p.advance()
		return p.parseClosure()
	case token.UNDER:
		return ast.Identifier{Name: "_"}
	default:
		p.errorf("unexpected token %s", p.cur.Kind)
		return nil
	}
}

// parseIdentExpr handles plain identifiers plus the constructs that hang
// off an identifier: vec![...] and Name { ... } struct literals.
func (p *Parser) parseIdentExpr() ast.Node {
	name := p.cur.Literal

	if name == "vec" && p.peek.Kind == token.BANG {
		p.advance()
		return p.parseVecMacro()
	}

	// Struct literals require a capitalized name to disambiguate from
	// blocks ("if x {" must not parse x as a struct literal).
	if p.peek.Kind == token.LBRACE && isCapitalized(name) {
		return p.parseStructLiteral(name)
	}

	return ast.Identifier{Name: name}
}

func isCapitalized(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

func (p *Parser) parseVecMacro() ast.Node {
	if !p.expect(token.LBRACKET) {
		return nil
	}
	if p.peek.Kind == token.RBRACKET {
		p.advance()
		return ast.VecMacro{}
	}
	p.advance()
	first := p.parseExpression(precLowest)

	// vec![elem; count]
	if p.peek.Kind == token.SEMICOLON {
		p.advance()
		p.advance()
		count := p.parseExpression(precLowest)
		p.expect(token.RBRACKET)
		return ast.VecMacro{Repeat: first, Count: count}
	}

	elems := []ast.Node{first}
	for p.peek.Kind == token.COMMA {
		p.advance()
		if p.peek.Kind == token.RBRACKET {
			break
		}
		p.advance()
		elems = append(elems, p.parseExpression(precLowest))
	}
	p.expect(token.RBRACKET)
	return ast.VecMacro{Elements: elems}
}

func (p *Parser) parseStructLiteral(name string) ast.Node {
	p.advance() // consume {
	var fields []string
	var values []ast.Node
	for p.peek.Kind != token.RBRACE && p.peek.Kind != token.EOF {
		if !p.expect(token.IDENT) {
			return nil
		}
		fields = append(fields, p.cur.Literal)
		if !p.expect(token.COLON) {
			return nil
		}
		p.advance()
		values = append(values, p.parseExpression(precLowest))
		if p.peek.Kind == token.COMMA {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return ast.StructLiteral{Name: name, Fields: fields, Values: values}
}

func (p *Parser) parseParenOrTuple() ast.Node {
	if p.peek.Kind == token.RPAREN {
		p.advance()
		return ast.TupleLiteral{}
	}
	p.advance()
	first := p.parseExpression(precLowest)
	if p.peek.Kind != token.COMMA {
		p.expect(token.RPAREN)
		return first
	}
	elems := []ast.Node{first}
	for p.peek.Kind == token.COMMA {
		p.advance()
		if p.peek.Kind == token.RPAREN {
			break
		}
		p.advance()
		elems = append(elems, p.parseExpression(precLowest))
	}
	p.expect(token.RPAREN)
	return ast.TupleLiteral{Elements: elems}
}

func (p *Parser) parseVectorLiteral() ast.Node {
	var elems []ast.Node
	for p.peek.Kind != token.RBRACKET && p.peek.Kind != token.EOF {
		p.advance()
		elems = append(elems, p.parseExpression(precLowest))
		if p.peek.Kind == token.COMMA {
			p.advance()
		}
	}
	p.expect(token.RBRACKET)
	return ast.VectorLiteral{Elements: elems}
}

// parseBraceExpr disambiguates hash map literals from blocks in expression
// position: {"k": v} is a map, anything else is a block. Empty braces are
// an empty map.
func (p *Parser) parseBraceExpr() ast.Node {
	if p.peek.Kind == token.RBRACE {
		p.advance()
		return ast.HashMapLiteral{}
	}
	if p.peek.Kind == token.STRING {
		var keys, values []ast.Node
		for p.peek.Kind != token.RBRACE && p.peek.Kind != token.EOF {
			p.advance()
			keys = append(keys, p.parseExpression(precLowest))
			if !p.expect(token.COLON) {
				return nil
			}
			p.advance()
			values = append(values, p.parseExpression(precLowest))
			if p.peek.Kind == token.COMMA {
				p.advance()
			}
		}
		p.expect(token.RBRACE)
		return ast.HashMapLiteral{Keys: keys, Values: values}
	}
	stmts := p.parseBlockStatements()
	return ast.Block{Statements: stmts}
}

func (p *Parser) parseIf() ast.Node {
	p.advance()
	cond := p.parseExpression(precLowest)
	if !p.expect(token.LBRACE) {
		return nil
	}
	then := p.parseBlockStatements()

	var els []ast.Node
	if p.peek.Kind == token.ELSE {
		p.advance()
		if p.peek.Kind == token.IF {
			p.advance()
			nested := p.parseIf()
			if nested != nil {
				els = []ast.Node{nested}
			}
		} else if p.expect(token.LBRACE) {
			els = p.parseBlockStatements()
		}
	}
	return ast.IfExpr{Condition: cond, Then: then, Else: els}
}

func (p *Parser) parseMatch() ast.Node {
	p.advance()
	subject := p.parseExpression(precLowest)
	if !p.expect(token.LBRACE) {
		return nil
	}

	var arms []ast.MatchArm
	for p.peek.Kind != token.RBRACE && p.peek.Kind != token.EOF {
		p.advance()
		arm, ok := p.parseMatchArm()
		if !ok {
			return nil
		}
		arms = append(arms, arm)
		if p.peek.Kind == token.COMMA {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return ast.MatchExpr{Subject: subject, Arms: arms}
}

func (p *Parser) parseMatchArm() (ast.MatchArm, bool) {
	var arm ast.MatchArm
	switch p.cur.Kind {
	case token.UNDER:
		arm.Kind = ast.PatternWildcard
	case token.IDENT:
		arm.Kind = ast.PatternIdentifier
		arm.Name = p.cur.Literal
	default:
		arm.Kind = ast.PatternLiteral
		lit := p.parseExpression(precLowest)
		if lit == nil {
			return arm, false
		}
		arm.Literal = lit
	}
	if !p.expect(token.FATARROW) {
		return arm, false
	}
	p.advance()
	if p.cur.Kind == token.LBRACE {
		arm.Body = p.parseBlockStatements()
	} else {
		expr := p.parseExpression(precLowest)
		if expr == nil {
			return arm, false
		}
		arm.Body = []ast.Node{expr}
	}
	return arm, true
}

// parseClosure parses || { ... } or |a, b| { ... }. The current token is
// either PIPE, or OR when the parameter list is empty.
func (p *Parser) parseClosure() ast.Node {
	var params []string
	if p.cur.Kind == token.PIPE {
		for p.peek.Kind != token.PIPE && p.peek.Kind != token.EOF {
			if !p.expect(token.IDENT) {
				return nil
			}
			params = append(params, p.cur.Literal)
			if p.peek.Kind == token.COMMA {
				p.advance()
			}
		}
		p.expect(token.PIPE)
	}
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatements()
	return ast.Closure{Params: params, Body: body}
}

func (p *Parser) parseCall(callee ast.Node) ast.Node {
	var name string
	switch c := callee.(type) {
	case ast.Identifier:
		name = c.Name
	case ast.PathExpr:
		name = strings.Join(c.Segments, "::")
	default:
		p.errorf("cannot call a %T", callee)
		return nil
	}
	p.advance() // now on (
	args := p.parseCallArgs()
	return ast.FunctionCall{Name: name, Args: args}
}

func (p *Parser) parseCallArgs() []ast.Node {
	var args []ast.Node
	for p.peek.Kind != token.RPAREN && p.peek.Kind != token.EOF {
		p.advance()
		arg := p.parseExpression(precLowest)
		if arg == nil {
			return args
		}
		args = append(args, arg)
		if p.peek.Kind == token.COMMA {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	return args
}

// parseDot handles method calls, field access and tuple projections.
func (p *Parser) parseDot(recv ast.Node) ast.Node {
	p.advance() // now on .
	switch p.peek.Kind {
	case token.INT:
		p.advance()
		return ast.FieldAccess{Value: recv, Field: p.cur.Literal}
	case token.IDENT:
		p.advance()
		name := p.cur.Literal
		if p.peek.Kind == token.LPAREN {
			p.advance()
			args := p.parseCallArgs()
			return ast.MethodCall{Receiver: recv, Method: name, Args: args}
		}
		return ast.FieldAccess{Value: recv, Field: name}
	default:
		p.errorf("expected field or method after '.', got %s", p.peek.Kind)
		return nil
	}
}

// parsePath folds A::B::C into a PathExpr, or a FunctionCall when a call
// follows (Arc::new(x)).
func (p *Parser) parsePath(left ast.Node) ast.Node {
	ident, ok := left.(ast.Identifier)
	if !ok {
		p.errorf("invalid path segment %T", left)
		return nil
	}
	segs := []string{ident.Name}
	for p.peek.Kind == token.PATHSEP {
		p.advance()
		if !p.expect(token.IDENT) {
			return nil
		}
		segs = append(segs, p.cur.Literal)
	}
	if p.peek.Kind == token.LPAREN {
		return p.parseCall(ast.PathExpr{Segments: segs})
	}
	return ast.PathExpr{Segments: segs}
}
