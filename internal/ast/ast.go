// Package ast defines the ferro syntax tree produced by the parser and
// consumed by the evaluator.
package ast

// Node is the interface all AST nodes implement.
// The sealed marker restricts implementations to this package.
type Node interface {
	node()
}

// Program is an ordered sequence of top-level nodes.
type Program struct {
	Statements []Node
}

// Operators for BinaryOp and CompoundAssignment.
const (
	OpAdd = "+"
	OpSub = "-"
	OpMul = "*"
	OpDiv = "/"
	OpMod = "%"
	OpEq  = "=="
	OpNeq = "!="
	OpLt  = "<"
	OpGt  = ">"
	OpLe  = "<="
	OpGe  = ">="
	OpAnd = "&&"
	OpOr  = "||"
)

// Operators for UnaryOp.
const (
	OpNeg   = "-"
	OpNot   = "!"
	OpDeref = "*"
)

// IntegerLiteral is an integer literal.
type IntegerLiteral struct {
	Value int64
}

// FloatLiteral is a floating point literal.
type FloatLiteral struct {
	Value float64
}

// StringLiteral is a plain string literal.
type StringLiteral struct {
	Value string
}

// FString is an interpolated string literal. Raw holds the unparsed body;
// {expr} segments are re-parsed and evaluated at run time.
type FString struct {
	Raw string
}

// BooleanLiteral is true or false.
type BooleanLiteral struct {
	Value bool
}

// NilLiteral is the nil literal.
type NilLiteral struct{}

// Identifier is a variable reference.
type Identifier struct {
	Name string
}

// PathExpr is a :: separated path such as thread::spawn or Color::Red.
// In call position the parser folds it into the FunctionCall name.
type PathExpr struct {
	Segments []string
}

// BinaryOp applies an infix operator to two operands.
type BinaryOp struct {
	Op    string
	Left  Node
	Right Node
}

// UnaryOp applies a prefix operator to one operand.
type UnaryOp struct {
	Op      string
	Operand Node
}

// Block is a braced statement list with its own scope.
type Block struct {
	Statements []Node
}

// FunctionDef declares a named function.
type FunctionDef struct {
	Name   string
	Params []string
	Body   []Node
}

// FunctionCall invokes a builtin or user function by name.
type FunctionCall struct {
	Name string
	Args []Node
}

// MethodCall invokes a method on a receiver value.
type MethodCall struct {
	Receiver Node
	Method   string
	Args     []Node
}

// Closure is an anonymous function body (|| { ... }). Only valid as the
// argument of thread::spawn; evaluating one anywhere else fails.
type Closure struct {
	Params []string
	Body   []Node
}

// Return propagates a value out of the enclosing function.
type Return struct {
	Value Node // nil for a bare return
}

// IfExpr is an if/else-if/else chain; the else branch may be nil.
type IfExpr struct {
	Condition Node
	Then      []Node
	Else      []Node
}

// LetDecl introduces a new binding in the current scope.
type LetDecl struct {
	Name    string
	Mutable bool
	Value   Node
}

// TupleDestruct binds the elements of a tuple to names: let (a, b) = expr.
type TupleDestruct struct {
	Names   []string
	Mutable bool
	Value   Node
}

// Assignment writes to an existing binding or assignable place.
type Assignment struct {
	Target Node // Identifier, IndexAccess, FieldAccess or UnaryOp deref
	Value  Node
}

// CompoundAssignment is target op= value.
type CompoundAssignment struct {
	Target Node
	Op     string // one of OpAdd..OpMod
	Value  Node
}

// WhileLoop runs its body while the condition holds.
type WhileLoop struct {
	Condition Node
	Body      []Node
}

// ForLoop iterates a vector, range or string, binding each element.
type ForLoop struct {
	Binding  string
	Iterable Node
	Body     []Node
}

// RangeExpr is a half-open integer range a..b.
type RangeExpr struct {
	Start Node
	End   Node
}

// PatternKind discriminates match-arm patterns.
type PatternKind int

const (
	// PatternWildcard matches anything without binding: _
	PatternWildcard PatternKind = iota
	// PatternLiteral matches by structural equality against a literal.
	PatternLiteral
	// PatternIdentifier matches anything and binds it to a name.
	PatternIdentifier
)

// MatchArm is one pattern => body pair.
type MatchArm struct {
	Kind    PatternKind
	Literal Node   // for PatternLiteral
	Name    string // for PatternIdentifier
	Body    []Node
}

// MatchExpr evaluates the subject once and runs the first matching arm.
type MatchExpr struct {
	Subject Node
	Arms    []MatchArm
}

// VectorLiteral is [a, b, c].
type VectorLiteral struct {
	Elements []Node
}

// TupleLiteral is (a, b, c).
type TupleLiteral struct {
	Elements []Node
}

// HashMapLiteral is {"k": v, ...}.
type HashMapLiteral struct {
	Keys   []Node
	Values []Node
}

// VecMacro is vec![a, b, c] or vec![elem; count].
type VecMacro struct {
	Elements []Node
	Repeat   Node // element expression for vec![x; n]
	Count    Node // count expression for vec![x; n]
}

// IndexAccess is container[index].
type IndexAccess struct {
	Container Node
	Index     Node
}

// FieldAccess is value.field; numeric fields address tuple positions.
type FieldAccess struct {
	Value Node
	Field string
}

// StructDef declares a struct's field names. Structs are represented as
// hash maps at run time, so the definition itself evaluates to nil.
type StructDef struct {
	Name   string
	Fields []string
}

// StructLiteral is Name { field: value, ... }; evaluates to a hash map.
type StructLiteral struct {
	Name   string
	Fields []string
	Values []Node
}

// UseDecl is a use declaration. Module resolution is a no-op.
type UseDecl struct {
	Path string
}

// GroupedUseDecl is use path::{a, b}. Also a no-op.
type GroupedUseDecl struct {
	Prefix string
	Items  []string
}

func (Program) node()            {}
func (IntegerLiteral) node()     {}
func (FloatLiteral) node()       {}
func (StringLiteral) node()      {}
func (FString) node()            {}
func (BooleanLiteral) node()     {}
func (NilLiteral) node()         {}
func (Identifier) node()         {}
func (PathExpr) node()           {}
func (BinaryOp) node()           {}
func (UnaryOp) node()            {}
func (Block) node()              {}
func (FunctionDef) node()        {}
func (FunctionCall) node()       {}
func (MethodCall) node()         {}
func (Closure) node()            {}
func (Return) node()             {}
func (IfExpr) node()             {}
func (LetDecl) node()            {}
func (TupleDestruct) node()      {}
func (Assignment) node()         {}
func (CompoundAssignment) node() {}
func (WhileLoop) node()          {}
func (ForLoop) node()            {}
func (RangeExpr) node()          {}
func (MatchExpr) node()          {}
func (VectorLiteral) node()      {}
func (TupleLiteral) node()       {}
func (HashMapLiteral) node()     {}
func (VecMacro) node()           {}
func (IndexAccess) node()        {}
func (FieldAccess) node()        {}
func (StructDef) node()          {}
func (StructLiteral) node()      {}
func (UseDecl) node()            {}
func (GroupedUseDecl) node()     {}
