// Package eval implements the ferro tree-walking evaluator.
//
// The evaluator owns the current lexical scope, the user function
// registry, the call-depth guard and the arc store (the sole aliasing
// mechanism of the runtime). It is created once per program run; multiple
// evaluators are fully isolated from each other.
package eval

import (
	"fmt"
	"strings"

	"github.com/ferrolang/ferro/internal/ast"
	"github.com/ferrolang/ferro/internal/parser"
	"github.com/ferrolang/ferro/internal/scope"
	"github.com/ferrolang/ferro/internal/value"
)

// DefaultMaxCallDepth bounds recursion so the guard fires before the host
// stack is exhausted. The value is conservative and tunable, not an
// architectural invariant.
const DefaultMaxCallDepth = 1000

// OutputWriter receives println/print output.
type OutputWriter func(text string) error

// Evaluator interprets ferro ASTs.
type Evaluator struct {
	scope        *scope.Scope
	functions    map[string]value.Function
	callDepth    int
	callStack    []string // active function names, most recent last
	maxCallDepth int

	// arcStore is the shared-value arena for the mock Arc model. Entries
	// are created by Arc::new and never evicted, so long-running
	// evaluators leak memory proportional to Arc::new calls. That
	// mirrors the original runtime and is deliberate.
	arcStore  map[int64]value.Value
	nextArcID int64

	outputWriter OutputWriter

	perf  PerfProfiler
	stack StackProfiler
	types TypeProfiler
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMaxCallDepth sets the recursion limit.
func WithMaxCallDepth(depth int) Option {
	return func(e *Evaluator) {
		if depth > 0 {
			e.maxCallDepth = depth
		}
	}
}

// WithOutputWriter sets the writer for println/print output.
func WithOutputWriter(w OutputWriter) Option {
	return func(e *Evaluator) { e.outputWriter = w }
}

// WithPerfProfiler attaches a performance profiler.
func WithPerfProfiler(p PerfProfiler) Option {
	return func(e *Evaluator) { e.perf = p }
}

// WithStackProfiler attaches a stack-depth profiler.
func WithStackProfiler(p StackProfiler) Option {
	return func(e *Evaluator) { e.stack = p }
}

// WithTypeProfiler attaches a type-observation profiler.
func WithTypeProfiler(p TypeProfiler) Option {
	return func(e *Evaluator) { e.types = p }
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		scope:        scope.New(),
		functions:    make(map[string]value.Function),
		maxCallDepth: DefaultMaxCallDepth,
		arcStore:     make(map[int64]value.Value),
		nextArcID:    1,
		outputWriter: func(text string) error {
			fmt.Print(text)
			return nil
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxCallDepth returns the configured recursion limit.
func (e *Evaluator) MaxCallDepth() int {
	return e.maxCallDepth
}

// Scope returns the evaluator's current scope.
func (e *Evaluator) Scope() *scope.Scope {
	return e.scope
}

// flow is the two-variant control-flow result threaded through every
// statement-list evaluation: a plain value, or an early return.
type flow struct {
	val value.Value
	ret bool
}

func valueFlow(v value.Value) flow {
	return flow{val: v}
}

// EvalProgram evaluates a parsed program and returns the value of its
// last statement. A top-level return yields its value.
func (e *Evaluator) EvalProgram(prog *ast.Program) (value.Value, error) {
	if e.perf != nil {
		e.perf.StartEval()
		defer e.perf.StopEval()
	}
	f, err := e.evalStatements(prog.Statements)
	if err != nil {
		return nil, err
	}
	return f.val, nil
}

// Eval evaluates a single node, unwrapping the control-flow result:
// both a plain value and an early return yield the value.
func (e *Evaluator) Eval(node ast.Node) (value.Value, error) {
	if e.perf != nil {
		e.perf.StartEval()
		defer e.perf.StopEval()
	}
	f, err := e.evalNode(node)
	if err != nil {
		return nil, err
	}
	return f.val, nil
}

// EvalSource parses and evaluates ferro source text.
func (e *Evaluator) EvalSource(src string) (value.Value, error) {
	prog, err := parser.NewFromString(src).Parse()
	if err != nil {
		return nil, err
	}
	return e.EvalProgram(prog)
}

// LoadSource evaluates only the function and struct definitions in src,
// skipping top-level effects. Used to preload libraries.
func (e *Evaluator) LoadSource(src string) error {
	prog, err := parser.NewFromString(src).Parse()
	if err != nil {
		return err
	}
	for _, stmt := range prog.Statements {
		switch stmt.(type) {
		case ast.FunctionDef, ast.StructDef, ast.UseDecl, ast.GroupedUseDecl:
			if _, err := e.evalNode(stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

// evalStatements runs a statement list in the current scope. The first
// Return stops execution and propagates upward unchanged; plain values
// update the running last value.
func (e *Evaluator) evalStatements(stmts []ast.Node) (flow, error) {
	last := flow{val: value.Nil{}}
	for _, stmt := range stmts {
		f, err := e.evalNode(stmt)
		if err != nil {
			return flow{}, err
		}
		if f.ret {
			return f, nil
		}
		last = f
	}
	return last, nil
}

// evalInChildScope runs a statement list in a fresh child scope, restoring
// the prior scope on every exit path.
func (e *Evaluator) evalInChildScope(stmts []ast.Node) (flow, error) {
	prev := e.scope
	e.scope = prev.CreateChild()
	f, err := e.evalStatements(stmts)
	e.scope = prev
	return f, err
}

func (e *Evaluator) evalNode(node ast.Node) (flow, error) {
	switch n := node.(type) {
	case ast.IntegerLiteral:
		return valueFlow(value.Integer{Value: n.Value}), nil
	case ast.FloatLiteral:
		return valueFlow(value.Float{Value: n.Value}), nil
	case ast.StringLiteral:
		return valueFlow(value.Str{Value: n.Value}), nil
	case ast.BooleanLiteral:
		return valueFlow(value.Boolean{Value: n.Value}), nil
	case ast.NilLiteral:
		return valueFlow(value.Nil{}), nil
	case ast.FString:
		return e.evalFString(n)
	case ast.Identifier:
		v, ok := e.scope.GetCloned(n.Name)
		if !ok {
			return flow{}, &UndefinedVariableError{Name: n.Name}
		}
		return valueFlow(v), nil
	case ast.PathExpr:
		name := strings.Join(n.Segments, "::")
		v, ok := e.scope.GetCloned(name)
		if !ok {
			return flow{}, &UndefinedVariableError{Name: name}
		}
		return valueFlow(v), nil
	case ast.BinaryOp:
		return e.evalBinaryOp(n)
	case ast.UnaryOp:
		return e.evalUnaryOp(n)
	case ast.Block:
		return e.evalInChildScope(n.Statements)
	case ast.FunctionDef:
		e.functions[n.Name] = value.Function{Params: n.Params, Body: n.Body}
		return valueFlow(value.Nil{}), nil
	case ast.FunctionCall:
		return e.evalFunctionCall(n)
	case ast.MethodCall:
		return e.evalMethodCall(n)
	case ast.Closure:
		return flow{}, &UnsupportedOperationError{Msg: "closures are only supported as thread::spawn arguments"}
	case ast.Return:
		if n.Value == nil {
			return flow{val: value.Nil{}, ret: true}, nil
		}
		f, err := e.evalNode(n.Value)
		if err != nil {
			return flow{}, err
		}
		return flow{val: f.val, ret: true}, nil
	case ast.IfExpr:
		return e.evalIf(n)
	case ast.LetDecl:
		f, err := e.evalNode(n.Value)
		if err != nil {
			return flow{}, err
		}
		e.scope.Define(n.Name, f.val)
		return valueFlow(value.Nil{}), nil
	case ast.TupleDestruct:
		return e.evalTupleDestruct(n)
	case ast.Assignment:
		f, err := e.evalNode(n.Value)
		if err != nil {
			return flow{}, err
		}
		if err := e.assignTo(n.Target, f.val); err != nil {
			return flow{}, err
		}
		return valueFlow(value.Nil{}), nil
	case ast.CompoundAssignment:
		return e.evalCompoundAssignment(n)
	case ast.WhileLoop:
		return e.evalWhile(n)
	case ast.ForLoop:
		return e.evalFor(n)
	case ast.RangeExpr:
		return e.evalRange(n)
	case ast.MatchExpr:
		return e.evalMatch(n)
	case ast.VectorLiteral:
		elems, err := e.evalNodeList(n.Elements)
		if err != nil {
			return flow{}, err
		}
		if e.perf != nil {
			e.perf.RecordAllocation(len(elems))
		}
		return valueFlow(value.Vector{Elements: elems}), nil
	case ast.TupleLiteral:
		elems, err := e.evalNodeList(n.Elements)
		if err != nil {
			return flow{}, err
		}
		return valueFlow(value.Tuple{Elements: elems}), nil
	case ast.HashMapLiteral:
		return e.evalHashMapLiteral(n)
	case ast.VecMacro:
		return e.evalVecMacro(n)
	case ast.IndexAccess:
		return e.evalIndexAccess(n)
	case ast.FieldAccess:
		return e.evalFieldAccess(n)
	case ast.StructDef:
		return valueFlow(value.Nil{}), nil
	case ast.StructLiteral:
		return e.evalStructLiteral(n)
	case ast.UseDecl, ast.GroupedUseDecl:
		// Module resolution is a no-op.
		return valueFlow(value.Nil{}), nil
	case *ast.Program:
		return e.evalStatements(n.Statements)
	default:
		return flow{}, &UnsupportedOperationError{Msg: fmt.Sprintf("cannot evaluate %T", node)}
	}
}

func (e *Evaluator) evalNodeList(nodes []ast.Node) ([]value.Value, error) {
	vals := make([]value.Value, 0, len(nodes))
	for _, node := range nodes {
		f, err := e.evalNode(node)
		if err != nil {
			return nil, err
		}
		vals = append(vals, f.val)
	}
	return vals, nil
}

func (e *Evaluator) evalBinaryOp(n ast.BinaryOp) (flow, error) {
	left, err := e.evalNode(n.Left)
	if err != nil {
		return flow{}, err
	}
	right, err := e.evalNode(n.Right)
	if err != nil {
		return flow{}, err
	}
	v, err := applyBinaryOp(n.Op, left.val, right.val)
	if err != nil {
		return flow{}, err
	}
	return valueFlow(v), nil
}

func applyBinaryOp(op string, left, right value.Value) (value.Value, error) {
	switch op {
	case ast.OpAdd:
		return value.Add(left, right)
	case ast.OpSub:
		return value.Subtract(left, right)
	case ast.OpMul:
		return value.Multiply(left, right)
	case ast.OpDiv:
		return value.Divide(left, right)
	case ast.OpMod:
		return value.Modulo(left, right)
	case ast.OpEq:
		return value.Boolean{Value: value.Equals(left, right)}, nil
	case ast.OpNeq:
		return value.Boolean{Value: !value.Equals(left, right)}, nil
	case ast.OpLt:
		return value.LessThan(left, right)
	case ast.OpGt:
		return value.GreaterThan(left, right)
	case ast.OpLe:
		gt, err := value.GreaterThan(left, right)
		if err != nil {
			return nil, err
		}
		return value.LogicalNot(gt)
	case ast.OpGe:
		lt, err := value.LessThan(left, right)
		if err != nil {
			return nil, err
		}
		return value.LogicalNot(lt)
	case ast.OpAnd:
		return value.LogicalAnd(left, right)
	case ast.OpOr:
		return value.LogicalOr(left, right)
	}
	return nil, &UnsupportedOperationError{Msg: "unknown operator " + op}
}

func (e *Evaluator) evalUnaryOp(n ast.UnaryOp) (flow, error) {
	f, err := e.evalNode(n.Operand)
	if err != nil {
		return flow{}, err
	}
	switch n.Op {
	case ast.OpNeg:
		v, err := value.Negate(f.val)
		if err != nil {
			return flow{}, err
		}
		return valueFlow(v), nil
	case ast.OpNot:
		v, err := value.LogicalNot(f.val)
		if err != nil {
			return flow{}, err
		}
		return valueFlow(v), nil
	case ast.OpDeref:
		return valueFlow(derefValue(f.val)), nil
	}
	return flow{}, &UnsupportedOperationError{Msg: "unknown unary operator " + n.Op}
}

func (e *Evaluator) evalIf(n ast.IfExpr) (flow, error) {
	cond, err := e.evalNode(n.Condition)
	if err != nil {
		return flow{}, err
	}
	ok, err := value.Truthy(cond.val)
	if err != nil {
		return flow{}, err
	}
	if ok {
		return e.evalInChildScope(n.Then)
	}
	if n.Else != nil {
		return e.evalInChildScope(n.Else)
	}
	return valueFlow(value.Nil{}), nil
}

func (e *Evaluator) evalTupleDestruct(n ast.TupleDestruct) (flow, error) {
	f, err := e.evalNode(n.Value)
	if err != nil {
		return flow{}, err
	}
	tup, ok := f.val.(value.Tuple)
	if !ok {
		return flow{}, &UnsupportedOperationError{
			Msg: "cannot destructure a " + f.val.Type() + " into a tuple pattern",
		}
	}
	if len(tup.Elements) != len(n.Names) {
		return flow{}, &UnsupportedOperationError{
			Msg: fmt.Sprintf("tuple pattern has %d name(s) but value has %d element(s)",
				len(n.Names), len(tup.Elements)),
		}
	}
	for i, name := range n.Names {
		e.scope.Define(name, tup.Elements[i].Clone())
	}
	return valueFlow(value.Nil{}), nil
}

func (e *Evaluator) evalWhile(n ast.WhileLoop) (flow, error) {
	for {
		cond, err := e.evalNode(n.Condition)
		if err != nil {
			return flow{}, err
		}
		ok, err := value.Truthy(cond.val)
		if err != nil {
			return flow{}, err
		}
		if !ok {
			return valueFlow(value.Nil{}), nil
		}
		// Fresh child scope per iteration so the body may redeclare
		// the same let name every time around.
		f, err := e.evalInChildScope(n.Body)
		if err != nil {
			return flow{}, err
		}
		if f.ret {
			return f, nil
		}
	}
}

func (e *Evaluator) evalFor(n ast.ForLoop) (flow, error) {
	iter, err := e.evalNode(n.Iterable)
	if err != nil {
		return flow{}, err
	}

	var elems []value.Value
	switch it := iter.val.(type) {
	case value.Vector:
		elems = it.Elements
	case value.Tuple:
		elems = it.Elements
	case value.Str:
		for _, r := range it.Value {
			elems = append(elems, value.Str{Value: string(r)})
		}
	default:
		return flow{}, &UnsupportedOperationError{Msg: "cannot iterate a " + iter.val.Type()}
	}

	for _, elem := range elems {
		prev := e.scope
		e.scope = prev.CreateChild()
		e.scope.Define(n.Binding, elem.Clone())
		f, err := e.evalStatements(n.Body)
		e.scope = prev
		if err != nil {
			return flow{}, err
		}
		if f.ret {
			return f, nil
		}
	}
	return valueFlow(value.Nil{}), nil
}

func (e *Evaluator) evalRange(n ast.RangeExpr) (flow, error) {
	start, err := e.evalNode(n.Start)
	if err != nil {
		return flow{}, err
	}
	end, err := e.evalNode(n.End)
	if err != nil {
		return flow{}, err
	}
	s, ok := start.val.(value.Integer)
	if !ok {
		return flow{}, &value.TypeMismatchError{Op: "range", Want: value.TypeInteger, Got: start.val.Type()}
	}
	en, ok := end.val.(value.Integer)
	if !ok {
		return flow{}, &value.TypeMismatchError{Op: "range", Want: value.TypeInteger, Got: end.val.Type()}
	}
	var elems []value.Value
	for i := s.Value; i < en.Value; i++ {
		elems = append(elems, value.Integer{Value: i})
	}
	return valueFlow(value.Vector{Elements: elems}), nil
}

func (e *Evaluator) evalMatch(n ast.MatchExpr) (flow, error) {
	subject, err := e.evalNode(n.Subject)
	if err != nil {
		return flow{}, err
	}
	for _, arm := range n.Arms {
		switch arm.Kind {
		case ast.PatternWildcard:
			return e.evalInChildScope(arm.Body)
		case ast.PatternLiteral:
			lit, err := e.evalNode(arm.Literal)
			if err != nil {
				return flow{}, err
			}
			if value.Equals(subject.val, lit.val) {
				return e.evalInChildScope(arm.Body)
			}
		case ast.PatternIdentifier:
			prev := e.scope
			e.scope = prev.CreateChild()
			e.scope.Define(arm.Name, subject.val.Clone())
			f, err := e.evalStatements(arm.Body)
			e.scope = prev
			return f, err
		}
	}
	return flow{}, &NoMatchArmError{}
}

func (e *Evaluator) evalHashMapLiteral(n ast.HashMapLiteral) (flow, error) {
	m := value.NewMap()
	for i, keyNode := range n.Keys {
		kf, err := e.evalNode(keyNode)
		if err != nil {
			return flow{}, err
		}
		key, ok := kf.val.(value.Str)
		if !ok {
			return flow{}, &value.TypeMismatchError{Op: "hashmap key", Want: value.TypeString, Got: kf.val.Type()}
		}
		vf, err := e.evalNode(n.Values[i])
		if err != nil {
			return flow{}, err
		}
		m.Entries[key.Value] = vf.val
	}
	return valueFlow(m), nil
}

func (e *Evaluator) evalVecMacro(n ast.VecMacro) (flow, error) {
	// vec![elem; count] clones the element count times.
	if n.Repeat != nil {
		ef, err := e.evalNode(n.Repeat)
		if err != nil {
			return flow{}, err
		}
		cf, err := e.evalNode(n.Count)
		if err != nil {
			return flow{}, err
		}
		count, ok := cf.val.(value.Integer)
		if !ok {
			return flow{}, &value.TypeMismatchError{Op: "vec! count", Want: value.TypeInteger, Got: cf.val.Type()}
		}
		if count.Value < 0 {
			return flow{}, &value.InvalidOperationError{Msg: "vec! count is negative"}
		}
		elems := make([]value.Value, count.Value)
		for i := range elems {
			elems[i] = ef.val.Clone()
		}
		if e.perf != nil {
			e.perf.RecordAllocation(len(elems))
		}
		return valueFlow(value.Vector{Elements: elems}), nil
	}

	elems, err := e.evalNodeList(n.Elements)
	if err != nil {
		return flow{}, err
	}
	if e.perf != nil {
		e.perf.RecordAllocation(len(elems))
	}
	return valueFlow(value.Vector{Elements: elems}), nil
}

func (e *Evaluator) evalIndexAccess(n ast.IndexAccess) (flow, error) {
	container, err := e.evalNode(n.Container)
	if err != nil {
		return flow{}, err
	}
	idx, err := e.evalNode(n.Index)
	if err != nil {
		return flow{}, err
	}
	v, err := value.Index(container.val, idx.val)
	if err != nil {
		return flow{}, err
	}
	return valueFlow(v), nil
}

func (e *Evaluator) evalFieldAccess(n ast.FieldAccess) (flow, error) {
	f, err := e.evalNode(n.Value)
	if err != nil {
		return flow{}, err
	}
	switch recv := f.val.(type) {
	case value.Map:
		v, err := value.Get(recv, n.Field)
		if err != nil {
			return flow{}, err
		}
		return valueFlow(v), nil
	case value.Tuple:
		var i int64
		if _, err := fmt.Sscanf(n.Field, "%d", &i); err != nil {
			return flow{}, &UnsupportedOperationError{Msg: "tuple field " + n.Field}
		}
		v, err := value.Index(recv, value.Integer{Value: i})
		if err != nil {
			return flow{}, err
		}
		return valueFlow(v), nil
	}
	return flow{}, &value.TypeMismatchError{Op: "field access", Want: "hashmap or tuple", Got: f.val.Type()}
}

func (e *Evaluator) evalStructLiteral(n ast.StructLiteral) (flow, error) {
	m := value.NewMap()
	for i, field := range n.Fields {
		f, err := e.evalNode(n.Values[i])
		if err != nil {
			return flow{}, err
		}
		m.Entries[field] = f.val
	}
	return valueFlow(m), nil
}

// evalFString interpolates {expr} segments by re-parsing and evaluating
// them, rendering results with the println (unquoted) formatting rule.
func (e *Evaluator) evalFString(n ast.FString) (flow, error) {
	var sb strings.Builder
	raw := n.Raw
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '\\' && i+1 < len(raw) {
			switch raw[i+1] {
			case '{', '}', '\\':
				sb.WriteByte(raw[i+1])
				i++
				continue
			}
		}
		if c != '{' {
			sb.WriteByte(c)
			continue
		}
		depth := 1
		j := i + 1
		for ; j < len(raw); j++ {
			switch raw[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				break
			}
		}
		if depth != 0 {
			return flow{}, &UnsupportedOperationError{Msg: "unterminated interpolation in f-string"}
		}
		expr, err := parser.ParseExpression(raw[i+1 : j])
		if err != nil {
			return flow{}, err
		}
		f, err := e.evalNode(expr)
		if err != nil {
			return flow{}, err
		}
		sb.WriteString(value.PrintString(f.val))
		i = j
	}
	return valueFlow(value.Str{Value: sb.String()}), nil
}
