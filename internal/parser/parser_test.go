package parser

import (
	"testing"

	"github.com/ferrolang/ferro/internal/ast"
)

func parseOne(t *testing.T, src string) ast.Node {
	t.Helper()
	prog, err := NewFromString(src).Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	return prog.Statements[0]
}

func TestFunctionDef(t *testing.T) {
	node := parseOne(t, "fun add(a, b) { a + b }")
	def, ok := node.(ast.FunctionDef)
	if !ok {
		t.Fatalf("got %T", node)
	}
	if def.Name != "add" {
		t.Errorf("name: got %q", def.Name)
	}
	if len(def.Params) != 2 || def.Params[0] != "a" || def.Params[1] != "b" {
		t.Errorf("params: got %v", def.Params)
	}
	if len(def.Body) != 1 {
		t.Fatalf("body: got %d statements", len(def.Body))
	}
	if _, ok := def.Body[0].(ast.BinaryOp); !ok {
		t.Errorf("body statement: got %T", def.Body[0])
	}
}

func TestFnKeywordAlias(t *testing.T) {
	node := parseOne(t, "fn id(x) { x }")
	if _, ok := node.(ast.FunctionDef); !ok {
		t.Fatalf("got %T", node)
	}
}

func TestLetMut(t *testing.T) {
	node := parseOne(t, "let mut x = 5;")
	let, ok := node.(ast.LetDecl)
	if !ok {
		t.Fatalf("got %T", node)
	}
	if let.Name != "x" || !let.Mutable {
		t.Errorf("got name=%q mutable=%v", let.Name, let.Mutable)
	}
}

func TestTupleDestructuring(t *testing.T) {
	node := parseOne(t, "let (tx, rx) = mpsc::channel();")
	td, ok := node.(ast.TupleDestruct)
	if !ok {
		t.Fatalf("got %T", node)
	}
	if len(td.Names) != 2 || td.Names[0] != "tx" || td.Names[1] != "rx" {
		t.Errorf("names: got %v", td.Names)
	}
	call, ok := td.Value.(ast.FunctionCall)
	if !ok {
		t.Fatalf("value: got %T", td.Value)
	}
	if call.Name != "mpsc::channel" {
		t.Errorf("call name: got %q", call.Name)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	node := parseOne(t, "1 + 2 * 3")
	add, ok := node.(ast.BinaryOp)
	if !ok {
		t.Fatalf("got %T", node)
	}
	if add.Op != "+" {
		t.Fatalf("root op: got %q", add.Op)
	}
	mul, ok := add.Right.(ast.BinaryOp)
	if !ok || mul.Op != "*" {
		t.Errorf("right: got %T", add.Right)
	}
}

func TestCompoundAssignment(t *testing.T) {
	node := parseOne(t, "x += 5;")
	ca, ok := node.(ast.CompoundAssignment)
	if !ok {
		t.Fatalf("got %T", node)
	}
	if ca.Op != ast.OpAdd {
		t.Errorf("op: got %q", ca.Op)
	}
	if ident, ok := ca.Target.(ast.Identifier); !ok || ident.Name != "x" {
		t.Errorf("target: got %#v", ca.Target)
	}
}

func TestCompoundAssignmentThroughDeref(t *testing.T) {
	node := parseOne(t, "*counter.lock() += 10;")
	ca, ok := node.(ast.CompoundAssignment)
	if !ok {
		t.Fatalf("got %T", node)
	}
	deref, ok := ca.Target.(ast.UnaryOp)
	if !ok || deref.Op != ast.OpDeref {
		t.Fatalf("target: got %#v", ca.Target)
	}
	mc, ok := deref.Operand.(ast.MethodCall)
	if !ok || mc.Method != "lock" {
		t.Errorf("operand: got %#v", deref.Operand)
	}
}

func TestVecMacro(t *testing.T) {
	node := parseOne(t, "vec![1, 2, 3]")
	vm, ok := node.(ast.VecMacro)
	if !ok {
		t.Fatalf("got %T", node)
	}
	if len(vm.Elements) != 3 {
		t.Errorf("elements: got %d", len(vm.Elements))
	}
}

func TestVecMacroRepeat(t *testing.T) {
	node := parseOne(t, "vec![0; 5]")
	vm, ok := node.(ast.VecMacro)
	if !ok {
		t.Fatalf("got %T", node)
	}
	if vm.Repeat == nil || vm.Count == nil {
		t.Fatalf("repeat form not recognized: %#v", vm)
	}
}

func TestRangeExpr(t *testing.T) {
	node := parseOne(t, "0..10")
	r, ok := node.(ast.RangeExpr)
	if !ok {
		t.Fatalf("got %T", node)
	}
	if _, ok := r.Start.(ast.IntegerLiteral); !ok {
		t.Errorf("start: got %T", r.Start)
	}
}

func TestForLoop(t *testing.T) {
	node := parseOne(t, "for i in 0..3 { println(i) }")
	fl, ok := node.(ast.ForLoop)
	if !ok {
		t.Fatalf("got %T", node)
	}
	if fl.Binding != "i" {
		t.Errorf("binding: got %q", fl.Binding)
	}
	if _, ok := fl.Iterable.(ast.RangeExpr); !ok {
		t.Errorf("iterable: got %T", fl.Iterable)
	}
}

func TestMatchArms(t *testing.T) {
	node := parseOne(t, `match x { 1 => "one", other => other, _ => "many" }`)
	m, ok := node.(ast.MatchExpr)
	if !ok {
		t.Fatalf("got %T", node)
	}
	if len(m.Arms) != 3 {
		t.Fatalf("arms: got %d", len(m.Arms))
	}
	if m.Arms[0].Kind != ast.PatternLiteral {
		t.Errorf("arm 0: got %v", m.Arms[0].Kind)
	}
	if m.Arms[1].Kind != ast.PatternIdentifier || m.Arms[1].Name != "other" {
		t.Errorf("arm 1: got %v %q", m.Arms[1].Kind, m.Arms[1].Name)
	}
	if m.Arms[2].Kind != ast.PatternWildcard {
		t.Errorf("arm 2: got %v", m.Arms[2].Kind)
	}
}

func TestPathCall(t *testing.T) {
	node := parseOne(t, "Arc::new(0)")
	call, ok := node.(ast.FunctionCall)
	if !ok {
		t.Fatalf("got %T", node)
	}
	if call.Name != "Arc::new" {
		t.Errorf("name: got %q", call.Name)
	}
	if len(call.Args) != 1 {
		t.Errorf("args: got %d", len(call.Args))
	}
}

func TestMethodCallChain(t *testing.T) {
	node := parseOne(t, "v.push(4)")
	mc, ok := node.(ast.MethodCall)
	if !ok {
		t.Fatalf("got %T", node)
	}
	if mc.Method != "push" || len(mc.Args) != 1 {
		t.Errorf("got method=%q args=%d", mc.Method, len(mc.Args))
	}
}

func TestTupleFieldAccess(t *testing.T) {
	node := parseOne(t, "pair.0")
	fa, ok := node.(ast.FieldAccess)
	if !ok {
		t.Fatalf("got %T", node)
	}
	if fa.Field != "0" {
		t.Errorf("field: got %q", fa.Field)
	}
}

func TestStructLiteralVsBlock(t *testing.T) {
	node := parseOne(t, "Point { x: 1, y: 2 }")
	sl, ok := node.(ast.StructLiteral)
	if !ok {
		t.Fatalf("got %T", node)
	}
	if sl.Name != "Point" || len(sl.Fields) != 2 {
		t.Errorf("got name=%q fields=%v", sl.Name, sl.Fields)
	}

	// A lowercase identifier before a brace is a condition plus block.
	cond := parseOne(t, "if ready { 1 } else { 2 }")
	ifx, ok := cond.(ast.IfExpr)
	if !ok {
		t.Fatalf("got %T", cond)
	}
	if _, ok := ifx.Condition.(ast.Identifier); !ok {
		t.Errorf("condition: got %T", ifx.Condition)
	}
}

func TestHashMapLiteral(t *testing.T) {
	node := parseOne(t, `{"a": 1, "b": 2}`)
	hm, ok := node.(ast.HashMapLiteral)
	if !ok {
		t.Fatalf("got %T", node)
	}
	if len(hm.Keys) != 2 {
		t.Errorf("keys: got %d", len(hm.Keys))
	}
}

func TestClosureArgument(t *testing.T) {
	node := parseOne(t, "thread::spawn(move || { counter })")
	call, ok := node.(ast.FunctionCall)
	if !ok {
		t.Fatalf("got %T", node)
	}
	if call.Name != "thread::spawn" {
		t.Fatalf("name: got %q", call.Name)
	}
	if len(call.Args) != 1 {
		t.Fatalf("args: got %d", len(call.Args))
	}
	if _, ok := call.Args[0].(ast.Closure); !ok {
		t.Errorf("arg: got %T", call.Args[0])
	}
}

func TestUseDeclarations(t *testing.T) {
	node := parseOne(t, "use std::thread;")
	ud, ok := node.(ast.UseDecl)
	if !ok {
		t.Fatalf("got %T", node)
	}
	if ud.Path != "std::thread" {
		t.Errorf("path: got %q", ud.Path)
	}

	grouped := parseOne(t, "use std::sync::{Arc, Mutex};")
	gd, ok := grouped.(ast.GroupedUseDecl)
	if !ok {
		t.Fatalf("got %T", grouped)
	}
	if gd.Prefix != "std::sync" || len(gd.Items) != 2 {
		t.Errorf("got prefix=%q items=%v", gd.Prefix, gd.Items)
	}
}

func TestParseExpressionForInterpolation(t *testing.T) {
	node, err := ParseExpression("a + b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := node.(ast.BinaryOp); !ok {
		t.Errorf("got %T", node)
	}
}

func TestParseErrorReported(t *testing.T) {
	_, err := NewFromString("fun (").Parse()
	if err == nil {
		t.Fatal("expected parse error")
	}
}
