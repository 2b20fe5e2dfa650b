package ferro

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ferrolang/ferro/internal/profile"
	"github.com/ferrolang/ferro/internal/value"
)

func TestEvalBasics(t *testing.T) {
	r := New()
	defer r.Close()

	result, err := r.Eval("1 + 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "3" {
		t.Errorf("got %q", result)
	}
}

func TestEvalNilRendersEmpty(t *testing.T) {
	r := New()
	defer r.Close()

	result, err := r.Eval("let x = 1;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "" {
		t.Errorf("got %q", result)
	}
}

func TestStateSurvivesAcrossEvals(t *testing.T) {
	r := New()
	defer r.Close()

	if _, err := r.Eval("let mut x = 10;"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Eval("x += 5;"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := r.Eval("x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "15" {
		t.Errorf("got %q", result)
	}
}

func TestPreludeLoadedByDefault(t *testing.T) {
	r := New()
	defer r.Close()

	tests := []struct {
		src  string
		want string
	}{
		{"min(3, 5)", "3"},
		{"max(3, 5)", "5"},
		{"abs(-4)", "4"},
		{"sum([1, 2, 3])", "6"},
		{"contains([1, 2, 3], 2)", "true"},
		{"contains([1, 2, 3], 9)", "false"},
	}
	for _, tt := range tests {
		got, err := r.Eval(tt.src)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.src, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestWithNoStdlib(t *testing.T) {
	r := New(WithNoStdlib())
	defer r.Close()

	if _, err := r.Eval("min(1, 2)"); err == nil {
		t.Fatal("expected error calling prelude function")
	}
}

func TestWithPrelude(t *testing.T) {
	r := New(WithPrelude("fun triple(x) { x * 3 }"))
	defer r.Close()

	result, err := r.Eval("triple(4)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "12" {
		t.Errorf("got %q", result)
	}
}

func TestPreludeIsDefinitionsOnly(t *testing.T) {
	// A prelude with a stray top-level effect must not leak bindings.
	r := New(WithPrelude("fun ok() { 1 }\nlet leaked = 9;"))
	defer r.Close()

	if _, err := r.Eval("leaked"); err == nil {
		t.Error("prelude top-level let leaked into the runtime scope")
	}
}

func TestWithOutput(t *testing.T) {
	var out strings.Builder
	r := New(WithOutput(&out))
	defer r.Close()

	if _, err := r.Eval(`println("hello")`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "hello\n" {
		t.Errorf("got %q", out.String())
	}
}

func TestWithMaxCallDepth(t *testing.T) {
	r := New(WithMaxCallDepth(5))
	defer r.Close()

	_, err := r.Eval(`
		fun forever() { forever() }
		forever()
	`)
	if err == nil {
		t.Fatal("expected stack overflow")
	}
	if !strings.Contains(err.Error(), "stack overflow") {
		t.Errorf("got %v", err)
	}
}

func TestEvalValue(t *testing.T) {
	r := New()
	defer r.Close()

	v, err := r.EvalValue(`"quoted"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !value.Equals(v, value.Str{Value: "quoted"}) {
		t.Errorf("got %s", v)
	}
}

func TestWithMemoryStore(t *testing.T) {
	r := New(WithMemoryStore())
	defer r.Close()

	s := r.Store()
	if s == nil {
		t.Fatal("no store configured")
	}
	if err := s.SaveSnippet("x", "1 + 1"); err != nil {
		t.Fatalf("save: %v", err)
	}
	src, ok, err := s.GetSnippet("x")
	if err != nil || !ok || src != "1 + 1" {
		t.Fatalf("get: %q, %v, %v", src, ok, err)
	}
}

func TestWithSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repl.db")
	r := New(WithSQLiteStore(path))
	defer r.Close()

	s := r.Store()
	if s == nil {
		t.Fatal("no store configured")
	}
	if err := s.AppendHistory("1 + 1"); err != nil {
		t.Fatalf("append: %v", err)
	}
	entries, err := s.History(0)
	if err != nil || len(entries) != 1 {
		t.Fatalf("history: %v, %v", entries, err)
	}
}

func TestProfilerOptionsWired(t *testing.T) {
	stack := profile.NewStack()
	perf := profile.NewPerf()
	types := profile.NewTypes()
	r := New(WithStackProfiler(stack), WithPerfProfiler(perf), WithTypeProfiler(types))
	defer r.Close()

	_, err := r.Eval(`
		fun fib(n) {
			if n < 2 { n } else { fib(n - 1) + fib(n - 2) }
		}
		fib(5)
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stack.Count("fib") == 0 {
		t.Error("stack profiler saw no calls")
	}
	if stack.MaxDepth() < 2 {
		t.Errorf("max depth: got %d", stack.MaxDepth())
	}
	if len(types.Signatures("fib")) == 0 {
		t.Error("type profiler saw no signatures")
	}
	if !strings.Contains(perf.Report(), "fib") {
		t.Error("perf profiler saw no calls")
	}
}

func TestEvalFileAndLoadFile(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "main.fr")
	if err := os.WriteFile(script, []byte("fun double(x) { x * 2 }\ndouble(21)"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := New()
	defer r.Close()

	result, err := r.EvalFile(script)
	if err != nil {
		t.Fatalf("eval file: %v", err)
	}
	if result != "42" {
		t.Errorf("got %q", result)
	}

	// LoadFile registers definitions without running top-level code.
	r2 := New()
	defer r2.Close()
	if err := r2.LoadFile(script); err != nil {
		t.Fatalf("load file: %v", err)
	}
	result, err = r2.Eval("double(3)")
	if err != nil {
		t.Fatalf("eval after load: %v", err)
	}
	if result != "6" {
		t.Errorf("got %q", result)
	}
}
