package profile

import (
	"strings"
	"testing"
)

func TestStackTracksMaxDepthAndChain(t *testing.T) {
	s := NewStack()
	s.RecordCall("f", 1, []string{"f"})
	s.RecordCall("g", 2, []string{"f", "g"})
	s.RecordCall("h", 3, []string{"f", "g", "h"})
	s.RecordCall("g", 2, []string{"f", "g"})

	if s.MaxDepth() != 3 {
		t.Errorf("max depth: got %d", s.MaxDepth())
	}
	if s.TotalCalls() != 4 {
		t.Errorf("total calls: got %d", s.TotalCalls())
	}
	if s.Count("g") != 2 {
		t.Errorf("count(g): got %d", s.Count("g"))
	}
	chain := s.DeepestChain()
	if len(chain) != 3 || chain[0] != "f" || chain[2] != "h" {
		t.Errorf("deepest chain: got %v", chain)
	}
}

func TestStackChainIsASnapshot(t *testing.T) {
	s := NewStack()
	live := []string{"f"}
	s.RecordCall("f", 1, live)
	live[0] = "mutated"

	if got := s.DeepestChain(); got[0] != "f" {
		t.Errorf("chain aliases the live stack: %v", got)
	}
}

func TestStackReport(t *testing.T) {
	s := NewStack()
	s.RecordCall("fib", 1, []string{"fib"})
	s.RecordCall("fib", 2, []string{"fib", "fib"})

	r := s.Report()
	for _, want := range []string{"total calls: 2", "max depth: 2", "fib -> fib"} {
		if !strings.Contains(r, want) {
			t.Errorf("report missing %q:\n%s", want, r)
		}
	}
}

func TestPerfCountsCallsAndAllocations(t *testing.T) {
	p := NewPerf()
	p.StartEval()
	p.EnterFunction("work")
	p.RecordAllocation(5)
	p.RecordAllocation(3)
	p.ExitFunction("work")
	p.StopEval()

	r := p.Report()
	for _, want := range []string{"vector allocations: 2 (8 elements)", "work", "1 calls"} {
		if !strings.Contains(r, want) {
			t.Errorf("report missing %q:\n%s", want, r)
		}
	}
}

func TestPerfToleratesUnbalancedExit(t *testing.T) {
	p := NewPerf()
	// Errors unwind without Exit; a later Exit for a name that was never
	// entered must not panic.
	p.ExitFunction("never")
	p.EnterFunction("a")
	p.EnterFunction("b")
	p.ExitFunction("a")
	p.ExitFunction("b")
}

func TestTypesRecordsDistinctSignatures(t *testing.T) {
	tp := NewTypes()
	tp.RecordCall("id", []string{"integer"}, "integer")
	tp.RecordCall("id", []string{"integer"}, "integer")
	tp.RecordCall("id", []string{"string"}, "string")

	sigs := tp.Signatures("id")
	if len(sigs) != 2 {
		t.Fatalf("signatures: got %v", sigs)
	}
	want := "(integer) -> integer"
	if sigs[0] != want {
		t.Errorf("got %q, want %q", sigs[0], want)
	}

	r := tp.Report()
	if !strings.Contains(r, "(integer) -> integer  x2") {
		t.Errorf("report missing count:\n%s", r)
	}
}
