// Package profile provides the optional instrumentation sinks the
// evaluator can be configured with: a wall-clock profiler, a stack-depth
// profiler and a type-observation profiler. Each satisfies the matching
// hook interface in internal/eval and renders a human-readable report.
package profile

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Perf measures wall-clock evaluation time, per-function call time and
// vector allocation activity. Not safe for concurrent use; the evaluator
// is single-threaded and so are its hooks.
type Perf struct {
	evalStart time.Time
	evalTotal time.Duration

	open  []openCall
	calls map[string]*perfEntry

	allocCount int
	allocElems int
}

type openCall struct {
	name  string
	start time.Time
}

type perfEntry struct {
	count int
	total time.Duration
}

// NewPerf creates a performance profiler.
func NewPerf() *Perf {
	return &Perf{calls: make(map[string]*perfEntry)}
}

func (p *Perf) StartEval() { p.evalStart = time.Now() }

func (p *Perf) StopEval() {
	if !p.evalStart.IsZero() {
		p.evalTotal += time.Since(p.evalStart)
		p.evalStart = time.Time{}
	}
}

func (p *Perf) EnterFunction(name string) {
	p.open = append(p.open, openCall{name: name, start: time.Now()})
}

func (p *Perf) ExitFunction(name string) {
	// Pop the innermost open frame with this name. Errors unwind frames
	// without an Exit, so tolerate a miss.
	for i := len(p.open) - 1; i >= 0; i-- {
		if p.open[i].name != name {
			continue
		}
		entry := p.calls[name]
		if entry == nil {
			entry = &perfEntry{}
			p.calls[name] = entry
		}
		entry.count++
		entry.total += time.Since(p.open[i].start)
		p.open = append(p.open[:i], p.open[i+1:]...)
		return
	}
}

func (p *Perf) RecordAllocation(size int) {
	p.allocCount++
	p.allocElems += size
}

// Report renders the collected timings, slowest function first.
func (p *Perf) Report() string {
	var b strings.Builder
	b.WriteString("perf profile\n")
	fmt.Fprintf(&b, "  total eval time: %s\n", p.evalTotal)
	fmt.Fprintf(&b, "  vector allocations: %d (%d elements)\n", p.allocCount, p.allocElems)
	if len(p.calls) == 0 {
		return b.String()
	}
	names := make([]string, 0, len(p.calls))
	for name := range p.calls {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, c := p.calls[names[i]], p.calls[names[j]]
		if a.total != c.total {
			return a.total > c.total
		}
		return names[i] < names[j]
	})
	b.WriteString("  functions:\n")
	for _, name := range names {
		entry := p.calls[name]
		fmt.Fprintf(&b, "    %-20s %6d calls  %s\n", name, entry.count, entry.total)
	}
	return b.String()
}

// Stack tracks call-depth behaviour: the maximum depth reached, the total
// number of calls, per-function call counts and the deepest call chain
// observed.
type Stack struct {
	maxDepth   int
	totalCalls int
	perFunc    map[string]int
	deepest    []string
}

// NewStack creates a stack-depth profiler.
func NewStack() *Stack {
	return &Stack{perFunc: make(map[string]int)}
}

func (s *Stack) RecordCall(name string, depth int, stack []string) {
	s.totalCalls++
	s.perFunc[name]++
	if depth > s.maxDepth {
		s.maxDepth = depth
		s.deepest = append(s.deepest[:0], stack...)
	}
}

// MaxDepth returns the deepest frame count observed.
func (s *Stack) MaxDepth() int { return s.maxDepth }

// TotalCalls returns the number of calls recorded.
func (s *Stack) TotalCalls() int { return s.totalCalls }

// Count returns how many times name was called.
func (s *Stack) Count(name string) int { return s.perFunc[name] }

// DeepestChain returns the call chain at the maximum depth, outermost
// call first.
func (s *Stack) DeepestChain() []string {
	out := make([]string, len(s.deepest))
	copy(out, s.deepest)
	return out
}

// Report renders the collected depth statistics.
func (s *Stack) Report() string {
	var b strings.Builder
	b.WriteString("stack profile\n")
	fmt.Fprintf(&b, "  total calls: %d\n", s.totalCalls)
	fmt.Fprintf(&b, "  max depth: %d\n", s.maxDepth)
	if len(s.deepest) > 0 {
		fmt.Fprintf(&b, "  deepest chain: %s\n", strings.Join(s.deepest, " -> "))
	}
	if len(s.perFunc) == 0 {
		return b.String()
	}
	names := make([]string, 0, len(s.perFunc))
	for name := range s.perFunc {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if s.perFunc[names[i]] != s.perFunc[names[j]] {
			return s.perFunc[names[i]] > s.perFunc[names[j]]
		}
		return names[i] < names[j]
	})
	b.WriteString("  calls per function:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "    %-20s %d\n", name, s.perFunc[name])
	}
	return b.String()
}

// Types records the runtime type signatures observed per function. A
// function called with different argument types accumulates one entry
// per distinct signature.
type Types struct {
	order []string
	seen  map[string]map[string]int
}

// NewTypes creates a type-observation profiler.
func NewTypes() *Types {
	return &Types{seen: make(map[string]map[string]int)}
}

func (t *Types) RecordCall(name string, argTypes []string, returnType string) {
	sig := "(" + strings.Join(argTypes, ", ") + ") -> " + returnType
	sigs := t.seen[name]
	if sigs == nil {
		sigs = make(map[string]int)
		t.seen[name] = sigs
		t.order = append(t.order, name)
	}
	sigs[sig]++
}

// Signatures returns the distinct signatures observed for name, sorted.
func (t *Types) Signatures(name string) []string {
	sigs := make([]string, 0, len(t.seen[name]))
	for sig := range t.seen[name] {
		sigs = append(sigs, sig)
	}
	sort.Strings(sigs)
	return sigs
}

// Report renders the observed signatures, functions in first-seen order.
func (t *Types) Report() string {
	var b strings.Builder
	b.WriteString("type profile\n")
	for _, name := range t.order {
		fmt.Fprintf(&b, "  %s\n", name)
		for _, sig := range t.Signatures(name) {
			fmt.Fprintf(&b, "    %s  x%d\n", sig, t.seen[name][sig])
		}
	}
	return b.String()
}
