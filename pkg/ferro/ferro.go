package ferro

import (
	"io"
	"os"

	"github.com/ferrolang/ferro/internal/eval"
	"github.com/ferrolang/ferro/internal/stdlib"
	"github.com/ferrolang/ferro/internal/value"
)

// Runtime is the ferro interpreter runtime.
type Runtime struct {
	evaluator    *eval.Evaluator
	store        Store
	outputWriter eval.OutputWriter
	maxCallDepth int
	prelude      string // Custom prelude source (if empty, uses stdlib.Prelude)
	noStdlib     bool   // If true, skip loading prelude

	perf  PerfProfiler
	stack StackProfiler
	types TypeProfiler
}

// New creates a new ferro runtime with the given options.
func New(opts ...Option) *Runtime {
	r := &Runtime{}

	for _, opt := range opts {
		opt(r)
	}

	// Build evaluator options
	evalOpts := []eval.Option{}
	if r.maxCallDepth > 0 {
		evalOpts = append(evalOpts, eval.WithMaxCallDepth(r.maxCallDepth))
	}
	if r.outputWriter != nil {
		evalOpts = append(evalOpts, eval.WithOutputWriter(r.outputWriter))
	}
	if r.perf != nil {
		evalOpts = append(evalOpts, eval.WithPerfProfiler(r.perf))
	}
	if r.stack != nil {
		evalOpts = append(evalOpts, eval.WithStackProfiler(r.stack))
	}
	if r.types != nil {
		evalOpts = append(evalOpts, eval.WithTypeProfiler(r.types))
	}

	r.evaluator = eval.New(evalOpts...)

	// Load prelude unless disabled
	if !r.noStdlib {
		prelude := r.prelude
		if prelude == "" {
			prelude = stdlib.Prelude
		}
		if prelude != "" {
			r.evaluator.LoadSource(prelude)
		}
	}

	return r
}

// Eval evaluates a ferro source string and returns the result rendered
// in display form. A nil result renders as "".
func (r *Runtime) Eval(input string) (string, error) {
	v, err := r.evaluator.EvalSource(input)
	if err != nil {
		return "", err
	}
	if _, isNil := v.(value.Nil); isNil {
		return "", nil
	}
	return v.String(), nil
}

// EvalValue evaluates a ferro source string and returns the raw value.
func (r *Runtime) EvalValue(input string) (value.Value, error) {
	return r.evaluator.EvalSource(input)
}

// EvalReader evaluates ferro source from a reader.
func (r *Runtime) EvalReader(reader io.Reader) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return r.Eval(string(data))
}

// EvalFile evaluates a ferro source file.
func (r *Runtime) EvalFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return r.EvalReader(f)
}

// Load loads definitions from source without evaluating top-level
// expressions.
func (r *Runtime) Load(input string) error {
	return r.evaluator.LoadSource(input)
}

// LoadFile loads definitions from a file in load-only mode.
func (r *Runtime) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return r.Load(string(data))
}

// Store returns the configured persistence store, or nil.
func (r *Runtime) Store() Store {
	return r.store
}

// Close releases resources.
func (r *Runtime) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}
