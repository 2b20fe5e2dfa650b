// Package ferro provides the public API for the ferro interpreter.
package ferro

import (
	"io"

	"github.com/ferrolang/ferro/internal/eval"
	"github.com/ferrolang/ferro/internal/store"
	"github.com/ferrolang/ferro/internal/value"
)

// Option configures a Runtime.
type Option func(*Runtime)

// Store is the session persistence interface.
type Store = store.Store

// Value is the runtime value interface.
type Value = value.Value

// Profiler hook interfaces, as accepted by the evaluator.
type (
	PerfProfiler  = eval.PerfProfiler
	StackProfiler = eval.StackProfiler
	TypeProfiler  = eval.TypeProfiler
)

// WithSQLiteStore configures SQLite persistence at the given path.
func WithSQLiteStore(path string) Option {
	return func(r *Runtime) {
		s, err := store.NewSQLite(path)
		if err == nil {
			r.store = s
		}
	}
}

// WithMemoryStore configures an in-memory store (for testing).
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.store = store.NewMemory()
	}
}

// WithMaxCallDepth sets the recursion limit.
func WithMaxCallDepth(depth int) Option {
	return func(r *Runtime) {
		r.maxCallDepth = depth
	}
}

// WithOutputWriter sets the output writer for println/print.
func WithOutputWriter(writer func(text string) error) Option {
	return func(r *Runtime) {
		r.outputWriter = writer
	}
}

// WithOutput sets the io.Writer for output.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) {
		r.outputWriter = func(text string) error {
			_, err := w.Write([]byte(text))
			return err
		}
	}
}

// WithPrelude sets a custom prelude source to be loaded on startup.
// If not set, the embedded prelude is used.
func WithPrelude(source string) Option {
	return func(r *Runtime) {
		r.prelude = source
	}
}

// WithNoStdlib disables loading the standard library prelude.
func WithNoStdlib() Option {
	return func(r *Runtime) {
		r.noStdlib = true
	}
}

// WithPerfProfiler attaches a performance profiler.
func WithPerfProfiler(p PerfProfiler) Option {
	return func(r *Runtime) {
		r.perf = p
	}
}

// WithStackProfiler attaches a stack-depth profiler.
func WithStackProfiler(p StackProfiler) Option {
	return func(r *Runtime) {
		r.stack = p
	}
}

// WithTypeProfiler attaches a type-observation profiler.
func WithTypeProfiler(p TypeProfiler) Option {
	return func(r *Runtime) {
		r.types = p
	}
}
