package eval

// Instrumentation hooks. Each is optional: a nil hook costs a single
// pointer comparison at the call site and nothing else.

// PerfProfiler observes evaluation time and allocation activity.
type PerfProfiler interface {
	// StartEval and StopEval bracket one top-level evaluation.
	StartEval()
	StopEval()
	// EnterFunction and ExitFunction bracket one function call.
	EnterFunction(name string)
	ExitFunction(name string)
	// RecordAllocation reports the element count of a vector
	// construction or push.
	RecordAllocation(size int)
}

// StackProfiler observes call-depth behaviour.
type StackProfiler interface {
	// RecordCall is invoked on call entry with the function name, the
	// depth of the new frame and the active call chain including it.
	RecordCall(name string, depth int, stack []string)
}

// TypeProfiler observes the runtime type signatures of calls.
type TypeProfiler interface {
	// RecordCall is invoked after a successful call with the argument
	// type names and the returned value's type name.
	RecordCall(name string, argTypes []string, returnType string)
}
