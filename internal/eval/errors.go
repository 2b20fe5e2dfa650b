package eval

import (
	"fmt"
	"strings"
)

// UndefinedVariableError reports a read of an unbound name.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable: %s", e.Name)
}

// UndefinedFunctionError reports a call to an unknown function.
type UndefinedFunctionError struct {
	Name string
}

func (e *UndefinedFunctionError) Error() string {
	return fmt.Sprintf("undefined function: %s", e.Name)
}

// ArgumentCountMismatchError reports a call with the wrong number of arguments.
type ArgumentCountMismatchError struct {
	Name string
	Want int
	Got  int
}

func (e *ArgumentCountMismatchError) Error() string {
	return fmt.Sprintf("function %s expects %d argument(s), got %d", e.Name, e.Want, e.Got)
}

// StackOverflowError reports that the call-depth guard fired. The guard is
// tuned to trip before the host's own stack is exhausted.
type StackOverflowError struct {
	Depth int
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("stack overflow: call depth exceeded %d", e.Depth)
}

// NoMatchArmError reports a match expression where no arm matched.
type NoMatchArmError struct{}

func (e *NoMatchArmError) Error() string {
	return "no match arm matched the value"
}

// UnsupportedOperationError reports a construct the evaluator does not support.
type UnsupportedOperationError struct {
	Msg string
}

func (e *UnsupportedOperationError) Error() string {
	return "unsupported operation: " + e.Msg
}

// CallStackError annotates an error with the call chain that was active
// when it was first observed. It is applied exactly once: re-propagation
// through enclosing calls never re-wraps.
type CallStackError struct {
	Err    error
	Frames []string // active call chain, most recent call last
}

func (e *CallStackError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Err.Error())
	sb.WriteString("\ncall stack (most recent call first):")
	for i := len(e.Frames) - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "\n  %d. %s", len(e.Frames)-i, e.Frames[i])
	}
	return sb.String()
}

func (e *CallStackError) Unwrap() error {
	return e.Err
}

// withCallStack wraps err with a snapshot of the active call chain unless
// it already carries one.
func withCallStack(err error, frames []string) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*CallStackError); ok {
		return err
	}
	snapshot := make([]string, len(frames))
	copy(snapshot, frames)
	return &CallStackError{Err: err, Frames: snapshot}
}
