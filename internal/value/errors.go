package value

import "fmt"

// TypeMismatchError reports an operation applied to the wrong type(s).
type TypeMismatchError struct {
	Op   string
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	if e.Want != "" {
		return fmt.Sprintf("type mismatch in %s: want %s, got %s", e.Op, e.Want, e.Got)
	}
	return fmt.Sprintf("type mismatch in %s: %s", e.Op, e.Got)
}

// DivisionByZeroError reports integer or float division/modulo by zero.
type DivisionByZeroError struct{}

func (e *DivisionByZeroError) Error() string {
	return "division by zero"
}

// IndexOutOfBoundsError reports a vector or tuple index outside [0, len).
type IndexOutOfBoundsError struct {
	Index  int64
	Length int
}

func (e *IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("index %d out of bounds for length %d", e.Index, e.Length)
}

// KeyNotFoundError reports a missing hash map key.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key not found: %q", e.Key)
}

// InvalidOperationError reports an operation the value model does not support.
type InvalidOperationError struct {
	Msg string
}

func (e *InvalidOperationError) Error() string {
	return "invalid operation: " + e.Msg
}

func mismatch2(op string, a, b Value) error {
	return &TypeMismatchError{Op: op, Got: a.Type() + " and " + b.Type()}
}
