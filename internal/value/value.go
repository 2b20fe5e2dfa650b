// Package value defines the ferro runtime value union and its operations.
//
// Values have by-value semantics: passing or binding a value copies it.
// The only aliasing mechanism in the runtime is the evaluator's arc store,
// which holds values by integer handle.
package value

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ferrolang/ferro/internal/ast"
)

// Value is the interface all ferro runtime values implement.
// The sealed marker restricts implementations to this package.
type Value interface {
	value()
	// Type returns the user-visible type name.
	Type() string
	// String returns the display form. Strings are quoted; println
	// formatting (PrintString) is the unquoted variant.
	String() string
	// Clone returns a deep copy with no shared structure.
	Clone() Value
}

// Integer is a 64-bit signed integer.
type Integer struct {
	Value int64
}

// Float is a 64-bit floating point number.
type Float struct {
	Value float64
}

// Str is a string value.
type Str struct {
	Value string
}

// Boolean is true or false.
type Boolean struct {
	Value bool
}

// Vector is an owned, growable sequence of values.
type Vector struct {
	Elements []Value
}

// Tuple is an owned, fixed-size sequence of values.
type Tuple struct {
	Elements []Value
}

// Map is a hash map keyed by strings.
type Map struct {
	Entries map[string]Value
}

// Function is a user function value: parameter names plus body statements.
type Function struct {
	Params []string
	Body   []ast.Node
}

// Nil is the absent value.
type Nil struct{}

func (Integer) value()  {}
func (Float) value()    {}
func (Str) value()      {}
func (Boolean) value()  {}
func (Vector) value()   {}
func (Tuple) value()    {}
func (Map) value()      {}
func (Function) value() {}
func (Nil) value()      {}

// Type names as rendered in error messages.
const (
	TypeInteger  = "integer"
	TypeFloat    = "float"
	TypeString   = "string"
	TypeBoolean  = "boolean"
	TypeVector   = "vector"
	TypeTuple    = "tuple"
	TypeHashMap  = "hashmap"
	TypeFunction = "function"
	TypeNil      = "nil"
)

func (Integer) Type() string  { return TypeInteger }
func (Float) Type() string    { return TypeFloat }
func (Str) Type() string      { return TypeString }
func (Boolean) Type() string  { return TypeBoolean }
func (Vector) Type() string   { return TypeVector }
func (Tuple) Type() string    { return TypeTuple }
func (Map) Type() string      { return TypeHashMap }
func (Function) Type() string { return TypeFunction }
func (Nil) Type() string      { return TypeNil }

// NewVector creates a vector from elements.
func NewVector(elems ...Value) Vector {
	return Vector{Elements: elems}
}

// NewTuple creates a tuple from elements.
func NewTuple(elems ...Value) Tuple {
	return Tuple{Elements: elems}
}

// NewMap creates an empty hash map.
func NewMap() Map {
	return Map{Entries: make(map[string]Value)}
}

func (v Integer) String() string { return strconv.FormatInt(v.Value, 10) }

func (v Float) String() string {
	s := strconv.FormatFloat(v.Value, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && !strings.Contains(s, "NaN") {
		s += ".0"
	}
	return s
}

func (v Str) String() string { return strconv.Quote(v.Value) }

func (v Boolean) String() string { return strconv.FormatBool(v.Value) }

func (v Vector) String() string { return formatSeq("[", "]", v.Elements, displayForm) }

func (v Tuple) String() string { return formatSeq("(", ")", v.Elements, displayForm) }

func (v Map) String() string { return formatMap(v, displayForm) }

func (v Function) String() string { return "fun(" + strings.Join(v.Params, ", ") + ")" }

func (Nil) String() string { return "nil" }

// PrintString returns the println form of a value: strings render without
// quotes, and the rule applies recursively inside vectors, tuples and maps.
func PrintString(v Value) string {
	switch t := v.(type) {
	case Str:
		return t.Value
	case Vector:
		return formatSeq("[", "]", t.Elements, printForm)
	case Tuple:
		return formatSeq("(", ")", t.Elements, printForm)
	case Map:
		return formatMap(t, printForm)
	default:
		return v.String()
	}
}

type formMode int

const (
	displayForm formMode = iota
	printForm
)

func formatElem(v Value, mode formMode) string {
	if mode == printForm {
		return PrintString(v)
	}
	return v.String()
}

func formatSeq(open, close string, elems []Value, mode formMode) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = formatElem(e, mode)
	}
	return open + strings.Join(parts, ", ") + close
}

func formatMap(m Map, mode formMode) string {
	keys := make([]string, 0, len(m.Entries))
	for k := range m.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = strconv.Quote(k) + ": " + formatElem(m.Entries[k], mode)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (v Integer) Clone() Value { return v }
func (v Float) Clone() Value   { return v }
func (v Str) Clone() Value     { return v }
func (v Boolean) Clone() Value { return v }
func (Nil) Clone() Value       { return Nil{} }

func (v Vector) Clone() Value {
	elems := make([]Value, len(v.Elements))
	for i, e := range v.Elements {
		elems[i] = e.Clone()
	}
	return Vector{Elements: elems}
}

func (v Tuple) Clone() Value {
	elems := make([]Value, len(v.Elements))
	for i, e := range v.Elements {
		elems[i] = e.Clone()
	}
	return Tuple{Elements: elems}
}

func (v Map) Clone() Value {
	entries := make(map[string]Value, len(v.Entries))
	for k, e := range v.Entries {
		entries[k] = e.Clone()
	}
	return Map{Entries: entries}
}

func (v Function) Clone() Value {
	// Function bodies are immutable once parsed; sharing them is safe.
	params := make([]string, len(v.Params))
	copy(params, v.Params)
	return Function{Params: params, Body: v.Body}
}

// Truthy reports whether a value counts as true in a condition.
// Only booleans are conditions in ferro; anything else is a TypeMismatch.
func Truthy(v Value) (bool, error) {
	b, ok := v.(Boolean)
	if !ok {
		return false, &TypeMismatchError{Op: "condition", Want: TypeBoolean, Got: v.Type()}
	}
	return b.Value, nil
}

// Equals reports structural equality.
func Equals(a, b Value) bool {
	switch av := a.(type) {
	case Integer:
		bv, ok := b.(Integer)
		return ok && av.Value == bv.Value
	case Float:
		bv, ok := b.(Float)
		return ok && av.Value == bv.Value
	case Str:
		bv, ok := b.(Str)
		return ok && av.Value == bv.Value
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av.Value == bv.Value
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Vector:
		bv, ok := b.(Vector)
		return ok && seqEquals(av.Elements, bv.Elements)
	case Tuple:
		bv, ok := b.(Tuple)
		return ok && seqEquals(av.Elements, bv.Elements)
	case Map:
		bv, ok := b.(Map)
		if !ok || len(av.Entries) != len(bv.Entries) {
			return false
		}
		for k, v := range av.Entries {
			other, ok := bv.Entries[k]
			if !ok || !Equals(v, other) {
				return false
			}
		}
		return true
	}
	return false
}

func seqEquals(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equals(a[i], b[i]) {
			return false
		}
	}
	return true
}
