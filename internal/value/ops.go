package value

// Arithmetic requires same-type operands; there is no implicit numeric
// promotion. String + String concatenates.

// Add returns a + b.
func Add(a, b Value) (Value, error) {
	switch av := a.(type) {
	case Integer:
		if bv, ok := b.(Integer); ok {
			return Integer{Value: av.Value + bv.Value}, nil
		}
	case Float:
		if bv, ok := b.(Float); ok {
			return Float{Value: av.Value + bv.Value}, nil
		}
	case Str:
		if bv, ok := b.(Str); ok {
			return Str{Value: av.Value + bv.Value}, nil
		}
	}
	return nil, mismatch2("+", a, b)
}

// Subtract returns a - b.
func Subtract(a, b Value) (Value, error) {
	switch av := a.(type) {
	case Integer:
		if bv, ok := b.(Integer); ok {
			return Integer{Value: av.Value - bv.Value}, nil
		}
	case Float:
		if bv, ok := b.(Float); ok {
			return Float{Value: av.Value - bv.Value}, nil
		}
	}
	return nil, mismatch2("-", a, b)
}

// Multiply returns a * b.
func Multiply(a, b Value) (Value, error) {
	switch av := a.(type) {
	case Integer:
		if bv, ok := b.(Integer); ok {
			return Integer{Value: av.Value * bv.Value}, nil
		}
	case Float:
		if bv, ok := b.(Float); ok {
			return Float{Value: av.Value * bv.Value}, nil
		}
	}
	return nil, mismatch2("*", a, b)
}

// Divide returns a / b, failing with DivisionByZero on a zero divisor.
func Divide(a, b Value) (Value, error) {
	switch av := a.(type) {
	case Integer:
		if bv, ok := b.(Integer); ok {
			if bv.Value == 0 {
				return nil, &DivisionByZeroError{}
			}
			return Integer{Value: av.Value / bv.Value}, nil
		}
	case Float:
		if bv, ok := b.(Float); ok {
			if bv.Value == 0 {
				return nil, &DivisionByZeroError{}
			}
			return Float{Value: av.Value / bv.Value}, nil
		}
	}
	return nil, mismatch2("/", a, b)
}

// Modulo returns a % b for integers, failing with DivisionByZero on zero.
func Modulo(a, b Value) (Value, error) {
	av, ok := a.(Integer)
	if !ok {
		return nil, mismatch2("%", a, b)
	}
	bv, ok := b.(Integer)
	if !ok {
		return nil, mismatch2("%", a, b)
	}
	if bv.Value == 0 {
		return nil, &DivisionByZeroError{}
	}
	return Integer{Value: av.Value % bv.Value}, nil
}

// LessThan returns a < b for same-type numbers or strings.
func LessThan(a, b Value) (Value, error) {
	switch av := a.(type) {
	case Integer:
		if bv, ok := b.(Integer); ok {
			return Boolean{Value: av.Value < bv.Value}, nil
		}
	case Float:
		if bv, ok := b.(Float); ok {
			return Boolean{Value: av.Value < bv.Value}, nil
		}
	case Str:
		if bv, ok := b.(Str); ok {
			return Boolean{Value: av.Value < bv.Value}, nil
		}
	}
	return nil, mismatch2("<", a, b)
}

// GreaterThan returns a > b for same-type numbers or strings.
func GreaterThan(a, b Value) (Value, error) {
	switch av := a.(type) {
	case Integer:
		if bv, ok := b.(Integer); ok {
			return Boolean{Value: av.Value > bv.Value}, nil
		}
	case Float:
		if bv, ok := b.(Float); ok {
			return Boolean{Value: av.Value > bv.Value}, nil
		}
	case Str:
		if bv, ok := b.(Str); ok {
			return Boolean{Value: av.Value > bv.Value}, nil
		}
	}
	return nil, mismatch2(">", a, b)
}

// LogicalAnd returns a && b; both operands must be booleans.
func LogicalAnd(a, b Value) (Value, error) {
	av, aok := a.(Boolean)
	bv, bok := b.(Boolean)
	if !aok || !bok {
		return nil, mismatch2("&&", a, b)
	}
	return Boolean{Value: av.Value && bv.Value}, nil
}

// LogicalOr returns a || b; both operands must be booleans.
func LogicalOr(a, b Value) (Value, error) {
	av, aok := a.(Boolean)
	bv, bok := b.(Boolean)
	if !aok || !bok {
		return nil, mismatch2("||", a, b)
	}
	return Boolean{Value: av.Value || bv.Value}, nil
}

// LogicalNot returns !a; the operand must be a boolean.
func LogicalNot(a Value) (Value, error) {
	av, ok := a.(Boolean)
	if !ok {
		return nil, &TypeMismatchError{Op: "!", Want: TypeBoolean, Got: a.Type()}
	}
	return Boolean{Value: !av.Value}, nil
}

// Negate returns -a for numbers.
func Negate(a Value) (Value, error) {
	switch av := a.(type) {
	case Integer:
		return Integer{Value: -av.Value}, nil
	case Float:
		return Float{Value: -av.Value}, nil
	}
	return nil, &TypeMismatchError{Op: "-", Want: "integer or float", Got: a.Type()}
}

// Index returns container[idx]. Vectors and tuples take integer indices,
// hash maps take string keys.
func Index(container, idx Value) (Value, error) {
	switch c := container.(type) {
	case Vector:
		return indexSeq(c.Elements, idx)
	case Tuple:
		return indexSeq(c.Elements, idx)
	case Str:
		i, ok := idx.(Integer)
		if !ok {
			return nil, &TypeMismatchError{Op: "index", Want: TypeInteger, Got: idx.Type()}
		}
		runes := []rune(c.Value)
		if i.Value < 0 || i.Value >= int64(len(runes)) {
			return nil, &IndexOutOfBoundsError{Index: i.Value, Length: len(runes)}
		}
		return Str{Value: string(runes[i.Value])}, nil
	case Map:
		k, ok := idx.(Str)
		if !ok {
			return nil, &TypeMismatchError{Op: "index", Want: TypeString, Got: idx.Type()}
		}
		return Get(c, k.Value)
	}
	return nil, &TypeMismatchError{Op: "index", Want: "vector, tuple, string or hashmap", Got: container.Type()}
}

func indexSeq(elems []Value, idx Value) (Value, error) {
	i, ok := idx.(Integer)
	if !ok {
		return nil, &TypeMismatchError{Op: "index", Want: TypeInteger, Got: idx.Type()}
	}
	if i.Value < 0 || i.Value >= int64(len(elems)) {
		return nil, &IndexOutOfBoundsError{Index: i.Value, Length: len(elems)}
	}
	return elems[i.Value].Clone(), nil
}

// Push appends an element to a vector, returning the grown vector.
func Push(v Value, elem Value) (Vector, error) {
	vec, ok := v.(Vector)
	if !ok {
		return Vector{}, &TypeMismatchError{Op: "push", Want: TypeVector, Got: v.Type()}
	}
	vec.Elements = append(vec.Elements, elem)
	return vec, nil
}

// Insert sets a key in a hash map, returning the updated map.
func Insert(v Value, key string, elem Value) (Map, error) {
	m, ok := v.(Map)
	if !ok {
		return Map{}, &TypeMismatchError{Op: "insert", Want: TypeHashMap, Got: v.Type()}
	}
	if m.Entries == nil {
		m.Entries = make(map[string]Value)
	}
	m.Entries[key] = elem
	return m, nil
}

// Get looks up a key in a hash map, failing with KeyNotFound when absent.
func Get(v Value, key string) (Value, error) {
	m, ok := v.(Map)
	if !ok {
		return nil, &TypeMismatchError{Op: "get", Want: TypeHashMap, Got: v.Type()}
	}
	e, ok := m.Entries[key]
	if !ok {
		return nil, &KeyNotFoundError{Key: key}
	}
	return e.Clone(), nil
}

// Len returns the length of a vector, tuple, string or hash map.
func Len(v Value) (Value, error) {
	switch c := v.(type) {
	case Vector:
		return Integer{Value: int64(len(c.Elements))}, nil
	case Tuple:
		return Integer{Value: int64(len(c.Elements))}, nil
	case Str:
		return Integer{Value: int64(len([]rune(c.Value)))}, nil
	case Map:
		return Integer{Value: int64(len(c.Entries))}, nil
	}
	return nil, &TypeMismatchError{Op: "len", Want: "vector, tuple, string or hashmap", Got: v.Type()}
}
