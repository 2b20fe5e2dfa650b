package eval

import (
	"github.com/ferrolang/ferro/internal/ast"
	"github.com/ferrolang/ferro/internal/value"
)

// assignTo writes v to an assignable place: a variable, an indexed
// element, a field, or a dereferenced wrapper.
func (e *Evaluator) assignTo(target ast.Node, v value.Value) error {
	switch t := target.(type) {
	case ast.Identifier:
		if !e.scope.Assign(t.Name, v) {
			return &UndefinedVariableError{Name: t.Name}
		}
		return nil

	case ast.UnaryOp:
		if t.Op == ast.OpDeref {
			return e.assignThroughDeref(t.Operand, v)
		}
		return &UnsupportedOperationError{Msg: "invalid assignment target"}

	case ast.IndexAccess:
		cf, err := e.evalNode(t.Container)
		if err != nil {
			return err
		}
		idxf, err := e.evalNode(t.Index)
		if err != nil {
			return err
		}
		updated, err := setIndex(cf.val, idxf.val, v)
		if err != nil {
			return err
		}
		return e.assignTo(t.Container, updated)

	case ast.FieldAccess:
		cf, err := e.evalNode(t.Value)
		if err != nil {
			return err
		}
		m, ok := cf.val.(value.Map)
		if !ok {
			return &value.TypeMismatchError{Op: "field assignment", Want: value.TypeHashMap, Got: cf.val.Type()}
		}
		updated, err := value.Insert(m, t.Field, v)
		if err != nil {
			return err
		}
		return e.assignTo(t.Value, updated)
	}
	return &UnsupportedOperationError{Msg: "invalid assignment target"}
}

func setIndex(container, idx, v value.Value) (value.Value, error) {
	switch c := container.(type) {
	case value.Vector:
		i, ok := idx.(value.Integer)
		if !ok {
			return nil, &value.TypeMismatchError{Op: "index assignment", Want: value.TypeInteger, Got: idx.Type()}
		}
		if i.Value < 0 || i.Value >= int64(len(c.Elements)) {
			return nil, &value.IndexOutOfBoundsError{Index: i.Value, Length: len(c.Elements)}
		}
		c.Elements[i.Value] = v
		return c, nil
	case value.Map:
		k, ok := idx.(value.Str)
		if !ok {
			return nil, &value.TypeMismatchError{Op: "index assignment", Want: value.TypeString, Got: idx.Type()}
		}
		return value.Insert(c, k.Value, v)
	}
	return nil, &value.TypeMismatchError{Op: "index assignment", Want: "vector or hashmap", Got: container.Type()}
}

// assignThroughDeref implements *target = v. The wrapper obtained by
// evaluating the deref operand decides the write-back path: an arc id
// targets the arc store (preserving a Mutex-shaped stored value); a local
// wrapper is rewritten in place at its storage location. Getting this
// branch wrong silently breaks arc aliasing.
func (e *Evaluator) assignThroughDeref(operand ast.Node, v value.Value) error {
	f, err := e.evalNode(operand)
	if err != nil {
		return err
	}
	wrapper, ok := f.val.(value.Map)
	if !ok {
		return &value.TypeMismatchError{Op: "deref assignment", Want: "mutex, lock or arc handle", Got: f.val.Type()}
	}

	if id, ok := arcID(wrapper); ok {
		stored, ok := e.arcStore[id]
		if !ok {
			return &value.InvalidOperationError{Msg: "dangling arc handle"}
		}
		if sm, ok := stored.(value.Map); ok {
			if _, mutexShaped := sm.Entries[keyInner]; mutexShaped {
				e.arcStore[id] = newMutex(v)
				return nil
			}
		}
		e.arcStore[id] = v
		return nil
	}

	// Local wrapper: write v into the wrapper at its own storage
	// location. A lock() call addresses the mutex held by its receiver,
	// which may sit behind a field or index chain, so the write-back
	// goes through assignTo rather than the root variable.
	place := operand
	if mc, ok := operand.(ast.MethodCall); ok {
		place = mc.Receiver
	}
	pf, err := e.evalNode(place)
	if err != nil {
		return err
	}
	if pm, ok := pf.val.(value.Map); ok {
		_, hasLocked := pm.Entries[keyLocked]
		_, hasInner := pm.Entries[keyInner]
		if hasLocked || hasInner {
			if hasLocked {
				pm.Entries[keyLocked] = v
			}
			if hasInner {
				pm.Entries[keyInner] = v
			}
			return e.assignTo(place, pm)
		}
	}
	if _, ok := place.(ast.Identifier); ok {
		return e.assignTo(place, v)
	}
	return &UnsupportedOperationError{Msg: "cannot assign through this dereference"}
}

// evalCompoundAssignment implements target op= value, including the
// deref write-back branch for the mock shared-reference model.
func (e *Evaluator) evalCompoundAssignment(n ast.CompoundAssignment) (flow, error) {
	cur, err := e.evalNode(n.Target)
	if err != nil {
		return flow{}, err
	}
	rhs, err := e.evalNode(n.Value)
	if err != nil {
		return flow{}, err
	}
	updated, err := applyBinaryOp(n.Op, cur.val, rhs.val)
	if err != nil {
		return flow{}, err
	}
	if err := e.assignTo(n.Target, updated); err != nil {
		return flow{}, err
	}
	return valueFlow(value.Nil{}), nil
}
