package eval

import (
	"github.com/ferrolang/ferro/internal/ast"
	"github.com/ferrolang/ferro/internal/value"
)

// The mock concurrency model runs everything synchronously. Mutex and Arc
// are hash-map wrappers tagged with reserved keys; the arc store is the
// only place where two live handles can alias one underlying value.
const (
	keyArcID  = "_arc_id"        // arc handle: integer id into the arc store
	keyInner  = "_inner"         // local, unshared Mutex wrapper
	keyLocked = "_locked"        // lock result: the resolved value
	keyThread = "_thread_result" // thread handle: result computed at spawn
	keyChanID = "_chan_id"       // channel endpoint: arc id of the buffer
)

func arcID(m value.Map) (int64, bool) {
	v, ok := m.Entries[keyArcID]
	if !ok {
		return 0, false
	}
	id, ok := v.(value.Integer)
	if !ok {
		return 0, false
	}
	return id.Value, true
}

// newArc stores v in the arc store under a fresh id and returns a handle
// carrying only that id.
func (e *Evaluator) newArc(v value.Value) value.Value {
	id := e.nextArcID
	e.nextArcID++
	e.arcStore[id] = v
	handle := value.NewMap()
	handle.Entries[keyArcID] = value.Integer{Value: id}
	return handle
}

// cloneArc copies the id, not the value: both handles observe the same
// stored value afterwards.
func (e *Evaluator) cloneArc(v value.Value) (value.Value, error) {
	m, ok := v.(value.Map)
	if !ok {
		return nil, &value.TypeMismatchError{Op: "Arc::clone", Want: "arc handle", Got: v.Type()}
	}
	id, ok := arcID(m)
	if !ok {
		return nil, &value.InvalidOperationError{Msg: "Arc::clone on a non-arc value"}
	}
	handle := value.NewMap()
	handle.Entries[keyArcID] = value.Integer{Value: id}
	return handle, nil
}

// newMutex wraps v in a local, unshared container.
func newMutex(v value.Value) value.Value {
	m := value.NewMap()
	m.Entries[keyInner] = v
	return m
}

// lockValue resolves a handle to its current value. Arc handles read the
// arc store; plain mutexes fall back to their local _inner wrapper. The
// result keeps the source tag so a later write-back knows which store to
// target.
func (e *Evaluator) lockValue(v value.Value) (value.Value, error) {
	m, ok := v.(value.Map)
	if !ok {
		return nil, &value.TypeMismatchError{Op: "lock", Want: "mutex or arc handle", Got: v.Type()}
	}

	if id, ok := arcID(m); ok {
		stored, ok := e.arcStore[id]
		if !ok {
			return nil, &value.InvalidOperationError{Msg: "dangling arc handle"}
		}
		inner := stored
		if sm, ok := stored.(value.Map); ok {
			if iv, ok := sm.Entries[keyInner]; ok {
				inner = iv
			}
		}
		lock := value.NewMap()
		lock.Entries[keyLocked] = inner.Clone()
		lock.Entries[keyArcID] = value.Integer{Value: id}
		return lock, nil
	}

	if inner, ok := m.Entries[keyInner]; ok {
		lock := value.NewMap()
		lock.Entries[keyLocked] = inner.Clone()
		lock.Entries[keyInner] = inner.Clone()
		return lock, nil
	}

	return nil, &value.InvalidOperationError{Msg: "lock on a non-mutex value"}
}

// derefValue transparently unwraps any number of wrapper layers, checking
// the locked tag first and the local mutex tag second, down to the real
// value.
func derefValue(v value.Value) value.Value {
	for {
		m, ok := v.(value.Map)
		if !ok {
			return v
		}
		if inner, ok := m.Entries[keyLocked]; ok {
			v = inner
			continue
		}
		if inner, ok := m.Entries[keyInner]; ok {
			v = inner
			continue
		}
		return v
	}
}

// evalThreadSpawn executes the closure body synchronously in place and
// returns a handle carrying the computed result. This models the shape of
// concurrent code without real parallelism.
func (e *Evaluator) evalThreadSpawn(n ast.FunctionCall) (flow, error) {
	if len(n.Args) != 1 {
		return flow{}, &ArgumentCountMismatchError{Name: "thread::spawn", Want: 1, Got: len(n.Args)}
	}
	cl, ok := n.Args[0].(ast.Closure)
	if !ok {
		return flow{}, &UnsupportedOperationError{Msg: "thread::spawn requires a closure argument"}
	}
	f, err := e.evalInChildScope(cl.Body)
	if err != nil {
		return flow{}, err
	}
	handle := value.NewMap()
	handle.Entries[keyThread] = f.val
	return valueFlow(handle), nil
}

func (e *Evaluator) joinThreadHandle(v value.Value) (flow, error) {
	m, ok := v.(value.Map)
	if !ok {
		return flow{}, &value.TypeMismatchError{Op: "join", Want: "thread handle", Got: v.Type()}
	}
	result, ok := m.Entries[keyThread]
	if !ok {
		return flow{}, &value.InvalidOperationError{Msg: "join on a non-thread value"}
	}
	return valueFlow(result.Clone()), nil
}

// newChannel allocates a shared buffer in the arc store and returns a
// (sender, receiver) tuple whose endpoints carry the same id.
func (e *Evaluator) newChannel() value.Value {
	id := e.nextArcID
	e.nextArcID++
	e.arcStore[id] = value.Vector{}

	tx := value.NewMap()
	tx.Entries[keyChanID] = value.Integer{Value: id}
	rx := value.NewMap()
	rx.Entries[keyChanID] = value.Integer{Value: id}
	return value.NewTuple(tx, rx)
}

func (e *Evaluator) channelBuffer(v value.Value) (int64, value.Vector, error) {
	m, ok := v.(value.Map)
	if !ok {
		return 0, value.Vector{}, &value.TypeMismatchError{Op: "channel", Want: "channel endpoint", Got: v.Type()}
	}
	idv, ok := m.Entries[keyChanID]
	if !ok {
		return 0, value.Vector{}, &value.InvalidOperationError{Msg: "not a channel endpoint"}
	}
	id := idv.(value.Integer).Value
	buf, ok := e.arcStore[id].(value.Vector)
	if !ok {
		return 0, value.Vector{}, &value.InvalidOperationError{Msg: "dangling channel buffer"}
	}
	return id, buf, nil
}

func (e *Evaluator) channelSend(endpoint, v value.Value) error {
	id, buf, err := e.channelBuffer(endpoint)
	if err != nil {
		return err
	}
	buf.Elements = append(buf.Elements, v)
	e.arcStore[id] = buf
	return nil
}

// channelRecv pops the oldest buffered value, or Nil when the buffer is
// empty (there is no real blocking to do).
func (e *Evaluator) channelRecv(endpoint value.Value) (value.Value, error) {
	id, buf, err := e.channelBuffer(endpoint)
	if err != nil {
		return nil, err
	}
	if len(buf.Elements) == 0 {
		return value.Nil{}, nil
	}
	head := buf.Elements[0]
	buf.Elements = buf.Elements[1:]
	e.arcStore[id] = buf
	return head, nil
}
