package eval

import (
	"github.com/ferrolang/ferro/internal/ast"
	"github.com/ferrolang/ferro/internal/scope"
	"github.com/ferrolang/ferro/internal/value"
)

// evalFunctionCall implements the call protocol: depth guard, builtins
// first (never shadowable), then the user registry with arity checking
// and eager left-to-right call-by-value argument evaluation.
func (e *Evaluator) evalFunctionCall(n ast.FunctionCall) (flow, error) {
	if e.callDepth >= e.maxCallDepth {
		return flow{}, &StackOverflowError{Depth: e.maxCallDepth}
	}

	// thread::spawn receives its closure unevaluated.
	if n.Name == "thread::spawn" {
		return e.evalThreadSpawn(n)
	}

	if builtin := getBuiltin(n.Name); builtin != nil {
		args, err := e.evalNodeList(n.Args)
		if err != nil {
			return flow{}, err
		}
		v, err := builtin(e, args)
		if err != nil {
			return flow{}, err
		}
		return valueFlow(v), nil
	}

	fn, ok := e.functions[n.Name]
	if !ok {
		return flow{}, &UndefinedFunctionError{Name: n.Name}
	}
	if len(n.Args) != len(fn.Params) {
		return flow{}, &ArgumentCountMismatchError{Name: n.Name, Want: len(fn.Params), Got: len(n.Args)}
	}

	args, err := e.evalNodeList(n.Args)
	if err != nil {
		return flow{}, err
	}
	return e.callFunction(n.Name, fn, args)
}

// callFunction runs a user function body in a fresh scope holding only the
// bound parameters. The prior scope, call depth and call stack are restored
// on every exit path; the first frame to observe an error attaches the
// call-stack snapshot exactly once.
func (e *Evaluator) callFunction(name string, fn value.Function, args []value.Value) (flow, error) {
	prev := e.scope
	fnScope := scope.New()
	for i, p := range fn.Params {
		fnScope.Define(p, args[i].Clone())
	}
	e.scope = fnScope
	e.callStack = append(e.callStack, name)
	e.callDepth++

	if e.perf != nil {
		e.perf.EnterFunction(name)
	}
	if e.stack != nil {
		e.stack.RecordCall(name, e.callDepth, e.callStack)
	}

	f, bodyErr := e.evalStatements(fn.Body)
	if bodyErr != nil {
		// Snapshot the chain including this failing frame before
		// any state is restored.
		bodyErr = withCallStack(bodyErr, e.callStack)
	}

	if e.perf != nil {
		e.perf.ExitFunction(name)
	}
	e.callDepth--
	e.callStack = e.callStack[:len(e.callStack)-1]
	e.scope = prev

	if bodyErr != nil {
		return flow{}, bodyErr
	}

	if e.types != nil {
		argTypes := make([]string, len(args))
		for i, a := range args {
			argTypes[i] = a.Type()
		}
		e.types.RecordCall(name, argTypes, f.val.Type())
	}

	// A Return and falling off the end both yield the value here.
	return valueFlow(f.val), nil
}

// evalMethodCall dispatches the built-in method surface: collection
// mutators, the mock-concurrency resolvers and small conveniences.
func (e *Evaluator) evalMethodCall(n ast.MethodCall) (flow, error) {
	recv, err := e.evalNode(n.Receiver)
	if err != nil {
		return flow{}, err
	}
	args, err := e.evalNodeList(n.Args)
	if err != nil {
		return flow{}, err
	}

	switch n.Method {
	case "push":
		if err := requireArgs(n.Method, args, 1); err != nil {
			return flow{}, err
		}
		vec, err := value.Push(recv.val, args[0])
		if err != nil {
			return flow{}, err
		}
		if e.perf != nil {
			e.perf.RecordAllocation(len(vec.Elements))
		}
		e.writeBackReceiver(n.Receiver, vec)
		return valueFlow(value.Nil{}), nil

	case "insert":
		if err := requireArgs(n.Method, args, 2); err != nil {
			return flow{}, err
		}
		key, ok := args[0].(value.Str)
		if !ok {
			return flow{}, &value.TypeMismatchError{Op: "insert", Want: value.TypeString, Got: args[0].Type()}
		}
		m, err := value.Insert(recv.val, key.Value, args[1])
		if err != nil {
			return flow{}, err
		}
		e.writeBackReceiver(n.Receiver, m)
		return valueFlow(value.Nil{}), nil

	case "get":
		if err := requireArgs(n.Method, args, 1); err != nil {
			return flow{}, err
		}
		key, ok := args[0].(value.Str)
		if !ok {
			return flow{}, &value.TypeMismatchError{Op: "get", Want: value.TypeString, Got: args[0].Type()}
		}
		v, err := value.Get(recv.val, key.Value)
		if err != nil {
			return flow{}, err
		}
		return valueFlow(v), nil

	case "len":
		if err := requireArgs(n.Method, args, 0); err != nil {
			return flow{}, err
		}
		v, err := value.Len(recv.val)
		if err != nil {
			return flow{}, err
		}
		return valueFlow(v), nil

	case "to_string":
		if err := requireArgs(n.Method, args, 0); err != nil {
			return flow{}, err
		}
		return valueFlow(value.Str{Value: value.PrintString(recv.val)}), nil

	case "lock":
		if err := requireArgs(n.Method, args, 0); err != nil {
			return flow{}, err
		}
		v, err := e.lockValue(recv.val)
		if err != nil {
			return flow{}, err
		}
		return valueFlow(v), nil

	case "join":
		if err := requireArgs(n.Method, args, 0); err != nil {
			return flow{}, err
		}
		return e.joinThreadHandle(recv.val)

	case "send":
		if err := requireArgs(n.Method, args, 1); err != nil {
			return flow{}, err
		}
		if err := e.channelSend(recv.val, args[0]); err != nil {
			return flow{}, err
		}
		return valueFlow(value.Nil{}), nil

	case "recv":
		if err := requireArgs(n.Method, args, 0); err != nil {
			return flow{}, err
		}
		v, err := e.channelRecv(recv.val)
		if err != nil {
			return flow{}, err
		}
		return valueFlow(v), nil
	}

	return flow{}, &UnsupportedOperationError{Msg: "method " + n.Method + " on " + recv.val.Type()}
}

func requireArgs(method string, args []value.Value, want int) error {
	if len(args) != want {
		return &ArgumentCountMismatchError{Name: method, Want: want, Got: len(args)}
	}
	return nil
}

// writeBackReceiver propagates a mutated collection back to its variable
// when the receiver is a plain identifier. Mutating a temporary is legal
// and simply discards the result.
func (e *Evaluator) writeBackReceiver(recv ast.Node, v value.Value) {
	if ident, ok := recv.(ast.Identifier); ok {
		e.scope.Assign(ident.Name, v)
	}
}
