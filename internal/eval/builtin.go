package eval

import (
	"os"
	"strings"

	"github.com/ferrolang/ferro/internal/value"
)

// BuiltinFunc is the signature for builtin functions. Builtins always take
// priority over user definitions and cannot be shadowed.
type BuiltinFunc func(e *Evaluator, args []value.Value) (value.Value, error)

// getBuiltin returns the builtin for the given name, or nil if not found.
// thread::spawn is absent here because it receives its argument
// unevaluated; the call path special-cases it.
func getBuiltin(name string) BuiltinFunc {
	switch name {
	case "println":
		return builtinPrintln
	case "print":
		return builtinPrint
	case "assert":
		return builtinAssert
	case "read_file":
		return builtinReadFile
	case "write_file":
		return builtinWriteFile
	case "len":
		return builtinLen
	case "vec":
		return builtinVec
	case "Mutex::new":
		return builtinMutexNew
	case "Arc::new":
		return builtinArcNew
	case "Arc::clone":
		return builtinArcClone
	case "mpsc::channel":
		return builtinChannel
	case "HashMap::new":
		return builtinHashMapNew
	}
	return nil
}

// IsBuiltin reports whether name is a builtin (including thread::spawn).
func IsBuiltin(name string) bool {
	return name == "thread::spawn" || getBuiltin(name) != nil
}

func builtinPrintln(e *Evaluator, args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = value.PrintString(a)
	}
	if err := e.outputWriter(strings.Join(parts, " ") + "\n"); err != nil {
		return nil, &value.InvalidOperationError{Msg: "println: " + err.Error()}
	}
	return value.Nil{}, nil
}

func builtinPrint(e *Evaluator, args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = value.PrintString(a)
	}
	if err := e.outputWriter(strings.Join(parts, " ")); err != nil {
		return nil, &value.InvalidOperationError{Msg: "print: " + err.Error()}
	}
	return value.Nil{}, nil
}

func builtinAssert(e *Evaluator, args []value.Value) (value.Value, error) {
	if err := requireArgs("assert", args, 1); err != nil {
		return nil, err
	}
	ok, err := value.Truthy(args[0])
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &value.InvalidOperationError{Msg: "assertion failed"}
	}
	return value.Nil{}, nil
}

func builtinReadFile(e *Evaluator, args []value.Value) (value.Value, error) {
	if err := requireArgs("read_file", args, 1); err != nil {
		return nil, err
	}
	path, ok := args[0].(value.Str)
	if !ok {
		return nil, &value.TypeMismatchError{Op: "read_file", Want: value.TypeString, Got: args[0].Type()}
	}
	data, err := os.ReadFile(path.Value)
	if err != nil {
		return nil, &value.InvalidOperationError{Msg: "read_file: " + err.Error()}
	}
	return value.Str{Value: string(data)}, nil
}

func builtinWriteFile(e *Evaluator, args []value.Value) (value.Value, error) {
	if err := requireArgs("write_file", args, 2); err != nil {
		return nil, err
	}
	path, ok := args[0].(value.Str)
	if !ok {
		return nil, &value.TypeMismatchError{Op: "write_file", Want: value.TypeString, Got: args[0].Type()}
	}
	content, ok := args[1].(value.Str)
	if !ok {
		return nil, &value.TypeMismatchError{Op: "write_file", Want: value.TypeString, Got: args[1].Type()}
	}
	if err := os.WriteFile(path.Value, []byte(content.Value), 0o644); err != nil {
		return nil, &value.InvalidOperationError{Msg: "write_file: " + err.Error()}
	}
	return value.Nil{}, nil
}

func builtinLen(e *Evaluator, args []value.Value) (value.Value, error) {
	if err := requireArgs("len", args, 1); err != nil {
		return nil, err
	}
	return value.Len(args[0])
}

func builtinVec(e *Evaluator, args []value.Value) (value.Value, error) {
	if e.perf != nil {
		e.perf.RecordAllocation(len(args))
	}
	return value.Vector{Elements: args}, nil
}

func builtinMutexNew(e *Evaluator, args []value.Value) (value.Value, error) {
	if err := requireArgs("Mutex::new", args, 1); err != nil {
		return nil, err
	}
	return newMutex(args[0]), nil
}

func builtinArcNew(e *Evaluator, args []value.Value) (value.Value, error) {
	if err := requireArgs("Arc::new", args, 1); err != nil {
		return nil, err
	}
	return e.newArc(args[0]), nil
}

func builtinArcClone(e *Evaluator, args []value.Value) (value.Value, error) {
	if err := requireArgs("Arc::clone", args, 1); err != nil {
		return nil, err
	}
	return e.cloneArc(args[0])
}

func builtinChannel(e *Evaluator, args []value.Value) (value.Value, error) {
	if err := requireArgs("mpsc::channel", args, 0); err != nil {
		return nil, err
	}
	return e.newChannel(), nil
}

func builtinHashMapNew(e *Evaluator, args []value.Value) (value.Value, error) {
	if err := requireArgs("HashMap::new", args, 0); err != nil {
		return nil, err
	}
	return value.NewMap(), nil
}
