// Package scope implements the chained lexical environment the evaluator
// runs in: child scopes read through to their parent, writes of new
// bindings stay local, and assignment mutates the nearest existing binding.
package scope

import "github.com/ferrolang/ferro/internal/value"

// Scope is one frame of the environment chain.
type Scope struct {
	bindings map[string]value.Value
	parent   *Scope
}

// New creates a new root scope.
func New() *Scope {
	return &Scope{bindings: make(map[string]value.Value)}
}

// CreateChild creates a child scope that reads through to this one.
func (s *Scope) CreateChild() *Scope {
	return &Scope{bindings: make(map[string]value.Value), parent: s}
}

// Parent returns the enclosing scope, or nil at the root.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Define introduces a binding in this scope. Redefining a name already
// bound here replaces it; loop bodies rely on that for per-iteration lets.
func (s *Scope) Define(name string, v value.Value) {
	s.bindings[name] = v
}

// Assign mutates the nearest existing binding, walking outward through
// parents. It reports false if the name is not bound anywhere in the chain.
func (s *Scope) Assign(name string, v value.Value) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.bindings[name]; ok {
			cur.bindings[name] = v
			return true
		}
	}
	return false
}

// GetCloned resolves a name through the chain and returns a deep copy,
// preserving the runtime's by-value semantics.
func (s *Scope) GetCloned(name string) (value.Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.bindings[name]; ok {
			return v.Clone(), true
		}
	}
	return nil, false
}

// Has reports whether a name is bound anywhere in the chain.
func (s *Scope) Has(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.bindings[name]; ok {
			return true
		}
	}
	return false
}

// DeepClone produces a fully independent copy of the entire chain,
// cloning every binding in every frame. Used for snapshotting; distinct
// from CreateChild, which shares the parent frames.
func (s *Scope) DeepClone() *Scope {
	if s == nil {
		return nil
	}
	clone := &Scope{
		bindings: make(map[string]value.Value, len(s.bindings)),
		parent:   s.parent.DeepClone(),
	}
	for k, v := range s.bindings {
		clone.bindings[k] = v.Clone()
	}
	return clone
}
