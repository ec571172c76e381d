package runtime

import "sort"

// BindingKind separates variable bindings from function bindings that share a
// name.
type BindingKind int

const (
	ValueBinding BindingKind = iota
	FunctionBinding
)

func (k BindingKind) String() string {
	if k == FunctionBinding {
		return "function"
	}
	return "value"
}

type bindingKey struct {
	kind BindingKind
	name string
}

// frame holds the bindings of one scope id.
type frame map[bindingKey]Value

// Store is the binding store, keyed by (scope, kind, name). It is a stack of
// frames: frame i holds every binding of scope id i. Scope 0 is the top level
// and a call body runs one scope above its caller.
type Store struct {
	frames []frame
}

// NewStore creates a store holding only the empty top-level frame.
func NewStore() *Store {
	return &Store{frames: []frame{{}}}
}

// Get returns the binding at exactly (scope, kind, name).
func (s *Store) Get(scope int, kind BindingKind, name string) (Value, bool) {
	if scope < 0 || scope >= len(s.frames) {
		return nil, false
	}
	v, ok := s.frames[scope][bindingKey{kind, name}]
	return v, ok
}

// Lookup walks outward from scope to the top level and returns the nearest
// binding together with the scope it was found in.
func (s *Store) Lookup(scope int, kind BindingKind, name string) (Value, int, bool) {
	if scope >= len(s.frames) {
		scope = len(s.frames) - 1
	}
	for ; scope >= 0; scope-- {
		if v, ok := s.frames[scope][bindingKey{kind, name}]; ok {
			return v, scope, true
		}
	}
	return nil, -1, false
}

// Insert writes a binding, replacing any previous value for the same key.
// Frames up to scope are opened as needed.
func (s *Store) Insert(scope int, kind BindingKind, name string, v Value) {
	for len(s.frames) <= scope {
		s.frames = append(s.frames, frame{})
	}
	s.frames[scope][bindingKey{kind, name}] = v
}

// Push opens a fresh frame above the current top and returns its scope id.
func (s *Store) Push() int {
	s.frames = append(s.frames, frame{})
	return len(s.frames) - 1
}

// Enter discards any frames at or above scope and opens an empty frame for
// it, returning scope.
func (s *Store) Enter(scope int) int {
	s.Purge(scope)
	for s.Depth() < scope {
		s.Push()
	}
	return scope
}

// Purge removes every binding of scope and of any scope above it. Purging
// scope 0 leaves an empty top-level frame.
func (s *Store) Purge(scope int) {
	if scope < 0 || scope >= len(s.frames) {
		return
	}
	for i := scope; i < len(s.frames); i++ {
		s.frames[i] = nil
	}
	s.frames = s.frames[:scope]
	if len(s.frames) == 0 {
		s.frames = append(s.frames, frame{})
	}
}

// Depth returns the scope id of the topmost frame.
func (s *Store) Depth() int {
	return len(s.frames) - 1
}

// Len returns the number of bindings in scope.
func (s *Store) Len(scope int) int {
	if scope < 0 || scope >= len(s.frames) {
		return 0
	}
	return len(s.frames[scope])
}

// Names returns the sorted names bound in scope with the given kind.
func (s *Store) Names(scope int, kind BindingKind) []string {
	if scope < 0 || scope >= len(s.frames) {
		return nil
	}
	var names []string
	for k := range s.frames[scope] {
		if k.kind == kind {
			names = append(names, k.name)
		}
	}
	sort.Strings(names)
	return names
}
