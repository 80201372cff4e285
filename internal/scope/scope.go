// Package scope implements the flat, length-truncated variable stack the
// evaluator uses for block scoping — a single growing slice rather than a
// chain of per-block environments, mirroring the original engine's
// `Vec<(String, Box<Any>)>` scope representation.
package scope

import "github.com/cwbudde/scriptengine/internal/value"

// Binding is one named slot on the Scope stack.
type Binding struct {
	Name  string
	Value value.Value
}

// UseKind distinguishes a `use` record that aliases a module symbol from one
// that aliases a module function.
type UseKind int

const (
	UseSymbol UseKind = iota
	UseFunction
)

// UseRecord remembers that Local was imported from Module under this Kind,
// consulted only after an ordinary lookup of Local fails.
type UseRecord struct {
	Module string
	Local  string
	Kind   UseKind
}

// Scope is the flat variable stack for one evaluation. Block entry/exit is
// modeled by snapshotting Len() and TruncateTo-ing back to it on exit,
// never by pushing a new nested Scope.
type Scope struct {
	bindings []Binding
	uses     []UseRecord
}

// New returns an empty Scope.
func New() *Scope {
	return &Scope{}
}

// Len returns the current number of live bindings.
func (s *Scope) Len() int {
	return len(s.bindings)
}

// Push appends a new binding, shadowing any earlier binding of the same
// name (lookup always searches from the top).
func (s *Scope) Push(name string, v value.Value) {
	s.bindings = append(s.bindings, Binding{Name: name, Value: v})
}

// TruncateTo drops all bindings past index n, restoring the scope to the
// state captured by an earlier Len() call. It is a no-op if n >= Len().
func (s *Scope) TruncateTo(n int) {
	if n < len(s.bindings) {
		s.bindings = s.bindings[:n]
	}
}

// Lookup searches bindings from the top (most recently pushed first), so
// shadowing a name finds the innermost binding.
func (s *Scope) Lookup(name string) (value.Value, int, bool) {
	for i := len(s.bindings) - 1; i >= 0; i-- {
		if s.bindings[i].Name == name {
			return s.bindings[i].Value, i, true
		}
	}
	return value.Value{}, -1, false
}

// Set overwrites the binding at index i (as returned by Lookup).
func (s *Scope) Set(i int, v value.Value) {
	s.bindings[i].Value = v
}

// PushUse records that Local was imported from Module under Kind.
func (s *Scope) PushUse(module, local string, kind UseKind) {
	s.uses = append(s.uses, UseRecord{Module: module, Local: local, Kind: kind})
}

// LookupUse searches use records from the top for Local, mirroring the
// shadowing behavior of Lookup.
func (s *Scope) LookupUse(local string) (UseRecord, bool) {
	for i := len(s.uses) - 1; i >= 0; i-- {
		if s.uses[i].Local == local {
			return s.uses[i], true
		}
	}
	return UseRecord{}, false
}

// UseLen returns the current number of live use records, for the same
// snapshot/truncate block-scoping discipline as Len/TruncateTo.
func (s *Scope) UseLen() int {
	return len(s.uses)
}

// TruncateUsesTo drops all use records past index n.
func (s *Scope) TruncateUsesTo(n int) {
	if n < len(s.uses) {
		s.uses = s.uses[:n]
	}
}
