// Package value implements the dynamic, opaque container every script value
// flows through: a thin typed box around an arbitrary Go value, plus the
// Array container used for script-level indexable collections.
package value

import (
	"fmt"
	"reflect"
)

// Value is the dynamic box every script-visible datum is stored in. It never
// exposes its payload's concrete type directly; callers downcast with As.
type Value struct {
	v any
}

// Of boxes a Go value.
func Of(v any) Value {
	return Value{v: v}
}

// Unit is the zero value produced by statements with no useful result
// (bare `return;`, a `let` with no initializer read before assignment, etc).
var Unit = Value{v: nil}

// IsUnit reports whether v holds no payload.
func (v Value) IsUnit() bool {
	return v.v == nil
}

// Interface returns the boxed payload as `any`, for host interop.
func (v Value) Interface() any {
	return v.v
}

// TypeName returns a human-readable name for the boxed value's dynamic type,
// used in diagnostic messages.
func (v Value) TypeName() string {
	if v.v == nil {
		return "unit"
	}
	switch v.v.(type) {
	case *Array:
		return "array"
	default:
		return reflect.TypeOf(v.v).String()
	}
}

func (v Value) String() string {
	if v.v == nil {
		return "()"
	}
	return fmt.Sprintf("%v", v.v)
}

// As attempts to downcast v's payload to T, reporting false if the dynamic
// type does not match exactly.
func As[T any](v Value) (T, bool) {
	t, ok := v.v.(T)
	return t, ok
}

// MustAs downcasts v's payload to T, panicking on mismatch. Reserved for
// call sites that have already verified the type (e.g. right after a
// successful NativeAdapter dispatch).
func MustAs[T any](v Value) T {
	t, ok := As[T](v)
	if !ok {
		var zero T
		panic(fmt.Sprintf("value: MustAs[%T] on %s", zero, v.TypeName()))
	}
	return t
}

// Array is a script-level indexable, resizable sequence of Values. It is
// passed by reference: cloning an Array (via the registered "clone" native)
// must produce a new backing slice, never alias the original.
type Array struct {
	Elems []Value
}

// NewArray wraps elems as an Array Value.
func NewArray(elems []Value) Value {
	return Of(&Array{Elems: elems})
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.Elems)
}

// Get returns the element at i, or false if i is out of [0, Len).
func (a *Array) Get(i int) (Value, bool) {
	if i < 0 || i >= len(a.Elems) {
		return Value{}, false
	}
	return a.Elems[i], true
}

// Set overwrites the element at i, returning false if i is out of [0, Len).
func (a *Array) Set(i int, v Value) bool {
	if i < 0 || i >= len(a.Elems) {
		return false
	}
	a.Elems[i] = v
	return true
}

// Clone returns a new Array with a freshly allocated backing slice. Elements
// are copied shallowly; if they are themselves reference types, cloning a
// nested structure deeply is the registered type's own "clone" native's
// responsibility.
func (a *Array) Clone() *Array {
	elems := make([]Value, len(a.Elems))
	copy(elems, a.Elems)
	return &Array{Elems: elems}
}

func (a *Array) String() string {
	return fmt.Sprintf("%v", a.Elems)
}
