// Package registry implements the function registry and native-function
// adapter: candidates are grouped by name and arity, and the first
// registered candidate whose argument types actually accept the call wins.
package registry

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/cwbudde/scriptengine/internal/ast"
	"github.com/cwbudde/scriptengine/internal/value"
)

// ErrArgTypeMismatch is returned by a NativeAdapter's per-argument downcast
// step when an argument's dynamic type does not match the wrapped Go
// function's declared parameter type. It is the ONLY error that tells
// Registry.Call to retry the next same-arity candidate; any other error
// returned from inside a native function body propagates immediately.
var ErrArgTypeMismatch = errors.New("registry: argument type mismatch")

// ErrFunctionNotFound means no candidate of any arity is registered under
// that name.
var ErrFunctionNotFound = errors.New("registry: function not found")

// ErrArgMismatch means candidates exist under that name, but none accept
// the given argument count, or every candidate of that count rejected the
// arguments' types.
var ErrArgMismatch = errors.New("registry: no candidate accepts this argument count")

// ErrArityNotSupported means a function (native or script) was registered,
// or would need to be registered, with more than MaxArity parameters.
var ErrArityNotSupported = errors.New("registry: arity not supported (max 6 parameters)")

// ErrCallNotSupported means a call expression carried more arguments than
// any dispatch path can represent.
var ErrCallNotSupported = errors.New("registry: call not supported")

// MaxArity is the highest parameter count any native or script function may
// declare, matching the original engine's ExternalFn0..ExternalFn6 family.
const MaxArity = 6

// Native is a reflection-wrapped host function of any supported arity
// (0..MaxArity), taking boxed Values and returning a boxed Value or an
// error.
type Native func(args []value.Value) (value.Value, error)

// ScriptCandidate pairs a script-defined function body with the Evaluator
// callback used to run it; kept as an opaque func so this package does not
// need to import internal/evaluator (which in turn imports this package).
type ScriptCandidate struct {
	Def  *ast.FnDef
	Call func(def *ast.FnDef, args []value.Value) (value.Value, error)
}

// candidate is one registered implementation for a given name+arity bucket.
type candidate struct {
	arity    int
	native   Native
	script   *ScriptCandidate
}

func (c candidate) invoke(args []value.Value) (value.Value, error) {
	if c.native != nil {
		return c.native(args)
	}
	return c.script.Call(c.script.Def, args)
}

// Registry holds every registered native and script function, keyed by
// name, each name keeping an ordered list of candidates across arities.
type Registry struct {
	candidates map[string][]candidate
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{candidates: make(map[string][]candidate)}
}

// RegisterNative wraps fn (an arbitrary Go function of arity 0..MaxArity)
// as a Native candidate using reflection: each call attempt downcasts the
// supplied Values to fn's declared parameter types, returning
// ErrArgTypeMismatch on the first mismatch so Registry.Call can try the
// next same-arity candidate.
func (r *Registry) RegisterNative(name string, fn any) error {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return fmt.Errorf("registry: RegisterNative(%q): not a function", name)
	}
	rt := rv.Type()
	if rt.IsVariadic() {
		return fmt.Errorf("registry: RegisterNative(%q): variadic functions not supported", name)
	}
	arity := rt.NumIn()
	if arity > MaxArity {
		return ErrArityNotSupported
	}

	native := adaptNative(rv, rt)
	r.candidates[name] = append(r.candidates[name], candidate{arity: arity, native: native})
	return nil
}

// adaptNative builds the Native closure that performs per-argument downcast
// and the reflect.Value.Call invocation.
func adaptNative(rv reflect.Value, rt reflect.Type) Native {
	numOut := rt.NumOut()
	return func(args []value.Value) (value.Value, error) {
		in := make([]reflect.Value, rt.NumIn())
		for i := 0; i < rt.NumIn(); i++ {
			want := rt.In(i)
			got := args[i].Interface()
			if got == nil {
				// A unit argument can only satisfy an interface{} parameter.
				if want.Kind() != reflect.Interface {
					return value.Value{}, ErrArgTypeMismatch
				}
				in[i] = reflect.Zero(want)
				continue
			}
			gv := reflect.ValueOf(got)
			if !gv.Type().AssignableTo(want) {
				// Go assignability only (the exact dynamic type, or an
				// interface parameter the value implements): the adapter
				// never silently widens or narrows numeric types, so overload resolution
				// among same-arity candidates stays deterministic (§9,
				// "dispatch determinism").
				return value.Value{}, ErrArgTypeMismatch
			}
			in[i] = gv
		}

		out := rv.Call(in)

		switch numOut {
		case 0:
			return value.Unit, nil
		case 1:
			if isErrorType(rt.Out(0)) {
				if out[0].IsNil() {
					return value.Unit, nil
				}
				return value.Value{}, out[0].Interface().(error)
			}
			return value.Of(out[0].Interface()), nil
		default:
			// (result, error) convention.
			var err error
			if errIface := out[numOut-1].Interface(); errIface != nil {
				err = errIface.(error)
			}
			if err != nil {
				return value.Value{}, err
			}
			return value.Of(out[0].Interface()), nil
		}
	}
}

func isErrorType(t reflect.Type) bool {
	return t.Implements(reflect.TypeOf((*error)(nil)).Elem())
}

// RegisterScript installs a script-defined function as a candidate,
// returning ErrArityNotSupported if it declares more than MaxArity params.
func (r *Registry) RegisterScript(name string, def *ast.FnDef, call func(def *ast.FnDef, args []value.Value) (value.Value, error)) error {
	if len(def.Params) > MaxArity {
		return ErrArityNotSupported
	}
	r.candidates[name] = append(r.candidates[name], candidate{
		arity:  len(def.Params),
		script: &ScriptCandidate{Def: def, Call: call},
	})
	return nil
}

// Has reports whether any candidate is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.candidates[name]
	return ok
}

// Call dispatches a call to name with the given arguments. Candidates of
// matching arity are tried in registration order; a candidate whose
// adapter reports ErrArgTypeMismatch is skipped in favor of the next one.
// Any other error returned by a candidate propagates immediately.
func (r *Registry) Call(name string, args []value.Value) (value.Value, error) {
	list, ok := r.candidates[name]
	if !ok {
		return value.Value{}, fmt.Errorf("%w: %q", ErrFunctionNotFound, name)
	}

	arity := len(args)
	tried := false
	for _, c := range list {
		if c.arity != arity {
			continue
		}
		tried = true
		result, err := c.invoke(args)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, ErrArgTypeMismatch) {
			continue
		}
		return value.Value{}, err
	}
	if !tried {
		return value.Value{}, fmt.Errorf("%w: %q/%d", ErrArgMismatch, name, arity)
	}
	return value.Value{}, fmt.Errorf("%w: %q/%d: no candidate's argument types matched", ErrArgMismatch, name, arity)
}
