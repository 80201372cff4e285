// Package script is the host-embedding surface: construct an Engine,
// register host functions and types on it, then run script source
// against it. It wires internal/parser, internal/evaluator, and
// internal/stdlib together behind a single New(opts ...Option)
// constructor.
package script

import (
	"fmt"
	"os"

	"github.com/cwbudde/scriptengine/internal/diagnostics"
	"github.com/cwbudde/scriptengine/internal/evaluator"
	"github.com/cwbudde/scriptengine/internal/parser"
	"github.com/cwbudde/scriptengine/internal/registry"
	"github.com/cwbudde/scriptengine/internal/scope"
	"github.com/cwbudde/scriptengine/internal/stdlib"
	"github.com/cwbudde/scriptengine/internal/token"
	"github.com/cwbudde/scriptengine/internal/value"
)

// noPos marks a diagnostics.Error that has no single source position to
// point at (a file-read failure, a parse error that is not a *parser.Error).
var noPos token.Position

// Engine owns a function registry and evaluator; it is safe to reuse
// across many Eval calls, each against either a fresh or caller-supplied
// Scope.
type Engine struct {
	reg *registry.Registry
	ev  *evaluator.Evaluator
}

// New constructs an Engine with the standard arithmetic/comparison/
// logical/string operator set pre-registered, applying opts afterward so
// a WithLoader option can see the fully-built registry if it needs to.
func New(opts ...Option) (*Engine, error) {
	reg := registry.New()
	if err := stdlib.Register(reg); err != nil {
		return nil, fmt.Errorf("script: registering stdlib: %w", err)
	}
	e := &Engine{reg: reg, ev: evaluator.New(reg)}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// RegisterNative installs fn (an arbitrary Go function of arity 0..6,
// returning a value and/or an error) as a native candidate under name.
func (e *Engine) RegisterNative(name string, fn any) error {
	return e.reg.RegisterNative(name, fn)
}

// RegisterType installs cloneFn as the "clone" candidate for the Go type
// it accepts, which every script value of that type must have to flow
// through assignment, script-call argument passing, and dotted access.
func (e *Engine) RegisterType(cloneFn any) error {
	return e.reg.RegisterNative("clone", cloneFn)
}

// RegisterGet installs getFn as the "get$name" candidate.
func (e *Engine) RegisterGet(name string, getFn any) error {
	return e.reg.RegisterNative("get$"+name, getFn)
}

// RegisterSet installs setFn as the "set$name" candidate. setFn must
// follow the functional-update convention: it takes (receiver, newValue)
// and returns the updated receiver, so the evaluator can write the result
// back into the binding it was read from.
func (e *Engine) RegisterSet(name string, setFn any) error {
	return e.reg.RegisterNative("set$"+name, setFn)
}

// RegisterGetSet is sugar for one RegisterGet plus one RegisterSet call.
func (e *Engine) RegisterGetSet(name string, getFn, setFn any) error {
	if err := e.RegisterGet(name, getFn); err != nil {
		return err
	}
	return e.RegisterSet(name, setFn)
}

// Bind seeds name = val directly into sc, bypassing script syntax. Used
// by cmd/script --config to pre-populate globals before Eval.
func (e *Engine) Bind(sc *scope.Scope, name string, val any) {
	sc.Push(name, value.Of(val))
}

// Eval parses and evaluates src against a fresh Scope, downcasting the
// final Value to T.
func Eval[T any](e *Engine, src string) (T, error) {
	return EvalWithScope[T](e, scope.New(), src)
}

// EvalWithScope parses and evaluates src against sc, so bindings and
// installed functions persist across repeated calls on the same sc.
func EvalWithScope[T any](e *Engine, sc *scope.Scope, src string) (T, error) {
	var zero T
	stmts, fns, err := parser.Parse(src)
	if err != nil {
		return zero, asParseError(err)
	}
	if err := e.ev.InstallFunctions(fns); err != nil {
		return zero, err
	}
	result, err := e.ev.Run(sc, stmts)
	if err != nil {
		return zero, err
	}
	t, ok := value.As[T](result)
	if !ok {
		return zero, diagnostics.New(diagnostics.MismatchOutputType, noPos,
			"result has type %s, not the requested output type", result.TypeName())
	}
	return t, nil
}

// Consume is Eval discarding the result, for scripts run purely for
// side effects (host function calls).
func (e *Engine) Consume(src string) error {
	return e.ConsumeWithScope(scope.New(), src)
}

// ConsumeWithScope is EvalWithScope discarding the result.
func (e *Engine) ConsumeWithScope(sc *scope.Scope, src string) error {
	stmts, fns, err := parser.Parse(src)
	if err != nil {
		return asParseError(err)
	}
	if err := e.ev.InstallFunctions(fns); err != nil {
		return err
	}
	_, err = e.ev.Run(sc, stmts)
	return err
}

// EvalFile reads path as UTF-8 and evaluates it as src, wrapping a read
// failure as diagnostics.CantOpenScriptFile.
func EvalFile[T any](e *Engine, path string) (T, error) {
	var zero T
	data, err := os.ReadFile(path)
	if err != nil {
		return zero, diagnostics.New(diagnostics.CantOpenScriptFile, noPos, "%v", err)
	}
	return Eval[T](e, string(data))
}

func asParseError(err error) error {
	if pe, ok := err.(*parser.Error); ok {
		return diagnostics.New(diagnostics.ParseError, pe.Pos, "%s", pe.Message)
	}
	return diagnostics.New(diagnostics.ParseError, noPos, "%v", err)
}
