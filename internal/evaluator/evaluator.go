// Package evaluator implements the tree-walking evaluator: statement and
// expression execution against a Scope, dispatching calls through a
// FunctionRegistry and delegating dotted/indexed access to the helpers in
// dotted.go.
package evaluator

import (
	"errors"
	"sync"

	"github.com/cwbudde/scriptengine/internal/ast"
	"github.com/cwbudde/scriptengine/internal/diagnostics"
	"github.com/cwbudde/scriptengine/internal/registry"
	"github.com/cwbudde/scriptengine/internal/scope"
	"github.com/cwbudde/scriptengine/internal/stdlib"
	"github.com/cwbudde/scriptengine/internal/token"
	"github.com/cwbudde/scriptengine/internal/value"
)

// Module is a loaded module: its own function registry and scope, reachable
// only through the indirection of a UseRecord. Mutex-guarded because a
// Loader may cache and share the same Module across concurrent importers.
type Module struct {
	Registry *registry.Registry
	Scope    *scope.Scope
	mu       sync.Mutex
}

// NewModule wraps an already-evaluated registry+scope pair as a Module.
func NewModule(reg *registry.Registry, sc *scope.Scope) *Module {
	return &Module{Registry: reg, Scope: sc}
}

// Loader resolves an import path to a Module. The Evaluator never
// constructs one itself — it is an optional collaborator supplied by the
// host (pkg/script.WithLoader), nil by default. internal/modules provides
// the one concrete FileLoader implementation; it is not imported here to
// avoid a package cycle (a Loader must itself run a nested Evaluator).
type Loader interface {
	Load(path string) (*Module, error)
}

// loopBreak is the internal Break signal; it travels the Go error channel
// but is never shown to a script author.
type loopBreak struct{}

func (loopBreak) Error() string { return "break outside of eval_stmt's control" }

// returnSignal is the internal Return signal, carrying the returned Value.
type returnSignal struct {
	Value value.Value
}

func (r *returnSignal) Error() string { return "return outside of a function call" }

// DefaultMaxCallDepth bounds script-call recursion when no explicit limit
// is configured.
const DefaultMaxCallDepth = 1024

// Evaluator executes statements and expressions against a caller-supplied
// Scope. It holds the function registry calls dispatch through and an
// optional module Loader; both may be shared across Evaluator instances.
// Variables live in the Scope; the Evaluator itself also keeps mutable
// state of its own (the current call depth and the modules imported so
// far).
type Evaluator struct {
	Reg          *registry.Registry
	Loader       Loader
	MaxCallDepth int
	modules      map[string]*Module
	callDepth    int
}

// New returns an Evaluator dispatching calls through reg.
func New(reg *registry.Registry) *Evaluator {
	return &Evaluator{Reg: reg, MaxCallDepth: DefaultMaxCallDepth}
}

// SetLoader installs the optional module collaborator.
func (e *Evaluator) SetLoader(l Loader) {
	e.Loader = l
}

// SetMaxCallDepth overrides the script-call recursion limit; values <= 0
// restore DefaultMaxCallDepth.
func (e *Evaluator) SetMaxCallDepth(n int) {
	if n <= 0 {
		n = DefaultMaxCallDepth
	}
	e.MaxCallDepth = n
}

// InstallFunctions registers each script-defined function as a candidate in
// the Evaluator's registry, rejecting any FnDef with more than
// registry.MaxArity parameters. Arity is enforced here, at install time,
// never by the parser.
func (e *Evaluator) InstallFunctions(defs []ast.FnDef) error {
	for i := range defs {
		def := &defs[i]
		if len(def.Params) > registry.MaxArity {
			return diagnostics.New(diagnostics.ArityNotSupported, def.Position,
				"function %q declares %d parameters (max %d)", def.Name, len(def.Params), registry.MaxArity)
		}
		if err := e.Reg.RegisterScript(def.Name, def, e.callScript); err != nil {
			return wrapErr(def.Position, err)
		}
	}
	return nil
}

// Run evaluates stmts in order against sc and returns the value of the
// last statement (unit if stmts is empty). A LoopBreak or Return signal
// that escapes every statement is an evaluator bug, not a script error, and
// is reported as diagnostics.InternalBug rather than leaking to the host.
func (e *Evaluator) Run(sc *scope.Scope, stmts []ast.Stmt) (value.Value, error) {
	result := value.Unit
	for _, s := range stmts {
		v, err := e.evalStmt(sc, s)
		if err != nil {
			if sig, pos, ok := asControlSignal(err, s.Pos()); ok {
				return value.Value{}, diagnostics.New(diagnostics.InternalBug, pos,
					"control-flow signal %q escaped top-level evaluation", sig)
			}
			return value.Value{}, err
		}
		result = v
	}
	return result, nil
}

func asControlSignal(err error, pos token.Position) (string, token.Position, bool) {
	var lb loopBreak
	if errors.As(err, &lb) {
		return "break", pos, true
	}
	var rs *returnSignal
	if errors.As(err, &rs) {
		return "return", pos, true
	}
	return "", pos, false
}

// callScript is the ScriptCandidate.Call callback invoked by the registry
// when a Script candidate is selected: it clones each argument through the
// registered "clone" native to give the callee value semantics, binds
// them to the function's parameters in a fresh Scope, and evaluates the
// body.
func (e *Evaluator) callScript(def *ast.FnDef, args []value.Value) (value.Value, error) {
	limit := e.MaxCallDepth
	if limit <= 0 {
		limit = DefaultMaxCallDepth
	}
	if e.callDepth >= limit {
		return value.Value{}, diagnostics.New(diagnostics.CallStackOverflow, def.Position,
			"call to %q exceeds maximum call depth (%d)", def.Name, limit)
	}
	e.callDepth++
	defer func() { e.callDepth-- }()

	fnScope := scope.New()
	for i, p := range def.Params {
		cloned, err := e.clone(def.Position, args[i])
		if err != nil {
			return value.Value{}, err
		}
		fnScope.Push(p, cloned)
	}

	result, err := e.evalStmt(fnScope, def.Body)
	if err != nil {
		var rs *returnSignal
		if errors.As(err, &rs) {
			return rs.Value, nil
		}
		var lb loopBreak
		if errors.As(err, &lb) {
			return value.Value{}, diagnostics.New(diagnostics.InternalBug, def.Position,
				"break outside of a loop in function %q", def.Name)
		}
		de := wrapErr(def.Position, err)
		if diagErr, ok := de.(*diagnostics.Error); ok {
			return value.Value{}, diagErr.WithFrame(diagnostics.Frame{Name: def.Name, Pos: def.Position})
		}
		return value.Value{}, de
	}
	return result, nil
}

// clone invokes the registered "clone" native for v's dynamic type. Unit
// values need no cloning (they carry no state to alias).
func (e *Evaluator) clone(pos token.Position, v value.Value) (value.Value, error) {
	if v.IsUnit() {
		return v, nil
	}
	result, err := e.Reg.Call("clone", []value.Value{v})
	if err != nil {
		return value.Value{}, wrapErr(pos, err)
	}
	return result, nil
}

// wrapErr adapts a registry sentinel error (or any other error) into a
// diagnostics.Error carrying pos, unless it already is one.
func wrapErr(pos token.Position, err error) error {
	if err == nil {
		return nil
	}
	if de, ok := err.(*diagnostics.Error); ok {
		return de
	}
	kind := diagnostics.CallNotSupported
	switch {
	case errors.Is(err, registry.ErrFunctionNotFound):
		kind = diagnostics.FunctionNotFound
	case errors.Is(err, registry.ErrArgMismatch):
		kind = diagnostics.ArgMismatch
	case errors.Is(err, registry.ErrArityNotSupported):
		kind = diagnostics.ArityNotSupported
	case errors.Is(err, registry.ErrArgTypeMismatch):
		kind = diagnostics.ArgMismatch
	}
	return diagnostics.New(kind, pos, "%s", err.Error())
}

func (e *Evaluator) evalStmt(sc *scope.Scope, s ast.Stmt) (value.Value, error) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		return e.evalExpr(sc, n.X)

	case *ast.Block:
		prevLen := sc.Len()
		prevUses := sc.UseLen()
		result := value.Unit
		for _, stmt := range n.Stmts {
			v, err := e.evalStmt(sc, stmt)
			if err != nil {
				sc.TruncateTo(prevLen)
				sc.TruncateUsesTo(prevUses)
				return value.Value{}, err
			}
			result = v
		}
		sc.TruncateTo(prevLen)
		sc.TruncateUsesTo(prevUses)
		return result, nil

	case *ast.If:
		cond, err := e.evalBool(sc, n.Cond, n.Position)
		if err != nil {
			return value.Value{}, err
		}
		if cond {
			return e.evalStmt(sc, n.Then)
		}
		return value.Unit, nil

	case *ast.IfElse:
		cond, err := e.evalBool(sc, n.Cond, n.Position)
		if err != nil {
			return value.Value{}, err
		}
		if cond {
			return e.evalStmt(sc, n.Then)
		}
		return e.evalStmt(sc, n.Else)

	case *ast.While:
		for {
			cond, err := e.evalBool(sc, n.Cond, n.Position)
			if err != nil {
				return value.Value{}, err
			}
			if !cond {
				return value.Unit, nil
			}
			if _, err := e.evalStmt(sc, n.Body); err != nil {
				var lb loopBreak
				if errors.As(err, &lb) {
					return value.Unit, nil
				}
				return value.Value{}, err
			}
		}

	case *ast.Loop:
		for {
			if _, err := e.evalStmt(sc, n.Body); err != nil {
				var lb loopBreak
				if errors.As(err, &lb) {
					return value.Unit, nil
				}
				return value.Value{}, err
			}
		}

	case *ast.Break:
		return value.Value{}, loopBreak{}

	case *ast.Return:
		return value.Value{}, &returnSignal{Value: value.Unit}

	case *ast.ReturnWithVal:
		v, err := e.evalExpr(sc, n.Value)
		if err != nil {
			return value.Value{}, err
		}
		return value.Value{}, &returnSignal{Value: v}

	case *ast.Var:
		v := value.Unit
		if n.Init != nil {
			vv, err := e.evalExpr(sc, n.Init)
			if err != nil {
				return value.Value{}, err
			}
			v = vv
		}
		sc.Push(n.Name, v)
		return value.Unit, nil

	case *ast.Use:
		return e.evalUse(sc, n)

	default:
		return value.Value{}, diagnostics.New(diagnostics.MalformedDotExpression, s.Pos(), "unsupported statement")
	}
}

func (e *Evaluator) evalBool(sc *scope.Scope, cond ast.Expr, pos token.Position) (bool, error) {
	v, err := e.evalExpr(sc, cond)
	if err != nil {
		return false, err
	}
	b, ok := value.As[bool](v)
	if !ok {
		return false, diagnostics.New(diagnostics.IfGuardMismatch, pos, "guard did not evaluate to a bool")
	}
	return b, nil
}

func (e *Evaluator) evalUse(sc *scope.Scope, n *ast.Use) (value.Value, error) {
	mod, ok := e.modules[n.Module]
	if !ok {
		return value.Value{}, diagnostics.New(diagnostics.ModuleNotFound, n.Position, "module %q not loaded (import it first)", n.Module)
	}
	mod.mu.Lock()
	_, _, hasSymbol := mod.Scope.Lookup(n.Member)
	hasFunction := mod.Registry.Has(n.Member)
	mod.mu.Unlock()

	var kind scope.UseKind
	switch {
	case hasFunction:
		kind = scope.UseFunction
	case hasSymbol:
		kind = scope.UseSymbol
	default:
		return value.Value{}, diagnostics.New(diagnostics.ModuleMemberNotFound, n.Position, "member %q not found in module %q", n.Member, n.Module)
	}
	sc.PushUse(n.Module, n.Member, kind)
	return value.Unit, nil
}

func (e *Evaluator) evalExpr(sc *scope.Scope, expr ast.Expr) (value.Value, error) {
	switch n := expr.(type) {
	case *ast.IntConst:
		return value.Of(n.Value), nil
	case *ast.FloatConst:
		return value.Of(n.Value), nil
	case *ast.StringConst:
		return value.Of(stdlib.NFC(n.Value)), nil
	case *ast.CharConst:
		return value.Of(n.Value), nil
	case *ast.True:
		return value.Of(true), nil
	case *ast.False:
		return value.Of(false), nil
	case *ast.Identifier:
		return e.evalIdentifier(sc, n)
	case *ast.Index:
		return e.evalIndex(sc, n)
	case *ast.Assignment:
		return e.evalAssignment(sc, n)
	case *ast.Dot:
		return e.getDotVal(sc, n)
	case *ast.Array:
		elems := make([]value.Value, len(n.Elems))
		for i, el := range n.Elems {
			v, err := e.evalExpr(sc, el)
			if err != nil {
				return value.Value{}, err
			}
			elems[i] = v
		}
		return value.NewArray(elems), nil
	case *ast.FnCall:
		return e.evalFnCall(sc, n)
	case *ast.Import:
		return e.evalImport(sc, n)
	default:
		return value.Value{}, diagnostics.New(diagnostics.MalformedDotExpression, expr.Pos(), "unsupported expression")
	}
}

func (e *Evaluator) evalIdentifier(sc *scope.Scope, n *ast.Identifier) (value.Value, error) {
	if v, _, ok := sc.Lookup(n.Name); ok {
		return e.clone(n.Position, v)
	}
	if rec, ok := sc.LookupUse(n.Name); ok && rec.Kind == scope.UseSymbol {
		mod, ok := e.modules[rec.Module]
		if !ok {
			return value.Value{}, diagnostics.New(diagnostics.ModuleNotFound, n.Position, "module %q not loaded", rec.Module)
		}
		mod.mu.Lock()
		mv, _, ok := mod.Scope.Lookup(rec.Local)
		mod.mu.Unlock()
		if !ok {
			return value.Value{}, diagnostics.New(diagnostics.ModuleMemberNotFound, n.Position, "member %q not found in module %q", rec.Local, rec.Module)
		}
		return e.clone(n.Position, mv)
	}
	return value.Value{}, diagnostics.New(diagnostics.VariableNotFound, n.Position, "variable %q not found", n.Name)
}

// resolveIndex evaluates idxExpr, requiring a non-negative int64.
func (e *Evaluator) resolveIndex(sc *scope.Scope, idxExpr ast.Expr) (int, error) {
	idxVal, err := e.evalExpr(sc, idxExpr)
	if err != nil {
		return 0, err
	}
	i, ok := value.As[int64](idxVal)
	if !ok {
		return 0, diagnostics.New(diagnostics.IndexMismatch, idxExpr.Pos(), "index must be an integer")
	}
	if i < 0 {
		return 0, diagnostics.New(diagnostics.IndexOutOfBounds, idxExpr.Pos(), "negative index %d not supported", i)
	}
	return int(i), nil
}

func (e *Evaluator) evalIndex(sc *scope.Scope, n *ast.Index) (value.Value, error) {
	targetVal, err := e.evalExpr(sc, n.Target)
	if err != nil {
		return value.Value{}, err
	}
	arr, ok := value.As[*value.Array](targetVal)
	if !ok {
		return value.Value{}, diagnostics.New(diagnostics.IndexMismatch, n.Position, "index target is not an array")
	}
	i, err := e.resolveIndex(sc, n.Idx)
	if err != nil {
		return value.Value{}, err
	}
	elem, ok := arr.Get(i)
	if !ok {
		return value.Value{}, diagnostics.New(diagnostics.IndexOutOfBounds, n.Position, "index %d out of bounds", i)
	}
	return e.clone(n.Position, elem)
}

func (e *Evaluator) evalAssignment(sc *scope.Scope, n *ast.Assignment) (value.Value, error) {
	rv, err := e.evalExpr(sc, n.Rhs)
	if err != nil {
		return value.Value{}, err
	}

	switch lhs := n.Lhs.(type) {
	case *ast.Identifier:
		_, idx, ok := sc.Lookup(lhs.Name)
		if !ok {
			return value.Value{}, diagnostics.New(diagnostics.VariableNotFound, lhs.Position, "variable %q not found", lhs.Name)
		}
		sc.Set(idx, rv)
		return rv, nil

	case *ast.Index:
		ident, ok := lhs.Target.(*ast.Identifier)
		if !ok {
			return value.Value{}, diagnostics.New(diagnostics.AssignmentToUnknownLHS, lhs.Position, "index assignment target must be a plain identifier")
		}
		targetVal, _, ok := sc.Lookup(ident.Name)
		if !ok {
			return value.Value{}, diagnostics.New(diagnostics.VariableNotFound, ident.Position, "variable %q not found", ident.Name)
		}
		arr, ok := value.As[*value.Array](targetVal)
		if !ok {
			return value.Value{}, diagnostics.New(diagnostics.IndexMismatch, lhs.Position, "%q is not an array", ident.Name)
		}
		i, err := e.resolveIndex(sc, lhs.Idx)
		if err != nil {
			return value.Value{}, err
		}
		if !arr.Set(i, rv) {
			return value.Value{}, diagnostics.New(diagnostics.IndexOutOfBounds, lhs.Position, "index %d out of bounds", i)
		}
		return rv, nil

	case *ast.Dot:
		if err := e.setDotVal(sc, lhs, rv); err != nil {
			return value.Value{}, err
		}
		return rv, nil

	default:
		return value.Value{}, diagnostics.New(diagnostics.AssignmentToUnknownLHS, n.Position, "left-hand side is not assignable")
	}
}

func (e *Evaluator) evalFnCall(sc *scope.Scope, n *ast.FnCall) (value.Value, error) {
	if len(n.Args) > registry.MaxArity {
		return value.Value{}, diagnostics.New(diagnostics.CallNotSupported, n.Position, "call to %q takes too many arguments", n.Name)
	}
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := e.evalExpr(sc, a)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}

	result, err := e.Reg.Call(n.Name, args)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, registry.ErrFunctionNotFound) {
		return value.Value{}, wrapErr(n.Position, err)
	}

	if rec, ok := sc.LookupUse(n.Name); ok && rec.Kind == scope.UseFunction {
		mod, ok := e.modules[rec.Module]
		if !ok {
			return value.Value{}, diagnostics.New(diagnostics.ModuleNotFound, n.Position, "module %q not loaded", rec.Module)
		}
		mod.mu.Lock()
		result, err := mod.Registry.Call(rec.Local, args)
		mod.mu.Unlock()
		if err != nil {
			return value.Value{}, wrapErr(n.Position, err)
		}
		return result, nil
	}

	return value.Value{}, diagnostics.New(diagnostics.FunctionNotFound, n.Position, "function %q not found", n.Name)
}

func (e *Evaluator) evalImport(sc *scope.Scope, n *ast.Import) (value.Value, error) {
	if e.Loader == nil {
		return value.Value{}, diagnostics.New(diagnostics.ModuleNotFound, n.Position, "no module loader configured")
	}
	pathVal, err := e.evalExpr(sc, n.Path)
	if err != nil {
		return value.Value{}, err
	}
	path, ok := value.As[string](pathVal)
	if !ok {
		return value.Value{}, diagnostics.New(diagnostics.NotAModule, n.Position, "import path must be a string")
	}
	mod, err := e.Loader.Load(path)
	if err != nil {
		return value.Value{}, diagnostics.New(diagnostics.ModuleError, n.Position, "%v", err)
	}
	if e.modules == nil {
		e.modules = make(map[string]*Module)
	}
	e.modules[path] = mod
	return value.Of(mod), nil
}
