package evaluator

import (
	"github.com/cwbudde/scriptengine/internal/ast"
	"github.com/cwbudde/scriptengine/internal/diagnostics"
	"github.com/cwbudde/scriptengine/internal/registry"
	"github.com/cwbudde/scriptengine/internal/scope"
	"github.com/cwbudde/scriptengine/internal/token"
	"github.com/cwbudde/scriptengine/internal/value"
)

// dotRoot is the resolved scope location a Dot expression's left-hand side
// is rooted on: an Identifier binding or an Index(identifier, i) array
// slot. get/set let the dotted-access helpers below read and write that
// location without caring which shape it came from.
type dotRoot struct {
	get func() (value.Value, error)
	set func(value.Value) error
}

func (e *Evaluator) resolveDotRoot(sc *scope.Scope, lhs ast.Expr) (dotRoot, error) {
	switch n := lhs.(type) {
	case *ast.Identifier:
		return dotRoot{
			get: func() (value.Value, error) {
				v, _, ok := sc.Lookup(n.Name)
				if !ok {
					return value.Value{}, diagnostics.New(diagnostics.VariableNotFound, n.Position, "variable %q not found", n.Name)
				}
				return v, nil
			},
			set: func(v value.Value) error {
				_, idx, ok := sc.Lookup(n.Name)
				if !ok {
					return diagnostics.New(diagnostics.VariableNotFound, n.Position, "variable %q not found", n.Name)
				}
				sc.Set(idx, v)
				return nil
			},
		}, nil

	case *ast.Index:
		ident, ok := n.Target.(*ast.Identifier)
		if !ok {
			return dotRoot{}, diagnostics.New(diagnostics.MalformedDotExpression, n.Position, "dotted access root must be an identifier or index")
		}
		return dotRoot{
			get: func() (value.Value, error) {
				arr, err := e.lookupArray(sc, ident.Name, n.Position)
				if err != nil {
					return value.Value{}, err
				}
				i, err := e.resolveIndex(sc, n.Idx)
				if err != nil {
					return value.Value{}, err
				}
				elem, ok := arr.Get(i)
				if !ok {
					return value.Value{}, diagnostics.New(diagnostics.IndexOutOfBounds, n.Position, "index %d out of bounds", i)
				}
				return elem, nil
			},
			set: func(v value.Value) error {
				arr, err := e.lookupArray(sc, ident.Name, n.Position)
				if err != nil {
					return err
				}
				i, err := e.resolveIndex(sc, n.Idx)
				if err != nil {
					return err
				}
				if !arr.Set(i, v) {
					return diagnostics.New(diagnostics.IndexOutOfBounds, n.Position, "index %d out of bounds", i)
				}
				return nil
			},
		}, nil

	default:
		return dotRoot{}, diagnostics.New(diagnostics.MalformedDotExpression, lhs.Pos(), "dotted access root must be an identifier or index")
	}
}

func (e *Evaluator) lookupArray(sc *scope.Scope, name string, pos token.Position) (*value.Array, error) {
	v, _, ok := sc.Lookup(name)
	if !ok {
		return nil, diagnostics.New(diagnostics.VariableNotFound, pos, "variable %q not found", name)
	}
	arr, ok := value.As[*value.Array](v)
	if !ok {
		return nil, diagnostics.New(diagnostics.IndexMismatch, pos, "%q is not an array", name)
	}
	return arr, nil
}

// getDotVal implements the Get side of dotted access: the root binding is
// cloned, the rhs chain is applied to the clone (which a "get$"/method
// call may itself mutate through a pointer receiver), and the mutated
// clone is written back into the root before returning the rhs chain's
// result.
func (e *Evaluator) getDotVal(sc *scope.Scope, d *ast.Dot) (value.Value, error) {
	root, err := e.resolveDotRoot(sc, d.Lhs)
	if err != nil {
		return value.Value{}, err
	}
	receiver, err := root.get()
	if err != nil {
		return value.Value{}, err
	}
	receiverClone, err := e.clone(d.Position, receiver)
	if err != nil {
		return value.Value{}, err
	}
	mutated, result, err := e.getDotValHelper(sc, receiverClone, d.Rhs)
	if err != nil {
		return value.Value{}, err
	}
	if err := root.set(mutated); err != nil {
		return value.Value{}, err
	}
	return result, nil
}

// getDotValHelper applies one rhs step of a dotted get chain to v, returning
// v itself (possibly mutated in place if it wraps a pointer) and the step's
// result.
func (e *Evaluator) getDotValHelper(sc *scope.Scope, v value.Value, rhs ast.Expr) (value.Value, value.Value, error) {
	switch n := rhs.(type) {
	case *ast.Identifier:
		result, err := e.Reg.Call("get$"+n.Name, []value.Value{v})
		if err != nil {
			return v, value.Value{}, wrapErr(n.Position, err)
		}
		return v, result, nil

	case *ast.FnCall:
		if len(n.Args) > registry.MaxArity-1 {
			return v, value.Value{}, diagnostics.New(diagnostics.CallNotSupported, n.Position, "method call %q takes too many arguments", n.Name)
		}
		args := make([]value.Value, 0, len(n.Args)+1)
		args = append(args, v)
		for _, a := range n.Args {
			av, err := e.evalExpr(sc, a)
			if err != nil {
				return v, value.Value{}, err
			}
			args = append(args, av)
		}
		result, err := e.Reg.Call(n.Name, args)
		if err != nil {
			return v, value.Value{}, wrapErr(n.Position, err)
		}
		return v, result, nil

	case *ast.Index:
		ident, ok := n.Target.(*ast.Identifier)
		if !ok {
			return v, value.Value{}, diagnostics.New(diagnostics.MalformedDotExpression, n.Position, "dotted index member must be a plain identifier")
		}
		memberVal, err := e.Reg.Call("get$"+ident.Name, []value.Value{v})
		if err != nil {
			return v, value.Value{}, wrapErr(n.Position, err)
		}
		arr, ok := value.As[*value.Array](memberVal)
		if !ok {
			return v, value.Value{}, diagnostics.New(diagnostics.IndexMismatch, n.Position, "get$%s did not return an array", ident.Name)
		}
		i, err := e.resolveIndex(sc, n.Idx)
		if err != nil {
			return v, value.Value{}, err
		}
		elem, ok := arr.Get(i)
		if !ok {
			return v, value.Value{}, diagnostics.New(diagnostics.IndexOutOfBounds, n.Position, "index %d out of bounds", i)
		}
		cloned, err := e.clone(n.Position, elem)
		return v, cloned, err

	case *ast.Dot:
		ident, ok := n.Lhs.(*ast.Identifier)
		if !ok {
			return v, value.Value{}, diagnostics.New(diagnostics.MalformedDotExpression, n.Position, "dotted chain must be rooted at a plain identifier")
		}
		inner, err := e.Reg.Call("get$"+ident.Name, []value.Value{v})
		if err != nil {
			return v, value.Value{}, wrapErr(n.Position, err)
		}
		_, result, err := e.getDotValHelper(sc, inner, n.Rhs)
		return v, result, err

	default:
		return v, value.Value{}, diagnostics.New(diagnostics.MalformedDotExpression, rhs.Pos(), "unsupported dotted expression")
	}
}

// setDotVal implements the Set side of dotted access: read-modify-write the
// root binding through the same clone/mutate/write-back discipline as
// getDotVal, ending in src being installed at the rhs chain's leaf.
func (e *Evaluator) setDotVal(sc *scope.Scope, d *ast.Dot, src value.Value) error {
	root, err := e.resolveDotRoot(sc, d.Lhs)
	if err != nil {
		return err
	}
	receiver, err := root.get()
	if err != nil {
		return err
	}
	receiverClone, err := e.clone(d.Position, receiver)
	if err != nil {
		return err
	}
	mutated, err := e.setDotValHelper(receiverClone, d.Rhs, src)
	if err != nil {
		return err
	}
	return root.set(mutated)
}

// setDotValHelper applies one rhs step of a dotted set chain, returning the
// new value to write back into the parent. "set$" natives are functional:
// they return the updated receiver rather than mutating in place, which is
// what makes this copy-on-write write-back correct for value types.
func (e *Evaluator) setDotValHelper(v value.Value, rhs ast.Expr, src value.Value) (value.Value, error) {
	switch n := rhs.(type) {
	case *ast.Identifier:
		newV, err := e.Reg.Call("set$"+n.Name, []value.Value{v, src})
		if err != nil {
			return v, wrapErr(n.Position, err)
		}
		return newV, nil

	case *ast.Dot:
		ident, ok := n.Lhs.(*ast.Identifier)
		if !ok {
			return v, diagnostics.New(diagnostics.MalformedDotExpression, n.Position, "dotted assignment chain must be rooted at a plain identifier")
		}
		tmp, err := e.Reg.Call("get$"+ident.Name, []value.Value{v})
		if err != nil {
			return v, wrapErr(n.Position, err)
		}
		mutatedTmp, err := e.setDotValHelper(tmp, n.Rhs, src)
		if err != nil {
			return v, err
		}
		newV, err := e.Reg.Call("set$"+ident.Name, []value.Value{v, mutatedTmp})
		if err != nil {
			return v, wrapErr(n.Position, err)
		}
		return newV, nil

	default:
		return v, diagnostics.New(diagnostics.MalformedDotExpression, rhs.Pos(), "unsupported dotted assignment target")
	}
}
