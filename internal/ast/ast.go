// Package ast defines the syntax tree produced by internal/parser and
// consumed by internal/evaluator.
package ast

import "github.com/cwbudde/scriptengine/internal/token"

// Expr is any expression node.
type Expr interface {
	exprNode()
	Pos() token.Position
}

// Stmt is any statement node.
type Stmt interface {
	stmtNode()
	Pos() token.Position
}

// IntConst is an integer literal.
type IntConst struct {
	Value    int64
	Position token.Position
}

func (n *IntConst) exprNode()          {}
func (n *IntConst) Pos() token.Position { return n.Position }

// FloatConst is a floating-point literal.
type FloatConst struct {
	Value    float64
	Position token.Position
}

func (n *FloatConst) exprNode()          {}
func (n *FloatConst) Pos() token.Position { return n.Position }

// StringConst is a string literal.
type StringConst struct {
	Value    string
	Position token.Position
}

func (n *StringConst) exprNode()          {}
func (n *StringConst) Pos() token.Position { return n.Position }

// CharConst is a single-character literal.
type CharConst struct {
	Value    rune
	Position token.Position
}

func (n *CharConst) exprNode()          {}
func (n *CharConst) Pos() token.Position { return n.Position }

// True is the boolean literal `true`.
type True struct {
	Position token.Position
}

func (n *True) exprNode()          {}
func (n *True) Pos() token.Position { return n.Position }

// False is the boolean literal `false`.
type False struct {
	Position token.Position
}

func (n *False) exprNode()          {}
func (n *False) Pos() token.Position { return n.Position }

// Identifier references a bound name.
type Identifier struct {
	Name     string
	Position token.Position
}

func (n *Identifier) exprNode()          {}
func (n *Identifier) Pos() token.Position { return n.Position }

// Index is `Target[Idx]`.
type Index struct {
	Target   Expr
	Idx      Expr
	Position token.Position
}

func (n *Index) exprNode()          {}
func (n *Index) Pos() token.Position { return n.Position }

// Dot is `Lhs.Rhs`, where Rhs is typically an Identifier, Index, or FnCall.
type Dot struct {
	Lhs      Expr
	Rhs      Expr
	Position token.Position
}

func (n *Dot) exprNode()          {}
func (n *Dot) Pos() token.Position { return n.Position }

// Assignment is `Lhs = Rhs`.
type Assignment struct {
	Lhs      Expr
	Rhs      Expr
	Position token.Position
}

func (n *Assignment) exprNode()          {}
func (n *Assignment) Pos() token.Position { return n.Position }

// Array is an array literal.
type Array struct {
	Elems    []Expr
	Position token.Position
}

func (n *Array) exprNode()          {}
func (n *Array) Pos() token.Position { return n.Position }

// FnCall is a call to a registered or script-defined function by name.
type FnCall struct {
	Name     string
	Args     []Expr
	Position token.Position
}

func (n *FnCall) exprNode()          {}
func (n *FnCall) Pos() token.Position { return n.Position }

// Import evaluates Path as a string and loads it as a module.
type Import struct {
	Path     Expr
	Position token.Position
}

func (n *Import) exprNode()          {}
func (n *Import) Pos() token.Position { return n.Position }

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	X        Expr
	Position token.Position
}

func (n *ExprStmt) stmtNode()          {}
func (n *ExprStmt) Pos() token.Position { return n.Position }

// Block is `{ Stmts... }`; its value is the value of the last statement.
type Block struct {
	Stmts    []Stmt
	Position token.Position
}

func (n *Block) stmtNode()          {}
func (n *Block) Pos() token.Position { return n.Position }

// If is `if Cond Then`, with no else branch.
type If struct {
	Cond     Expr
	Then     *Block
	Position token.Position
}

func (n *If) stmtNode()          {}
func (n *If) Pos() token.Position { return n.Position }

// IfElse is `if Cond Then else Else`.
type IfElse struct {
	Cond     Expr
	Then     *Block
	Else     *Block
	Position token.Position
}

func (n *IfElse) stmtNode()          {}
func (n *IfElse) Pos() token.Position { return n.Position }

// While is `while Cond Body`.
type While struct {
	Cond     Expr
	Body     *Block
	Position token.Position
}

func (n *While) stmtNode()          {}
func (n *While) Pos() token.Position { return n.Position }

// Loop is `loop Body`, an unconditional loop broken only by `break`.
type Loop struct {
	Body     *Block
	Position token.Position
}

func (n *Loop) stmtNode()          {}
func (n *Loop) Pos() token.Position { return n.Position }

// Break exits the innermost enclosing While or Loop.
type Break struct {
	Position token.Position
}

func (n *Break) stmtNode()          {}
func (n *Break) Pos() token.Position { return n.Position }

// Return exits the current function with no value.
type Return struct {
	Position token.Position
}

func (n *Return) stmtNode()          {}
func (n *Return) Pos() token.Position { return n.Position }

// ReturnWithVal exits the current function with the value of Value.
type ReturnWithVal struct {
	Value    Expr
	Position token.Position
}

func (n *ReturnWithVal) stmtNode()          {}
func (n *ReturnWithVal) Pos() token.Position { return n.Position }

// Var declares a new binding, `let Name = Init;` or `let Name;`.
type Var struct {
	Name     string
	Init     Expr // nil if no initializer
	Position token.Position
}

func (n *Var) stmtNode()          {}
func (n *Var) Pos() token.Position { return n.Position }

// UseKind distinguishes importing a symbol from importing a function.
type UseKind int

const (
	UseSymbol UseKind = iota
	UseFunction
)

// Use is `use Module.Member;`, binding Member from an imported Module into
// the current scope's use records.
type Use struct {
	Module   string
	Member   string
	Kind     UseKind
	Position token.Position
}

func (n *Use) stmtNode()          {}
func (n *Use) Pos() token.Position { return n.Position }

// FnDef is a script-defined function declaration.
type FnDef struct {
	Name     string
	Params   []string
	Body     *Block
	Position token.Position
}
