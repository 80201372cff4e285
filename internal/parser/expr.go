package parser

import (
	"strconv"

	"github.com/cwbudde/scriptengine/internal/ast"
	"github.com/cwbudde/scriptengine/internal/token"
)

// Precedence levels, lowest to highest; assignment is right-associative and
// binds loosest, unary/call/dot/index bind tightest.
const (
	precLowest = iota
	precAssign
	precOr
	precAnd
	precEquality
	precRelational
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precCall
)

var binaryPrec = map[token.Type]int{
	token.ASSIGN:  precAssign,
	token.OR:      precOr,
	token.AND:     precAnd,
	token.EQ:      precEquality,
	token.NEQ:     precEquality,
	token.LT:      precRelational,
	token.LTE:     precRelational,
	token.GT:      precRelational,
	token.GTE:     precRelational,
	token.BITOR:   precBitOr,
	token.BITXOR:  precBitXor,
	token.BITAND:  precBitAnd,
	token.SHL:     precShift,
	token.SHR:     precShift,
	token.PLUS:    precAdditive,
	token.MINUS:   precAdditive,
	token.STAR:    precMultiplicative,
	token.SLASH:   precMultiplicative,
	token.PERCENT: precMultiplicative,
	token.DOT:     precCall,
	token.LBRACKET: precCall,
}

// binaryNative maps an infix operator token to the native name the
// evaluator's stdlib registers it under.
var binaryNative = map[token.Type]string{
	token.OR: "||", token.AND: "&&",
	token.EQ: "==", token.NEQ: "!=",
	token.LT: "<", token.LTE: "<=", token.GT: ">", token.GTE: ">=",
	token.BITOR: "|", token.BITXOR: "^", token.BITAND: "&",
	token.SHL: "<<", token.SHR: ">>",
	token.PLUS: "+", token.MINUS: "-", token.STAR: "*", token.SLASH: "/", token.PERCENT: "%",
}

func (p *parser) peekPrec() int {
	if prec, ok := binaryPrec[p.cur.Type]; ok {
		return prec
	}
	return precLowest
}

// parseExpr parses an expression, stopping when the next infix operator's
// precedence is <= minPrec.
func (p *parser) parseExpr(minPrec int) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		switch p.cur.Type {
		case token.ASSIGN:
			if minPrec >= precAssign {
				return left, nil
			}
			pos := p.cur.Pos
			p.next()
			rhs, err := p.parseExpr(precAssign - 1)
			if err != nil {
				return nil, err
			}
			left = &ast.Assignment{Lhs: left, Rhs: rhs, Position: pos}
			continue

		case token.DOT:
			if minPrec >= precCall {
				return left, nil
			}
			pos := p.cur.Pos
			p.next()
			rhs, err := p.parseDotRHS()
			if err != nil {
				return nil, err
			}
			left = &ast.Dot{Lhs: left, Rhs: rhs, Position: pos}
			continue

		case token.LBRACKET:
			if minPrec >= precCall {
				return left, nil
			}
			pos := p.cur.Pos
			p.next()
			idx, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			left = &ast.Index{Target: left, Idx: idx, Position: pos}
			continue
		}

		name, isBinary := binaryNative[p.cur.Type]
		if !isBinary {
			return left, nil
		}
		prec := p.peekPrec()
		if prec <= minPrec {
			return left, nil
		}
		pos := p.cur.Pos
		p.next()
		rhs, err := p.parseExpr(prec)
		if err != nil {
			return nil, err
		}
		left = &ast.FnCall{Name: name, Args: []ast.Expr{left, rhs}, Position: pos}
	}
}

// parseDotRHS parses the right-hand side of a `.`: a plain member name, a
// method call, an indexed member, or a further dotted chain — never a
// general expression.
func (p *parser) parseDotRHS() (ast.Expr, error) {
	pos := p.cur.Pos
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	switch p.cur.Type {
	case token.LPAREN:
		p.next()
		args, err := p.parseArgList(token.RPAREN)
		if err != nil {
			return nil, err
		}
		return &ast.FnCall{Name: name.Literal, Args: args, Position: pos}, nil
	case token.LBRACKET:
		p.next()
		idx, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		return &ast.Index{Target: &ast.Identifier{Name: name.Literal, Position: pos}, Idx: idx, Position: pos}, nil
	case token.DOT:
		p.next()
		rest, err := p.parseDotRHS()
		if err != nil {
			return nil, err
		}
		return &ast.Dot{Lhs: &ast.Identifier{Name: name.Literal, Position: pos}, Rhs: rest, Position: pos}, nil
	default:
		return &ast.Identifier{Name: name.Literal, Position: pos}, nil
	}
}

func (p *parser) parseUnary() (ast.Expr, error) {
	switch p.cur.Type {
	case token.MINUS, token.NOT:
		name := binaryNative[p.cur.Type]
		if p.cur.Type == token.MINUS {
			name = "-"
		} else {
			name = "!"
		}
		pos := p.cur.Pos
		p.next()
		operand, err := p.parseExpr(precUnary)
		if err != nil {
			return nil, err
		}
		return &ast.FnCall{Name: name, Args: []ast.Expr{operand}, Position: pos}, nil
	default:
		return p.parsePrimary()
	}
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur
	switch tok.Type {
	case token.INT:
		p.next()
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, p.errorf(tok.Pos, "malformed integer literal %q", tok.Literal)
		}
		return &ast.IntConst{Value: v, Position: tok.Pos}, nil

	case token.FLOAT:
		p.next()
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.errorf(tok.Pos, "malformed float literal %q", tok.Literal)
		}
		return &ast.FloatConst{Value: v, Position: tok.Pos}, nil

	case token.STRING:
		p.next()
		return &ast.StringConst{Value: tok.Literal, Position: tok.Pos}, nil

	case token.CHAR:
		p.next()
		r := []rune(tok.Literal)
		if len(r) == 0 {
			return nil, p.errorf(tok.Pos, "empty char literal")
		}
		return &ast.CharConst{Value: r[0], Position: tok.Pos}, nil

	case token.TRUE:
		p.next()
		return &ast.True{Position: tok.Pos}, nil

	case token.FALSE:
		p.next()
		return &ast.False{Position: tok.Pos}, nil

	case token.IMPORT:
		p.next()
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		path, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return &ast.Import{Path: path, Position: tok.Pos}, nil

	case token.LPAREN:
		p.next()
		e, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return e, nil

	case token.LBRACKET:
		p.next()
		elems, err := p.parseArgList(token.RBRACKET)
		if err != nil {
			return nil, err
		}
		return &ast.Array{Elems: elems, Position: tok.Pos}, nil

	case token.IDENT:
		p.next()
		if p.cur.Type == token.LPAREN {
			p.next()
			args, err := p.parseArgList(token.RPAREN)
			if err != nil {
				return nil, err
			}
			return &ast.FnCall{Name: tok.Literal, Args: args, Position: tok.Pos}, nil
		}
		return &ast.Identifier{Name: tok.Literal, Position: tok.Pos}, nil

	default:
		return nil, p.errorf(tok.Pos, "unexpected token %s", tok.Type)
	}
}

// parseArgList parses a comma-separated expression list terminated by end,
// consuming end.
func (p *parser) parseArgList(end token.Type) ([]ast.Expr, error) {
	var args []ast.Expr
	for p.cur.Type != end {
		e, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if p.cur.Type == token.COMMA {
			p.next()
		}
	}
	if _, err := p.expect(end); err != nil {
		return nil, err
	}
	return args, nil
}
