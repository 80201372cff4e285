// Package parser implements a recursive-descent parser turning a token
// stream into the statement and function-definition lists the evaluator
// consumes.
package parser

import (
	"fmt"

	"github.com/cwbudde/scriptengine/internal/ast"
	"github.com/cwbudde/scriptengine/internal/lexer"
	"github.com/cwbudde/scriptengine/internal/token"
)

// Error is a parse failure with a source position. Callers that need a
// diagnostics.Error instead of this lighter-weight type should wrap it as
// a distinct ParseError kind so it renders with the same source-snippet
// formatting as runtime errors.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Parse lexes and parses src, returning the top-level statements and any
// script function definitions it declares.
func Parse(src string) ([]ast.Stmt, []ast.FnDef, error) {
	p := &parser{l: lexer.New(src)}
	p.next()
	p.next()
	return p.parseProgram()
}

// parser holds two tokens of lookahead (cur, peek) over the lexer's stream.
type parser struct {
	l    *lexer.Lexer
	cur  token.Token
	peek token.Token
}

func (p *parser) next() {
	p.cur = p.peek
	p.peek = p.l.Next()
}

func (p *parser) errorf(pos token.Position, format string, args ...any) error {
	return &Error{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(t token.Type) (token.Token, error) {
	if p.cur.Type != t {
		return token.Token{}, p.errorf(p.cur.Pos, "expected %s, got %s", t, p.cur.Type)
	}
	tok := p.cur
	p.next()
	return tok, nil
}

func (p *parser) parseProgram() ([]ast.Stmt, []ast.FnDef, error) {
	var stmts []ast.Stmt
	var fns []ast.FnDef

	for p.cur.Type != token.EOF {
		if p.cur.Type == token.FN {
			fn, err := p.parseFnDef()
			if err != nil {
				return nil, nil, err
			}
			fns = append(fns, fn)
			continue
		}
		s, err := p.parseStmt()
		if err != nil {
			return nil, nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, fns, nil
}

func (p *parser) parseFnDef() (ast.FnDef, error) {
	pos := p.cur.Pos
	if _, err := p.expect(token.FN); err != nil {
		return ast.FnDef{}, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return ast.FnDef{}, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return ast.FnDef{}, err
	}
	var params []string
	for p.cur.Type != token.RPAREN {
		id, err := p.expect(token.IDENT)
		if err != nil {
			return ast.FnDef{}, err
		}
		params = append(params, id.Literal)
		if p.cur.Type == token.COMMA {
			p.next()
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return ast.FnDef{}, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return ast.FnDef{}, err
	}
	return ast.FnDef{Name: name.Literal, Params: params, Body: body, Position: pos}, nil
}

func (p *parser) parseBlock() (*ast.Block, error) {
	pos := p.cur.Pos
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for p.cur.Type != token.RBRACE && p.cur.Type != token.EOF {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.Block{Stmts: stmts, Position: pos}, nil
}

func (p *parser) parseStmt() (ast.Stmt, error) {
	switch p.cur.Type {
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.LOOP:
		return p.parseLoop()
	case token.BREAK:
		pos := p.cur.Pos
		p.next()
		p.consumeSemi()
		return &ast.Break{Position: pos}, nil
	case token.RETURN:
		pos := p.cur.Pos
		p.next()
		if p.cur.Type == token.SEMI {
			p.next()
			return &ast.Return{Position: pos}, nil
		}
		val, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		p.consumeSemi()
		return &ast.ReturnWithVal{Value: val, Position: pos}, nil
	case token.LET:
		return p.parseVar()
	case token.USE:
		return p.parseUse()
	default:
		pos := p.cur.Pos
		e, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		p.consumeSemi()
		return &ast.ExprStmt{X: e, Position: pos}, nil
	}
}

// consumeSemi eats an optional trailing `;`: the final statement in a block
// (and the one the block evaluates to) need not be terminated.
func (p *parser) consumeSemi() {
	if p.cur.Type == token.SEMI {
		p.next()
	}
}

func (p *parser) parseIf() (ast.Stmt, error) {
	pos := p.cur.Pos
	p.next()
	cond, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if p.cur.Type == token.ELSE {
		p.next()
		var elseBlock *ast.Block
		if p.cur.Type == token.IF {
			inner, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			elseBlock = &ast.Block{Stmts: []ast.Stmt{inner}, Position: inner.Pos()}
		} else {
			elseBlock, err = p.parseBlock()
			if err != nil {
				return nil, err
			}
		}
		return &ast.IfElse{Cond: cond, Then: then, Else: elseBlock, Position: pos}, nil
	}
	return &ast.If{Cond: cond, Then: then, Position: pos}, nil
}

func (p *parser) parseWhile() (ast.Stmt, error) {
	pos := p.cur.Pos
	p.next()
	cond, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body, Position: pos}, nil
}

func (p *parser) parseLoop() (ast.Stmt, error) {
	pos := p.cur.Pos
	p.next()
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Loop{Body: body, Position: pos}, nil
}

func (p *parser) parseVar() (ast.Stmt, error) {
	pos := p.cur.Pos
	p.next()
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	var init ast.Expr
	if p.cur.Type == token.ASSIGN {
		p.next()
		init, err = p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
	}
	p.consumeSemi()
	return &ast.Var{Name: name.Literal, Init: init, Position: pos}, nil
}

func (p *parser) parseUse() (ast.Stmt, error) {
	pos := p.cur.Pos
	p.next()
	module, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DOT); err != nil {
		return nil, err
	}
	member, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	p.consumeSemi()
	return &ast.Use{Module: module.Literal, Member: member.Literal, Position: pos}, nil
}
