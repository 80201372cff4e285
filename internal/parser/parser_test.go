package parser

import (
	"testing"

	"github.com/cwbudde/scriptengine/internal/ast"
	"github.com/cwbudde/scriptengine/internal/evaluator"
	"github.com/cwbudde/scriptengine/internal/registry"
	"github.com/cwbudde/scriptengine/internal/scope"
	"github.com/cwbudde/scriptengine/internal/stdlib"
	"github.com/cwbudde/scriptengine/internal/value"
)

func run(t *testing.T, src string) value.Value {
	t.Helper()
	stmts, fns, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	reg := registry.New()
	if err := stdlib.Register(reg); err != nil {
		t.Fatalf("stdlib.Register: %v", err)
	}
	ev := evaluator.New(reg)
	if err := ev.InstallFunctions(fns); err != nil {
		t.Fatalf("InstallFunctions: %v", err)
	}
	result, err := ev.Run(scope.New(), stmts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return result
}

func TestParseArithmeticPrecedence(t *testing.T) {
	v := run(t, "2 + 3 * 4;")
	got, ok := value.As[int64](v)
	if !ok || got != 14 {
		t.Fatalf("got %v, want 14", v)
	}
}

func TestParseParenOverridesPrecedence(t *testing.T) {
	v := run(t, "(2 + 3) * 4;")
	got, ok := value.As[int64](v)
	if !ok || got != 20 {
		t.Fatalf("got %v, want 20", v)
	}
}

func TestParseUnaryMinus(t *testing.T) {
	v := run(t, "let x = 5; -x + 1;")
	got, ok := value.As[int64](v)
	if !ok || got != -4 {
		t.Fatalf("got %v, want -4", v)
	}
}

func TestParseUnaryNot(t *testing.T) {
	v := run(t, "!false && true;")
	got, ok := value.As[bool](v)
	if !ok || !got {
		t.Fatalf("got %v, want true", v)
	}
}

func TestParseComparisonChain(t *testing.T) {
	v := run(t, "1 < 2 == true;")
	got, ok := value.As[bool](v)
	if !ok || !got {
		t.Fatalf("got %v, want true", v)
	}
}

func TestParseArrayLiteralAndIndex(t *testing.T) {
	v := run(t, "let a = [1, 2, 3]; a[1];")
	got, ok := value.As[int64](v)
	if !ok || got != 2 {
		t.Fatalf("got %v, want 2", v)
	}
}

func TestParseIndexAssignment(t *testing.T) {
	v := run(t, "let a = [1, 2, 3]; a[0] = 9; a[0];")
	got, ok := value.As[int64](v)
	if !ok || got != 9 {
		t.Fatalf("got %v, want 9", v)
	}
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	v := run(t, "let a = 0; let b = 0; a = b = 7; a;")
	got, ok := value.As[int64](v)
	if !ok || got != 7 {
		t.Fatalf("got %v, want 7", v)
	}
}

func TestParseFunctionDefAndCall(t *testing.T) {
	v := run(t, `
		fn add(a, b) { return a + b; }
		add(3, 4);
	`)
	got, ok := value.As[int64](v)
	if !ok || got != 7 {
		t.Fatalf("got %v, want 7", v)
	}
}

func TestParseIfElseChain(t *testing.T) {
	v := run(t, `
		let x = 2;
		if x == 1 {
			"one";
		} else if x == 2 {
			"two";
		} else {
			"other";
		}
	`)
	got, ok := value.As[string](v)
	if !ok || got != "two" {
		t.Fatalf("got %v, want \"two\"", v)
	}
}

func TestParseWhileLoopWithBreak(t *testing.T) {
	v := run(t, `
		let i = 0;
		while i < 10 {
			i = i + 1;
			if i == 3 {
				break;
			}
		}
		i;
	`)
	got, ok := value.As[int64](v)
	if !ok || got != 3 {
		t.Fatalf("got %v, want 3", v)
	}
}

func TestParseLoopWithBreak(t *testing.T) {
	v := run(t, `
		let i = 0;
		loop {
			i = i + 1;
			if i >= 5 {
				break;
			}
		}
		i;
	`)
	got, ok := value.As[int64](v)
	if !ok || got != 5 {
		t.Fatalf("got %v, want 5", v)
	}
}

func TestParseErrorOnUnexpectedToken(t *testing.T) {
	_, _, err := Parse("let = 5;")
	if err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestParseProgramSplitsStmtsAndFns(t *testing.T) {
	stmts, fns, err := Parse(`
		fn square(x) { return x * x; }
		let y = square(3);
	`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(fns) != 1 || fns[0].Name != "square" {
		t.Fatalf("expected one fn def named square, got %v", fns)
	}
	if len(stmts) != 1 {
		t.Fatalf("expected one top-level statement, got %d", len(stmts))
	}
	if _, ok := stmts[0].(*ast.Var); !ok {
		t.Fatalf("expected a Var statement, got %T", stmts[0])
	}
}
