package script_test

import (
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cwbudde/scriptengine/internal/scope"
	"github.com/cwbudde/scriptengine/pkg/script"
)

func TestEvalArithmetic(t *testing.T) {
	e, err := script.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := script.Eval[int64](e, "20 + 22;")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestEvalWithScopePersistsBindings(t *testing.T) {
	e, err := script.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sc := scope.New()
	if _, err := script.EvalWithScope[int64](e, sc, "let x = 5; x;"); err != nil {
		t.Fatalf("Eval (1): %v", err)
	}
	got, err := script.EvalWithScope[int64](e, sc, "x + 1;")
	if err != nil {
		t.Fatalf("Eval (2): %v", err)
	}
	if got != 6 {
		t.Fatalf("got %d, want 6", got)
	}
}

func TestConsumeDiscardsResult(t *testing.T) {
	e, err := script.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Consume("let x = 1 + 1;"); err != nil {
		t.Fatalf("Consume: %v", err)
	}
}

func TestRegisterNativeHostFunction(t *testing.T) {
	e, err := script.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.RegisterNative("greet", func(name string) string { return "hello, " + name }); err != nil {
		t.Fatalf("RegisterNative: %v", err)
	}
	got, err := script.Eval[string](e, `greet("world");`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != "hello, world" {
		t.Fatalf("got %q, want %q", got, "hello, world")
	}
}

type point struct {
	X, Y int64
}

func TestRegisterGetSetDottedAccess(t *testing.T) {
	e, err := script.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.RegisterType(func(p point) point { return p }); err != nil {
		t.Fatalf("RegisterType: %v", err)
	}
	if err := e.RegisterNative("new_point", func(x, y int64) point { return point{X: x, Y: y} }); err != nil {
		t.Fatalf("RegisterNative: %v", err)
	}
	if err := e.RegisterGetSet("x",
		func(p point) int64 { return p.X },
		func(p point, v int64) point { p.X = v; return p },
	); err != nil {
		t.Fatalf("RegisterGetSet: %v", err)
	}

	got, err := script.Eval[int64](e, `
		let p = new_point(1, 2);
		p.x = 9;
		p.x;
	`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != 9 {
		t.Fatalf("got %d, want 9", got)
	}
}

func TestBindSeedsGlobal(t *testing.T) {
	e, err := script.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sc := scope.New()
	e.Bind(sc, "greeting", "hi")
	got, err := script.EvalWithScope[string](e, sc, "greeting;")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != "hi" {
		t.Fatalf("got %q, want %q", got, "hi")
	}
}

func TestMaxCallDepthExceeded(t *testing.T) {
	e, err := script.New(script.WithMaxCallDepth(8))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = script.Eval[int64](e, `
		fn recurse(n) { return recurse(n + 1); }
		recurse(0);
	`)
	if err == nil {
		t.Fatalf("expected a call-stack overflow error")
	}
}

func TestEvalOutputTypeMismatch(t *testing.T) {
	e, err := script.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := script.Eval[string](e, "1 + 1;"); err == nil {
		t.Fatalf("expected a type mismatch error downcasting int64 to string")
	}
}

// TestEndToEndScenarios snapshots the final value of each scenario's
// program, rendered with fmt.Sprintf("%v", ...) over the Value's boxed
// payload.
func TestEndToEndScenarios(t *testing.T) {
	scenarios := map[string]string{
		"arithmetic_precedence": "2 + 3 * 4 - 1;",
		"scope_reuse":           "let x = 5; x + 1;",
		"array_roundtrip":       "let a = [1, 2, 3]; a[0] = a[1] + a[2]; a[0];",
		"function_call":         "fn add(a, b) { return a + b; } add(19, 23);",
		"while_loop_sum":        "let i = 0; let sum = 0; while i < 5 { sum = sum + i; i = i + 1; } sum;",
		"if_else_chain":         `let x = 3; if x == 1 { "one"; } else if x == 3 { "three"; } else { "other"; }`,
	}

	for name, src := range scenarios {
		name, src := name, src
		t.Run(name, func(t *testing.T) {
			e, err := script.New()
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			got, err := script.Eval[any](e, src)
			if err != nil {
				t.Fatalf("Eval: %v", err)
			}
			snaps.MatchSnapshot(t, fmt.Sprintf("%s_result", name), fmt.Sprintf("%v", got))
		})
	}
}
