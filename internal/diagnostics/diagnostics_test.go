package diagnostics

import (
	"strings"
	"testing"

	"github.com/cwbudde/scriptengine/internal/token"
)

func TestErrorStringIncludesPosition(t *testing.T) {
	err := New(VariableNotFound, token.Position{Line: 2, Column: 5}, "variable %q not found", "x")
	want := "2:5: variable \"x\" not found"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestFormatIncludesCaretAndStack(t *testing.T) {
	src := "let x = 1;\nundefined_var"
	err := New(VariableNotFound, token.Position{Line: 2, Column: 1}, "variable not found")
	err = err.WithFrame(Frame{Name: "outer", Pos: token.Position{Line: 1, Column: 1}})

	out := err.Format(src)
	if !strings.Contains(out, "undefined_var") {
		t.Fatalf("expected source line in output, got %q", out)
	}
	if !strings.Contains(out, "   | ^\n") {
		t.Fatalf("expected caret under column 1 in output, got %q", out)
	}
	if !strings.Contains(out, "at outer") {
		t.Fatalf("expected call stack frame in output, got %q", out)
	}
}

func TestWithFrameDoesNotMutateOriginal(t *testing.T) {
	base := New(CallNotSupported, token.Position{Line: 1, Column: 1}, "boom")
	_ = base.WithFrame(Frame{Name: "f"})
	if len(base.Stack) != 0 {
		t.Fatalf("expected original error's stack untouched, got %v", base.Stack)
	}
}
