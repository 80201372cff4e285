package modules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/scriptengine/internal/value"
)

func writeScript(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestFileLoaderLoadsAndCaches(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "math.script", `
		fn double(x) { return x * 2; }
		let answer = 21;
	`)

	loader := NewFileLoader(dir)
	mod1, err := loader.Load("math.script")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	mod2, err := loader.Load("math.script")
	if err != nil {
		t.Fatalf("Load (second time): %v", err)
	}
	if mod1 != mod2 {
		t.Fatalf("expected cached Module instance to be reused")
	}

	v, _, ok := mod1.Scope.Lookup("answer")
	if !ok {
		t.Fatalf("expected %q to be bound in the module scope", "answer")
	}
	got, ok := value.As[int64](v)
	if !ok || got != 21 {
		t.Fatalf("got %v, want 21", v)
	}

	if !mod1.Registry.Has("double") {
		t.Fatalf("expected %q to be registered in the module registry", "double")
	}
}

func TestFileLoaderMissingFile(t *testing.T) {
	loader := NewFileLoader(t.TempDir())
	if _, err := loader.Load("nope.script"); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
