// Package modules provides the one concrete evaluator.Loader: a
// FileLoader that resolves an import path against a set of search
// directories, parses and evaluates the file in a fresh Module, and
// caches the result by resolved path so repeated imports of the same
// file are evaluated once.
package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cwbudde/scriptengine/internal/evaluator"
	"github.com/cwbudde/scriptengine/internal/parser"
	"github.com/cwbudde/scriptengine/internal/registry"
	"github.com/cwbudde/scriptengine/internal/scope"
	"github.com/cwbudde/scriptengine/internal/stdlib"
)

// FileLoader resolves `import("path")` expressions by trying the literal
// path first, then each of SearchPaths in order.
type FileLoader struct {
	SearchPaths []string

	mu    sync.Mutex
	cache map[string]*evaluator.Module
}

// NewFileLoader returns a FileLoader searching the given directories, in
// addition to the import path taken literally (relative to the process's
// working directory).
func NewFileLoader(searchPaths ...string) *FileLoader {
	return &FileLoader{SearchPaths: searchPaths}
}

// Load implements evaluator.Loader.
func (l *FileLoader) Load(path string) (*evaluator.Module, error) {
	resolved, src, err := l.read(path)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	if l.cache == nil {
		l.cache = make(map[string]*evaluator.Module)
	}
	if mod, ok := l.cache[resolved]; ok {
		l.mu.Unlock()
		return mod, nil
	}
	l.mu.Unlock()

	stmts, fns, err := parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("modules: parsing %s: %w", resolved, err)
	}

	reg := registry.New()
	if err := stdlib.Register(reg); err != nil {
		return nil, fmt.Errorf("modules: registering stdlib for %s: %w", resolved, err)
	}
	ev := evaluator.New(reg)
	ev.SetLoader(l)
	if err := ev.InstallFunctions(fns); err != nil {
		return nil, fmt.Errorf("modules: installing functions from %s: %w", resolved, err)
	}

	sc := scope.New()
	if _, err := ev.Run(sc, stmts); err != nil {
		return nil, fmt.Errorf("modules: evaluating %s: %w", resolved, err)
	}

	mod := evaluator.NewModule(reg, sc)

	l.mu.Lock()
	l.cache[resolved] = mod
	l.mu.Unlock()

	return mod, nil
}

// read locates path either directly or under one of SearchPaths, in
// order, returning the resolved absolute-ish path and its contents.
func (l *FileLoader) read(path string) (string, string, error) {
	candidates := make([]string, 0, len(l.SearchPaths)+1)
	if filepath.IsAbs(path) {
		candidates = append(candidates, path)
	} else {
		candidates = append(candidates, path)
		for _, dir := range l.SearchPaths {
			candidates = append(candidates, filepath.Join(dir, path))
		}
	}

	var lastErr error
	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err == nil {
			return candidate, string(data), nil
		}
		lastErr = err
	}
	return "", "", fmt.Errorf("modules: cannot open %q: %w", path, lastErr)
}
