package script

import "github.com/cwbudde/scriptengine/internal/evaluator"

// Option configures an Engine at construction time, following the
// functional-options pattern.
type Option func(*Engine)

// WithLoader installs the module collaborator that Import expressions
// and Use statements delegate to. Without it, Import fails with
// ModuleNotFound: the module subsystem is an optional collaborator,
// absent by default.
func WithLoader(l evaluator.Loader) Option {
	return func(e *Engine) {
		e.ev.SetLoader(l)
	}
}

// WithMaxCallDepth bounds script-call recursion (default
// evaluator.DefaultMaxCallDepth). cmd/script exposes this as a --config
// YAML field.
func WithMaxCallDepth(n int) Option {
	return func(e *Engine) {
		e.ev.SetMaxCallDepth(n)
	}
}
