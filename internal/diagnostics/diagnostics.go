// Package diagnostics formats runtime and parse errors with source
// positions and, for CLI output, a source-line-and-caret rendering.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/cwbudde/scriptengine/internal/token"
)

// ErrorKind classifies a diagnostics.Error for programmatic handling: the
// runtime error taxonomy plus the control-flow signals that must never
// escape evaluation.
type ErrorKind int

const (
	// Runtime error kinds (§7).
	FunctionNotFound ErrorKind = iota
	ArgMismatch
	CallNotSupported
	IndexMismatch
	IndexOutOfBounds
	IfGuardMismatch
	VariableNotFound
	ArityNotSupported
	AssignmentToUnknownLHS
	MismatchOutputType
	CantOpenScriptFile
	MalformedDotExpression
	ModuleError
	NotAModule
	ModuleNotFound
	ModuleMemberNotFound
	ErroneousModule
	ParseError

	// CallStackOverflow marks a script-call recursion depth past the
	// Evaluator's configured MaxCallDepth (pkg/script.WithMaxCallDepth).
	CallStackOverflow

	// InternalBug marks a control-flow signal (LoopBreak/Return) that leaked
	// past Evaluator.Run — a bug in the evaluator, not a script error.
	InternalBug
)

var kindNames = map[ErrorKind]string{
	FunctionNotFound:       "function not found",
	ArgMismatch:            "argument mismatch",
	CallNotSupported:       "call not supported",
	IndexMismatch:          "index mismatch",
	IndexOutOfBounds:       "index out of bounds",
	IfGuardMismatch:        "if-guard mismatch",
	VariableNotFound:       "variable not found",
	ArityNotSupported:      "arity not supported",
	AssignmentToUnknownLHS: "assignment to unknown left-hand side",
	MismatchOutputType:     "mismatched output type",
	CantOpenScriptFile:     "can't open script file",
	MalformedDotExpression: "malformed dot expression",
	ModuleError:            "module error",
	NotAModule:             "not a module",
	ModuleNotFound:         "module not found",
	ModuleMemberNotFound:   "module member not found",
	ErroneousModule:        "erroneous module",
	ParseError:             "parse error",
	CallStackOverflow:      "call stack overflow",
	InternalBug:            "internal error",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown error"
}

// Frame is one call-stack entry recorded as a script call unwinds.
type Frame struct {
	Name string
	Pos  token.Position
}

// Error is a diagnostics error: a kind, a human-readable message (lowercase,
// present tense, concise), a source position, and an optional call stack
// built by the evaluator.
type Error struct {
	Kind    ErrorKind
	Message string
	Pos     token.Position
	Stack   []Frame
}

// New builds an Error with the given kind and a formatted message.
func New(kind ErrorKind, pos token.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

func (e *Error) Error() string {
	if e.Pos.Valid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return e.Message
}

// WithFrame returns a copy of e with frame appended to its call stack,
// recording one level of call unwinding (innermost call first).
func (e *Error) WithFrame(frame Frame) *Error {
	cp := *e
	cp.Stack = append(append([]Frame{}, e.Stack...), frame)
	return &cp
}

// Format renders e with the offending source line and a caret under the
// reported column, followed by the call stack if any.
func (e *Error) Format(source string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "error: %s\n", e.Message)
	if e.Pos.Valid() {
		if line, ok := sourceLine(source, e.Pos.Line); ok {
			fmt.Fprintf(&sb, "  --> %s\n", e.Pos)
			fmt.Fprintf(&sb, "   | %s\n", line)
			fmt.Fprintf(&sb, "   | %s^\n", strings.Repeat(" ", max(0, e.Pos.Column-1)))
		}
	}
	for _, f := range e.Stack {
		fmt.Fprintf(&sb, "  at %s (%s)\n", f.Name, f.Pos)
	}
	return sb.String()
}

func sourceLine(source string, n int) (string, bool) {
	lines := strings.Split(source, "\n")
	if n < 1 || n > len(lines) {
		return "", false
	}
	return lines[n-1], true
}
