// Package stdlib registers the arithmetic, comparison, bitwise, logical,
// and string-concatenation natives every operator expression desugars to.
// The evaluator only needs to be able to call them by name, never to
// enumerate them, so registration lives here rather than in the evaluator.
package stdlib

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/cwbudde/scriptengine/internal/registry"
	"github.com/cwbudde/scriptengine/internal/value"
)

// collator drives locale-aware string ordering for `<`, `<=`, `>`, `>=`,
// using an English collation locale as the default.
var collator = collate.New(language.English)

// NFC normalizes a string before it is ever bound into a Value, so two
// script string literals that are Unicode-equivalent but differently
// encoded compare and concatenate consistently.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// Register installs the full standard operator set on r.
func Register(r *registry.Registry) error {
	for _, step := range []func(*registry.Registry) error{
		registerArithmetic,
		registerComparison,
		registerLogical,
		registerBitwise,
		registerUnary,
		registerString,
		registerClone,
	} {
		if err := step(r); err != nil {
			return err
		}
	}
	return nil
}

func registerArithmetic(r *registry.Registry) error {
	reg := func(name string, fn any) error { return r.RegisterNative(name, fn) }

	if err := reg("+", add[int32]); err != nil {
		return err
	}
	if err := reg("+", add[int64]); err != nil {
		return err
	}
	if err := reg("+", add[uint32]); err != nil {
		return err
	}
	if err := reg("+", add[uint64]); err != nil {
		return err
	}
	if err := reg("+", add[float32]); err != nil {
		return err
	}
	if err := reg("+", add[float64]); err != nil {
		return err
	}

	if err := reg("-", sub[int32]); err != nil {
		return err
	}
	if err := reg("-", sub[int64]); err != nil {
		return err
	}
	if err := reg("-", sub[uint32]); err != nil {
		return err
	}
	if err := reg("-", sub[uint64]); err != nil {
		return err
	}
	if err := reg("-", sub[float32]); err != nil {
		return err
	}
	if err := reg("-", sub[float64]); err != nil {
		return err
	}

	if err := reg("*", mul[int32]); err != nil {
		return err
	}
	if err := reg("*", mul[int64]); err != nil {
		return err
	}
	if err := reg("*", mul[uint32]); err != nil {
		return err
	}
	if err := reg("*", mul[uint64]); err != nil {
		return err
	}
	if err := reg("*", mul[float32]); err != nil {
		return err
	}
	if err := reg("*", mul[float64]); err != nil {
		return err
	}

	if err := reg("/", divInt[int32]); err != nil {
		return err
	}
	if err := reg("/", divInt[int64]); err != nil {
		return err
	}
	if err := reg("/", divInt[uint32]); err != nil {
		return err
	}
	if err := reg("/", divInt[uint64]); err != nil {
		return err
	}
	if err := reg("/", divFloat[float32]); err != nil {
		return err
	}
	if err := reg("/", divFloat[float64]); err != nil {
		return err
	}

	if err := reg("%", mod[int32]); err != nil {
		return err
	}
	if err := reg("%", mod[int64]); err != nil {
		return err
	}
	if err := reg("%", mod[uint32]); err != nil {
		return err
	}
	return reg("%", mod[uint64])
}

func add[T int32 | int64 | uint32 | uint64 | float32 | float64](a, b T) T { return a + b }
func sub[T int32 | int64 | uint32 | uint64 | float32 | float64](a, b T) T { return a - b }
func mul[T int32 | int64 | uint32 | uint64 | float32 | float64](a, b T) T { return a * b }

func divInt[T int32 | int64 | uint32 | uint64](a, b T) (T, error) {
	if b == 0 {
		return 0, errDivByZero
	}
	return a / b, nil
}

func divFloat[T float32 | float64](a, b T) T { return a / b }

func mod[T int32 | int64 | uint32 | uint64](a, b T) (T, error) {
	if b == 0 {
		return 0, errDivByZero
	}
	return a % b, nil
}

func registerComparison(r *registry.Registry) error {
	reg := func(name string, fn any) error { return r.RegisterNative(name, fn) }

	if err := registerOrderedSet[int32](r); err != nil {
		return err
	}
	if err := registerOrderedSet[int64](r); err != nil {
		return err
	}
	if err := registerOrderedSet[uint32](r); err != nil {
		return err
	}
	if err := registerOrderedSet[uint64](r); err != nil {
		return err
	}
	if err := registerOrderedSet[float32](r); err != nil {
		return err
	}
	if err := registerOrderedSet[float64](r); err != nil {
		return err
	}

	// String ordering uses x/text/collate, equality stays byte-exact.
	if err := reg("<", func(a, b string) bool { return collator.CompareString(a, b) < 0 }); err != nil {
		return err
	}
	if err := reg("<=", func(a, b string) bool { return collator.CompareString(a, b) <= 0 }); err != nil {
		return err
	}
	if err := reg(">", func(a, b string) bool { return collator.CompareString(a, b) > 0 }); err != nil {
		return err
	}
	if err := reg(">=", func(a, b string) bool { return collator.CompareString(a, b) >= 0 }); err != nil {
		return err
	}
	if err := reg("==", func(a, b string) bool { return a == b }); err != nil {
		return err
	}
	if err := reg("!=", func(a, b string) bool { return a != b }); err != nil {
		return err
	}
	if err := reg("==", func(a, b bool) bool { return a == b }); err != nil {
		return err
	}
	return reg("!=", func(a, b bool) bool { return a != b })
}

func registerOrderedSet[T int32 | int64 | uint32 | uint64 | float32 | float64](r *registry.Registry) error {
	reg := func(name string, fn any) error { return r.RegisterNative(name, fn) }
	if err := reg("<", lt[T]); err != nil {
		return err
	}
	if err := reg("<=", lte[T]); err != nil {
		return err
	}
	if err := reg(">", gt[T]); err != nil {
		return err
	}
	if err := reg(">=", gte[T]); err != nil {
		return err
	}
	if err := reg("==", eq[T]); err != nil {
		return err
	}
	return reg("!=", neq[T])
}

func lt[T int32 | int64 | uint32 | uint64 | float32 | float64](a, b T) bool  { return a < b }
func lte[T int32 | int64 | uint32 | uint64 | float32 | float64](a, b T) bool { return a <= b }
func gt[T int32 | int64 | uint32 | uint64 | float32 | float64](a, b T) bool  { return a > b }
func gte[T int32 | int64 | uint32 | uint64 | float32 | float64](a, b T) bool { return a >= b }
func eq[T int32 | int64 | uint32 | uint64 | float32 | float64](a, b T) bool  { return a == b }
func neq[T int32 | int64 | uint32 | uint64 | float32 | float64](a, b T) bool { return a != b }

func registerLogical(r *registry.Registry) error {
	if err := r.RegisterNative("&&", func(a, b bool) bool { return a && b }); err != nil {
		return err
	}
	return r.RegisterNative("||", func(a, b bool) bool { return a || b })
}

func registerBitwise(r *registry.Registry) error {
	reg := func(name string, fn any) error { return r.RegisterNative(name, fn) }
	if err := reg("&", band[int64]); err != nil {
		return err
	}
	if err := reg("&", band[int32]); err != nil {
		return err
	}
	if err := reg("|", bor[int64]); err != nil {
		return err
	}
	if err := reg("|", bor[int32]); err != nil {
		return err
	}
	if err := reg("^", bxor[int64]); err != nil {
		return err
	}
	if err := reg("^", bxor[int32]); err != nil {
		return err
	}
	if err := reg("<<", shl[int64]); err != nil {
		return err
	}
	if err := reg("<<", shl[int32]); err != nil {
		return err
	}
	if err := reg(">>", shr[int64]); err != nil {
		return err
	}
	return reg(">>", shr[int32])
}

func band[T int32 | int64](a, b T) T { return a & b }
func bor[T int32 | int64](a, b T) T  { return a | b }
func bxor[T int32 | int64](a, b T) T { return a ^ b }
func shl[T int32 | int64](a, b T) T  { return a << b }
func shr[T int32 | int64](a, b T) T  { return a >> b }

func registerUnary(r *registry.Registry) error {
	reg := func(name string, fn any) error { return r.RegisterNative(name, fn) }
	if err := reg("-", func(a int32) int32 { return -a }); err != nil {
		return err
	}
	if err := reg("-", func(a int64) int64 { return -a }); err != nil {
		return err
	}
	if err := reg("-", func(a float32) float32 { return -a }); err != nil {
		return err
	}
	if err := reg("-", func(a float64) float64 { return -a }); err != nil {
		return err
	}
	return reg("!", func(a bool) bool { return !a })
}

func registerString(r *registry.Registry) error {
	return r.RegisterNative("+", func(a, b string) string { return NFC(a + b) })
}

// registerClone installs the "clone" native for every built-in scalar type
// plus Array. Any host type flowing through script variables or call
// arguments needs its own "clone" candidate; these cover the types the
// evaluator itself produces from literals.
func registerClone(r *registry.Registry) error {
	reg := func(fn any) error { return r.RegisterNative("clone", fn) }
	if err := reg(func(v int32) int32 { return v }); err != nil {
		return err
	}
	if err := reg(func(v int64) int64 { return v }); err != nil {
		return err
	}
	if err := reg(func(v uint32) uint32 { return v }); err != nil {
		return err
	}
	if err := reg(func(v uint64) uint64 { return v }); err != nil {
		return err
	}
	if err := reg(func(v float32) float32 { return v }); err != nil {
		return err
	}
	if err := reg(func(v float64) float64 { return v }); err != nil {
		return err
	}
	if err := reg(func(v bool) bool { return v }); err != nil {
		return err
	}
	if err := reg(func(v string) string { return v }); err != nil {
		return err
	}
	return reg(func(v *value.Array) *value.Array { return v.Clone() })
}
