package value

import "testing"

func TestAsRoundTrip(t *testing.T) {
	v := Of(int64(42))
	got, ok := As[int64](v)
	if !ok || got != 42 {
		t.Fatalf("got %v, %v", got, ok)
	}
	if _, ok := As[string](v); ok {
		t.Fatalf("expected mismatch")
	}
}

func TestUnit(t *testing.T) {
	if !Unit.IsUnit() {
		t.Fatalf("Unit should be unit")
	}
	if Of(int64(0)).IsUnit() {
		t.Fatalf("boxed zero value is not unit")
	}
}

func TestArrayCloneIsIndependent(t *testing.T) {
	orig := &Array{Elems: []Value{Of(int64(1)), Of(int64(2))}}
	clone := orig.Clone()
	clone.Set(0, Of(int64(99)))

	got, _ := orig.Get(0)
	if v, _ := As[int64](got); v != 1 {
		t.Fatalf("clone mutated original: %v", v)
	}
}

func TestArrayOutOfBounds(t *testing.T) {
	a := &Array{Elems: []Value{Of(int64(1))}}
	if _, ok := a.Get(5); ok {
		t.Fatalf("expected out-of-bounds Get to fail")
	}
	if a.Set(-1, Of(int64(0))) {
		t.Fatalf("expected out-of-bounds Set to fail")
	}
}
