package registry

import (
	"errors"
	"testing"

	"github.com/cwbudde/scriptengine/internal/value"
)

func TestDispatchPicksMatchingArity(t *testing.T) {
	r := New()
	_ = r.RegisterNative("+", func(a, b int64) int64 { return a + b })

	got, err := r.Call("+", []value.Value{value.Of(int64(2)), value.Of(int64(3))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := value.As[int64](got); v != 5 {
		t.Fatalf("got %v", v)
	}
}

func TestDispatchTriesNextCandidateOnTypeMismatch(t *testing.T) {
	r := New()
	_ = r.RegisterNative("+", func(a, b int64) int64 { return a + b })
	_ = r.RegisterNative("+", func(a, b string) string { return a + b })

	got, err := r.Call("+", []value.Value{value.Of("foo"), value.Of("bar")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := value.As[string](got); v != "foobar" {
		t.Fatalf("got %v", v)
	}
}

func TestDispatchOrderDeterminesWinner(t *testing.T) {
	r := New()
	_ = r.RegisterNative("f", func(a int64) int64 { return 1 })
	_ = r.RegisterNative("f", func(a int64) int64 { return 2 })

	got, err := r.Call("f", []value.Value{value.Of(int64(0))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := value.As[int64](got); v != 1 {
		t.Fatalf("expected first-registered candidate to win, got %v", v)
	}
}

func TestRealErrorFromNativePropagatesImmediately(t *testing.T) {
	wantErr := errors.New("division by zero")
	r := New()
	_ = r.RegisterNative("/", func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, wantErr
		}
		return a / b, nil
	})
	_ = r.RegisterNative("/", func(a, b string) (string, error) { return "", nil })

	_, err := r.Call("/", []value.Value{value.Of(int64(1)), value.Of(int64(0))})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the native's own error to propagate, got %v", err)
	}
}

func TestUnknownFunctionName(t *testing.T) {
	r := New()
	_, err := r.Call("nope", nil)
	if !errors.Is(err, ErrFunctionNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestArityNotSupportedOnRegister(t *testing.T) {
	r := New()
	err := r.RegisterNative("f7", func(a, b, c, d, e, f, g int64) int64 { return 0 })
	if !errors.Is(err, ErrArityNotSupported) {
		t.Fatalf("got %v", err)
	}
}

func TestWrongArgCount(t *testing.T) {
	r := New()
	_ = r.RegisterNative("f", func(a int64) int64 { return a })
	_, err := r.Call("f", []value.Value{value.Of(int64(1)), value.Of(int64(2))})
	if !errors.Is(err, ErrArgMismatch) {
		t.Fatalf("got %v", err)
	}
}
