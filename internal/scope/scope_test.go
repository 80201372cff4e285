package scope

import (
	"testing"

	"github.com/cwbudde/scriptengine/internal/value"
)

func TestPushLookupShadow(t *testing.T) {
	s := New()
	s.Push("x", value.Of(int64(1)))
	s.Push("x", value.Of(int64(2)))

	got, i, ok := s.Lookup("x")
	if !ok {
		t.Fatalf("expected to find x")
	}
	if v, _ := value.As[int64](got); v != 2 {
		t.Fatalf("expected shadowed value 2, got %v", v)
	}
	if i != 1 {
		t.Fatalf("expected index 1, got %d", i)
	}
}

func TestTruncateRestoresBlockScope(t *testing.T) {
	s := New()
	s.Push("outer", value.Of(int64(1)))
	mark := s.Len()

	s.Push("inner", value.Of(int64(2)))
	if s.Len() != 2 {
		t.Fatalf("expected 2 bindings, got %d", s.Len())
	}

	s.TruncateTo(mark)
	if s.Len() != 1 {
		t.Fatalf("expected truncate back to 1, got %d", s.Len())
	}
	if _, _, ok := s.Lookup("inner"); ok {
		t.Fatalf("inner should be gone after truncate")
	}
	if _, _, ok := s.Lookup("outer"); !ok {
		t.Fatalf("outer should survive truncate")
	}
}

func TestSetMutatesBinding(t *testing.T) {
	s := New()
	s.Push("x", value.Of(int64(1)))
	_, i, _ := s.Lookup("x")
	s.Set(i, value.Of(int64(99)))

	got, _, _ := s.Lookup("x")
	if v, _ := value.As[int64](got); v != 99 {
		t.Fatalf("expected 99, got %v", v)
	}
}

func TestUseRecordsShadowAndTruncate(t *testing.T) {
	s := New()
	mark := s.UseLen()
	s.PushUse("math", "pi", UseSymbol)

	rec, ok := s.LookupUse("pi")
	if !ok || rec.Module != "math" {
		t.Fatalf("expected use record for pi from math, got %+v ok=%v", rec, ok)
	}

	s.TruncateUsesTo(mark)
	if _, ok := s.LookupUse("pi"); ok {
		t.Fatalf("expected use record gone after truncate")
	}
}
