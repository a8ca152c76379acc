package operators

import (
	"testing"

	"vela/pkg/value"
)

func dispatchMust(t *testing.T, op string, l, r value.DynVal) value.DynVal {
	t.Helper()
	fn, ok := Dispatch(op, l.Kind(), r.Kind())
	if !ok {
		t.Fatalf("Dispatch(%q, %v, %v) returned ok=false", op, l.Kind(), r.Kind())
	}
	out, err := fn(l, r)
	if err != nil {
		t.Fatalf("Dispatch(%q) errored: %v", op, err)
	}
	return out
}

func TestIntArithmeticOverflow(t *testing.T) {
	fn, _ := Dispatch("+", value.KindInt, value.KindInt)
	_, err := fn(value.NewInt(9223372036854775807), value.NewInt(1))
	if err == nil {
		t.Fatalf("expected overflow error")
	}
	if _, ok := err.(*ArithmeticError); !ok {
		t.Fatalf("expected *ArithmeticError, got %T", err)
	}
}

func TestMixedNumericWidensToFloat(t *testing.T) {
	out := dispatchMust(t, "+", value.NewFloat(1.5), value.NewInt(2))
	f, _ := value.AsFloat(out)
	if f != 3.5 {
		t.Fatalf("expected 3.5, got %v", f)
	}
}

func TestStringConcatAndContains(t *testing.T) {
	out := dispatchMust(t, "+", value.NewString("foo"), value.NewString("bar"))
	s, _ := value.AsString(out)
	if s != "foobar" {
		t.Fatalf("expected foobar, got %q", s)
	}
	out = dispatchMust(t, "contains", value.NewString("foobar"), value.NewString("oob"))
	b, _ := value.AsBool(out)
	if !b {
		t.Fatalf("expected contains=true")
	}
}

func TestCharStringComparisonPadsWithNul(t *testing.T) {
	// "a" (single char, implicit pad) == 'a' must hold; "ab" == 'a' must not.
	out := dispatchMust(t, "==", value.NewString("a"), value.NewChar('a'))
	b, _ := value.AsBool(out)
	if !b {
		t.Fatalf("expected \"a\" == 'a'")
	}
	out = dispatchMust(t, "==", value.NewString("ab"), value.NewChar('a'))
	b, _ = value.AsBool(out)
	if b {
		t.Fatalf("expected \"ab\" != 'a'")
	}
}

func TestUnitMixedIdentityAndInequality(t *testing.T) {
	out := dispatchMust(t, "+", value.NewUnit(), value.NewInt(5))
	n, _ := value.AsInt(out)
	if n != 5 {
		t.Fatalf("expected unit+int identity to yield 5, got %v", n)
	}
	out = dispatchMust(t, "==", value.NewUnit(), value.NewInt(5))
	b, _ := value.AsBool(out)
	if b {
		t.Fatalf("expected unit == int to be false")
	}
}

func TestRangeEqualityRespectsInclusivity(t *testing.T) {
	out := dispatchMust(t, "==", value.NewRange(1, 5, false), value.NewRange(1, 5, true))
	b, _ := value.AsBool(out)
	if b {
		t.Fatalf("expected ranges with differing inclusivity to be unequal")
	}
}

func TestRangeContainsInt(t *testing.T) {
	out := dispatchMust(t, "contains", value.NewRange(1, 5, false), value.NewInt(4))
	b, _ := value.AsBool(out)
	if !b {
		t.Fatalf("expected 1..5 to contain 4")
	}
	out = dispatchMust(t, "contains", value.NewRange(1, 5, false), value.NewInt(5))
	b, _ = value.AsBool(out)
	if b {
		t.Fatalf("expected exclusive 1..5 to not contain 5")
	}
}

func TestDefaultInequalityForMismatchedTypes(t *testing.T) {
	out := dispatchMust(t, "==", value.NewBool(true), value.NewString("true"))
	b, _ := value.AsBool(out)
	if b {
		t.Fatalf("expected Bool == String to be false by default rule")
	}
}

func TestOpAssignStringAppend(t *testing.T) {
	fn, ok := DispatchAssign("+=", value.KindString, value.KindString)
	if !ok {
		t.Fatalf("expected String += String to resolve")
	}
	out, err := fn(value.NewString("foo"), value.NewString("bar"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, _ := value.AsString(out)
	if s != "foobar" {
		t.Fatalf("expected foobar, got %q", s)
	}
}

func TestOpAssignArrayAppend(t *testing.T) {
	fn, ok := DispatchAssign("+=", value.KindArray, value.KindInt)
	if !ok {
		t.Fatalf("expected Array += Int to resolve")
	}
	arr := value.NewArray([]value.DynVal{value.NewInt(1)})
	out, err := fn(arr, value.NewInt(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out.(*value.ArrayVal)
	if len(got.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(got.Elements))
	}
}

func TestOpAssignDesugarsArithmetic(t *testing.T) {
	fn, ok := DispatchAssign("*=", value.KindInt, value.KindInt)
	if !ok {
		t.Fatalf("expected Int *= Int to resolve")
	}
	out, err := fn(value.NewInt(3), value.NewInt(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, _ := value.AsInt(out)
	if n != 12 {
		t.Fatalf("expected 12, got %d", n)
	}
}
