package value

import "testing"

func TestCloneDoesNotLeakReadOnlyIntoCache(t *testing.T) {
	a := NewInt(5)
	b := NewInt(5)
	if a != b {
		t.Fatalf("expected cached pointer reuse for small ints")
	}
	clone := a.Clone().(*IntVal)
	clone.MarkReadOnly()
	if a.IsReadOnly() {
		t.Fatalf("marking a clone read-only must not affect the cached original")
	}
	if !clone.IsReadOnly() {
		t.Fatalf("clone should be read-only")
	}
}

func TestSharedFlattensNested(t *testing.T) {
	inner := NewShared(NewInt(1))
	outer := NewShared(inner)
	if outer != inner {
		t.Fatalf("wrapping an existing Shared must return the same cell, not nest it")
	}
}

func TestSharedPiercesKindAndReadOnly(t *testing.T) {
	s := NewShared(NewString("hi"))
	if s.Kind() != KindString {
		t.Fatalf("Shared.Kind() must pierce to the wrapped kind, got %s", s.Kind())
	}
	s.MarkReadOnly()
	if !s.Read().IsReadOnly() {
		t.Fatalf("MarkReadOnly on Shared must propagate to the wrapped value")
	}
}

func TestSharedUpdateIsAtomic(t *testing.T) {
	s := NewShared(NewInt(0))
	s.Update(func(v DynVal) DynVal {
		n, _ := AsInt(v)
		return NewInt(n + 1)
	})
	n, _ := AsInt(s.Read())
	if n != 1 {
		t.Fatalf("expected 1, got %d", n)
	}
}

func TestArrayCloneSharesFlattenCopies(t *testing.T) {
	a := NewArray([]DynVal{NewInt(1), NewInt(2)})
	clone := a.Clone().(*ArrayVal)
	flat := a.Flatten().(*ArrayVal)
	clone.Elements[0] = NewInt(99)
	if v, _ := AsInt(a.Elements[0]); v != 99 {
		t.Fatalf("shallow clone should share backing storage")
	}
	if v, _ := AsInt(flat.Elements[0]); v != 1 {
		t.Fatalf("flatten should be independent of later mutation")
	}
}

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set("b", NewInt(2))
	m.Set("a", NewInt(1))
	m.Set("b", NewInt(20))
	entries := m.Entries()
	if len(entries) != 2 || entries[0].Key != "b" || entries[1].Key != "a" {
		t.Fatalf("expected insertion order preserved with position kept on overwrite, got %+v", entries)
	}
	if v, _ := AsInt(entries[0].Value); v != 20 {
		t.Fatalf("overwrite should update value in place")
	}
}

func TestDecimalArithmetic(t *testing.T) {
	a := NewDecimalFromFloat(1.5)
	b := NewDecimalFromFloat(2.25)
	sum := a.Add(b)
	if sum.Inspect() != "3.75" {
		t.Fatalf("expected 3.75, got %s", sum.Inspect())
	}
	quot, ok := a.Div(NewDecimalFromFloat(0))
	if ok || quot != nil {
		t.Fatalf("dividing by zero decimal should fail")
	}
}

func TestAsIntReportsOffendingType(t *testing.T) {
	_, typeName := AsInt(NewString("x"))
	if typeName != "string" {
		t.Fatalf("expected offending type name 'string', got %q", typeName)
	}
}
