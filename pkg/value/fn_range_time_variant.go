package value

import (
	"fmt"
	"time"
)

// FnPtrVal is a bound function name with curried arguments, produced by
// a bare function-name reference (§4.3) or by partial application.
type FnPtrVal struct {
	meta
	Name    string
	Curried []DynVal
}

func NewFnPtr(name string, curried ...DynVal) *FnPtrVal {
	return &FnPtrVal{Name: name, Curried: curried}
}

func (f *FnPtrVal) Kind() Kind { return KindFnPtr }

func (f *FnPtrVal) Clone() DynVal {
	c := &FnPtrVal{Name: f.Name, Curried: f.Curried}
	c.mode = f.mode
	return c
}

func (f *FnPtrVal) Flatten() DynVal {
	out := make([]DynVal, len(f.Curried))
	copy(out, f.Curried)
	return &FnPtrVal{Name: f.Name, Curried: out}
}

func (f *FnPtrVal) Inspect() string { return "fn(" + f.Name + ")" }

// RangeVal is an integer interval, half-open ("..") or closed ("..=").
type RangeVal struct {
	meta
	Start     int64
	End       int64
	Inclusive bool
}

func NewRange(start, end int64, inclusive bool) *RangeVal {
	return &RangeVal{Start: start, End: end, Inclusive: inclusive}
}

func (r *RangeVal) Kind() Kind { return KindRange }
func (r *RangeVal) Clone() DynVal {
	c := *r
	return &c
}
func (r *RangeVal) Flatten() DynVal {
	return &RangeVal{Start: r.Start, End: r.End, Inclusive: r.Inclusive}
}

func (r *RangeVal) Contains(n int64) bool {
	if r.Inclusive {
		return n >= r.Start && n <= r.End
	}
	return n >= r.Start && n < r.End
}

func (r *RangeVal) Inspect() string {
	if r.Inclusive {
		return fmt.Sprintf("%d..=%d", r.Start, r.End)
	}
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// TimestampVal is an opaque time reference.
type TimestampVal struct {
	meta
	T time.Time
}

func NewTimestamp(t time.Time) *TimestampVal { return &TimestampVal{T: t} }

func (t *TimestampVal) Kind() Kind      { return KindTimestamp }
func (t *TimestampVal) Clone() DynVal   { c := *t; return &c }
func (t *TimestampVal) Flatten() DynVal { return &TimestampVal{T: t.T} }
func (t *TimestampVal) Inspect() string { return t.T.Format(time.RFC3339) }

// VariantVal wraps an opaque host-supplied value (a websocket
// connection, an HTTP request, ...). Two variants only compare equal
// by the default host-variant equality rule in the operator table
// unless TypeName matches, in which case dispatch falls through to
// user-registered functions (§4.4).
type VariantVal struct {
	meta
	TypeName string
	V        interface{}
}

func NewVariant(typeName string, v interface{}) *VariantVal {
	return &VariantVal{TypeName: typeName, V: v}
}

func (v *VariantVal) Kind() Kind      { return KindVariant }
func (v *VariantVal) Clone() DynVal   { c := *v; return &c }
func (v *VariantVal) Flatten() DynVal { return &VariantVal{TypeName: v.TypeName, V: v.V} }
func (v *VariantVal) Inspect() string { return fmt.Sprintf("<%s>", v.TypeName) }
