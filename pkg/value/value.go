// Package value implements DynVal, the single dynamically-typed runtime
// value of the Vela scripting engine. Every expression evaluates to one
// of the concrete types in this package.
package value

import "fmt"

// Kind is the stable type identity carried by every DynVal. It is cheap
// to compare and usable as a map key, which is what the resolution cache
// and the operator dispatch table both rely on.
type Kind uint8

const (
	KindUnit Kind = iota
	KindBool
	KindInt
	KindFloat
	KindDecimal
	KindChar
	KindString
	KindArray
	KindBlob
	KindMap
	KindFnPtr
	KindRange
	KindTimestamp
	KindVariant
	KindClosure
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindBlob:
		return "blob"
	case KindMap:
		return "map"
	case KindFnPtr:
		return "fn_ptr"
	case KindRange:
		return "range"
	case KindTimestamp:
		return "timestamp"
	case KindVariant:
		return "variant"
	case KindClosure:
		return "closure"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// AccessMode marks a DynVal as mutable or read-only. Setting read-only
// is monotone within one evaluation: once a value is marked, nothing may
// clear the flag again.
type AccessMode uint8

const (
	ReadWrite AccessMode = iota
	ReadOnly
)

// meta is embedded by every concrete DynVal to carry its access mode.
// Because it is embedded by value, copying a concrete value (the
// cheap-clone path for scalars) copies the mode along with it, which is
// exactly the "cloning preserves mode" invariant.
type meta struct {
	mode AccessMode
}

func (m *meta) IsReadOnly() bool { return m.mode == ReadOnly }
func (m *meta) MarkReadOnly()    { m.mode = ReadOnly }

// DynVal is the runtime value every AST node evaluates to.
type DynVal interface {
	// Kind reports the stable type identity. For a Shared value this
	// transparently pierces to the kind of the wrapped value.
	Kind() Kind
	// Clone is a cheap copy: scalars copy their payload, containers
	// share their backing storage (shallow clone). A Shared value
	// clones to itself — sharing is the point.
	Clone() DynVal
	// Flatten returns an owned, independent copy with no aliasing to
	// the original, piercing any Shared wrapper. Containers are
	// deep-copied one level; scalar payloads are immutable already.
	Flatten() DynVal
	// IsReadOnly / MarkReadOnly implement the access-mode contract,
	// piercing Shared so a shared closure capture and the access mode
	// observed through it agree.
	IsReadOnly() bool
	MarkReadOnly()
	// Inspect renders a human-readable form, used for diagnostics and
	// the interpolated-string/print builtins.
	Inspect() string
}

// Unit represents "no value". There is a package-level constant for
// convenience but callers that need a fresh read-write Unit should use
// NewUnit(); the shared singleton is always read-only to avoid one
// caller's MarkReadOnly leaking into every other holder.
var Unit DynVal = func() DynVal {
	u := NewUnit()
	u.MarkReadOnly()
	return u
}()

// UnitVal is the Unit variant.
type UnitVal struct{ meta }

func NewUnit() *UnitVal { return &UnitVal{} }

func (u *UnitVal) Kind() Kind        { return KindUnit }
func (u *UnitVal) Clone() DynVal     { c := *u; return &c }
func (u *UnitVal) Flatten() DynVal   { c := *u; c.mode = ReadWrite; return &c }
func (u *UnitVal) Inspect() string   { return "()" }

// BoolVal is the Bool variant.
type BoolVal struct {
	meta
	V bool
}

func NewBool(v bool) *BoolVal { return &BoolVal{V: v} }

func (b *BoolVal) Kind() Kind      { return KindBool }
func (b *BoolVal) Clone() DynVal   { c := *b; return &c }
func (b *BoolVal) Flatten() DynVal { c := *b; c.mode = ReadWrite; return &c }
func (b *BoolVal) Inspect() string {
	if b.V {
		return "true"
	}
	return "false"
}

// IntVal is the Int variant (signed 64-bit; there is no narrow 32-bit
// integer mode).
type IntVal struct {
	meta
	V int64
}

// Small-integer cache, mirroring the teacher's IntCache, to avoid an
// allocation per loop counter. Clone() always allocates a fresh struct
// for the copy so marking a clone read-only never mutates the cache.
const (
	minCachedInt = -256
	maxCachedInt = 1024
)

var intCache [maxCachedInt - minCachedInt + 1]*IntVal

func init() {
	for i := range intCache {
		intCache[i] = &IntVal{V: int64(i) + minCachedInt}
	}
}

func NewInt(v int64) *IntVal {
	if v >= minCachedInt && v <= maxCachedInt {
		return intCache[v-minCachedInt]
	}
	return &IntVal{V: v}
}

func (i *IntVal) Kind() Kind      { return KindInt }
func (i *IntVal) Clone() DynVal   { c := &IntVal{V: i.V}; c.mode = i.mode; return c }
func (i *IntVal) Flatten() DynVal { return &IntVal{V: i.V} }
func (i *IntVal) Inspect() string { return fmt.Sprintf("%d", i.V) }

// FloatVal is the Float variant (optional per build flags).
type FloatVal struct {
	meta
	V float64
}

func NewFloat(v float64) *FloatVal { return &FloatVal{V: v} }

func (f *FloatVal) Kind() Kind      { return KindFloat }
func (f *FloatVal) Clone() DynVal   { c := *f; return &c }
func (f *FloatVal) Flatten() DynVal { return &FloatVal{V: f.V} }
func (f *FloatVal) Inspect() string { return fmt.Sprintf("%g", f.V) }

// CharVal is one Unicode scalar.
type CharVal struct {
	meta
	V rune
}

func NewChar(v rune) *CharVal { return &CharVal{V: v} }

func (c *CharVal) Kind() Kind      { return KindChar }
func (c *CharVal) Clone() DynVal   { n := *c; return &n }
func (c *CharVal) Flatten() DynVal { return &CharVal{V: c.V} }
func (c *CharVal) Inspect() string { return string(c.V) }

// StringVal is an immutable shared string. Cloning is always cheap
// because Go strings are themselves immutable and safe to alias.
type StringVal struct {
	meta
	V string
}

func NewString(v string) *StringVal { return &StringVal{V: v} }

func (s *StringVal) Kind() Kind      { return KindString }
func (s *StringVal) Clone() DynVal   { n := *s; return &n }
func (s *StringVal) Flatten() DynVal { return &StringVal{V: s.V} }
func (s *StringVal) Inspect() string { return s.V }

// TypeName returns the type identity's name, used to build the
// TypeMismatch and as_T-coercion failure messages.
func TypeName(v DynVal) string {
	if v == nil {
		return "unit"
	}
	return v.Kind().String()
}
