package operators

// CheckedArithmetic controls whether Int arithmetic detects overflow
// and raises ArithmeticError, or silently wraps per Go's normal
// two's-complement semantics. spec.md §4.4 calls this a per-build
// option ("checked ... or unchecked wrap"); Vela exposes it as a
// package variable the host sets once at startup rather than a true
// build tag, since nothing else in the example pack uses Go build
// tags for feature selection.
var CheckedArithmetic = true

func overflowsAdd(a, b, r int64) bool {
	return (b > 0 && r < a) || (b < 0 && r > a)
}

func overflowsSub(a, b, r int64) bool {
	return (b < 0 && r < a) || (b > 0 && r > a)
}
