package operators

import (
	"strings"

	"vela/pkg/value"
)

func stringOp(op string) (NativeOp, bool) {
	switch op {
	case "+":
		return func(l, r value.DynVal) (value.DynVal, error) {
			a, _ := value.AsString(l)
			b, _ := value.AsString(r)
			return value.NewString(a + b), nil
		}, true
	case "-":
		// String subtraction removes the first occurrence of the
		// right-hand substring from the left.
		return func(l, r value.DynVal) (value.DynVal, error) {
			a, _ := value.AsString(l)
			b, _ := value.AsString(r)
			return value.NewString(strings.Replace(a, b, "", 1)), nil
		}, true
	case "==":
		return func(l, r value.DynVal) (value.DynVal, error) {
			a, _ := value.AsString(l)
			b, _ := value.AsString(r)
			return value.NewBool(a == b), nil
		}, true
	case "!=":
		return func(l, r value.DynVal) (value.DynVal, error) {
			a, _ := value.AsString(l)
			b, _ := value.AsString(r)
			return value.NewBool(a != b), nil
		}, true
	case "<", "<=", ">", ">=":
		return func(l, r value.DynVal) (value.DynVal, error) {
			a, _ := value.AsString(l)
			b, _ := value.AsString(r)
			return value.NewBool(compareOrder(op, strings.Compare(a, b))), nil
		}, true
	default:
		return nil, false
	}
}

func compareOrder(op string, cmp int) bool {
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	default:
		return cmp >= 0
	}
}

func charOp(op string) (NativeOp, bool) {
	switch op {
	case "==":
		return func(l, r value.DynVal) (value.DynVal, error) {
			a, _ := value.AsChar(l)
			b, _ := value.AsChar(r)
			return value.NewBool(a == b), nil
		}, true
	case "!=":
		return func(l, r value.DynVal) (value.DynVal, error) {
			a, _ := value.AsChar(l)
			b, _ := value.AsChar(r)
			return value.NewBool(a != b), nil
		}, true
	case "<", "<=", ">", ">=":
		return func(l, r value.DynVal) (value.DynVal, error) {
			a, _ := value.AsChar(l)
			b, _ := value.AsChar(r)
			return value.NewBool(compareOrder(op, int(a)-int(b))), nil
		}, true
	case "+":
		// Char + Char produces a two-character string.
		return func(l, r value.DynVal) (value.DynVal, error) {
			a, _ := value.AsChar(l)
			b, _ := value.AsChar(r)
			return value.NewString(string(a) + string(b)), nil
		}, true
	default:
		return nil, false
	}
}

func blobOp(op string) (NativeOp, bool) {
	switch op {
	case "+":
		return func(l, r value.DynVal) (value.DynVal, error) {
			a := value.Unwrap(l).(*value.BlobVal)
			b := value.Unwrap(r).(*value.BlobVal)
			out := make([]byte, 0, len(a.Bytes)+len(b.Bytes))
			out = append(out, a.Bytes...)
			out = append(out, b.Bytes...)
			return value.NewBlob(out), nil
		}, true
	case "==":
		return func(l, r value.DynVal) (value.DynVal, error) {
			a := value.Unwrap(l).(*value.BlobVal)
			b := value.Unwrap(r).(*value.BlobVal)
			return value.NewBool(string(a.Bytes) == string(b.Bytes)), nil
		}, true
	case "!=":
		return func(l, r value.DynVal) (value.DynVal, error) {
			a := value.Unwrap(l).(*value.BlobVal)
			b := value.Unwrap(r).(*value.BlobVal)
			return value.NewBool(string(a.Bytes) != string(b.Bytes)), nil
		}, true
	default:
		return nil, false
	}
}

// charHeadPadded returns the first two runes of s, each '\0' where s
// is too short to have it.
// Deliberately preserves the source engine's "first two characters
// only" lexicographic shortcut for Char/String comparisons (spec.md
// §9 Open Question) — not a bug, and not to be "fixed" without
// explicit product sign-off.
func charHeadPadded(s string) (rune, rune) {
	runes := []rune(s)
	var a, b rune
	if len(runes) > 0 {
		a = runes[0]
	}
	if len(runes) > 1 {
		b = runes[1]
	}
	return a, b
}

func twoCharCompare(op string, aFirst, aSecond, bFirst, bSecond rune) bool {
	if aFirst != bFirst {
		return compareOrder(op, int(aFirst)-int(bFirst))
	}
	return compareOrder(op, int(aSecond)-int(bSecond))
}

// mixedStringCharOp covers the Char/String cross cells: (Char, String)
// concatenation, and (String, Char) concat/subtraction/comparison/
// contains.
func mixedStringCharOp(op string, lk, rk value.Kind) (NativeOp, bool) {
	if lk == value.KindChar && rk == value.KindString {
		if op != "+" {
			return nil, false
		}
		return func(l, r value.DynVal) (value.DynVal, error) {
			c, _ := value.AsChar(l)
			s, _ := value.AsString(r)
			return value.NewString(string(c) + s), nil
		}, true
	}
	if lk == value.KindString && rk == value.KindChar {
		switch op {
		case "+":
			return func(l, r value.DynVal) (value.DynVal, error) {
				s, _ := value.AsString(l)
				c, _ := value.AsChar(r)
				return value.NewString(s + string(c)), nil
			}, true
		case "-":
			return func(l, r value.DynVal) (value.DynVal, error) {
				s, _ := value.AsString(l)
				c, _ := value.AsChar(r)
				return value.NewString(strings.Replace(s, string(c), "", 1)), nil
			}, true
		case "contains":
			return func(l, r value.DynVal) (value.DynVal, error) {
				s, _ := value.AsString(l)
				c, _ := value.AsChar(r)
				return value.NewBool(strings.ContainsRune(s, c)), nil
			}, true
		case "==", "!=", "<", "<=", ">", ">=":
			return func(l, r value.DynVal) (value.DynVal, error) {
				s, _ := value.AsString(l)
				c, _ := value.AsChar(r)
				aFirst, aSecond := charHeadPadded(s)
				bFirst, bSecond := c, rune(0)
				switch op {
				case "==":
					return value.NewBool(aFirst == bFirst && aSecond == 0), nil
				case "!=":
					return value.NewBool(!(aFirst == bFirst && aSecond == 0)), nil
				default:
					return value.NewBool(twoCharCompare(op, aFirst, aSecond, bFirst, bSecond)), nil
				}
			}, true
		}
	}
	return nil, false
}

// mixedUnitOp: `+` is identity on the non-unit side; equality with
// Unit is always false; != always true.
func mixedUnitOp(op string, lk, rk value.Kind) (NativeOp, bool) {
	unitLeft := lk == value.KindUnit && rk != value.KindUnit
	unitRight := rk == value.KindUnit && lk != value.KindUnit
	if !unitLeft && !unitRight {
		return nil, false
	}
	switch op {
	case "+":
		return func(l, r value.DynVal) (value.DynVal, error) {
			if _, ok := l.(*value.UnitVal); ok {
				return r, nil
			}
			return l, nil
		}, true
	case "==":
		return func(l, r value.DynVal) (value.DynVal, error) { return value.NewBool(false), nil }, true
	case "!=":
		return func(l, r value.DynVal) (value.DynVal, error) { return value.NewBool(true), nil }, true
	default:
		return nil, false
	}
}

// mixedBlobOp: (Blob, Int) contains tests the low byte; (Blob, Char)
// `+` appends the UTF-8 encoding of the char.
func mixedBlobOp(op string, lk, rk value.Kind) (NativeOp, bool) {
	if lk == value.KindBlob && rk == value.KindInt && op == "contains" {
		return func(l, r value.DynVal) (value.DynVal, error) {
			b := value.Unwrap(l).(*value.BlobVal)
			n, _ := value.AsInt(r)
			want := byte(n)
			for _, got := range b.Bytes {
				if got == want {
					return value.NewBool(true), nil
				}
			}
			return value.NewBool(false), nil
		}, true
	}
	if lk == value.KindBlob && rk == value.KindChar && op == "+" {
		return func(l, r value.DynVal) (value.DynVal, error) {
			b := value.Unwrap(l).(*value.BlobVal)
			c, _ := value.AsChar(r)
			out := make([]byte, 0, len(b.Bytes)+4)
			out = append(out, b.Bytes...)
			out = append(out, []byte(string(c))...)
			return value.NewBlob(out), nil
		}, true
	}
	return nil, false
}
