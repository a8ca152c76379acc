// Package operators implements the built-in operator dispatch table:
// the performance fast-path for arithmetic, comparison, and container
// operators (spec.md §4.4). Dispatch is a direct switch on (op,
// left-kind, right-kind) rather than a hashed table, matching the
// teacher's own preference for a switch's branch-prediction win over a
// generic lookup (see DESIGN.md).
package operators

import (
	"fmt"
	"strings"

	"vela/pkg/value"
)

// NativeOp is a pure function over two borrowed operands. It never
// mutates its arguments.
type NativeOp func(left, right value.DynVal) (value.DynVal, error)

// ArithmeticError reports overflow or divide-by-zero in the checked
// arithmetic path.
type ArithmeticError struct {
	Message string
}

func (e *ArithmeticError) Error() string { return e.Message }

func arithErr(format string, a ...interface{}) error {
	return &ArithmeticError{Message: fmt.Sprintf(format, a...)}
}

// Dispatch returns the native implementation for (op, leftKind,
// rightKind), or (nil, false) to signal "fall through to
// user-registered functions" (spec.md §4.4).
func Dispatch(op string, lk, rk value.Kind) (NativeOp, bool) {
	if lk == rk {
		if fn, ok := sameTypeOp(op, lk); ok {
			return fn, true
		}
	}

	if fn, ok := mixedNumericOp(op, lk, rk); ok {
		return fn, true
	}
	if fn, ok := mixedStringCharOp(op, lk, rk); ok {
		return fn, true
	}
	if fn, ok := mixedUnitOp(op, lk, rk); ok {
		return fn, true
	}
	if fn, ok := mixedBlobOp(op, lk, rk); ok {
		return fn, true
	}
	if fn, ok := mapStringContainsOp(op, lk, rk); ok {
		return fn, true
	}
	if fn, ok := rangeIntContainsOp(op, lk, rk); ok {
		return fn, true
	}

	// Host-variant operand: same-kind-different-identity falls through
	// to user-registered functions; different kinds get the default
	// equality rule shared with "any other mismatched pair" below.
	if lk == value.KindVariant && rk == value.KindVariant {
		return nil, false
	}
	if lk != rk {
		if fn, ok := defaultInequalityOp(op); ok {
			return fn, true
		}
	}

	return nil, false
}

func sameTypeOp(op string, k value.Kind) (NativeOp, bool) {
	switch k {
	case value.KindInt:
		return intOp(op)
	case value.KindBool:
		return boolOp(op)
	case value.KindFloat:
		return floatOp(op)
	case value.KindDecimal:
		return decimalOp(op)
	case value.KindString:
		return stringOp(op)
	case value.KindChar:
		return charOp(op)
	case value.KindBlob:
		return blobOp(op)
	case value.KindUnit:
		return unitOp(op)
	case value.KindRange:
		return rangeOp(op)
	default:
		return nil, false
	}
}

// defaultInequalityOp implements the "different non-numeric,
// non-variant types" rule: == is always false, != is always true, all
// orderings are false.
func defaultInequalityOp(op string) (NativeOp, bool) {
	switch op {
	case "==":
		return func(l, r value.DynVal) (value.DynVal, error) { return value.NewBool(false), nil }, true
	case "!=":
		return func(l, r value.DynVal) (value.DynVal, error) { return value.NewBool(true), nil }, true
	case "<", "<=", ">", ">=":
		return func(l, r value.DynVal) (value.DynVal, error) { return value.NewBool(false), nil }, true
	default:
		return nil, false
	}
}

func unitOp(op string) (NativeOp, bool) {
	switch op {
	case "==":
		return func(l, r value.DynVal) (value.DynVal, error) { return value.NewBool(true), nil }, true
	case "!=":
		return func(l, r value.DynVal) (value.DynVal, error) { return value.NewBool(false), nil }, true
	case "<", "<=", ">", ">=":
		return func(l, r value.DynVal) (value.DynVal, error) { return value.NewBool(false), nil }, true
	default:
		return nil, false
	}
}

// rangeOp covers Range == Range and != per spec.md §4.4, including the
// "incompatible ranges" rule: two ranges with differing inclusivity
// are never equal regardless of their bounds.
func rangeOp(op string) (NativeOp, bool) {
	if op != "==" && op != "!=" {
		return nil, false
	}
	return func(l, r value.DynVal) (value.DynVal, error) {
		lr := value.Unwrap(l).(*value.RangeVal)
		rr := value.Unwrap(r).(*value.RangeVal)
		eq := lr.Inclusive == rr.Inclusive && lr.Start == rr.Start && lr.End == rr.End
		if op == "!=" {
			eq = !eq
		}
		return value.NewBool(eq), nil
	}, true
}

func rangeIntContainsOp(op string, lk, rk value.Kind) (NativeOp, bool) {
	if op != "contains" {
		return nil, false
	}
	if lk == value.KindRange && rk == value.KindInt {
		return func(l, r value.DynVal) (value.DynVal, error) {
			rg := value.Unwrap(l).(*value.RangeVal)
			n, _ := value.AsInt(r)
			return value.NewBool(rg.Contains(n)), nil
		}, true
	}
	return nil, false
}

func mapStringContainsOp(op string, lk, rk value.Kind) (NativeOp, bool) {
	if op != "contains" {
		return nil, false
	}
	if lk == value.KindMap && rk == value.KindString {
		return func(l, r value.DynVal) (value.DynVal, error) {
			m := value.Unwrap(l).(*value.MapVal)
			key, _ := value.AsString(r)
			return value.NewBool(m.Contains(key)), nil
		}, true
	}
	if lk == value.KindString && rk == value.KindString {
		return func(l, r value.DynVal) (value.DynVal, error) {
			s, _ := value.AsString(l)
			sub, _ := value.AsString(r)
			return value.NewBool(strings.Contains(s, sub)), nil
		}, true
	}
	return nil, false
}
