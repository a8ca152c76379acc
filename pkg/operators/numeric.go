package operators

import (
	"math"

	"vela/pkg/value"
)

// intOp covers the Int same-type cell: arithmetic, shifts, comparisons,
// bitwise ops, and the range constructors. Overflow and division by
// zero raise ArithmeticError; set CheckedArithmetic to false to wrap
// on overflow instead (see config.go).
func intOp(op string) (NativeOp, bool) {
	switch op {
	case "+":
		return intBinary(op, func(a, b int64) (int64, error) {
			r := a + b
			if CheckedArithmetic && overflowsAdd(a, b, r) {
				return 0, arithErr("arithmetic overflow: %d + %d", a, b)
			}
			return r, nil
		})
	case "-":
		return intBinary(op, func(a, b int64) (int64, error) {
			r := a - b
			if CheckedArithmetic && overflowsSub(a, b, r) {
				return 0, arithErr("arithmetic overflow: %d - %d", a, b)
			}
			return r, nil
		})
	case "*":
		return intBinary(op, func(a, b int64) (int64, error) {
			r := a * b
			if CheckedArithmetic && a != 0 && r/a != b {
				return 0, arithErr("arithmetic overflow: %d * %d", a, b)
			}
			return r, nil
		})
	case "/":
		return intBinary(op, func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, arithErr("division by zero")
			}
			return a / b, nil
		})
	case "%":
		return intBinary(op, func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, arithErr("division by zero in modulo")
			}
			return a % b, nil
		})
	case "**":
		return intBinary(op, func(a, b int64) (int64, error) {
			if b < 0 {
				return 0, arithErr("negative exponent in integer power")
			}
			result := int64(1)
			for i := int64(0); i < b; i++ {
				next := result * a
				if CheckedArithmetic && a != 0 && next/a != result {
					return 0, arithErr("arithmetic overflow: %d ** %d", a, b)
				}
				result = next
			}
			return result, nil
		})
	case "<<":
		return intBinary(op, func(a, b int64) (int64, error) { return a << uint(b), nil })
	case ">>":
		return intBinary(op, func(a, b int64) (int64, error) { return a >> uint(b), nil })
	case "&":
		return intBinary(op, func(a, b int64) (int64, error) { return a & b, nil })
	case "|":
		return intBinary(op, func(a, b int64) (int64, error) { return a | b, nil })
	case "^":
		return intBinary(op, func(a, b int64) (int64, error) { return a ^ b, nil })
	case "==":
		return intCompare(func(a, b int64) bool { return a == b }), true
	case "!=":
		return intCompare(func(a, b int64) bool { return a != b }), true
	case "<":
		return intCompare(func(a, b int64) bool { return a < b }), true
	case "<=":
		return intCompare(func(a, b int64) bool { return a <= b }), true
	case ">":
		return intCompare(func(a, b int64) bool { return a > b }), true
	case ">=":
		return intCompare(func(a, b int64) bool { return a >= b }), true
	case "..":
		return func(l, r value.DynVal) (value.DynVal, error) {
			a, _ := value.AsInt(l)
			b, _ := value.AsInt(r)
			return value.NewRange(a, b, false), nil
		}, true
	case "..=":
		return func(l, r value.DynVal) (value.DynVal, error) {
			a, _ := value.AsInt(l)
			b, _ := value.AsInt(r)
			return value.NewRange(a, b, true), nil
		}, true
	default:
		return nil, false
	}
}

func intBinary(op string, f func(a, b int64) (int64, error)) (NativeOp, bool) {
	return func(l, r value.DynVal) (value.DynVal, error) {
		a, _ := value.AsInt(l)
		b, _ := value.AsInt(r)
		v, err := f(a, b)
		if err != nil {
			return nil, err
		}
		return value.NewInt(v), nil
	}, true
}

func intCompare(f func(a, b int64) bool) NativeOp {
	return func(l, r value.DynVal) (value.DynVal, error) {
		a, _ := value.AsInt(l)
		b, _ := value.AsInt(r)
		return value.NewBool(f(a, b)), nil
	}
}

func boolOp(op string) (NativeOp, bool) {
	switch op {
	case "==":
		return func(l, r value.DynVal) (value.DynVal, error) {
			a, _ := value.AsBool(l)
			b, _ := value.AsBool(r)
			return value.NewBool(a == b), nil
		}, true
	case "!=":
		return func(l, r value.DynVal) (value.DynVal, error) {
			a, _ := value.AsBool(l)
			b, _ := value.AsBool(r)
			return value.NewBool(a != b), nil
		}, true
	case "<", "<=", ">", ">=":
		// false < true.
		return func(l, r value.DynVal) (value.DynVal, error) {
			a, _ := value.AsBool(l)
			b, _ := value.AsBool(r)
			ai, bi := boolToInt(a), boolToInt(b)
			switch op {
			case "<":
				return value.NewBool(ai < bi), nil
			case "<=":
				return value.NewBool(ai <= bi), nil
			case ">":
				return value.NewBool(ai > bi), nil
			default:
				return value.NewBool(ai >= bi), nil
			}
		}, true
	case "&":
		return func(l, r value.DynVal) (value.DynVal, error) {
			a, _ := value.AsBool(l)
			b, _ := value.AsBool(r)
			return value.NewBool(a && b), nil
		}, true
	case "|":
		return func(l, r value.DynVal) (value.DynVal, error) {
			a, _ := value.AsBool(l)
			b, _ := value.AsBool(r)
			return value.NewBool(a || b), nil
		}, true
	case "^":
		return func(l, r value.DynVal) (value.DynVal, error) {
			a, _ := value.AsBool(l)
			b, _ := value.AsBool(r)
			return value.NewBool(a != b), nil
		}, true
	default:
		return nil, false
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func floatOp(op string) (NativeOp, bool) {
	switch op {
	case "+":
		return floatBinary(func(a, b float64) float64 { return a + b }), true
	case "-":
		return floatBinary(func(a, b float64) float64 { return a - b }), true
	case "*":
		return floatBinary(func(a, b float64) float64 { return a * b }), true
	case "/":
		return floatBinary(func(a, b float64) float64 { return a / b }), true
	case "**":
		return floatBinary(math.Pow), true
	case "==":
		return floatCompare(func(a, b float64) bool { return a == b }), true
	case "!=":
		return floatCompare(func(a, b float64) bool { return a != b }), true
	case "<":
		return floatCompare(func(a, b float64) bool { return a < b }), true
	case "<=":
		return floatCompare(func(a, b float64) bool { return a <= b }), true
	case ">":
		return floatCompare(func(a, b float64) bool { return a > b }), true
	case ">=":
		return floatCompare(func(a, b float64) bool { return a >= b }), true
	default:
		return nil, false
	}
}

func floatBinary(f func(a, b float64) float64) NativeOp {
	return func(l, r value.DynVal) (value.DynVal, error) {
		a, _ := value.AsFloat(l)
		b, _ := value.AsFloat(r)
		return value.NewFloat(f(a, b)), nil
	}
}

func floatCompare(f func(a, b float64) bool) NativeOp {
	return func(l, r value.DynVal) (value.DynVal, error) {
		a, _ := value.AsFloat(l)
		b, _ := value.AsFloat(r)
		return value.NewBool(f(a, b)), nil
	}
}

func decimalOp(op string) (NativeOp, bool) {
	switch op {
	case "+":
		return func(l, r value.DynVal) (value.DynVal, error) {
			a, _ := value.AsDecimal(l)
			b, _ := value.AsDecimal(r)
			return a.Add(b), nil
		}, true
	case "-":
		return func(l, r value.DynVal) (value.DynVal, error) {
			a, _ := value.AsDecimal(l)
			b, _ := value.AsDecimal(r)
			return a.Sub(b), nil
		}, true
	case "*":
		return func(l, r value.DynVal) (value.DynVal, error) {
			a, _ := value.AsDecimal(l)
			b, _ := value.AsDecimal(r)
			return a.Mul(b), nil
		}, true
	case "/":
		return func(l, r value.DynVal) (value.DynVal, error) {
			a, _ := value.AsDecimal(l)
			b, _ := value.AsDecimal(r)
			q, ok := a.Div(b)
			if !ok {
				return nil, arithErr("division by zero")
			}
			return q, nil
		}, true
	case "==":
		return decimalCompare(func(c int) bool { return c == 0 }), true
	case "!=":
		return decimalCompare(func(c int) bool { return c != 0 }), true
	case "<":
		return decimalCompare(func(c int) bool { return c < 0 }), true
	case "<=":
		return decimalCompare(func(c int) bool { return c <= 0 }), true
	case ">":
		return decimalCompare(func(c int) bool { return c > 0 }), true
	case ">=":
		return decimalCompare(func(c int) bool { return c >= 0 }), true
	default:
		return nil, false
	}
}

func decimalCompare(f func(cmp int) bool) NativeOp {
	return func(l, r value.DynVal) (value.DynVal, error) {
		a, _ := value.AsDecimal(l)
		b, _ := value.AsDecimal(r)
		return value.NewBool(f(a.Cmp(b))), nil
	}
}

// mixedNumericOp covers (Float, Int), (Int, Float), (Decimal, Int),
// (Int, Decimal): arithmetic and comparison after widening to the
// non-integer side.
func mixedNumericOp(op string, lk, rk value.Kind) (NativeOp, bool) {
	if lk == value.KindFloat && rk == value.KindInt {
		fn, ok := floatOp(op)
		if !ok {
			return nil, false
		}
		return func(l, r value.DynVal) (value.DynVal, error) {
			n, _ := value.AsInt(r)
			return fn(l, value.NewFloat(float64(n)))
		}, true
	}
	if lk == value.KindInt && rk == value.KindFloat {
		fn, ok := floatOp(op)
		if !ok {
			return nil, false
		}
		return func(l, r value.DynVal) (value.DynVal, error) {
			n, _ := value.AsInt(l)
			return fn(value.NewFloat(float64(n)), r)
		}, true
	}
	if lk == value.KindDecimal && rk == value.KindInt {
		fn, ok := decimalOp(op)
		if !ok {
			return nil, false
		}
		return func(l, r value.DynVal) (value.DynVal, error) {
			n, _ := value.AsInt(r)
			return fn(l, value.NewDecimalFromFloat(float64(n)))
		}, true
	}
	if lk == value.KindInt && rk == value.KindDecimal {
		fn, ok := decimalOp(op)
		if !ok {
			return nil, false
		}
		return func(l, r value.DynVal) (value.DynVal, error) {
			n, _ := value.AsInt(l)
			return fn(value.NewDecimalFromFloat(float64(n)), r)
		}, true
	}
	return nil, false
}
