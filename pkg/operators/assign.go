package operators

import "vela/pkg/value"

// DispatchAssign resolves a compound-assignment operator ("+=", "-=",
// etc.) to its native implementation, or reports false when no cell
// exists (spec.md §4.4). String +=, Array += and Blob += have dedicated
// cells (Array += appends an array or pushes any other value); every
// other case reuses the same-type and mixed-numeric binary cells via
// binaryAssign. Each cell returns a new value for the caller to store;
// the left operand's own storage is not modified in place.
func DispatchAssign(op string, lk, rk value.Kind) (NativeOp, bool) {
	switch op {
	case "+=":
		if lk == value.KindString && rk == value.KindString {
			return func(l, r value.DynVal) (value.DynVal, error) {
				a, _ := value.AsString(l)
				b, _ := value.AsString(r)
				return value.NewString(a + b), nil
			}, true
		}
		if lk == value.KindArray {
			return func(l, r value.DynVal) (value.DynVal, error) {
				arr := value.Unwrap(l).(*value.ArrayVal)
				if rk == value.KindArray {
					other := value.Unwrap(r).(*value.ArrayVal)
					out := make([]value.DynVal, 0, len(arr.Elements)+len(other.Elements))
					out = append(out, arr.Elements...)
					out = append(out, other.Elements...)
					return value.NewArray(out), nil
				}
				out := make([]value.DynVal, 0, len(arr.Elements)+1)
				out = append(out, arr.Elements...)
				out = append(out, r)
				return value.NewArray(out), nil
			}, true
		}
		if lk == value.KindBlob && rk == value.KindBlob {
			return blobOp("+")
		}
		if lk == value.KindBlob && rk == value.KindChar {
			return mixedBlobOp("+", lk, rk)
		}
		return binaryAssign("+", lk, rk)
	case "-=", "*=", "/=", "%=", "**=", "<<=", ">>=", "&=", "|=", "^=":
		return binaryAssign(baseOp(op), lk, rk)
	}
	return nil, false
}

// baseOp strips the trailing '=' off a compound-assignment operator,
// e.g. "**=" -> "**".
func baseOp(op string) string {
	return op[:len(op)-1]
}

// binaryAssign desugars an op-assignment to its plain binary form via
// the shared same-type dispatch, falling back to the mixed-numeric
// table for Int/Float/Decimal cross cells.
func binaryAssign(op string, lk, rk value.Kind) (NativeOp, bool) {
	if lk == rk {
		if fn, ok := sameTypeOp(op, lk); ok {
			return fn, true
		}
	}
	if fn, ok := mixedNumericOp(op, lk, rk); ok {
		return fn, true
	}
	return nil, false
}
