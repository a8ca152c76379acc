package value

// AsInt returns the Int payload, or (0, offending type name) on
// mismatch — callers build a TypeMismatch error from the second value.
func AsInt(v DynVal) (int64, string) {
	switch u := Unwrap(v).(type) {
	case *IntVal:
		return u.V, ""
	default:
		return 0, TypeName(v)
	}
}

func AsBool(v DynVal) (bool, string) {
	switch u := Unwrap(v).(type) {
	case *BoolVal:
		return u.V, ""
	default:
		return false, TypeName(v)
	}
}

func AsChar(v DynVal) (rune, string) {
	switch u := Unwrap(v).(type) {
	case *CharVal:
		return u.V, ""
	default:
		return 0, TypeName(v)
	}
}

func AsFloat(v DynVal) (float64, string) {
	switch u := Unwrap(v).(type) {
	case *FloatVal:
		return u.V, ""
	default:
		return 0, TypeName(v)
	}
}

func AsDecimal(v DynVal) (*DecimalVal, string) {
	switch u := Unwrap(v).(type) {
	case *DecimalVal:
		return u, ""
	default:
		return nil, TypeName(v)
	}
}

func AsString(v DynVal) (string, string) {
	switch u := Unwrap(v).(type) {
	case *StringVal:
		return u.V, ""
	default:
		return "", TypeName(v)
	}
}

// IntoImmutableString coerces any DynVal into a string, used when a
// non-string expression is used to build a map key.
func IntoImmutableString(v DynVal) string {
	u := Unwrap(v)
	if s, ok := u.(*StringVal); ok {
		return s.V
	}
	return u.Inspect()
}
