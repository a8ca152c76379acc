package stmt

import (
	"strings"

	"vela/pkg/ast"
	"vela/pkg/eval"
	"vela/pkg/scope"
	"vela/pkg/value"
)

// WalkDot implements eval.ChainWalker: `.field` map access and a small
// set of builtin methods on Array/String/Blob/Map, the equivalent of
// the teacher's method-dispatch-on-object-kind switch generalized to
// vela's DynVal kinds.
func (e *Evaluator) WalkDot(base value.DynVal, field string, call *ast.CallExpression, ev *eval.Evaluator, sc *scope.Scope, ctx *eval.Context) (value.DynVal, error) {
	var args []value.DynVal
	if call != nil {
		for _, a := range call.Arguments {
			v, err := ev.Eval(a, sc, ctx)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
	}

	if call == nil {
		if m, ok := value.Unwrap(base).(*value.MapVal); ok {
			if v, ok := m.Get(field); ok {
				return v, nil
			}
			return value.NewUnit(), nil
		}
		return nil, &eval.EvalError{Kind: "Runtime", Message: field + " is not a field of " + value.TypeName(base)}
	}

	switch b := value.Unwrap(base).(type) {
	case *value.ArrayVal:
		return arrayMethod(b, field, args)
	case *value.StringVal:
		return stringMethod(b, field, args)
	case *value.BlobVal:
		return blobMethod(b, field, args)
	case *value.MapVal:
		return mapMethod(b, field, args)
	default:
		return nil, &eval.EvalError{Kind: "FunctionNotFound", Message: field + " is not a method of " + value.TypeName(base)}
	}
}

func arrayMethod(a *value.ArrayVal, name string, args []value.DynVal) (value.DynVal, error) {
	switch name {
	case "len":
		return value.NewInt(int64(len(a.Elements))), nil
	case "push":
		if a.IsReadOnly() {
			return nil, &eval.EvalError{Kind: "Runtime", Message: "cannot push into a read-only array"}
		}
		a.Elements = append(a.Elements, args...)
		return value.NewUnit(), nil
	case "pop":
		if a.IsReadOnly() {
			return nil, &eval.EvalError{Kind: "Runtime", Message: "cannot pop from a read-only array"}
		}
		if len(a.Elements) == 0 {
			return value.NewUnit(), nil
		}
		last := a.Elements[len(a.Elements)-1]
		a.Elements = a.Elements[:len(a.Elements)-1]
		return last, nil
	case "contains":
		if len(args) != 1 {
			return nil, &eval.EvalError{Kind: "Runtime", Message: "contains expects 1 argument"}
		}
		for _, e := range a.Elements {
			if valuesEqual(e, args[0]) {
				return value.NewBool(true), nil
			}
		}
		return value.NewBool(false), nil
	case "clear":
		if a.IsReadOnly() {
			return nil, &eval.EvalError{Kind: "Runtime", Message: "cannot clear a read-only array"}
		}
		a.Elements = nil
		return value.NewUnit(), nil
	default:
		return nil, &eval.EvalError{Kind: "FunctionNotFound", Message: "Array has no method " + name}
	}
}

func stringMethod(s *value.StringVal, name string, args []value.DynVal) (value.DynVal, error) {
	switch name {
	case "len":
		return value.NewInt(int64(len([]rune(s.V)))), nil
	case "to_upper":
		return value.NewString(strings.ToUpper(s.V)), nil
	case "to_lower":
		return value.NewString(strings.ToLower(s.V)), nil
	case "trim":
		return value.NewString(strings.TrimSpace(s.V)), nil
	case "split":
		sep := ""
		if len(args) == 1 {
			sep, _ = value.AsString(args[0])
		}
		parts := strings.Split(s.V, sep)
		out := make([]value.DynVal, len(parts))
		for i, p := range parts {
			out[i] = value.NewString(p)
		}
		return value.NewArray(out), nil
	case "contains":
		if len(args) != 1 {
			return nil, &eval.EvalError{Kind: "Runtime", Message: "contains expects 1 argument"}
		}
		sub, _ := value.AsString(args[0])
		return value.NewBool(strings.Contains(s.V, sub)), nil
	default:
		return nil, &eval.EvalError{Kind: "FunctionNotFound", Message: "String has no method " + name}
	}
}

func blobMethod(b *value.BlobVal, name string, args []value.DynVal) (value.DynVal, error) {
	switch name {
	case "len":
		return value.NewInt(int64(len(b.Bytes))), nil
	default:
		return nil, &eval.EvalError{Kind: "FunctionNotFound", Message: "Blob has no method " + name}
	}
}

func mapMethod(m *value.MapVal, name string, args []value.DynVal) (value.DynVal, error) {
	switch name {
	case "len":
		return value.NewInt(int64(m.Len())), nil
	case "contains":
		if len(args) != 1 {
			return nil, &eval.EvalError{Kind: "Runtime", Message: "contains expects 1 argument"}
		}
		key, _ := value.AsString(args[0])
		return value.NewBool(m.Contains(key)), nil
	case "keys":
		var out []value.DynVal
		for _, e := range m.Entries() {
			out = append(out, value.NewString(e.Key))
		}
		return value.NewArray(out), nil
	default:
		return nil, &eval.EvalError{Kind: "FunctionNotFound", Message: "Map has no method " + name}
	}
}

func valuesEqual(a, b value.DynVal) bool {
	return a.Kind() == b.Kind() && a.Inspect() == b.Inspect()
}
