package eval

import (
	"vela/pkg/ast"
	"vela/pkg/operators"
	"vela/pkg/scope"
	"vela/pkg/value"
)

// evalAssign handles `=` and the op-assignment forms against an
// identifier, index expression, or dotted field (spec.md §4.4's
// op-assignment table).
func (ev *Evaluator) evalAssign(n *ast.AssignExpression, sc *scope.Scope, ctx *Context) (value.DynVal, error) {
	rhs, err := ev.Eval(n.Value, sc, ctx)
	if err != nil {
		return nil, err
	}

	switch target := n.Target.(type) {
	case *ast.Identifier:
		return ev.assignIdentifier(n, target, sc, ctx, rhs)
	case *ast.IndexExpression:
		return ev.assignIndex(n, target, sc, ctx, rhs)
	case *ast.DotExpression:
		return ev.assignDot(n, target, sc, ctx, rhs)
	default:
		return nil, newError("Runtime", n, "invalid assignment target")
	}
}

func (ev *Evaluator) assignIdentifier(n *ast.AssignExpression, target *ast.Identifier, sc *scope.Scope, ctx *Context, rhs value.DynVal) (value.DynVal, error) {
	idx, ok := sc.GetIndex(target.Value)
	if !ok {
		return nil, newError("VariableNotFound", n, "variable %q not found", target.Value)
	}
	final := rhs
	if n.Operator != "=" {
		current := sc.Get(idx)
		combined, err := combineForAssign(n, n.Operator, current, rhs)
		if err != nil {
			return nil, err
		}
		final = combined
	}
	if err := sc.Set(idx, final); err != nil {
		return nil, newError("AssignmentToConstant", n, "%s", err.Error())
	}
	return final, nil
}

func (ev *Evaluator) assignIndex(n *ast.AssignExpression, target *ast.IndexExpression, sc *scope.Scope, ctx *Context, rhs value.DynVal) (value.DynVal, error) {
	base, err := ev.Eval(target.Left, sc, ctx)
	if err != nil {
		return nil, err
	}
	idx, err := ev.Eval(target.Index, sc, ctx)
	if err != nil {
		return nil, err
	}
	final := rhs
	if n.Operator != "=" {
		current, err := indexInto(n, base, idx)
		if err != nil {
			return nil, err
		}
		combined, err := combineForAssign(n, n.Operator, current, rhs)
		if err != nil {
			return nil, err
		}
		final = combined
	}
	if err := storeIndex(n, base, idx, final); err != nil {
		return nil, err
	}
	return final, nil
}

func storeIndex(n ast.Node, base, idx, val value.DynVal) error {
	switch b := value.Unwrap(base).(type) {
	case *value.ArrayVal:
		if b.IsReadOnly() {
			return newError("Runtime", n, "cannot assign into a read-only array")
		}
		i, mismatch := value.AsInt(idx)
		if mismatch != "" {
			return newError("RuntimeArithmetic", n, "array index must be Int, got %s", mismatch)
		}
		if i < 0 || int(i) >= len(b.Elements) {
			return newError("ArrayBounds", n, "array index %d out of bounds (len %d)", i, len(b.Elements))
		}
		b.Elements[i] = val
		return nil
	case *value.MapVal:
		if b.IsReadOnly() {
			return newError("Runtime", n, "cannot assign into a read-only map")
		}
		key, mismatch := value.AsString(idx)
		if mismatch != "" {
			return newError("RuntimeArithmetic", n, "map index must be String, got %s", mismatch)
		}
		b.Set(key, val)
		return nil
	case *value.BlobVal:
		if b.IsReadOnly() {
			return newError("Runtime", n, "cannot assign into a read-only blob")
		}
		i, mismatch := value.AsInt(idx)
		if mismatch != "" {
			return newError("RuntimeArithmetic", n, "blob index must be Int, got %s", mismatch)
		}
		bv, mismatch := value.AsInt(val)
		if mismatch != "" {
			return newError("RuntimeArithmetic", n, "blob element must be Int, got %s", mismatch)
		}
		if i < 0 || int(i) >= len(b.Bytes) {
			return newError("ArrayBounds", n, "blob index %d out of bounds (len %d)", i, len(b.Bytes))
		}
		b.Bytes[i] = byte(bv)
		return nil
	default:
		return newError("Runtime", n, "%s does not support index assignment", value.TypeName(base))
	}
}

func (ev *Evaluator) assignDot(n *ast.AssignExpression, target *ast.DotExpression, sc *scope.Scope, ctx *Context, rhs value.DynVal) (value.DynVal, error) {
	base, err := ev.Eval(target.Left, sc, ctx)
	if err != nil {
		return nil, err
	}
	m, ok := value.Unwrap(base).(*value.MapVal)
	if !ok {
		return nil, newError("Runtime", n, "cannot assign field %q on %s", target.Field, value.TypeName(base))
	}
	if m.IsReadOnly() {
		return nil, newError("Runtime", n, "cannot assign into a read-only map")
	}
	final := rhs
	if n.Operator != "=" {
		current, ok := m.Get(target.Field)
		if !ok {
			current = value.NewUnit()
		}
		combined, err := combineForAssign(n, n.Operator, current, rhs)
		if err != nil {
			return nil, err
		}
		final = combined
	}
	m.Set(target.Field, final)
	return final, nil
}

func combineForAssign(n ast.Node, op string, current, rhs value.DynVal) (value.DynVal, error) {
	fn, ok := operators.DispatchAssign(op, current.Kind(), rhs.Kind())
	if !ok {
		return nil, newError("FunctionNotFound", n, "op-assignment %q is not defined for %s and %s",
			op, value.TypeName(current), value.TypeName(rhs))
	}
	out, err := fn(current, rhs)
	if err != nil {
		return nil, wrapOperatorError(n, err)
	}
	return out, nil
}
