// Package stmt implements the statement evaluator: spec.md §6's
// external "StatementEvaluator" collaborator. It runs blocks,
// declarations, loops, and function definitions, delegating every
// expression back to the injected eval.Evaluator.
package stmt

import (
	"vela/pkg/ast"
	"vela/pkg/eval"
	"vela/pkg/scope"
	"vela/pkg/value"
)

// FunctionDefiner is the minimal slice of pkg/registry.Registry that
// statement evaluation needs, kept as an interface so pkg/stmt never
// imports pkg/registry (which itself imports pkg/eval).
type FunctionDefiner interface {
	DefineFunction(name string, params []*ast.Identifier, body *ast.BlockStatement)
}

// Evaluator is the concrete eval.StatementEvaluator implementation.
type Evaluator struct {
	Definer FunctionDefiner
}

func New(definer FunctionDefiner) *Evaluator {
	return &Evaluator{Definer: definer}
}

// EvalBlock runs a block's statements in a fresh scope height,
// restoring the scope to its entry height on every exit path — normal
// completion, an error, or a control signal (spec.md §8 property 1).
func (e *Evaluator) EvalBlock(block *ast.BlockStatement, sc *scope.Scope, ev *eval.Evaluator, ctx *eval.Context) (value.DynVal, error) {
	height := sc.Len()
	defer sc.PopTo(height)

	var result value.DynVal = value.NewUnit()
	for _, s := range block.Statements {
		v, err := e.evalStatement(s, sc, ev, ctx)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (e *Evaluator) evalStatement(s ast.Statement, sc *scope.Scope, ev *eval.Evaluator, ctx *eval.Context) (value.DynVal, error) {
	switch n := s.(type) {
	case *ast.LetStatement:
		return e.evalLet(n, sc, ev, ctx)
	case *ast.ReturnStatement:
		var v value.DynVal = value.NewUnit()
		if n.ReturnValue != nil {
			var err error
			v, err = ev.Eval(n.ReturnValue, sc, ctx)
			if err != nil {
				return nil, err
			}
		}
		return nil, eval.NewReturnSignal(v)
	case *ast.BreakStatement:
		return nil, eval.NewBreakSignal()
	case *ast.ContinueStatement:
		return nil, eval.NewContinueSignal()
	case *ast.WhileStatement:
		return e.evalWhile(n, sc, ev, ctx)
	case *ast.LoopStatement:
		return e.evalLoop(n, sc, ev, ctx)
	case *ast.ForStatement:
		return e.evalFor(n, sc, ev, ctx)
	case *ast.FunctionStatement:
		if e.Definer != nil {
			e.Definer.DefineFunction(n.Name.Value, n.Parameters, n.Body)
		}
		return value.NewUnit(), nil
	case *ast.ImportStatement:
		// Module resolution happens through eval.ModuleStore at the
		// point of use (`mod::member`); the statement itself is a no-op
		// marker once the registry already knows the module.
		return value.NewUnit(), nil
	case *ast.ExpressionStatement:
		return ev.Eval(n.Expression, sc, ctx)
	case *ast.BlockStatement:
		return e.EvalBlock(n, sc, ev, ctx)
	default:
		return nil, &eval.EvalError{Kind: "Runtime", Message: "unhandled statement node"}
	}
}

func (e *Evaluator) evalLet(n *ast.LetStatement, sc *scope.Scope, ev *eval.Evaluator, ctx *eval.Context) (value.DynVal, error) {
	v, err := ev.Eval(n.Value, sc, ctx)
	if err != nil {
		return nil, err
	}
	sc.Push(n.Name.Value, v, n.Const)
	return value.NewUnit(), nil
}

func (e *Evaluator) evalWhile(n *ast.WhileStatement, sc *scope.Scope, ev *eval.Evaluator, ctx *eval.Context) (value.DynVal, error) {
	for {
		cond, err := ev.Eval(n.Condition, sc, ctx)
		if err != nil {
			return nil, err
		}
		b, mismatch := value.AsBool(cond)
		if mismatch != "" {
			return nil, &eval.EvalError{Kind: "RuntimeArithmetic", Message: "while condition must be Bool, got " + mismatch}
		}
		if !b {
			break
		}
		_, err = e.EvalBlock(n.Body, sc, ev, ctx)
		if err != nil {
			if eval.IsBreak(err) {
				break
			}
			if eval.IsContinue(err) {
				continue
			}
			return nil, err
		}
	}
	return value.NewUnit(), nil
}

func (e *Evaluator) evalLoop(n *ast.LoopStatement, sc *scope.Scope, ev *eval.Evaluator, ctx *eval.Context) (value.DynVal, error) {
	for {
		_, err := e.EvalBlock(n.Body, sc, ev, ctx)
		if err != nil {
			if eval.IsBreak(err) {
				break
			}
			if eval.IsContinue(err) {
				continue
			}
			return nil, err
		}
	}
	return value.NewUnit(), nil
}

func (e *Evaluator) evalFor(n *ast.ForStatement, sc *scope.Scope, ev *eval.Evaluator, ctx *eval.Context) (value.DynVal, error) {
	iterable, err := ev.Eval(n.Iterable, sc, ctx)
	if err != nil {
		return nil, err
	}

	items, err := iterate(iterable)
	if err != nil {
		return nil, err
	}

	height := sc.Len()
	idx := sc.Push(n.Variable.Value, value.NewUnit(), false)
	defer sc.PopTo(height)

	for _, item := range items {
		sc.SetRaw(idx, item)
		_, err := e.EvalBlock(n.Body, sc, ev, ctx)
		if err != nil {
			if eval.IsBreak(err) {
				break
			}
			if eval.IsContinue(err) {
				continue
			}
			return nil, err
		}
	}
	return value.NewUnit(), nil
}

func iterate(v value.DynVal) ([]value.DynVal, error) {
	switch base := value.Unwrap(v).(type) {
	case *value.ArrayVal:
		return base.Elements, nil
	case *value.RangeVal:
		var items []value.DynVal
		if base.Inclusive {
			for i := base.Start; i <= base.End; i++ {
				items = append(items, value.NewInt(i))
			}
		} else {
			for i := base.Start; i < base.End; i++ {
				items = append(items, value.NewInt(i))
			}
		}
		return items, nil
	case *value.StringVal:
		var items []value.DynVal
		for _, r := range base.V {
			items = append(items, value.NewChar(r))
		}
		return items, nil
	case *value.MapVal:
		var items []value.DynVal
		for _, ent := range base.Entries() {
			items = append(items, value.NewString(ent.Key))
		}
		return items, nil
	default:
		return nil, &eval.EvalError{Kind: "Runtime", Message: value.TypeName(v) + " is not iterable"}
	}
}
