package rule

import (
	"gverify/internal/state"
	"gverify/internal/syntax"
	"gverify/internal/tree"
)

// AssignFor is the update writing rhs to loc. A field write stores into
// the heap of the field's type.
func AssignFor(loc syntax.Location, rhs syntax.Term) syntax.ElementaryUpdate {
	switch v := loc.(type) {
	case syntax.ProgVar:
		return syntax.ElementaryUpdate{Lhs: v, Value: rhs}
	case syntax.Field:
		heap := syntax.HeapVar(v.Type)
		return syntax.ElementaryUpdate{Lhs: heap, Value: syntax.Store(heap, v, rhs)}
	}
	panic(syntax.NewInternalError("cannot assign to %T", loc))
}

// DivByZeroNodes emits, for every division in exprs, a leaf proving its
// divisor is not zero in the current state.
func DivByZeroNodes(input *state.SymbolicState, exprs ...syntax.Expr) ([]tree.Node, error) {
	res := make([]tree.Node, 0)
	for _, e := range exprs {
		guards, err := syntax.DivisionGuards(e)
		if err != nil {
			return nil, err
		}
		for _, g := range guards {
			res = append(res, tree.NewLogicNode(
				input.Condition,
				syntax.Under(input.Update, g),
				tree.Info(tree.InfoDivByZero, e.PrettyPrint(), tree.Obligation{Name: "Division by zero", Formula: g}),
			))
		}
	}
	return res, nil
}

// BranchBody runs s, closes its scope and continues with rest.
func BranchBody(s, rest syntax.Stmt) syntax.Stmt {
	return syntax.AppendStmt(s, syntax.SeqStmt{First: syntax.ScopeMarker{}, Second: rest})
}

// Anonymize returns an update giving every location body may write a
// fresh value. A synchronous call in body may write every heap.
func Anonymize(body syntax.Stmt, env *Env) syntax.Update {
	var (
		seen = make(map[string]struct{})
		res  = syntax.Update(syntax.EmptyUpdate{})
	)
	havoc := func(pv syntax.ProgVar) {
		if _, ok := seen[pv.Name]; ok {
			return
		}
		seen[pv.Name] = struct{}{}
		res = syntax.Chain(res, syntax.ElementaryUpdate{Lhs: pv, Value: env.Session.FreshWildcard(pv.Type)})
	}
	havocLoc := func(loc syntax.Location) {
		switch v := loc.(type) {
		case syntax.ProgVar:
			havoc(v)
		case syntax.Field:
			havoc(syntax.HeapVar(v.Type))
		}
	}
	for _, node := range syntax.Collect(isWrite, body) {
		switch v := node.(type) {
		case syntax.AssignStmt:
			havocLoc(v.Lhs)
		case syntax.AllocateStmt:
			havocLoc(v.Lhs)
		case syntax.CallStmt:
			havocLoc(v.Lhs)
		case syntax.GetStmt:
			havocLoc(v.Lhs)
		case syntax.SyncCallStmt:
			havocLoc(v.Lhs)
			for _, t := range env.Heaps {
				havoc(syntax.HeapVar(t))
			}
		}
	}
	return res
}

func isWrite(a syntax.Anything) bool {
	switch a.(type) {
	case syntax.AssignStmt, syntax.AllocateStmt, syntax.CallStmt, syntax.GetStmt, syntax.SyncCallStmt:
		return true
	}
	return false
}

// Feasible reports whether f may hold, asking the prover whether f
// implies false.
func Feasible(env *Env, f syntax.Formula) (bool, error) {
	infeasible, err := env.Prover.Prove(env.Ctx, f, syntax.False{})
	if err != nil {
		return false, err
	}
	return !infeasible, nil
}
