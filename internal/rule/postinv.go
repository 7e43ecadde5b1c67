package rule

import (
	"gverify/internal/state"
	"gverify/internal/syntax"
	"gverify/internal/tree"

	"github.com/pkg/errors"
)

// PostInvRules is the rule set for ordinary postcondition/invariant
// proofs, in priority order.
func PostInvRules() []Rule {
	return []Rule{
		NewSkip(),
		NewSkipComposition(),
		NewScopeSkip(),
		NewLocAssign(),
		NewAllocAssign(),
		NewSyncAssign(),
		NewCallAssign(),
		NewGetAssign(),
		NewReturn(),
		NewIf(),
		NewDemonicIf(),
		NewProbIf(),
		NewWhile(),
		NewTryPush(),
		NewTryPop(),
		NewThrow(),
	}
}

func postInvOf(cond *MatchCondition) state.PostInvSpec {
	spec, ok := cond.Target(Target).(state.PostInvSpec)
	if !ok {
		panic(syntax.NewInternalError("post/invariant rule applied to %s", cond.Target(Target).DeductKind()))
	}
	return spec
}

func children(nodes ...tree.Node) []tree.Node { return nodes }

// skip closes a branch: the path condition must imply the postcondition
// and the invariant in the final state.
type skip struct{ Base }

func NewSkip() Rule {
	return &skip{NewBase("Skip", EndPattern(syntax.SkipStmt{}))}
}

func (r *skip) Transform(cond *MatchCondition, input *state.SymbolicState, env *Env) ([]tree.Node, error) {
	spec := postInvOf(cond)
	goal := syntax.Conj(spec.Post, spec.Inv)
	return children(tree.NewLogicNode(
		input.Condition,
		syntax.Under(input.Update, goal),
		tree.Info(tree.InfoSkipEnd, "", tree.Obligation{Name: "Postcondition", Formula: goal}),
	)), nil
}

type skipComposition struct{ Base }

func NewSkipComposition() Rule {
	return &skipComposition{NewBase("SkipComposition", SeqPattern(syntax.SkipStmt{}))}
}

func (r *skipComposition) Transform(cond *MatchCondition, input *state.SymbolicState, env *Env) ([]tree.Node, error) {
	return children(tree.NewSymbolicNode(input.Continue(cond.Stmt(Cont)), tree.Info(tree.InfoSkip, ""))), nil
}

type scopeSkip struct{ Base }

func NewScopeSkip() Rule {
	return &scopeSkip{NewBase("ScopeSkip", SeqPattern(syntax.ScopeMarker{}))}
}

func (r *scopeSkip) Transform(cond *MatchCondition, input *state.SymbolicState, env *Env) ([]tree.Node, error) {
	return children(tree.NewSymbolicNode(input.Continue(cond.Stmt(Cont)), tree.Info(tree.InfoScopeClose, ""))), nil
}

type locAssign struct{ Base }

func NewLocAssign() Rule {
	return &locAssign{NewBase("LocAssign", SeqPattern(syntax.AssignStmt{Lhs: locVar("LHS"), Value: exprVar("EXPR")}))}
}

func (r *locAssign) Transform(cond *MatchCondition, input *state.SymbolicState, env *Env) ([]tree.Node, error) {
	var (
		lhs  = cond.Location("LHS")
		expr = cond.Expr("EXPR")
	)
	rhs, err := syntax.ExprToTerm(expr)
	if err != nil {
		return nil, err
	}
	next := tree.NewSymbolicNode(
		input.Assign(AssignFor(lhs, rhs), cond.Stmt(Cont)),
		tree.Info(tree.InfoLocAssign, lhs.PrettyPrint()+" = "+expr.PrettyPrint()),
	)
	zeros, err := DivByZeroNodes(input, expr)
	if err != nil {
		return nil, err
	}
	return append(children(next), zeros...), nil
}

type allocAssign struct{ Base }

func NewAllocAssign() Rule {
	return &allocAssign{NewBase("AllocAssign", SeqPattern(syntax.AllocateStmt{Lhs: locVar("LHS"), Value: exprVar("EXPR")}))}
}

func (r *allocAssign) Transform(cond *MatchCondition, input *state.SymbolicState, env *Env) ([]tree.Node, error) {
	lhs := cond.Location("LHS")
	alloc, ok := cond.Expr("EXPR").(syntax.NewExpr)
	if !ok {
		return nil, syntax.Unsupported("allocation", cond.Expr("EXPR"))
	}
	obj := env.Session.FreshObject(alloc.Class, alloc.Interfaces)
	return children(tree.NewSymbolicNode(
		input.Assign(AssignFor(lhs, obj), cond.Stmt(Cont)),
		tree.Info(tree.InfoObjAlloc, lhs.PrettyPrint()+" = "+obj.Name),
	)), nil
}

// syncAssign havocs every heap the callee may write and the assigned
// location.
type syncAssign struct{ Base }

func NewSyncAssign() Rule {
	return &syncAssign{NewBase("SyncCallAssign", SeqPattern(syntax.SyncCallStmt{Lhs: locVar("LHS"), Call: exprVar("CALL")}))}
}

func (r *syncAssign) Transform(cond *MatchCondition, input *state.SymbolicState, env *Env) ([]tree.Node, error) {
	lhs := cond.Location("LHS")
	call, ok := cond.Expr("CALL").(syntax.SyncCallExpr)
	if !ok {
		return nil, syntax.Unsupported("synchronous call", cond.Expr("CALL"))
	}
	upd := syntax.Update(syntax.EmptyUpdate{})
	for _, t := range env.Heaps {
		heap := syntax.HeapVar(t)
		upd = syntax.Chain(upd, syntax.ElementaryUpdate{Lhs: heap, Value: env.Session.FreshWildcard(heap.Type)})
	}
	ret := env.Session.FreshWildcard(lhs.SortOf())
	upd = syntax.Chain(upd, AssignFor(lhs, ret))
	return children(tree.NewSymbolicNode(
		input.Assign(upd, cond.Stmt(Cont)),
		tree.Info(tree.InfoSyncCallAssign, lhs.PrettyPrint()+" = "+call.PrettyPrint()),
	)), nil
}

type callAssign struct{ Base }

func NewCallAssign() Rule {
	return &callAssign{NewBase("CallAssign", SeqPattern(syntax.CallStmt{Lhs: locVar("LHS"), Call: exprVar("CALL")}))}
}

func (r *callAssign) Transform(cond *MatchCondition, input *state.SymbolicState, env *Env) ([]tree.Node, error) {
	lhs := cond.Location("LHS")
	call, ok := cond.Expr("CALL").(syntax.CallExpr)
	if !ok {
		return nil, syntax.Unsupported("asynchronous call", cond.Expr("CALL"))
	}
	fut := env.Session.FreshFuture()
	return children(tree.NewSymbolicNode(
		input.Assign(AssignFor(lhs, fut), cond.Stmt(Cont)),
		tree.Info(tree.InfoCallAssign, lhs.PrettyPrint()+" = "+call.PrettyPrint()+" as "+fut.Name),
	)), nil
}

// getAssign reads a future through the uninterpreted valueOf function of
// the assigned type.
type getAssign struct{ Base }

func NewGetAssign() Rule {
	return &getAssign{NewBase("GetAssign", SeqPattern(syntax.GetStmt{Lhs: locVar("LHS"), Future: exprVar("EXPR")}))}
}

func (r *getAssign) Transform(cond *MatchCondition, input *state.SymbolicState, env *Env) ([]tree.Node, error) {
	var (
		lhs = cond.Location("LHS")
		fut = cond.Expr("EXPR")
	)
	futTerm, err := syntax.ExprToTerm(fut)
	if err != nil {
		return nil, err
	}
	value := ValueOf(lhs.SortOf(), futTerm)
	return children(tree.NewSymbolicNode(
		input.Assign(AssignFor(lhs, value), cond.Stmt(Cont)),
		tree.Info(tree.InfoGetAssign, lhs.PrettyPrint()+" = "+fut.PrettyPrint()+".get"),
	)), nil
}

// ValueOf is the value a future of t resolves to.
func ValueOf(t syntax.Type, fut syntax.Term) syntax.Function {
	return syntax.Function{Name: ValueOfPrefix + t.SMTName(), Params: []syntax.Term{fut}}
}

const ValueOfPrefix = "valueOf_"

type returnRule struct{ Base }

func NewReturn() Rule {
	return &returnRule{NewBase("Return", SeqPattern(syntax.ReturnStmt{Value: exprVar("RET")}))}
}

func (r *returnRule) Transform(cond *MatchCondition, input *state.SymbolicState, env *Env) ([]tree.Node, error) {
	var (
		spec = postInvOf(cond)
		expr = cond.Expr("RET")
	)
	ret, err := syntax.ExprToTerm(expr)
	if err != nil {
		return nil, err
	}
	post := syntax.SubstFormula(spec.Post, map[string]syntax.Term{"result": ret})
	goal := syntax.Conj(post, spec.Inv)
	leaf := tree.NewLogicNode(
		input.Condition,
		syntax.Under(input.Update, goal),
		tree.Info(tree.InfoReturn, expr.PrettyPrint(),
			tree.Obligation{Name: "Method postcondition", Formula: spec.Post},
			tree.Obligation{Name: "Object invariant", Formula: spec.Inv}),
	)
	zeros, err := DivByZeroNodes(input, expr)
	if err != nil {
		return nil, err
	}
	return append(children(leaf), zeros...), nil
}

// ifRule splits on the guard. A branch whose condition is unsatisfiable
// is pruned; if both are, the path condition itself is contradictory.
type ifRule struct{ Base }

func NewIf() Rule {
	return &ifRule{NewBase("If", SeqPattern(syntax.IfStmt{Guard: exprVar("GUARD"), Then: stmtVar("THEN"), Else: stmtVar("ELSE")}))}
}

func (r *ifRule) Transform(cond *MatchCondition, input *state.SymbolicState, env *Env) ([]tree.Node, error) {
	var (
		guardExpr = cond.Expr("GUARD")
		rest      = cond.Stmt(Cont)
	)
	guard, err := syntax.ExprToForm(guardExpr)
	if err != nil {
		return nil, err
	}
	var (
		guardYes = syntax.Under(input.Update, guard)
		guardNo  = syntax.Under(input.Update, syntax.Neg(guard))
	)
	thenOK, err := Feasible(env, syntax.Conj(input.Condition, guardYes))
	if err != nil {
		return nil, errors.Wrap(err, "prune then branch")
	}
	elseOK, err := Feasible(env, syntax.Conj(input.Condition, guardNo))
	if err != nil {
		return nil, errors.Wrap(err, "prune else branch")
	}

	res := make([]tree.Node, 0, 2)
	if thenOK {
		res = append(res, tree.NewSymbolicNode(
			input.Branch(guardYes, BranchBody(cond.Stmt("THEN"), rest)),
			tree.Info(tree.InfoIfThen, guardExpr.PrettyPrint()),
		))
	}
	if elseOK {
		res = append(res, tree.NewSymbolicNode(
			input.Branch(guardNo, BranchBody(cond.Stmt("ELSE"), rest)),
			tree.Info(tree.InfoIfElse, guardExpr.PrettyPrint()),
		))
	}
	if len(res) == 0 {
		res = append(res, tree.NewLogicNode(input.Condition, syntax.False{}, tree.Info(tree.InfoIfThen, "unreachable")))
	}
	zeros, err := DivByZeroNodes(input, guardExpr)
	if err != nil {
		return nil, err
	}
	return append(res, zeros...), nil
}

// demonicIf explores both branches; which one runs is not ours to choose.
type demonicIf struct{ Base }

func NewDemonicIf() Rule {
	return &demonicIf{NewBase("DemonicIf", SeqPattern(syntax.DemonicIfStmt{Then: stmtVar("THEN"), Else: stmtVar("ELSE")}))}
}

func (r *demonicIf) Transform(cond *MatchCondition, input *state.SymbolicState, env *Env) ([]tree.Node, error) {
	rest := cond.Stmt(Cont)
	return children(
		tree.NewSymbolicNode(input.Continue(BranchBody(cond.Stmt("THEN"), rest)), tree.Info(tree.InfoDemonic, "left")),
		tree.NewSymbolicNode(input.Continue(BranchBody(cond.Stmt("ELSE"), rest)), tree.Info(tree.InfoDemonic, "right")),
	), nil
}

// probIf, for a boolean obligation, must hold on both branches whatever
// the weight.
type probIf struct{ Base }

func NewProbIf() Rule {
	return &probIf{NewBase("ProbIf", SeqPattern(syntax.ProbIfStmt{Weight: exprVar("WEIGHT"), Then: stmtVar("THEN"), Else: stmtVar("ELSE")}))}
}

func (r *probIf) Transform(cond *MatchCondition, input *state.SymbolicState, env *Env) ([]tree.Node, error) {
	var (
		rest   = cond.Stmt(Cont)
		weight = cond.Expr("WEIGHT")
	)
	zeros, err := DivByZeroNodes(input, weight)
	if err != nil {
		return nil, err
	}
	return append(children(
		tree.NewSymbolicNode(input.Continue(BranchBody(cond.Stmt("THEN"), rest)), tree.Info(tree.InfoProbSplit, weight.PrettyPrint())),
		tree.NewSymbolicNode(input.Continue(BranchBody(cond.Stmt("ELSE"), rest)), tree.Info(tree.InfoProbSplit, "1 - "+weight.PrettyPrint())),
	), zeros...), nil
}

// while proves the invariant initially, shows the body preserves it from
// an arbitrary state satisfying invariant and guard, and continues after
// the loop from an arbitrary state satisfying invariant and not guard.
type while struct{ Base }

func NewWhile() Rule {
	return &while{NewBase("While", SeqPattern(syntax.WhileStmt{
		Guard:     exprVar("GUARD"),
		Body:      stmtVar("BODY"),
		ID:        ppVar("ID"),
		Invariant: formulaVar("INV"),
	}))}
}

func (r *while) Transform(cond *MatchCondition, input *state.SymbolicState, env *Env) ([]tree.Node, error) {
	var (
		spec      = postInvOf(cond)
		guardExpr = cond.Expr("GUARD")
		body      = cond.Stmt("BODY")
		inv       = cond.Formula("INV")
	)
	if inv == nil {
		inv = syntax.True{}
	}
	guard, err := syntax.ExprToForm(guardExpr)
	if err != nil {
		return nil, err
	}
	anon := syntax.Chain(input.Update, Anonymize(body, env))

	initial := tree.NewLogicNode(
		input.Condition,
		syntax.Under(input.Update, inv),
		tree.Info(tree.InfoLoopInitial, guardExpr.PrettyPrint(), tree.Obligation{Name: "Loop invariant", Formula: inv}),
	)

	preserves := &state.SymbolicState{
		Condition: syntax.Conj(input.Condition, syntax.Under(anon, inv), syntax.Under(anon, guard)),
		Update:    anon,
		Modality: state.Modality{
			Remainder: syntax.AppendStmt(body, syntax.SkipStmt{}),
			Target:    state.PostInvSpec{Post: inv, Inv: syntax.True{}, ExceptionPost: spec.ExceptionPost},
		},
		Scopes: input.Scopes,
	}

	use := &state.SymbolicState{
		Condition: syntax.Conj(input.Condition, syntax.Under(anon, inv), syntax.Under(anon, syntax.Neg(guard))),
		Update:    anon,
		Modality:  state.Modality{Remainder: syntax.SeqStmt{First: syntax.ScopeMarker{}, Second: cond.Stmt(Cont)}, Target: spec},
		Scopes:    input.Scopes,
	}

	zeros, err := DivByZeroNodes(input, guardExpr)
	if err != nil {
		return nil, err
	}
	return append(children(
		initial,
		tree.NewSymbolicNode(preserves, tree.Info(tree.InfoLoopPreserves, guardExpr.PrettyPrint())),
		tree.NewSymbolicNode(use, tree.Info(tree.InfoLoopUse, guardExpr.PrettyPrint())),
	), zeros...), nil
}

// tryPush opens an exception scope; the body is followed by a pop.
type tryPush struct{ Base }

func NewTryPush() Rule {
	return &tryPush{NewBase("TryPush", SeqPattern(syntax.TryStmt{Body: stmtVar("BODY"), Catch: stmtVar("CATCH")}))}
}

func (r *tryPush) Transform(cond *MatchCondition, input *state.SymbolicState, env *Env) ([]tree.Node, error) {
	rest := cond.Stmt(Cont)
	scopes := input.Scopes.Push(state.ExceptionScope{Catch: cond.Stmt("CATCH"), Cont: rest, Target: input.Modality.Target})
	next := input.Continue(syntax.AppendStmt(cond.Stmt("BODY"), syntax.SeqStmt{First: syntax.TryPopStmt{}, Second: rest}))
	return children(tree.NewSymbolicNode(next.WithScopes(scopes), tree.Info(tree.InfoTry, ""))), nil
}

type tryPop struct{ Base }

func NewTryPop() Rule {
	return &tryPop{NewBase("TryPop", SeqPattern(syntax.TryPopStmt{}))}
}

func (r *tryPop) Transform(cond *MatchCondition, input *state.SymbolicState, env *Env) ([]tree.Node, error) {
	_, scopes, err := input.Scopes.Pop()
	if err != nil {
		panic(syntax.NewInternalError("try scope closed twice: %v", err))
	}
	return children(tree.NewSymbolicNode(input.Continue(cond.Stmt(Cont)).WithScopes(scopes), tree.Info(tree.InfoScopeClose, "try"))), nil
}

// throw continues in the innermost catch block, or closes the branch with
// the exceptional postcondition when no scope is open.
type throw struct{ Base }

func NewThrow() Rule {
	return &throw{NewBase("Throw", SeqPattern(syntax.ThrowStmt{Value: exprVar("EXC")}))}
}

func (r *throw) Transform(cond *MatchCondition, input *state.SymbolicState, env *Env) ([]tree.Node, error) {
	exc := cond.Expr("EXC")
	if input.Scopes.Size() > 0 {
		scope, scopes, err := input.Scopes.Pop()
		if err != nil {
			return nil, err
		}
		target := scope.Target
		if target == nil {
			target = input.Modality.Target
		}
		next := input.Retarget(syntax.AppendStmt(scope.Catch, scope.Cont), target).WithScopes(scopes)
		return children(tree.NewSymbolicNode(next, tree.Info(tree.InfoThrow, exc.PrettyPrint()))), nil
	}
	spec := postInvOf(cond)
	excPost := spec.ExceptionPost
	if excPost == nil {
		excPost = syntax.False{}
	}
	return children(tree.NewLogicNode(
		input.Condition,
		syntax.Under(input.Update, excPost),
		tree.Info(tree.InfoThrow, exc.PrettyPrint(), tree.Obligation{Name: "Exceptional postcondition", Formula: excPost}),
	)), nil
}
