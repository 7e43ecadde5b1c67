package prob

import (
	"gverify/internal/rule"
	"gverify/internal/state"
	"gverify/internal/syntax"
	"gverify/internal/tree"

	"github.com/pkg/errors"
)

// Rules is the rule set for probabilistic proofs of a main block, in
// priority order. Sequencing, scope and assignment rules are shared with
// the post/invariant calculus.
func Rules() []rule.Rule {
	return []rule.Rule{
		NewSkip(),
		rule.NewSkipComposition(),
		rule.NewScopeSkip(),
		rule.NewLocAssign(),
		NewIf(),
		NewDemonicIf(),
		NewProbIf(),
		NewWhile(),
	}
}

func specOf(cond *rule.MatchCondition) ProbSpec {
	spec, ok := cond.Target(rule.Target).(ProbSpec)
	if !ok {
		panic(syntax.NewInternalError("probabilistic rule applied to %s", cond.Target(rule.Target).DeductKind()))
	}
	return spec
}

func exprVar(name string) syntax.ExprAbstractVar { return syntax.ExprAbstractVar{Name: name} }
func stmtVar(name string) syntax.StmtAbstractVar { return syntax.StmtAbstractVar{Name: name} }

// skip closes a path with a static node. If the postcondition is decided
// on the path, the path's probability variable is fixed to 1 or 0.
type skip struct{ rule.Base }

func NewSkip() rule.Rule {
	return &skip{rule.NewBase("PDLSkip", rule.EndPattern(syntax.SkipStmt{}))}
}

func (r *skip) Transform(cond *rule.MatchCondition, input *state.SymbolicState, env *rule.Env) ([]tree.Node, error) {
	spec := specOf(cond)
	post := syntax.Under(input.Update, spec.Post)
	eqs := spec.Equations

	holds, err := env.Prover.Prove(env.Ctx, input.Condition, post)
	if err != nil {
		return nil, errors.Wrap(err, "decide postcondition")
	}
	if holds {
		eqs = spec.With(spec.Post, spec.Prob, SetEquation{Head: spec.Prob, Value: one}).Equations
	} else {
		fails, err := env.Prover.Prove(env.Ctx, input.Condition, syntax.Neg(post))
		if err != nil {
			return nil, errors.Wrap(err, "decide negated postcondition")
		}
		if fails {
			eqs = spec.With(spec.Post, spec.Prob, SetEquation{Head: spec.Prob, Value: zero}).Equations
		}
	}
	return []tree.Node{tree.NewStaticNode(eqs, tree.Info(tree.InfoSkipEnd, spec.Prob.Name))}, nil
}

// ifRule splits on a deterministic guard. Both branches keep the
// probability variable; infeasible branches are pruned.
type ifRule struct{ rule.Base }

func NewIf() rule.Rule {
	return &ifRule{rule.NewBase("PDLIf", rule.SeqPattern(syntax.IfStmt{Guard: exprVar("GUARD"), Then: stmtVar("THEN"), Else: stmtVar("ELSE")}))}
}

func (r *ifRule) Transform(cond *rule.MatchCondition, input *state.SymbolicState, env *rule.Env) ([]tree.Node, error) {
	var (
		spec      = specOf(cond)
		guardExpr = cond.Expr("GUARD")
		rest      = cond.Stmt(rule.Cont)
	)
	guard, err := syntax.ExprToForm(guardExpr)
	if err != nil {
		return nil, err
	}
	var (
		guardYes = syntax.Under(input.Update, guard)
		guardNo  = syntax.Under(input.Update, syntax.Neg(guard))
	)
	thenOK, err := rule.Feasible(env, syntax.Conj(input.Condition, guardYes))
	if err != nil {
		return nil, errors.Wrap(err, "prune then branch")
	}
	elseOK, err := rule.Feasible(env, syntax.Conj(input.Condition, guardNo))
	if err != nil {
		return nil, errors.Wrap(err, "prune else branch")
	}

	res := make([]tree.Node, 0, 2)
	if thenOK {
		res = append(res, tree.NewSymbolicNode(
			input.Branch(guardYes, rule.BranchBody(cond.Stmt("THEN"), rest)),
			tree.Info(tree.InfoIfThen, guardExpr.PrettyPrint()),
		))
	}
	if elseOK {
		res = append(res, tree.NewSymbolicNode(
			input.Branch(guardNo, rule.BranchBody(cond.Stmt("ELSE"), rest)),
			tree.Info(tree.InfoIfElse, guardExpr.PrettyPrint()),
		))
	}
	if len(res) == 0 {
		res = append(res, tree.NewStaticNode(spec.Equations, tree.Info(tree.InfoIfThen, "unreachable")))
	}
	zeros, err := rule.DivByZeroNodes(input, guardExpr)
	if err != nil {
		return nil, err
	}
	return append(res, zeros...), nil
}

// demonicIf gives each branch its own variable; the adversary picks the
// smaller one.
type demonicIf struct{ rule.Base }

func NewDemonicIf() rule.Rule {
	return &demonicIf{rule.NewBase("PDLDemonicIf", rule.SeqPattern(syntax.DemonicIfStmt{Then: stmtVar("THEN"), Else: stmtVar("ELSE")}))}
}

func (r *demonicIf) Transform(cond *rule.MatchCondition, input *state.SymbolicState, env *rule.Env) ([]tree.Node, error) {
	var (
		spec = specOf(cond)
		rest = cond.Stmt(rule.Cont)
		p1   = env.Session.FreshProbVar()
		p2   = env.Session.FreshProbVar()
		pick = MinEquation{Head: spec.Prob, Left: p1, Right: p2}
	)
	return []tree.Node{
		tree.NewSymbolicNode(
			input.Retarget(rule.BranchBody(cond.Stmt("THEN"), rest), spec.With(spec.Post, p1, pick)),
			tree.Info(tree.InfoDemonic, "left "+p1.Name),
		),
		tree.NewSymbolicNode(
			input.Retarget(rule.BranchBody(cond.Stmt("ELSE"), rest), spec.With(spec.Post, p2, pick)),
			tree.Info(tree.InfoDemonic, "right "+p2.Name),
		),
	}, nil
}

// probIf weighs the branch variables by the evaluated weight.
type probIf struct{ rule.Base }

func NewProbIf() rule.Rule {
	return &probIf{rule.NewBase("PDLProbIf", rule.SeqPattern(syntax.ProbIfStmt{Weight: exprVar("WEIGHT"), Then: stmtVar("THEN"), Else: stmtVar("ELSE")}))}
}

func (r *probIf) Transform(cond *rule.MatchCondition, input *state.SymbolicState, env *rule.Env) ([]tree.Node, error) {
	var (
		spec       = specOf(cond)
		rest       = cond.Stmt(rule.Cont)
		weightExpr = cond.Expr("WEIGHT")
	)
	w, err := syntax.ExprToTerm(weightExpr)
	if err != nil {
		return nil, err
	}
	var (
		p1    = env.Session.FreshProbVar()
		p2    = env.Session.FreshProbVar()
		split = SplitEquation{Head: spec.Prob, Weight: syntax.DeupdatifyTerm(syntax.UnderTerm(input.Update, w)), Left: p1, Right: p2}
	)
	zeros, err := rule.DivByZeroNodes(input, weightExpr)
	if err != nil {
		return nil, err
	}
	return append([]tree.Node{
		tree.NewSymbolicNode(
			input.Retarget(rule.BranchBody(cond.Stmt("THEN"), rest), spec.With(spec.Post, p1, split)),
			tree.Info(tree.InfoProbSplit, weightExpr.PrettyPrint()+" "+p1.Name),
		),
		tree.NewSymbolicNode(
			input.Retarget(rule.BranchBody(cond.Stmt("ELSE"), rest), spec.With(spec.Post, p2, split)),
			tree.Info(tree.InfoProbSplit, "1 - "+weightExpr.PrettyPrint()+" "+p2.Name),
		),
	}, zeros...), nil
}

// while relates the loop's probability to the invariant: pInv is the
// probability the invariant holds on entry, split by pStep/pFail over
// one iteration, and the result splits pInv over the exits.
type while struct{ rule.Base }

func NewWhile() rule.Rule {
	return &while{rule.NewBase("PDLWhile", rule.SeqPattern(syntax.WhileStmt{
		Guard:     exprVar("GUARD"),
		Body:      stmtVar("BODY"),
		ID:        syntax.PPAbstractVar{Name: "ID"},
		Invariant: syntax.FormulaAbstractVar{Name: "INV"},
	}))}
}

func (r *while) Transform(cond *rule.MatchCondition, input *state.SymbolicState, env *rule.Env) ([]tree.Node, error) {
	var (
		spec      = specOf(cond)
		guardExpr = cond.Expr("GUARD")
		body      = cond.Stmt("BODY")
		inv       = cond.Formula("INV")
	)
	if inv == nil {
		inv = spec.WhileInv
	}
	if inv == nil {
		inv = syntax.True{}
	}
	guard, err := syntax.ExprToForm(guardExpr)
	if err != nil {
		return nil, err
	}
	var (
		pUseInv  = env.Session.FreshProbVar()
		pUseOut  = env.Session.FreshProbVar()
		pStepInv = env.Session.FreshProbVar()
		pStepOut = env.Session.FreshProbVar()
		pInv     = env.Session.FreshProbVar()
		anon     = syntax.Chain(input.Update, rule.Anonymize(body, env))
	)
	loop := spec.With(spec.Post, spec.Prob, SplitEquation{Head: pInv, Weight: pInv, Left: pStepInv, Right: pStepOut})
	exit := loop.With(spec.Post, spec.Prob, SplitEquation{Head: spec.Prob, Weight: pInv, Left: pUseInv, Right: pUseOut})

	// One iteration runs outside the enclosing scopes.
	at := func(invPart, guardPart syntax.Formula, remainder syntax.Stmt, target ProbSpec, scopes *state.ScopeStack) *state.SymbolicState {
		return &state.SymbolicState{
			Condition: syntax.Conj(input.Condition, syntax.Under(anon, invPart), syntax.Under(anon, guardPart)),
			Update:    anon,
			Modality:  state.Modality{Remainder: remainder, Target: target},
			Scopes:    scopes,
		}
	}
	var (
		step = syntax.AppendStmt(body, syntax.SkipStmt{})
		use  = syntax.SeqStmt{First: syntax.ScopeMarker{}, Second: cond.Stmt(rule.Cont)}
		info = guardExpr.PrettyPrint()
	)
	zeros, err := rule.DivByZeroNodes(input, guardExpr)
	if err != nil {
		return nil, err
	}
	return append([]tree.Node{
		tree.NewSymbolicNode(
			input.Retarget(syntax.SkipStmt{}, loop.With(inv, pInv)),
			tree.Info(tree.InfoLoopInitial, info),
		),
		tree.NewSymbolicNode(
			at(inv, guard, step, loop.With(inv, pStepInv), state.NewScopeStack()),
			tree.Info(tree.InfoLoopPreserves, info),
		),
		tree.NewSymbolicNode(
			at(syntax.Neg(inv), guard, step, loop.With(inv, pStepOut), state.NewScopeStack()),
			tree.Info(tree.InfoLoopPreserves, "!"+info),
		),
		tree.NewSymbolicNode(
			at(inv, syntax.Neg(guard), use, exit.With(spec.Post, pUseInv), input.Scopes),
			tree.Info(tree.InfoLoopUse, info),
		),
		tree.NewSymbolicNode(
			at(syntax.Neg(inv), syntax.Neg(guard), use, exit.With(spec.Post, pUseOut), input.Scopes),
			tree.Info(tree.InfoLoopUse, "!"+info),
		),
	}, zeros...), nil
}
