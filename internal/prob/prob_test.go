package prob

import (
	"context"
	"gverify/internal/rule"
	"gverify/internal/smt"
	"gverify/internal/state"
	"gverify/internal/strategy"
	"gverify/internal/syntax"
	"gverify/internal/tree"
	"os/exec"
	"strings"
	"testing"
	"time"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var x = syntax.ProgVar{Name: "x", Type: syntax.IntType}

// fakeProver proves exactly the successors whose SMT text it was given.
// For a false successor the antecedent is looked up instead.
type fakeProver struct {
	valid map[string]bool
}

func (p *fakeProver) Prove(_ context.Context, ante, succ syntax.Formula) (bool, error) {
	if _, ok := succ.(syntax.False); ok {
		return p.valid[ante.ToSMT()], nil
	}
	return p.valid[succ.ToSMT()], nil
}

func decides(valid ...string) *fakeProver {
	p := &fakeProver{valid: make(map[string]bool)}
	for _, v := range valid {
		p.valid[v] = true
	}
	return p
}

func num(v string) syntax.ConstExpr { return syntax.ConstExpr{Value: v, Type: syntax.IntType} }

func assign(v string) syntax.Stmt { return syntax.AssignStmt{Lhs: x, Value: num(v)} }

func build(t *testing.T, body syntax.Stmt, p rule.Prover) (*tree.SymbolicNode, syntax.ProgVar) {
	env := rule.NewEnv(context.Background(), state.NewSession(), p, nil)
	prob := env.Session.FreshProbVar()
	spec := NewProbSpec(syntax.Eq(x, syntax.IntConst("1")), prob, nil)
	root := tree.NewSymbolicNode(state.NewSymbolicState(syntax.True{}, syntax.EmptyUpdate{}, state.Modality{
		Remainder: syntax.AppendStmt(syntax.Normalize(body), syntax.SkipStmt{}),
		Target:    spec,
	}), tree.Info(tree.NoInfo, ""))
	require.NoError(t, strategy.Execute(root, Rules(), env))
	require.True(t, tree.Finished(root))
	return root, prob
}

func bernoulli(w string) syntax.Stmt {
	return syntax.Seq(
		assign("0"),
		syntax.ProbIfStmt{
			Weight: syntax.ConstExpr{Value: w, Type: syntax.RealType},
			Then:   assign("1"),
			Else:   assign("0"),
		},
	)
}

func eqStrings(eqs []tree.Equation) []string {
	res := make([]string, len(eqs))
	for i := range eqs {
		res[i] = eqs[i].Formula().ToSMT()
	}
	return res
}

func Test_BernoulliEquations(t *testing.T) {
	root, prob := build(t, bernoulli("0.5"), decides("(= 1 1)", "(not (= 0 1))"))
	assert.Equal(t, "p_0", prob.Name)
	assert.Len(t, tree.StaticLeaves(root), 2)
	assert.Equal(t, []string{
		"(= p_0 (+ (* 0.5 p_1) (* (- 1.0 0.5) p_2)))",
		"(= p_1 1.0)",
		"(= p_2 0.0)",
	}, eqStrings(Equations(root)))
}

func Test_SkipLeavesUndecidedPathsOpen(t *testing.T) {
	root, _ := build(t, bernoulli("0.5"), decides())
	assert.Equal(t, []string{"(= p_0 (+ (* 0.5 p_1) (* (- 1.0 0.5) p_2)))"}, eqStrings(Equations(root)))
}

func Test_DemonicChoiceTakesMinimum(t *testing.T) {
	body := syntax.DemonicIfStmt{Then: assign("1"), Else: assign("0")}
	root, _ := build(t, body, decides("(= 1 1)", "(not (= 0 1))"))
	assert.Equal(t, []string{
		"(= p_0 (ite (<= p_1 p_2) p_1 p_2))",
		"(= p_1 1.0)",
		"(= p_2 0.0)",
	}, eqStrings(Equations(root)))
}

func Test_IfKeepsProbability(t *testing.T) {
	guard := syntax.SExpr{Op: ">", Args: []syntax.Expr{x, num("0")}}
	body := syntax.Seq(assign("1"), syntax.IfStmt{Guard: guard, Then: assign("1"), Else: assign("0")})
	root, _ := build(t, body, decides("(not (> 1 0))", "(= 1 1)"))
	assert.Equal(t, []string{"(= p_0 1.0)"}, eqStrings(Equations(root)))
}

func Test_WhileSuccessors(t *testing.T) {
	var (
		env   = rule.NewEnv(context.Background(), state.NewSession(), nil, nil)
		prob  = env.Session.FreshProbVar()
		guard = syntax.SExpr{Op: "<", Args: []syntax.Expr{x, num("10")}}
		loop  = syntax.WhileStmt{Guard: guard, Body: assign("1"), ID: syntax.PP{ID: 1}}
		spec  = NewProbSpec(syntax.Eq(x, syntax.IntConst("1")), prob, syntax.Predicate{Name: ">=", Params: []syntax.Term{x, syntax.IntConst("0")}})
	)
	st := state.NewSymbolicState(syntax.True{}, syntax.EmptyUpdate{}, state.Modality{
		Remainder: syntax.SeqStmt{First: loop, Second: syntax.SkipStmt{}},
		Target:    spec,
	})
	r, cond := rule.Find(Rules(), st)
	require.NotNil(t, r)
	assert.Equal(t, "PDLWhile", r.Name())
	kids, err := r.Transform(cond, st, env)
	require.NoError(t, err)
	require.Len(t, kids, 5)

	initial := kids[0].(*tree.SymbolicNode).State.Modality.Target.(ProbSpec)
	assert.Equal(t, "p_5", initial.Prob.Name)
	assert.Equal(t, "(>= x 0)", initial.Post.ToSMT())
	assert.Equal(t, []string{"(= p_5 (+ (* p_5 p_3) (* (- 1.0 p_5) p_4)))"}, eqStrings(initial.Equations))

	step := kids[2].(*tree.SymbolicNode).State
	assert.Equal(t, 0, step.Scopes.Size())
	assert.Equal(t, "p_4", step.Modality.Target.(ProbSpec).Prob.Name)
	assert.True(t, strings.Contains(step.Condition.ToSMT(), "(not (>= wc_6 0))"))

	use := kids[3].(*tree.SymbolicNode).State.Modality.Target.(ProbSpec)
	assert.Equal(t, "p_1", use.Prob.Name)
	assert.Equal(t, "(= p_0 (+ (* p_5 p_1) (* (- 1.0 p_5) p_2)))", use.Equations[1].Formula().ToSMT())
	assert.Len(t, spec.Equations, 0)
}

func Test_GoalBound(t *testing.T) {
	p := syntax.ProgVar{Name: "p_0", Type: syntax.RealType}
	g, err := NewGoal(p, "", syntax.RealConst("0.5"))
	require.NoError(t, err)
	assert.Equal(t, "(>= p_0 0.5)", g.Formula().ToSMT())
	_, err = NewGoal(p, "<>", syntax.RealConst("0.5"))
	assert.True(t, syntax.IsMalformed(err))
}

func Test_SystemScript(t *testing.T) {
	root, prob := build(t, bernoulli("0.5"), decides("(= 1 1)", "(not (= 0 1))"))
	goal, err := NewGoal(prob, ">=", syntax.RealConst("0.5"))
	require.NoError(t, err)
	script := NewSystem(Equations(root), goal).Script()
	assert.True(t, strings.HasPrefix(script, smt.Header))
	for _, line := range []string{
		"(declare-const p_0 Real)",
		"(declare-const p_2 Real)",
		"(assert (<= 0.0 p_1))",
		"(assert (<= p_1 1.0))",
		"(assert (= p_2 0.0))",
		"(assert (not (>= p_0 0.5)))",
	} {
		assert.Contains(t, script, line+"\n")
	}
	assert.True(t, strings.HasSuffix(script, "(check-sat)\n(exit)\n"))

	consistency := NewSystem(Equations(root), goal).ConsistencyScript()
	assert.Contains(t, consistency, "(assert (= p_2 0.0))\n")
	assert.NotContains(t, consistency, "(assert (not")
}

// liveIf branches on an unconstrained x, so both branches stay open and
// share the probability variable of the if.
func liveIf(t *testing.T) ([]tree.Equation, syntax.ProgVar) {
	guard := syntax.SExpr{Op: ">", Args: []syntax.Expr{x, num("0")}}
	body := syntax.IfStmt{Guard: guard, Then: assign("1"), Else: assign("0")}
	root, prob := build(t, body, decides("(= 1 1)", "(not (= 0 1))"))
	return Equations(root), prob
}

func Test_IfWithBothBranchesLive(t *testing.T) {
	eqs, _ := liveIf(t)
	assert.Equal(t, []string{"(= p_0 1.0)", "(= p_0 0.0)"}, eqStrings(eqs))
}

func Test_SplitWeightOverInt(t *testing.T) {
	p := func(n string) syntax.ProgVar { return syntax.ProgVar{Name: n, Type: syntax.RealType} }
	split := SplitEquation{Head: p("p_0"), Weight: x, Left: p("p_1"), Right: p("p_2")}
	assert.Equal(t, "(= p_0 (+ (* (to_real x) p_1) (* (- 1.0 (to_real x)) p_2)))", split.Formula().ToSMT())

	weighted := SplitEquation{Head: p("p_0"), Weight: p("p_3"), Left: p("p_1"), Right: p("p_2")}
	assert.Equal(t, "(= p_0 (+ (* p_3 p_1) (* (- 1.0 p_3) p_2)))", weighted.Formula().ToSMT())

	goal, err := NewGoal(p("p_0"), ">=", syntax.RealConst("0.0"))
	require.NoError(t, err)
	script := NewSystem([]tree.Equation{split}, goal).Script()
	assert.Contains(t, script, "(assert (<= 0.0 (to_real x)))\n")
	assert.Contains(t, script, "(declare-const x Int)\n")
}

func Test_YicesSolve(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	root, prob := build(t, bernoulli("0.3"), decides("(= 1 1)", "(not (= 0 1))"))
	eqs := Equations(root)
	solver := NewYicesSolver()

	exact, err := NewGoal(prob, "=", syntax.RealConst("0.3"))
	require.NoError(t, err)
	verdict, err := solver.Solve(context.Background(), eqs, exact)
	require.NoError(t, err)
	assert.Equal(t, smt.Proved, verdict)

	half, err := NewGoal(prob, ">=", syntax.RealConst("0.5"))
	require.NoError(t, err)
	verdict, err = solver.Solve(context.Background(), eqs, half)
	require.NoError(t, err)
	assert.Equal(t, smt.NotProved, verdict)
}

func Test_YicesRejectsInconsistentSystem(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	eqs, prob := liveIf(t)
	trivial, err := NewGoal(prob, ">=", syntax.RealConst("0.0"))
	require.NoError(t, err)
	verdict, err := NewYicesSolver().Solve(context.Background(), eqs, trivial)
	require.NoError(t, err)
	assert.Equal(t, smt.NotProved, verdict)

	root, prob := build(t, bernoulli("0.5"), decides("(= 1 1)", "(not (= 0 1))"))
	trivial, err = NewGoal(prob, ">=", syntax.RealConst("0.0"))
	require.NoError(t, err)
	verdict, err = NewYicesSolver().Solve(context.Background(), Equations(root), trivial)
	require.NoError(t, err)
	assert.Equal(t, smt.Proved, verdict)
}

func Test_YicesSolveIntWeight(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	p := func(n string) syntax.ProgVar { return syntax.ProgVar{Name: n, Type: syntax.RealType} }
	eqs := []tree.Equation{
		SplitEquation{Head: p("p_0"), Weight: x, Left: p("p_1"), Right: p("p_2")},
		SetEquation{Head: p("p_1"), Value: one},
		SetEquation{Head: p("p_2"), Value: one},
	}
	goal, err := NewGoal(p("p_0"), "=", one)
	require.NoError(t, err)
	verdict, err := NewYicesSolver().Solve(context.Background(), eqs, goal)
	require.NoError(t, err)
	assert.Equal(t, smt.Proved, verdict)
}

func Test_ScriptSolverRejectsInconsistentSystem(t *testing.T) {
	path, err := exec.LookPath("z3")
	if err != nil {
		t.Skip("z3 not installed")
	}
	solver := NewScriptSolver(smt.NewRunner(path, nil, 10*time.Second, t.TempDir()))

	eqs, prob := liveIf(t)
	trivial, err := NewGoal(prob, ">=", syntax.RealConst("0.0"))
	require.NoError(t, err)
	verdict, err := solver.Solve(context.Background(), eqs, trivial)
	require.NoError(t, err)
	assert.Equal(t, smt.NotProved, verdict)

	root, prob := build(t, bernoulli("0.3"), decides("(= 1 1)", "(not (= 0 1))"))
	exact, err := NewGoal(prob, "=", syntax.RealConst("0.3"))
	require.NoError(t, err)
	verdict, err = solver.Solve(context.Background(), Equations(root), exact)
	require.NoError(t, err)
	assert.Equal(t, smt.Proved, verdict)
}

func Test_YicesSolveDemonic(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	body := syntax.DemonicIfStmt{Then: assign("1"), Else: assign("0")}
	root, prob := build(t, body, decides("(= 1 1)", "(not (= 0 1))"))
	goal, err := NewGoal(prob, "<=", syntax.RealConst("0.0"))
	require.NoError(t, err)
	verdict, err := NewYicesSolver().Solve(context.Background(), Equations(root), goal)
	require.NoError(t, err)
	assert.Equal(t, smt.Proved, verdict)
}
