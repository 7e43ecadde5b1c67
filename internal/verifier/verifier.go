// Package verifier 验证流程: 构建证明树, 并发求解逻辑叶子, 概率方程求解
package verifier

import (
	"context"
	"fmt"
	"gverify/internal/config"
	"gverify/internal/deduct"
	"gverify/internal/issue"
	"gverify/internal/model"
	"gverify/internal/prob"
	"gverify/internal/rule"
	"gverify/internal/smt"
	"gverify/internal/state"
	"gverify/internal/strategy"
	"gverify/internal/syntax"
	"gverify/internal/tree"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Discharger decides closed obligations. Rules also use it to prune
// infeasible branches while the tree is built.
type Discharger interface {
	rule.Prover
	Discharge(ctx context.Context, ante, succ syntax.Formula) (smt.Verdict, error)
}

type Verifier struct {
	cfg       *config.Config
	variant   deduct.Variant
	session   *state.Session
	discharge func(repo *model.Repository) Discharger
	equations prob.EquationSolver
}

func New(cfg *config.Config, variant deduct.Variant) *Verifier {
	v := &Verifier{
		cfg:     cfg,
		variant: variant,
		session: state.NewSession(),
	}
	runner := smt.NewRunner(cfg.SolverPath, cfg.SolverArgs, cfg.Timeout, cfg.TmpDir)
	v.discharge = func(repo *model.Repository) Discharger {
		encoder := smt.NewEncoder(repo)
		encoder.ModelCmd = cfg.ModelCmd
		encoder.ConciseProofs = cfg.ConciseProofs
		return smt.NewDischarger(encoder, runner)
	}
	if cfg.EquationBackend == config.BackendYices {
		v.equations = prob.NewYicesSolver()
	} else {
		v.equations = prob.NewScriptSolver(runner)
	}
	return v
}

// Unit is one proof obligation of a model: a class initializer, a method
// or the main block.
type Unit struct {
	Name  string
	build func(c deduct.Capability) (*tree.SymbolicNode, error)
}

func Units(m *model.Model) []Unit {
	res := make([]Unit, 0)
	for _, c := range m.Classes {
		c := c
		res = append(res, Unit{
			Name:  c.Name + ".<init>",
			build: func(cp deduct.Capability) (*tree.SymbolicNode, error) { return cp.ExtractInitialNode(c) },
		})
		for _, meth := range c.Methods {
			name := meth.Name
			res = append(res, Unit{
				Name:  c.Name + "." + name,
				build: func(cp deduct.Capability) (*tree.SymbolicNode, error) { return cp.ExtractMethodNode(c, name) },
			})
		}
	}
	if m.Main != nil {
		res = append(res, Unit{
			Name:  "main",
			build: func(cp deduct.Capability) (*tree.SymbolicNode, error) { return cp.ExtractMainNode(m) },
		})
	}
	return res
}

func selected(units []Unit, only []string) []Unit {
	if len(only) == 0 {
		return units
	}
	res := make([]Unit, 0)
	for _, u := range units {
		for _, name := range only {
			if u.Name == name {
				res = append(res, u)
				break
			}
		}
	}
	return res
}

// Build expands the proof tree of one unit. The session is reset first, so
// fresh names restart at zero for every unit.
func (v *Verifier) Build(ctx context.Context, repo *model.Repository, u Unit, prover rule.Prover) (*tree.SymbolicNode, error) {
	v.session.Reset()
	capability := deduct.For(v.variant, v.session)
	root, err := u.build(capability)
	if err != nil {
		return nil, err
	}
	env := rule.NewEnv(ctx, v.session, prover, repo.HeapTypes())
	executor := strategy.NewExecutor(capability.BuildRuleSet(), env)
	if err := executor.Execute(root); err != nil {
		return nil, errors.Wrapf(err, "execute %s", u.Name)
	}
	log.Debugf("unit %s: %d rule applications\n%s", u.Name, executor.Steps(), tree.DebugString(root))
	return root, nil
}

// Run verifies the units of repo named in only, or all of them. Solver
// protocol errors abort the run; with FailFast so does the first unit that
// does not close. Results gathered so far are returned either way.
func (v *Verifier) Run(ctx context.Context, repo *model.Repository, only ...string) ([]*issue.Result, error) {
	m := repo.Model()
	units := selected(Units(m), only)
	if len(units) == 0 {
		return nil, fmt.Errorf("no unit to verify in %s", m.Name)
	}
	discharger := v.discharge(repo)
	results := make([]*issue.Result, 0, len(units))
	for _, u := range units {
		log.Infof("verifying unit %s", u.Name)
		result, err := v.verify(ctx, repo, u, discharger)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		if v.cfg.FailFast && !result.Closed() {
			return results, errors.Errorf("unit %s did not close", u.Name)
		}
	}
	return results, nil
}

func (v *Verifier) verify(ctx context.Context, repo *model.Repository, u Unit, d Discharger) (*issue.Result, error) {
	startTime := time.Now()
	result := issue.NewResult(u.Name, v.variant.String())
	defer func() { result.Duration = time.Since(startTime) }()

	root, err := v.Build(ctx, repo, u, d)
	if err != nil {
		if syntax.IsUnsupported(err) || syntax.IsMalformed(err) {
			log.Warnf("unit %s: %v", u.Name, err)
			result.Err = err
			return result, nil
		}
		return nil, err
	}
	for _, open := range tree.Unresolved(root) {
		result.Unresolved = append(result.Unresolved, open.State.Modality.PrettyPrint())
	}

	leaves := tree.LogicLeaves(root)
	log.Infof("closing %d open branches", len(leaves))
	verdicts, err := v.dischargeAll(ctx, d, leaves)
	if err != nil {
		return nil, err
	}
	result.Obligations = len(leaves)
	for i, verdict := range verdicts {
		if verdict == smt.Proved {
			result.Proved++
			continue
		}
		result.AddFailure(leaves[i].Info.String(), leaves[i].Describe(), verdict)
	}

	if v.variant == deduct.PDL {
		if err := v.solveEquations(ctx, repo.Model(), root, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (v *Verifier) dischargeAll(ctx context.Context, d Discharger, leaves []*tree.LogicNode) ([]smt.Verdict, error) {
	verdicts := make([]smt.Verdict, len(leaves))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(v.cfg.Workers)
	for i := range leaves {
		i := i
		g.Go(func() error {
			verdict, err := d.Discharge(ctx, leaves[i].Ante, leaves[i].Succ)
			if err != nil {
				return errors.Wrapf(err, "discharge %s", leaves[i].Info)
			}
			verdicts[i] = verdict
			return nil
		})
	}
	return verdicts, g.Wait()
}

// solveEquations checks the target probability against the equations of
// the static leaves. An unfinished tree has an incomplete system and is
// not solved.
func (v *Verifier) solveEquations(ctx context.Context, m *model.Model, root *tree.SymbolicNode, result *issue.Result) error {
	spec, ok := root.State.Modality.Target.(prob.ProbSpec)
	if !ok {
		panic(syntax.NewInternalError("probabilistic root without probabilistic target"))
	}
	goal, err := prob.NewGoal(spec.Prob, m.Main.Bound, syntax.RealConst(m.Main.Prob))
	if err != nil {
		result.Err = err
		return nil
	}
	eqs := prob.Equations(root)
	result.Goal = goal.String()
	for _, eq := range eqs {
		result.Equations = append(result.Equations, eq.String())
	}
	if !result.Finished() {
		return nil
	}
	verdict, err := v.equations.Solve(ctx, eqs, goal)
	if err != nil {
		return errors.Wrap(err, "solve probability equations")
	}
	result.GoalHolds = verdict
	return nil
}
