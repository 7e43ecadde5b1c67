package prob

import (
	"context"
	"fmt"
	"gverify/internal/smt"
	"gverify/internal/syntax"
	"gverify/internal/tree"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Equations gathers the equations of every static leaf below root, in
// leaf order and without repetition.
func Equations(root tree.Node) []tree.Equation {
	var (
		seen = make(map[string]struct{})
		res  = make([]tree.Equation, 0)
	)
	for _, leaf := range tree.StaticLeaves(root) {
		for _, eq := range leaf.Equations {
			k := eq.Formula().ToSMT()
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			res = append(res, eq)
		}
	}
	return res
}

// EquationSolver decides whether the equations entail the goal.
type EquationSolver interface {
	Solve(ctx context.Context, eqs []tree.Equation, goal Goal) (smt.Verdict, error)
}

// System is an equation system ready for a solver: the symbols to
// declare, the bounds and equations in Base, and the goal. The goal is
// proved when Base is satisfiable and Base with the negated goal is not.
type System struct {
	Symbols []syntax.Sorted
	Base    []syntax.Formula
	Goal    syntax.Formula
}

// NewSystem bounds every probability and every symbolic weight to [0,1]
// and collects the equations.
func NewSystem(eqs []tree.Equation, goal Goal) System {
	var (
		forms   = make([]syntax.Anything, 0, len(eqs)+1)
		base    = make([]syntax.Formula, 0)
		bounded = make(map[string]struct{})
	)
	bound := func(t syntax.Term) {
		if _, ok := t.(syntax.Const); ok {
			return
		}
		k := t.ToSMT()
		if _, ok := bounded[k]; ok {
			return
		}
		bounded[k] = struct{}{}
		t = toReal(t)
		base = append(base,
			syntax.Predicate{Name: "<=", Params: []syntax.Term{zero, t}},
			syntax.Predicate{Name: "<=", Params: []syntax.Term{t, one}})
	}

	bound(goal.Var)
	for _, eq := range eqs {
		for _, t := range probTerms(eq) {
			bound(t)
		}
	}
	for _, eq := range eqs {
		f := eq.Formula()
		forms = append(forms, f)
		base = append(base, f)
	}
	forms = append(forms, goal.Formula())
	return System{
		Symbols: syntax.CollectOf[syntax.Sorted](forms...),
		Base:    base,
		Goal:    goal.Formula(),
	}
}

func probTerms(eq tree.Equation) []syntax.Term {
	switch v := eq.(type) {
	case SetEquation:
		return []syntax.Term{v.Head}
	case MinEquation:
		return []syntax.Term{v.Head, v.Left, v.Right}
	case SplitEquation:
		return []syntax.Term{v.Head, v.Weight, v.Left, v.Right}
	}
	return nil
}

// ConsistencyScript checks that the equations have a solution at all.
func (s System) ConsistencyScript() string {
	return s.render(s.Base)
}

// Script checks the goal: unsat means the equations entail it.
func (s System) Script() string {
	return s.render(append(append([]syntax.Formula{}, s.Base...), syntax.Neg(s.Goal)))
}

func (s System) render(asserts []syntax.Formula) string {
	var sb strings.Builder
	sb.WriteString(smt.Header)
	heaps := make(map[string]struct{})
	for _, sym := range s.Symbols {
		if _, ok := sym.(syntax.Field); ok {
			fmt.Fprintf(&sb, "(declare-const %s Field)\n", sym.ToSMT())
			continue
		}
		t := sym.SortOf()
		if t.IsHeap() && len(t.Args) == 1 {
			if _, ok := heaps[t.SMTName()]; !ok {
				heaps[t.SMTName()] = struct{}{}
				fmt.Fprintf(&sb, "(define-sort %s () (Array Field %s))\n", t.SMTName(), t.Args[0].SMTName())
			}
		}
		fmt.Fprintf(&sb, "(declare-const %s %s)\n", sym.ToSMT(), t.SMTName())
	}
	for _, f := range asserts {
		sb.WriteString("(assert " + f.ToSMT() + ")\n")
	}
	sb.WriteString("(check-sat)\n(exit)\n")
	return sb.String()
}

// ScriptSolver checks the system with an external solver.
type ScriptSolver struct {
	runner *smt.Runner
}

func NewScriptSolver(runner *smt.Runner) *ScriptSolver {
	return &ScriptSolver{runner: runner}
}

// Solve first checks the equations alone. An inconsistent system entails
// every goal, so it is reported as not proved.
func (s *ScriptSolver) Solve(ctx context.Context, eqs []tree.Equation, goal Goal) (smt.Verdict, error) {
	sys := NewSystem(eqs, goal)
	script := sys.ConsistencyScript()
	log.Debugf("equation system:\n%s", script)
	verdict, output, err := s.runner.Run(ctx, script)
	if err != nil {
		return smt.NotProved, errors.Wrap(err, "check equations")
	}
	switch {
	case verdict == smt.Proved:
		log.Warnf("equation system has no solution, goal %s is not checked", goal)
		return smt.NotProved, nil
	case verdict == smt.Undetermined || strings.HasPrefix(output, "unknown"):
		return smt.Undetermined, nil
	}

	script = sys.Script()
	log.Debugf("goal check:\n%s", script)
	verdict, _, err = s.runner.Run(ctx, script)
	if err != nil {
		return smt.NotProved, errors.Wrap(err, "solve equations")
	}
	return verdict, nil
}
