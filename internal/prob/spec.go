// Package prob 概率动态逻辑: 概率目标, 方程与规则
package prob

import (
	"gverify/internal/state"
	"gverify/internal/syntax"
	"gverify/internal/tree"
	"strings"
)

// ProbSpec is the probabilistic target: the probability that Post holds
// is Prob, subject to Equations collected on the way. WhileInv is the
// loop invariant of the enclosing main block, if any.
type ProbSpec struct {
	Post      syntax.Formula
	Prob      syntax.ProgVar
	Equations []tree.Equation
	WhileInv  syntax.Formula
}

func NewProbSpec(post syntax.Formula, prob syntax.ProgVar, whileInv syntax.Formula) ProbSpec {
	if post == nil {
		post = syntax.True{}
	}
	return ProbSpec{Post: post, Prob: prob, WhileInv: whileInv}
}

func (ProbSpec) DeductKind() string { return "PDL" }
func (s ProbSpec) PrettyPrint() string {
	parts := make([]string, len(s.Equations))
	for i, eq := range s.Equations {
		parts[i] = eq.String()
	}
	return s.Post.PrettyPrint() + " with " + s.Prob.Name + " {" + strings.Join(parts, ", ") + "}"
}
func (s ProbSpec) Children() []syntax.Anything {
	res := []syntax.Anything{s.Post, s.Prob}
	if s.WhileInv != nil {
		res = append(res, s.WhileInv)
	}
	return res
}

// With returns a copy of s proving post with probability prob and the
// additional equations. The receiver's equations are not shared.
func (s ProbSpec) With(post syntax.Formula, prob syntax.ProgVar, eqs ...tree.Equation) ProbSpec {
	all := make([]tree.Equation, 0, len(s.Equations)+len(eqs))
	all = append(all, s.Equations...)
	all = append(all, eqs...)
	return ProbSpec{Post: post, Prob: prob, Equations: all, WhileInv: s.WhileInv}
}

var _ state.DeductType = ProbSpec{}

// Goal is the declared target: Var Bound Value, e.g. p_0 >= 0.5.
type Goal struct {
	Var   syntax.ProgVar
	Bound string
	Value syntax.Term
}

func NewGoal(v syntax.ProgVar, bound string, value syntax.Term) (Goal, error) {
	switch bound {
	case ">=", "=", "<=":
	case "":
		bound = ">="
	default:
		return Goal{}, syntax.Malformed(bound, "probability bound must be one of >=, =, <=")
	}
	return Goal{Var: v, Bound: bound, Value: value}, nil
}

func (g Goal) Formula() syntax.Formula {
	return syntax.Predicate{Name: g.Bound, Params: []syntax.Term{g.Var, g.Value}}
}

func (g Goal) String() string {
	return g.Var.Name + " " + g.Bound + " " + g.Value.PrettyPrint()
}
