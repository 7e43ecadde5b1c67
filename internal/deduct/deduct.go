// Package deduct 证明变体: 普通后置条件证明与概率证明
package deduct

import (
	"fmt"
	"gverify/internal/model"
	"gverify/internal/prob"
	"gverify/internal/rule"
	"gverify/internal/state"
	"gverify/internal/syntax"
	"gverify/internal/tree"
	"strings"
)

type Variant int

const (
	PostInv Variant = iota
	PDL
)

func (v Variant) String() string {
	switch v {
	case PostInv:
		return "postinv"
	case PDL:
		return "pdl"
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postinv", "":
		return PostInv, nil
	case "pdl", "prob":
		return PDL, nil
	}
	return PostInv, fmt.Errorf("unknown proof variant %q", s)
}

// Capability builds the root nodes and the rule set of one variant.
type Capability interface {
	Variant() Variant
	ExtractInitialNode(c *model.Class) (*tree.SymbolicNode, error)
	ExtractMethodNode(c *model.Class, name string) (*tree.SymbolicNode, error)
	ExtractMainNode(m *model.Model) (*tree.SymbolicNode, error)
	BuildRuleSet() []rule.Rule
}

// For returns the capability of v. Fresh names of the root nodes come
// from session.
func For(v Variant, session *state.Session) Capability {
	switch v {
	case PDL:
		return &pdl{session: session}
	}
	return &postInv{}
}

func orTrue(f syntax.Formula) syntax.Formula {
	if f == nil {
		return syntax.True{}
	}
	return f
}

func root(cond syntax.Formula, body syntax.Stmt, target state.DeductType, info string) *tree.SymbolicNode {
	if body == nil {
		body = syntax.SkipStmt{}
	}
	st := state.NewSymbolicState(orTrue(cond), syntax.EmptyUpdate{}, state.Modality{
		Remainder: syntax.AppendStmt(syntax.Normalize(body), syntax.SkipStmt{}),
		Target:    target,
	})
	return tree.NewSymbolicNode(st, tree.Info(tree.NoInfo, info))
}

type postInv struct{}

func (postInv) Variant() Variant { return PostInv }

// ExtractInitialNode proves that creation establishes the invariant.
func (postInv) ExtractInitialNode(c *model.Class) (*tree.SymbolicNode, error) {
	return root(c.Requires, c.Init, state.NewPostInvSpec(nil, c.Invariant), c.Name+".<init>"), nil
}

// ExtractMethodNode proves the method contract assuming the invariant.
func (postInv) ExtractMethodNode(c *model.Class, name string) (*tree.SymbolicNode, error) {
	for _, m := range c.Methods {
		if m.Name != name {
			continue
		}
		cond := syntax.Conj(orTrue(m.Requires), orTrue(c.Invariant))
		return root(cond, m.Body, state.NewPostInvSpec(m.Ensures, c.Invariant), c.Name+"."+m.Name), nil
	}
	return nil, syntax.Malformed(c.Name+"."+name, "class %s has no method %s", c.Name, name)
}

func (postInv) ExtractMainNode(m *model.Model) (*tree.SymbolicNode, error) {
	if m.Main == nil {
		return nil, syntax.Malformed(m.Name, "model has no main block")
	}
	return root(m.Main.Requires, m.Main.Body, state.NewPostInvSpec(m.Main.Ensures, nil), "main"), nil
}

func (postInv) BuildRuleSet() []rule.Rule { return rule.PostInvRules() }

type pdl struct {
	session *state.Session
}

func (*pdl) Variant() Variant { return PDL }

func (*pdl) ExtractInitialNode(c *model.Class) (*tree.SymbolicNode, error) {
	return nil, syntax.Unsupported("probabilistic proof of a class", nil)
}

func (*pdl) ExtractMethodNode(c *model.Class, name string) (*tree.SymbolicNode, error) {
	return nil, syntax.Unsupported("probabilistic proof of a method", nil)
}

// ExtractMainNode roots the proof at a fresh probability variable, the
// one the target probability is checked against.
func (p *pdl) ExtractMainNode(m *model.Model) (*tree.SymbolicNode, error) {
	if m.Main == nil {
		return nil, syntax.Malformed(m.Name, "model has no main block")
	}
	if m.Main.Prob == "" {
		return nil, syntax.Malformed(m.Name, "probabilistic proof needs a target probability")
	}
	spec := prob.NewProbSpec(m.Main.Ensures, p.session.FreshProbVar(), m.Main.Invariant)
	return root(m.Main.Requires, m.Main.Body, spec, "main"), nil
}

func (*pdl) BuildRuleSet() []rule.Rule { return prob.Rules() }
