// Package state 符号执行状态: 路径条件, 更新, 模态
package state

import "gverify/internal/syntax"

// DeductType is the proof obligation a modality must establish once its
// remainder has run.
type DeductType interface {
	syntax.Anything
	DeductKind() string
}

// PostInvSpec is the ordinary obligation: Post holds on normal
// termination, Inv is the object invariant, ExceptionPost holds when an
// exception escapes.
type PostInvSpec struct {
	Post          syntax.Formula
	Inv           syntax.Formula
	ExceptionPost syntax.Formula
}

func (PostInvSpec) DeductKind() string { return "PostInv" }
func (s PostInvSpec) PrettyPrint() string {
	return "[post: " + s.Post.PrettyPrint() + ", inv: " + s.Inv.PrettyPrint() + "]"
}
func (s PostInvSpec) Children() []syntax.Anything {
	return []syntax.Anything{s.Post, s.Inv, s.ExceptionPost}
}

// NewPostInvSpec fills absent parts: True for post and invariant, False
// for the exceptional postcondition.
func NewPostInvSpec(post, inv syntax.Formula) PostInvSpec {
	if post == nil {
		post = syntax.True{}
	}
	if inv == nil {
		inv = syntax.True{}
	}
	return PostInvSpec{Post: post, Inv: inv, ExceptionPost: syntax.False{}}
}

// TargetAbstractVar matches any obligation in a rule pattern.
type TargetAbstractVar struct{ Name string }

func (TargetAbstractVar) DeductKind() string            { return "abstract" }
func (v TargetAbstractVar) PrettyPrint() string         { return v.Name }
func (v TargetAbstractVar) Children() []syntax.Anything { return nil }
func (v TargetAbstractVar) AbstractName() string        { return v.Name }
func (v TargetAbstractVar) Accepts(a syntax.Anything) bool {
	_, ok := a.(DeductType)
	return ok
}

// Modality pairs the statements still to run with the obligation that
// must hold after them.
type Modality struct {
	Remainder syntax.Stmt
	Target    DeductType
}

func (m Modality) PrettyPrint() string {
	return "[{ " + m.Remainder.PrettyPrint() + " }]" + m.Target.PrettyPrint()
}
func (m Modality) Children() []syntax.Anything {
	return []syntax.Anything{m.Remainder, m.Target}
}

// SymbolicState is immutable; the With methods return modified copies.
type SymbolicState struct {
	Condition syntax.Formula
	Update    syntax.Update
	Modality  Modality
	Scopes    *ScopeStack
}

func NewSymbolicState(cond syntax.Formula, upd syntax.Update, mod Modality) *SymbolicState {
	return &SymbolicState{
		Condition: cond,
		Update:    upd,
		Modality:  mod,
		Scopes:    NewScopeStack(),
	}
}

func (s *SymbolicState) PrettyPrint() string {
	return s.Condition.PrettyPrint() + "\n ==> \n{" + s.Update.PrettyPrint() + "}" + s.Modality.PrettyPrint()
}

func (s *SymbolicState) Children() []syntax.Anything {
	return []syntax.Anything{s.Condition, s.Update, s.Modality}
}

// Continue keeps condition and update and runs remainder next.
func (s *SymbolicState) Continue(remainder syntax.Stmt) *SymbolicState {
	return s.with(s.Condition, s.Update, Modality{Remainder: remainder, Target: s.Modality.Target})
}

// Assign chains u after the current update and runs remainder next.
func (s *SymbolicState) Assign(u syntax.Update, remainder syntax.Stmt) *SymbolicState {
	return s.with(s.Condition, syntax.Chain(s.Update, u), Modality{Remainder: remainder, Target: s.Modality.Target})
}

// Branch conjoins guard, already evaluated under the update, onto the
// path condition.
func (s *SymbolicState) Branch(guard syntax.Formula, remainder syntax.Stmt) *SymbolicState {
	return s.with(syntax.Conj(s.Condition, guard), s.Update, Modality{Remainder: remainder, Target: s.Modality.Target})
}

// Retarget replaces the obligation, keeping everything else.
func (s *SymbolicState) Retarget(remainder syntax.Stmt, target DeductType) *SymbolicState {
	return s.with(s.Condition, s.Update, Modality{Remainder: remainder, Target: target})
}

func (s *SymbolicState) WithScopes(scopes *ScopeStack) *SymbolicState {
	res := s.with(s.Condition, s.Update, s.Modality)
	res.Scopes = scopes
	return res
}

func (s *SymbolicState) with(cond syntax.Formula, upd syntax.Update, mod Modality) *SymbolicState {
	return &SymbolicState{
		Condition: cond,
		Update:    upd,
		Modality:  mod,
		Scopes:    s.Scopes,
	}
}
