package rule

import (
	"context"
	"gverify/internal/state"
	"gverify/internal/syntax"
	"gverify/internal/tree"
)

// Prover decides ante => succ. Rules use it to prune infeasible branches;
// a prover that cannot decide answers false.
type Prover interface {
	Prove(ctx context.Context, ante, succ syntax.Formula) (bool, error)
}

// NeverProver proves nothing, so no branch is ever pruned.
type NeverProver struct{}

func (NeverProver) Prove(context.Context, syntax.Formula, syntax.Formula) (bool, error) {
	return false, nil
}

// Env is what rules need beyond the matched state.
type Env struct {
	Ctx     context.Context
	Session *state.Session
	Prover  Prover
	// Heaps lists the field types whose heaps a synchronous call may change.
	Heaps []syntax.Type
}

func NewEnv(ctx context.Context, session *state.Session, prover Prover, heaps []syntax.Type) *Env {
	if ctx == nil {
		ctx = context.Background()
	}
	if prover == nil {
		prover = NeverProver{}
	}
	return &Env{
		Ctx:     ctx,
		Session: session,
		Prover:  prover,
		Heaps:   heaps,
	}
}

// Rule consumes a prefix of the remainder. Transform never mutates its
// input and returns the successors: symbolic nodes to continue with and
// closed leaves.
type Rule interface {
	Name() string
	Pattern() state.Modality
	Transform(cond *MatchCondition, input *state.SymbolicState, env *Env) ([]tree.Node, error)
}

// Base carries a rule's name and pattern; concrete rules embed it.
type Base struct {
	name    string
	pattern state.Modality
}

func NewBase(name string, pattern state.Modality) Base {
	return Base{name: name, pattern: pattern}
}

func (b *Base) Name() string            { return b.name }
func (b *Base) Pattern() state.Modality { return b.pattern }

// Find returns the first rule whose pattern matches the modality of st.
func Find(rules []Rule, st *state.SymbolicState) (Rule, *MatchCondition) {
	for _, r := range rules {
		cond := Match(st.Modality, r.Pattern())
		if !cond.Failed() {
			return r, cond
		}
	}
	return nil, nil
}

// Abstract variable names shared by all rule sets.
const (
	Cont   = "CONT"
	Target = "TYPE"
)

// SeqPattern matches head followed by the rest of the program.
func SeqPattern(head syntax.Stmt) state.Modality {
	return state.Modality{
		Remainder: syntax.SeqStmt{First: head, Second: syntax.StmtAbstractVar{Name: Cont}},
		Target:    state.TargetAbstractVar{Name: Target},
	}
}

// EndPattern matches a remainder that is exactly s.
func EndPattern(s syntax.Stmt) state.Modality {
	return state.Modality{
		Remainder: s,
		Target:    state.TargetAbstractVar{Name: Target},
	}
}

func stmtVar(name string) syntax.StmtAbstractVar       { return syntax.StmtAbstractVar{Name: name} }
func exprVar(name string) syntax.ExprAbstractVar       { return syntax.ExprAbstractVar{Name: name} }
func locVar(name string) syntax.LocationAbstractVar    { return syntax.LocationAbstractVar{Name: name} }
func formulaVar(name string) syntax.FormulaAbstractVar { return syntax.FormulaAbstractVar{Name: name} }
func ppVar(name string) syntax.PPAbstractVar           { return syntax.PPAbstractVar{Name: name} }
