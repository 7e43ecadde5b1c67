// Package rule 模式匹配与重写规则
package rule

import (
	"fmt"
	"gverify/internal/state"
	"gverify/internal/syntax"
)

// MatchCondition is the outcome of matching a pattern: the binding of
// every abstract variable, or the reason the match failed.
type MatchCondition struct {
	bindings map[string]syntax.Anything
	failure  string
}

func newMatchCondition() *MatchCondition {
	return &MatchCondition{
		bindings: make(map[string]syntax.Anything),
	}
}

func (mc *MatchCondition) Failed() bool   { return mc.failure != "" }
func (mc *MatchCondition) Failure() string { return mc.failure }

func (mc *MatchCondition) fail(format string, args ...interface{}) {
	if mc.failure == "" {
		mc.failure = fmt.Sprintf(format, args...)
	}
}

// Match unifies pattern against concrete. Matching is structural: node
// types must agree down to the first abstract variable, which then binds
// the whole concrete subtree.
func Match(concrete, pattern syntax.Anything) *MatchCondition {
	mc := newMatchCondition()
	mc.match(concrete, pattern)
	return mc
}

func (mc *MatchCondition) match(concrete, pattern syntax.Anything) {
	if mc.Failed() {
		return
	}
	if av, ok := pattern.(syntax.AbstractVar); ok {
		if !av.Accepts(concrete) {
			mc.fail("%s cannot bind %T", av.AbstractName(), concrete)
			return
		}
		name := av.AbstractName()
		if prev, ok := mc.bindings[name]; ok {
			if !syntax.Same(prev, concrete) {
				mc.fail("%s bound twice", name)
			}
			return
		}
		mc.bindings[name] = concrete
		return
	}
	if concrete == nil || pattern == nil {
		if concrete != pattern {
			mc.fail("absent node")
		}
		return
	}
	if fmt.Sprintf("%T", concrete) != fmt.Sprintf("%T", pattern) {
		mc.fail("%T does not match %T", concrete, pattern)
		return
	}
	var (
		pc = pattern.Children()
		cc = concrete.Children()
	)
	if len(pc) == 0 {
		if !syntax.Same(concrete, pattern) {
			mc.fail("%s does not match %s", concrete.PrettyPrint(), pattern.PrettyPrint())
		}
		return
	}
	if len(pc) != len(cc) {
		mc.fail("arity of %T differs", concrete)
		return
	}
	for i := range pc {
		mc.match(cc[i], pc[i])
	}
}

func (mc *MatchCondition) get(name string) syntax.Anything {
	res, ok := mc.bindings[name]
	if !ok {
		panic(syntax.NewInternalError("abstract variable %s is not bound", name))
	}
	return res
}

func (mc *MatchCondition) Stmt(name string) syntax.Stmt {
	res, ok := mc.get(name).(syntax.Stmt)
	if !ok {
		panic(syntax.NewInternalError("%s is not bound to a statement", name))
	}
	return res
}

func (mc *MatchCondition) Expr(name string) syntax.Expr {
	res, ok := mc.get(name).(syntax.Expr)
	if !ok {
		panic(syntax.NewInternalError("%s is not bound to an expression", name))
	}
	return res
}

func (mc *MatchCondition) Location(name string) syntax.Location {
	res, ok := mc.get(name).(syntax.Location)
	if !ok {
		panic(syntax.NewInternalError("%s is not bound to a location", name))
	}
	return res
}

// Formula returns nil when name was bound to an absent formula.
func (mc *MatchCondition) Formula(name string) syntax.Formula {
	bound := mc.get(name)
	if bound == nil {
		return nil
	}
	res, ok := bound.(syntax.Formula)
	if !ok {
		panic(syntax.NewInternalError("%s is not bound to a formula", name))
	}
	return res
}

func (mc *MatchCondition) PP(name string) syntax.ProgramPoint {
	res, ok := mc.get(name).(syntax.ProgramPoint)
	if !ok {
		panic(syntax.NewInternalError("%s is not bound to a program point", name))
	}
	return res
}

func (mc *MatchCondition) Target(name string) state.DeductType {
	res, ok := mc.get(name).(state.DeductType)
	if !ok {
		panic(syntax.NewInternalError("%s is not bound to a proof obligation", name))
	}
	return res
}
