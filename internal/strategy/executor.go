package strategy

import (
	"gverify/internal/rule"
	"gverify/internal/tree"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Executor rewrites open symbolic nodes until every leaf is closed or no
// rule applies to it.
type Executor struct {
	rules    []rule.Rule
	env      *rule.Env
	strategy *DFS
	steps    int
}

func NewExecutor(rules []rule.Rule, env *rule.Env) *Executor {
	return &Executor{
		rules:    rules,
		env:      env,
		strategy: NewDFS(),
	}
}

// Steps is the number of rule applications so far.
func (e *Executor) Steps() int {
	return e.steps
}

// Depth is the longest path from the root expanded so far.
func (e *Executor) Depth() int {
	return e.strategy.MaxDepth()
}

// Execute expands root in place. A node no rule matches is marked
// unresolved and left as a leaf; that is not an error.
func (e *Executor) Execute(root *tree.SymbolicNode) error {
	e.strategy.Schedule(0, root)
	for {
		if err := e.env.Ctx.Err(); err != nil {
			return errors.Wrap(err, "execute")
		}
		node, depth, ok := e.strategy.Next()
		if !ok {
			break
		}
		children, err := e.step(node)
		if err != nil {
			return err
		}
		e.strategy.Schedule(depth+1, children...)
	}
	log.Debugf("expanded %d nodes, depth %d", e.steps, e.Depth())
	return nil
}

func (e *Executor) step(node *tree.SymbolicNode) ([]tree.Node, error) {
	r, cond := rule.Find(e.rules, node.State)
	if r == nil {
		log.Debugf("no rule for %s", node.State.Modality.PrettyPrint())
		node.Unresolved = true
		return nil, nil
	}
	children, err := r.Transform(cond, node.State, e.env)
	if err != nil {
		return nil, errors.Wrapf(err, "rule %s", r.Name())
	}
	e.steps++
	node.Rule = r.Name()
	node.Children = children
	log.Tracef("applied %s, %d children", r.Name(), len(children))
	return children, nil
}

// Execute builds the whole tree below root with rules.
func Execute(root *tree.SymbolicNode, rules []rule.Rule, env *rule.Env) error {
	return NewExecutor(rules, env).Execute(root)
}
