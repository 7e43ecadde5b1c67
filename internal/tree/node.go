// Package tree 证明树: 内部节点, 逻辑叶子与方程叶子
package tree

import (
	"fmt"
	"gverify/internal/state"
	"gverify/internal/syntax"
	"strings"
)

type Node interface {
	isNode()
	Describe() string
}

// SymbolicNode wraps a symbolic state. It is open until a rule has given
// it children; Unresolved is set when no rule matched.
type SymbolicNode struct {
	State      *state.SymbolicState
	Children   []Node
	Info       NodeInfo
	Rule       string
	Unresolved bool
}

func NewSymbolicNode(st *state.SymbolicState, info NodeInfo) *SymbolicNode {
	return &SymbolicNode{
		State:    st,
		Children: make([]Node, 0),
		Info:     info,
	}
}

func (*SymbolicNode) isNode() {}

func (n *SymbolicNode) Describe() string {
	return n.State.PrettyPrint()
}

// Open reports whether a rule still has to be applied to n.
func (n *SymbolicNode) Open() bool {
	return len(n.Children) == 0 && !n.Unresolved
}

// LogicNode is a closed obligation Ante => Succ for the solver. Succ may
// still carry updates; they are applied by the encoder.
type LogicNode struct {
	Ante syntax.Formula
	Succ syntax.Formula
	Info NodeInfo
}

func NewLogicNode(ante, succ syntax.Formula, info NodeInfo) *LogicNode {
	return &LogicNode{Ante: ante, Succ: succ, Info: info}
}

func (*LogicNode) isNode() {}

func (n *LogicNode) Describe() string {
	return n.Ante.PrettyPrint() + " ==> " + n.Succ.PrettyPrint()
}

// Equation is a constraint over probability variables.
type Equation interface {
	Formula() syntax.Formula
	String() string
}

// StaticNode carries the probability equations of one finished branch.
type StaticNode struct {
	Equations []Equation
	Info      NodeInfo
}

func NewStaticNode(eqs []Equation, info NodeInfo) *StaticNode {
	return &StaticNode{Equations: eqs, Info: info}
}

func (*StaticNode) isNode() {}

func (n *StaticNode) Describe() string {
	parts := make([]string, len(n.Equations))
	for i, eq := range n.Equations {
		parts[i] = eq.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Walk visits root and its descendants in pre-order, children in order.
func Walk(root Node, fn func(Node)) {
	fn(root)
	if sn, ok := root.(*SymbolicNode); ok {
		for _, child := range sn.Children {
			Walk(child, fn)
		}
	}
}

// Leaves returns every node without children, in order.
func Leaves(root Node) []Node {
	res := make([]Node, 0)
	Walk(root, func(n Node) {
		if sn, ok := n.(*SymbolicNode); ok && len(sn.Children) > 0 {
			return
		}
		res = append(res, n)
	})
	return res
}

func LogicLeaves(root Node) []*LogicNode {
	res := make([]*LogicNode, 0)
	for _, leaf := range Leaves(root) {
		if ln, ok := leaf.(*LogicNode); ok {
			res = append(res, ln)
		}
	}
	return res
}

func StaticLeaves(root Node) []*StaticNode {
	res := make([]*StaticNode, 0)
	for _, leaf := range Leaves(root) {
		if sn, ok := leaf.(*StaticNode); ok {
			res = append(res, sn)
		}
	}
	return res
}

// Unresolved returns the symbolic leaves no rule could be applied to.
func Unresolved(root Node) []*SymbolicNode {
	res := make([]*SymbolicNode, 0)
	for _, leaf := range Leaves(root) {
		if sn, ok := leaf.(*SymbolicNode); ok {
			res = append(res, sn)
		}
	}
	return res
}

// Finished reports whether every leaf is a logic or static node.
func Finished(root Node) bool {
	return len(Unresolved(root)) == 0
}

// DebugString renders the tree, one node per line, indented by depth.
func DebugString(root Node) string {
	var sb strings.Builder
	debugString(&sb, root, 0)
	return sb.String()
}

func debugString(sb *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := n.(type) {
	case *SymbolicNode:
		status := ""
		if v.Unresolved {
			status = " [unresolved]"
		}
		fmt.Fprintf(sb, "%s%s%s\n", indent, v.Info.String(), status)
		for _, line := range strings.Split(v.Describe(), "\n") {
			fmt.Fprintf(sb, "%s| %s\n", indent, line)
		}
		for _, child := range v.Children {
			debugString(sb, child, depth+1)
		}
	case *LogicNode:
		fmt.Fprintf(sb, "%sLogic(%s): %s\n", indent, v.Info.String(), v.Describe())
	case *StaticNode:
		fmt.Fprintf(sb, "%sStatic(%s): %s\n", indent, v.Info.String(), v.Describe())
	}
}
