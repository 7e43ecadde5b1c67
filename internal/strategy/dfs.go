// Package strategy 实现证明树的展开策略
package strategy

import (
	"gverify/internal/tree"
)

type pending struct {
	node  *tree.SymbolicNode
	depth int
}

// DFS expands the first child of a rule application before its siblings,
// so one branch is finished before the next is started.
type DFS struct {
	stack    []pending
	maxDepth int
}

func NewDFS() *DFS {
	return &DFS{stack: make([]pending, 0)}
}

func (dfs *DFS) Len() int {
	return len(dfs.stack)
}

// MaxDepth is the deepest node scheduled so far.
func (dfs *DFS) MaxDepth() int {
	return dfs.maxDepth
}

func (dfs *DFS) Next() (*tree.SymbolicNode, int, bool) {
	if len(dfs.stack) == 0 {
		return nil, 0, false
	}
	top := dfs.stack[len(dfs.stack)-1]
	dfs.stack = dfs.stack[:len(dfs.stack)-1]
	return top.node, top.depth, true
}

// Schedule keeps the open symbolic nodes among nodes. Logic and static
// leaves need no further rule.
func (dfs *DFS) Schedule(depth int, nodes ...tree.Node) {
	for i := len(nodes) - 1; i >= 0; i-- {
		sn, ok := nodes[i].(*tree.SymbolicNode)
		if !ok || !sn.Open() {
			continue
		}
		dfs.stack = append(dfs.stack, pending{node: sn, depth: depth})
		if depth > dfs.maxDepth {
			dfs.maxDepth = depth
		}
	}
}
