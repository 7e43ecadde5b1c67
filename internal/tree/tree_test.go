package tree

import (
	"gverify/internal/state"
	"gverify/internal/syntax"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type setEq struct {
	v syntax.ProgVar
}

func (e setEq) Formula() syntax.Formula { return syntax.Eq(e.v, syntax.RealConst("1.0")) }
func (e setEq) String() string          { return e.v.Name + " = 1" }

func sampleTree() (*SymbolicNode, *SymbolicNode) {
	st := state.NewSymbolicState(syntax.True{}, syntax.EmptyUpdate{}, state.Modality{
		Remainder: syntax.SkipStmt{},
		Target:    state.NewPostInvSpec(nil, nil),
	})
	root := NewSymbolicNode(st, Info(NoInfo, "root"))
	open := NewSymbolicNode(st, Info(InfoIfElse, "x > 0"))
	root.Children = []Node{
		NewLogicNode(syntax.True{}, syntax.False{}, Info(InfoSkipEnd, "")),
		open,
		NewStaticNode([]Equation{setEq{syntax.ProgVar{Name: "p_0", Type: syntax.RealType}}}, Info(InfoSkipEnd, "")),
	}
	return root, open
}

func Test_Leaves(t *testing.T) {
	root, open := sampleTree()
	assert.Len(t, Leaves(root), 3)
	assert.Len(t, LogicLeaves(root), 1)
	assert.Len(t, StaticLeaves(root), 1)
	assert.Equal(t, []*SymbolicNode{open}, Unresolved(root))
	assert.False(t, Finished(root))

	open.Children = []Node{NewLogicNode(syntax.True{}, syntax.True{}, Info(InfoSkipEnd, ""))}
	assert.True(t, Finished(root))
	assert.Len(t, LogicLeaves(root), 2)
}

func Test_Walk(t *testing.T) {
	root, _ := sampleTree()
	count := 0
	Walk(root, func(Node) { count++ })
	assert.Equal(t, 4, count)
}

func Test_DebugString(t *testing.T) {
	root, open := sampleTree()
	open.Unresolved = true
	out := DebugString(root)
	assert.True(t, strings.Contains(out, "[unresolved]"))
	assert.True(t, strings.Contains(out, "p_0 = 1"))
}

func Test_InfoKindString(t *testing.T) {
	assert.NotEqual(t, InfoLoopInitial.String(), InfoLoopUse.String())
	info := Info(InfoDivByZero, "x / y", Obligation{Name: "Division by zero", Formula: syntax.True{}})
	assert.Len(t, info.Obligations, 1)
}
