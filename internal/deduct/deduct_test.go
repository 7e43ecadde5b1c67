package deduct

import (
	"gverify/internal/model"
	"gverify/internal/prob"
	"gverify/internal/state"
	"gverify/internal/syntax"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	f = syntax.Field{Name: "f", Type: syntax.IntType}
	n = syntax.ProgVar{Name: "n", Type: syntax.IntType}
)

func counter() *model.Model {
	inv := syntax.Predicate{Name: ">=", Params: []syntax.Term{syntax.Select(syntax.HeapVar(syntax.IntType), f), syntax.IntConst("0")}}
	return &model.Model{
		Name: "counter",
		Classes: []*model.Class{{
			Name:      "C",
			Fields:    []syntax.Field{f},
			Invariant: inv,
			Init:      syntax.AssignStmt{Lhs: f, Value: syntax.ConstExpr{Value: "0", Type: syntax.IntType}},
			Methods: []*model.Method{{
				Name:     "inc",
				Params:   []model.Param{{Name: "n", Type: syntax.IntType}},
				Requires: syntax.Predicate{Name: ">=", Params: []syntax.Term{n, syntax.IntConst("0")}},
				Body:     syntax.ReturnStmt{Value: n},
			}},
		}},
		Main: &model.Main{
			Body:  syntax.SkipStmt{},
			Prob:  "0.5",
			Bound: ">=",
		},
	}
}

func Test_ParseVariant(t *testing.T) {
	v, err := ParseVariant("PDL")
	require.NoError(t, err)
	assert.Equal(t, PDL, v)
	v, err = ParseVariant("")
	require.NoError(t, err)
	assert.Equal(t, PostInv, v)
	_, err = ParseVariant("hoare")
	assert.Error(t, err)
	assert.Equal(t, "pdl", PDL.String())
}

func Test_PostInvNodes(t *testing.T) {
	m := counter()
	c := For(PostInv, state.NewSession())
	assert.Equal(t, PostInv, c.Variant())
	assert.NotEmpty(t, c.BuildRuleSet())

	initial, err := c.ExtractInitialNode(m.Classes[0])
	require.NoError(t, err)
	assert.Equal(t, "true", initial.State.Condition.ToSMT())
	spec := initial.State.Modality.Target.(state.PostInvSpec)
	assert.Equal(t, "true", spec.Post.ToSMT())
	assert.Equal(t, "(>= (select heap_Int f_f) 0)", spec.Inv.ToSMT())

	method, err := c.ExtractMethodNode(m.Classes[0], "inc")
	require.NoError(t, err)
	assert.Equal(t, "(and (>= n 0) (>= (select heap_Int f_f) 0))", method.State.Condition.ToSMT())
	assert.Equal(t, "return n;\nskip", method.State.Modality.Remainder.PrettyPrint())

	_, err = c.ExtractMethodNode(m.Classes[0], "dec")
	assert.True(t, syntax.IsMalformed(err))

	node, err := c.ExtractMainNode(m)
	require.NoError(t, err)
	assert.Equal(t, "PostInv", node.State.Modality.Target.DeductKind())

	m.Main = nil
	_, err = c.ExtractMainNode(m)
	assert.True(t, syntax.IsMalformed(err))
}

func Test_PDLNodes(t *testing.T) {
	m := counter()
	c := For(PDL, state.NewSession())
	assert.Equal(t, PDL, c.Variant())

	_, err := c.ExtractMethodNode(m.Classes[0], "inc")
	assert.True(t, syntax.IsUnsupported(err))
	_, err = c.ExtractInitialNode(m.Classes[0])
	assert.True(t, syntax.IsUnsupported(err))

	node, err := c.ExtractMainNode(m)
	require.NoError(t, err)
	spec := node.State.Modality.Target.(prob.ProbSpec)
	assert.Equal(t, "p_0", spec.Prob.Name)
	assert.Equal(t, "true", spec.Post.ToSMT())

	m.Main.Prob = ""
	_, err = c.ExtractMainNode(m)
	assert.True(t, syntax.IsMalformed(err))
}
