package smt

import (
	"gverify/internal/model"
	"gverify/internal/syntax"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	x    = syntax.ProgVar{Name: "x", Type: syntax.IntType}
	zero = syntax.IntConst("0")
	one  = syntax.IntConst("1")
)

const interfacePrelude = `(declare-sort Interface 0)
(declare-fun implements (Int Interface) Bool)
(declare-fun extends (Interface Interface) Bool)
(assert (forall ((i1 Interface) (i2 Interface) (i3 Interface)) (=> (and (extends i1 i2) (extends i2 i3)) (extends i1 i3))))
(assert (forall ((i1 Interface) (i2 Interface) (o Int)) (=> (and (extends i1 i2) (implements o i1)) (implements o i2))))
`

func newEncoder(t *testing.T, m *model.Model) *Encoder {
	repo, err := model.NewRepository(m)
	require.NoError(t, err)
	return NewEncoder(repo)
}

func pred(name string, args ...syntax.Term) syntax.Predicate {
	return syntax.Predicate{Name: name, Params: args}
}

func Test_GenerateGolden(t *testing.T) {
	enc := newEncoder(t, &model.Model{})
	ante := pred(">", x, zero)
	succ := syntax.Under(
		syntax.ElementaryUpdate{Lhs: x, Value: syntax.Function{Name: "+", Params: []syntax.Term{x, one}}},
		pred(">", x, one),
	)
	script, err := enc.Generate(ante, succ)
	require.NoError(t, err)
	expected := Header + interfacePrelude + `(declare-const x Int)
(assert (> x 0))
(assert (not (> (+ x 1) 1)))
(check-sat)
(exit)
`
	assert.Equal(t, expected, script)

	again, err := enc.Generate(ante, succ)
	require.NoError(t, err)
	assert.Equal(t, script, again)
}

func Test_GenerateModelCmd(t *testing.T) {
	enc := newEncoder(t, &model.Model{})
	enc.ModelCmd = "(get-model)"
	script, err := enc.Generate(syntax.True{}, syntax.False{})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(script, "(check-sat)\n(get-model)\n(exit)\n"))
}

func Test_GenerateFieldsAndHeaps(t *testing.T) {
	var (
		f = syntax.Field{Name: "f", Type: syntax.IntType}
		g = syntax.Field{Name: "g", Type: syntax.IntType}
		h = syntax.Field{Name: "h", Type: syntax.BoolType}
	)
	m := &model.Model{Classes: []*model.Class{{Name: "C", Fields: []syntax.Field{f, g, h}}}}
	heap := syntax.HeapVar(syntax.IntType)
	succ := syntax.Eq(syntax.Select(heap, f), syntax.Select(heap, g))

	enc := newEncoder(t, m)
	script, err := enc.Generate(syntax.True{}, succ)
	require.NoError(t, err)
	assert.Contains(t, script, "(define-sort Heap_Int () (Array Field Int))\n")
	assert.Contains(t, script, "(define-sort Heap_Bool () (Array Field Bool))\n")
	assert.Contains(t, script, "(declare-const f_f Field)\n(declare-const g_f Field)\n")
	assert.Contains(t, script, "(declare-const heap_Int Heap_Int)\n")
	assert.Contains(t, script, "(assert (not (= f_f g_f)))\n")
	assert.Contains(t, script, "(assert (not (= (select heap_Int f_f) (select heap_Int g_f))))\n")

	enc.ConciseProofs = true
	script, err = enc.Generate(syntax.True{}, succ)
	require.NoError(t, err)
	assert.NotContains(t, script, "Heap_Bool")
	assert.Contains(t, script, "(define-sort Heap_Int () (Array Field Int))\n")
}

func Test_GenerateSharedPlaceholder(t *testing.T) {
	ph := syntax.Placeholder{Name: "v", Type: syntax.IntType}
	only := syntax.Placeholder{Name: "w", Type: syntax.IntType}
	enc := newEncoder(t, &model.Model{})
	script, err := enc.Generate(syntax.Conj(syntax.Eq(ph, x), syntax.Eq(only, x)), syntax.Eq(ph, x))
	require.NoError(t, err)
	assert.Contains(t, script, "(declare-const ph_v_g Int)\n")
	assert.Contains(t, script, "(declare-const ph_w Int)\n")
	assert.NotContains(t, script, "(declare-const ph_v Int)")
	assert.Contains(t, script, "(assert (exists ((ph_v Int)) (and (and (= ph_v x) (= ph_w x)) (= ph_v ph_v_g))))\n")
	assert.Contains(t, script, "(assert (not (= ph_v_g x)))\n")
}

func listModel() *model.Model {
	a := syntax.Type{Name: "A", Kind: syntax.ParamKind}
	b := syntax.Type{Name: "B", Kind: syntax.ParamKind}
	list := syntax.Type{Name: "List", Kind: syntax.DataKind, Args: []syntax.Type{a}}
	return &model.Model{
		DataTypes: []*model.DataType{
			{Name: "List", Params: []string{"A"}, Constructors: []model.Constructor{
				{Name: "Nil"},
				{Name: "Cons", Args: []model.Param{{Name: "head", Type: a}, {Name: "tail", Type: list}}},
			}},
			{Name: "Pair", Params: []string{"A", "B"}, Constructors: []model.Constructor{
				{Name: "mk", Args: []model.Param{{Name: "fst", Type: a}, {Name: "snd", Type: b}}},
			}},
			{Name: "Color", Constructors: []model.Constructor{{Name: "Red"}, {Name: "Green"}}},
		},
		Interfaces: []*model.Interface{{Name: "I"}, {Name: "J", Extends: []string{"I"}}},
		Functions: []*model.Function{
			{
				Name:     "inc",
				Params:   []model.Param{{Name: "n", Type: syntax.IntType}},
				Result:   syntax.IntType,
				Requires: pred(">=", syntax.ProgVar{Name: "n", Type: syntax.IntType}, zero),
				Ensures: syntax.Eq(syntax.ResultVar(syntax.IntType),
					syntax.Function{Name: "+", Params: []syntax.Term{syntax.ProgVar{Name: "n", Type: syntax.IntType}, one}}),
			},
			{
				Name:   "twice",
				Params: []model.Param{{Name: "n", Type: syntax.IntType}},
				Result: syntax.IntType,
				Body:   syntax.Function{Name: "*", Params: []syntax.Term{syntax.IntConst("2"), syntax.ProgVar{Name: "n", Type: syntax.IntType}}},
			},
		},
	}
}

func Test_GenerateDataTypesAndFunctions(t *testing.T) {
	intList := syntax.Type{Name: "List", Kind: syntax.DataKind, Args: []syntax.Type{syntax.IntType}}
	pair := syntax.Type{Name: "Pair", Kind: syntax.DataKind, Args: []syntax.Type{intList, syntax.BoolType}}
	p := syntax.ProgVar{Name: "p", Type: pair}
	nilList := syntax.DataTypeConst{Name: "Nil", Type: intList}

	enc := newEncoder(t, listModel())
	succ := syntax.Eq(syntax.Function{Name: "mk_Pair_List_Int_Bool_fst", Params: []syntax.Term{p}}, nilList)
	script, err := enc.Generate(syntax.True{}, succ)
	require.NoError(t, err)

	assert.Contains(t, script, "(declare-datatypes ((Color 0) (Pair_List_Int_Bool 0) (List_Int 0)) (")
	assert.Contains(t, script, "((Red) (Green))")
	assert.Contains(t, script, "((Nil_List_Int) (Cons_List_Int (Cons_List_Int_head Int) (Cons_List_Int_tail List_Int)))")
	assert.Contains(t, script, "((mk_Pair_List_Int_Bool (mk_Pair_List_Int_Bool_fst List_Int) (mk_Pair_List_Int_Bool_snd Bool)))")
	assert.Contains(t, script, "(declare-datatypes ((Interface 0)) (((I) (J))))\n")
	assert.Contains(t, script, "(assert (extends J I))\n")
	assert.Contains(t, script, "(declare-fun inc (Int) Int)\n(assert (forall ((n Int)) (=> (>= n 0) (= (inc n) (+ n 1)))))\n")
	assert.Contains(t, script, "(define-funs-rec ((twice ((n Int)) Int)) ((* 2 n)))\n")
	assert.Contains(t, script, "(declare-const p Pair_List_Int_Bool)\n")
	assert.Contains(t, script, "Nil_List_Int)))\n")
}

func Test_GenerateObjectsAndFutures(t *testing.T) {
	iface := syntax.Type{Name: "J", Kind: syntax.InterfaceKind}
	obj := syntax.ObjectTerm{Name: "NEW_0", Class: "C", Implements: []syntax.Type{{Name: "I", Kind: syntax.InterfaceKind}}}
	o := syntax.ProgVar{Name: "o", Type: iface}
	fut := syntax.WildCardVar{Name: "fut_1", Type: syntax.IntType}

	enc := newEncoder(t, listModel())
	ante := syntax.Eq(o, obj)
	succ := syntax.Eq(syntax.Function{Name: "valueOf_Int", Params: []syntax.Term{fut}}, zero)
	script, err := enc.Generate(ante, succ)
	require.NoError(t, err)
	assert.Contains(t, script, "(declare-fun valueOf_Int (Int) Int)\n")
	assert.Contains(t, script, "(declare-const o Int)\n(assert (implements o J))\n")
	assert.Contains(t, script, "(declare-const fut_1 Int)\n")
	assert.Contains(t, script, "(declare-const NEW_0 Int)\n(assert (implements NEW_0 I))\n")
}

func Test_GenerateUnknownDataType(t *testing.T) {
	enc := newEncoder(t, &model.Model{})
	v := syntax.ProgVar{Name: "v", Type: syntax.Type{Name: "Tree", Kind: syntax.DataKind}}
	_, err := enc.Generate(syntax.True{}, syntax.Eq(v, v))
	assert.True(t, syntax.IsUnsupported(err))
}
