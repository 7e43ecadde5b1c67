package model

import (
	"gverify/internal/syntax"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listOf(arg syntax.Type) syntax.Type {
	return syntax.Type{Name: "List", Kind: syntax.DataKind, Args: []syntax.Type{arg}}
}

func sampleModel() *Model {
	a := syntax.Type{Name: "A", Kind: syntax.ParamKind}
	color := &DataType{Name: "Color", Constructors: []Constructor{{Name: "Red"}, {Name: "Green"}}}
	list := &DataType{
		Name:   "List",
		Params: []string{"A"},
		Constructors: []Constructor{
			{Name: "Nil"},
			{Name: "Cons", Args: []Param{{Name: "head", Type: a}, {Name: "tail", Type: listOf(a)}}},
		},
	}
	return &Model{
		Name:       "sample",
		DataTypes:  []*DataType{color, list},
		Interfaces: []*Interface{{Name: "I"}, {Name: "J", Extends: []string{"I"}}},
		Classes: []*Class{
			{Name: "C", Fields: []syntax.Field{{Name: "f", Type: syntax.IntType}, {Name: "g", Type: syntax.BoolType}}},
			{Name: "D", Fields: []syntax.Field{{Name: "h", Type: syntax.IntType}}},
		},
	}
}

func Test_Repository(t *testing.T) {
	repo, err := NewRepository(sampleModel())
	require.NoError(t, err)

	_, ok := repo.DataType("List")
	assert.True(t, ok)
	assert.True(t, repo.IsInterface("J"))
	assert.False(t, repo.IsInterface("List"))
	_, ok = repo.Class("D")
	assert.True(t, ok)

	heaps := repo.HeapTypes()
	require.Len(t, heaps, 2)
	assert.Equal(t, "Int", heaps[0].SMTName())
	assert.Equal(t, "Bool", heaps[1].SMTName())
}

func Test_RepositoryRejects(t *testing.T) {
	m := sampleModel()
	m.Classes = append(m.Classes, &Class{Name: "I"})
	_, err := NewRepository(m)
	assert.True(t, syntax.IsMalformed(err))

	m = sampleModel()
	m.Interfaces = append(m.Interfaces, &Interface{Name: "K", Extends: []string{"L"}})
	_, err = NewRepository(m)
	assert.True(t, syntax.IsMalformed(err))

	m = sampleModel()
	m.Functions = []*Function{{Name: "id", TypeParams: []string{"T"}}}
	_, err = NewRepository(m)
	assert.True(t, syntax.IsMalformed(err))

	m = sampleModel()
	m.DataTypes = append(m.DataTypes, &DataType{Name: "Empty"})
	_, err = NewRepository(m)
	assert.True(t, syntax.IsMalformed(err))
}

func Test_DataTypeDecls(t *testing.T) {
	repo, err := NewRepository(sampleModel())
	require.NoError(t, err)

	decls, err := repo.DataTypeDecls(listOf(listOf(syntax.IntType)), syntax.IntType)
	require.NoError(t, err)
	sorts := make([]string, len(decls))
	for i, d := range decls {
		sorts[i] = d.Sort
	}
	assert.Equal(t, []string{"Color", "List_List_Int", "List_Int"}, sorts)

	cons := decls[2].Constructors[1]
	assert.Equal(t, "Cons_List_Int", cons.Name)
	require.Len(t, cons.Selectors, 2)
	assert.Equal(t, "Cons_List_Int_head", cons.Selectors[0].Name)
	assert.Equal(t, "Int", cons.Selectors[0].Type.SMTName())

	_, err = repo.DataTypeDecls(syntax.Type{Name: "Tree", Kind: syntax.DataKind})
	assert.True(t, syntax.IsUnsupported(err))
}
