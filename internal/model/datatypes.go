package model

import (
	"gverify/internal/syntax"
)

type Selector struct {
	Name string
	Type syntax.Type
}

type ConstructorDecl struct {
	Name      string
	Selectors []Selector
}

// DataTypeDecl is one solver datatype: a non-generic user data type or
// one concrete instance of a generic one.
type DataTypeDecl struct {
	Sort         string
	Type         syntax.Type
	Constructors []ConstructorDecl
}

// DataTypeDecls returns every non-generic data type followed by the
// concrete generic instances reachable from roots, including instances
// nested in other instances.
func (r *Repository) DataTypeDecls(roots ...syntax.Type) ([]DataTypeDecl, error) {
	var (
		seen  = make(map[string]struct{})
		res   = make([]DataTypeDecl, 0)
		queue = make([]syntax.Type, 0)
	)
	for _, d := range r.model.DataTypes {
		if !d.IsGeneric() {
			queue = append(queue, d.Type())
		}
	}
	queue = append(queue, roots...)

	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		if t.Kind != syntax.DataKind || !(len(t.Args) == 0 || t.IsConcreteGeneric()) {
			queue = append(queue, t.Args...)
			continue
		}
		sort := t.SMTName()
		if _, ok := seen[sort]; ok {
			continue
		}
		seen[sort] = struct{}{}

		d, ok := r.dataTypes[t.Name]
		if !ok {
			return nil, syntax.Unsupported("data type", syntax.DataTypeConst{Name: t.Name, Type: t})
		}
		if len(d.Params) != len(t.Args) {
			return nil, syntax.Malformed(t.String(), "%s expects %d type arguments", d.Name, len(d.Params))
		}
		binding := make(map[string]syntax.Type, len(d.Params))
		for i, p := range d.Params {
			binding[p] = t.Args[i]
		}
		decl := DataTypeDecl{Sort: sort, Type: t}
		for _, c := range d.Constructors {
			name := syntax.ConstructorName(c.Name, t)
			cd := ConstructorDecl{Name: name}
			for _, a := range c.Args {
				at := a.Type.Bind(binding)
				cd.Selectors = append(cd.Selectors, Selector{Name: name + "_" + a.Name, Type: at})
				queue = append(queue, at)
			}
			decl.Constructors = append(decl.Constructors, cd)
		}
		res = append(res, decl)
	}
	return res, nil
}
