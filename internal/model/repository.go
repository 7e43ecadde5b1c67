package model

import (
	"gverify/internal/syntax"
)

// Repository answers type questions about one model: which names are
// data types or interfaces, which generic instances a set of types
// needs, and which heaps exist.
type Repository struct {
	model      *Model
	dataTypes  map[string]*DataType
	interfaces map[string]*Interface
	functions  map[string]*Function
	classes    map[string]*Class
}

func NewRepository(m *Model) (*Repository, error) {
	r := &Repository{
		model:      m,
		dataTypes:  make(map[string]*DataType),
		interfaces: make(map[string]*Interface),
		functions:  make(map[string]*Function),
		classes:    make(map[string]*Class),
	}
	names := make(map[string]struct{})
	declare := func(name string) error {
		if _, ok := names[name]; ok {
			return syntax.Malformed(name, "%s is declared twice", name)
		}
		names[name] = struct{}{}
		return nil
	}
	for _, d := range m.DataTypes {
		if err := declare(d.Name); err != nil {
			return nil, err
		}
		if len(d.Constructors) == 0 {
			return nil, syntax.Malformed(d.Name, "data type %s has no constructors", d.Name)
		}
		r.dataTypes[d.Name] = d
	}
	for _, i := range m.Interfaces {
		if err := declare(i.Name); err != nil {
			return nil, err
		}
		r.interfaces[i.Name] = i
	}
	for _, i := range m.Interfaces {
		for _, super := range i.Extends {
			if _, ok := r.interfaces[super]; !ok {
				return nil, syntax.Malformed(i.Name, "%s extends unknown interface %s", i.Name, super)
			}
		}
	}
	for _, f := range m.Functions {
		if err := declare(f.Name); err != nil {
			return nil, err
		}
		if len(f.TypeParams) > 0 {
			return nil, syntax.Malformed(f.Name, "parametric function %s is not supported", f.Name)
		}
		r.functions[f.Name] = f
	}
	for _, c := range m.Classes {
		if err := declare(c.Name); err != nil {
			return nil, err
		}
		r.classes[c.Name] = c
	}
	return r, nil
}

func (r *Repository) Model() *Model { return r.model }

func (r *Repository) DataType(name string) (*DataType, bool) {
	d, ok := r.dataTypes[name]
	return d, ok
}

func (r *Repository) IsInterface(name string) bool {
	_, ok := r.interfaces[name]
	return ok
}

func (r *Repository) Interfaces() []*Interface { return r.model.Interfaces }

func (r *Repository) Function(name string) (*Function, bool) {
	f, ok := r.functions[name]
	return f, ok
}

func (r *Repository) Functions() []*Function { return r.model.Functions }

func (r *Repository) Class(name string) (*Class, bool) {
	c, ok := r.classes[name]
	return c, ok
}

// HeapTypes lists the distinct field types of all classes in declaration
// order.
func (r *Repository) HeapTypes() []syntax.Type {
	var (
		seen = make(map[string]struct{})
		res  = make([]syntax.Type, 0)
	)
	for _, c := range r.model.Classes {
		for _, f := range c.Fields {
			name := f.Type.SMTName()
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			res = append(res, f.Type)
		}
	}
	return res
}

