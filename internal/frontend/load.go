// Package frontend 读取证明单元: YAML 文件与 s 表达式公式
package frontend

import (
	"gverify/internal/model"
	"gverify/internal/syntax"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type paramSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type constructorSpec struct {
	Name string      `yaml:"name"`
	Args []paramSpec `yaml:"args"`
}

type dataTypeSpec struct {
	Name         string            `yaml:"name"`
	Params       []string          `yaml:"params"`
	Constructors []constructorSpec `yaml:"constructors"`
}

type interfaceSpec struct {
	Name    string   `yaml:"name"`
	Extends []string `yaml:"extends"`
}

type functionSpec struct {
	Name       string      `yaml:"name"`
	TypeParams []string    `yaml:"typeparams"`
	Params     []paramSpec `yaml:"params"`
	Type       string      `yaml:"type"`
	Requires   string      `yaml:"requires"`
	Ensures    string      `yaml:"ensures"`
	Body       string      `yaml:"body"`
}

type methodSpec struct {
	Name     string      `yaml:"name"`
	Params   []paramSpec `yaml:"params"`
	Type     string      `yaml:"type"`
	Requires string      `yaml:"requires"`
	Ensures  string      `yaml:"ensures"`
	Body     []yaml.Node `yaml:"body"`
}

type classSpec struct {
	Name       string       `yaml:"name"`
	Params     []paramSpec  `yaml:"params"`
	Implements []string     `yaml:"implements"`
	Fields     []paramSpec  `yaml:"fields"`
	Invariant  string       `yaml:"invariant"`
	Requires   string       `yaml:"requires"`
	Init       []yaml.Node  `yaml:"init"`
	Methods    []methodSpec `yaml:"methods"`
}

type mainSpec struct {
	Vars      []paramSpec `yaml:"vars"`
	Requires  string      `yaml:"requires"`
	Ensures   string      `yaml:"ensures"`
	Prob      string      `yaml:"prob"`
	Bound     string      `yaml:"bound"`
	Invariant string      `yaml:"invariant"`
	Body      []yaml.Node `yaml:"body"`
}

type fileSpec struct {
	Name       string          `yaml:"name"`
	DataTypes  []dataTypeSpec  `yaml:"datatypes"`
	Interfaces []interfaceSpec `yaml:"interfaces"`
	Functions  []functionSpec  `yaml:"functions"`
	Classes    []classSpec     `yaml:"classes"`
	Main       *mainSpec       `yaml:"main"`
}

type parser struct {
	dataTypes    map[string]*model.DataType
	constructors map[string]*ctor
	interfaces   map[string]*model.Interface
	functions    map[string]*model.Function
	classes      map[string]*model.Class
	// pp numbers loops across the whole unit.
	pp int
}

func newParser() *parser {
	return &parser{
		dataTypes:    make(map[string]*model.DataType),
		constructors: make(map[string]*ctor),
		interfaces:   make(map[string]*model.Interface),
		functions:    make(map[string]*model.Function),
		classes:      make(map[string]*model.Class),
	}
}

// Load reads a proof-unit file. The unit is named after the file unless
// it names itself.
func Load(path string) (*model.Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Parse(name, data)
}

func Parse(name string, data []byte) (*model.Repository, error) {
	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, syntax.Malformed(name, "%v", err)
	}
	if spec.Name != "" {
		name = spec.Name
	}
	m, err := newParser().model(name, &spec)
	if err != nil {
		return nil, err
	}
	return model.NewRepository(m)
}

func (p *parser) model(name string, spec *fileSpec) (*model.Model, error) {
	m := &model.Model{Name: name}

	for _, ds := range spec.DataTypes {
		d := &model.DataType{Name: ds.Name, Params: ds.Params}
		p.dataTypes[d.Name] = d
		m.DataTypes = append(m.DataTypes, d)
	}
	for _, is := range spec.Interfaces {
		i := &model.Interface{Name: is.Name, Extends: is.Extends}
		p.interfaces[i.Name] = i
		m.Interfaces = append(m.Interfaces, i)
	}
	for i, ds := range spec.DataTypes {
		d := m.DataTypes[i]
		for _, cs := range ds.Constructors {
			args, err := p.params(cs.Args, ds.Params)
			if err != nil {
				return nil, errors.Wrapf(err, "data type %s", ds.Name)
			}
			c := model.Constructor{Name: cs.Name, Args: args}
			if _, ok := p.constructors[c.Name]; ok {
				return nil, syntax.Malformed(c.Name, "constructor %s is declared twice", c.Name)
			}
			d.Constructors = append(d.Constructors, c)
			p.constructors[c.Name] = &ctor{dataType: d, cons: c}
		}
	}

	for _, fs := range spec.Functions {
		f, err := p.signature(fs)
		if err != nil {
			return nil, errors.Wrapf(err, "function %s", fs.Name)
		}
		p.functions[f.Name] = f
		m.Functions = append(m.Functions, f)
	}
	for i, fs := range spec.Functions {
		if err := p.functionBody(m.Functions[i], fs); err != nil {
			return nil, errors.Wrapf(err, "function %s", fs.Name)
		}
	}

	for _, cs := range spec.Classes {
		c, err := p.classHeader(cs)
		if err != nil {
			return nil, errors.Wrapf(err, "class %s", cs.Name)
		}
		p.classes[c.Name] = c
		m.Classes = append(m.Classes, c)
	}
	for i, cs := range spec.Classes {
		if err := p.classBody(m.Classes[i], cs); err != nil {
			return nil, errors.Wrapf(err, "class %s", cs.Name)
		}
	}

	if spec.Main != nil {
		main, err := p.main(spec.Main)
		if err != nil {
			return nil, errors.Wrap(err, "main block")
		}
		m.Main = main
	}
	return m, nil
}

func (p *parser) params(specs []paramSpec, typeParams []string) ([]model.Param, error) {
	res := make([]model.Param, len(specs))
	for i, ps := range specs {
		t, err := p.parseType(ps.Type, typeParams)
		if err != nil {
			return nil, err
		}
		res[i] = model.Param{Name: ps.Name, Type: t}
	}
	return res, nil
}

func (p *parser) signature(fs functionSpec) (*model.Function, error) {
	params, err := p.params(fs.Params, fs.TypeParams)
	if err != nil {
		return nil, err
	}
	result, err := p.parseType(fs.Type, fs.TypeParams)
	if err != nil {
		return nil, err
	}
	return &model.Function{Name: fs.Name, TypeParams: fs.TypeParams, Params: params, Result: result}, nil
}

func (p *parser) functionBody(f *model.Function, fs functionSpec) error {
	sc := newScope(f.Params, nil)
	var err error
	if f.Requires, err = p.formula(sc.contract(nil), fs.Requires); err != nil {
		return err
	}
	if f.Ensures, err = p.formula(sc.contract(&f.Result), fs.Ensures); err != nil {
		return err
	}
	if strings.TrimSpace(fs.Body) == "" {
		return nil
	}
	e, err := p.exprText(sc, fs.Body, &f.Result)
	if err != nil {
		return err
	}
	f.Body, err = syntax.ExprToTerm(e)
	return err
}

func (p *parser) classHeader(cs classSpec) (*model.Class, error) {
	params, err := p.params(cs.Params, nil)
	if err != nil {
		return nil, err
	}
	fields, err := p.params(cs.Fields, nil)
	if err != nil {
		return nil, err
	}
	c := &model.Class{Name: cs.Name, Params: params}
	for _, f := range fields {
		c.Fields = append(c.Fields, syntax.Field{Name: f.Name, Type: f.Type})
	}
	for _, name := range cs.Implements {
		if _, ok := p.interfaces[name]; !ok {
			return nil, syntax.Malformed(cs.Name, "%s implements unknown interface %s", cs.Name, name)
		}
		c.Implements = append(c.Implements, syntax.Type{Name: name, Kind: syntax.InterfaceKind})
	}
	return c, nil
}

func (p *parser) classBody(c *model.Class, cs classSpec) error {
	var err error
	fieldScope := newScope(nil, c.Fields)
	if c.Invariant, err = p.formula(fieldScope.contract(nil), cs.Invariant); err != nil {
		return err
	}
	initScope := newScope(c.Params, c.Fields)
	if c.Requires, err = p.formula(initScope.contract(nil), cs.Requires); err != nil {
		return err
	}
	if c.Init, err = p.block(initScope, cs.Init); err != nil {
		return errors.Wrap(err, "init block")
	}
	for _, ms := range cs.Methods {
		m, err := p.method(c, ms)
		if err != nil {
			return errors.Wrapf(err, "method %s", ms.Name)
		}
		c.Methods = append(c.Methods, m)
	}
	return nil
}

func (p *parser) method(c *model.Class, ms methodSpec) (*model.Method, error) {
	params, err := p.params(ms.Params, nil)
	if err != nil {
		return nil, err
	}
	result := syntax.UnitType
	if ms.Type != "" {
		if result, err = p.parseType(ms.Type, nil); err != nil {
			return nil, err
		}
	}
	m := &model.Method{Name: ms.Name, Params: params, Result: result}
	sc := newScope(params, c.Fields)
	if m.Requires, err = p.formula(sc.contract(nil), ms.Requires); err != nil {
		return nil, err
	}
	if m.Body, err = p.block(sc, ms.Body); err != nil {
		return nil, err
	}
	if m.Ensures, err = p.formula(sc.contract(&m.Result), ms.Ensures); err != nil {
		return nil, err
	}
	return m, nil
}

func (p *parser) main(ms *mainSpec) (*model.Main, error) {
	vars, err := p.params(ms.Vars, nil)
	if err != nil {
		return nil, err
	}
	m := &model.Main{Vars: vars, Prob: strings.TrimSpace(ms.Prob), Bound: strings.TrimSpace(ms.Bound)}
	if m.Prob != "" {
		if _, err := strconv.ParseFloat(m.Prob, 64); err != nil {
			return nil, syntax.Malformed(m.Prob, "probability must be a number")
		}
	}
	switch m.Bound {
	case "", ">=", "=", "<=":
	default:
		return nil, syntax.Malformed(m.Bound, "probability bound must be one of >=, =, <=")
	}
	sc := newScope(vars, nil)
	if m.Requires, err = p.formula(sc.contract(nil), ms.Requires); err != nil {
		return nil, err
	}
	if m.Body, err = p.block(sc, ms.Body); err != nil {
		return nil, err
	}
	// locals declared in the body are visible to the postcondition
	if m.Ensures, err = p.formula(sc.contract(nil), ms.Ensures); err != nil {
		return nil, err
	}
	if m.Invariant, err = p.formula(sc.contract(nil), ms.Invariant); err != nil {
		return nil, err
	}
	return m, nil
}
