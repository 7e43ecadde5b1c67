// Package model 程序元数据: 数据类型, 接口, 函数, 类与主程序
package model

import (
	"gverify/internal/syntax"
)

type Param struct {
	Name string
	Type syntax.Type
}

func (p Param) Var() syntax.ProgVar {
	return syntax.ProgVar{Name: p.Name, Type: p.Type}
}

type Constructor struct {
	Name string
	Args []Param
}

// DataType is a user algebraic data type; Params are its type parameters.
type DataType struct {
	Name         string
	Params       []string
	Constructors []Constructor
}

func (d *DataType) IsGeneric() bool {
	return len(d.Params) > 0
}

// Type is the type of d with its own parameters as arguments.
func (d *DataType) Type() syntax.Type {
	res := syntax.Type{Name: d.Name, Kind: syntax.DataKind}
	for _, p := range d.Params {
		res.Args = append(res.Args, syntax.Type{Name: p, Kind: syntax.ParamKind})
	}
	return res
}

type Interface struct {
	Name    string
	Extends []string
}

// Function is a pure function usable in contracts. A function with a
// Body is defined directly; otherwise only its contract is known.
type Function struct {
	Name       string
	TypeParams []string
	Params     []Param
	Result     syntax.Type
	Requires   syntax.Formula
	Ensures    syntax.Formula
	Body       syntax.Term
}

func (f *Function) IsDirect() bool {
	return f.Body != nil
}

type Method struct {
	Name     string
	Params   []Param
	Result   syntax.Type
	Requires syntax.Formula
	Ensures  syntax.Formula
	Body     syntax.Stmt
}

type Class struct {
	Name       string
	Params     []Param
	Fields     []syntax.Field
	Implements []syntax.Type
	Invariant  syntax.Formula
	// Requires constrains the creation parameters.
	Requires syntax.Formula
	Init     syntax.Stmt
	Methods  []*Method
}

// Main is the main block, verified either against its postcondition or,
// for probabilistic proofs, against a target probability.
type Main struct {
	Vars      []Param
	Requires  syntax.Formula
	Ensures   syntax.Formula
	Body      syntax.Stmt
	Prob      string
	Bound     string
	Invariant syntax.Formula
}

type Model struct {
	Name       string
	DataTypes  []*DataType
	Interfaces []*Interface
	Functions  []*Function
	Classes    []*Class
	Main       *Main
}
