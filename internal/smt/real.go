package smt

import (
	"fmt"
	"strings"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
)

// Real is a real-valued yices2 term.
type Real struct {
	name  string
	value yices2.TermT
}

func NewReal(name string) Real {
	term := yices2.NewUninterpretedTerm(yices2.RealType())
	errcode := yices2.SetTermName(term, name)
	if errcode < 0 {
		fmt.Println("set term name ", errcode)
	}
	return Real{name: name, value: term}
}

// NewInt is an integer-valued term; it mixes freely with reals.
func NewInt(name string) Real {
	term := yices2.NewUninterpretedTerm(yices2.IntType())
	errcode := yices2.SetTermName(term, name)
	if errcode < 0 {
		fmt.Println("set term name ", errcode)
	}
	return Real{name: name, value: term}
}

// NewRealVal parses a decimal such as 0.25 or a rational such as 1/4.
func NewRealVal(value string) (Real, error) {
	var term yices2.TermT
	if strings.ContainsAny(value, ".eE") {
		term = yices2.ParseFloat(value)
	} else {
		term = yices2.ParseRational(value)
	}
	if term == yices2.NullTerm {
		return Real{}, fmt.Errorf("parse real %q: %s", value, yices2.ErrorString())
	}
	return Real{value: term}, nil
}

func (r Real) GetRaw() yices2.TermT { return r.value }
func (r Real) Name() string         { return r.name }

func (r Real) Add(o Real) Real { return Real{value: yices2.Add(r.value, o.value)} }
func (r Real) Sub(o Real) Real { return Real{value: yices2.Sub(r.value, o.value)} }
func (r Real) Mul(o Real) Real { return Real{value: yices2.Mul(r.value, o.value)} }
func (r Real) Div(o Real) Real { return Real{value: yices2.Division(r.value, o.value)} }

func (r Real) Eq(o Real) Bool  { return NewBoolFromTerm(yices2.ArithEqAtom(r.value, o.value)) }
func (r Real) Leq(o Real) Bool { return NewBoolFromTerm(yices2.ArithLeqAtom(r.value, o.value)) }
func (r Real) Geq(o Real) Bool { return NewBoolFromTerm(yices2.ArithGeqAtom(r.value, o.value)) }
func (r Real) Lt(o Real) Bool  { return NewBoolFromTerm(yices2.ArithLtAtom(r.value, o.value)) }
func (r Real) Gt(o Real) Bool  { return NewBoolFromTerm(yices2.ArithGtAtom(r.value, o.value)) }
func (r Real) Neq(o Real) Bool { return NewBoolFromTerm(yices2.ArithNeqAtom(r.value, o.value)) }

func IteReal(cond Bool, then, els Real) Real {
	return Real{value: yices2.Ite(cond.GetRaw(), then.value, els.value)}
}
