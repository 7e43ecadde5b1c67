package smt

import (
	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
)

type Bool struct {
	value yices2.TermT
}

func NewBoolVal(value bool) Bool {
	if value {
		return Bool{value: yices2.True()}
	}
	return Bool{value: yices2.False()}
}

func NewBoolFromTerm(term yices2.TermT) Bool {
	return Bool{value: term}
}

func (b Bool) GetRaw() yices2.TermT {
	return b.value
}

func (b Bool) Not() Bool {
	return Bool{value: yices2.Not(b.value)}
}

func (b Bool) And(others ...Bool) Bool {
	terms := []yices2.TermT{b.value}
	for _, o := range others {
		terms = append(terms, o.value)
	}
	return Bool{value: yices2.And(terms)}
}

func (b Bool) Or(o Bool) Bool {
	return Bool{value: yices2.Or2(b.value, o.value)}
}

func (b Bool) Implies(o Bool) Bool {
	return Bool{value: yices2.Implies(b.value, o.value)}
}
