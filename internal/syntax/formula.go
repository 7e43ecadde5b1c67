package syntax

import "strings"

type Formula interface {
	Anything
	isFormula()
	ToSMT() string
}

type True struct{}

func (True) isFormula()           {}
func (True) PrettyPrint() string  { return "true" }
func (True) Children() []Anything { return nil }
func (True) ToSMT() string        { return "true" }

type False struct{}

func (False) isFormula()           {}
func (False) PrettyPrint() string  { return "false" }
func (False) Children() []Anything { return nil }
func (False) ToSMT() string        { return "false" }

type And struct {
	Left, Right Formula
}

func (And) isFormula()             {}
func (f And) PrettyPrint() string  { return "(" + f.Left.PrettyPrint() + " /\\ " + f.Right.PrettyPrint() + ")" }
func (f And) Children() []Anything { return []Anything{f.Left, f.Right} }
func (f And) ToSMT() string        { return "(and " + f.Left.ToSMT() + " " + f.Right.ToSMT() + ")" }

type Or struct {
	Left, Right Formula
}

func (Or) isFormula()             {}
func (f Or) PrettyPrint() string  { return "(" + f.Left.PrettyPrint() + " \\/ " + f.Right.PrettyPrint() + ")" }
func (f Or) Children() []Anything { return []Anything{f.Left, f.Right} }
func (f Or) ToSMT() string        { return "(or " + f.Left.ToSMT() + " " + f.Right.ToSMT() + ")" }

type Impl struct {
	Left, Right Formula
}

func (Impl) isFormula()             {}
func (f Impl) PrettyPrint() string  { return "(" + f.Left.PrettyPrint() + " -> " + f.Right.PrettyPrint() + ")" }
func (f Impl) Children() []Anything { return []Anything{f.Left, f.Right} }
func (f Impl) ToSMT() string        { return "(=> " + f.Left.ToSMT() + " " + f.Right.ToSMT() + ")" }

type Not struct {
	Arg Formula
}

func (Not) isFormula()             {}
func (f Not) PrettyPrint() string  { return "!" + f.Arg.PrettyPrint() }
func (f Not) Children() []Anything { return []Anything{f.Arg} }
func (f Not) ToSMT() string        { return "(not " + f.Arg.ToSMT() + ")" }

// Predicate is an atomic formula: a comparison or a user predicate.
type Predicate struct {
	Name   string
	Params []Term
}

func (Predicate) isFormula() {}
func (p Predicate) PrettyPrint() string {
	if len(p.Params) == 2 && isInfix(p.Name) {
		return p.Params[0].PrettyPrint() + " " + p.Name + " " + p.Params[1].PrettyPrint()
	}
	if len(p.Params) == 0 {
		return p.Name
	}
	return p.Name + "(" + printAll(anythings(p.Params), ", ") + ")"
}
func (p Predicate) Children() []Anything { return anythings(p.Params) }
func (p Predicate) ToSMT() string {
	if len(p.Params) == 0 {
		return SMTSymbol(p.Name)
	}
	return "(" + SMTSymbol(p.Name) + " " + smtAll(p.Params) + ")"
}

// Binder is a variable bound by a quantifier.
type Binder struct {
	Name string
	Type Type
}

type Exists struct {
	Vars []Binder
	Body Formula
}

func (Exists) isFormula() {}
func (f Exists) PrettyPrint() string {
	names := make([]string, len(f.Vars))
	for i := range f.Vars {
		names[i] = f.Vars[i].Name
	}
	return "exists " + strings.Join(names, ",") + ". " + f.Body.PrettyPrint()
}
func (f Exists) Children() []Anything { return []Anything{f.Body} }
func (f Exists) ToSMT() string {
	if len(f.Vars) == 0 {
		return f.Body.ToSMT()
	}
	decls := make([]string, len(f.Vars))
	for i, v := range f.Vars {
		decls[i] = "(" + v.Name + " " + v.Type.SMTName() + ")"
	}
	return "(exists (" + strings.Join(decls, " ") + ") " + f.Body.ToSMT() + ")"
}

func Eq(a, b Term) Formula { return Predicate{Name: "=", Params: []Term{a, b}} }

// Conj conjoins fs, dropping True operands.
func Conj(fs ...Formula) Formula {
	var res Formula
	for _, f := range fs {
		if f == nil {
			continue
		}
		if _, ok := f.(True); ok {
			continue
		}
		if res == nil {
			res = f
		} else {
			res = And{Left: res, Right: f}
		}
	}
	if res == nil {
		return True{}
	}
	return res
}

// Disj disjoins fs, dropping False operands.
func Disj(fs ...Formula) Formula {
	var res Formula
	for _, f := range fs {
		if f == nil {
			continue
		}
		if _, ok := f.(False); ok {
			continue
		}
		if res == nil {
			res = f
		} else {
			res = Or{Left: res, Right: f}
		}
	}
	if res == nil {
		return False{}
	}
	return res
}

// Neg negates f, folding constants and double negation.
func Neg(f Formula) Formula {
	switch v := f.(type) {
	case True:
		return False{}
	case False:
		return True{}
	case Not:
		return v.Arg
	}
	return Not{Arg: f}
}

// BoolTerm lifts a boolean-valued term to a formula.
func BoolTerm(t Term) Formula {
	if c, ok := t.(Const); ok && c.Type.Name == "Bool" {
		if c.Value == "true" {
			return True{}
		}
		return False{}
	}
	return Eq(t, TrueConst)
}
