package syntax

import "strings"

var termOps = map[string]string{
	"==": "=",
	"!=": "distinct",
	"&&": "and",
	"||": "or",
	"!":  "not",
	"%":  "mod",
}

var comparisons = map[string]string{
	"=":  "=",
	"==": "=",
	"<":  "<",
	"<=": "<=",
	">":  ">",
	">=": ">=",
}

// ExprToTerm elaborates a surface expression into a solver term. Field
// reads become selects on the heap of the field's type.
func ExprToTerm(e Expr) (Term, error) {
	switch v := e.(type) {
	case ProgVar:
		return v, nil
	case Field:
		return Select(HeapVar(v.Type), v), nil
	case ConstExpr:
		return Const{Value: v.Value, Type: v.Type}, nil
	case DataTypeExpr:
		args, err := exprsToTerms(v.Args)
		if err != nil {
			return nil, err
		}
		return DataTypeConst{Name: v.Name, Type: v.Type, Params: args}, nil
	case SExpr:
		args, err := exprsToTerms(v.Args)
		if err != nil {
			return nil, err
		}
		op := v.Op
		if mapped, ok := termOps[op]; ok {
			op = mapped
		}
		if op == "/" && !TypeOf(v).IsReal() {
			op = "div"
		}
		return Function{Name: op, Params: args}, nil
	}
	return nil, Unsupported("expression", e)
}

func exprsToTerms(es []Expr) ([]Term, error) {
	res := make([]Term, len(es))
	for i := range es {
		t, err := ExprToTerm(es[i])
		if err != nil {
			return nil, err
		}
		res[i] = t
	}
	return res, nil
}

// ExprToForm elaborates a boolean expression into a formula.
func ExprToForm(e Expr) (Formula, error) {
	if c, ok := e.(ConstExpr); ok && c.Type.Name == "Bool" {
		if c.Value == "true" {
			return True{}, nil
		}
		return False{}, nil
	}
	s, ok := e.(SExpr)
	if !ok {
		t, err := ExprToTerm(e)
		if err != nil {
			return nil, err
		}
		return BoolTerm(t), nil
	}
	switch s.Op {
	case "&&", "and", "||", "or":
		args, err := exprsToForms(s.Args)
		if err != nil {
			return nil, err
		}
		if len(args) == 0 {
			return nil, Unsupported("empty connective", e)
		}
		res := args[0]
		for _, arg := range args[1:] {
			if s.Op == "&&" || s.Op == "and" {
				res = And{Left: res, Right: arg}
			} else {
				res = Or{Left: res, Right: arg}
			}
		}
		return res, nil
	case "!", "not":
		if len(s.Args) != 1 {
			return nil, Unsupported("negation arity", e)
		}
		arg, err := ExprToForm(s.Args[0])
		if err != nil {
			return nil, err
		}
		return Not{Arg: arg}, nil
	case "=>", "->":
		if len(s.Args) != 2 {
			return nil, Unsupported("implication arity", e)
		}
		args, err := exprsToForms(s.Args)
		if err != nil {
			return nil, err
		}
		return Impl{Left: args[0], Right: args[1]}, nil
	case "!=":
		args, err := exprsToTerms(s.Args)
		if err != nil {
			return nil, err
		}
		return Not{Arg: Predicate{Name: "=", Params: args}}, nil
	}
	if op, ok := comparisons[s.Op]; ok {
		args, err := exprsToTerms(s.Args)
		if err != nil {
			return nil, err
		}
		return Predicate{Name: op, Params: args}, nil
	}
	t, err := ExprToTerm(e)
	if err != nil {
		return nil, err
	}
	return BoolTerm(t), nil
}

func exprsToForms(es []Expr) ([]Formula, error) {
	res := make([]Formula, len(es))
	for i := range es {
		f, err := ExprToForm(es[i])
		if err != nil {
			return nil, err
		}
		res[i] = f
	}
	return res, nil
}

// TypeOf infers the type of e as far as the syntax tells.
func TypeOf(e Expr) Type {
	switch v := e.(type) {
	case ProgVar:
		return v.Type
	case Field:
		return v.Type
	case ConstExpr:
		return v.Type
	case DataTypeExpr:
		return v.Type
	case NewExpr:
		if len(v.Interfaces) > 0 {
			return v.Interfaces[0]
		}
		return IntType
	case CallExpr:
		return FutType(UnknownType)
	case SExpr:
		if v.Type.Name != "" {
			return v.Type
		}
		switch v.Op {
		case "&&", "and", "||", "or", "!", "not", "=>", "->", "!=", "distinct":
			return BoolType
		}
		if _, ok := comparisons[v.Op]; ok {
			return BoolType
		}
		switch v.Op {
		case "+", "-", "*", "/", "div", "%", "mod":
			for _, arg := range v.Args {
				if TypeOf(arg).IsReal() {
					return RealType
				}
			}
			return IntType
		}
	}
	return UnknownType
}

// DivisionGuards returns, for every division in e in pre-order, the
// formula stating that its divisor is not zero.
func DivisionGuards(e Expr) ([]Formula, error) {
	var res []Formula
	for _, node := range Collect(isDivision, e) {
		s := node.(SExpr)
		if len(s.Args) != 2 {
			continue
		}
		t, err := ExprToTerm(s.Args[1])
		if err != nil {
			return nil, err
		}
		zero := Term(IntConst("0"))
		if TypeOf(s.Args[1]).IsReal() {
			zero = RealConst("0.0")
		}
		res = append(res, Not{Arg: Eq(t, zero)})
	}
	return res, nil
}

func isDivision(a Anything) bool {
	s, ok := a.(SExpr)
	if !ok {
		return false
	}
	switch strings.ToLower(s.Op) {
	case "/", "div", "%", "mod":
		return true
	}
	return false
}
