package frontend

import (
	"gverify/internal/model"
	"gverify/internal/syntax"
	"strconv"
	"strings"
)

var operators = map[string]struct{}{
	"+": {}, "-": {}, "*": {}, "/": {}, "div": {}, "mod": {}, "%": {},
	"<": {}, "<=": {}, ">": {}, ">=": {}, "=": {}, "==": {}, "!=": {}, "distinct": {},
	"and": {}, "or": {}, "not": {}, "=>": {}, "->": {}, "&&": {}, "||": {}, "!": {},
	"ite": {},
}

// scope resolves identifiers. Formulas may use placeholders ?x and, in
// postconditions, result.
type scope struct {
	vars    map[string]syntax.Type
	fields  map[string]syntax.Field
	result  *syntax.Type
	formula bool
}

func newScope(params []model.Param, fields []syntax.Field) *scope {
	sc := &scope{
		vars:   make(map[string]syntax.Type),
		fields: make(map[string]syntax.Field),
	}
	for _, p := range params {
		sc.vars[p.Name] = p.Type
	}
	for _, f := range fields {
		sc.fields[f.Name] = f
	}
	return sc
}

func (sc *scope) declare(name string, t syntax.Type) {
	sc.vars[name] = t
}

// contract is a copy of sc for formulas; result is bound when t is given.
func (sc *scope) contract(result *syntax.Type) *scope {
	return &scope{vars: sc.vars, fields: sc.fields, result: result, formula: true}
}

type ctor struct {
	dataType *model.DataType
	cons     model.Constructor
}

func (p *parser) expr(sc *scope, n Node) (syntax.Expr, error) {
	return p.exprHint(sc, n, nil)
}

// exprHint converts n; hint is the expected type, used to instantiate
// constructors of generic data types.
func (p *parser) exprHint(sc *scope, n Node, hint *syntax.Type) (syntax.Expr, error) {
	if !n.IsList {
		return p.atom(sc, n, hint)
	}
	head, ok := n.Head()
	if !ok {
		return nil, syntax.Malformed(n.PrettyPrint(), "expected an operator")
	}
	args := n.List[1:]
	if head == "as" {
		return p.annotated(sc, n)
	}
	if _, ok := operators[head]; ok {
		res := syntax.SExpr{Op: head, Args: make([]syntax.Expr, len(args))}
		for i := range args {
			e, err := p.expr(sc, args[i])
			if err != nil {
				return nil, err
			}
			res.Args[i] = e
		}
		return res, nil
	}
	if c, ok := p.constructors[head]; ok {
		return p.construct(sc, n, c, args, hint)
	}
	if fn, ok := p.functions[head]; ok {
		if len(args) != len(fn.Params) {
			return nil, syntax.Malformed(n.PrettyPrint(), "%s takes %d arguments, got %d", head, len(fn.Params), len(args))
		}
		res := syntax.SExpr{Op: head, Args: make([]syntax.Expr, len(args)), Type: fn.Result}
		for i := range args {
			e, err := p.exprHint(sc, args[i], &fn.Params[i].Type)
			if err != nil {
				return nil, err
			}
			res.Args[i] = e
		}
		return res, nil
	}
	return nil, syntax.Unsupported("operator "+head, n)
}

func (p *parser) annotated(sc *scope, n Node) (syntax.Expr, error) {
	if len(n.List) != 3 || n.List[2].IsList {
		return nil, syntax.Malformed(n.PrettyPrint(), "expected (as expr Type)")
	}
	t, err := p.parseType(n.List[2].Atom, nil)
	if err != nil {
		return nil, err
	}
	target := n.List[1]
	if !target.IsList && sc.formula && strings.HasPrefix(target.Atom, "?") {
		return syntax.ProgVar{Name: target.Atom, Type: t}, nil
	}
	e, err := p.exprHint(sc, target, &t)
	if err != nil {
		return nil, err
	}
	if s, ok := e.(syntax.SExpr); ok {
		s.Type = t
		return s, nil
	}
	return e, nil
}

func (p *parser) atom(sc *scope, n Node, hint *syntax.Type) (syntax.Expr, error) {
	a := n.Atom
	if n.Quoted {
		return syntax.ConstExpr{Value: a, Type: syntax.StringType}, nil
	}
	switch a {
	case "true", "false":
		return syntax.ConstExpr{Value: a, Type: syntax.BoolType}, nil
	}
	if _, err := strconv.ParseInt(a, 10, 64); err == nil {
		return syntax.ConstExpr{Value: a, Type: syntax.IntType}, nil
	}
	if _, err := strconv.ParseFloat(a, 64); err == nil && strings.Contains(a, ".") {
		return syntax.ConstExpr{Value: a, Type: syntax.RealType}, nil
	}
	if sc.formula && strings.HasPrefix(a, "?") && len(a) > 1 {
		return syntax.ProgVar{Name: a, Type: syntax.IntType}, nil
	}
	if a == "result" && sc.result != nil {
		return syntax.ResultVar(*sc.result), nil
	}
	if name := strings.TrimPrefix(a, "this."); name != a {
		if f, ok := sc.fields[name]; ok {
			return f, nil
		}
		return nil, syntax.Malformed(a, "unknown field %s", name)
	}
	if t, ok := sc.vars[a]; ok {
		return syntax.ProgVar{Name: a, Type: t}, nil
	}
	if f, ok := sc.fields[a]; ok {
		return f, nil
	}
	if c, ok := p.constructors[a]; ok {
		return p.construct(sc, n, c, nil, hint)
	}
	if fn, ok := p.functions[a]; ok && len(fn.Params) == 0 {
		return syntax.SExpr{Op: a, Type: fn.Result}, nil
	}
	return nil, syntax.Malformed(a, "unknown identifier %s", a)
}

func (p *parser) construct(sc *scope, n Node, c *ctor, args []Node, hint *syntax.Type) (syntax.Expr, error) {
	if len(args) != len(c.cons.Args) {
		return nil, syntax.Malformed(n.PrettyPrint(), "%s takes %d arguments, got %d", c.cons.Name, len(c.cons.Args), len(args))
	}
	binding := make(map[string]syntax.Type)
	if hint != nil && !unify(c.dataType.Type(), *hint, binding) {
		return nil, syntax.Malformed(n.PrettyPrint(), "%s does not build a %s", c.cons.Name, hint.String())
	}
	res := syntax.DataTypeExpr{Name: c.cons.Name, Args: make([]syntax.Expr, len(args))}
	for i := range args {
		expected := c.cons.Args[i].Type.Bind(binding)
		var argHint *syntax.Type
		if concrete(expected) {
			argHint = &expected
		}
		e, err := p.exprHint(sc, args[i], argHint)
		if err != nil {
			return nil, err
		}
		if !unify(c.cons.Args[i].Type, syntax.TypeOf(e), binding) {
			return nil, syntax.Malformed(n.PrettyPrint(), "argument %d of %s has type %s", i+1, c.cons.Name, syntax.TypeOf(e).String())
		}
		res.Args[i] = e
	}
	res.Type = c.dataType.Type().Bind(binding)
	if !concrete(res.Type) {
		return nil, syntax.Unsupported("generic constructor without type annotation", n)
	}
	return res, nil
}

func concrete(t syntax.Type) bool {
	if t.IsParam() || t.IsUnknown() {
		return false
	}
	for _, a := range t.Args {
		if !concrete(a) {
			return false
		}
	}
	return true
}

// formula parses a contract. An empty text is an absent formula.
func (p *parser) formula(sc *scope, text string) (syntax.Formula, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	n, err := ParseSExpr(text)
	if err != nil {
		return nil, err
	}
	e, err := p.expr(sc, n)
	if err != nil {
		return nil, err
	}
	f, err := syntax.ExprToForm(e)
	if err != nil {
		return nil, err
	}
	return syntax.ReplaceFormula(f, placeholders), nil
}

func placeholders(t syntax.Term) (syntax.Term, bool) {
	if v, ok := t.(syntax.ProgVar); ok && strings.HasPrefix(v.Name, "?") {
		return syntax.Placeholder{Name: v.Name[1:], Type: v.Type}, true
	}
	return nil, false
}

func (p *parser) exprText(sc *scope, text string, hint *syntax.Type) (syntax.Expr, error) {
	n, err := ParseSExpr(text)
	if err != nil {
		return nil, err
	}
	return p.exprHint(sc, n, hint)
}
