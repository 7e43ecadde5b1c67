package prob

import (
	"context"
	"gverify/internal/smt"
	"gverify/internal/syntax"
	"gverify/internal/tree"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// YicesSolver checks the system in process with the nonlinear real
// arithmetic solver of yices2. The caller owns yices2.Init and Exit.
type YicesSolver struct{}

func NewYicesSolver() *YicesSolver {
	return &YicesSolver{}
}

// Solve checks the equations alone before the goal. An inconsistent
// system is reported as not proved.
func (YicesSolver) Solve(ctx context.Context, eqs []tree.Equation, goal Goal) (smt.Verdict, error) {
	if err := ctx.Err(); err != nil {
		return smt.NotProved, err
	}
	sys := NewSystem(eqs, goal)
	tr := newTranslator()
	for _, sym := range sys.Symbols {
		if err := tr.declare(sym); err != nil {
			return smt.NotProved, err
		}
	}
	base := make([]yices2.TermT, 0, len(sys.Base)+1)
	for _, f := range sys.Base {
		b, err := tr.formula(f)
		if err != nil {
			return smt.NotProved, err
		}
		base = append(base, b.GetRaw())
	}
	g, err := tr.formula(sys.Goal)
	if err != nil {
		return smt.NotProved, err
	}

	status, err := check(base)
	if err != nil {
		return smt.NotProved, errors.Wrap(err, "check equations")
	}
	switch status {
	case yices2.StatusSat:
	case yices2.StatusUnsat:
		log.Warnf("equation system has no solution, goal %s is not checked", goal)
		return smt.NotProved, nil
	default:
		log.Warnf("yices returned status %d on the equation system", status)
		return smt.Undetermined, nil
	}

	status, err = check(append(base, g.Not().GetRaw()))
	if err != nil {
		return smt.NotProved, errors.Wrap(err, "check goal")
	}
	switch status {
	case yices2.StatusUnsat:
		return smt.Proved, nil
	case yices2.StatusSat:
		return smt.NotProved, nil
	}
	log.Warnf("yices returned status %d on goal %s", status, goal)
	return smt.Undetermined, nil
}

func check(terms []yices2.TermT) (yices2.SmtStatusT, error) {
	solver, err := smt.NewSolver("QF_NRA")
	if err != nil {
		return yices2.StatusError, errors.Wrap(err, "create yices context")
	}
	defer solver.Close()
	status, _, err := solver.Check(terms...)
	return status, err
}

// translator maps equation formulas onto yices terms. Only linear and
// nonlinear arithmetic over Int and Real symbols is supported.
type translator struct {
	vars map[string]smt.Real
}

func newTranslator() *translator {
	return &translator{vars: make(map[string]smt.Real)}
}

func (tr *translator) declare(sym syntax.Sorted) error {
	name := sym.ToSMT()
	if _, ok := tr.vars[name]; ok {
		return nil
	}
	t := sym.SortOf()
	switch {
	case t.IsReal():
		tr.vars[name] = smt.NewReal(name)
	case t.Equal(syntax.IntType):
		tr.vars[name] = smt.NewInt(name)
	default:
		return syntax.Unsupported("symbol of sort "+t.SMTName()+" in equations", sym)
	}
	return nil
}

func (tr *translator) formula(f syntax.Formula) (smt.Bool, error) {
	switch v := f.(type) {
	case syntax.True:
		return smt.NewBoolVal(true), nil
	case syntax.False:
		return smt.NewBoolVal(false), nil
	case syntax.Not:
		arg, err := tr.formula(v.Arg)
		if err != nil {
			return smt.Bool{}, err
		}
		return arg.Not(), nil
	case syntax.And:
		l, r, err := tr.pair(v.Left, v.Right)
		if err != nil {
			return smt.Bool{}, err
		}
		return l.And(r), nil
	case syntax.Or:
		l, r, err := tr.pair(v.Left, v.Right)
		if err != nil {
			return smt.Bool{}, err
		}
		return l.Or(r), nil
	case syntax.Impl:
		l, r, err := tr.pair(v.Left, v.Right)
		if err != nil {
			return smt.Bool{}, err
		}
		return l.Implies(r), nil
	case syntax.Predicate:
		return tr.compare(v.Name, v.Params, f)
	}
	return smt.Bool{}, syntax.Unsupported("formula in equations", f)
}

func (tr *translator) pair(left, right syntax.Formula) (smt.Bool, smt.Bool, error) {
	l, err := tr.formula(left)
	if err != nil {
		return smt.Bool{}, smt.Bool{}, err
	}
	r, err := tr.formula(right)
	if err != nil {
		return smt.Bool{}, smt.Bool{}, err
	}
	return l, r, nil
}

func (tr *translator) compare(op string, params []syntax.Term, node syntax.Anything) (smt.Bool, error) {
	if len(params) != 2 {
		return smt.Bool{}, syntax.Unsupported("comparison "+op, node)
	}
	l, err := tr.term(params[0])
	if err != nil {
		return smt.Bool{}, err
	}
	r, err := tr.term(params[1])
	if err != nil {
		return smt.Bool{}, err
	}
	switch op {
	case "=":
		return l.Eq(r), nil
	case "distinct":
		return l.Neq(r), nil
	case "<=":
		return l.Leq(r), nil
	case ">=":
		return l.Geq(r), nil
	case "<":
		return l.Lt(r), nil
	case ">":
		return l.Gt(r), nil
	}
	return smt.Bool{}, syntax.Unsupported("comparison "+op, node)
}

func (tr *translator) term(t syntax.Term) (smt.Real, error) {
	switch v := t.(type) {
	case syntax.Const:
		if !v.Type.IsReal() && !v.Type.Equal(syntax.IntType) {
			return smt.Real{}, syntax.Unsupported("constant in equations", t)
		}
		return smt.NewRealVal(v.Value)
	case syntax.ProgVar, syntax.WildCardVar:
		if r, ok := tr.vars[t.ToSMT()]; ok {
			return r, nil
		}
		panic(syntax.NewInternalError("undeclared symbol %s", t.ToSMT()))
	case syntax.Function:
		return tr.function(v)
	}
	return smt.Real{}, syntax.Unsupported("term in equations", t)
}

func (tr *translator) function(f syntax.Function) (smt.Real, error) {
	if f.Name == "ite" && len(f.Params) == 3 {
		cond, ok := f.Params[0].(syntax.Function)
		if !ok {
			return smt.Real{}, syntax.Unsupported("condition in equations", f.Params[0])
		}
		c, err := tr.compare(cond.Name, cond.Params, cond)
		if err != nil {
			return smt.Real{}, err
		}
		then, err := tr.term(f.Params[1])
		if err != nil {
			return smt.Real{}, err
		}
		els, err := tr.term(f.Params[2])
		if err != nil {
			return smt.Real{}, err
		}
		return smt.IteReal(c, then, els), nil
	}

	args := make([]smt.Real, len(f.Params))
	for i := range f.Params {
		a, err := tr.term(f.Params[i])
		if err != nil {
			return smt.Real{}, err
		}
		args[i] = a
	}
	if f.Name == "to_real" && len(args) == 1 {
		return args[0], nil
	}
	if f.Name == "-" && len(args) == 1 {
		zero, err := smt.NewRealVal("0")
		if err != nil {
			return smt.Real{}, err
		}
		return zero.Sub(args[0]), nil
	}
	if len(args) < 2 {
		return smt.Real{}, syntax.Unsupported("function "+f.Name+" in equations", f)
	}
	res := args[0]
	for _, a := range args[1:] {
		switch f.Name {
		case "+":
			res = res.Add(a)
		case "-":
			res = res.Sub(a)
		case "*":
			res = res.Mul(a)
		case "/":
			res = res.Div(a)
		default:
			return smt.Real{}, syntax.Unsupported("function "+f.Name+" in equations", f)
		}
	}
	return res, nil
}
