package prob

import (
	"gverify/internal/syntax"
)

var (
	zero = syntax.RealConst("0.0")
	one  = syntax.RealConst("1.0")
)

// SetEquation fixes Head to Value.
type SetEquation struct {
	Head  syntax.ProgVar
	Value syntax.Term
}

func (e SetEquation) Formula() syntax.Formula { return syntax.Eq(e.Head, e.Value) }
func (e SetEquation) String() string          { return e.Head.Name + " = " + e.Value.PrettyPrint() }

// MinEquation is a demonic choice: Head is the worse of both outcomes.
type MinEquation struct {
	Head        syntax.ProgVar
	Left, Right syntax.Term
}

func (e MinEquation) Formula() syntax.Formula {
	return syntax.Eq(e.Head, syntax.Function{Name: "ite", Params: []syntax.Term{
		syntax.Function{Name: "<=", Params: []syntax.Term{e.Left, e.Right}},
		e.Left,
		e.Right,
	}})
}
func (e MinEquation) String() string {
	return e.Head.Name + " = min(" + e.Left.PrettyPrint() + ", " + e.Right.PrettyPrint() + ")"
}

// SplitEquation is a probabilistic choice taking Left with probability
// Weight and Right otherwise.
type SplitEquation struct {
	Head        syntax.ProgVar
	Weight      syntax.Term
	Left, Right syntax.Term
}

func (e SplitEquation) Formula() syntax.Formula {
	w := toReal(e.Weight)
	return syntax.Eq(e.Head, syntax.Function{Name: "+", Params: []syntax.Term{
		syntax.Function{Name: "*", Params: []syntax.Term{w, e.Left}},
		syntax.Function{Name: "*", Params: []syntax.Term{
			syntax.Function{Name: "-", Params: []syntax.Term{one, w}},
			e.Right,
		}},
	}})
}
func (e SplitEquation) String() string {
	w := e.Weight.PrettyPrint()
	return e.Head.Name + " = " + w + "*" + e.Left.PrettyPrint() + " + (1-" + w + ")*" + e.Right.PrettyPrint()
}

// toReal converts an integer valued weight, such as a guard over Int
// program variables, so it can be multiplied with probabilities.
func toReal(t syntax.Term) syntax.Term {
	if !intSorted(t) {
		return t
	}
	return syntax.Function{Name: "to_real", Params: []syntax.Term{t}}
}

func intSorted(t syntax.Term) bool {
	switch v := t.(type) {
	case syntax.Const:
		return v.Type.Equal(syntax.IntType)
	case syntax.Sorted:
		return v.SortOf().SMTName() == "Int" && !v.SortOf().IsHeap()
	case syntax.Function:
		switch v.Name {
		case "+", "-", "*", "div", "mod", "abs":
			for _, p := range v.Params {
				if !intSorted(p) {
					return false
				}
			}
			return len(v.Params) > 0
		case "select":
			if len(v.Params) == 2 {
				if heap, ok := v.Params[0].(syntax.Sorted); ok && heap.SortOf().IsHeap() && len(heap.SortOf().Args) == 1 {
					return heap.SortOf().Args[0].SMTName() == "Int"
				}
			}
		}
	}
	return false
}
