package syntax

// Abstract variables only occur inside rule patterns. Each accepts the
// concrete fragments of its own syntactic category.

type StmtAbstractVar struct{ Name string }

func (StmtAbstractVar) isStmt()                {}
func (v StmtAbstractVar) PrettyPrint() string  { return v.Name }
func (v StmtAbstractVar) Children() []Anything { return nil }
func (v StmtAbstractVar) AbstractName() string { return v.Name }
func (v StmtAbstractVar) Accepts(a Anything) bool {
	_, ok := a.(Stmt)
	return ok
}

type ExprAbstractVar struct{ Name string }

func (ExprAbstractVar) isExpr()                {}
func (v ExprAbstractVar) PrettyPrint() string  { return v.Name }
func (v ExprAbstractVar) Children() []Anything { return nil }
func (v ExprAbstractVar) AbstractName() string { return v.Name }
func (v ExprAbstractVar) Accepts(a Anything) bool {
	_, ok := a.(Expr)
	return ok
}

type LocationAbstractVar struct{ Name string }

func (LocationAbstractVar) isExpr()                {}
func (LocationAbstractVar) isTerm()                {}
func (LocationAbstractVar) isLocation()            {}
func (v LocationAbstractVar) PrettyPrint() string  { return v.Name }
func (v LocationAbstractVar) Children() []Anything { return nil }
func (v LocationAbstractVar) AbstractName() string { return v.Name }
func (v LocationAbstractVar) ToSMT() string {
	panic(NewInternalError("abstract location %s reached the encoder", v.Name))
}
func (v LocationAbstractVar) SortOf() Type {
	panic(NewInternalError("abstract location %s has no sort", v.Name))
}
func (v LocationAbstractVar) Accepts(a Anything) bool {
	_, ok := a.(Location)
	return ok
}

type FormulaAbstractVar struct{ Name string }

func (FormulaAbstractVar) isFormula()             {}
func (v FormulaAbstractVar) PrettyPrint() string  { return v.Name }
func (v FormulaAbstractVar) Children() []Anything { return nil }
func (v FormulaAbstractVar) AbstractName() string { return v.Name }
func (v FormulaAbstractVar) ToSMT() string {
	panic(NewInternalError("abstract formula %s reached the encoder", v.Name))
}

// Accepts also admits an absent formula, e.g. a loop without invariant.
func (v FormulaAbstractVar) Accepts(a Anything) bool {
	if a == nil {
		return true
	}
	_, ok := a.(Formula)
	return ok
}

type PPAbstractVar struct{ Name string }

func (PPAbstractVar) isPP()                  {}
func (v PPAbstractVar) PrettyPrint() string  { return v.Name }
func (v PPAbstractVar) Children() []Anything { return nil }
func (v PPAbstractVar) AbstractName() string { return v.Name }
func (v PPAbstractVar) Accepts(a Anything) bool {
	_, ok := a.(PP)
	return ok
}
