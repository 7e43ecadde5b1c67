package syntax

// Update records the writes executed on a branch without applying them.
type Update interface {
	Anything
	isUpdate()
}

type EmptyUpdate struct{}

func (EmptyUpdate) isUpdate()            {}
func (EmptyUpdate) PrettyPrint() string  { return "empty" }
func (EmptyUpdate) Children() []Anything { return nil }

// ElementaryUpdate is a single pending write Lhs := Value.
type ElementaryUpdate struct {
	Lhs   ProgVar
	Value Term
}

func (ElementaryUpdate) isUpdate()              {}
func (u ElementaryUpdate) PrettyPrint() string  { return u.Lhs.PrettyPrint() + " := " + u.Value.PrettyPrint() }
func (u ElementaryUpdate) Children() []Anything { return []Anything{u.Lhs, u.Value} }

// ChainUpdate executes Right after Left.
type ChainUpdate struct {
	Left, Right Update
}

func (ChainUpdate) isUpdate() {}
func (u ChainUpdate) PrettyPrint() string {
	return u.Left.PrettyPrint() + " ++ " + u.Right.PrettyPrint()
}
func (u ChainUpdate) Children() []Anything { return []Anything{u.Left, u.Right} }

// Chain sequences two updates, dropping empty ones.
func Chain(left, right Update) Update {
	if _, ok := left.(EmptyUpdate); ok {
		return right
	}
	if _, ok := right.(EmptyUpdate); ok {
		return left
	}
	return ChainUpdate{Left: left, Right: right}
}

// UpdateOnTerm is the value of Target in the state after Update.
type UpdateOnTerm struct {
	Update Update
	Target Term
}

func (UpdateOnTerm) isTerm() {}
func (u UpdateOnTerm) PrettyPrint() string {
	return "{" + u.Update.PrettyPrint() + "}" + u.Target.PrettyPrint()
}
func (u UpdateOnTerm) Children() []Anything { return []Anything{u.Update, u.Target} }
func (u UpdateOnTerm) ToSMT() string        { return ApplyTerm(u.Update, u.Target).ToSMT() }

// UpdateOnFormula is Target evaluated in the state after Update.
type UpdateOnFormula struct {
	Update Update
	Target Formula
}

func (UpdateOnFormula) isFormula() {}
func (u UpdateOnFormula) PrettyPrint() string {
	return "{" + u.Update.PrettyPrint() + "}" + u.Target.PrettyPrint()
}
func (u UpdateOnFormula) Children() []Anything { return []Anything{u.Update, u.Target} }
func (u UpdateOnFormula) ToSMT() string        { return ApplyFormula(u.Update, u.Target).ToSMT() }

// Under wraps f with u unless u is empty.
func Under(u Update, f Formula) Formula {
	if _, ok := u.(EmptyUpdate); ok {
		return f
	}
	return UpdateOnFormula{Update: u, Target: f}
}

// UnderTerm wraps t with u unless u is empty.
func UnderTerm(u Update, t Term) Term {
	if _, ok := u.(EmptyUpdate); ok {
		return t
	}
	return UpdateOnTerm{Update: u, Target: t}
}

// AssignedVars lists the variables u writes, in program order.
func AssignedVars(u Update) []ProgVar {
	switch v := u.(type) {
	case ElementaryUpdate:
		return []ProgVar{v.Lhs}
	case ChainUpdate:
		return append(AssignedVars(v.Left), AssignedVars(v.Right)...)
	}
	return nil
}
