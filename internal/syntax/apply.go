package syntax

// Replacer returns a replacement for t, or false to descend into t.
type Replacer func(t Term) (Term, bool)

// ApplyTerm evaluates t in the state reached after u.
func ApplyTerm(u Update, t Term) Term {
	switch v := u.(type) {
	case EmptyUpdate:
		return ReplaceTerm(t, keep)
	case ElementaryUpdate:
		return SubstTerm(t, map[string]Term{v.Lhs.Name: v.Value})
	case ChainUpdate:
		return ApplyTerm(v.Left, ApplyTerm(v.Right, t))
	}
	panic(NewInternalError("unknown update %T", u))
}

// ApplyFormula evaluates f in the state reached after u.
func ApplyFormula(u Update, f Formula) Formula {
	switch v := u.(type) {
	case EmptyUpdate:
		return ReplaceFormula(f, keep)
	case ElementaryUpdate:
		return SubstFormula(f, map[string]Term{v.Lhs.Name: v.Value})
	case ChainUpdate:
		return ApplyFormula(v.Left, ApplyFormula(v.Right, f))
	}
	panic(NewInternalError("unknown update %T", u))
}

// Deupdatify applies every update nested in f, leaving none behind.
func Deupdatify(f Formula) Formula {
	return ReplaceFormula(f, keep)
}

func DeupdatifyTerm(t Term) Term {
	return ReplaceTerm(t, keep)
}

func keep(Term) (Term, bool) { return nil, false }

// SubstTerm replaces program variables by name, simultaneously.
func SubstTerm(t Term, sub map[string]Term) Term {
	return ReplaceTerm(t, varReplacer(sub))
}

func SubstFormula(f Formula, sub map[string]Term) Formula {
	return ReplaceFormula(f, varReplacer(sub))
}

func varReplacer(sub map[string]Term) Replacer {
	return func(t Term) (Term, bool) {
		if pv, ok := t.(ProgVar); ok {
			if res, ok := sub[pv.Name]; ok {
				return res, true
			}
		}
		return nil, false
	}
}

// ReplaceTerm rewrites t top-down. Replacements are not revisited.
func ReplaceTerm(t Term, fn Replacer) Term {
	if u, ok := t.(UpdateOnTerm); ok {
		t = ApplyTerm(u.Update, u.Target)
	}
	if res, ok := fn(t); ok {
		return res
	}
	switch v := t.(type) {
	case Function:
		return Function{Name: v.Name, Params: replaceTerms(v.Params, fn)}
	case DataTypeConst:
		return DataTypeConst{Name: v.Name, Type: v.Type, Params: replaceTerms(v.Params, fn)}
	}
	return t
}

func replaceTerms(ts []Term, fn Replacer) []Term {
	res := make([]Term, len(ts))
	for i := range ts {
		res[i] = ReplaceTerm(ts[i], fn)
	}
	return res
}

// ReplaceFormula rewrites every term of f. Variables bound by a
// quantifier are left alone inside its body.
func ReplaceFormula(f Formula, fn Replacer) Formula {
	switch v := f.(type) {
	case UpdateOnFormula:
		return ReplaceFormula(ApplyFormula(v.Update, v.Target), fn)
	case And:
		return And{Left: ReplaceFormula(v.Left, fn), Right: ReplaceFormula(v.Right, fn)}
	case Or:
		return Or{Left: ReplaceFormula(v.Left, fn), Right: ReplaceFormula(v.Right, fn)}
	case Impl:
		return Impl{Left: ReplaceFormula(v.Left, fn), Right: ReplaceFormula(v.Right, fn)}
	case Not:
		return Not{Arg: ReplaceFormula(v.Arg, fn)}
	case Predicate:
		return Predicate{Name: v.Name, Params: replaceTerms(v.Params, fn)}
	case Exists:
		bound := make(map[string]struct{}, len(v.Vars))
		for _, b := range v.Vars {
			bound[b.Name] = struct{}{}
		}
		inner := func(t Term) (Term, bool) {
			if pv, ok := t.(ProgVar); ok {
				if _, shadowed := bound[pv.Name]; shadowed {
					return t, true
				}
			}
			return fn(t)
		}
		return Exists{Vars: v.Vars, Body: ReplaceFormula(v.Body, inner)}
	}
	return f
}
