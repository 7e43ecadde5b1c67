package smt

import (
	"gverify/internal/model"
	"gverify/internal/syntax"
	"strings"
)

const Header = `; static header
(set-option :produce-models true)
(set-logic ALL)
(declare-sort UNBOUND 0)
(define-sort Field () Int)
(declare-const Unit Int)
(assert (= Unit 0))
; end static header
`

const valueOfPrefix = "valueOf_"

// Encoder turns a closed obligation ante => succ into a solver script.
type Encoder struct {
	repo *model.Repository
	// ModelCmd, if set, is emitted after (check-sat).
	ModelCmd string
	// ConciseProofs declares only the heaps the obligation uses.
	ConciseProofs bool
}

func NewEncoder(repo *model.Repository) *Encoder {
	return &Encoder{repo: repo}
}

// symbols are the free symbols of one obligation, in order of first
// occurrence.
type symbols struct {
	vars      []syntax.Sorted
	fields    []syntax.Field
	objects   []syntax.ObjectTerm
	valueOfs  []string
	datatypes []syntax.Type
}

// Generate emits the script asserting ante and the negation of succ.
// The obligation is valid iff the script is unsatisfiable.
func (e *Encoder) Generate(ante, succ syntax.Formula) (string, error) {
	pre := syntax.Deupdatify(ante)
	post := syntax.Deupdatify(succ)
	pre, post, shared := unifyPlaceholders(pre, post)
	syms := collectSymbols(shared, pre, post)

	var sb strings.Builder
	sb.WriteString(Header)

	roots := make([]syntax.Type, 0)
	for _, v := range syms.vars {
		roots = append(roots, v.SortOf())
	}
	for _, f := range syms.fields {
		roots = append(roots, f.Type)
	}
	roots = append(roots, syms.datatypes...)
	for _, f := range e.repo.Functions() {
		roots = append(roots, f.Result)
		for _, p := range f.Params {
			roots = append(roots, p.Type)
		}
	}
	decls, err := e.repo.DataTypeDecls(roots...)
	if err != nil {
		return "", err
	}
	writeDataTypes(&sb, decls)
	e.writeInterfaces(&sb)
	e.writeHeaps(&sb, syms)
	for _, name := range syms.valueOfs {
		sb.WriteString("(declare-fun " + name + " (Int) " + strings.TrimPrefix(name, valueOfPrefix) + ")\n")
	}
	e.writeFunctions(&sb)

	for _, f := range syms.fields {
		sb.WriteString("(declare-const " + f.ToSMT() + " Field)\n")
	}
	for _, v := range syms.vars {
		t := v.SortOf()
		sb.WriteString("(declare-const " + v.ToSMT() + " " + t.SMTName() + ")\n")
		if t.IsInterface() {
			sb.WriteString("(assert (implements " + v.ToSMT() + " " + syntax.SMTSymbol(t.Name) + "))\n")
		}
	}
	for _, o := range syms.objects {
		sb.WriteString("(declare-const " + o.Name + " Int)\n")
		for _, t := range o.Implements {
			sb.WriteString("(assert (implements " + o.Name + " " + syntax.SMTSymbol(t.Name) + "))\n")
		}
	}
	for i := 0; i < len(syms.fields); i++ {
		for j := i + 1; j < len(syms.fields); j++ {
			f1, f2 := syms.fields[i], syms.fields[j]
			if f1.Type.SMTName() == f2.Type.SMTName() {
				sb.WriteString("(assert (not (= " + f1.ToSMT() + " " + f2.ToSMT() + ")))\n")
			}
		}
	}

	sb.WriteString("(assert " + pre.ToSMT() + ")\n")
	sb.WriteString("(assert (not " + post.ToSMT() + "))\n")
	sb.WriteString("(check-sat)\n")
	if e.ModelCmd != "" {
		sb.WriteString(e.ModelCmd + "\n")
	}
	sb.WriteString("(exit)\n")
	return sb.String(), nil
}

// unifyPlaceholders binds every placeholder occurring on both sides to a
// global variable: existentially on the antecedent side, by replacement
// on the succedent side.
func unifyPlaceholders(pre, post syntax.Formula) (syntax.Formula, syntax.Formula, map[string]struct{}) {
	var (
		inPre  = syntax.CollectOf[syntax.Placeholder](pre)
		inPost = syntax.CollectOf[syntax.Placeholder](post)
		names  = make(map[string]struct{})
		shared = make(map[string]struct{})
	)
	for _, ph := range inPost {
		names[ph.Name] = struct{}{}
	}
	for _, ph := range inPre {
		if _, ok := names[ph.Name]; !ok {
			continue
		}
		if _, ok := shared[ph.Name]; ok {
			continue
		}
		shared[ph.Name] = struct{}{}
		global := syntax.ProgVar{Name: ph.GlobalName(), Type: ph.Type}
		pre = syntax.Exists{
			Vars: []syntax.Binder{{Name: ph.ToSMT(), Type: ph.Type}},
			Body: syntax.Conj(pre, syntax.Eq(ph, global)),
		}
	}
	if len(shared) == 0 {
		return pre, post, shared
	}
	post = syntax.ReplaceFormula(post, func(t syntax.Term) (syntax.Term, bool) {
		if ph, ok := t.(syntax.Placeholder); ok {
			if _, ok := shared[ph.Name]; ok {
				return syntax.ProgVar{Name: ph.GlobalName(), Type: ph.Type}, true
			}
		}
		return nil, false
	})
	return pre, post, shared
}

func collectSymbols(shared map[string]struct{}, fs ...syntax.Formula) *symbols {
	var (
		res     = &symbols{}
		roots   = make([]syntax.Anything, len(fs))
		valueOf = make(map[string]struct{})
		types   = make(map[string]struct{})
	)
	for i := range fs {
		roots[i] = fs[i]
	}
	for _, node := range syntax.Collect(func(syntax.Anything) bool { return true }, roots...) {
		switch v := node.(type) {
		case syntax.Field:
			res.fields = append(res.fields, v)
		case syntax.ProgVar:
			res.vars = append(res.vars, v)
		case syntax.WildCardVar:
			res.vars = append(res.vars, v)
		case syntax.Placeholder:
			if _, ok := shared[v.Name]; !ok {
				res.vars = append(res.vars, v)
			}
		case syntax.ObjectTerm:
			res.objects = append(res.objects, v)
		case syntax.DataTypeConst:
			if _, ok := types[v.Type.String()]; !ok {
				types[v.Type.String()] = struct{}{}
				res.datatypes = append(res.datatypes, v.Type)
			}
		case syntax.Function:
			if strings.HasPrefix(v.Name, valueOfPrefix) {
				if _, ok := valueOf[v.Name]; !ok {
					valueOf[v.Name] = struct{}{}
					res.valueOfs = append(res.valueOfs, v.Name)
				}
			}
		}
	}
	return res
}

func writeDataTypes(sb *strings.Builder, decls []model.DataTypeDecl) {
	if len(decls) == 0 {
		return
	}
	sorts := make([]string, len(decls))
	bodies := make([]string, len(decls))
	for i, d := range decls {
		sorts[i] = "(" + d.Sort + " 0)"
		conss := make([]string, len(d.Constructors))
		for j, c := range d.Constructors {
			parts := []string{c.Name}
			for _, s := range c.Selectors {
				parts = append(parts, "("+s.Name+" "+s.Type.SMTName()+")")
			}
			conss[j] = "(" + strings.Join(parts, " ") + ")"
		}
		bodies[i] = "(" + strings.Join(conss, " ") + ")"
	}
	sb.WriteString("(declare-datatypes (" + strings.Join(sorts, " ") + ") (" + strings.Join(bodies, " ") + "))\n")
}

func (e *Encoder) writeInterfaces(sb *strings.Builder) {
	ifaces := e.repo.Interfaces()
	if len(ifaces) == 0 {
		sb.WriteString("(declare-sort Interface 0)\n")
	} else {
		names := make([]string, len(ifaces))
		for i, iface := range ifaces {
			names[i] = "(" + syntax.SMTSymbol(iface.Name) + ")"
		}
		sb.WriteString("(declare-datatypes ((Interface 0)) ((" + strings.Join(names, " ") + ")))\n")
	}
	sb.WriteString(`(declare-fun implements (Int Interface) Bool)
(declare-fun extends (Interface Interface) Bool)
(assert (forall ((i1 Interface) (i2 Interface) (i3 Interface)) (=> (and (extends i1 i2) (extends i2 i3)) (extends i1 i3))))
(assert (forall ((i1 Interface) (i2 Interface) (o Int)) (=> (and (extends i1 i2) (implements o i1)) (implements o i2))))
`)
	for _, iface := range ifaces {
		for _, super := range iface.Extends {
			sb.WriteString("(assert (extends " + syntax.SMTSymbol(iface.Name) + " " + syntax.SMTSymbol(super) + "))\n")
		}
	}
}

func (e *Encoder) writeHeaps(sb *strings.Builder, syms *symbols) {
	var (
		seen  = make(map[string]struct{})
		heaps = make([]syntax.Type, 0)
	)
	add := func(t syntax.Type) {
		if _, ok := seen[t.SMTName()]; ok {
			return
		}
		seen[t.SMTName()] = struct{}{}
		heaps = append(heaps, t)
	}
	if !e.ConciseProofs {
		for _, t := range e.repo.HeapTypes() {
			add(t)
		}
	}
	for _, f := range syms.fields {
		add(f.Type)
	}
	for _, v := range syms.vars {
		if t := v.SortOf(); t.IsHeap() {
			add(t.Args[0])
		}
	}
	for _, t := range heaps {
		sb.WriteString("(define-sort " + syntax.HeapType(t).SMTName() + " () (Array Field " + t.SMTName() + "))\n")
	}
}

// writeFunctions declares contract-governed functions with an axiom
// relating precondition and postcondition, and defines direct functions
// together so they may be mutually recursive.
func (e *Encoder) writeFunctions(sb *strings.Builder) {
	var (
		direct   = make([]*model.Function, 0)
		contract = make([]*model.Function, 0)
	)
	for _, f := range e.repo.Functions() {
		if f.IsDirect() {
			direct = append(direct, f)
		} else {
			contract = append(contract, f)
		}
	}
	for _, f := range contract {
		var (
			name    = syntax.SMTSymbol(f.Name)
			sorts   = make([]string, len(f.Params))
			binders = make([]string, len(f.Params))
			args    = make([]syntax.Term, len(f.Params))
		)
		for i, p := range f.Params {
			sorts[i] = p.Type.SMTName()
			binders[i] = "(" + p.Name + " " + p.Type.SMTName() + ")"
			args[i] = p.Var()
		}
		sb.WriteString("(declare-fun " + name + " (" + strings.Join(sorts, " ") + ") " + f.Result.SMTName() + ")\n")
		call := syntax.Function{Name: f.Name, Params: args}
		post := syntax.SubstFormula(orTrue(f.Ensures), map[string]syntax.Term{"result": call})
		axiom := syntax.Impl{Left: orTrue(f.Requires), Right: post}.ToSMT()
		if len(f.Params) > 0 {
			axiom = "(forall (" + strings.Join(binders, " ") + ") " + axiom + ")"
		}
		sb.WriteString("(assert " + axiom + ")\n")
	}
	if len(direct) == 0 {
		return
	}
	var (
		sigs   = make([]string, len(direct))
		bodies = make([]string, len(direct))
	)
	for i, f := range direct {
		binders := make([]string, len(f.Params))
		for j, p := range f.Params {
			binders[j] = "(" + p.Name + " " + p.Type.SMTName() + ")"
		}
		sigs[i] = "(" + syntax.SMTSymbol(f.Name) + " (" + strings.Join(binders, " ") + ") " + f.Result.SMTName() + ")"
		bodies[i] = syntax.DeupdatifyTerm(f.Body).ToSMT()
	}
	sb.WriteString("(define-funs-rec (" + strings.Join(sigs, " ") + ") (" + strings.Join(bodies, " ") + "))\n")
}

func orTrue(f syntax.Formula) syntax.Formula {
	if f == nil {
		return syntax.True{}
	}
	return f
}
