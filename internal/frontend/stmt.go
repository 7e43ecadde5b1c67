package frontend

import (
	"fmt"
	"gverify/internal/syntax"

	"gopkg.in/yaml.v3"
)

type ifSpec struct {
	Cond string      `yaml:"cond"`
	Then []yaml.Node `yaml:"then"`
	Else []yaml.Node `yaml:"else"`
}

type choiceSpec struct {
	Weight string      `yaml:"weight"`
	Then   []yaml.Node `yaml:"then"`
	Else   []yaml.Node `yaml:"else"`
}

type whileSpec struct {
	Cond      string      `yaml:"cond"`
	Invariant string      `yaml:"invariant"`
	Body      []yaml.Node `yaml:"body"`
}

type callSpec struct {
	Lhs    string   `yaml:"lhs"`
	Callee string   `yaml:"callee"`
	Method string   `yaml:"method"`
	Args   []string `yaml:"args"`
}

type getSpec struct {
	Lhs    string `yaml:"lhs"`
	Future string `yaml:"future"`
}

type newSpec struct {
	Lhs   string   `yaml:"lhs"`
	Class string   `yaml:"class"`
	Args  []string `yaml:"args"`
}

type varSpec struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Value string `yaml:"value"`
}

type trySpec struct {
	Body  []yaml.Node `yaml:"body"`
	Catch []yaml.Node `yaml:"catch"`
}

func (p *parser) block(sc *scope, nodes []yaml.Node) (syntax.Stmt, error) {
	stmts := make([]syntax.Stmt, 0, len(nodes))
	for i := range nodes {
		s, err := p.stmt(sc, &nodes[i])
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return syntax.Seq(stmts...), nil
}

func (p *parser) stmt(sc *scope, n *yaml.Node) (syntax.Stmt, error) {
	if n.Kind == yaml.ScalarNode {
		if n.Value == "skip" {
			return syntax.SkipStmt{}, nil
		}
		return nil, syntax.Unsupported("statement "+n.Value, nil)
	}
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, syntax.Malformed(fmt.Sprintf("line %d", n.Line), "a statement is a single-key mapping")
	}
	key, val := n.Content[0].Value, n.Content[1]
	at := fmt.Sprintf("%s at line %d", key, n.Line)

	switch key {
	case "skip":
		return syntax.SkipStmt{}, nil
	case "assign":
		var pair []string
		if err := val.Decode(&pair); err != nil || len(pair) != 2 {
			return nil, syntax.Malformed(at, "expected [location, expression]")
		}
		lhs, err := p.location(sc, pair[0])
		if err != nil {
			return nil, err
		}
		t := lhs.SortOf()
		rhs, err := p.exprText(sc, pair[1], &t)
		if err != nil {
			return nil, err
		}
		return syntax.AssignStmt{Lhs: lhs, Value: rhs}, nil
	case "var":
		var spec varSpec
		if err := val.Decode(&spec); err != nil {
			return nil, syntax.Malformed(at, "%v", err)
		}
		t, err := p.parseType(spec.Type, nil)
		if err != nil {
			return nil, err
		}
		sc.declare(spec.Name, t)
		if spec.Value == "" {
			return syntax.SkipStmt{}, nil
		}
		rhs, err := p.exprText(sc, spec.Value, &t)
		if err != nil {
			return nil, err
		}
		return syntax.AssignStmt{Lhs: syntax.ProgVar{Name: spec.Name, Type: t}, Value: rhs}, nil
	case "if":
		var spec ifSpec
		if err := val.Decode(&spec); err != nil {
			return nil, syntax.Malformed(at, "%v", err)
		}
		guard, err := p.exprText(sc, spec.Cond, nil)
		if err != nil {
			return nil, err
		}
		then, els, err := p.branches(sc, spec.Then, spec.Else)
		if err != nil {
			return nil, err
		}
		return syntax.IfStmt{Guard: guard, Then: then, Else: els}, nil
	case "demonic":
		var spec choiceSpec
		if err := val.Decode(&spec); err != nil {
			return nil, syntax.Malformed(at, "%v", err)
		}
		then, els, err := p.branches(sc, spec.Then, spec.Else)
		if err != nil {
			return nil, err
		}
		return syntax.DemonicIfStmt{Then: then, Else: els}, nil
	case "prob":
		var spec choiceSpec
		if err := val.Decode(&spec); err != nil {
			return nil, syntax.Malformed(at, "%v", err)
		}
		weight, err := p.exprText(sc, spec.Weight, nil)
		if err != nil {
			return nil, err
		}
		then, els, err := p.branches(sc, spec.Then, spec.Else)
		if err != nil {
			return nil, err
		}
		return syntax.ProbIfStmt{Weight: weight, Then: then, Else: els}, nil
	case "while":
		var spec whileSpec
		if err := val.Decode(&spec); err != nil {
			return nil, syntax.Malformed(at, "%v", err)
		}
		guard, err := p.exprText(sc, spec.Cond, nil)
		if err != nil {
			return nil, err
		}
		inv, err := p.formula(sc.contract(nil), spec.Invariant)
		if err != nil {
			return nil, err
		}
		body, err := p.block(sc, spec.Body)
		if err != nil {
			return nil, err
		}
		p.pp++
		return syntax.WhileStmt{Guard: guard, Body: body, ID: syntax.PP{ID: p.pp}, Invariant: inv}, nil
	case "call", "synccall":
		var spec callSpec
		if err := val.Decode(&spec); err != nil {
			return nil, syntax.Malformed(at, "%v", err)
		}
		lhs, err := p.location(sc, spec.Lhs)
		if err != nil {
			return nil, err
		}
		callee, err := p.exprText(sc, spec.Callee, nil)
		if err != nil {
			return nil, err
		}
		args, err := p.exprList(sc, spec.Args)
		if err != nil {
			return nil, err
		}
		if key == "call" {
			return syntax.CallStmt{Lhs: lhs, Call: syntax.CallExpr{Callee: callee, Method: spec.Method, Args: args}}, nil
		}
		return syntax.SyncCallStmt{Lhs: lhs, Call: syntax.SyncCallExpr{Callee: callee, Method: spec.Method, Args: args}}, nil
	case "get":
		var spec getSpec
		if err := val.Decode(&spec); err != nil {
			return nil, syntax.Malformed(at, "%v", err)
		}
		lhs, err := p.location(sc, spec.Lhs)
		if err != nil {
			return nil, err
		}
		fut, err := p.exprText(sc, spec.Future, nil)
		if err != nil {
			return nil, err
		}
		return syntax.GetStmt{Lhs: lhs, Future: fut}, nil
	case "new":
		var spec newSpec
		if err := val.Decode(&spec); err != nil {
			return nil, syntax.Malformed(at, "%v", err)
		}
		class, ok := p.classes[spec.Class]
		if !ok {
			return nil, syntax.Malformed(at, "unknown class %s", spec.Class)
		}
		lhs, err := p.location(sc, spec.Lhs)
		if err != nil {
			return nil, err
		}
		args, err := p.exprList(sc, spec.Args)
		if err != nil {
			return nil, err
		}
		return syntax.AllocateStmt{Lhs: lhs, Value: syntax.NewExpr{Class: class.Name, Args: args, Interfaces: class.Implements}}, nil
	case "return", "throw":
		var text string
		if err := val.Decode(&text); err != nil {
			return nil, syntax.Malformed(at, "%v", err)
		}
		e, err := p.exprText(sc, text, nil)
		if err != nil {
			return nil, err
		}
		if key == "return" {
			return syntax.ReturnStmt{Value: e}, nil
		}
		return syntax.ThrowStmt{Value: e}, nil
	case "try":
		var spec trySpec
		if err := val.Decode(&spec); err != nil {
			return nil, syntax.Malformed(at, "%v", err)
		}
		body, catch, err := p.branches(sc, spec.Body, spec.Catch)
		if err != nil {
			return nil, err
		}
		return syntax.TryStmt{Body: body, Catch: catch}, nil
	}
	return nil, syntax.Unsupported("statement "+key, nil)
}

func (p *parser) branches(sc *scope, left, right []yaml.Node) (syntax.Stmt, syntax.Stmt, error) {
	l, err := p.block(sc, left)
	if err != nil {
		return nil, nil, err
	}
	r, err := p.block(sc, right)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func (p *parser) exprList(sc *scope, texts []string) ([]syntax.Expr, error) {
	res := make([]syntax.Expr, len(texts))
	for i := range texts {
		e, err := p.exprText(sc, texts[i], nil)
		if err != nil {
			return nil, err
		}
		res[i] = e
	}
	return res, nil
}

func (p *parser) location(sc *scope, text string) (syntax.Location, error) {
	e, err := p.atom(sc, Node{Atom: text}, nil)
	if err != nil {
		return nil, err
	}
	loc, ok := e.(syntax.Location)
	if !ok {
		return nil, syntax.Malformed(text, "%s is not assignable", text)
	}
	return loc, nil
}
