package frontend

import (
	"gverify/internal/syntax"
	"strings"
)

// Node is a parsed s-expression: an atom or a list.
type Node struct {
	Atom   string
	Quoted bool
	List   []Node
	IsList bool
}

func (n Node) PrettyPrint() string {
	if !n.IsList {
		if n.Quoted {
			return "\"" + n.Atom + "\""
		}
		return n.Atom
	}
	parts := make([]string, len(n.List))
	for i := range n.List {
		parts[i] = n.List[i].PrettyPrint()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (n Node) Children() []syntax.Anything {
	res := make([]syntax.Anything, len(n.List))
	for i := range n.List {
		res[i] = n.List[i]
	}
	return res
}

// Head is the operator of a non-empty list.
func (n Node) Head() (string, bool) {
	if !n.IsList || len(n.List) == 0 || n.List[0].IsList {
		return "", false
	}
	return n.List[0].Atom, true
}

// ParseSExpr reads exactly one s-expression from text.
func ParseSExpr(text string) (Node, error) {
	r := &reader{src: text}
	n, err := r.read()
	if err != nil {
		return Node{}, err
	}
	r.skipSpace()
	if r.pos < len(r.src) {
		return Node{}, syntax.Malformed(text, "trailing input at offset %d", r.pos)
	}
	return n, nil
}

type reader struct {
	src string
	pos int
}

func (r *reader) skipSpace() {
	for r.pos < len(r.src) {
		switch r.src[r.pos] {
		case ' ', '\t', '\n', '\r':
			r.pos++
		case ';':
			for r.pos < len(r.src) && r.src[r.pos] != '\n' {
				r.pos++
			}
		default:
			return
		}
	}
}

func (r *reader) read() (Node, error) {
	r.skipSpace()
	if r.pos >= len(r.src) {
		return Node{}, syntax.Malformed(r.src, "unexpected end of input")
	}
	switch r.src[r.pos] {
	case '(':
		r.pos++
		res := Node{IsList: true, List: make([]Node, 0)}
		for {
			r.skipSpace()
			if r.pos >= len(r.src) {
				return Node{}, syntax.Malformed(r.src, "missing )")
			}
			if r.src[r.pos] == ')' {
				r.pos++
				return res, nil
			}
			child, err := r.read()
			if err != nil {
				return Node{}, err
			}
			res.List = append(res.List, child)
		}
	case ')':
		return Node{}, syntax.Malformed(r.src, "unexpected ) at offset %d", r.pos)
	case '"':
		start := r.pos + 1
		for i := start; i < len(r.src); i++ {
			if r.src[i] == '"' {
				r.pos = i + 1
				return Node{Atom: r.src[start:i], Quoted: true}, nil
			}
		}
		return Node{}, syntax.Malformed(r.src, "unterminated string")
	}
	start := r.pos
	for r.pos < len(r.src) {
		c := r.src[r.pos]
		if c == '(' || c == ')' || c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ';' || c == '"' {
			break
		}
		r.pos++
	}
	return Node{Atom: r.src[start:r.pos]}, nil
}
