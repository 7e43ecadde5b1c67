package syntax

import "strings"

// Expr is surface syntax: guards, right-hand sides and call arguments.
type Expr interface {
	Anything
	isExpr()
}

// Location is an assignable place. Program variables and fields are
// locations, expressions and terms at once.
type Location interface {
	Expr
	Sorted
	isLocation()
}

type ProgVar struct {
	Name string
	Type Type
}

func (ProgVar) isExpr()                {}
func (ProgVar) isTerm()                {}
func (ProgVar) isLocation()            {}
func (v ProgVar) PrettyPrint() string  { return v.Name }
func (v ProgVar) Children() []Anything { return nil }
func (v ProgVar) ToSMT() string        { return v.Name }
func (v ProgVar) SortOf() Type         { return v.Type }

// Field is an object field; its value lives on the heap of its type.
type Field struct {
	Name string
	Type Type
}

func (Field) isExpr()                {}
func (Field) isTerm()                {}
func (Field) isLocation()            {}
func (f Field) PrettyPrint() string  { return "this." + f.Name }
func (f Field) Children() []Anything { return nil }
func (f Field) ToSMT() string        { return f.Name + "_f" }
func (f Field) SortOf() Type         { return f.Type }

// HeapVar is the program variable holding the heap for fields of type t.
func HeapVar(t Type) ProgVar {
	return ProgVar{Name: "heap_" + t.SMTName(), Type: HeapType(t)}
}

// ResultVar stands for the return value inside postconditions.
func ResultVar(t Type) ProgVar {
	return ProgVar{Name: "result", Type: t}
}

type ConstExpr struct {
	Value string
	Type  Type
}

func (ConstExpr) isExpr()                {}
func (c ConstExpr) PrettyPrint() string  { return c.Value }
func (c ConstExpr) Children() []Anything { return nil }

// SExpr is an operator or pure function application. Type is the result
// type when the frontend knows it.
type SExpr struct {
	Op   string
	Args []Expr
	Type Type
}

func (SExpr) isExpr() {}
func (e SExpr) PrettyPrint() string {
	if len(e.Args) == 0 {
		return e.Op
	}
	if len(e.Args) == 2 && isInfix(e.Op) {
		return "(" + e.Args[0].PrettyPrint() + " " + e.Op + " " + e.Args[1].PrettyPrint() + ")"
	}
	return e.Op + "(" + printAll(anythings(e.Args), ", ") + ")"
}
func (e SExpr) Children() []Anything { return anythings(e.Args) }

// CallExpr is an asynchronous method call o!m(args).
type CallExpr struct {
	Callee Expr
	Method string
	Args   []Expr
}

func (CallExpr) isExpr() {}
func (e CallExpr) PrettyPrint() string {
	return e.Callee.PrettyPrint() + "!" + e.Method + "(" + printAll(anythings(e.Args), ", ") + ")"
}
func (e CallExpr) Children() []Anything {
	return append([]Anything{e.Callee}, anythings(e.Args)...)
}

// SyncCallExpr is a synchronous method call o.m(args).
type SyncCallExpr struct {
	Callee Expr
	Method string
	Args   []Expr
}

func (SyncCallExpr) isExpr() {}
func (e SyncCallExpr) PrettyPrint() string {
	return e.Callee.PrettyPrint() + "." + e.Method + "(" + printAll(anythings(e.Args), ", ") + ")"
}
func (e SyncCallExpr) Children() []Anything {
	return append([]Anything{e.Callee}, anythings(e.Args)...)
}

// NewExpr allocates an object of Class, which implements Interfaces.
type NewExpr struct {
	Class      string
	Args       []Expr
	Interfaces []Type
}

func (NewExpr) isExpr() {}
func (e NewExpr) PrettyPrint() string {
	return "new " + e.Class + "(" + printAll(anythings(e.Args), ", ") + ")"
}
func (e NewExpr) Children() []Anything { return anythings(e.Args) }

// DataTypeExpr builds a value of a user data type.
type DataTypeExpr struct {
	Name string
	Type Type
	Args []Expr
}

func (DataTypeExpr) isExpr() {}
func (e DataTypeExpr) PrettyPrint() string {
	if len(e.Args) == 0 {
		return e.Name
	}
	return e.Name + "(" + printAll(anythings(e.Args), ", ") + ")"
}
func (e DataTypeExpr) Children() []Anything { return anythings(e.Args) }

func isInfix(op string) bool {
	switch op {
	case "+", "-", "*", "/", "%", "div", "mod", "<", "<=", ">", ">=", "=", "==", "!=", "&&", "||", "and", "or", "=>":
		return true
	}
	return false
}

func printAll(items []Anything, sep string) string {
	parts := make([]string, len(items))
	for i := range items {
		parts[i] = items[i].PrettyPrint()
	}
	return strings.Join(parts, sep)
}
