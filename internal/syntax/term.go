package syntax

import "strings"

// Term is the solver-translatable counterpart of an expression.
type Term interface {
	Anything
	isTerm()
	ToSMT() string
}

// Sorted is a term that introduces a symbol the encoder must declare.
type Sorted interface {
	Term
	SortOf() Type
}

type Const struct {
	Value string
	Type  Type
}

func (Const) isTerm()                {}
func (c Const) PrettyPrint() string  { return c.Value }
func (c Const) Children() []Anything { return nil }
func (c Const) ToSMT() string {
	if c.Type.Name == "String" {
		return "\"" + strings.ReplaceAll(c.Value, "\"", "\"\"") + "\""
	}
	if strings.HasPrefix(c.Value, "-") {
		return "(- " + strings.TrimPrefix(c.Value, "-") + ")"
	}
	return c.Value
}

func IntConst(v string) Const  { return Const{Value: v, Type: IntType} }
func RealConst(v string) Const { return Const{Value: v, Type: RealType} }

var (
	TrueConst  = Const{Value: "true", Type: BoolType}
	FalseConst = Const{Value: "false", Type: BoolType}
)

// Function is an application of a built-in operator or a user function.
type Function struct {
	Name   string
	Params []Term
}

func (Function) isTerm() {}
func (f Function) PrettyPrint() string {
	if len(f.Params) == 0 {
		return f.Name
	}
	return f.Name + "(" + printAll(anythings(f.Params), ", ") + ")"
}
func (f Function) Children() []Anything { return anythings(f.Params) }
func (f Function) ToSMT() string {
	name := SMTSymbol(f.Name)
	if len(f.Params) == 0 {
		return name
	}
	return "(" + name + " " + smtAll(f.Params) + ")"
}

// Select reads field f from its heap.
func Select(heap Term, f Field) Function {
	return Function{Name: "select", Params: []Term{heap, f}}
}

// Store writes value to field f of heap.
func Store(heap Term, f Field, value Term) Function {
	return Function{Name: "store", Params: []Term{heap, f, value}}
}

// DataTypeConst is a constructor application of a user data type. For
// instances of generic types the constructor name carries the instance.
type DataTypeConst struct {
	Name   string
	Type   Type
	Params []Term
}

func (DataTypeConst) isTerm() {}
func (d DataTypeConst) PrettyPrint() string {
	if len(d.Params) == 0 {
		return d.Name
	}
	return d.Name + "(" + printAll(anythings(d.Params), ", ") + ")"
}
func (d DataTypeConst) Children() []Anything { return anythings(d.Params) }
func (d DataTypeConst) ToSMT() string {
	name := ConstructorName(d.Name, d.Type)
	if len(d.Params) == 0 {
		return name
	}
	return "(" + name + " " + smtAll(d.Params) + ")"
}

// ConstructorName is the solver name of constructor cons of type t.
func ConstructorName(cons string, t Type) string {
	if t.IsConcreteGeneric() {
		return SMTSymbol(cons) + "_" + t.SMTName()
	}
	return SMTSymbol(cons)
}

// Placeholder stands for an unknown shared between the two sides of an
// obligation, such as a witness written ?x in a contract.
type Placeholder struct {
	Name string
	Type Type
}

func (Placeholder) isTerm()                {}
func (p Placeholder) PrettyPrint() string  { return "?" + p.Name }
func (p Placeholder) Children() []Anything { return nil }
func (p Placeholder) ToSMT() string        { return "ph_" + p.Name }
func (p Placeholder) SortOf() Type         { return p.Type }

// GlobalName is the variable both sides of an obligation agree on.
func (p Placeholder) GlobalName() string { return "ph_" + p.Name + "_g" }

// WildCardVar is a fresh, otherwise unconstrained value.
type WildCardVar struct {
	Name string
	Type Type
}

func (WildCardVar) isTerm()                {}
func (w WildCardVar) PrettyPrint() string  { return w.Name }
func (w WildCardVar) Children() []Anything { return nil }
func (w WildCardVar) ToSMT() string        { return w.Name }
func (w WildCardVar) SortOf() Type         { return w.Type }

// ObjectTerm is a freshly allocated object reference.
type ObjectTerm struct {
	Name       string
	Class      string
	Implements []Type
}

func (ObjectTerm) isTerm()                {}
func (o ObjectTerm) PrettyPrint() string  { return o.Name + ":" + o.Class }
func (o ObjectTerm) Children() []Anything { return nil }
func (o ObjectTerm) ToSMT() string        { return o.Name }
func (o ObjectTerm) SortOf() Type         { return IntType }

// SMTSymbol makes a qualified name acceptable to the solver.
func SMTSymbol(name string) string {
	return strings.ReplaceAll(name, ".", "-")
}

func smtAll[T interface{ ToSMT() string }](items []T) string {
	parts := make([]string, len(items))
	for i := range items {
		parts[i] = items[i].ToSMT()
	}
	return strings.Join(parts, " ")
}
