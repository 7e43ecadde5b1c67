package syntax

import "strings"

type TypeKind int

const (
	BuiltinKind TypeKind = iota
	DataKind
	InterfaceKind
	ParamKind
	UnknownKind
)

// Type is an elaborated type as resolved by the model repository.
type Type struct {
	Name string
	Args []Type
	Kind TypeKind
}

var (
	IntType     = Type{Name: "Int"}
	BoolType    = Type{Name: "Bool"}
	RealType    = Type{Name: "Real"}
	StringType  = Type{Name: "String"}
	UnitType    = Type{Name: "Unit"}
	UnboundType = Type{Name: "Unbound"}
	UnknownType = Type{Name: "<UNKNOWN>", Kind: UnknownKind}
)

func FutType(inner Type) Type {
	return Type{Name: "Fut", Args: []Type{inner}}
}

// HeapType is the sort of the heap holding fields of type elem.
func HeapType(elem Type) Type {
	return Type{Name: "Heap", Args: []Type{elem}}
}

func (t Type) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i := range t.Args {
		args[i] = t.Args[i].String()
	}
	return t.Name + "<" + strings.Join(args, ",") + ">"
}

func (t Type) Equal(other Type) bool {
	if t.Name != other.Name || t.Kind != other.Kind || len(t.Args) != len(other.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(other.Args[i]) {
			return false
		}
	}
	return true
}

func (t Type) IsUnknown() bool   { return t.Kind == UnknownKind }
func (t Type) IsInterface() bool { return t.Kind == InterfaceKind }
func (t Type) IsParam() bool     { return t.Kind == ParamKind }
func (t Type) IsHeap() bool      { return t.Kind == BuiltinKind && t.Name == "Heap" }
func (t Type) IsFuture() bool    { return t.Kind == BuiltinKind && t.Name == "Fut" }
func (t Type) IsReal() bool      { return t.Kind == BuiltinKind && (t.Name == "Real" || t.Name == "Float") }

// IsGeneric reports whether t is an instance of a parametric data type.
func (t Type) IsGeneric() bool {
	return t.Kind == DataKind && len(t.Args) > 0
}

// IsConcreteGeneric reports whether t is generic and none of its arguments,
// at any depth, is a type parameter.
func (t Type) IsConcreteGeneric() bool {
	return t.IsGeneric() && !t.hasParam()
}

func (t Type) hasParam() bool {
	if t.Kind == ParamKind || t.Kind == UnknownKind {
		return true
	}
	for _, arg := range t.Args {
		if arg.hasParam() {
			return true
		}
	}
	return false
}

// Bind substitutes type parameters by the given binding.
func (t Type) Bind(binding map[string]Type) Type {
	if t.Kind == ParamKind {
		if bound, ok := binding[t.Name]; ok {
			return bound
		}
		return t
	}
	if len(t.Args) == 0 {
		return t
	}
	res := Type{Name: t.Name, Kind: t.Kind, Args: make([]Type, len(t.Args))}
	for i := range t.Args {
		res.Args[i] = t.Args[i].Bind(binding)
	}
	return res
}

// SMTName is the solver-visible sort name of t.
func (t Type) SMTName() string {
	switch t.Kind {
	case InterfaceKind:
		return "Int"
	case ParamKind, UnknownKind:
		panic(NewInternalError("type %s cannot be translated", t.String()))
	case DataKind:
		if len(t.Args) == 0 {
			return t.Name
		}
		return genericSMTName(t)
	}
	switch t.Name {
	case "Int", "Fut", "Unit":
		return "Int"
	case "Float", "Real":
		return "Real"
	case "Unbound":
		return "UNBOUND"
	case "Heap":
		return "Heap_" + t.Args[0].SMTName()
	}
	return t.Name
}

func genericSMTName(t Type) string {
	parts := []string{strings.ReplaceAll(t.Name, ".", "_")}
	for _, arg := range t.Args {
		parts = append(parts, arg.SMTName())
	}
	return strings.Join(parts, "_")
}
