package frontend

import (
	"gverify/internal/syntax"
	"strings"
)

var builtinTypes = map[string]syntax.Type{
	"Int":    syntax.IntType,
	"Bool":   syntax.BoolType,
	"Real":   syntax.RealType,
	"Float":  syntax.Type{Name: "Float"},
	"String": syntax.StringType,
	"Unit":   syntax.UnitType,
}

// parseType reads a type such as Int, Fut<Int> or Pair<List<A>,Bool>.
// Names in params are type parameters.
func (p *parser) parseType(text string, params []string) (syntax.Type, error) {
	t, rest, err := p.readType(strings.TrimSpace(text), params)
	if err != nil {
		return syntax.Type{}, err
	}
	if strings.TrimSpace(rest) != "" {
		return syntax.Type{}, syntax.Malformed(text, "trailing %q in type", rest)
	}
	return t, nil
}

func (p *parser) readType(text string, params []string) (syntax.Type, string, error) {
	end := strings.IndexAny(text, "<>,")
	if end < 0 {
		end = len(text)
	}
	name := strings.TrimSpace(text[:end])
	rest := text[end:]
	if name == "" {
		return syntax.Type{}, "", syntax.Malformed(text, "missing type name")
	}

	var args []syntax.Type
	if strings.HasPrefix(rest, "<") {
		rest = rest[1:]
		for {
			arg, r, err := p.readType(strings.TrimSpace(rest), params)
			if err != nil {
				return syntax.Type{}, "", err
			}
			args = append(args, arg)
			r = strings.TrimSpace(r)
			if strings.HasPrefix(r, ",") {
				rest = r[1:]
				continue
			}
			if !strings.HasPrefix(r, ">") {
				return syntax.Type{}, "", syntax.Malformed(text, "missing > in type")
			}
			rest = r[1:]
			break
		}
	}
	t, err := p.resolveType(name, args, params)
	return t, rest, err
}

func (p *parser) resolveType(name string, args []syntax.Type, params []string) (syntax.Type, error) {
	if name == "Fut" {
		if len(args) != 1 {
			return syntax.Type{}, syntax.Malformed(name, "Fut takes one type argument")
		}
		return syntax.FutType(args[0]), nil
	}
	if t, ok := builtinTypes[name]; ok {
		if len(args) > 0 {
			return syntax.Type{}, syntax.Malformed(name, "%s takes no type arguments", name)
		}
		return t, nil
	}
	for _, param := range params {
		if param == name {
			return syntax.Type{Name: name, Kind: syntax.ParamKind}, nil
		}
	}
	if d, ok := p.dataTypes[name]; ok {
		if len(args) != len(d.Params) {
			return syntax.Type{}, syntax.Malformed(name, "%s takes %d type arguments, got %d", name, len(d.Params), len(args))
		}
		return syntax.Type{Name: name, Args: args, Kind: syntax.DataKind}, nil
	}
	if _, ok := p.interfaces[name]; ok {
		return syntax.Type{Name: name, Kind: syntax.InterfaceKind}, nil
	}
	return syntax.Type{}, syntax.Unsupported("type "+name, nil)
}

// unify binds the type parameters of pattern so that it equals actual.
func unify(pattern, actual syntax.Type, binding map[string]syntax.Type) bool {
	if pattern.IsParam() {
		if bound, ok := binding[pattern.Name]; ok {
			return bound.Equal(actual)
		}
		if actual.IsUnknown() {
			return true
		}
		binding[pattern.Name] = actual
		return true
	}
	if actual.IsUnknown() {
		return true
	}
	if pattern.Name != actual.Name || len(pattern.Args) != len(actual.Args) {
		return false
	}
	for i := range pattern.Args {
		if !unify(pattern.Args[i], actual.Args[i], binding) {
			return false
		}
	}
	return true
}
