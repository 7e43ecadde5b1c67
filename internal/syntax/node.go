// Package syntax holds the immutable trees the proof calculus works on:
// statements, surface expressions, solver terms, formulas and updates.
package syntax

import "fmt"

// Anything is implemented by every node of every tree, so one traversal
// serves to gather variables, fields, generics and placeholders.
type Anything interface {
	PrettyPrint() string
	Children() []Anything
}

// AbstractVar marks pattern placeholders. They only occur inside rules.
type AbstractVar interface {
	Anything
	AbstractName() string
	Accepts(Anything) bool
}

// Collect walks root in pre-order and returns every distinct node
// satisfying pred, in first-visit order.
func Collect(pred func(Anything) bool, roots ...Anything) []Anything {
	var (
		seen   = make(map[string]struct{})
		result = make([]Anything, 0)
	)
	var walk func(Anything)
	walk = func(node Anything) {
		if node == nil {
			return
		}
		if pred(node) {
			k := Key(node)
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				result = append(result, node)
			}
		}
		for _, child := range node.Children() {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}
	return result
}

// CollectOf gathers the distinct nodes of dynamic type T.
func CollectOf[T Anything](roots ...Anything) []T {
	nodes := Collect(func(a Anything) bool {
		_, ok := a.(T)
		return ok
	}, roots...)
	result := make([]T, len(nodes))
	for i := range nodes {
		result[i] = nodes[i].(T)
	}
	return result
}

// Key identifies a node structurally.
func Key(node Anything) string {
	return fmt.Sprintf("%T|%s", node, node.PrettyPrint())
}

// Same reports structural equality.
func Same(a, b Anything) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Key(a) == Key(b)
}

func anythings[T Anything](items []T) []Anything {
	res := make([]Anything, len(items))
	for i := range items {
		res[i] = items[i]
	}
	return res
}
