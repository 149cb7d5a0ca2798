package ir

import (
	"strings"

	"its-hmny.dev/resourcec/pkg/diag"
	"its-hmny.dev/resourcec/pkg/utils"
)

// color marks the three DFS states the cycle detector tracks per resource.
type color uint8

const (
	white color = iota // not yet visited
	gray               // on the current recursion path
	black              // fully explored, known acyclic
)

// DetectCycles walks the resource reference graph of a resolved Program and
// reports the first dependency cycle found, in a fixed traversal order:
// outer loop over resources in declaration order, each DFS visiting a
// resource's own field-and-reference declaration order. It uses a generic
// Stack[T] as the explicit recursion path instead of the Go call stack, so
// the exact cycle can be read back out of it once a back edge is found.
func DetectCycles(program *Program) error {
	edges := buildEdges(program)
	colors := make([]color, len(program.Resources))
	path := utils.NewStack[int]()

	var cycle []string

	var visit func(node int) bool
	visit = func(node int) bool {
		colors[node] = gray
		path.Push(node)

		for _, next := range edges[node] {
			if colors[next] == gray {
				cycle = buildCyclePath(path, next, program)
				return true
			}
			if colors[next] == white && visit(next) {
				return true
			}
		}

		path.Pop()
		colors[node] = black
		return false
	}

	for i := range program.Resources {
		if colors[i] == white && visit(i) {
			return diag.New(diag.Cyclic, "dependency cycle: %s", strings.Join(cycle, " -> "))
		}
	}

	return nil
}

// buildEdges flattens each resource's fields into the list of resource
// indices it directly references, in field-declaration order, preserving
// duplicates (a resource referencing another through two different fields
// yields two separate edges - harmless for cycle detection, since the first
// one found still reports the same cycle).
func buildEdges(program *Program) [][]int {
	edges := make([][]int, len(program.Resources))

	for i, resource := range program.Resources {
		for _, field := range resource.Fields {
			collectRefs(field.Type, &edges[i])
		}
	}

	return edges
}

func collectRefs(t Type, out *[]int) {
	switch tt := t.(type) {
	case ResourceRef:
		*out = append(*out, tt.Index)
	case ListType:
		collectRefs(tt.Elem, out)
	case PrimitiveType:
		// no reference to collect
	}
}

// buildCyclePath reconstructs the human-readable cycle, starting from where
// 'entry' first appears in the current recursion path and closing the loop
// by repeating its name at the end.
func buildCyclePath(path utils.Stack[int], entry int, program *Program) []string {
	elements := path.Elements()

	start := 0
	for i, node := range elements {
		if node == entry {
			start = i
			break
		}
	}

	names := make([]string, 0, len(elements)-start+1)
	for _, node := range elements[start:] {
		names = append(names, program.Resources[node].Name)
	}
	names = append(names, program.Resources[entry].Name)

	return names
}
