package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func program(resources ...Resource) *Program {
	return &Program{Resources: resources}
}

func refField(name string, index int) Field {
	return Field{Name: name, Type: ResourceRef{Index: index}}
}

func strField(name string) Field {
	return Field{Name: name, Type: PrimitiveType{Name: "string"}}
}

func TestDetectCyclesAcceptsAcyclicGraph(t *testing.T) {
	// Team -> User -> (no refs)
	prog := program(
		Resource{Name: "Team", Fields: []Field{strField("name"), refField("leader", 1)}},
		Resource{Name: "User", Fields: []Field{strField("name")}},
	)
	require.NoError(t, DetectCycles(prog))
}

func TestDetectCyclesRejectsSelfLoop(t *testing.T) {
	prog := program(
		Resource{Name: "Node", Fields: []Field{refField("next", 0)}},
	)
	err := DetectCycles(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Node -> Node")
}

func TestDetectCyclesRejectsTwoNodeCycle(t *testing.T) {
	// A -> B -> A
	prog := program(
		Resource{Name: "A", Fields: []Field{refField("b", 1)}},
		Resource{Name: "B", Fields: []Field{refField("a", 0)}},
	)
	err := DetectCycles(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "A -> B -> A")
}

func TestDetectCyclesFindsFirstCycleInDeclarationOrder(t *testing.T) {
	// X has no cycle; A -> B -> A is the first (and only) cycle reachable.
	prog := program(
		Resource{Name: "X", Fields: []Field{strField("name")}},
		Resource{Name: "A", Fields: []Field{refField("b", 2)}},
		Resource{Name: "B", Fields: []Field{refField("a", 1)}},
	)
	err := DetectCycles(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "A -> B -> A")
}

func TestDetectCyclesThroughList(t *testing.T) {
	prog := program(
		Resource{Name: "Team", Fields: []Field{
			{Name: "members", Type: ListType{Elem: ResourceRef{Index: 0}}},
		}},
	)
	err := DetectCycles(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Team -> Team")
}
