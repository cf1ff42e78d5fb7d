package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sonir/internal/ir"
)

// buildDiamondWithSink builds A→B, B→C, B→F, C→D, F→E, F→G, G→D, E→D —
// seed tests 1 and 2's fixture graph.
func buildDiamondWithSink(t *testing.T) (*ir.Graph, map[string]*ir.BasicBlock) {
	t.Helper()
	g := ir.NewGraph(0)
	blocks := map[string]*ir.BasicBlock{
		"A": g.CreateBlock(),
		"B": g.CreateBlock(),
		"C": g.CreateBlock(),
		"D": g.CreateBlock(),
		"E": g.CreateBlock(),
		"F": g.CreateBlock(),
		"G": g.CreateBlock(),
	}
	link := func(from, to string) {
		blocks[from].AddSuccessor(blocks[to])
		blocks[to].AddPredecessor(blocks[from])
	}
	link("A", "B")
	link("B", "C")
	link("B", "F")
	link("C", "D")
	link("F", "E")
	link("F", "G")
	link("G", "D")
	link("E", "D")
	return g, blocks
}

func names(blocks []*ir.BasicBlock, by map[*ir.BasicBlock]string) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = by[b]
	}
	return out
}

func invert(blocks map[string]*ir.BasicBlock) map[*ir.BasicBlock]string {
	out := make(map[*ir.BasicBlock]string, len(blocks))
	for name, b := range blocks {
		out[b] = name
	}
	return out
}

func TestRPODiamondWithSink(t *testing.T) {
	g, blocks := buildDiamondWithSink(t)
	rpo := RPO(g)
	got := names(rpo, invert(blocks))
	assert.Equal(t, []string{"A", "B", "F", "G", "E", "C", "D"}, got)
	assert.Equal(t, rpo, g.RPOBlocks())
}

func TestDominatorTreeDiamondWithSink(t *testing.T) {
	g, blocks := buildDiamondWithSink(t)
	BuildDominatorTree(g)

	want := map[string]string{
		"B": "A",
		"C": "B",
		"D": "B",
		"E": "F",
		"F": "B",
		"G": "F",
	}
	by := invert(blocks)
	for name, expectedIdom := range want {
		idom := blocks[name].ImmediateDominator()
		require.NotNil(t, idom, "block %s should have an immediate dominator", name)
		assert.Equal(t, expectedIdom, by[idom], "immediate dominator of %s", name)
	}
	assert.Nil(t, blocks["A"].ImmediateDominator())
}

// buildSingleReducibleLoop builds A→B, B→C, B→D, D→E, E→A — seed test 3's
// fixture graph.
func buildSingleReducibleLoop(t *testing.T) (*ir.Graph, map[string]*ir.BasicBlock) {
	t.Helper()
	g := ir.NewGraph(0)
	blocks := map[string]*ir.BasicBlock{
		"A": g.CreateBlock(),
		"B": g.CreateBlock(),
		"C": g.CreateBlock(),
		"D": g.CreateBlock(),
		"E": g.CreateBlock(),
	}
	link := func(from, to string) {
		blocks[from].AddSuccessor(blocks[to])
		blocks[to].AddPredecessor(blocks[from])
	}
	link("A", "B")
	link("B", "C")
	link("B", "D")
	link("D", "E")
	link("E", "A")
	return g, blocks
}

// buildNestedLoops builds A→B, B→C, C→D, D→C (inner latch), D→E, E→B
// (outer latch), E→F: an outer loop headed at B containing an inner loop
// headed at C. Reverse-RPO processing order visits C (the inner header)
// before B (the outer header), which is what lets the inner loop's nesting
// edge attach to the right outer loop on the first pass.
func buildNestedLoops(t *testing.T) (*ir.Graph, map[string]*ir.BasicBlock) {
	t.Helper()
	g := ir.NewGraph(0)
	blocks := map[string]*ir.BasicBlock{
		"A": g.CreateBlock(),
		"B": g.CreateBlock(),
		"C": g.CreateBlock(),
		"D": g.CreateBlock(),
		"E": g.CreateBlock(),
		"F": g.CreateBlock(),
	}
	link := func(from, to string) {
		blocks[from].AddSuccessor(blocks[to])
		blocks[to].AddPredecessor(blocks[from])
	}
	link("A", "B")
	link("B", "C")
	link("C", "D")
	link("D", "C")
	link("D", "E")
	link("E", "B")
	link("E", "F")
	return g, blocks
}

func TestLoopAnalysisNestedLoops(t *testing.T) {
	g, blocks := buildNestedLoops(t)
	AnalyzeLoops(g)
	by := invert(blocks)

	root := g.RootLoop()
	require.NotNil(t, root)
	assert.ElementsMatch(t, []string{"A", "F"}, names(root.Members(), by))
	require.Len(t, root.InnerLoops(), 1)

	outer := root.InnerLoops()[0]
	assert.Equal(t, blocks["B"], outer.Header())
	assert.ElementsMatch(t, []string{"B", "E"}, names(outer.Members(), by))
	require.Len(t, outer.InnerLoops(), 1)

	inner := outer.InnerLoops()[0]
	assert.Equal(t, blocks["C"], inner.Header())
	assert.ElementsMatch(t, []string{"C", "D"}, names(inner.Members(), by))
	assert.Equal(t, outer, inner.OuterLoop())

	assert.Equal(t, outer, blocks["B"].Loop())
	assert.Equal(t, outer, blocks["E"].Loop())
	assert.Equal(t, inner, blocks["C"].Loop())
	assert.Equal(t, inner, blocks["D"].Loop())
}

func TestLoopAnalysisSingleReducibleLoop(t *testing.T) {
	g, blocks := buildSingleReducibleLoop(t)
	AnalyzeLoops(g)
	by := invert(blocks)

	root := g.RootLoop()
	require.NotNil(t, root)
	assert.ElementsMatch(t, []string{"C"}, names(root.Members(), by))
	require.Len(t, root.InnerLoops(), 1)

	inner := root.InnerLoops()[0]
	assert.Equal(t, blocks["A"], inner.Header())
	assert.True(t, inner.IsReducible())
	assert.ElementsMatch(t, []string{"E"}, names(inner.Latches(), by))
	assert.ElementsMatch(t, []string{"A", "B", "D", "E"}, names(inner.Members(), by))

	for _, name := range []string{"A", "B", "D", "E"} {
		assert.Equal(t, inner, blocks[name].Loop(), "block %s should belong to the inner loop", name)
	}
	assert.Equal(t, root, blocks["C"].Loop())
}

// buildIrreducibleLoop builds Start→A, Start→B, A→B, B→A: A and B are each
// reachable directly from Start, so the B→A back edge forms a loop whose
// header A does not dominate its latch B — the textbook irreducible shape, used to
// exercise Phase L3's conservative (no-traversal) branch.
func buildIrreducibleLoop(t *testing.T) (*ir.Graph, map[string]*ir.BasicBlock) {
	t.Helper()
	g := ir.NewGraph(0)
	blocks := map[string]*ir.BasicBlock{
		"Start": g.CreateBlock(),
		"A":     g.CreateBlock(),
		"B":     g.CreateBlock(),
	}
	link := func(from, to string) {
		blocks[from].AddSuccessor(blocks[to])
		blocks[to].AddPredecessor(blocks[from])
	}
	link("Start", "A")
	link("Start", "B")
	link("A", "B")
	link("B", "A")
	return g, blocks
}

func TestLoopAnalysisIrreducibleLoop(t *testing.T) {
	g, blocks := buildIrreducibleLoop(t)
	AnalyzeLoops(g)
	by := invert(blocks)

	root := g.RootLoop()
	require.NotNil(t, root)
	assert.ElementsMatch(t, []string{"Start"}, names(root.Members(), by))
	require.Len(t, root.InnerLoops(), 1)

	loop := root.InnerLoops()[0]
	assert.Equal(t, blocks["A"], loop.Header())
	assert.False(t, loop.IsReducible())
	assert.ElementsMatch(t, []string{"B"}, names(loop.Latches(), by))
	assert.ElementsMatch(t, []string{"B"}, names(loop.Members(), by))
	assert.Equal(t, loop, blocks["A"].Loop())
	assert.Equal(t, loop, blocks["B"].Loop())
}
