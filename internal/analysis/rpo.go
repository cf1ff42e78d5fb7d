// Package analysis implements the graph-level traversal and analysis
// passes (C6, C7, C8): reverse-postorder, dominator-tree construction, and
// natural-loop discovery. Each takes a *ir.Graph, does its work through the
// graph/block public API (markers, successors, dominance getters/setters),
// and caches its result back onto the graph or its blocks.
package analysis

import "sonir/internal/ir"

// RPO computes a reverse-postorder traversal of g starting from its start
// block, caches it on the graph, and returns it (C6, spec.md §4.6).
// Unreachable blocks are excluded, matching a plain postorder DFS from the
// start block, reversed.
func RPO(g *ir.Graph) []*ir.BasicBlock {
	start := g.StartBlock()
	if start == nil {
		g.SetRPOBlocks(nil)
		return nil
	}

	marker := g.CreateNewMarker()
	defer g.EraseMarker(marker)

	postorder := make([]*ir.BasicBlock, 0, len(g.Blocks()))
	var dfs func(b *ir.BasicBlock)
	dfs = func(b *ir.BasicBlock) {
		b.SetMarker(marker)
		for _, succ := range b.Successors() {
			if !succ.IsMarked(marker) {
				dfs(succ)
			}
		}
		postorder = append(postorder, b)
	}
	dfs(start)

	rpo := make([]*ir.BasicBlock, len(postorder))
	for i, b := range postorder {
		rpo[len(postorder)-1-i] = b
	}
	g.SetRPOBlocks(rpo)
	return rpo
}
