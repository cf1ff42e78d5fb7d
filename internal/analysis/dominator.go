package analysis

import "sonir/internal/ir"

// BuildDominatorTree computes the dominator relation for every block in g
// and records it on each block via SetDominatedBlocks/SetImmediateDominator
// (C7, spec.md §4.7). It always recomputes RPO first, so calling it
// multiple times on an unchanged graph is idempotent.
//
// The algorithm is reachability-based rather than Lengauer-Tarjan: block X
// dominates block Y (Y != X) exactly when removing X from the graph makes
// Y unreachable from the start block. For each candidate X this costs one
// DFS; acceptable at the graph sizes this IR targets (spec.md §9 "favor the
// simpler reachability formulation").
func BuildDominatorTree(g *ir.Graph) {
	rpo := RPO(g)
	if len(rpo) == 0 {
		return
	}
	root := rpo[0]

	// Every block in the RPO vector is dominated by the root until proven
	// otherwise by a tighter candidate below.
	root.SetDominatedBlocks(append([]*ir.BasicBlock(nil), rpo...))

	dominators := make(map[*ir.BasicBlock][]*ir.BasicBlock, len(rpo))
	for _, b := range rpo[1:] {
		dominators[b] = []*ir.BasicBlock{root}
	}

	for _, b := range rpo[1:] {
		reachable := reachableExcluding(g, b)
		calculateDominatedBlocks(b, rpo, reachable, dominators)
	}

	for _, b := range rpo {
		calculateImmediateDominator(b, dominators)
	}
}

// reachableExcluding returns the set of blocks reachable from g's start
// block when excluded is treated as removed from the graph.
func reachableExcluding(g *ir.Graph, excluded *ir.BasicBlock) map[*ir.BasicBlock]bool {
	marker := g.CreateNewMarker()
	defer g.EraseMarker(marker)
	excluded.SetMarker(marker)

	reachable := make(map[*ir.BasicBlock]bool)
	var dfs func(b *ir.BasicBlock)
	dfs = func(b *ir.BasicBlock) {
		if b.IsMarked(marker) {
			return
		}
		b.SetMarker(marker)
		reachable[b] = true
		for _, succ := range b.Successors() {
			dfs(succ)
		}
	}
	dfs(g.StartBlock())
	return reachable
}

// calculateDominatedBlocks records, for block, every other block in rpo
// that becomes unreachable once block is removed — i.e. every block block
// dominates — and appends block to each such block's dominator list.
func calculateDominatedBlocks(block *ir.BasicBlock, rpo []*ir.BasicBlock, reachable map[*ir.BasicBlock]bool, dominators map[*ir.BasicBlock][]*ir.BasicBlock) {
	var dominated []*ir.BasicBlock
	for _, other := range rpo {
		if other == block || reachable[other] {
			continue
		}
		dominated = append(dominated, other)
		dominators[other] = append(dominators[other], block)
	}
	block.SetDominatedBlocks(dominated)
}

// calculateImmediateDominator checks, for each block block dominates,
// whether block is the tightest (immediate) dominator: block qualifies
// when every other recorded dominator of that block also dominates block
// itself, meaning none of them sit strictly between block and the target.
func calculateImmediateDominator(block *ir.BasicBlock, dominators map[*ir.BasicBlock][]*ir.BasicBlock) {
	for _, dominated := range block.DominatedBlocks() {
		if dominated == block {
			// The start block's dominated set includes itself; it has no
			// immediate dominator.
			continue
		}
		doms := dominators[dominated]
		isImmediate := true
		for _, other := range doms {
			if other == block {
				continue
			}
			if !other.DominatesOver(block) {
				isImmediate = false
				break
			}
		}
		if isImmediate {
			dominated.SetImmediateDominator(block)
		}
	}
}
