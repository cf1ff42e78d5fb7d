package analysis

import "sonir/internal/ir"

// AnalyzeLoops builds the dominator tree, discovers every natural loop in
// g, and assembles the loop tree rooted at g's root loop (C8, spec.md
// §4.8). It runs in four phases: create the root loop, collect latches via
// a two-color DFS, populate each loop's membership in reverse RPO order,
// and attach whatever is left over to the root loop.
func AnalyzeLoops(g *ir.Graph) {
	BuildDominatorTree(g)
	rpo := g.RPOBlocks()

	root := createRootLoop(g)
	if len(rpo) == 0 {
		return
	}

	loopsByHeader := collectLatches(g)
	populateLoops(g, reverseOf(rpo), loopsByHeader)
	buildLoopTree(g, rpo, root)
}

func createRootLoop(g *ir.Graph) *ir.Loop {
	root := g.CreateLoop(nil)
	root.MarkAsRoot()
	g.SetRootLoop(root)
	return root
}

// collectLatches runs a DFS from the start block with two live markers at
// once: black marks every block visited so far in this traversal, gray
// marks the blocks on the current DFS stack. A successor already marked
// gray is the target of a back edge — a loop header — and the current block
// is recorded as a latch of that header's loop (phase L2, spec.md §4.8).
func collectLatches(g *ir.Graph) map[*ir.BasicBlock]*ir.Loop {
	start := g.StartBlock()
	loopsByHeader := make(map[*ir.BasicBlock]*ir.Loop)

	black := g.CreateNewMarker()
	gray := g.CreateNewMarker()
	defer g.EraseMarker(black)
	defer g.EraseMarker(gray)

	var dfs func(b *ir.BasicBlock)
	dfs = func(b *ir.BasicBlock) {
		b.SetMarker(black)
		b.SetMarker(gray)
		for _, succ := range b.Successors() {
			switch {
			case succ.IsMarked(gray):
				processNewLatch(g, loopsByHeader, succ, b)
			case !succ.IsMarked(black):
				dfs(succ)
			}
		}
		b.EraseMarker(gray)
	}
	dfs(start)

	return loopsByHeader
}

func processNewLatch(g *ir.Graph, loopsByHeader map[*ir.BasicBlock]*ir.Loop, header, latch *ir.BasicBlock) {
	loop, ok := loopsByHeader[header]
	if !ok {
		loop = g.CreateLoop(header)
		loopsByHeader[header] = loop
		header.SetLoop(loop)
		loop.SetReducible(true)
	}
	loop.AddLatch(latch)
	loop.SetReducible(loop.IsReducible() && header.DominatesOver(latch))
}

// reverseOf returns a reversed copy of rpo without mutating it.
func reverseOf(rpo []*ir.BasicBlock) []*ir.BasicBlock {
	out := make([]*ir.BasicBlock, len(rpo))
	for i, b := range rpo {
		out[len(rpo)-1-i] = b
	}
	return out
}

// populateLoops walks blocks in reverse RPO order — a nested loop's header
// is processed before its outer loop's header, so by the time the outer
// loop's backward walk reaches the inner loop's blocks they already belong
// to the inner loop, and the nesting edge recorded in loopSearchDFS points
// the right way (phase L3, spec.md §4.8 and §9 "Open questions": the source
// relies on this exact ordering).
func populateLoops(g *ir.Graph, rpo []*ir.BasicBlock, loopsByHeader map[*ir.BasicBlock]*ir.Loop) {
	for _, b := range rpo {
		loop, ok := loopsByHeader[b]
		if !ok {
			continue
		}
		if loop.IsReducible() {
			processReducibleLoopHeader(g, loop, b)
		} else {
			processIrreducibleLoopHeader(loop)
		}
	}
}

// processReducibleLoopHeader walks backward from every latch along
// predecessor edges, claiming every block not already owned by a loop and
// recording nested-loop edges for blocks that belong to an inner loop
// discovered earlier in the RPO walk. It allocates a fresh marker per
// header so membership from one loop's walk never leaks into another's.
func processReducibleLoopHeader(g *ir.Graph, loop *ir.Loop, header *ir.BasicBlock) {
	marker := g.CreateNewMarker()
	defer g.EraseMarker(marker)

	header.SetMarker(marker)
	loop.PushBlock(header)
	header.SetLoop(loop)

	for _, latch := range loop.Latches() {
		loopSearchDFS(loop, latch, marker)
	}
}

func loopSearchDFS(loop *ir.Loop, block *ir.BasicBlock, marker ir.Marker) {
	if block.IsMarked(marker) {
		return
	}
	block.SetMarker(marker)

	if block.Loop() == nil {
		loop.PushBlock(block)
		block.SetLoop(loop)
	} else if block.Loop() != loop {
		inner := block.Loop()
		if inner.OuterLoop() == nil {
			inner.SetOuterLoop(loop)
			loop.AddInnerLoop(inner)
		}
	}

	for _, pred := range block.Predecessors() {
		loopSearchDFS(loop, pred, marker)
	}
}

// processIrreducibleLoopHeader does not traverse: each latch not already
// claimed by this loop is folded into its membership directly, with no
// walk back along predecessors (spec.md §4.8 phase L3, irreducible case).
func processIrreducibleLoopHeader(loop *ir.Loop) {
	for _, latch := range loop.Latches() {
		if latch.Loop() != loop {
			loop.PushBlock(latch)
			latch.SetLoop(loop)
		}
	}
}

// buildLoopTree assigns every block the loop analyzer never reached to the
// root loop, then attaches every loop without an outer loop of its own
// directly under the root (phase L4, spec.md §4.8).
func buildLoopTree(g *ir.Graph, rpo []*ir.BasicBlock, root *ir.Loop) {
	for _, b := range rpo {
		if b.Loop() == nil {
			root.PushBlock(b)
			b.SetLoop(root)
		}
	}
	for _, l := range g.Loops() {
		if l == root {
			continue
		}
		if l.OuterLoop() == nil {
			l.SetOuterLoop(root)
			root.AddInnerLoop(l)
		}
	}
}
