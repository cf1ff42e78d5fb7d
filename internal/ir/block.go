package ir

// BasicBlockID identifies a block uniquely within its owning graph.
type BasicBlockID int

// BasicBlock is an ordered intrusive list of instructions plus
// predecessor/successor edges and per-block analysis state (spec.md §3
// "Basic block", C3).
type BasicBlock struct {
	id    BasicBlockID
	graph *Graph

	predecessors []*BasicBlock
	successors   []*BasicBlock

	firstInsn *Instruction
	lastInsn  *Instruction

	markers [colorCount]int

	immediateDominator *BasicBlock
	dominatedBlocks    []*BasicBlock

	loop *Loop
}

func newBasicBlock(g *Graph, id BasicBlockID) *BasicBlock {
	return &BasicBlock{id: id, graph: g}
}

// ID returns the block's unique id.
func (b *BasicBlock) ID() BasicBlockID { return b.id }

// Graph returns the owning graph.
func (b *BasicBlock) Graph() *Graph { return b.graph }

// Predecessors and Successors expose the CFG edges (spec.md invariant P1).
// Successors never holds more than two entries (spec.md §3 "Basic block").
func (b *BasicBlock) Predecessors() []*BasicBlock { return b.predecessors }
func (b *BasicBlock) Successors() []*BasicBlock   { return b.successors }

// AddSuccessor records a CFG edge out of b. It is a programmer precondition
// violation to give a block a third successor (spec.md §7).
func (b *BasicBlock) AddSuccessor(s *BasicBlock) {
	assertf(len(b.successors) < 2, "block %d already has 2 successors", b.id)
	b.successors = append(b.successors, s)
}

// AddPredecessor records a CFG edge into b.
func (b *BasicBlock) AddPredecessor(p *BasicBlock) {
	b.predecessors = append(b.predecessors, p)
}

// FirstInsn and LastInsn expose the ends of the intrusive instruction list
// (spec.md invariant I3).
func (b *BasicBlock) FirstInsn() *Instruction { return b.firstInsn }
func (b *BasicBlock) LastInsn() *Instruction  { return b.lastInsn }

// PushInstruction appends insn to the end of the block's instruction list
// (spec.md §4.3). Branch/jump placement (invariant I5) is not checked here,
// nor by the builder, which appends through this method as well.
func (b *BasicBlock) PushInstruction(insn *Instruction) {
	insn.block = b
	insn.prev = b.lastInsn
	insn.next = nil
	if b.lastInsn != nil {
		b.lastInsn.next = insn
	} else {
		b.firstInsn = insn
	}
	b.lastInsn = insn
}

// InsertInstruction inserts insn immediately after prevInsn, or at the
// front of the block when prevInsn is nil (spec.md §4.3). This is the
// primitive C9's constant-merge rewrite and C4's create-instruction-
// replacing use to splice a new instruction in before an existing one.
func (b *BasicBlock) InsertInstruction(prevInsn, insn *Instruction) {
	insn.block = b

	if prevInsn == nil {
		insn.prev = nil
		insn.next = b.firstInsn
		if b.firstInsn != nil {
			b.firstInsn.prev = insn
		} else {
			b.lastInsn = insn
		}
		b.firstInsn = insn
		return
	}

	assertf(prevInsn.block == b, "InsertInstruction: prevInsn is not in this block")
	insn.prev = prevInsn
	insn.next = prevInsn.next
	if prevInsn.next != nil {
		prevInsn.next.prev = insn
	} else {
		b.lastInsn = insn
	}
	prevInsn.next = insn
}

// Remove unlinks insnToRemove from the intrusive list. The instruction
// object itself persists in the graph's instruction pool — dead-code
// elimination is a future pass (spec.md §3 "Lifecycles").
func (b *BasicBlock) Remove(insnToRemove *Instruction) {
	assertf(insnToRemove.block == b, "Remove: instruction is not in this block")

	if insnToRemove.prev != nil {
		insnToRemove.prev.next = insnToRemove.next
	} else {
		b.firstInsn = insnToRemove.next
	}
	if insnToRemove.next != nil {
		insnToRemove.next.prev = insnToRemove.prev
	} else {
		b.lastInsn = insnToRemove.prev
	}

	insnToRemove.prev = nil
	insnToRemove.next = nil
	insnToRemove.block = nil
}

// EnumerateInstructions walks the block's instruction list in order,
// invoking callback on each. The next pointer is captured before callback
// runs, so callback may remove the current instruction (or replace it via
// Graph.CreateInstructionReplacing) without invalidating the traversal
// (spec.md §4.3, §5).
func (b *BasicBlock) EnumerateInstructions(callback func(*Instruction)) {
	cur := b.firstInsn
	for cur != nil {
		next := cur.next
		callback(cur)
		cur = next
	}
}

// SetMarker marks b with m (spec.md §4.1).
func (b *BasicBlock) SetMarker(m Marker) {
	b.markers[m.color] = m.index
}

// EraseMarker clears b's slot for m's color, regardless of which index it
// currently holds.
func (b *BasicBlock) EraseMarker(m Marker) {
	b.markers[m.color] = noMarker
}

// IsMarked reports whether b is currently marked with m.
func (b *BasicBlock) IsMarked(m Marker) bool {
	return b.markers[m.color] == m.index
}

// ClearMarkers resets every color slot to the empty marker.
func (b *BasicBlock) ClearMarkers() {
	for c := range b.markers {
		b.markers[c] = noMarker
	}
}

// ImmediateDominator returns b's immediate dominator, or nil for the start
// block (spec.md §4.7).
func (b *BasicBlock) ImmediateDominator() *BasicBlock { return b.immediateDominator }

// SetImmediateDominator records b's immediate dominator.
func (b *BasicBlock) SetImmediateDominator(idom *BasicBlock) {
	b.immediateDominator = idom
}

// DominatedBlocks returns the set of blocks b dominates. For the start block
// this is the whole RPO vector, the start block itself included; for every
// other block it does not include b itself.
func (b *BasicBlock) DominatedBlocks() []*BasicBlock { return b.dominatedBlocks }

// SetDominatedBlocks replaces b's dominated-block set.
func (b *BasicBlock) SetDominatedBlocks(blocks []*BasicBlock) {
	b.dominatedBlocks = blocks
}

// DominatesOver reports whether b dominates other: true when other == b or
// other is in b's dominated set (spec.md §4.3 "dominates-over").
func (b *BasicBlock) DominatesOver(other *BasicBlock) bool {
	if other == b {
		return true
	}
	for _, d := range b.dominatedBlocks {
		if d == other {
			return true
		}
	}
	return false
}

// Loop returns the loop b currently belongs to, or nil before loop
// analysis has run.
func (b *BasicBlock) Loop() *Loop { return b.loop }

// SetLoop assigns b to loop.
func (b *BasicBlock) SetLoop(loop *Loop) { b.loop = loop }

// IsHeader reports whether b is the header of its owning loop (spec.md
// §4.3 "is-header").
func (b *BasicBlock) IsHeader() bool {
	return b.loop != nil && b.loop.Header() == b
}
