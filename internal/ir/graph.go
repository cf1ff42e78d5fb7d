package ir

// Graph owns every block, instruction, and loop belonging to one function,
// and is the factory for all three (spec.md §3 "Graph", C4). The first
// block ever created is the start block by convention.
type Graph struct {
	methodID int

	blocks       []*BasicBlock
	instructions []*Instruction
	loops        []*Loop
	rootLoop     *Loop

	rpo []*BasicBlock

	markers *MarkerManager

	nextBlockIDValue       int
	nextInstructionIDValue int
}

// NewGraph constructs an empty graph for the given method id.
func NewGraph(methodID int) *Graph {
	return &Graph{
		methodID: methodID,
		markers:  NewMarkerManager(),
	}
}

// MethodID returns the graph's owning method identifier.
func (g *Graph) MethodID() int { return g.methodID }

func (g *Graph) nextBlockID() BasicBlockID {
	id := g.nextBlockIDValue
	g.nextBlockIDValue++
	return BasicBlockID(id)
}

func (g *Graph) nextInstructionID() int {
	id := g.nextInstructionIDValue
	g.nextInstructionIDValue++
	return id
}

// CreateBlock allocates a fresh block owned by this graph (C4 factory).
func (g *Graph) CreateBlock() *BasicBlock {
	b := newBasicBlock(g, g.nextBlockID())
	g.blocks = append(g.blocks, b)
	return b
}

// Blocks returns every block the graph owns, in creation order.
func (g *Graph) Blocks() []*BasicBlock { return g.blocks }

// Instructions returns every instruction the graph owns, in creation
// order. Removed instructions remain in this pool (spec.md §3
// "Lifecycles") since dead-code elimination is a future pass.
func (g *Graph) Instructions() []*Instruction { return g.instructions }

// StartBlock returns the graph's entry block by convention: the first
// block created (spec.md §3 "Graph").
func (g *Graph) StartBlock() *BasicBlock {
	if len(g.blocks) == 0 {
		return nil
	}
	return g.blocks[0]
}

// CreateNewMarker and EraseMarker delegate to the graph's marker manager
// (C1, spec.md §4.1).
func (g *Graph) CreateNewMarker() Marker { return g.markers.CreateNewMarker() }
func (g *Graph) EraseMarker(m Marker)    { g.markers.EraseMarker(m) }

// RPOBlocks returns the most recently computed reverse-postorder vector,
// or nil if no RPO traversal has run yet (spec.md §4.4 "cached RPO
// vector"). internal/analysis.RPO populates this via SetRPOBlocks.
func (g *Graph) RPOBlocks() []*BasicBlock { return g.rpo }

// SetRPOBlocks caches the result of an RPO traversal on the graph.
func (g *Graph) SetRPOBlocks(rpo []*BasicBlock) { g.rpo = rpo }

// RootLoop returns the graph's catch-all root loop, or nil before loop
// analysis has run.
func (g *Graph) RootLoop() *Loop { return g.rootLoop }

// SetRootLoop records the graph's root loop.
func (g *Graph) SetRootLoop(l *Loop) { g.rootLoop = l }

// CreateLoop allocates a fresh loop headed at header (nil for the root
// loop) and attaches it to the graph (C4 factory, spec.md §4.8).
func (g *Graph) CreateLoop(header *BasicBlock) *Loop {
	l := newLoop(header)
	g.loops = append(g.loops, l)
	return l
}

// Loops returns every loop the graph owns, in creation order (root loop
// included once created).
func (g *Graph) Loops() []*Loop { return g.loops }

// CreateInstructionReplacing builds a new instruction via build, splices it
// into old's block immediately before old, transfers every one of old's
// users onto the new instruction, removes old from its block, and returns
// the new instruction (spec.md §4.4 "create-instruction-replacing" — the
// primary tool peephole rewrites use). build receives the graph so it can
// call the ordinary CreateXxxInsn constructors.
func (g *Graph) CreateInstructionReplacing(old *Instruction, build func(g *Graph) *Instruction) *Instruction {
	blk := old.Block()
	assertf(blk != nil, "CreateInstructionReplacing: old instruction has no parent block")

	next := build(g)
	blk.InsertInstruction(old.Prev(), next)
	old.ReplaceInputsForUsers(next)
	blk.Remove(old)
	return next
}
