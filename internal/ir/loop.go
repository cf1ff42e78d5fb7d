package ir

// Loop is a natural loop discovered by the loop analyzer, or the graph's
// catch-all root loop (spec.md §3 "Loop", C8).
type Loop struct {
	header *BasicBlock // nil for the root loop.
	isRoot bool

	latches []*BasicBlock
	members []*BasicBlock

	inner []*Loop
	outer *Loop

	reducible bool
}

func newLoop(header *BasicBlock) *Loop {
	return &Loop{header: header}
}

// Header returns the loop's unique entry block, or nil for the root loop.
func (l *Loop) Header() *BasicBlock { return l.header }

// IsRoot reports whether l is the graph's catch-all root loop (invariant
// L2).
func (l *Loop) IsRoot() bool { return l.isRoot }

// MarkAsRoot marks l as the graph's root loop.
func (l *Loop) MarkAsRoot() { l.isRoot = true }

// Latches returns the loop's latch blocks — sources of back edges into the
// header.
func (l *Loop) Latches() []*BasicBlock { return l.latches }

// AddLatch records a latch block.
func (l *Loop) AddLatch(b *BasicBlock) { l.latches = append(l.latches, b) }

// Members returns the loop's member blocks. For a reducible loop the header
// and latches are members too once populated by Phase L3; an irreducible
// loop's members are only its latches, not its header. The root loop's
// members are the blocks no other loop claimed (Phase L4).
func (l *Loop) Members() []*BasicBlock { return l.members }

// PushBlock adds b to the loop's member list.
func (l *Loop) PushBlock(b *BasicBlock) { l.members = append(l.members, b) }

// InnerLoops returns the loops directly nested inside l (invariant L3).
func (l *Loop) InnerLoops() []*Loop { return l.inner }

// AddInnerLoop records inner as nested directly inside l.
func (l *Loop) AddInnerLoop(inner *Loop) { l.inner = append(l.inner, inner) }

// OuterLoop returns the loop l is nested inside, or nil if not yet
// attached (the root loop always has a nil outer loop).
func (l *Loop) OuterLoop() *Loop { return l.outer }

// SetOuterLoop records l's enclosing loop.
func (l *Loop) SetOuterLoop(outer *Loop) { l.outer = outer }

// IsReducible reports whether l's header dominates every one of its
// latches (invariant L1, spec.md §4.8 Phase L2).
func (l *Loop) IsReducible() bool { return l.reducible }

// SetReducible records l's reducibility, decided once at latch-collection
// time (spec.md §4.8 Phase L2: "set the loop's reducibility to 'header
// dominates latch'").
func (l *Loop) SetReducible(reducible bool) { l.reducible = reducible }
