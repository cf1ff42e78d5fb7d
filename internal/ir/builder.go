package ir

// Builder is a stateful façade over a Graph that tracks a "current block"
// cursor, so callers can emit instructions without threading a *BasicBlock
// through every call (spec.md §3 "IR builder", C5). It mirrors the
// teacher's internal/ir.Builder shape (a graph plus a cursor and counters),
// generalized from contract lowering to plain SSA construction.
type Builder struct {
	graph *Graph
	block *BasicBlock
}

// NewBuilder creates a builder over a fresh graph and positions the cursor
// at a newly created start block.
func NewBuilder(methodID int) *Builder {
	g := NewGraph(methodID)
	b := &Builder{graph: g}
	b.block = g.CreateBlock()
	return b
}

// Graph returns the graph under construction.
func (b *Builder) Graph() *Graph { return b.graph }

// CurrentBlock returns the block new instructions are appended to.
func (b *Builder) CurrentBlock() *BasicBlock { return b.block }

// SetCurrentBlock repositions the cursor, typically after SwitchToBlock-style
// control flow (entering a freshly created successor).
func (b *Builder) SetCurrentBlock(blk *BasicBlock) { b.block = blk }

// CreateBlock allocates a new block without moving the cursor onto it.
func (b *Builder) CreateBlock() *BasicBlock { return b.graph.CreateBlock() }

func (b *Builder) emit(insn *Instruction) *Instruction {
	b.block.PushInstruction(insn)
	return insn
}

func (b *Builder) CreateAdd(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return b.emit(b.graph.CreateAddInsn(typ, lhs, rhs))
}
func (b *Builder) CreateSub(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return b.emit(b.graph.CreateSubInsn(typ, lhs, rhs))
}
func (b *Builder) CreateMul(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return b.emit(b.graph.CreateMulInsn(typ, lhs, rhs))
}
func (b *Builder) CreateDiv(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return b.emit(b.graph.CreateDivInsn(typ, lhs, rhs))
}
func (b *Builder) CreateRem(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return b.emit(b.graph.CreateRemInsn(typ, lhs, rhs))
}
func (b *Builder) CreateAnd(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return b.emit(b.graph.CreateAndInsn(typ, lhs, rhs))
}
func (b *Builder) CreateOr(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return b.emit(b.graph.CreateOrInsn(typ, lhs, rhs))
}
func (b *Builder) CreateXor(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return b.emit(b.graph.CreateXorInsn(typ, lhs, rhs))
}
func (b *Builder) CreateShr(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return b.emit(b.graph.CreateShrInsn(typ, lhs, rhs))
}
func (b *Builder) CreateShl(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return b.emit(b.graph.CreateShlInsn(typ, lhs, rhs))
}
func (b *Builder) CreateAshr(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return b.emit(b.graph.CreateAshrInsn(typ, lhs, rhs))
}

func (b *Builder) CreateConstantInt(typ PrimitiveType, value int64) *Instruction {
	return b.emit(b.graph.CreateConstantIntInsn(typ, value))
}
func (b *Builder) CreateConstantF32(value float32) *Instruction {
	return b.emit(b.graph.CreateConstantF32Insn(value))
}
func (b *Builder) CreateConstantF64(value float64) *Instruction {
	return b.emit(b.graph.CreateConstantF64Insn(value))
}

func (b *Builder) CreateParameter(typ PrimitiveType, index int, isRef bool) *Instruction {
	return b.emit(b.graph.CreateParameterInsn(typ, index, isRef))
}

// CreatePhi builds an empty phi in the current block; callers attach
// incoming values with AppendPhiInput once every predecessor is known
// (spec.md §4.5 "resolve phi dependency").
func (b *Builder) CreatePhi(typ PrimitiveType) *Instruction {
	return b.emit(b.graph.CreatePhiInsn(typ))
}

func (b *Builder) CreateCallStatic(typ PrimitiveType, methodID int, argTypes []PrimitiveType) *Instruction {
	return b.emit(b.graph.CreateCallStaticInsn(typ, methodID, argTypes))
}

// CreateJmp terminates the current block with an unconditional jump to
// target and registers the CFG edge.
func (b *Builder) CreateJmp(target *BasicBlock) *Instruction {
	return b.emit(b.graph.CreateJmpInsn(b.block, target))
}

// CreateBeq, CreateBne, and CreateBgt terminate the current block with a
// conditional branch and register both CFG edges.
func (b *Builder) CreateBeq(lhs, rhs *Instruction, trueBlock, falseBlock *BasicBlock) *Instruction {
	return b.emit(b.graph.CreateBeqInsn(b.block, lhs, rhs, trueBlock, falseBlock))
}
func (b *Builder) CreateBne(lhs, rhs *Instruction, trueBlock, falseBlock *BasicBlock) *Instruction {
	return b.emit(b.graph.CreateBneInsn(b.block, lhs, rhs, trueBlock, falseBlock))
}
func (b *Builder) CreateBgt(lhs, rhs *Instruction, trueBlock, falseBlock *BasicBlock) *Instruction {
	return b.emit(b.graph.CreateBgtInsn(b.block, lhs, rhs, trueBlock, falseBlock))
}

// CreateRet terminates the current block with a return; pass nil for a
// void return.
func (b *Builder) CreateRet(typ PrimitiveType, value *Instruction) *Instruction {
	return b.emit(b.graph.CreateRetInsn(typ, value))
}

func (b *Builder) CreateNewArr(elemType PrimitiveType, count *Instruction) *Instruction {
	return b.emit(b.graph.CreateNewArrInsn(elemType, count))
}
func (b *Builder) CreateLoadArray(typ PrimitiveType, ref, idx *Instruction) *Instruction {
	return b.emit(b.graph.CreateLoadArrayInsn(typ, ref, idx))
}
func (b *Builder) CreateStoreArray(ref, idx, value *Instruction) *Instruction {
	return b.emit(b.graph.CreateStoreArrayInsn(ref, idx, value))
}

func (b *Builder) CreateNullCheck(ref *Instruction) *Instruction {
	return b.emit(b.graph.CreateNullCheckInsn(ref))
}
func (b *Builder) CreateBoundsCheck(ref, idx, max *Instruction) *Instruction {
	return b.emit(b.graph.CreateBoundsCheckInsn(ref, idx, max))
}
