package ir

import "math"

// This file holds the graph's CreateXxxInsn factories (C4, spec.md §4.4):
// one constructor per opcode family, each wiring def→use and use→def edges
// in the same call so no caller can produce an instruction with a missing
// user edge.

// newBinary builds a two-input instruction, collapsing the user edge to a
// single entry when both inputs are the same def (invariant I1: "a binary
// instruction whose two inputs are the same def contributes exactly one
// user edge, not two").
func (g *Graph) newBinary(opcode Opcode, typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	insn := newInstruction(g, opcode, typ)
	insn.inputs[0] = lhs
	insn.inputs[1] = rhs
	if lhs != nil && lhs == rhs {
		lhs.addUser(insn)
	} else {
		if lhs != nil {
			lhs.addUser(insn)
		}
		if rhs != nil {
			rhs.addUser(insn)
		}
	}
	return insn
}

func (g *Graph) CreateAddInsn(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return g.newBinary(OpAdd, typ, lhs, rhs)
}
func (g *Graph) CreateSubInsn(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return g.newBinary(OpSub, typ, lhs, rhs)
}
func (g *Graph) CreateMulInsn(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return g.newBinary(OpMul, typ, lhs, rhs)
}
func (g *Graph) CreateDivInsn(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return g.newBinary(OpDiv, typ, lhs, rhs)
}
func (g *Graph) CreateRemInsn(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return g.newBinary(OpRem, typ, lhs, rhs)
}
func (g *Graph) CreateAndInsn(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return g.newBinary(OpAnd, typ, lhs, rhs)
}
func (g *Graph) CreateOrInsn(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return g.newBinary(OpOr, typ, lhs, rhs)
}
func (g *Graph) CreateXorInsn(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return g.newBinary(OpXor, typ, lhs, rhs)
}
func (g *Graph) CreateShrInsn(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return g.newBinary(OpShr, typ, lhs, rhs)
}
func (g *Graph) CreateShlInsn(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return g.newBinary(OpShl, typ, lhs, rhs)
}
func (g *Graph) CreateAshrInsn(typ PrimitiveType, lhs, rhs *Instruction) *Instruction {
	return g.newBinary(OpAshr, typ, lhs, rhs)
}

// CreateConstantIntInsn builds a Constant holding an integer value,
// truncated to typ's declared width and reinterpreted back to 64 bits
// (invariant I6: a Constant's stored bits always reflect its declared
// type, never a wider value that happens to have been computed).
func (g *Graph) CreateConstantIntInsn(typ PrimitiveType, value int64) *Instruction {
	assertf(typ.IsInteger(), "CreateConstantIntInsn: type %v is not an integer type", typ)
	insn := newInstruction(g, OpConstant, typ)
	insn.constBits = reinterpretInt(typ, value)
	return insn
}

// reinterpretInt truncates value to typ's declared bit width, then
// sign-extends (signed types) or zero-extends (unsigned types) the result
// back out to a full 64 bits, matching spec.md §4.9's "multiply as 64-bit
// two's complement, reinterpret for width" rule for every fold, not just
// Mul.
func reinterpretInt(typ PrimitiveType, value int64) uint64 {
	width := typ.BitWidth()
	if width >= 64 {
		return uint64(value)
	}
	mask := uint64(1)<<uint(width) - 1
	truncated := uint64(value) & mask
	if typ.IsSigned() && truncated&(uint64(1)<<uint(width-1)) != 0 {
		truncated |= ^mask
	}
	return truncated
}

// CreateConstantF32Insn builds a Constant holding a 32-bit float.
func (g *Graph) CreateConstantF32Insn(value float32) *Instruction {
	insn := newInstruction(g, OpConstant, TypeF32)
	insn.constBits = uint64(math.Float32bits(value))
	return insn
}

// CreateConstantF64Insn builds a Constant holding a 64-bit float.
func (g *Graph) CreateConstantF64Insn(value float64) *Instruction {
	insn := newInstruction(g, OpConstant, TypeF64)
	insn.constBits = math.Float64bits(value)
	return insn
}

// CreateParameterInsn builds a Parameter at the given declared index.
func (g *Graph) CreateParameterInsn(typ PrimitiveType, index int, isRef bool) *Instruction {
	insn := newInstruction(g, OpParameter, typ)
	insn.paramIndex = index
	insn.paramIsRef = isRef
	return insn
}

// CreatePhiInsn builds an empty Phi; inputs are attached one per
// predecessor via AppendPhiInput (spec.md §4.5 "resolve phi dependency").
func (g *Graph) CreatePhiInsn(typ PrimitiveType) *Instruction {
	return newInstruction(g, OpPhi, typ)
}

// CreateCallStaticInsn builds a call to methodID with argTypes declared up
// front; args are attached one at a time via AppendInput.
func (g *Graph) CreateCallStaticInsn(typ PrimitiveType, methodID int, argTypes []PrimitiveType) *Instruction {
	insn := newInstruction(g, OpCallStatic, typ)
	insn.callMethodID = methodID
	insn.callArgTypes = argTypes
	return insn
}

// CreateJmpInsn builds an unconditional jump and registers the CFG edge
// from from to target.
func (g *Graph) CreateJmpInsn(from, target *BasicBlock) *Instruction {
	insn := newInstruction(g, OpJmp, TypeVoid)
	insn.jmpTarget = target
	from.AddSuccessor(target)
	target.AddPredecessor(from)
	return insn
}

func (g *Graph) newBranch(opcode Opcode, from *BasicBlock, cond0, cond1 *Instruction, trueBlock, falseBlock *BasicBlock) *Instruction {
	insn := g.newBinary(opcode, TypeVoid, cond0, cond1)
	insn.trueTarget = trueBlock
	insn.falseTarget = falseBlock
	from.AddSuccessor(trueBlock)
	from.AddSuccessor(falseBlock)
	trueBlock.AddPredecessor(from)
	falseBlock.AddPredecessor(from)
	return insn
}

// CreateBeqInsn builds a branch-if-equal and registers both CFG edges.
func (g *Graph) CreateBeqInsn(from *BasicBlock, lhs, rhs *Instruction, trueBlock, falseBlock *BasicBlock) *Instruction {
	return g.newBranch(OpBeq, from, lhs, rhs, trueBlock, falseBlock)
}

// CreateBneInsn builds a branch-if-not-equal and registers both CFG edges.
func (g *Graph) CreateBneInsn(from *BasicBlock, lhs, rhs *Instruction, trueBlock, falseBlock *BasicBlock) *Instruction {
	return g.newBranch(OpBne, from, lhs, rhs, trueBlock, falseBlock)
}

// CreateBgtInsn builds a branch-if-greater-than and registers both CFG
// edges.
func (g *Graph) CreateBgtInsn(from *BasicBlock, lhs, rhs *Instruction, trueBlock, falseBlock *BasicBlock) *Instruction {
	return g.newBranch(OpBgt, from, lhs, rhs, trueBlock, falseBlock)
}

// CreateRetInsn builds a return; pass nil for a void return.
func (g *Graph) CreateRetInsn(typ PrimitiveType, value *Instruction) *Instruction {
	insn := newInstruction(g, OpRet, typ)
	if value != nil {
		insn.inputs = []*Instruction{value}
		value.addUser(insn)
	}
	return insn
}

// CreateNewArrInsn builds an array allocation of the given element count.
func (g *Graph) CreateNewArrInsn(elemType PrimitiveType, count *Instruction) *Instruction {
	insn := newInstruction(g, OpNewArr, TypeRef)
	insn.inputs[0] = count
	count.addUser(insn)
	insn.callArgTypes = []PrimitiveType{elemType}
	return insn
}

// CreateLoadArrayInsn builds an array load from ref at idx.
func (g *Graph) CreateLoadArrayInsn(typ PrimitiveType, ref, idx *Instruction) *Instruction {
	return g.newBinary(OpLoadArray, typ, ref, idx)
}

// CreateStoreArrayInsn builds an array store of value into ref at idx.
func (g *Graph) CreateStoreArrayInsn(ref, idx, value *Instruction) *Instruction {
	insn := newInstruction(g, OpStoreArray, TypeVoid)
	insn.inputs[0] = ref
	insn.inputs[1] = idx
	insn.inputs[2] = value
	ref.addUser(insn)
	idx.addUser(insn)
	value.addUser(insn)
	return insn
}

// CreateNullCheckInsn builds a check that ref is non-null; it produces ref
// unchanged on success (spec.md §4.10).
func (g *Graph) CreateNullCheckInsn(ref *Instruction) *Instruction {
	insn := newInstruction(g, OpNullCheck, ref.Type())
	insn.inputs[0] = ref
	ref.addUser(insn)
	return insn
}

// CreateBoundsCheckInsn builds a check that idx is within [0, max); it
// produces ref unchanged on success (spec.md §4.10).
func (g *Graph) CreateBoundsCheckInsn(ref, idx, max *Instruction) *Instruction {
	insn := newInstruction(g, OpBoundsCheck, ref.Type())
	insn.inputs[0] = ref
	insn.inputs[1] = idx
	insn.inputs[2] = max
	ref.addUser(insn)
	idx.addUser(insn)
	max.addUser(insn)
	return insn
}
