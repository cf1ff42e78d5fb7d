package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sonir/internal/ir"
)

// TestPeepholeMulBy2 is seed test 4: v0=2, v1=12, v2=Add(v0,v1),
// v3=Mul(v2,v0), v4=Sub(v3,v0). After the pass v3 is replaced by a new
// Add(v2,v2); v4's first operand is the new add.
func TestPeepholeMulBy2(t *testing.T) {
	g := ir.NewGraph(0)
	b := g.CreateBlock()

	v0 := g.CreateConstantIntInsn(ir.TypeI32, 2)
	v1 := g.CreateConstantIntInsn(ir.TypeI32, 12)
	b.PushInstruction(v0)
	b.PushInstruction(v1)
	v2 := g.CreateAddInsn(ir.TypeI32, v0, v1)
	b.PushInstruction(v2)
	v3 := g.CreateMulInsn(ir.TypeI32, v2, v0)
	b.PushInstruction(v3)
	v4 := g.CreateSubInsn(ir.TypeI32, v3, v0)
	b.PushInstruction(v4)
	ret := g.CreateRetInsn(ir.TypeI32, v4)
	b.PushInstruction(ret)

	RunPeepholes(g)

	require.Nil(t, v3.Block(), "old mul should have been removed")
	newAdd := v4.Input(0)
	require.NotNil(t, newAdd)
	assert.Equal(t, ir.OpAdd, newAdd.Opcode())
	assert.Equal(t, v2, newAdd.Input(0))
	assert.Equal(t, v2, newAdd.Input(1))
}

// TestPeepholeMulBy2IntoPhi is seed test 5: a diamond whose merge block
// holds a phi fed by Mul(v0,Const(2)) and Mul(v0,Const(3)); after the pass
// the Mul-by-2 arm is rewritten to Add(v0,v0) and the phi tracks the
// replacement with its predecessor block preserved.
func TestPeepholeMulBy2IntoPhi(t *testing.T) {
	g := ir.NewGraph(0)
	entry := g.CreateBlock()
	bbT := g.CreateBlock()
	bbF := g.CreateBlock()
	merge := g.CreateBlock()

	v0 := g.CreateParameterInsn(ir.TypeI32, 0, false)
	entry.PushInstruction(v0)
	cond := g.CreateConstantIntInsn(ir.TypeI32, 1)
	entry.PushInstruction(cond)
	entry.PushInstruction(g.CreateBeqInsn(entry, cond, cond, bbT, bbF))

	two := g.CreateConstantIntInsn(ir.TypeI32, 2)
	bbT.PushInstruction(two)
	v3 := g.CreateMulInsn(ir.TypeI32, v0, two)
	bbT.PushInstruction(v3)
	bbT.PushInstruction(g.CreateJmpInsn(bbT, merge))

	three := g.CreateConstantIntInsn(ir.TypeI32, 3)
	bbF.PushInstruction(three)
	v6 := g.CreateMulInsn(ir.TypeI32, v0, three)
	bbF.PushInstruction(v6)
	bbF.PushInstruction(g.CreateJmpInsn(bbF, merge))

	phi := g.CreatePhiInsn(ir.TypeI32)
	phi.AppendPhiInput(v3, bbT)
	phi.AppendPhiInput(v6, bbF)
	merge.PushInstruction(phi)
	merge.PushInstruction(g.CreateRetInsn(ir.TypeI32, phi))

	RunPeepholes(g)

	require.Nil(t, v3.Block())
	require.Len(t, phi.Inputs(), 2)
	newAdd := phi.Input(0)
	assert.Equal(t, ir.OpAdd, newAdd.Opcode())
	assert.Equal(t, v0, newAdd.Input(0))
	assert.Equal(t, v0, newAdd.Input(1))
	assert.Equal(t, v6, phi.Input(1))
	assert.Equal(t, []*ir.BasicBlock{bbT, bbF}, phi.PhiBlocks())
}

// TestPeepholeAshrFoldIsAlwaysArithmeticByWidth covers spec.md §4.9's Ashr
// fold rule: shift as signed 32-bit when the result type is 32-bit (or
// narrower) and signed 64-bit otherwise, regardless of the type's declared
// signedness. A U32 constant with its top bit set must fold the same way
// an I32 constant with the same bit pattern would — a logical (non-sign-
// propagating) shift would produce a different result.
func TestPeepholeAshrFoldIsAlwaysArithmeticByWidth(t *testing.T) {
	g := ir.NewGraph(0)
	b := g.CreateBlock()

	highBit := uint32(0x80000000)
	lhs := g.CreateConstantIntInsn(ir.TypeU32, int64(int32(highBit)))
	b.PushInstruction(lhs)
	shift := g.CreateConstantIntInsn(ir.TypeU32, 1)
	b.PushInstruction(shift)
	ashr := g.CreateAshrInsn(ir.TypeU32, lhs, shift)
	b.PushInstruction(ashr)
	ret := g.CreateRetInsn(ir.TypeU32, ashr)
	b.PushInstruction(ret)

	RunPeepholes(g)

	folded := ret.Input(0)
	require.NotNil(t, folded)
	assert.True(t, folded.IsConst())
	assert.Equal(t, uint64(0xC0000000), folded.GetAsU64())
}

// TestCheckEliminationDominatedNullCheck is seed test 6: a second NullCheck
// on the same reference dominated by the first is removed, and its lone
// user is rewired onto the surviving check.
func TestCheckEliminationDominatedNullCheck(t *testing.T) {
	g := ir.NewGraph(0)
	b := g.CreateBlock()

	v0 := g.CreateParameterInsn(ir.TypeRef, 0, true)
	b.PushInstruction(v0)
	v1 := g.CreateConstantIntInsn(ir.TypeI32, 12)
	b.PushInstruction(v1)
	v2 := g.CreateNullCheckInsn(v0)
	b.PushInstruction(v2)
	v3 := g.CreateLoadArrayInsn(ir.TypeI32, v2, v1)
	b.PushInstruction(v3)
	v4 := g.CreateNullCheckInsn(v0)
	b.PushInstruction(v4)
	v5 := g.CreateStoreArrayInsn(v4, v1, v3)
	b.PushInstruction(v5)

	RunCheckElimination(g)

	require.Nil(t, v4.Block(), "the dominated null check should be removed")
	assert.Equal(t, v2, v5.Input(0))
	assert.Equal(t, 0, v4.Users().Len())
}
