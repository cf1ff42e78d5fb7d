package ir

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkerManagerRecyclesColors(t *testing.T) {
	mm := NewMarkerManager()
	a := mm.CreateNewMarker()
	b := mm.CreateNewMarker()
	assert.NotEqual(t, a.color, b.color)

	mm.EraseMarker(a)
	c := mm.CreateNewMarker()
	assert.Equal(t, a.color, c.color)
	assert.NotEqual(t, a.index, c.index)
}

func TestMarkerManagerExhaustionPanics(t *testing.T) {
	mm := NewMarkerManager()
	for i := 0; i < colorCount; i++ {
		mm.CreateNewMarker()
	}
	assert.Panics(t, func() { mm.CreateNewMarker() })
}

func TestBlockListIntegrity(t *testing.T) {
	g := NewGraph(0)
	b := g.CreateBlock()

	p0 := g.CreateParameterInsn(TypeI32, 0, false)
	p1 := g.CreateParameterInsn(TypeI32, 1, false)
	b.PushInstruction(p0)
	b.PushInstruction(p1)
	add := g.CreateAddInsn(TypeI32, p0, p1)
	b.PushInstruction(add)
	ret := g.CreateRetInsn(TypeI32, add)
	b.PushInstruction(ret)

	var forward []*Instruction
	for cur := b.FirstInsn(); cur != nil; cur = cur.Next() {
		forward = append(forward, cur)
		assert.Equal(t, b, cur.Block())
	}
	require.Equal(t, []*Instruction{p0, p1, add, ret}, forward)

	var backward []*Instruction
	for cur := b.LastInsn(); cur != nil; cur = cur.Prev() {
		backward = append(backward, cur)
	}
	require.Equal(t, []*Instruction{ret, add, p1, p0}, backward)
}

func TestUseDefSymmetry(t *testing.T) {
	g := NewGraph(0)
	b := g.CreateBlock()
	p0 := g.CreateParameterInsn(TypeI32, 0, false)
	b.PushInstruction(p0)

	add := g.CreateAddInsn(TypeI32, p0, p0)
	b.PushInstruction(add)

	// Invariant I1/P2: a binary instruction whose two inputs are the same
	// def contributes exactly one user edge.
	assert.Equal(t, 1, p0.Users().Len())
	assert.Equal(t, add, p0.Users().Front().Value.(*Instruction))
}

func TestReplaceInputsForUsers(t *testing.T) {
	g := NewGraph(0)
	b := g.CreateBlock()
	p0 := g.CreateParameterInsn(TypeI32, 0, false)
	p1 := g.CreateParameterInsn(TypeI32, 1, false)
	b.PushInstruction(p0)
	b.PushInstruction(p1)

	mul := g.CreateMulInsn(TypeI32, p0, p1)
	b.PushInstruction(mul)
	sub := g.CreateSubInsn(TypeI32, mul, p0)
	b.PushInstruction(sub)

	mul.ReplaceInputsForUsers(p0)

	assert.Equal(t, p0, sub.Input(0))
	assert.Equal(t, 0, mul.Users().Len())

	found := false
	for e := p0.Users().Front(); e != nil; e = e.Next() {
		if e.Value.(*Instruction) == sub {
			found = true
		}
	}
	assert.True(t, found, "p0 should have gained sub as a user")
}

func TestCreateInstructionReplacing(t *testing.T) {
	g := NewGraph(0)
	b := g.CreateBlock()
	p0 := g.CreateParameterInsn(TypeI32, 0, false)
	b.PushInstruction(p0)
	mul := g.CreateMulInsn(TypeI32, p0, p0)
	b.PushInstruction(mul)
	ret := g.CreateRetInsn(TypeI32, mul)
	b.PushInstruction(ret)

	add := g.CreateInstructionReplacing(mul, func(g *Graph) *Instruction {
		return g.CreateAddInsn(TypeI32, p0, p0)
	})

	assert.Equal(t, add, ret.Input(0))
	assert.Nil(t, mul.Block())
	assert.Equal(t, []*Instruction{p0, add, ret}, blockList(b))
}

func blockList(b *BasicBlock) []*Instruction {
	var out []*Instruction
	for cur := b.FirstInsn(); cur != nil; cur = cur.Next() {
		out = append(out, cur)
	}
	return out
}

// TestConstantIntTruncatesToDeclaredWidth covers invariant I6: a narrower-
// than-64-bit Constant's stored bits reflect its declared type, not the
// raw 64-bit value it was constructed from.
func TestConstantIntTruncatesToDeclaredWidth(t *testing.T) {
	g := NewGraph(0)

	// 300 doesn't fit in 8 bits; its low byte (44) is positive as I8.
	positive := g.CreateConstantIntInsn(TypeI8, 300)
	assert.Equal(t, int64(44), positive.GetAsI64())

	// 200's low byte has its top bit set, so as a signed I8 it reads -56.
	negative := g.CreateConstantIntInsn(TypeI8, 200)
	assert.Equal(t, int64(-56), negative.GetAsI64())

	// The same bit pattern on an unsigned type is never sign-extended.
	unsigned := g.CreateConstantIntInsn(TypeU8, 200)
	assert.Equal(t, uint64(200), unsigned.GetAsU64())

	// -1 reinterpreted at U32 width is the 32-bit all-ones pattern, not the
	// full 64-bit all-ones pattern.
	wrapped := g.CreateConstantIntInsn(TypeU32, -1)
	assert.Equal(t, uint64(0xFFFFFFFF), wrapped.GetAsU64())
}

func TestDumpFormat(t *testing.T) {
	g := NewGraph(0)
	b := g.CreateBlock()
	c := g.CreateConstantIntInsn(TypeI32, 7)
	b.PushInstruction(c)
	ret := g.CreateRetInsn(TypeI32, c)
	b.PushInstruction(ret)

	out := g.String()
	assert.True(t, strings.HasPrefix(out, "BB_0:\n"))
	assert.Contains(t, out, "Constant 7")
	assert.Contains(t, out, "Ret v"+strconv.Itoa(c.ID()))
}
