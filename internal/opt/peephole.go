// Package opt implements the graph-rewriting passes that run after
// construction and analysis: peephole simplification with constant folding
// (C9) and dominance-based redundant check elimination (C10).
package opt

import (
	"sonir/internal/analysis"
	"sonir/internal/ir"
)

// RunPeepholes builds the dominator tree (so blocks are visited in a
// stable RPO order) and applies the Mul/Ashr/Or rewrites to every
// instruction in the graph (C9, spec.md §4.9). Every other opcode is a
// no-op, mirroring the original's 23-entry dispatch table where most
// entries do nothing.
func RunPeepholes(g *ir.Graph) {
	analysis.BuildDominatorTree(g)
	for _, b := range g.RPOBlocks() {
		b.EnumerateInstructions(func(insn *ir.Instruction) {
			visit(g, insn)
		})
	}
}

func visit(g *ir.Graph, insn *ir.Instruction) {
	switch insn.Opcode() {
	case ir.OpMul:
		visitMul(g, insn)
	case ir.OpAshr:
		visitAshr(g, insn)
	case ir.OpOr:
		visitOr(g, insn)
	default:
		// Every other opcode has nothing to rewrite here.
	}
}

// visitMul folds a constant multiply outright; otherwise normalizes a
// constant into input 1 and rewrites "x * 1" to x and "x * 2" to x + x
// (spec.md §4.9).
func visitMul(g *ir.Graph, insn *ir.Instruction) {
	lhs, rhs := insn.Input(0), insn.Input(1)
	if lhs.IsConst() && rhs.IsConst() {
		foldConstantMul(g, insn, lhs, rhs)
		return
	}
	if lhs.IsConst() {
		insn.SwapInputs()
		lhs, rhs = rhs, lhs
	}
	if !rhs.IsConst() {
		return
	}
	switch {
	case rhs.IsEqualTo(1):
		insn.ReplaceInputsForUsers(lhs)
		insn.Block().Remove(insn)
	case rhs.IsEqualTo(2):
		g.CreateInstructionReplacing(insn, func(g *ir.Graph) *ir.Instruction {
			return g.CreateAddInsn(insn.Type(), lhs, lhs)
		})
	}
}

// visitAshr folds a constant shift outright; rewrites a shift by zero to
// its operand, and merges two chained arithmetic shifts by the same type
// into one shift by the summed amount (spec.md §4.9).
func visitAshr(g *ir.Graph, insn *ir.Instruction) {
	lhs, rhs := insn.Input(0), insn.Input(1)
	if lhs.IsConst() && rhs.IsConst() {
		foldConstantAshr(g, insn, lhs, rhs)
		return
	}
	if !rhs.IsConst() {
		return
	}
	if rhs.GetAsU64() == 0 {
		insn.ReplaceInputsForUsers(lhs)
		insn.Block().Remove(insn)
		return
	}
	if lhs.Opcode() == ir.OpAshr {
		prevShift := lhs.Input(1)
		if prevShift.IsConst() && prevShift.Type() == rhs.Type() {
			mergeAshrChain(g, insn, lhs, rhs, prevShift)
		}
	}
}

func mergeAshrChain(g *ir.Graph, insn, prevInsn, thisShift, prevShift *ir.Instruction) {
	merged := thisShift.GetAsI64() + prevShift.GetAsI64()
	newConst := g.CreateConstantIntInsn(thisShift.Type(), merged)
	insn.Block().InsertInstruction(insn.Prev(), newConst)

	origInput := prevInsn.Input(0)

	prevInsn.RemoveUser(insn)
	origInput.AddUser(insn)
	insn.SetInput(0, origInput)

	thisShift.RemoveUser(insn)
	newConst.AddUser(insn)
	insn.SetInput(1, newConst)
}

// visitOr folds a constant bitwise-or outright; otherwise normalizes a
// constant into input 1 and eliminates "x | 0" and the self-or "x | x"
// (spec.md §4.9).
func visitOr(g *ir.Graph, insn *ir.Instruction) {
	lhs, rhs := insn.Input(0), insn.Input(1)
	if lhs.IsConst() && rhs.IsConst() {
		foldConstantOr(g, insn, lhs, rhs)
		return
	}
	if lhs.IsConst() {
		insn.SwapInputs()
		lhs, rhs = rhs, lhs
	}
	if rhs.IsConst() && rhs.GetAsU64() == 0 {
		insn.ReplaceInputsForUsers(lhs)
		insn.Block().Remove(insn)
		return
	}
	if lhs == rhs {
		insn.ReplaceInputsForUsers(lhs)
		insn.Block().Remove(insn)
	}
}

func foldConstantMul(g *ir.Graph, insn, lhs, rhs *ir.Instruction) {
	replaceWithFoldedConstant(g, insn, evalBinary(insn.Type(), lhs, rhs, func(a, b int64) int64 { return a * b }, func(a, b uint64) uint64 { return a * b }, func(a, b float64) float64 { return a * b }))
}

// foldConstantAshr always folds as an arithmetic (sign-propagating) shift,
// sized by the result type's width rather than its declared signedness —
// spec.md §4.9 requires "shift as signed 32-bit when result type is 32-bit,
// signed 64-bit otherwise", independent of whether the type itself is
// signed or unsigned. This is the one fold that can't go through
// evalBinary's signed/unsigned dispatch, since that dispatch picks the
// shift kind (arithmetic vs logical) off IsSigned(), not width.
func foldConstantAshr(g *ir.Graph, insn, lhs, rhs *ir.Instruction) {
	typ := insn.Type()
	shift := uint64(rhs.GetAsI64())
	var result int64
	if typ.Is32Bit() {
		result = int64(int32(lhs.GetAsI64()) >> shift)
	} else {
		result = lhs.GetAsI64() >> shift
	}
	replaceWithFoldedConstant(g, insn, func(g *ir.Graph) *ir.Instruction {
		return g.CreateConstantIntInsn(typ, result)
	})
}

func foldConstantOr(g *ir.Graph, insn, lhs, rhs *ir.Instruction) {
	replaceWithFoldedConstant(g, insn, evalBinary(insn.Type(), lhs, rhs, func(a, b int64) int64 { return a | b }, func(a, b uint64) uint64 { return a | b }, nil))
}

// evalBinary evaluates a constant binary op in whichever of the three
// numeric forms insn's type calls for (spec.md §3 invariant I6). fFn may be
// nil for bitwise ops that are only defined over integers.
func evalBinary(typ ir.PrimitiveType, lhs, rhs *ir.Instruction, iFn func(a, b int64) int64, uFn func(a, b uint64) uint64, fFn func(a, b float64) float64) func(g *ir.Graph) *ir.Instruction {
	switch {
	case typ.IsFloat() && fFn != nil:
		var a, b float64
		if typ == ir.TypeF32 {
			a, b = float64(lhs.GetAsF32()), float64(rhs.GetAsF32())
			result := fFn(a, b)
			return func(g *ir.Graph) *ir.Instruction { return g.CreateConstantF32Insn(float32(result)) }
		}
		a, b = lhs.GetAsF64(), rhs.GetAsF64()
		result := fFn(a, b)
		return func(g *ir.Graph) *ir.Instruction { return g.CreateConstantF64Insn(result) }
	case typ.IsSigned():
		result := iFn(lhs.GetAsI64(), rhs.GetAsI64())
		return func(g *ir.Graph) *ir.Instruction { return g.CreateConstantIntInsn(typ, result) }
	default:
		result := uFn(lhs.GetAsU64(), rhs.GetAsU64())
		return func(g *ir.Graph) *ir.Instruction { return g.CreateConstantIntInsn(typ, int64(result)) }
	}
}

func replaceWithFoldedConstant(g *ir.Graph, insn *ir.Instruction, build func(g *ir.Graph) *ir.Instruction) {
	g.CreateInstructionReplacing(insn, build)
}
