package opt

import (
	"sonir/internal/analysis"
	"sonir/internal/ir"
)

// RunCheckElimination builds the dominator tree and removes every
// NullCheck/BoundsCheck that is provably redundant: for each
// reference-producing instruction, among its checks sharing the same
// operands, one dominating the rest makes the rest dead (C10, spec.md
// §4.10).
func RunCheckElimination(g *ir.Graph) {
	analysis.BuildDominatorTree(g)
	for _, b := range g.RPOBlocks() {
		b.EnumerateInstructions(func(insn *ir.Instruction) {
			if !insn.ProducesReference() {
				return
			}
			eliminateDominatedChecks(insn)
		})
	}
}

// eliminateDominatedChecks scans producer's users for NullCheck/BoundsCheck
// instructions. The first one found becomes the candidate that "remains";
// every later check it dominates (and, for bounds checks, whose idx/max
// operands match identically) gets replaced by it and removed.
func eliminateDominatedChecks(producer *ir.Instruction) {
	var checkToRemain *ir.Instruction

	e := producer.Users().Front()
	for e != nil {
		next := e.Next()
		user := e.Value.(*ir.Instruction)

		if !user.Opcode().IsCheck() {
			e = next
			continue
		}

		if checkToRemain == nil {
			checkToRemain = user
			e = next
			continue
		}

		if checkToRemain.DominatedOver(user) && checksAreInterchangeable(checkToRemain, user) {
			user.ReplaceInputsForUsers(checkToRemain)
			user.Block().Remove(user)
		}

		e = next
	}
}

// checksAreInterchangeable reports whether candidate is redundant given
// checkToRemain: always true for NullCheck (the single ref operand is the
// shared producer itself), and true for BoundsCheck only when the idx and
// max operands are the identical instructions on both sides (spec.md §4.10
// "bounds-check operand-identity comparison").
func checksAreInterchangeable(remain, candidate *ir.Instruction) bool {
	if remain.Opcode() != candidate.Opcode() {
		return false
	}
	if remain.Opcode() != ir.OpBoundsCheck {
		return true
	}
	_, remainIdx, remainMax := remain.BoundsCheckOperands()
	_, candidateIdx, candidateMax := candidate.BoundsCheckOperands()
	return remainIdx == candidateIdx && remainMax == candidateMax
}
