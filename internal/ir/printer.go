package ir

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes a textual rendering of the graph to w: one line per block
// header "BB_<id>:" followed by indented instruction lines of the form
// "<id>.<type> <opcode> <operands>" (spec.md §6 "Debug surface"). Operands
// follow per-opcode conventions: v<id> for SSA values, BB_<id> for block
// targets, v<id>:BB_<id> pairs for phi inputs, and the decimal value for
// constants.
func (g *Graph) Dump(w io.Writer) {
	for _, blk := range g.blocks {
		fmt.Fprintf(w, "BB_%d:\n", blk.ID())
		blk.EnumerateInstructions(func(insn *Instruction) {
			fmt.Fprintf(w, "  %d.%s %s %s\n", insn.ID(), insn.Type(), insn.Opcode(), operandString(insn))
		})
	}
}

// String renders the graph via Dump, for convenience in tests and logging.
func (g *Graph) String() string {
	var sb strings.Builder
	g.Dump(&sb)
	return sb.String()
}

func valueRef(insn *Instruction) string {
	if insn == nil {
		return "-"
	}
	return "v" + strconv.Itoa(insn.ID())
}

func blockRef(b *BasicBlock) string {
	if b == nil {
		return "-"
	}
	return "BB_" + strconv.Itoa(int(b.ID()))
}

func operandString(insn *Instruction) string {
	switch insn.Opcode() {
	case OpConstant:
		return constantOperand(insn)

	case OpParameter:
		return strconv.Itoa(insn.ParamIndex())

	case OpPhi:
		parts := make([]string, 0, len(insn.Inputs()))
		blocks := insn.PhiBlocks()
		for idx, in := range insn.Inputs() {
			parts = append(parts, valueRef(in)+":"+blockRef(blocks[idx]))
		}
		return strings.Join(parts, ", ")

	case OpJmp:
		return blockRef(insn.JumpTarget())

	case OpBeq, OpBne, OpBgt:
		trueBlock, falseBlock := insn.BranchTargets()
		return fmt.Sprintf("%s, %s, %s, %s", valueRef(insn.Input(0)), valueRef(insn.Input(1)), blockRef(trueBlock), blockRef(falseBlock))

	case OpRet:
		if len(insn.Inputs()) == 0 {
			return ""
		}
		return valueRef(insn.Input(0))

	case OpCallStatic:
		parts := make([]string, 0, len(insn.Inputs())+1)
		parts = append(parts, "#"+strconv.Itoa(insn.CallMethodID()))
		for _, in := range insn.Inputs() {
			parts = append(parts, valueRef(in))
		}
		return strings.Join(parts, ", ")

	default:
		parts := make([]string, 0, len(insn.Inputs()))
		for _, in := range insn.Inputs() {
			parts = append(parts, valueRef(in))
		}
		return strings.Join(parts, ", ")
	}
}

func constantOperand(insn *Instruction) string {
	switch {
	case insn.Type().IsFloat():
		if insn.Type() == TypeF32 {
			return strconv.FormatFloat(float64(insn.GetAsF32()), 'g', -1, 32)
		}
		return strconv.FormatFloat(insn.GetAsF64(), 'g', -1, 64)
	case insn.Type().IsSigned():
		return strconv.FormatInt(insn.GetAsI64(), 10)
	default:
		return strconv.FormatUint(insn.GetAsU64(), 10)
	}
}
