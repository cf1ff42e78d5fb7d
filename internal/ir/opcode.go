package ir

// Opcode is the closed set of instruction kinds the IR supports
// (spec.md §3 "Opcode").
type Opcode int

const (
	OpUndefined Opcode = iota

	// Arithmetic / bitwise.
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpAnd
	OpOr
	OpXor
	OpShr
	OpShl
	OpAshr

	// Memory / array.
	OpLoadArray
	OpStoreArray
	OpNewArr

	// Control flow.
	OpJmp
	OpBeq
	OpBne
	OpBgt
	OpRet

	// Value producers.
	OpConstant
	OpParameter
	OpPhi

	// Calls.
	OpCallStatic

	// Checks.
	OpNullCheck
	OpBoundsCheck

	opcodeCount
)

var opcodeNames = [opcodeCount]string{
	OpUndefined:   "Undefined",
	OpAdd:         "Add",
	OpSub:         "Sub",
	OpMul:         "Mul",
	OpDiv:         "Div",
	OpRem:         "Rem",
	OpAnd:         "And",
	OpOr:          "Or",
	OpXor:         "Xor",
	OpShr:         "Shr",
	OpShl:         "Shl",
	OpAshr:        "Ashr",
	OpLoadArray:   "LoadArray",
	OpStoreArray:  "StoreArray",
	OpNewArr:      "NewArr",
	OpJmp:         "Jmp",
	OpBeq:         "Beq",
	OpBne:         "Bne",
	OpBgt:         "Bgt",
	OpRet:         "Ret",
	OpConstant:    "Constant",
	OpParameter:   "Parameter",
	OpPhi:         "Phi",
	OpCallStatic:  "CallStatic",
	OpNullCheck:   "NullCheck",
	OpBoundsCheck: "BoundsCheck",
}

func (o Opcode) String() string {
	if o < 0 || o >= opcodeCount {
		unreachable("unknown opcode %d", int(o))
	}
	return opcodeNames[o]
}

// IsBinary reports whether opcode o takes exactly two value inputs laid out
// as a fixed pair (spec.md §3 "either a fixed pair ... or an appendable
// sequence").
func (o Opcode) IsBinary() bool {
	switch o {
	case OpAdd, OpSub, OpMul, OpDiv, OpRem, OpAnd, OpOr, OpXor, OpShr, OpShl, OpAshr,
		OpLoadArray, OpBeq, OpBne, OpBgt:
		return true
	default:
		return false
	}
}

// IsAppendable reports whether opcode o accepts a growable input sequence
// (Phi and CallStatic, per spec.md §4.2 "append-input").
func (o Opcode) IsAppendable() bool {
	switch o {
	case OpPhi, OpCallStatic:
		return true
	default:
		return false
	}
}

// IsTerminator reports whether o may only appear as the last instruction of
// a block (spec.md §3 invariant I5).
func (o Opcode) IsTerminator() bool {
	switch o {
	case OpJmp, OpBeq, OpBne, OpBgt, OpRet:
		return true
	default:
		return false
	}
}

// IsCheck reports whether o is a check instruction consumed by C10.
func (o Opcode) IsCheck() bool {
	return o == OpNullCheck || o == OpBoundsCheck
}
