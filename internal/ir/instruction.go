package ir

import (
	"container/list"
	"math"
)

// fixedArity returns the number of value inputs opcode o takes when it is
// neither Phi nor CallStatic (spec.md §3 "Instruction", §9 "Inputs
// container shape"). Phi and CallStatic grow via AppendInput instead.
func fixedArity(o Opcode) int {
	switch o {
	case OpAdd, OpSub, OpMul, OpDiv, OpRem, OpAnd, OpOr, OpXor, OpShr, OpShl, OpAshr:
		return 2
	case OpLoadArray:
		return 2
	case OpStoreArray:
		return 3
	case OpNewArr:
		return 1
	case OpJmp:
		return 0
	case OpBeq, OpBne, OpBgt:
		return 2
	case OpRet:
		return -1 // variable: 0 (void) or 1, set at construction.
	case OpConstant, OpParameter:
		return 0
	case OpNullCheck:
		return 1
	case OpBoundsCheck:
		return 3
	case OpPhi, OpCallStatic:
		return -1 // appendable.
	default:
		unreachable("fixedArity: unhandled opcode %v", o)
		return 0
	}
}

// Instruction is a single value-producing or effect-having operation
// (spec.md §3 "Instruction", C2). One struct covers every opcode family —
// a tagged variant over the payload fields below — per the "Polymorphism
// over opcodes" design note in spec.md §9.
type Instruction struct {
	id     int
	opcode Opcode
	typ    PrimitiveType

	graph *Graph
	block *BasicBlock
	prev  *Instruction
	next  *Instruction

	inputs []*Instruction

	// users is the use→def edge set for this instruction as a def: every
	// instruction in the list has this instruction among its inputs.
	// container/list gives order-preserving iteration with O(1) removal
	// given the *list.Element obtained while iterating — exactly the
	// save-next idiom spec.md §5 and §4.9/§4.10 require.
	users *list.List

	// Phi payload: phiBlocks[i] is the predecessor block inputs[i] flows in
	// from (spec.md §3 "phi per-input predecessor block").
	phiBlocks []*BasicBlock

	// Constant payload: bits holds the value, sign/zero-extended or
	// bit-cast to 64 bits per typ (spec.md §3 invariant I6).
	constBits uint64

	// Parameter payload.
	paramIndex int
	paramIsRef bool

	// Branch/jump payload.
	jmpTarget   *BasicBlock
	trueTarget  *BasicBlock
	falseTarget *BasicBlock

	// CallStatic payload.
	callMethodID int
	callArgTypes []PrimitiveType
}

func newInstruction(g *Graph, opcode Opcode, typ PrimitiveType) *Instruction {
	insn := &Instruction{
		id:     g.nextInstructionID(),
		opcode: opcode,
		typ:    typ,
		graph:  g,
		users:  list.New(),
	}
	if n := fixedArity(opcode); n > 0 {
		insn.inputs = make([]*Instruction, n)
	}
	g.instructions = append(g.instructions, insn)
	return insn
}

// ID returns the instruction's unique id within its owning graph.
func (i *Instruction) ID() int { return i.id }

// Opcode returns the instruction's opcode.
func (i *Instruction) Opcode() Opcode { return i.opcode }

// Type returns the instruction's declared result type.
func (i *Instruction) Type() PrimitiveType { return i.typ }

// Block returns the instruction's parent block (invariant I2).
func (i *Instruction) Block() *BasicBlock { return i.block }

// Prev and Next expose the intrusive list links within the parent block
// (invariant I3).
func (i *Instruction) Prev() *Instruction { return i.prev }
func (i *Instruction) Next() *Instruction { return i.next }

// Inputs returns the instruction's def→use edges in order. The returned
// slice must not be mutated by callers; use SetInput/AppendInput.
func (i *Instruction) Inputs() []*Instruction { return i.inputs }

// Input returns the idx-th input, or nil if idx is out of range (Ret with
// no value, for instance).
func (i *Instruction) Input(idx int) *Instruction {
	if idx < 0 || idx >= len(i.inputs) {
		return nil
	}
	return i.inputs[idx]
}

// Users returns the use→def edge list for this instruction as a def.
// Iterate with list.Front()/Element.Next(); remove entries with
// Users().Remove(e) while holding the element, per spec.md §5.
func (i *Instruction) Users() *list.List { return i.users }

// HasUsers reports whether any instruction currently references this one.
func (i *Instruction) HasUsers() bool { return i.users.Len() > 0 }

// addUser appends u to this instruction's user list unconditionally; the
// "same def twice" binary-input collapse (invariant I1) is done by the
// caller, newBinary. Construction helpers call this directly; SetInput itself
// does not, mirroring original_source/ir/instruction.cpp where callers of
// the raw input mutators manage user edges themselves.
func (i *Instruction) addUser(u *Instruction) {
	i.users.PushBack(u)
}

// AddUser records u as a user of this instruction. Exported for passes
// that hand-rewire an edge outside of SetInput/AppendInput (the Ashr
// constant-merge rewrite in internal/opt, mirroring
// original_source/optimizations/peepholes.cpp's manual RemoveUser/AddUser
// pair).
func (i *Instruction) AddUser(u *Instruction) { i.addUser(u) }

// RemoveUser removes the first occurrence of u from the user list. It is a
// linear scan, offered as a convenience for call sites that do not already
// hold the *list.Element (tests, one-off fixups, the Ashr constant-merge
// rewrite); every pass in this module that removes a user while iterating
// already holds the element and uses Users().Remove(e) directly for the
// true O(1) path spec.md §5 describes.
func (i *Instruction) RemoveUser(u *Instruction) bool {
	for e := i.users.Front(); e != nil; e = e.Next() {
		if e.Value.(*Instruction) == u {
			i.users.Remove(e)
			return true
		}
	}
	return false
}

// SetInput records the def→use edge at idx for binary/branch-shaped
// instructions. It requires idx to be within the opcode's fixed arity
// (spec.md §4.2 "set-input"). It does not touch user lists; callers that
// wire a brand-new edge must also call def.addUser appropriately (see
// construct.go's constructors and the peephole rewrites in internal/opt that
// manage edges by hand, matching original_source/optimizations/peepholes.cpp).
func (i *Instruction) SetInput(idx int, def *Instruction) {
	assertf(idx >= 0 && idx < len(i.inputs), "SetInput: idx %d out of arity %d for %v", idx, len(i.inputs), i.opcode)
	i.inputs[idx] = def
}

// AppendInput grows the input sequence of a Phi or CallStatic instruction
// and records the resulting use edge (spec.md §4.2 "append-input").
func (i *Instruction) AppendInput(def *Instruction) {
	assertf(i.opcode.IsAppendable(), "AppendInput: opcode %v does not take a growable input list", i.opcode)
	i.inputs = append(i.inputs, def)
	if def != nil {
		def.addUser(i)
	}
}

// AppendPhiInput appends an incoming (value, predecessor) pair to a Phi
// instruction (spec.md §3 invariant I4, §4.5 "resolve phi dependency").
func (i *Instruction) AppendPhiInput(def *Instruction, pred *BasicBlock) {
	assertf(i.opcode == OpPhi, "AppendPhiInput on non-phi %v", i.opcode)
	i.AppendInput(def)
	i.phiBlocks = append(i.phiBlocks, pred)
}

// PhiBlocks returns the per-input predecessor blocks of a Phi instruction,
// parallel to Inputs().
func (i *Instruction) PhiBlocks() []*BasicBlock {
	assertf(i.opcode == OpPhi, "PhiBlocks on non-phi %v", i.opcode)
	return i.phiBlocks
}

// SwapInputs permutes inputs[0] and inputs[1] of a binary instruction;
// used by commutative-normalization peepholes (spec.md §4.2, §4.9).
func (i *Instruction) SwapInputs() {
	assertf(i.opcode.IsBinary(), "SwapInputs on non-binary opcode %v", i.opcode)
	i.inputs[0], i.inputs[1] = i.inputs[1], i.inputs[0]
}

// ReplaceInputs substitutes every occurrence of old with next among this
// instruction's inputs and reports whether anything changed (spec.md §4.2
// "replace-inputs"). A Phi's predecessor blocks are index-parallel to its
// inputs and are left as they are, so each replaced input keeps its block.
func (i *Instruction) ReplaceInputs(old, next *Instruction) bool {
	changed := false
	for idx, in := range i.inputs {
		if in == old {
			i.inputs[idx] = next
			changed = true
		}
	}
	return changed
}

// ReplaceInputsForUsers redirects every user of this instruction to use
// next instead, transferring each affected user from this instruction's
// user list to next's (spec.md §4.2 "replace-inputs-for-users"). It is
// safe to call while a caller elsewhere holds an iterator into this
// instruction's own user list, because it only consumes the list once,
// saving each successor before invoking ReplaceInputs.
func (i *Instruction) ReplaceInputsForUsers(next *Instruction) {
	e := i.users.Front()
	for e != nil {
		following := e.Next()
		user := e.Value.(*Instruction)

		if user.ReplaceInputs(i, next) {
			i.users.Remove(e)
			next.addUser(user)
		}

		e = following
	}
}

// DominatedOver reports whether this instruction certainly executes before
// other (spec.md §4.2 "dominated-over"). Across blocks it reduces to block
// dominance; within the same block it is a linear scan finding whichever
// instruction comes first.
func (i *Instruction) DominatedOver(other *Instruction) bool {
	if other == nil {
		return true
	}
	if i.block != other.block {
		return i.block.DominatesOver(other.block)
	}

	found := false
	for cur := i.block.FirstInsn(); cur != nil; cur = cur.Next() {
		if cur == other {
			found = false
			break
		}
		if cur == i {
			found = true
			break
		}
	}
	return found
}

// AsConstant is the narrowing accessor onto Constant payload fields. Its
// precondition is opcode == Constant (spec.md §4.2 "as-constant").
func (i *Instruction) AsConstant() *Instruction {
	assertf(i.opcode == OpConstant, "AsConstant on non-constant opcode %v", i.opcode)
	return i
}

// IsConst reports whether this instruction is a Constant — the everyday
// (non-asserting) check peephole rewrites use before calling AsConstant.
func (i *Instruction) IsConst() bool { return i.opcode == OpConstant }

// IsSignedInt reports whether a Constant's declared type is a signed
// integer type.
func (i *Instruction) IsSignedInt() bool {
	c := i.AsConstant()
	return c.typ.IsSigned()
}

// GetAsI64 returns a Constant's value reinterpreted as a 64-bit signed
// integer.
func (i *Instruction) GetAsI64() int64 {
	c := i.AsConstant()
	return int64(c.constBits)
}

// GetAsU64 returns a Constant's raw 64-bit stored value.
func (i *Instruction) GetAsU64() uint64 {
	c := i.AsConstant()
	return c.constBits
}

// GetAsF32 returns a Constant's value bit-cast from its low 32 bits.
func (i *Instruction) GetAsF32() float32 {
	c := i.AsConstant()
	return math.Float32frombits(uint32(c.constBits))
}

// GetAsF64 returns a Constant's value bit-cast from its 64 stored bits.
func (i *Instruction) GetAsF64() float64 {
	c := i.AsConstant()
	return math.Float64frombits(c.constBits)
}

// IsEqual compares two Constants by stored representation, with NaN
// considered equal to NaN (spec.md §4.2 "IsEqual(x) with NaN-on-NaN
// returning true") — a deliberate departure from IEEE-754 comparison
// semantics, matching bitwise identity rather than numeric equality.
func (i *Instruction) IsEqual(x *Instruction) bool {
	a, b := i.AsConstant(), x.AsConstant()
	return a.typ == b.typ && a.constBits == b.constBits
}

// IsEqualTo reports whether a Constant's value equals v, checked both as
// an integer and, for float-typed constants, as the exact float32/float64
// representation of v (spec.md §4.2 "IsEqualTo(int64)"). This lets
// peephole rules like "multiply by 1" match regardless of whether the
// constant operand happens to be stored as an integer or a float.
func (i *Instruction) IsEqualTo(v int64) bool {
	c := i.AsConstant()
	switch {
	case c.typ.IsInteger():
		return c.GetAsI64() == v
	case c.typ == TypeF32:
		return c.GetAsF32() == float32(v)
	case c.typ == TypeF64:
		return c.GetAsF64() == float64(v)
	default:
		return false
	}
}

// ParamIndex returns a Parameter instruction's declared index.
func (i *Instruction) ParamIndex() int {
	assertf(i.opcode == OpParameter, "ParamIndex on non-parameter opcode %v", i.opcode)
	return i.paramIndex
}

// ParamIsRef reports whether a Parameter is declared with reference type —
// the producer condition C10 checks alongside NewArr (spec.md §4.10).
func (i *Instruction) ParamIsRef() bool {
	assertf(i.opcode == OpParameter, "ParamIsRef on non-parameter opcode %v", i.opcode)
	return i.paramIsRef
}

// ProducesReference reports whether this instruction is a NewArr, or a
// Parameter declared with reference type (spec.md §4.10).
func (i *Instruction) ProducesReference() bool {
	switch i.opcode {
	case OpNewArr:
		return true
	case OpParameter:
		return i.paramIsRef
	default:
		return false
	}
}

// JumpTarget returns a Jmp instruction's single successor block.
func (i *Instruction) JumpTarget() *BasicBlock {
	assertf(i.opcode == OpJmp, "JumpTarget on non-jmp opcode %v", i.opcode)
	return i.jmpTarget
}

// BranchTargets returns a conditional branch's (true, false) successor
// blocks.
func (i *Instruction) BranchTargets() (trueBlock, falseBlock *BasicBlock) {
	assertf(i.opcode == OpBeq || i.opcode == OpBne || i.opcode == OpBgt,
		"BranchTargets on non-branch opcode %v", i.opcode)
	return i.trueTarget, i.falseTarget
}

// CallMethodID returns a CallStatic instruction's callee identifier.
func (i *Instruction) CallMethodID() int {
	assertf(i.opcode == OpCallStatic, "CallMethodID on non-call opcode %v", i.opcode)
	return i.callMethodID
}

// CallArgTypes returns a CallStatic instruction's declared argument types,
// parallel to Inputs(). Stored by value, not as a non-owning handle
// (spec.md §9 resolves the CallStatic ambiguity this way).
func (i *Instruction) CallArgTypes() []PrimitiveType {
	assertf(i.opcode == OpCallStatic, "CallArgTypes on non-call opcode %v", i.opcode)
	return i.callArgTypes
}

// BoundsCheckOperands returns a BoundsCheck's (reference, idx, max)
// operand identities, used by C10 to decide whether two bounds checks are
// interchangeable (spec.md §4.10).
func (i *Instruction) BoundsCheckOperands() (ref, idx, max *Instruction) {
	assertf(i.opcode == OpBoundsCheck, "BoundsCheckOperands on non-boundscheck opcode %v", i.opcode)
	return i.inputs[0], i.inputs[1], i.inputs[2]
}
