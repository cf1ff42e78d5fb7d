package ir

import "fmt"

// assertf guards an invariant of the IR (spec.md §7: "programmer
// precondition violation"). There is no recoverable path here: a correctly
// built graph fed through any documented construction, analysis, or
// optimization call must never trip one of these. Tripping one means a
// front-end or pass bug, not a condition callers should handle.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("sonir/ir: assertion failed: "+format, args...))
	}
}

// unreachable marks the default arm of an exhaustive opcode/type switch.
func unreachable(format string, args ...any) {
	panic(fmt.Sprintf("sonir/ir: unreachable: "+format, args...))
}
