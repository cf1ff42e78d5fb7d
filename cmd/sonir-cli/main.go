// Command sonir-cli builds one of a handful of demo graphs, runs the full
// analysis/optimization pipeline over it, and dumps the result. There is no
// textual front end here (spec.md's Non-goals exclude a parser), so the
// single positional argument picks a fixture instead of a file to parse.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"sonir/internal/analysis"
	"sonir/internal/ir"
	"sonir/internal/opt"
)

var demos = map[string]func() *ir.Graph{
	"diamond":  buildDiamondWithSink,
	"loop":     buildSingleReducibleLoop,
	"mul-by-2": buildMulBy2,
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <%s>\n", os.Args[0], demoNames())
		os.Exit(1)
	}

	name := os.Args[1]
	build, ok := demos[name]
	if !ok {
		color.Red("✗ unknown demo %q (want one of %s)", name, demoNames())
		os.Exit(1)
	}

	if err := run(build); err != nil {
		color.Red("✗ %v", err)
		os.Exit(1)
	}
}

func demoNames() string {
	out := ""
	for _, n := range []string{"diamond", "loop", "mul-by-2"} {
		if out != "" {
			out += "|"
		}
		out += n
	}
	return out
}

// run builds the graph, runs RPO, the dominator tree, loop analysis, the
// peephole pass, and check elimination, then dumps the result — recovering
// a failed invariant assertion into a plain error instead of a crash, the
// way the teacher's CLI recovers a failed parse into a reported error.
func run(build func() *ir.Graph) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invariant violation: %v", r)
		}
	}()

	g := build()
	analysis.RPO(g)
	analysis.BuildDominatorTree(g)
	analysis.AnalyzeLoops(g)
	opt.RunPeepholes(g)
	opt.RunCheckElimination(g)

	color.Green("✅ built and optimized %d block(s), %d instruction(s)", len(g.Blocks()), len(g.Instructions()))
	g.Dump(os.Stdout)
	return nil
}

// buildDiamondWithSink is seed test 1/2's fixture: A→B, B→C, B→F, C→D,
// F→E, F→G, G→D, E→D.
func buildDiamondWithSink() *ir.Graph {
	g := ir.NewGraph(0)
	a := g.CreateBlock()
	b := g.CreateBlock()
	c := g.CreateBlock()
	d := g.CreateBlock()
	e := g.CreateBlock()
	f := g.CreateBlock()
	gg := g.CreateBlock()

	v0 := g.CreateParameterInsn(ir.TypeI32, 0, false)
	a.PushInstruction(v0)
	cond := g.CreateConstantIntInsn(ir.TypeI32, 0)
	a.PushInstruction(cond)
	a.PushInstruction(g.CreateJmpInsn(a, b))

	b.PushInstruction(g.CreateBeqInsn(b, v0, cond, c, f))

	c.PushInstruction(g.CreateJmpInsn(c, d))

	f.PushInstruction(g.CreateBeqInsn(f, v0, cond, e, gg))

	e.PushInstruction(g.CreateJmpInsn(e, d))
	gg.PushInstruction(g.CreateJmpInsn(gg, d))

	d.PushInstruction(g.CreateRetInsn(ir.TypeI32, v0))

	return g
}

// buildSingleReducibleLoop is seed test 3's fixture: A→B, B→C, B→D, D→E,
// E→A.
func buildSingleReducibleLoop() *ir.Graph {
	g := ir.NewGraph(0)
	a := g.CreateBlock()
	b := g.CreateBlock()
	c := g.CreateBlock()
	d := g.CreateBlock()
	e := g.CreateBlock()

	v0 := g.CreateParameterInsn(ir.TypeI32, 0, false)
	a.PushInstruction(v0)
	one := g.CreateConstantIntInsn(ir.TypeI32, 1)
	a.PushInstruction(one)
	a.PushInstruction(g.CreateJmpInsn(a, b))

	cond := g.CreateConstantIntInsn(ir.TypeI32, 0)
	b.PushInstruction(cond)
	b.PushInstruction(g.CreateBeqInsn(b, v0, cond, c, d))

	c.PushInstruction(g.CreateRetInsn(ir.TypeI32, v0))

	d.PushInstruction(g.CreateJmpInsn(d, e))
	e.PushInstruction(g.CreateJmpInsn(e, a))

	return g
}

// buildMulBy2 is seed test 4's fixture: v0=2, v1=12, v2=Add(v0,v1),
// v3=Mul(v2,v0), v4=Sub(v3,v0), ret v4. Built through the IR builder's
// cursor-based API rather than raw Graph factories, to exercise C5.
func buildMulBy2() *ir.Graph {
	b := ir.NewBuilder(0)

	v0 := b.CreateConstantInt(ir.TypeI32, 2)
	v1 := b.CreateConstantInt(ir.TypeI32, 12)
	v2 := b.CreateAdd(ir.TypeI32, v0, v1)
	v3 := b.CreateMul(ir.TypeI32, v2, v0)
	v4 := b.CreateSub(ir.TypeI32, v3, v0)
	b.CreateRet(ir.TypeI32, v4)

	return b.Graph()
}
