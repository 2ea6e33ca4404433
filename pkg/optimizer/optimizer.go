// Package optimizer rewrites TAC sequences without changing their
// observable behavior: constant folding followed by dead-code
// elimination, iterated so each pass can expose work for the other.
package optimizer

import (
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/tac"
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/token"
)

// Folding cascades (t0 = 2+3, t1 = t0*2, ...) settle in one pass each, so
// a handful of rounds is plenty for any realistic program.
const maxRounds = 8

// Optimize returns an optimized copy of the instruction sequence. The
// input slice and its instructions are never mutated, so callers can run
// both versions side by side. The relative order of Print and PatternCall
// instructions is always preserved.
func Optimize(instructions []tac.Instruction) []tac.Instruction {
	optimized := instructions

	for round := 0; round < maxRounds; round++ {
		folded, foldChanged := foldConstants(optimized)
		cleaned, dceChanged := eliminateDeadCode(folded)
		optimized = cleaned

		if !foldChanged && !dceChanged {
			break
		}
	}

	return optimized
}

// foldConstants tracks which names hold known integer constants along the
// current straight-line run. The map is dropped at every label, since a
// label may be reached from elsewhere with different values; this is
// deliberately not a full data-flow analysis.
func foldConstants(instructions []tac.Instruction) ([]tac.Instruction, bool) {
	consts := map[tac.Name]int64{}
	out := make([]tac.Instruction, 0, len(instructions))
	changed := false

	resolve := func(operand tac.Operand) (int64, bool) {
		switch o := operand.(type) {
		case tac.Int:
			return int64(o), true
		case tac.Name:
			value, known := consts[o]
			return value, known
		}
		return 0, false
	}

	// substitute rewrites a known-constant name operand into its literal.
	substitute := func(operand tac.Operand) tac.Operand {
		if name, ok := operand.(tac.Name); ok {
			if value, known := consts[name]; known {
				changed = true
				return tac.Int(value)
			}
		}
		return operand
	}

	for _, instruction := range instructions {
		switch instr := instruction.(type) {
		case *tac.Copy:
			src := substitute(instr.Src)
			if value, known := resolve(src); known {
				consts[instr.Dst] = value
			} else {
				delete(consts, instr.Dst)
			}
			out = append(out, &tac.Copy{Dst: instr.Dst, Src: src})
		case *tac.BinOp:
			left, leftKnown := resolve(instr.Left)
			right, rightKnown := resolve(instr.Right)
			if leftKnown && rightKnown {
				// Division and modulo by a constant zero are left alone:
				// the error belongs to execution, not to this pass.
				if value, ok := tac.EvalBinOp(instr.Op, left, right); ok {
					consts[instr.Dst] = value
					out = append(out, &tac.Copy{Dst: instr.Dst, Src: tac.Int(value)})
					changed = true
					continue
				}
			}
			delete(consts, instr.Dst)
			out = append(out, &tac.BinOp{
				Dst:   instr.Dst,
				Op:    instr.Op,
				Left:  substitute(instr.Left),
				Right: substitute(instr.Right),
			})
		case *tac.UnaryMinus:
			if value, known := resolve(instr.Src); known {
				consts[instr.Dst] = -value
				out = append(out, &tac.Copy{Dst: instr.Dst, Src: tac.Int(-value)})
				changed = true
				continue
			}
			delete(consts, instr.Dst)
			out = append(out, &tac.UnaryMinus{Dst: instr.Dst, Src: substitute(instr.Src)})
		case *tac.PatternCall:
			delete(consts, instr.Dst)
			out = append(out, instr)
		case *tac.Label:
			consts = map[tac.Name]int64{}
			out = append(out, instr)
		default:
			out = append(out, instruction)
		}
	}

	return out, changed
}

// eliminateDeadCode removes Copy/BinOp/UnaryMinus instructions whose
// destination is never read again before being overwritten. Liveness is
// computed backward over the label/goto flow graph, so a value that is
// live on any path into a label stays live. Print and PatternCall are
// never removed.
func eliminateDeadCode(instructions []tac.Instruction) ([]tac.Instruction, bool) {
	graph := newFlowGraph(instructions)
	liveIn := graph.liveness()

	out := make([]tac.Instruction, 0, len(instructions))
	changed := false

	liveOut := func(i int) bool {
		dst := definedName(instructions[i])
		for _, succ := range graph.successors(i) {
			if liveIn[succ][dst] {
				return true
			}
		}
		return false
	}

	for i, instruction := range instructions {
		switch instr := instruction.(type) {
		case *tac.Copy, *tac.UnaryMinus:
			if !liveOut(i) {
				changed = true
				continue
			}
		case *tac.BinOp:
			if !liveOut(i) && !mayTrap(instr) {
				changed = true
				continue
			}
		case *tac.Nop:
			changed = true
			continue
		}
		out = append(out, instruction)
	}

	return out, changed
}

// mayTrap reports whether an operation can fail at runtime even though
// its result is unused. A possible division or modulo by zero is an
// observable effect and must survive elimination.
func mayTrap(instr *tac.BinOp) bool {
	if instr.Op != token.SLASH && instr.Op != token.PERCENT {
		return false
	}
	if divisor, ok := instr.Right.(tac.Int); ok && divisor != 0 {
		return false
	}
	return true
}

type flowGraph struct {
	instructions []tac.Instruction
	labels       map[string]int
}

func newFlowGraph(instructions []tac.Instruction) *flowGraph {
	labels := map[string]int{}
	for i, instruction := range instructions {
		if label, ok := instruction.(*tac.Label); ok {
			labels[label.Name] = i
		}
	}
	return &flowGraph{instructions: instructions, labels: labels}
}

// successors returns the indexes execution can reach directly after
// instruction i.
func (g *flowGraph) successors(i int) []int {
	var succs []int
	fallthroughSucc := func() {
		if i+1 < len(g.instructions) {
			succs = append(succs, i+1)
		}
	}

	switch instr := g.instructions[i].(type) {
	case *tac.Goto:
		succs = append(succs, g.labels[instr.Label])
	case *tac.IfGoto:
		succs = append(succs, g.labels[instr.Label])
		fallthroughSucc()
	case *tac.IfFalseGoto:
		succs = append(succs, g.labels[instr.Label])
		fallthroughSucc()
	default:
		fallthroughSucc()
	}
	return succs
}

// liveness computes, for each instruction, the set of names live on entry
// to it. Sets only ever grow, so sweeping until no additions happen
// reaches the fixpoint.
func (g *flowGraph) liveness() []map[tac.Name]bool {
	liveIn := make([]map[tac.Name]bool, len(g.instructions))
	for i := range liveIn {
		liveIn[i] = map[tac.Name]bool{}
	}

	for {
		grew := false

		for i := len(g.instructions) - 1; i >= 0; i-- {
			def := definedName(g.instructions[i])

			for _, name := range usedNames(g.instructions[i]) {
				if !liveIn[i][name] {
					liveIn[i][name] = true
					grew = true
				}
			}

			for _, succ := range g.successors(i) {
				for name := range liveIn[succ] {
					if name == def {
						continue
					}
					if !liveIn[i][name] {
						liveIn[i][name] = true
						grew = true
					}
				}
			}
		}

		if !grew {
			return liveIn
		}
	}
}

// definedName returns the name an instruction writes, or "" if it writes
// nothing. TAC names are never empty, so "" is a safe sentinel.
func definedName(instruction tac.Instruction) tac.Name {
	switch instr := instruction.(type) {
	case *tac.Copy:
		return instr.Dst
	case *tac.BinOp:
		return instr.Dst
	case *tac.UnaryMinus:
		return instr.Dst
	case *tac.PatternCall:
		return instr.Dst
	}
	return ""
}

func usedNames(instruction tac.Instruction) []tac.Name {
	var uses []tac.Name
	addUse := func(operand tac.Operand) {
		if name, ok := operand.(tac.Name); ok {
			uses = append(uses, name)
		}
	}

	switch instr := instruction.(type) {
	case *tac.Copy:
		addUse(instr.Src)
	case *tac.BinOp:
		addUse(instr.Left)
		addUse(instr.Right)
	case *tac.UnaryMinus:
		addUse(instr.Src)
	case *tac.IfGoto:
		addUse(instr.Cond)
	case *tac.IfFalseGoto:
		addUse(instr.Cond)
	case *tac.Print:
		addUse(instr.Src)
	case *tac.PatternCall:
		for _, arg := range instr.Args {
			addUse(arg)
		}
	}

	return uses
}
