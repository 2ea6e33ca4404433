// Package interp executes three-address code directly. It also implements
// the three pattern-generation builtins.
package interp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/tac"
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/token"
)

type ErrorKind int

const (
	DivisionByZero ErrorKind = iota
	ModuloByZero
	NegativeFactorial
	Internal
)

func (k ErrorKind) String() string {
	switch k {
	case DivisionByZero:
		return "division by zero"
	case ModuloByZero:
		return "modulo by zero"
	case NegativeFactorial:
		return "negative factorial argument"
	}
	return "internal error"
}

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("runtime error: %s: %s", e.Kind, e.Message)
}

type ValueKind int

const (
	IntValue ValueKind = iota
	StrValue
	SeqValue
)

// Value is the runtime representation: an integer, a string, or a
// generated integer sequence. There is no coercion between kinds.
type Value struct {
	Kind ValueKind
	Int  int64
	Str  string
	Seq  []int64
}

// String renders a value the way print shows it: integers in decimal,
// strings verbatim, sequences as a bracketed comma-separated list.
func (v Value) String() string {
	switch v.Kind {
	case IntValue:
		return strconv.FormatInt(v.Int, 10)
	case StrValue:
		return v.Str
	}

	parts := make([]string, len(v.Seq))
	for i, n := range v.Seq {
		parts[i] = strconv.FormatInt(n, 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// sequence() has no length argument; it always generates this many terms.
const sequenceLength = 10

// Run walks the instruction sequence with a single instruction pointer
// until it falls off the end. On a runtime error the lines printed before
// the failing instruction are still returned alongside the error. Each
// call gets a fresh environment.
func Run(instructions []tac.Instruction) ([]string, error) {
	r := runner{
		instructions: instructions,
		env:          make(map[tac.Name]Value),
		labels:       make(map[string]int),
	}

	for i, instruction := range instructions {
		if label, ok := instruction.(*tac.Label); ok {
			if _, dup := r.labels[label.Name]; dup {
				return nil, &Error{Internal, "label " + label.Name + " defined twice"}
			}
			r.labels[label.Name] = i
		}
	}

	err := r.run()
	return r.output, err
}

type runner struct {
	instructions []tac.Instruction
	env          map[tac.Name]Value
	labels       map[string]int
	output       []string
	pc           int
}

func (r *runner) run() error {
	for r.pc = 0; r.pc < len(r.instructions); r.pc++ {
		if err := r.step(r.instructions[r.pc]); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) step(instruction tac.Instruction) error {
	switch instr := instruction.(type) {
	case *tac.Copy:
		value, err := r.value(instr.Src)
		if err != nil {
			return err
		}
		r.env[instr.Dst] = value
	case *tac.BinOp:
		return r.binOp(instr)
	case *tac.UnaryMinus:
		operand, err := r.intValue(instr.Src)
		if err != nil {
			return err
		}
		r.env[instr.Dst] = Value{Kind: IntValue, Int: -operand}
	case *tac.Label, *tac.Nop:
		// no-op.
	case *tac.Goto:
		return r.jump(instr.Label)
	case *tac.IfGoto:
		cond, err := r.intValue(instr.Cond)
		if err != nil {
			return err
		}
		if cond != 0 {
			return r.jump(instr.Label)
		}
	case *tac.IfFalseGoto:
		cond, err := r.intValue(instr.Cond)
		if err != nil {
			return err
		}
		if cond == 0 {
			return r.jump(instr.Label)
		}
	case *tac.Print:
		value, err := r.value(instr.Src)
		if err != nil {
			return err
		}
		r.output = append(r.output, value.String())
	case *tac.PatternCall:
		return r.patternCall(instr)
	default:
		return &Error{Internal, fmt.Sprintf("unknown instruction %T", instruction)}
	}

	return nil
}

func (r *runner) jump(label string) error {
	target, ok := r.labels[label]
	if !ok {
		return &Error{Internal, "jump to undefined label " + label}
	}
	r.pc = target
	return nil
}

func (r *runner) binOp(instr *tac.BinOp) error {
	left, err := r.value(instr.Left)
	if err != nil {
		return err
	}
	right, err := r.value(instr.Right)
	if err != nil {
		return err
	}

	// String operands only reach here for == and !=, everything else was
	// rejected by the analyzer.
	if left.Kind == StrValue && right.Kind == StrValue {
		switch instr.Op {
		case token.EQUAL_EQUAL:
			r.env[instr.Dst] = boolValue(left.Str == right.Str)
			return nil
		case token.BANG_EQUAL:
			r.env[instr.Dst] = boolValue(left.Str != right.Str)
			return nil
		}
	}

	if left.Kind != IntValue || right.Kind != IntValue {
		return &Error{Internal, fmt.Sprintf("operands of `%s` are not both int", tac.OpSymbol(instr.Op))}
	}

	result, ok := tac.EvalBinOp(instr.Op, left.Int, right.Int)
	if !ok {
		if instr.Op == token.PERCENT {
			return &Error{ModuloByZero, instr.String()}
		}
		return &Error{DivisionByZero, instr.String()}
	}

	r.env[instr.Dst] = Value{Kind: IntValue, Int: result}
	return nil
}

func (r *runner) patternCall(instr *tac.PatternCall) error {
	args := make([]int64, len(instr.Args))
	for i, arg := range instr.Args {
		value, err := r.intValue(arg)
		if err != nil {
			return err
		}
		args[i] = value
	}

	switch instr.Kind {
	case token.FIBONACCI:
		r.env[instr.Dst] = Value{Kind: SeqValue, Seq: fibonacci(args[0])}
	case token.FACTORIAL:
		if args[0] < 0 {
			return &Error{NegativeFactorial, fmt.Sprintf("factorial(%d)", args[0])}
		}
		r.env[instr.Dst] = Value{Kind: IntValue, Int: factorial(args[0])}
	case token.SEQUENCE:
		r.env[instr.Dst] = Value{Kind: SeqValue, Seq: arithmeticSequence(args[0], args[1])}
	default:
		return &Error{Internal, "unknown pattern " + instr.Kind.String()}
	}

	return nil
}

func (r *runner) value(operand tac.Operand) (Value, error) {
	switch o := operand.(type) {
	case tac.Int:
		return Value{Kind: IntValue, Int: int64(o)}, nil
	case tac.Str:
		return Value{Kind: StrValue, Str: string(o)}, nil
	case tac.Name:
		value, ok := r.env[o]
		if !ok {
			return Value{}, &Error{Internal, "read of unset location " + string(o)}
		}
		return value, nil
	}

	return Value{}, &Error{Internal, fmt.Sprintf("unknown operand %T", operand)}
}

func (r *runner) intValue(operand tac.Operand) (int64, error) {
	value, err := r.value(operand)
	if err != nil {
		return 0, err
	}
	if value.Kind != IntValue {
		return 0, &Error{Internal, operand.String() + " is not an int"}
	}
	return value.Int, nil
}

func boolValue(b bool) Value {
	if b {
		return Value{Kind: IntValue, Int: 1}
	}
	return Value{Kind: IntValue, Int: 0}
}

// fibonacci returns the first n Fibonacci numbers, starting 0, 1.
func fibonacci(n int64) []int64 {
	seq := []int64{}
	for a, b := int64(0), int64(1); int64(len(seq)) < n; a, b = b, a+b {
		seq = append(seq, a)
	}
	return seq
}

func factorial(n int64) int64 {
	result := int64(1)
	for i := int64(2); i <= n; i++ {
		result *= i
	}
	return result
}

func arithmeticSequence(start, step int64) []int64 {
	seq := make([]int64, sequenceLength)
	for i := range seq {
		seq[i] = start + int64(i)*step
	}
	return seq
}
