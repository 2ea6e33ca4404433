// Package tac defines the three-address-code representation the compiler
// lowers programs into: a flat instruction sequence where control flow is
// expressed only through labels and jumps.
package tac

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/token"
)

// Operand is a value an instruction reads or writes: a named location
// (source variable or compiler temporary) or an int/string constant.
type Operand interface {
	isOperand()
	String() string
}

type Name string

type Int int64

type Str string

func (Name) isOperand() {}
func (Int) isOperand()  {}
func (Str) isOperand()  {}

func (n Name) String() string {
	return string(n)
}

func (i Int) String() string {
	return strconv.FormatInt(int64(i), 10)
}

func (s Str) String() string {
	return `"` + string(s) + `"`
}

// Instruction is the closed set of TAC instructions. The executor and
// optimizer dispatch on it exhaustively.
type Instruction interface {
	isInstruction()
	String() string
}

type Copy struct {
	Dst Name
	Src Operand
}

type BinOp struct {
	Dst   Name
	Op    token.TokenType
	Left  Operand
	Right Operand
}

type UnaryMinus struct {
	Dst Name
	Src Operand
}

type Label struct {
	Name string
}

type Goto struct {
	Label string
}

type IfGoto struct {
	Cond  Operand
	Label string
}

type IfFalseGoto struct {
	Cond  Operand
	Label string
}

type Print struct {
	Src Operand
}

type PatternCall struct {
	Kind token.TokenType
	Dst  Name
	Args []Operand
}

type Nop struct{}

func (*Copy) isInstruction()        {}
func (*BinOp) isInstruction()       {}
func (*UnaryMinus) isInstruction()  {}
func (*Label) isInstruction()       {}
func (*Goto) isInstruction()        {}
func (*IfGoto) isInstruction()      {}
func (*IfFalseGoto) isInstruction() {}
func (*Print) isInstruction()       {}
func (*PatternCall) isInstruction() {}
func (*Nop) isInstruction()         {}

var opSymbols = map[token.TokenType]string{
	token.PLUS:          "+",
	token.MINUS:         "-",
	token.STAR:          "*",
	token.SLASH:         "/",
	token.PERCENT:       "%",
	token.EQUAL_EQUAL:   "==",
	token.BANG_EQUAL:    "!=",
	token.LESSER:        "<",
	token.GREATER:       ">",
	token.LESSER_EQUAL:  "<=",
	token.GREATER_EQUAL: ">=",
}

// OpSymbol returns the source-level spelling of a binary operator.
func OpSymbol(op token.TokenType) string {
	return opSymbols[op]
}

func (i *Copy) String() string {
	return fmt.Sprintf("%s = %s", i.Dst, i.Src)
}

func (i *BinOp) String() string {
	return fmt.Sprintf("%s = %s %s %s", i.Dst, i.Left, OpSymbol(i.Op), i.Right)
}

func (i *UnaryMinus) String() string {
	return fmt.Sprintf("%s = -%s", i.Dst, i.Src)
}

func (i *Label) String() string {
	return i.Name + ":"
}

func (i *Goto) String() string {
	return "goto " + i.Label
}

func (i *IfGoto) String() string {
	return fmt.Sprintf("if %s goto %s", i.Cond, i.Label)
}

func (i *IfFalseGoto) String() string {
	return fmt.Sprintf("ifFalse %s goto %s", i.Cond, i.Label)
}

func (i *Print) String() string {
	return "print " + i.Src.String()
}

func (i *PatternCall) String() string {
	args := make([]string, len(i.Args))
	for n, arg := range i.Args {
		args[n] = arg.String()
	}
	return fmt.Sprintf("%s = %s(%s)", i.Dst, strings.ToLower(i.Kind.String()), strings.Join(args, ", "))
}

func (*Nop) String() string {
	return "nop"
}

// Dump renders an instruction sequence with indexes, one per line.
func Dump(instructions []Instruction) string {
	var b strings.Builder
	for n, instruction := range instructions {
		fmt.Fprintf(&b, "%3d: %s\n", n, instruction)
	}
	return b.String()
}

// EvalBinOp applies a binary operator to integer operands. Comparisons
// yield 1 or 0. Division and modulo use floor semantics; a zero divisor
// reports ok = false so callers decide between deferring (optimizer) and
// failing (executor).
func EvalBinOp(op token.TokenType, left, right int64) (result int64, ok bool) {
	switch op {
	case token.PLUS:
		return left + right, true
	case token.MINUS:
		return left - right, true
	case token.STAR:
		return left * right, true
	case token.SLASH:
		if right == 0 {
			return 0, false
		}
		return floorDiv(left, right), true
	case token.PERCENT:
		if right == 0 {
			return 0, false
		}
		return floorMod(left, right), true
	case token.EQUAL_EQUAL:
		return boolToInt(left == right), true
	case token.BANG_EQUAL:
		return boolToInt(left != right), true
	case token.LESSER:
		return boolToInt(left < right), true
	case token.GREATER:
		return boolToInt(left > right), true
	case token.LESSER_EQUAL:
		return boolToInt(left <= right), true
	case token.GREATER_EQUAL:
		return boolToInt(left >= right), true
	}

	panic(fmt.Sprintf("not a binary operator: %s", op))
}

// floorDiv rounds toward negative infinity, unlike Go's native division
// which truncates toward zero.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// floorMod takes the divisor's sign, pairing with floorDiv so that
// a == floorDiv(a, b)*b + floorMod(a, b).
func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
