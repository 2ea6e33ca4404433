package analyzer

import (
	"errors"
	"testing"

	"github.com/nalgeon/be"

	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/ast"
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/lexer"
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/parser"
)

func analyzeSource(t *testing.T, source string) (*SymbolTable, error) {
	t.Helper()

	tokens, err := lexer.Lex(source)
	be.Err(t, err, nil)

	program, err := parser.Parse(tokens)
	be.Err(t, err, nil)

	return Analyze(program)
}

func errorKind(t *testing.T, err error) ErrorKind {
	t.Helper()

	var semErr *Error
	be.True(t, errors.As(err, &semErr))
	return semErr.Kind
}

func TestDeclarationInfersTypes(t *testing.T) {
	symbols, err := analyzeSource(t, `var x = 1; var s = "hi";`)
	be.Err(t, err, nil)

	x, ok := symbols.Get("x")
	be.True(t, ok)
	be.Equal(t, x.Type, ast.Integer)
	be.True(t, x.Initialized)

	s, ok := symbols.Get("s")
	be.True(t, ok)
	be.Equal(t, s.Type, ast.String)
}

func TestRedeclaration(t *testing.T) {
	_, err := analyzeSource(t, "var x = 1; var x = 2;")
	be.Err(t, err)
	be.Equal(t, errorKind(t, err), Redeclaration)
}

func TestAssignmentToUndeclared(t *testing.T) {
	_, err := analyzeSource(t, "x = 1;")
	be.Err(t, err)
	be.Equal(t, errorKind(t, err), Undeclared)
}

func TestReferenceToUndeclared(t *testing.T) {
	_, err := analyzeSource(t, "var x = 1; print y;")
	be.Err(t, err)
	be.Equal(t, errorKind(t, err), Undeclared)
}

func TestBlocksShareTheGlobalScope(t *testing.T) {
	symbols, err := analyzeSource(t, "if (1) { var inner = 2; } print inner;")
	be.Err(t, err, nil)

	_, ok := symbols.Get("inner")
	be.True(t, ok)
}

func TestArithmeticRequiresIntegers(t *testing.T) {
	_, err := analyzeSource(t, `var x = 1 + "a";`)
	be.Err(t, err)
	be.Equal(t, errorKind(t, err), TypeMismatch)
}

func TestUnaryMinusRequiresInteger(t *testing.T) {
	_, err := analyzeSource(t, `var x = -"a";`)
	be.Err(t, err)
	be.Equal(t, errorKind(t, err), TypeMismatch)
}

func TestStringEqualityAllowed(t *testing.T) {
	symbols, err := analyzeSource(t, `var same = "a" == "b";`)
	be.Err(t, err, nil)

	same, ok := symbols.Get("same")
	be.True(t, ok)
	be.Equal(t, same.Type, ast.Integer)
}

func TestStringOrderingRejected(t *testing.T) {
	_, err := analyzeSource(t, `var x = "a" < "b";`)
	be.Err(t, err)
	be.Equal(t, errorKind(t, err), TypeMismatch)
}

func TestMixedEqualityRejected(t *testing.T) {
	_, err := analyzeSource(t, `var x = 1 == "a";`)
	be.Err(t, err)
	be.Equal(t, errorKind(t, err), TypeMismatch)
}

func TestAssignmentPreservesDeclaredType(t *testing.T) {
	_, err := analyzeSource(t, `var x = 1; x = "s";`)
	be.Err(t, err)
	be.Equal(t, errorKind(t, err), TypeMismatch)
}

func TestConditionMustBeInteger(t *testing.T) {
	_, err := analyzeSource(t, `if ("yes") { print 1; }`)
	be.Err(t, err)
	be.Equal(t, errorKind(t, err), TypeMismatch)
}

func TestPatternTargetImplicitlyDeclared(t *testing.T) {
	symbols, err := analyzeSource(t, "fibonacci(result, 5);")
	be.Err(t, err, nil)

	result, ok := symbols.Get("result")
	be.True(t, ok)
	be.Equal(t, result.Type, ast.Sequence)
	be.True(t, result.Initialized)
}

func TestFactorialTargetIsInteger(t *testing.T) {
	symbols, err := analyzeSource(t, "factorial(f, 5);")
	be.Err(t, err, nil)

	f, ok := symbols.Get("f")
	be.True(t, ok)
	be.Equal(t, f.Type, ast.Integer)
}

func TestPatternRebindsDeclaredTarget(t *testing.T) {
	symbols, err := analyzeSource(t, "var r = 1; fibonacci(r, 3);")
	be.Err(t, err, nil)

	r, ok := symbols.Get("r")
	be.True(t, ok)
	be.Equal(t, r.Type, ast.Sequence)
}

func TestFibonacciArity(t *testing.T) {
	_, err := analyzeSource(t, "fibonacci(r, 1, 2);")
	be.Err(t, err)
	be.Equal(t, errorKind(t, err), ArityMismatch)
}

func TestSequenceArity(t *testing.T) {
	_, err := analyzeSource(t, "sequence(s, 1);")
	be.Err(t, err)
	be.Equal(t, errorKind(t, err), ArityMismatch)
}

func TestPatternArgumentsMustBeIntegers(t *testing.T) {
	_, err := analyzeSource(t, `factorial(f, "five");`)
	be.Err(t, err)
	be.Equal(t, errorKind(t, err), TypeMismatch)
}

func TestSequenceValuesCannotBeOperatedOn(t *testing.T) {
	_, err := analyzeSource(t, "fibonacci(r, 3); var x = r + 1;")
	be.Err(t, err)
	be.Equal(t, errorKind(t, err), TypeMismatch)
}

func TestSequenceValuesCannotBeCompared(t *testing.T) {
	_, err := analyzeSource(t, "fibonacci(a, 3); fibonacci(b, 3); var x = a == b;")
	be.Err(t, err)
	be.Equal(t, errorKind(t, err), TypeMismatch)
}

func TestSymbolsInDeclarationOrder(t *testing.T) {
	symbols, err := analyzeSource(t, "var b = 1; var a = 2;")
	be.Err(t, err, nil)

	all := symbols.Symbols()
	be.Equal(t, len(all), 2)
	be.Equal(t, all[0].Name, "b")
	be.Equal(t, all[1].Name, "a")
}
