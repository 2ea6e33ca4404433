package optimizer

import (
	"testing"

	"github.com/nalgeon/be"

	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/analyzer"
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/gen"
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/lexer"
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/parser"
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/tac"
)

func generateSource(t *testing.T, source string) []tac.Instruction {
	t.Helper()

	tokens, err := lexer.Lex(source)
	be.Err(t, err, nil)

	program, err := parser.Parse(tokens)
	be.Err(t, err, nil)

	_, err = analyzer.Analyze(program)
	be.Err(t, err, nil)

	return gen.Generate(program)
}

func optimizeSource(t *testing.T, source string) []tac.Instruction {
	t.Helper()
	return Optimize(generateSource(t, source))
}

func dump(instructions []tac.Instruction) []string {
	lines := make([]string, len(instructions))
	for i, instruction := range instructions {
		lines[i] = instruction.String()
	}
	return lines
}

func TestFoldsAdditionToSingleCopy(t *testing.T) {
	code := optimizeSource(t, "print 2 + 3;")
	be.Equal(t, dump(code), []string{
		"t0 = 5",
		"print t0",
	})
}

func TestFoldsArithmetic(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"print 2 + 3;", "t0 = 5"},
		{"print 2 - 3;", "t0 = -1"},
		{"print 2 * 3;", "t0 = 6"},
		{"print 7 / 2;", "t0 = 3"},
		{"print 7 % 3;", "t0 = 1"},
	}

	for _, tt := range tests {
		code := Optimize(generateSource(t, tt.source))
		be.Equal(t, dump(code)[0], tt.want)
	}
}

func TestFoldsWithFloorSemantics(t *testing.T) {
	code := optimizeSource(t, "print -7 / 2;")
	be.Equal(t, dump(code), []string{
		"t1 = -4",
		"print t1",
	})

	code = optimizeSource(t, "print -7 % 3;")
	be.Equal(t, dump(code), []string{
		"t1 = 2",
		"print t1",
	})
}

func TestFoldsComparisons(t *testing.T) {
	code := optimizeSource(t, "print 2 < 3;")
	be.Equal(t, dump(code), []string{
		"t0 = 1",
		"print t0",
	})
}

func TestFoldsCascades(t *testing.T) {
	code := optimizeSource(t, "print (2 + 3) * 4;")
	be.Equal(t, dump(code), []string{
		"t1 = 20",
		"print t1",
	})
}

func TestConstantPropagatesThroughVariables(t *testing.T) {
	code := optimizeSource(t, "var x = 2 + 3; print x;")
	be.Equal(t, dump(code), []string{
		"x = 5",
		"print x",
	})
}

func TestDivisionByConstantZeroNotFolded(t *testing.T) {
	code := optimizeSource(t, "print 1 / 0;")
	be.Equal(t, dump(code), []string{
		"t0 = 1 / 0",
		"print t0",
	})
}

func TestTrappingDivisionSurvivesElimination(t *testing.T) {
	// x is dead, but the division by zero must still fail at runtime.
	code := optimizeSource(t, "var x = 5 / 0;")
	be.Equal(t, dump(code), []string{
		"t0 = 5 / 0",
	})
}

func TestDeadStoreEliminated(t *testing.T) {
	code := optimizeSource(t, "var x = 1; var y = 2; print x;")
	be.Equal(t, dump(code), []string{
		"x = 1",
		"print x",
	})
}

func TestConstantsInvalidatedAtLabels(t *testing.T) {
	source := "var i = 0; while (i < 3) { i = i + 1; } print i;"
	before := dump(generateSource(t, source))
	after := dump(optimizeSource(t, source))

	// i is redefined inside the loop, so nothing about it may fold: the
	// sequence comes through untouched.
	be.Equal(t, after, before)
}

func TestPatternCallsNeverEliminated(t *testing.T) {
	code := optimizeSource(t, "var a = 1; fibonacci(r, 5); print a;")
	be.Equal(t, dump(code), []string{
		"a = 1",
		"r = fibonacci(5)",
		"print a",
	})
}

func TestNopsStripped(t *testing.T) {
	code := Optimize([]tac.Instruction{
		&tac.Nop{},
		&tac.Print{Src: tac.Int(1)},
		&tac.Nop{},
	})
	be.Equal(t, dump(code), []string{
		"print 1",
	})
}

func TestInputSequenceNotMutated(t *testing.T) {
	code := generateSource(t, "var x = 2 + 3; print x;")
	before := dump(code)

	Optimize(code)
	be.Equal(t, dump(code), before)
}
