package gen

import (
	"testing"

	"github.com/nalgeon/be"

	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/analyzer"
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

	return Generate(program)
}

func dump(instructions []tac.Instruction) []string {
	lines := make([]string, len(instructions))
	for i, instruction := range instructions {
		lines[i] = instruction.String()
	}
	return lines
}

func TestExpressionLowersThroughTemporaries(t *testing.T) {
	code := generateSource(t, "var a = 1; var b = 2; var x = a + b * 3;")
	be.Equal(t, dump(code), []string{
		"a = 1",
		"b = 2",
		"t0 = b * 3",
		"t1 = a + t0",
		"x = t1",
	})
}

func TestUnaryMinusLowering(t *testing.T) {
	code := generateSource(t, "var x = -5;")
	be.Equal(t, dump(code), []string{
		"t0 = -5",
		"x = t0",
	})
}

func TestStringLowering(t *testing.T) {
	code := generateSource(t, `print "hello";`)
	be.Equal(t, dump(code), []string{
		`print "hello"`,
	})
}

func TestIfLowering(t *testing.T) {
	code := generateSource(t, "var a = 1; if (a > 0) { print 1; }")
	be.Equal(t, dump(code), []string{
		"a = 1",
		"t0 = a > 0",
		"ifFalse t0 goto L0",
		"print 1",
		"L0:",
	})
}

func TestIfElseLowering(t *testing.T) {
	code := generateSource(t, "var a = 1; if (a > 0) { print 1; } else { print 2; }")
	be.Equal(t, dump(code), []string{
		"a = 1",
		"t0 = a > 0",
		"ifFalse t0 goto L0",
		"print 1",
		"goto L1",
		"L0:",
		"print 2",
		"L1:",
	})
}

func TestWhileLowering(t *testing.T) {
	code := generateSource(t, "var i = 0; while (i < 3) { i = i + 1; }")
	be.Equal(t, dump(code), []string{
		"i = 0",
		"L0:",
		"t0 = i < 3",
		"ifFalse t0 goto L1",
		"t1 = i + 1",
		"i = t1",
		"goto L0",
		"L1:",
	})
}

func TestForLowering(t *testing.T) {
	code := generateSource(t, "var i = 0; for (i = 0; i < 3; i = i + 1) { print i; }")
	be.Equal(t, dump(code), []string{
		"i = 0",
		"i = 0",
		"L0:",
		"t0 = i < 3",
		"ifFalse t0 goto L1",
		"print i",
		"t1 = i + 1",
		"i = t1",
		"goto L0",
		"L1:",
	})
}

func TestPatternLowersToSingleInstruction(t *testing.T) {
	code := generateSource(t, "var n = 5; fibonacci(r, n); print r;")
	be.Equal(t, dump(code), []string{
		"n = 5",
		"r = fibonacci(n)",
		"print r",
	})
}

func TestSequencePatternCarriesBothArguments(t *testing.T) {
	code := generateSource(t, "sequence(s, 2, 3);")
	be.Equal(t, dump(code), []string{
		"s = sequence(2, 3)",
	})
}

func TestCountersResetPerRun(t *testing.T) {
	source := "var a = 1; if (a > 0) { print a; } while (a < 2) { a = a + 1; }"
	first := dump(generateSource(t, source))
	second := dump(generateSource(t, source))
	be.Equal(t, first, second)
}
