// Package compiler runs the full pipeline: lex, parse, analyze, lower to
// TAC, optimize, and execute. It is the only entry point callers need.
package compiler

import (
	"errors"

	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/analyzer"
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/ast"
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/gen"
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/interp"
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/lexer"
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/optimizer"
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/parser"
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/tac"
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/token"
)

const (
	PhaseLexer    = "lexer"
	PhaseParser   = "parser"
	PhaseAnalyzer = "analyzer"
	PhaseExecutor = "executor"
)

type Diagnostic struct {
	Phase   string
	Kind    string
	Message string
	Pos     *token.Pos
}

type Options struct {
	// KeepArtifacts records each phase's intermediate output on the
	// Result, for verbose/diagnostic display.
	KeepArtifacts bool
	// SkipOptimization executes the raw TAC instead of the optimized
	// sequence.
	SkipOptimization bool
}

// Artifacts holds the intermediate products of a compilation run. Fields
// are filled in phase order; a failed run keeps the artifacts of the
// phases that completed.
type Artifacts struct {
	Tokens       []token.Token
	Program      *ast.Program
	Symbols      *analyzer.SymbolTable
	TAC          []tac.Instruction
	OptimizedTAC []tac.Instruction
}

type Result struct {
	Success     bool
	Output      []string
	Diagnostics []Diagnostic
	Artifacts   *Artifacts
}

// Compile runs source through all six phases. The pipeline is fail-fast:
// the first error aborts the run and becomes the single diagnostic. A
// compile-time error produces no output; a runtime error returns the
// lines printed before it alongside the diagnostic. Every call uses a
// fresh symbol table and environment.
func Compile(source string, opts Options) Result {
	result := Result{}
	if opts.KeepArtifacts {
		result.Artifacts = &Artifacts{}
	}

	keep := func(record func(*Artifacts)) {
		if result.Artifacts != nil {
			record(result.Artifacts)
		}
	}

	tokens, err := lexer.Lex(source)
	if err != nil {
		return result.fail(diagnose(err))
	}
	keep(func(a *Artifacts) { a.Tokens = tokens })

	program, err := parser.Parse(tokens)
	if err != nil {
		return result.fail(diagnose(err))
	}
	keep(func(a *Artifacts) { a.Program = program })

	symbols, err := analyzer.Analyze(program)
	if err != nil {
		return result.fail(diagnose(err))
	}
	keep(func(a *Artifacts) { a.Symbols = symbols })

	code := gen.Generate(program)
	keep(func(a *Artifacts) { a.TAC = code })

	optimized := optimizer.Optimize(code)
	keep(func(a *Artifacts) { a.OptimizedTAC = optimized })

	if opts.SkipOptimization {
		optimized = code
	}

	output, err := interp.Run(optimized)
	result.Output = output
	if err != nil {
		return result.fail(diagnose(err))
	}

	result.Success = true
	return result
}

func (r Result) fail(d Diagnostic) Result {
	r.Success = false
	r.Diagnostics = append(r.Diagnostics, d)
	return r
}

// diagnose classifies a phase error into a diagnostic by its concrete
// type. Lexical and syntax errors carry a source position; semantic and
// runtime errors carry the offending name or operation in the message.
func diagnose(err error) Diagnostic {
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		pos := lexErr.Pos
		return Diagnostic{Phase: PhaseLexer, Kind: "lexical error", Message: lexErr.Message, Pos: &pos}
	}

	var parseErr *parser.Error
	if errors.As(err, &parseErr) {
		pos := parseErr.Pos
		return Diagnostic{Phase: PhaseParser, Kind: "syntax error", Message: parseErr.Message, Pos: &pos}
	}

	var semErr *analyzer.Error
	if errors.As(err, &semErr) {
		pos := semErr.Pos
		return Diagnostic{Phase: PhaseAnalyzer, Kind: semErr.Kind.String(), Message: semErr.Message, Pos: &pos}
	}

	var runErr *interp.Error
	if errors.As(err, &runErr) {
		return Diagnostic{Phase: PhaseExecutor, Kind: runErr.Kind.String(), Message: runErr.Message}
	}

	return Diagnostic{Phase: PhaseExecutor, Kind: "error", Message: err.Error()}
}
