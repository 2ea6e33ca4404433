package analyzer

import (
	"fmt"

	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/ast"
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/token"
)

type ErrorKind int

const (
	Undeclared ErrorKind = iota
	Redeclaration
	Uninitialized
	TypeMismatch
	ArityMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case Undeclared:
		return "undeclared variable"
	case Redeclaration:
		return "redeclaration"
	case Uninitialized:
		return "use before initialization"
	case TypeMismatch:
		return "type mismatch"
	case ArityMismatch:
		return "arity mismatch"
	}
	return "semantic error"
}

type Error struct {
	Kind    ErrorKind
	Pos     token.Pos
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("semantic error: %d:%d: %s: %s",
		e.Pos.Line, e.Pos.Column, e.Kind, e.Message)
}

type Symbol struct {
	Name        string
	Type        ast.Type
	Initialized bool
}

// SymbolTable is the single global namespace of the language. There are no
// nested scopes: a block sees and extends the same table as its enclosing
// statements.
type SymbolTable struct {
	symbols map[string]*Symbol
	names   []string
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

func (s *SymbolTable) Declare(name string, typ ast.Type) (*Symbol, bool) {
	if _, exists := s.symbols[name]; exists {
		return nil, false
	}

	symbol := &Symbol{Name: name, Type: typ}
	s.symbols[name] = symbol
	s.names = append(s.names, name)
	return symbol, true
}

func (s *SymbolTable) Get(name string) (*Symbol, bool) {
	symbol, ok := s.symbols[name]
	return symbol, ok
}

// Symbols returns the table's entries in declaration order.
func (s *SymbolTable) Symbols() []*Symbol {
	all := make([]*Symbol, len(s.names))
	for i, name := range s.names {
		all[i] = s.symbols[name]
	}
	return all
}

type analyzer struct {
	symbols *SymbolTable
}

// Analyze walks the program once in source order, checking declarations,
// initialization, and types, and annotating expressions with their types.
// It returns the populated symbol table. The first violation aborts the
// walk with an *Error.
//
// Pattern-call targets are declared implicitly by the call itself:
// `fibonacci(result, n)` introduces `result` if it is not already a
// variable, and rebinds its type if it is.
func Analyze(program *ast.Program) (symbols *SymbolTable, err error) {
	defer func() {
		if r := recover(); r != nil {
			if aerr, ok := r.(*Error); ok {
				symbols, err = nil, aerr
			} else {
				panic(r)
			}
		}
	}()

	a := analyzer{symbols: NewSymbolTable()}

	for _, statement := range program.Statements {
		a.analyzeStatement(statement)
	}

	return a.symbols, nil
}

func (a *analyzer) analysisError(kind ErrorKind, t token.Token, format string, args ...interface{}) {
	panic(&Error{Kind: kind, Pos: t.Pos, Message: fmt.Sprintf(format, args...)})
}

func (a *analyzer) analyzeStatement(statement ast.Statement) {
	switch s := statement.(type) {
	case *ast.VariableDeclaration:
		typ := a.analyzeExpression(s.Value)
		symbol, ok := a.symbols.Declare(s.Identifier.Lexeme, typ)
		if !ok {
			a.analysisError(Redeclaration, s.Identifier,
				"variable `%s` is already declared", s.Identifier.Lexeme)
		}
		symbol.Initialized = true
	case *ast.AssignStatement:
		a.analyzeAssignment(s)
	case *ast.PrintStatement:
		a.analyzeExpression(s.Expression)
	case *ast.IfStatement:
		a.analyzeCondition(s.Condition)
		a.analyzeBlock(s.IfBlock)
		if s.ElseBlock != nil {
			a.analyzeBlock(*s.ElseBlock)
		}
	case *ast.WhileStatement:
		a.analyzeCondition(s.Condition)
		a.analyzeBlock(s.Block)
	case *ast.ForStatement:
		a.analyzeAssignment(&s.Init)
		a.analyzeCondition(s.Condition)
		a.analyzeAssignment(&s.Update)
		a.analyzeBlock(s.Block)
	case *ast.PatternStatement:
		a.analyzePattern(s)
	case *ast.BlockStatement:
		a.analyzeBlock(*s)
	}
}

func (a *analyzer) analyzeBlock(block ast.BlockStatement) {
	for _, statement := range block.Statements {
		a.analyzeStatement(statement)
	}
}

func (a *analyzer) analyzeAssignment(s *ast.AssignStatement) {
	symbol, ok := a.symbols.Get(s.Identifier.Lexeme)
	if !ok {
		a.analysisError(Undeclared, s.Identifier,
			"variable `%s` is not declared", s.Identifier.Lexeme)
	}

	typ := a.analyzeExpression(s.Value)
	if symbol.Type != typ {
		a.analysisError(TypeMismatch, s.Identifier,
			"cannot assign %s value to %s variable `%s`", typ, symbol.Type, s.Identifier.Lexeme)
	}

	symbol.Initialized = true
}

func (a *analyzer) analyzeCondition(condition ast.Expression) {
	if typ := a.analyzeExpression(condition); typ != ast.Integer {
		a.analysisError(TypeMismatch, condition.ErrorToken(),
			"condition must be int, got %s", typ)
	}
}

var patternArity = map[token.TokenType]int{
	token.FIBONACCI: 1,
	token.FACTORIAL: 1,
	token.SEQUENCE:  2,
}

func patternResultType(kind token.TokenType) ast.Type {
	if kind == token.FACTORIAL {
		return ast.Integer
	}
	return ast.Sequence
}

func (a *analyzer) analyzePattern(s *ast.PatternStatement) {
	if want := patternArity[s.Kind]; len(s.Arguments) != want {
		a.analysisError(ArityMismatch, s.KeywordToken,
			"`%s` takes %d argument(s), got %d", s.KeywordToken.Lexeme, want, len(s.Arguments))
	}

	for _, argument := range s.Arguments {
		if typ := a.analyzeExpression(argument); typ != ast.Integer {
			a.analysisError(TypeMismatch, argument.ErrorToken(),
				"`%s` arguments must be int, got %s", s.KeywordToken.Lexeme, typ)
		}
	}

	typ := patternResultType(s.Kind)
	if symbol, ok := a.symbols.Get(s.Target.Lexeme); ok {
		symbol.Type = typ
		symbol.Initialized = true
	} else {
		symbol, _ := a.symbols.Declare(s.Target.Lexeme, typ)
		symbol.Initialized = true
	}
}

func (a *analyzer) analyzeExpression(expression ast.Expression) ast.Type {
	switch e := expression.(type) {
	case *ast.IntLiteral:
		return ast.Integer
	case *ast.StringLiteral:
		return ast.String
	case *ast.VariableExpression:
		symbol, ok := a.symbols.Get(e.Identifier.Lexeme)
		if !ok {
			a.analysisError(Undeclared, e.Identifier,
				"variable `%s` is not declared", e.Identifier.Lexeme)
		}
		if !symbol.Initialized {
			a.analysisError(Uninitialized, e.Identifier,
				"variable `%s` is used before initialization", e.Identifier.Lexeme)
		}
		e.Typ = symbol.Type
		return e.Typ
	case *ast.UnaryExpression:
		if typ := a.analyzeExpression(e.Value); typ != ast.Integer {
			a.analysisError(TypeMismatch, e.Operator,
				"unary `-` requires an int operand, got %s", typ)
		}
		e.Typ = ast.Integer
		return e.Typ
	case *ast.BinaryExpression:
		return a.analyzeBinary(e)
	}

	panic(fmt.Sprintf("unknown expression type: %T", expression))
}

func (a *analyzer) analyzeBinary(e *ast.BinaryExpression) ast.Type {
	left := a.analyzeExpression(e.Left)
	right := a.analyzeExpression(e.Right)

	switch e.Operator.Type {
	case token.EQUAL_EQUAL, token.BANG_EQUAL:
		// Equality also works on two strings. Everything else is
		// integer-only.
		if left != right || left == ast.Sequence {
			a.analysisError(TypeMismatch, e.Operator,
				"cannot compare %s with %s", left, right)
		}
	default:
		if left != ast.Integer || right != ast.Integer {
			a.analysisError(TypeMismatch, e.Operator,
				"operator `%s` requires int operands, got %s and %s",
				e.Operator.Lexeme, left, right)
		}
	}

	e.Typ = ast.Integer
	return e.Typ
}
