package ast

import (
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/token"
)

// Type is the closed set of value types in the language. Sequence is only
// produced by the fibonacci and sequence builtins and can be printed but
// not operated on.
type Type int

const (
	Unknown Type = iota
	Integer
	String
	Sequence
)

func (t Type) String() string {
	switch t {
	case Integer:
		return "int"
	case String:
		return "str"
	case Sequence:
		return "seq"
	}
	return "unknown"
}

type Program struct {
	Statements []Statement
}

type Statement interface {
	isStatement()
}

type VariableDeclaration struct {
	Identifier token.Token
	Value      Expression

	VarToken token.Token
}

type AssignStatement struct {
	Identifier token.Token
	Value      Expression
}

type PrintStatement struct {
	Expression Expression

	PrintToken token.Token
}

type IfStatement struct {
	Condition Expression
	IfBlock   BlockStatement
	ElseBlock *BlockStatement

	IfToken token.Token
}

type WhileStatement struct {
	Condition Expression
	Block     BlockStatement

	WhileToken token.Token
}

type ForStatement struct {
	Init      AssignStatement
	Condition Expression
	Update    AssignStatement
	Block     BlockStatement

	ForToken token.Token
}

// PatternStatement is one of the builtin generator calls. Kind is the
// keyword token type (FIBONACCI, FACTORIAL, or SEQUENCE) and Target the
// variable the result is bound to.
type PatternStatement struct {
	Kind      token.TokenType
	Target    token.Token
	Arguments []Expression

	KeywordToken token.Token
}

type BlockStatement struct {
	Statements []Statement
}

func (*VariableDeclaration) isStatement() {}
func (*AssignStatement) isStatement()     {}
func (*PrintStatement) isStatement()      {}
func (*IfStatement) isStatement()         {}
func (*WhileStatement) isStatement()      {}
func (*ForStatement) isStatement()        {}
func (*PatternStatement) isStatement()    {}
func (*BlockStatement) isStatement()      {}

type Expression interface {
	isExpression()
	Type() Type
	ErrorToken() token.Token
}

type UnaryExpression struct {
	Operator token.Token
	Value    Expression

	Typ Type
}

type BinaryExpression struct {
	Left     Expression
	Operator token.Token
	Right    Expression

	Typ Type
}

type VariableExpression struct {
	Identifier token.Token

	Typ Type
}

type IntLiteral struct {
	Token token.Token
	Value int64
}

type StringLiteral struct {
	Token token.Token
	Value string
}

func (*UnaryExpression) isExpression()    {}
func (*BinaryExpression) isExpression()   {}
func (*VariableExpression) isExpression() {}
func (*IntLiteral) isExpression()         {}
func (*StringLiteral) isExpression()      {}

func (u *UnaryExpression) Type() Type {
	return u.Typ
}

func (u *UnaryExpression) ErrorToken() token.Token {
	return u.Operator
}

func (b *BinaryExpression) Type() Type {
	return b.Typ
}

func (b *BinaryExpression) ErrorToken() token.Token {
	return b.Operator
}

func (v *VariableExpression) Type() Type {
	return v.Typ
}

func (v *VariableExpression) ErrorToken() token.Token {
	return v.Identifier
}

func (l *IntLiteral) Type() Type {
	return Integer
}

func (l *IntLiteral) ErrorToken() token.Token {
	return l.Token
}

func (l *StringLiteral) Type() Type {
	return String
}

func (l *StringLiteral) ErrorToken() token.Token {
	return l.Token
}
