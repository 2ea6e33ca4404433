package parser

import (
	"fmt"
	"strconv"

	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/ast"
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/token"
)

// Error is a syntax error at a source position. Found is the token that
// violated the grammar.
type Error struct {
	Pos     token.Pos
	Found   token.TokenType
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("syntax error: %d:%d: %s (found %s)",
		e.Pos.Line, e.Pos.Column, e.Message, e.Found)
}

type parser struct {
	tokens  []token.Token
	current int
}

// Parse builds the program AST from a token sequence by recursive descent.
// Parsing is fail-fast: the first grammar violation aborts with an *Error
// and no recovery is attempted. A top-level `end` keyword terminates the
// program like EOF does.
func Parse(tokens []token.Token) (program *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if perr, ok := r.(*Error); ok {
				program, err = nil, perr
			} else {
				panic(r)
			}
		}
	}()

	p := parser{tokens: tokens}

	statements := []ast.Statement{}
	for p.peek(0).Type != token.EOF && p.peek(0).Type != token.END {
		statements = append(statements, p.parseStatement())
	}

	return &ast.Program{Statements: statements}, nil
}

func (p *parser) parseError(t token.Token, message string) {
	panic(&Error{Pos: t.Pos, Found: t.Type, Message: message})
}

func (p *parser) peek(distance int) token.Token {
	if p.current+distance >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.current+distance]
}

func (p *parser) expect(typ token.TokenType, message string) token.Token {
	if p.peek(0).Type != typ {
		p.parseError(p.peek(0), message)
	}

	p.current++
	return p.peek(-1)
}

func (p *parser) parseStatement() ast.Statement {
	t := p.peek(0)

	switch {
	case t.Type == token.VAR:
		return p.parseDeclaration()
	case t.Type == token.PRINT:
		return p.parsePrint()
	case t.Type == token.IF:
		return p.parseIf()
	case t.Type == token.WHILE:
		return p.parseWhile()
	case t.Type == token.FOR:
		return p.parseFor()
	case t.Type.IsPatternKeyword():
		return p.parsePattern()
	case t.Type == token.IDENTIFIER:
		stmt := p.parseAssignment()
		p.expect(token.SEMICOLON, "Expect `;` after assignment.")
		return stmt
	}

	p.parseError(t, "Expect statement.")
	return nil
}

func (p *parser) parseDeclaration() ast.Statement {
	varToken := p.expect(token.VAR, "Expect `var`.")
	name := p.expect(token.IDENTIFIER, "Expect variable name after `var`.")
	p.expect(token.EQUAL, "Expect `=` after variable name.")
	value := p.parseExpression()
	p.expect(token.SEMICOLON, "Expect `;` after declaration.")

	return &ast.VariableDeclaration{
		Identifier: name,
		Value:      value,
		VarToken:   varToken,
	}
}

// parseAssignment parses `identifier = expression` without the trailing
// semicolon, since for-loop headers reuse the same shape.
func (p *parser) parseAssignment() *ast.AssignStatement {
	name := p.expect(token.IDENTIFIER, "Expect variable name.")
	p.expect(token.EQUAL, "Expect `=` after variable name.")
	value := p.parseExpression()

	return &ast.AssignStatement{
		Identifier: name,
		Value:      value,
	}
}

func (p *parser) parsePrint() ast.Statement {
	printToken := p.expect(token.PRINT, "Expect `print`.")
	value := p.parseExpression()
	p.expect(token.SEMICOLON, "Expect `;` after print statement.")

	return &ast.PrintStatement{
		Expression: value,
		PrintToken: printToken,
	}
}

func (p *parser) parseIf() ast.Statement {
	ifToken := p.expect(token.IF, "Expect `if`.")
	p.expect(token.LEFT_PAREN, "Expect `(` after `if`.")
	condition := p.parseExpression()
	p.expect(token.RIGHT_PAREN, "Expect `)` after condition.")

	ifBlock := p.parseBlock()

	var elseBlock *ast.BlockStatement
	if p.peek(0).Type == token.ELSE {
		p.current++
		block := p.parseBlock()
		elseBlock = &block
	}

	return &ast.IfStatement{
		Condition: condition,
		IfBlock:   ifBlock,
		ElseBlock: elseBlock,
		IfToken:   ifToken,
	}
}

func (p *parser) parseWhile() ast.Statement {
	whileToken := p.expect(token.WHILE, "Expect `while`.")
	p.expect(token.LEFT_PAREN, "Expect `(` after `while`.")
	condition := p.parseExpression()
	p.expect(token.RIGHT_PAREN, "Expect `)` after condition.")

	return &ast.WhileStatement{
		Condition:  condition,
		Block:      p.parseBlock(),
		WhileToken: whileToken,
	}
}

func (p *parser) parseFor() ast.Statement {
	forToken := p.expect(token.FOR, "Expect `for`.")
	p.expect(token.LEFT_PAREN, "Expect `(` after `for`.")

	init := p.parseAssignment()
	p.expect(token.SEMICOLON, "Expect `;` after loop initializer.")
	condition := p.parseExpression()
	p.expect(token.SEMICOLON, "Expect `;` after loop condition.")
	update := p.parseAssignment()
	p.expect(token.RIGHT_PAREN, "Expect `)` after loop update.")

	return &ast.ForStatement{
		Init:      *init,
		Condition: condition,
		Update:    *update,
		Block:     p.parseBlock(),
		ForToken:  forToken,
	}
}

// parsePattern parses `fibonacci(target, args...)` and the other two
// builtins. The argument count is not checked here, arity is a semantic
// rule.
func (p *parser) parsePattern() ast.Statement {
	keyword := p.peek(0)
	p.current++

	p.expect(token.LEFT_PAREN, "Expect `(` after `"+keyword.Lexeme+"`.")
	target := p.expect(token.IDENTIFIER, "Expect target variable name.")
	p.expect(token.COMMA, "Expect `,` after target variable.")

	arguments := []ast.Expression{p.parseExpression()}
	for p.peek(0).Type == token.COMMA {
		p.current++
		arguments = append(arguments, p.parseExpression())
	}

	p.expect(token.RIGHT_PAREN, "Expect `)` after arguments.")
	p.expect(token.SEMICOLON, "Expect `;` after pattern statement.")

	return &ast.PatternStatement{
		Kind:         keyword.Type,
		Target:       target,
		Arguments:    arguments,
		KeywordToken: keyword,
	}
}

func (p *parser) parseBlock() ast.BlockStatement {
	p.expect(token.LEFT_BRACE, "Expect `{`.")

	statements := []ast.Statement{}
	for p.peek(0).Type != token.RIGHT_BRACE {
		if p.peek(0).Type == token.EOF {
			p.parseError(p.peek(0), "Expect `}` to close block.")
		}
		statements = append(statements, p.parseStatement())
	}

	p.expect(token.RIGHT_BRACE, "Expect `}` after block.")
	return ast.BlockStatement{Statements: statements}
}

func (p *parser) parseExpression() ast.Expression {
	return p.parseEquality()
}

func (p *parser) parseEquality() ast.Expression {
	left := p.parseRelational()

	for p.peek(0).Type == token.EQUAL_EQUAL || p.peek(0).Type == token.BANG_EQUAL {
		operator := p.peek(0)
		p.current++
		right := p.parseRelational()
		left = &ast.BinaryExpression{Left: left, Operator: operator, Right: right}
	}

	return left
}

func (p *parser) parseRelational() ast.Expression {
	left := p.parseAdditive()

	for p.peek(0).Type == token.LESSER || p.peek(0).Type == token.GREATER ||
		p.peek(0).Type == token.LESSER_EQUAL || p.peek(0).Type == token.GREATER_EQUAL {
		operator := p.peek(0)
		p.current++
		right := p.parseAdditive()
		left = &ast.BinaryExpression{Left: left, Operator: operator, Right: right}
	}

	return left
}

func (p *parser) parseAdditive() ast.Expression {
	left := p.parseMultiplicative()

	for p.peek(0).Type == token.PLUS || p.peek(0).Type == token.MINUS {
		operator := p.peek(0)
		p.current++
		right := p.parseMultiplicative()
		left = &ast.BinaryExpression{Left: left, Operator: operator, Right: right}
	}

	return left
}

func (p *parser) parseMultiplicative() ast.Expression {
	left := p.parseUnary()

	for p.peek(0).Type == token.STAR || p.peek(0).Type == token.SLASH ||
		p.peek(0).Type == token.PERCENT {
		operator := p.peek(0)
		p.current++
		right := p.parseUnary()
		left = &ast.BinaryExpression{Left: left, Operator: operator, Right: right}
	}

	return left
}

func (p *parser) parseUnary() ast.Expression {
	if p.peek(0).Type == token.MINUS {
		operator := p.peek(0)
		p.current++
		return &ast.UnaryExpression{Operator: operator, Value: p.parseUnary()}
	}

	return p.parsePrimary()
}

func (p *parser) parsePrimary() ast.Expression {
	t := p.peek(0)

	switch t.Type {
	case token.INT:
		p.current++
		value, err := strconv.ParseInt(t.Lexeme, 10, 64)
		if err != nil {
			p.parseError(t, "Integer literal out of range.")
		}
		return &ast.IntLiteral{Token: t, Value: value}
	case token.STRING:
		p.current++
		return &ast.StringLiteral{Token: t, Value: t.Lexeme}
	case token.IDENTIFIER:
		p.current++
		return &ast.VariableExpression{Identifier: t}
	case token.LEFT_PAREN:
		p.current++
		expression := p.parseExpression()
		p.expect(token.RIGHT_PAREN, "Expect `)` after expression.")
		return expression
	}

	p.parseError(t, "Expect expression.")
	return nil
}
