// Package gen lowers the analyzed AST to three-address code.
package gen

import (
	"fmt"
	"strconv"

	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/ast"
	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/tac"
)

type generator struct {
	instructions []tac.Instruction
	tempCount    int
	labelCount   int
}

// Generate lowers a program that has passed semantic analysis. It is
// total: malformed input here is a bug in an earlier phase, not a user
// error. Temporaries and labels are numbered from zero on every call.
func Generate(program *ast.Program) []tac.Instruction {
	g := generator{}

	for _, statement := range program.Statements {
		g.genStatement(statement)
	}

	return g.instructions
}

func (g *generator) newTemp() tac.Name {
	temp := tac.Name("t" + strconv.Itoa(g.tempCount))
	g.tempCount++
	return temp
}

func (g *generator) newLabel() string {
	label := "L" + strconv.Itoa(g.labelCount)
	g.labelCount++
	return label
}

func (g *generator) emit(instruction tac.Instruction) {
	g.instructions = append(g.instructions, instruction)
}

func (g *generator) genStatement(statement ast.Statement) {
	switch s := statement.(type) {
	case *ast.VariableDeclaration:
		src := g.genExpression(s.Value)
		g.emit(&tac.Copy{Dst: tac.Name(s.Identifier.Lexeme), Src: src})
	case *ast.AssignStatement:
		src := g.genExpression(s.Value)
		g.emit(&tac.Copy{Dst: tac.Name(s.Identifier.Lexeme), Src: src})
	case *ast.PrintStatement:
		g.emit(&tac.Print{Src: g.genExpression(s.Expression)})
	case *ast.IfStatement:
		g.genIf(s)
	case *ast.WhileStatement:
		g.genWhile(s)
	case *ast.ForStatement:
		g.genFor(s)
	case *ast.PatternStatement:
		args := make([]tac.Operand, len(s.Arguments))
		for i, argument := range s.Arguments {
			args[i] = g.genExpression(argument)
		}
		g.emit(&tac.PatternCall{
			Kind: s.Kind,
			Dst:  tac.Name(s.Target.Lexeme),
			Args: args,
		})
	case *ast.BlockStatement:
		g.genBlock(*s)
	default:
		panic(fmt.Sprintf("unknown statement type: %T", statement))
	}
}

func (g *generator) genBlock(block ast.BlockStatement) {
	for _, statement := range block.Statements {
		g.genStatement(statement)
	}
}

func (g *generator) genIf(s *ast.IfStatement) {
	cond := g.genExpression(s.Condition)

	if s.ElseBlock == nil {
		endLabel := g.newLabel()
		g.emit(&tac.IfFalseGoto{Cond: cond, Label: endLabel})
		g.genBlock(s.IfBlock)
		g.emit(&tac.Label{Name: endLabel})
		return
	}

	elseLabel := g.newLabel()
	endLabel := g.newLabel()

	g.emit(&tac.IfFalseGoto{Cond: cond, Label: elseLabel})
	g.genBlock(s.IfBlock)
	g.emit(&tac.Goto{Label: endLabel})
	g.emit(&tac.Label{Name: elseLabel})
	g.genBlock(*s.ElseBlock)
	g.emit(&tac.Label{Name: endLabel})
}

func (g *generator) genWhile(s *ast.WhileStatement) {
	topLabel := g.newLabel()
	endLabel := g.newLabel()

	g.emit(&tac.Label{Name: topLabel})
	cond := g.genExpression(s.Condition)
	g.emit(&tac.IfFalseGoto{Cond: cond, Label: endLabel})
	g.genBlock(s.Block)
	g.emit(&tac.Goto{Label: topLabel})
	g.emit(&tac.Label{Name: endLabel})
}

func (g *generator) genFor(s *ast.ForStatement) {
	topLabel := g.newLabel()
	endLabel := g.newLabel()

	init := g.genExpression(s.Init.Value)
	g.emit(&tac.Copy{Dst: tac.Name(s.Init.Identifier.Lexeme), Src: init})

	g.emit(&tac.Label{Name: topLabel})
	cond := g.genExpression(s.Condition)
	g.emit(&tac.IfFalseGoto{Cond: cond, Label: endLabel})
	g.genBlock(s.Block)

	update := g.genExpression(s.Update.Value)
	g.emit(&tac.Copy{Dst: tac.Name(s.Update.Identifier.Lexeme), Src: update})
	g.emit(&tac.Goto{Label: topLabel})
	g.emit(&tac.Label{Name: endLabel})
}

func (g *generator) genExpression(expression ast.Expression) tac.Operand {
	switch e := expression.(type) {
	case *ast.IntLiteral:
		return tac.Int(e.Value)
	case *ast.StringLiteral:
		return tac.Str(e.Value)
	case *ast.VariableExpression:
		return tac.Name(e.Identifier.Lexeme)
	case *ast.UnaryExpression:
		src := g.genExpression(e.Value)
		temp := g.newTemp()
		g.emit(&tac.UnaryMinus{Dst: temp, Src: src})
		return temp
	case *ast.BinaryExpression:
		left := g.genExpression(e.Left)
		right := g.genExpression(e.Right)
		temp := g.newTemp()
		g.emit(&tac.BinOp{Dst: temp, Op: e.Operator.Type, Left: left, Right: right})
		return temp
	}

	panic(fmt.Sprintf("unknown expression type: %T", expression))
}
