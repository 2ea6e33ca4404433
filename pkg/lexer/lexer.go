package lexer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/c0nnectSaad/MicroCode-Compiler/pkg/token"
)

// Error is a lexical error at a source position.
type Error struct {
	Pos     token.Pos
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lexical error: %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

type lexer struct {
	source    string
	start     int
	current   int
	line      int
	lineBegin int
	tokens    []token.Token
}

// Lex scans source into a token sequence, always terminated by an EOF
// token. The scan fails on the first character that matches no token class
// and on unterminated string literals.
//
// Integer literals never include a sign: `-` always scans as MINUS and
// negation is handled by the parser as a unary expression.
func Lex(source string) ([]token.Token, error) {
	l := lexer{source: source, line: 1}

	for !l.isAtEnd() {
		// we are at the beginning of the next lexeme.
		l.start = l.current
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}

	l.addToken(token.EOF, "\x00")
	return l.tokens, nil
}

func (l *lexer) errorf(format string, args ...interface{}) error {
	return &Error{
		Pos:     token.Pos{Line: l.line, Column: l.current - l.lineBegin},
		Message: fmt.Sprintf(format, args...),
	}
}

func (l *lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l *lexer) advance() byte {
	l.current++
	return l.source[l.current-1]
}

func (l *lexer) match(c byte) bool {
	if l.isAtEnd() {
		return false
	} else if l.source[l.current] == c {
		l.current++
		return true
	} else {
		return false
	}
}

func (l *lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *lexer) addToken(typ token.TokenType, lexeme string) {
	if lexeme == "" {
		lexeme = l.source[l.start:l.current]
	}

	l.tokens = append(l.tokens, token.Token{
		Lexeme: lexeme,
		Type:   typ,
		Pos:    token.Pos{Line: l.line, Column: l.current - l.lineBegin},
	})
}

func isDigit(b byte) bool {
	return unicode.IsDigit(rune(b))
}

func isAlphaNumeric(b byte) bool {
	return unicode.IsDigit(rune(b)) || unicode.IsLetter(rune(b)) || b == '_'
}

func (l *lexer) lexString() error {
	for l.peek() != '"' && !l.isAtEnd() {
		if l.peek() == '\n' {
			l.line++
			l.lineBegin = l.current + 1
		}
		l.advance()
	}

	if l.isAtEnd() {
		return l.errorf("unterminated string literal")
	}

	l.advance()

	// The token's lexeme is the string's content, without the quotes. No
	// escape sequences are processed.
	value := l.source[l.start+1 : l.current-1]
	l.addToken(token.STRING, value)
	return nil
}

func (l *lexer) lexNumber() {
	for isDigit(l.peek()) {
		l.advance()
	}

	l.addToken(token.INT, "")
}

func (l *lexer) lexIdent() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}

	text := l.source[l.start:l.current]

	// Keywords are matched case-insensitively, after the full identifier
	// has been scanned.
	for i, kw := range token.Keywords {
		if strings.EqualFold(kw, text) {
			l.addToken(token.TokenType(int(token.KEYWORD_BEGIN)+i+1), text)
			return
		}
	}

	l.addToken(token.IDENTIFIER, text)
}

func (l *lexer) scanToken() error {
	c := l.advance()

	switch c {
	case '(':
		l.addToken(token.LEFT_PAREN, "")
	case ')':
		l.addToken(token.RIGHT_PAREN, "")
	case '{':
		l.addToken(token.LEFT_BRACE, "")
	case '}':
		l.addToken(token.RIGHT_BRACE, "")
	case ',':
		l.addToken(token.COMMA, "")
	case ';':
		l.addToken(token.SEMICOLON, "")
	case '+':
		l.addToken(token.PLUS, "")
	case '-':
		l.addToken(token.MINUS, "")
	case '*':
		l.addToken(token.STAR, "")
	case '%':
		l.addToken(token.PERCENT, "")
	case '!':
		if l.match('=') {
			l.addToken(token.BANG_EQUAL, "")
		} else {
			return l.errorf("unexpected character: %c", c)
		}
	case '<':
		if l.match('=') {
			l.addToken(token.LESSER_EQUAL, "")
		} else {
			l.addToken(token.LESSER, "")
		}
	case '>':
		if l.match('=') {
			l.addToken(token.GREATER_EQUAL, "")
		} else {
			l.addToken(token.GREATER, "")
		}
	case '=':
		if l.match('=') {
			l.addToken(token.EQUAL_EQUAL, "")
		} else {
			l.addToken(token.EQUAL, "")
		}
	case '/':
		if l.match('/') {
			// a comment goes until the end of the line.
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		} else {
			l.addToken(token.SLASH, "")
		}
	case ' ', '\r', '\t':
		// ignore whitespace.
	case '\n':
		l.line++
		l.lineBegin = l.current
	case '"':
		return l.lexString()
	default:
		if isDigit(c) {
			l.lexNumber()
		} else if unicode.IsLetter(rune(c)) {
			l.lexIdent()
		} else {
			return l.errorf("unexpected character: %c", c)
		}
	}

	return nil
}
