package token

type TokenType int

const (
	STRING TokenType = iota
	INT
	IDENTIFIER
	EOF

	KEYWORD_BEGIN
	VAR
	PRINT
	IF
	ELSE
	WHILE
	FOR
	FIBONACCI
	FACTORIAL
	SEQUENCE
	END
	KEYWORD_END

	LEFT_PAREN
	RIGHT_PAREN
	LEFT_BRACE
	RIGHT_BRACE
	COMMA
	SEMICOLON

	binaryop_begin
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT

	comparison_begin
	EQUAL_EQUAL
	BANG_EQUAL
	LESSER
	GREATER
	LESSER_EQUAL
	GREATER_EQUAL
	comparison_end
	binaryop_end

	EQUAL
)

func (t TokenType) IsBinaryOperator() bool {
	return t > binaryop_begin && t < binaryop_end &&
		t != comparison_begin && t != comparison_end
}

func (t TokenType) IsComparativeOperator() bool {
	return t > comparison_begin && t < comparison_end
}

func (t TokenType) IsPatternKeyword() bool {
	return t == FIBONACCI || t == FACTORIAL || t == SEQUENCE
}

func (t TokenType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

var typeNames = map[TokenType]string{
	STRING:        "STRING",
	INT:           "INT",
	IDENTIFIER:    "IDENTIFIER",
	EOF:           "EOF",
	VAR:           "VAR",
	PRINT:         "PRINT",
	IF:            "IF",
	ELSE:          "ELSE",
	WHILE:         "WHILE",
	FOR:           "FOR",
	FIBONACCI:     "FIBONACCI",
	FACTORIAL:     "FACTORIAL",
	SEQUENCE:      "SEQUENCE",
	END:           "END",
	LEFT_PAREN:    "LEFT_PAREN",
	RIGHT_PAREN:   "RIGHT_PAREN",
	LEFT_BRACE:    "LEFT_BRACE",
	RIGHT_BRACE:   "RIGHT_BRACE",
	COMMA:         "COMMA",
	SEMICOLON:     "SEMICOLON",
	PLUS:          "PLUS",
	MINUS:         "MINUS",
	STAR:          "STAR",
	SLASH:         "SLASH",
	PERCENT:       "PERCENT",
	EQUAL_EQUAL:   "EQUAL_EQUAL",
	BANG_EQUAL:    "BANG_EQUAL",
	LESSER:        "LESSER",
	GREATER:       "GREATER",
	LESSER_EQUAL:  "LESSER_EQUAL",
	GREATER_EQUAL: "GREATER_EQUAL",
	EQUAL:         "EQUAL",
}

type Token struct {
	Lexeme string
	Type   TokenType
	Pos    Pos
}

type Pos struct {
	Line   int
	Column int
}

var Keywords = [...]string{
	"var",
	"print",
	"if",
	"else",
	"while",
	"for",
	"fibonacci",
	"factorial",
	"sequence",
	"end",
}
