package css

import "fmt"

// TokenType is a stable token tag. Values are part of the external contract
// and must not be reordered.
type TokenType uint8

const (
	EOFToken TokenType = iota
	IdentToken
	FunctionToken
	AtKeywordToken
	HashToken
	StringToken
	BadStringToken
	URLToken
	BadURLToken
	DelimToken
	NumberToken
	PercentageToken
	DimensionToken
	WhitespaceToken
	CDOToken
	CDCToken
	ColonToken
	SemicolonToken
	CommaToken
	LeftBracketToken
	RightBracketToken
	LeftParenthesisToken
	RightParenthesisToken
	LeftBraceToken
	RightBraceToken
	CommentToken
)

var tokenNames = [...]string{
	EOFToken:              "EOF",
	IdentToken:            "Ident",
	FunctionToken:         "Function",
	AtKeywordToken:        "AtKeyword",
	HashToken:             "Hash",
	StringToken:           "String",
	BadStringToken:        "BadString",
	URLToken:              "URL",
	BadURLToken:           "BadURL",
	DelimToken:            "Delim",
	NumberToken:           "Number",
	PercentageToken:       "Percentage",
	DimensionToken:        "Dimension",
	WhitespaceToken:       "Whitespace",
	CDOToken:              "CDO",
	CDCToken:              "CDC",
	ColonToken:            "Colon",
	SemicolonToken:        "Semicolon",
	CommaToken:            "Comma",
	LeftBracketToken:      "LeftBracket",
	RightBracketToken:     "RightBracket",
	LeftParenthesisToken:  "LeftParenthesis",
	RightParenthesisToken: "RightParenthesis",
	LeftBraceToken:        "LeftBrace",
	RightBraceToken:       "RightBrace",
	CommentToken:          "Comment",
}

func (tt TokenType) String() string {
	if int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", uint8(tt))
}

// Token is a typed view into the tokenized buffer. It never owns text.
type Token struct {
	Type  TokenType
	Start int
	End   int
}

// Text returns token's code units, sharing memory with src.
func Text[U CodeUnit](src []U, t Token) []U {
	return src[t.Start:t.End]
}

// TokenSink receives tokens in input order.
type TokenSink interface {
	OnToken(tt TokenType, start, end int)
}

// TokenSinkFunc is an adapter to use ordinary function as TokenSink.
type TokenSinkFunc func(tt TokenType, start, end int)

func (f TokenSinkFunc) OnToken(tt TokenType, start, end int) {
	f(tt, start, end)
}
