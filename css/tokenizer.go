package css

// Tokenize splits src into tokens and hands them to sink left to right. It
// never fails: malformed strings and urls become BadString and BadURL tokens.
// Spans of consecutive tokens are adjacent and cover src after the byte order
// mark completely.
func Tokenize[U CodeUnit](src []U, sink TokenSink) {
	n := len(src)
	offset := BOMLength(src)

	for offset < n {
		start := offset
		code := src[offset]
		tt := DelimToken

		switch Classify(code) {
		case CategoryWhiteSpace:
			tt = WhitespaceToken
			offset = whiteSpaceEnd(src, offset+1)

		case '"', '\'':
			tt, offset = consumeString(src, offset)

		case '#':
			if IsName(at(src, offset+1)) || IsValidEscape(at(src, offset+1), at(src, offset+2)) {
				tt = HashToken
				offset = consumeName(src, offset+1)
			} else {
				offset++
			}

		case '(':
			tt = LeftParenthesisToken
			offset++

		case ')':
			tt = RightParenthesisToken
			offset++

		case '+', '.':
			if IsNumberStart(code, at(src, offset+1), at(src, offset+2)) {
				tt, offset = consumeNumeric(src, offset)
			} else {
				offset++
			}

		case ',':
			tt = CommaToken
			offset++

		case '-':
			switch {
			case IsNumberStart(code, at(src, offset+1), at(src, offset+2)):
				tt, offset = consumeNumeric(src, offset)
			case at(src, offset+1) == '-' && at(src, offset+2) == '>':
				tt = CDCToken
				offset += 3
			case IsIdentifierStart(code, at(src, offset+1), at(src, offset+2)):
				tt, offset = consumeIdentLike(src, offset)
			default:
				offset++
			}

		case '/':
			if at(src, offset+1) == '*' {
				tt = CommentToken
				offset = consumeComment(src, offset)
			} else {
				offset++
			}

		case ':':
			tt = ColonToken
			offset++

		case ';':
			tt = SemicolonToken
			offset++

		case '<':
			if at(src, offset+1) == '!' && at(src, offset+2) == '-' && at(src, offset+3) == '-' {
				tt = CDOToken
				offset += 4
			} else {
				offset++
			}

		case '@':
			if IsIdentifierStart(at(src, offset+1), at(src, offset+2), at(src, offset+3)) {
				tt = AtKeywordToken
				offset = consumeName(src, offset+1)
			} else {
				offset++
			}

		case '[':
			tt = LeftBracketToken
			offset++

		case '\\':
			if IsValidEscape(code, at(src, offset+1)) {
				tt, offset = consumeIdentLike(src, offset)
			} else {
				offset++
			}

		case ']':
			tt = RightBracketToken
			offset++

		case '{':
			tt = LeftBraceToken
			offset++

		case '}':
			tt = RightBraceToken
			offset++

		case CategoryDigit:
			tt, offset = consumeNumeric(src, offset)

		case CategoryNameStart:
			tt, offset = consumeIdentLike(src, offset)

		default:
			offset++
		}

		sink.OnToken(tt, start, offset)
	}
}

// Tokens collects all tokens of src.
func Tokens[U CodeUnit](src []U) []Token {
	var tokens []Token
	Tokenize(src, TokenSinkFunc(func(tt TokenType, start, end int) {
		tokens = append(tokens, Token{Type: tt, Start: start, End: end})
	}))
	return tokens
}

// §4.3.2 Consume comments. Unterminated comment runs to the end of input.
func consumeComment[U CodeUnit](src []U, offset int) int {
	for i := offset + 2; i < len(src)-1; i++ {
		if src[i] == '*' && src[i+1] == '/' {
			return i + 2
		}
	}
	return len(src)
}

// §4.3.3 Consume a numeric token
func consumeNumeric[U CodeUnit](src []U, offset int) (TokenType, int) {
	offset = consumeNumber(src, offset)

	if IsIdentifierStart(at(src, offset), at(src, offset+1), at(src, offset+2)) {
		return DimensionToken, consumeName(src, offset)
	}
	if at(src, offset) == '%' {
		return PercentageToken, offset + 1
	}
	return NumberToken, offset
}

// §4.3.4 Consume an ident-like token
func consumeIdentLike[U CodeUnit](src []U, offset int) (TokenType, int) {
	start := offset
	offset = consumeName(src, offset)

	if at(src, offset) != '(' {
		return IdentToken, offset
	}
	if !equalFold(src, start, offset, "url") {
		return FunctionToken, offset + 1
	}

	// Quoted url is a function followed by a string token.
	offset = whiteSpaceEnd(src, offset+1)
	if c := at(src, offset); c == '"' || c == '\'' {
		return FunctionToken, start + 4
	}
	return consumeURL(src, offset)
}

// §4.3.5 Consume a string token. Opening quote is at offset.
func consumeString[U CodeUnit](src []U, offset int) (TokenType, int) {
	n := len(src)
	ending := src[offset]
	offset++

	for ; offset < n; offset++ {
		code := src[offset]
		switch {
		case code == ending:
			return StringToken, offset + 1

		case IsNewline(code):
			return BadStringToken, offset + newlineLength(src, offset, code)

		case code == '\\':
			if offset == n-1 {
				return StringToken, n
			}
			next := src[offset+1]
			if IsNewline(next) {
				// Line continuation.
				offset += newlineLength(src, offset+1, next)
			} else if IsValidEscape(code, next) {
				offset = consumeEscaped(src, offset) - 1
			}
		}
	}
	return StringToken, offset
}

// §4.3.6 Consume a url token. Leading whitespace after "url(" is already
// consumed.
func consumeURL[U CodeUnit](src []U, offset int) (TokenType, int) {
	n := len(src)
	offset = whiteSpaceEnd(src, offset)

	for offset < n {
		code := src[offset]
		switch Classify(code) {
		case ')':
			return URLToken, offset + 1

		case CategoryWhiteSpace:
			offset = whiteSpaceEnd(src, offset)
			if offset == n {
				return URLToken, offset
			}
			if src[offset] == ')' {
				return URLToken, offset + 1
			}
			return BadURLToken, consumeBadURLRemnants(src, offset)

		case '"', '\'', '(', CategoryNonPrintable:
			return BadURLToken, consumeBadURLRemnants(src, offset)

		case '\\':
			if IsValidEscape(code, at(src, offset+1)) {
				offset = consumeEscaped(src, offset)
				continue
			}
			return BadURLToken, consumeBadURLRemnants(src, offset)
		}
		offset++
	}
	return URLToken, offset
}

// §4.3.7 Consume an escaped code point. Offset points at backslash which is
// known to start a valid escape.
func consumeEscaped[U CodeUnit](src []U, offset int) int {
	offset += 2
	if IsHexDigit(at(src, offset-1)) {
		// Up to six hex digits, first one already consumed.
		limit := min(offset+5, len(src))
		for offset < limit && IsHexDigit(src[offset]) {
			offset++
		}
		if code := at(src, offset); IsWhiteSpace(code) {
			offset += newlineLength(src, offset, code)
		}
	}
	return offset
}

// §4.3.12 Consume a name
func consumeName[U CodeUnit](src []U, offset int) int {
	for offset < len(src) {
		code := src[offset]
		switch {
		case IsName(code):
			offset++
		case IsValidEscape(code, at(src, offset+1)):
			offset = consumeEscaped(src, offset)
		default:
			return offset
		}
	}
	return offset
}

// §4.3.13 Consume a number. Exponent is only taken when followed by a digit.
func consumeNumber[U CodeUnit](src []U, offset int) int {
	n := len(src)
	if offset >= n {
		return offset
	}

	if c := src[offset]; c == '+' || c == '-' {
		offset++
	}
	if IsDigit(at(src, offset)) {
		offset = decimalEnd(src, offset+1)
	}
	if at(src, offset) == '.' && IsDigit(at(src, offset+1)) {
		offset = decimalEnd(src, offset+2)
	}

	if unitFold(src, offset, 'e') {
		sign := 0
		if c := at(src, offset+1); c == '+' || c == '-' {
			sign = 1
		}
		if IsDigit(at(src, offset+1+sign)) {
			offset = decimalEnd(src, offset+2+sign)
		}
	}
	return offset
}

// §4.3.14 Consume the remnants of a bad url. Escaped ")" does not end it.
func consumeBadURLRemnants[U CodeUnit](src []U, offset int) int {
	for offset < len(src) {
		code := src[offset]
		if code == ')' {
			return offset + 1
		}
		if IsValidEscape(code, at(src, offset+1)) {
			offset = consumeEscaped(src, offset)
			continue
		}
		offset++
	}
	return offset
}
