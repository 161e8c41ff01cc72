package css

// Declaration is a recognized "name: value [!important]" unit. Offsets point
// into the parsed buffer; value excludes trailing whitespace and the
// important marker.
type Declaration struct {
	NameStart  int
	NameEnd    int
	ValueStart int
	ValueEnd   int
	Important  bool
}

// Name returns declaration name, sharing memory with src.
func (d Declaration) Name(src []byte) []byte {
	return src[d.NameStart:d.NameEnd]
}

// Value returns declaration value, sharing memory with src.
func (d Declaration) Value(src []byte) []byte {
	return src[d.ValueStart:d.ValueEnd]
}

// DeclarationSink receives declarations in input order.
type DeclarationSink interface {
	OnDeclaration(d Declaration)
}

// DeclarationSinkFunc is an adapter to use ordinary function as
// DeclarationSink.
type DeclarationSinkFunc func(d Declaration)

func (f DeclarationSinkFunc) OnDeclaration(d Declaration) {
	f(d)
}

type parserState uint8

const (
	seekingName parserState = iota
	seekingColon
	seekingValue
	inValue
)

// declarationParser is a token sink recognizing flat declaration lists.
// Anything it cannot make sense of is skipped until the next identifier.
type declarationParser[U CodeUnit] struct {
	src  []U
	sink DeclarationSink

	state parserState
	prev  TokenType
	decl  Declaration
	// valueEnd < 0 until a token after the first value token extends it.
	valueEnd int
}

func (p *declarationParser[U]) reset() {
	p.state = seekingName
	p.decl = Declaration{}
	p.valueEnd = -1
}

func opensBlock(tt TokenType) bool {
	return tt == LeftBraceToken || tt == LeftParenthesisToken || tt == LeftBracketToken
}

func (p *declarationParser[U]) OnToken(tt TokenType, start, end int) {
	switch {
	case tt == IdentToken && p.state == seekingName:
		p.decl.NameStart, p.decl.NameEnd = start, end
		p.state = seekingColon

	case tt == WhitespaceToken && (p.state == seekingColon || p.state == seekingValue):
		// insignificant

	case tt == ColonToken && p.state == seekingColon:
		p.state = seekingValue

	case p.state == seekingValue && !opensBlock(tt) && tt != SemicolonToken && tt != WhitespaceToken:
		p.decl.ValueStart = start
		p.state = inValue

	case tt == SemicolonToken && p.state == inValue:
		if p.valueEnd < 0 {
			p.valueEnd = start
		}
		for p.valueEnd > p.decl.ValueStart && IsWhiteSpace(p.src[p.valueEnd-1]) {
			p.valueEnd--
		}
		p.decl.ValueEnd = p.valueEnd
		p.sink.OnDeclaration(p.decl)
		p.reset()

	case p.state == inValue && p.prev == DelimToken && equalFold(p.src, start, end, "important"):
		// "!important", value ends before the marker.
		p.decl.Important = true
		p.valueEnd = start - 1

	case p.state == inValue && !opensBlock(tt):
		if tt != WhitespaceToken {
			p.valueEnd = end
		}

	case p.state != seekingName:
		p.reset()
	}
	p.prev = tt
}

// ParseDeclarations parses flat declaration list in src and hands every
// complete declaration to sink. Last declaration does not need a semicolon.
func ParseDeclarations[U CodeUnit](src []U, sink DeclarationSink) {
	p := &declarationParser[U]{src: src, sink: sink, prev: WhitespaceToken, valueEnd: -1}
	Tokenize(src, p)
	if p.prev != SemicolonToken {
		p.OnToken(SemicolonToken, len(src), len(src))
	}
}

// Declarations collects all declarations of src.
func Declarations[U CodeUnit](src []U) []Declaration {
	var decls []Declaration
	ParseDeclarations(src, DeclarationSinkFunc(func(d Declaration) {
		decls = append(decls, d)
	}))
	return decls
}
