package css

// CodeUnit is a single unit of text as the host supplies it: a UTF-8 byte or
// a UTF-16 code unit. Every function in this package is written once for
// both widths.
type CodeUnit interface {
	~uint8 | ~uint16
}

// Category is the syntactic class of a code unit. Codes below 0x80 that have
// no special class map to themselves, so a Category can be compared against
// ASCII punctuation directly.
type Category uint16

const (
	CategoryEOF          Category = 0x80
	CategoryWhiteSpace   Category = 0x82
	CategoryDigit        Category = 0x83
	CategoryNameStart    Category = 0x84
	CategoryNonPrintable Category = 0x85
)

var categories [0x80]Category

func init() {
	for i := range categories {
		code := uint8(i)
		switch {
		case code == 0:
			categories[i] = CategoryEOF
		case IsWhiteSpace(code):
			categories[i] = CategoryWhiteSpace
		case IsDigit(code):
			categories[i] = CategoryDigit
		case IsNameStart(code):
			categories[i] = CategoryNameStart
		case IsNonPrintable(code):
			categories[i] = CategoryNonPrintable
		default:
			categories[i] = Category(code)
		}
	}
}

// Classify returns category of the code unit. Anything outside of ASCII is a
// name start.
func Classify[U CodeUnit](code U) Category {
	if code >= 0x80 {
		return CategoryNameStart
	}
	return categories[uint32(code)]
}

// at returns code unit at index i or 0 (EOF) when i is out of range.
func at[U CodeUnit](src []U, i int) U {
	if i >= 0 && i < len(src) {
		return src[i]
	}
	return 0
}

// §4.2 Definitions

func IsDigit[U CodeUnit](c U) bool {
	return c >= '0' && c <= '9'
}

func IsHexDigit[U CodeUnit](c U) bool {
	return IsDigit(c) || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}

func IsUppercaseLetter[U CodeUnit](c U) bool {
	return c >= 'A' && c <= 'Z'
}

func IsLowercaseLetter[U CodeUnit](c U) bool {
	return c >= 'a' && c <= 'z'
}

func IsLetter[U CodeUnit](c U) bool {
	return IsUppercaseLetter(c) || IsLowercaseLetter(c)
}

func IsNonASCII[U CodeUnit](c U) bool {
	return c >= 0x80
}

func IsNameStart[U CodeUnit](c U) bool {
	return IsLetter(c) || IsNonASCII(c) || c == '_'
}

func IsName[U CodeUnit](c U) bool {
	return IsNameStart(c) || IsDigit(c) || c == '-'
}

func IsNonPrintable[U CodeUnit](c U) bool {
	return c <= 0x08 || c == 0x0B || (c >= 0x0E && c <= 0x1F) || c == 0x7F
}

func IsNewline[U CodeUnit](c U) bool {
	return c == '\n' || c == '\r' || c == '\f'
}

func IsWhiteSpace[U CodeUnit](c U) bool {
	return IsNewline(c) || c == '\t' || c == ' '
}

// IsValidEscape checks if two code units are a valid escape. Second unit
// being 0 means end of input.
func IsValidEscape[U CodeUnit](first, second U) bool {
	return first == '\\' && !IsNewline(second) && second != 0
}

// IsIdentifierStart checks if three code units would start an identifier.
func IsIdentifierStart[U CodeUnit](first, second, third U) bool {
	switch {
	case first == '-':
		return IsNameStart(second) || second == '-' || IsValidEscape(second, third)
	case IsNameStart(first):
		return true
	case first == '\\':
		return IsValidEscape(first, second)
	}
	return false
}

// IsNumberStart checks if three code units would start a number.
func IsNumberStart[U CodeUnit](first, second, third U) bool {
	switch {
	case first == '+' || first == '-':
		if IsDigit(second) {
			return true
		}
		return second == '.' && IsDigit(third)
	case first == '.':
		return IsDigit(second)
	}
	return IsDigit(first)
}

// BOMLength returns number of code units taken by byte order mark at the
// start of src, 0 when there is none.
func BOMLength[U CodeUnit](src []U) int {
	if len(src) == 0 {
		return 0
	}
	if uint32(^U(0)) > 0xFF {
		// UTF-16: either byte order.
		if first := uint32(src[0]); first == 0xFEFF || first == 0xFFFE {
			return 1
		}
		return 0
	}
	if len(src) >= 3 && uint32(src[0]) == 0xEF && uint32(src[1]) == 0xBB && uint32(src[2]) == 0xBF {
		return 3
	}
	return 0
}

// newlineLength returns 2 for CR LF pair starting at i, 1 otherwise.
func newlineLength[U CodeUnit](src []U, i int, code U) int {
	if code == '\r' && at(src, i+1) == '\n' {
		return 2
	}
	return 1
}

// equalFold reports whether src[start:end] equals ref ignoring ASCII case.
// ref must be lowercase.
func equalFold[U CodeUnit](src []U, start, end int, ref string) bool {
	if end-start != len(ref) {
		return false
	}
	for i := 0; i < len(ref); i++ {
		c := src[start+i]
		if IsUppercaseLetter(c) {
			c |= 0x20
		}
		if uint32(c) != uint32(ref[i]) {
			return false
		}
	}
	return true
}

// unitFold reports whether code unit at i equals lowercase ref ignoring case.
func unitFold[U CodeUnit](src []U, i int, ref byte) bool {
	if i >= len(src) {
		return false
	}
	c := src[i]
	if IsUppercaseLetter(c) {
		c |= 0x20
	}
	return uint32(c) == uint32(ref)
}

func whiteSpaceEnd[U CodeUnit](src []U, offset int) int {
	for offset < len(src) && IsWhiteSpace(src[offset]) {
		offset++
	}
	return offset
}

func decimalEnd[U CodeUnit](src []U, offset int) int {
	for offset < len(src) && IsDigit(src[offset]) {
		offset++
	}
	return offset
}
