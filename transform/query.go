package transform

import (
	"wst/css"
)

// pair is a rewritten property. Its value is either a constant or a span of
// the declaration value it was produced from.
type pair struct {
	name       string
	value      string
	start, end int
	span       bool
}

func constants(dst []pair, props []Property) []pair {
	for _, p := range props {
		dst = append(dst, pair{name: p.Name, value: p.Value})
	}
	return dst
}

func spanned(name string, start, end int) pair {
	return pair{name: name, start: start, end: end, span: true}
}

// Longest rule key is well below that.
const maxKeyLength = 32

// asciiKey copies s into buf so it could be used for map lookups. Anything
// outside of ASCII never matches a rule.
func asciiKey[U css.CodeUnit](s []U, buf *[maxKeyLength]byte) ([]byte, bool) {
	if len(s) > len(buf) {
		return nil, false
	}
	for i, c := range s {
		if c >= 0x80 {
			return nil, false
		}
		buf[i] = byte(c)
	}
	return buf[:len(s)], true
}

func equalASCII[U css.CodeUnit](s []U, ref string) bool {
	if len(s) != len(ref) {
		return false
	}
	for i := range s {
		if uint32(s[i]) != uint32(ref[i]) {
			return false
		}
	}
	return true
}

func hasPrefixASCII[U css.CodeUnit](s []U, prefix string) bool {
	return len(s) >= len(prefix) && equalASCII(s[:len(prefix)], prefix)
}

func digitsOnly[U css.CodeUnit](s []U) bool {
	for _, c := range s {
		if !css.IsDigit(c) {
			return false
		}
	}
	return true
}

// query evaluates rules for a single declaration, appending results to
// primary and children. Spans in returned pairs are relative to value.
func query[U css.CodeUnit](name, value []U, primary, children []pair) ([]pair, []pair) {
	var nameBuf, valueBuf [maxKeyLength]byte

	nameKey, ascii := asciiKey(name, &nameBuf)
	if !ascii {
		return primary, children
	}

	if renamed, ok := renameRules[string(nameKey)]; ok {
		primary = append(primary, spanned(renamed, 0, len(value)))
	} else if props, ok := lookupReplace(nameKey, value, &valueBuf); ok {
		primary = constants(primary, props)
	} else if equalASCII(name, "color") {
		if hasPrefixASCII(value, "linear-gradient") {
			primary = constants(primary, colorForGradient)
			primary = append(primary, spanned(textBgColor, 0, len(value)))
		} else {
			primary = constants(primary, colorForNormal)
			primary = append(primary, spanned("color", 0, len(value)))
		}
	} else if equalASCII(name, "flex") {
		primary = flex(value, primary)
	}

	if equalASCII(name, "linear-weight-sum") {
		children = append(children, spanned(linearWeightSum, 0, len(value)))
	}
	if equalASCII(name, "linear-weight") && !equalASCII(value, "0") {
		primary = append(primary, pair{name: linearWeightBasis, value: "0"})
	}
	return primary, children
}

func lookupReplace[U css.CodeUnit](nameKey []byte, value []U, buf *[maxKeyLength]byte) ([]Property, bool) {
	values, ok := replaceRules[string(nameKey)]
	if !ok {
		return nil, false
	}
	valueKey, ascii := asciiKey(value, buf)
	if !ascii {
		return nil, false
	}
	props, ok := values[string(valueKey)]
	return props, ok
}

// flex expands shorthand into grow, shrink and basis. Up to 3 whitespace
// separated fields are used, the rest is ignored.
func flex[U css.CodeUnit](value []U, primary []pair) []pair {
	// Even entries are field starts, odd are field ends.
	var fields [6]int
	for i := range fields {
		fields[i] = len(value)
	}
	n := 0
	for i := 0; i < len(value) && n < len(fields); i++ {
		if (n%2 == 0) != css.IsWhiteSpace(value[i]) {
			fields[n] = i
			n++
		}
	}

	switch (n + 1) / 2 {
	case 1:
		first := value[fields[0]:fields[1]]
		switch {
		case equalASCII(first, "none"):
			primary = constants(primary, flexNone)
		case equalASCII(first, "auto"):
			primary = constants(primary, flexAuto)
		case digitsOnly(first):
			primary = append(primary,
				spanned(flexGrow, fields[0], fields[1]),
				pair{name: flexShrink, value: "1"},
				pair{name: flexBasis, value: "0%"})
		default:
			primary = append(primary,
				pair{name: flexGrow, value: "1"},
				pair{name: flexShrink, value: "1"},
				spanned(flexBasis, fields[0], fields[1]))
		}
	case 2:
		primary = append(primary, spanned(flexGrow, fields[0], fields[1]))
		if digitsOnly(value[fields[2]:fields[3]]) {
			primary = append(primary,
				spanned(flexShrink, fields[2], fields[3]),
				pair{name: flexBasis, value: "0%"})
		} else {
			primary = append(primary,
				pair{name: flexShrink, value: "1"},
				spanned(flexBasis, fields[2], fields[3]))
		}
	case 3:
		primary = append(primary,
			spanned(flexGrow, fields[0], fields[1]),
			spanned(flexShrink, fields[2], fields[3]),
			spanned(flexBasis, fields[4], fields[5]))
	}
	return primary
}

func properties(pairs []pair, value string) []Property {
	if len(pairs) == 0 {
		return nil
	}
	props := make([]Property, 0, len(pairs))
	for _, p := range pairs {
		v := p.value
		if p.span {
			v = value[p.start:p.end]
		}
		props = append(props, Property{Name: p.name, Value: v})
	}
	return props
}

// Query evaluates rewrite rules for already separated declaration name and
// value. Primary properties replace the declaration on the element itself,
// children properties are meant for its direct children.
func Query(name, value string) (primary, children []Property) {
	p, c := query([]byte(name), []byte(value), nil, nil)
	return properties(p, value), properties(c, value)
}
