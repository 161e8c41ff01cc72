// Package transform rewrites Lynx dialect inline styles into declarations
// understood by web browsers.
package transform

import (
	"time"
	"unicode/utf16"

	"go.uber.org/zap"

	"wst/css"
)

// driver is a declaration sink which assembles rewritten text. Text between
// rewritten declarations is copied verbatim.
type driver[U css.CodeUnit] struct {
	src      []U
	styles   []U
	children []U
	// end of the last rewritten declaration value
	offset int

	primary, extra []pair
	trace          func(d css.Declaration, primary, children []pair)
}

func (t *driver[U]) OnDeclaration(d css.Declaration) {
	name := t.src[d.NameStart:d.NameEnd]
	value := t.src[d.ValueStart:d.ValueEnd]

	t.primary, t.extra = query(name, value, t.primary[:0], t.extra[:0])
	if t.trace != nil && (len(t.primary) > 0 || len(t.extra) > 0) {
		t.trace(d, t.primary, t.extra)
	}

	if len(t.primary) > 0 {
		t.styles = append(t.styles, t.src[t.offset:d.NameStart]...)
		// Original terminator and importance marker of the last pair come
		// with the next verbatim copy.
		t.styles = appendPairs(t.styles, value, t.primary, d.Important, false)
		t.offset = d.ValueEnd
	}
	if len(t.extra) > 0 {
		t.children = appendPairs(t.children, value, t.extra, d.Important, true)
	}
}

func appendString[U css.CodeUnit](dst []U, s string) []U {
	for i := 0; i < len(s); i++ {
		dst = append(dst, U(s[i]))
	}
	return dst
}

func appendPairs[U css.CodeUnit](dst, value []U, pairs []pair, important, terminateLast bool) []U {
	for i, p := range pairs {
		dst = appendString(dst, p.name)
		dst = append(dst, ':')
		if p.span {
			dst = append(dst, value[p.start:p.end]...)
		} else {
			dst = appendString(dst, p.value)
		}
		if terminateLast || i < len(pairs)-1 {
			if important {
				dst = appendString(dst, importantSuffix)
			}
			dst = append(dst, ';')
		}
	}
	return dst
}

func run[U css.CodeUnit](t *driver[U]) ([]U, []U) {
	css.ParseDeclarations(t.src, t)
	if t.offset != 0 {
		t.styles = append(t.styles, t.src[t.offset:]...)
	}
	return t.styles, t.children
}

// Transform rewrites inline style in src. Styles is empty when nothing was
// rewritten, callers should keep src in this case. Children holds
// declarations for direct children of the element and is empty when there
// are none.
func Transform[U css.CodeUnit](src []U) (styles, children []U) {
	return run(&driver[U]{src: src})
}

// String is Transform for UTF-8 strings.
func String(s string) (styles, children string) {
	st, ch := Transform([]byte(s))
	return string(st), string(ch)
}

// UTF16 is Transform for UTF-16 text.
func UTF16(src []uint16) (styles, children []uint16) {
	return Transform(src)
}

// Result is an outcome of rewriting a single inline style.
type Result struct {
	// Style to use for the element, source style when nothing was changed.
	Style string
	// Children style for direct children of the element, may be empty.
	Children string
	Changed  bool
}

// Transformer rewrites styles logging what it does.
type Transformer struct {
	log  *zap.Logger
	wide bool
}

// Option configures Transformer.
type Option func(*Transformer)

// WithUTF16 makes Transformer operate on UTF-16 code units rather than on
// UTF-8 bytes. Results are the same, this mirrors hosts which keep text in
// UTF-16.
func WithUTF16(wide bool) Option {
	return func(t *Transformer) {
		t.wide = wide
	}
}

// NewTransformer creates Transformer. Nil log disables logging.
func NewTransformer(log *zap.Logger, options ...Option) *Transformer {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Transformer{log: log.Named("transform")}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// Style rewrites inline style s.
func (t *Transformer) Style(s string) Result {
	start := time.Now()

	var styles, children string
	if t.wide {
		src := utf16.Encode([]rune(s))
		st, ch := run(&driver[uint16]{src: src, trace: tracer(t.log, src)})
		styles, children = string(utf16.Decode(st)), string(utf16.Decode(ch))
	} else {
		src := []byte(s)
		st, ch := run(&driver[byte]{src: src, trace: tracer(t.log, src)})
		styles, children = string(st), string(ch)
	}

	res := Result{Style: s, Children: children}
	if len(styles) > 0 {
		res.Style, res.Changed = styles, true
	}

	if ce := t.log.Check(zap.DebugLevel, "Style transformed"); ce != nil {
		ce.Write(
			zap.Bool("changed", res.Changed),
			zap.Bool("children", len(children) > 0),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
	return res
}

func tracer[U css.CodeUnit](log *zap.Logger, src []U) func(css.Declaration, []pair, []pair) {
	if !log.Core().Enabled(zap.DebugLevel) {
		return nil
	}
	return func(d css.Declaration, primary, children []pair) {
		log.Debug("Rewriting declaration",
			zap.String("name", text(src[d.NameStart:d.NameEnd])),
			zap.String("value", text(src[d.ValueStart:d.ValueEnd])),
			zap.Bool("important", d.Important),
			zap.Int("primary", len(primary)),
			zap.Int("children", len(children)),
		)
	}
}

func text[U css.CodeUnit](s []U) string {
	switch v := any(s).(type) {
	case []byte:
		return string(v)
	case []uint16:
		return string(utf16.Decode(v))
	}
	buf := make([]rune, 0, len(s))
	for _, c := range s {
		buf = append(buf, rune(c))
	}
	return string(buf)
}
