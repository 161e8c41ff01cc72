// Package document applies inline style rewriting to whole documents.
package document

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"wst/transform"
)

// Kind is a document flavor which determines how it is processed.
type Kind int

const (
	Unknown Kind = iota
	HTML
	XHTML
)

func (k Kind) String() string {
	switch k {
	case HTML:
		return "html"
	case XHTML:
		return "xhtml"
	}
	return "unknown"
}

// KindByName detects document kind by file extension. Extensions are
// expected to include leading dot and are compared ignoring case.
func KindByName(name string, htmlExts, xhtmlExts []string) Kind {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return Unknown
	}
	match := func(e string) bool { return strings.ToLower(e) == ext }
	switch {
	case slices.ContainsFunc(htmlExts, match):
		return HTML
	case slices.ContainsFunc(xhtmlExts, match):
		return XHTML
	}
	return Unknown
}

// Stats counts what happened to a document.
type Stats struct {
	// Elements with style attribute.
	Styles int
	// Style attributes which were changed.
	Rewritten int
	// Elements which received style from their parent.
	Propagated int
}

func (s Stats) Changed() bool {
	return s.Rewritten > 0 || s.Propagated > 0
}

// Rewriter rewrites inline styles in documents.
type Rewriter struct {
	log *zap.Logger
	tr  *transform.Transformer
}

// NewRewriter creates Rewriter using tr for individual styles.
func NewRewriter(tr *transform.Transformer, log *zap.Logger) *Rewriter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Rewriter{log: log.Named("document"), tr: tr}
}

// Rewrite processes document according to its kind.
func (r *Rewriter) Rewrite(kind Kind, src []byte) ([]byte, Stats, error) {
	switch kind {
	case HTML:
		return r.HTML(src)
	case XHTML:
		return r.XHTML(src)
	}
	return nil, Stats{}, fmt.Errorf("unsupported document kind: %s", kind)
}

// style rewrites single style attribute value, inherited comes from the
// parent element and goes first.
func (r *Rewriter) style(value, inherited string, stats *Stats) (string, string, bool) {
	stats.Styles++
	res := r.tr.Style(value)
	if res.Changed {
		stats.Rewritten++
	}
	if inherited != "" {
		stats.Propagated++
		return inherited + res.Style, res.Children, true
	}
	return res.Style, res.Children, res.Changed
}

// decodeText removes byte order mark converting UTF-16 input to UTF-8.
// Input without byte order mark is expected to be UTF-8 already.
func decodeText(src []byte) ([]byte, error) {
	dec := &encoding.Decoder{Transformer: unicode.BOMOverride(encoding.Nop.NewDecoder())}
	out, err := dec.Bytes(src)
	if err != nil {
		return nil, fmt.Errorf("unable to decode document text: %w", err)
	}
	return out, nil
}
