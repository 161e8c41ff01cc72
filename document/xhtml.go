package document

import (
	"bytes"
	"fmt"
	"io"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// XHTML rewrites style attributes of XML document building its tree. Children
// style of an element is prepended to style of every direct child element.
// Output is serialized tree, so formatting of markup itself may change.
func (r *Rewriter) XHTML(src []byte) ([]byte, Stats, error) {
	var stats Stats

	text, err := decodeText(src)
	if err != nil {
		return nil, stats, err
	}
	// Declared encoding is meaningless after text was converted from UTF-16.
	converted := hasUTF16BOM(src)

	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: func(label string, input io.Reader) (io.Reader, error) {
			if converted {
				return input, nil
			}
			return charset.NewReaderLabel(label, input)
		},
		Permissive: true,
	}
	if _, err := doc.ReadFrom(bytes.NewReader(text)); err != nil {
		return nil, stats, fmt.Errorf("unable to parse xhtml: %w", err)
	}

	if root := doc.Root(); root != nil {
		r.element(root, "", &stats)
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, stats, fmt.Errorf("unable to write xhtml: %w", err)
	}

	r.log.Debug("XHTML document processed", zap.Int("styles", stats.Styles),
		zap.Int("rewritten", stats.Rewritten), zap.Int("propagated", stats.Propagated))
	return buf.Bytes(), stats, nil
}

func (r *Rewriter) element(e *etree.Element, inherited string, stats *Stats) {
	var children string
	if attr := e.SelectAttr("style"); attr != nil {
		var (
			style   string
			changed bool
		)
		style, children, changed = r.style(attr.Value, inherited, stats)
		if changed {
			attr.Value = style
		}
	} else if inherited != "" {
		e.CreateAttr("style", inherited)
		stats.Propagated++
	}

	for _, child := range e.ChildElements() {
		r.element(child, children, stats)
	}
}

func hasUTF16BOM(src []byte) bool {
	return len(src) >= 2 && (src[0] == 0xFF && src[1] == 0xFE || src[0] == 0xFE && src[1] == 0xFF)
}
