package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
	"go.uber.org/zap"
)

// Elements which never have content.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

type openElement struct {
	name string
	// style for direct children
	children string
}

// HTML rewrites style attributes of HTML document. Everything besides
// rewritten attribute values is copied as is. Children style of an element
// is prepended to style of every direct child element, style attribute is
// added when child does not have one.
func (r *Rewriter) HTML(src []byte) ([]byte, Stats, error) {
	var stats Stats

	text, err := decodeText(src)
	if err != nil {
		return nil, stats, err
	}

	// Lexer lowercases names in place, so it works on a copy and all output
	// comes from text.
	in := parse.NewInputBytes(bytes.Clone(text))
	lex := html.NewLexer(in)

	var (
		out   = make([]byte, 0, len(text)+len(text)/8)
		stack []openElement
		last  int

		// current start tag
		tag       string
		inherited string
		children  string
		styled    bool
	)

	for {
		tt, _ := lex.Next()
		pos := in.Offset()

		switch tt {
		case html.ErrorToken:
			if err := lex.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, stats, fmt.Errorf("unable to parse html: %w", err)
			}
			out = append(out, text[last:]...)
			r.log.Debug("HTML document processed", zap.Int("styles", stats.Styles),
				zap.Int("rewritten", stats.Rewritten), zap.Int("propagated", stats.Propagated))
			return out, stats, nil

		case html.StartTagToken:
			tag = string(lex.Text())
			inherited, children, styled = "", "", false
			if len(stack) > 0 {
				inherited = stack[len(stack)-1].children
			}

		case html.AttributeToken:
			if styled || !strings.EqualFold(string(lex.Text()), "style") {
				break
			}
			styled = true

			raw := lex.AttrVal()
			valStart := pos - len(raw)
			value, quote := unquote(text[valStart:pos])

			var (
				style   string
				changed bool
			)
			style, children, changed = r.style(string(value), inherited, &stats)
			if !changed {
				break
			}
			out = append(out, text[last:valStart]...)
			if len(raw) == 0 {
				// attribute without value
				out = append(out, '=')
			}
			out = appendQuoted(out, style, quote)
			last = pos

		case html.StartTagCloseToken, html.StartTagVoidToken:
			if !styled && inherited != "" {
				at := tagEnd(text, last, pos)
				out = append(out, text[last:at]...)
				out = append(out, " style="...)
				out = appendQuoted(out, inherited, '"')
				last = at
				stats.Propagated++
			}
			if tt == html.StartTagCloseToken && !voidElements[tag] {
				stack = append(stack, openElement{name: tag, children: children})
			}

		case html.EndTagToken:
			name := string(lex.Text())
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].name == name {
					stack = stack[:i]
					break
				}
			}
		}
	}
}

// tagEnd returns position right after the last attribute (or name) of the
// tag which closing token ends at to.
func tagEnd(text []byte, from, to int) int {
	end := to - 1
	if end > from && text[end] == '>' && text[end-1] == '/' {
		end--
	}
	for end > from && isHTMLSpace(text[end-1]) {
		end--
	}
	return end
}

func isHTMLSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// unquote strips matching quotes from attribute value. Zero quote means value
// was not quoted.
func unquote(v []byte) ([]byte, byte) {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1], v[0]
	}
	return v, 0
}

func appendQuoted(dst []byte, value string, quote byte) []byte {
	if quote == 0 {
		quote = '"'
	}
	entity := "&#34;"
	if quote == '\'' {
		entity = "&#39;"
	}
	dst = append(dst, quote)
	dst = append(dst, strings.ReplaceAll(value, string(quote), entity)...)
	return append(dst, quote)
}
