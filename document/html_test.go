package document_test

import (
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"go.uber.org/zap"

	"wst/document"
	"wst/transform"
)

const (
	displayLinear = "--lynx-display-toggle:var(--lynx-display-linear);--lynx-display:linear;display:flex"
	colorRed      = "--lynx-text-bg-color:initial;-webkit-background-clip:initial;background-clip:initial;color:red"
)

func newRewriter() *document.Rewriter {
	log := zap.NewNop()
	return document.NewRewriter(transform.NewTransformer(log), log)
}

func TestHTML(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		want  string
		stats document.Stats
	}{
		{
			name:  "rewrite",
			src:   `<div style="display:linear"><p>text</p></div>`,
			want:  `<div style="` + displayLinear + `"><p>text</p></div>`,
			stats: document.Stats{Styles: 1, Rewritten: 1},
		},
		{
			name:  "single quoted",
			src:   `<div class=a style='color:red;' id=b>x</div>`,
			want:  `<div class=a style='` + colorRed + `;' id=b>x</div>`,
			stats: document.Stats{Styles: 1, Rewritten: 1},
		},
		{
			name:  "unquoted",
			src:   `<p style=color:red>x</p>`,
			want:  `<p style="` + colorRed + `">x</p>`,
			stats: document.Stats{Styles: 1, Rewritten: 1},
		},
		{
			name:  "untouched style",
			src:   `<p style="width: 1px" >x</p>`,
			want:  `<p style="width: 1px" >x</p>`,
			stats: document.Stats{Styles: 1},
		},
		{
			name: "children",
			src:  `<div style="linear-weight-sum: 2"><p>a</p><span style="color:red">b</span><i>c<b>d</b></i></div><p>e</p>`,
			want: `<div style="linear-weight-sum: 2"><p style="--lynx-linear-weight-sum:2;">a</p>` +
				`<span style="--lynx-linear-weight-sum:2;` + colorRed + `">b</span>` +
				`<i style="--lynx-linear-weight-sum:2;">c<b>d</b></i></div><p>e</p>`,
			stats: document.Stats{Styles: 2, Rewritten: 1, Propagated: 3},
		},
		{
			name: "void children",
			src:  `<div style="linear-weight-sum:1"><img src="a.png"><br/><p >x</p></div>`,
			want: `<div style="linear-weight-sum:1"><img src="a.png" style="--lynx-linear-weight-sum:1;">` +
				`<br style="--lynx-linear-weight-sum:1;"/><p style="--lynx-linear-weight-sum:1;" >x</p></div>`,
			stats: document.Stats{Styles: 1, Propagated: 3},
		},
		{
			name:  "markup preserved",
			src:   "<!DOCTYPE html>\n<HTML><Body class=x  id='y'  >Hello &amp; <!-- c --><script>var s = '<p style=\"flex:1\">';</script></Body></HTML>",
			want:  "<!DOCTYPE html>\n<HTML><Body class=x  id='y'  >Hello &amp; <!-- c --><script>var s = '<p style=\"flex:1\">';</script></Body></HTML>",
			stats: document.Stats{},
		},
		{
			name:  "upper case attribute",
			src:   `<P STYLE="flex:none">x</P>`,
			want:  `<P STYLE="--flex-shrink:0;--flex-grow:0;--flex-basis:auto">x</P>`,
			stats: document.Stats{Styles: 1, Rewritten: 1},
		},
	}

	r := newRewriter()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, stats, err := r.HTML([]byte(tc.src))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(out) != tc.want {
				t.Errorf("output mismatch:\n  got: %s\n want: %s", out, tc.want)
			}
			if stats != tc.stats {
				t.Errorf("stats mismatch: got %+v, want %+v", stats, tc.stats)
			}
		})
	}
}

func TestHTML_UTF16(t *testing.T) {
	units := utf16.Encode([]rune("\uFEFF<p style=\"flex:1\">x</p>"))
	src := make([]byte, 0, len(units)*2)
	for _, u := range units {
		src = binary.LittleEndian.AppendUint16(src, u)
	}

	out, _, err := newRewriter().HTML(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `<p style="--flex-grow:1;--flex-shrink:1;--flex-basis:0%">x</p>`; string(out) != want {
		t.Errorf("got %s, want %s", out, want)
	}
}

func TestRewrite_Kind(t *testing.T) {
	if _, _, err := newRewriter().Rewrite(document.Unknown, []byte("x")); err == nil {
		t.Error("expected error for unknown document kind")
	}
	out, _, err := newRewriter().Rewrite(document.HTML, []byte(`<a style="flex:auto">`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `<a style="--flex-shrink:1;--flex-grow:1;--flex-basis:auto">`; string(out) != want {
		t.Errorf("got %s, want %s", out, want)
	}
}

func TestKindByName(t *testing.T) {
	htmlExts := []string{".html", ".htm"}
	xhtmlExts := []string{".xhtml", ".xml"}
	cases := map[string]document.Kind{
		"index.html":      document.HTML,
		"dir/page.HTM":    document.HTML,
		"ch01.xhtml":      document.XHTML,
		"content.xml":     document.XHTML,
		"style.css":       document.Unknown,
		"README":          document.Unknown,
		"archive.zip":     document.Unknown,
		"dir.html/readme": document.Unknown,
	}
	for name, want := range cases {
		if got := document.KindByName(name, htmlExts, xhtmlExts); got != want {
			t.Errorf("%s: got %s, want %s", name, got, want)
		}
	}
}
