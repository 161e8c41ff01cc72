package document

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/zap"
)

// DefaultLineTemplate prints resulting style and, when present, children
// style separated by TAB.
const DefaultLineTemplate = `{{ .Style }}{{ with .Children }}{{ "\t" }}{{ . }}{{ end }}`

// LineValues are available to line template.
type LineValues struct {
	Source   string
	Style    string
	Children string
	Changed  bool
}

// LineWriter renders rewritten inline styles one per line.
type LineWriter struct {
	r    *Rewriter
	tmpl *template.Template
}

// NewLineWriter prepares line template, empty text means default template.
func (r *Rewriter) NewLineWriter(text string) (*LineWriter, error) {
	if text == "" {
		text = DefaultLineTemplate
	}
	tmpl, err := template.New("line").Funcs(sprig.FuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("unable to parse line template: %w", err)
	}
	return &LineWriter{r: r, tmpl: tmpl}, nil
}

// Line rewrites single inline style and renders it.
func (lw *LineWriter) Line(style string) (string, error) {
	res := lw.r.tr.Style(style)
	values := LineValues{
		Source:   style,
		Style:    res.Style,
		Children: res.Children,
		Changed:  res.Changed,
	}

	buf := new(bytes.Buffer)
	if err := lw.tmpl.Execute(buf, values); err != nil {
		return "", fmt.Errorf("unable to render line: %w", err)
	}
	return buf.String(), nil
}

// Lines reads inline styles from in, one per line, and writes results to
// out. Empty lines are skipped.
func (lw *LineWriter) Lines(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	count := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rendered, err := lw.Line(line)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(out, rendered+"\n"); err != nil {
			return fmt.Errorf("unable to write result: %w", err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("unable to read styles: %w", err)
	}
	lw.r.log.Debug("Styles processed", zap.Int("count", count))
	return nil
}
