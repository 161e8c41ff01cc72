// Package inspect implements commands showing how inline styles are seen by
// the tokenizer, declaration parser and rewrite rules.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"wst/css"
	"wst/state"
	"wst/transform"
	"wst/utils/debug"
)

// DumpTokens lists tokens of style with byte offsets.
func DumpTokens(style string) string {
	src := []byte(style)
	tokens := css.Tokens(src)

	tw := debug.NewTreeWriter()
	tw.Line(0, "tokens: %d", len(tokens))
	for _, t := range tokens {
		tw.Span(1, t.Type.String(), style, t.Start, t.End)
	}
	return tw.String()
}

// DumpDeclarations lists declarations of style and what every one of them is
// rewritten to.
func DumpDeclarations(style string) string {
	src := []byte(style)
	decls := css.Declarations(src)

	tw := debug.NewTreeWriter()
	tw.Line(0, "declarations: %d", len(decls))
	for _, d := range decls {
		tw.Line(1, "declaration important=%t", d.Important)
		tw.Span(2, "name", style, d.NameStart, d.NameEnd)
		tw.Span(2, "value", style, d.ValueStart, d.ValueEnd)

		primary, children := transform.Query(string(d.Name(src)), string(d.Value(src)))
		for _, p := range primary {
			tw.TextBlock(2, "primary", p.String())
		}
		for _, p := range children {
			tw.TextBlock(2, "children", p.String())
		}
	}
	return tw.String()
}

// DumpRules lists rename and replace tables in natural order.
func DumpRules() string {
	tw := debug.NewTreeWriter()

	renames := make(map[string]string)
	for from, to := range transform.RenameRules() {
		renames[from] = to
	}
	tw.Line(0, "rename: %d", len(renames))
	for _, name := range sorted(keys(renames)) {
		tw.Line(1, "%s => %s", name, renames[name])
	}

	replaces := make(map[string][]string)
	for name, values := range transform.ReplaceRules() {
		replaces[name] = values
	}
	tw.Line(0, "replace: %d", len(replaces))
	for _, name := range sorted(keys(replaces)) {
		tw.Line(1, "%s", name)
		for _, value := range sorted(replaces[name]) {
			props, _ := transform.ReplaceRule(name, value)
			list := make([]string, 0, len(props))
			for _, p := range props {
				list = append(list, p.String())
			}
			tw.Line(2, "%s => %s", value, strings.Join(list, ";"))
		}
	}
	return tw.String()
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func sorted(s []string) []string {
	sort.Sort(natural.StringSlice(s))
	return s
}

// Style rewrites styles given as arguments or, when there are none, read
// from stdin one per line.
func Style(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	lw, err := env.Rewriter().NewLineWriter(env.Cfg.Transform.LineTemplate)
	if err != nil {
		return err
	}

	if cmd.Args().Len() == 0 {
		env.Log.Debug("Reading styles from STDIN")
		return lw.Lines(ctx, os.Stdin, os.Stdout)
	}
	for _, style := range cmd.Args().Slice() {
		line, err := lw.Line(style)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(os.Stdout, line); err != nil {
			return fmt.Errorf("unable to write result: %w", err)
		}
	}
	return nil
}

// Tokens prints token tree of the style.
func Tokens(ctx context.Context, cmd *cli.Command) error {
	return dump(ctx, cmd, DumpTokens)
}

// Declarations prints declaration tree of the style.
func Declarations(ctx context.Context, cmd *cli.Command) error {
	return dump(ctx, cmd, DumpDeclarations)
}

// Rules prints rewrite tables.
func Rules(ctx context.Context, _ *cli.Command) error {
	return write(os.Stdout, DumpRules())
}

func dump(ctx context.Context, cmd *cli.Command, fn func(string) string) error {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return errors.New("no style has been specified")
	}
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many styles", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	return write(os.Stdout, fn(cmd.Args().First()))
}

func write(w io.Writer, text string) error {
	if _, err := io.WriteString(w, text); err != nil {
		return fmt.Errorf("unable to write result: %w", err)
	}
	return nil
}
