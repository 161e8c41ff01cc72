// Package rewrite implements batch rewriting of documents on disk.
package rewrite

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"wst/archive"
	"wst/config"
	"wst/document"
	"wst/state"
)

// Totals summarizes batch processing.
type Totals struct {
	Documents int
	Changed   int
	Failed    int
	document.Stats
}

func (t *Totals) add(s document.Stats) {
	t.Documents++
	if s.Changed() {
		t.Changed++
	}
	t.Styles += s.Styles
	t.Rewritten += s.Rewritten
	t.Propagated += s.Propagated
}

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("rewrite")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	// Zip does not define file name encoding, old archives may need code page
	if cp := cmd.String("force-zip-cp"); len(cp) > 0 {
		if env.CodePage, err = ianaindex.IANA.Encoding(cp); err != nil || env.CodePage == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))

	totals, err := Process(ctx, env, src, dst, log)
	log.Info("Processing completed", zap.Duration("elapsed", env.Uptime()),
		zap.Int("documents", totals.Documents), zap.Int("changed", totals.Changed), zap.Int("failed", totals.Failed),
		zap.Int("styles", totals.Styles), zap.Int("rewritten", totals.Rewritten), zap.Int("propagated", totals.Propagated))
	return err
}

// batch carries state of a single Process call.
type batch struct {
	env    *state.LocalEnv
	log    *zap.Logger
	rw     *document.Rewriter
	dst    string
	totals Totals

	// outputs written so far
	written map[string]struct{}
}

// Process rewrites documents found at src: single file, directory tree or
// zip archive optionally followed by path inside it. Results are written
// under dst. Failures of individual documents are logged and counted, they
// do not stop processing.
func Process(ctx context.Context, env *state.LocalEnv, src, dst string, log *zap.Logger) (Totals, error) {
	if log == nil {
		log = zap.NewNop()
	}
	b := &batch{env: env, log: log, rw: env.Rewriter(), dst: dst, written: make(map[string]struct{})}
	err := b.process(ctx, src)
	return b.totals, err
}

func (b *batch) process(ctx context.Context, src string) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exist, probably path inside archive
			continue
		}

		if fi.IsDir() {
			if len(tail) != 0 {
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			return b.processDir(ctx, head)
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			pathIn := filepath.ToSlash(strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator)))
			if err := b.processArchive(ctx, head, pathIn, ""); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			return nil
		}

		kind := b.env.Cfg.Document.Kind(head)
		if kind == document.Unknown || len(tail) != 0 {
			return fmt.Errorf("input was not recognized as document (%s)", head)
		}
		if err := b.processFile(ctx, head, filepath.Base(head), kind); err != nil {
			b.totals.Failed++
			b.log.Error("Unable to process file", zap.String("file", head), zap.Error(err))
		}
		return nil
	}
	return fmt.Errorf("input source was not found (%s)", src)
}

// processDir walks directory tree processing documents and archives.
// Symbolic links are not followed.
func (b *batch) processDir(ctx context.Context, dir string) error {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			b.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if b.isOutput(path) {
			return nil
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))

		isArchive, err := isArchiveFile(path)
		if err != nil {
			b.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if isArchive {
			count++
			if err := b.processArchive(ctx, path, "", filepath.Dir(rel)); err != nil {
				b.log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			}
			return nil
		}

		kind := b.env.Cfg.Document.Kind(path)
		if kind == document.Unknown {
			b.log.Debug("Skipping file, not recognized as document or archive", zap.String("file", path))
			return nil
		}

		count++
		if err := b.processFile(ctx, path, rel, kind); err != nil {
			b.totals.Failed++
			b.log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
		return nil
	})
	if err == nil && count == 0 {
		b.log.Debug("Nothing to process", zap.String("dir", dir))
	}
	return err
}

// processArchive rewrites documents inside archive under pathIn. pathOut is
// archive location relative to processed directory.
func (b *batch) processArchive(ctx context.Context, path, pathIn, pathOut string) error {
	count := 0
	w := archive.Walker{CodePage: b.env.CodePage}
	err := w.Walk(ctx, path, pathIn, func(arc, name string, f *zip.File) error {
		kind := isDocumentInArchive(b.env, name, f)
		if kind == document.Unknown {
			b.log.Debug("Skipping file, not recognized as document", zap.String("archive", arc), zap.String("file", name))
			return nil
		}
		if name != f.Name {
			b.log.Debug("Archive name converted", zap.String("from", f.Name), zap.String("to", name))
		}

		count++
		if err := b.processEntry(ctx, f, cleanArchivePath(pathOut, name), kind); err != nil {
			b.totals.Failed++
			b.log.Error("Unable to process file in archive", zap.String("archive", arc), zap.String("file", name), zap.Error(err))
		}
		return nil
	})
	if err == nil && count == 0 {
		b.log.Debug("Nothing to process", zap.String("archive", path))
	}
	return err
}

func (b *batch) processFile(ctx context.Context, path, rel string, kind document.Kind) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return b.processDocument(ctx, data, rel, kind)
}

func (b *batch) processEntry(ctx context.Context, f *zip.File, rel string, kind document.Kind) (err error) {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, r.Close())
	}()

	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return b.processDocument(ctx, data, rel, kind)
}

// processDocument rewrites single document, rel is its path relative to the
// processed source (base name for single file).
func (b *batch) processDocument(ctx context.Context, data []byte, rel string, kind document.Kind) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	out, stats, err := b.rw.Rewrite(kind, data)
	if err != nil {
		return fmt.Errorf("unable to rewrite %s document (%s): %w", kind, rel, err)
	}

	outputName := buildOutputPath(rel, b.dst, b.env.NoDirs)
	if err := b.prepareOutput(outputName); err != nil {
		return err
	}
	if err := os.WriteFile(outputName, out, 0644); err != nil {
		return fmt.Errorf("unable to write result: %w", err)
	}
	b.written[outputName] = struct{}{}
	b.totals.add(stats)

	b.log.Info("Document rewritten", zap.String("from", rel), zap.String("to", outputName), zap.Stringer("kind", kind),
		zap.Int("styles", stats.Styles), zap.Int("rewritten", stats.Rewritten), zap.Int("propagated", stats.Propagated),
		zap.Duration("elapsed", time.Since(start)))

	b.env.Rpt.Store(filepath.ToSlash(filepath.Join("result", rel)), outputName)
	return nil
}

func (b *batch) prepareOutput(outputName string) error {
	_, err := os.Stat(outputName)
	switch {
	case err == nil:
		if !b.env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		b.log.Warn("Overwriting existing file", zap.String("file", outputName))
		return nil
	case !os.IsNotExist(err):
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}

// isOutput prevents walking into results when destination is inside
// processed directory.
func (b *batch) isOutput(path string) bool {
	_, ok := b.written[path]
	return ok
}

// buildOutputPath places document under destination keeping relative
// directories unless nodirs is requested.
func buildOutputPath(rel, dst string, nodirs bool) string {
	if nodirs {
		return filepath.Join(dst, filepath.Base(rel))
	}
	return filepath.Join(dst, rel)
}

// cleanArchivePath converts archive entry name to relative file path
// removing characters file system would not accept.
func cleanArchivePath(pathOut, name string) string {
	parts := []string{pathOut}
	for p := range strings.SplitSeq(name, "/") {
		if p == "" || p == "." {
			continue
		}
		parts = append(parts, config.CleanFileName(p))
	}
	return filepath.Join(parts...)
}
