package rewrite

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"wst/config"
	"wst/state"
)

const (
	htmlSource  = `<div style="display:linear"><p>x</p></div>`
	htmlResult  = `<div style="--lynx-display-toggle:var(--lynx-display-linear);--lynx-display:linear;display:flex"><p>x</p></div>`
	xhtmlSource = `<html><body><p style="flex:none">x</p></body></html>`
	xhtmlResult = `<p style="--flex-shrink:0;--flex-grow:0;--flex-basis:auto">x</p>`
)

func newEnv(t *testing.T) *state.LocalEnv {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	return &state.LocalEnv{Cfg: cfg, Log: zaptest.NewLogger(t)}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unable to read result: %v", err)
	}
	return string(data)
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	writeFile(t, path, buf.String())
}

func TestProcess_File(t *testing.T) {
	env := newEnv(t)
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(src, "page.html"), htmlSource)

	totals, err := Process(context.Background(), env, filepath.Join(src, "page.html"), dst, env.Log)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got := readFile(t, filepath.Join(dst, "page.html")); got != htmlResult {
		t.Errorf("result = %s, want %s", got, htmlResult)
	}
	if totals.Documents != 1 || totals.Changed != 1 || totals.Rewritten != 1 || totals.Propagated != 0 {
		t.Errorf("unexpected totals %+v", totals)
	}
}

func TestProcess_Dir(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "index.html"), htmlSource)
	writeFile(t, filepath.Join(src, "book", "ch01.xhtml"), xhtmlSource)
	writeFile(t, filepath.Join(src, "book", "style.css"), "p{}")
	writeFile(t, filepath.Join(src, "broken.xhtml"), `<p style="x"`)

	t.Run("keep dirs", func(t *testing.T) {
		env, dst := newEnv(t), t.TempDir()
		totals, err := Process(context.Background(), env, src, dst, env.Log)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if got := readFile(t, filepath.Join(dst, "index.html")); got != htmlResult {
			t.Errorf("index.html = %s", got)
		}
		if got := readFile(t, filepath.Join(dst, "book", "ch01.xhtml")); !strings.Contains(got, xhtmlResult) {
			t.Errorf("ch01.xhtml = %s", got)
		}
		if _, err := os.Stat(filepath.Join(dst, "book", "style.css")); !os.IsNotExist(err) {
			t.Error("non document must not be copied")
		}
		if totals.Documents != 2 || totals.Failed != 1 {
			t.Errorf("unexpected totals %+v", totals)
		}
	})

	t.Run("no dirs", func(t *testing.T) {
		env, dst := newEnv(t), t.TempDir()
		env.NoDirs = true
		if _, err := Process(context.Background(), env, src, dst, env.Log); err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if got := readFile(t, filepath.Join(dst, "ch01.xhtml")); !strings.Contains(got, xhtmlResult) {
			t.Errorf("ch01.xhtml = %s", got)
		}
	})

	t.Run("in place", func(t *testing.T) {
		work := t.TempDir()
		writeFile(t, filepath.Join(work, "a.html"), htmlSource)
		writeFile(t, filepath.Join(work, "out", "keep.txt"), "")

		env := newEnv(t)
		totals, err := Process(context.Background(), env, work, work, env.Log)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if totals.Failed != 1 {
			t.Errorf("existing file must not be overwritten, totals %+v", totals)
		}

		env.Overwrite = true
		if totals, err = Process(context.Background(), env, work, work, env.Log); err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if totals.Documents != 1 || totals.Failed != 0 {
			t.Errorf("unexpected totals %+v", totals)
		}
		if got := readFile(t, filepath.Join(work, "a.html")); got != htmlResult {
			t.Errorf("a.html = %s", got)
		}
	})
}

func TestProcess_Archive(t *testing.T) {
	src := t.TempDir()
	arc := filepath.Join(src, "book.zip")
	writeZip(t, arc, map[string]string{
		"OEBPS/ch01.xhtml": xhtmlSource,
		"OEBPS/img.png":    "png",
		"site/index.html":  htmlSource,
		"site/empty.html":  "",
	})

	t.Run("whole archive", func(t *testing.T) {
		env, dst := newEnv(t), t.TempDir()
		totals, err := Process(context.Background(), env, arc, dst, env.Log)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if totals.Documents != 2 {
			t.Errorf("unexpected totals %+v", totals)
		}
		if got := readFile(t, filepath.Join(dst, "site", "index.html")); got != htmlResult {
			t.Errorf("index.html = %s", got)
		}
	})

	t.Run("path inside archive", func(t *testing.T) {
		env, dst := newEnv(t), t.TempDir()
		totals, err := Process(context.Background(), env, filepath.Join(arc, "OEBPS"), dst, env.Log)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if totals.Documents != 1 {
			t.Errorf("unexpected totals %+v", totals)
		}
		if got := readFile(t, filepath.Join(dst, "OEBPS", "ch01.xhtml")); !strings.Contains(got, xhtmlResult) {
			t.Errorf("ch01.xhtml = %s", got)
		}
	})

	t.Run("archive in directory", func(t *testing.T) {
		env, dst := newEnv(t), t.TempDir()
		totals, err := Process(context.Background(), env, src, dst, env.Log)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if totals.Documents != 2 {
			t.Errorf("unexpected totals %+v", totals)
		}
	})
}

func TestProcess_Errors(t *testing.T) {
	env := newEnv(t)
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(src, "notes.txt"), "text")

	for name, path := range map[string]string{
		"missing":        filepath.Join(src, "absent.html"),
		"not document":   filepath.Join(src, "notes.txt"),
		"file with tail": filepath.Join(src, "notes.txt", "more"),
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := Process(context.Background(), env, path, dst, env.Log); err == nil {
				t.Error("expected error")
			}
		})
	}

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := Process(ctx, env, src, dst, env.Log); err == nil {
			t.Error("expected error")
		}
	})
}

func TestIsArchiveFile(t *testing.T) {
	dir := t.TempDir()

	zipped := filepath.Join(dir, "real.zip")
	writeZip(t, zipped, map[string]string{"a.html": htmlSource})
	fake := filepath.Join(dir, "fake.zip")
	writeFile(t, fake, "not a zip file")
	renamed := filepath.Join(dir, "real.html")
	writeZip(t, renamed, map[string]string{"a.html": htmlSource})

	for path, want := range map[string]bool{zipped: true, fake: false, renamed: false} {
		got, err := isArchiveFile(path)
		if err != nil {
			t.Errorf("%s: unexpected error %v", path, err)
		}
		if got != want {
			t.Errorf("%s: got %v, want %v", path, got, want)
		}
	}

	if _, err := isArchiveFile(filepath.Join(dir, "absent.zip")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestOutputPaths(t *testing.T) {
	if got, want := buildOutputPath(filepath.Join("a", "b.html"), "out", false), filepath.Join("out", "a", "b.html"); got != want {
		t.Errorf("buildOutputPath() = %s, want %s", got, want)
	}
	if got, want := buildOutputPath(filepath.Join("a", "b.html"), "out", true), filepath.Join("out", "b.html"); got != want {
		t.Errorf("buildOutputPath() = %s, want %s", got, want)
	}
	if got, want := cleanArchivePath("lib", "./OEBPS//ch01.xhtml"), filepath.Join("lib", "OEBPS", "ch01.xhtml"); got != want {
		t.Errorf("cleanArchivePath() = %s, want %s", got, want)
	}
}
