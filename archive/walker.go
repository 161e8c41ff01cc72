// Package archive visits documents stored in zip archives.
package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/encoding"
)

// WalkFunc is called for every regular file in archive whose name starts
// with requested prefix. Name is the entry name, decoded when archive does
// not mark it as UTF-8 and Walker has code page set. Returned error stops
// the walk.
type WalkFunc func(archive, name string, file *zip.File) error

// Walker visits files in zip archives.
type Walker struct {
	// CodePage is used to decode entry names not flagged as UTF-8, zip has
	// no standard way to specify names encoding for old archives.
	CodePage encoding.Encoding
}

// Walk calls walkFn for all files in archive matching prefix. Absolute entry
// names and names containing ".." make whole archive unacceptable.
func (w Walker) Walk(ctx context.Context, archive, prefix string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !isSafePath(f.Name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", f.Name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		name := w.Name(f)
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if err := walkFn(archive, name, f); err != nil {
			return err
		}
	}
	return nil
}

// Name returns entry name decoded with walker code page when necessary.
// Undecodable names are returned as is.
func (w Walker) Name(f *zip.File) string {
	if w.CodePage == nil || !f.NonUTF8 {
		return f.Name
	}
	if n, err := w.CodePage.NewDecoder().String(f.Name); err == nil {
		return n
	}
	return f.Name
}

// Walk visits archive without names conversion.
func Walk(ctx context.Context, archive, prefix string, walkFn WalkFunc) error {
	return Walker{}.Walk(ctx, archive, prefix, walkFn)
}

func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(strings.ReplaceAll(name, `\`, "/"), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
