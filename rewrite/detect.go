package rewrite

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	"wst/document"
	"wst/state"
)

// enough for any of filetype matchers
const headerSize = 262

// isArchiveFile checks both extension and signature so renamed documents are
// never opened as archives.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}

	head := make([]byte, headerSize)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return filetype.Is(head[:n], "zip"), nil
}

// isDocumentInArchive rejects entries which cannot be documents without
// reading them.
func isDocumentInArchive(env *state.LocalEnv, name string, f *zip.File) document.Kind {
	if f.UncompressedSize64 == 0 {
		return document.Unknown
	}
	return env.Cfg.Document.Kind(name)
}
