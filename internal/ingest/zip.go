// # internal/ingest/zip.go
package ingest

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"

	"codeprof/internal/core/errors"
)

// maxEntrySize bounds a single decompressed archive entry.
const maxEntrySize = 16 << 20

// ReadZip opens a project archive and returns the supported sources inside
// it, applying the same filters as directory scanning. Entry names are kept
// slash-separated as they appear in the archive.
func ReadZip(archivePath string, filter *Filter) ([]Source, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "open archive")
	}
	defer reader.Close()

	var sources []Source
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		name := path.Clean(entry.Name)
		if strings.HasPrefix(name, "..") || path.IsAbs(name) {
			return nil, errors.New(errors.CodeValidationError,
				fmt.Sprintf("archive entry escapes root: %s", entry.Name))
		}
		if entrySkipped(name, filter) {
			continue
		}
		if entry.UncompressedSize64 > maxEntrySize {
			return nil, errors.New(errors.CodeValidationError,
				fmt.Sprintf("archive entry too large: %s", entry.Name))
		}

		content, err := readEntry(entry)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "read archive entry "+entry.Name)
		}
		sources = append(sources, Source{Name: name, Content: content})
	}
	return sources, nil
}

func entrySkipped(name string, filter *Filter) bool {
	segments := strings.Split(path.Dir(name), "/")
	for _, segment := range segments {
		if segment == "." || segment == "" {
			continue
		}
		if filter.SkipDir(segment) {
			return true
		}
	}
	return !filter.Accept(name)
}

func readEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
}
