// # internal/ingest/ingest.go
package ingest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"

	"codeprof/internal/analyzer"
)

// Source is one ready-to-analyze file: decoded content plus the name the
// report will carry.
type Source struct {
	Name    string
	Content []byte
}

// Filter applies dir/file exclusion globs and dialect selection.
type Filter struct {
	dirGlobs  []glob.Glob
	fileGlobs []glob.Glob
}

func NewFilter(excludeDirs, excludeFiles []string) (*Filter, error) {
	dirGlobs, err := compileGlobs(excludeDirs)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude dir pattern: %w", err)
	}
	fileGlobs, err := compileGlobs(excludeFiles)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude file pattern: %w", err)
	}
	return &Filter{dirGlobs: dirGlobs, fileGlobs: fileGlobs}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func (f *Filter) SkipDir(name string) bool {
	for _, g := range f.dirGlobs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Accept reports whether a file survives both the exclusion globs and the
// supported-dialect check.
func (f *Filter) Accept(path string) bool {
	if !analyzer.IsSupportedPath(path) {
		return false
	}
	base := filepath.Base(path)
	for _, g := range f.fileGlobs {
		if g.Match(base) {
			return false
		}
	}
	return true
}

// ScanDirectories walks roots collecting supported source file paths.
// A root that is itself a supported file is returned directly.
func ScanDirectories(roots []string, filter *Filter) ([]string, error) {
	var files []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if filter.Accept(root) {
				files = append(files, root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && filter.SkipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if filter.Accept(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// ReadSources loads the given paths into memory. Unreadable files are
// reported but do not abort the batch.
func ReadSources(paths []string) ([]Source, []error) {
	sources := make([]Source, 0, len(paths))
	var errs []error
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", path, err))
			continue
		}
		sources = append(sources, Source{Name: path, Content: content})
	}
	return sources, errs
}
