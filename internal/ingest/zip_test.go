// # internal/ingest/zip_test.go
package ingest

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"codeprof/internal/core/errors"
)

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadZip(t *testing.T) {
	path := writeZip(t, map[string]string{
		"src/app.jsx":               "const App = () => null;",
		"src/slides.md":             "notes",
		"node_modules/lib/index.js": "module.exports = 1;",
	})

	filter := mustFilter(t, []string{"node_modules"}, nil)
	sources, err := ReadZip(path, filter)
	if err != nil {
		t.Fatalf("ReadZip failed: %v", err)
	}

	if len(sources) != 1 {
		t.Fatalf("Expected 1 source, got %v", sources)
	}
	if sources[0].Name != "src/app.jsx" {
		t.Errorf("Expected src/app.jsx, got %s", sources[0].Name)
	}
	if string(sources[0].Content) != "const App = () => null;" {
		t.Errorf("Unexpected content: %s", sources[0].Content)
	}
}

func TestReadZipRejectsTraversal(t *testing.T) {
	path := writeZip(t, map[string]string{
		"../escape.js": "const a = 1;",
	})

	filter := mustFilter(t, nil, nil)
	_, err := ReadZip(path, filter)
	if err == nil {
		t.Fatal("Expected traversal entry rejected")
	}
	if !errors.IsCode(err, errors.CodeValidationError) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestReadZipMissingArchive(t *testing.T) {
	filter := mustFilter(t, nil, nil)
	_, err := ReadZip(filepath.Join(t.TempDir(), "absent.zip"), filter)
	if err == nil {
		t.Fatal("Expected error for missing archive")
	}
}
