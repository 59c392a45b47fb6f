// # internal/ingest/ingest_test.go
package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func mustFilter(t *testing.T, dirs, files []string) *Filter {
	t.Helper()
	f, err := NewFilter(dirs, files)
	if err != nil {
		t.Fatalf("NewFilter failed: %v", err)
	}
	return f
}

func TestFilterAccept(t *testing.T) {
	f := mustFilter(t, nil, []string{"*.min.js", "*.d.ts"})

	if !f.Accept("src/app.jsx") {
		t.Error("Expected app.jsx accepted")
	}
	if f.Accept("src/bundle.min.js") {
		t.Error("Expected bundle.min.js excluded")
	}
	if f.Accept("src/types.d.ts") {
		t.Error("Expected types.d.ts excluded")
	}
	if f.Accept("readme.md") {
		t.Error("Expected unsupported extension rejected")
	}
}

func TestFilterSkipDir(t *testing.T) {
	f := mustFilter(t, []string{"node_modules", ".git"}, nil)
	if !f.SkipDir("node_modules") {
		t.Error("Expected node_modules skipped")
	}
	if f.SkipDir("src") {
		t.Error("Expected src kept")
	}
}

func TestScanDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app.jsx"), "const A = 1;")
	writeFile(t, filepath.Join(dir, "notes.md"), "readme")
	writeFile(t, filepath.Join(dir, "node_modules", "lib", "index.js"), "x")
	writeFile(t, filepath.Join(dir, "src", "util.ts"), "export const y = 2;")

	filter := mustFilter(t, []string{"node_modules"}, nil)
	files, err := ScanDirectories([]string{dir}, filter)
	if err != nil {
		t.Fatalf("ScanDirectories failed: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("Expected 2 files, got %v", files)
	}
	for _, f := range files {
		base := filepath.Base(f)
		if base != "app.jsx" && base != "util.ts" {
			t.Errorf("Unexpected file: %s", f)
		}
	}
}

func TestScanDirectoriesFileRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "single.ts")
	writeFile(t, file, "const a = 1;")

	filter := mustFilter(t, nil, nil)
	files, err := ScanDirectories([]string{file}, filter)
	if err != nil {
		t.Fatalf("ScanDirectories failed: %v", err)
	}
	if len(files) != 1 || files[0] != file {
		t.Errorf("Expected file root returned directly, got %v", files)
	}
}

func TestReadSourcesSkipsUnreadable(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.js")
	writeFile(t, good, "const a = 1;")

	sources, errs := ReadSources([]string{good, filepath.Join(dir, "missing.js")})
	if len(sources) != 1 || sources[0].Name != good {
		t.Errorf("Expected one readable source, got %v", sources)
	}
	if len(errs) != 1 {
		t.Errorf("Expected one read error, got %v", errs)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
