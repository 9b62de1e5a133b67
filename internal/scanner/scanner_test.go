package scanner_test

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"httplsp/internal/scanner"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "a.http"), "GET https://example.com/a\n")
	write(t, filepath.Join(root, "nested", "b.http"), "GET https://example.com/b\n")
	write(t, filepath.Join(root, "notes.md"), "# not a request file\n")
	write(t, filepath.Join(root, ".hidden", "c.http"), "GET https://example.com/c\n")
	write(t, filepath.Join(root, ".d.http"), "GET https://example.com/d\n")

	var seen []string
	err := scanner.Scan(root, ".http", func(path string, document []byte) {
		rel, _ := filepath.Rel(root, path)
		seen = append(seen, rel)
		if len(document) == 0 {
			t.Errorf("Expected content for %s", rel)
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	sort.Strings(seen)
	expected := []string{"a.http", filepath.Join("nested", "b.http")}
	if len(seen) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, seen)
	}
	for i := range expected {
		if seen[i] != expected[i] {
			t.Errorf("Expected %s, got %s", expected[i], seen[i])
		}
	}
}

func TestScanMissingRoot(t *testing.T) {
	err := scanner.Scan(filepath.Join(t.TempDir(), "missing"), ".http", func(string, []byte) {
		t.Error("Unexpected callback")
	})
	if err == nil {
		t.Error("Expected error for missing root")
	}
}
