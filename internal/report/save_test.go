package report

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveWritesFixedName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	path, err := Save(dir, []byte("%PDF-1.4 one"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Base(path) != FileName {
		t.Fatalf("saved as %q, want %q", filepath.Base(path), FileName)
	}

	// Second save replaces the first.
	if _, err := Save(dir, []byte("%PDF-1.4 two")); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if string(got) != "%PDF-1.4 two" {
		t.Fatalf("report content = %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("dir has %d entries, want only %s", len(entries), FileName)
	}
}

func TestSaveRejectsEmpty(t *testing.T) {
	dir := t.TempDir()
	if _, err := Save(dir, nil); err == nil {
		t.Fatal("Save(nil) returned nil error")
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); !os.IsNotExist(err) {
		t.Fatalf("empty save produced a file (stat err = %v)", err)
	}
}

func TestSaveUnwritableDir(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Save(filepath.Join(blocker, "sub"), []byte("data")); err == nil {
		t.Fatal("Save under a regular file returned nil error")
	}
}

func TestSaver(t *testing.T) {
	dir := t.TempDir()
	path, err := Saver(dir)([]byte("pdf"))
	if err != nil {
		t.Fatalf("Saver: %v", err)
	}
	if path != filepath.Join(dir, FileName) {
		t.Fatalf("path = %q", path)
	}
}
