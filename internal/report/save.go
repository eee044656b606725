// Package report saves exported report documents to local disk.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the fixed name every exported report is saved under.
const FileName = "report.pdf"

// Save writes data to dir/FileName atomically and returns the full path.
// An existing report is replaced. On failure no partial file is left behind.
func Save(dir string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("report: refusing to save an empty document")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("writing report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing report: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("moving report into place: %w", err)
	}
	return path, nil
}

// Saver returns a function bound to dir, matching the session's save hook.
func Saver(dir string) func([]byte) (string, error) {
	return func(data []byte) (string, error) {
		return Save(dir, data)
	}
}
