package controller

import (
	"os"
	"path/filepath"
	"testing"
)

func createTempFile(t *testing.T) (*os.File, error) {
	t.Helper()

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		return nil, err
	}

	t.Cleanup(func() { _ = f.Close() })

	return f, nil
}
