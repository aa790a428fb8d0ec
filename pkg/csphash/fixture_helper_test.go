package csphash_test

import (
	"os"
	"path/filepath"
	"testing"
)

// loadFixture reads a file from testdata and returns its contents as a string.
func loadFixture(t *testing.T, filename string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", filename))
	if err != nil {
		t.Fatalf("Failed to read fixture %s: %v", filename, err)
	}
	return string(data)
}
