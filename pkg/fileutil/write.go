package fileutil

import (
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// WriteFile atomically replaces filename with data, creating
// its directory if needed. Readers never see a partial file.
func WriteFile(filename string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	return renameio.WriteFile(filename, data, perm)
}
