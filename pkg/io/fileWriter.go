package io

import (
	"fmt"
	"os"
	"path/filepath"
)

// MakeDirForFile creates all the missing parent directories of filePath,
// creator is only used in the error message.
func MakeDirForFile(filePath string, creator string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("could not create dir for %s: %w", creator, err)
	}
	return nil
}
