package filesystems

import (
	"errors"
	"io/fs"
	"strings"
)

// FindFile looks for a file with the given name (case-insensitive) in dir.
// Returns the actual path with correct case if found, empty string if not found.
func FindFile(filesystem FileSystem, dir, filename string) (string, error) {
	for entry, err := range filesystem.ReadDir(dir) {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", nil
			}
			return "", err
		}
		if !entry.IsDir() && strings.EqualFold(entry.Name(), filename) {
			return filesystem.Join(dir, entry.Name()), nil
		}
	}

	return "", nil
}

// Exists reports whether name exists on the filesystem.
func Exists(filesystem FileSystem, name string) bool {
	_, err := filesystem.Stat(name)
	return err == nil
}
