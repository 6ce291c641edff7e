package filesystems

import (
	"io/fs"
	"iter"
)

// FileSystem is the storage an ecosystem lives on. LocalFS backs real runs,
// MemoryFS backs tests.
type FileSystem interface {
	// ReadFile reads the named file and returns its contents
	ReadFile(name string) ([]byte, error)

	// WriteFile replaces the named file with data, creating parent
	// directories as needed. Readers never observe a partially written file.
	WriteFile(name string, data []byte) error

	Stat(name string) (FileInfo, error)

	// ReadDir yields the entries of the named directory sorted by name
	ReadDir(name string) iter.Seq2[DirEntry, error]

	// Walk visits root and everything below it in lexical order
	Walk(root string, fn WalkFunc) error

	Join(elem ...string) string
	Base(path string) string
}

type DirEntry interface {
	Name() string
	IsDir() bool
}

type FileInfo interface {
	Name() string
	Size() int64
	IsDir() bool
}

// WalkFunc is called by Walk for every visited path
type WalkFunc func(path string, info FileInfo, err error) error

// SkipDir returned from a WalkFunc skips the directory being visited
var SkipDir = fs.SkipDir
