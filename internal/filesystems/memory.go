package filesystems

import (
	"io/fs"
	"iter"
	"path"
	"slices"
	"sync"
)

// MemoryFS is an in-memory FileSystem. Directories exist implicitly for every
// stored file and explicitly when added with AddDir.
type MemoryFS struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
}

type memoryEntry struct {
	data []byte
	dir  bool
}

func NewMemoryFS() *MemoryFS {
	return &MemoryFS{entries: map[string]*memoryEntry{".": {dir: true}}}
}

// AddFile stores content at name, creating its parent directories.
func (mfs *MemoryFS) AddFile(name string, content []byte) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.put(name, &memoryEntry{data: slices.Clone(content)})
}

// AddDir creates an empty directory. A later WriteFile to the same path fails.
func (mfs *MemoryFS) AddDir(name string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.put(name, &memoryEntry{dir: true})
}

func (mfs *MemoryFS) Remove(name string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	if e, ok := mfs.entries[path.Clean(name)]; ok && !e.dir {
		delete(mfs.entries, path.Clean(name))
	}
}

func (mfs *MemoryFS) put(name string, e *memoryEntry) {
	name = path.Clean(name)
	mfs.entries[name] = e
	for dir := path.Dir(name); ; dir = path.Dir(dir) {
		if _, ok := mfs.entries[dir]; ok {
			break
		}
		mfs.entries[dir] = &memoryEntry{dir: true}
		if dir == "." || dir == "/" {
			break
		}
	}
}

func (mfs *MemoryFS) ReadFile(name string) ([]byte, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	e, ok := mfs.entries[path.Clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	if e.dir {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	return slices.Clone(e.data), nil
}

func (mfs *MemoryFS) WriteFile(name string, data []byte) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	if e, ok := mfs.entries[path.Clean(name)]; ok && e.dir {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrInvalid}
	}
	mfs.put(name, &memoryEntry{data: slices.Clone(data)})
	return nil
}

func (mfs *MemoryFS) Stat(name string) (FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	name = path.Clean(name)
	e, ok := mfs.entries[name]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return e.info(name), nil
}

// children returns the sorted base names directly below dir. The caller
// holds the lock.
func (mfs *MemoryFS) children(dir string) []string {
	var names []string
	for p := range mfs.entries {
		if p != dir && path.Dir(p) == dir {
			names = append(names, path.Base(p))
		}
	}
	slices.Sort(names)
	return names
}

func (mfs *MemoryFS) ReadDir(name string) iter.Seq2[DirEntry, error] {
	return func(yield func(DirEntry, error) bool) {
		mfs.mu.RLock()
		dir := path.Clean(name)
		e, ok := mfs.entries[dir]
		if !ok || !e.dir {
			mfs.mu.RUnlock()
			yield(nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist})
			return
		}
		var infos []DirEntry
		for _, child := range mfs.children(dir) {
			infos = append(infos, mfs.entries[path.Join(dir, child)].info(child))
		}
		mfs.mu.RUnlock()

		for _, info := range infos {
			if !yield(info, nil) {
				return
			}
		}
	}
}

func (mfs *MemoryFS) Walk(root string, fn WalkFunc) error {
	info, err := mfs.Stat(root)
	if err != nil {
		return fn(root, nil, err)
	}
	err = mfs.walk(path.Clean(root), info, fn)
	if err == SkipDir {
		return nil
	}
	return err
}

func (mfs *MemoryFS) walk(p string, info FileInfo, fn WalkFunc) error {
	if err := fn(p, info, nil); err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}
	for entry, err := range mfs.ReadDir(p) {
		if err != nil {
			return err
		}
		child := path.Join(p, entry.Name())
		err := mfs.walk(child, entry.(*memoryInfo), fn)
		if err == SkipDir && entry.IsDir() {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (mfs *MemoryFS) Join(elem ...string) string {
	return path.Join(elem...)
}

func (mfs *MemoryFS) Base(p string) string {
	return path.Base(p)
}

func (e *memoryEntry) info(name string) *memoryInfo {
	return &memoryInfo{name: path.Base(name), size: int64(len(e.data)), dir: e.dir}
}

// memoryInfo serves as both DirEntry and FileInfo.
type memoryInfo struct {
	name string
	size int64
	dir  bool
}

func (i *memoryInfo) Name() string { return i.name }
func (i *memoryInfo) Size() int64  { return i.size }
func (i *memoryInfo) IsDir() bool  { return i.dir }
