package filesystem

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Exported variables.
var (
	ErrIsDirectory = errors.New("is a directory")
	ErrNotEmpty    = errors.New("directory not empty")
)

// MockFileSystem is an in-memory filesystem implementation for testing.
// Failures can be injected per path with FailCreate and FailOpen.
type MockFileSystem struct {
	mu         sync.RWMutex
	files      map[string]*mockFile
	failCreate map[string]error
	failOpen   map[string]error
}

// mockFile represents a file in the mock filesystem.
type mockFile struct {
	path    string
	data    []byte
	modTime time.Time
	isDir   bool
	perm    os.FileMode
}

// mockFileInfo implements os.FileInfo for mock files.
type mockFileInfo struct {
	name    string
	size    int64
	modTime time.Time
	isDir   bool
	perm    os.FileMode
}

func (fi *mockFileInfo) Name() string       { return fi.name }
func (fi *mockFileInfo) Size() int64        { return fi.size }
func (fi *mockFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *mockFileInfo) IsDir() bool        { return fi.isDir }
func (fi *mockFileInfo) Sys() interface{}   { return nil }

func (fi *mockFileInfo) Mode() os.FileMode {
	if fi.isDir {
		return fi.perm | os.ModeDir
	}

	return fi.perm
}

// mockFileHandle implements the File interface for reading/writing.
type mockFileHandle struct {
	fs     *MockFileSystem
	path   string
	reader *bytes.Reader
	writer *bytes.Buffer
	closed bool
}

func (f *mockFileHandle) Read(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}

	if f.reader == nil {
		return 0, io.EOF
	}

	return f.reader.Read(p)
}

func (f *mockFileHandle) Write(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}

	if f.writer == nil {
		f.writer = &bytes.Buffer{}
	}

	return f.writer.Write(p)
}

func (f *mockFileHandle) Close() error {
	if f.closed {
		return os.ErrClosed
	}

	f.closed = true

	// Writes become visible on close
	if f.writer != nil {
		f.fs.mu.Lock()
		defer f.fs.mu.Unlock()

		f.fs.files[f.path] = &mockFile{
			path:    f.path,
			data:    f.writer.Bytes(),
			modTime: time.Now(),
			perm:    0o644,
		}
	}

	return nil
}

func (f *mockFileHandle) Stat() (os.FileInfo, error) {
	if f.closed {
		return nil, os.ErrClosed
	}

	return f.fs.Stat(f.path)
}

// NewMockFileSystem creates a new in-memory filesystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files:      make(map[string]*mockFile),
		failCreate: make(map[string]error),
		failOpen:   make(map[string]error),
	}
}

// Create creates a file for writing. Parent directories are created as needed.
func (fs *MockFileSystem) Create(path string) (File, error) {
	path = filepath.Clean(path)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err, ok := fs.failCreate[path]; ok {
		return nil, err
	}

	if file, exists := fs.files[path]; exists && file.isDir {
		return nil, fmt.Errorf("create %s: %w", path, ErrIsDirectory)
	}

	fs.mkdirAllLocked(filepath.Dir(path), 0o755)

	fs.files[path] = &mockFile{
		path:    path,
		data:    []byte{},
		modTime: time.Now(),
		perm:    0o644,
	}

	return &mockFileHandle{fs: fs, path: path, writer: &bytes.Buffer{}}, nil
}

// MkdirAll creates a directory and all necessary parents.
func (fs *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.mkdirAllLocked(filepath.Clean(path), perm)

	return nil
}

// Open opens a file for reading.
func (fs *MockFileSystem) Open(path string) (File, error) {
	path = filepath.Clean(path)

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if err, ok := fs.failOpen[path]; ok {
		return nil, err
	}

	file, exists := fs.files[path]
	if !exists {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}

	if file.isDir {
		return nil, fmt.Errorf("open %s: %w", path, ErrIsDirectory)
	}

	return &mockFileHandle{fs: fs, path: path, reader: bytes.NewReader(file.data)}, nil
}

// Remove removes a file or empty directory.
func (fs *MockFileSystem) Remove(path string) error {
	path = filepath.Clean(path)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	file, exists := fs.files[path]
	if !exists {
		return fmt.Errorf("remove %s: %w", path, os.ErrNotExist)
	}

	if file.isDir && len(fs.childrenLocked(path)) > 0 {
		return fmt.Errorf("remove %s: %w", path, ErrNotEmpty)
	}

	delete(fs.files, path)

	return nil
}

// RemoveAll removes a directory tree. Missing paths are ignored.
func (fs *MockFileSystem) RemoveAll(path string) error {
	path = filepath.Clean(path)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	for _, child := range fs.childrenLocked(path) {
		delete(fs.files, child)
	}

	delete(fs.files, path)

	return nil
}

// Scan returns an iterator over all entries below path, sorted by relative path.
func (fs *MockFileSystem) Scan(path string) FileScanner {
	root := filepath.Clean(path)

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if file, exists := fs.files[root]; !exists || !file.isDir {
		if root != "." {
			return newSliceScanner(nil, fmt.Errorf("scan %s: %w", root, os.ErrNotExist))
		}
	}

	children := fs.childrenLocked(root)
	sort.Strings(children)

	infos := make([]FileInfo, 0, len(children))
	for _, child := range children {
		file := fs.files[child]

		rel, err := filepath.Rel(root, child)
		if err != nil {
			return newSliceScanner(nil, err)
		}

		infos = append(infos, FileInfo{
			RelativePath: rel,
			Size:         int64(len(file.data)),
			ModTime:      file.modTime,
			IsDir:        file.isDir,
		})
	}

	return newSliceScanner(infos, nil)
}

// Stat returns file information.
func (fs *MockFileSystem) Stat(path string) (os.FileInfo, error) {
	path = filepath.Clean(path)

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	file, exists := fs.files[path]
	if !exists {
		return nil, fmt.Errorf("stat %s: %w", path, os.ErrNotExist)
	}

	return &mockFileInfo{
		name:    filepath.Base(path),
		size:    int64(len(file.data)),
		modTime: file.modTime,
		isDir:   file.isDir,
		perm:    file.perm,
	}, nil
}

// childrenLocked returns every path strictly below dir. The lock must be held.
func (fs *MockFileSystem) childrenLocked(dir string) []string {
	var children []string

	for p := range fs.files {
		if p == dir {
			continue
		}

		if dir == "." || strings.HasPrefix(p, dir+string(filepath.Separator)) {
			children = append(children, p)
		}
	}

	return children
}

// mkdirAllLocked creates path and its parents. The lock must be held.
func (fs *MockFileSystem) mkdirAllLocked(path string, perm os.FileMode) {
	if path == "." || path == string(filepath.Separator) {
		return
	}

	fs.mkdirAllLocked(filepath.Dir(path), perm)

	if _, exists := fs.files[path]; !exists {
		fs.files[path] = &mockFile{
			path:    path,
			modTime: time.Now(),
			isDir:   true,
			perm:    perm,
		}
	}
}

// Helper methods for testing

// AddFile adds a file to the mock filesystem with the given content and modtime.
func (fs *MockFileSystem) AddFile(path string, content []byte, modTime time.Time) {
	path = filepath.Clean(path)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.mkdirAllLocked(filepath.Dir(path), 0o755)

	fs.files[path] = &mockFile{
		path:    path,
		data:    append([]byte(nil), content...),
		modTime: modTime,
		perm:    0o644,
	}
}

// Exists checks if a path exists in the mock filesystem.
func (fs *MockFileSystem) Exists(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	_, exists := fs.files[filepath.Clean(path)]

	return exists
}

// FailCreate makes every later Create of path return err.
func (fs *MockFileSystem) FailCreate(path string, err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.failCreate[filepath.Clean(path)] = err
}

// FailOpen makes every later Open of path return err.
func (fs *MockFileSystem) FailOpen(path string, err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.failOpen[filepath.Clean(path)] = err
}

// GetFile retrieves a file's content from the mock filesystem.
func (fs *MockFileSystem) GetFile(path string) ([]byte, error) {
	path = filepath.Clean(path)

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	file, exists := fs.files[path]
	if !exists {
		return nil, fmt.Errorf("read %s: %w", path, os.ErrNotExist)
	}

	if file.isDir {
		return nil, fmt.Errorf("read %s: %w", path, ErrIsDirectory)
	}

	return append([]byte(nil), file.data...), nil
}

// ListFiles returns all regular file paths in the mock filesystem, sorted.
func (fs *MockFileSystem) ListFiles() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	paths := make([]string, 0, len(fs.files))
	for p, file := range fs.files {
		if !file.isDir {
			paths = append(paths, p)
		}
	}

	sort.Strings(paths)

	return paths
}
