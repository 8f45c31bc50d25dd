// Package fsutil abstracts the file access of hit readers and result
// writers so they can run against memory in tests.
package fsutil

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileSystem is the file access hitio needs.
// Use OSFileSystem for production; MemoryFileSystem for testing.
type FileSystem interface {
	// Open opens the named file for reading.
	Open(name string) (io.ReadCloser, error)

	// Create creates or truncates the named file.
	Create(name string) (io.WriteCloser, error)
}

// OSFileSystem implements FileSystem using the os package.
type OSFileSystem struct{}

// Open opens the named file.
func (OSFileSystem) Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

// Create creates or truncates the named file.
func (OSFileSystem) Create(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// MemoryFileSystem is an in-memory FileSystem. Written files become
// visible when their writer is closed.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryFileSystem creates an empty in-memory filesystem.
func NewMemoryFileSystem() *MemoryFileSystem {
	return &MemoryFileSystem{files: make(map[string][]byte)}
}

// AddFile stores data under name, replacing any existing file.
func (m *MemoryFileSystem) AddFile(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filepath.Clean(name)] = bytes.Clone(data)
}

// ReadFile returns a copy of the named file's contents.
func (m *MemoryFileSystem) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = filepath.Clean(name)
	data, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	return bytes.Clone(data), nil
}

// Open opens a file for reading.
func (m *MemoryFileSystem) Open(name string) (io.ReadCloser, error) {
	data, err := m.ReadFile(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: filepath.Clean(name), Err: fs.ErrNotExist}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Create creates or truncates a file.
func (m *MemoryFileSystem) Create(name string) (io.WriteCloser, error) {
	name = filepath.Clean(name)
	m.AddFile(name, nil)
	return &memFileWriter{fs: m, name: name}, nil
}

// memFileWriter buffers writes until Close.
type memFileWriter struct {
	fs   *MemoryFileSystem
	name string
	buf  bytes.Buffer
}

func (f *memFileWriter) Write(p []byte) (int, error) {
	return f.buf.Write(p)
}

func (f *memFileWriter) Close() error {
	f.fs.AddFile(f.name, f.buf.Bytes())
	return nil
}

var (
	_ FileSystem = OSFileSystem{}
	_ FileSystem = (*MemoryFileSystem)(nil)
)
