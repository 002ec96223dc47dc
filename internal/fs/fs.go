package fs

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileInfo represents file metadata
type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// FileSystem is an abstraction over filesystem operations
type FileSystem interface {
	// ReadFile reads the entire file
	ReadFile(ctx context.Context, path string) ([]byte, error)
	// WriteFile writes data to a file
	WriteFile(ctx context.Context, path string, data []byte) error
	// Stat returns file information
	Stat(ctx context.Context, path string) (*FileInfo, error)
	// ListDir lists directory contents
	ListDir(ctx context.Context, path string) ([]*FileInfo, error)
	// Exists checks if a file exists
	Exists(ctx context.Context, path string) (bool, error)
	// Delete removes a file
	Delete(ctx context.Context, path string) error
	// MkdirAll creates a directory and all parent directories
	MkdirAll(ctx context.Context, path string, perm os.FileMode) error
}

// OSFS is the real filesystem implementation.
type OSFS struct{}

// NewOSFS creates a filesystem backed by the OS.
func NewOSFS() *OSFS {
	return &OSFS{}
}

func (o *OSFS) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (o *OSFS) WriteFile(ctx context.Context, path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

func (o *OSFS) Stat(ctx context.Context, path string) (*FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &FileInfo{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}, nil
}

func (o *OSFS) ListDir(ctx context.Context, path string) ([]*FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	infos := make([]*FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, &FileInfo{
			Path:    filepath.Join(path, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			IsDir:   entry.IsDir(),
		})
	}
	return infos, nil
}

func (o *OSFS) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (o *OSFS) Delete(ctx context.Context, path string) error {
	return os.Remove(path)
}

func (o *OSFS) MkdirAll(ctx context.Context, path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// MockFS is an in-memory filesystem for testing
type MockFS struct {
	files map[string][]byte
	dirs  map[string]bool
	mu    sync.RWMutex
}

func NewMockFS() *MockFS {
	return &MockFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

func (mfs *MockFS) ReadFile(ctx context.Context, path string) ([]byte, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	data, ok := mfs.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (mfs *MockFS) WriteFile(ctx context.Context, path string, data []byte) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.files[path] = data

	// Automatically create parent directories
	dir := filepath.Dir(path)
	for dir != "." && dir != "/" && dir != "" {
		mfs.dirs[dir] = true
		dir = filepath.Dir(dir)
	}
	mfs.dirs["."] = true

	return nil
}

func (mfs *MockFS) Stat(ctx context.Context, path string) (*FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	if mfs.dirs[path] {
		return &FileInfo{Path: path, ModTime: time.Now(), IsDir: true}, nil
	}

	data, ok := mfs.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return &FileInfo{
		Path:    path,
		Size:    int64(len(data)),
		ModTime: time.Now(),
	}, nil
}

func (mfs *MockFS) ListDir(ctx context.Context, path string) ([]*FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	infos := make([]*FileInfo, 0)
	for p, data := range mfs.files {
		if filepath.Dir(p) == path {
			infos = append(infos, &FileInfo{
				Path:    p,
				Size:    int64(len(data)),
				ModTime: time.Now(),
			})
		}
	}
	return infos, nil
}

func (mfs *MockFS) Exists(ctx context.Context, path string) (bool, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	if _, ok := mfs.files[path]; ok {
		return true, nil
	}
	return mfs.dirs[path], nil
}

func (mfs *MockFS) Delete(ctx context.Context, path string) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	if _, ok := mfs.files[path]; !ok {
		return os.ErrNotExist
	}
	delete(mfs.files, path)
	return nil
}

func (mfs *MockFS) MkdirAll(ctx context.Context, path string, perm os.FileMode) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	for path != "." && path != "/" && path != "" {
		mfs.dirs[path] = true
		path = filepath.Dir(path)
	}
	return nil
}
