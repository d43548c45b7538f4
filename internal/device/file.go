package device

import (
	"fmt"
	"os"
)

// File is a Device backed by a single file on the local filesystem.
type File struct {
	f    *os.File
	path string
}

// OpenFile opens the file at path for reading and writing, creating it if it
// does not exist.
func OpenFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if fi.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrIsDir)
	}

	return &File{f: f, path: path}, nil
}

// Path returns the path the file was opened with.
func (d *File) Path() string {
	return d.path
}

// ReadAt reads len(p) bytes from the file at off.
func (d *File) ReadAt(p []byte, off int64) (int, error) {
	return d.f.ReadAt(p, off)
}

// WriteAt writes p to the file at off, extending the file if needed.
func (d *File) WriteAt(p []byte, off int64) (int, error) {
	return d.f.WriteAt(p, off)
}

// Size returns the current file length.
func (d *File) Size() (int64, error) {
	fi, err := d.f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// Sync flushes file data to stable storage.
func (d *File) Sync() error {
	return syncFile(d.f)
}

// Close closes the underlying file.
func (d *File) Close() error {
	return d.f.Close()
}
