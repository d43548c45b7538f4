// Package device provides the backing storage containers a DiskManager
// reads pages from and writes pages to.
package device

import (
	"errors"
	"io"
	"io/fs"
)

var (
	// ErrClosed is returned by every operation on a closed device.
	ErrClosed         = fs.ErrClosed
	ErrIsDir          = errors.New("device path is a directory")
	ErrNegativeOffset = errors.New("negative offset")
	ErrTooLarge       = errors.New("device size limit exceeded")
)

// Device is a persistent, randomly addressable byte container.
//
// ReadAt and WriteAt follow the os.File contract: ReadAt returns n < len(p)
// only together with a non-nil error (io.EOF at the end of the container),
// and WriteAt past the end extends the container, the gap reading as zeros.
type Device interface {
	io.ReaderAt
	io.WriterAt

	// Size returns the current length of the container in bytes.
	Size() (int64, error)
	// Sync flushes written data to stable storage.
	Sync() error
	Close() error
}
