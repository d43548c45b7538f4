package storage

import (
	"errors"
	"fmt"
)

var (
	ErrClosed        = errors.New("disk manager is closed")
	ErrInvalidPageID = errors.New("invalid page ID")
)

// IOError is the single error kind returned by DiskManager. It records the
// operation that failed and wraps the underlying storage failure; use
// errors.Is or errors.As to inspect the cause.
type IOError struct {
	Op     string // open, stat, read, write, sync, close
	Path   string // heap file path, empty for non-file devices
	PageID PageID // InvalidPageID when the operation is not page scoped
	Err    error
}

func (e *IOError) Error() string {
	msg := "storage: " + e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.PageID.Valid() {
		msg += fmt.Sprintf(" page %d", e.PageID)
	}
	return msg + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}
