package storage

import (
	"errors"
	"io"
	"math"

	"github.com/takeuchi-shogo/go-example-pagestore/internal/device"
)

// maxPageID is the largest ID whose offset still fits in an int64.
const maxPageID = PageID(math.MaxInt64/PageSize) - 1

// DiskManager reads and writes fixed-size pages of a heap file and issues
// the IDs that name them.
//
// The heap file has no header: page N occupies bytes
// [N*PageSize, (N+1)*PageSize). The next ID to issue is not stored anywhere;
// it is recomputed from the file length when the heap file is opened, so
// writing past the last allocated page makes the next Open skip IDs.
//
// A DiskManager is not safe for concurrent use. Wrap it in a SyncDiskManager
// when several goroutines share one heap file.
type DiskManager struct {
	heap       device.Device
	path       string
	nextPageID PageID
	closed     bool
}

// Open opens the heap file at path for reading and writing, creating it if
// it does not exist.
func Open(path string) (*DiskManager, error) {
	heap, err := device.OpenFile(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, PageID: InvalidPageID, Err: err}
	}

	dm, err := newDiskManager(heap, path)
	if err != nil {
		heap.Close()
		return nil, err
	}
	return dm, nil
}

// NewDiskManager creates a DiskManager over an already opened device. The
// DiskManager takes ownership of heap only when it returns without error.
func NewDiskManager(heap device.Device) (*DiskManager, error) {
	return newDiskManager(heap, "")
}

func newDiskManager(heap device.Device, path string) (*DiskManager, error) {
	size, err := heap.Size()
	if err != nil {
		return nil, &IOError{Op: "stat", Path: path, PageID: InvalidPageID, Err: err}
	}

	// 末尾の端数はページとして数えない
	return &DiskManager{
		heap:       heap,
		path:       path,
		nextPageID: PageID(size / PageSize),
	}, nil
}

// Path returns the heap file path, or "" when built with NewDiskManager.
func (dm *DiskManager) Path() string {
	return dm.path
}

// NumPages returns the next page ID Allocate will issue.
func (dm *DiskManager) NumPages() PageID {
	return dm.nextPageID
}

// Allocate reserves a new page ID. It touches nothing on disk: the page
// only comes into existence when it is first written.
func (dm *DiskManager) Allocate() PageID {
	id := dm.nextPageID
	dm.nextPageID++
	return id
}

// Read fills dst with the contents of page id. dst must be exactly PageSize
// bytes long. Reading a page that extends past the end of the heap file
// fails with an error wrapping io.ErrUnexpectedEOF.
func (dm *DiskManager) Read(id PageID, dst []byte) error {
	mustPageSized(dst)
	if err := dm.check("read", id); err != nil {
		return err
	}

	n, err := dm.heap.ReadAt(dst, id.Offset())
	if n == PageSize {
		// ReadAt may report io.EOF together with a full page at the end of file
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return dm.ioError("read", id, err)
}

// Write stores src as the contents of page id, extending the heap file when
// the page lies past its end. src must be exactly PageSize bytes long.
func (dm *DiskManager) Write(id PageID, src []byte) error {
	mustPageSized(src)
	if err := dm.check("write", id); err != nil {
		return err
	}

	n, err := dm.heap.WriteAt(src, id.Offset())
	if err == nil && n < PageSize {
		err = io.ErrShortWrite
	}
	if err != nil {
		return dm.ioError("write", id, err)
	}
	return nil
}

// ReadPage reads the Page with the given ID into data.
func (dm *DiskManager) ReadPage(id PageID, data []byte) (*Page, error) {
	page := NewPage(id, data)
	if err := dm.Read(id, page.data); err != nil {
		return nil, err
	}
	return page, nil
}

// WritePage writes the Page to the heap file.
func (dm *DiskManager) WritePage(page *Page) error {
	return dm.Write(page.id, page.data)
}

// Sync flushes written pages to stable storage. No other method syncs.
func (dm *DiskManager) Sync() error {
	if dm.closed {
		return dm.ioError("sync", InvalidPageID, ErrClosed)
	}
	if err := dm.heap.Sync(); err != nil {
		return dm.ioError("sync", InvalidPageID, err)
	}
	return nil
}

// Close closes the DiskManager and the underlying device.
func (dm *DiskManager) Close() error {
	if dm.closed {
		return dm.ioError("close", InvalidPageID, ErrClosed)
	}
	dm.closed = true

	if err := dm.heap.Close(); err != nil {
		return dm.ioError("close", InvalidPageID, err)
	}
	return nil
}

func (dm *DiskManager) check(op string, id PageID) error {
	if dm.closed {
		return dm.ioError(op, id, ErrClosed)
	}
	if id > maxPageID {
		return dm.ioError(op, id, ErrInvalidPageID)
	}
	return nil
}

func (dm *DiskManager) ioError(op string, id PageID, err error) error {
	return &IOError{Op: op, Path: dm.path, PageID: id, Err: err}
}
