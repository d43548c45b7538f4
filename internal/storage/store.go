package storage

import "sync"

// PageStore is the page I/O surface that higher layers build on.
type PageStore interface {
	Allocate() PageID
	NumPages() PageID
	Read(id PageID, dst []byte) error
	Write(id PageID, src []byte) error
	ReadPage(id PageID, data []byte) (*Page, error)
	WritePage(page *Page) error
	Sync() error
	Close() error
}

var (
	_ PageStore = (*DiskManager)(nil)
	_ PageStore = (*SyncDiskManager)(nil)
)

// SyncDiskManager serializes every call to a DiskManager behind one mutex so
// that it can be shared between goroutines.
type SyncDiskManager struct {
	mu sync.Mutex
	dm *DiskManager
}

// NewSyncDiskManager wraps dm. dm must not be used directly afterwards.
func NewSyncDiskManager(dm *DiskManager) *SyncDiskManager {
	return &SyncDiskManager{dm: dm}
}

// Allocate reserves a new page ID.
func (s *SyncDiskManager) Allocate() PageID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dm.Allocate()
}

// NumPages returns the next page ID Allocate will issue.
func (s *SyncDiskManager) NumPages() PageID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dm.NumPages()
}

// Read fills dst with the contents of page id.
func (s *SyncDiskManager) Read(id PageID, dst []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dm.Read(id, dst)
}

// Write stores src as the contents of page id.
func (s *SyncDiskManager) Write(id PageID, src []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dm.Write(id, src)
}

// ReadPage reads the Page with the given ID into data.
func (s *SyncDiskManager) ReadPage(id PageID, data []byte) (*Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dm.ReadPage(id, data)
}

// WritePage writes the Page to the heap file.
func (s *SyncDiskManager) WritePage(page *Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dm.WritePage(page)
}

// Sync flushes written pages to stable storage.
func (s *SyncDiskManager) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dm.Sync()
}

// Close closes the wrapped DiskManager.
func (s *SyncDiskManager) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dm.Close()
}
