package storage

import "fmt"

// PageSize is the fixed size of every page in bytes.
const PageSize = 4096

// PageID names a page by its position in the heap file.
type PageID uint64

// InvalidPageID is never issued by Allocate; higher layers use it as "no page".
const InvalidPageID = PageID(^uint64(0))

// Valid reports whether id is not InvalidPageID.
func (id PageID) Valid() bool {
	return id != InvalidPageID
}

// Offset returns the byte offset of the page in the heap file.
func (id PageID) Offset() int64 {
	return int64(id) * PageSize
}

type Page struct {
	id   PageID
	data []byte
}

// NewPage creates a new Page with the given ID over data.
// data must be exactly PageSize bytes long.
func NewPage(id PageID, data []byte) *Page {
	mustPageSized(data)
	return &Page{
		id:   id,
		data: data,
	}
}

// ID returns the page identifier.
func (p *Page) ID() PageID {
	return p.id
}

// Data returns the page contents. The slice aliases the page buffer.
func (p *Page) Data() []byte {
	return p.data
}

// GetOffset returns the offset of the Page in the file.
func (p *Page) GetOffset() int64 {
	return p.id.Offset()
}

// mustPageSized panics when buf is not exactly one page long.
// A mismatched buffer is a caller bug, not an I/O failure.
func mustPageSized(buf []byte) {
	if len(buf) != PageSize {
		panic(fmt.Sprintf("storage: page buffer is %d bytes, want %d", len(buf), PageSize))
	}
}
