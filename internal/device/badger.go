package device

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// ChunkSize is the unit in which Badger stores the container contents.
const ChunkSize = 4096

var sizeKey = []byte("meta:size")

// Badger is a Device that keeps its contents in a Badger key-value store as
// fixed-size chunks. Chunks that were never written read as zeros.
type Badger struct {
	db     *badger.DB
	mu     sync.Mutex
	size   int64
	closed bool
}

// OpenBadger opens (or creates) a Badger-backed device in dir.
func OpenBadger(dir string) (*Badger, error) {
	return openBadger(badger.DefaultOptions(dir).WithLogger(nil))
}

// OpenBadgerInMemory returns a Badger-backed device that keeps nothing on disk.
func OpenBadgerInMemory() (*Badger, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
}

func openBadger(opts badger.Options) (*Badger, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	d := &Badger{db: db}
	if err := d.loadSize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("load size: %w", err)
	}
	return d, nil
}

func (d *Badger) loadSize() error {
	return d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sizeKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("corrupt size record: %d bytes", len(val))
			}
			d.size = int64(binary.BigEndian.Uint64(val))
			return nil
		})
	})
}

func chunkKey(idx int64) []byte {
	key := make([]byte, 6+8)
	copy(key, "chunk:")
	binary.BigEndian.PutUint64(key[6:], uint64(idx))
	return key
}

// ReadAt reads len(p) bytes at off; chunks never written read as zeros.
func (d *Badger) ReadAt(p []byte, off int64) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrNegativeOffset
	}
	if off >= d.size {
		return 0, io.EOF
	}

	n := int(min(int64(len(p)), d.size-off))
	err := d.db.View(func(txn *badger.Txn) error {
		for pos := 0; pos < n; {
			abs := off + int64(pos)
			start := int(abs % ChunkSize)
			dst := p[pos:n]

			item, err := txn.Get(chunkKey(abs / ChunkSize))
			if errors.Is(err, badger.ErrKeyNotFound) {
				k := min(len(dst), ChunkSize-start)
				clear(dst[:k])
				pos += k
				continue
			}
			if err != nil {
				return err
			}

			var k int
			if err := item.Value(func(val []byte) error {
				k = copy(dst, val[start:])
				return nil
			}); err != nil {
				return err
			}
			pos += k
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("read chunks: %w", err)
	}

	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt writes p at off in one Badger transaction.
func (d *Badger) WriteAt(p []byte, off int64) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrNegativeOffset
	}
	if len(p) == 0 {
		return 0, nil
	}

	end := off + int64(len(p))
	err := d.db.Update(func(txn *badger.Txn) error {
		for pos := 0; pos < len(p); {
			abs := off + int64(pos)
			idx := abs / ChunkSize

			chunk, err := loadChunk(txn, idx)
			if err != nil {
				return err
			}
			pos += copy(chunk[abs%ChunkSize:], p[pos:])
			if err := txn.Set(chunkKey(idx), chunk); err != nil {
				return err
			}
		}

		if end > d.size {
			buf := make([]byte, 8)
			binary.BigEndian.PutUint64(buf, uint64(end))
			return txn.Set(sizeKey, buf)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("write chunks: %w", err)
	}

	d.size = max(d.size, end)
	return len(p), nil
}

// loadChunk returns a private, full-size copy of chunk idx.
func loadChunk(txn *badger.Txn, idx int64) ([]byte, error) {
	chunk := make([]byte, ChunkSize)

	item, err := txn.Get(chunkKey(idx))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return chunk, nil
	}
	if err != nil {
		return nil, err
	}

	err = item.Value(func(val []byte) error {
		copy(chunk, val)
		return nil
	})
	return chunk, err
}

// Size returns the logical length of the container.
func (d *Badger) Size() (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, ErrClosed
	}
	return d.size, nil
}

// Sync flushes Badger's write-ahead data to disk.
func (d *Badger) Sync() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	return d.db.Sync()
}

// Close closes the Badger database.
func (d *Badger) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	d.closed = true
	return d.db.Close()
}
