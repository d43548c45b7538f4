package device

import (
	"os"

	"golang.org/x/sys/unix"
)

// syncFile flushes file data without forcing a metadata-only update such as
// the modification time.
func syncFile(f *os.File) error {
	rc, err := f.SyscallConn()
	if err != nil {
		return err
	}

	var syncErr error
	if err := rc.Control(func(fd uintptr) {
		syncErr = unix.Fdatasync(int(fd))
	}); err != nil {
		return err
	}
	if syncErr != nil {
		return &os.PathError{Op: "fdatasync", Path: f.Name(), Err: syncErr}
	}
	return nil
}
