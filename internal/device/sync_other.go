//go:build !linux

package device

import "os"

func syncFile(f *os.File) error {
	return f.Sync()
}
