package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/takeuchi-shogo/go-example-pagestore/internal/device"
	"github.com/takeuchi-shogo/go-example-pagestore/internal/storage"
	"github.com/takeuchi-shogo/go-example-pagestore/pkg/repl"
)

func main() {
	dataDir := "data"

	path := flag.String("path", filepath.Join(dataDir, "heap.db"), "heap file path (directory for -backend badger)")
	backend := flag.String("backend", "file", "backing storage: file, badger or memory")
	flag.Parse()

	dm, name, err := openStore(*backend, *path)
	if err != nil {
		log.Fatalf("Failed to open page store: %v", err)
	}

	store := storage.NewSyncDiskManager(dm)
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Failed to close page store: %v", err)
		}
	}()

	// REPL を起動
	repl := repl.NewRepl(os.Stdin, os.Stdout, store, name)
	repl.Run()
}

func openStore(backend, path string) (*storage.DiskManager, string, error) {
	switch backend {
	case "file":
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, "", err
		}
		dm, err := storage.Open(path)
		return dm, "file " + path, err
	case "badger":
		dev, err := device.OpenBadger(path)
		if err != nil {
			return nil, "", err
		}
		dm, err := storage.NewDiskManager(dev)
		if err != nil {
			dev.Close()
			return nil, "", err
		}
		return dm, "badger " + path, nil
	case "memory":
		dm, err := storage.NewDiskManager(device.NewMemory(nil))
		return dm, "memory", err
	default:
		return nil, "", fmt.Errorf("unknown backend %q", backend)
	}
}
