// Package scanner walks a directory tree for request files.
package scanner

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Scan walks the subtree under root and calls callback with the contents
// of every file whose name ends in suffix. Entries whose name begins with
// "." are skipped, directories included. Scan returns once all callbacks
// have completed; callbacks run on a single worker goroutine.
func Scan(
	root string,
	suffix string,
	callback func(path string, document []byte),
) error {
	fileCh := make(chan string, 100)
	var wg sync.WaitGroup

	// worker goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		for path := range fileCh {
			data, err := os.ReadFile(path)
			if err != nil {
				log.Println("scanner: read error:", path, err)
				continue
			}
			callback(path, data)
		}
	}()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}
		fileCh <- path
		return nil
	})

	// no more files to send
	close(fileCh)
	// wait for the worker to finish consuming and calling back
	wg.Wait()
	return err
}
