// Package snapshot finds saved Wealthsimple activity pages and parses them.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/wsynab/wsynab/internal/dom"
)

// ProcessedDir is the subdirectory exported snapshots are moved into.
const ProcessedDir = "processed"

var extensions = []string{".html", ".htm"}

// FileInfo describes a snapshot file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// IsSnapshot reports whether name has an HTML extension.
func IsSnapshot(name string) bool {
	return slices.Contains(extensions, strings.ToLower(filepath.Ext(name)))
}

// Scan returns the snapshots directly inside dir, sorted by name. A missing
// dir yields no files.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !IsSnapshot(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// Load parses the snapshot at path.
func Load(path string) (dom.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	root, err := dom.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", filepath.Base(path), err)
	}
	return root, nil
}

// MarkProcessed moves dir/fileName into dir/processed/.
func MarkProcessed(dir, fileName string) error {
	src := filepath.Join(dir, fileName)
	dstDir := filepath.Join(dir, ProcessedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
