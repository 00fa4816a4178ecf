package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// Discover lists the clips directly inside inputDir whose extension equals
// ext, compared case-insensitively. Subdirectories are not searched and
// hidden (dot-prefixed) entries are ignored. Symlinks to regular files are
// accepted. os.ReadDir returns entries sorted by filename, so the result is
// in lexicographic order.
func Discover(inputDir, ext string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, err
	}
	files := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		name := e.Name()
		if strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ext) {
			return "", false
		}
		path := filepath.Join(inputDir, name)
		return path, isRegular(e, path)
	})
	return files, nil
}

func isRegular(e os.DirEntry, path string) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// OutputPath returns where the composite of input is written: the same
// file name inside outputDir.
func OutputPath(outputDir, input string) string {
	return filepath.Join(outputDir, filepath.Base(input))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
