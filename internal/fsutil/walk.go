package fsutil

import (
	"errors"
	"os"
	"path/filepath"
)

// SkipDir may be returned by a WalkFunc to skip the subdirectories of the
// directory it was called for.
var SkipDir = errors.New("skip this directory")

// IgnoreFunc reports whether a location should be skipped. An ignored
// directory is pruned with its whole subtree.
type IgnoreFunc func(location string) bool

// IgnoreNothing is the default IgnoreFunc.
func IgnoreNothing(string) bool { return false }

// WalkFunc receives a directory with the names of its directories and files.
type WalkFunc func(dir string, dirs, files []string) error

// Walk walks location top-down. Each directory is listed before any of its
// subdirectories is visited. Symlinks are never followed and, like special
// files such as FIFOs or devices, are always skipped. When location is a
// regular file, fn is called once with its parent and the file name.
func Walk(location string, ignored IgnoreFunc, fn WalkFunc) error {
	if ignored == nil {
		ignored = IgnoreNothing
	}
	if ignored(location) {
		return nil
	}

	info, err := os.Lstat(location)
	if err != nil {
		return err
	}
	switch {
	case info.Mode().IsRegular():
		return fn(filepath.Dir(location), nil, []string{filepath.Base(location)})
	case info.IsDir():
		return walkDir(location, ignored, fn)
	default:
		return nil
	}
}

func walkDir(dir string, ignored IgnoreFunc, fn WalkFunc) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(entries))
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		loc := filepath.Join(dir, entry.Name())
		if ignored(loc) {
			continue
		}
		switch mode := entry.Type(); {
		case mode.IsDir():
			dirs = append(dirs, entry.Name())
		case mode.IsRegular():
			files = append(files, entry.Name())
		}
	}

	if err := fn(dir, dirs, files); err != nil {
		if errors.Is(err, SkipDir) {
			return nil
		}
		return err
	}

	for _, name := range dirs {
		if err := walkDir(filepath.Join(dir, name), ignored, fn); err != nil {
			return err
		}
	}
	return nil
}

// Files returns the regular files under location, recursively, in walk order.
func Files(location string, ignored IgnoreFunc) ([]string, error) {
	out := make([]string, 0, 16)
	err := Walk(location, ignored, func(dir string, _, files []string) error {
		for _, name := range files {
			out = append(out, filepath.Join(dir, name))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
