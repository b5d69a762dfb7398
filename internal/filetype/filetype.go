// Package filetype answers low level questions about a location: its type,
// link target, modification date and the size or file count of a tree.
package filetype

import (
	"io/fs"
	"os"

	"github.com/arodd/go-commoncode/internal/fsutil"
)

// Type returns the type of location, or "" when it does not exist. Symlinks
// are reported as links and are not followed. The short form is a single
// letter: f, d, l or s.
func Type(location string, short bool) string {
	info, err := os.Lstat(location)
	if err != nil {
		return ""
	}

	mode := info.Mode()
	var long string
	switch {
	case mode&fs.ModeSymlink != 0:
		long = "link"
	case mode.IsRegular():
		long = "file"
	case mode.IsDir():
		long = "directory"
	default:
		long = "special"
	}
	if short {
		return long[:1]
	}
	return long
}

// IsRegular reports whether location is a regular file or a directory, and
// not a symlink or a special file.
func IsRegular(location string) bool {
	info, err := os.Lstat(location)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() || info.IsDir()
}

// IsSpecial reports whether location is anything but a regular file or a
// directory: a link, broken or not, a FIFO, a socket, a device or a missing
// path.
func IsSpecial(location string) bool {
	return !IsRegular(location)
}

// LinkTarget returns the raw target of a symlink.
func LinkTarget(location string) (string, bool) {
	target, err := os.Readlink(location)
	if err != nil {
		return "", false
	}
	return target, true
}

// LastModifiedDate returns the UTC modification date of a regular file as
// YYYY-MM-DD. Other types get an empty string.
func LastModifiedDate(location string) string {
	info, err := os.Lstat(location)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return info.ModTime().UTC().Format("2006-01-02")
}

// FileCount returns 1 for a regular file or the number of regular files under
// a directory. Links and special files are not counted.
func FileCount(location string) (int64, error) {
	return count(location, func(fs.FileInfo) int64 { return 1 })
}

// Size returns the size of a regular file or the cumulative size of the
// regular files under a directory.
func Size(location string) (int64, error) {
	return count(location, func(info fs.FileInfo) int64 { return info.Size() })
}

func count(location string, value func(fs.FileInfo) int64) (int64, error) {
	if !IsRegular(location) {
		return 0, nil
	}

	files, err := fsutil.Files(location, nil)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, file := range files {
		info, err := os.Lstat(file)
		if err != nil {
			return 0, err
		}
		total += value(info)
	}
	return total, nil
}
