package fsutil

import (
	"path/filepath"
	"strings"

	"github.com/arodd/go-commoncode/internal/paths"
)

// SafeRelPath maps an untrusted path, such as an archive entry name, to a
// relative OS path that stays under any destination root it is joined to.
// Traversal segments are neutralized rather than rejected.
func SafeRelPath(raw string, opts ...paths.Option) string {
	return filepath.FromSlash(paths.SafePath(raw, opts...))
}

// AsPosixPath returns location with Windows separators turned into slashes.
func AsPosixPath(location string) string {
	return strings.ReplaceAll(location, `\`, "/")
}

// ResourceName returns the last path segment of path: the file or directory
// name. Trailing separators are ignored.
func ResourceName(path string) string {
	path = strings.TrimRight(AsPosixPath(path), "/")
	return path[strings.LastIndexByte(path, '/')+1:]
}

// ParentDirectory returns the parent directory of path with a trailing slash,
// or "/" for a top level name.
func ParentDirectory(path string) string {
	path = strings.TrimRight(AsPosixPath(path), "/")
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return "/"
	}
	left := strings.TrimRight(path[:idx+1], "/")
	if left == "" {
		return "/"
	}
	return left + "/"
}

// Splitext returns the base name and extension of path. Directories, written
// with a trailing slash, have no extension. A dotfile with no other dot is all
// extension.
func Splitext(path string) (string, string) {
	if path == "" {
		return "", ""
	}

	path = AsPosixPath(path)
	name := ResourceName(path)
	if strings.HasSuffix(path, "/") {
		return name, ""
	}
	if strings.HasPrefix(name, ".") && !strings.Contains(name[1:], ".") {
		return "", name
	}

	// Leading dots never start an extension.
	lead := len(name) - len(strings.TrimLeft(name, "."))
	idx := strings.LastIndexByte(name[lead:], '.')
	if idx < 0 {
		return name, ""
	}
	idx += lead
	return name[:idx], name[idx:]
}

// FileBaseName returns the file name of path minus its extension.
func FileBaseName(path string) string {
	base, _ := Splitext(path)
	return base
}

// FileExtension returns the extension of path, including the dot.
func FileExtension(path string) string {
	_, ext := Splitext(path)
	return ext
}
