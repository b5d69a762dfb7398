// Package archive extracts RAR, ZIP and TAR archives into a directory. Every
// member name is rewritten with paths.SafePath, so hostile names such as
// "../../etc/passwd" land inside the destination instead of failing the run.
package archive

import (
	"context"
	"fmt"
	"os"
)

// Options controls how archives are opened and written.
type Options struct {
	// PosixOnly keeps characters that are legal on POSIX but not on Windows.
	PosixOnly bool
	// Flatten writes every file at the destination root.
	Flatten bool
	// AllowSymlinks writes symlink members whose target stays inside the
	// destination. They are skipped otherwise.
	AllowSymlinks bool
	// Verbatim applies member permission bits as stored.
	Verbatim     bool
	MaxDictBytes int64
	Password     string
	// Passwords are tried in order when the archive turns out to be encrypted
	// and Password is empty or wrong.
	Passwords []string
}

// Entry is a listing row.
type Entry struct {
	Name      string
	IsDir     bool
	Size      int64
	Encrypted bool
}

var openRARReader openRARFunc = openRAR

// Extract writes the members of archivePath below destDir, creating it when
// missing. ctx is checked between members.
func Extract(ctx context.Context, archivePath, destDir string, opts Options) (*Result, error) {
	format, err := Detect(archivePath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create destination %q: %w", destDir, err)
	}

	if format == FormatRAR {
		return extractRARWithPasswords(ctx, openRARReader, archivePath, destDir, opts)
	}

	result := &Result{Volumes: []string{archivePath}}
	w := newWriter(destDir, opts, result)
	switch format {
	case FormatZIP:
		err = extractZip(ctx, archivePath, w)
	default:
		err = extractTar(ctx, archivePath, format, w)
	}
	if err != nil {
		return nil, fmt.Errorf("extract %q: %w", archivePath, err)
	}
	return result, nil
}

// List returns the members of archivePath without extracting them. Names are
// reported as stored.
func List(archivePath string, opts Options) ([]Entry, error) {
	format, err := Detect(archivePath)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatRAR:
		return listRAR(archivePath, opts)
	case FormatZIP:
		return listZip(archivePath)
	default:
		return listTar(archivePath, format)
	}
}
