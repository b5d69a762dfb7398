package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/arodd/go-commoncode/internal/fsutil"
	"github.com/arodd/go-commoncode/internal/paths"
)

const (
	extractCopyBufferSize = 256 * 1024
	maxSymlinkTargetBytes = 4096
)

type entryKind int

const (
	kindFile entryKind = iota
	kindDir
	kindSymlink
	kindHardlink
	kindOther
)

// entry is one archive member, independent of the container format.
type entry struct {
	name     string
	kind     entryKind
	mode     fs.FileMode
	size     int64
	modTime  time.Time
	linkname string
	body     io.Reader
}

// entryIterator walks the members of an opened archive. The body of an entry
// is only valid until the next call to next.
type entryIterator interface {
	next() (*entry, error)
}

// Skipped records a member that was not written.
type Skipped struct {
	Name   string
	Reason string
}

// Result summarizes an extraction. Paths are relative to the destination and
// use forward slashes.
type Result struct {
	Files   []string
	Dirs    []string
	Links   []string
	Renamed map[string]string
	Skipped []Skipped
	Volumes []string
}

func (r *Result) rename(raw, safe string) {
	if cleanRaw(raw) == safe {
		return
	}
	if r.Renamed == nil {
		r.Renamed = make(map[string]string)
	}
	r.Renamed[raw] = safe
}

func (r *Result) skip(name, format string, args ...any) {
	r.Skipped = append(r.Skipped, Skipped{Name: name, Reason: fmt.Sprintf(format, args...)})
}

func cleanRaw(raw string) string {
	cleaned := path.Clean(strings.ReplaceAll(raw, `\`, "/"))
	return strings.Trim(cleaned, "/")
}

// MemberPath returns the relative POSIX path a member named name is written
// to.
func MemberPath(name string, posixOnly bool) string {
	return paths.SafePath(name, nameOptions(posixOnly)...)
}

func nameOptions(posixOnly bool) []paths.Option {
	if posixOnly {
		return []paths.Option{paths.PosixOnly()}
	}
	return nil
}

type writer struct {
	root     string
	realRoot string
	opts     Options
	buf      []byte
	result   *Result

	// links holds the relative paths of symlinks written so far.
	links map[string]bool
}

func newWriter(root string, opts Options, result *Result) *writer {
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		realRoot = root
	}
	return &writer{
		root:     root,
		realRoot: realRoot,
		opts:     opts,
		buf:      make([]byte, extractCopyBufferSize),
		result:   result,
		links:    make(map[string]bool),
	}
}

func (w *writer) writeAll(ctx context.Context, it entryIterator) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		e, err := it.next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := w.write(e); err != nil {
			return err
		}
	}
}

func (w *writer) write(e *entry) error {
	rel := MemberPath(e.name, w.opts.PosixOnly)
	if w.opts.Flatten {
		if e.kind == kindDir {
			return nil
		}
		rel = path.Base(rel)
	}
	if rel == "." {
		if e.kind != kindDir {
			w.result.skip(e.name, "name resolves to the extraction root")
		}
		return nil
	}
	w.result.rename(e.name, rel)
	target := filepath.Join(w.root, filepath.FromSlash(rel))

	if link, ok := w.throughLink(rel); ok {
		w.result.skip(e.name, "parent %q is an extracted symlink", link)
		return nil
	}
	inside, err := w.contained(filepath.Dir(target))
	if err != nil {
		return err
	}
	if !inside {
		w.result.skip(e.name, "parent directory resolves outside the extraction root")
		return nil
	}

	switch e.kind {
	case kindDir:
		if err := os.MkdirAll(target, w.dirMode(e.mode)); err != nil {
			return err
		}
		applyModTime(target, e.modTime)
		w.result.Dirs = append(w.result.Dirs, rel)
		return nil
	case kindSymlink:
		return w.writeSymlink(e, rel, target)
	case kindHardlink:
		return w.writeHardlink(e, rel, target)
	case kindOther:
		w.result.skip(e.name, "special file type %v", e.mode.Type())
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, w.fileMode(e.mode))
	if err != nil {
		return err
	}

	_, copyErr := io.CopyBuffer(out, e.body, w.buf)
	closeErr := out.Close()
	if copyErr != nil {
		_ = os.Remove(target)
		return fmt.Errorf("extract %q: %w", e.name, copyErr)
	}
	if closeErr != nil {
		_ = os.Remove(target)
		return closeErr
	}

	applyModTime(target, e.modTime)
	w.result.Files = append(w.result.Files, rel)
	return nil
}

func (w *writer) writeSymlink(e *entry, rel, target string) error {
	if !w.opts.AllowSymlinks {
		w.result.skip(e.name, "symlink extraction is disabled")
		return nil
	}

	linkValue := e.linkname
	if linkValue == "" && e.body != nil {
		raw, err := io.ReadAll(io.LimitReader(e.body, maxSymlinkTargetBytes+1))
		if err != nil {
			return fmt.Errorf("read symlink %q: %w", e.name, err)
		}
		if len(raw) > maxSymlinkTargetBytes {
			w.result.skip(e.name, "symlink target exceeds %d bytes", maxSymlinkTargetBytes)
			return nil
		}
		linkValue = strings.TrimRight(string(raw), "\x00")
	}

	linkTarget, err := sanitizeSymlinkTarget(rel, linkValue)
	if err != nil {
		w.result.skip(e.name, "%v", err)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	parent, err := filepath.EvalSymlinks(filepath.Dir(target))
	if err != nil {
		return err
	}
	inside, err := w.contained(filepath.Join(parent, linkTarget))
	if err != nil {
		return err
	}
	if !inside {
		w.result.skip(e.name, "symlink target %q resolves outside the extraction root", linkValue)
		return nil
	}
	_ = os.Remove(target)
	if err := os.Symlink(linkTarget, target); err != nil {
		return fmt.Errorf("extract symlink %q: %w", e.name, err)
	}
	w.links[rel] = true
	w.result.Links = append(w.result.Links, rel)
	return nil
}

func (w *writer) writeHardlink(e *entry, rel, target string) error {
	sourceRel := fsutil.SafeRelPath(e.linkname, nameOptions(w.opts.PosixOnly)...)
	if link, ok := w.throughLink(filepath.ToSlash(sourceRel)); ok {
		w.result.skip(e.name, "hard link target %q goes through extracted symlink %q", e.linkname, link)
		return nil
	}
	source := filepath.Join(w.root, sourceRel)
	inside, err := w.contained(filepath.Dir(source))
	if err != nil {
		return err
	}
	if !inside {
		w.result.skip(e.name, "hard link target %q resolves outside the extraction root", e.linkname)
		return nil
	}
	info, err := os.Lstat(source)
	if err != nil || !info.Mode().IsRegular() {
		w.result.skip(e.name, "hard link target %q was not extracted", e.linkname)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	_ = os.Remove(target)
	if err := os.Link(source, target); err != nil {
		if copyErr := w.copyRegular(source, target, info.Mode()); copyErr != nil {
			return fmt.Errorf("extract hard link %q: %w", e.name, copyErr)
		}
	}
	w.result.Files = append(w.result.Files, rel)
	return nil
}

func (w *writer) copyRegular(source, target string, mode fs.FileMode) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.CopyBuffer(out, in, w.buf); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// throughLink reports the nearest ancestor of rel that was extracted as a
// symlink.
func (w *writer) throughLink(rel string) (string, bool) {
	for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if w.links[dir] {
			return dir, true
		}
	}
	return "", false
}

// contained reports whether p, after following the symlinks of its deepest
// existing ancestor, still lies under the extraction root.
func (w *writer) contained(p string) (bool, error) {
	dir := p
	var rest []string
	for {
		resolvedDir, err := filepath.EvalSymlinks(dir)
		if err == nil {
			resolved := filepath.Join(append([]string{resolvedDir}, rest...)...)
			rel, err := filepath.Rel(w.realRoot, resolved)
			if err != nil {
				return false, nil
			}
			return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return false, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false, err
		}
		rest = append([]string{filepath.Base(dir)}, rest...)
		dir = parent
	}
}

// sanitizeSymlinkTarget accepts only relative link targets that resolve
// inside the extraction root from the link's own directory.
func sanitizeSymlinkTarget(linkRelPath, rawTarget string) (string, error) {
	if rawTarget == "" {
		return "", fmt.Errorf("symlink target is empty")
	}
	if strings.ContainsRune(rawTarget, 0) {
		return "", fmt.Errorf("symlink target contains NUL")
	}

	normalized := strings.ReplaceAll(rawTarget, `\`, "/")
	cleaned := path.Clean(normalized)
	if cleaned == "." || cleaned == ".." || cleaned == "/" {
		return "", fmt.Errorf("unsafe symlink target %q", rawTarget)
	}
	if strings.HasPrefix(cleaned, "/") {
		return "", fmt.Errorf("absolute symlink target %q is not allowed", rawTarget)
	}
	if first, _, _ := strings.Cut(cleaned, "/"); len(first) == 2 && first[1] == ':' {
		return "", fmt.Errorf("symlink target %q has a drive prefix", rawTarget)
	}

	resolved := path.Clean(path.Join(path.Dir(linkRelPath), cleaned))
	if resolved == ".." || strings.HasPrefix(resolved, "../") {
		return "", fmt.Errorf("symlink target %q escapes extraction root", rawTarget)
	}
	return filepath.FromSlash(cleaned), nil
}

func (w *writer) fileMode(mode fs.FileMode) fs.FileMode {
	if w.opts.Verbatim && mode.Perm() != 0 {
		return mode.Perm()
	}
	if mode&0o111 != 0 {
		return 0o755
	}
	return 0o644
}

func (w *writer) dirMode(mode fs.FileMode) fs.FileMode {
	if w.opts.Verbatim && mode.Perm() != 0 {
		return mode.Perm()
	}
	return 0o755
}

func applyModTime(path string, modTime time.Time) {
	if modTime.IsZero() {
		return
	}
	_ = os.Chtimes(path, time.Now(), modTime)
}
