package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

var renamePath = os.Rename

const copyBufferSize = 256 * 1024

// SafeMove moves src to dst without overwriting anything. When dst is taken,
// a _N counter is inserted before the extension ("a.txt" becomes "a_1.txt")
// until a free name is found. Cross-device moves fall back to copy+remove.
// It returns the path actually used.
func SafeMove(src, dst string) (string, error) {
	if _, err := os.Lstat(src); err != nil {
		return "", err
	}

	for attempt := 0; ; attempt++ {
		candidate := CollisionName(dst, attempt)

		_, err := os.Lstat(candidate)
		switch {
		case err == nil:
			continue
		case !os.IsNotExist(err):
			return "", err
		}

		err = renamePath(src, candidate)
		switch {
		case err == nil:
			return candidate, nil
		case isCrossDeviceError(err):
			if err := copyTree(src, candidate); err != nil {
				return "", fmt.Errorf("copy %q to %q: %w", src, candidate, err)
			}
			if err := os.RemoveAll(src); err != nil {
				return "", err
			}
			return candidate, nil
		case os.IsExist(err):
			continue
		default:
			return "", err
		}
	}
}

// CollisionName returns the n-th alternative for path. Zero returns path
// unchanged. Directories get a plain suffix since they have no extension.
func CollisionName(path string, n int) string {
	if n == 0 {
		return path
	}
	dir, name := filepath.Split(path)
	base, ext := Splitext(name)
	if base == "" {
		// Dotfile: the whole name is the extension.
		return filepath.Join(dir, fmt.Sprintf("%s_%d", ext, n))
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, n, ext))
}

func isCrossDeviceError(err error) bool {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return errors.Is(linkErr.Err, syscall.EXDEV)
	}
	return errors.Is(err, syscall.EXDEV)
}

func copyTree(src, dst string) error {
	rootInfo, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if !rootInfo.IsDir() {
		return copyEntry(src, dst, rootInfo)
	}

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return copyEntry(path, filepath.Join(dst, rel), info)
	})
	if err != nil {
		_ = os.RemoveAll(dst)
		return err
	}
	return nil
}

func copyEntry(src, dst string, info fs.FileInfo) error {
	mode := info.Mode()
	switch {
	case mode.IsDir():
		if err := os.Mkdir(dst, permOr(mode, 0o755)); err != nil {
			return err
		}
	case mode&fs.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		return os.Symlink(target, dst)
	case mode.IsRegular():
		if err := copyFile(src, dst, permOr(mode, 0o644)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported file type %q", src)
	}
	touch(dst, info.ModTime())
	return nil
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return err
	}

	buf := make([]byte, copyBufferSize)
	_, copyErr := io.CopyBuffer(out, in, buf)
	closeErr := out.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}

func permOr(mode fs.FileMode, fallback fs.FileMode) fs.FileMode {
	if perm := mode.Perm(); perm != 0 {
		return perm
	}
	return fallback
}

func touch(path string, modTime time.Time) {
	if modTime.IsZero() {
		return
	}
	_ = os.Chtimes(path, time.Now(), modTime)
}
