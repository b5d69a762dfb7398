package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

// crossDevice makes every rename in the test fail like a move between
// filesystems.
func crossDevice(t *testing.T) {
	t.Helper()
	saved := renamePath
	renamePath = func(oldPath, newPath string) error {
		return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: syscall.EXDEV}
	}
	t.Cleanup(func() { renamePath = saved })
}

// scratchTree builds a small extracted tree: one file at the top, one nested
// file and a relative symlink.
func scratchTree(t *testing.T, root string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(root, "docs"), 0o755); err != nil {
		t.Fatalf("mkdir scratch tree: %v", err)
	}
	for name, body := range map[string]string{
		"README.txt":        "readme",
		"docs/manual_1.txt": "manual",
	} {
		if err := os.WriteFile(filepath.Join(root, filepath.FromSlash(name)), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Symlink("README.txt", filepath.Join(root, "latest")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
}

func checkTree(t *testing.T, root string) {
	t.Helper()
	for name, want := range map[string]string{
		"README.txt":        "readme",
		"docs/manual_1.txt": "manual",
	} {
		got, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
		if err != nil {
			t.Fatalf("read moved %s: %v", name, err)
		}
		if string(got) != want {
			t.Fatalf("moved %s=%q, want %q", name, got, want)
		}
	}
	target, err := os.Readlink(filepath.Join(root, "latest"))
	if err != nil {
		t.Fatalf("readlink moved symlink: %v", err)
	}
	if target != "README.txt" {
		t.Fatalf("moved symlink target=%q, want README.txt", target)
	}
}

func TestSafeMoveExtractedTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	scratch := filepath.Join(root, ".commoncode-1234")
	scratchTree(t, scratch)

	dest := filepath.Join(root, "My_Archive")
	final, err := SafeMove(scratch, dest)
	if err != nil {
		t.Fatalf("SafeMove returned error: %v", err)
	}
	if final != dest {
		t.Fatalf("SafeMove final=%q, want %q", final, dest)
	}
	if _, err := os.Lstat(scratch); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("scratch dir left behind: %v", err)
	}
	checkTree(t, dest)
}

func TestSafeMoveNeverOverwrites(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, taken := range []string{"My_Archive", "My_Archive_1"} {
		if err := os.Mkdir(filepath.Join(root, taken), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", taken, err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("old"), 0o644); err != nil {
		t.Fatalf("write existing file: %v", err)
	}

	tests := []struct {
		name  string
		isDir bool
		dest  string
		want  string
	}{
		{name: "directory skips two taken names", isDir: true, dest: "My_Archive", want: "My_Archive_2"},
		{name: "file keeps extension last", dest: "notes.txt", want: "notes_1.txt"},
		{name: "free name used as is", dest: "fresh.txt", want: "fresh.txt"},
	}

	for i, tc := range tests {
		src := filepath.Join(root, "src", string(rune('a'+i)))
		if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
			t.Fatalf("mkdir src parent: %v", err)
		}
		if tc.isDir {
			if err := os.Mkdir(src, 0o755); err != nil {
				t.Fatalf("mkdir src: %v", err)
			}
		} else if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
			t.Fatalf("write src: %v", err)
		}

		final, err := SafeMove(src, filepath.Join(root, tc.dest))
		if err != nil {
			t.Fatalf("%s: SafeMove returned error: %v", tc.name, err)
		}
		if want := filepath.Join(root, tc.want); final != want {
			t.Fatalf("%s: SafeMove final=%q, want %q", tc.name, final, want)
		}
	}

	if got, err := os.ReadFile(filepath.Join(root, "notes.txt")); err != nil || string(got) != "old" {
		t.Fatalf("existing file changed: %q, %v", got, err)
	}
}

func TestSafeMoveCopiesAcrossDevices(t *testing.T) {
	crossDevice(t)

	root := t.TempDir()
	scratch := filepath.Join(root, "scratch")
	scratchTree(t, scratch)

	dest := filepath.Join(root, "out")
	final, err := SafeMove(scratch, dest)
	if err != nil {
		t.Fatalf("SafeMove returned error: %v", err)
	}
	if final != dest {
		t.Fatalf("SafeMove final=%q, want %q", final, dest)
	}
	if _, err := os.Lstat(scratch); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("scratch dir left behind after copy: %v", err)
	}
	checkTree(t, dest)
}

func TestSafeMoveCopiesSingleFileAcrossDevices(t *testing.T) {
	crossDevice(t)

	root := t.TempDir()
	src := filepath.Join(root, "single.txt")
	if err := os.WriteFile(src, []byte("payload"), 0o600); err != nil {
		t.Fatalf("write src: %v", err)
	}

	final, err := SafeMove(src, filepath.Join(root, "moved.txt"))
	if err != nil {
		t.Fatalf("SafeMove returned error: %v", err)
	}
	info, err := os.Stat(final)
	if err != nil {
		t.Fatalf("stat moved file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("moved file mode=%v, want 0600", info.Mode().Perm())
	}
}

func TestSafeMoveMissingSource(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	_, err := SafeMove(filepath.Join(root, "missing"), filepath.Join(root, "dest"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("SafeMove error=%v, want not-exist", err)
	}
}

func TestCollisionName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		n    int
		want string
	}{
		{path: "a.txt", n: 0, want: "a.txt"},
		{path: "a.txt", n: 1, want: "a_1.txt"},
		{path: "a.tar.gz", n: 2, want: "a.tar_2.gz"},
		{path: "My_Archive", n: 3, want: "My_Archive_3"},
		{path: ".env", n: 1, want: ".env_1"},
	}

	for _, tc := range tests {
		path := filepath.Join("out", tc.path)
		want := filepath.Join("out", tc.want)
		if got := CollisionName(path, tc.n); got != want {
			t.Fatalf("CollisionName(%q, %d)=%q, want %q", path, tc.n, got, want)
		}
	}
}
