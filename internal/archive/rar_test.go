package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/nwaples/rardecode/v2"
)

type fakeRAREntry struct {
	header rardecode.FileHeader
	data   []byte
}

type fakeRARReader struct {
	entries []fakeRAREntry
	volumes []string
	index   int
	current *bytes.Reader
}

func (r *fakeRARReader) Next() (*rardecode.FileHeader, error) {
	if r.index >= len(r.entries) {
		return nil, io.EOF
	}

	entry := r.entries[r.index]
	r.index++
	r.current = bytes.NewReader(entry.data)

	headerCopy := entry.header
	return &headerCopy, nil
}

func (r *fakeRARReader) Read(p []byte) (int, error) {
	if r.current == nil {
		return 0, io.EOF
	}
	return r.current.Read(p)
}

func (r *fakeRARReader) Close() error { return nil }

func (r *fakeRARReader) Volumes() []string {
	out := make([]string, len(r.volumes))
	copy(out, r.volumes)
	return out
}

func newFakeRAR() *fakeRARReader {
	return &fakeRARReader{
		entries: []fakeRAREntry{
			{header: rardecode.FileHeader{Name: `nested\dir`, IsDir: true}},
			{header: rardecode.FileHeader{Name: `nested\dir\file.txt`}, data: []byte("hello")},
			{header: rardecode.FileHeader{Name: `..\..\escape.txt`}, data: []byte("escape")},
		},
		volumes: []string{"set.part1.rar", "set.part2.rar"},
	}
}

func TestExtractRARSanitizesNames(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	open := func(string, ...rardecode.Option) (rarReadCloser, error) {
		return newFakeRAR(), nil
	}

	result, err := extractRARWithPasswords(context.Background(), open, "set.part1.rar", root, Options{})
	if err != nil {
		t.Fatalf("extractRARWithPasswords returned error: %v", err)
	}

	if got := readFile(t, filepath.Join(root, "nested", "dir", "file.txt")); got != "hello" {
		t.Fatalf("content=%q, want %q", got, "hello")
	}
	if got := readFile(t, filepath.Join(root, "dotdot", "dotdot", "escape.txt")); got != "escape" {
		t.Fatalf("content=%q, want %q", got, "escape")
	}
	if !reflect.DeepEqual(result.Volumes, []string{"set.part1.rar", "set.part2.rar"}) {
		t.Fatalf("volumes=%v", result.Volumes)
	}
	if got := result.Renamed[`..\..\escape.txt`]; got != "dotdot/dotdot/escape.txt" {
		t.Fatalf("renamed escape entry=%q", got)
	}
	if _, ok := result.Renamed[`nested\dir\file.txt`]; ok {
		t.Fatalf("did not expect backslash-only difference to be reported as rename: %v", result.Renamed)
	}
}

func TestExtractRARRetriesPasswords(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	calls := 0
	open := func(string, ...rardecode.Option) (rarReadCloser, error) {
		calls++
		if calls < 3 {
			return nil, rardecode.ErrBadPassword
		}
		return newFakeRAR(), nil
	}

	opts := Options{Passwords: []string{"first", "second"}}
	result, err := extractRARWithPasswords(context.Background(), open, "set.rar", root, opts)
	if err != nil {
		t.Fatalf("extractRARWithPasswords returned error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("open calls=%d, want 3", calls)
	}
	if len(result.Files) != 2 {
		t.Fatalf("files=%v, want 2 entries", result.Files)
	}
}

func TestExtractRARPasswordRequired(t *testing.T) {
	t.Parallel()

	open := func(string, ...rardecode.Option) (rarReadCloser, error) {
		return nil, rardecode.ErrArchiveEncrypted
	}

	_, err := extractRARWithPasswords(context.Background(), open, "set.rar", t.TempDir(), Options{
		Password:  "given",
		Passwords: []string{"given", "other", ""},
	})

	var required *PasswordRequiredError
	if !errors.As(err, &required) {
		t.Fatalf("error=%v, want PasswordRequiredError", err)
	}
	if required.Tried != 2 {
		t.Fatalf("tried=%d, want 2", required.Tried)
	}
	if !IsPasswordError(err) {
		t.Fatalf("expected wrapped cause to be a password error: %v", err)
	}
}

func TestExtractRARStopsOnOtherErrors(t *testing.T) {
	t.Parallel()

	calls := 0
	open := func(string, ...rardecode.Option) (rarReadCloser, error) {
		calls++
		return nil, os.ErrNotExist
	}

	_, err := extractRARWithPasswords(context.Background(), open, "set.rar", t.TempDir(), Options{
		Passwords: []string{"a", "b"},
	})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("error=%v, want os.ErrNotExist", err)
	}
	if calls != 1 {
		t.Fatalf("open calls=%d, want 1", calls)
	}
}

func TestRARSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     Options
		password string
		wantLen  int
	}{
		{name: "empty", wantLen: 0},
		{name: "max dictionary only", opts: Options{MaxDictBytes: 1 << 20}, wantLen: 1},
		{name: "password only", password: "secret", wantLen: 1},
		{name: "both", opts: Options{MaxDictBytes: 1 << 20}, password: "secret", wantLen: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := len(rarSettings(tc.opts, tc.password)); got != tc.wantLen {
				t.Fatalf("rarSettings len=%d, want %d", got, tc.wantLen)
			}
		})
	}
}

func TestIsPasswordError(t *testing.T) {
	t.Parallel()

	for _, err := range []error{
		rardecode.ErrArchiveEncrypted,
		rardecode.ErrArchivedFileEncrypted,
		rardecode.ErrBadPassword,
		fmt.Errorf("wrapped: %w", rardecode.ErrBadPassword),
	} {
		if !IsPasswordError(err) {
			t.Fatalf("expected %v to be classified as password error", err)
		}
	}
	if IsPasswordError(errors.New("other failure")) {
		t.Fatal("did not expect generic error to be classified as password error")
	}
}

func TestLoadPasswords(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "passwords.txt")
	touchFile(t, path, []byte("one\r\n\ntwo words\n"))

	got, err := LoadPasswords(path)
	if err != nil {
		t.Fatalf("LoadPasswords returned error: %v", err)
	}
	if want := []string{"one", "two words"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("passwords=%v, want %v", got, want)
	}

	if _, err := LoadPasswords(" "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
