package archive

import (
	"path/filepath"
	"testing"
)

func TestIsFirstVolume(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		wantOK   bool
		wantStem string
	}{
		{name: "movie.rar", wantOK: true, wantStem: "movie"},
		{name: "movie.part01.rar", wantOK: true, wantStem: "movie"},
		{name: "movie.part1.RAR", wantOK: true, wantStem: "movie"},
		{name: "movie.part02.rar", wantOK: false},
		{name: "movie.001", wantOK: true, wantStem: "movie"},
		{name: "src.zip", wantOK: true, wantStem: "src"},
		{name: "src.tar.gz", wantOK: true, wantStem: "src"},
		{name: "src.TGZ", wantOK: true, wantStem: "src"},
		{name: "src.tar.bz2", wantOK: true, wantStem: "src"},
		{name: "src.tar", wantOK: true, wantStem: "src"},
		{name: "notes.txt", wantOK: false},
	}

	for _, tc := range tests {
		ok, stem := IsFirstVolume(tc.name)
		if ok != tc.wantOK || stem != tc.wantStem {
			t.Fatalf("IsFirstVolume(%q)=(%v, %q), want (%v, %q)", tc.name, ok, stem, tc.wantOK, tc.wantStem)
		}
	}
}

func TestScanDepth(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, rel := range []string{
		"a.rar",
		"b.part1.rar",
		"b.part2.rar",
		"notes.txt",
		"sub/c.zip",
		"sub/deeper/d.tar.gz",
	} {
		touchFile(t, filepath.Join(root, filepath.FromSlash(rel)), []byte("x"))
	}

	tests := []struct {
		maxDepth int
		want     []string
	}{
		{maxDepth: 0, want: []string{"a.rar", "b.part1.rar"}},
		{maxDepth: 1, want: []string{"a.rar", "b.part1.rar", "sub/c.zip"}},
		{maxDepth: -1, want: []string{"a.rar", "b.part1.rar", "sub/c.zip", "sub/deeper/d.tar.gz"}},
	}

	for _, tc := range tests {
		candidates, err := Scan(root, tc.maxDepth)
		if err != nil {
			t.Fatalf("Scan returned error: %v", err)
		}
		if len(candidates) != len(tc.want) {
			t.Fatalf("Scan(depth=%d) found %d candidates, want %d: %+v", tc.maxDepth, len(candidates), len(tc.want), candidates)
		}
		for i, want := range tc.want {
			if got := candidates[i].Path; got != filepath.Join(root, filepath.FromSlash(want)) {
				t.Fatalf("candidate[%d]=%q, want %q", i, got, want)
			}
		}
	}
}
