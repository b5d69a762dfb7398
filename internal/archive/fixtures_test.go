package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type member struct {
	name     string
	body     string
	mode     fs.FileMode
	typeflag byte
	linkname string
}

func writeZip(t *testing.T, path string, members []member) {
	t.Helper()

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	defer file.Close()

	zw := zip.NewWriter(file)
	for _, m := range members {
		header := &zip.FileHeader{
			Name:     m.name,
			Method:   zip.Deflate,
			Modified: time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC),
		}
		if m.mode != 0 {
			header.SetMode(m.mode)
		}
		w, err := zw.CreateHeader(header)
		if err != nil {
			t.Fatalf("add %q: %v", m.name, err)
		}
		if _, err := io.WriteString(w, m.body); err != nil {
			t.Fatalf("write %q: %v", m.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
}

func writeTar(t *testing.T, path string, gz bool, members []member) {
	t.Helper()

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create tar: %v", err)
	}
	defer file.Close()

	var out io.Writer = file
	var gzw *gzip.Writer
	if gz {
		gzw = gzip.NewWriter(file)
		out = gzw
	}

	tw := tar.NewWriter(out)
	for _, m := range members {
		typeflag := m.typeflag
		if typeflag == 0 {
			typeflag = tar.TypeReg
		}
		mode := int64(m.mode.Perm())
		if mode == 0 {
			mode = 0o644
		}
		header := &tar.Header{
			Name:     m.name,
			Typeflag: typeflag,
			Mode:     mode,
			Linkname: m.linkname,
			ModTime:  time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC),
			Format:   tar.FormatPAX,
		}
		if typeflag == tar.TypeReg {
			header.Size = int64(len(m.body))
		}
		if err := tw.WriteHeader(header); err != nil {
			t.Fatalf("add %q: %v", m.name, err)
		}
		if typeflag == tar.TypeReg {
			if _, err := io.WriteString(tw, m.body); err != nil {
				t.Fatalf("write %q: %v", m.name, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}
	if gzw != nil {
		if err := gzw.Close(); err != nil {
			t.Fatalf("close gzip: %v", err)
		}
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %q: %v", path, err)
	}
	return string(data)
}

func touchFile(t *testing.T, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %q: %v", path, err)
	}
}
