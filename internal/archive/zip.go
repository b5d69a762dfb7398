package archive

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"

	"github.com/arodd/go-commoncode/internal/text"
)

type zipEntries struct {
	files   []*zip.File
	index   int
	current io.ReadCloser
}

func (z *zipEntries) next() (*entry, error) {
	if z.current != nil {
		_ = z.current.Close()
		z.current = nil
	}
	if z.index >= len(z.files) {
		return nil, io.EOF
	}

	file := z.files[z.index]
	z.index++

	mode := file.Mode()
	e := &entry{
		name:    zipName(file),
		mode:    mode,
		modTime: file.Modified,
	}
	switch {
	case mode.IsDir() || strings.HasSuffix(file.Name, "/"):
		e.kind = kindDir
		return e, nil
	case mode&fs.ModeSymlink != 0:
		e.kind = kindSymlink
	case mode.IsRegular():
		e.kind = kindFile
	default:
		e.kind = kindOther
		return e, nil
	}

	body, err := file.Open()
	if err != nil {
		return nil, err
	}
	z.current = body
	e.body = body
	return e, nil
}

func (z *zipEntries) close() {
	if z.current != nil {
		_ = z.current.Close()
	}
}

// zipName decodes names stored without the UTF-8 flag, which most tools
// write in a legacy code page.
func zipName(file *zip.File) string {
	if file.NonUTF8 {
		return text.AsUnicode([]byte(file.Name))
	}
	return file.Name
}

// openZip tolerates zip.ErrInsecurePath: unsafe member names are rewritten
// by the writer rather than rejected.
func openZip(archivePath string) (*zip.ReadCloser, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil && !(errors.Is(err, zip.ErrInsecurePath) && reader != nil) {
		return nil, err
	}
	return reader, nil
}

func extractZip(ctx context.Context, archivePath string, w *writer) error {
	reader, err := openZip(archivePath)
	if err != nil {
		return err
	}
	defer reader.Close()

	entries := &zipEntries{files: reader.File}
	defer entries.close()
	return w.writeAll(ctx, entries)
}

func listZip(archivePath string) ([]Entry, error) {
	reader, err := openZip(archivePath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	out := make([]Entry, 0, len(reader.File))
	for _, file := range reader.File {
		out = append(out, Entry{
			Name:      zipName(file),
			IsDir:     file.Mode().IsDir() || strings.HasSuffix(file.Name, "/"),
			Size:      int64(file.UncompressedSize64),
			Encrypted: file.Flags&0x1 != 0,
		})
	}
	return out, nil
}
