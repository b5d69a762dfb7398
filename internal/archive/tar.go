package archive

import (
	"archive/tar"
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"

	"github.com/arodd/go-commoncode/internal/text"
)

type tarEntries struct {
	reader *tar.Reader
}

func (t *tarEntries) next() (*entry, error) {
	header, err := t.reader.Next()
	if err != nil && !(errors.Is(err, tar.ErrInsecurePath) && header != nil) {
		return nil, err
	}

	e := &entry{
		name:     text.AsUnicode([]byte(header.Name)),
		mode:     header.FileInfo().Mode(),
		size:     header.Size,
		modTime:  header.ModTime,
		linkname: text.AsUnicode([]byte(header.Linkname)),
		body:     t.reader,
	}
	switch header.Typeflag {
	case tar.TypeDir:
		e.kind = kindDir
	case tar.TypeReg, tar.TypeRegA:
		e.kind = kindFile
	case tar.TypeSymlink:
		e.kind = kindSymlink
	case tar.TypeLink:
		e.kind = kindHardlink
	case tar.TypeXGlobalHeader:
		return t.next()
	default:
		e.kind = kindOther
	}
	return e, nil
}

// openTar returns a tar stream over archivePath, decompressing according to
// format. The returned closer releases the underlying file.
func openTar(archivePath string, format Format) (*tar.Reader, io.Closer, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return nil, nil, err
	}

	var stream io.Reader = bufio.NewReader(file)
	switch format {
	case FormatTarGz:
		gz, err := gzip.NewReader(stream)
		if err != nil {
			_ = file.Close()
			return nil, nil, err
		}
		stream = gz
	case FormatTarBz2:
		stream = bzip2.NewReader(stream)
	}
	return tar.NewReader(stream), file, nil
}

func extractTar(ctx context.Context, archivePath string, format Format, w *writer) error {
	reader, closer, err := openTar(archivePath, format)
	if err != nil {
		return err
	}
	defer closer.Close()

	return w.writeAll(ctx, &tarEntries{reader: reader})
}

func listTar(archivePath string, format Format) ([]Entry, error) {
	reader, closer, err := openTar(archivePath, format)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	entries := &tarEntries{reader: reader}
	var out []Entry
	for {
		e, err := entries.next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{
			Name:  e.name,
			IsDir: e.kind == kindDir,
			Size:  e.size,
		})
	}
}
