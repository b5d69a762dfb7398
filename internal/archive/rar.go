package archive

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/nwaples/rardecode/v2"
)

type rarReader interface {
	Next() (*rardecode.FileHeader, error)
	io.Reader
}

type rarReadCloser interface {
	rarReader
	io.Closer
	Volumes() []string
}

type openRARFunc func(path string, opts ...rardecode.Option) (rarReadCloser, error)

func openRAR(path string, opts ...rardecode.Option) (rarReadCloser, error) {
	return rardecode.OpenReader(path, opts...)
}

// rarSettings converts extraction options into rardecode options.
func rarSettings(opts Options, password string) []rardecode.Option {
	out := make([]rardecode.Option, 0, 2)
	if opts.MaxDictBytes > 0 {
		out = append(out, rardecode.MaxDictionarySize(opts.MaxDictBytes))
	}
	if password != "" {
		out = append(out, rardecode.Password(password))
	}
	return out
}

// IsPasswordError reports whether err indicates that archive decryption
// credentials are required or incorrect.
func IsPasswordError(err error) bool {
	return errors.Is(err, rardecode.ErrArchiveEncrypted) ||
		errors.Is(err, rardecode.ErrArchivedFileEncrypted) ||
		errors.Is(err, rardecode.ErrBadPassword)
}

type rarEntries struct {
	reader rarReader
}

func (r *rarEntries) next() (*entry, error) {
	header, err := r.reader.Next()
	if err != nil {
		return nil, err
	}

	mode := header.Mode()
	e := &entry{
		name:    header.Name,
		mode:    mode,
		modTime: header.ModificationTime,
		body:    r.reader,
	}
	switch {
	case header.IsDir:
		e.kind = kindDir
	case mode&os.ModeSymlink != 0:
		e.kind = kindSymlink
	case mode&(os.ModeDevice|os.ModeCharDevice|os.ModeNamedPipe|os.ModeSocket) != 0:
		e.kind = kindOther
	default:
		e.kind = kindFile
	}
	return e, nil
}

func extractRAR(ctx context.Context, open openRARFunc, archivePath string, w *writer, password string) ([]string, error) {
	reader, err := open(archivePath, rarSettings(w.opts, password)...)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	if err := w.writeAll(ctx, &rarEntries{reader: reader}); err != nil {
		return nil, err
	}
	return reader.Volumes(), nil
}

func listRAR(archivePath string, opts Options) ([]Entry, error) {
	files, err := rardecode.List(archivePath, rarSettings(opts, opts.Password)...)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(files))
	for _, file := range files {
		out = append(out, Entry{
			Name:      file.Name,
			IsDir:     file.IsDir,
			Size:      file.UnPackedSize,
			Encrypted: file.Encrypted,
		})
	}
	return out, nil
}
