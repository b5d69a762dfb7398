package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// Format identifies an archive container.
type Format string

const (
	FormatRAR    Format = "rar"
	FormatZIP    Format = "zip"
	FormatTar    Format = "tar"
	FormatTarGz  Format = "tar.gz"
	FormatTarBz2 Format = "tar.bz2"
)

// ErrUnsupportedFormat is returned for files that are not a known archive.
var ErrUnsupportedFormat = errors.New("unsupported archive format")

var (
	rar5Signature  = []byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01, 0x00}
	rar4Signature  = []byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00}
	zipSignature   = []byte("PK\x03\x04")
	zipEmpty       = []byte("PK\x05\x06")
	gzipSignature  = []byte{0x1f, 0x8b}
	bzip2Signature = []byte("BZh")
	tarMagic       = []byte("ustar")
)

const (
	tarMagicOffset = 257
	// RAR self-extracting archives carry the signature after the stub.
	maxSFXBytes = 1 << 20
)

// Detect sniffs the content of path and returns its archive format.
func Detect(path string) (Format, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	buf := make([]byte, maxSFXBytes+len(rar5Signature))
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}
	buf = buf[:n]

	switch {
	case bytes.HasPrefix(buf, zipSignature), bytes.HasPrefix(buf, zipEmpty):
		return FormatZIP, nil
	case bytes.HasPrefix(buf, gzipSignature):
		return FormatTarGz, nil
	case bytes.HasPrefix(buf, bzip2Signature):
		return FormatTarBz2, nil
	case len(buf) >= tarMagicOffset+len(tarMagic) && bytes.Equal(buf[tarMagicOffset:tarMagicOffset+len(tarMagic)], tarMagic):
		return FormatTar, nil
	case bytes.Contains(buf, rar5Signature), bytes.Contains(buf, rar4Signature):
		return FormatRAR, nil
	}
	return "", fmt.Errorf("%q: %w", path, ErrUnsupportedFormat)
}
