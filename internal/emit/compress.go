package emit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression selects the output stream encoding.
type Compression string

const (
	CompressNone Compression = "none"
	CompressZstd Compression = "zstd"
	CompressGzip Compression = "gzip"
)

// ParseCompression accepts none, zstd or gzip. An empty name means the
// encoding is inferred from the output file name.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(s)); c {
	case "", CompressNone, CompressZstd, CompressGzip:
		return c, nil
	}
	return "", fmt.Errorf("unknown compression %q (want none, zstd or gzip)", s)
}

// CompressionFor infers the encoding from a file extension.
func CompressionFor(path string) Compression {
	switch {
	case strings.HasSuffix(path, ".zst"):
		return CompressZstd
	case strings.HasSuffix(path, ".gz"):
		return CompressGzip
	}
	return CompressNone
}

func (c Compression) wrap(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case CompressZstd:
		return zstd.NewWriter(w)
	case CompressGzip:
		return gzip.NewWriter(w), nil
	}
	return nopWriteCloser{w}, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// Open opens an output file for reading, decompressing it according to
// its extension.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch CompressionFor(path) {
	case CompressZstd:
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		return &readCloser{Reader: dec, close: func() error {
			dec.Close()
			return f.Close()
		}}, nil
	case CompressGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		return &readCloser{Reader: gz, close: func() error {
			return errors.Join(gz.Close(), f.Close())
		}}, nil
	}
	return f, nil
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r *readCloser) Close() error { return r.close() }
