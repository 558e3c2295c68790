// Package emit writes extracted records as a bulk-load document: a
// metadata header carrying the index mapping, then the records as the
// elements of an "updates" array.
package emit

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jcdickinson/javadocfetch/internal/docs"
)

//go:embed mapping.json
var defaultMapping []byte

// DefaultMapping returns the embedded index mapping.
func DefaultMapping() []byte {
	return append([]byte(nil), defaultMapping...)
}

// LoadMapping reads a mapping document from path. The content is passed
// through verbatim, so it only has to be valid JSON.
func LoadMapping(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mapping: %w", err)
	}
	if !json.Valid(b) {
		return nil, fmt.Errorf("mapping %s is not valid JSON", path)
	}
	return b, nil
}

const (
	headerPrefix = "{\n  \"metadata\" : {\n    \"mapping\" : "
	headerSuffix = "\n  },\n  \"updates\" : [\n"
	separator    = ",\n"
	footer       = "\n  ]\n}"
)

// Options configure a Writer.
type Options struct {
	// Mapping is written verbatim; nil selects the embedded default.
	Mapping     []byte
	Compression Compression
}

// Writer owns the separator state of the updates array. Close must be
// called on every path once the header has been written.
type Writer struct {
	buf    *bufio.Writer
	enc    io.WriteCloser
	file   io.Closer
	count  int
	closed bool
}

// Create opens path for writing and writes the document header. When
// opts.Compression is empty it is inferred from the file name.
func Create(path string, opts Options) (*Writer, error) {
	if opts.Compression == "" {
		opts.Compression = CompressionFor(path)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	w, err := newWriter(f, f, opts)
	if err != nil {
		return nil, errors.Join(err, f.Close())
	}
	return w, nil
}

// NewWriter writes the document header to out. Closing the Writer does not
// close out.
func NewWriter(out io.Writer, opts Options) (*Writer, error) {
	return newWriter(out, nil, opts)
}

func newWriter(out io.Writer, file io.Closer, opts Options) (*Writer, error) {
	enc, err := opts.Compression.wrap(out)
	if err != nil {
		return nil, fmt.Errorf("output encoder: %w", err)
	}
	mapping := opts.Mapping
	if mapping == nil {
		mapping = defaultMapping
	}
	w := &Writer{buf: bufio.NewWriter(enc), enc: enc, file: file}
	w.buf.WriteString(headerPrefix)
	w.buf.Write(bytes.TrimSpace(mapping))
	if _, err := w.buf.WriteString(headerSuffix); err != nil {
		return nil, errors.Join(fmt.Errorf("writing header: %w", err), enc.Close())
	}
	return w, nil
}

// Write appends one record to the updates array.
func (w *Writer) Write(record any) error {
	b, err := docs.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	return w.WriteRaw(b)
}

// WriteRaw appends an already encoded record.
func (w *Writer) WriteRaw(record json.RawMessage) error {
	if w.closed {
		return errors.New("write to closed writer")
	}
	if w.count > 0 {
		w.buf.WriteString(separator)
	}
	if _, err := w.buf.Write(record); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	return w.count
}

// Close terminates the updates array and flushes and closes every layer
// below it. Further calls are no-ops.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	_, werr := w.buf.WriteString(footer)
	errs := []error{werr, w.buf.Flush(), w.enc.Close()}
	if w.file != nil {
		errs = append(errs, w.file.Close())
	}
	return errors.Join(errs...)
}
