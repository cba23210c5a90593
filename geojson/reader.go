// Package geojson implements a streaming reader for very large GeoJSON
// files, such as the USGS wildland fire exports. Instead of decoding the
// whole document, the reader parses the descriptive header once at open
// time and then extracts features from the byte stream one at a time, so
// multi-gigabyte files can be drained in constant memory.
package geojson

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/gjson"
)

// Header holds every top-level key of the source document except the
// features list. It is parsed once when the file is opened.
type Header map[string]any

// Feature is a single element of the document's features list. The reader
// treats it as opaque; callers typically read its "attributes" and
// "geometry" keys.
type Feature map[string]any

// Reader streams features out of a GeoJSON file. A Reader is either closed
// or open; every method other than Open, Rewind and Close requires it to be
// open. Readers are not safe for concurrent use - open one Reader per
// consumer.
type Reader struct {
	state *openState
}

// openState carries everything that only exists while the reader is open.
// Collapsing it into a single pointer makes the open/closed distinction a
// nil check instead of a set of loosely related fields.
type openState struct {
	path string
	file *os.File
	br   *bufio.Reader

	// pos is the absolute offset of the next byte the scanner will
	// consume. It is tracked by hand because the bufio layer reads ahead
	// of the file's own position.
	pos int64

	header       Header
	rawHeader    []byte
	featureStart int64
}

// NewReader returns a closed Reader. Call Open before reading.
func NewReader() *Reader {
	return &Reader{}
}

// Open opens path and immediately reads the file, returning a ready Reader.
func Open(path string) (*Reader, error) {
	r := NewReader()
	if err := r.Open(path); err != nil {
		return nil, err
	}
	return r, nil
}

// Open opens the named file and locates the feature list. No feature is
// consumed; the first Next call returns the first feature. Opening an
// already open Reader fails with ErrAlreadyOpen and leaves the original
// stream untouched.
func (r *Reader) Open(path string) error {
	if r.state != nil {
		return fmt.Errorf("%w (reading %q)", ErrAlreadyOpen, r.state.path)
	}
	if path == "" {
		return ErrNoPath
	}

	f, err := os.Open(path)
	if err != nil {
		dir, _ := os.Getwd()
		return &OpenError{Path: path, Dir: dir, Err: err}
	}

	st := &openState{path: path, file: f}
	if err := st.locateHeader(); err != nil {
		f.Close()
		return err
	}
	st.br = bufio.NewReaderSize(f, 64*1024)

	r.state = st
	return nil
}

// IsOpen reports whether the Reader currently owns an open stream.
func (r *Reader) IsOpen() bool {
	return r.state != nil
}

// Path returns the path the Reader was opened with, for diagnostics. It is
// empty when the Reader is closed.
func (r *Reader) Path() string {
	if r.state == nil {
		return ""
	}
	return r.state.path
}

// Header returns the document's top-level keys minus the features list.
// The value is parsed once at Open time; repeated calls return the same
// mapping without touching the stream.
func (r *Reader) Header() (Header, error) {
	if r.state == nil {
		return nil, ErrNotOpen
	}
	return r.state.header, nil
}

// RawHeader returns the header bytes exactly as they appear in the file,
// before the trailing comma is dropped and the closing brace appended. It
// is nil when the Reader is closed or when no header was found.
func (r *Reader) RawHeader() []byte {
	if r.state == nil {
		return nil
	}
	return r.state.rawHeader
}

// Next returns the next feature from the stream. The second return value
// is false once the stream is exhausted; that is the normal end of
// iteration, not an error.
func (r *Reader) Next() (Feature, bool, error) {
	if r.state == nil {
		return nil, false, ErrNotOpen
	}
	raw, ok, err := r.state.nextObject()
	if err != nil || !ok {
		return nil, false, err
	}
	var feat Feature
	if err := json.Unmarshal(raw, &feat); err != nil {
		return nil, false, &MalformedError{Section: "feature", Text: string(raw), Err: err}
	}
	return feat, true, nil
}

// NextRaw is Next without the decode: it returns the captured feature
// bytes after checking they form valid JSON. Consumers that only need a
// few fields can path-read the bytes instead of paying for a full decode.
// The returned slice is owned by the caller.
func (r *Reader) NextRaw() ([]byte, bool, error) {
	if r.state == nil {
		return nil, false, ErrNotOpen
	}
	raw, ok, err := r.state.nextObject()
	if err != nil || !ok {
		return nil, false, err
	}
	if !gjson.ValidBytes(raw) {
		return nil, false, &MalformedError{Section: "feature", Text: string(raw), Err: errInvalidJSON}
	}
	return raw, true, nil
}

// Offset returns the absolute byte offset the scanner will read from next.
// It is 0 when the Reader is closed.
func (r *Reader) Offset() int64 {
	if r.state == nil {
		return 0
	}
	return r.state.pos
}

// Rewind repositions the stream at the start of the feature list so the
// next Next call yields the first feature again. The header is not re-read.
// Rewinding a closed Reader is a no-op. If the seek itself fails the Reader
// closes itself before reporting the failure, so it is never left
// half-open.
func (r *Reader) Rewind() error {
	if r.state == nil {
		return nil
	}
	return r.seek(r.state.featureStart)
}

// SeekTo repositions the stream at an absolute byte offset, typically one
// previously returned by Offset. It shares Rewind's failure contract: on a
// seek error the Reader closes itself before returning.
func (r *Reader) SeekTo(offset int64) error {
	if r.state == nil {
		return ErrNotOpen
	}
	return r.seek(offset)
}

func (r *Reader) seek(offset int64) error {
	st := r.state
	if _, err := st.file.Seek(offset, io.SeekStart); err != nil {
		r.Close()
		return &SeekError{Offset: offset, Err: err}
	}
	st.br.Reset(st.file)
	st.pos = offset
	return nil
}

// Close releases the underlying file and returns the Reader to its closed
// state. Closing a closed Reader is a no-op.
func (r *Reader) Close() error {
	st := r.state
	if st == nil {
		return nil
	}
	r.state = nil
	return st.file.Close()
}
