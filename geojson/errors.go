package geojson

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPath is returned by Open when no path is supplied.
	ErrNoPath = errors.New("geojson: no path to open")

	// ErrAlreadyOpen is returned by Open when the Reader already owns a
	// stream. The original stream stays active.
	ErrAlreadyOpen = errors.New("geojson: reader is already open")

	// ErrNotOpen is returned by any data access on a closed Reader.
	ErrNotOpen = errors.New("geojson: reader is not open")

	// ErrTooDeep is wrapped in a MalformedError when the brace counter
	// exceeds the nesting guard. Real features never nest that deep, so
	// tripping it means the stream is corrupt or the scanner lost sync.
	ErrTooDeep = errors.New("geojson: feature nesting too deep")

	errInvalidJSON = errors.New("invalid JSON")
)

// OpenError reports a file that could not be opened for reading. It names
// the working directory because the reader is usually handed a relative
// dataset path.
type OpenError struct {
	Path string
	Dir  string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("geojson: could not open %q in directory %q: %v", e.Path, e.Dir, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// MalformedError reports a span of the stream that should have held a JSON
// object but did not parse, or that tripped the nesting guard. Text is the
// raw offending span, kept for diagnosis.
type MalformedError struct {
	Section string // "header" or "feature"
	Text    string
	Err     error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("geojson: malformed %s: %v: %s", e.Section, e.Err, e.Text)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// SeekError reports a failed reposition. The Reader closes itself before
// returning one, so the caller never observes a half-open Reader.
type SeekError struct {
	Offset int64
	Err    error
}

func (e *SeekError) Error() string {
	return fmt.Sprintf("geojson: seek to offset %d failed: %v (reader closed)", e.Offset, e.Err)
}

func (e *SeekError) Unwrap() error { return e.Err }
