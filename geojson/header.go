package geojson

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// The header locator reads the file forward in small chunks until the
// features key shows up in the accumulated buffer, then treats everything
// before the key as the header. The cap bounds the scan on files that
// don't look like the expected dataset: roughly the first 120 KB.
//
// This assumes every header key precedes "features" in the document, which
// holds for the USGS exports but is not a GeoJSON guarantee.
const (
	headerChunkSize = 100
	headerMaxChunks = 1200
)

// Both quoting styles are accepted, single quotes first, matching files
// produced by non-strict encoders.
var featuresKeys = [][]byte{
	[]byte(`'features'`),
	[]byte(`"features"`),
}

// locateHeader scans forward for the features key, parses the bytes before
// it as the header and leaves the file positioned just past the key, with
// that position recorded as the rewind target. When the key is never found
// within the cap the header degrades to an empty mapping - not an error -
// and the cursor stays wherever the scan stopped.
func (st *openState) locateHeader() error {
	var buf []byte
	chunk := make([]byte, headerChunkSize)

	for i := 0; i < headerMaxChunks; i++ {
		n, err := st.file.Read(chunk)
		buf = append(buf, chunk[:n]...)

		if idx, key := indexFeaturesKey(buf); idx >= 0 {
			return st.splitHeader(buf, idx, key)
		}

		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
	}

	// Key never found. Empty header, rewind target left at its zero
	// default, scan resumes from wherever the capped read stopped.
	st.header = Header{}
	st.pos = int64(len(buf))
	return nil
}

// indexFeaturesKey looks for the quoted features key followed by a colon.
// The colon requirement keeps a partially read key at the end of the
// buffer from matching early; the returned index is of the key itself.
func indexFeaturesKey(buf []byte) (int, []byte) {
	for _, key := range featuresKeys {
		if bytes.Contains(buf, append(append([]byte(nil), key...), ':')) {
			if idx := bytes.Index(buf, key); idx >= 0 {
				return idx, key
			}
		}
	}
	return -1, nil
}

// splitHeader takes the accumulated scan buffer and the location of the
// features key within it, repairs the truncated object body into valid
// JSON and parses it, then seeks the file to just past the key so feature
// scanning starts there. The byte after the key is usually the colon; the
// feature extractor never assumes so, it scans forward for the next object
// start.
func (st *openState) splitHeader(buf []byte, idx int, key []byte) error {
	st.rawHeader = append([]byte(nil), buf[:idx]...)
	st.featureStart = int64(idx + len(key))

	if _, err := st.file.Seek(st.featureStart, io.SeekStart); err != nil {
		return &SeekError{Offset: st.featureStart, Err: err}
	}
	st.pos = st.featureStart

	// The captured text is a truncated object body: strip the whitespace
	// some encoders add, drop the comma that separated the header from the
	// features key, and close the object again.
	text := strings.Trim(string(st.rawHeader), " \t\n\r")
	text = strings.TrimSuffix(text, ",")
	text += "}"

	var header Header
	if err := json.Unmarshal([]byte(text), &header); err != nil {
		return &MalformedError{Section: "header", Text: text, Err: err}
	}
	st.header = header
	return nil
}
