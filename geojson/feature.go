package geojson

import "io"

// maxFeatureDepth caps the brace nesting inside a single feature. A
// feature is attributes plus geometry a couple of levels deep; a counter
// past 10 means the stream is corrupt or the scanner lost sync, so fail
// instead of accumulating garbage until EOF.
const maxFeatureDepth = 10

// nextObject extracts the next complete JSON object from the stream. It
// skips bytes until an opening brace, then captures through the brace that
// balances it, tracking nesting with an explicit counter. ok is false when
// the stream ends before another object starts - the normal end of the
// feature list.
//
// Known limitation, kept deliberately: the counter is byte-level and does
// not suppress braces inside quoted strings. A string value containing a
// literal brace would desync the capture. The wildfire exports never
// contain one.
func (st *openState) nextObject() (obj []byte, ok bool, err error) {
	for {
		b, err := st.readByte()
		if err == io.EOF {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		if b == '{' {
			break
		}
	}

	obj = append(make([]byte, 0, 512), '{')
	depth := 1
	for depth > 0 {
		b, err := st.readByte()
		if err == io.EOF {
			// The object never balanced; report what was captured.
			return nil, false, &MalformedError{Section: "feature", Text: string(obj), Err: io.ErrUnexpectedEOF}
		}
		if err != nil {
			return nil, false, err
		}

		obj = append(obj, b)
		switch b {
		case '{':
			depth++
			if depth > maxFeatureDepth {
				return nil, false, &MalformedError{Section: "feature", Text: string(obj), Err: ErrTooDeep}
			}
		case '}':
			depth--
		}
	}
	return obj, true, nil
}

// readByte consumes one byte through the buffered layer, keeping pos in
// sync since bufio hides the file's own position.
func (st *openState) readByte() (byte, error) {
	b, err := st.br.ReadByte()
	if err == nil {
		st.pos++
	}
	return b, err
}
