package geojson

import (
	"errors"
	"io"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDataset = `{"displayFieldName":"X","fieldAliases":{},"features":[` +
	`{"attributes":{"id":1},"geometry":{"rings":[[1,2]]}},` +
	`{"attributes":{"id":2},"geometry":{"rings":[[3,4]]}}]}`

func writeDataset(t *testing.T, contents string) string {
	t.Helper()
	filepath := path.Join(t.TempDir(), "dataset.json")
	if err := os.WriteFile(filepath, []byte(contents), 0644); err != nil {
		t.Fatalf("Failed to create dataset file: %v", err)
	}
	return filepath
}

func openDataset(t *testing.T, contents string) *Reader {
	t.Helper()
	r, err := Open(writeDataset(t, contents))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func drain(t *testing.T, r *Reader) []Feature {
	t.Helper()
	var features []Feature
	for {
		feat, ok, err := r.Next()
		require.NoError(t, err)
		if !ok {
			return features
		}
		features = append(features, feat)
	}
}

func TestReader_Header(t *testing.T) {
	r := openDataset(t, sampleDataset)

	header, err := r.Header()
	assert.NoError(t, err)
	assert.Equal(t, Header{"displayFieldName": "X", "fieldAliases": map[string]any{}}, header)
}

func TestReader_HeaderRepeatedCalls(t *testing.T) {
	r := openDataset(t, sampleDataset)

	first, err := r.Header()
	assert.NoError(t, err)
	again, err := r.Header()
	assert.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestReader_ReadsFeaturesInOrder(t *testing.T) {
	r := openDataset(t, sampleDataset)

	features := drain(t, r)
	require.Len(t, features, 2)
	assert.EqualValues(t, 1, features[0]["attributes"].(map[string]any)["id"])
	assert.EqualValues(t, 2, features[1]["attributes"].(map[string]any)["id"])
}

func TestReader_SignalsEndOfFeatures(t *testing.T) {
	r := openDataset(t, sampleDataset)

	drain(t, r)
	feat, ok, err := r.Next()
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, feat)
}

func TestReader_EmptyFeatureList(t *testing.T) {
	r := openDataset(t, `{"name":"empty","features":[]}`)

	feat, ok, err := r.Next()
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, feat)
}

func TestReader_RewindReplaysFeatures(t *testing.T) {
	r := openDataset(t, sampleDataset)

	first := drain(t, r)
	require.Len(t, first, 2)

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Rewind())
		assert.Equal(t, first, drain(t, r))
	}
}

func TestReader_RewindAfterOneFeature(t *testing.T) {
	r := openDataset(t, sampleDataset)

	feat, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, r.Rewind())

	again, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, feat, again)
}

func TestReader_RewindWhenClosedIsNoop(t *testing.T) {
	r := NewReader()
	assert.NoError(t, r.Rewind())
}

func TestReader_NotOpenErrors(t *testing.T) {
	r := NewReader()

	_, err := r.Header()
	assert.ErrorIs(t, err, ErrNotOpen)

	_, _, err = r.Next()
	assert.ErrorIs(t, err, ErrNotOpen)

	_, _, err = r.NextRaw()
	assert.ErrorIs(t, err, ErrNotOpen)

	assert.ErrorIs(t, r.SeekTo(0), ErrNotOpen)
}

func TestReader_NotOpenAfterClose(t *testing.T) {
	r := openDataset(t, sampleDataset)
	require.NoError(t, r.Close())

	_, err := r.Header()
	assert.ErrorIs(t, err, ErrNotOpen)

	_, _, err = r.Next()
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestReader_CloseIsIdempotent(t *testing.T) {
	r := openDataset(t, sampleDataset)
	assert.NoError(t, r.Close())
	assert.NoError(t, r.Close())
}

func TestReader_OpenEmptyPath(t *testing.T) {
	r := NewReader()
	assert.ErrorIs(t, r.Open(""), ErrNoPath)
	assert.False(t, r.IsOpen())
}

func TestReader_OpenMissingFile(t *testing.T) {
	r := NewReader()
	err := r.Open(path.Join(t.TempDir(), "nope.json"))

	var openErr *OpenError
	require.ErrorAs(t, err, &openErr)
	assert.Contains(t, openErr.Path, "nope.json")
	assert.NotEmpty(t, openErr.Dir)
	assert.False(t, r.IsOpen())
}

func TestReader_OpenTwiceKeepsFirstStream(t *testing.T) {
	first := writeDataset(t, sampleDataset)
	r, err := Open(first)
	require.NoError(t, err)
	defer r.Close()

	err = r.Open(writeDataset(t, `{"features":[]}`))
	assert.ErrorIs(t, err, ErrAlreadyOpen)

	// The first stream must remain active and fully readable.
	assert.Equal(t, first, r.Path())
	assert.Len(t, drain(t, r), 2)
}

func TestReader_MalformedFeature(t *testing.T) {
	r := openDataset(t, `{"features":[{"attributes":}]}`)

	_, _, err := r.Next()
	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "feature", malformed.Section)
	assert.Equal(t, `{"attributes":}`, malformed.Text)
}

func TestReader_NestingGuard(t *testing.T) {
	depth := 11
	feature := strings.Repeat(`{"a":`, depth) + "1" + strings.Repeat("}", depth)
	r := openDataset(t, `{"features":[`+feature+`]}`)

	_, _, err := r.Next()
	assert.ErrorIs(t, err, ErrTooDeep)
}

func TestReader_DeepButLegalNesting(t *testing.T) {
	depth := 10
	feature := strings.Repeat(`{"a":`, depth) + "1" + strings.Repeat("}", depth)
	r := openDataset(t, `{"features":[`+feature+`]}`)

	_, ok, err := r.Next()
	assert.NoError(t, err)
	assert.True(t, ok)
}

// Pins the documented limitation: the brace counter is byte-level, so a
// literal closing brace inside a string value desyncs the capture and the
// truncated text fails to parse.
func TestReader_BraceInsideStringValue(t *testing.T) {
	r := openDataset(t, `{"features":[{"attributes":{"name":"}"}}]}`)

	_, _, err := r.Next()
	var malformed *MalformedError
	assert.ErrorAs(t, err, &malformed)
}

func TestReader_TruncatedStream(t *testing.T) {
	r := openDataset(t, `{"features":[{"attributes":{"id":1`)

	_, _, err := r.Next()
	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReader_NextRawReturnsSourceBytes(t *testing.T) {
	r := openDataset(t, sampleDataset)

	raw, ok, err := r.NextRaw()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"attributes":{"id":1},"geometry":{"rings":[[1,2]]}}`, string(raw))
}

func TestReader_NextRawSignalsEnd(t *testing.T) {
	r := openDataset(t, `{"features":[]}`)

	raw, ok, err := r.NextRaw()
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, raw)
}

func TestReader_SeekToReplaysFromOffset(t *testing.T) {
	r := openDataset(t, sampleDataset)

	_, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)

	offset := r.Offset()
	second, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, r.SeekTo(offset))
	again, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second, again)
}

func TestReader_ErrorKindsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrNotOpen, ErrAlreadyOpen))
	assert.False(t, errors.Is(ErrNoPath, ErrNotOpen))
}
