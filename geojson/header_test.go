package geojson

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderLocator_SingleQuotedKey(t *testing.T) {
	r := openDataset(t, `{"name":"fires",'features':[{"attributes":{"id":7}}]}`)

	header, err := r.Header()
	require.NoError(t, err)
	assert.Equal(t, Header{"name": "fires"}, header)

	features := drain(t, r)
	require.Len(t, features, 1)
	assert.EqualValues(t, 7, features[0]["attributes"].(map[string]any)["id"])
}

func TestHeaderLocator_WhitespaceAndTrailingComma(t *testing.T) {
	r := openDataset(t, "{\n  \"displayFieldName\": \"X\",\n  \"features\": [\n    {\"attributes\": {\"id\": 1}}\n  ]\n}")

	header, err := r.Header()
	require.NoError(t, err)
	assert.Equal(t, Header{"displayFieldName": "X"}, header)
	assert.Len(t, drain(t, r), 1)
}

func TestHeaderLocator_HeaderLargerThanOneChunk(t *testing.T) {
	// Push the features key well past the first 100-byte chunk.
	long := strings.Repeat("x", 5*headerChunkSize)
	r := openDataset(t, `{"description":"`+long+`","features":[{"attributes":{"id":1}}]}`)

	header, err := r.Header()
	require.NoError(t, err)
	assert.Equal(t, long, header["description"])
	assert.Len(t, drain(t, r), 1)
}

func TestHeaderLocator_KeyNotFound(t *testing.T) {
	r := openDataset(t, `{"name":"no feature list here"}`)

	header, err := r.Header()
	require.NoError(t, err)
	assert.Equal(t, Header{}, header)

	// Scanning resumes where the capped search stopped: end of file.
	_, ok, err := r.Next()
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestHeaderLocator_KeyBeyondScanCap(t *testing.T) {
	// The key exists but only past the ~120 KB cap, so the header silently
	// degrades to an empty mapping.
	pad := strings.Repeat("x", headerChunkSize*headerMaxChunks+512)
	r := openDataset(t, `{"pad":"`+pad+`","features":[]}`)

	header, err := r.Header()
	require.NoError(t, err)
	assert.Equal(t, Header{}, header)
}

func TestHeaderLocator_HeaderParseFailure(t *testing.T) {
	_, err := Open(writeDataset(t, `{broken,"features":[]}`))

	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "header", malformed.Section)
	assert.Contains(t, malformed.Text, "broken")
}

func TestHeaderLocator_RawHeaderKeepsSourceBytes(t *testing.T) {
	r := openDataset(t, `{"displayFieldName":"X","features":[]}`)

	assert.Equal(t, `{"displayFieldName":"X",`, string(r.RawHeader()))
}

func TestHeaderLocator_RawHeaderNilWhenClosed(t *testing.T) {
	r := NewReader()
	assert.Nil(t, r.RawHeader())
}
