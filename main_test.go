package main

import (
	"context"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkor/wildstream/geojson"
)

func TestParsePoint_Valid(t *testing.T) {
	point, err := parsePoint("40.5865, -122.3917")
	require.NoError(t, err)
	assert.Equal(t, [2]float64{40.5865, -122.3917}, point)
}

func TestParsePoint_Malformed(t *testing.T) {
	for _, s := range []string{"", "40.5", "a,b", "1,2,3"} {
		_, err := parsePoint(s)
		assert.Error(t, err, "expected %q to be rejected", s)
	}
}

func TestLargestRing_ExtractsFirstRing(t *testing.T) {
	raw := []byte(`{"geometry":{"rings":[[[1,2],[3,4]],[[5,6]]]}}`)

	ring := largestRing(raw)
	assert.Equal(t, [][2]float64{{1, 2}, {3, 4}}, ring)
}

func TestLargestRing_NoGeometry(t *testing.T) {
	assert.Nil(t, largestRing([]byte(`{"attributes":{"id":1}}`)))
}

func TestDrain_CountsAndDedupes(t *testing.T) {
	feature := `{"attributes":{` +
		`"Listed_Fire_Names":"Carr Fire (1)",` +
		`"Fire_Year":2018,` +
		`"Assigned_Fire_Type":"Wildfire"}}`
	dataset := `{"displayFieldName":"X","features":[` + feature + `,` + feature + `]}`

	p := path.Join(t.TempDir(), "dataset.json")
	require.NoError(t, os.WriteFile(p, []byte(dataset), 0644))

	reader, err := geojson.Open(p)
	require.NoError(t, err)
	defer reader.Close()

	err = drain(context.Background(), reader, options{match: true, dedupe: true})
	assert.NoError(t, err)
}

func TestDrain_CancelledContext(t *testing.T) {
	p := path.Join(t.TempDir(), "dataset.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"features":[{"attributes":{"id":1}}]}`), 0644))

	reader, err := geojson.Open(p)
	require.NoError(t, err)
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, drain(ctx, reader, options{}), context.Canceled)
}
