package main

import (
	"fmt"

	"github.com/itchyny/gojq"

	"github.com/mkor/wildstream/geojson"
)

// FeatureQuery is a compiled gojq program applied to each streamed
// feature, e.g. ".attributes.Fire_Year" or ".geometry.rings | length".
type FeatureQuery struct {
	code *gojq.Code
}

func CompileQuery(src string) (*FeatureQuery, error) {
	parsed, err := gojq.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query %q: %w", src, err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to compile query %q: %w", src, err)
	}
	return &FeatureQuery{code: code}, nil
}

// Run evaluates the query against one feature and returns every emitted
// value.
func (q *FeatureQuery) Run(feat geojson.Feature) ([]any, error) {
	var results []any
	iter := q.code.Run(map[string]any(feat))
	for {
		v, ok := iter.Next()
		if !ok {
			return results, nil
		}
		if err, isErr := v.(error); isErr {
			return nil, err
		}
		results = append(results, v)
	}
}
