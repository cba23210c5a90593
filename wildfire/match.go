package wildfire

import (
	"strings"

	"github.com/tidwall/gjson"
)

// A Match pairs a catalog entry with the fire name that matched it.
type Match struct {
	Name   string
	Record FireRecord
}

// Matcher checks raw feature bytes against a catalog. It path-reads the
// three attributes it needs instead of decoding the whole feature, which
// matters when draining millions of features.
type Matcher struct {
	catalog Catalog
}

func NewMatcher(catalog Catalog) *Matcher {
	return &Matcher{catalog: catalog}
}

// Match reports every catalog fire this feature could be: the catalog name
// appears in the feature's listed names, the years agree, and the assigned
// type is a wildfire (the exports also carry prescribed burns). Listed
// names are not unique across states, so a match is a candidate, not an
// identification.
func (m *Matcher) Match(raw []byte) []Match {
	listedNames := gjson.GetBytes(raw, "attributes.Listed_Fire_Names")
	if !listedNames.Exists() {
		return nil
	}
	listed := strings.ToLower(listedNames.String())
	year := int(gjson.GetBytes(raw, "attributes.Fire_Year").Int())
	fireType := strings.ToLower(gjson.GetBytes(raw, "attributes.Assigned_Fire_Type").String())

	var matches []Match
	for name, rec := range m.catalog {
		if !strings.Contains(listed, name) {
			continue
		}
		if year != rec.Year {
			continue
		}
		if !strings.Contains(fireType, "wildfire") {
			continue
		}
		matches = append(matches, Match{Name: name, Record: rec})
	}
	return matches
}
