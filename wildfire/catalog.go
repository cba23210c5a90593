// Package wildfire matches streamed features against a catalog of named
// fires. The USGS attributes carry every name a fire was ever listed
// under, so matching is substring-based over the lowercased name list.
package wildfire

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FireRecord describes one named fire worth searching for.
type FireRecord struct {
	Year     int `yaml:"year"`
	Acres    int `yaml:"acres"`
	Hectares int `yaml:"hectares"`
}

// Catalog maps a lowercased fire name to its record.
type Catalog map[string]FireRecord

// DefaultCatalog returns the built-in table of large California wildfires,
// compiled from the Wikipedia list of the state's biggest fires. The names
// were picked to be reasonably unique within the listed-name attribute.
func DefaultCatalog() Catalog {
	return Catalog{
		"cedar":                   {Year: 2003, Acres: 273246, Hectares: 110579},
		"mendocino complex":       {Year: 2018, Acres: 459123, Hectares: 185800},
		"matilija":                {Year: 1932, Acres: 220000, Hectares: 89000},
		"zaca":                    {Year: 2007, Acres: 240207, Hectares: 97208},
		"carr":                    {Year: 2018, Acres: 229651, Hectares: 92936},
		"monument":                {Year: 2021, Acres: 223124, Hectares: 90295},
		"north complex":           {Year: 2020, Acres: 318935, Hectares: 129068},
		"river complex":           {Year: 2021, Acres: 199343, Hectares: 80671},
		"klamath theater complex": {Year: 2008, Acres: 192038, Hectares: 77715},
		"santiago canyon":         {Year: 1889, Acres: 300000, Hectares: 120000},
	}
}

// LoadCatalog reads a catalog from a YAML file of name -> record entries.
// Names are lowercased so lookups match the attribute normalization.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading catalog %q", path)
	}

	var raw map[string]FireRecord
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "parsing catalog %q", path)
	}

	catalog := make(Catalog, len(raw))
	for name, rec := range raw {
		catalog[strings.ToLower(name)] = rec
	}
	return catalog, nil
}
