package geo

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"worldtrends/normalize"
)

// rule maps one normalized alias key to an ISO alpha-3 code. Rules are
// evaluated top-to-bottom in insertion order, which makes match precedence an
// explicit property of how the lookup was built.
type rule struct {
	Key  string
	ISO3 string
}

// Lookup resolves country mentions in normalized text to ISO alpha-3 codes.
// Built once per run and read-only afterwards.
type Lookup struct {
	rules []rule
	index map[string]int
}

// manualAliases augments the geodataset with colloquial and historical names.
// Applied after the dataset, so they win any key collision.
var manualAliases = []rule{
	{"usa", "USA"},
	{"us", "USA"},
	{"unitedstates", "USA"},
	{"uk", "GBR"},
	{"unitedkingdom", "GBR"},
	{"russia", "RUS"},
	{"southkorea", "KOR"},
	{"northkorea", "PRK"},
	{"uae", "ARE"},
	{"congodrc", "COD"},
	{"drcongo", "COD"},
	{"ivorycoast", "CIV"},
	{"czechrepublic", "CZE"},
	{"turkey", "TUR"},
	{"vatican", "VAT"},
	{"laos", "LAO"},
	{"bolivia", "BOL"},
	{"venezuela", "VEN"},
	{"moldova", "MDA"},
	{"tanzania", "TZA"},
	{"palestine", "PSE"},
}

// nameFields are the feature properties tried as human-readable country names.
var nameFields = []string{
	"name",
	"name_en",
	"admin",
	"brk_name",
	"formal_en",
	"name_long",
	"sovereignt",
	"geounit",
}

// isoFields are the property spellings tried for the ISO alpha-3 code.
var isoFields = []string{"iso_a3", "ISO_A3", "adm0_a3"}

type featureCollection struct {
	Features []struct {
		Properties map[string]any `json:"properties"`
	} `json:"features"`
}

// BuildLookup loads the country-boundary reference file and builds the alias
// lookup. The reference file is mandatory; any read or parse error is fatal to
// the caller.
func BuildLookup(path string) (*Lookup, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading country reference %s: %w", path, err)
	}
	lookup, err := FromGeoJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing country reference %s: %w", path, err)
	}
	return lookup, nil
}

// FromGeoJSON builds the lookup from raw GeoJSON bytes: one entry per
// non-empty name field of every feature carrying a well-formed ISO alpha-3
// code, then the manual alias table on top.
func FromGeoJSON(raw []byte) (*Lookup, error) {
	var fc featureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, err
	}

	l := &Lookup{index: make(map[string]int)}

	for _, feature := range fc.Features {
		iso3 := strings.ToUpper(firstStringProp(feature.Properties, isoFields))
		if !isISO3(iso3) {
			continue
		}
		for _, field := range nameFields {
			name := stringProp(feature.Properties, field)
			if name == "" {
				continue
			}
			l.put(normalize.AliasKey(name), iso3)
		}
	}

	for _, alias := range manualAliases {
		l.put(alias.Key, alias.ISO3)
	}

	return l, nil
}

// put registers an alias. A repeated key keeps its original position but takes
// the new code (last write wins on value, first write wins on order).
func (l *Lookup) put(key, iso3 string) {
	if key == "" {
		return
	}
	if i, ok := l.index[key]; ok {
		l.rules[i].ISO3 = iso3
		return
	}
	l.index[key] = len(l.rules)
	l.rules = append(l.rules, rule{Key: key, ISO3: iso3})
}

// Get returns the code registered for an exact alias key.
func (l *Lookup) Get(key string) (string, bool) {
	i, ok := l.index[key]
	if !ok {
		return "", false
	}
	return l.rules[i].ISO3, true
}

// Len reports how many aliases are registered.
func (l *Lookup) Len() int {
	return len(l.rules)
}

// Resolve scans the rules in insertion order for an alias appearing inside
// the given normalized text, trying both the spaced phrase form and the
// compact key. Keys shorter than 3 characters are too noisy to substring-match
// and are skipped. When several aliases occur in the text, the
// first-registered one wins.
func (l *Lookup) Resolve(normalizedText string) (string, bool) {
	for _, r := range l.rules {
		if len(r.Key) < 3 {
			continue
		}
		if strings.Contains(normalizedText, camelPhrase(r.Key)) || strings.Contains(normalizedText, r.Key) {
			return r.ISO3, true
		}
	}
	return "", false
}

// camelPhrase rewrites camelCase boundaries as spaces and lowercases, turning
// a compact key back into a matchable phrase. Keys produced by AliasKey are
// already flat lowercase and pass through unchanged.
func camelPhrase(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 2)
	var prev rune
	for _, r := range key {
		if r >= 'A' && r <= 'Z' && prev >= 'a' && prev <= 'z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return strings.ToLower(b.String())
}

func isISO3(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

func stringProp(props map[string]any, field string) string {
	v, ok := props[field]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

func firstStringProp(props map[string]any, fields []string) string {
	for _, field := range fields {
		if s := stringProp(props, field); s != "" {
			return s
		}
	}
	return ""
}
