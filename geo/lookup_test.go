package geo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"properties": {"iso_a3": "FRA", "name": "France", "name_long": "French Republic"}},
    {"properties": {"ISO_A3": "DEU", "name": "Germany", "sovereignt": "Germany"}},
    {"properties": {"adm0_a3": "UKR", "name": "Ukraine"}},
    {"properties": {"iso_a3": "-99", "name": "Kosovo"}},
    {"properties": {"iso_a3": "TUR", "name": "Türkiye"}},
    {"properties": {"name": "Nowhere"}}
  ]
}`

func TestFromGeoJSON(t *testing.T) {
	l, err := FromGeoJSON([]byte(sampleGeoJSON))
	require.NoError(t, err)

	iso, ok := l.Get("france")
	assert.True(t, ok)
	assert.Equal(t, "FRA", iso)

	iso, ok = l.Get("frenchrepublic")
	assert.True(t, ok)
	assert.Equal(t, "FRA", iso)

	iso, ok = l.Get("germany")
	assert.True(t, ok)
	assert.Equal(t, "DEU", iso)

	iso, ok = l.Get("ukraine")
	assert.True(t, ok)
	assert.Equal(t, "UKR", iso)

	// Diacritics collapse into the plain alias key.
	iso, ok = l.Get("turkiye")
	assert.True(t, ok)
	assert.Equal(t, "TUR", iso)
}

func TestFromGeoJSONSkipsMalformedISO(t *testing.T) {
	l, err := FromGeoJSON([]byte(sampleGeoJSON))
	require.NoError(t, err)

	_, ok := l.Get("kosovo")
	assert.False(t, ok, "feature with non-alpha ISO code must be discarded")
	_, ok = l.Get("nowhere")
	assert.False(t, ok, "feature without ISO code must be discarded")
}

func TestManualAliasesOverrideDataset(t *testing.T) {
	// Dataset deliberately maps "russia" elsewhere; manual table must win.
	geo := `{"features": [{"properties": {"iso_a3": "XXA", "name": "Russia"}}]}`
	l, err := FromGeoJSON([]byte(geo))
	require.NoError(t, err)

	iso, ok := l.Get("russia")
	assert.True(t, ok)
	assert.Equal(t, "RUS", iso)

	iso, ok = l.Get("palestine")
	assert.True(t, ok)
	assert.Equal(t, "PSE", iso)
}

func TestResolve(t *testing.T) {
	l, err := FromGeoJSON([]byte(sampleGeoJSON))
	require.NoError(t, err)

	iso, ok := l.Resolve("tensions rise in ukraine after strikes")
	assert.True(t, ok)
	assert.Equal(t, "UKR", iso)

	iso, ok = l.Resolve("talks continue over palestine recognition")
	assert.True(t, ok)
	assert.Equal(t, "PSE", iso)

	_, ok = l.Resolve("stock markets rally on tech earnings")
	assert.False(t, ok)
}

func TestResolveFirstRegisteredWins(t *testing.T) {
	geo := `{"features": [
	  {"properties": {"iso_a3": "FRA", "name": "France"}},
	  {"properties": {"iso_a3": "DEU", "name": "Germany"}}
	]}`
	l, err := FromGeoJSON([]byte(geo))
	require.NoError(t, err)

	iso, ok := l.Resolve("france and germany issue joint statement")
	assert.True(t, ok)
	assert.Equal(t, "FRA", iso, "earlier-registered alias takes precedence")
}

func TestResolveSkipsShortKeys(t *testing.T) {
	l, err := FromGeoJSON([]byte(`{"features": []}`))
	require.NoError(t, err)

	// "us" is registered but only 2 chars; must not fire on the "us" inside
	// unrelated words.
	_, ok := l.Resolve("museum reopens after renovation")
	assert.False(t, ok)
}

func TestBuildLookupMissingFile(t *testing.T) {
	_, err := BuildLookup(filepath.Join(t.TempDir(), "absent.geojson"))
	assert.Error(t, err)
}

func TestBuildLookupUnparseable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.geojson")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := BuildLookup(path)
	assert.Error(t, err)
}

func TestBuildLookupReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "countries.geojson")
	require.NoError(t, os.WriteFile(path, []byte(sampleGeoJSON), 0o644))

	l, err := BuildLookup(path)
	require.NoError(t, err)
	assert.Greater(t, l.Len(), len(manualAliases))
}

func TestCamelPhrase(t *testing.T) {
	assert.Equal(t, "south korea", camelPhrase("southKorea"))
	assert.Equal(t, "unitedstates", camelPhrase("unitedstates"))
}
