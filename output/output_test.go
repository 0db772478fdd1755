package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldtrends/events"
	"worldtrends/feeds"
)

var testSources = []feeds.Source{
	{ID: "bbc", Name: "BBC World", URL: "https://example.com/bbc.xml", Region: "Global"},
	{ID: "nyt", Name: "NYT World", URL: "https://example.com/nyt.xml", Region: "Global"},
}

var testEvents = []events.Event{
	{ID: "bbc-1", Region: "Europe", ISO3: "FRA", Timestamp: "2026-08-25T00:00:00Z"},
	{ID: "nyt-1", Region: "Europe", ISO3: "DEU", Timestamp: "2026-08-24T00:00:00Z"},
	{ID: "bbc-2", Region: "Asia", ISO3: "CHN", Timestamp: "2026-08-23T00:00:00Z"},
}

func TestBuildIndex(t *testing.T) {
	idx := BuildIndex(testEvents, testSources, "2026-08-30T06:00:00Z")

	assert.Equal(t, "2026-08-30T06:00:00Z", idx.GeneratedAt)
	assert.Equal(t, 3, idx.TotalEvents)
	assert.Equal(t, []string{"bbc-1", "nyt-1", "bbc-2"}, idx.EventIDs)
	assert.Equal(t, map[string]int{"Europe": 2, "Asia": 1}, idx.Stats.ByRegion)
	assert.Equal(t, map[string]int{"FRA": 1, "DEU": 1, "CHN": 1}, idx.Stats.ByISO)

	require.Len(t, idx.Sources, 2)
	assert.Equal(t, SourceRef{ID: "bbc", Name: "BBC World", URL: "https://example.com/bbc.xml"}, idx.Sources[0])
}

func TestBuildIndexConsistency(t *testing.T) {
	idx := BuildIndex(testEvents, testSources, "2026-08-30T06:00:00Z")

	assert.Equal(t, len(testEvents), idx.TotalEvents)

	regionSum := 0
	for _, n := range idx.Stats.ByRegion {
		regionSum += n
	}
	assert.Equal(t, idx.TotalEvents, regionSum)

	isoSum := 0
	for _, n := range idx.Stats.ByISO {
		isoSum += n
	}
	assert.Equal(t, idx.TotalEvents, isoSum)
}

func TestBuildIndexEmpty(t *testing.T) {
	idx := BuildIndex(nil, testSources, "2026-08-30T06:00:00Z")
	assert.Equal(t, 0, idx.TotalEvents)
	assert.Empty(t, idx.EventIDs)
	assert.NotNil(t, idx.Stats.ByRegion)
	assert.NotNil(t, idx.Stats.ByISO)
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	evs := []events.Event{{
		ID:        "bbc-1",
		Title:     "Talks <resume> & continue",
		URL:       "https://example.com/a?x=1&y=2",
		Timestamp: "2026-08-25T00:00:00Z",
		Region:    "Europe",
		ISO3:      "FRA",
	}}
	idx := BuildIndex(evs, testSources, "2026-08-30T06:00:00Z")

	require.NoError(t, Write(dir, evs, idx))

	raw, err := os.ReadFile(filepath.Join(dir, EventsFile))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(string(raw), "\n"), "output ends with newline")
	assert.Contains(t, string(raw), "  \"id\": \"bbc-1\"", "two-space indentation")
	assert.Contains(t, string(raw), "https://example.com/a?x=1&y=2", "URL not HTML-escaped")
	assert.Contains(t, string(raw), "Talks <resume> & continue")

	var decoded []events.Event
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, evs, decoded)

	rawIdx, err := os.ReadFile(filepath.Join(dir, IndexFile))
	require.NoError(t, err)
	var decodedIdx Index
	require.NoError(t, json.Unmarshal(rawIdx, &decodedIdx))
	assert.Equal(t, idx, decodedIdx)
}

func TestWriteEmptyEventListIsArray(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Write(dir, nil, BuildIndex(nil, nil, "2026-08-30T06:00:00Z")))

	raw, err := os.ReadFile(filepath.Join(dir, EventsFile))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(raw))
}

func TestWriteOverwritesPreviousRun(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Write(dir, testEvents, BuildIndex(testEvents, testSources, "t1")))
	require.NoError(t, Write(dir, nil, BuildIndex(nil, testSources, "t2")))

	raw, err := os.ReadFile(filepath.Join(dir, EventsFile))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(raw))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files left behind")
}

func TestWriteUnwritableDir(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "does", "not", "exist"), testEvents, Index{})
	assert.Error(t, err)
}
