package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"worldtrends/events"
	"worldtrends/feeds"
)

// Artifact file names consumed by the dashboard front end.
const (
	EventsFile = "world_trends_events.json"
	IndexFile  = "world_trends_index.json"
)

// SourceRef is the static roster entry published in the index: identity only,
// no runtime status.
type SourceRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Stats holds the per-run aggregate counts.
type Stats struct {
	ByRegion map[string]int `json:"by_region"`
	ByISO    map[string]int `json:"by_iso"`
}

// Index is the summary artifact derived from the final event set.
type Index struct {
	GeneratedAt string      `json:"generated_at"`
	TotalEvents int         `json:"total_events"`
	Sources     []SourceRef `json:"sources"`
	Stats       Stats       `json:"stats"`
	EventIDs    []string    `json:"event_ids"`
}

// BuildIndex aggregates the final sorted event list into the summary record.
// EventIDs follow the event list's order exactly.
func BuildIndex(evs []events.Event, sources []feeds.Source, generatedAt string) Index {
	idx := Index{
		GeneratedAt: generatedAt,
		TotalEvents: len(evs),
		Sources:     make([]SourceRef, 0, len(sources)),
		Stats: Stats{
			ByRegion: make(map[string]int),
			ByISO:    make(map[string]int),
		},
		EventIDs: make([]string, 0, len(evs)),
	}

	for _, src := range sources {
		idx.Sources = append(idx.Sources, SourceRef{ID: src.ID, Name: src.Name, URL: src.URL})
	}

	for _, ev := range evs {
		idx.Stats.ByRegion[ev.Region]++
		idx.Stats.ByISO[ev.ISO3]++
		idx.EventIDs = append(idx.EventIDs, ev.ID)
	}

	return idx
}

// Write persists both artifacts into dir, replacing any previous run's output
// wholesale.
func Write(dir string, evs []events.Event, idx Index) error {
	if evs == nil {
		evs = []events.Event{}
	}
	if err := writeJSON(filepath.Join(dir, EventsFile), evs); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, IndexFile), idx)
}

// writeJSON pretty-prints v and writes it atomically: temp file in the same
// directory, then rename over the target, so readers never see a truncated
// artifact. HTML escaping is off so URLs round-trip verbatim.
func writeJSON(path string, v any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp output: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp output: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
