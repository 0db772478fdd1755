package pipeline

import (
	"context"
	"log/slog"
	"time"

	"worldtrends/events"
	"worldtrends/feeds"
	"worldtrends/geo"
)

// SourceReport is one source's outcome within a run: how many items it
// contributed, or why it contributed none.
type SourceReport struct {
	Source feeds.Source
	Items  int
	Err    error
}

// Result is everything one collection run produced.
type Result struct {
	Events      []events.Event
	Reports     []SourceReport
	GeneratedAt string
}

// Pipeline wires the collection stages together over an immutable
// configuration. Now is injectable for tests; nil means time.Now.
type Pipeline struct {
	Sources []feeds.Source
	Lookup  *geo.Lookup
	Fetcher *feeds.Fetcher
	Now     func() time.Time
}

// Run executes one full collection pass: concurrent fetch of every source,
// then sequential parse, normalize, dedup, and sort. Source failures are
// warned and skipped; Run itself only reflects them in the reports.
func (p *Pipeline) Run(ctx context.Context) Result {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	runTime := now().UTC()

	fetched := p.Fetcher.FetchAll(ctx, p.Sources)

	normalizer := &events.Normalizer{Lookup: p.Lookup, RunTime: runTime}
	var all []events.Event
	reports := make([]SourceReport, 0, len(fetched))

	for _, res := range fetched {
		if res.Err != nil {
			slog.Warn("skipping source", "source", res.Source.ID, "error", res.Err)
			reports = append(reports, SourceReport{Source: res.Source, Err: res.Err})
			continue
		}

		items := feeds.Parse(res.Body, res.Source.ID)
		slog.Debug("parsed source", "source", res.Source.ID, "items", len(items))
		for _, item := range items {
			all = append(all, normalizer.Normalize(item, res.Source))
		}
		reports = append(reports, SourceReport{Source: res.Source, Items: len(items)})
	}

	deduped := events.Deduplicate(all)
	events.SortNewestFirst(deduped)

	return Result{
		Events:      deduped,
		Reports:     reports,
		GeneratedAt: runTime.Format(time.RFC3339),
	}
}
