package events

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"time"

	"worldtrends/feeds"
	"worldtrends/geo"
	"worldtrends/normalize"
)

// Event is one normalized, deduplicated news record, the unit of the
// published dataset.
type Event struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	URL            string `json:"url"`
	Timestamp      string `json:"timestamp"`
	Source         string `json:"source"`
	SourceName     string `json:"source_name"`
	ISO3           string `json:"iso3"`
	Region         string `json:"region"`
	SeveritySignal int    `json:"severity_signal"`
}

// timestampLayouts are tried in order when parsing a feed's publish date.
var timestampLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
	time.RFC850,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalizer turns raw feed items into events. RunTime is the fallback
// instant for unparseable publish dates.
type Normalizer struct {
	Lookup  *geo.Lookup
	RunTime time.Time
}

// Normalize produces the event for one raw item. It never fails: every field
// has a defined fallback.
func (n *Normalizer) Normalize(item feeds.RawItem, src feeds.Source) Event {
	text := normalize.Text(item.Title + " " + item.Description)

	region, ok := DetectRegion(text)
	if !ok {
		region = src.Region
		if region == "" {
			region = RegionGlobal
		}
	}

	iso3, ok := n.Lookup.Resolve(text)
	if !ok {
		iso3 = FallbackISO(region)
	}

	return Event{
		ID:             EventID(src.ID, item.URL),
		Title:          item.Title,
		URL:            item.URL,
		Timestamp:      parseTimestamp(item.PublishedRaw, n.RunTime),
		Source:         src.ID,
		SourceName:     src.Name,
		ISO3:           iso3,
		Region:         region,
		SeveritySignal: SeveritySignal(text),
	}
}

// EventID derives the stable identifier for a (source, URL) pair: the source
// id plus a 16-hex-character prefix of the URL's SHA-256. Deterministic
// across runs; collisions across distinct URLs are negligible at feed scale.
func EventID(sourceID, url string) string {
	sum := sha256.Sum256([]byte(url))
	return sourceID + "-" + hex.EncodeToString(sum[:8])
}

func parseTimestamp(raw string, fallback time.Time) string {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return fallback.UTC().Format(time.RFC3339)
}

// SortNewestFirst orders events by timestamp descending. The sort is stable,
// so events sharing a timestamp keep their deduplication order.
func SortNewestFirst(evs []Event) {
	sort.SliceStable(evs, func(i, j int) bool {
		return evs[i].Timestamp > evs[j].Timestamp
	})
}
