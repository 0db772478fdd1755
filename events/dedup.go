package events

import "worldtrends/normalize"

// similarityThreshold is the Jaccard score at or above which two title
// fingerprints are considered the same story.
const similarityThreshold = 0.82

// Deduplicate removes duplicates from the combined event list, preserving the
// relative order of first occurrences. An event is dropped when its URL was
// already accepted, or when its title fingerprint is near-identical to any
// accepted event's. Quadratic in the number of survivors, which is fine at
// feed scale.
func Deduplicate(evs []Event) []Event {
	seenURLs := make(map[string]struct{}, len(evs))
	var kept []Event
	var fingerprints [][]string

	for _, ev := range evs {
		if _, dup := seenURLs[ev.URL]; dup {
			continue
		}

		fp := normalize.Fingerprint(ev.Title)
		nearDup := false
		for _, existing := range fingerprints {
			if normalize.Jaccard(fp, existing) >= similarityThreshold {
				nearDup = true
				break
			}
		}
		if nearDup {
			continue
		}

		seenURLs[ev.URL] = struct{}{}
		kept = append(kept, ev)
		fingerprints = append(fingerprints, fp)
	}

	return kept
}
