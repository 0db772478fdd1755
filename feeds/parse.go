package feeds

import (
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
)

var (
	itemRe  = regexp.MustCompile(`(?is)<item.*?</item>`)
	cdataRe = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)

	titleRe  = tagPattern("title")
	linkRe   = tagPattern("link")
	dateRe   = tagPattern("pubDate")
	dcDateRe = tagPattern("dc:date")
	descRe   = tagPattern("description")

	entityDecoder = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
)

func tagPattern(tag string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)<` + tag + `[^>]*>(.*?)</` + tag + `>`)
}

// Parse extracts raw items from one source's feed document. A conformant
// parse is attempted first; documents it rejects fall back to a tolerant
// extraction that scans item blocks directly, so broken markup outside item
// boundaries still yields the items it contains. Items missing a title or
// link are dropped either way.
func Parse(body, sourceID string) []RawItem {
	if items, ok := parseConformant(body, sourceID); ok {
		return items
	}
	return parseTolerant(body, sourceID)
}

func parseConformant(body, sourceID string) ([]RawItem, bool) {
	feed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		return nil, false
	}

	var items []RawItem
	for _, entry := range feed.Items {
		title := strings.TrimSpace(entry.Title)
		link := strings.TrimSpace(entry.Link)
		if title == "" || link == "" {
			continue
		}

		published := entry.Published
		if published == "" && entry.DublinCoreExt != nil && len(entry.DublinCoreExt.Date) > 0 {
			published = entry.DublinCoreExt.Date[0]
		}

		items = append(items, RawItem{
			Title:        title,
			URL:          link,
			Description:  strings.TrimSpace(entry.Description),
			PublishedRaw: published,
			SourceID:     sourceID,
		})
	}
	return items, true
}

// parseTolerant is the best-effort path for documents a feed parser rejects:
// item blocks are located case-insensitively and non-greedily, and each field
// is read as the first well-formed occurrence of its tag within the block.
func parseTolerant(body, sourceID string) []RawItem {
	var items []RawItem
	for _, block := range itemRe.FindAllString(body, -1) {
		title := extractTag(block, titleRe)
		link := extractTag(block, linkRe)
		if title == "" || link == "" {
			continue
		}

		published := extractTag(block, dateRe)
		if published == "" {
			published = extractTag(block, dcDateRe)
		}

		items = append(items, RawItem{
			Title:        title,
			URL:          link,
			Description:  extractTag(block, descRe),
			PublishedRaw: published,
			SourceID:     sourceID,
		})
	}
	return items
}

// extractTag returns the decoded inner content of the first occurrence of the
// tag: CDATA wrappers removed, the five standard XML entity escapes decoded,
// surrounding whitespace trimmed.
func extractTag(block string, re *regexp.Regexp) string {
	m := re.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	inner := cdataRe.ReplaceAllString(m[1], "$1")
	return strings.TrimSpace(entityDecoder.Replace(inner))
}
