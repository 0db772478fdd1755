package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// fingerprintMaxTokens bounds how many title tokens feed the similarity check.
const fingerprintMaxTokens = 18

// Text canonicalizes free text for matching: lowercase, NFKD decomposition,
// everything outside [a-z0-9] and whitespace replaced with a space, runs of
// whitespace collapsed, leading/trailing whitespace trimmed.
func Text(s string) string {
	decomposed := norm.NFKD.String(strings.ToLower(s))

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// AliasKey is Text with all remaining whitespace removed; the compact form
// used as a country lookup key ("United States" -> "unitedstates").
func AliasKey(s string) string {
	return strings.ReplaceAll(Text(s), " ", "")
}

// Fingerprint reduces a title to its significant tokens: normalized, tokens
// of length <= 2 dropped, capped at the first 18, order preserved.
func Fingerprint(title string) []string {
	var tokens []string
	for _, tok := range strings.Fields(Text(title)) {
		if len(tok) <= 2 {
			continue
		}
		tokens = append(tokens, tok)
		if len(tokens) == fingerprintMaxTokens {
			break
		}
	}
	return tokens
}

// Jaccard computes token-set similarity between two fingerprints:
// |intersection| / |union|, with an empty union defined as 0.
func Jaccard(a, b []string) float64 {
	union := make(map[string]struct{}, len(a)+len(b))
	setA := make(map[string]struct{}, len(a))
	for _, tok := range a {
		setA[tok] = struct{}{}
		union[tok] = struct{}{}
	}

	intersection := 0
	seenB := make(map[string]struct{}, len(b))
	for _, tok := range b {
		if _, dup := seenB[tok]; dup {
			continue
		}
		seenB[tok] = struct{}{}
		if _, ok := setA[tok]; ok {
			intersection++
		}
		union[tok] = struct{}{}
	}

	if len(union) == 0 {
		return 0
	}
	return float64(intersection) / float64(len(union))
}
