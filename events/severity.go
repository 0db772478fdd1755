package events

import "strings"

// baselineSeverity is assigned when no keyword tier matches.
const baselineSeverity = 25

// severityTier maps a score to the keywords that trigger it. Tiers are
// scanned top-to-bottom; the first tier with any keyword present in the text
// wins, regardless of how many lower-tier words also occur.
type severityTier struct {
	score int
	words []string
}

var severityTiers = []severityTier{
	{95, []string{"war", "invasion", "genocide", "massacre"}},
	{85, []string{"airstrike", "missile", "attack", "bombing", "offensive", "military"}},
	{75, []string{"sanction", "coup", "crisis", "conflict", "riot", "hostage"}},
	{60, []string{"protest", "threat", "cyberattack", "clash"}},
	{40, []string{"talks", "summit", "election", "policy", "agreement"}},
}

// SeveritySignal scores already-normalized text against the keyword tiers.
func SeveritySignal(normalizedText string) int {
	for _, tier := range severityTiers {
		for _, word := range tier.words {
			if strings.Contains(normalizedText, word) {
				return tier.score
			}
		}
	}
	return baselineSeverity
}
