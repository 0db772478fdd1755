package events

import "strings"

// RegionGlobal is the terminal fallback when neither the text nor the source
// configuration yields a region.
const RegionGlobal = "Global"

// regionRule ties a region to its trigger keywords (already in normalized
// form). Rules are evaluated in the order listed; the first region with a
// keyword present in the text wins.
type regionRule struct {
	region   string
	keywords []string
}

var regionRules = []regionRule{
	{"Europe", []string{"europe", "eu", "uk", "france", "germany", "italy", "spain", "ukraine", "russia"}},
	{"Asia", []string{"asia", "china", "japan", "korea", "india", "taiwan", "southeast asia", "philippines"}},
	{"Africa", []string{"africa", "sudan", "ethiopia", "niger", "congo", "sahel", "kenya", "somalia"}},
	{"Americas", []string{"americas", "latin america", "canada", "united states", "us", "mexico", "brazil", "argentina"}},
	{"Oceania", []string{"oceania", "pacific", "australia", "new zealand"}},
	{"Middle East", []string{"middle east", "gaza", "israel", "iran", "iraq", "syria", "lebanon", "yemen"}},
}

// regionFallbackISO maps a region to its placeholder country code, used when
// no specific country resolves.
var regionFallbackISO = map[string]string{
	"Europe":      "EUR",
	"Asia":        "ASI",
	"Africa":      "AFR",
	"Americas":    "AME",
	"Oceania":     "OCE",
	"Middle East": "MEA",
	RegionGlobal:  "GLB",
}

// DetectRegion matches already-normalized text against the region rules.
func DetectRegion(normalizedText string) (string, bool) {
	for _, rule := range regionRules {
		for _, word := range rule.keywords {
			if strings.Contains(normalizedText, word) {
				return rule.region, true
			}
		}
	}
	return "", false
}

// FallbackISO returns the regional placeholder code for unresolved countries.
func FallbackISO(region string) string {
	if iso, ok := regionFallbackISO[region]; ok {
		return iso
	}
	return regionFallbackISO[RegionGlobal]
}
