// Package trends turns recent article tags into trending topics and
// onboarding interest suggestions.
package trends

import (
	"sort"
	"strings"

	"ai-pulse/internal/scoring"
)

// TagCount is a canonical tag and its consolidated occurrence count
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Aggregate counts tags case-insensitively, folds synonyms into their
// canonical term, drops generic terms and ranks by count descending.
// Ties are broken by tag text ascending. synonyms and generic must be
// keyed by lower-cased text.
func Aggregate(tagLists [][]string, synonyms map[string]string, generic map[string]struct{}) []TagCount {
	counts := make(map[string]int)
	for _, tags := range tagLists {
		for _, tag := range tags {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag == "" {
				continue
			}
			if canonical, ok := synonyms[tag]; ok {
				tag = canonical
			}
			counts[tag]++
		}
	}

	ranked := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		if _, stop := generic[tag]; stop {
			continue
		}
		ranked = append(ranked, TagCount{Tag: tag, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Tag < ranked[j].Tag
	})
	return ranked
}

// BuzzScore maps a count onto [0.1, 1] relative to the top count, rounded
// to two decimals
func BuzzScore(count, maxCount int) float64 {
	if maxCount <= 0 {
		maxCount = 1
	}
	score := 0.2 + 0.8*float64(count)/float64(maxCount)
	return scoring.Round(scoring.Clamp(score, 0.1, 1.0), 2)
}
