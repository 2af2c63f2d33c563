package services

import (
	"strings"

	"deal-hunter/config"
)

// DetectTraits scans the lower-cased title + description against the trait
// keyword table and splits hits into preferred and avoid tags. Each tag is
// recorded at most once — scanning of a tag's keyword list stops at the first
// hit — and the output order is the table's declaration order. A tag that
// belongs to neither universe is dropped.
func DetectTraits(criteria *config.Criteria, description, title string) (positive, negative []string) {
	text := strings.ToLower(title + " " + description)

	for _, rule := range criteria.TraitKeywords {
		for _, kw := range rule.Keywords {
			if !strings.Contains(text, strings.ToLower(kw)) {
				continue
			}
			switch {
			case criteria.IsPreferredTrait(rule.Tag):
				positive = append(positive, rule.Tag)
			case criteria.IsAvoidTrait(rule.Tag):
				negative = append(negative, rule.Tag)
			}
			break
		}
	}

	return positive, negative
}
