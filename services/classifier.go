package services

import (
	"strings"

	"deal-hunter/config"
)

// OtherIndustry is the sentinel label for listings no keyword rule claims.
const OtherIndustry = "Other"

// ClassifyIndustry maps a listing to exactly one taxonomy label by substring
// matching over the lower-cased title + description. Rules are evaluated in
// table order and the first label with any matching keyword wins, so a
// listing that mentions both laundry and fire sprinklers classifies to
// whichever label is declared earlier.
func ClassifyIndustry(criteria *config.Criteria, title, description string) string {
	text := strings.ToLower(title + " " + description)

	for _, rule := range criteria.IndustryKeywords {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				return rule.Label
			}
		}
	}
	return OtherIndustry
}
