package services

import (
	"regexp"
	"strconv"
	"strings"

	"deal-hunter/models"
)

// Anchored extraction patterns. Each one looks for a nearby field label and
// captures the first amount that follows within the same clause; the
// [^$\d\n] gap keeps a label from reaching across unrelated numbers.
var (
	askingRe    = regexp.MustCompile(`(?i)(?:asking|price|listed)[^$\d\n]{0,30}\$?\s*([\d,]+(?:\.\d+)?[mk]?)`)
	anyAmountRe = regexp.MustCompile(`\$\s*([\d,]+(?:\.\d+)?)`)
	revenueRe   = regexp.MustCompile(`(?i)(?:revenue|gross)[^$\d\n]{0,30}\$?\s*([\d,]+(?:\.\d+)?[mk]?)`)
	ebitdaRe    = regexp.MustCompile(`(?i)EBITDA[^$\d\n]{0,30}\$?\s*([\d,]+(?:\.\d+)?[mk]?)`)
	cashFlowRe  = regexp.MustCompile(`(?i)(?:cash\s*flow|\bSDE\b|seller'?s\s+discretionary)[^$\d\n]{0,30}\$?\s*([\d,]+(?:\.\d+)?[mk]?)`)
	yearEstRe   = regexp.MustCompile(`(?i)(?:established|founded|year\s*est)\D{0,15}((?:19|20)\d{2})`)
	employeesRe = regexp.MustCompile(`(?i)(?:employees|staff|workers|team\s*size)\D{0,15}(\d{1,4})\b`)
)

// minPriceDigits is the "looks like a real asking price" floor for the
// unlabeled fallback: $100,000 and up.
const minPriceDigits = 6

// ExtractFinancials pulls financial fields out of unstructured card or
// detail-page text. Already-populated fields are never overwritten, so a
// structured markup pass takes priority over this text pass and a card pass
// over a detail-page pass. Pattern misses simply leave fields nil.
func ExtractFinancials(deal *models.Deal, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	fillIfAbsent(&deal.AskingPrice, extractAskingPrice(text))
	fillIfAbsent(&deal.Revenue, extractMoney(revenueRe, text))
	fillIfAbsent(&deal.EBITDA, extractMoney(ebitdaRe, text))
	fillIfAbsent(&deal.CashFlowSDE, extractMoney(cashFlowRe, text))
	fillIfAbsent(&deal.YearEstablished, extractInt(yearEstRe, text))
	fillIfAbsent(&deal.Employees, extractInt(employeesRe, text))
}

// extractAskingPrice tries the labeled pattern first, then falls back to the
// first dollar amount in the text with at least minPriceDigits digits.
func extractAskingPrice(text string) *float64 {
	if v := extractMoney(askingRe, text); v != nil {
		return v
	}

	for _, m := range anyAmountRe.FindAllStringSubmatch(text, -1) {
		digits := strings.ReplaceAll(m[1], ",", "")
		if i := strings.IndexByte(digits, '.'); i >= 0 {
			digits = digits[:i]
		}
		if len(digits) >= minPriceDigits {
			return ParseMoney(m[1])
		}
	}
	return nil
}

func extractMoney(re *regexp.Regexp, text string) *float64 {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return ParseMoney(m[1])
}

func extractInt(re *regexp.Regexp, text string) *int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

// fillIfAbsent is the merge combinator every extraction stage goes through:
// a candidate only lands in a field that is still nil. Stage order therefore
// is the whole priority story.
func fillIfAbsent[T any](dst **T, candidate *T) {
	if *dst == nil && candidate != nil {
		*dst = candidate
	}
}

// fillString is fillIfAbsent for the non-optional text fields, where empty
// means unset.
func fillString(dst *string, candidate string) {
	if *dst == "" {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			*dst = trimmed
		}
	}
}
