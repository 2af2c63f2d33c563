package services

import (
	"math"

	"deal-hunter/config"
	"deal-hunter/models"
)

// Scoring weights: qualitative traits dominate, valuation multiple second,
// industry match third.
const (
	traitWeight    = 0.5
	multipleWeight = 0.3
	industryWeight = 0.2

	preferredTraitPoints = 10
	avoidTraitPenalty    = 15

	nonTargetIndustryScore = 20
)

// ComputeMultiple derives the asking-price-to-earnings multiple, rounded to
// two decimals. Earnings prefer EBITDA over cash flow / SDE. The multiple is
// absent unless both sides are present and earnings are positive — zero or
// negative earnings never reach the division.
func ComputeMultiple(deal *models.Deal) *float64 {
	earnings := deal.Earnings()
	if deal.AskingPrice == nil || earnings == nil || *earnings <= 0 {
		return nil
	}

	m := math.Round(*deal.AskingPrice / *earnings * 100) / 100
	return &m
}

// ScoreDeal combines traits, multiple, and industry match into a single
// 0–100 score.
//
// The trait component normalizes against the preferred-trait count and is
// clamped on the percentage scale after the division, so heavy avoid-trait
// penalties floor at 0 rather than going negative.
func ScoreDeal(criteria *config.Criteria, deal *models.Deal) int {
	raw := 0.0
	for _, t := range deal.Traits {
		if criteria.IsPreferredTrait(t) {
			raw += preferredTraitPoints
		}
	}
	for _, t := range deal.AvoidTraits {
		if criteria.IsAvoidTrait(t) {
			raw -= avoidTraitPenalty
		}
	}

	traitScore := 0.0
	if maxTrait := float64(len(criteria.PreferredTraits) * preferredTraitPoints); maxTrait > 0 {
		traitScore = clamp(raw/maxTrait*100, 0, 100)
	}

	multipleScore := 0.0
	if deal.Multiple != nil {
		switch m := *deal.Multiple; {
		case m <= 2.5:
			multipleScore = 100
		case m <= 3.0:
			multipleScore = 90
		case m <= 3.5:
			multipleScore = 75
		case m <= 4.0:
			multipleScore = 50
		}
	}

	industryScore := float64(nonTargetIndustryScore)
	if criteria.IsTargetIndustry(deal.Industry) {
		industryScore = 100
	}

	total := traitScore*traitWeight + multipleScore*multipleWeight + industryScore*industryWeight
	score := int(math.Round(total))
	if score > 100 {
		score = 100
	}
	return score
}

// PassesFilters is the post-scoring accept/reject gate. Only out-of-range
// presence rejects: a deal with no financials at all passes through for
// human review.
func PassesFilters(criteria *config.Criteria, deal *models.Deal) bool {
	if deal.AskingPrice != nil {
		if *deal.AskingPrice < criteria.EVMin || *deal.AskingPrice > criteria.EVMax {
			return false
		}
	}

	if earnings := deal.Earnings(); earnings != nil && *earnings < criteria.EBITDAMin {
		return false
	}

	if deal.Multiple != nil && *deal.Multiple > criteria.MaxMultiple {
		return false
	}

	return true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
