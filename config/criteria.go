package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// TraitRule maps one trait tag to the keywords that signal it in listing
// text. Rules are scanned in declaration order and at most one hit per tag
// is recorded.
type TraitRule struct {
	Tag      string
	Keywords []string
}

// IndustryRule maps one taxonomy label to its classification keywords.
// Declaration order is part of the contract: the first label with any
// matching keyword wins.
type IndustryRule struct {
	Label    string
	Keywords []string
}

// Criteria is the acquisition criteria every deal is scored and filtered
// against. It is built once at startup (defaults, optionally merged with a
// single override) and must not be mutated afterwards; all pipeline
// components share one read-only value.
type Criteria struct {
	EVMin       float64
	EVMax       float64
	RevenueMin  float64
	RevenueMax  float64
	EBITDAMin   float64
	MaxMultiple float64
	Geography   string

	PreferredTraits  []string
	AvoidTraits      []string
	TargetIndustries []string
	SearchKeywords   []string
	SearchCategories []string

	TraitKeywords    []TraitRule
	IndustryKeywords []IndustryRule
}

// DefaultCriteria returns the built-in acquisition criteria: essential-service
// businesses with regulatory moats and trainable labor, $1M–$5M enterprise
// value, at most 4x EBITDA.
func DefaultCriteria() *Criteria {
	return &Criteria{
		EVMin:       1_000_000,
		EVMax:       5_000_000,
		RevenueMin:  2_000_000,
		RevenueMax:  15_000_000,
		EBITDAMin:   300_000,
		MaxMultiple: 4.0,
		Geography:   "United States",

		PreferredTraits: []string{
			"recurring_revenue", "regulatory_moat", "labor_accessible",
			"high_switching_costs", "non_cyclical", "unglamorous", "essential_service",
		},
		AvoidTraits: []string{
			"commodity_exposure", "cyclical_demand", "specialized_labor_required",
			"asset_light_digital", "construction_tied",
		},
		TargetIndustries: []string{
			"Water Treatment", "Fire Protection", "Elevator Maintenance",
			"Environmental Remediation", "Commercial Laundry", "Meat Processing",
			"Produce Packing", "Fresh-Cut Vegetables", "Hide/Leather Tanning",
			"Pallet Recycling", "Textile Recycling", "Seafood Processing",
			"Contract Packaging", "Industrial Parts Cleaning", "Janitorial Services",
			"Industrial Refrigeration", "Demolition & Salvage",
		},
		SearchKeywords: []string{
			"laundry", "fire sprinkler", "fire protection", "elevator",
			"remediation", "abatement", "water treatment", "meat processing",
			"produce", "fresh cut", "seafood", "fish processing",
			"pallet", "textile", "recycling", "packaging", "co-packing",
			"industrial cleaning", "parts cleaning", "degreasing",
			"janitorial", "commercial cleaning", "refrigeration",
			"tanning", "hide", "leather processing",
			"demolition", "environmental services",
		},
		SearchCategories: []string{
			"service-businesses",
			"manufacturing-businesses",
			"wholesale-and-distributor-businesses",
		},

		TraitKeywords: []TraitRule{
			{"recurring_revenue", []string{"contract", "recurring", "subscription", "auto-renew", "monthly", "annual contract", "repeat", "retainer"}},
			{"regulatory_moat", []string{"licensed", "permit", "certified", "epa", "fda", "usda", "osha", "regulated", "compliance", "inspection", "certification"}},
			{"labor_accessible", []string{"train", "no experience", "entry level", "on-the-job", "manual", "production line", "floor worker", "trainable", "unskilled"}},
			{"high_switching_costs", []string{"switching cost", "long-term contract", "auto-renew", "embedded", "sole provider", "exclusive"}},
			{"non_cyclical", []string{"essential", "recession", "steady", "consistent", "stable demand", "non-discretionary", "maintenance", "required by law", "mandatory"}},
			{"unglamorous", []string{"niche", "overlooked", "few competitors", "no one wants", "unglamorous"}},
			{"essential_service", []string{"essential", "critical", "life safety", "health", "food", "water", "maintenance", "compliance", "required"}},
			{"commodity_exposure", []string{"commodity", "spot price", "market price", "lumber", "steel price", "oil price"}},
			{"cyclical_demand", []string{"cyclical", "seasonal", "construction cycle", "housing market", "real estate dependent"}},
			{"specialized_labor_required", []string{"engineer required", "degree required", "specialized certification", "hard to hire"}},
			{"construction_tied", []string{"construction", "new build", "housing", "real estate development"}},
		},

		IndustryKeywords: []IndustryRule{
			{"Commercial Laundry", []string{"laundry", "linen", "uniform service", "textile cleaning"}},
			{"Fire Protection", []string{"fire sprinkler", "fire protection", "fire suppression", "fire alarm"}},
			{"Elevator Maintenance", []string{"elevator", "escalator", "lift maintenance"}},
			{"Environmental Remediation", []string{"remediation", "abatement", "asbestos", "mold removal", "lead abatement", "environmental clean"}},
			{"Water Treatment", []string{"water treatment", "water purification", "water service"}},
			{"Meat Processing", []string{"meat processing", "butcher", "slaughter", "meat packing"}},
			{"Produce Packing", []string{"produce", "fresh cut", "vegetable processing", "fruit packing"}},
			{"Seafood Processing", []string{"seafood", "fish processing", "fish packing", "shrimp"}},
			{"Pallet Recycling", []string{"pallet", "pallet recycl", "pallet repair"}},
			{"Textile Recycling", []string{"textile recycl", "rag processing", "fiber recycl"}},
			{"Contract Packaging", []string{"co-pack", "contract pack", "packaging service"}},
			{"Industrial Parts Cleaning", []string{"parts cleaning", "degreasing", "industrial cleaning"}},
			{"Janitorial Services", []string{"janitorial", "commercial cleaning", "building maintenance", "custodial"}},
			{"Industrial Refrigeration", []string{"refrigeration", "cold storage", "hvac service", "cooling"}},
			{"Hide/Leather Tanning", []string{"tanning", "hide", "leather processing", "fur dressing"}},
			{"Demolition & Salvage", []string{"demolition", "salvage", "deconstruction"}},
		},
	}
}

// IsPreferredTrait reports whether tag belongs to the preferred universe.
func (c *Criteria) IsPreferredTrait(tag string) bool {
	return contains(c.PreferredTraits, tag)
}

// IsAvoidTrait reports whether tag belongs to the avoid universe.
func (c *Criteria) IsAvoidTrait(tag string) bool {
	return contains(c.AvoidTraits, tag)
}

// IsTargetIndustry reports whether label is one of the target industries.
func (c *Criteria) IsTargetIndustry(label string) bool {
	return contains(c.TargetIndustries, label)
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// CriteriaOverride is a partial criteria document, as served by the tracker
// API or stored in a local JSON file. Nil fields keep the built-in defaults.
type CriteriaOverride struct {
	EVMin            *float64  `json:"ev_min"`
	EVMax            *float64  `json:"ev_max"`
	RevenueMin       *float64  `json:"revenue_min"`
	RevenueMax       *float64  `json:"revenue_max"`
	EBITDAMin        *float64  `json:"ebitda_min"`
	MaxMultiple      *float64  `json:"max_multiple"`
	Geography        *string   `json:"geography"`
	PreferredTraits  *[]string `json:"preferred_traits"`
	AvoidTraits      *[]string `json:"avoid_traits"`
	TargetIndustries *[]string `json:"target_industries"`
	SearchKeywords   *[]string `json:"search_keywords"`
	SearchCategories *[]string `json:"search_categories"`
}

// Apply merges the override into a copy of base and returns the copy. The
// receiver and base are left untouched, so the merged value can be swapped in
// before processing starts without racing any reader.
func (o *CriteriaOverride) Apply(base *Criteria) *Criteria {
	merged := *base

	if o.EVMin != nil {
		merged.EVMin = *o.EVMin
	}
	if o.EVMax != nil {
		merged.EVMax = *o.EVMax
	}
	if o.RevenueMin != nil {
		merged.RevenueMin = *o.RevenueMin
	}
	if o.RevenueMax != nil {
		merged.RevenueMax = *o.RevenueMax
	}
	if o.EBITDAMin != nil {
		merged.EBITDAMin = *o.EBITDAMin
	}
	if o.MaxMultiple != nil {
		merged.MaxMultiple = *o.MaxMultiple
	}
	if o.Geography != nil {
		merged.Geography = *o.Geography
	}
	if o.PreferredTraits != nil {
		merged.PreferredTraits = *o.PreferredTraits
	}
	if o.AvoidTraits != nil {
		merged.AvoidTraits = *o.AvoidTraits
	}
	if o.TargetIndustries != nil {
		merged.TargetIndustries = *o.TargetIndustries
	}
	if o.SearchKeywords != nil {
		merged.SearchKeywords = *o.SearchKeywords
	}
	if o.SearchCategories != nil {
		merged.SearchCategories = *o.SearchCategories
	}

	return &merged
}

// LoadCriteriaFile reads a JSON override document from disk and merges it
// over the built-in defaults.
func LoadCriteriaFile(path string) (*Criteria, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("criteria: read %q: %w", path, err)
	}

	var override CriteriaOverride
	if err := json.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("criteria: parse %q: %w", path, err)
	}

	return override.Apply(DefaultCriteria()), nil
}
