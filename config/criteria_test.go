package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCriteria(t *testing.T) {
	c := DefaultCriteria()

	if c.EVMin != 1_000_000 || c.EVMax != 5_000_000 {
		t.Errorf("EV window = [%.0f, %.0f]; want [1000000, 5000000]", c.EVMin, c.EVMax)
	}
	if c.MaxMultiple != 4.0 {
		t.Errorf("MaxMultiple = %.1f; want 4.0", c.MaxMultiple)
	}
	if len(c.PreferredTraits) != 7 {
		t.Errorf("PreferredTraits = %d entries; want 7", len(c.PreferredTraits))
	}
	if len(c.AvoidTraits) != 5 {
		t.Errorf("AvoidTraits = %d entries; want 5", len(c.AvoidTraits))
	}
	if len(c.TargetIndustries) != 17 {
		t.Errorf("TargetIndustries = %d entries; want 17", len(c.TargetIndustries))
	}

	// Every keyword-table tag must belong to one of the two trait universes.
	for _, rule := range c.TraitKeywords {
		if !c.IsPreferredTrait(rule.Tag) && !c.IsAvoidTrait(rule.Tag) {
			t.Errorf("trait keyword tag %q belongs to neither universe", rule.Tag)
		}
	}
}

func TestCriteriaOverrideApply(t *testing.T) {
	base := DefaultCriteria()

	maxMult := 3.5
	keywords := []string{"laundry"}
	override := &CriteriaOverride{
		MaxMultiple:    &maxMult,
		SearchKeywords: &keywords,
	}

	merged := override.Apply(base)

	if merged.MaxMultiple != 3.5 {
		t.Errorf("MaxMultiple = %.1f; want 3.5", merged.MaxMultiple)
	}
	if len(merged.SearchKeywords) != 1 || merged.SearchKeywords[0] != "laundry" {
		t.Errorf("SearchKeywords = %v; want [laundry]", merged.SearchKeywords)
	}

	// Omitted fields keep their defaults, and the base is untouched.
	if merged.EVMin != base.EVMin || merged.Geography != base.Geography {
		t.Errorf("omitted fields changed: EVMin=%.0f Geography=%q", merged.EVMin, merged.Geography)
	}
	if base.MaxMultiple != 4.0 {
		t.Errorf("base mutated: MaxMultiple = %.1f", base.MaxMultiple)
	}
}

func TestLoadCriteriaFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.json")
	doc := `{"ev_max": 3000000, "ebitda_min": 400000}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	c, err := LoadCriteriaFile(path)
	if err != nil {
		t.Fatalf("LoadCriteriaFile: %v", err)
	}
	if c.EVMax != 3_000_000 {
		t.Errorf("EVMax = %.0f; want 3000000", c.EVMax)
	}
	if c.EBITDAMin != 400_000 {
		t.Errorf("EBITDAMin = %.0f; want 400000", c.EBITDAMin)
	}
	if c.EVMin != 1_000_000 {
		t.Errorf("EVMin = %.0f; want default 1000000", c.EVMin)
	}
}

func TestLoadCriteriaFileErrors(t *testing.T) {
	if _, err := LoadCriteriaFile("/does/not/exist.json"); err == nil {
		t.Errorf("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadCriteriaFile(path); err == nil {
		t.Errorf("expected error for malformed JSON")
	}
}
