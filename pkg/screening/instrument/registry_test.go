package instrument

import (
	"errors"
	"testing"
)

func validDefinition() Definition {
	return Definition{
		AgeBand:  "test",
		Rule:     RuleRiskResponses,
		MaxScore: 2,
		Items: []Item{
			{QuestionID: "q1", RiskResponses: []string{"no"}},
			{QuestionID: "q2", RiskResponses: []string{"yes"}},
		},
		Bands: []Band{
			{Lower: 0, Upper: 1, Label: "low"},
			{Lower: 2, Upper: 2, Label: "high"},
		},
	}
}

func TestNewRejectsMalformedCatalogs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Definition)
	}{
		{"unknown rule", func(d *Definition) { d.Rule = "weighted-sum" }},
		{"no items", func(d *Definition) { d.Items = nil }},
		{"no bands", func(d *Definition) { d.Bands = nil }},
		{"duplicate question id", func(d *Definition) {
			d.Items[1].QuestionID = "q1"
		}},
		{"item without risk responses", func(d *Definition) {
			d.Items[0].RiskResponses = nil
		}},
		{"max score below attainable", func(d *Definition) {
			d.MaxScore = 1
		}},
		{"max score above attainable", func(d *Definition) {
			d.MaxScore = 3
		}},
		{"band gap", func(d *Definition) {
			d.Bands = []Band{
				{Lower: 0, Upper: 0, Label: "low"},
				{Lower: 2, Upper: 2, Label: "high"},
			}
		}},
		{"band overlap", func(d *Definition) {
			d.Bands = []Band{
				{Lower: 0, Upper: 1, Label: "low"},
				{Lower: 1, Upper: 2, Label: "high"},
			}
		}},
		{"bands stop short of max score", func(d *Definition) {
			d.Bands = []Band{{Lower: 0, Upper: 1, Label: "low"}}
		}},
		{"bands exceed max score", func(d *Definition) {
			d.Bands = []Band{{Lower: 0, Upper: 5, Label: "low"}}
		}},
		{"inverted band", func(d *Definition) {
			d.Bands = []Band{
				{Lower: 0, Upper: 1, Label: "low"},
				{Lower: 2, Upper: 1, Label: "high"},
			}
		}},
		{"unlabeled band", func(d *Definition) {
			d.Bands[0].Label = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDefinition()
			tt.mutate(&def)
			_, err := New(Catalog{Instruments: map[string]Definition{"test": def}})
			if err == nil {
				t.Fatal("expected catalog to be rejected")
			}
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

func TestNewRejectsEmptyCatalog(t *testing.T) {
	if _, err := New(Catalog{}); !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestNewRejectsCodedItemWithoutMaxCode(t *testing.T) {
	def := Definition{
		Rule:     RuleCodedSum,
		MaxScore: 2,
		Items: []Item{
			{QuestionID: "q1", MaxCode: 2},
			{QuestionID: "q2"},
		},
		Bands: []Band{{Lower: 0, Upper: 2, Label: "only"}},
	}
	_, err := New(Catalog{Instruments: map[string]Definition{"test": def}})
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestDefaultCatalogIsValid(t *testing.T) {
	registry, err := New(DefaultCatalog())
	if err != nil {
		t.Fatalf("default catalog failed validation: %v", err)
	}

	want := []string{"adir", "aq10", "assq", "ados2", "mchat"}
	for _, id := range want {
		if _, ok := registry.Lookup(id); !ok {
			t.Errorf("default catalog missing instrument %s", id)
		}
	}
	if got := len(registry.IDs()); got != len(want) {
		t.Errorf("expected %d instruments, got %d", len(want), got)
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	registry, err := New(DefaultCatalog())
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"mchat", "MCHAT", " MChat "} {
		if _, ok := registry.Lookup(id); !ok {
			t.Errorf("Lookup(%q) should resolve", id)
		}
	}
	if _, ok := registry.Lookup("cars2"); ok {
		t.Error("Lookup should not resolve unknown instruments")
	}
}
