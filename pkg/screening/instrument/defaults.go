package instrument

import "fmt"

// DefaultCatalog is the built-in instrument table. Threshold bands follow
// the published cutoffs for each instrument; deployments can override the
// whole catalog with a YAML file (INSTRUMENT_CATALOG_PATH).
func DefaultCatalog() Catalog {
	return Catalog{Instruments: map[string]Definition{
		"mchat": {
			AgeBand:  "16-30 months",
			Rule:     RuleRiskResponses,
			MaxScore: 20,
			// Items 2, 5 and 12 are risk-indicating when answered yes;
			// the remaining items when answered no.
			Items: binaryItems(20, map[int]bool{2: true, 5: true, 12: true}),
			Bands: []Band{
				{Lower: 0, Upper: 2, Label: "low risk"},
				{Lower: 3, Upper: 7, Label: "moderate risk"},
				{Lower: 8, Upper: 20, Label: "high risk"},
			},
		},
		"assq": {
			AgeBand:  "6-17 years",
			Rule:     RuleCodedSum,
			MaxScore: 54,
			Items:    codedItems(27, 2),
			Bands: []Band{
				{Lower: 0, Upper: 12, Label: "low risk"},
				{Lower: 13, Upper: 18, Label: "moderate risk"},
				{Lower: 19, Upper: 54, Label: "high risk"},
			},
		},
		"aq10": {
			AgeBand:  "Adults",
			Rule:     RuleRiskResponses,
			MaxScore: 10,
			// Items 1, 7, 8 and 10 score on agreement, the rest on
			// disagreement.
			Items: agreementItems(10, map[int]bool{1: true, 7: true, 8: true, 10: true}),
			Bands: []Band{
				{Lower: 0, Upper: 5, Label: "low risk"},
				{Lower: 6, Upper: 10, Label: "high risk"},
			},
		},
		"ados2": {
			AgeBand:  "Clinical",
			Rule:     RuleCodedSum,
			MaxScore: 28,
			Items:    codedItems(14, 2),
			Bands: []Band{
				{Lower: 0, Upper: 6, Label: "minimal concern"},
				{Lower: 7, Upper: 8, Label: "moderate concern"},
				{Lower: 9, Upper: 28, Label: "high concern"},
			},
		},
		"adir": {
			AgeBand:  "Clinical",
			Rule:     RuleCodedSum,
			MaxScore: 60,
			Items:    codedItems(20, 3),
			Bands: []Band{
				{Lower: 0, Upper: 9, Label: "low concern"},
				{Lower: 10, Upper: 21, Label: "moderate concern"},
				{Lower: 22, Upper: 60, Label: "high concern"},
			},
		},
	}}
}

func binaryItems(count int, yesRisk map[int]bool) []Item {
	items := make([]Item, 0, count)
	for i := 1; i <= count; i++ {
		risk := []string{"no"}
		if yesRisk[i] {
			risk = []string{"yes"}
		}
		items = append(items, Item{QuestionID: fmt.Sprintf("q%d", i), RiskResponses: risk})
	}
	return items
}

func agreementItems(count int, agreeRisk map[int]bool) []Item {
	items := make([]Item, 0, count)
	for i := 1; i <= count; i++ {
		risk := []string{"disagree", "definitely disagree", "slightly disagree"}
		if agreeRisk[i] {
			risk = []string{"agree", "definitely agree", "slightly agree"}
		}
		items = append(items, Item{QuestionID: fmt.Sprintf("q%d", i), RiskResponses: risk})
	}
	return items
}

func codedItems(count, maxCode int) []Item {
	items := make([]Item, 0, count)
	for i := 1; i <= count; i++ {
		items = append(items, Item{QuestionID: fmt.Sprintf("q%d", i), MaxCode: maxCode})
	}
	return items
}
