package instrument

import (
	"fmt"
	"testing"

	"github.com/plataa/platform/pkg/common/models"
)

func mustLookup(t *testing.T, id string) Definition {
	t.Helper()
	registry, err := New(DefaultCatalog())
	if err != nil {
		t.Fatal(err)
	}
	def, ok := registry.Lookup(id)
	if !ok {
		t.Fatalf("instrument %s not in default catalog", id)
	}
	return def
}

func TestRiskCountScoring(t *testing.T) {
	def := mustLookup(t, "mchat")

	tests := []struct {
		name    string
		answers []models.AnswerItem
		want    int
	}{
		{
			"no risk answers",
			[]models.AnswerItem{{QuestionID: "q1", Response: "yes"}, {QuestionID: "q3", Response: "yes"}},
			0,
		},
		{
			"risk on inverted and regular items",
			[]models.AnswerItem{
				{QuestionID: "q1", Response: "no"},
				{QuestionID: "q2", Response: "yes"},
				{QuestionID: "q3", Response: "yes"},
			},
			2,
		},
		{
			"case and whitespace tolerated",
			[]models.AnswerItem{{QuestionID: " Q1 ", Response: " NO "}},
			1,
		},
		{
			"unknown question ids ignored",
			[]models.AnswerItem{
				{QuestionID: "q99", Response: "no"},
				{QuestionID: "other", Response: "no"},
			},
			0,
		},
		{
			"repeated question counts once",
			[]models.AnswerItem{
				{QuestionID: "q1", Response: "no"},
				{QuestionID: "q1", Response: "no"},
				{QuestionID: "Q1", Response: "yes"},
			},
			1,
		},
		{
			"uninterpretable response scores zero",
			[]models.AnswerItem{{QuestionID: "q1", Response: "maybe"}},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := def.Apply(tt.answers); got != tt.want {
				t.Errorf("Apply() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRiskCountIsDeterministic(t *testing.T) {
	def := mustLookup(t, "aq10")
	answers := []models.AnswerItem{
		{QuestionID: "q1", Response: "definitely agree"},
		{QuestionID: "q2", Response: "disagree"},
		{QuestionID: "q7", Response: "slightly agree"},
	}

	first := def.Apply(answers)
	for i := 0; i < 10; i++ {
		if got := def.Apply(answers); got != first {
			t.Fatalf("run %d: Apply() = %d, want %d", i, got, first)
		}
	}
	if first != 3 {
		t.Errorf("Apply() = %d, want 3", first)
	}
}

func TestCodedSumScoring(t *testing.T) {
	def := mustLookup(t, "assq")

	tests := []struct {
		name    string
		answers []models.AnswerItem
		want    int
	}{
		{
			"simple sum",
			[]models.AnswerItem{
				{QuestionID: "q1", Response: "2"},
				{QuestionID: "q2", Response: "1"},
				{QuestionID: "q3", Response: "0"},
			},
			3,
		},
		{
			"codes clamp to item max",
			[]models.AnswerItem{{QuestionID: "q1", Response: "9"}},
			2,
		},
		{
			"negative and non-numeric codes contribute zero",
			[]models.AnswerItem{
				{QuestionID: "q1", Response: "-1"},
				{QuestionID: "q2", Response: "often"},
				{QuestionID: "q3", Response: "1"},
			},
			1,
		},
		{
			"first occurrence wins on repeats",
			[]models.AnswerItem{
				{QuestionID: "q1", Response: "1"},
				{QuestionID: "q1", Response: "2"},
			},
			1,
		},
		{
			"whitespace in code tolerated",
			[]models.AnswerItem{{QuestionID: "q1", Response: " 2 "}},
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := def.Apply(tt.answers); got != tt.want {
				t.Errorf("Apply() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestApplyNeverExceedsMaxScore(t *testing.T) {
	registry, err := New(DefaultCatalog())
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range registry.IDs() {
		def, _ := registry.Lookup(id)
		answers := make([]models.AnswerItem, 0, len(def.Items))
		for _, item := range def.Items {
			response := "999"
			if def.Rule == RuleRiskResponses {
				response = item.RiskResponses[0]
			}
			answers = append(answers, models.AnswerItem{QuestionID: item.QuestionID, Response: response})
		}

		got := def.Apply(answers)
		if got != def.MaxScore {
			t.Errorf("%s: worst-case score = %d, want max score %d", id, got, def.MaxScore)
		}
	}
}

func TestClassifyCoversEveryAttainableScore(t *testing.T) {
	registry, err := New(DefaultCatalog())
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range registry.IDs() {
		def, _ := registry.Lookup(id)
		for score := 0; score <= def.MaxScore; score++ {
			label, ok := def.Classify(score)
			if !ok {
				t.Errorf("%s: score %d has no classification", id, score)
				continue
			}
			if label == "" {
				t.Errorf("%s: score %d classified with empty label", id, score)
			}
		}
		if _, ok := def.Classify(def.MaxScore + 1); ok {
			t.Errorf("%s: score above max should not classify", id)
		}
		if _, ok := def.Classify(-1); ok {
			t.Errorf("%s: negative score should not classify", id)
		}
	}
}

func TestDefaultThresholds(t *testing.T) {
	tests := []struct {
		instrument string
		score      int
		want       string
	}{
		{"mchat", 0, "low risk"},
		{"mchat", 2, "low risk"},
		{"mchat", 3, "moderate risk"},
		{"mchat", 7, "moderate risk"},
		{"mchat", 8, "high risk"},
		{"mchat", 20, "high risk"},
		{"assq", 12, "low risk"},
		{"assq", 13, "moderate risk"},
		{"assq", 19, "high risk"},
		{"aq10", 5, "low risk"},
		{"aq10", 6, "high risk"},
		{"ados2", 6, "minimal concern"},
		{"ados2", 7, "moderate concern"},
		{"ados2", 9, "high concern"},
		{"adir", 9, "low concern"},
		{"adir", 10, "moderate concern"},
		{"adir", 22, "high concern"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.instrument, tt.score), func(t *testing.T) {
			def := mustLookup(t, tt.instrument)
			got, ok := def.Classify(tt.score)
			if !ok {
				t.Fatalf("score %d did not classify", tt.score)
			}
			if got != tt.want {
				t.Errorf("Classify(%d) = %q, want %q", tt.score, got, tt.want)
			}
		})
	}
}
