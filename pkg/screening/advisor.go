package screening

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Advisor maps (classification, instrument) to the caregiver-facing
// guidance message. A missing combination is an error, never a blank
// message, so a misconfigured table is caught at the first lookup
// instead of reaching an end user.
type Advisor struct {
	messages map[string]map[string]string // instrument -> classification -> message
}

type orientationCatalog struct {
	Orientations map[string]map[string]string `yaml:"orientations"`
}

// LoadAdvisor reads an orientation table from path, falling back to the
// embedded defaults when path is empty.
func LoadAdvisor(path string) (*Advisor, error) {
	if path == "" {
		return NewAdvisor(defaultOrientations()), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read orientation catalog: %w", err)
	}
	var cat orientationCatalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return nil, fmt.Errorf("parse orientation catalog: %w", err)
	}
	if len(cat.Orientations) == 0 {
		return nil, fmt.Errorf("orientation catalog empty")
	}
	return NewAdvisor(cat.Orientations), nil
}

func NewAdvisor(messages map[string]map[string]string) *Advisor {
	table := make(map[string]map[string]string, len(messages))
	for instrumentID, byClassification := range messages {
		inner := make(map[string]string, len(byClassification))
		for classification, message := range byClassification {
			inner[normalizeKey(classification)] = message
		}
		table[normalizeKey(instrumentID)] = inner
	}
	return &Advisor{messages: table}
}

func (a *Advisor) Advise(classification, instrumentID string) (string, error) {
	byClassification, ok := a.messages[normalizeKey(instrumentID)]
	if !ok {
		return "", fmt.Errorf("%w: instrument %s", ErrUnknownClassification, instrumentID)
	}
	message, ok := byClassification[normalizeKey(classification)]
	if !ok {
		return "", fmt.Errorf("%w: %q for instrument %s", ErrUnknownClassification, classification, instrumentID)
	}
	return message, nil
}

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func defaultOrientations() map[string]map[string]string {
	return map[string]map[string]string{
		"mchat": {
			"low risk":      "No immediate concern. Repeat the screening at the next routine visit and keep monitoring developmental milestones.",
			"moderate risk": "Administer the structured follow-up interview and refer for a developmental evaluation if concerns persist.",
			"high risk":     "Refer immediately for a diagnostic evaluation and early-intervention eligibility assessment.",
		},
		"assq": {
			"low risk":      "Screening does not indicate elevated risk. Reassess if school or family concerns arise.",
			"moderate risk": "Monitor closely and share the screening with the school team; consider a specialist consultation.",
			"high risk":     "Refer to a specialist for a comprehensive diagnostic assessment.",
		},
		"aq10": {
			"low risk":  "Screening below the referral threshold. Revisit if difficulties in social or occupational settings persist.",
			"high risk": "Refer for a specialist diagnostic assessment for autism spectrum conditions.",
		},
		"ados2": {
			"minimal concern":  "Observation shows minimal evidence of spectrum-related symptoms. No referral indicated at this time.",
			"moderate concern": "Observation is consistent with spectrum classification. Discuss results with the clinical team and plan a full evaluation.",
			"high concern":     "Observation strongly supports a spectrum classification. Proceed to a full diagnostic work-up and support planning.",
		},
		"adir": {
			"low concern":      "Interview scores below algorithm cutoffs. Keep the record available for the clinical team.",
			"moderate concern": "Interview scores near algorithm cutoffs. Corroborate with direct observation before concluding.",
			"high concern":     "Interview scores above algorithm cutoffs. Refer for multidisciplinary diagnostic confirmation.",
		},
	}
}
