package instrument

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog marks a malformed catalog. It is fatal at startup:
// a registry that fails validation must never reach the scoring engine.
var ErrInvalidCatalog = errors.New("invalid instrument catalog")

type RuleKind string

const (
	// RuleRiskResponses counts answers whose response matches the
	// question's risk set (M-CHAT, AQ-10).
	RuleRiskResponses RuleKind = "risk-responses"
	// RuleCodedSum sums numeric item codes, clamped per item
	// (ASSQ, ADOS-2, ADI-R).
	RuleCodedSum RuleKind = "coded-sum"
)

type Item struct {
	QuestionID    string   `yaml:"question_id" json:"question_id"`
	RiskResponses []string `yaml:"risk_responses,omitempty" json:"risk_responses,omitempty"`
	MaxCode       int      `yaml:"max_code,omitempty" json:"max_code,omitempty"`
}

// Band is a closed interval of scores mapped to one classification label.
type Band struct {
	Lower int    `yaml:"lower" json:"lower"`
	Upper int    `yaml:"upper" json:"upper"`
	Label string `yaml:"label" json:"label"`
}

type Definition struct {
	AgeBand  string   `yaml:"age_band" json:"age_band"`
	Rule     RuleKind `yaml:"rule" json:"rule"`
	MaxScore int      `yaml:"max_score" json:"max_score"`
	Items    []Item   `yaml:"items" json:"items"`
	Bands    []Band   `yaml:"bands" json:"bands"`
}

type Catalog struct {
	Instruments map[string]Definition `yaml:"instruments" json:"instruments"`
}

// Registry is the immutable instrument table built from a validated catalog.
type Registry struct {
	defs map[string]Definition
}

// Load reads a catalog from path, falling back to the embedded defaults
// when path is empty, and validates it before anything can score with it.
func Load(path string) (*Registry, error) {
	if path == "" {
		return New(DefaultCatalog())
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read instrument catalog: %w", err)
	}
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return New(cat)
}

func New(cat Catalog) (*Registry, error) {
	if len(cat.Instruments) == 0 {
		return nil, fmt.Errorf("%w: no instruments defined", ErrInvalidCatalog)
	}
	defs := make(map[string]Definition, len(cat.Instruments))
	for id, def := range cat.Instruments {
		key := strings.ToLower(strings.TrimSpace(id))
		if key == "" {
			return nil, fmt.Errorf("%w: empty instrument id", ErrInvalidCatalog)
		}
		if err := validate(key, def); err != nil {
			return nil, err
		}
		defs[key] = def
	}
	return &Registry{defs: defs}, nil
}

// Lookup returns the definition for an instrument id, case-insensitively.
func (r *Registry) Lookup(id string) (Definition, bool) {
	def, ok := r.defs[strings.ToLower(strings.TrimSpace(id))]
	return def, ok
}

func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.defs))
	for id := range r.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func validate(id string, def Definition) error {
	switch def.Rule {
	case RuleRiskResponses, RuleCodedSum:
	default:
		return fmt.Errorf("%w: instrument %s has unknown rule %q", ErrInvalidCatalog, id, def.Rule)
	}
	if len(def.Items) == 0 {
		return fmt.Errorf("%w: instrument %s has no items", ErrInvalidCatalog, id)
	}
	if def.MaxScore <= 0 {
		return fmt.Errorf("%w: instrument %s has non-positive max score", ErrInvalidCatalog, id)
	}

	seen := make(map[string]struct{}, len(def.Items))
	attainable := 0
	for _, item := range def.Items {
		qid := strings.ToLower(strings.TrimSpace(item.QuestionID))
		if qid == "" {
			return fmt.Errorf("%w: instrument %s has an item without question_id", ErrInvalidCatalog, id)
		}
		if _, dup := seen[qid]; dup {
			return fmt.Errorf("%w: instrument %s repeats question_id %s", ErrInvalidCatalog, id, qid)
		}
		seen[qid] = struct{}{}
		switch def.Rule {
		case RuleRiskResponses:
			if len(item.RiskResponses) == 0 {
				return fmt.Errorf("%w: instrument %s item %s has no risk responses", ErrInvalidCatalog, id, qid)
			}
			attainable++
		case RuleCodedSum:
			if item.MaxCode <= 0 {
				return fmt.Errorf("%w: instrument %s item %s has non-positive max_code", ErrInvalidCatalog, id, qid)
			}
			attainable += item.MaxCode
		}
	}
	if attainable != def.MaxScore {
		return fmt.Errorf("%w: instrument %s declares max score %d but items attain %d",
			ErrInvalidCatalog, id, def.MaxScore, attainable)
	}

	// Bands must partition [0, MaxScore] with no gaps or overlaps, so every
	// attainable score maps to exactly one label.
	if len(def.Bands) == 0 {
		return fmt.Errorf("%w: instrument %s has no threshold bands", ErrInvalidCatalog, id)
	}
	bands := append([]Band(nil), def.Bands...)
	sort.Slice(bands, func(i, j int) bool { return bands[i].Lower < bands[j].Lower })
	next := 0
	for _, band := range bands {
		if band.Label == "" {
			return fmt.Errorf("%w: instrument %s has a band without a label", ErrInvalidCatalog, id)
		}
		if band.Lower > band.Upper {
			return fmt.Errorf("%w: instrument %s band %q is inverted", ErrInvalidCatalog, id, band.Label)
		}
		if band.Lower != next {
			return fmt.Errorf("%w: instrument %s bands leave score %d uncovered", ErrInvalidCatalog, id, next)
		}
		next = band.Upper + 1
	}
	if next != def.MaxScore+1 {
		return fmt.Errorf("%w: instrument %s bands stop at %d, max score is %d",
			ErrInvalidCatalog, id, next-1, def.MaxScore)
	}
	return nil
}
