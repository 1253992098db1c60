package screening

import (
	"fmt"

	"github.com/plataa/platform/pkg/common/models"
	"github.com/plataa/platform/pkg/screening/instrument"
)

// Engine turns an answer set into a score and a risk classification.
// Scoring is pure and deterministic; the registry it is built from is
// immutable, so identical answers always yield identical results.
type Engine struct {
	registry *instrument.Registry
}

func NewEngine(registry *instrument.Registry) *Engine {
	return &Engine{registry: registry}
}

func (e *Engine) Score(instrumentID string, answers []models.AnswerItem) (int, string, error) {
	def, ok := e.registry.Lookup(instrumentID)
	if !ok {
		return 0, "", fmt.Errorf("%w: %s", ErrUnknownInstrument, instrumentID)
	}
	if len(answers) == 0 {
		return 0, "", fmt.Errorf("%w: instrument %s", ErrInsufficientAnswers, instrumentID)
	}

	score := def.Apply(answers)
	label, ok := def.Classify(score)
	if !ok {
		// Unreachable for a validated registry; kept so a future rule
		// change cannot silently produce an unclassified result.
		return 0, "", fmt.Errorf("score %d outside the bands of instrument %s", score, instrumentID)
	}
	return score, label, nil
}

// Instruments lists the ids the engine can score, for discovery endpoints.
func (e *Engine) Instruments() []string {
	return e.registry.IDs()
}

// AgeBand returns the descriptive age band of an instrument.
func (e *Engine) AgeBand(instrumentID string) (string, error) {
	def, ok := e.registry.Lookup(instrumentID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownInstrument, instrumentID)
	}
	return def.AgeBand, nil
}
