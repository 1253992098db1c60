package screening

import "errors"

// Stable error kinds surfaced to callers. The HTTP layer maps them to
// response statuses; nothing in this package swallows them.
var (
	ErrNotFound              = errors.New("tested individual not found")
	ErrDuplicateSubmission   = errors.New("a result already exists for this individual and instrument")
	ErrDuplicateIndividual   = errors.New("national id already registered")
	ErrUnknownInstrument     = errors.New("unknown instrument")
	ErrUnknownClassification = errors.New("no orientation configured for classification")
	ErrInsufficientAnswers   = errors.New("answer set is empty")
	ErrAccessDenied          = errors.New("access restricted")
)
