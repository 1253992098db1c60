package instrument

import (
	"strconv"
	"strings"

	"github.com/plataa/platform/pkg/common/models"
)

// Apply computes the raw score for an answer set. Rules are pure and
// tolerant: answers for unrecognized question ids are ignored, a repeated
// question id counts once (first occurrence wins), and responses the rule
// cannot interpret contribute zero.
func (d Definition) Apply(answers []models.AnswerItem) int {
	switch d.Rule {
	case RuleRiskResponses:
		return d.riskCount(answers)
	case RuleCodedSum:
		return d.codedSum(answers)
	}
	return 0
}

// Classify maps a score to its threshold band label. Bands are closed
// intervals; registry validation guarantees exactly one match for any
// score in [0, MaxScore].
func (d Definition) Classify(score int) (string, bool) {
	for _, band := range d.Bands {
		if score >= band.Lower && score <= band.Upper {
			return band.Label, true
		}
	}
	return "", false
}

func (d Definition) riskCount(answers []models.AnswerItem) int {
	risk := make(map[string]map[string]struct{}, len(d.Items))
	for _, item := range d.Items {
		set := make(map[string]struct{}, len(item.RiskResponses))
		for _, response := range item.RiskResponses {
			set[normalize(response)] = struct{}{}
		}
		risk[normalize(item.QuestionID)] = set
	}

	score := 0
	seen := make(map[string]struct{}, len(answers))
	for _, answer := range answers {
		qid := normalize(answer.QuestionID)
		set, known := risk[qid]
		if !known {
			continue
		}
		if _, dup := seen[qid]; dup {
			continue
		}
		seen[qid] = struct{}{}
		if _, match := set[normalize(answer.Response)]; match {
			score++
		}
	}
	return score
}

func (d Definition) codedSum(answers []models.AnswerItem) int {
	maxCodes := make(map[string]int, len(d.Items))
	for _, item := range d.Items {
		maxCodes[normalize(item.QuestionID)] = item.MaxCode
	}

	score := 0
	seen := make(map[string]struct{}, len(answers))
	for _, answer := range answers {
		qid := normalize(answer.QuestionID)
		maxCode, known := maxCodes[qid]
		if !known {
			continue
		}
		if _, dup := seen[qid]; dup {
			continue
		}
		seen[qid] = struct{}{}
		code, err := strconv.Atoi(strings.TrimSpace(answer.Response))
		if err != nil || code < 0 {
			continue
		}
		if code > maxCode {
			code = maxCode
		}
		score += code
	}
	return score
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
