package screening

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/plataa/platform/pkg/common/kafka"
	"github.com/plataa/platform/pkg/common/logger"
	"github.com/plataa/platform/pkg/common/models"
	"github.com/plataa/platform/pkg/observability/metrics"
)

// ResultRow pairs a persisted result with its tested individual for the
// read-only dashboard queries.
type ResultRow struct {
	Result     models.ScreeningResult
	Individual models.TestedIndividual
}

// Store is the persistence contract the coordinator depends on.
// *Repository implements it against Postgres.
type Store interface {
	CreateIndividual(ctx context.Context, individual models.TestedIndividual) (models.TestedIndividual, error)
	GetIndividualByNationalID(ctx context.Context, nationalID string) (models.TestedIndividual, error)
	DeleteIndividual(ctx context.Context, individualID uuid.UUID) error
	CreateResult(ctx context.Context, result models.ScreeningResult, anonymize bool) (models.ScreeningResult, error)
	ListResultsBySubmitter(ctx context.Context, submitterID uuid.UUID) ([]ResultRow, error)
	ListAllResults(ctx context.Context) ([]ResultRow, error)
	ListResultsForIndividual(ctx context.Context, individualID uuid.UUID) ([]models.ScreeningResult, error)
}

// EventPublisher emits analytics events after a submission is durable.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

const (
	RoleResponsible = "responsible"
	RoleSpecialist  = "specialist"

	eventSource = "screening-service"
)

type Service struct {
	store     Store
	engine    *Engine
	advisor   *Advisor
	publisher EventPublisher
}

// NewService wires the submission coordinator. publisher may be nil when
// the event bus is not configured.
func NewService(store Store, engine *Engine, advisor *Advisor, publisher EventPublisher) *Service {
	return &Service{store: store, engine: engine, advisor: advisor, publisher: publisher}
}

func (s *Service) RegisterIndividual(ctx context.Context, submitter models.User, req models.CreateIndividualRequest) (models.TestedIndividual, error) {
	if req.FullName == "" || req.NationalID == "" {
		return models.TestedIndividual{}, fmt.Errorf("full name and national id are required")
	}

	individual := models.TestedIndividual{
		FullName:        strings.TrimSpace(req.FullName),
		NationalID:      strings.TrimSpace(req.NationalID),
		Neighborhood:    req.Neighborhood,
		Phone:           req.Phone,
		Email:           req.Email,
		ResearchConsent: req.ResearchConsent,
	}
	if submitter.Role == RoleResponsible {
		id := submitter.ID
		individual.ResponsibleID = &id
	}
	return s.store.CreateIndividual(ctx, individual)
}

// Submit runs the full submission flow: resolve the individual, score,
// persist the result plus the consent-gated anonymized record atomically,
// then attach the advisory message. The advisory step is presentation
// only; its failure is logged, never rolled into the committed result.
func (s *Service) Submit(ctx context.Context, nationalID string, submitter models.User, req models.SubmitRequest) (models.SubmitResponse, error) {
	individual, err := s.store.GetIndividualByNationalID(ctx, nationalID)
	if err != nil {
		return models.SubmitResponse{}, err
	}

	score, classification, err := s.engine.Score(req.InstrumentID, req.Answers)
	if err != nil {
		return models.SubmitResponse{}, err
	}

	submitterID := submitter.ID
	result := models.ScreeningResult{
		IndividualID:   individual.ID,
		SubmitterID:    &submitterID,
		InstrumentID:   strings.ToLower(strings.TrimSpace(req.InstrumentID)),
		Answers:        req.Answers,
		Score:          score,
		Classification: classification,
		AgeBand:        req.AgeBand,
		Region:         req.Region,
	}

	created, err := s.store.CreateResult(ctx, result, individual.ResearchConsent)
	if err != nil {
		return models.SubmitResponse{}, err
	}
	if individual.ResearchConsent {
		metrics.IncAnonymizedRecord()
	}

	message, err := s.advisor.Advise(classification, created.InstrumentID)
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"instrument":     created.InstrumentID,
			"classification": classification,
		}).Error("orientation lookup failed for committed result")
	}

	s.publish(kafka.EventScreeningResultCreated, map[string]interface{}{
		"instrument_id":  created.InstrumentID,
		"classification": created.Classification,
		"score":          created.Score,
		"age_band":       created.AgeBand,
		"region":         created.Region,
		"anonymized":     individual.ResearchConsent,
	})

	return models.SubmitResponse{Result: created, OrientationMessage: message}, nil
}

// Preview scores without persisting anything, for dry-run use.
func (s *Service) Preview(instrumentID string, answers []models.AnswerItem) (models.PreviewResponse, error) {
	score, classification, err := s.engine.Score(instrumentID, answers)
	if err != nil {
		return models.PreviewResponse{}, err
	}
	message, err := s.advisor.Advise(classification, instrumentID)
	if err != nil {
		return models.PreviewResponse{}, err
	}
	return models.PreviewResponse{
		InstrumentID:       strings.ToLower(strings.TrimSpace(instrumentID)),
		Score:              score,
		Classification:     classification,
		OrientationMessage: message,
	}, nil
}

func (s *Service) DeleteIndividual(ctx context.Context, nationalID string, actor models.User) error {
	if actor.Role != RoleSpecialist {
		return ErrAccessDenied
	}
	individual, err := s.store.GetIndividualByNationalID(ctx, nationalID)
	if err != nil {
		return err
	}
	return s.store.DeleteIndividual(ctx, individual.ID)
}

// ResponsibleDashboard groups a submitter's results by tested individual,
// newest first, with the orientation message attached at read time.
func (s *Service) ResponsibleDashboard(ctx context.Context, submitterID uuid.UUID) (models.ResponsibleDashboard, error) {
	rows, err := s.store.ListResultsBySubmitter(ctx, submitterID)
	if err != nil {
		return models.ResponsibleDashboard{}, err
	}

	order := make([]uuid.UUID, 0, len(rows))
	groups := make(map[uuid.UUID]*models.ResponsibleGroup, len(rows))
	for _, row := range rows {
		group, ok := groups[row.Individual.ID]
		if !ok {
			group = &models.ResponsibleGroup{
				FullName:     row.Individual.FullName,
				NationalID:   row.Individual.NationalID,
				Neighborhood: row.Individual.Neighborhood,
			}
			groups[row.Individual.ID] = group
			order = append(order, row.Individual.ID)
		}
		group.Results = append(group.Results, s.summarize(row.Result))
	}

	dashboard := models.ResponsibleDashboard{Individuals: make([]models.ResponsibleGroup, 0, len(order))}
	for _, id := range order {
		dashboard.Individuals = append(dashboard.Individuals, *groups[id])
	}
	return dashboard, nil
}

// SpecialistDashboard tallies results per classification label across the
// whole result set, alongside a flat listing.
func (s *Service) SpecialistDashboard(ctx context.Context) (models.SpecialistDashboard, error) {
	rows, err := s.store.ListAllResults(ctx)
	if err != nil {
		return models.SpecialistDashboard{}, err
	}

	dashboard := models.SpecialistDashboard{
		TotalsByClassification: make(map[string]int),
		Entries:                make([]models.SpecialistEntry, 0, len(rows)),
	}
	for _, row := range rows {
		dashboard.TotalsByClassification[row.Result.Classification]++
		dashboard.Entries = append(dashboard.Entries, models.SpecialistEntry{
			FullName:       row.Individual.FullName,
			AgeBand:        row.Result.AgeBand,
			Neighborhood:   row.Individual.Neighborhood,
			Contact:        row.Individual.Phone,
			Classification: row.Result.Classification,
			InstrumentID:   row.Result.InstrumentID,
			CreatedAt:      row.Result.CreatedAt,
		})
	}
	return dashboard, nil
}

func (s *Service) IndividualDashboard(ctx context.Context, nationalID string, viewer models.User) (models.IndividualDashboard, error) {
	individual, err := s.store.GetIndividualByNationalID(ctx, nationalID)
	if err != nil {
		return models.IndividualDashboard{}, err
	}
	if viewer.Role == RoleResponsible && individual.ResponsibleID != nil && *individual.ResponsibleID != viewer.ID {
		return models.IndividualDashboard{}, ErrAccessDenied
	}

	results, err := s.store.ListResultsForIndividual(ctx, individual.ID)
	if err != nil {
		return models.IndividualDashboard{}, err
	}

	dashboard := models.IndividualDashboard{
		NationalID: individual.NationalID,
		Cards:      make([]models.IndividualCard, 0, len(results)),
	}
	for _, result := range results {
		dashboard.Cards = append(dashboard.Cards, models.IndividualCard{
			InstrumentID:   result.InstrumentID,
			Classification: result.Classification,
			CreatedAt:      result.CreatedAt,
		})
	}
	if len(results) > 0 {
		latest := results[0]
		dashboard.Transparency = []string{
			fmt.Sprintf("Age band: %s", latest.AgeBand),
			fmt.Sprintf("Region: %s", latest.Region),
			fmt.Sprintf("Score: %d", latest.Score),
		}
	}
	return dashboard, nil
}

func (s *Service) summarize(result models.ScreeningResult) models.ResultSummary {
	message, err := s.advisor.Advise(result.Classification, result.InstrumentID)
	if err != nil {
		logger.Log.WithError(err).WithField("instrument", result.InstrumentID).Error("orientation lookup failed")
	}
	return models.ResultSummary{
		InstrumentID:       result.InstrumentID,
		Score:              result.Score,
		Classification:     result.Classification,
		AgeBand:            result.AgeBand,
		Region:             result.Region,
		OrientationMessage: message,
		CreatedAt:          result.CreatedAt,
	}
}

// publish emits an event without gating the caller: the submission is
// already durable and notification delivery is best effort.
func (s *Service) publish(eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.publisher.PublishEvent(ctx, eventType, eventSource, data); err != nil {
			logger.Log.WithError(err).WithField("event_type", eventType).Warn("event publish failed")
		}
	}()
}
