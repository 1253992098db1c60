package screening

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/plataa/platform/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type individualModel struct {
	ID              uuid.UUID  `gorm:"primaryKey;column:id"`
	ResponsibleID   *uuid.UUID `gorm:"column:responsible_id"`
	FullName        string     `gorm:"column:full_name"`
	NationalID      string     `gorm:"column:national_id;uniqueIndex"`
	Neighborhood    string     `gorm:"column:neighborhood"`
	Phone           string     `gorm:"column:phone"`
	Email           string     `gorm:"column:email"`
	ResearchConsent bool       `gorm:"column:research_consent"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
}

func (individualModel) TableName() string { return "tested_individuals" }

type resultModel struct {
	ID             uuid.UUID      `gorm:"primaryKey;column:id"`
	IndividualID   uuid.UUID      `gorm:"column:individual_id;uniqueIndex:uq_result_individual_instrument"`
	InstrumentID   string         `gorm:"column:instrument_id;uniqueIndex:uq_result_individual_instrument"`
	SubmitterID    *uuid.UUID     `gorm:"column:submitter_id"`
	Answers        datatypes.JSON `gorm:"column:answers"`
	Score          int            `gorm:"column:score;check:chk_score_positive,score >= 0"`
	Classification string         `gorm:"column:classification"`
	AgeBand        string         `gorm:"column:age_band"`
	Region         string         `gorm:"column:region"`
	CreatedAt      time.Time      `gorm:"column:created_at"`

	Individual individualModel `gorm:"foreignKey:IndividualID;constraint:OnDelete:CASCADE"`
}

func (resultModel) TableName() string { return "screening_results" }

type anonymizedModel struct {
	ID           uuid.UUID `gorm:"primaryKey;column:id"`
	ResultID     uuid.UUID `gorm:"column:result_id;uniqueIndex"`
	AgeBand      string    `gorm:"column:age_band"`
	Region       string    `gorm:"column:region"`
	Score        int       `gorm:"column:score"`
	InstrumentID string    `gorm:"column:instrument_id"`
	CreatedAt    time.Time `gorm:"column:created_at"`

	Result resultModel `gorm:"foreignKey:ResultID;constraint:OnDelete:CASCADE"`
}

func (anonymizedModel) TableName() string { return "anonymized_records" }

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&individualModel{},
		&resultModel{},
		&anonymizedModel{},
	)
}

func (r *Repository) CreateIndividual(ctx context.Context, individual models.TestedIndividual) (models.TestedIndividual, error) {
	row := &individualModel{
		ID:              uuid.New(),
		ResponsibleID:   individual.ResponsibleID,
		FullName:        individual.FullName,
		NationalID:      individual.NationalID,
		Neighborhood:    individual.Neighborhood,
		Phone:           individual.Phone,
		Email:           individual.Email,
		ResearchConsent: individual.ResearchConsent,
		CreatedAt:       time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.TestedIndividual{}, ErrDuplicateIndividual
		}
		return models.TestedIndividual{}, err
	}
	return buildIndividual(row), nil
}

func (r *Repository) GetIndividualByNationalID(ctx context.Context, nationalID string) (models.TestedIndividual, error) {
	var row individualModel
	if err := r.db.WithContext(ctx).First(&row, "national_id = ?", nationalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.TestedIndividual{}, ErrNotFound
		}
		return models.TestedIndividual{}, err
	}
	return buildIndividual(&row), nil
}

// DeleteIndividual removes the individual row; results and their
// anonymized records go with it through the ON DELETE CASCADE chain.
func (r *Repository) DeleteIndividual(ctx context.Context, individualID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&individualModel{}, "id = ?", individualID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateResult persists the screening result and, when anonymize is set,
// its anonymized record in one transaction: both commit or neither does.
// The composite unique index resolves the race between near-simultaneous
// submissions for the same (individual, instrument) pair.
func (r *Repository) CreateResult(ctx context.Context, result models.ScreeningResult, anonymize bool) (models.ScreeningResult, error) {
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return models.ScreeningResult{}, err
	}
	row := &resultModel{
		ID:             uuid.New(),
		IndividualID:   result.IndividualID,
		InstrumentID:   result.InstrumentID,
		SubmitterID:    result.SubmitterID,
		Answers:        datatypes.JSON(answers),
		Score:          result.Score,
		Classification: result.Classification,
		AgeBand:        result.AgeBand,
		Region:         result.Region,
		CreatedAt:      time.Now().UTC(),
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateSubmission
			}
			return err
		}
		if !anonymize {
			return nil
		}
		anon := &anonymizedModel{
			ID:           uuid.New(),
			ResultID:     row.ID,
			AgeBand:      row.AgeBand,
			Region:       row.Region,
			Score:        row.Score,
			InstrumentID: row.InstrumentID,
			CreatedAt:    row.CreatedAt,
		}
		return tx.Create(anon).Error
	})
	if err != nil {
		return models.ScreeningResult{}, err
	}
	return buildResult(row), nil
}

func (r *Repository) ListResultsBySubmitter(ctx context.Context, submitterID uuid.UUID) ([]ResultRow, error) {
	var rows []resultModel
	if err := r.db.WithContext(ctx).
		Where("submitter_id = ?", submitterID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.joinIndividuals(ctx, rows)
}

func (r *Repository) ListAllResults(ctx context.Context) ([]ResultRow, error) {
	var rows []resultModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.joinIndividuals(ctx, rows)
}

func (r *Repository) ListResultsForIndividual(ctx context.Context, individualID uuid.UUID) ([]models.ScreeningResult, error) {
	var rows []resultModel
	if err := r.db.WithContext(ctx).
		Where("individual_id = ?", individualID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	results := make([]models.ScreeningResult, 0, len(rows))
	for i := range rows {
		results = append(results, buildResult(&rows[i]))
	}
	return results, nil
}

func (r *Repository) joinIndividuals(ctx context.Context, rows []resultModel) ([]ResultRow, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	seen := make(map[uuid.UUID]struct{}, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.IndividualID]; ok {
			continue
		}
		seen[row.IndividualID] = struct{}{}
		ids = append(ids, row.IndividualID)
	}

	var individuals []individualModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&individuals).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.TestedIndividual, len(individuals))
	for i := range individuals {
		byID[individuals[i].ID] = buildIndividual(&individuals[i])
	}

	joined := make([]ResultRow, 0, len(rows))
	for i := range rows {
		individual, ok := byID[rows[i].IndividualID]
		if !ok {
			continue
		}
		joined = append(joined, ResultRow{Result: buildResult(&rows[i]), Individual: individual})
	}
	return joined, nil
}

func buildIndividual(row *individualModel) models.TestedIndividual {
	return models.TestedIndividual{
		ID:              row.ID,
		ResponsibleID:   row.ResponsibleID,
		FullName:        row.FullName,
		NationalID:      row.NationalID,
		Neighborhood:    row.Neighborhood,
		Phone:           row.Phone,
		Email:           row.Email,
		ResearchConsent: row.ResearchConsent,
		CreatedAt:       row.CreatedAt,
	}
}

func buildResult(row *resultModel) models.ScreeningResult {
	var answers []models.AnswerItem
	if len(row.Answers) > 0 {
		_ = json.Unmarshal(row.Answers, &answers)
	}
	return models.ScreeningResult{
		ID:             row.ID,
		IndividualID:   row.IndividualID,
		SubmitterID:    row.SubmitterID,
		InstrumentID:   row.InstrumentID,
		Answers:        answers,
		Score:          row.Score,
		Classification: row.Classification,
		AgeBand:        row.AgeBand,
		Region:         row.Region,
		CreatedAt:      row.CreatedAt,
	}
}
