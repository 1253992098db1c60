package models

import (
	"time"

	"github.com/google/uuid"
)

// Accounts

type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"` // responsible, specialist
	CreatedAt time.Time `json:"created_at"`
}

type SpecialistProfile struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Council   string    `json:"council,omitempty"`
	Specialty string    `json:"specialty,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`

	// Specialist-only fields, ignored for responsible accounts.
	Council   string `json:"council,omitempty"`
	Specialty string `json:"specialty,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Screening

type TestedIndividual struct {
	ID              uuid.UUID  `json:"id"`
	ResponsibleID   *uuid.UUID `json:"responsible_id,omitempty"`
	FullName        string     `json:"full_name"`
	NationalID      string     `json:"national_id"`
	Neighborhood    string     `json:"neighborhood"`
	Phone           string     `json:"phone"`
	Email           string     `json:"email"`
	ResearchConsent bool       `json:"research_consent"`
	CreatedAt       time.Time  `json:"created_at"`
}

type CreateIndividualRequest struct {
	FullName        string `json:"full_name"`
	NationalID      string `json:"national_id"`
	Neighborhood    string `json:"neighborhood"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	ResearchConsent bool   `json:"research_consent"`
}

// AnswerItem is one questionnaire response, stored verbatim with the result.
type AnswerItem struct {
	QuestionID string `json:"question_id"`
	Response   string `json:"response"`
}

type SubmitRequest struct {
	InstrumentID string       `json:"instrument_id"`
	AgeBand      string       `json:"age_band"`
	Region       string       `json:"region"`
	Answers      []AnswerItem `json:"answers"`
}

type ScreeningResult struct {
	ID             uuid.UUID    `json:"id"`
	IndividualID   uuid.UUID    `json:"individual_id"`
	SubmitterID    *uuid.UUID   `json:"submitter_id,omitempty"`
	InstrumentID   string       `json:"instrument_id"`
	Answers        []AnswerItem `json:"answers"`
	Score          int          `json:"score"`
	Classification string       `json:"classification"`
	AgeBand        string       `json:"age_band"`
	Region         string       `json:"region"`
	CreatedAt      time.Time    `json:"created_at"`
}

// AnonymizedRecord carries only non-identifying fields. It deliberately has
// no reference back to the individual or the submitting account.
type AnonymizedRecord struct {
	ID           uuid.UUID `json:"id"`
	AgeBand      string    `json:"age_band"`
	Region       string    `json:"region"`
	Score        int       `json:"score"`
	InstrumentID string    `json:"instrument_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type SubmitResponse struct {
	Result             ScreeningResult `json:"result"`
	OrientationMessage string          `json:"orientation_message,omitempty"`
}

type PreviewResponse struct {
	InstrumentID       string `json:"instrument_id"`
	Score              int    `json:"score"`
	Classification     string `json:"classification"`
	OrientationMessage string `json:"orientation_message,omitempty"`
}

// Dashboards

type ResultSummary struct {
	InstrumentID       string    `json:"instrument_id"`
	Score              int       `json:"score"`
	Classification     string    `json:"classification"`
	AgeBand            string    `json:"age_band"`
	Region             string    `json:"region"`
	OrientationMessage string    `json:"orientation_message,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

type ResponsibleGroup struct {
	FullName     string          `json:"full_name"`
	NationalID   string          `json:"national_id"`
	Neighborhood string          `json:"neighborhood"`
	Results      []ResultSummary `json:"results"`
}

type ResponsibleDashboard struct {
	Individuals []ResponsibleGroup `json:"individuals"`
}

type SpecialistEntry struct {
	FullName       string    `json:"full_name"`
	AgeBand        string    `json:"age_band"`
	Neighborhood   string    `json:"neighborhood"`
	Contact        string    `json:"contact"`
	Classification string    `json:"classification"`
	InstrumentID   string    `json:"instrument_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type SpecialistDashboard struct {
	TotalsByClassification map[string]int    `json:"totals_by_classification"`
	Entries                []SpecialistEntry `json:"entries"`
}

type IndividualCard struct {
	InstrumentID   string    `json:"instrument_id"`
	Classification string    `json:"classification"`
	CreatedAt      time.Time `json:"created_at"`
}

type IndividualDashboard struct {
	NationalID   string           `json:"national_id"`
	Cards        []IndividualCard `json:"cards"`
	Transparency []string         `json:"transparency"`
}

// Contact

type ContactMessage struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Platform

type PlatformStats struct {
	ScreeningsPerformed   int64     `json:"screenings_performed"`
	SpecialistsRegistered int64     `json:"specialists_registered"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// Event Bus models

type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}
