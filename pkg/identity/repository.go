package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/plataa/platform/pkg/common/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex"`
	Name         string
	Role         string `gorm:"index"`
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserModel) TableName() string {
	return "users"
}

type SpecialistProfileModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Council   string
	Specialty string
	Bio       string
	CreatedAt time.Time

	User UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (SpecialistProfileModel) TableName() string {
	return "specialist_profiles"
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&UserModel{}, &SpecialistProfileModel{})
}

type CreateUserInput struct {
	Email        string
	Name         string
	Role         string
	PasswordHash string
}

type SpecialistProfileInput struct {
	Council   string
	Specialty string
	Bio       string
}

// CreateAccount inserts the user and, for specialists, the profile in one
// transaction.
func (r *Repository) CreateAccount(ctx context.Context, input CreateUserInput, profile *SpecialistProfileInput) (models.User, error) {
	now := time.Now().UTC()
	row := &UserModel{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Name:         input.Name,
		Role:         input.Role,
		PasswordHash: input.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailAlreadyExists
			}
			return err
		}
		if profile == nil {
			return nil
		}
		return tx.Create(&SpecialistProfileModel{
			ID:        uuid.New(),
			UserID:    row.ID,
			Council:   profile.Council,
			Specialty: profile.Specialty,
			Bio:       profile.Bio,
			CreatedAt: now,
		}).Error
	})
	if err != nil {
		return models.User{}, err
	}
	return buildUser(row), nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var row UserModel
	err := r.db.WithContext(ctx).First(&row, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return buildUser(&row), nil
}

func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	var row UserModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return buildUser(&row), nil
}

func (r *Repository) GetPasswordHash(ctx context.Context, id uuid.UUID) (string, error) {
	var row UserModel
	if err := r.db.WithContext(ctx).Select("password_hash").First(&row, "id = ?", id).Error; err != nil {
		return "", err
	}
	return row.PasswordHash, nil
}

func (r *Repository) GetSpecialistProfile(ctx context.Context, userID uuid.UUID) (models.SpecialistProfile, error) {
	var row SpecialistProfileModel
	if err := r.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.SpecialistProfile{}, ErrUserNotFound
		}
		return models.SpecialistProfile{}, err
	}
	return models.SpecialistProfile{
		ID:        row.ID,
		UserID:    row.UserID,
		Council:   row.Council,
		Specialty: row.Specialty,
		Bio:       row.Bio,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r *Repository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&UserModel{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func buildUser(row *UserModel) models.User {
	return models.User{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Role:      row.Role,
		CreatedAt: row.CreatedAt,
	}
}
