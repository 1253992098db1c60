package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/plataa/platform/pkg/common/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleResponsible = "responsible"
	RoleSpecialist  = "specialist"

	minPasswordLength = 6
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return models.User{}, fmt.Errorf("name and email are required")
	}
	if len(req.Password) < minPasswordLength {
		return models.User{}, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role != RoleResponsible && role != RoleSpecialist {
		return models.User{}, fmt.Errorf("role must be %s or %s", RoleResponsible, RoleSpecialist)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	var profile *SpecialistProfileInput
	if role == RoleSpecialist {
		profile = &SpecialistProfileInput{
			Council:   req.Council,
			Specialty: req.Specialty,
			Bio:       req.Bio,
		}
	}

	return s.repo.CreateAccount(ctx, CreateUserInput{
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
		PasswordHash: string(hash),
	}, profile)
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	hash, err := s.repo.GetPasswordHash(ctx, user.ID)
	if err != nil {
		return models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *Service) GetSpecialistProfile(ctx context.Context, userID uuid.UUID) (models.SpecialistProfile, error) {
	return s.repo.GetSpecialistProfile(ctx, userID)
}
