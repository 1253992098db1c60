package platform

import (
	"context"

	"github.com/plataa/platform/pkg/identity"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CountScreenings(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("screening_results").Count(&count).Error
	return count, err
}

func (r *Repository) CountSpecialists(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("users").Where("role = ?", identity.RoleSpecialist).Count(&count).Error
	return count, err
}
