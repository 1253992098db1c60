package contact

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/plataa/platform/pkg/common/models"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type messageModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    *uuid.UUID `gorm:"type:uuid;index"`
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}

func (messageModel) TableName() string {
	return "contact_messages"
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&messageModel{})
}

func (r *Repository) Create(ctx context.Context, msg models.ContactMessage) (models.ContactMessage, error) {
	row := &messageModel{
		ID:        uuid.New(),
		UserID:    msg.UserID,
		Name:      msg.Name,
		Email:     msg.Email,
		Message:   msg.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return models.ContactMessage{}, err
	}
	msg.ID = row.ID
	msg.CreatedAt = row.CreatedAt
	return msg, nil
}

// ListRecent returns the newest messages first, for specialist review.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []messageModel
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]models.ContactMessage, 0, len(rows))
	for i := range rows {
		out = append(out, models.ContactMessage{
			ID:        rows[i].ID,
			UserID:    rows[i].UserID,
			Name:      rows[i].Name,
			Email:     rows[i].Email,
			Message:   rows[i].Message,
			CreatedAt: rows[i].CreatedAt,
		})
	}
	return out, nil
}
