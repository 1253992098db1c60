package contact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/plataa/platform/pkg/common/kafka"
	"github.com/plataa/platform/pkg/common/logger"
	"github.com/plataa/platform/pkg/common/models"
)

// Store persists contact messages.
type Store interface {
	Create(ctx context.Context, msg models.ContactMessage) (models.ContactMessage, error)
	ListRecent(ctx context.Context, limit int) ([]models.ContactMessage, error)
}

// EventPublisher mirrors the screening publisher contract.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

type Service struct {
	store     Store
	publisher EventPublisher
}

func NewService(store Store, publisher EventPublisher) *Service {
	return &Service{store: store, publisher: publisher}
}

// Submit records a contact message. userID is nil for anonymous visitors.
func (s *Service) Submit(ctx context.Context, userID *uuid.UUID, req models.ContactRequest) (models.ContactMessage, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	message := strings.TrimSpace(req.Message)
	if name == "" || email == "" || message == "" {
		return models.ContactMessage{}, fmt.Errorf("name, email and message are required")
	}

	created, err := s.store.Create(ctx, models.ContactMessage{
		UserID:  userID,
		Name:    name,
		Email:   email,
		Message: message,
	})
	if err != nil {
		return models.ContactMessage{}, err
	}

	if s.publisher != nil {
		go func() {
			pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err := s.publisher.PublishEvent(pubCtx, kafka.EventContactMessageCreated, "contact-service", map[string]interface{}{
				"message_id": created.ID.String(),
				"email":      created.Email,
			})
			if err != nil {
				logger.Log.WithError(err).Warn("contact event publish failed")
			}
		}()
	}

	return created, nil
}

func (s *Service) Recent(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	return s.store.ListRecent(ctx, limit)
}
