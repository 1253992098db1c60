package contact

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/plataa/platform/pkg/common/models"
)

type memoryStore struct {
	messages []models.ContactMessage
}

func (m *memoryStore) Create(ctx context.Context, msg models.ContactMessage) (models.ContactMessage, error) {
	msg.ID = uuid.New()
	m.messages = append(m.messages, msg)
	return msg, nil
}

func (m *memoryStore) ListRecent(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	if limit > len(m.messages) {
		limit = len(m.messages)
	}
	return m.messages[:limit], nil
}

func TestSubmitValidatesFields(t *testing.T) {
	service := NewService(&memoryStore{}, nil)

	tests := []struct {
		name string
		req  models.ContactRequest
	}{
		{"missing name", models.ContactRequest{Email: "a@b.com", Message: "hi"}},
		{"missing email", models.ContactRequest{Name: "Ana", Message: "hi"}},
		{"missing message", models.ContactRequest{Name: "Ana", Email: "a@b.com"}},
		{"whitespace only", models.ContactRequest{Name: " ", Email: " ", Message: " "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.Submit(context.Background(), nil, tt.req); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSubmitPersistsMessage(t *testing.T) {
	store := &memoryStore{}
	service := NewService(store, nil)
	userID := uuid.New()

	created, err := service.Submit(context.Background(), &userID, models.ContactRequest{
		Name:    "  Ana  ",
		Email:   "ana@example.com",
		Message: "Preciso de ajuda com o resultado.",
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.Name != "Ana" {
		t.Errorf("name = %q, want trimmed %q", created.Name, "Ana")
	}
	if created.UserID == nil || *created.UserID != userID {
		t.Error("message should be attributed to the sender")
	}
	if len(store.messages) != 1 {
		t.Fatalf("expected 1 persisted message, got %d", len(store.messages))
	}
}
