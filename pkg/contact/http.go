package contact

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/plataa/platform/pkg/common/logger"
	"github.com/plataa/platform/pkg/common/models"
	"github.com/plataa/platform/pkg/gateway/middleware"
	"github.com/plataa/platform/pkg/identity"
	"github.com/plataa/platform/pkg/observability/metrics"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublic mounts the message intake route. Senders do not need an
// account; when one is logged in the message is attributed to it.
func (h *Handler) RegisterPublic(r *mux.Router) {
	r.HandleFunc("/contact", h.handleSubmit).Methods(http.MethodPost)
}

// RegisterProtected mounts the specialist review route.
func (h *Handler) RegisterProtected(r *mux.Router) {
	r.HandleFunc("/contact/messages", h.handleListRecent).Methods(http.MethodGet)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	var userID *uuid.UUID
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		userID = &user.ID
	}

	created, err := h.service.Submit(r.Context(), userID, req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	metrics.IncContactMessage()
	writeJSON(w, http.StatusCreated, map[string]interface{}{"message": created})
}

func (h *Handler) handleListRecent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if user.Role != identity.RoleSpecialist {
		http.Error(w, "specialist role required", http.StatusForbidden)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	messages, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list contact messages")
		http.Error(w, "failed to list contact messages", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
