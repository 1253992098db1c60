package identity

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/plataa/platform/pkg/common/logger"
	"github.com/plataa/platform/pkg/common/models"
	"github.com/plataa/platform/pkg/gateway/auth"
	"github.com/plataa/platform/pkg/gateway/middleware"
)

type Handler struct {
	service *Service
	tokens  *auth.JWTManager
}

func NewHandler(service *Service, tokens *auth.JWTManager) *Handler {
	return &Handler{service: service, tokens: tokens}
}

// RegisterPublic mounts the unauthenticated account routes.
func (h *Handler) RegisterPublic(r *mux.Router) {
	r.HandleFunc("/register", h.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/login", h.handleLogin).Methods(http.MethodPost)
}

// RegisterProtected mounts the routes that require a valid token.
func (h *Handler) RegisterProtected(r *mux.Router) {
	r.HandleFunc("/me", h.handleMe).Methods(http.MethodGet)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		logger.Log.WithError(err).Warn("registration rejected")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"user": user})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		logger.Log.WithError(err).Error("failed to authenticate user")
		http.Error(w, "failed to authenticate", http.StatusInternalServerError)
		return
	}

	token, err := h.tokens.IssueToken(user)
	if err != nil {
		logger.Log.WithError(err).Error("failed to issue token")
		http.Error(w, "failed to authenticate", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, models.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	user, err := h.service.GetUser(r.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to load user")
		http.Error(w, "failed to load user", http.StatusInternalServerError)
		return
	}

	payload := map[string]interface{}{"user": user}
	if user.Role == RoleSpecialist {
		if profile, err := h.service.GetSpecialistProfile(r.Context(), user.ID); err == nil {
			payload["specialist_profile"] = profile
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
