package screening

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/plataa/platform/pkg/common/logger"
	"github.com/plataa/platform/pkg/common/models"
	"github.com/plataa/platform/pkg/gateway/middleware"
	"github.com/plataa/platform/pkg/observability/metrics"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublic mounts the routes that work without an account: the
// instrument listing and the dry-run preview.
func (h *Handler) RegisterPublic(r *mux.Router) {
	r.HandleFunc("/instruments", h.handleListInstruments).Methods(http.MethodGet)
	r.HandleFunc("/preview", h.handlePreview).Methods(http.MethodPost)
}

// Register mounts the authenticated screening routes.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/individuals", h.handleRegisterIndividual).Methods(http.MethodPost)
	r.HandleFunc("/individuals/{nationalID}", h.handleIndividualDashboard).Methods(http.MethodGet)
	r.HandleFunc("/individuals/{nationalID}", h.handleDeleteIndividual).Methods(http.MethodDelete)
	r.HandleFunc("/individuals/{nationalID}/submissions", h.handleSubmit).Methods(http.MethodPost)
	r.HandleFunc("/responsible/results", h.handleResponsibleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/specialist/dashboard", h.handleSpecialistDashboard).Methods(http.MethodGet)
}

func (h *Handler) handleListInstruments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"instruments": h.service.engine.Instruments()})
}

func (h *Handler) handleRegisterIndividual(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req models.CreateIndividualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	individual, err := h.service.RegisterIndividual(r.Context(), user, req)
	if err != nil {
		writeServiceError(w, err, "failed to register individual")
		return
	}
	metrics.IncIndividualCreated()
	writeJSON(w, http.StatusCreated, map[string]interface{}{"individual": individual})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	nationalID := mux.Vars(r)["nationalID"]

	var req models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.InstrumentID == "" {
		http.Error(w, "instrument_id is required", http.StatusBadRequest)
		return
	}

	response, err := h.service.Submit(r.Context(), nationalID, user, req)
	if err != nil {
		metrics.IncSubmissionRejected()
		writeServiceError(w, err, "failed to submit screening")
		return
	}
	metrics.IncSubmissionAccepted()
	writeJSON(w, http.StatusCreated, response)
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.InstrumentID == "" {
		http.Error(w, "instrument_id is required", http.StatusBadRequest)
		return
	}
	preview, err := h.service.Preview(req.InstrumentID, req.Answers)
	if err != nil {
		writeServiceError(w, err, "failed to preview screening")
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

func (h *Handler) handleDeleteIndividual(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.service.DeleteIndividual(r.Context(), mux.Vars(r)["nationalID"], user); err != nil {
		writeServiceError(w, err, "failed to delete individual")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleIndividualDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	dashboard, err := h.service.IndividualDashboard(r.Context(), mux.Vars(r)["nationalID"], user)
	if err != nil {
		writeServiceError(w, err, "failed to load individual dashboard")
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) handleResponsibleDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if user.Role != RoleResponsible {
		http.Error(w, "responsible role required", http.StatusForbidden)
		return
	}
	dashboard, err := h.service.ResponsibleDashboard(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err, "failed to load responsible dashboard")
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) handleSpecialistDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if user.Role != RoleSpecialist {
		http.Error(w, "specialist role required", http.StatusForbidden)
		return
	}
	dashboard, err := h.service.SpecialistDashboard(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to load specialist dashboard")
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateSubmission), errors.Is(err, ErrDuplicateIndividual):
		return http.StatusConflict
	case errors.Is(err, ErrUnknownInstrument),
		errors.Is(err, ErrUnknownClassification),
		errors.Is(err, ErrInsufficientAnswers):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrAccessDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Log.WithError(err).Error(fallback)
		http.Error(w, fallback, status)
		return
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
