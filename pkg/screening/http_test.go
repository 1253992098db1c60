package screening

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/plataa/platform/pkg/common/models"
	"github.com/plataa/platform/pkg/gateway/middleware"
)

func newTestRouter(t *testing.T, store Store) *mux.Router {
	t.Helper()
	handler := NewHandler(newTestService(t, store, nil))
	router := mux.NewRouter()
	handler.RegisterPublic(router)
	handler.Register(router)
	return router
}

func doJSON(t *testing.T, router *mux.Router, user *models.User, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), *user))
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestHandleListInstruments(t *testing.T) {
	router := newTestRouter(t, newMemoryStore())

	recorder := doJSON(t, router, nil, http.MethodGet, "/instruments", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	var payload struct {
		Instruments []string `json:"instruments"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if len(payload.Instruments) != 5 {
		t.Errorf("expected 5 instruments, got %v", payload.Instruments)
	}
}

func TestHandleSubmitStatusCodes(t *testing.T) {
	store := newMemoryStore()
	router := newTestRouter(t, store)
	user := responsible()

	created := doJSON(t, router, &user, http.MethodPost, "/individuals", models.CreateIndividualRequest{
		FullName:   "Child",
		NationalID: "111",
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("register individual status = %d, want 201", created.Code)
	}

	submit := models.SubmitRequest{InstrumentID: "mchat", Answers: mchatAnswers(3)}

	tests := []struct {
		name string
		path string
		body models.SubmitRequest
		user *models.User
		want int
	}{
		{"accepted", "/individuals/111/submissions", submit, &user, http.StatusCreated},
		{"duplicate", "/individuals/111/submissions", submit, &user, http.StatusConflict},
		{"unknown individual", "/individuals/999/submissions", submit, &user, http.StatusNotFound},
		{
			"unknown instrument", "/individuals/111/submissions",
			models.SubmitRequest{InstrumentID: "cars2", Answers: mchatAnswers(3)}, &user,
			http.StatusUnprocessableEntity,
		},
		{
			"empty answers", "/individuals/111/submissions",
			models.SubmitRequest{InstrumentID: "assq"}, &user,
			http.StatusUnprocessableEntity,
		},
		{"unauthenticated", "/individuals/111/submissions", submit, nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doJSON(t, router, tt.user, http.MethodPost, tt.path, tt.body)
			if recorder.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", recorder.Code, tt.want, recorder.Body.String())
			}
		})
	}
}

func TestHandleSubmitMissingInstrument(t *testing.T) {
	router := newTestRouter(t, newMemoryStore())
	user := responsible()

	recorder := doJSON(t, router, &user, http.MethodPost, "/individuals/111/submissions", models.SubmitRequest{})
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", recorder.Code)
	}
}

func TestHandlePreview(t *testing.T) {
	router := newTestRouter(t, newMemoryStore())

	recorder := doJSON(t, router, nil, http.MethodPost, "/preview", models.SubmitRequest{
		InstrumentID: "aq10",
		Answers:      []models.AnswerItem{{QuestionID: "q1", Response: "agree"}},
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", recorder.Code, recorder.Body.String())
	}
	var preview models.PreviewResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &preview); err != nil {
		t.Fatal(err)
	}
	if preview.Score != 1 || preview.Classification != "low risk" {
		t.Errorf("preview = %+v", preview)
	}
}

func TestDashboardRoleChecks(t *testing.T) {
	router := newTestRouter(t, newMemoryStore())
	parent := responsible()
	doctor := specialist()

	tests := []struct {
		name string
		path string
		user models.User
		want int
	}{
		{"responsible dashboard as responsible", "/responsible/results", parent, http.StatusOK},
		{"responsible dashboard as specialist", "/responsible/results", doctor, http.StatusForbidden},
		{"specialist dashboard as specialist", "/specialist/dashboard", doctor, http.StatusOK},
		{"specialist dashboard as responsible", "/specialist/dashboard", parent, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doJSON(t, router, &tt.user, http.MethodGet, tt.path, nil)
			if recorder.Code != tt.want {
				t.Errorf("status = %d, want %d", recorder.Code, tt.want)
			}
		})
	}
}

func TestHandleDeleteIndividual(t *testing.T) {
	store := newMemoryStore()
	router := newTestRouter(t, store)
	parent := responsible()
	doctor := specialist()

	doJSON(t, router, &parent, http.MethodPost, "/individuals", models.CreateIndividualRequest{
		FullName:   "Child",
		NationalID: "111",
	})

	if recorder := doJSON(t, router, &parent, http.MethodDelete, "/individuals/111", nil); recorder.Code != http.StatusForbidden {
		t.Errorf("responsible delete status = %d, want 403", recorder.Code)
	}
	if recorder := doJSON(t, router, &doctor, http.MethodDelete, "/individuals/111", nil); recorder.Code != http.StatusNoContent {
		t.Errorf("specialist delete status = %d, want 204", recorder.Code)
	}
	if recorder := doJSON(t, router, &doctor, http.MethodDelete, "/individuals/111", nil); recorder.Code != http.StatusNotFound {
		t.Errorf("repeat delete status = %d, want 404", recorder.Code)
	}
}
