package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	httpmiddleware "github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/http/middleware"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/journey"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/pkg/logging"
)

const maxStepBody = 64 << 10

// JourneyService is implemented by *journey.Service.
type JourneyService interface {
	Start(ctx context.Context, username string, req journey.StartRequest) (*journey.Journey, error)
	Get(ctx context.Context, username, id string) (*journey.Journey, error)
	SubmitStep(ctx context.Context, username, id string, step journey.Step, payload []byte) (*journey.Journey, error)
	Complete(ctx context.Context, username, id string) (*journey.Journey, error)
	Abandon(ctx context.Context, username, id string) error
}

// JourneyHandler drives booking journeys.
type JourneyHandler struct {
	svc    JourneyService
	logger *logging.Logger
}

func NewJourneyHandler(svc JourneyService, logger *logging.Logger) *JourneyHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &JourneyHandler{svc: svc, logger: logger}
}

type journeyResponse struct {
	*journey.Journey
	NextStep journey.Step `json:"nextStep,omitempty"`
}

func respondJourney(w http.ResponseWriter, status int, j *journey.Journey) {
	resp := journeyResponse{Journey: j}
	if j.Status != journey.StatusCompleted {
		resp.NextStep = j.NextStep()
	}
	writeJSON(w, status, resp)
}

// Start handles POST /journeys.
func (h *JourneyHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req journey.StartRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxStepBody)).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	j, err := h.svc.Start(r.Context(), httpmiddleware.UsernameFromContext(r.Context()), req)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	respondJourney(w, http.StatusCreated, j)
}

// Get handles GET /journeys/{journeyId}.
func (h *JourneyHandler) Get(w http.ResponseWriter, r *http.Request) {
	j, err := h.svc.Get(r.Context(), httpmiddleware.UsernameFromContext(r.Context()), chi.URLParam(r, "journeyId"))
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	respondJourney(w, http.StatusOK, j)
}

// SubmitStep handles PUT /journeys/{journeyId}/steps/{step}.
func (h *JourneyHandler) SubmitStep(w http.ResponseWriter, r *http.Request) {
	step, err := journey.ParseStep(chi.URLParam(r, "step"))
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxStepBody))
	if err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	j, err := h.svc.SubmitStep(r.Context(), httpmiddleware.UsernameFromContext(r.Context()), chi.URLParam(r, "journeyId"), step, payload)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	respondJourney(w, http.StatusOK, j)
}

// Complete handles POST /journeys/{journeyId}/complete.
func (h *JourneyHandler) Complete(w http.ResponseWriter, r *http.Request) {
	j, err := h.svc.Complete(r.Context(), httpmiddleware.UsernameFromContext(r.Context()), chi.URLParam(r, "journeyId"))
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	respondJourney(w, http.StatusOK, j)
}

// Abandon handles DELETE /journeys/{journeyId}.
func (h *JourneyHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Abandon(r.Context(), httpmiddleware.UsernameFromContext(r.Context()), chi.URLParam(r, "journeyId")); err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
