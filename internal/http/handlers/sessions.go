package handlers

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"

	httpmiddleware "github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/http/middleware"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/orchestration"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/sessions"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/pkg/logging"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

// SessionsService is implemented by *sessions.Service.
type SessionsService interface {
	GetVisitSessions(ctx context.Context, req sessions.VisitSessionsRequest) (*sessions.VisitSessionsResult, error)
	GetVisitSessionsAndSchedule(ctx context.Context, req sessions.CalendarRequest) (*sessions.CalendarResult, error)
	GetSessionSchedule(ctx context.Context, prisonID, date string) ([]orchestration.SessionSchedule, error)
	GetVisitSessionCapacity(ctx context.Context, prisonID, date, startTime, endTime string) (*orchestration.SessionCapacity, error)
}

// SessionsHandler serves slot lists, calendars and session lookups.
type SessionsHandler struct {
	svc            SessionsService
	minBookingDays int
	logger         *logging.Logger
}

// NewSessionsHandler creates a sessions handler. minBookingDays applies when
// a request does not set minNumberOfDays.
func NewSessionsHandler(svc SessionsService, minBookingDays int, logger *logging.Logger) *SessionsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &SessionsHandler{svc: svc, minBookingDays: minBookingDays, logger: logger}
}

// VisitSessions handles GET /prisons/{prisonId}/prisoners/{prisonerId}/visit-sessions.
func (h *SessionsHandler) VisitSessions(w http.ResponseWriter, r *http.Request) {
	restriction, err := orchestration.ParseVisitRestriction(r.URL.Query().Get("restriction"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	minDays, err := queryInt(r, "minNumberOfDays", h.minBookingDays)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.GetVisitSessions(r.Context(), sessions.VisitSessionsRequest{
		Username:        httpmiddleware.UsernameFromContext(r.Context()),
		PrisonID:        chi.URLParam(r, "prisonId"),
		PrisonerID:      chi.URLParam(r, "prisonerId"),
		Restriction:     restriction,
		MinNumberOfDays: minDays,
	})
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Calendar handles GET /prisons/{prisonId}/prisoners/{prisonerId}/calendar.
func (h *SessionsHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	restriction, err := orchestration.ParseVisitRestriction(q.Get("restriction"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	minDays, err := queryInt(r, "minNumberOfDays", h.minBookingDays)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var selected *sessions.SelectedSession
	if date := q.Get("selectedDate"); date != "" {
		if !validDate(date) {
			jsonError(w, "invalid selectedDate", http.StatusBadRequest)
			return
		}
		selected = &sessions.SelectedSession{Date: date, SessionTemplateReference: q.Get("sessionTemplateReference")}
	}

	result, err := h.svc.GetVisitSessionsAndSchedule(r.Context(), sessions.CalendarRequest{
		Username:        httpmiddleware.UsernameFromContext(r.Context()),
		PrisonID:        chi.URLParam(r, "prisonId"),
		PrisonerID:      chi.URLParam(r, "prisonerId"),
		Restriction:     restriction,
		MinNumberOfDays: minDays,
		Selected:        selected,
	})
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SessionSchedule handles GET /prisons/{prisonId}/session-schedule.
func (h *SessionsHandler) SessionSchedule(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if !validDate(date) {
		jsonError(w, "invalid date", http.StatusBadRequest)
		return
	}

	schedule, err := h.svc.GetSessionSchedule(r.Context(), chi.URLParam(r, "prisonId"), date)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	if schedule == nil {
		schedule = []orchestration.SessionSchedule{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "sessions": schedule})
}

// SessionCapacity handles GET /prisons/{prisonId}/session-capacity. Unknown
// capacity is returned as null.
func (h *SessionsHandler) SessionCapacity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date, start, end := q.Get("date"), q.Get("startTime"), q.Get("endTime")
	if !validDate(date) {
		jsonError(w, "invalid date", http.StatusBadRequest)
		return
	}
	if !clockPattern.MatchString(start) || !clockPattern.MatchString(end) {
		jsonError(w, "invalid startTime or endTime", http.StatusBadRequest)
		return
	}

	capacity, err := h.svc.GetVisitSessionCapacity(r.Context(), chi.URLParam(r, "prisonId"), date, start, end)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"capacity": capacity})
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
