// Package sessions turns visit sessions from the orchestration API into the
// slot lists and calendars staff use to pick a visit time.
package sessions

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/observability/metrics"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/orchestration"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/whereabouts"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/pkg/logging"
)

var sessionsTracer = otel.Tracer("visits.internal.sessions")

// SessionsAPI is the part of the orchestration API the service reads.
type SessionsAPI interface {
	GetVisitSessions(ctx context.Context, prisonID, prisonerID, username string, minDays int) ([]orchestration.VisitSession, error)
	GetSessionSchedule(ctx context.Context, prisonID, date string) ([]orchestration.SessionSchedule, error)
	GetVisitSessionsAndSchedule(ctx context.Context, params orchestration.SessionsAndScheduleParams) (*orchestration.VisitSessionsAndSchedule, error)
	GetVisitSessionCapacity(ctx context.Context, prisonID, date, startTime, endTime string) (*orchestration.SessionCapacity, error)
}

// EventsAPI supplies prisoner scheduled events.
type EventsAPI interface {
	GetEvents(ctx context.Context, offenderNo string, fromDate, toDate time.Time) ([]whereabouts.ScheduledEvent, error)
}

// Service builds session views for route handlers.
type Service struct {
	sessions SessionsAPI
	events   EventsAPI
	logger   *logging.Logger
	metrics  *metrics.UpstreamMetrics
}

// NewService constructs a sessions service. events may be nil, in which case
// slot lists are returned without prisoner events.
func NewService(sessions SessionsAPI, events EventsAPI, logger *logging.Logger, m *metrics.UpstreamMetrics) *Service {
	if sessions == nil {
		panic("sessions: orchestration client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{sessions: sessions, events: events, logger: logger.With("component", "sessions"), metrics: m}
}

// VisitSessionsRequest selects the prisoner and capacity pool.
type VisitSessionsRequest struct {
	Username        string
	PrisonID        string
	PrisonerID      string
	Restriction     orchestration.VisitRestriction
	MinNumberOfDays int
}

// VisitSessionsResult is the slot picker model.
type VisitSessionsResult struct {
	SlotsList            VisitSlotList `json:"slotsList"`
	WhereaboutsAvailable bool          `json:"whereaboutsAvailable"`
}

// GetVisitSessions groups the prisoner's bookable sessions and annotates each
// half day with the prisoner's events. A failed event lookup only clears
// WhereaboutsAvailable.
func (s *Service) GetVisitSessions(ctx context.Context, req VisitSessionsRequest) (*VisitSessionsResult, error) {
	ctx, span := sessionsTracer.Start(ctx, "sessions.get_visit_sessions", trace.WithAttributes(
		attribute.String("visits.prison_id", req.PrisonID),
		attribute.String("visits.restriction", string(req.Restriction)),
	))
	defer span.End()

	raw, err := s.sessions.GetVisitSessions(ctx, req.PrisonID, req.PrisonerID, req.Username, req.MinNumberOfDays)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get visit sessions")
		return nil, err
	}

	list, window, err := BuildVisitSlotList(raw, req.PrisonID, req.Restriction)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	result := &VisitSessionsResult{SlotsList: list, WhereaboutsAvailable: true}
	if window.IsZero() {
		return result, nil
	}
	if s.events == nil {
		result.WhereaboutsAvailable = false
		return result, nil
	}

	events, err := s.events.GetEvents(ctx, req.PrisonerID, window.Earliest, window.Latest)
	if err != nil {
		s.logger.Warn("prisoner events unavailable", "prisoner_id", req.PrisonerID, "error", err)
		s.metrics.ObserveEventsUnavailable("whereabouts")
		result.WhereaboutsAvailable = false
		return result, nil
	}
	result.SlotsList = AttachScheduledEvents(list, events)
	span.SetAttributes(attribute.Int("visits.slot_months", len(list)), attribute.Int("visits.events", len(events)))
	return result, nil
}

// CalendarRequest selects the prisoner, capacity pool and any previously
// chosen session.
type CalendarRequest struct {
	Username        string
	PrisonID        string
	PrisonerID      string
	Restriction     orchestration.VisitRestriction
	MinNumberOfDays int
	Selected        *SelectedSession
}

// CalendarResult is the calendar page model.
type CalendarResult struct {
	ScheduledEventsAvailable bool              `json:"scheduledEventsAvailable"`
	Calendar                 []CalendarMonth   `json:"calendar"`
	CalendarFullDays         []CalendarFullDay `json:"calendarFullDays"`
}

// GetVisitSessionsAndSchedule builds the month grid and day panels from the
// per-day sessions and schedule.
func (s *Service) GetVisitSessionsAndSchedule(ctx context.Context, req CalendarRequest) (*CalendarResult, error) {
	ctx, span := sessionsTracer.Start(ctx, "sessions.get_calendar", trace.WithAttributes(
		attribute.String("visits.prison_id", req.PrisonID),
		attribute.String("visits.restriction", string(req.Restriction)),
	))
	defer span.End()

	raw, err := s.sessions.GetVisitSessionsAndSchedule(ctx, orchestration.SessionsAndScheduleParams{
		PrisonID:        req.PrisonID,
		PrisonerID:      req.PrisonerID,
		MinNumberOfDays: req.MinNumberOfDays,
		Username:        req.Username,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get visit sessions and schedule")
		return nil, err
	}
	if !raw.ScheduledEventsAvailable {
		s.metrics.ObserveEventsUnavailable("orchestration")
	}

	months, err := BuildCalendarMonths(raw.SessionsAndSchedule, req.Selected)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	fullDays, err := BuildCalendarFullDays(raw.SessionsAndSchedule, req.Restriction)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return &CalendarResult{
		ScheduledEventsAvailable: raw.ScheduledEventsAvailable,
		Calendar:                 months,
		CalendarFullDays:         fullDays,
	}, nil
}

// GetSessionSchedule returns the sessions running at a prison on date.
func (s *Service) GetSessionSchedule(ctx context.Context, prisonID, date string) ([]orchestration.SessionSchedule, error) {
	ctx, span := sessionsTracer.Start(ctx, "sessions.get_schedule", trace.WithAttributes(
		attribute.String("visits.prison_id", prisonID),
		attribute.String("visits.date", date),
	))
	defer span.End()

	schedule, err := s.sessions.GetSessionSchedule(ctx, prisonID, date)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return schedule, nil
}

// GetVisitSessionCapacity returns nil when the capacity is unknown.
func (s *Service) GetVisitSessionCapacity(ctx context.Context, prisonID, date, startTime, endTime string) (*orchestration.SessionCapacity, error) {
	ctx, span := sessionsTracer.Start(ctx, "sessions.get_capacity")
	defer span.End()

	capacity, err := s.sessions.GetVisitSessionCapacity(ctx, prisonID, date, startTime, endTime)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if capacity == nil {
		s.logger.Debug("session capacity unknown", "prison_id", prisonID, "date", date, "start", startTime)
	}
	return capacity, nil
}
