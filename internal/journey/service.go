package journey

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/observability/metrics"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/orchestration"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/pkg/logging"
)

const staffUserType = "STAFF"

// Booker reserves and books visits upstream.
type Booker interface {
	ReserveVisitSlot(ctx context.Context, visitReference string, req orchestration.ReserveVisitSlotRequest) (*orchestration.Application, error)
	BookVisit(ctx context.Context, applicationReference string, req orchestration.BookApplicationRequest) (*orchestration.Visit, error)
}

// Service drives journeys through their steps.
type Service struct {
	store   Store
	booker  Booker
	logger  *logging.Logger
	metrics *metrics.UpstreamMetrics
	now     func() time.Time
}

// NewService constructs a journey service. booker may be nil, in which case
// completing a journey only records it as completed.
func NewService(store Store, booker Booker, logger *logging.Logger, m *metrics.UpstreamMetrics) *Service {
	if store == nil {
		panic("journey: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:   store,
		booker:  booker,
		logger:  logger.With("component", "journey"),
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// StartRequest opens a journey for a prisoner. VisitReference is set when
// changing an existing visit.
type StartRequest struct {
	PrisonID       string `json:"prisonId"`
	PrisonerID     string `json:"prisonerId"`
	VisitReference string `json:"visitReference,omitempty"`
}

// Start creates and stores a new journey owned by username.
func (s *Service) Start(ctx context.Context, username string, req StartRequest) (*Journey, error) {
	if strings.TrimSpace(req.PrisonID) == "" || strings.TrimSpace(req.PrisonerID) == "" {
		return nil, fmt.Errorf("%w: prison and prisoner required", ErrInvalidStep)
	}
	now := s.now()
	j := &Journey{
		ID:             uuid.NewString(),
		Username:       username,
		PrisonID:       req.PrisonID,
		PrisonerID:     req.PrisonerID,
		VisitReference: req.VisitReference,
		Status:         StatusInProgress,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Save(ctx, j); err != nil {
		return nil, err
	}
	s.logger.Info("journey started", "journey_id", j.ID, "prison_id", j.PrisonID, "update", j.IsUpdate())
	return j, nil
}

// Get loads a journey owned by username. Journeys owned by other users are
// reported as not found.
func (s *Service) Get(ctx context.Context, username, id string) (*Journey, error) {
	j, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if j.Username != username {
		return nil, ErrNotFound
	}
	return j, nil
}

// SubmitStep records the answer to one step.
func (s *Service) SubmitStep(ctx context.Context, username, id string, step Step, payload []byte) (*Journey, error) {
	j, err := s.Get(ctx, username, id)
	if err != nil {
		return nil, err
	}
	if err := j.Apply(step, payload); err != nil {
		s.metrics.ObserveJourneyStep(string(step), outcome(err))
		return nil, err
	}
	// Changed answers need a fresh reservation.
	j.ApplicationReference = ""
	j.UpdatedAt = s.now()
	if err := s.store.Save(ctx, j); err != nil {
		return nil, err
	}
	s.metrics.ObserveJourneyStep(string(step), "ok")
	return j, nil
}

// Complete books the visit once every step is answered.
func (s *Service) Complete(ctx context.Context, username, id string) (*Journey, error) {
	j, err := s.Get(ctx, username, id)
	if err != nil {
		return nil, err
	}
	if j.Status == StatusCompleted {
		return nil, ErrCompleted
	}
	if next := j.NextStep(); next != "" {
		s.metrics.ObserveJourneyStep("complete", outcome(ErrStepOutOfOrder))
		return nil, fmt.Errorf("%w: %s not answered", ErrStepOutOfOrder, next)
	}

	if s.booker != nil {
		ref, err := s.book(ctx, j)
		if err != nil {
			s.metrics.ObserveJourneyStep("complete", "error")
			return nil, err
		}
		j.BookingReference = ref
	}

	j.Status = StatusCompleted
	j.UpdatedAt = s.now()
	if err := s.store.Save(ctx, j); err != nil {
		return nil, err
	}
	s.metrics.ObserveJourneyStep("complete", "ok")
	s.logger.Info("journey completed", "journey_id", j.ID, "booking_reference", j.BookingReference)
	return j, nil
}

// Abandon discards a journey owned by username. Completed journeys are kept
// so a repeated completion still reports ErrCompleted until they expire.
func (s *Service) Abandon(ctx context.Context, username, id string) error {
	j, err := s.Get(ctx, username, id)
	if err != nil {
		return err
	}
	if j.Status == StatusCompleted {
		return ErrCompleted
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("journey abandoned", "journey_id", id, "application_reference", j.ApplicationReference)
	return nil
}

func (s *Service) book(ctx context.Context, j *Journey) (string, error) {
	if j.ApplicationReference == "" {
		app, err := s.booker.ReserveVisitSlot(ctx, j.VisitReference, ReserveRequest(j))
		if err != nil {
			return "", fmt.Errorf("journey %s: %w", j.ID, err)
		}
		j.ApplicationReference = app.Reference
		j.UpdatedAt = s.now()
		if err := s.store.Save(ctx, j); err != nil {
			return "", fmt.Errorf("journey %s: save application: %w", j.ID, err)
		}
	}
	visit, err := s.booker.BookVisit(ctx, j.ApplicationReference, orchestration.BookApplicationRequest{
		ApplicationMethodType: j.RequestMethod.Method,
		ActionedBy:            j.Username,
		UserType:              staffUserType,
	})
	if err != nil {
		s.logger.Warn("booking failed; application kept for retry", "journey_id", j.ID, "application_reference", j.ApplicationReference, "error", err)
		return "", fmt.Errorf("journey %s: %w", j.ID, err)
	}
	return visit.Reference, nil
}

// ReserveRequest builds the slot reservation for a fully answered journey.
func ReserveRequest(j *Journey) orchestration.ReserveVisitSlotRequest {
	req := orchestration.ReserveVisitSlotRequest{
		PrisonerID:               j.PrisonerID,
		SessionTemplateReference: j.ChooseTime.SessionTemplateReference,
		SessionDate:              j.ChooseTime.SessionDate,
		ApplicationRestriction:   j.SelectVisitors.Restriction,
		ActionedBy:               j.Username,
		UserType:                 staffUserType,
	}
	for _, id := range j.SelectVisitors.VisitorIDs {
		contact := j.MainContact.ContactID != nil && *j.MainContact.ContactID == id
		req.Visitors = append(req.Visitors, orchestration.VisitorRef{NomisPersonID: id, VisitContact: contact})
	}
	req.VisitContact = &orchestration.ContactDetails{Name: j.MainContact.Name, TelephoneNumber: j.MainContact.Phone}
	if j.AdditionalSupport.Required {
		req.VisitorSupport = &orchestration.ApplicationSupport{Description: j.AdditionalSupport.Details}
	}
	return req
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrStepOutOfOrder):
		return "out_of_order"
	case errors.Is(err, ErrInvalidStep):
		return "invalid"
	case errors.Is(err, ErrCompleted):
		return "completed"
	default:
		return "error"
	}
}
