package timeline

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/orchestration"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/pkg/logging"
)

var timelineTracer = otel.Tracer("visits.internal.timeline")

// HistoryAPI reads a visit with its event audit.
type HistoryAPI interface {
	GetVisitHistory(ctx context.Context, reference string) (*orchestration.VisitHistory, error)
}

// Service builds visit histories.
type Service struct {
	history HistoryAPI
	logger  *logging.Logger
}

// NewService constructs a timeline service.
func NewService(history HistoryAPI, logger *logging.Logger) *Service {
	if history == nil {
		panic("timeline: history client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{history: history, logger: logger.With("component", "timeline")}
}

// VisitTimeline is the visit details page model.
type VisitTimeline struct {
	Visit    orchestration.Visit `json:"visit"`
	Timeline []Item              `json:"timeline"`
}

// GetVisitTimeline loads the visit history for reference.
func (s *Service) GetVisitTimeline(ctx context.Context, reference string) (*VisitTimeline, error) {
	ctx, span := timelineTracer.Start(ctx, "timeline.get_visit_timeline", trace.WithAttributes(
		attribute.String("visits.reference", reference),
	))
	defer span.End()

	history, err := s.history.GetVisitHistory(ctx, reference)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get visit history")
		return nil, fmt.Errorf("timeline: visit %s: %w", reference, err)
	}

	items := BuildVisitEventTimeline(history.EventsAudit, history.Visit.VisitNotes)
	dropped := len(history.EventsAudit) - len(items)
	if dropped > 0 {
		s.logger.Debug("skipped unlisted audit events", "reference", reference, "count", dropped)
	}
	span.SetAttributes(attribute.Int("visits.timeline_items", len(items)))

	return &VisitTimeline{Visit: history.Visit, Timeline: items}, nil
}
