package review

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

var reviewTracer = otel.Tracer("visits.internal.review")

// NotificationsAPI lists visits flagged for review at a prison.
type NotificationsAPI interface {
	GetNotificationVisits(ctx context.Context, prisonID string) ([]orchestration.NotificationVisit, error)
}

// Service builds review lists.
type Service struct {
	notifications NotificationsAPI
	logger        *logging.Logger
}

// NewService constructs a review service.
func NewService(notifications NotificationsAPI, logger *logging.Logger) *Service {
	if notifications == nil {
		panic("review: notifications client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{notifications: notifications, logger: logger.With("component", "review")}
}

// List is the review page model.
type List struct {
	Filters []Filter `json:"filters"`
	Rows    []Row    `json:"visits"`
}

// GetReviewList fetches the prison's flagged visits and applies selection.
func (s *Service) GetReviewList(ctx context.Context, username, prisonID string, selection Selection) (*List, error) {
	ctx, span := reviewTracer.Start(ctx, "review.get_review_list", trace.WithAttributes(
		attribute.String("visits.prison_id", prisonID),
	))
	defer span.End()

	visits, err := s.notifications.GetNotificationVisits(ctx, prisonID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get notification visits")
		return nil, fmt.Errorf("review: prison %s: %w", prisonID, err)
	}

	rows := BuildRows(visits, selection)
	s.logger.Debug("review list built", "prison_id", prisonID, "visits", len(visits), "rows", len(rows))
	span.SetAttributes(attribute.Int("visits.flagged", len(visits)), attribute.Int("visits.rows", len(rows)))

	return &List{
		Filters: BuildFilters(visits, username, selection),
		Rows:    rows,
	}, nil
}
