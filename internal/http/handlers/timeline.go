package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/timeline"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/pkg/logging"
)

// TimelineService is implemented by *timeline.Service.
type TimelineService interface {
	GetVisitTimeline(ctx context.Context, reference string) (*timeline.VisitTimeline, error)
}

// TimelineHandler serves visit histories.
type TimelineHandler struct {
	svc    TimelineService
	logger *logging.Logger
}

func NewTimelineHandler(svc TimelineService, logger *logging.Logger) *TimelineHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &TimelineHandler{svc: svc, logger: logger}
}

// Timeline handles GET /visits/{reference}/timeline.
func (h *TimelineHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetVisitTimeline(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
