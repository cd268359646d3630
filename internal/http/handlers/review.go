package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	httpmiddleware "github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/http/middleware"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/review"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/pkg/logging"
)

// ReviewService is implemented by *review.Service.
type ReviewService interface {
	GetReviewList(ctx context.Context, username, prisonID string, selection review.Selection) (*review.List, error)
}

// ReviewHandler serves the list of visits needing review.
type ReviewHandler struct {
	svc    ReviewService
	logger *logging.Logger
}

func NewReviewHandler(svc ReviewService, logger *logging.Logger) *ReviewHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReviewHandler{svc: svc, logger: logger}
}

// ReviewList handles GET /prisons/{prisonId}/review?bookedBy=&type=.
func (h *ReviewHandler) ReviewList(w http.ResponseWriter, r *http.Request) {
	selection := review.Selection{
		BookedBy: queryList(r, review.FilterBookedBy),
		Type:     queryList(r, review.FilterType),
	}
	list, err := h.svc.GetReviewList(r.Context(), httpmiddleware.UsernameFromContext(r.Context()), chi.URLParam(r, "prisonId"), selection)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
