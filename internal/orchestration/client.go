package orchestration

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/apiclient"
)

// Client wraps the visit-scheduler orchestration API.
type Client struct {
	api *apiclient.Client
}

// NewClient constructs an orchestration client on top of a shared REST client.
func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// GetVisitSessions lists bookable sessions for a prisoner.
func (c *Client) GetVisitSessions(ctx context.Context, prisonID, prisonerID, username string, minDays int) ([]VisitSession, error) {
	q := url.Values{}
	q.Set("prisonId", prisonID)
	q.Set("prisonerId", prisonerID)
	q.Set("min", strconv.Itoa(minDays))
	if username != "" {
		q.Set("username", username)
	}

	var sessions []VisitSession
	if err := c.api.GetJSON(ctx, "/visit-sessions", q, &sessions); err != nil {
		return nil, fmt.Errorf("get visit sessions: %w", err)
	}
	return sessions, nil
}

// GetSessionSchedule lists the session templates running at a prison on date
// (yyyy-MM-dd).
func (c *Client) GetSessionSchedule(ctx context.Context, prisonID, date string) ([]SessionSchedule, error) {
	q := url.Values{}
	q.Set("prisonId", prisonID)
	q.Set("date", date)

	var schedule []SessionSchedule
	if err := c.api.GetJSON(ctx, "/visit-sessions/schedule", q, &schedule); err != nil {
		return nil, fmt.Errorf("get session schedule: %w", err)
	}
	return schedule, nil
}

// GetVisitSessionsAndSchedule returns one entry per day in the booking window,
// each with its sessions and the prisoner's scheduled events.
func (c *Client) GetVisitSessionsAndSchedule(ctx context.Context, params SessionsAndScheduleParams) (*VisitSessionsAndSchedule, error) {
	q := url.Values{}
	q.Set("prisonId", params.PrisonID)
	q.Set("prisonerId", params.PrisonerID)
	q.Set("minNumberOfDays", strconv.Itoa(params.MinNumberOfDays))
	if params.Username != "" {
		q.Set("username", params.Username)
	}

	var out VisitSessionsAndSchedule
	if err := c.api.GetJSON(ctx, "/visit-sessions/sessions-and-schedule", q, &out); err != nil {
		return nil, fmt.Errorf("get visit sessions and schedule: %w", err)
	}
	return &out, nil
}

// GetVisitSessionCapacity returns nil without error when the upstream answers
// 404 or 500: capacity is then unknown and callers hide it.
func (c *Client) GetVisitSessionCapacity(ctx context.Context, prisonID, date, startTime, endTime string) (*SessionCapacity, error) {
	q := url.Values{}
	q.Set("prisonId", prisonID)
	q.Set("sessionDate", date)
	q.Set("sessionStartTime", startTime)
	q.Set("sessionEndTime", endTime)

	var capacity SessionCapacity
	if err := c.api.GetJSON(ctx, "/visit-sessions/capacity", q, &capacity); err != nil {
		if apiclient.IsStatus(err, http.StatusNotFound, http.StatusInternalServerError) {
			return nil, nil
		}
		return nil, fmt.Errorf("get visit session capacity: %w", err)
	}
	return &capacity, nil
}

// GetVisitHistory returns a visit and its event audit trail.
func (c *Client) GetVisitHistory(ctx context.Context, reference string) (*VisitHistory, error) {
	path := fmt.Sprintf("/visits/%s/history", url.PathEscape(reference))

	var history VisitHistory
	if err := c.api.GetJSON(ctx, path, nil, &history); err != nil {
		return nil, fmt.Errorf("get visit history: %w", err)
	}
	return &history, nil
}

// GetNotificationVisits lists future visits at a prison flagged for review.
func (c *Client) GetNotificationVisits(ctx context.Context, prisonID string) ([]NotificationVisit, error) {
	path := fmt.Sprintf("/visits/notification/%s/visits", url.PathEscape(prisonID))

	var visits []NotificationVisit
	if err := c.api.GetJSON(ctx, path, nil, &visits); err != nil {
		return nil, fmt.Errorf("get notification visits: %w", err)
	}
	return visits, nil
}

// ReserveVisitSlot creates an application for a new visit, or a change
// application when visitReference is set.
func (c *Client) ReserveVisitSlot(ctx context.Context, visitReference string, req ReserveVisitSlotRequest) (*Application, error) {
	path := "/visits/application/slot/reserve"
	if visitReference != "" {
		path = fmt.Sprintf("/visits/application/%s/change", url.PathEscape(visitReference))
	}

	var app Application
	if err := c.api.PostJSON(ctx, path, req, &app); err != nil {
		return nil, fmt.Errorf("reserve visit slot: %w", err)
	}
	return &app, nil
}

// BookVisit books a reserved application.
func (c *Client) BookVisit(ctx context.Context, applicationReference string, req BookApplicationRequest) (*Visit, error) {
	path := fmt.Sprintf("/visits/%s/book", url.PathEscape(applicationReference))

	var visit Visit
	if err := c.api.PutJSON(ctx, path, req, &visit); err != nil {
		return nil, fmt.Errorf("book visit: %w", err)
	}
	return &visit, nil
}
