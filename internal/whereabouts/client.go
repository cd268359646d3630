// Package whereabouts reads prisoner schedules (activities, appointments,
// visits) from the whereabouts API.
package whereabouts

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/apiclient"
)

const dateLayout = "2006-01-02"

// Client wraps the whereabouts API.
type Client struct {
	api *apiclient.Client
}

// NewClient constructs a whereabouts client on top of a shared REST client.
func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// GetEvents returns the prisoner's events between fromDate and toDate
// inclusive. Only the calendar date of each bound is sent.
func (c *Client) GetEvents(ctx context.Context, offenderNo string, fromDate, toDate time.Time) ([]ScheduledEvent, error) {
	q := url.Values{}
	q.Set("fromDate", fromDate.Format(dateLayout))
	q.Set("toDate", toDate.Format(dateLayout))
	path := fmt.Sprintf("/events/%s", url.PathEscape(offenderNo))

	var events []ScheduledEvent
	if err := c.api.GetJSON(ctx, path, q, &events); err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}
	return events, nil
}
