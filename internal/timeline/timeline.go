// Package timeline renders a visit's event audit as a newest-first history.
package timeline

import (
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/orchestration"
)

// Event audit types shown on the visit history.
const (
	EventBooked                  = "BOOKED_VISIT"
	EventUpdated                 = "UPDATED_VISIT"
	EventCancelled               = "CANCELLED_VISIT"
	EventMigrated                = "MIGRATED_VISIT"
	EventNonAssociation          = "NON_ASSOCIATION_EVENT"
	EventPrisonerReleased        = "PRISONER_RELEASED_EVENT"
	EventPrisonerRestriction     = "PRISONER_RESTRICTION_CHANGE_EVENT"
	EventPrisonerAlertsUpdated   = "PRISONER_ALERTS_UPDATED_EVENT"
	EventPrisonVisitsBlocked     = "PRISON_VISITS_BLOCKED_FOR_DATE"
	EventIgnoreNotifications     = "IGNORE_VISIT_NOTIFICATIONS_EVENT"
	EventVisitorRestrictionAdded = "VISITOR_RESTRICTION_UPSERTED_EVENT"
)

var eventLabels = map[string]string{
	EventBooked:                  "Booked",
	EventUpdated:                 "Updated",
	EventCancelled:               "Cancelled",
	EventMigrated:                "Migrated",
	EventNonAssociation:          "Non-association added",
	EventPrisonerReleased:        "Prisoner released",
	EventPrisonerRestriction:     "Prisoner restriction changed",
	EventPrisonerAlertsUpdated:   "Prisoner alerts updated",
	EventPrisonVisitsBlocked:     "Visits blocked for date",
	EventIgnoreNotifications:     "No change required",
	EventVisitorRestrictionAdded: "Visitor restriction changed",
}

// Fixed texts for events raised by the system rather than a staff action.
var eventTexts = map[string]string{
	EventMigrated:                "Migrated from NOMIS",
	EventNonAssociation:          "A non-association has been added for this prisoner",
	EventPrisonerReleased:        "The prisoner has been released",
	EventPrisonerRestriction:     "The prisoner's visit restriction has changed",
	EventPrisonerAlertsUpdated:   "The prisoner's alerts have been updated",
	EventPrisonVisitsBlocked:     "Visits have been blocked for this date",
	EventIgnoreNotifications:     "Visit marked as no change required",
	EventVisitorRestrictionAdded: "A visitor's restriction has changed",
}

var requestMethodDescriptions = map[string]string{
	"PHONE":          "Phone call",
	"WEBSITE":        "GOV.UK",
	"EMAIL":          "Email",
	"IN_PERSON":      "In person",
	"BY_PRISONER":    "By prisoner",
	"NOT_KNOWN":      "Not known",
	"NOT_APPLICABLE": "Not applicable",
}

const (
	userTypePublic       = "PUBLIC"
	methodWebsite        = "WEBSITE"
	actorNotKnown        = "NOT_KNOWN"
	actorNotKnownNOMIS   = "NOT_KNOWN_NOMIS"
	cancellationNoteType = "VISIT_OUTCOMES"
)

// Item is one entry on the visit history.
type Item struct {
	Type     string `json:"type"`
	Label    string `json:"label"`
	Text     string `json:"text,omitempty"`
	DateTime string `json:"dateTime"`
	By       string `json:"by,omitempty"`
}

// Label returns the display label for an event audit type. Unknown types
// label as themselves.
func Label(eventType string) string {
	if label, ok := eventLabels[eventType]; ok {
		return label
	}
	return eventType
}

// RequestMethodDescription describes how a booking request reached the prison.
func RequestMethodDescription(method string) string {
	if desc, ok := requestMethodDescriptions[method]; ok {
		return desc
	}
	return method
}

// BuildVisitEventTimeline keeps the known event types from events (oldest
// first) and returns them newest first.
func BuildVisitEventTimeline(events []orchestration.EventAudit, notes []orchestration.VisitNote) []Item {
	cancelReason := noteText(notes, cancellationNoteType)

	items := make([]Item, 0, len(events))
	for _, event := range events {
		label, ok := eventLabels[event.Type]
		if !ok {
			continue
		}
		items = append(items, Item{
			Type:     event.Type,
			Label:    label,
			Text:     eventText(event, cancelReason),
			DateTime: event.CreateTimestamp,
			By:       byline(event.ActionedByFullName),
		})
	}

	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}

func eventText(event orchestration.EventAudit, cancelReason string) string {
	switch event.Type {
	case EventBooked, EventUpdated:
		return "Method: " + methodText(event)
	case EventCancelled:
		if cancelReason != "" {
			return "Reason: " + cancelReason
		}
		return "Method: " + methodText(event)
	default:
		return eventTexts[event.Type]
	}
}

func methodText(event orchestration.EventAudit) string {
	if isPublicBooking(event) {
		return "GOV.UK"
	}
	return RequestMethodDescription(event.ApplicationMethodType)
}

func isPublicBooking(event orchestration.EventAudit) bool {
	return event.UserType == userTypePublic && event.ApplicationMethodType == methodWebsite
}

func byline(actor string) string {
	switch actor {
	case "", actorNotKnown:
		return ""
	case actorNotKnownNOMIS:
		return "NOMIS"
	default:
		return actor
	}
}

func noteText(notes []orchestration.VisitNote, noteType string) string {
	for _, note := range notes {
		if note.Type == noteType {
			return note.Text
		}
	}
	return ""
}
