package orchestration

import (
	"fmt"
	"strings"
)

// VisitRestriction selects which capacity pool a computation uses.
type VisitRestriction string

const (
	RestrictionOpen   VisitRestriction = "OPEN"
	RestrictionClosed VisitRestriction = "CLOSED"
)

// ParseVisitRestriction accepts OPEN or CLOSED in any case. An empty value
// defaults to OPEN.
func ParseVisitRestriction(s string) (VisitRestriction, error) {
	switch VisitRestriction(strings.ToUpper(strings.TrimSpace(s))) {
	case "", RestrictionOpen:
		return RestrictionOpen, nil
	case RestrictionClosed:
		return RestrictionClosed, nil
	default:
		return "", fmt.Errorf("invalid visit restriction %q", s)
	}
}

// VisitSession is one offered session instance from /visit-sessions.
type VisitSession struct {
	SessionTemplateReference string   `json:"sessionTemplateReference"`
	VisitRoom                string   `json:"visitRoom"`
	VisitType                string   `json:"visitType,omitempty"`
	PrisonCode               string   `json:"prisonCode"`
	OpenVisitCapacity        int      `json:"openVisitCapacity"`
	OpenVisitBookedCount     int      `json:"openVisitBookedCount"`
	ClosedVisitCapacity      int      `json:"closedVisitCapacity"`
	ClosedVisitBookedCount   int      `json:"closedVisitBookedCount"`
	StartTimestamp           string   `json:"startTimestamp"`
	EndTimestamp             string   `json:"endTimestamp"`
	SessionConflicts         []string `json:"sessionConflicts,omitempty"`
}

// SessionTimeSlot is a local start/end clock time pair ("HH:mm").
type SessionTimeSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// SessionCapacity holds the open and closed table counts of a session.
type SessionCapacity struct {
	Open   int `json:"open"`
	Closed int `json:"closed"`
}

// SessionSchedule is one session template running on a given date.
type SessionSchedule struct {
	SessionTemplateReference         string          `json:"sessionTemplateReference"`
	SessionTimeSlot                  SessionTimeSlot `json:"sessionTimeSlot"`
	SessionTemplateFrequency         string          `json:"sessionTemplateFrequency"`
	SessionTemplateEndDate           *string         `json:"sessionTemplateEndDate,omitempty"`
	Capacity                         SessionCapacity `json:"capacity"`
	VisitRoom                        string          `json:"visitRoom"`
	PrisonerLocationGroupNames       []string        `json:"prisonerLocationGroupNames"`
	PrisonerCategoryGroupNames       []string        `json:"prisonerCategoryGroupNames"`
	PrisonerIncentiveLevelGroupNames []string        `json:"prisonerIncentiveLevelGroupNames"`
}

// VisitSessionV2 is the per-day session shape used by the sessions-and-schedule
// endpoint.
type VisitSessionV2 struct {
	SessionTemplateReference string           `json:"sessionTemplateReference"`
	SessionTimeSlot          SessionTimeSlot  `json:"sessionTimeSlot"`
	SessionRestriction       VisitRestriction `json:"sessionRestriction,omitempty"`
	VisitRoom                string           `json:"visitRoom"`
	OpenVisitCapacity        int              `json:"openVisitCapacity"`
	OpenVisitBookedCount     int              `json:"openVisitBookedCount"`
	ClosedVisitCapacity      int              `json:"closedVisitCapacity"`
	ClosedVisitBookedCount   int              `json:"closedVisitBookedCount"`
	SessionConflicts         []string         `json:"sessionConflicts,omitempty"`
}

// PrisonerScheduledEvent is an activity, appointment or visit on the
// prisoner's schedule for a day. Times are "HH:mm".
type PrisonerScheduledEvent struct {
	EventType        string `json:"eventType"`
	EventSubType     string `json:"eventSubType,omitempty"`
	EventSubTypeDesc string `json:"eventSubTypeDesc,omitempty"`
	EventSourceDesc  string `json:"eventSourceDesc,omitempty"`
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
}

// DaySessions is one calendar day of sessions and prisoner schedule.
type DaySessions struct {
	Date            string                   `json:"date"`
	VisitSessions   []VisitSessionV2         `json:"visitSessions"`
	ScheduledEvents []PrisonerScheduledEvent `json:"scheduledEvents"`
}

// VisitSessionsAndSchedule is the sessions-and-schedule response.
type VisitSessionsAndSchedule struct {
	ScheduledEventsAvailable bool          `json:"scheduledEventsAvailable"`
	SessionsAndSchedule      []DaySessions `json:"sessionsAndSchedule"`
}

// SessionsAndScheduleParams selects the prisoner and booking window.
type SessionsAndScheduleParams struct {
	PrisonID        string
	PrisonerID      string
	MinNumberOfDays int
	Username        string
}

// VisitNote is a free-text note attached to a visit.
type VisitNote struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Visit is the subset of a visit record the staff views need.
type Visit struct {
	Reference        string           `json:"reference"`
	PrisonerID       string           `json:"prisonerId"`
	PrisonID         string           `json:"prisonId"`
	VisitRoom        string           `json:"visitRoom"`
	VisitStatus      string           `json:"visitStatus"`
	VisitRestriction VisitRestriction `json:"visitRestriction"`
	StartTimestamp   string           `json:"startTimestamp"`
	EndTimestamp     string           `json:"endTimestamp"`
	VisitNotes       []VisitNote      `json:"visitNotes"`
}

// EventAudit is one entry of a visit's audit history.
type EventAudit struct {
	Type                     string `json:"type"`
	ApplicationMethodType    string `json:"applicationMethodType"`
	ActionedByFullName       string `json:"actionedByFullName,omitempty"`
	UserType                 string `json:"userType"`
	SessionTemplateReference string `json:"sessionTemplateReference,omitempty"`
	CreateTimestamp          string `json:"createTimestamp"`
}

// VisitHistory bundles a visit with its audit trail.
type VisitHistory struct {
	Visit       Visit        `json:"visit"`
	EventsAudit []EventAudit `json:"eventsAudit"`
}

// VisitNotificationEvent is one reason a visit was flagged for review.
type VisitNotificationEvent struct {
	Type                       string `json:"type"`
	NotificationEventReference string `json:"notificationEventReference"`
	CreatedDateTime            string `json:"createdDateTime"`
}

// NotificationVisit is a booked visit carrying one or more review flags.
type NotificationVisit struct {
	VisitReference   string                   `json:"visitReference"`
	PrisonerNumber   string                   `json:"prisonerNumber"`
	BookedByUserName string                   `json:"bookedByUserName"`
	BookedByName     string                   `json:"bookedByName"`
	VisitDate        string                   `json:"visitDate"`
	Notifications    []VisitNotificationEvent `json:"notifications"`
}

// VisitorRef names a visitor on an application.
type VisitorRef struct {
	NomisPersonID int64 `json:"nomisPersonId"`
	VisitContact  bool  `json:"visitContact"`
}

// ApplicationSupport carries free-text support needs.
type ApplicationSupport struct {
	Description string `json:"description"`
}

// ContactDetails is the main contact for a visit.
type ContactDetails struct {
	Name            string `json:"name"`
	TelephoneNumber string `json:"telephone,omitempty"`
}

// ReserveVisitSlotRequest reserves a session for a new or changed visit.
type ReserveVisitSlotRequest struct {
	PrisonerID               string              `json:"prisonerId"`
	SessionTemplateReference string              `json:"sessionTemplateReference"`
	SessionDate              string              `json:"sessionDate"`
	ApplicationRestriction   VisitRestriction    `json:"applicationRestriction"`
	VisitContact             *ContactDetails     `json:"visitContact,omitempty"`
	Visitors                 []VisitorRef        `json:"visitors"`
	VisitorSupport           *ApplicationSupport `json:"visitorSupport,omitempty"`
	ActionedBy               string              `json:"actionedBy"`
	UserType                 string              `json:"userType"`
	AllowOverBooking         bool                `json:"allowOverBooking"`
}

// Application is a reserved slot awaiting booking.
type Application struct {
	Reference string `json:"reference"`
}

// BookApplicationRequest turns a reserved application into a visit.
type BookApplicationRequest struct {
	ApplicationMethodType string `json:"applicationMethodType"`
	AllowOverBooking      bool   `json:"allowOverBooking"`
	ActionedBy            string `json:"actionedBy"`
	UserType              string `json:"userType"`
}
