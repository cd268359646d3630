package sessions

import (
	"fmt"
	"strings"
	"time"

	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/orchestration"
)

const (
	sectionMorning   = "morning"
	sectionAfternoon = "afternoon"
)

// CalendarVisitSession is a session as listed under a selected calendar day.
type CalendarVisitSession struct {
	Date                     string   `json:"date"`
	SessionTemplateReference string   `json:"sessionTemplateReference"`
	DaySection               string   `json:"daySection"`
	Time                     string   `json:"time"`
	VisitRoom                string   `json:"visitRoom"`
	AvailableTables          int      `json:"availableTables"`
	Capacity                 int      `json:"capacity"`
	SessionConflicts         []string `json:"sessionConflicts,omitempty"`
}

// CalendarScheduledEvent is a prisoner event listed beside the sessions.
type CalendarScheduledEvent struct {
	Time        string `json:"time"`
	Description string `json:"description"`
}

// CalendarDaySection is the morning or afternoon part of a day.
type CalendarDaySection struct {
	Label           string                   `json:"label"`
	VisitSessions   []CalendarVisitSession   `json:"visitSessions"`
	ScheduledEvents []CalendarScheduledEvent `json:"scheduledEvents"`
}

// CalendarFullDay is the detail panel for a day that has sessions.
type CalendarFullDay struct {
	Date       string               `json:"date"`
	DaySection []CalendarDaySection `json:"daySection"`
}

// BuildCalendarFullDays builds the detail panels. Days without sessions are
// left out even when the prisoner has events on them, and a half day is only
// present when at least one session starts in it.
func BuildCalendarFullDays(days []orchestration.DaySessions, restriction orchestration.VisitRestriction) ([]CalendarFullDay, error) {
	fullDays := []CalendarFullDay{}

	for _, day := range days {
		if len(day.VisitSessions) == 0 {
			continue
		}
		date, err := parseDate(day.Date)
		if err != nil {
			return nil, fmt.Errorf("calendar day: %w", err)
		}

		morning := CalendarDaySection{Label: sectionMorning, VisitSessions: []CalendarVisitSession{}, ScheduledEvents: []CalendarScheduledEvent{}}
		afternoon := CalendarDaySection{Label: sectionAfternoon, VisitSessions: []CalendarVisitSession{}, ScheduledEvents: []CalendarScheduledEvent{}}

		for _, session := range day.VisitSessions {
			start, err := parseClock(date, session.SessionTimeSlot.StartTime)
			if err != nil {
				return nil, fmt.Errorf("session %s: %w", session.SessionTemplateReference, err)
			}
			section := &afternoon
			if isMorning(start) {
				section = &morning
			}
			visitSession, err := buildVisitSession(day.Date, date, section.Label, session, restriction)
			if err != nil {
				return nil, err
			}
			section.VisitSessions = append(section.VisitSessions, visitSession)
		}

		for _, event := range day.ScheduledEvents {
			start, err := parseClock(date, event.StartTime)
			if err != nil {
				continue
			}
			scheduled, err := buildCalendarScheduledEvent(date, event)
			if err != nil {
				continue
			}
			if isMorning(start) {
				morning.ScheduledEvents = append(morning.ScheduledEvents, scheduled)
			} else {
				afternoon.ScheduledEvents = append(afternoon.ScheduledEvents, scheduled)
			}
		}

		fullDay := CalendarFullDay{Date: day.Date, DaySection: []CalendarDaySection{}}
		if len(morning.VisitSessions) > 0 {
			fullDay.DaySection = append(fullDay.DaySection, morning)
		}
		if len(afternoon.VisitSessions) > 0 {
			fullDay.DaySection = append(fullDay.DaySection, afternoon)
		}
		fullDays = append(fullDays, fullDay)
	}
	return fullDays, nil
}

func buildVisitSession(dateLabel string, date time.Time, daySection string, session orchestration.VisitSessionV2, restriction orchestration.VisitRestriction) (CalendarVisitSession, error) {
	start, err := parseClock(date, session.SessionTimeSlot.StartTime)
	if err != nil {
		return CalendarVisitSession{}, fmt.Errorf("session %s: %w", session.SessionTemplateReference, err)
	}
	end, err := parseClock(date, session.SessionTimeSlot.EndTime)
	if err != nil {
		return CalendarVisitSession{}, fmt.Errorf("session %s: %w", session.SessionTemplateReference, err)
	}
	availability := computeAvailabilityV2(session, restriction)
	return CalendarVisitSession{
		Date:                     dateLabel,
		SessionTemplateReference: session.SessionTemplateReference,
		DaySection:               daySection,
		Time:                     FormatStartEndTime(start, end),
		VisitRoom:                session.VisitRoom,
		AvailableTables:          availability.AvailableTables,
		Capacity:                 availability.Capacity,
		SessionConflicts:         session.SessionConflicts,
	}, nil
}

func buildCalendarScheduledEvent(date time.Time, event orchestration.PrisonerScheduledEvent) (CalendarScheduledEvent, error) {
	start, err := parseClock(date, event.StartTime)
	if err != nil {
		return CalendarScheduledEvent{}, err
	}
	scheduled := CalendarScheduledEvent{
		Time:        formatClock(start),
		Description: EventDescription(event.EventType, event.EventSubTypeDesc, event.EventSourceDesc),
	}
	if strings.TrimSpace(event.EndTime) == "" {
		return scheduled, nil
	}
	end, err := parseClock(date, event.EndTime)
	if err != nil {
		return CalendarScheduledEvent{}, err
	}
	scheduled.Time = FormatStartEndTime(start, end)
	return scheduled, nil
}
