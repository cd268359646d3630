package sessions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/orchestration"
)

func sessionV2(ref, start, end string) orchestration.VisitSessionV2 {
	return orchestration.VisitSessionV2{
		SessionTemplateReference: ref,
		SessionTimeSlot:          orchestration.SessionTimeSlot{StartTime: start, EndTime: end},
		VisitRoom:                "Visits hall",
		OpenVisitCapacity:        20,
		OpenVisitBookedCount:     5,
		ClosedVisitCapacity:      2,
		ClosedVisitBookedCount:   2,
	}
}

func TestBuildCalendarFullDays(t *testing.T) {
	days := []orchestration.DaySessions{
		{
			Date:          "2024-05-01",
			VisitSessions: []orchestration.VisitSessionV2{},
			ScheduledEvents: []orchestration.PrisonerScheduledEvent{
				{EventType: "APP", EventSubTypeDesc: "Dentist", StartTime: "09:00", EndTime: "09:30"},
			},
		},
		{
			Date: "2024-05-02",
			VisitSessions: []orchestration.VisitSessionV2{
				sessionV2("a", "09:00", "10:00"),
				sessionV2("b", "13:30", "15:00"),
				sessionV2("c", "12:00", "13:00"),
			},
			ScheduledEvents: []orchestration.PrisonerScheduledEvent{
				{EventType: "APP", EventSubTypeDesc: "Dentist", StartTime: "11:59", EndTime: "12:30"},
				{EventType: "VISIT", EventSourceDesc: "Social visit", StartTime: "14:00", EndTime: "15:00"},
				{EventType: "EDU", EventSourceDesc: "Maths", StartTime: "16:00"},
			},
		},
	}

	fullDays, err := BuildCalendarFullDays(days, orchestration.RestrictionOpen)
	require.NoError(t, err)

	require.Len(t, fullDays, 1, "days without sessions are dropped")
	day := fullDays[0]
	assert.Equal(t, "2024-05-02", day.Date)
	require.Len(t, day.DaySection, 2)

	morning := day.DaySection[0]
	assert.Equal(t, "morning", morning.Label)
	require.Len(t, morning.VisitSessions, 1)
	assert.Equal(t, CalendarVisitSession{
		Date:                     "2024-05-02",
		SessionTemplateReference: "a",
		DaySection:               "morning",
		Time:                     "9am to 10am",
		VisitRoom:                "Visits hall",
		AvailableTables:          15,
		Capacity:                 20,
	}, morning.VisitSessions[0])
	assert.Equal(t, []CalendarScheduledEvent{{Time: "11:59am to 12:30pm", Description: "Appointment - Dentist"}}, morning.ScheduledEvents)

	afternoon := day.DaySection[1]
	assert.Equal(t, "afternoon", afternoon.Label)
	require.Len(t, afternoon.VisitSessions, 2)
	assert.Equal(t, "1:30pm to 3pm", afternoon.VisitSessions[0].Time)
	assert.Equal(t, "12pm to 1pm", afternoon.VisitSessions[1].Time)
	assert.Equal(t, []CalendarScheduledEvent{
		{Time: "2pm to 3pm", Description: "Visit - Social visit"},
		{Time: "4pm", Description: "Activity - Maths"},
	}, afternoon.ScheduledEvents)
}

func TestBuildCalendarFullDays_AfternoonOnly(t *testing.T) {
	days := []orchestration.DaySessions{{
		Date:          "2024-05-02",
		VisitSessions: []orchestration.VisitSessionV2{sessionV2("b", "14:00", "15:00")},
		ScheduledEvents: []orchestration.PrisonerScheduledEvent{
			{EventType: "APP", EventSubTypeDesc: "Gym", StartTime: "09:00", EndTime: "10:00"},
		},
	}}

	fullDays, err := BuildCalendarFullDays(days, orchestration.RestrictionClosed)
	require.NoError(t, err)

	require.Len(t, fullDays, 1)
	require.Len(t, fullDays[0].DaySection, 1)
	section := fullDays[0].DaySection[0]
	assert.Equal(t, "afternoon", section.Label)
	assert.Equal(t, 0, section.VisitSessions[0].AvailableTables)
	assert.Equal(t, 2, section.VisitSessions[0].Capacity)
	assert.Empty(t, section.ScheduledEvents, "morning events are not shown without a morning section")
}

func TestBuildCalendarFullDays_InvalidSessionTime(t *testing.T) {
	days := []orchestration.DaySessions{{
		Date:          "2024-05-02",
		VisitSessions: []orchestration.VisitSessionV2{sessionV2("b", "late", "15:00")},
	}}

	_, err := BuildCalendarFullDays(days, orchestration.RestrictionOpen)
	assert.Error(t, err)
}
