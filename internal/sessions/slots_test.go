package sessions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/orchestration"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/whereabouts"
)

func visitSession(ref, start, end string, open, closed int) orchestration.VisitSession {
	return orchestration.VisitSession{
		SessionTemplateReference: ref,
		VisitRoom:                "Visit room 1",
		PrisonCode:               "HEI",
		OpenVisitCapacity:        open,
		ClosedVisitCapacity:      closed,
		StartTimestamp:           start,
		EndTimestamp:             end,
	}
}

func TestBuildVisitSlotList_SingleSession(t *testing.T) {
	sessions := []orchestration.VisitSession{
		visitSession("v9d.7ed.7u", "2022-02-14T10:00:00", "2022-02-14T11:00:00", 15, 10),
	}

	list, window, err := BuildVisitSlotList(sessions, "HEI", orchestration.RestrictionOpen)
	require.NoError(t, err)

	require.Len(t, list, 1)
	assert.Equal(t, "February 2022", list[0].Month)
	require.Len(t, list[0].Days, 1)
	day := list[0].Days[0]
	assert.Equal(t, "Monday 14 February", day.Date)
	require.Len(t, day.Slots.Morning, 1)
	assert.Empty(t, day.Slots.Afternoon)

	assert.Equal(t, VisitSlot{
		ID:                       "1",
		SessionTemplateReference: "v9d.7ed.7u",
		PrisonID:                 "HEI",
		StartTimestamp:           "2022-02-14T10:00:00",
		EndTimestamp:             "2022-02-14T11:00:00",
		AvailableTables:          15,
		Capacity:                 15,
		VisitRoom:                "Visit room 1",
		VisitRestriction:         orchestration.RestrictionOpen,
	}, day.Slots.Morning[0])

	assert.Equal(t, time.Date(2022, 2, 14, 10, 0, 0, 0, time.UTC), window.Earliest)
	assert.Equal(t, time.Date(2022, 2, 14, 11, 0, 0, 0, time.UTC), window.Latest)
}

func TestBuildVisitSlotList_ZeroCapacityExcluded(t *testing.T) {
	sessions := []orchestration.VisitSession{
		visitSession("a", "2022-02-14T09:00:00", "2022-02-14T10:00:00", 0, 10),
	}

	open, window, err := BuildVisitSlotList(sessions, "HEI", orchestration.RestrictionOpen)
	require.NoError(t, err)
	assert.Empty(t, open, "empty months and days are pruned")
	assert.False(t, window.IsZero(), "excluded sessions still widen the event window")

	closed, _, err := BuildVisitSlotList(sessions, "HEI", orchestration.RestrictionClosed)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	slot := closed[0].Days[0].Slots.Morning[0]
	assert.Equal(t, 10, slot.AvailableTables)
	assert.Equal(t, orchestration.RestrictionClosed, slot.VisitRestriction)
}

func TestBuildVisitSlotList_GroupingAndHalfDays(t *testing.T) {
	sessions := []orchestration.VisitSession{
		visitSession("a", "2022-02-14T11:59:00", "2022-02-14T12:30:00", 5, 0),
		visitSession("b", "2022-02-14T12:00:00", "2022-02-14T13:00:00", 5, 0),
		visitSession("c", "2022-02-14T13:30:00", "2022-02-14T15:00:00", 0, 5),
		visitSession("d", "2022-03-01T09:00:00", "2022-03-01T10:00:00", 5, 0),
		visitSession("e", "2022-02-15T14:00:00", "2022-02-15T15:00:00", 5, 0),
	}

	list, window, err := BuildVisitSlotList(sessions, "HEI", orchestration.RestrictionOpen)
	require.NoError(t, err)

	require.Len(t, list, 2)
	assert.Equal(t, "February 2022", list[0].Month)
	assert.Equal(t, "March 2022", list[1].Month)

	feb := list[0].Days
	require.Len(t, feb, 2)
	assert.Equal(t, "Monday 14 February", feb[0].Date)
	assert.Equal(t, "Tuesday 15 February", feb[1].Date)

	require.Len(t, feb[0].Slots.Morning, 1)
	assert.Equal(t, "a", feb[0].Slots.Morning[0].SessionTemplateReference)
	require.Len(t, feb[0].Slots.Afternoon, 1)
	assert.Equal(t, "b", feb[0].Slots.Afternoon[0].SessionTemplateReference)

	ids := []string{
		feb[0].Slots.Morning[0].ID,
		feb[0].Slots.Afternoon[0].ID,
		list[1].Days[0].Slots.Morning[0].ID,
		feb[1].Slots.Afternoon[0].ID,
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids)

	assert.Equal(t, time.Date(2022, 2, 14, 11, 59, 0, 0, time.UTC), window.Earliest)
	assert.Equal(t, time.Date(2022, 3, 1, 10, 0, 0, 0, time.UTC), window.Latest)
}

func TestBuildVisitSlotList_Idempotent(t *testing.T) {
	sessions := []orchestration.VisitSession{
		visitSession("a", "2022-02-14T10:00:00", "2022-02-14T11:00:00", 5, 0),
		visitSession("b", "2022-02-15T14:00:00", "2022-02-15T15:00:00", 5, 0),
	}
	snapshot := append([]orchestration.VisitSession(nil), sessions...)

	first, _, err := BuildVisitSlotList(sessions, "HEI", orchestration.RestrictionOpen)
	require.NoError(t, err)
	second, _, err := BuildVisitSlotList(sessions, "HEI", orchestration.RestrictionOpen)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, sessions)
}

func TestBuildVisitSlotList_InvalidTimestamp(t *testing.T) {
	sessions := []orchestration.VisitSession{visitSession("a", "yesterday", "2022-02-14T11:00:00", 5, 0)}

	_, _, err := BuildVisitSlotList(sessions, "HEI", orchestration.RestrictionOpen)
	assert.Error(t, err)
}

func TestBuildVisitSlotList_Empty(t *testing.T) {
	list, window, err := BuildVisitSlotList(nil, "HEI", orchestration.RestrictionOpen)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.True(t, window.IsZero())
}

func TestAttachScheduledEvents(t *testing.T) {
	sessions := []orchestration.VisitSession{
		visitSession("a", "2022-02-14T10:00:00", "2022-02-14T11:00:00", 5, 0),
		visitSession("b", "2022-02-14T14:00:00", "2022-02-14T15:00:00", 5, 0),
	}
	list, _, err := BuildVisitSlotList(sessions, "HEI", orchestration.RestrictionOpen)
	require.NoError(t, err)

	events := []whereabouts.ScheduledEvent{
		{StartTime: "2022-02-14T09:00:00", EndTime: "2022-02-14T09:30:00", EventType: "APP", EventSubTypeDesc: "Dentist"},
		{StartTime: "2022-02-14T11:59:30", EndTime: "2022-02-14T12:30:00", EventType: "PA", EventSourceDesc: "Library"},
		{StartTime: "2022-02-14T12:00:00", EndTime: "2022-02-14T13:00:00", EventType: "VISIT", EventSourceDesc: "Social"},
		{StartTime: "2022-02-14T00:00:00", EventType: "PA", EventSourceDesc: "Midnight roll check"},
		{StartTime: "2022-02-15T10:00:00", EventType: "APP", EventSubTypeDesc: "Other day"},
		{StartTime: "garbage", EventType: "APP"},
	}

	withEvents := AttachScheduledEvents(list, events)
	day := withEvents[0].Days[0]

	morning := descriptions(day.PrisonerEvents.Morning)
	afternoon := descriptions(day.PrisonerEvents.Afternoon)
	assert.Equal(t, []string{"Appointment - Dentist", "Activity - Library"}, morning)
	assert.Equal(t, []string{"Activity - Library", "Visit - Social"}, afternoon)

	assert.Empty(t, list[0].Days[0].PrisonerEvents.Morning, "input list is not modified")
	assert.Equal(t, list[0].Days[0].Slots, day.Slots)
}

func descriptions(events []PrisonerEvent) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Description)
	}
	return out
}
