package sessions

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/orchestration"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/whereabouts"
)

// VisitSlot is a bookable session as shown in the slot picker.
type VisitSlot struct {
	ID                       string                         `json:"id"`
	SessionTemplateReference string                         `json:"sessionTemplateReference"`
	PrisonID                 string                         `json:"prisonId"`
	StartTimestamp           string                         `json:"startTimestamp"`
	EndTimestamp             string                         `json:"endTimestamp"`
	AvailableTables          int                            `json:"availableTables"`
	Capacity                 int                            `json:"capacity"`
	VisitRoom                string                         `json:"visitRoom"`
	VisitRestriction         orchestration.VisitRestriction `json:"visitRestriction"`
	SessionConflicts         []string                       `json:"sessionConflicts,omitempty"`
}

// PrisonerEvent is a scheduled event shown next to the slots of a half day.
type PrisonerEvent struct {
	StartTimestamp string `json:"startTimestamp"`
	EndTimestamp   string `json:"endTimestamp"`
	Description    string `json:"description"`
}

// HalfDaySlots splits a day's slots at noon.
type HalfDaySlots struct {
	Morning   []VisitSlot `json:"morning"`
	Afternoon []VisitSlot `json:"afternoon"`
}

// HalfDayEvents splits a day's prisoner events by the half-day windows.
type HalfDayEvents struct {
	Morning   []PrisonerEvent `json:"morning"`
	Afternoon []PrisonerEvent `json:"afternoon"`
}

// VisitSlotDay groups the slots that start on one calendar day.
type VisitSlotDay struct {
	// Date is the display label, e.g. "Monday 14 February".
	Date           string        `json:"date"`
	Slots          HalfDaySlots  `json:"slots"`
	PrisonerEvents HalfDayEvents `json:"prisonerEvents"`
}

// VisitSlotMonth groups days under a label such as "February 2022".
type VisitSlotMonth struct {
	Month string         `json:"month"`
	Days  []VisitSlotDay `json:"days"`
}

// VisitSlotList is ordered by first appearance of each month and day.
type VisitSlotList []VisitSlotMonth

// TimeRange is the earliest start and latest end over every session seen,
// used to fetch prisoner events in a single call.
type TimeRange struct {
	Earliest time.Time
	Latest   time.Time
}

// IsZero reports whether no session contributed to the range.
func (r TimeRange) IsZero() bool {
	return r.Earliest.IsZero() && r.Latest.IsZero()
}

func (r TimeRange) extend(start, end time.Time) TimeRange {
	if r.Earliest.IsZero() || start.Before(r.Earliest) {
		r.Earliest = start
	}
	if r.Latest.IsZero() || end.After(r.Latest) {
		r.Latest = end
	}
	return r
}

// BuildVisitSlotList buckets sessions by month, day and half day. Sessions
// with no capacity for the restriction are skipped but still widen the
// returned TimeRange.
func BuildVisitSlotList(sessions []orchestration.VisitSession, prisonID string, restriction orchestration.VisitRestriction) (VisitSlotList, TimeRange, error) {
	var (
		list       VisitSlotList
		span       TimeRange
		slotCount  int
		monthIndex = map[string]int{}
		dayIndex   = map[string]int{}
	)

	for _, session := range sessions {
		start, err := parseTimestamp(session.StartTimestamp)
		if err != nil {
			return nil, TimeRange{}, fmt.Errorf("session %s start: %w", session.SessionTemplateReference, err)
		}
		end, err := parseTimestamp(session.EndTimestamp)
		if err != nil {
			return nil, TimeRange{}, fmt.Errorf("session %s end: %w", session.SessionTemplateReference, err)
		}
		span = span.extend(start, end)

		availability := ComputeAvailability(session, restriction)
		if !availability.Include {
			continue
		}

		monthKey := start.Format(monthLabel)
		mi, ok := monthIndex[monthKey]
		if !ok {
			list = append(list, VisitSlotMonth{Month: monthKey})
			mi = len(list) - 1
			monthIndex[monthKey] = mi
		}

		dayKey := start.Format(dayLabel)
		di, ok := dayIndex[monthKey+"|"+dayKey]
		if !ok {
			list[mi].Days = append(list[mi].Days, newVisitSlotDay(dayKey))
			di = len(list[mi].Days) - 1
			dayIndex[monthKey+"|"+dayKey] = di
		}

		slotCount++
		slot := VisitSlot{
			ID:                       strconv.Itoa(slotCount),
			SessionTemplateReference: session.SessionTemplateReference,
			PrisonID:                 prisonID,
			StartTimestamp:           session.StartTimestamp,
			EndTimestamp:             session.EndTimestamp,
			AvailableTables:          availability.AvailableTables,
			Capacity:                 availability.Capacity,
			VisitRoom:                session.VisitRoom,
			VisitRestriction:         restriction,
			SessionConflicts:         session.SessionConflicts,
		}

		day := &list[mi].Days[di]
		if isMorning(start) {
			day.Slots.Morning = append(day.Slots.Morning, slot)
		} else {
			day.Slots.Afternoon = append(day.Slots.Afternoon, slot)
		}
	}

	return pruneEmpty(list), span, nil
}

func newVisitSlotDay(label string) VisitSlotDay {
	return VisitSlotDay{
		Date:           label,
		Slots:          HalfDaySlots{Morning: []VisitSlot{}, Afternoon: []VisitSlot{}},
		PrisonerEvents: HalfDayEvents{Morning: []PrisonerEvent{}, Afternoon: []PrisonerEvent{}},
	}
}

// pruneEmpty drops days without slots and months without days.
func pruneEmpty(list VisitSlotList) VisitSlotList {
	out := make(VisitSlotList, 0, len(list))
	for _, month := range list {
		days := make([]VisitSlotDay, 0, len(month.Days))
		for _, day := range month.Days {
			if len(day.Slots.Morning)+len(day.Slots.Afternoon) > 0 {
				days = append(days, day)
			}
		}
		if len(days) > 0 {
			out = append(out, VisitSlotMonth{Month: month.Month, Days: days})
		}
	}
	return out
}

// AttachScheduledEvents returns a copy of list with each day's prisoner events
// filled in. The morning window runs from midnight to noon and the afternoon
// window from 11:59 to 23:59; an event is attached when its start falls
// strictly inside a window, so one starting between 11:59 and noon shows in
// both halves.
func AttachScheduledEvents(list VisitSlotList, events []whereabouts.ScheduledEvent) VisitSlotList {
	type parsedEvent struct {
		start time.Time
		event PrisonerEvent
	}
	parsed := make([]parsedEvent, 0, len(events))
	for _, e := range events {
		start, err := parseTimestamp(e.StartTime)
		if err != nil {
			continue
		}
		parsed = append(parsed, parsedEvent{
			start: start,
			event: PrisonerEvent{
				StartTimestamp: e.StartTime,
				EndTimestamp:   e.EndTime,
				Description:    EventDescription(e.EventType, e.EventSubTypeDesc, e.EventSourceDesc),
			},
		})
	}

	out := make(VisitSlotList, len(list))
	for mi, month := range list {
		days := make([]VisitSlotDay, len(month.Days))
		for di, day := range month.Days {
			days[di] = day
			days[di].PrisonerEvents = HalfDayEvents{Morning: []PrisonerEvent{}, Afternoon: []PrisonerEvent{}}

			midnight, ok := dayStart(day)
			if !ok {
				continue
			}
			morningEnd := midnight.Add(12 * time.Hour)
			afternoonFrom := midnight.Add(11*time.Hour + 59*time.Minute)
			afternoonEnd := midnight.Add(23*time.Hour + 59*time.Minute)

			for _, p := range parsed {
				if p.start.After(midnight) && p.start.Before(morningEnd) {
					days[di].PrisonerEvents.Morning = append(days[di].PrisonerEvents.Morning, p.event)
				}
				if p.start.After(afternoonFrom) && p.start.Before(afternoonEnd) {
					days[di].PrisonerEvents.Afternoon = append(days[di].PrisonerEvents.Afternoon, p.event)
				}
			}
		}
		out[mi] = VisitSlotMonth{Month: month.Month, Days: days}
	}
	return out
}

// dayStart finds local midnight of a day from any of its slots.
func dayStart(day VisitSlotDay) (time.Time, bool) {
	slots := append(append([]VisitSlot{}, day.Slots.Morning...), day.Slots.Afternoon...)
	for _, slot := range slots {
		if start, err := parseTimestamp(slot.StartTimestamp); err == nil {
			return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
