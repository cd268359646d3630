package sessions

import (
	"fmt"

	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/orchestration"
)

// CalendarGridDate is one day cell of the calendar.
type CalendarGridDate struct {
	Date         string `json:"date"`
	SessionCount int    `json:"sessionCount"`
	Colour       string `json:"colour,omitempty"`
	Selected     bool   `json:"selected,omitempty"`
	Outline      bool   `json:"outline,omitempty"`
}

// CalendarMonth is a run of consecutive days sharing a month label.
type CalendarMonth struct {
	MonthLabel string             `json:"monthLabel"`
	Days       []CalendarGridDate `json:"days"`
}

// SelectedSession identifies a previously chosen session.
type SelectedSession struct {
	Date                     string `json:"date"`
	SessionTemplateReference string `json:"sessionTemplateReference"`
}

// BuildCalendarMonths lays out one cell per input day. Days must arrive in
// chronological order: a new month starts whenever the label changes from
// the previous day's, so unsorted input repeats months.
//
// At most one day is selected: the day holding the selected session if it is
// still offered, otherwise the first day with any sessions.
func BuildCalendarMonths(days []orchestration.DaySessions, selected *SelectedSession) ([]CalendarMonth, error) {
	months := []CalendarMonth{}
	selectedFound := false

	for _, day := range days {
		date, err := parseDate(day.Date)
		if err != nil {
			return nil, fmt.Errorf("calendar day: %w", err)
		}

		label := date.Format(monthLabel)
		if len(months) == 0 || months[len(months)-1].MonthLabel != label {
			months = append(months, CalendarMonth{MonthLabel: label, Days: []CalendarGridDate{}})
		}

		cell := CalendarGridDate{Date: day.Date, SessionCount: len(day.VisitSessions)}
		if !selectedFound && selected != nil && day.Date == selected.Date && offersSession(day, selected.SessionTemplateReference) {
			cell.Selected = true
			selectedFound = true
		}

		current := &months[len(months)-1]
		current.Days = append(current.Days, cell)
	}

	if !selectedFound {
		selectFirstWithSessions(months)
	}
	return months, nil
}

func offersSession(day orchestration.DaySessions, reference string) bool {
	for _, session := range day.VisitSessions {
		if session.SessionTemplateReference == reference {
			return true
		}
	}
	return false
}

func selectFirstWithSessions(months []CalendarMonth) {
	for mi := range months {
		for di := range months[mi].Days {
			if months[mi].Days[di].SessionCount > 0 {
				months[mi].Days[di].Selected = true
				return
			}
		}
	}
}
