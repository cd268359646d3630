// Package review builds the "visits needing review" list and its filters
// from visits flagged by notification events.
package review

import (
	"sort"
	"time"

	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/orchestration"
)

var notificationTypeLabels = map[string]string{
	"NON_ASSOCIATION_EVENT":             "Non-association",
	"PRISONER_RELEASED_EVENT":           "Prisoner released",
	"PRISONER_RESTRICTION_CHANGE_EVENT": "Prisoner restriction changed",
	"PRISONER_RECEIVED_EVENT":           "Prisoner transferred",
	"PRISONER_ALERTS_UPDATED_EVENT":     "Prisoner alerts updated",
	"PRISON_VISITS_BLOCKED_FOR_DATE":    "Visits blocked for date",
	"SESSION_VISITS_BLOCKED":            "Time slot removed",
	"VISITOR_RESTRICTION":               "Visitor restriction",
	"VISITOR_UNAPPROVED_EVENT":          "Visitor unapproved",
}

// NotificationTypeLabel returns the label for a notification type, or the
// type itself when it is not one we know.
func NotificationTypeLabel(notificationType string) string {
	if label, ok := notificationTypeLabels[notificationType]; ok {
		return label
	}
	return notificationType
}

// Filter groups.
const (
	FilterBookedBy = "bookedBy"
	FilterType     = "type"
)

// Selection holds the checked filter values.
type Selection struct {
	BookedBy []string `json:"bookedBy"`
	Type     []string `json:"type"`
}

// FilterItem is one checkbox.
type FilterItem struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Checked bool   `json:"checked"`
}

// Filter is a checkbox group.
type Filter struct {
	ID    string       `json:"id"`
	Label string       `json:"label"`
	Items []FilterItem `json:"items"`
}

// Row is one visit in the review table.
type Row struct {
	VisitReference string   `json:"visitReference"`
	PrisonerNumber string   `json:"prisonerNumber"`
	VisitDate      string   `json:"visitDate"`
	BookedBy       string   `json:"bookedBy"`
	Notifications  []string `json:"notifications"`
}

// BuildFilters collects the distinct bookers and notification types across
// visits. Items are sorted by label with currentUser's entry first.
func BuildFilters(visits []orchestration.NotificationVisit, currentUser string, selection Selection) []Filter {
	bookers := map[string]string{}
	types := map[string]string{}
	for _, visit := range visits {
		if visit.BookedByUserName != "" {
			if _, seen := bookers[visit.BookedByUserName]; !seen {
				bookers[visit.BookedByUserName] = bookerLabel(visit)
			}
		}
		for _, n := range visit.Notifications {
			types[n.Type] = NotificationTypeLabel(n.Type)
		}
	}

	return []Filter{
		{ID: FilterBookedBy, Label: "Booked by", Items: filterItems(bookers, selection.BookedBy, currentUser)},
		{ID: FilterType, Label: "Type", Items: filterItems(types, selection.Type, "")},
	}
}

func filterItems(labels map[string]string, checked []string, pinned string) []FilterItem {
	isChecked := make(map[string]bool, len(checked))
	for _, v := range checked {
		isChecked[v] = true
	}

	items := make([]FilterItem, 0, len(labels))
	for value, label := range labels {
		items = append(items, FilterItem{Label: label, Value: value, Checked: isChecked[value]})
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if pinned != "" && (a.Value == pinned) != (b.Value == pinned) {
			return a.Value == pinned
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		return a.Value < b.Value
	})
	return items
}

// BuildRows returns one row per visit matching every non-empty selection
// group, in input order.
func BuildRows(visits []orchestration.NotificationVisit, selection Selection) []Row {
	bookedBy := toSet(selection.BookedBy)
	wantTypes := toSet(selection.Type)

	rows := make([]Row, 0, len(visits))
	for _, visit := range visits {
		if len(bookedBy) > 0 && !bookedBy[visit.BookedByUserName] {
			continue
		}
		if len(wantTypes) > 0 && !hasAnyType(visit, wantTypes) {
			continue
		}
		rows = append(rows, Row{
			VisitReference: visit.VisitReference,
			PrisonerNumber: visit.PrisonerNumber,
			VisitDate:      formatVisitDate(visit.VisitDate),
			BookedBy:       bookerLabel(visit),
			Notifications:  notificationLabels(visit.Notifications),
		})
	}
	return rows
}

func notificationLabels(events []orchestration.VisitNotificationEvent) []string {
	seen := make(map[string]bool, len(events))
	labels := make([]string, 0, len(events))
	for _, e := range events {
		if seen[e.Type] {
			continue
		}
		seen[e.Type] = true
		labels = append(labels, NotificationTypeLabel(e.Type))
	}
	sort.Strings(labels)
	return labels
}

func hasAnyType(visit orchestration.NotificationVisit, types map[string]bool) bool {
	for _, n := range visit.Notifications {
		if types[n.Type] {
			return true
		}
	}
	return false
}

func bookerLabel(visit orchestration.NotificationVisit) string {
	if visit.BookedByName != "" {
		return visit.BookedByName
	}
	return visit.BookedByUserName
}

func formatVisitDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("2 January 2006")
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = true
		}
	}
	return set
}
