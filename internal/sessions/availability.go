package sessions

import "github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/orchestration"

// Availability is the capacity of one session for a chosen restriction.
type Availability struct {
	Capacity        int
	AvailableTables int
	// Include is false when the session has no capacity for the restriction;
	// such sessions are left out of every grouped output.
	Include bool
}

type capacityCounts struct {
	openCapacity, openBooked     int
	closedCapacity, closedBooked int
}

// ComputeAvailability selects the open or closed capacity pool. Booked counts
// are trusted as reported upstream, so AvailableTables is not clamped.
func ComputeAvailability(session orchestration.VisitSession, restriction orchestration.VisitRestriction) Availability {
	return capacityCounts{
		openCapacity:   session.OpenVisitCapacity,
		openBooked:     session.OpenVisitBookedCount,
		closedCapacity: session.ClosedVisitCapacity,
		closedBooked:   session.ClosedVisitBookedCount,
	}.availability(restriction)
}

func computeAvailabilityV2(session orchestration.VisitSessionV2, restriction orchestration.VisitRestriction) Availability {
	return capacityCounts{
		openCapacity:   session.OpenVisitCapacity,
		openBooked:     session.OpenVisitBookedCount,
		closedCapacity: session.ClosedVisitCapacity,
		closedBooked:   session.ClosedVisitBookedCount,
	}.availability(restriction)
}

func (c capacityCounts) availability(restriction orchestration.VisitRestriction) Availability {
	capacity, booked := c.openCapacity, c.openBooked
	if restriction != orchestration.RestrictionOpen {
		capacity, booked = c.closedCapacity, c.closedBooked
	}
	return Availability{
		Capacity:        capacity,
		AvailableTables: capacity - booked,
		Include:         capacity > 0,
	}
}
