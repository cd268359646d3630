package sessions

// EventDescription labels a prisoner's scheduled event. Unknown event types
// are described as activities.
func EventDescription(eventType, subTypeDesc, sourceDesc string) string {
	switch eventType {
	case "APP":
		return "Appointment - " + subTypeDesc
	case "VISIT":
		return "Visit - " + sourceDesc
	default:
		return "Activity - " + sourceDesc
	}
}
