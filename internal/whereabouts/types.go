package whereabouts

// ScheduledEvent is an entry on a prisoner's schedule. StartTime and EndTime
// are local timestamps ("2006-01-02T15:04:05").
type ScheduledEvent struct {
	BookingID        int64  `json:"bookingId,omitempty"`
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime,omitempty"`
	EventType        string `json:"eventType"`
	EventTypeDesc    string `json:"eventTypeDesc,omitempty"`
	EventSubType     string `json:"eventSubType,omitempty"`
	EventSubTypeDesc string `json:"eventSubTypeDesc,omitempty"`
	EventSourceDesc  string `json:"eventSourceDesc,omitempty"`
	EventLocation    string `json:"eventLocation,omitempty"`
}
