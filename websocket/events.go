package websocket

// Event types for WebSocket messages
const (
	// Mail events
	EventMailReceived = "mail:received"

	// Match events
	EventMatchCreated = "match:created"

	// Booking events
	EventBookingConfirmed = "booking:confirmed"
	EventBookingCancelled = "booking:cancelled"

	// Call session events
	EventSessionEnded = "session:ended"

	// General events
	EventCalendarRefresh = "calendar:refresh"
)

// MailEvent announces a charged or waived mail action in a thread.
type MailEvent struct {
	ThreadKey string `json:"thread_key"`
	Direction string `json:"direction"`
	Free      bool   `json:"free"`
	Cost      int    `json:"cost"`
}

// MatchEvent announces a new mutual match.
type MatchEvent struct {
	MatchID     uint   `json:"match_id"`
	PartnerID   uint   `json:"partner_id"`
	PartnerName string `json:"partner_name"`
}

// BookingEvent announces a booking status change.
type BookingEvent struct {
	BookingID     uint   `json:"booking_id"`
	TherapistID   uint   `json:"therapist_id"`
	TherapistName string `json:"therapist_name"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Status        string `json:"status"`
}

// SessionEvent announces the end of a billable call session.
type SessionEvent struct {
	SessionID     string `json:"session_id"`
	BilledMinutes int    `json:"billed_minutes"`
	Reason        string `json:"reason"`
}
