package realtime

// Event type values pushed over the wire.
const EventHired = "hired"

// Event is the JSON payload delivered to a user's live connections.
type Event struct {
	Type     string `json:"type"`
	GigID    string `json:"gigId"`
	GigTitle string `json:"gigTitle"`
	BidID    string `json:"bidId"`
	Message  string `json:"message"`
}
