package websocket

// Event identifies the kind of message sent to a monitor client.
type Event string

const (
	// EventSnapshot carries the full submission list on connect.
	EventSnapshot Event = "snapshot"
	// EventGraded carries a single grading result as it lands.
	EventGraded Event = "graded"
	// EventPing keeps idle connections alive through proxies.
	EventPing Event = "ping"
	// EventError reports a server-side problem to the client.
	EventError Event = "error"
)

// Message is the envelope for every monitor frame.
type Message struct {
	Event Event       `json:"event"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}
