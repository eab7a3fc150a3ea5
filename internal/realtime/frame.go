package realtime

// Frame types sent by the server.
const (
	FrameWelcome = "welcome"
	FrameAck     = "ack"
)

// Frame is the JSON envelope written to clients.
type Frame struct {
	Type   string `json:"type"`
	UserID string `json:"user_id,omitempty"`
	Bytes  int    `json:"bytes,omitempty"`
}
