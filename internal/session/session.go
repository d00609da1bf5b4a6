package session

// Mode describes whether a user's next free-text message is routed to the
// AI assistant.
type Mode string

const (
	ModeIdle          Mode = "idle"
	ModeAwaitingInput Mode = "awaiting_ai_input"
)

// Role tags one turn of the rolling conversation history.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// HistoryCap bounds the retained history at 5 question/answer exchanges.
const HistoryCap = 10

// Turn is a single history entry.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Record is the per-user conversation state.
type Record struct {
	Mode    Mode   `json:"mode"`
	History []Turn `json:"history"`
}

// Clone returns a deep copy so store implementations never hand out
// aliased history slices.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := &Record{Mode: r.Mode}
	if len(r.History) > 0 {
		out.History = make([]Turn, len(r.History))
		copy(out.History, r.History)
	}
	return out
}
