package session

// clientMessage is the incoming WebSocket message format.
type clientMessage struct {
	Type   string            `json:"type"`  // "event"
	Event  string            `json:"event"` // "click", "input" or "submit"
	Target string            `json:"target"`
	Value  string            `json:"value,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// serverMessage is the outgoing WebSocket message format.
type serverMessage struct {
	Type    string   `json:"type"` // "open", "validation", "error" or "suggestions"
	URL     string   `json:"url,omitempty"`
	Message string   `json:"message,omitempty"`
	Items   []string `json:"items,omitempty"`
}

const (
	msgEvent       = "event"
	msgOpen        = "open"
	msgValidation  = "validation"
	msgError       = "error"
	msgSuggestions = "suggestions"
)
