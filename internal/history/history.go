package history

import "time"

// Kind identifies what a visit opened.
type Kind string

const (
	KindHome   Kind = "home"
	KindSearch Kind = "search"
)

// Status records whether the destination was handed to the browser.
type Status string

const (
	StatusOpened Status = "opened"
	StatusFailed Status = "failed"
)

// Visit is a single navigation attempt.
type Visit struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Query     string    `json:"query,omitempty"`
	URL       string    `json:"url"`
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
	VisitedAt time.Time `json:"visited_at"`
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindHome || k == KindSearch
}

// timeLayout sorts lexically in the same order as the instants it encodes.
const timeLayout = "2006-01-02T15:04:05.000Z"
