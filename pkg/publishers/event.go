package publishers

import (
	"time"

	"github.com/samvad-hq/http-methods/pkg/httpmethods"
)

// Event represents the invocation report published downstream.
type Event struct {
	InvocationID string                 `json:"invocation_id"`
	Outcome      httpmethods.Outcome    `json:"outcome"`
	Parameters   httpmethods.Parameters `json:"parameters"`
	Result       httpmethods.Result     `json:"result"`
	CompletedAt  time.Time              `json:"completed_at"`
}

// NewEvent constructs an Event for the given invocation.
func NewEvent(invocationID string, params httpmethods.Parameters, res httpmethods.Result) Event {
	return Event{
		InvocationID: invocationID,
		Outcome:      res.Outcome,
		Parameters:   params,
		Result:       res,
		CompletedAt:  time.Now().UTC(),
	}
}

// attributes returns the non-empty routing attributes attached to broker messages.
func (e Event) attributes() map[string]string {
	attrs := make(map[string]string, 3)
	for k, v := range map[string]string{
		"invocation_id": e.InvocationID,
		"outcome":       string(e.Outcome),
		"method":        e.Parameters.Method,
	} {
		if v != "" {
			attrs[k] = v
		}
	}
	return attrs
}
