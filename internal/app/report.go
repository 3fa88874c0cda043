package app

import (
	"time"

	"github.com/samvad-hq/http-methods/pkg/httpmethods"
)

// Exit codes reported by the CLI.
const (
	// ExitSuccess indicates status 200 or a check-mode run
	ExitSuccess = 0

	// ExitRequestFailure indicates a response other than 200
	ExitRequestFailure = 1

	// ExitConfigError indicates invalid configuration or parameters
	ExitConfigError = 3

	// ExitNetworkError indicates the request could not be sent: a transport failure or no
	// transport at all
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// Report is what the caller hands back to its host: the normalized result plus the
// invocation it came from.
type Report struct {
	InvocationID string                 `json:"invocation_id,omitempty"`
	Parameters   httpmethods.Parameters `json:"invocation"`
	Result       *httpmethods.Result    `json:"result,omitempty"`
	Skipped      bool                   `json:"skipped,omitempty"`
	StartedAt    time.Time              `json:"started_at"`
	Duration     time.Duration          `json:"-"`
	DurationMS   int64                  `json:"duration_ms"`
}

// Failed reports whether the invocation must be treated as failed by the host.
func (r Report) Failed() bool {
	return !r.Skipped && (r.Result == nil || !r.Result.Succeeded())
}

// ExitCode maps the report onto a process exit code.
func ExitCode(r Report) int {
	switch {
	case !r.Failed():
		return ExitSuccess
	case r.Result != nil && r.Result.ErrorKind != "":
		return ExitNetworkError
	default:
		return ExitRequestFailure
	}
}
