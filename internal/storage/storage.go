// Package storage keeps a local history of invocation results so past runs can be listed
// and inspected with the history command.
package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/http-methods/pkg/httpmethods"
)

// Backend names a history implementation.
type Backend string

const (
	BackendNone  Backend = "none"
	BackendBBolt Backend = "bbolt"
)

// Entry is one recorded invocation.
type Entry struct {
	ID          string                 `json:"id"`
	Parameters  httpmethods.Parameters `json:"parameters"`
	Result      httpmethods.Result     `json:"result"`
	StartedAt   time.Time              `json:"started_at"`
	CompletedAt time.Time              `json:"completed_at"`
}

// Store records invocation results. Recent returns newest first.
type Store interface {
	Record(entry Entry) error
	Get(id string) (Entry, bool, error)
	Recent(limit int) ([]Entry, error)
	Close() error
}

// Options selects and tunes the history backend. Zero durations fall back to a week of
// retention swept twice a day.
type Options struct {
	Backend         Backend
	Path            string
	EntryTTL        time.Duration
	CleanupInterval time.Duration
}

var errMissingPath = errors.New("bbolt storage requires a path")

// Open returns the backend named by opts.Backend. Blank and "disabled" mean none.
func Open(opts Options) (Store, error) {
	opts = opts.withDefaults()
	switch opts.Backend {
	case BackendNone:
		return discard{}, nil
	case BackendBBolt:
		if opts.Path == "" {
			return nil, errMissingPath
		}
		return openBolt(opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", opts.Backend)
	}
}

func (o Options) withDefaults() Options {
	switch b := Backend(strings.ToLower(strings.TrimSpace(string(o.Backend)))); b {
	case "", "disabled":
		o.Backend = BackendNone
	default:
		o.Backend = b
	}
	o.Path = strings.TrimSpace(o.Path)
	if o.EntryTTL <= 0 {
		o.EntryTTL = 7 * 24 * time.Hour
	}
	if o.CleanupInterval <= 0 {
		o.CleanupInterval = 12 * time.Hour
	}
	return o
}

// discard forgets everything it is given.
type discard struct{}

func (discard) Record(Entry) error              { return nil }
func (discard) Get(string) (Entry, bool, error) { return Entry{}, false, nil }
func (discard) Recent(int) ([]Entry, error)     { return nil, nil }
func (discard) Close() error                    { return nil }
