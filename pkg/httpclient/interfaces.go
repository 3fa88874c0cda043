package httpclient

import (
	"context"
	"net/http"
)

// Request is a minimal, fully materialized HTTP request.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	// Body is sent only when non-nil.
	Body []byte
}

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Header() http.Header
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Do(ctx context.Context, req Request) (Response, error)
}
