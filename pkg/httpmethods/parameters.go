package httpmethods

import (
	"strings"
	"time"
)

// Supported HTTP methods. The echo service exposes one endpoint per verb.
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPatch  = "PATCH"
	MethodPut    = "PUT"
	MethodDelete = "DELETE"
)

const (
	DefaultServer         = "https://httpbin.org"
	DefaultMethod         = MethodGet
	DefaultTimeoutSeconds = 15
)

// Methods lists the accepted methods in declaration order.
var Methods = []string{MethodGet, MethodPost, MethodPatch, MethodPut, MethodDelete}

// IsMethod reports whether m is one of the accepted methods. The check is case sensitive.
func IsMethod(m string) bool {
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}

// DefaultHeaders returns a fresh copy of the headers sent when the caller supplies none.
func DefaultHeaders() map[string]string {
	return map[string]string{"accept": "application/json"}
}

// Parameters is the validated input of one invocation.
type Parameters struct {
	Server         string            `json:"server"`
	Method         string            `json:"method"`
	Headers        map[string]string `json:"headers"`
	Data           map[string]any    `json:"data,omitempty"`
	Query          map[string]any    `json:"query,omitempty"`
	IgnoreCerts    bool              `json:"ignore_certs"`
	TimeoutSeconds int               `json:"timeout"`
}

// Timeout returns the request deadline, falling back to the default for non-positive values.
func (p Parameters) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// Path returns the verb endpoint for the method, e.g. "/post".
func (p Parameters) Path() string {
	return "/" + strings.ToLower(p.Method)
}
