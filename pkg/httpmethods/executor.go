package httpmethods

import (
	"context"
)

// Logger defines the logging surface the executor relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

// Executor runs invocations. It holds no per-invocation state and is safe for concurrent use.
type Executor struct {
	transport Transport
	log       Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithTransport replaces the default resty-backed transport.
func WithTransport(t Transport) Option {
	return func(e *Executor) { e.transport = t }
}

// WithLogger sets the logger; nil keeps the noop logger.
func WithLogger(log Logger) Option {
	return func(e *Executor) {
		if log != nil {
			e.log = log
		}
	}
}

// NewExecutor returns an executor using the default transport unless overridden.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		transport: NewTransport(nil),
		log:       noopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CheckCapabilities verifies the executor can send requests at all.
func (e *Executor) CheckCapabilities() error {
	if e == nil || e.transport == nil {
		return ErrTransportUnavailable
	}
	return nil
}

// Execute builds, sends and normalizes one request. It always returns exactly one Result and
// never an error; failures are reported through Result.Outcome.
func (e *Executor) Execute(ctx context.Context, p Parameters) Result {
	if err := e.CheckCapabilities(); err != nil {
		return Result{Outcome: OutcomeFailure, Message: err.Error(), ErrorKind: KindUnavailable}
	}

	req := Build(p)
	e.log.DebugObj("http request prepared", "http_request", map[string]any{
		"method":   req.Method,
		"url":      req.URL,
		"has_body": req.HasBody(),
	})

	resp, err := e.transport.Send(ctx, req, SendOptions{
		IgnoreCerts: p.IgnoreCerts,
		Timeout:     p.Timeout(),
	})
	res := Normalize(resp, err)

	if err != nil {
		e.log.WarnObj("http request failed", "http_transport_error", map[string]any{
			"method": req.Method,
			"url":    req.URL,
			"kind":   res.ErrorKind,
			"error":  err.Error(),
		})
		return res
	}

	e.log.InfoObj("http request completed", "http_response", map[string]any{
		"method":  req.Method,
		"url":     req.URL,
		"status":  res.Status,
		"outcome": res.Outcome,
	})
	return res
}
