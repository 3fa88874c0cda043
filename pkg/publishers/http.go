package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/http-methods/pkg/httpclient"
)

// Headers attached to every webhook delivery so receivers can route without parsing the body.
const (
	headerInvocationID = "X-Invocation-Id"
	headerOutcome      = "X-Invocation-Outcome"
	webhookBodyLimit   = 512
)

// webhookPublisher posts each event as JSON to a configured URL.
type webhookPublisher struct {
	id      string
	method  string
	url     string
	headers map[string]string
	client  httpclient.Client
	log     Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	method := cfg.HTTP.Method
	if method == "" {
		method = httpDefaultMethod
	}
	timeout := cfg.HTTP.TimeoutSeconds
	if timeout <= 0 {
		timeout = httpDefaultTimeoutSeconds
	}

	return &webhookPublisher{
		id:      cfg.ID,
		method:  method,
		url:     cfg.HTTP.URL,
		headers: cfg.HTTP.Headers,
		client:  httpclient.NewRestyClient(httpclient.Options{Timeout: time.Duration(timeout) * time.Second}),
		log:     ensureLogger(log),
	}, nil
}

func (w *webhookPublisher) ID() string   { return w.id }
func (w *webhookPublisher) Type() string { return TypeHTTP }

func (w *webhookPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	headers := make(map[string]string, len(w.headers)+3)
	for k, v := range w.headers {
		headers[k] = v
	}
	headers["Content-Type"] = "application/json"
	if evt.InvocationID != "" {
		headers[headerInvocationID] = evt.InvocationID
	}
	if evt.Outcome != "" {
		headers[headerOutcome] = string(evt.Outcome)
	}

	resp, err := w.client.Do(ctx, httpclient.Request{
		Method:  w.method,
		URL:     w.url,
		Headers: headers,
		Body:    payload,
	})
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return fmt.Errorf("webhook response status %d: %s", code, bodySnippet(resp.Body()))
	}

	w.log.DebugObj("webhook publisher delivered event", "publisher_http_delivery", map[string]any{
		"publisher_id":  w.id,
		"invocation_id": evt.InvocationID,
		"status":        resp.StatusCode(),
	})
	return nil
}

func bodySnippet(body []byte) string {
	if len(body) > webhookBodyLimit {
		body = body[:webhookBodyLimit]
	}
	return strings.TrimSpace(string(body))
}
