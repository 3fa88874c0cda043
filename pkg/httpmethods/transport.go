package httpmethods

import (
	"context"
	"net/http"
	"time"

	"github.com/samvad-hq/http-methods/pkg/httpclient"
)

// SendOptions carries the per-invocation TLS and deadline policy.
type SendOptions struct {
	IgnoreCerts bool
	Timeout     time.Duration
}

// RawResponse is a fully read HTTP response.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport sends one prepared request. Failures are returned as *TransportError.
type Transport interface {
	Send(ctx context.Context, req PreparedRequest, opts SendOptions) (*RawResponse, error)
}

// ClientFactory builds the HTTP client used for a single send.
type ClientFactory func(opts httpclient.Options) httpclient.Client

// HTTPTransport is the default Transport. Every Send uses a fresh client with keep-alive
// disabled, so nothing is pooled between invocations.
type HTTPTransport struct {
	newClient ClientFactory
}

// NewTransport returns a transport using factory, or resty clients when factory is nil.
func NewTransport(factory ClientFactory) *HTTPTransport {
	if factory == nil {
		factory = func(opts httpclient.Options) httpclient.Client {
			return httpclient.NewRestyClient(opts)
		}
	}
	return &HTTPTransport{newClient: factory}
}

// Send performs exactly one attempt within opts.Timeout.
func (t *HTTPTransport) Send(ctx context.Context, req PreparedRequest, opts SendOptions) (*RawResponse, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeoutSeconds * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := t.newClient(httpclient.Options{
		Timeout:            timeout,
		InsecureSkipVerify: opts.IgnoreCerts,
		CloseConnection:    true,
	})

	resp, err := client.Do(ctx, httpclient.Request{
		Method:  req.Method,
		URL:     req.URL,
		Headers: req.Headers,
		Body:    req.Body,
	})
	if err != nil {
		return nil, classifyTransportError(err, timeout)
	}

	return &RawResponse{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header().Clone(),
		Body:       resp.Body(),
	}, nil
}
