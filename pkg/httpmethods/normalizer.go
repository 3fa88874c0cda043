package httpmethods

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

const (
	MessageSuccess = "All good..."
	MessageFailure = "Error in the request"
)

// Outcome tags a Result as success or failure.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Result is the normalized outcome of one invocation. Status and Headers are set only when a
// response was received.
type Result struct {
	Status    int               `json:"status,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	Body      any               `json:"body,omitempty"`
	Outcome   Outcome           `json:"outcome"`
	Message   string            `json:"msg"`
	ErrorKind ErrorKind         `json:"error_kind,omitempty"`
}

// Succeeded reports whether the outcome is success.
func (r Result) Succeeded() bool { return r.Outcome == OutcomeSuccess }

// HasResponse reports whether a response was received.
func (r Result) HasResponse() bool { return r.Status != 0 }

// MarshalJSON always writes "body" for results that carry a response, even when the body
// decoded to JSON null.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	if !r.HasResponse() {
		return json.Marshal(plain(r))
	}
	return json.Marshal(struct {
		plain
		Body any `json:"body"`
	}{plain(r), r.Body})
}

// Normalize folds a response or transport error into a Result. Only status 200 succeeds.
func Normalize(resp *RawResponse, err error) Result {
	if err != nil {
		return failureFromError(err)
	}
	if resp == nil {
		return Result{Outcome: OutcomeFailure, Message: "no response received", ErrorKind: KindOther}
	}

	res := Result{
		Status:  resp.StatusCode,
		Headers: flattenHeaders(resp.Header),
		Body:    DecodeBody(resp.Body),
	}
	if resp.StatusCode == http.StatusOK {
		res.Outcome = OutcomeSuccess
		res.Message = MessageSuccess
	} else {
		res.Outcome = OutcomeFailure
		res.Message = MessageFailure
	}
	return res
}

func failureFromError(err error) Result {
	kind := KindOther
	var te *TransportError
	if errors.As(err, &te) {
		kind = te.Kind
	}
	return Result{
		Outcome:   OutcomeFailure,
		Message:   err.Error(),
		ErrorKind: kind,
	}
}

// DecodeBody returns the body decoded as a single JSON document, or {"content": text} when it
// is not one. Numbers are kept as json.Number.
func DecodeBody(raw []byte) any {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return fallbackBody(raw)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fallbackBody(raw)
	}
	return v
}

func fallbackBody(raw []byte) map[string]any {
	return map[string]any{"content": string(raw)}
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vals := range h {
		out[k] = strings.Join(vals, ", ")
	}
	return out
}
