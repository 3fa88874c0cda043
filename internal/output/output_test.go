package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/samvad-hq/http-methods/internal/app"
	"github.com/samvad-hq/http-methods/pkg/httpmethods"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() app.Report {
	res := httpmethods.Result{
		Status:  200,
		Headers: map[string]string{"Content-Type": "application/json", "Allow": "GET, HEAD"},
		Body:    map[string]any{"args": map[string]any{"page": "1"}, "url": "https://httpbin.org/get?page=1"},
		Outcome: httpmethods.OutcomeSuccess,
		Message: httpmethods.MessageSuccess,
	}
	return app.Report{
		InvocationID: "7d5c",
		Parameters: httpmethods.Parameters{
			Server:         "https://httpbin.org",
			Method:         httpmethods.MethodGet,
			Headers:        httpmethods.DefaultHeaders(),
			Query:          map[string]any{"page": 1},
			TimeoutSeconds: 15,
		},
		Result:     &res,
		Duration:   120 * time.Millisecond,
		DurationMS: 120,
	}
}

func TestNewRenderer(t *testing.T) {
	r, err := New("JSON", false)
	require.NoError(t, err)
	assert.IsType(t, JSONRenderer{}, r)

	r, err = New("", true)
	require.NoError(t, err)
	assert.Equal(t, ConsoleRenderer{NoColor: true}, r)

	_, err = New("xml", false)
	assert.Error(t, err)
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONRenderer{}.Render(&buf, sampleReport()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "7d5c", doc["invocation_id"])
	assert.EqualValues(t, 120, doc["duration_ms"])

	result := doc["result"].(map[string]any)
	assert.EqualValues(t, 200, result["status"])
	assert.Equal(t, "success", result["outcome"])
	assert.Equal(t, "All good...", result["msg"])
}

func TestConsoleRendererSuccess(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ConsoleRenderer{NoColor: true}.Render(&buf, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "OK   GET https://httpbin.org/get?page=1 -> 200")
	assert.Contains(t, out, "msg: All good...")
	assert.Contains(t, out, "Allow: GET, HEAD")
	assert.Contains(t, out, `"page": "1"`)
	assert.NotContains(t, out, "error:")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Allow")), bytes.Index(buf.Bytes(), []byte("Content-Type")))
}

func TestConsoleRendererTransportFailure(t *testing.T) {
	rep := sampleReport()
	rep.Result = &httpmethods.Result{
		Outcome:   httpmethods.OutcomeFailure,
		Message:   "request timed out after 1s",
		ErrorKind: httpmethods.KindTimeout,
	}

	var buf bytes.Buffer
	require.NoError(t, ConsoleRenderer{NoColor: true}.Render(&buf, rep))

	out := buf.String()
	assert.Contains(t, out, "FAIL GET https://httpbin.org/get?page=1 (")
	assert.NotContains(t, out, "->")
	assert.Contains(t, out, "error: timeout")
	assert.NotContains(t, out, "headers:")
}

func TestConsoleRendererSkipped(t *testing.T) {
	rep := sampleReport()
	rep.Result = nil
	rep.Skipped = true

	var buf bytes.Buffer
	require.NoError(t, ConsoleRenderer{NoColor: true}.Render(&buf, rep))
	assert.Equal(t, "SKIPPED GET https://httpbin.org/get?page=1 (check mode)\n", buf.String())
}

func TestConsoleRendererHTMLTitle(t *testing.T) {
	rep := sampleReport()
	rep.Result.Status = 404
	rep.Result.Outcome = httpmethods.OutcomeFailure
	rep.Result.Message = httpmethods.MessageFailure
	rep.Result.Body = map[string]any{"content": "<html><head><title> 404 Not Found </title></head><body></body></html>"}

	var buf bytes.Buffer
	require.NoError(t, ConsoleRenderer{NoColor: true}.Render(&buf, rep))
	assert.Contains(t, buf.String(), "html title: 404 Not Found")
	assert.Contains(t, buf.String(), "-> 404")
}

func TestHTMLTitle(t *testing.T) {
	cases := []struct {
		name  string
		body  any
		title string
		ok    bool
	}{
		{"html fallback", map[string]any{"content": "<HTML><title>Hello</title></HTML>"}, "Hello", true},
		{"plain text fallback", map[string]any{"content": "upstream unavailable"}, "", false},
		{"json body", map[string]any{"content": "<html>", "other": 1}, "", false},
		{"missing title", map[string]any{"content": "<html><body>x</body></html>"}, "", false},
		{"not an object", []any{"a"}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			title, ok := HTMLTitle(tc.body)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.title, title)
		})
	}
}

func TestSelect(t *testing.T) {
	res := *sampleReport().Result

	v, err := Select(res, "body.args.page")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	v, err = Select(res, "status")
	require.NoError(t, err)
	assert.Equal(t, "200", v)

	v, err = Select(res, "body.args")
	require.NoError(t, err)
	assert.JSONEq(t, `{"page":"1"}`, v)

	_, err = Select(res, "body.missing")
	assert.Error(t, err)

	_, err = Select(res, " ")
	assert.Error(t, err)
}
