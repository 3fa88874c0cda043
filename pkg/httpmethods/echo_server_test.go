package httpmethods

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// newEchoServer mimics a verb-routed echo service: /get, /post, /patch, /put and /delete reflect
// the request back as JSON when the method matches the path. "data" is the raw body.
func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := strings.ToUpper(strings.TrimPrefix(r.URL.Path, "/"))
		if want != r.Method {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		// ParseForm ignores GET and DELETE bodies, so decode the raw body for every verb.
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		posted, err := url.ParseQuery(string(raw))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		args := map[string]string{}
		for k := range r.URL.Query() {
			args[k] = r.URL.Query().Get(k)
		}
		form := map[string]string{}
		for k := range posted {
			form[k] = posted.Get(k)
		}
		headers := map[string]string{}
		for k := range r.Header {
			headers[k] = r.Header.Get(k)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"args":    args,
			"data":    string(raw),
			"form":    form,
			"headers": headers,
			"method":  r.Method,
			"url":     r.URL.String(),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}
