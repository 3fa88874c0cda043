package httpmethods

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPathFollowsMethod(t *testing.T) {
	for _, method := range Methods {
		t.Run(method, func(t *testing.T) {
			req := Build(Parameters{Server: "https://echo.local", Method: method})
			assert.Equal(t, method, req.Method)
			u, err := url.Parse(req.URL)
			require.NoError(t, err)
			assert.Equal(t, "/"+map[string]string{
				MethodGet: "get", MethodPost: "post", MethodPatch: "patch",
				MethodPut: "put", MethodDelete: "delete",
			}[method], u.Path)
			assert.Empty(t, u.RawQuery)
			assert.NotContains(t, req.URL, "?")
		})
	}
}

func TestBuildQueryString(t *testing.T) {
	req := Build(Parameters{
		Server: "https://echo.local",
		Method: MethodGet,
		Query:  map[string]any{"b": 2, "a": "x", "c": true},
	})
	assert.Equal(t, "https://echo.local/get?a=x&b=2&c=true", req.URL)
}

func TestQueryStringEmpty(t *testing.T) {
	assert.Equal(t, "", QueryString(nil))
	assert.Equal(t, "", QueryString(map[string]any{}))
}

func TestQueryStringContainsEveryPair(t *testing.T) {
	q := map[string]any{"k1": "v1", "k2": 3.5, "k3": json.Number("42")}
	got := QueryString(q)
	require.Equal(t, byte('?'), got[0])
	assert.NotContains(t, got[1:], "?")
	for _, pair := range []string{"k1=v1", "k2=3.5", "k3=42"} {
		assert.Contains(t, got, pair)
	}
	assert.Equal(t, "?k1=v1&k2=3.5&k3=42", got)
}

func TestQueryStringQuotesOnlyDisallowedBytes(t *testing.T) {
	cases := map[string]struct {
		query map[string]any
		want  string
	}{
		"space":             {map[string]any{"q": "a b"}, "?q=a%20b"},
		"non-ascii":         {map[string]any{"city": "São"}, "?city=S%C3%A3o"},
		"reserved kept":     {map[string]any{"a": "x&y", "b": "k=v/w:1"}, "?a=x&y&b=k=v/w:1"},
		"escape kept":       {map[string]any{"p": "50%25"}, "?p=50%25"},
		"bare percent":      {map[string]any{"p": "50%"}, "?p=50%25"},
		"quote and bracket": {map[string]any{"s": `"<x>"`}, "?s=%22%3Cx%3E%22"},
		"key quoted":        {map[string]any{"my key": 1}, "?my%20key=1"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, QueryString(tc.query))
		})
	}
}

func TestBuildWithoutDataHasNoBody(t *testing.T) {
	req := Build(Parameters{Server: "https://echo.local", Method: MethodDelete, Data: map[string]any{}})
	assert.Nil(t, req.Body)
	assert.False(t, req.HasBody())
	assert.Empty(t, req.Headers)
}

func TestBuildFormEncodesData(t *testing.T) {
	headers := map[string]string{"accept": "application/json"}
	req := Build(Parameters{
		Server:  "https://echo.local",
		Method:  MethodPost,
		Headers: headers,
		Data:    map[string]any{"key": "value", "n": 1},
	})
	assert.True(t, req.HasBody())
	assert.Equal(t, "key=value&n=1", string(req.Body))
	assert.Equal(t, formContentType, req.Headers[headerContentType])
	assert.Equal(t, "application/json", req.Headers["accept"])
	// Caller headers are not mutated.
	assert.Len(t, headers, 1)
}

func TestBuildKeepsCallerContentType(t *testing.T) {
	req := Build(Parameters{
		Server:  "https://echo.local",
		Method:  MethodPut,
		Headers: map[string]string{"content-type": "text/plain"},
		Data:    map[string]any{"key": "value"},
	})
	assert.Equal(t, "text/plain", req.Headers["content-type"])
	_, added := req.Headers[headerContentType]
	assert.False(t, added)
}

func TestFormatValue(t *testing.T) {
	cases := map[string]struct {
		in   any
		want string
	}{
		"nil":    {nil, ""},
		"string": {"s", "s"},
		"bool":   {false, "false"},
		"int":    {7, "7"},
		"int64":  {int64(-3), "-3"},
		"float":  {1.25, "1.25"},
		"whole":  {2.0, "2"},
		"number": {json.Number("10"), "10"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatValue(tc.in))
		})
	}
}
