package httpmethods

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	headerContentType = "Content-Type"
	formContentType   = "application/x-www-form-urlencoded"
)

// PreparedRequest is a fully specified request ready for a Transport.
type PreparedRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	// Body is nil when no data was supplied.
	Body []byte
}

// HasBody reports whether the request carries a body.
func (r PreparedRequest) HasBody() bool { return r.Body != nil }

// Build turns parameters into a request. It performs no validation: a malformed server shows
// up later as a transport failure.
func Build(p Parameters) PreparedRequest {
	req := PreparedRequest{
		Method:  p.Method,
		URL:     p.Server + p.Path() + QueryString(p.Query),
		Headers: copyHeaders(p.Headers),
	}

	if len(p.Data) > 0 {
		req.Body = []byte(encodeForm(p.Data))
		if !hasHeader(req.Headers, headerContentType) {
			if req.Headers == nil {
				req.Headers = make(map[string]string, 1)
			}
			req.Headers[headerContentType] = formContentType
		}
	}

	return req
}

// QueryString renders q as "?k1=v1&k2=v2" with keys in sorted order, or "" when q is empty.
// Pairs are joined as written; only bytes that cannot appear in a URL are percent-encoded, so
// "a b" becomes "a%20b" while "&", "=" and existing %XX escapes pass through.
func QueryString(q map[string]any) string {
	if len(q) == 0 {
		return ""
	}
	keys := sortedKeys(q)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+FormatValue(q[k]))
	}
	return "?" + requote(strings.Join(pairs, "&"))
}

// uriReserved are the characters left alone by requote besides letters, digits and "-._~".
const uriReserved = "!#$&'()*+,/:;=?@[]~"

func requote(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(c)
		case c != '%' && (isUnreserved(c) || strings.IndexByte(uriReserved, c) >= 0):
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// FormatValue converts a scalar to its textual form.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case json.Number:
		return val.String()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func encodeForm(data map[string]any) string {
	values := make(url.Values, len(data))
	for k, v := range data {
		values.Set(k, FormatValue(v))
	}
	return values.Encode()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyHeaders(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}
