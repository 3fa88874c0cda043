package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samvad-hq/http-methods/pkg/httpmethods"
	"github.com/tidwall/gjson"
)

// Select extracts the value at a gjson path from the result. Paths are evaluated against
// {"status", "headers", "body", "outcome", "msg"}; e.g. "body.form.key" or "headers.Content-Type".
func Select(res httpmethods.Result, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("select path is empty")
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	val := gjson.GetBytes(raw, path)
	if !val.Exists() {
		return "", fmt.Errorf("path %q not found in result", path)
	}
	if val.Type == gjson.String {
		return val.Str, nil
	}
	return val.Raw, nil
}
