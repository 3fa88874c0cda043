// Package params turns declarative invocation input (files or flags) into validated
// httpmethods.Parameters.
package params

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samvad-hq/http-methods/pkg/httpmethods"
	"gopkg.in/yaml.v3"
)

// validate is shared; validator caches struct metadata.
var validate = validator.New()

// Invocation is the declarative record of one request as written by a caller. Unset fields take defaults.
type Invocation struct {
	Server      string            `json:"server,omitempty" yaml:"server" jsonschema:"description=Base URL of the echo service,format=uri"`
	Method      string            `json:"method,omitempty" yaml:"method" jsonschema:"enum=GET,enum=POST,enum=PATCH,enum=PUT,enum=DELETE,default=GET"`
	Headers     map[string]string `json:"headers,omitempty" yaml:"headers" jsonschema:"description=Request headers; defaults to accept: application/json"`
	Data        map[string]any    `json:"data,omitempty" yaml:"data" jsonschema:"description=Form fields sent as the request body"`
	Query       map[string]any    `json:"query,omitempty" yaml:"query" jsonschema:"description=Query parameters appended to the URL"`
	IgnoreCerts *bool             `json:"ignore_certs,omitempty" yaml:"ignore_certs" jsonschema:"default=false"`
	Timeout     *int              `json:"timeout,omitempty" yaml:"timeout" jsonschema:"description=Timeout in seconds,minimum=1,default=15"`
	CheckMode   bool              `json:"check_mode,omitempty" yaml:"check_mode" jsonschema:"description=Dry run: do not send the request"`
}

// Defaults are applied to unset Invocation fields.
type Defaults struct {
	Server         string
	TimeoutSeconds int
}

// resolved mirrors httpmethods.Parameters with validation tags.
type resolved struct {
	Server         string `validate:"required,url"`
	Method         string `validate:"required,oneof=GET POST PATCH PUT DELETE"`
	TimeoutSeconds int    `validate:"gt=0"`
}

// Resolve fills defaults and validates the invocation.
func Resolve(s Invocation, d Defaults) (httpmethods.Parameters, error) {
	p := httpmethods.Parameters{
		Server:         strings.TrimSpace(s.Server),
		Method:         strings.ToUpper(strings.TrimSpace(s.Method)),
		Headers:        s.Headers,
		Data:           s.Data,
		Query:          s.Query,
		TimeoutSeconds: d.TimeoutSeconds,
	}
	if p.Server == "" {
		p.Server = d.Server
	}
	if p.Server == "" {
		p.Server = httpmethods.DefaultServer
	}
	if p.Method == "" {
		p.Method = httpmethods.DefaultMethod
	}
	if p.Headers == nil {
		p.Headers = httpmethods.DefaultHeaders()
	}
	if s.IgnoreCerts != nil {
		p.IgnoreCerts = *s.IgnoreCerts
	}
	if s.Timeout != nil {
		p.TimeoutSeconds = *s.Timeout
	} else if p.TimeoutSeconds == 0 {
		p.TimeoutSeconds = httpmethods.DefaultTimeoutSeconds
	}

	if err := validate.Struct(resolved{
		Server:         p.Server,
		Method:         p.Method,
		TimeoutSeconds: p.TimeoutSeconds,
	}); err != nil {
		return httpmethods.Parameters{}, fmt.Errorf("invalid parameters: %w", err)
	}
	if err := checkScalars("data", p.Data); err != nil {
		return httpmethods.Parameters{}, err
	}
	if err := checkScalars("query", p.Query); err != nil {
		return httpmethods.Parameters{}, err
	}
	return p, nil
}

func checkScalars(field string, m map[string]any) error {
	for k, v := range m {
		switch v.(type) {
		case nil, string, bool, int, int64, uint64, float64, json.Number:
		default:
			return fmt.Errorf("invalid parameters: %s.%s must be a scalar, got %T", field, k, v)
		}
	}
	return nil
}

// Load reads an Invocation from a YAML or JSON file.
func Load(path string) (Invocation, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Invocation{}, errors.New("params file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return Invocation{}, fmt.Errorf("open params file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return Invocation{}, fmt.Errorf("read params file: %w", err)
	}
	return Parse(raw, filepath.Ext(path))
}

// Parse decodes raw invocation content. ext selects the decoder; an empty ext tries YAML then JSON.
func Parse(data []byte, ext string) (Invocation, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: unmarshalJSON},
	}

	var errs []error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var s Invocation
		if err := d.fn(data, &s); err != nil {
			errs = append(errs, fmt.Errorf("decode %s params: %w", d.name, err))
			continue
		}
		return s, nil
	}
	if len(errs) == 0 {
		return Invocation{}, fmt.Errorf("params file format %q not recognized (expected YAML or JSON)", ext)
	}
	return Invocation{}, errors.Join(errs...)
}

func unmarshalJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// ParseHeaders parses "key=value" pairs into a string map.
func ParseHeaders(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, err := splitPair(pair)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// ParsePairs parses "key=value" pairs into a scalar map. Values are kept as the exact text
// after the first "=", so "zip=007" is sent as 007.
func ParsePairs(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		k, v, err := splitPair(pair)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func splitPair(pair string) (string, string, error) {
	k, v, ok := strings.Cut(pair, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return "", "", fmt.Errorf("invalid pair %q (expected key=value)", pair)
	}
	return k, v, nil
}
