package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Supported sink types.
const (
	TypeSQS    = "sqs"
	TypeSNS    = "sns"
	TypePubSub = "pubsub"
	TypeHTTP   = "http"
)

const (
	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

var validate = validator.New()

// Config is the decoded publishers file.
type Config struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers" validate:"required,min=1,unique=ID,dive"`
}

// PublisherConfig declares one result sink. Only the block matching Type is used.
type PublisherConfig struct {
	ID      string                 `json:"id" yaml:"id" validate:"required"`
	Type    string                 `json:"type" yaml:"type" validate:"required,oneof=http sqs sns pubsub"`
	Enabled *bool                  `json:"enabled" yaml:"enabled"`
	SQS     *SQSPublisherConfig    `json:"sqs" yaml:"sqs"`
	SNS     *SNSPublisherConfig    `json:"sns" yaml:"sns"`
	PubSub  *PubSubPublisherConfig `json:"pubsub" yaml:"pubsub"`
	HTTP    *HTTPPublisherConfig   `json:"http" yaml:"http"`
}

// AWSCredentials optionally pins static keys instead of the default credential chain.
type AWSCredentials struct {
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	SessionToken    string `json:"session_token" yaml:"session_token"`
}

// SQSPublisherConfig holds AWS SQS specific settings. MessageGroupID is used for FIFO queues
// only and defaults to the request method.
type SQSPublisherConfig struct {
	QueueURL       string `json:"uri" yaml:"uri" validate:"required,url"`
	Region         string `json:"region" yaml:"region" validate:"required"`
	MessageGroupID string `json:"message_group_id" yaml:"message_group_id"`
	AWSCredentials `yaml:",inline"`
}

// SNSPublisherConfig holds AWS SNS specific settings. MessageGroupID is used for FIFO topics
// only and defaults to the request method.
type SNSPublisherConfig struct {
	TopicARN       string `json:"topic_arn" yaml:"topic_arn" validate:"required,startswith=arn:"`
	Region         string `json:"region" yaml:"region" validate:"required"`
	MessageGroupID string `json:"message_group_id" yaml:"message_group_id"`
	AWSCredentials `yaml:",inline"`
}

// PubSubPublisherConfig holds GCP Pub/Sub specific settings.
type PubSubPublisherConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id" validate:"required"`
	Topic           string `json:"topic" yaml:"topic" validate:"required"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// HTTPPublisherConfig holds generic webhook settings for result reports.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url" validate:"required,url"`
	Method         string            `json:"method" yaml:"method" validate:"omitempty,oneof=POST PUT PATCH"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// LoadConfig reads a publishers file. YAML and JSON are accepted; ${VAR} references are
// expanded from the environment before decoding so credentials can stay out of the file.
func LoadConfig(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}
	return ParseConfig([]byte(os.ExpandEnv(string(raw))), filepath.Ext(path))
}

// ParseConfig decodes, normalizes and validates publishers file content.
func ParseConfig(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("decode json publishers: %w", err)
		}
	case ".yaml", ".yml", "":
		// YAML is a superset of JSON, so extension-less files go through yaml.v3.
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("decode yaml publishers: %w", err)
		}
	default:
		return nil, fmt.Errorf("publishers file extension %q not supported (expected .yaml, .yml or .json)", ext)
	}

	for i := range cfg.Publishers {
		cfg.Publishers[i] = sanitizePublisherConfig(cfg.Publishers[i])
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid publishers file: %w", err)
	}
	for _, p := range cfg.Publishers {
		if err := requireBlock(p); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// sanitizePublisherConfig trims fields and applies defaults.
func sanitizePublisherConfig(cfg PublisherConfig) PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))

	if cfg.SQS != nil {
		c := *cfg.SQS
		c.QueueURL = strings.TrimSpace(c.QueueURL)
		c.Region = strings.TrimSpace(c.Region)
		c.MessageGroupID = strings.TrimSpace(c.MessageGroupID)
		c.AWSCredentials = c.AWSCredentials.trimmed()
		cfg.SQS = &c
	}
	if cfg.SNS != nil {
		c := *cfg.SNS
		c.TopicARN = strings.TrimSpace(c.TopicARN)
		c.Region = strings.TrimSpace(c.Region)
		c.MessageGroupID = strings.TrimSpace(c.MessageGroupID)
		c.AWSCredentials = c.AWSCredentials.trimmed()
		cfg.SNS = &c
	}
	if cfg.PubSub != nil {
		c := *cfg.PubSub
		c.ProjectID = strings.TrimSpace(c.ProjectID)
		c.Topic = strings.TrimSpace(c.Topic)
		c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
		cfg.PubSub = &c
	}
	if cfg.HTTP != nil {
		c := *cfg.HTTP
		c.URL = strings.TrimSpace(c.URL)
		c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
		if c.Method == "" {
			c.Method = httpDefaultMethod
		}
		if c.TimeoutSeconds <= 0 {
			c.TimeoutSeconds = httpDefaultTimeoutSeconds
		}
		headers := make(map[string]string, len(c.Headers))
		for k, v := range c.Headers {
			if k, v = strings.TrimSpace(k), strings.TrimSpace(v); k != "" && v != "" {
				headers[k] = v
			}
		}
		c.Headers = headers
		cfg.HTTP = &c
	}
	return cfg
}

func (c AWSCredentials) trimmed() AWSCredentials {
	return AWSCredentials{
		AccessKeyID:     strings.TrimSpace(c.AccessKeyID),
		SecretAccessKey: strings.TrimSpace(c.SecretAccessKey),
		SessionToken:    strings.TrimSpace(c.SessionToken),
	}
}

// requireBlock checks that the settings block for the declared type is present.
func requireBlock(cfg PublisherConfig) error {
	present := map[string]bool{
		TypeSQS:    cfg.SQS != nil,
		TypeSNS:    cfg.SNS != nil,
		TypePubSub: cfg.PubSub != nil,
		TypeHTTP:   cfg.HTTP != nil,
	}
	if !present[cfg.Type] {
		return fmt.Errorf("publisher %q: %s block is required for type %q", cfg.ID, cfg.Type, cfg.Type)
	}
	return nil
}

// validatePublisherConfig validates a single declaration outside of a file.
func validatePublisherConfig(cfg PublisherConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("publisher %q: %w", cfg.ID, err)
	}
	return requireBlock(cfg)
}

// Enabled returns the declarations that are switched on. Enabled defaults to true.
func (c *Config) Enabled() []PublisherConfig {
	if c == nil {
		return nil
	}
	out := make([]PublisherConfig, 0, len(c.Publishers))
	for _, p := range c.Publishers {
		if p.Enabled == nil || *p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// ByID looks up a declaration.
func (c *Config) ByID(id string) (PublisherConfig, bool) {
	if c == nil {
		return PublisherConfig{}, false
	}
	for _, p := range c.Publishers {
		if p.ID == id {
			return p, true
		}
	}
	return PublisherConfig{}, false
}
