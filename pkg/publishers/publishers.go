package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// Supported publisher types.
	TypeHTTP      = "http"
	TypeSQS       = "sqs"
	TypeSNS       = "sns"
	TypeGCPPubSub = "gcp_pubsub"
	TypeTelegram  = "telegram"

	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

type registryFile struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers" toml:"publishers"`
}

// PublisherConfig is one publisher entry of the registry file. Exactly the
// block matching Type is consulted.
type PublisherConfig struct {
	ID        string                    `json:"id" yaml:"id" toml:"id"`
	Type      string                    `json:"type" yaml:"type" toml:"type"`
	Enabled   *bool                     `json:"enabled" yaml:"enabled" toml:"enabled"`
	HTTP      *HTTPPublisherConfig      `json:"http" yaml:"http" toml:"http"`
	SQS       *SQSPublisherConfig       `json:"sqs" yaml:"sqs" toml:"sqs"`
	SNS       *SNSPublisherConfig       `json:"sns" yaml:"sns" toml:"sns"`
	GCPPubSub *GCPPubSubPublisherConfig `json:"gcp_pubsub" yaml:"gcp_pubsub" toml:"gcp_pubsub"`
	Telegram  *TelegramPublisherConfig  `json:"telegram" yaml:"telegram" toml:"telegram"`
}

// HTTPPublisherConfig holds webhook settings.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url" toml:"url"`
	Method         string            `json:"method" yaml:"method" toml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers" toml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
}

// SQSPublisherConfig holds AWS SQS settings. Static keys are optional; the
// default credential chain is used without them.
type SQSPublisherConfig struct {
	QueueURL        string `json:"uri" yaml:"uri" toml:"uri"`
	Region          string `json:"region" yaml:"region" toml:"region"`
	Endpoint        string `json:"endpoint" yaml:"endpoint" toml:"endpoint"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id" toml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key" toml:"secret_access_key"`
}

// SNSPublisherConfig holds AWS SNS settings.
type SNSPublisherConfig struct {
	TopicARN        string `json:"topic_arn" yaml:"topic_arn" toml:"topic_arn"`
	Region          string `json:"region" yaml:"region" toml:"region"`
	Endpoint        string `json:"endpoint" yaml:"endpoint" toml:"endpoint"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id" toml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key" toml:"secret_access_key"`
}

// GCPPubSubPublisherConfig holds Google Cloud Pub/Sub settings.
type GCPPubSubPublisherConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id" toml:"project_id"`
	Topic           string `json:"topic" yaml:"topic" toml:"topic"`
	Endpoint        string `json:"endpoint" yaml:"endpoint" toml:"endpoint"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file" toml:"credentials_file"`
}

// TelegramPublisherConfig holds Telegram bot settings.
type TelegramPublisherConfig struct {
	Token       string `json:"token" yaml:"token" toml:"token"`
	ChatID      int64  `json:"chat_id" yaml:"chat_id" toml:"chat_id"`
	APIEndpoint string `json:"api_endpoint" yaml:"api_endpoint" toml:"api_endpoint"`
}

// ConfigRegistry holds the publisher definitions loaded from a file.
type ConfigRegistry struct {
	mu         sync.RWMutex
	publishers []PublisherConfig
	idx        map[string]PublisherConfig
}

// LoadRegistry reads a YAML, JSON or TOML publishers file. The extension
// picks the decoder; without one every decoder is tried in turn.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	file, err := decodeRegistryFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(file.Publishers) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}
	return newConfigRegistry(file.Publishers)
}

func newConfigRegistry(entries []PublisherConfig) (*ConfigRegistry, error) {
	reg := &ConfigRegistry{
		publishers: make([]PublisherConfig, 0, len(entries)),
		idx:        make(map[string]PublisherConfig, len(entries)),
	}
	for i, entry := range entries {
		cfg := sanitizePublisherConfig(entry)
		if err := validatePublisherConfig(cfg); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := reg.idx[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		reg.publishers = append(reg.publishers, cfg)
		reg.idx[cfg.ID] = cfg
	}
	return reg, nil
}

type fileDecoder struct {
	name string
	exts []string
	fn   func([]byte, any) error
}

var fileDecoders = []fileDecoder{
	{name: "yaml", exts: []string{".yaml", ".yml"}, fn: yaml.Unmarshal},
	{name: "json", exts: []string{".json"}, fn: json.Unmarshal},
	{name: "toml", exts: []string{".toml"}, fn: toml.Unmarshal},
}

func decodeRegistryFile(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	var errs []error
	for _, d := range fileDecoders {
		if ext != "" && !d.handles(ext) {
			continue
		}
		var file registryFile
		if err := d.fn(data, &file); err != nil {
			errs = append(errs, fmt.Errorf("decode %s publishers: %w", d.name, err))
			continue
		}
		return file, nil
	}
	if len(errs) == 0 {
		return registryFile{}, fmt.Errorf("publishers file extension %q not recognized (expected YAML, JSON or TOML)", ext)
	}
	return registryFile{}, errors.Join(errs...)
}

func (d fileDecoder) handles(ext string) bool {
	for _, e := range d.exts {
		if e == ext {
			return true
		}
	}
	return false
}

func sanitizePublisherConfig(cfg PublisherConfig) PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if cfg.Enabled == nil {
		on := true
		cfg.Enabled = &on
	}

	if cfg.HTTP != nil {
		c := *cfg.HTTP
		c.URL = strings.TrimSpace(c.URL)
		c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
		if c.Method == "" {
			c.Method = httpDefaultMethod
		}
		c.Headers = sanitizeHeaders(c.Headers)
		if c.TimeoutSeconds <= 0 {
			c.TimeoutSeconds = httpDefaultTimeoutSeconds
		}
		cfg.HTTP = &c
	}
	if cfg.SQS != nil {
		c := *cfg.SQS
		c.QueueURL = strings.TrimSpace(c.QueueURL)
		c.Region = strings.TrimSpace(c.Region)
		c.Endpoint = strings.TrimSpace(c.Endpoint)
		cfg.SQS = &c
	}
	if cfg.SNS != nil {
		c := *cfg.SNS
		c.TopicARN = strings.TrimSpace(c.TopicARN)
		c.Region = strings.TrimSpace(c.Region)
		c.Endpoint = strings.TrimSpace(c.Endpoint)
		cfg.SNS = &c
	}
	if cfg.GCPPubSub != nil {
		c := *cfg.GCPPubSub
		c.ProjectID = strings.TrimSpace(c.ProjectID)
		c.Topic = strings.TrimSpace(c.Topic)
		c.Endpoint = strings.TrimSpace(c.Endpoint)
		c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
		cfg.GCPPubSub = &c
	}
	if cfg.Telegram != nil {
		c := *cfg.Telegram
		c.Token = strings.TrimSpace(c.Token)
		c.APIEndpoint = strings.TrimSpace(c.APIEndpoint)
		cfg.Telegram = &c
	}
	return cfg
}

// sanitizeHeaders trims and removes empty headers.
func sanitizeHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		key, val := strings.TrimSpace(k), strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func validatePublisherConfig(cfg PublisherConfig) error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	missing := func(field string) error {
		return fmt.Errorf("%s is required for publisher %q", field, cfg.ID)
	}

	switch cfg.Type {
	case "":
		return missing("type")
	case TypeHTTP:
		switch {
		case cfg.HTTP == nil:
			return missing("http block")
		case cfg.HTTP.URL == "":
			return missing("http.url")
		}
	case TypeSQS:
		switch {
		case cfg.SQS == nil:
			return missing("sqs block")
		case cfg.SQS.QueueURL == "":
			return missing("sqs.uri")
		case cfg.SQS.Region == "":
			return missing("sqs.region")
		}
	case TypeSNS:
		switch {
		case cfg.SNS == nil:
			return missing("sns block")
		case cfg.SNS.TopicARN == "":
			return missing("sns.topic_arn")
		case cfg.SNS.Region == "":
			return missing("sns.region")
		}
	case TypeGCPPubSub:
		switch {
		case cfg.GCPPubSub == nil:
			return missing("gcp_pubsub block")
		case cfg.GCPPubSub.ProjectID == "":
			return missing("gcp_pubsub.project_id")
		case cfg.GCPPubSub.Topic == "":
			return missing("gcp_pubsub.topic")
		}
	case TypeTelegram:
		switch {
		case cfg.Telegram == nil:
			return missing("telegram block")
		case cfg.Telegram.Token == "":
			return missing("telegram.token")
		case cfg.Telegram.ChatID == 0:
			return missing("telegram.chat_id")
		}
	default:
		return fmt.Errorf("unknown type %q for publisher %q", cfg.Type, cfg.ID)
	}
	return nil
}

// ByID returns the publisher config by id.
func (r *ConfigRegistry) ByID(id string) (PublisherConfig, bool) {
	if r == nil {
		return PublisherConfig{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.idx[strings.TrimSpace(id)]
	return cfg, ok
}

// All returns all configured publishers in file order.
func (r *ConfigRegistry) All() []PublisherConfig {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]PublisherConfig, len(r.publishers))
	copy(out, r.publishers)
	return out
}

// Enabled returns the enabled subset of All.
func (r *ConfigRegistry) Enabled() []PublisherConfig {
	var out []PublisherConfig
	for _, cfg := range r.All() {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}

// EnabledValue returns the enabled flag, defaulting to true.
func (cfg PublisherConfig) EnabledValue() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}
