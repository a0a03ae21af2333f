package publishers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePublishersFile(t *testing.T, name, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadRegistryEnabledFilter(t *testing.T) {
	path := writePublishersFile(t, "publishers.yaml", `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: HTTP
    http:
      url: " https://example.com/2 "
      headers:
        X-Token: abc
        "": dropped
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
	cfg := enabled[0]
	if cfg.Type != TypeHTTP || cfg.HTTP.URL != "https://example.com/2" {
		t.Fatalf("entry not sanitized: %+v", cfg.HTTP)
	}
	if cfg.HTTP.Method != httpDefaultMethod || cfg.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("defaults not applied: %+v", cfg.HTTP)
	}
	if len(cfg.HTTP.Headers) != 1 {
		t.Fatalf("empty header should be dropped: %v", cfg.HTTP.Headers)
	}
	if _, ok := reg.ByID("http1"); !ok {
		t.Fatalf("disabled publishers are still addressable by id")
	}
}

func TestLoadRegistryTOML(t *testing.T) {
	path := writePublishersFile(t, "publishers.toml", `
[[publishers]]
id = "queue"
type = "sqs"

[publishers.sqs]
uri = "https://sqs.us-east-1.amazonaws.com/123/unlocks"
region = "us-east-1"

[[publishers]]
id = "chat"
type = "telegram"

[publishers.telegram]
token = "123:abc"
chat_id = -1001
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	all := reg.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 publishers, got %d", len(all))
	}
	if all[0].SQS == nil || all[0].SQS.Region != "us-east-1" {
		t.Fatalf("sqs block not decoded: %+v", all[0])
	}
	if all[1].Telegram == nil || all[1].Telegram.ChatID != -1001 {
		t.Fatalf("telegram block not decoded: %+v", all[1])
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writePublishersFile(t, "publishers.json", `{"publishers":[
		{"id":"topic","type":"sns","sns":{"topic_arn":"arn:aws:sns:us-east-1:1:t","region":"us-east-1"}},
		{"id":"ps","type":"gcp_pubsub","gcp_pubsub":{"project_id":"p","topic":"t"}}
	]}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if cfg, ok := reg.ByID("ps"); !ok || cfg.GCPPubSub.Topic != "t" {
		t.Fatalf("ByID(ps) = %+v, %v", cfg, ok)
	}
}

func TestLoadRegistryErrors(t *testing.T) {
	cases := map[string]struct {
		name string
		raw  string
		want string
	}{
		"empty list":  {name: "p.yaml", raw: "publishers: []", want: "no publishers"},
		"duplicate":   {name: "p.yaml", raw: "publishers:\n  - {id: a, type: http, http: {url: x}}\n  - {id: a, type: http, http: {url: y}}", want: "duplicate"},
		"bad syntax":  {name: "p.json", raw: "{", want: "decode json"},
		"unknown ext": {name: "p.ini", raw: "x=1", want: "not recognized"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadRegistry(writePublishersFile(t, tc.name, tc.raw))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}

	if _, err := LoadRegistry("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestValidatePublisherConfig(t *testing.T) {
	cases := map[string]PublisherConfig{
		"missing id":        {Type: TypeHTTP},
		"missing type":      {ID: "x"},
		"unknown type":      {ID: "x", Type: "smoke-signal"},
		"missing http":      {ID: "x", Type: TypeHTTP},
		"sqs no region":     {ID: "x", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "u"}},
		"sns no arn":        {ID: "x", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "r"}},
		"pubsub no topic":   {ID: "x", Type: TypeGCPPubSub, GCPPubSub: &GCPPubSubPublisherConfig{ProjectID: "p"}},
		"telegram no chat":  {ID: "x", Type: TypeTelegram, Telegram: &TelegramPublisherConfig{Token: "t"}},
		"telegram no token": {ID: "x", Type: TypeTelegram, Telegram: &TelegramPublisherConfig{ChatID: 1}},
	}
	for name, cfg := range cases {
		if err := validatePublisherConfig(cfg); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
