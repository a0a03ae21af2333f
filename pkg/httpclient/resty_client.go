package httpclient

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "crabigator/1.0"
)

// Options tunes the resty-backed transport. Zero values fall back to defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// RestyClient adapts resty.Client to the Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient builds a RestyClient. Retries stay disabled: every Get is a
// single exchange.
func NewRestyClient(opts Options) *RestyClient {
	return &RestyClient{client: NewRestyHTTPClient(opts)}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing other verbs.
func NewRestyHTTPClient(opts Options) *resty.Client {
	opts = normalizeOptions(opts)
	c := resty.New()
	c.SetTimeout(opts.Timeout)
	c.SetRetryCount(0)
	c.SetHeader("User-Agent", opts.UserAgent)
	return c
}

func normalizeOptions(opts Options) Options {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	opts.UserAgent = strings.TrimSpace(opts.UserAgent)
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return opts
}

// Get performs a GET with the given context, URL and extra headers.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
