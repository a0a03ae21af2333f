package httpclient

import "context"

// Response is the part of an HTTP response the API client reads.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts GET calls so callers can inject fakes or other transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}
