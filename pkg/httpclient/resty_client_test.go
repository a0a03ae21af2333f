package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRestyClientGetReturnsBodyAndStatus(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	c := NewRestyClient(Options{Timeout: 2 * time.Second})
	resp, err := c.Get(context.Background(), srv.URL, map[string]string{"Accept": "application/json"})
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if resp.StatusCode() != http.StatusTeapot {
		t.Fatalf("status = %d, want %d", resp.StatusCode(), http.StatusTeapot)
	}
	if string(resp.Body()) != `{"ok":true}` {
		t.Fatalf("body = %q", resp.Body())
	}
	if gotUA != DefaultUserAgent {
		t.Fatalf("User-Agent = %q, want %q", gotUA, DefaultUserAgent)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q", gotAccept)
	}
}

func TestRestyClientGetTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewRestyClient(Options{Timeout: time.Second})
	if _, err := c.Get(context.Background(), url, nil); err == nil {
		t.Fatalf("expected error for closed server")
	}
}

func TestNormalizeOptionsDefaults(t *testing.T) {
	opts := normalizeOptions(Options{UserAgent: "  "})
	if opts.Timeout != DefaultTimeout {
		t.Fatalf("timeout = %v, want %v", opts.Timeout, DefaultTimeout)
	}
	if opts.UserAgent != DefaultUserAgent {
		t.Fatalf("user agent = %q", opts.UserAgent)
	}
}
