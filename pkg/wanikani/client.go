// Package wanikani is a thin client for the WaniKani v1.4 REST API.
//
// Every endpoint is a method on Client that performs one GET and returns
// typed records. Dates become UTC times, comma-joined lists become string
// slices, and fields the service leaves out or sends as null stay nil.
//
//	c := wanikani.New(os.Getenv("WANIKANI_API_KEY"))
//	queue, err := c.StudyQueue(ctx)
//
// Errors are one of *TransportError, *DecodeError, *ServiceError or
// *SchemaLookupError; use errors.As to tell them apart.
package wanikani

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonesinator/crabigator/pkg/httpclient"
)

const (
	// APIVersion is substituted for {version} in the URL template.
	APIVersion = "1.4"

	// DefaultURLTemplate is the public WaniKani endpoint layout.
	DefaultURLTemplate = "https://www.wanikani.com/api/v{version}/user/{key}/{resource}/{argument}"
)

const (
	ResourceUserInformation  = "user-information"
	ResourceStudyQueue       = "study-queue"
	ResourceLevelProgression = "level-progression"
	ResourceSRSDistribution  = "srs-distribution"
	ResourceRecentUnlocks    = "recent-unlocks"
	ResourceCriticalItems    = "critical-items"
	ResourceRadicals         = "radicals"
	ResourceKanji            = "kanji"
	ResourceVocabulary       = "vocabulary"

	userInformationKey      = "user_information"
	requestedInformationKey = "requested_information"
)

// Client talks to the WaniKani API. It is immutable after New and safe for
// concurrent use.
type Client struct {
	apiKey      string
	urlTemplate string
	http        httpclient.Client
	headers     map[string]string
	log         Logger
}

// Option customises a Client.
type Option func(*Client)

// WithURLTemplate overrides DefaultURLTemplate. The template may use the
// {version}, {key}, {resource} and {argument} placeholders.
func WithURLTemplate(tmpl string) Option {
	return func(c *Client) {
		if strings.TrimSpace(tmpl) != "" {
			c.urlTemplate = tmpl
		}
	}
}

// WithHTTPClient swaps the transport.
func WithHTTPClient(client httpclient.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithHeaders adds headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			if k = strings.TrimSpace(k); k != "" {
				c.headers[k] = v
			}
		}
	}
}

// New builds a Client for apiKey. It does not contact the service and does
// not validate the key.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:      apiKey,
		urlTemplate: DefaultURLTemplate,
		headers:     map[string]string{"Accept": "application/json"},
		log:         noopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(httpclient.Options{})
	}
	return c
}

// RecentUnlocksQuery configures RecentUnlocks. A zero Limit lets the
// service pick its default.
type RecentUnlocksQuery struct {
	Limit int
}

// CriticalItemsQuery configures CriticalItems. A zero Percent lets the
// service pick its default.
type CriticalItemsQuery struct {
	Percent int
}

// UserInformation fetches the account profile.
func (c *Client) UserInformation(ctx context.Context) (*UserInformation, error) {
	return fetchRecord[UserInformation](ctx, c, ResourceUserInformation, userInformationKey)
}

// StudyQueue fetches pending lesson and review counts.
func (c *Client) StudyQueue(ctx context.Context) (*StudyQueue, error) {
	return fetchRecord[StudyQueue](ctx, c, ResourceStudyQueue, requestedInformationKey)
}

// LevelProgression fetches progress through the current level.
func (c *Client) LevelProgression(ctx context.Context) (*LevelProgression, error) {
	return fetchRecord[LevelProgression](ctx, c, ResourceLevelProgression, requestedInformationKey)
}

// SRSDistribution fetches item counts per SRS grade.
func (c *Client) SRSDistribution(ctx context.Context) (*SRSDistribution, error) {
	return fetchRecord[SRSDistribution](ctx, c, ResourceSRSDistribution, requestedInformationKey)
}

// RecentUnlocks fetches the most recently unlocked items of any type.
func (c *Client) RecentUnlocks(ctx context.Context, query RecentUnlocksQuery) ([]Item, error) {
	return c.fetchMixedItems(ctx, ResourceRecentUnlocks, positiveArgument(query.Limit))
}

// CriticalItems fetches items whose correct percentage is at or below Percent.
func (c *Client) CriticalItems(ctx context.Context, query CriticalItemsQuery) ([]Item, error) {
	return c.fetchMixedItems(ctx, ResourceCriticalItems, positiveArgument(query.Percent))
}

// Radicals fetches radicals for the given levels, or the service default
// when none are given.
func (c *Client) Radicals(ctx context.Context, levels ...int) ([]*Radical, error) {
	return fetchLevelItems[Radical](ctx, c, ResourceRadicals, levels)
}

// Kanji fetches kanji for the given levels.
func (c *Client) Kanji(ctx context.Context, levels ...int) ([]*Kanji, error) {
	return fetchLevelItems[Kanji](ctx, c, ResourceKanji, levels)
}

// Vocabulary fetches vocabulary for the given levels.
func (c *Client) Vocabulary(ctx context.Context, levels ...int) ([]*Vocabulary, error) {
	return fetchLevelItems[Vocabulary](ctx, c, ResourceVocabulary, levels)
}

func fetchRecord[T any, PT interface {
	*T
	schemer
}](ctx context.Context, c *Client, resource, key string) (*T, error) {
	raw, err := c.payload(ctx, resource, "", key)
	if err != nil {
		return nil, err
	}
	rec, err := decodeRecord[T, PT](raw)
	if err != nil {
		return nil, &DecodeError{Resource: resource, Err: err}
	}
	return rec, nil
}

func fetchLevelItems[T any, PT interface {
	*T
	schemer
}](ctx context.Context, c *Client, resource string, levels []int) ([]*T, error) {
	raw, err := c.payload(ctx, resource, joinLevels(levels), requestedInformationKey)
	if err != nil {
		return nil, err
	}
	items, err := decodeLevelItems[T, PT](raw)
	if err != nil {
		return nil, &DecodeError{Resource: resource, Err: err}
	}
	return items, nil
}

func (c *Client) fetchMixedItems(ctx context.Context, resource, argument string) ([]Item, error) {
	raw, err := c.payload(ctx, resource, argument, requestedInformationKey)
	if err != nil {
		return nil, err
	}
	items, err := decodeMixedItems(raw)
	if err != nil {
		if _, ok := err.(*SchemaLookupError); ok {
			return nil, err
		}
		return nil, &DecodeError{Resource: resource, Err: err}
	}
	return items, nil
}

// payload performs the request and returns the value under key.
func (c *Client) payload(ctx context.Context, resource, argument, key string) (json.RawMessage, error) {
	envelope, err := c.rawRequest(ctx, resource, argument)
	if err != nil {
		return nil, err
	}
	raw, ok := envelope[key]
	if !ok {
		return nil, &DecodeError{Resource: resource, Err: fmt.Errorf("response has no %q payload", key)}
	}
	return raw, nil
}

// rawRequest issues the GET and returns the decoded top-level object, or the
// service error when the object carries an "error" key.
func (c *Client) rawRequest(ctx context.Context, resource, argument string) (map[string]json.RawMessage, error) {
	if c == nil {
		return nil, fmt.Errorf("wanikani client is nil")
	}

	c.log.DebugObj("wanikani request", "wanikani_request", map[string]any{
		"resource": resource,
		"argument": argument,
	})

	resp, err := c.http.Get(ctx, c.buildURL(resource, argument), c.headers)
	if err != nil {
		return nil, &TransportError{Resource: resource, Err: err}
	}

	body := resp.Body()
	if status := resp.StatusCode(); status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, &TransportError{Resource: resource, StatusCode: status, Body: responseSnippet(body)}
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &DecodeError{Resource: resource, Err: err}
	}

	if raw, ok := envelope["error"]; ok {
		svcErr := newServiceError(raw)
		c.log.WarnObj("wanikani service error", "wanikani_error", map[string]any{
			"resource": resource,
			"code":     svcErr.Code,
			"message":  svcErr.Message,
		})
		return nil, svcErr
	}

	c.log.DebugObj("wanikani response", "wanikani_response", map[string]any{
		"resource":   resource,
		"body_bytes": len(body),
	})
	return envelope, nil
}

// buildURL fills the template. Values are inserted verbatim so that level
// lists keep their commas.
func (c *Client) buildURL(resource, argument string) string {
	return strings.NewReplacer(
		"{version}", APIVersion,
		"{key}", c.apiKey,
		"{resource}", resource,
		"{argument}", argument,
	).Replace(c.urlTemplate)
}

func positiveArgument(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func joinLevels(levels []int) string {
	parts := make([]string, len(levels))
	for i, lvl := range levels {
		parts[i] = strconv.Itoa(lvl)
	}
	return strings.Join(parts, ",")
}
