package wanikani

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TransportError reports a failed exchange with the API: either the request
// never completed (Err is set) or the server answered with a non-2xx status.
type TransportError struct {
	Resource   string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("wanikani %s returned status %d body: %s", e.Resource, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("wanikani %s request: %v", e.Resource, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a response body that is not JSON or does not have the
// shape the resource promises.
type DecodeError struct {
	Resource string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode wanikani %s response: %v", e.Resource, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ServiceError carries the "error" envelope returned by the API itself.
// Code and Message are empty when the service omits them.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Code + " - " + e.Message
}

// SchemaLookupError is returned when a mixed item list contains an entry
// whose type is not radical, kanji or vocabulary.
type SchemaLookupError struct {
	Type string
}

func (e *SchemaLookupError) Error() string {
	if e.Type == "" {
		return "wanikani item has no type"
	}
	return fmt.Sprintf("unknown wanikani item type %q", e.Type)
}

func newServiceError(raw json.RawMessage) *ServiceError {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return &ServiceError{}
	}
	return &ServiceError{
		Code:    rawText(fields["code"]),
		Message: rawText(fields["message"]),
	}
}

// rawText renders a JSON scalar as text: strings unquoted, anything else as
// its literal JSON.
func rawText(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
