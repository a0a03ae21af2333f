// Package render prints API results for the command line.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jonesinator/crabigator/pkg/wanikani"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ParseFormat normalises a format name; "yml" is accepted for YAML.
func ParseFormat(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected json or yaml)", name)
	}
}

// Write encodes v to w in the given format.
func Write(w io.Writer, format string, v any) error {
	format, err := ParseFormat(format)
	if err != nil {
		return err
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}

// TypedItem pairs a mixed-list item with its discriminator so the output
// keeps the type the API sent.
type TypedItem struct {
	Type wanikani.ItemType `json:"type" yaml:"type"`
	Item wanikani.Item     `json:"item" yaml:"item"`
}

// Items tags every item with its type.
func Items(items []wanikani.Item) []TypedItem {
	out := make([]TypedItem, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, TypedItem{Type: it.ItemType(), Item: it})
	}
	return out
}
