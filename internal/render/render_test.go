package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonesinator/crabigator/pkg/wanikani"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestParseFormat(t *testing.T) {
	cases := map[string]string{"": FormatJSON, "JSON": FormatJSON, "yaml": FormatYAML, " yml ": FormatYAML}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	user := &wanikani.UserInformation{Username: strPtr("crabigator"), Level: intPtr(3)}
	if err := Write(&buf, FormatJSON, user); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"username": "crabigator"`) || !strings.Contains(out, `"level": 3`) {
		t.Fatalf("unexpected json:\n%s", out)
	}
}

func TestWriteYAMLItems(t *testing.T) {
	var buf bytes.Buffer
	items := Items([]wanikani.Item{
		&wanikani.Kanji{Character: strPtr("上"), Meaning: []string{"above", "up"}, Level: intPtr(1)},
		nil,
		&wanikani.Radical{Character: strPtr("一"), Level: intPtr(1)},
	})
	if len(items) != 2 {
		t.Fatalf("nil items should be dropped, got %d", len(items))
	}
	if err := Write(&buf, FormatYAML, items); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"- type: kanji", "character: 上", "- above", "- type: radical"} {
		if !strings.Contains(out, want) {
			t.Fatalf("yaml missing %q:\n%s", want, out)
		}
	}
}

func TestWriteRejectsUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, "csv", nil); err == nil {
		t.Fatalf("expected error for csv")
	}
}
