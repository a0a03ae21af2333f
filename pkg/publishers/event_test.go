package publishers

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEventKeyFollowsPayload(t *testing.T) {
	if got := sampleUnlockEvent().Key(); got != "unlock:kanji:1:上" {
		t.Fatalf("unlock key = %q", got)
	}
	if got := sampleReviewsEvent().Key(); got != "reviews:1400003600" {
		t.Fatalf("reviews key = %q", got)
	}
	if got := (Event{Kind: EventUnlock}).Key(); got != "" {
		t.Fatalf("empty event key = %q", got)
	}
}

func TestEventText(t *testing.T) {
	unlock := sampleUnlockEvent().Text()
	for _, want := range []string{"crabigator unlocked kanji 上 (level 1)", "above, up, over", "[じょう]"} {
		if !strings.Contains(unlock, want) {
			t.Fatalf("unlock text %q missing %q", unlock, want)
		}
	}

	reviews := sampleReviewsEvent().Text()
	want := "crabigator has 12 reviews waiting (3 more within the hour), 4 lessons available"
	if reviews != want {
		t.Fatalf("reviews text = %q, want %q", reviews, want)
	}

	anon := Event{Kind: EventReviews}.Text()
	if anon != "You: reviews" {
		t.Fatalf("anonymous text = %q", anon)
	}
}

func TestEventJSONOmitsAbsentPayload(t *testing.T) {
	raw, err := json.Marshal(sampleReviewsEvent())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(raw)
	if !strings.Contains(s, `"kind":"reviews"`) || !strings.Contains(s, `"reviews_available":12`) {
		t.Fatalf("unexpected payload: %s", s)
	}
	if strings.Contains(s, `"unlock"`) {
		t.Fatalf("unlock block should be omitted: %s", s)
	}
}
