package watcher

import (
	"reflect"
	"testing"
	"time"

	"github.com/jonesinator/crabigator/pkg/wanikani"
)

func TestUnlockFromItem(t *testing.T) {
	unlocked := time.Unix(1337820000, 0).UTC()

	cases := map[string]struct {
		item     wanikani.Item
		key      string
		readings []string
	}{
		"image radical": {
			item: &wanikani.Radical{Meaning: []string{"stick"}, Level: intPtr(1)},
			key:  "unlock:radical:1:stick",
		},
		"kanji kunyomi": {
			item: &wanikani.Kanji{
				Character:        strPtr("下"),
				Onyomi:           []string{"か", "げ"},
				Kunyomi:          []string{"した"},
				ImportantReading: strPtr("kunyomi"),
				Level:            intPtr(1),
			},
			key:      "unlock:kanji:1:下",
			readings: []string{"した"},
		},
		"kanji without marker": {
			item:     &wanikani.Kanji{Character: strPtr("人"), Onyomi: []string{"じん"}, Kunyomi: []string{"ひと"}, Level: intPtr(1)},
			key:      "unlock:kanji:1:人",
			readings: []string{"じん", "ひと"},
		},
		"vocabulary": {
			item: &wanikani.Vocabulary{
				Character:    strPtr("一つ"),
				Kana:         []string{"ひとつ"},
				Level:        intPtr(1),
				UserSpecific: &wanikani.UserSpecific{UnlockedDate: &unlocked},
			},
			key:      "unlock:vocabulary:1:一つ",
			readings: []string{"ひとつ"},
		},
		"no level": {
			item: &wanikani.Radical{Character: strPtr("十")},
			key:  "unlock:radical:0:十",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			u, ok := unlockFromItem(tc.item)
			if !ok {
				t.Fatalf("item not converted")
			}
			if u.Key != tc.key {
				t.Fatalf("key = %q, want %q", u.Key, tc.key)
			}
			if !reflect.DeepEqual(u.Readings, tc.readings) {
				t.Fatalf("readings = %v, want %v", u.Readings, tc.readings)
			}
		})
	}

	u, _ := unlockFromItem(cases["vocabulary"].item)
	if u.UnlockedAt == nil || !u.UnlockedAt.Equal(unlocked) {
		t.Fatalf("unlocked_at not carried: %v", u.UnlockedAt)
	}
}

func TestDigestFromQueue(t *testing.T) {
	if _, ok := digestFromQueue(nil); ok {
		t.Fatalf("nil queue should not produce a digest")
	}
	if _, ok := digestFromQueue(&wanikani.StudyQueue{LessonsAvailable: intPtr(3)}); ok {
		t.Fatalf("queue without reviews should not produce a digest")
	}

	d, ok := digestFromQueue(&wanikani.StudyQueue{ReviewsAvailable: intPtr(2), ReviewsAvailableNextDay: intPtr(9)})
	if !ok {
		t.Fatalf("expected digest")
	}
	if d.Key != "reviews:pending" || d.ReviewsAvailableNextDay != 9 || d.NextReviewAt != nil {
		t.Fatalf("unexpected digest %+v", d)
	}
}
