package domain

import "time"

// Domain holds the watcher's notification models.

// Unlock is an item that recently became available for lessons.
type Unlock struct {
	Key        string     `json:"key"`
	Type       string     `json:"type"`
	Character  string     `json:"character,omitempty"`
	Meaning    []string   `json:"meaning,omitempty"`
	Readings   []string   `json:"readings,omitempty"`
	Level      int        `json:"level"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// Subject is the best human-readable label for the item.
func (u Unlock) Subject() string {
	if u.Character != "" {
		return u.Character
	}
	if len(u.Meaning) > 0 {
		return u.Meaning[0]
	}
	return u.Type
}

// ReviewDigest summarises the study queue when reviews are waiting.
type ReviewDigest struct {
	Key                      string     `json:"key"`
	LessonsAvailable         int        `json:"lessons_available"`
	ReviewsAvailable         int        `json:"reviews_available"`
	ReviewsAvailableNextHour int        `json:"reviews_available_next_hour"`
	ReviewsAvailableNextDay  int        `json:"reviews_available_next_day"`
	NextReviewAt             *time.Time `json:"next_review_at,omitempty"`
}
