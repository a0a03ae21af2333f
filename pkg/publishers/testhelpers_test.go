package publishers

import (
	"time"

	"github.com/jonesinator/crabigator/internal/domain"
)

func sampleUnlockEvent() Event {
	at := time.Unix(1400000000, 0).UTC()
	return NewUnlockEvent("crabigator", domain.Unlock{
		Key:        "unlock:kanji:1:上",
		Type:       "kanji",
		Character:  "上",
		Meaning:    []string{"above", "up", "over"},
		Readings:   []string{"じょう"},
		Level:      1,
		UnlockedAt: &at,
	})
}

func sampleReviewsEvent() Event {
	return NewReviewsEvent("crabigator", domain.ReviewDigest{
		Key:                      "reviews:1400003600",
		LessonsAvailable:         4,
		ReviewsAvailable:         12,
		ReviewsAvailableNextHour: 3,
		ReviewsAvailableNextDay:  40,
	})
}
