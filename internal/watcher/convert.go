package watcher

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jonesinator/crabigator/internal/domain"
	"github.com/jonesinator/crabigator/pkg/wanikani"
)

// unlockFromItem flattens an API item into the notification model. The
// second result is false for items the watcher cannot describe.
func unlockFromItem(item wanikani.Item) (domain.Unlock, bool) {
	var (
		character *string
		level     *int
		user      *wanikani.UserSpecific
		u         domain.Unlock
	)

	switch it := item.(type) {
	case *wanikani.Radical:
		character, level, user = it.Character, it.Level, it.UserSpecific
		u.Meaning = it.Meaning
	case *wanikani.Kanji:
		character, level, user = it.Character, it.Level, it.UserSpecific
		u.Meaning = it.Meaning
		u.Readings = kanjiReadings(it)
	case *wanikani.Vocabulary:
		character, level, user = it.Character, it.Level, it.UserSpecific
		u.Meaning = it.Meaning
		u.Readings = it.Kana
	default:
		return domain.Unlock{}, false
	}

	u.Type = string(item.ItemType())
	if character != nil {
		u.Character = *character
	}
	if level != nil {
		u.Level = *level
	}
	if user != nil && user.UnlockedDate != nil {
		at := *user.UnlockedDate
		u.UnlockedAt = &at
	}
	u.Key = unlockKey(u)
	return u, true
}

// kanjiReadings returns the reading group marked important, or every
// reading when the marker is absent.
func kanjiReadings(k *wanikani.Kanji) []string {
	if k.ImportantReading != nil {
		switch *k.ImportantReading {
		case "onyomi":
			return k.Onyomi
		case "kunyomi":
			return k.Kunyomi
		case "nanori":
			return k.Nanori
		}
	}
	var out []string
	out = append(out, k.Onyomi...)
	out = append(out, k.Kunyomi...)
	return out
}

func unlockKey(u domain.Unlock) string {
	return fmt.Sprintf("unlock:%s:%d:%s", u.Type, u.Level, u.Subject())
}

// digestFromQueue returns a digest when reviews are waiting.
func digestFromQueue(q *wanikani.StudyQueue) (domain.ReviewDigest, bool) {
	if q == nil || deref(q.ReviewsAvailable) <= 0 {
		return domain.ReviewDigest{}, false
	}

	d := domain.ReviewDigest{
		LessonsAvailable:         deref(q.LessonsAvailable),
		ReviewsAvailable:         deref(q.ReviewsAvailable),
		ReviewsAvailableNextHour: deref(q.ReviewsAvailableNextHour),
		ReviewsAvailableNextDay:  deref(q.ReviewsAvailableNextDay),
	}
	if q.NextReviewDate != nil {
		at := *q.NextReviewDate
		d.NextReviewAt = &at
	}
	d.Key = reviewKey(d.NextReviewAt)
	return d, true
}

func reviewKey(next *time.Time) string {
	if next == nil {
		return "reviews:pending"
	}
	return "reviews:" + strconv.FormatInt(next.Unix(), 10)
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
