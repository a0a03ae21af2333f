package publishers

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonesinator/crabigator/internal/domain"
)

// Event kinds.
const (
	EventUnlock  = "unlock"
	EventReviews = "reviews"
)

// Event represents the payload published downstream.
type Event struct {
	Kind        string               `json:"kind"`
	Username    string               `json:"username,omitempty"`
	Unlock      *domain.Unlock       `json:"unlock,omitempty"`
	Reviews     *domain.ReviewDigest `json:"reviews,omitempty"`
	CollectedAt time.Time            `json:"collected_at"`
}

// NewUnlockEvent constructs an Event announcing a freshly unlocked item.
func NewUnlockEvent(username string, unlock domain.Unlock) Event {
	return Event{
		Kind:        EventUnlock,
		Username:    username,
		Unlock:      &unlock,
		CollectedAt: time.Now().UTC(),
	}
}

// NewReviewsEvent constructs an Event announcing waiting reviews.
func NewReviewsEvent(username string, digest domain.ReviewDigest) Event {
	return Event{
		Kind:        EventReviews,
		Username:    username,
		Reviews:     &digest,
		CollectedAt: time.Now().UTC(),
	}
}

// Key is the de-duplication key of the notification the event carries.
func (e Event) Key() string {
	switch {
	case e.Unlock != nil:
		return e.Unlock.Key
	case e.Reviews != nil:
		return e.Reviews.Key
	default:
		return ""
	}
}

// Text renders the event as a short chat message.
func (e Event) Text() string {
	who := e.Username
	if who == "" {
		who = "You"
	}
	switch {
	case e.Unlock != nil:
		u := e.Unlock
		msg := fmt.Sprintf("%s unlocked %s %s (level %d)", who, u.Type, u.Subject(), u.Level)
		if len(u.Meaning) > 0 {
			msg += ": " + strings.Join(u.Meaning, ", ")
		}
		if len(u.Readings) > 0 {
			msg += " [" + strings.Join(u.Readings, ", ") + "]"
		}
		return msg
	case e.Reviews != nil:
		r := e.Reviews
		msg := fmt.Sprintf("%s has %d reviews waiting", who, r.ReviewsAvailable)
		if r.ReviewsAvailableNextHour > 0 {
			msg += fmt.Sprintf(" (%d more within the hour)", r.ReviewsAvailableNextHour)
		}
		if r.LessonsAvailable > 0 {
			msg += fmt.Sprintf(", %d lessons available", r.LessonsAvailable)
		}
		return msg
	default:
		return fmt.Sprintf("%s: %s", who, e.Kind)
	}
}
