// Package watcher runs one notification pass against the WaniKani API:
// fetch, diff against the seen-key store, publish.
package watcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonesinator/crabigator/internal/domain"
	"github.com/jonesinator/crabigator/internal/logger"
	"github.com/jonesinator/crabigator/pkg/publishers"
	"github.com/jonesinator/crabigator/pkg/wanikani"
)

// Summary counts what a pass did.
type Summary struct {
	Username         string `json:"username"`
	UnlocksFetched   int    `json:"unlocks_fetched"`
	UnlocksFresh     int    `json:"unlocks_fresh"`
	UnlocksPublished int    `json:"unlocks_published"`
	ReviewsAvailable int    `json:"reviews_available"`
	ReviewsPublished bool   `json:"reviews_published"`
}

// Service wires the API source, publishers and store for a pass.
type Service struct {
	source      Source
	publisher   EventPublisher
	store       Deduper
	log         logger.Logger
	unlockLimit int
}

// NewService builds a watcher pass runner. A nil store publishes everything.
func NewService(src Source, pub EventPublisher, log logger.Logger, store Deduper, unlockLimit int) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		source:      src,
		publisher:   pub,
		store:       store,
		log:         log,
		unlockLimit: unlockLimit,
	}
}

// Run performs one pass. Failures of the individual steps are joined; a
// failed step does not stop the following ones.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	if s == nil || s.source == nil || s.publisher == nil {
		return sum, fmt.Errorf("watcher service is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return sum, err
	}

	var errs []error

	user, err := s.source.UserInformation(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("fetch user information: %w", err))
	} else if user != nil && user.Username != nil {
		sum.Username = *user.Username
	}

	if err := s.runUnlocks(ctx, &sum); err != nil {
		errs = append(errs, err)
	}
	if err := s.runReviews(ctx, &sum); err != nil {
		errs = append(errs, err)
	}

	s.log.InfoObj("watch pass completed", "watch_summary", sum)
	return sum, errors.Join(errs...)
}

func (s *Service) runUnlocks(ctx context.Context, sum *Summary) error {
	items, err := s.source.RecentUnlocks(ctx, wanikani.RecentUnlocksQuery{Limit: s.unlockLimit})
	if err != nil {
		return fmt.Errorf("fetch recent unlocks: %w", err)
	}
	sum.UnlocksFetched = len(items)

	unlocks := make([]domain.Unlock, 0, len(items))
	for _, item := range items {
		if u, ok := unlockFromItem(item); ok {
			unlocks = append(unlocks, u)
		}
	}
	fresh := s.filterNew(unlocks)
	sum.UnlocksFresh = len(fresh)

	var errs []error
	for _, u := range fresh {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		ok, err := s.deliver(ctx, publishers.NewUnlockEvent(sum.Username, u))
		if err != nil {
			errs = append(errs, fmt.Errorf("unlock %s: %w", u.Key, err))
		}
		if ok {
			sum.UnlocksPublished++
		}
	}
	return errors.Join(errs...)
}

func (s *Service) runReviews(ctx context.Context, sum *Summary) error {
	queue, err := s.source.StudyQueue(ctx)
	if err != nil {
		return fmt.Errorf("fetch study queue: %w", err)
	}
	digest, ok := digestFromQueue(queue)
	if !ok {
		return nil
	}
	sum.ReviewsAvailable = digest.ReviewsAvailable
	if !s.isNew(digest.Key) {
		return nil
	}

	delivered, err := s.deliver(ctx, publishers.NewReviewsEvent(sum.Username, digest))
	sum.ReviewsPublished = delivered
	if err != nil {
		return fmt.Errorf("reviews %s: %w", digest.Key, err)
	}
	return nil
}

// deliver publishes evt and marks its key once any publisher accepted it.
// The bool reports whether the event reached at least one sink.
func (s *Service) deliver(ctx context.Context, evt publishers.Event) (bool, error) {
	n, pubErr := s.publisher.Publish(ctx, evt)
	if n == 0 {
		if pubErr == nil {
			pubErr = errors.New("no publisher accepted the event")
		}
		return false, pubErr
	}
	if pubErr != nil {
		s.log.WarnObj("event partially delivered", "publish_partial", map[string]any{
			"key":       evt.Key(),
			"delivered": n,
			"error":     pubErr.Error(),
		})
	}
	if s.store != nil {
		if err := s.store.Mark(evt.Key()); err != nil {
			return true, fmt.Errorf("mark %s: %w", evt.Key(), err)
		}
	}
	return true, nil
}

func (s *Service) filterNew(unlocks []domain.Unlock) []domain.Unlock {
	out := make([]domain.Unlock, 0, len(unlocks))
	for _, u := range unlocks {
		if s.isNew(u.Key) {
			out = append(out, u)
		}
	}
	return out
}

// isNew consults the store; lookup failures count as unseen so a
// notification is repeated rather than dropped.
func (s *Service) isNew(key string) bool {
	if s.store == nil {
		return true
	}
	seen, err := s.store.Seen(key)
	if err != nil {
		s.log.WarnObj("dedupe lookup failed", "dedupe_error", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
		return true
	}
	return !seen
}
