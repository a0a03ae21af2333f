package watcher

import (
	"context"

	"github.com/jonesinator/crabigator/pkg/publishers"
	"github.com/jonesinator/crabigator/pkg/wanikani"
)

// Source is the subset of the API client a pass reads from.
type Source interface {
	UserInformation(ctx context.Context) (*wanikani.UserInformation, error)
	RecentUnlocks(ctx context.Context, query wanikani.RecentUnlocksQuery) ([]wanikani.Item, error)
	StudyQueue(ctx context.Context) (*wanikani.StudyQueue, error)
}

// Deduper remembers which notification keys were already delivered.
type Deduper interface {
	Seen(key string) (bool, error)
	Mark(key string) error
}

// EventPublisher delivers events and reports how many sinks accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}
