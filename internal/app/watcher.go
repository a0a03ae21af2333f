package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonesinator/crabigator/internal/config"
	"github.com/jonesinator/crabigator/internal/logger"
	"github.com/jonesinator/crabigator/internal/storage"
	"github.com/jonesinator/crabigator/internal/watcher"
	"github.com/jonesinator/crabigator/pkg/httpclient"
	"github.com/jonesinator/crabigator/pkg/publishers"
	"github.com/jonesinator/crabigator/pkg/wanikani"
)

// Watcher is the progress watcher runtime. It owns the poll loop, the
// publisher fanout and the seen-key store.
type Watcher struct {
	cfg      *config.Config
	fanout   *publishers.Fanout
	service  *watcher.Service
	interval time.Duration
	log      logger.Logger
	store    storage.Store
}

// NewClient builds the API client described by cfg.
func NewClient(cfg *config.Config, log logger.Logger) *wanikani.Client {
	transport := httpclient.NewRestyClient(httpclient.Options{
		Timeout:   cfg.HTTPTimeout,
		UserAgent: cfg.UserAgent,
	})
	return wanikani.New(cfg.APIKey,
		wanikani.WithURLTemplate(cfg.URLTemplate),
		wanikani.WithHTTPClient(transport),
		wanikani.WithLogger(log),
	)
}

// NewWatcher builds a watcher runtime from config and the publishers file.
func NewWatcher(ctx context.Context, cfg *config.Config, log logger.Logger) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no publishers enabled in %s", cfg.PublishersFile)
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	summaries := make([]map[string]string, 0, len(enabled))
	for _, p := range enabled {
		summaries = append(summaries, map[string]string{"id": p.ID, "type": p.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		KeyTTL:          cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"key_ttl_seconds":          int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	svc := watcher.NewService(NewClient(cfg, log), fanout, log, store, cfg.UnlockLimit)

	return &Watcher{
		cfg:      cfg,
		fanout:   fanout,
		service:  svc,
		interval: cfg.PollInterval,
		log:      log,
		store:    store,
	}, nil
}

// Run polls until the context is cancelled. Pass failures are logged and do
// not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.service == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	defer w.shutdown()

	interval := w.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	w.log.InfoObj("watcher loop starting", "watcher_state", map[string]any{
		"publishers_count": w.fanout.Size(),
		"poll_interval":    interval.String(),
		"unlock_limit":     w.cfg.UnlockLimit,
	})

	w.runOnce(ctx, "initial")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.InfoObj("watcher loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			w.runOnce(ctx, "scheduled")
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context, trigger string) {
	start := time.Now()
	sum, err := w.service.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return
		}
		w.log.ErrorObj(trigger+" watch pass failed", "error", err.Error())
	}
	w.log.InfoObj("watch pass finished", "watch_meta", map[string]any{
		"trigger":    trigger,
		"published":  sum.UnlocksPublished,
		"reviews":    sum.ReviewsPublished,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
}

func (w *Watcher) shutdown() {
	if err := w.fanout.Close(); err != nil {
		w.log.ErrorObj("publisher close failed", "error", err.Error())
	}
	if w.store == nil {
		return
	}
	if err := w.store.Close(); err != nil {
		w.log.ErrorObj("storage close failed", "error", err.Error())
	}
}
