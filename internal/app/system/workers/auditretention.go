// internal/app/system/workers/auditretention.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/grupovertice/captacion/internal/app/store/audit"
	"go.uber.org/zap"
)

// AuditRetention is a background worker that prunes audit log entries
// older than the retention window.
type AuditRetention struct {
	audit     *audit.Store
	log       *zap.Logger
	interval  time.Duration
	retention time.Duration
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewAuditRetention creates a new retention worker. A retention of zero
// disables pruning (Start becomes a no-op).
func NewAuditRetention(auditStore *audit.Store, logger *zap.Logger, interval, retention time.Duration) *AuditRetention {
	return &AuditRetention{
		audit:     auditStore,
		log:       logger,
		interval:  interval,
		retention: retention,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the background pruning loop.
func (w *AuditRetention) Start() {
	if w.retention <= 0 {
		w.log.Info("audit retention disabled")
		return
	}
	w.wg.Add(1)
	go w.run()
	w.log.Info("audit retention worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("retention", w.retention))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *AuditRetention) Stop() {
	if w.retention <= 0 {
		return
	}
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("audit retention worker stopped")
}

func (w *AuditRetention) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.prune()
		}
	}
}

func (w *AuditRetention) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-w.retention)
	count, err := w.audit.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		w.log.Error("failed to prune audit log", zap.Error(err))
		return
	}
	if count > 0 {
		w.log.Info("pruned audit log entries", zap.Int64("count", count))
	}
}
