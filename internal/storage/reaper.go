package storage

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/nzoba/keva-go/internal/core/domain"
)

// reapLoop periodically removes expired entries until Close.
func (s *Store) reapLoop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()

	// A bad disk makes every cycle fail the same way, so failure
	// logging is throttled.
	failLog := rate.NewLimiter(rate.Every(5*time.Minute), 1)

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if _, err := s.reapCycle(ctx); err != nil && failLog.Allow() {
				s.logger.Error("reap cycle failed", "error", err)
			}
			cancel()

		case <-s.stopCh:
			return
		}
	}
}

// reapCycle removes entries whose deadline has passed and rewrites the
// store file from the current table.
//
// The file is rewritten even when nothing was removed. A cycle that
// found no expired entries still resyncs a file left behind by an
// earlier failed save, and the cost is bounded by the cycle frequency.
func (s *Store) reapCycle(ctx context.Context) (int, error) {
	log := s.logger.WithContext(ctx)

	keys := s.table.ReapExpired(time.Now().UnixMilli())
	if len(keys) > 0 {
		s.reaped.Add(uint64(len(keys)))
		log.Debug("reaped expired entries", "count", len(keys))
	}

	if err := s.save(ctx); err != nil {
		return len(keys), err
	}
	return len(keys), nil
}

// Reap removes expired entries immediately instead of waiting for the
// next cleanup tick. It returns the number of entries removed.
func (s *Store) Reap(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, domain.ErrStoreClosed
	}
	return s.reapCycle(ctx)
}
