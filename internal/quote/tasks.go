package quote

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-kanopi/internal/lock"
	"github.com/noah-isme/backend-kanopi/internal/obs"
)

// TaskExpireStale marks quotations past their validity window as expired.
const TaskExpireStale = "quote:expire"

const expireLockKey = "kanopi:lock:quote-expire"

type expireStore interface {
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

// ExpireWorker processes quote:expire tasks. A Redis lock guards against
// concurrent sweeps when multiple workers share the same queue.
type ExpireWorker struct {
	Store   expireStore
	Locker  lock.Locker
	LockTTL time.Duration
	Logger  *zerolog.Logger
	Now     func() time.Time
}

// NewExpireTask builds the periodic expiry task.
func NewExpireTask() *asynq.Task {
	return asynq.NewTask(TaskExpireStale, nil)
}

// ProcessTask implements asynq.Handler.
func (w ExpireWorker) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	ttl := w.LockTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return w.Locker.WithLock(ctx, expireLockKey, ttl, func(ctx context.Context) error {
		now := time.Now().UTC()
		if w.Now != nil {
			now = w.Now()
		}
		expired, err := w.Store.ExpireStale(ctx, now)
		if err != nil {
			if w.Logger != nil {
				w.Logger.Error().Err(err).Msg("expire stale quotations")
			}
			return err
		}
		if expired > 0 {
			obs.QuoteExpiredTotal.Add(float64(expired))
			if w.Logger != nil {
				w.Logger.Info().Int64("expired", expired).Msg("quotations expired")
			}
		}
		return nil
	})
}
