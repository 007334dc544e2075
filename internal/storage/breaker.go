package storage

import (
	"context"
	"io"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// breakerArchiver stops calling a failing object store for a cooldown period
// so every mutation does not pay a connect timeout while the store is down.
type breakerArchiver struct {
	next Archiver
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker wraps next in a circuit breaker that opens after
// consecutiveFailures failed uploads and retries after cooldown.
func WithBreaker(next Archiver, consecutiveFailures uint32, cooldown time.Duration, logger *zap.Logger) Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "snapshot-archive",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= consecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &breakerArchiver{next: next, cb: cb}
}

func (b *breakerArchiver) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Put(ctx, key, r, opt)
	})
	if err != nil {
		return ObjectInfo{}, err
	}
	return out.(ObjectInfo), nil
}
