package transport

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/voxplan/voxplan/internal/ordering"
)

// RedisTransport stores list orders in a Redis hash per context, keyed
// voxplan:sortorder:<context> with task id -> 0-based position. Used when the
// remote store is the shared Redis instance rather than the task API.
type RedisTransport struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisTransport creates a new Redis transport.
func NewRedisTransport(client *redis.Client, logger *slog.Logger) *RedisTransport {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisTransport{client: client, logger: logger}
}

// Save implements ordering.SaveFunc. The hash is replaced wholesale so the
// store only ever holds a complete list order.
func (t *RedisTransport) Save(ctx context.Context, payload ordering.Payload) (ordering.SaveResult, error) {
	key := fmt.Sprintf("voxplan:sortorder:%s", payload.Context)

	pipe := t.client.TxPipeline()
	pipe.Del(ctx, key)
	for _, update := range payload.Updates {
		pipe.HSet(ctx, key, update.TaskID.String(), update.SortOrder)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return ordering.SaveResult{}, fmt.Errorf("failed to write sort order: %w", err)
	}

	t.logger.Debug("sort order written to redis",
		"context", payload.Context,
		"updated_count", len(payload.Updates),
	)
	return ordering.SaveResult{UpdatedCount: len(payload.Updates)}, nil
}
