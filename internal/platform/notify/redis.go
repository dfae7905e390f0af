// Package notify publishes fire-and-forget platform events over Redis.
// Delivery is best-effort; grading correctness never depends on it.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type CompletionEvent struct {
	UserID      string    `json:"user_id"`
	ChallengeID string    `json:"challenge_id"`
	XPAwarded   int       `json:"xp_awarded"`
	CompletedAt time.Time `json:"completed_at"`
}

type Publisher struct {
	rdb     *redis.Client
	list    string
	channel string
	logger  *zap.Logger
}

func NewPublisher(addr, password string, db int, list, channel string, logger *zap.Logger) (*Publisher, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &Publisher{rdb: rdb, list: list, channel: channel, logger: logger}, nil
}

// PublishCompletion pushes the event onto the durable list consumed by
// the notification service and broadcasts it for live listeners.
// Errors are logged and swallowed.
func (p *Publisher) PublishCompletion(ctx context.Context, event CompletionEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal completion event", zap.Error(err))
		return
	}

	if err := p.rdb.LPush(ctx, p.list, payload).Err(); err != nil {
		p.logger.Warn("push completion event", zap.Error(err))
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.logger.Warn("broadcast completion event", zap.Error(err))
	}
}

func (p *Publisher) Close() error {
	return p.rdb.Close()
}
