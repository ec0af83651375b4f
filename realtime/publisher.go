package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"forum-chat/domain"
)

// Publisher fans persisted messages out on the broker. Publishing is only
// ever done backend-side, after the send call succeeded, so the channel
// stays the single source of truth every viewer converges on.
type Publisher struct {
	log    *slog.Logger
	client *redis.Client
}

func NewPublisher(log *slog.Logger, client *redis.Client) *Publisher {
	return &Publisher{log: log, client: client}
}

func (p *Publisher) Publish(ctx context.Context, channel string, msg domain.Message) error {
	payload, err := json.Marshal(domain.FromMessage(msg))
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, channel, payload).Err()
}
