package display

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"docportal/internal/models"
)

// RedisBoard shares display state between server instances: the state is a
// key with a TTL, updates fan out over pub/sub.
type RedisBoard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBoard(client *redis.Client, ttl time.Duration) *RedisBoard {
	return &RedisBoard{client: client, ttl: ttl}
}

func stateKey(sessionID string) string      { return "display:" + sessionID }
func updateChannel(sessionID string) string { return "display_updates:" + sessionID }

func (b *RedisBoard) Post(ctx context.Context, sessionID string, state models.ViewState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode display state: %w", err)
	}

	pipe := b.client.TxPipeline()
	pipe.Set(ctx, stateKey(sessionID), data, b.ttl)
	pipe.Publish(ctx, updateChannel(sessionID), data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to post display state: %w", err)
	}
	return nil
}

func (b *RedisBoard) Latest(ctx context.Context, sessionID string) (models.ViewState, bool, error) {
	var state models.ViewState

	data, err := b.client.Get(ctx, stateKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return state, false, nil
	}
	if err != nil {
		return state, false, fmt.Errorf("failed to load display state: %w", err)
	}

	if err := json.Unmarshal(data, &state); err != nil {
		return state, false, fmt.Errorf("failed to decode display state: %w", err)
	}
	return state, true, nil
}

func (b *RedisBoard) Subscribe(ctx context.Context, sessionID string) (<-chan models.ViewState, func(), error) {
	ctx, stop := context.WithCancel(ctx)

	pubsub := b.client.Subscribe(ctx, updateChannel(sessionID))
	// Wait for the subscription to be confirmed so no post is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		stop()
		pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to display updates: %w", err)
	}

	out := make(chan models.ViewState, subscriberBuffer)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var state models.ViewState
				if err := json.Unmarshal([]byte(msg.Payload), &state); err != nil {
					continue
				}
				select {
				case out <- state:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	var once sync.Once
	return out, func() { once.Do(stop) }, nil
}
