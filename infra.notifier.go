package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ChangeChannel is the pub/sub channel carrying catalog change events.
const ChangeChannel = "books.changed"

// changePayload is the zero-information message body. Observers only
// care that the catalog changed, not what changed.
const changePayload = "changed"

// Ensure *redisNotifier implements Notifier.
var _ Notifier = (*redisNotifier)(nil)

// Notifier is the notification gateway boundary. Publish pushes one
// zero-payload change event; it is fire-and-forget, so the core never
// retries and delivery durability stays the gateway's concern.
// Subscribe hands back the stream of events seen on the channel.
type Notifier interface {
	Publish(ctx context.Context) error
	Subscribe(ctx context.Context) (<-chan struct{}, func())
}

// redisNotifier implements Notifier over a redis pub/sub channel.
type redisNotifier struct {
	client  *redis.Client
	timeout time.Duration
}

func NewRedisNotifier(client *redis.Client, timeout time.Duration) Notifier {
	return &redisNotifier{client: client, timeout: timeout}
}

// Publish fires one change event with its own short deadline so a slow
// or dead broker can not hold up the mutation response path.
func (rn *redisNotifier) Publish(ctx context.Context) error {
	pCtx, cancel := context.WithTimeout(ctx, rn.timeout)
	defer cancel()
	return rn.client.Publish(pCtx, ChangeChannel, changePayload).Err()
}

// Subscribe registers on the change channel and relays each message as
// an empty struct. The returned stop function tears the subscription
// down; the events channel closes once the subscription ends.
func (rn *redisNotifier) Subscribe(ctx context.Context) (<-chan struct{}, func()) {
	sub := rn.client.Subscribe(ctx, ChangeChannel)
	events := make(chan struct{})

	go func() {
		defer close(events)
		for range sub.Channel() {
			select {
			case events <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()

	stop := func() { _ = sub.Close() }
	return events, stop
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Redis.Host + ":" + config.Redis.Port,
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}
