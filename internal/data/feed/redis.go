package feed

import (
	"context"
	"errors"
	"fmt"

	"salon-calendar/internal/calendar"
	"salon-calendar/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis subscribes to a pub/sub channel the booking writers publish to.
type Redis struct {
	client  *redis.Client
	channel string
	log     *zap.Logger
}

func NewRedis(cfg utils.FeedConfig, log *zap.Logger) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}),
		channel: cfg.RedisChannel,
		log:     log.With(zap.String("feed", DriverRedis), zap.String("channel", cfg.RedisChannel)),
	}
}

func (r *Redis) Name() string { return DriverRedis }

func (r *Redis) Run(ctx context.Context, out chan<- calendar.ChangeEvent) error {
	for {
		err := r.subscribe(ctx, out)
		if ctx.Err() != nil {
			return nil
		}
		r.log.Warn("Subscription interrupted, resubscribing", zap.Error(err))
		if !sleep(ctx, retryDelay) {
			return nil
		}
	}
}

func (r *Redis) subscribe(ctx context.Context, out chan<- calendar.ChangeEvent) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	r.log.Info("Subscribed to booking changes")

	if !emit(ctx, out, calendar.ChangeEvent{Source: DriverRedis, Operation: "RESYNC"}) {
		return ctx.Err()
	}

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return errors.New("redis subscription channel closed")
			}
			if !emit(ctx, out, decodeEvent(DriverRedis, []byte(msg.Payload))) {
				return ctx.Err()
			}
		}
	}
}

func (r *Redis) Check(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
