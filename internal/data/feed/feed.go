// Package feed turns booking change notifications from Postgres, Redis or Kafka into
// calendar.ChangeEvent values for the live booking store.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"salon-calendar/internal/calendar"
	"salon-calendar/pkg/database"
	"salon-calendar/pkg/utils"

	"go.uber.org/zap"
)

const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverKafka    = "kafka"
	DriverNone     = "none"
)

// retryDelay is how long a subscriber waits before reconnecting after a transport error.
const retryDelay = time.Second

// Subscriber delivers change events until its context is cancelled.
type Subscriber interface {
	Name() string
	// Run blocks, sending one event per notification on out. It returns nil when ctx is done.
	Run(ctx context.Context, out chan<- calendar.ChangeEvent) error
	// Check reports whether the transport is reachable, for readiness probes.
	Check(ctx context.Context) error
	Close() error
}

// New builds the subscriber selected by cfg.Driver.
func New(cfg utils.FeedConfig, db database.PgxIface, log *zap.Logger) (Subscriber, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		if cfg.PGChannel == "" {
			return nil, fmt.Errorf("invalid feed config: postgres channel is empty")
		}
		return NewPostgres(db, cfg.PGChannel, log), nil
	case DriverRedis:
		if cfg.RedisAddr == "" || cfg.RedisChannel == "" {
			return nil, fmt.Errorf("invalid feed config: redis address and channel are required")
		}
		return NewRedis(cfg, log), nil
	case DriverKafka:
		if len(utils.SplitList(cfg.KafkaBrokers)) == 0 || cfg.KafkaTopic == "" {
			return nil, fmt.Errorf("invalid feed config: kafka brokers and topic are required")
		}
		return NewKafka(cfg, log), nil
	case DriverNone:
		return None{}, nil
	default:
		return nil, fmt.Errorf("invalid feed config: unknown driver %q", cfg.Driver)
	}
}

type payload struct {
	Operation string `json:"operation"`
	BookingID string `json:"booking_id"`
}

// decodeEvent reads the optional JSON payload. The payload is informational only: an empty or
// unreadable one still yields an event, since every notification means "reload".
func decodeEvent(source string, raw []byte) calendar.ChangeEvent {
	ev := calendar.ChangeEvent{Source: source}

	var p payload
	if err := json.Unmarshal(raw, &p); err == nil {
		ev.Operation = strings.ToUpper(strings.TrimSpace(p.Operation))
		ev.BookingID = strings.TrimSpace(p.BookingID)
	}
	return ev
}

func emit(ctx context.Context, out chan<- calendar.ChangeEvent, ev calendar.ChangeEvent) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// sleep waits d or until ctx is done, reporting whether the wait completed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// None never delivers anything. Views still reload on navigation and manual refresh.
type None struct{}

func (None) Name() string { return DriverNone }

func (None) Run(ctx context.Context, _ chan<- calendar.ChangeEvent) error {
	<-ctx.Done()
	return nil
}

func (None) Check(context.Context) error { return nil }

func (None) Close() error { return nil }
