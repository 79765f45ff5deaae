package feed

import (
	"context"
	"fmt"

	"salon-calendar/internal/calendar"
	"salon-calendar/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Postgres listens on a NOTIFY channel fed by the bookings trigger.
type Postgres struct {
	db      database.PgxIface
	channel string
	log     *zap.Logger
}

func NewPostgres(db database.PgxIface, channel string, log *zap.Logger) *Postgres {
	return &Postgres{
		db:      db,
		channel: channel,
		log:     log.With(zap.String("feed", DriverPostgres), zap.String("channel", channel)),
	}
}

func (p *Postgres) Name() string { return DriverPostgres }

func (p *Postgres) Run(ctx context.Context, out chan<- calendar.ChangeEvent) error {
	for {
		err := p.listen(ctx, out)
		if ctx.Err() != nil {
			return nil
		}
		p.log.Warn("Listen interrupted, reconnecting", zap.Error(err))
		if !sleep(ctx, retryDelay) {
			return nil
		}
	}
}

func (p *Postgres) listen(ctx context.Context, out chan<- calendar.ChangeEvent) error {
	pooled, err := p.db.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen connection: %w", err)
	}
	// The connection keeps LISTEN state, so it never goes back to the pool.
	conn := pooled.Hijack()
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{p.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", p.channel, err)
	}
	p.log.Info("Listening for booking changes")

	// Notifications sent while we were disconnected are lost; one synthetic event covers them.
	if !emit(ctx, out, calendar.ChangeEvent{Source: DriverPostgres, Operation: "RESYNC"}) {
		return ctx.Err()
	}

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		if !emit(ctx, out, decodeEvent(DriverPostgres, []byte(n.Payload))) {
			return ctx.Err()
		}
	}
}

func (p *Postgres) Check(ctx context.Context) error {
	return p.db.Ping(ctx)
}

// Close is a no-op; the pool is owned by main.
func (p *Postgres) Close() error { return nil }
