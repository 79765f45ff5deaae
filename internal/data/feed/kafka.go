package feed

import (
	"context"
	"errors"
	"time"

	"salon-calendar/internal/calendar"
	"salon-calendar/pkg/utils"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Kafka consumes booking change records from a topic.
type Kafka struct {
	brokers []string
	reader  *kafka.Reader
	log     *zap.Logger
}

func NewKafka(cfg utils.FeedConfig, log *zap.Logger) *Kafka {
	brokers := utils.SplitList(cfg.KafkaBrokers)
	return &Kafka{
		brokers: brokers,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  cfg.KafkaGroupID,
			Topic:    cfg.KafkaTopic,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		log: log.With(zap.String("feed", DriverKafka), zap.String("topic", cfg.KafkaTopic)),
	}
}

func (k *Kafka) Name() string { return DriverKafka }

// Run emits RESYNC on start and after every read error, since records may have been missed
// before the group offset was committed.
func (k *Kafka) Run(ctx context.Context, out chan<- calendar.ChangeEvent) error {
	resync := true
	for {
		if resync {
			if !emit(ctx, out, calendar.ChangeEvent{Source: DriverKafka, Operation: "RESYNC"}) {
				return nil
			}
			resync = false
		}

		msg, err := k.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			k.log.Error("Kafka read error", zap.Error(err))
			if !sleep(ctx, retryDelay) {
				return nil
			}
			resync = true
			continue
		}

		if !emit(ctx, out, messageEvent(msg)) {
			return nil
		}
	}
}

// messageEvent decodes the value, falling back to the record key and an operation header.
func messageEvent(msg kafka.Message) calendar.ChangeEvent {
	ev := decodeEvent(DriverKafka, msg.Value)
	if ev.BookingID == "" {
		ev.BookingID = string(msg.Key)
	}
	if ev.Operation == "" {
		ev.Operation = headerValue(msg.Headers, "operation")
	}
	return ev
}

func headerValue(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// Check dials the first broker.
func (k *Kafka) Check(ctx context.Context) error {
	if len(k.brokers) == 0 {
		return errors.New("kafka brokers not configured")
	}
	dialer := kafka.Dialer{Timeout: 2 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", k.brokers[0])
	if err != nil {
		return err
	}
	_ = conn.Close()
	return nil
}

func (k *Kafka) Close() error {
	return k.reader.Close()
}
