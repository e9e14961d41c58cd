// Package outbox relays committed audit events from the outbox table to Kafka.
//
// Rows are claimed with FOR UPDATE SKIP LOCKED so several relay instances can
// run side by side; a row is marked published only after the broker acks it.
package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is one outbox row on its way to the broker.
type Message struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// Producer delivers a batch and returns only once every message is acked.
type Producer interface {
	Produce(ctx context.Context, msgs []Message) error
}

// Relay polls the outbox and forwards unpublished rows.
type Relay struct {
	db       *sql.DB
	producer Producer
	logger   *slog.Logger
	batch    int
	interval time.Duration
	now      func() time.Time
}

type Option func(*Relay)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) { r.logger = logger }
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batch = n
		}
	}
}

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func NewRelay(db *sql.DB, producer Producer, opts ...Option) *Relay {
	r := &Relay{
		db:       db,
		producer: producer,
		logger:   slog.Default(),
		batch:    100,
		interval: time.Second,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run relays until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		for {
			n, err := r.RelayOnce(ctx)
			if err != nil {
				r.logger.WarnContext(ctx, "outbox relay failed", "error", err)
				break
			}
			if n < r.batch {
				break
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RelayOnce claims one batch, produces it and marks it published. It returns
// the number of rows relayed.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin relay tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, tenant_id, aggregate_type, aggregate_id, event_type, payload
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, r.batch)
	if err != nil {
		return 0, fmt.Errorf("claim outbox rows: %w", err)
	}
	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.TenantID, &m.AggregateType, &m.AggregateID, &m.EventType, &m.Payload); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan outbox row: %w", err)
		}
		msgs = append(msgs, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate outbox rows: %w", err)
	}
	if len(msgs) == 0 {
		return 0, nil
	}

	if err := r.producer.Produce(ctx, msgs); err != nil {
		return 0, fmt.Errorf("produce audit batch: %w", err)
	}

	ids := make([]string, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID.String()
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE outbox SET published_at = $1 WHERE id = ANY($2::uuid[])`,
		r.now(), pq.Array(ids),
	); err != nil {
		return 0, fmt.Errorf("mark outbox published: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit relay tx: %w", err)
	}

	r.logger.DebugContext(ctx, "outbox batch relayed", "count", len(msgs))
	return len(msgs), nil
}

// KafkaProducer produces outbox messages keyed by tenant so one tenant's
// events stay ordered within a partition.
type KafkaProducer struct {
	client *kgo.Client
	topic  string
}

func NewKafkaProducer(client *kgo.Client, topic string) *KafkaProducer {
	return &KafkaProducer{client: client, topic: topic}
}

func (p *KafkaProducer) Produce(ctx context.Context, msgs []Message) error {
	records := make([]*kgo.Record, 0, len(msgs))
	for _, m := range msgs {
		records = append(records, ToRecord(p.topic, m))
	}
	return p.client.ProduceSync(ctx, records...).FirstErr()
}

// ToRecord maps an outbox message onto a Kafka record.
func ToRecord(topic string, m Message) *kgo.Record {
	return &kgo.Record{
		Topic: topic,
		Key:   []byte(m.TenantID.String()),
		Value: m.Payload,
		Headers: []kgo.RecordHeader{
			{Key: "event_id", Value: []byte(m.ID.String())},
			{Key: "event_type", Value: []byte(m.EventType)},
			{Key: "aggregate_type", Value: []byte(m.AggregateType)},
			{Key: "aggregate_id", Value: []byte(m.AggregateID)},
		},
	}
}
