// Package kafka publishes workflow transition events with segmentio/kafka-go.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dwikikusuma/storefront-ops/internal/workflow/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes one message per transition, keyed by entity id so every
// entity's events stay ordered within a partition.
type Publisher struct {
	w messageWriter
}

const (
	// A transition produces exactly one message, so waiting to fill a
	// batch only adds latency.
	batchTimeout = 5 * time.Millisecond
	writeTimeout = 2 * time.Second
	maxAttempts  = 3
)

// NewPublisher returns nil when brokers is empty; callers treat a nil
// publisher as "events disabled".
func NewPublisher(brokers, topic string) *Publisher {
	var addrs []string
	for _, a := range strings.Split(brokers, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	if len(addrs) == 0 {
		return nil
	}
	return &Publisher{w: &kafka.Writer{
		Addr:         kafka.TCP(addrs...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchSize:    1,
		BatchTimeout: batchTimeout,
		WriteTimeout: writeTimeout,
		MaxAttempts:  maxAttempts,
	}}
}

func newPublisherWith(w messageWriter) *Publisher {
	return &Publisher{w: w}
}

func (p *Publisher) Publish(ctx context.Context, e domain.Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(e.EntityID),
		Value: b,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(e.Kind)},
			{Key: "action", Value: []byte(e.Action)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s %s: %w", e.Kind, e.EntityID, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.w.Close()
}
