// Package ingest consumes notification events produced by external
// pipelines (case-analysis workers, deadline monitors) from Kafka and turns
// each one into a notification record, refreshing the owner's live feed.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/notification"
)

// Event is the wire shape of one externally produced notification event.
type Event struct {
	UserID    uuid.UUID  `json:"userId"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	CaseID    *uuid.UUID `json:"caseId,omitempty"`
	ActionURL *string    `json:"actionUrl,omitempty"`
}

// Notifier is the subset of the notification service the consumer uses.
type Notifier interface {
	Notify(ctx context.Context, n *notification.Notification) error
}

// Metrics is the subset of the metrics collector the consumer reports to.
type Metrics interface {
	RecordEventIngested()
}

// Consumer reads notification events from a Kafka topic.
type Consumer struct {
	reader   *kafka.Reader
	notifier Notifier
	metrics  Metrics
}

// NewConsumer creates a Consumer. metrics may be nil.
func NewConsumer(brokers []string, topic, groupID string, notifier Notifier, metrics Metrics) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		notifier: notifier,
		metrics:  metrics,
	}
}

// Run consumes until ctx is cancelled. A malformed or unknown event is
// logged and committed so it cannot wedge the partition; a store failure is
// not committed and will be redelivered.
func (c *Consumer) Run(ctx context.Context) {
	slog.Info("ingest consumer started", "topic", c.reader.Config().Topic, "groupId", c.reader.Config().GroupID)

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("fetching ingest message", "error", err)
			time.Sleep(time.Second)
			continue
		}

		if err := c.handle(ctx, m.Value); err != nil {
			slog.Error("storing ingested event, will retry", "error", err)
			continue
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			slog.Error("committing ingest offset", "error", err)
		}
	}
}

// Close shuts down the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

func (c *Consumer) handle(ctx context.Context, value []byte) error {
	var ev Event
	if err := json.Unmarshal(value, &ev); err != nil {
		slog.Warn("dropping malformed ingest event", "error", err)
		return nil
	}
	if ev.UserID == uuid.Nil || !notification.ValidType(ev.Type) {
		slog.Warn("dropping invalid ingest event", "type", ev.Type)
		return nil
	}

	n := &notification.Notification{
		UserID:    ev.UserID,
		Type:      ev.Type,
		Title:     ev.Title,
		Message:   ev.Message,
		CaseID:    ev.CaseID,
		ActionURL: ev.ActionURL,
	}

	storeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := c.notifier.Notify(storeCtx, n); err != nil {
		return fmt.Errorf("storing ingested notification: %w", err)
	}

	if c.metrics != nil {
		c.metrics.RecordEventIngested()
	}
	return nil
}
