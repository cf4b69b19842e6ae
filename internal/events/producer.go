package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/mamadbah2/vinstock/internal/domain/models"
)

// MessageWriter is the subset of kafka.Writer used by the producer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer publishes stock movements to a topic, keyed by wine id so
// the movements of one wine stay ordered within a partition.
type KafkaProducer struct {
	writer MessageWriter
	now    func() time.Time
	logger *zap.Logger
}

// NewKafkaProducer builds a producer for a comma separated broker list.
func NewKafkaProducer(brokers, topic string, logger *zap.Logger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(splitBrokers(brokers)...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return NewKafkaProducerWithWriter(writer, logger)
}

// NewKafkaProducerWithWriter wraps an existing writer.
func NewKafkaProducerWithWriter(writer MessageWriter, logger *zap.Logger) *KafkaProducer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaProducer{writer: writer, now: time.Now, logger: logger}
}

// TransactionRecorded publishes the movement of tx.
func (p *KafkaProducer) TransactionRecorded(ctx context.Context, tx models.Transaction) error {
	event := NewStockMovementEvent(uuid.NewString(), tx, p.now().UTC())

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal stock movement: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(tx.WineID),
		Value: eventBytes,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish stock movement %s: %w", event.EventID, err)
	}

	p.logger.Info("stock movement published",
		zap.String("event_id", event.EventID),
		zap.String("transaction_id", tx.ID),
		zap.String("flow_type", string(tx.Type)))
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaProducer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

func splitBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
