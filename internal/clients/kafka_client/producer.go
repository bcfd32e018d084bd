package kafka_client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/sentify/internal/models"
)

type messageProducer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

// ResultPublisher publishes completed analyses keyed by product/brand so all
// records for one pair land on the same partition.
type ResultPublisher struct {
	producer        messageProducer
	topic           string
	retryDelay      time.Duration
	deliveryTimeout time.Duration
}

func NewResultPublisher(cfg KafkaConfig) (*ResultPublisher, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker),
		slog.String("topic", cfg.Topic))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.Broker,
		"security.protocol":  "PLAINTEXT",
		"enable.idempotence": true,
		"acks":               "all",
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return newResultPublisher(p, cfg.Topic), nil
}

func newResultPublisher(p messageProducer, topic string) *ResultPublisher {
	return &ResultPublisher{
		producer:        p,
		topic:           topic,
		retryDelay:      RETRY_DELAY,
		deliveryTimeout: DELIVERY_TIMEOUT,
	}
}

// Publish retries only when the local queue refuses the message. Once a
// message is enqueued the producer owns its delivery, so a failed or missing
// delivery report is returned without producing it again.
func (rp *ResultPublisher) Publish(ctx context.Context, record models.AnalysisRecord) error {
	jsonData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to marshal record: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &rp.topic, Partition: kafka.PartitionAny},
		Key:            []byte(record.ProductBrand),
		Value:          jsonData,
	}

	for i := 0; i < MAX_RETRIES; i++ {
		err = rp.producer.Produce(msg, deliveryChan)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		slog.Warn("[KafkaClient] Failed to enqueue message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		time.Sleep(rp.retryDelay)
	}
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to enqueue after %d retries: %w", MAX_RETRIES, err)
	}

	if err := rp.awaitDelivery(ctx, deliveryChan); err != nil {
		return fmt.Errorf("[KafkaClient] delivery failed: %w", err)
	}

	slog.Info("[KafkaClient] Published analysis result",
		slog.String("topic", rp.topic),
		slog.String("product_brand", record.ProductBrand))
	return nil
}

func (rp *ResultPublisher) awaitDelivery(ctx context.Context, deliveryChan chan kafka.Event) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(rp.deliveryTimeout):
		return fmt.Errorf("delivery report not received within %s", rp.deliveryTimeout)
	case ev := <-deliveryChan:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event: %v", ev)
		}
		return m.TopicPartition.Error
	}
}

func (rp *ResultPublisher) Close() {
	slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
	if remaining := rp.producer.Flush(FLUSH_TIMEOUT_MS); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	rp.producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}
