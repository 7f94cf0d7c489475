package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"circustix/internal/shared/config"
	"circustix/pkg/logger"
)

// Publisher emits order events to downstream consumers
type Publisher interface {
	PublishOrderEvent(ctx context.Context, event *OrderEvent) error
	Close() error
}

// KafkaProducerConfig contains configuration for the Kafka order event producer
type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	Timeout          time.Duration
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "orders.confirmed",
		RetryMax:         3,
		Timeout:          10 * time.Second,
		RequiredAcks:     sarama.WaitForAll, // Wait for all in-sync replicas
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000, // 1MB
	}
}

// KafkaProducerConfigFrom applies the application Kafka settings to the defaults
func KafkaProducerConfigFrom(cfg config.KafkaConfig) *KafkaProducerConfig {
	pc := DefaultKafkaProducerConfig()
	if len(cfg.Brokers) > 0 {
		pc.Brokers = cfg.Brokers
	}
	if cfg.OrderTopic != "" {
		pc.Topic = cfg.OrderTopic
	}
	return pc
}

// SaramaConfig builds the producer settings
func (c *KafkaProducerConfig) SaramaConfig() *sarama.Config {
	saramaConfig := sarama.NewConfig()

	saramaConfig.ClientID = "circustix-orders"
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = c.RequiredAcks
	saramaConfig.Producer.Compression = c.CompressionType
	saramaConfig.Producer.Retry.Max = c.RetryMax
	saramaConfig.Producer.Timeout = c.Timeout
	saramaConfig.Producer.Idempotent = c.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = c.MaxMessageBytes

	// Idempotent producers need a single in-flight request and a recent protocol
	if c.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
		saramaConfig.Version = sarama.V2_1_0_0
	}

	// Hash partitioner keeps one order's events in order
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	return saramaConfig
}

// KafkaPublisher publishes order events with a synchronous producer
type KafkaPublisher struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
	log      *logger.Logger
}

// NewKafkaPublisher connects to the brokers
func NewKafkaPublisher(config *KafkaProducerConfig, log *logger.Logger) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(config.Brokers, config.SaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, config, log), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, config *KafkaProducerConfig, log *logger.Logger) *KafkaPublisher {
	if log == nil {
		log = logger.GetDefault()
	}
	return &KafkaPublisher{producer: producer, config: config, log: log}
}

// PublishOrderEvent publishes a single event keyed by order id
func (kp *KafkaPublisher) PublishOrderEvent(ctx context.Context, event *OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	messageBytes, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     kp.config.Topic,
		Key:       sarama.StringEncoder(event.PartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   kp.createHeaders(event),
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := kp.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send order event to Kafka: %w", err)
	}

	kp.log.DebugWithContext(ctx, "Order event published", map[string]interface{}{
		"topic":     kp.config.Topic,
		"partition": partition,
		"offset":    offset,
		"type":      string(event.Type),
		"order_id":  event.OrderID,
	})
	return nil
}

// createHeaders creates Kafka headers for order events
func (kp *KafkaPublisher) createHeaders(event *OrderEvent) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("event_id"), Value: []byte(event.ID.String())},
		{Key: []byte("event_type"), Value: []byte(event.Type)},
		{Key: []byte("order_id"), Value: []byte(event.OrderID)},
		{Key: []byte("show_context"), Value: []byte(event.ShowContext)},
		{Key: []byte("version"), Value: []byte("1.0")},
		{Key: []byte("producer"), Value: []byte("circustix-orders")},
	}
}

// Close closes the Kafka producer
func (kp *KafkaPublisher) Close() error {
	if kp.producer == nil {
		return nil
	}
	if err := kp.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}
