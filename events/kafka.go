package events

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/obeddx/notarichCafe-sub002/pkg/logger"
)

// TopicCafeEvents is the Kafka topic mirroring every broadcast event.
const TopicCafeEvents = "cafe-events"

// KafkaMirror copies broadcast events onto a Kafka topic. Failures are
// logged and swallowed; the in-process broadcast is the primary channel.
type KafkaMirror struct {
	producer sarama.SyncProducer
	brokers  []string
}

// NewKafkaMirror creates a mirror backed by a synchronous producer.
func NewKafkaMirror(brokers []string) (*KafkaMirror, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("topic", TopicCafeEvents).
		Msg("Kafka event mirror initialized")

	return &KafkaMirror{producer: producer, brokers: brokers}, nil
}

// Publish sends one event to the topic, keyed by event type so consumers
// see per-type ordering.
func (m *KafkaMirror) Publish(event Event) {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to marshal event for Kafka")
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: TopicCafeEvents,
		Key:   sarama.StringEncoder(event.Type),
		Value: sarama.ByteEncoder(eventBytes),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
			{Key: []byte("event_id"), Value: []byte(event.ID)},
		},
	}

	partition, offset, err := m.producer.SendMessage(msg)
	if err != nil {
		logger.Logger.Error().
			Err(err).
			Str("event_type", string(event.Type)).
			Msg("Failed to mirror event to Kafka")
		return
	}

	logger.Logger.Debug().
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Event mirrored to Kafka")
}

// Close closes the underlying producer.
func (m *KafkaMirror) Close() error {
	if m.producer != nil {
		return m.producer.Close()
	}
	return nil
}
