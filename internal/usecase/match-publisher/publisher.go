package matchpublisher

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/segmentio/kafka-go"

	matchpublisherv1 "github.com/sekoyo/matching-engine/internal/domain/match-publisher/v1"
	"github.com/sekoyo/matching-engine/pkg/config"
	"github.com/sekoyo/matching-engine/pkg/errors"
	"github.com/sekoyo/matching-engine/pkg/logger"
)

// Publisher represents a Kafka publisher for publishing trade events.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
}

// NewPublisher creates a new Kafka publisher for publishing trade events.
func NewPublisher(config config.KafkaConfig, logger logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: config.Brokers,
		Topic:   config.TradeTopic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      logger,
	}
}

// PublishTrade publishes a trade event to the trade topic, assigning it a
// ULID so consumers can dedupe across redeliveries.
func (p *Publisher) PublishTrade(ctx context.Context, event *matchpublisherv1.TradeEvent) error {
	if event.TradeID == "" {
		event.TradeID = ulid.Make().String()
	}

	msg := kafka.Message{
		Key:   []byte(event.Pair),
		Value: matchpublisherv1.ToBytes(event),
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "tradeID", Value: event.TradeID},
			logger.Field{Key: "pair", Value: event.Pair},
		)
		return errors.NewTracer("failed to publish trade event").Wrap(err)
	}
	return nil
}

// Close flushes and closes the underlying Kafka writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
