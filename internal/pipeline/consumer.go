package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/pixellens/internal/config"
)

// Consumer reads raw frame payloads from a Kafka topic and forwards them
// downstream for parsing.
type Consumer struct {
	reader *kafka.Reader
	output chan<- []byte
	logger *zap.Logger
}

// NewConsumer creates and configures a new Kafka consumer instance.
func NewConsumer(cfg config.KafkaConfig, output chan<- []byte, logger *zap.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" || cfg.GroupID == "" {
		logger.Error("Kafka configuration validation failed",
			zap.Strings("brokers", cfg.Brokers),
			zap.String("topic", cfg.Topic),
			zap.String("group_id", cfg.GroupID),
		)
		return nil, ErrInvalidKafkaConfig
	}

	kafkaLog := logger.Named("kafka-reader").WithOptions(zap.AddCallerSkip(1)).Sugar()
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		Logger:      kafka.LoggerFunc(kafkaLog.Debugf),
		ErrorLogger: kafka.LoggerFunc(kafkaLog.Errorf),
	})

	logger.Info("Kafka consumer created",
		zap.String("topic", cfg.Topic),
		zap.String("group_id", cfg.GroupID),
		zap.Strings("brokers", cfg.Brokers),
	)

	return &Consumer{
		reader: reader,
		output: output,
		logger: logger,
	}, nil
}

// Run fetches messages until the context is cancelled or an unrecoverable
// error occurs. The reader is closed on the way out.
func (c *Consumer) Run(ctx context.Context) error {
	sugar := c.logger.Sugar()
	sugar.Info("Starting Kafka consumer loop...")

	defer func() {
		if err := c.reader.Close(); err != nil {
			sugar.Errorw("Failed to close Kafka reader cleanly", zap.Error(err))
		}
		sugar.Info("Kafka consumer loop stopped.")
	}()

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return context.Canceled
			}
			c.logger.Error("Error fetching message from Kafka", zap.Error(err))
			return fmt.Errorf("%w: %w", ErrKafkaFetchFailed, err)
		}

		select {
		case c.output <- m.Value:

		case <-ctx.Done():
			return context.Canceled
		}
	}
}
