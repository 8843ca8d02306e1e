package publisher

import (
	"context"
	"encoding/json"
	"time"

	signalv1 "github.com/RKarSiva001/Yebelo-Assignment/internal/domain/signal/v1"
	"github.com/RKarSiva001/Yebelo-Assignment/pkg/config"
	"github.com/RKarSiva001/Yebelo-Assignment/pkg/errors"
	"github.com/RKarSiva001/Yebelo-Assignment/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// SignalPublisher represents a Kafka publisher for computed RSI results.
type SignalPublisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
}

// NewSignalPublisher creates a new Kafka publisher for the signal topic.
// Messages are keyed by token address so one token always lands on one
// partition.
func NewSignalPublisher(cfg config.KafkaConfig, log logger.Interface) *SignalPublisher {
	kafkaWriter := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.OutputTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		Compression:  compressionCodec(cfg.Compression),
	}

	return &SignalPublisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// Publish writes one RSI result to the signal topic.
func (p *SignalPublisher) Publish(ctx context.Context, result *signalv1.Result) error {
	value, err := json.Marshal(result)
	if err != nil {
		return errors.TracerFromError(err)
	}

	msg := kafka.Message{
		Key:   []byte(result.TokenAddress),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "operation", Value: "publish_signal"},
			logger.Field{Key: "token", Value: result.TokenAddress},
		)
		return errors.NewTracer("failed to publish rsi result").Wrap(err)
	}
	return nil
}

// Close properly closes the Kafka writer.
func (p *SignalPublisher) Close() error {
	return p.kafkaWriter.Close()
}

func compressionCodec(name string) kafka.Compression {
	switch name {
	case "gzip":
		return kafka.Gzip
	case "snappy":
		return kafka.Snappy
	case "lz4":
		return kafka.Lz4
	case "zstd":
		return kafka.Zstd
	default:
		return 0
	}
}
