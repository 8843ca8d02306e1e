package consumer

import (
	"context"
	"encoding/json"
	"time"

	publisherv1 "github.com/RKarSiva001/Yebelo-Assignment/internal/domain/signal-publisher/v1"
	tradev1 "github.com/RKarSiva001/Yebelo-Assignment/internal/domain/trade/v1"
	"github.com/RKarSiva001/Yebelo-Assignment/internal/metrics"
	"github.com/RKarSiva001/Yebelo-Assignment/internal/usecase/pipeline"
	"github.com/RKarSiva001/Yebelo-Assignment/pkg/config"
	"github.com/RKarSiva001/Yebelo-Assignment/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// statsEvery controls how often a throughput summary is logged, counted in
// published results.
const statsEvery = 50

// messageReader is the slice of kafka.Reader the consumer drives: fetch
// without auto-commit, explicit commits, close.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// TradeConsumer drives the pipeline: it pulls trade messages from the trade
// topic, feeds them through the processor, publishes the resulting RSI
// signals and commits offsets in batches.
//
// One TradeConsumer runs one goroutine. Every message is handled fully
// before the next is fetched, which preserves per-token ordering as
// delivered by the broker.
type TradeConsumer struct {
	kafkaReader messageReader
	processor   *pipeline.Processor
	publisher   publisherv1.SignalPublisher
	metrics     *metrics.Metrics
	logger      logger.Interface

	commitBatch int
	readBackoff time.Duration

	consumed  uint64
	published uint64
	pending   []kafka.Message
}

// NewTradeConsumer creates a new TradeConsumer.
func NewTradeConsumer(
	cfg config.KafkaConfig,
	processor *pipeline.Processor,
	publisher publisherv1.SignalPublisher,
	m *metrics.Metrics,
	log logger.Interface,
) *TradeConsumer {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.InputTopic,
		GroupID:        cfg.ConsumerGroup,
		MinBytes:       1,
		MaxBytes:       10e6,
		StartOffset:    startOffset(cfg.StartOffset),
		SessionTimeout: time.Duration(cfg.SessionTimeout) * time.Second,
	})

	return &TradeConsumer{
		kafkaReader: kafkaReader,
		processor:   processor,
		publisher:   publisher,
		metrics:     m,
		logger:      log,
		commitBatch: cfg.CommitBatchSize,
		readBackoff: time.Duration(cfg.ReadBackoff) * time.Second,
	}
}

// Run processes messages until ctx is cancelled. Receive errors pause the
// loop for the configured backoff and never terminate it; nothing in normal
// operation is fatal.
func (c *TradeConsumer) Run(ctx context.Context) {
	c.logger.Info("starting trade consumer",
		logger.Field{Key: "action", Value: "trade_consumer_start"},
	)

	for {
		select {
		case <-ctx.Done():
			c.commitPending(context.Background())
			c.logger.Info("context done",
				logger.Field{Key: "action", Value: "trade_consumer_stop"},
			)
			return
		default:
		}

		msg, err := c.kafkaReader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			c.metrics.ReadErrors.Inc()
			c.logger.Error(err,
				logger.Field{Key: "action", Value: "fetch_message"},
			)
			c.pause(ctx)
			continue
		}

		c.consumed++
		c.metrics.TradesConsumed.Inc()
		c.handleMessage(ctx, msg.Value)

		c.pending = append(c.pending, msg)
		if len(c.pending) >= c.commitBatch {
			c.commitPending(ctx)
		}
	}
}

// Stop closes the underlying Kafka reader.
func (c *TradeConsumer) Stop() error {
	c.logger.Info("stopping trade consumer",
		logger.Field{Key: "action", Value: "trade_consumer_stop"},
	)
	return c.kafkaReader.Close()
}

// handleMessage runs one payload through parse, update, compute, classify
// and publish. Malformed payloads are skipped before any state changes.
func (c *TradeConsumer) handleMessage(ctx context.Context, payload []byte) {
	var trade tradev1.TradeEvent
	if err := json.Unmarshal(payload, &trade); err != nil {
		c.metrics.MalformedTrades.Inc()
		c.logger.Warn("failed to parse trade message",
			logger.Field{Key: "action", Value: "unmarshal_trade"},
			logger.Field{Key: "error", Value: err.Error()},
		)
		return
	}
	if err := trade.Validate(); err != nil {
		c.metrics.MalformedTrades.Inc()
		c.logger.Warn("invalid trade message",
			logger.Field{Key: "action", Value: "validate_trade"},
			logger.Field{Key: "error", Value: err.Error()},
		)
		return
	}

	start := time.Now()
	result, ok := c.processor.ProcessTrade(&trade)
	c.metrics.ComputeDur.Observe(time.Since(start).Seconds())
	if !ok {
		// window still warming up for this token
		return
	}

	c.logger.Info("rsi computed",
		logger.Field{Key: "token", Value: shortToken(result.TokenAddress)},
		logger.Field{Key: "price", Value: result.CurrentPrice},
		logger.Field{Key: "rsi", Value: result.RSIValue},
		logger.Field{Key: "signal", Value: result.Signal},
	)

	if err := c.publisher.Publish(ctx, result); err != nil {
		// The result is lost, not retried. The history update stands.
		c.metrics.PublishErrors.Inc()
		c.logger.Error(err,
			logger.Field{Key: "action", Value: "publish_signal"},
			logger.Field{Key: "token", Value: shortToken(result.TokenAddress)},
		)
		return
	}

	c.published++
	c.metrics.SignalsPublished.Inc()

	if c.published%statsEvery == 0 {
		c.logger.Info("throughput stats",
			logger.Field{Key: "trades_consumed", Value: c.consumed},
			logger.Field{Key: "signals_published", Value: c.published},
			logger.Field{Key: "tokens_tracked", Value: c.processor.Tokens()},
		)
	}
}

// commitPending checkpoints consumption progress for everything handled so
// far. Failures are logged and the batch is retried with the next flush.
func (c *TradeConsumer) commitPending(ctx context.Context) {
	if len(c.pending) == 0 {
		return
	}
	if err := c.kafkaReader.CommitMessages(ctx, c.pending...); err != nil {
		c.metrics.CommitErrors.Inc()
		c.logger.Warn("failed to commit offsets",
			logger.Field{Key: "action", Value: "commit_messages"},
			logger.Field{Key: "error", Value: err.Error()},
		)
		return
	}
	c.pending = c.pending[:0]
}

// pause sleeps for the read backoff or until ctx is cancelled.
func (c *TradeConsumer) pause(ctx context.Context) {
	timer := time.NewTimer(c.readBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func startOffset(policy string) int64 {
	if policy == "latest" {
		return kafka.LastOffset
	}
	return kafka.FirstOffset
}

func shortToken(addr string) string {
	if len(addr) > 8 {
		return addr[:8]
	}
	return addr
}
