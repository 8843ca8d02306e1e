package bootstrap

import (
	"context"

	"github.com/RKarSiva001/Yebelo-Assignment/internal/consumer"
	"github.com/RKarSiva001/Yebelo-Assignment/internal/metrics"
	"github.com/RKarSiva001/Yebelo-Assignment/internal/publisher"
	"github.com/RKarSiva001/Yebelo-Assignment/internal/usecase/pipeline"
	"github.com/RKarSiva001/Yebelo-Assignment/pkg/config"
	"github.com/RKarSiva001/Yebelo-Assignment/pkg/logger"
)

// Engine bundles the wired components of the RSI engine service.
type Engine struct {
	Consumer  *consumer.TradeConsumer
	Publisher *publisher.SignalPublisher
	Metrics   *metrics.Server

	logger logger.Interface
	config config.Config
}

// InitEngine wires config, logger, metrics, processor, publisher and
// consumer into a runnable engine.
func InitEngine(cfg config.Config) (*Engine, error) {
	log, err := logger.NewLogger(
		logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)),
		logger.WithTimeKey("timestamp"),
	)
	if err != nil {
		return nil, err
	}

	m := metrics.NewMetrics()
	proc := pipeline.NewProcessor(cfg.RSI.Period, cfg.RSI.WindowSlack)
	pub := publisher.NewSignalPublisher(cfg.Kafka, log)

	engine := &Engine{
		Consumer:  consumer.NewTradeConsumer(cfg.Kafka, proc, pub, m, log),
		Publisher: pub,
		Metrics:   metrics.NewServer(cfg.Metrics.Addr, m),
		logger:    log,
		config:    cfg,
	}

	log.Info("rsi engine initialized",
		logger.Field{Key: "brokers", Value: cfg.Kafka.Brokers},
		logger.Field{Key: "input_topic", Value: cfg.Kafka.InputTopic},
		logger.Field{Key: "output_topic", Value: cfg.Kafka.OutputTopic},
		logger.Field{Key: "period", Value: cfg.RSI.Period},
	)

	return engine, nil
}

// Stop shuts the engine's transports down.
func (e *Engine) Stop(ctx context.Context) {
	if err := e.Consumer.Stop(); err != nil {
		e.logger.Error(err, logger.Field{Key: "action", Value: "stop_consumer"})
	}
	if err := e.Publisher.Close(); err != nil {
		e.logger.Error(err, logger.Field{Key: "action", Value: "close_publisher"})
	}
	if err := e.Metrics.Stop(ctx); err != nil {
		e.logger.Error(err, logger.Field{Key: "action", Value: "stop_metrics"})
	}
	_ = e.logger.Sync()
}
