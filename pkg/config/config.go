package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	App     AppConfig     `envPrefix:"APP_"`
	Kafka   KafkaConfig   `envPrefix:"KAFKA_"`
	RSI     RSIConfig     `envPrefix:"RSI_"`
	Metrics MetricsConfig `envPrefix:"METRICS_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"rsi-engine"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// KafkaConfig represents the Kafka configuration shared by the trade
// consumer and the signal publisher.
type KafkaConfig struct {
	Brokers         []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:19092"`
	InputTopic      string   `env:"INPUT_TOPIC" envDefault:"trade-data"`
	OutputTopic     string   `env:"OUTPUT_TOPIC" envDefault:"rsi-data"`
	ConsumerGroup   string   `env:"CONSUMER_GROUP" envDefault:"rsi-engine"`
	StartOffset     string   `env:"START_OFFSET" envDefault:"earliest"`
	SessionTimeout  int      `env:"SESSION_TIMEOUT" envDefault:"6"`
	WriteTimeout    int      `env:"WRITE_TIMEOUT" envDefault:"5"`
	CommitBatchSize int      `env:"COMMIT_BATCH_SIZE" envDefault:"100"`
	ReadBackoff     int      `env:"READ_BACKOFF" envDefault:"1"`
	Compression     string   `env:"COMPRESSION" envDefault:"gzip"`
}

// RSIConfig represents the indicator configuration.
type RSIConfig struct {
	Period      int `env:"PERIOD" envDefault:"14"`
	WindowSlack int `env:"WINDOW_SLACK" envDefault:"10"`
}

// MetricsConfig represents the metrics endpoint configuration.
type MetricsConfig struct {
	Addr string `env:"ADDR" envDefault:":9102"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
