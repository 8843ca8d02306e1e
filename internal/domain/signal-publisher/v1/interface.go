package v1

import (
	"context"

	signalv1 "github.com/RKarSiva001/Yebelo-Assignment/internal/domain/signal/v1"
)

//go:generate mockgen -source=interface.go -destination=mock/publisher_mock.go -package=mock

// SignalPublisher publishes computed RSI results to the signal topic.
type SignalPublisher interface {
	Publish(ctx context.Context, result *signalv1.Result) error
	Close() error
}
