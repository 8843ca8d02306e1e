package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	signalv1 "github.com/RKarSiva001/Yebelo-Assignment/internal/domain/signal/v1"
	tradev1 "github.com/RKarSiva001/Yebelo-Assignment/internal/domain/trade/v1"
	"github.com/RKarSiva001/Yebelo-Assignment/internal/metrics"
	"github.com/RKarSiva001/Yebelo-Assignment/internal/usecase/pipeline"
	"github.com/RKarSiva001/Yebelo-Assignment/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePublisher records published results and optionally fails.
type fakePublisher struct {
	results []*signalv1.Result
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, result *signalv1.Result) error {
	if f.err != nil {
		return f.err
	}
	f.results = append(f.results, result)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func newTestConsumer(period, slack int) (*TradeConsumer, *fakePublisher) {
	pub := &fakePublisher{}
	c := &TradeConsumer{
		processor:   pipeline.NewProcessor(period, slack),
		publisher:   pub,
		metrics:     metrics.NewMetrics(),
		logger:      logger.NewNop(),
		commitBatch: 100,
	}
	return c, pub
}

func tradePayload(token string, price float64) []byte {
	payload, _ := json.Marshal(tradev1.TradeEvent{
		TokenAddress:         token,
		PriceInSol:           price,
		BlockTime:            "2024-01-01T00:00:00Z",
		TransactionSignature: "sig",
		IsBuy:                true,
		AmountInSol:          0.5,
	})
	return payload
}

// Test 1: Malformed JSON is skipped without touching state
func TestTradeConsumer_MalformedPayload(t *testing.T) {
	c, pub := newTestConsumer(14, 10)

	c.handleMessage(context.Background(), []byte("{not json"))

	assert.Empty(t, pub.results)
	assert.Equal(t, 0, c.processor.Tokens())
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.MalformedTrades))
}

// Test 2: Missing required fields are treated as malformed
func TestTradeConsumer_MissingPrice(t *testing.T) {
	c, pub := newTestConsumer(14, 10)

	c.handleMessage(context.Background(), []byte(`{"token_address":"ABC","is_buy":true}`))

	assert.Empty(t, pub.results)
	assert.Equal(t, 0, c.processor.Tokens())
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.MalformedTrades))
}

// Test 3: Warm-up then exactly one published result
func TestTradeConsumer_PublishesAfterWarmUp(t *testing.T) {
	c, pub := newTestConsumer(14, 10)
	prices := []float64{1.0, 1.1, 1.05, 1.2, 1.3, 1.25, 1.4, 1.5, 1.45, 1.6, 1.7, 1.65, 1.8, 1.9, 2.0}

	for _, price := range prices {
		c.handleMessage(context.Background(), tradePayload("ABC", price))
	}

	require.Len(t, pub.results, 1)
	res := pub.results[0]
	assert.Equal(t, "ABC", res.TokenAddress)
	assert.Equal(t, 2.0, res.CurrentPrice)
	assert.Equal(t, 14, res.Period)
	assert.Equal(t, signalv1.SignalOverbought, res.Signal)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.SignalsPublished))
}

// Test 4: Publish failure is non-fatal and does not roll back history
func TestTradeConsumer_PublishFailure(t *testing.T) {
	c, pub := newTestConsumer(3, 2)
	pub.err = fmt.Errorf("broker unavailable")

	for i := 0; i < 5; i++ {
		c.handleMessage(context.Background(), tradePayload("tok", float64(i+1)))
	}

	assert.Empty(t, pub.results)
	assert.Equal(t, 2.0, testutil.ToFloat64(c.metrics.PublishErrors))

	// Recovered sink sees results computed from the retained history.
	pub.err = nil
	c.handleMessage(context.Background(), tradePayload("tok", 6.0))
	require.Len(t, pub.results, 1)
	assert.Equal(t, 100.0, pub.results[0].RSIValue)
}

// Test 5: Partial payload with valid token and price is still malformed
func TestTradeConsumer_PartialPayload(t *testing.T) {
	c, pub := newTestConsumer(14, 10)

	c.handleMessage(context.Background(), []byte(`{"token_address":"ABC","price_in_sol":1.0}`))

	assert.Empty(t, pub.results)
	assert.Equal(t, 0, c.processor.Tokens())
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.MalformedTrades))
}

// Test 6: Start offset policy mapping
func TestStartOffset(t *testing.T) {
	assert.Equal(t, kafka.FirstOffset, startOffset("earliest"))
	assert.Equal(t, kafka.LastOffset, startOffset("latest"))
	assert.Equal(t, kafka.FirstOffset, startOffset(""))
}

// fakeReader feeds scripted messages and records commit batches. Once the
// script is exhausted it cancels the run context, mimicking shutdown.
type fakeReader struct {
	msgs        []kafka.Message
	idx         int
	errsBefore  int
	failCommits int
	cancel      context.CancelFunc
	commits     [][]kafka.Message
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if r.errsBefore > 0 {
		r.errsBefore--
		return kafka.Message{}, fmt.Errorf("broker unreachable")
	}
	if r.idx >= len(r.msgs) {
		r.cancel()
		return kafka.Message{}, context.Canceled
	}
	msg := r.msgs[r.idx]
	r.idx++
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	if r.failCommits > 0 {
		r.failCommits--
		return fmt.Errorf("commit failed")
	}
	r.commits = append(r.commits, append([]kafka.Message(nil), msgs...))
	return nil
}

func (r *fakeReader) Close() error { return nil }

func runConsumer(t *testing.T, reader *fakeReader, commitBatch int) *TradeConsumer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader.cancel = cancel

	c := &TradeConsumer{
		kafkaReader: reader,
		processor:   pipeline.NewProcessor(14, 10),
		publisher:   &fakePublisher{},
		metrics:     metrics.NewMetrics(),
		logger:      logger.NewNop(),
		commitBatch: commitBatch,
	}
	c.Run(ctx)
	return c
}

func scriptedTrades(n int) []kafka.Message {
	msgs := make([]kafka.Message, n)
	for i := range msgs {
		msgs[i] = kafka.Message{Offset: int64(i), Value: tradePayload("tok", float64(i+1))}
	}
	return msgs
}

// Test 7: Offsets are committed every commitBatch messages, remainder on shutdown
func TestTradeConsumer_BatchedCommits(t *testing.T) {
	reader := &fakeReader{msgs: scriptedTrades(7)}

	runConsumer(t, reader, 3)

	require.Len(t, reader.commits, 3)
	assert.Len(t, reader.commits[0], 3)
	assert.Len(t, reader.commits[1], 3)
	// shutdown flushes the partial batch
	assert.Len(t, reader.commits[2], 1)
	assert.Equal(t, int64(6), reader.commits[2][0].Offset)
}

// Test 8: A failed commit keeps the batch, which rides along with the next flush
func TestTradeConsumer_CommitFailureRetainsBatch(t *testing.T) {
	reader := &fakeReader{msgs: scriptedTrades(6), failCommits: 1}

	c := runConsumer(t, reader, 3)

	// First flush at 3 messages fails; the batch stays pending and is
	// committed together with the 4th message on the next flush.
	require.Len(t, reader.commits, 2)
	assert.Len(t, reader.commits[0], 4)
	assert.Len(t, reader.commits[1], 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.CommitErrors))
}

// Test 9: Receive errors back off and never stop the loop
func TestTradeConsumer_ReadErrorBackoff(t *testing.T) {
	reader := &fakeReader{msgs: scriptedTrades(2), errsBefore: 2}

	c := runConsumer(t, reader, 10)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.metrics.ReadErrors))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.metrics.TradesConsumed))
	// both messages flushed on shutdown
	require.Len(t, reader.commits, 1)
	assert.Len(t, reader.commits[0], 2)
}
