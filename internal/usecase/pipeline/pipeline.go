package pipeline

import (
	"time"

	signalv1 "github.com/RKarSiva001/Yebelo-Assignment/internal/domain/signal/v1"
	tradev1 "github.com/RKarSiva001/Yebelo-Assignment/internal/domain/trade/v1"
	"github.com/RKarSiva001/Yebelo-Assignment/internal/usecase/history"
	"github.com/RKarSiva001/Yebelo-Assignment/internal/usecase/rsi"
)

// Processor turns trade events into RSI results. It owns all per-token
// window state; construct a fresh Processor per stream.
//
// Processor is not safe for concurrent use. The pipeline feeds it from a
// single goroutine, which is what keeps per-token ordering intact.
type Processor struct {
	table  *history.Table
	period int
	now    func() time.Time
}

// NewProcessor creates a Processor computing period-RSI. Each token's window
// holds period+slack prices.
func NewProcessor(period, slack int) *Processor {
	return &Processor{
		table:  history.NewTable(period + slack),
		period: period,
		now:    time.Now,
	}
}

// WithClock overrides the wall clock used for result timestamps. Intended
// for tests.
func (p *Processor) WithClock(now func() time.Time) *Processor {
	p.now = now
	return p
}

// ProcessTrade records the trade's price and, once enough history exists,
// returns the classified RSI result for it. The second return value is false
// while the token's window is still warming up.
func (p *Processor) ProcessTrade(trade *tradev1.TradeEvent) (*signalv1.Result, bool) {
	p.table.Record(trade.TokenAddress, trade.PriceInSol)

	value, ok := rsi.Compute(p.table.Prices(trade.TokenAddress), p.period)
	if !ok {
		return nil, false
	}

	return &signalv1.Result{
		TokenAddress: trade.TokenAddress,
		RSIValue:     value,
		CurrentPrice: trade.PriceInSol,
		Timestamp:    p.now().UTC().Format(time.RFC3339),
		Period:       p.period,
		Signal:       rsi.Classify(value),
	}, true
}

// Tokens reports how many tokens the processor has seen.
func (p *Processor) Tokens() int {
	return p.table.Tokens()
}
