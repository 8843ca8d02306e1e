package rsi

import (
	signalv1 "github.com/RKarSiva001/Yebelo-Assignment/internal/domain/signal/v1"
)

// Classification bands. Boundary values are neutral.
const (
	oversoldThreshold   = 30.0
	overboughtThreshold = 70.0
)

// Compute calculates the simple-moving-average RSI over the last period
// deltas of prices. It returns false when fewer than period+1 prices are
// available.
//
// Gains and losses are recomputed in full from the window on every call;
// there is no Wilder-style smoothing and no state carried between calls.
func Compute(prices []float64, period int) (float64, bool) {
	if period <= 0 || len(prices) < period+1 {
		return 0, false
	}

	start := len(prices) - (period + 1)

	var gainSum, lossSum float64
	for i := start + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gainSum += change
		} else {
			lossSum += -change
		}
	}

	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)

	// No down-moves in the window means RSI is exactly 100 by definition,
	// which also keeps the RS division well-defined.
	if avgLoss == 0 {
		return 100, true
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs)), true
}

// Classify maps an RSI value to its discrete trading signal.
func Classify(value float64) signalv1.Signal {
	switch {
	case value < oversoldThreshold:
		return signalv1.SignalOversold
	case value > overboughtThreshold:
		return signalv1.SignalOverbought
	default:
		return signalv1.SignalNeutral
	}
}
