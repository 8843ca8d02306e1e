package v1

// Signal is the discrete trading signal derived from an RSI value.
type Signal string

const (
	// SignalOversold indicates RSI below the oversold band (RSI < 30).
	SignalOversold Signal = "oversold"
	// SignalNeutral indicates RSI within the neutral band (30 <= RSI <= 70).
	SignalNeutral Signal = "neutral"
	// SignalOverbought indicates RSI above the overbought band (RSI > 70).
	SignalOverbought Signal = "overbought"
)

// Result represents one computed RSI signal published to the signal topic.
type Result struct {
	TokenAddress string  `json:"token_address"`
	RSIValue     float64 `json:"rsi_value"`
	CurrentPrice float64 `json:"current_price"`
	Timestamp    string  `json:"timestamp"`
	Period       int     `json:"period"`
	Signal       Signal  `json:"signal"`
}
