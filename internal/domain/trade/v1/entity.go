package v1

import (
	"encoding/json"
	"fmt"
)

// TradeEvent represents a single trade consumed from the trade topic.
type TradeEvent struct {
	TokenAddress         string  `json:"token_address"`
	PriceInSol           float64 `json:"price_in_sol"`
	BlockTime            string  `json:"block_time"`
	TransactionSignature string  `json:"transaction_signature"`
	IsBuy                bool    `json:"is_buy"`
	AmountInSol          float64 `json:"amount_in_sol"`

	// ProcessedTimestamp is set by the ingestion side and carried through
	// when present. Optional.
	ProcessedTimestamp string `json:"processed_timestamp,omitempty"`
}

// UnmarshalJSON decodes a trade payload and rejects it when any required
// field is absent. Plain struct decoding would leave absent fields at their
// zero values, silently accepting partial payloads.
func (t *TradeEvent) UnmarshalJSON(data []byte) error {
	var raw struct {
		TokenAddress         *string  `json:"token_address"`
		PriceInSol           *float64 `json:"price_in_sol"`
		BlockTime            *string  `json:"block_time"`
		TransactionSignature *string  `json:"transaction_signature"`
		IsBuy                *bool    `json:"is_buy"`
		AmountInSol          *float64 `json:"amount_in_sol"`
		ProcessedTimestamp   string   `json:"processed_timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.TokenAddress == nil:
		return fmt.Errorf("trade event missing token_address")
	case raw.PriceInSol == nil:
		return fmt.Errorf("trade event missing price_in_sol")
	case raw.BlockTime == nil:
		return fmt.Errorf("trade event missing block_time")
	case raw.TransactionSignature == nil:
		return fmt.Errorf("trade event missing transaction_signature")
	case raw.IsBuy == nil:
		return fmt.Errorf("trade event missing is_buy")
	case raw.AmountInSol == nil:
		return fmt.Errorf("trade event missing amount_in_sol")
	}

	t.TokenAddress = *raw.TokenAddress
	t.PriceInSol = *raw.PriceInSol
	t.BlockTime = *raw.BlockTime
	t.TransactionSignature = *raw.TransactionSignature
	t.IsBuy = *raw.IsBuy
	t.AmountInSol = *raw.AmountInSol
	t.ProcessedTimestamp = raw.ProcessedTimestamp
	return nil
}

// Validate checks the decoded event for domain validity: identifiers must be
// non-empty and the price positive. Field presence is already enforced by
// UnmarshalJSON; this guards events built in code as well.
func (t *TradeEvent) Validate() error {
	if t.TokenAddress == "" {
		return fmt.Errorf("trade event has empty token_address")
	}
	if t.PriceInSol <= 0 {
		return fmt.Errorf("trade event has non-positive price_in_sol")
	}
	if t.BlockTime == "" {
		return fmt.Errorf("trade event has empty block_time")
	}
	if t.TransactionSignature == "" {
		return fmt.Errorf("trade event has empty transaction_signature")
	}
	return nil
}
