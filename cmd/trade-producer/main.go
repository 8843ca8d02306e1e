package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"strings"
	"time"

	tradev1 "github.com/RKarSiva001/Yebelo-Assignment/internal/domain/trade/v1"
	"github.com/oklog/ulid/v2"
	"github.com/segmentio/kafka-go"
)

// generateTokenAddresses creates base58-looking token addresses.
func generateTokenAddresses(count int) []string {
	const charset = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
	tokens := make([]string, count)
	for i := range tokens {
		var b strings.Builder
		for j := 0; j < 44; j++ {
			b.WriteByte(charset[rand.Intn(len(charset))])
		}
		tokens[i] = b.String()
	}
	return tokens
}

// generateTrades produces random-walk trades round-robined across tokens.
func generateTrades(count int, tokens []string, basePrice, step float64) []tradev1.TradeEvent {
	trades := make([]tradev1.TradeEvent, count)
	prices := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		prices[token] = basePrice * (0.5 + rand.Float64())
	}

	for i := 0; i < count; i++ {
		token := tokens[i%len(tokens)]

		// random walk with a mild upward drift
		move := (rand.Float64() - 0.45) * step * prices[token]
		prices[token] += move
		if prices[token] <= 0 {
			prices[token] = basePrice * 0.01
		}

		isBuy := rand.Float64() < 0.5
		now := time.Now().UTC()

		trades[i] = tradev1.TradeEvent{
			TokenAddress:         token,
			PriceInSol:           prices[token],
			BlockTime:            now.Format(time.RFC3339),
			TransactionSignature: ulid.Make().String(),
			IsBuy:                isBuy,
			AmountInSol:          0.01 + rand.Float64()*9.99,
			ProcessedTimestamp:   now.Format(time.RFC3339Nano),
		}
	}

	return trades
}

func main() {
	var (
		brokers    = flag.String("brokers", "localhost:19092", "Kafka broker addresses (comma-separated)")
		topic      = flag.String("topic", "trade-data", "Kafka topic name")
		count      = flag.Int("count", 1000, "Number of trades to generate")
		tokenCount = flag.Int("tokens", 5, "Number of distinct tokens")
		delay      = flag.Duration("delay", 100*time.Millisecond, "Delay between sending trades")
		basePrice  = flag.Float64("base-price", 0.0005, "Base price in SOL")
		step       = flag.Float64("step", 0.02, "Random walk step as a fraction of price")
	)
	flag.Parse()

	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(*brokers, ",")...),
		Topic:        *topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	ctx := context.Background()

	tokens := generateTokenAddresses(*tokenCount)
	log.Printf("Generating %d trades across %d tokens...", *count, *tokenCount)
	trades := generateTrades(*count, tokens, *basePrice, *step)

	log.Printf("Sending trades to Kafka broker: %s, topic: %s", *brokers, *topic)

	for i, trade := range trades {
		payload, err := json.Marshal(trade)
		if err != nil {
			log.Printf("Failed to marshal trade %d: %v", i+1, err)
			continue
		}

		msg := kafka.Message{
			Key:   []byte(trade.TokenAddress),
			Value: payload,
			Time:  time.Now(),
		}

		if err := writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("Failed to send trade %d (%s): %v", i+1, trade.TransactionSignature, err)
			continue
		}

		if (i+1)%100 == 0 || i == len(trades)-1 {
			log.Printf("Sent trade %d/%d: %s... | %.8f SOL | buy=%v",
				i+1, len(trades), trade.TokenAddress[:8], trade.PriceInSol, trade.IsBuy)
		}

		if i < len(trades)-1 {
			time.Sleep(*delay)
		}
	}

	log.Printf("Successfully sent all %d trades!", len(trades))
}
