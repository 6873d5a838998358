package candle

import (
	"context"
	"time"

	"github.com/rangescalp/engine/internal/market"
)

// nilBroker is a test double satisfying Broker that returns a fixed
// candle series regardless of arguments, used wherever a test needs a
// broker-fetch tier without a real gateway connection.
type nilBroker struct {
	candles []Candle
	err     error
}

func (b *nilBroker) SymbolSelect(ctx context.Context, symbol string) error { return b.err }

func (b *nilBroker) CopyRatesFromPos(ctx context.Context, symbol string, tf market.Timeframe, pos, count int) ([]Candle, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.candles, nil
}

func (b *nilBroker) CopyRatesFrom(ctx context.Context, symbol string, tf market.Timeframe, from time.Time, count int) ([]Candle, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.candles, nil
}
