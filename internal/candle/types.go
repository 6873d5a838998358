// Package candle implements C1: the candle source adapter. It serves
// candle windows from a three-tier fallback chain — streamer cache (Redis),
// disk store (Postgres via sqlx/lib/pq), broker fetch — reporting which
// tier served each read so the risk filter pipeline can gate on
// freshness (spec §4.4/§6).
package candle

import (
	"context"
	"time"

	"github.com/rangescalp/engine/internal/market"
)

// Candle and Window alias market's types for signature readability.
type Candle = market.Candle
type Window = market.Window

// Tier tags which fallback level served a read.
type Tier string

const (
	TierStreamerCache Tier = "streamer_cache"
	TierDiskStore     Tier = "disk_store"
	TierBrokerFetch   Tier = "broker_fetch"
)

// Result is a served candle window plus its provenance.
type Result struct {
	Window Window
	Tier   Tier
	Age    time.Duration
}

// Broker is the minimal subset of gateway operations C1 needs (spec §6);
// the concrete gateway is out of scope for this module. PositionsGet/
// PositionsGetByTicket/SymbolInfo/SymbolSelect/OrderSend exist on the full
// broker interface (internal/exits.Broker covers the order side); this
// interface covers only the rate/candle side C1 owns.
type Broker interface {
	SymbolSelect(ctx context.Context, symbol string) error
	CopyRatesFromPos(ctx context.Context, symbol string, tf market.Timeframe, pos, count int) ([]Candle, error)
	CopyRatesFrom(ctx context.Context, symbol string, tf market.Timeframe, from time.Time, count int) ([]Candle, error)
}
