package candle

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/rangescalp/engine/internal/market"
	"github.com/rs/zerolog"
)

// Streamer keeps Cache warm by subscribing to a push-candle websocket feed
// and writing each completed bar straight into Redis, so the hot path
// (Source.Latest) almost never needs the broker-fetch fallback
// (spec §4.4, modeled on the teacher's facade.DataFacade.StreamKlines).
type Streamer struct {
	url    string
	cache  *Cache
	logger zerolog.Logger
}

// NewStreamer constructs a Streamer that will dial url on Run.
func NewStreamer(url string, cache *Cache, logger zerolog.Logger) *Streamer {
	return &Streamer{url: url, cache: cache, logger: logger}
}

// pushMessage is the wire shape the feed sends per completed bar.
type pushMessage struct {
	Symbol    string          `json:"symbol"`
	Timeframe market.Timeframe `json:"timeframe"`
	Candle    market.Candle    `json:"candle"`
}

// Run dials the websocket feed and writes every pushed candle into the
// cache until ctx is cancelled or the connection drops. Callers should
// restart Run in a retry loop; it returns nil only on clean ctx
// cancellation, any other return is an error worth logging and retrying.
func (s *Streamer) Run(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("candle: streamer dial: %w", err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var msg pushMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("candle: streamer read: %w", err)
		}
		s.absorb(ctx, msg)
	}
}

// absorb merges a single pushed candle into the cached window for its
// symbol+timeframe, appending it if newer than the cached tail or
// replacing the tail if it is an update of the still-forming bar.
func (s *Streamer) absorb(ctx context.Context, msg pushMessage) {
	w, _ := s.cache.Get(ctx, msg.Symbol, msg.Timeframe)
	w.Symbol, w.Timeframe = msg.Symbol, msg.Timeframe

	switch {
	case len(w.Candles) == 0:
		w.Candles = []market.Candle{msg.Candle}
	case w.Candles[len(w.Candles)-1].Timestamp.Equal(msg.Candle.Timestamp):
		w.Candles[len(w.Candles)-1] = msg.Candle
	case msg.Candle.Timestamp.After(w.Candles[len(w.Candles)-1].Timestamp):
		w.Candles = append(w.Candles, msg.Candle)
	default:
		return // stale/out-of-order push, drop it
	}

	if err := s.cache.Set(ctx, w); err != nil {
		s.logger.Warn().Err(err).Str("symbol", msg.Symbol).Msg("candle: failed to refresh streamer cache")
	}
}
