package structure

import "github.com/rangescalp/engine/internal/market"

// Candle aliases market.Candle so detector signatures read naturally
// without every file importing market directly.
type Candle = market.Candle
