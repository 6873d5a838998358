package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rangescalp/engine/internal/candle"
	"github.com/rangescalp/engine/internal/market"
)

// stubBroker satisfies candle.Broker, exits.Broker, and monitor.PositionChecker
// with the minimal behavior needed to run the pipeline end to end against a
// venue gateway that, per spec.md §1, is an external collaborator out of
// this module's scope. A real deployment replaces this with an adapter over
// the actual broker/exchange connection. SymbolSelect is a no-op, the rate
// and order methods return a descriptive error so misconfiguration fails
// loudly instead of silently, and PositionExists reports every ticket as
// still open.
type stubBroker struct{}

func (stubBroker) SymbolSelect(ctx context.Context, symbol string) error {
	return nil
}

func (stubBroker) CopyRatesFromPos(ctx context.Context, symbol string, tf market.Timeframe, pos, count int) ([]candle.Candle, error) {
	return nil, fmt.Errorf("stubBroker: no live broker gateway configured for %s %s", symbol, tf)
}

func (stubBroker) CopyRatesFrom(ctx context.Context, symbol string, tf market.Timeframe, from time.Time, count int) ([]candle.Candle, error) {
	return nil, fmt.Errorf("stubBroker: no live broker gateway configured for %s %s", symbol, tf)
}

func (stubBroker) ClosePosition(ticket int64, partial bool) error {
	return fmt.Errorf("stubBroker: cannot close ticket %d, no live broker gateway configured", ticket)
}

func (stubBroker) ModifyStopLoss(ticket int64, newStop float64) error {
	return fmt.Errorf("stubBroker: cannot modify ticket %d, no live broker gateway configured", ticket)
}

func (stubBroker) PositionExists(ctx context.Context, ticket int64) (bool, error) {
	return true, nil
}
