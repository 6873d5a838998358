package exits

import (
	"fmt"
	"sync"
	"time"

	"github.com/rangescalp/engine/internal/config"
	"github.com/rangescalp/engine/internal/ioutil"
)

// Broker is the subset of the broker gateway the manager needs to dispatch
// an exit (spec §6). A concrete implementation lives outside this module;
// the gateway itself is out of scope.
type Broker interface {
	ClosePosition(ticket int64, partial bool) error
	ModifyStopLoss(ticket int64, newStop float64) error
}

// stateFile is the JSON shape persisted to disk (spec §6): the map of
// active trades plus the content hash of the exit config that produced
// them, so a restart can detect config drift against its saved book.
type stateFile struct {
	Trades     map[int64]ActiveTrade `json:"trades"`
	ConfigHash string                `json:"config_hash"`
	SavedAt    time.Time             `json:"saved_at"`
}

// Manager is C9: the registry of actively monitored trades plus the
// priority ladder and error handler that drive exit decisions. It holds
// two separate locks by design (spec §5): stateLock guards the trades map
// itself, saveLock serializes file I/O — a slow disk write must never
// block a reader taking a short stateLock snapshot, and two concurrent
// saves must never interleave their temp-file writes.
type Manager struct {
	stateLock sync.RWMutex
	saveLock  sync.Mutex

	trades     map[int64]ActiveTrade
	storageFile string
	configHash  string
	cfg         config.ExitConfig
	errors      *ErrorHandler
	broker      Broker
}

// NewManager constructs a Manager backed by storageFile for persistence.
func NewManager(storageFile, configHash string, cfg config.ExitConfig, broker Broker) *Manager {
	return &Manager{
		trades:      make(map[int64]ActiveTrade),
		storageFile: storageFile,
		configHash:  configHash,
		cfg:         cfg,
		errors:      NewErrorHandler(),
		broker:      broker,
	}
}

// Register adds a newly opened trade to the book and persists it.
func (m *Manager) Register(trade ActiveTrade) error {
	m.stateLock.Lock()
	m.trades[trade.Ticket] = trade
	snapshot := m.snapshotLocked()
	m.stateLock.Unlock()

	return m.save(snapshot)
}

// Update replaces the stored trade for ticket if present and persists it.
// Returns false if ticket is not currently tracked.
func (m *Manager) Update(trade ActiveTrade) (bool, error) {
	m.stateLock.Lock()
	if _, ok := m.trades[trade.Ticket]; !ok {
		m.stateLock.Unlock()
		return false, nil
	}
	m.trades[trade.Ticket] = trade
	snapshot := m.snapshotLocked()
	m.stateLock.Unlock()

	return true, m.save(snapshot)
}

// Unregister removes ticket from the book and persists the change. Returns
// false if ticket was not tracked.
func (m *Manager) Unregister(ticket int64) (bool, error) {
	m.stateLock.Lock()
	_, ok := m.trades[ticket]
	if ok {
		delete(m.trades, ticket)
	}
	snapshot := m.snapshotLocked()
	m.stateLock.Unlock()

	if !ok {
		return false, nil
	}
	return true, m.save(snapshot)
}

// ActiveTickets returns every currently tracked ticket.
func (m *Manager) ActiveTickets() []int64 {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()
	out := make([]int64, 0, len(m.trades))
	for t := range m.trades {
		out = append(out, t)
	}
	return out
}

// Get returns a copy of the tracked trade for ticket.
func (m *Manager) Get(ticket int64) (ActiveTrade, bool) {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()
	t, ok := m.trades[ticket]
	return t, ok
}

// snapshotLocked copies the trades map for a safe-to-save-without-lock
// value. Caller must hold stateLock (read or write).
func (m *Manager) snapshotLocked() map[int64]ActiveTrade {
	out := make(map[int64]ActiveTrade, len(m.trades))
	for k, v := range m.trades {
		out[k] = v
	}
	return out
}

// save writes trades to m.storageFile atomically, outside of stateLock.
func (m *Manager) save(trades map[int64]ActiveTrade) error {
	m.saveLock.Lock()
	defer m.saveLock.Unlock()

	doc := stateFile{Trades: trades, ConfigHash: m.configHash, SavedAt: time.Now()}
	if err := ioutil.WriteJSONAtomic(m.storageFile, doc); err != nil {
		m.errors.Record("state_save_fails", err.Error(), time.Now())
		return fmt.Errorf("exits: save state: %w", err)
	}
	return nil
}

// Load restores the book from m.storageFile. A config-hash mismatch is not
// an error — it is reported via the returned bool so the caller can decide
// whether to proceed with a possibly-stale book or require operator
// confirmation.
func (m *Manager) Load() (hashMatches bool, err error) {
	var doc stateFile
	if loadErr := ioutil.ReadJSON(m.storageFile, &doc); loadErr != nil {
		return false, loadErr
	}
	m.stateLock.Lock()
	m.trades = doc.Trades
	if m.trades == nil {
		m.trades = make(map[int64]ActiveTrade)
	}
	m.stateLock.Unlock()
	return doc.ConfigHash == m.configHash, nil
}

// CheckExit evaluates the ladder for ticket against md. Returns
// ExitSignal{Priority: PriorityNone} and ok=false if ticket is not tracked
// or the error handler has auto-disabled trading.
func (m *Manager) CheckExit(ticket int64, md MarketData) (ExitSignal, bool) {
	if m.errors.Disabled() {
		return ExitSignal{}, false
	}
	trade, ok := m.Get(ticket)
	if !ok {
		return ExitSignal{}, false
	}
	trade.LastRangeCheck = md.Now
	m.stateLock.Lock()
	m.trades[ticket] = trade
	m.stateLock.Unlock()

	return CheckExit(trade, md, m.cfg), true
}

// Execute dispatches sig against ticket via the broker: a full close for
// every exit action, or a stop-loss modification for a breakeven move,
// recording any dispatch failure through the error handler so repeated
// failures can trip auto-disable. price is the current market price, needed
// to recompute the breakeven stop (spec §3's ExitSignal carries no stop
// price of its own, only priority/reason_tag/action/message).
func (m *Manager) Execute(ticket int64, sig ExitSignal, price float64) error {
	if m.errors.Disabled() {
		return fmt.Errorf("exits: trading auto-disabled, refusing to dispatch")
	}
	trade, ok := m.Get(ticket)
	if !ok {
		return fmt.Errorf("exits: ticket %d not tracked", ticket)
	}

	switch sig.Action {
	case ActionExitNow, ActionExitAtProfit, ActionExitEarly:
		if err := m.broker.ClosePosition(ticket, false); err != nil {
			m.errors.Record("exit_order_fails", err.Error(), time.Now())
			return fmt.Errorf("exits: close position: %w", err)
		}
		_, err := m.Unregister(ticket)
		return err
	case ActionMoveSLToBreakeven:
		newStop, ok := ComputeBreakevenStop(trade, m.cfg, price)
		if !ok {
			return nil
		}
		if err := m.broker.ModifyStopLoss(ticket, newStop); err != nil {
			m.errors.Record("order_execution_fails", err.Error(), time.Now())
			return fmt.Errorf("exits: modify stop loss: %w", err)
		}
		trade.StopLoss = newStop
		trade.BreakevenMoved = true
		trade.LastStateChange = time.Now()
		_, err := m.Update(trade)
		return err
	}
	return nil
}

// Errors exposes the manager's error handler for health reporting.
func (m *Manager) Errors() *ErrorHandler {
	return m.errors
}
