package monitor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rangescalp/engine/internal/config"
	"github.com/rangescalp/engine/internal/exits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopBroker struct{}

func (noopBroker) ClosePosition(ticket int64, partial bool) error    { return nil }
func (noopBroker) ModifyStopLoss(ticket int64, newStop float64) error { return nil }

func newTestStatusServer(t *testing.T) (*StatusServer, *exits.Manager) {
	t.Helper()
	dir := t.TempDir()
	manager := exits.NewManager(filepath.Join(dir, "state.json"), "hash", config.DefaultExitConfig(), noopBroker{})
	mon := &Monitor{manager: manager}
	return NewStatusServer(mon), manager
}

func TestHealthzUnhealthyBeforeMarkAlive(t *testing.T) {
	s, _ := newTestStatusServer(t)
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestHealthzHealthyAfterMarkAlive(t *testing.T) {
	s, _ := newTestStatusServer(t)
	s.MarkAlive()
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, true, body["alive"])

	s.MarkStopped()
	rr2 := httptest.NewRecorder()
	s.Router().ServeHTTP(rr2, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr2.Code)
}

func TestTradesEndpointReturnsRegisteredTrades(t *testing.T) {
	s, manager := newTestStatusServer(t)
	require.NoError(t, manager.Register(exits.ActiveTrade{
		Ticket: 42, Symbol: "EURUSD", Long: true, Entry: 1.1,
		StopLoss: 1.09, TakeProfit: 1.12, OpenedAt: time.Now(),
	}))

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/trades", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Trades []tradeSummary `json:"trades"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Trades, 1)
	assert.Equal(t, int64(42), body.Trades[0].Ticket)
	assert.Equal(t, "EURUSD", body.Trades[0].Symbol)
}
