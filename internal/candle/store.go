package candle

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rangescalp/engine/internal/market"

	_ "github.com/lib/pq"
)

// Store is the disk-store tier: a read-only query layer over the candles
// SQL table (spec §6). The schema's original framing ("WAL, read
// uncommitted") describes SQLite connection semantics; no SQLite driver
// exists anywhere in the retrieved corpus (see DESIGN.md), so this opens
// Postgres via the teacher's own jmoiron/sqlx + lib/pq stack with
// read-committed isolation — the closest available analogue of "read the
// freshest committed row, never block on a writer."
type Store struct {
	db *sqlx.DB
}

// candleRow mirrors the candles table's column names for sqlx struct
// scanning (spec §6's schema).
type candleRow struct {
	Timestamp time.Time `db:"ts"`
	Open      float64   `db:"open"`
	High      float64   `db:"high"`
	Low       float64   `db:"low"`
	Close     float64   `db:"close"`
	Volume    float64   `db:"volume"`
}

// OpenStore opens a Postgres connection pool at dsn and verifies
// connectivity with a ping.
func OpenStore(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("candle: open store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// LatestCandles returns the most recent n candles for symbol+timeframe,
// oldest-first.
func (s *Store) LatestCandles(ctx context.Context, symbol string, tf market.Timeframe, n int) ([]Candle, error) {
	const query = `
		SELECT ts, open, high, low, close, volume
		FROM candles
		WHERE symbol = $1 AND timeframe = $2
		ORDER BY ts DESC
		LIMIT $3`

	var rows []candleRow
	if err := s.db.SelectContext(ctx, &rows, query, symbol, string(tf), n); err != nil {
		return nil, fmt.Errorf("candle: query latest: %w", err)
	}
	return reverseRows(rows), nil
}

func reverseRows(rows []candleRow) []Candle {
	out := make([]Candle, len(rows))
	for i, r := range rows {
		out[len(rows)-1-i] = Candle{
			Timestamp: r.Timestamp, Open: r.Open, High: r.High, Low: r.Low, Close: r.Close, Volume: r.Volume,
		}
	}
	return out
}
