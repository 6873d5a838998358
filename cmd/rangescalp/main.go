package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/rangescalp/engine/internal/candle"
	"github.com/rangescalp/engine/internal/config"
	"github.com/rangescalp/engine/internal/exits"
	"github.com/rangescalp/engine/internal/logging"
	"github.com/rangescalp/engine/internal/market"
	"github.com/rangescalp/engine/internal/metrics"
	"github.com/rangescalp/engine/internal/monitor"
	"github.com/rangescalp/engine/internal/mtf"
	"github.com/rangescalp/engine/internal/orchestrator"
	"github.com/rangescalp/engine/internal/risk"
)

const (
	appName = "rangescalp"
	version = "v0.1.0"
)

func main() {
	logging.Setup(logging.Options{Level: "info"})
	log.Logger = logging.Get()

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Range-scalping decision engine",
		Version: version,
		Long: `rangescalp analyses ranging markets across multiple timeframes and
drives entry, risk-filter, and exit decisions for a range-scalping strategy.

Run 'rangescalp run' to start the engine: candle ingestion, the analysis
pipeline, the exit monitor, and the ops HTTP surface all run in one process.`,
		RunE: runEngine,
	}

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("main-config", "configs/main.json", "Path to the main engine config")
	rootCmd.PersistentFlags().String("rr-config", "configs/risk_reward.json", "Path to the risk:reward config")
	rootCmd.PersistentFlags().String("exit-config", "configs/exit.json", "Path to the exit manager config")
	rootCmd.PersistentFlags().String("state-file", "state/trades.json", "Path to the durable active-trades state file")
	rootCmd.PersistentFlags().String("postgres-dsn", "", "Postgres DSN for the disk candle store")
	rootCmd.PersistentFlags().String("redis-addr", "localhost:6379", "Redis address for the candle streamer cache")
	rootCmd.PersistentFlags().String("stream-url", "", "Websocket URL for the live candle streamer")
	rootCmd.PersistentFlags().Duration("monitor-period", monitor.DefaultPeriod, "Exit monitor tick interval")
	rootCmd.PersistentFlags().String("ops-host", "0.0.0.0", "Ops HTTP server host")
	rootCmd.PersistentFlags().String("ops-port", "8090", "Ops HTTP server port")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start the engine (analysis pipeline, exit monitor, ops server)",
		RunE:  runEngine,
	}
	rootCmd.AddCommand(runCmd)

	analyseCmd := &cobra.Command{
		Use:   "analyse [symbol]",
		Short: "Run a single analysis pass for one symbol and print the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyseOnce,
	}
	rootCmd.AddCommand(analyseCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("rangescalp: fatal error")
		os.Exit(1)
	}
}

type wiring struct {
	mainDoc   config.Document[config.MainConfig]
	rrDoc     config.Document[config.RiskRewardConfig]
	exitDoc   config.Document[config.ExitConfig]
	source    *candle.Source
	manager   *exits.Manager
	pipeline  *orchestrator.Pipeline
	registry  *metrics.Registry
	broker    stubBroker
}

func wire(cmd *cobra.Command) (*wiring, error) {
	level, _ := cmd.Flags().GetString("log-level")
	logging.Setup(logging.Options{Level: level})
	log.Logger = logging.Get()

	mainPath, _ := cmd.Flags().GetString("main-config")
	rrPath, _ := cmd.Flags().GetString("rr-config")
	exitPath, _ := cmd.Flags().GetString("exit-config")

	mainDoc, err := config.LoadMainConfig(mainPath)
	if err != nil {
		return nil, fmt.Errorf("rangescalp: load main config: %w", err)
	}
	rrDoc, err := config.LoadRiskRewardConfig(rrPath)
	if err != nil {
		return nil, fmt.Errorf("rangescalp: load risk:reward config: %w", err)
	}
	exitDoc, err := config.LoadExitConfig(exitPath)
	if err != nil {
		return nil, fmt.Errorf("rangescalp: load exit config: %w", err)
	}

	weights, err := config.LoadDefaultWeights()
	if err != nil {
		return nil, fmt.Errorf("rangescalp: load default weight tables: %w", err)
	}
	if mainDoc.Value.DynamicWeighting.Enabled {
		weights = weights.Merge(mainDoc.Value.DynamicWeighting.Override)
	}

	redisAddr, _ := cmd.Flags().GetString("redis-addr")
	redisClient := newRedisClient(redisAddr)
	cache := candle.NewCache(redisClient, 30*time.Second)

	var store *candle.Store
	if dsn, _ := cmd.Flags().GetString("postgres-dsn"); dsn != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store, err = candle.OpenStore(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("rangescalp: open candle store: %w", err)
		}
	}

	broker := stubBroker{}
	limiter := rate.NewLimiter(rate.Limit(5), 10)
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "candle-broker-fetch",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
	})
	source := candle.NewSource(cache, store, broker, limiter, breaker)

	if streamURL, _ := cmd.Flags().GetString("stream-url"); streamURL != "" {
		streamer := candle.NewStreamer(streamURL, cache, log.Logger)
		go func() {
			if err := streamer.Run(context.Background()); err != nil {
				log.Error().Err(err).Msg("rangescalp: candle streamer stopped")
			}
		}()
	}

	stateFile, _ := cmd.Flags().GetString("state-file")
	manager := exits.NewManager(stateFile, exitDoc.Hash, exitDoc.Value, broker)
	if _, err := manager.Load(); err != nil {
		log.Warn().Err(err).Msg("rangescalp: could not load prior trade state, starting empty")
	}

	registry := metrics.New()

	pipeline := &orchestrator.Pipeline{
		Source:      source,
		MainCfg:     mainDoc.Value,
		RRCfg:       rrDoc.Value,
		ExitCfg:     exitDoc.Value,
		Weights:     weights,
		ConfluenceW: risk.DefaultConfluenceWeights(),
		MTF:         mtf.NewAnalyzer(),
	}

	return &wiring{
		mainDoc:  mainDoc,
		rrDoc:    rrDoc,
		exitDoc:  exitDoc,
		source:   source,
		manager:  manager,
		pipeline: pipeline,
		registry: registry,
		broker:   broker,
	}, nil
}

func runEngine(cmd *cobra.Command, args []string) error {
	w, err := wire(cmd)
	if err != nil {
		return err
	}

	reg := prometheusDefaultRegisterer()
	w.registry.Register(reg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	period, _ := cmd.Flags().GetDuration("monitor-period")
	mon := monitor.New(w.manager, w.source, w.broker, period, log.Logger, w.registry)
	status := monitor.NewStatusServer(mon)

	host, _ := cmd.Flags().GetString("ops-host")
	port, _ := cmd.Flags().GetString("ops-port")
	addr := fmt.Sprintf("%s:%s", host, port)

	opsMux := http.NewServeMux()
	opsMux.Handle("/metrics", promhttp.Handler())
	opsMux.Handle("/", status.Router())
	httpServer := &http.Server{Addr: addr, Handler: opsMux}

	go func() {
		log.Info().Str("addr", addr).Msg("rangescalp: ops server listening")
		status.MarkAlive()
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("rangescalp: ops server failed")
		}
	}()

	go func() {
		if err := analysisLoop(ctx, w); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("rangescalp: analysis loop stopped")
		}
	}()

	err = mon.Run(ctx)
	status.MarkStopped()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	if err != nil && err != context.Canceled {
		return err
	}
	log.Info().Msg("rangescalp: shutdown complete")
	return nil
}

// analysisLoop runs one Pipeline.Analyse pass per configured symbol once per
// M5 period (a plain ticker started with the loop, not aligned to bar
// closes), logging the top strategy when one clears the risk gate.
func analysisLoop(ctx context.Context, w *wiring) error {
	ticker := time.NewTicker(market.M5.Period())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			for _, symbol := range w.mainDoc.Value.Symbols {
				result, err := w.pipeline.Analyse(ctx, symbol, now, nil)
				if err != nil {
					log.Warn().Err(err).Str("symbol", symbol).Msg("rangescalp: analysis failed")
					continue
				}
				if result.TopStrategy != nil {
					log.Info().Str("symbol", symbol).
						Str("strategy", string(result.TopStrategy.Signal.Strategy)).
						Float64("score", result.TopStrategy.Total).
						Msg("rangescalp: candidate entry signal")
				}
			}
		}
	}
}

func runAnalyseOnce(cmd *cobra.Command, args []string) error {
	w, err := wire(cmd)
	if err != nil {
		return err
	}
	result, err := w.pipeline.Analyse(context.Background(), args[0], time.Now().UTC(), nil)
	if err != nil {
		return err
	}
	log.Info().
		Str("symbol", result.Symbol).
		Bool("range_detected", result.RangeDetected).
		Strs("warnings", result.Warnings).
		Msg("rangescalp: analysis result")
	if result.TopStrategy != nil {
		log.Info().
			Str("strategy", string(result.TopStrategy.Signal.Strategy)).
			Float64("score", result.TopStrategy.Total).
			Msg("rangescalp: top strategy")
	}
	return nil
}

// newRedisClient builds the go-redis client backing the candle streamer
// cache. addr is a plain host:port; auth and TLS are out of scope for this
// module same as the broker gateway itself.
func newRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// prometheusDefaultRegisterer returns the global prometheus registerer so
// the ops server's /metrics exposition (wired by the caller) and this
// module's collectors share one registry, matching the teacher's single
// process-wide httpmetrics registration.
func prometheusDefaultRegisterer() prometheus.Registerer {
	return prometheus.DefaultRegisterer
}
