package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/time/rate"

	"github.com/sawpanic/sparkline/internal/config"
	"github.com/sawpanic/sparkline/internal/plot"
	"github.com/sawpanic/sparkline/internal/series"
	"github.com/sawpanic/sparkline/internal/stats"
	"github.com/sawpanic/sparkline/internal/telemetry"
)

func feedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Drive the window with a synthetic random-walk sample stream",
		Long:  "Generates a paced random-walk stream, appends it to a bounded window, and logs the derived statistics and threshold alerts",
		RunE:  runFeed,
	}
	addFeedFlags(cmd.Flags())
	return cmd
}

func addFeedFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to YAML config file")
	fs.Int("capacity", series.DefaultCapacity, "Window capacity (clamped to [10,1000])")
	fs.Float64("threshold", 0, "Alert threshold (unset when flag omitted)")
	fs.Duration("interval", 0, "Sample interval (overrides config when set)")
	fs.Duration("for", 30*time.Second, "How long to run the feed")
	fs.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	fs.Int64("seed", 0, "Random seed (0 = time-based)")
}

func runFeed(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	cfg := config.Default()
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = *loaded
	}

	if flags.Changed("capacity") {
		cfg.Capacity, _ = flags.GetInt("capacity")
		cfg.Validate()
	}
	threshold := cfg.ThresholdValue()
	if flags.Changed("threshold") {
		threshold, _ = flags.GetFloat64("threshold")
	}
	interval := cfg.Feed.Interval()
	if flags.Changed("interval") {
		interval, _ = flags.GetDuration("interval")
	}
	runFor, _ := flags.GetDuration("for")
	metricsAddr, _ := flags.GetString("metrics-addr")
	if metricsAddr == "" {
		metricsAddr = cfg.MetricsAddr
	}
	seed, _ := flags.GetInt64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	metrics := telemetry.NewMetrics()
	registry := prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}
	if metricsAddr != "" {
		go serveMetrics(metricsAddr, registry)
	}

	s := series.New(cfg.Capacity)
	s.Instrument(metrics)
	s.SetThreshold(threshold)
	s.OnThresholdEntered(func(t float64) {
		log.Warn().Float64("threshold", t).Msg("window entered threshold excursion")
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, runFor)
	defer cancel()

	log.Info().
		Int("capacity", cfg.Capacity).
		Float64("threshold", threshold).
		Dur("interval", interval).
		Dur("for", runFor).
		Msg("starting synthetic feed")

	samples := make(chan float64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Feed(ctx, samples)
	}()

	go generate(ctx, samples, interval, cfg.Feed.Jitter, seed)

	reportEvery := time.NewTicker(2 * time.Second)
	defer reportEvery.Stop()

	area := plot.Area{Width: 640, Height: 120}
	for {
		select {
		case <-done:
			report(s, area, cfg.Display)
			log.Info().Msg("feed finished")
			return nil
		case <-reportEvery.C:
			report(s, area, cfg.Display)
		}
	}
}

// generate produces a paced random walk on out until ctx is done.
func generate(ctx context.Context, out chan<- float64, interval time.Duration, jitter float64, seed int64) {
	defer close(out)

	rng := rand.New(rand.NewSource(seed))
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	value := 50.0
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		value += (rng.Float64() - 0.5) * 2 * jitter
		select {
		case out <- value:
		case <-ctx.Done():
			return
		}
	}
}

// report computes one statistics pass over a snapshot and logs it, plus
// the mapped pixel extent a renderer would draw.
func report(s *series.Series, area plot.Area, display config.DisplayConfig) {
	snapshot := s.Snapshot()
	summary := stats.Compute(snapshot)
	if summary == nil {
		log.Info().Msg("window empty, nothing to report")
		return
	}

	if display.ShowStatistics {
		event := log.Info().
			Int("count", summary.Count).
			Float64("min", summary.Min).
			Float64("max", summary.Max).
			Float64("mean", summary.Mean).
			Float64("median", summary.Median).
			Float64("iqr", summary.IQR).
			Float64("stddev", summary.StdDev)
		if display.ShowThreshold {
			if t, ok := s.Threshold(); ok {
				event = event.Float64("threshold", t)
			}
		}
		event.Msg("window statistics")
	}

	points := plot.MapSeries(snapshot, area)
	if idx, ok := plot.Nearest(points, area.X+area.Width/2, area.Y+area.Height/2); ok {
		log.Debug().
			Int("points", len(points)).
			Int("center_nearest", idx).
			Float64("x", points[idx].X).
			Float64("y", points[idx].Y).
			Msg("mapped render pass")
	}
}

func serveMetrics(addr string, registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	log.Info().Str("addr", addr).Msg("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("metrics server stopped")
	}
}
