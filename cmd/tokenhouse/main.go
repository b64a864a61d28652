// Tokenhouse CLI
// Runs one dispatch pass over a markdown document and emits the merged
// extraction result as JSON
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nainya/tokenhouse/internal/config"
	"github.com/nainya/tokenhouse/internal/logger"
	"github.com/nainya/tokenhouse/internal/mdstream"
	"github.com/nainya/tokenhouse/internal/server"
	"github.com/nainya/tokenhouse/pkg/collectors"
	"github.com/nainya/tokenhouse/pkg/warehouse"
)

var (
	input       = flag.String("input", "", "Markdown file to process (required)")
	output      = flag.String("output", "", "Write the result JSON to this file instead of stdout")
	strict      = flag.Bool("strict", false, "Re-raise collector failures instead of isolating (dev/test only)")
	rawHTML     = flag.Bool("raw-html", false, "Opt in to sanitized raw HTML passthrough")
	metricsPort = flag.Int("metrics-port", 0, "Serve /metrics, /health, and pprof on this port (0 disables)")
)

func main() {
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: --input flag is required\nUsage: tokenhouse --input=/path/to/document.md")
		os.Exit(2)
	}

	// Load .env (optional), then let flags win over the environment.
	_ = godotenv.Load()
	if *strict {
		os.Setenv("STRICT_MODE", "true")
	}
	if *rawHTML {
		os.Setenv("COLLECT_RAW_HTML", "true")
	}
	if *metricsPort > 0 {
		os.Setenv("METRICS_PORT", strconv.Itoa(*metricsPort))
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(2)
	}

	logger.InitGlobalLogger(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	log := logger.GetGlobalLogger()

	reg := prometheus.NewRegistry()
	m := newMetricsWith(reg)

	var obs *server.ObservabilityServer
	if cfg.MetricsPort > 0 {
		obs = server.NewObservabilityServer(cfg.MetricsPort, reg, m.inner, log)
		obs.Start()
	}

	rs, err := runPass(cfg, log, m)
	if err != nil {
		log.Fatal("Dispatch pass failed").Err(err).Send()
	}

	if err := writeResult(rs, *output); err != nil {
		log.Fatal("Failed to write result").Err(err).Send()
	}

	// With a metrics port configured the process stays up for scraping
	// until interrupted.
	if obs != nil {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Shutdown(ctx); err != nil {
			log.Error("Observability shutdown failed").Err(err).Send()
		}
	}
}

func runPass(cfg config.Config, log *logger.Logger, m *passMetrics) (*warehouse.ResultSet, error) {
	source, err := os.ReadFile(*input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	tokens := mdstream.Tokenize(source)

	passID := uuid.NewString()
	plog := log.PassLogger(passID, *input)
	plog.LogPassStart(len(tokens))

	w := warehouse.New(warehouse.Config{Strict: cfg.Strict})
	err = collectors.RegisterDefaults(w, collectors.Options{
		LinkCap:        cfg.LinkCap,
		ImageCap:       cfg.ImageCap,
		HeadingCap:     cfg.HeadingCap,
		CodeCap:        cfg.CodeCap,
		TableCap:       cfg.TableCap,
		HTMLCap:        cfg.HTMLCap,
		CollectRawHTML: cfg.CollectRawHTML,
	})
	if err != nil {
		return nil, fmt.Errorf("register collectors: %w", err)
	}

	rs, err := w.Dispatch(tokens)
	if err != nil {
		m.recordPass("error", nil)
		return nil, err
	}

	m.recordPass("success", rs)
	for _, e := range rs.Errors {
		plog.LogCollectorError(e.Collector, e.TokenIndex, e.Err)
	}
	plog.LogPassComplete(rs.Stats.Tokens, rs.Stats.Dispatches, rs.Stats.Sections,
		rs.Stats.Errors, rs.Stats.Duration)

	return rs, nil
}

func writeResult(rs *warehouse.ResultSet, path string) error {
	out, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')

	if path == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(path, out, 0644)
}
