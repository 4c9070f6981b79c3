// Command paina normalizes one archival tag CSV to UTC-10, classifies every
// sample by time of day, and prints depth reports.
//
// Usage:
//
//	paina [flags] <path>
//
// Environment variables supply defaults (see internal/config); flags override
// them for a single run.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/erikahunting/white-shark-paina/internal/adapter/csvio"
	kafkaadapter "github.com/erikahunting/white-shark-paina/internal/adapter/kafka"
	"github.com/erikahunting/white-shark-paina/internal/analysis"
	"github.com/erikahunting/white-shark-paina/internal/config"
	"github.com/erikahunting/white-shark-paina/internal/domain"
	"github.com/erikahunting/white-shark-paina/internal/observability"
	"github.com/erikahunting/white-shark-paina/internal/pipeline"
	"github.com/erikahunting/white-shark-paina/internal/render"
)

const pushJob = "paina"

var allReports = []string{"summary", "heatmap", "histogram", "daily", "hourly", "scatter"}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, observability.NewMetrics())
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, metrics *observability.Metrics) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "paina: load config: %v\n", err)
		return 1
	}

	fs := flag.NewFlagSet("paina", flag.ContinueOnError)
	fs.SetOutput(stderr)
	policyFlag := fs.String("policy", string(cfg.Policy), "day phase policy: binary or quaternary")
	resample := fs.Int("resample", cfg.ResampleRate, "keep every n-th sample in reports")
	days := fs.Int("days", cfg.ReportDays, "days in the daily report; 0 for all")
	out := fs.String("out", "", "write the augmented CSV to this path")
	reports := fs.String("report", "summary", "comma-separated reports: "+strings.Join(allReports, ",")+", or all")
	noColor := fs.Bool("no-color", cfg.NoColor, "disable colored output")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: paina [flags] <path>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	path := fs.Arg(0)

	policy, err := domain.ParsePolicy(*policyFlag)
	if err != nil {
		fmt.Fprintf(stderr, "paina: %v\n", err)
		return 2
	}
	if *resample < 1 {
		fmt.Fprintln(stderr, "paina: -resample must be at least 1")
		return 2
	}
	selected, err := parseReports(*reports)
	if err != nil {
		fmt.Fprintf(stderr, "paina: %v\n", err)
		return 2
	}
	if *noColor {
		color.NoColor = true
	}

	logger := newLogger(stderr, cfg.LogLevel, cfg.LogFormat)

	var loaders []pipeline.BatchLoader
	if *out != "" {
		loaders = append(loaders, csvio.NewFileLoader(*out))
	}
	if cfg.KafkaEnabled {
		w := kafkaadapter.NewWriter(cfg, logger)
		defer w.Close()
		loaders = append(loaders, w)
	}

	svc := pipeline.NewService(loaders, logger, metrics, cfg.LoadMaxAttempts)
	batch, err := svc.Process(ctx, csvio.NewFileExtractor(path), policy)
	pushMetrics(cfg.PushgatewayURL, metrics, stderr)
	if err != nil {
		var zoneErr *domain.UnrecognizedTimeZoneError
		if errors.As(err, &zoneErr) {
			fmt.Fprintf(stderr, "paina: %v (known: %s)\n", zoneErr, strings.Join(domain.KnownDateLabels(), ", "))
			return 1
		}
		fmt.Fprintf(stderr, "paina: %v\n", err)
		return 1
	}

	records := analysis.Resample(batch.Records, *resample)
	fmt.Fprintf(stdout, "%s: %d samples (%d reported), %s -> %s, policy %s\n\n",
		batch.Source, len(batch.Records), len(records), batch.Zone, domain.CanonicalZone, policy)

	if err := renderReports(stdout, selected, records, policy, *days); err != nil {
		fmt.Fprintf(stderr, "paina: %v\n", err)
		return 1
	}
	return 0
}

func parseReports(s string) ([]string, error) {
	if strings.TrimSpace(s) == "all" {
		return allReports, nil
	}
	var out []string
	for _, r := range strings.Split(s, ",") {
		r = strings.ToLower(strings.TrimSpace(r))
		if r == "" {
			continue
		}
		if !slices.Contains(allReports, r) {
			return nil, fmt.Errorf("unknown report %q", r)
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, errors.New("no reports selected")
	}
	return out, nil
}

func renderReports(w io.Writer, reports []string, records []domain.NormalizedRecord, policy domain.Policy, days int) error {
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		var err error
		switch r {
		case "summary":
			err = render.Summary(w, analysis.Summarize(records, policy))
		case "heatmap":
			err = render.Heatmap(w, analysis.BuildHeatmap(records))
		case "histogram":
			var h analysis.Histogram
			h, err = analysis.BuildHistogram(records, policy, analysis.DefaultHistogramBinWidth, analysis.DefaultHistogramMaxDepth)
			if err == nil {
				err = render.Histogram(w, h)
			}
		case "daily":
			err = render.Daily(w, analysis.DailySummaries(records, policy, days))
		case "hourly":
			err = render.Hourly(w, analysis.HourlySummaries(records, policy))
		case "scatter":
			var s analysis.Scatter
			s, err = analysis.BuildScatter(records, analysis.DefaultScatterColumns, analysis.DefaultScatterRows)
			if err == nil {
				err = render.Scatter(w, s)
			}
		}
		if err != nil {
			return fmt.Errorf("render %s: %w", r, err)
		}
	}
	return nil
}

// pushMetrics sends this run's metrics to a Pushgateway. Failures are
// reported but do not change the exit code.
func pushMetrics(url string, metrics *observability.Metrics, stderr io.Writer) {
	if url == "" {
		return
	}
	if err := push.New(url, pushJob).Gatherer(metrics.Gatherer()).Push(); err != nil {
		fmt.Fprintf(stderr, "paina: push metrics: %v\n", err)
	}
}
