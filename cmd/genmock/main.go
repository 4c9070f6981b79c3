// Command genmock writes a synthetic archival tag CSV with a diel dive
// pattern: shallow at night, deep during the day, mid-water around dawn and
// dusk. It runs the generated file through the real normalization so the
// printed summary can be used to update test assertions. A file that fails
// to normalize is an error unless -expect-reject is set, in which case a file
// that normalizes is the error.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -label 'Date(UTC-8)' -days 3 -interval 5m \
//	  -out data/mock/shark_utc8.csv \
//	  -augmented-out data/mock/shark_utc8_normalized.csv
package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/erikahunting/white-shark-paina/internal/adapter/csvio"
	"github.com/erikahunting/white-shark-paina/internal/analysis"
	"github.com/erikahunting/white-shark-paina/internal/domain"
	"github.com/erikahunting/white-shark-paina/internal/render"
)

type options struct {
	label    string
	start    time.Time
	days     int
	interval time.Duration
	seed     uint64
}

// diveProfile is the mean and spread of depth, in meters, per quaternary phase.
var diveProfile = map[domain.Phase][2]float64{
	domain.PhaseNight: {40, 20},
	domain.PhaseDawn:  {150, 60},
	domain.PhaseDay:   {320, 70},
	domain.PhaseDusk:  {150, 60},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	label := flag.String("label", domain.LabelDateUTCMinus8, "date column header; selects the source zone")
	start := flag.String("start", "2022-01-01", "first calendar date in the source zone")
	days := flag.Int("days", 3, "number of days to generate")
	interval := flag.Duration("interval", 5*time.Minute, "sampling interval")
	seed := flag.Uint64("seed", 1, "random seed")
	out := flag.String("out", "", "output path for the raw tag CSV")
	augmentedOut := flag.String("augmented-out", "", "optional output path for the normalized CSV")
	policyFlag := flag.String("policy", string(domain.PolicyQuaternary), "day phase policy for the augmented CSV")
	expectReject := flag.Bool("expect-reject", false, "the generated file must fail normalization, e.g. for an unknown -label")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return errors.New("missing required flag: -out")
	}
	if *days <= 0 || *interval <= 0 {
		return errors.New("-days and -interval must be positive")
	}
	policy, err := domain.ParsePolicy(*policyFlag)
	if err != nil {
		return err
	}
	startDate, err := time.Parse(analysis.DateLayout, *start)
	if err != nil {
		return fmt.Errorf("parse -start: %w", err)
	}

	data, err := generate(options{label: *label, start: startDate, days: *days, interval: *interval, seed: *seed})
	if err != nil {
		return err
	}
	if err := writeFile(*out, data); err != nil {
		return fmt.Errorf("writing tag CSV: %w", err)
	}
	log.Printf("wrote tag CSV: %s", *out)

	// Set a fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	batch, err := normalizeGenerated(data, filepath.Base(*out), policy, *expectReject)
	if err != nil {
		return err
	}
	if *expectReject {
		return nil
	}

	if *augmentedOut != "" {
		var buf bytes.Buffer
		if err := csvio.WriteBatch(&buf, batch); err != nil {
			return err
		}
		if err := writeFile(*augmentedOut, buf.Bytes()); err != nil {
			return fmt.Errorf("writing augmented CSV: %w", err)
		}
		log.Printf("wrote augmented CSV: %s", *augmentedOut)
	}

	fmt.Printf("\n=== Stats for updating test assertions ===\n")
	fmt.Printf("Total: %d\n", len(batch.Records))
	return render.Summary(os.Stdout, analysis.Summarize(batch.Records, policy))
}

// normalizeGenerated runs data through the real normalization. With
// expectReject set, a normalization error is the wanted outcome and is only
// logged, while a file that normalizes is reported as an error.
func normalizeGenerated(data []byte, source string, policy domain.Policy, expectReject bool) (domain.NormalizedBatch, error) {
	raw, err := csvio.ReadBatch(bytes.NewReader(data), source)
	if err != nil {
		return domain.NormalizedBatch{}, err
	}
	batch, err := domain.NormalizeBatch(raw, policy)
	switch {
	case err != nil && expectReject:
		log.Printf("generated file rejected as expected: %v", err)
		return domain.NormalizedBatch{}, nil
	case err != nil:
		return domain.NormalizedBatch{}, fmt.Errorf("generated file does not normalize: %w", err)
	case expectReject:
		return domain.NormalizedBatch{}, errors.New("generated file normalized but -expect-reject was set")
	}
	return batch, nil
}

// generate renders a tag CSV. Clock fields are written in the zone named by
// the label; labels outside the known set are written as UTC so the output
// can exercise the rejection path.
func generate(opts options) ([]byte, error) {
	loc := time.UTC
	if zone, err := domain.InferSourceZone(opts.label); err == nil {
		loc = zone.Location
	} else {
		log.Printf("label %q is not a known source zone; writing UTC clock fields", opts.label)
	}

	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	first := time.Date(opts.start.Year(), opts.start.Month(), opts.start.Day(), 0, 0, 0, 0, loc)
	end := first.AddDate(0, 0, opts.days)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{
		opts.label, domain.ColumnTime, domain.ColumnDepth,
		domain.ColumnYear, domain.ColumnMonth, domain.ColumnDay,
		domain.ColumnHour, domain.ColumnMinute, domain.ColumnSecond,
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for t := first; t.Before(end); t = t.Add(opts.interval) {
		depth, err := sampleDepth(rng, t.In(domain.CanonicalZone).Hour())
		if err != nil {
			return nil, err
		}
		row := []string{
			t.Format("01/02/2006"),
			t.Format("15:04:05"),
			strconv.FormatFloat(depth, 'f', 1, 64),
			strconv.Itoa(t.Year()),
			strconv.Itoa(int(t.Month())),
			strconv.Itoa(t.Day()),
			strconv.Itoa(t.Hour()),
			strconv.Itoa(t.Minute()),
			strconv.Itoa(t.Second()),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func sampleDepth(rng *rand.Rand, canonicalHour int) (float64, error) {
	phase, err := domain.ClassifyQuaternary(canonicalHour)
	if err != nil {
		return 0, err
	}
	p := diveProfile[phase]
	d := p[0] + rng.NormFloat64()*p[1]
	d = math.Min(math.Max(d, 0.5), 680)
	return math.Round(d*10) / 10, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
