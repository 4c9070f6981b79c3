// Command validate checks an augmented tag CSV against the source file it was
// produced from. It re-normalizes the source with the same policy and
// compares the derived UTC-10 datetime, hour, and time-of-day columns
// row by row.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -source data/mock/shark_utc8.csv \
//	  -augmented data/mock/shark_utc8_normalized.csv \
//	  -policy quaternary
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/erikahunting/white-shark-paina/internal/adapter/csvio"
	"github.com/erikahunting/white-shark-paina/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// maxReported caps per-phase error detail.
const maxReported = 20

func main() {
	source := flag.String("source", "", "path to the source tag CSV")
	augmented := flag.String("augmented", "", "path to the augmented CSV to check")
	policyFlag := flag.String("policy", string(domain.PolicyQuaternary), "day phase policy the augmented CSV was produced with")
	flag.Parse()

	if *source == "" || *augmented == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(os.Stdout, *source, *augmented, *policyFlag))
}

func run(out io.Writer, sourcePath, augmentedPath, policyName string) int {
	policy, err := domain.ParsePolicy(policyName)
	if err != nil {
		fmt.Fprintf(out, "FATAL: %v\n", err)
		return 1
	}

	raw, err := csvio.NewFileExtractor(sourcePath).ExtractBatch(context.Background())
	if err != nil {
		fmt.Fprintf(out, "FATAL: load source: %v\n", err)
		return 1
	}
	expected, err := domain.NormalizeBatch(raw, policy)
	if err != nil {
		fmt.Fprintf(out, "FATAL: normalize source: %v\n", err)
		return 1
	}

	header, rows, err := loadCSV(augmentedPath)
	if err != nil {
		fmt.Fprintf(out, "FATAL: load augmented: %v\n", err)
		return 1
	}

	fmt.Fprintln(out, "=== Depth Record Validation ===")
	fmt.Fprintln(out)

	phases := []*phase{
		validateSchema(header, expected.Header),
		validateRowParity(rows, expected),
		validateDerivedColumns(header, rows, expected),
	}

	allPassed := true
	for _, p := range phases {
		status := color.GreenString("PASS")
		if !p.passed() {
			status = color.RedString("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-30s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Records: %d source, %d augmented (zone %s, policy %s)\n",
		len(expected.Records), len(rows), expected.Zone, policy)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors[:min(len(p.errors), maxReported)] {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

func loadCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) < 2 {
		return nil, nil, fmt.Errorf("no data rows in %s", path)
	}
	header := all[0]
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	return header, all[1:], nil
}

func validateSchema(header, sourceHeader []string) *phase {
	p := &phase{name: "Schema"}
	want := append(slices.Clone(sourceHeader), domain.ColumnCanonicalTime, domain.ColumnCanonicalHour, domain.ColumnPhase)
	if !slices.Equal(header, want) {
		p.errorf("header %v, want %v", header, want)
	}
	return p
}

func validateRowParity(rows [][]string, expected domain.NormalizedBatch) *phase {
	p := &phase{name: "Row parity"}
	if len(rows) != len(expected.Records) {
		p.errorf("augmented has %d rows, source has %d", len(rows), len(expected.Records))
	}
	for i := range min(len(rows), len(expected.Records)) {
		src := expected.Records[i].Fields
		for j := range min(len(src), len(rows[i])) {
			if strings.TrimSpace(rows[i][j]) != strings.TrimSpace(src[j]) {
				p.errorf("row %d column %q: %q, source has %q", expected.Records[i].Row, expected.Header[j], rows[i][j], src[j])
			}
		}
	}
	return p
}

func validateDerivedColumns(header []string, rows [][]string, expected domain.NormalizedBatch) *phase {
	p := &phase{name: "Derived columns (UTC-10)"}
	timeCol := slices.Index(header, domain.ColumnCanonicalTime)
	hourCol := slices.Index(header, domain.ColumnCanonicalHour)
	phaseCol := slices.Index(header, domain.ColumnPhase)
	if timeCol < 0 || hourCol < 0 || phaseCol < 0 {
		p.errorf("augmented CSV is missing derived columns")
		return p
	}

	for i := range min(len(rows), len(expected.Records)) {
		rec := expected.Records[i]
		row := rows[i]
		if len(row) <= max(timeCol, hourCol, phaseCol) {
			p.errorf("row %d: too few fields (%d)", rec.Row, len(row))
			continue
		}
		if want := rec.CanonicalTime.Format(csvio.CanonicalTimeLayout); row[timeCol] != want {
			p.errorf("row %d %s: %q, want %q", rec.Row, domain.ColumnCanonicalTime, row[timeCol], want)
		}
		if got, err := strconv.Atoi(row[hourCol]); err != nil || got != rec.CanonicalHour {
			p.errorf("row %d %s: %q, want %d", rec.Row, domain.ColumnCanonicalHour, row[hourCol], rec.CanonicalHour)
		}
		if row[phaseCol] != string(rec.Phase) {
			p.errorf("row %d %s: %q, want %q", rec.Row, domain.ColumnPhase, row[phaseCol], rec.Phase)
		}
	}
	return p
}
