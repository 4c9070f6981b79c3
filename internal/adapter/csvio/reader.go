// Package csvio reads archival tag CSV exports into domain batches and writes
// normalized batches back out as CSV with the derived columns appended.
package csvio

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/erikahunting/white-shark-paina/internal/domain"
	"github.com/google/uuid"
)

// utf8BOM is stripped from the first header cell; spreadsheet exports often
// start with one and it would otherwise defeat zone inference.
const utf8BOM = "\ufeff"

var requiredColumns = []string{
	domain.ColumnYear,
	domain.ColumnMonth,
	domain.ColumnDay,
	domain.ColumnHour,
	domain.ColumnMinute,
	domain.ColumnSecond,
	domain.ColumnDepth,
}

// ReadBatch parses a tag CSV. The first column is the date column; its header
// label names the source zone and is not interpreted here.
func ReadBatch(r io.Reader, source string) (domain.Batch, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.Batch{}, fmt.Errorf("read %s: empty file", source)
	}
	if err != nil {
		return domain.Batch{}, fmt.Errorf("read %s header: %w", source, err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	idx, err := indexColumns(header)
	if err != nil {
		return domain.Batch{}, fmt.Errorf("read %s: %w", source, err)
	}

	var records []domain.Record
	for row := 1; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Batch{}, fmt.Errorf("read %s row %d: %w", source, row, err)
		}
		if isBlank(fields) {
			continue
		}
		rec, err := parseRecord(row, fields, idx)
		if err != nil {
			return domain.Batch{}, fmt.Errorf("read %s: %w", source, err)
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return domain.Batch{}, fmt.Errorf("read %s: no data rows", source)
	}

	return domain.Batch{
		ID:         uuid.NewString(),
		Source:     source,
		Header:     header,
		DateColumn: header[0],
		Records:    records,
	}, nil
}

// columnIndex holds header positions; -1 marks an absent optional column.
type columnIndex struct {
	date, time                                    int
	year, month, day, hour, minute, second, depth int
}

func indexColumns(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := pos[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return columnIndex{}, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	timeIdx, ok := pos[domain.ColumnTime]
	if !ok {
		timeIdx = -1
	}

	return columnIndex{
		date:   0,
		time:   timeIdx,
		year:   pos[domain.ColumnYear],
		month:  pos[domain.ColumnMonth],
		day:    pos[domain.ColumnDay],
		hour:   pos[domain.ColumnHour],
		minute: pos[domain.ColumnMinute],
		second: pos[domain.ColumnSecond],
		depth:  pos[domain.ColumnDepth],
	}, nil
}

func parseRecord(row int, fields []string, idx columnIndex) (domain.Record, error) {
	p := fieldParser{row: row, fields: fields}

	rec := domain.Record{
		Row:    row,
		Date:   p.text(idx.date),
		Time:   p.text(idx.time),
		Year:   p.integer(idx.year, domain.ColumnYear),
		Month:  p.integer(idx.month, domain.ColumnMonth),
		Day:    p.integer(idx.day, domain.ColumnDay),
		Hour:   p.integer(idx.hour, domain.ColumnHour),
		Minute: p.integer(idx.minute, domain.ColumnMinute),
		Second: p.integer(idx.second, domain.ColumnSecond),
		Depth:  p.float(idx.depth, domain.ColumnDepth),
		Fields: fields,
	}
	if p.err != nil {
		return domain.Record{}, p.err
	}
	return rec, nil
}

// fieldParser keeps the first parse error so parseRecord reads linearly.
type fieldParser struct {
	row    int
	fields []string
	err    error
}

func (p *fieldParser) text(i int) string {
	if i < 0 || i >= len(p.fields) {
		return ""
	}
	return strings.TrimSpace(p.fields[i])
}

func (p *fieldParser) integer(i int, col string) int {
	if p.err != nil {
		return 0
	}
	raw := p.text(i)
	v, err := strconv.Atoi(raw)
	if err != nil {
		// Spreadsheet round-trips turn integer columns into "2022.0".
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != float64(int(f)) {
			p.err = fmt.Errorf("row %d: column %s: invalid integer %q", p.row, col, raw)
			return 0
		}
		v = int(f)
	}
	return v
}

func (p *fieldParser) float(i int, col string) float64 {
	if p.err != nil {
		return 0
	}
	raw := p.text(i)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.err = fmt.Errorf("row %d: column %s: invalid number %q", p.row, col, raw)
		return 0
	}
	return v
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// FileExtractor reads one batch from a CSV file on disk.
// It implements pipeline.BatchExtractor.
type FileExtractor struct {
	path string
}

// NewFileExtractor creates an extractor for path. The batch source is the
// file's base name.
func NewFileExtractor(path string) *FileExtractor {
	return &FileExtractor{path: path}
}

func (e *FileExtractor) ExtractBatch(_ context.Context) (domain.Batch, error) {
	f, err := os.Open(e.path)
	if err != nil {
		return domain.Batch{}, fmt.Errorf("open tag file: %w", err)
	}
	defer f.Close()

	return ReadBatch(f, filepath.Base(e.path))
}

// ReaderExtractor reads one batch from an in-memory stream such as an
// uploaded request body.
type ReaderExtractor struct {
	r      io.Reader
	source string
}

// NewReaderExtractor creates an extractor over r, labeled source.
func NewReaderExtractor(r io.Reader, source string) *ReaderExtractor {
	return &ReaderExtractor{r: r, source: source}
}

func (e *ReaderExtractor) ExtractBatch(_ context.Context) (domain.Batch, error) {
	return ReadBatch(e.r, e.source)
}
