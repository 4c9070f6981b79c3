package csvio

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/erikahunting/white-shark-paina/internal/domain"
)

// CanonicalTimeLayout renders canonical datetimes with their offset, e.g.
// "2021-12-31 23:00:00-10:00".
const CanonicalTimeLayout = "2006-01-02 15:04:05-07:00"

// WriteBatch writes the batch's original columns followed by the canonical
// datetime, canonical hour, and phase columns.
func WriteBatch(w io.Writer, batch domain.NormalizedBatch) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(batch.Header)+3)
	header = append(header, batch.Header...)
	header = append(header, domain.ColumnCanonicalTime, domain.ColumnCanonicalHour, domain.ColumnPhase)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range batch.Records {
		rec := &batch.Records[i]
		row := make([]string, 0, len(header))
		row = append(row, rec.Fields...)
		for len(row) < len(batch.Header) {
			row = append(row, "")
		}
		row = append(row,
			rec.CanonicalTime.Format(CanonicalTimeLayout),
			strconv.Itoa(rec.CanonicalHour),
			string(rec.Phase),
		)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", rec.Row, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// FileLoader writes each normalized batch to a CSV file.
// It implements pipeline.BatchLoader.
type FileLoader struct {
	path string
}

// NewFileLoader creates a loader that writes to path, replacing any existing
// file.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) Name() string { return "csv:" + filepath.Base(l.path) }

// LoadBatch writes to a temporary file next to the target and renames it into
// place, so a failed write never leaves a truncated table behind.
func (l *FileLoader) LoadBatch(_ context.Context, batch domain.NormalizedBatch) error {
	tmp, err := os.CreateTemp(filepath.Dir(l.path), "."+filepath.Base(l.path)+".*")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if err := WriteBatch(tmp, batch); err != nil {
		tmp.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
