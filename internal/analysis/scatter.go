package analysis

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/erikahunting/white-shark-paina/internal/domain"
)

// Scatter defaults: one terminal screen.
const (
	DefaultScatterColumns = 72
	DefaultScatterRows    = 20
)

// Scatter places depth samples on a Rows x Columns grid with canonical time
// running left to right and depth increasing downward from the surface.
type Scatter struct {
	Start    time.Time        `json:"start"`
	End      time.Time        `json:"end"`
	MaxDepth float64          `json:"max_depth_m"`
	Rows     int              `json:"rows"`
	Columns  int              `json:"columns"`
	Cells    [][]domain.Phase `json:"cells"` // [row][column]; "" marks an empty cell
	Plotted  int              `json:"plotted"`
}

// BuildScatter scales records onto the grid. The time axis spans the first to
// the last canonical time and the depth axis spans 0 to the deepest sample.
// A cell hit by several samples keeps the phase of the last one. Negative
// depths are drawn at the surface row.
func BuildScatter(records []domain.NormalizedRecord, columns, rows int) (Scatter, error) {
	if columns < 1 || rows < 1 {
		return Scatter{}, fmt.Errorf("invalid scatter grid: %d columns, %d rows", columns, rows)
	}

	s := Scatter{Rows: rows, Columns: columns, Cells: make([][]domain.Phase, rows)}
	for r := range s.Cells {
		s.Cells[r] = make([]domain.Phase, columns)
	}
	if len(records) == 0 {
		return s, nil
	}

	s.Start = records[0].CanonicalTime
	s.End = records[0].CanonicalTime
	for i := range records {
		t := records[i].CanonicalTime
		if t.Before(s.Start) {
			s.Start = t
		}
		if t.After(s.End) {
			s.End = t
		}
		s.MaxDepth = math.Max(s.MaxDepth, records[i].Depth)
	}

	span := s.End.Sub(s.Start)
	for i := range records {
		col := 0
		if span > 0 {
			col = scale(float64(records[i].CanonicalTime.Sub(s.Start))/float64(span), columns)
		}
		row := 0
		if s.MaxDepth > 0 {
			row = scale(records[i].Depth/s.MaxDepth, rows)
		}
		s.Cells[row][col] = records[i].Phase
		s.Plotted++
	}
	return s, nil
}

// scale maps f in [0, 1] onto 0..n-1, clamping values outside the range.
func scale(f float64, n int) int {
	i := int(math.Round(f * float64(n-1)))
	return min(max(i, 0), n-1)
}

// RowDepth returns the depth drawn on row r.
func (s Scatter) RowDepth(r int) float64 {
	if s.Rows < 2 {
		return 0
	}
	return float64(r) / float64(s.Rows-1) * s.MaxDepth
}

// Phases lists the distinct phases plotted, in first-seen order scanning
// rows then columns.
func (s Scatter) Phases() []domain.Phase {
	var out []domain.Phase
	for _, row := range s.Cells {
		for _, p := range row {
			if p != "" && !slices.Contains(out, p) {
				out = append(out, p)
			}
		}
	}
	return out
}
