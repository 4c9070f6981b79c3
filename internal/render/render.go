// Package render draws analysis results as plain text for terminals.
// Phase names are colored with fatih/color, which disables itself when
// stdout is not a terminal or NO_COLOR is set; callers may also force
// color.NoColor.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/erikahunting/white-shark-paina/internal/analysis"
	"github.com/erikahunting/white-shark-paina/internal/domain"
)

const barWidth = 40

// shades runs from empty to densest.
var shades = []rune(" .:-=+*#%@")

var phaseColors = map[domain.Phase]*color.Color{
	domain.PhaseDay:         color.New(color.FgYellow),
	domain.PhaseDayBinary:   color.New(color.FgYellow),
	domain.PhaseNight:       color.New(color.FgBlue),
	domain.PhaseNightBinary: color.New(color.FgBlue),
	domain.PhaseDawn:        color.New(color.FgMagenta),
	domain.PhaseDusk:        color.New(color.FgRed),
}

func paint(phase domain.Phase, s string) string {
	if c, ok := phaseColors[phase]; ok {
		return c.Sprint(s)
	}
	return s
}

func heading(title string) string {
	return color.New(color.Bold).Sprint(title) + "\n" + strings.Repeat("─", 50) + "\n"
}

// Summary writes one row per phase with count and depth statistics.
func Summary(w io.Writer, summaries []analysis.PhaseSummary) error {
	if _, err := io.WriteString(w, heading("Depth by time of day")); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "phase\tcount\tmean\tstd\tmin\tmax\t")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%.1f\t%.1f\t%.1f\t\n",
			paint(s.Phase, string(s.Phase)), s.Count, s.MeanDepth, s.StdDepth, s.MinDepth, s.MaxDepth)
	}
	return tw.Flush()
}

// Heatmap writes depth bins as rows and canonical hours as columns, shading
// each cell by the hour's share of samples in that bin. Rows stop at the
// deepest occupied bin.
func Heatmap(w io.Writer, h analysis.Heatmap) error {
	var b strings.Builder
	b.WriteString(heading("Depth occupancy by hour (UTC-10)"))

	deepest := h.DeepestBin()
	if deepest < 0 {
		b.WriteString("no samples in range\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString("   m  ")
	for hour := range 24 {
		if hour%6 == 0 {
			fmt.Fprintf(&b, "%-6d", hour)
		}
	}
	b.WriteString("\n")

	for bin := 0; bin <= deepest; bin++ {
		fmt.Fprintf(&b, "%4.0f |", h.BinEdges[bin])
		for hour := range 24 {
			b.WriteRune(shade(h.Fraction(hour, bin)))
		}
		b.WriteString("|\n")
	}
	if h.OutOfRange > 0 {
		fmt.Fprintf(&b, "%d samples outside 0-%.0f m\n", h.OutOfRange, analysis.HeatmapMaxDepth)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// shade maps a fraction in [0, 1] onto the ramp. Any non-zero fraction gets
// at least the lightest visible shade.
func shade(f float64) rune {
	if f <= 0 {
		return shades[0]
	}
	i := int(math.Ceil(f * float64(len(shades)-1)))
	return shades[min(i, len(shades)-1)]
}

// Histogram writes one bar chart per phase. Bars share a scale so phases can
// be compared by shape.
func Histogram(w io.Writer, h analysis.Histogram) error {
	var b strings.Builder
	b.WriteString(heading("Depth distribution per phase (density)"))

	maxDensity := 0.0
	lastBin := -1
	for _, p := range h.Phases {
		for i, d := range p.Density {
			maxDensity = math.Max(maxDensity, d)
			if p.Counts[i] > 0 && i > lastBin {
				lastBin = i
			}
		}
	}
	if lastBin < 0 {
		b.WriteString("no samples in range\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	for _, p := range h.Phases {
		fmt.Fprintf(&b, "%s (n=%d)\n", paint(p.Phase, string(p.Phase)), p.Count)
		for i := 0; i <= lastBin; i++ {
			n := 0
			if maxDensity > 0 {
				n = int(math.Round(p.Density[i] / maxDensity * barWidth))
			}
			fmt.Fprintf(&b, "%5.0f | %s\n", h.Edges[i], paint(p.Phase, strings.Repeat("█", n)))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Daily writes per-date, per-phase quartiles.
func Daily(w io.Writer, days []analysis.DailySummary) error {
	if _, err := io.WriteString(w, heading("Daily depth by phase")); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "date\tphase\tcount\tmean\tq1\tmedian\tq3\t")
	for _, d := range days {
		for _, p := range d.Phases {
			if p.Count == 0 {
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f\t%.1f\t%.1f\t%.1f\t\n",
				d.Date, paint(p.Phase, string(p.Phase)), p.Count, p.Mean, p.Q1, p.Median, p.Q3)
		}
	}
	return tw.Flush()
}

// Hourly writes per-hour, per-phase quartiles. Hours without samples are
// omitted.
func Hourly(w io.Writer, hours []analysis.HourlySummary) error {
	if _, err := io.WriteString(w, heading("Depth by hour (UTC-10)")); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "hour\tphase\tcount\tmean\tq1\tmedian\tq3\t")
	for _, h := range hours {
		for _, p := range h.Phases {
			if p.Count == 0 {
				continue
			}
			fmt.Fprintf(tw, "%02d\t%s\t%d\t%.1f\t%.1f\t%.1f\t%.1f\t\n",
				h.Hour, paint(p.Phase, string(p.Phase)), p.Count, p.Mean, p.Q1, p.Median, p.Q3)
		}
	}
	return tw.Flush()
}

// scatterLayout formats the time axis endpoints.
const scatterLayout = "2006-01-02 15:04"

// Scatter plots depth against canonical time, surface at the top, one mark per
// occupied cell colored by phase.
func Scatter(w io.Writer, s analysis.Scatter) error {
	var b strings.Builder
	b.WriteString(heading("Depth vs. time (UTC-10)"))

	if s.Plotted == 0 {
		b.WriteString("no samples\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	for r, row := range s.Cells {
		fmt.Fprintf(&b, "%5.0f |", s.RowDepth(r))
		for _, p := range row {
			if p == "" {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(paint(p, "•"))
		}
		b.WriteString("\n")
	}

	start := s.Start.Format(scatterLayout)
	end := s.End.Format(scatterLayout)
	pad := max(s.Columns-len(start)-len(end), 1)
	fmt.Fprintf(&b, "%7s%s%s%s\n", "", start, strings.Repeat(" ", pad), end)

	legend := make([]string, 0, len(s.Phases()))
	for _, p := range s.Phases() {
		legend = append(legend, paint(p, "• "+string(p)))
	}
	fmt.Fprintf(&b, "%7s%s\n", "", strings.Join(legend, "  "))

	_, err := io.WriteString(w, b.String())
	return err
}
