package domain

import "time"

// Column headers recognized in tag CSV files.
const (
	ColumnTime   = "Time"
	ColumnDepth  = "Depth(m)"
	ColumnYear   = "Year"
	ColumnMonth  = "Month"
	ColumnDay    = "Day"
	ColumnHour   = "Hour"
	ColumnMinute = "Min"
	ColumnSecond = "Sec"

	// Derived columns appended to the output table.
	ColumnCanonicalTime = "Datetime (UTC-10)"
	ColumnCanonicalHour = "Hour (UTC-10)"
	ColumnPhase         = "Time of Day"
)

// Record is one depth sample as read from a tag CSV. Calendar and clock fields
// are in the batch's source zone.
type Record struct {
	Row    int     `json:"row"` // 1-based data row, header excluded
	Date   string  `json:"date,omitempty"`
	Time   string  `json:"time,omitempty"`
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Day    int     `json:"day"`
	Hour   int     `json:"hour"`
	Minute int     `json:"minute"`
	Second int     `json:"second"`
	Depth  float64 `json:"depth_m"`

	// Fields holds the raw row values in header order so the table can be
	// written back out with derived columns appended.
	Fields []string `json:"-"`
}

// Batch is the set of records ingested from one file. All records share the
// source zone named by DateColumn.
type Batch struct {
	ID         string
	Source     string
	Header     []string
	DateColumn string
	Records    []Record
}

// NormalizedRecord is a Record with its canonical time, hour, and day phase.
// The embedded Record is never modified.
type NormalizedRecord struct {
	Record
	CanonicalTime time.Time `json:"canonical_time"`
	CanonicalHour int       `json:"canonical_hour"`
	Phase         Phase     `json:"phase,omitempty"`
}

// NormalizedBatch is a Batch after normalization under one policy.
type NormalizedBatch struct {
	ID          string
	Source      string
	Header      []string
	Zone        SourceZone
	Policy      Policy
	Records     []NormalizedRecord
	ProcessedAt time.Time
}
