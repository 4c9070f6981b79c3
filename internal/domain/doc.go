// Package domain models archival depth-tag data for the White Shark Pa'ina
// project and normalizes it for day/night analysis.
//
// # Data Source
//
// Archival tags record depth at a fixed interval. After recovery the samples
// are exported to CSV, one file per tag deployment. Every file carries the same
// core columns:
//
//	Date(...)  free-text calendar date; the header label encodes the source zone
//	Time       free-text HH:MM:SS, not used for normalization
//	Depth(m)   depth in meters, usually to the tenths place
//	Year, Month, Day, Hour, Min, Sec
//	           integer components of the sample time in the source zone
//
// # Source Zones
//
// The zone of a file is inferred once, from the label of its date column. The
// table is closed and case-sensitive:
//
//	"Date(UTC-8)"  fixed UTC-8 offset, no daylight saving
//	"Date(EST)"    UTC (the label is a historical mistake; the data is UTC)
//	"Date"         UTC
//
// Any other label fails with [UnrecognizedTimeZoneError]. There is no
// fallback zone: a wrong guess would shift every dive by hours.
//
// # Canonical Zone
//
// All samples are converted to Hawaii standard time (UTC-10, no daylight
// saving) by absolute-instant conversion, so calendar dates roll correctly
// when the offset change crosses midnight. See [Normalize].
//
// # Day Phases
//
// Two classification policies coexist and are kept separate:
//
//	binary      day if 6 < hour < 18, otherwise night
//	quaternary  Day 7-16 | Dusk 17-18 | Night 19-23, 0-4 | Dawn 5-6
//
// Sunrise (06:00) and sunset (18:00) are fixed placeholders, not an ephemeris.
// See [Policy].
package domain
