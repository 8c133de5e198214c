package analytics

import "strings"

// Result states for outputs that can be valid without carrying a value.
// "no data" is a meaningful outcome distinct from "not computable":
// an Everest count of zero is a real zero, while a missing success column
// makes the count unavailable.
const (
	StateOK            = "ok"
	StateIndeterminate = "indeterminate"
	StateUnavailable   = "unavailable"
)

// Long-form metric names of the yearly trend series
const (
	MetricTotalExpeditions      = "total_expeditions"
	MetricSuccessfulExpeditions = "successful_expeditions"
)

// OutcomeSuccess is the expedition outcome literal counted as a success
const OutcomeSuccess = "success"

// successLiterals is the enumerated set of member success-flag spellings,
// compared case-folded. The set is deliberately explicit rather than
// inferred from the data.
var successLiterals = map[string]struct{}{
	"true": {},
	"1":    {},
	"y":    {},
	"yes":  {},
}

// IsSuccessLiteral reports whether the raw cell value marks a successful climb
func IsSuccessLiteral(value string) bool {
	_, ok := successLiterals[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

// PeakCount is one entry of the top climbed peaks ranking. Name is nil when
// the peak identifier has no match in the peaks table.
type PeakCount struct {
	PeakID   string  `json:"peakid"`
	Name     *string `json:"name"`
	Climbers int     `json:"climbers"`
}

// ClimbedShare is the percentage of catalogued peaks with at least one
// member record.
type ClimbedShare struct {
	State        string  `json:"state"`
	ClimbedPeaks int     `json:"climbed_peaks"`
	TotalPeaks   int     `json:"total_peaks"`
	Percent      float64 `json:"percent"`
}

// TopClimber is the member name with the most successful climbs. Reason
// explains an indeterminate state (missing column, no successful rows).
type TopClimber struct {
	State   string `json:"state"`
	Name    string `json:"name,omitempty"`
	Ascents int    `json:"ascents,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// TrendPoint is one (year, metric, count) triple of the long-form yearly
// series, suitable for a dual-line time series.
type TrendPoint struct {
	Year   int    `json:"year"`
	Metric string `json:"metric"`
	Count  int    `json:"count"`
}

// EverestCount is the number of member rows with a successful climb of a
// peak whose name contains "Everest".
type EverestCount struct {
	State    string   `json:"state"`
	Climbers int      `json:"climbers"`
	PeakIDs  []string `json:"peak_ids,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

// Shape is a (rows, columns) dimension pair
type Shape struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}
