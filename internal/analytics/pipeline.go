package analytics

import (
	"sort"
	"strings"

	"himalcli/internal/dataset"
)

// The five analytical operations are pure functions of the loaded dataset
// and never mutate their input tables. Each fails independently: a schema
// mismatch in one operation must not abort the others, so isolation is the
// caller's job (see services.DashboardService).

// TopClimbedPeaks counts member rows per peak identifier, attaches peak
// display names by left join and returns the n most climbed peaks in
// descending count order. Ties keep first-encounter order; identifiers
// without a peaks-table match carry a nil name.
func TopClimbedPeaks(ds *dataset.Dataset, n int) ([]PeakCount, error) {
	peakCol, err := ds.Schema.RequireMemberPeakID()
	if err != nil {
		return nil, err
	}
	if _, err := ds.Schema.RequirePeakID(); err != nil {
		return nil, err
	}
	if _, err := ds.Schema.RequirePeakName(); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0

	members := ds.Members
	for i := 0; i < members.RowCount(); i++ {
		id := strings.TrimSpace(members.Value(i, peakCol))
		if id == "" {
			continue
		}
		if _, seen := counts[id]; !seen {
			firstSeen[id] = order
			order++
		}
		counts[id]++
	}

	ranked := make([]string, 0, len(counts))
	for id := range counts {
		ranked = append(ranked, id)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return firstSeen[ranked[i]] < firstSeen[ranked[j]]
	})

	if n > len(ranked) {
		n = len(ranked)
	}

	names := peakNameIndex(ds)
	top := make([]PeakCount, 0, n)
	for _, id := range ranked[:n] {
		entry := PeakCount{PeakID: id, Climbers: counts[id]}
		if name, ok := names[id]; ok {
			entry.Name = &name
		}
		top = append(top, entry)
	}
	return top, nil
}

// PeaksClimbedShare computes the percentage of catalogued peaks that appear
// in at least one member record. An empty peaks catalogue makes the share
// indeterminate rather than dividing by zero.
func PeaksClimbedShare(ds *dataset.Dataset) (*ClimbedShare, error) {
	memberPeakCol, err := ds.Schema.RequireMemberPeakID()
	if err != nil {
		return nil, err
	}
	peakIDCol, err := ds.Schema.RequirePeakID()
	if err != nil {
		return nil, err
	}

	climbed := make(map[string]struct{})
	members := ds.Members
	for i := 0; i < members.RowCount(); i++ {
		id := strings.TrimSpace(members.Value(i, memberPeakCol))
		if id == "" {
			continue
		}
		climbed[id] = struct{}{}
	}

	catalogued := make(map[string]struct{})
	peaks := ds.Peaks
	for i := 0; i < peaks.RowCount(); i++ {
		id := strings.TrimSpace(peaks.Value(i, peakIDCol))
		if id == "" {
			continue
		}
		catalogued[id] = struct{}{}
	}

	share := &ClimbedShare{
		ClimbedPeaks: len(climbed),
		TotalPeaks:   len(catalogued),
	}
	if len(catalogued) == 0 {
		share.State = StateIndeterminate
		return share, nil
	}

	share.State = StateOK
	share.Percent = float64(len(climbed)) / float64(len(catalogued)) * 100
	return share, nil
}

// MostSuccessfulClimber returns the member name with the most rows whose
// success flag is one of the accepted literals. Ties keep the
// first-encountered maximum. A missing name or success column, or zero
// successful rows, yields the indeterminate state instead of a name.
func MostSuccessfulClimber(ds *dataset.Dataset) (*TopClimber, error) {
	nameCol, err := ds.Schema.RequireMemberName()
	if err != nil {
		return &TopClimber{State: StateIndeterminate, Reason: err.Error()}, nil
	}
	successCol, err := ds.Schema.RequireMemberSuccess()
	if err != nil {
		return &TopClimber{State: StateIndeterminate, Reason: err.Error()}, nil
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0

	members := ds.Members
	for i := 0; i < members.RowCount(); i++ {
		if !IsSuccessLiteral(members.Value(i, successCol)) {
			continue
		}
		name := strings.TrimSpace(members.Value(i, nameCol))
		if name == "" {
			continue
		}
		if _, seen := counts[name]; !seen {
			firstSeen[name] = order
			order++
		}
		counts[name]++
	}

	if len(counts) == 0 {
		return &TopClimber{State: StateIndeterminate, Reason: "no successful climbs found"}, nil
	}

	best := ""
	for name := range counts {
		if best == "" ||
			counts[name] > counts[best] ||
			(counts[name] == counts[best] && firstSeen[name] < firstSeen[best]) {
			best = name
		}
	}

	return &TopClimber{State: StateOK, Name: best, Ascents: counts[best]}, nil
}

// YearlyTrend groups expeditions by year and emits the long-form series of
// total and successful expedition counts per year, ordered by year
// ascending with the total metric first.
func YearlyTrend(ds *dataset.Dataset) ([]TrendPoint, error) {
	yearCol, err := ds.Schema.RequireExpeditionYear()
	if err != nil {
		return nil, err
	}
	outcomeCol, err := ds.Schema.RequireExpeditionOutcome()
	if err != nil {
		return nil, err
	}

	type yearCounts struct {
		total      int
		successful int
	}
	byYear := make(map[int]*yearCounts)

	exped := ds.Expeditions
	for i := 0; i < exped.RowCount(); i++ {
		year, ok := parseYear(exped.Value(i, yearCol))
		if !ok {
			continue
		}
		counts := byYear[year]
		if counts == nil {
			counts = &yearCounts{}
			byYear[year] = counts
		}
		counts.total++
		if strings.TrimSpace(exped.Value(i, outcomeCol)) == OutcomeSuccess {
			counts.successful++
		}
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	series := make([]TrendPoint, 0, len(years)*2)
	for _, y := range years {
		series = append(series,
			TrendPoint{Year: y, Metric: MetricTotalExpeditions, Count: byYear[y].total},
			TrendPoint{Year: y, Metric: MetricSuccessfulExpeditions, Count: byYear[y].successful},
		)
	}
	return series, nil
}

// EverestClimbers counts member rows referencing a peak whose display name
// contains "Everest" (case-insensitive) with a successful climb. A missing
// success column makes the count unavailable, which is distinct from a real
// count of zero.
func EverestClimbers(ds *dataset.Dataset) (*EverestCount, error) {
	memberPeakCol, err := ds.Schema.RequireMemberPeakID()
	if err != nil {
		return nil, err
	}
	peakIDCol, err := ds.Schema.RequirePeakID()
	if err != nil {
		return nil, err
	}
	peakNameCol, err := ds.Schema.RequirePeakName()
	if err != nil {
		return nil, err
	}

	// A missing success column is reported as the unavailable state, which
	// the display contract keeps distinct from a real count of zero.
	successCol, err := ds.Schema.RequireMemberSuccess()
	if err != nil {
		return &EverestCount{State: StateUnavailable, Reason: err.Error()}, nil
	}

	var everestIDs []string
	everestSet := make(map[string]struct{})
	peaks := ds.Peaks
	for i := 0; i < peaks.RowCount(); i++ {
		name := peaks.Value(i, peakNameCol)
		if !strings.Contains(strings.ToLower(name), "everest") {
			continue
		}
		id := strings.TrimSpace(peaks.Value(i, peakIDCol))
		if id == "" {
			continue
		}
		if _, seen := everestSet[id]; !seen {
			everestSet[id] = struct{}{}
			everestIDs = append(everestIDs, id)
		}
	}

	count := 0
	members := ds.Members
	for i := 0; i < members.RowCount(); i++ {
		id := strings.TrimSpace(members.Value(i, memberPeakCol))
		if _, ok := everestSet[id]; !ok {
			continue
		}
		if IsSuccessLiteral(members.Value(i, successCol)) {
			count++
		}
	}

	return &EverestCount{State: StateOK, Climbers: count, PeakIDs: everestIDs}, nil
}

// Dimensions reports the (rows, columns) shape of the four primary tables,
// always over the full unfiltered dataset.
func Dimensions(ds *dataset.Dataset) map[string]Shape {
	shapes := make(map[string]Shape, 4)
	for _, name := range []string{
		dataset.TableExpeditions,
		dataset.TableMembers,
		dataset.TablePeaks,
		dataset.TableReferences,
	} {
		t := ds.Table(name)
		shapes[name] = Shape{Rows: t.RowCount(), Columns: t.ColumnCount()}
	}
	return shapes
}

// peakNameIndex maps peak identifiers to display names, first occurrence
// winning on duplicates. Nil positions have been checked by the caller.
func peakNameIndex(ds *dataset.Dataset) map[string]string {
	names := make(map[string]string)
	peaks := ds.Peaks
	idCol := ds.Schema.PeakID
	nameCol := ds.Schema.PeakName
	for i := 0; i < peaks.RowCount(); i++ {
		id := strings.TrimSpace(peaks.Value(i, idCol))
		if id == "" {
			continue
		}
		if _, exists := names[id]; !exists {
			names[id] = peaks.Value(i, nameCol)
		}
	}
	return names
}
