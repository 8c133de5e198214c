package analytics

import (
	"sort"
	"strconv"
	"strings"

	"himalcli/internal/dataset"
)

// Years returns the distinct years present in the expedition table, sorted
// descending so the first entry is the most recent (the default selection).
func Years(ds *dataset.Dataset) ([]int, error) {
	yearCol, err := ds.Schema.RequireExpeditionYear()
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})
	exped := ds.Expeditions
	for i := 0; i < exped.RowCount(); i++ {
		year, ok := parseYear(exped.Value(i, yearCol))
		if !ok {
			continue
		}
		seen[year] = struct{}{}
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// Nationalities returns the distinct nationality values present in the
// member table, sorted ascending.
func Nationalities(ds *dataset.Dataset) ([]string, error) {
	natCol, err := ds.Schema.RequireMemberNationality()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	members := ds.Members
	for i := 0; i < members.RowCount(); i++ {
		v := strings.TrimSpace(members.Value(i, natCol))
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

// ExpeditionsByYear returns the expedition rows whose year equals the
// selection exactly. A year absent from the table yields an empty view,
// never an error; the input table is not modified.
func ExpeditionsByYear(ds *dataset.Dataset, year int) (*dataset.Table, error) {
	yearCol, err := ds.Schema.RequireExpeditionYear()
	if err != nil {
		return nil, err
	}
	return ds.Expeditions.Select(yearCol, func(v string) bool {
		parsed, ok := parseYear(v)
		return ok && parsed == year
	}), nil
}

// MembersByNationality returns the member rows whose nationality equals the
// selection exactly.
func MembersByNationality(ds *dataset.Dataset, nationality string) (*dataset.Table, error) {
	natCol, err := ds.Schema.RequireMemberNationality()
	if err != nil {
		return nil, err
	}
	return ds.Members.Select(natCol, func(v string) bool {
		return strings.TrimSpace(v) == nationality
	}), nil
}

// parseYear parses a year cell; blanks and non-numeric values are treated as
// missing, not as errors.
func parseYear(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	year, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return year, true
}
