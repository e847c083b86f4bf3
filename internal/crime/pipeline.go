// Package crime aggregates district crime statistics from tabular open-data
// exports.
package crime

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tripdesk/berlin-cli/internal/model"
)

// ErrMissingDistrict marks a source without the required District column.
var ErrMissingDistrict = eris.New("crime: source has no District column")

// Table is a parsed tabular dataset: one header row plus data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// Non-crime columns excluded from the per-row total. Every other column is
// treated as a crime-count column; summing all-numeric-minus-exclusions is
// deliberately broader than a hardcoded crime-type list so schema drift in
// the source adds new crime types instead of silently dropping them.
var excludedColumns = map[string]struct{}{
	"year":      {},
	"code":      {},
	"district":  {},
	"location":  {},
	"latitude":  {},
	"longitude": {},
}

// Aggregate sums all crime-count columns per district, restricted to the
// most recent year present in the source. A missing District column is a
// configuration error; the result is then empty. Districts absent from the
// filtered source never appear in the output.
func Aggregate(table Table) ([]model.DistrictCrimeTotal, error) {
	summary, err := Summarize(table)
	if err != nil {
		return nil, err
	}
	return summary.Totals, nil
}

// Summarize runs the aggregation and the derived dashboard queries in one
// pass: per-district totals, the grand total, the highest-crime district,
// and the crime-type column with the largest sum over the filtered cohort.
func Summarize(table Table) (model.CrimeSummary, error) {
	districtIdx := columnIndex(table.Header, "district")
	if districtIdx < 0 {
		return model.CrimeSummary{}, ErrMissingDistrict
	}

	rows := table.Rows
	yearIdx := columnIndex(table.Header, "year")

	var latestYear int
	if yearIdx >= 0 {
		rows, latestYear = filterLatestYear(rows, yearIdx)
	}

	crimeIdx := crimeColumns(table.Header)

	byDistrict := make(map[string]int)
	columnSums := make(map[int]int)
	for _, row := range rows {
		if districtIdx >= len(row) {
			continue // short row, skip
		}
		district := strings.TrimSpace(row[districtIdx])
		if district == "" {
			continue
		}

		rowTotal := 0
		for _, idx := range crimeIdx {
			if idx >= len(row) {
				continue
			}
			n := parseCount(row[idx])
			rowTotal += n
			columnSums[idx] += n
		}
		byDistrict[district] += rowTotal
	}

	totals := make([]model.DistrictCrimeTotal, 0, len(byDistrict))
	for district, total := range byDistrict {
		totals = append(totals, model.DistrictCrimeTotal{District: district, TotalCrime: total})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].District < totals[j].District })

	summary := model.CrimeSummary{
		Totals: totals,
		Year:   latestYear,
	}
	for _, t := range totals {
		summary.TotalCrime += t.TotalCrime
		if summary.TopDistrict == "" || t.TotalCrime > topTotal(totals, summary.TopDistrict) {
			summary.TopDistrict = t.District
		}
	}
	summary.TopCrimeType = topColumn(table.Header, crimeIdx, columnSums)

	zap.L().Debug("crime aggregation complete",
		zap.Int("districts", len(totals)),
		zap.Int("rows", len(rows)),
		zap.Int("year", latestYear),
	)
	return summary, nil
}

// filterLatestYear keeps only rows whose year equals the numeric maximum of
// the year column. Rows with an unparseable year are dropped with the rest.
func filterLatestYear(rows [][]string, yearIdx int) ([][]string, int) {
	maxYear := 0
	found := false
	for _, row := range rows {
		if yearIdx >= len(row) {
			continue
		}
		if y, err := strconv.Atoi(strings.TrimSpace(row[yearIdx])); err == nil {
			if !found || y > maxYear {
				maxYear = y
				found = true
			}
		}
	}
	if !found {
		return rows, 0
	}

	var filtered [][]string
	for _, row := range rows {
		if yearIdx >= len(row) {
			continue
		}
		if y, err := strconv.Atoi(strings.TrimSpace(row[yearIdx])); err == nil && y == maxYear {
			filtered = append(filtered, row)
		}
	}
	return filtered, maxYear
}

// crimeColumns returns the indexes of all columns not in the exclusion set.
func crimeColumns(header []string) []int {
	var idx []int
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, excluded := excludedColumns[key]; excluded {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}

// columnIndex finds a header column by case-insensitive name, -1 if absent.
func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// parseCount reads a cell as a count. Non-numeric cells count as zero; the
// source is not validated against negative values.
func parseCount(cell string) int {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func topTotal(totals []model.DistrictCrimeTotal, district string) int {
	for _, t := range totals {
		if t.District == district {
			return t.TotalCrime
		}
	}
	return 0
}

// topColumn returns the name of the crime column with the largest sum,
// first-in-header-order on ties. Empty when no column has a positive sum.
func topColumn(header []string, crimeIdx []int, sums map[int]int) string {
	best := ""
	bestSum := 0
	for _, idx := range crimeIdx {
		if sums[idx] > bestSum {
			bestSum = sums[idx]
			best = strings.TrimSpace(header[idx])
		}
	}
	return best
}
