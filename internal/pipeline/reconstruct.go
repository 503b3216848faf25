package pipeline

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// sentinelTotal marks spreadsheet subtotal rows in the legacy export.
const sentinelTotal = "TOTAL GENERAL"

// legacyColumnMap maps the legacy export's physical column names onto what
// the cells actually hold. The original spreadsheet header is shifted one
// column to the left of the data, so e.g. the "afiliado" column carries the
// total amount. Fixed mapping, distinct from generic alias resolution.
var legacyColumnMap = map[string]string{
	"pais":      "label",
	"fecha":     "date",
	"afiliado":  "total_amount",
	"usd_total": "ftds",
	"count_ftd": "general_ltv_raw",
}

// ApplyLegacyColumns rekeys raw legacy rows through legacyColumnMap.
// Column names are lower-cased and trimmed first; unmapped columns pass
// through unchanged.
func ApplyLegacyColumns(rows []RawRecord) []RawRecord {
	out := make([]RawRecord, len(rows))
	for i, row := range rows {
		r := make(RawRecord, len(row))
		for k, v := range row {
			key := strings.ToLower(strings.TrimSpace(k))
			if mapped, ok := legacyColumnMap[key]; ok {
				key = mapped
			}
			r[key] = v
		}
		out[i] = r
	}
	return out
}

// ReconstructOptions configure the unpivot pass.
type ReconstructOptions struct {
	// Countries is the closed set of labels recognized as country rows.
	// Matching is exact on the trimmed label.
	Countries []string
	// SkipRows drops this many leading header/metadata rows before
	// classification. Short inputs are not skipped, only flagged.
	SkipRows int
}

// ReconstructResult carries the recovered rows plus counters for every
// class of row the pass discarded, so a load can be audited without
// per-row logging.
type ReconstructResult struct {
	Rows []LegacyRow

	Input          int
	ShortInput     bool
	CountryLabels  int
	SentinelRows   int
	Duplicates     int
	DroppedDates   int
	NearMissLabels []string
}

// Reconstruct rebuilds (country, affiliate) pairs from a denormalized
// export where country names appear as interleaved label rows above the
// affiliate rows they group. Each row's single label field is classified
// as either a country (member of the fixed set) or an affiliate; country
// labels are carried forward onto subsequent affiliate rows, then the
// label rows themselves and the "Total General" subtotal rows are
// discarded, duplicates collapse first-wins, and the per-row LTV ratio is
// recomputed from usd_total/count_ftd whenever the count is nonzero.
func Reconstruct(rows []RawRecord, opts ReconstructOptions) ReconstructResult {
	res := ReconstructResult{Input: len(rows)}

	if opts.SkipRows > 0 {
		if len(rows) > opts.SkipRows {
			rows = rows[opts.SkipRows:]
		} else {
			res.ShortInput = true
		}
	}

	countrySet := make(map[string]struct{}, len(opts.Countries))
	for _, c := range opts.Countries {
		countrySet[c] = struct{}{}
	}

	title := cases.Title(language.Und)
	seen := map[[3]string]struct{}{}
	nearMiss := map[string]struct{}{}

	var currentCountry string
	var haveCountry bool
	out := make([]LegacyRow, 0, len(rows))

	for _, row := range rows {
		label := strings.TrimSpace(row["label"])

		if _, ok := countrySet[label]; ok {
			currentCountry = label
			haveCountry = true
			res.CountryLabels++
			continue
		}

		if label == "" {
			continue
		}
		if strings.EqualFold(label, sentinelTotal) {
			res.SentinelRows++
			continue
		}

		if c := closestCountry(label, opts.Countries); c != "" {
			nearMiss[label] = struct{}{}
		}

		key := [3]string{
			strings.TrimSpace(row["date"]),
			label,
			strings.TrimSpace(row["total_amount"]),
		}
		if _, dup := seen[key]; dup {
			res.Duplicates++
			continue
		}
		seen[key] = struct{}{}

		date, ok := ParseDate(row["date"])
		if !ok {
			res.DroppedDates++
			continue
		}

		amount := ParseAmount(row["total_amount"])
		count, _ := ParseCount(row["ftds"])
		ltv := ParseAmount(row["general_ltv_raw"]).Value
		if count != 0 {
			ltv = amount.Value.Div(decimal.NewFromInt(count))
		}

		var country *string
		if haveCountry {
			c := title.String(currentCountry)
			country = &c
		}

		out = append(out, LegacyRow{
			Date:       date,
			Country:    country,
			Affiliate:  title.String(label),
			USDTotal:   amount.Value,
			CountFTD:   count,
			GeneralLTV: ltv,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	res.Rows = out

	for label := range nearMiss {
		res.NearMissLabels = append(res.NearMissLabels, label)
	}
	sort.Strings(res.NearMissLabels)
	return res
}

// closestCountry reports a country within edit distance 1 of label, if
// any. These labels classify as affiliates but are usually typos in the
// export; surfacing them keeps a misspelled country from silently
// forward-filling the wrong value.
func closestCountry(label string, countries []string) string {
	for _, c := range countries {
		if levenshtein.ComputeDistance(label, c) == 1 {
			return c
		}
	}
	return ""
}
