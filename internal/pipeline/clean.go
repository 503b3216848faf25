package pipeline

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CleanStats summarizes one cleaning pass. Dropped and defaulted counts
// are the only trace dirty rows leave; per-row failures never propagate.
type CleanStats struct {
	Input            int
	Kept             int
	DroppedDates     int
	DefaultedAmounts int
}

// Clean derives CleanRecords from schema-normalized rows. forced tags every
// record with a fixed deposit type (the FTD/RTN master tables hold one type
// each); pass the zero value for combined tables carrying a deposit_type
// column, where anything that is not an FTD counts as a returning deposit.
func Clean(rows []RawRecord, forced DepositType) ([]CleanRecord, CleanStats) {
	stats := CleanStats{Input: len(rows)}
	title := cases.Title(language.Und)

	out := make([]CleanRecord, 0, len(rows))
	for _, row := range rows {
		date, ok := ParseDate(row["date"])
		if !ok {
			stats.DroppedDates++
			continue
		}

		amount := ParseAmount(row["usd_total"])
		if amount.Defaulted {
			stats.DefaultedAmounts++
		}

		typ := forced
		if typ == "" {
			if strings.EqualFold(strings.TrimSpace(row["deposit_type"]), string(FTD)) {
				typ = FTD
			} else {
				typ = RTN
			}
		}

		out = append(out, CleanRecord{
			Date:            date,
			Country:         normalizeLabel(title, row["country"]),
			Affiliate:       normalizeLabel(title, row["affiliate"]),
			Source:          normalizeLabel(title, row["source"]),
			Type:            typ,
			USDTotal:        amount.Value,
			AmountDefaulted: amount.Defaulted,
		})
	}
	stats.Kept = len(out)
	return out, stats
}

// normalizeLabel trims and title-cases a categorical value; empty strings
// and the literals "nan"/"none" collapse to nil.
func normalizeLabel(title cases.Caser, raw string) *string {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", "nan", "none":
		return nil
	}
	s = title.String(s)
	return &s
}
