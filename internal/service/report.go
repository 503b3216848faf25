package service

import (
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"ltvreport/internal/pipeline"
)

// Filters narrow a report to a date window and/or categorical values.
// Nil dates and empty slices match everything; date bounds are inclusive
// at both ends.
type Filters struct {
	Start      *time.Time
	End        *time.Time
	Affiliates []string
	Sources    []string
	Countries  []string
}

// MonthlyRow is one aggregated report row, already in wire form: Date is
// the last calendar day of the month as YYYY-MM-DD and the monetary
// figures are plain numbers rounded to cents. Aggregation itself runs on
// decimals; rounding happens only here, at the presentation boundary.
type MonthlyRow struct {
	Date       string  `json:"date"`
	Country    string  `json:"country"`
	Affiliate  string  `json:"affiliate"`
	Source     string  `json:"source"`
	USDTotal   float64 `json:"usd_total"`
	CountFTD   int64   `json:"count_ftd"`
	GeneralLTV float64 `json:"general_ltv"`
}

// KPIs are the headline figures over a filtered record set.
type KPIs struct {
	TotalFTDs          int64   `json:"total_ftds"`
	TotalAmount        float64 `json:"total_amount"`
	TotalAmountDisplay string  `json:"total_amount_display"`
	GeneralLTV         float64 `json:"general_ltv"`
}

// SummaryRow is one line of a single-dimension rollup. The LTV ratio is
// recomputed from the summed figures, not averaged across groups.
type SummaryRow struct {
	Key        string  `json:"key"`
	USDTotal   float64 `json:"usd_total"`
	CountFTD   int64   `json:"count_ftd"`
	GeneralLTV float64 `json:"general_ltv"`
}

// Report bundles everything one report request returns.
type Report struct {
	Rows        []MonthlyRow `json:"rows"`
	KPIs        KPIs         `json:"kpis"`
	ByAffiliate []SummaryRow `json:"by_affiliate"`
	ByCountry   []SummaryRow `json:"by_country"`
}

// FilterOptions lists the distinct values a client can filter on, plus
// the date range the snapshot spans (YYYY-MM-DD, nil when empty).
type FilterOptions struct {
	Affiliates []string `json:"affiliates"`
	Sources    []string `json:"sources"`
	Countries  []string `json:"countries"`
	MinDate    *string  `json:"min_date"`
	MaxDate    *string  `json:"max_date"`
}

type ReportService struct {
	store *DataStore
}

func NewReportService(store *DataStore) *ReportService {
	return &ReportService{store: store}
}

// BuildReport filters the current snapshot and aggregates it into the
// monthly rows, KPIs and per-dimension rollups the dashboard shows.
func (s *ReportService) BuildReport(f Filters) Report {
	records := ApplyFilters(s.store.Records(), f)
	return Report{
		Rows:        AggregateMonthly(records),
		KPIs:        ComputeKPIs(records),
		ByAffiliate: SummarizeBy(records, func(r pipeline.CleanRecord) *string { return r.Affiliate }),
		ByCountry:   SummarizeBy(records, func(r pipeline.CleanRecord) *string { return r.Country }),
	}
}

// Options reports the filterable values present in the current snapshot.
func (s *ReportService) Options() FilterOptions {
	records := s.store.Records()

	affiliates := map[string]struct{}{}
	sources := map[string]struct{}{}
	countries := map[string]struct{}{}
	var minDate, maxDate *time.Time

	for _, r := range records {
		if r.Affiliate != nil {
			affiliates[*r.Affiliate] = struct{}{}
		}
		if r.Source != nil {
			sources[*r.Source] = struct{}{}
		}
		if r.Country != nil {
			countries[*r.Country] = struct{}{}
		}
		d := r.Date
		if minDate == nil || d.Before(*minDate) {
			minDate = &d
		}
		if maxDate == nil || d.After(*maxDate) {
			maxDate = &d
		}
	}

	opts := FilterOptions{
		Affiliates: sortedKeys(affiliates),
		Sources:    sortedKeys(sources),
		Countries:  sortedKeys(countries),
	}
	if minDate != nil {
		opts.MinDate = wireDatePtr(*minDate)
	}
	if maxDate != nil {
		opts.MaxDate = wireDatePtr(*maxDate)
	}
	return opts
}

// ApplyFilters keeps the records matching every populated filter. Records
// with a nil field never match a non-empty value list for that field.
func ApplyFilters(records []pipeline.CleanRecord, f Filters) []pipeline.CleanRecord {
	affiliates := toSet(f.Affiliates)
	sources := toSet(f.Sources)
	countries := toSet(f.Countries)

	out := make([]pipeline.CleanRecord, 0, len(records))
	for _, r := range records {
		if f.Start != nil && r.Date.Before(*f.Start) {
			continue
		}
		if f.End != nil && r.Date.After(*f.End) {
			continue
		}
		if !matches(affiliates, r.Affiliate) {
			continue
		}
		if !matches(sources, r.Source) {
			continue
		}
		if !matches(countries, r.Country) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// AggregateMonthly groups records by (month, country, affiliate, source)
// and computes each group's deposit total, FTD count and LTV. Every
// record's amount contributes to the total; only FTD records count toward
// count_ftd. Groups with zero FTDs report an LTV of zero rather than a
// division error.
func AggregateMonthly(records []pipeline.CleanRecord) []MonthlyRow {
	type key struct {
		month     time.Time
		country   string
		affiliate string
		source    string
	}
	type agg struct {
		total decimal.Decimal
		ftds  int64
	}

	groups := map[key]*agg{}
	for _, r := range records {
		k := key{
			month:     pipeline.MonthEnd(r.Date),
			country:   deref(r.Country),
			affiliate: deref(r.Affiliate),
			source:    deref(r.Source),
		}
		g, ok := groups[k]
		if !ok {
			g = &agg{}
			groups[k] = g
		}
		g.total = g.total.Add(r.USDTotal)
		if r.Type == pipeline.FTD {
			g.ftds++
		}
	}

	out := make([]MonthlyRow, 0, len(groups))
	for k, g := range groups {
		out = append(out, MonthlyRow{
			Date:       wireDate(k.month),
			Country:    k.country,
			Affiliate:  k.affiliate,
			Source:     k.source,
			USDTotal:   round2(g.total),
			CountFTD:   g.ftds,
			GeneralLTV: ratio(g.total, g.ftds),
		})
	}

	// YYYY-MM-DD sorts chronologically as text
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		if a.Affiliate != b.Affiliate {
			return a.Affiliate < b.Affiliate
		}
		return a.Source < b.Source
	})
	return out
}

// ComputeKPIs totals a filtered record set into the headline figures.
func ComputeKPIs(records []pipeline.CleanRecord) KPIs {
	var total decimal.Decimal
	var ftds int64
	for _, r := range records {
		total = total.Add(r.USDTotal)
		if r.Type == pipeline.FTD {
			ftds++
		}
	}
	amount := round2(total)
	return KPIs{
		TotalFTDs:          ftds,
		TotalAmount:        amount,
		TotalAmountDisplay: humanize.CommafWithDigits(amount, 2),
		GeneralLTV:         ratio(total, ftds),
	}
}

// SummarizeBy rolls records up along one dimension. Records with a nil
// value for the dimension are skipped; the ratio comes from the summed
// totals so large groups are not diluted by small ones.
func SummarizeBy(records []pipeline.CleanRecord, dim func(pipeline.CleanRecord) *string) []SummaryRow {
	type agg struct {
		total decimal.Decimal
		ftds  int64
	}
	groups := map[string]*agg{}
	for _, r := range records {
		v := dim(r)
		if v == nil {
			continue
		}
		g, ok := groups[*v]
		if !ok {
			g = &agg{}
			groups[*v] = g
		}
		g.total = g.total.Add(r.USDTotal)
		if r.Type == pipeline.FTD {
			g.ftds++
		}
	}

	out := make([]SummaryRow, 0, len(groups))
	for k, g := range groups {
		out = append(out, SummaryRow{
			Key:        k,
			USDTotal:   round2(g.total),
			CountFTD:   g.ftds,
			GeneralLTV: ratio(g.total, g.ftds),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func wireDate(d time.Time) string {
	return d.Format("2006-01-02")
}

func wireDatePtr(d time.Time) *string {
	s := wireDate(d)
	return &s
}

// round2 presents a decimal as a 2-decimal JSON number.
func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// ratio divides at report granularity, rounded to cents. Zero counts
// yield zero instead of a division error.
func ratio(total decimal.Decimal, count int64) float64 {
	if count == 0 {
		return 0
	}
	return round2(total.Div(decimal.NewFromInt(count)))
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// matches reports whether value passes the filter set. A nil set means
// the dimension is unfiltered.
func matches(set map[string]struct{}, value *string) bool {
	if set == nil {
		return true
	}
	if value == nil {
		return false
	}
	_, ok := set[*value]
	return ok
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
