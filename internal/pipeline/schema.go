package pipeline

import "strings"

// fieldAlias binds a canonical column to the ordered list of names the
// source tables are known to use for it. The first alias present wins.
// This is configuration, not inference: new source spellings get added
// here, never as per-source branches.
type fieldAlias struct {
	canonical  string
	aliases    []string
	required   bool
	synthesize bool // create the column as empty when nothing matches
}

var columnAliases = []fieldAlias{
	{canonical: "date", aliases: []string{"created_at", "fecha", "day", "transaction_date"}, required: true},
	{canonical: "usd_total", aliases: []string{"usd", "total_amount", "amount_usd", "deposit_usd", "amount", "monto"}, required: true},
	{canonical: "deposit_type", aliases: []string{"type", "tipo", "kind"}},
	{canonical: "source", aliases: []string{"src", "fuente", "traffic_source", "origin"}, synthesize: true},
	{canonical: "country", aliases: []string{"pais", "country_name"}},
	{canonical: "affiliate", aliases: []string{"afiliado", "affiliate_name", "aff"}},
}

// NormalizedTable is the outcome of schema normalization: rows rekeyed to
// canonical column names, plus any required fields that could not be
// resolved (the caller fails that source's load, not the pipeline).
type NormalizedTable struct {
	Rows    []RawRecord
	Missing []string
}

// NormalizeSchema lower-cases and trims every column name, then maps known
// aliases onto the canonical fields.
func NormalizeSchema(rows []RawRecord) NormalizedTable {
	lowered := make([]RawRecord, len(rows))
	columns := map[string]struct{}{}
	for i, row := range rows {
		out := make(RawRecord, len(row))
		for k, v := range row {
			key := strings.ToLower(strings.TrimSpace(k))
			out[key] = v
			columns[key] = struct{}{}
		}
		lowered[i] = out
	}

	rename := map[string]string{} // actual -> canonical
	var missing []string
	for _, fa := range columnAliases {
		if _, ok := columns[fa.canonical]; ok {
			continue
		}
		found := ""
		for _, alias := range fa.aliases {
			if _, ok := columns[alias]; ok {
				found = alias
				break
			}
		}
		switch {
		case found != "":
			rename[found] = fa.canonical
		case fa.synthesize:
			for _, row := range lowered {
				row[fa.canonical] = ""
			}
		case fa.required:
			missing = append(missing, fa.canonical)
		}
	}

	for _, row := range lowered {
		for actual, canonical := range rename {
			if v, ok := row[actual]; ok {
				row[canonical] = v
				delete(row, actual)
			}
		}
	}

	return NormalizedTable{Rows: lowered, Missing: missing}
}
