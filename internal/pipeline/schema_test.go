package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeSchemaAliases(t *testing.T) {
	t.Parallel()

	rows := []RawRecord{{
		"Fecha":    "15/03/2024",
		"Monto":    "1.234,56",
		"Pais":     "mexico",
		"Afiliado": "alpha",
		"Tipo":     "FTD",
	}}

	got := NormalizeSchema(rows)
	require.Empty(t, got.Missing)
	require.Len(t, got.Rows, 1)

	row := got.Rows[0]
	require.Equal(t, "15/03/2024", row["date"])
	require.Equal(t, "1.234,56", row["usd_total"])
	require.Equal(t, "mexico", row["country"])
	require.Equal(t, "alpha", row["affiliate"])
	require.Equal(t, "FTD", row["deposit_type"])

	// source never existed, so it is synthesized empty
	v, ok := row["source"]
	require.True(t, ok)
	require.Empty(t, v)
}

func TestNormalizeSchemaCanonicalWins(t *testing.T) {
	t.Parallel()

	rows := []RawRecord{{
		"date":       "2024-01-01",
		"created_at": "2024-06-06",
		"usd_total":  "10",
	}}

	got := NormalizeSchema(rows)
	require.Empty(t, got.Missing)
	require.Equal(t, "2024-01-01", got.Rows[0]["date"], "existing canonical column is never overwritten by an alias")
	require.Equal(t, "2024-06-06", got.Rows[0]["created_at"])
}

func TestNormalizeSchemaMissingRequired(t *testing.T) {
	t.Parallel()

	got := NormalizeSchema([]RawRecord{{"pais": "Peru", "afiliado": "alpha"}})
	require.ElementsMatch(t, []string{"date", "usd_total"}, got.Missing)
}

func TestNormalizeSchemaEmptyInput(t *testing.T) {
	t.Parallel()

	got := NormalizeSchema(nil)
	require.Empty(t, got.Rows)
	require.ElementsMatch(t, []string{"date", "usd_total"}, got.Missing,
		"a table with no rows resolves no columns at all")
}
