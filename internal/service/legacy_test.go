package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"ltvreport/internal/config"
	"ltvreport/internal/pipeline"
)

func legacyRow(label, date, amount, ftds, ltv string) pipeline.RawRecord {
	return pipeline.RawRecord{
		"pais":      label,
		"fecha":     date,
		"afiliado":  amount,
		"usd_total": ftds,
		"count_ftd": ltv,
	}
}

func testLegacyConfig() config.LegacyConfig {
	return config.LegacyConfig{
		Table:     "general_ltv",
		Countries: []string{"Argentina", "Colombia", "Costa Rica", "Ecuador", "Mexico", "Peru"},
	}
}

func TestLegacyServiceRebuild(t *testing.T) {
	t.Parallel()

	primary := &stubSource{tables: map[string][]pipeline.RawRecord{
		"general_ltv": {
			legacyRow("Mexico", "", "", "", ""),
			legacyRow("alpha", "2024-01-02", "100", "4", "0"),
			legacyRow("alpha", "2024-01-02", "100", "4", "0"),
			legacyRow("Total General", "2024-01-31", "100", "4", "25"),
		},
	}}

	svc := NewLegacyService(testLogger(t), primary, nil, testLegacyConfig())
	summary, err := svc.Rebuild(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, summary.Rows)
	require.Equal(t, 4, summary.Input)
	require.Equal(t, 1, summary.Duplicates)
	require.Equal(t, 1, summary.SentinelRows)
	require.Equal(t, 1, summary.CountryLabels)
	require.NotNil(t, summary.RebuiltAt)

	rows, total := svc.Rows(10, 0)
	require.Equal(t, 1, total)
	require.Len(t, rows, 1)
	require.Equal(t, "Alpha", rows[0].Affiliate)
	require.Equal(t, "Mexico", *rows[0].Country)

	require.Equal(t, summary, svc.Summary())
}

func TestLegacyServiceRebuildSourceDown(t *testing.T) {
	t.Parallel()

	primary := &stubSource{err: errors.New("connection refused")}
	svc := NewLegacyService(testLogger(t), primary, nil, testLegacyConfig())
	_, err := svc.Rebuild(context.Background())
	require.Error(t, err)

	_, total := svc.Rows(10, 0)
	require.Zero(t, total)
}

func TestLegacyServiceRowsPagination(t *testing.T) {
	t.Parallel()

	primary := &stubSource{tables: map[string][]pipeline.RawRecord{
		"general_ltv": {
			legacyRow("Peru", "", "", "", ""),
			legacyRow("alpha", "2024-01-01", "10", "1", "0"),
			legacyRow("beta", "2024-01-02", "20", "1", "0"),
			legacyRow("gamma", "2024-01-03", "30", "1", "0"),
		},
	}}

	svc := NewLegacyService(testLogger(t), primary, nil, testLegacyConfig())
	_, err := svc.Rebuild(context.Background())
	require.NoError(t, err)

	rows, total := svc.Rows(2, 0)
	require.Equal(t, 3, total)
	require.Len(t, rows, 2)
	require.Equal(t, "Alpha", rows[0].Affiliate)

	rows, _ = svc.Rows(2, 2)
	require.Len(t, rows, 1)
	require.Equal(t, "Gamma", rows[0].Affiliate)

	rows, _ = svc.Rows(2, 10)
	require.Empty(t, rows)

	rows, _ = svc.Rows(0, 0)
	require.Len(t, rows, 3, "non-positive limit returns everything")
}
