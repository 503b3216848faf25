package pipeline

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCleanForcedType(t *testing.T) {
	t.Parallel()

	rows := []RawRecord{
		{"date": "15/03/2024", "usd_total": "1.234,56", "country": "mexico", "affiliate": "ALPHA MEDIA", "source": "fb ads"},
		{"date": "not a date", "usd_total": "10"},
		{"date": "2024-03-16", "usd_total": "oops", "country": "nan", "affiliate": "", "source": "None"},
	}

	got, stats := Clean(rows, FTD)
	require.Len(t, got, 2)
	require.Equal(t, 3, stats.Input)
	require.Equal(t, 2, stats.Kept)
	require.Equal(t, 1, stats.DroppedDates)
	require.Equal(t, 1, stats.DefaultedAmounts)

	first := got[0]
	require.Equal(t, FTD, first.Type)
	require.True(t, decimal.RequireFromString("1234.56").Equal(first.USDTotal))
	require.NotNil(t, first.Country)
	require.Equal(t, "Mexico", *first.Country)
	require.NotNil(t, first.Affiliate)
	require.Equal(t, "Alpha Media", *first.Affiliate)
	require.NotNil(t, first.Source)
	require.Equal(t, "Fb Ads", *first.Source)
	require.False(t, first.AmountDefaulted)

	second := got[1]
	require.Nil(t, second.Country, "nan collapses to nil")
	require.Nil(t, second.Affiliate, "empty collapses to nil")
	require.Nil(t, second.Source, "none collapses to nil")
	require.True(t, second.USDTotal.IsZero())
	require.True(t, second.AmountDefaulted)
}

func TestCleanDepositTypeColumn(t *testing.T) {
	t.Parallel()

	rows := []RawRecord{
		{"date": "2024-01-01", "usd_total": "10", "deposit_type": "ftd"},
		{"date": "2024-01-02", "usd_total": "20", "deposit_type": "FTD"},
		{"date": "2024-01-03", "usd_total": "30", "deposit_type": "redeposit"},
		{"date": "2024-01-04", "usd_total": "40", "deposit_type": ""},
	}

	got, _ := Clean(rows, "")
	require.Len(t, got, 4)
	require.Equal(t, FTD, got[0].Type)
	require.Equal(t, FTD, got[1].Type)
	require.Equal(t, RTN, got[2].Type, "anything that is not an FTD counts as returning")
	require.Equal(t, RTN, got[3].Type)
}
