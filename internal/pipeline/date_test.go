package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		name string
		in   string
		want time.Time
		ok   bool
	}{
		{name: "slash day first", in: "15/03/2024", want: day(2024, time.March, 15), ok: true},
		{name: "slash single digits", in: "3/4/2024", want: day(2024, time.April, 3), ok: true},
		{name: "iso", in: "2024-03-15", want: day(2024, time.March, 15), ok: true},
		{name: "iso with time", in: "2024-03-15 10:22:01", want: day(2024, time.March, 15), ok: true},
		{name: "iso with t separator", in: "2024-03-15T10:22:01Z", want: day(2024, time.March, 15), ok: true},
		{name: "iso unpadded", in: "2024-3-5", want: day(2024, time.March, 5), ok: true},
		{name: "trimmed", in: " 15/03/2024 ", want: day(2024, time.March, 15), ok: true},
		{name: "month out of range", in: "15/13/2024", ok: false},
		{name: "slash month first rejected", in: "03/15/2024", ok: false},
		{name: "empty", in: "", ok: false},
		{name: "garbage", in: "yesterday", ok: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseDate(tc.in)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				require.True(t, got.Equal(tc.want), "got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestMonthEnd(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{in: "2024-01-15", want: "2024-01-31"},
		{in: "2024-02-10", want: "2024-02-29"},
		{in: "2023-02-10", want: "2023-02-28"},
		{in: "2024-12-01", want: "2024-12-31"},
		{in: "2024-04-30", want: "2024-04-30"},
	}

	for _, tc := range cases {
		in, ok := ParseDate(tc.in)
		require.True(t, ok)
		want, ok := ParseDate(tc.want)
		require.True(t, ok)
		require.True(t, MonthEnd(in).Equal(want), "MonthEnd(%s) = %s, want %s", tc.in, MonthEnd(in), want)
	}
}
