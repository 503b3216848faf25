package csvsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchTable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	csv := "fecha, monto ,pais\n" +
		"2024-01-03,100,mexico\n" +
		"2024-01-04,80\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ftd.csv"), []byte(csv), 0o644))

	rows, err := New(dir).FetchTable(context.Background(), "ftd")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, "2024-01-03", rows[0]["fecha"])
	require.Equal(t, "100", rows[0]["monto"], "header names are trimmed")
	require.Equal(t, "mexico", rows[0]["pais"])

	require.Equal(t, "", rows[1]["pais"], "short rows pad missing cells")
}

func TestFetchTableMissingFile(t *testing.T) {
	t.Parallel()

	_, err := New(t.TempDir()).FetchTable(context.Background(), "nope")
	require.Error(t, err)
}

func TestFetchTableEmptyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.csv"), nil, 0o644))

	_, err := New(dir).FetchTable(context.Background(), "empty")
	require.Error(t, err, "a file without a header row cannot be mapped")
}
